// Package jsondiff computes order-insensitive structural diffs between two
// parsed JSON trees. Object keys and array element order never count as
// changes; value identity and nesting path do.
package jsondiff

import (
	"fmt"
	"reflect"
	"sort"
)

// Kind classifies a single structural change.
type Kind string

const (
	Added   Kind = "added"
	Removed Kind = "removed"
	Changed Kind = "changed"
)

// Change is one structural difference between the old and new tree,
// addressed by its full path.
type Change struct {
	Kind Kind
	Path string
	Old  any
	New  any
}

// TreeDiffer defines the interface for structural tree comparison.
type TreeDiffer interface {
	// Diff compares two JSON trees and returns the typed change records
	Diff(oldVal, newVal any) []Change
}

// Differ handles structural JSON diffing.
type Differ struct{}

// Ensure Differ implements TreeDiffer
var _ TreeDiffer = (*Differ)(nil)

// NewDiffer creates a new differ.
func NewDiffer() *Differ {
	return &Differ{}
}

// Diff compares two JSON trees. Output is deterministic: object keys are
// walked sorted and array indices in order.
func (d *Differ) Diff(oldVal, newVal any) []Change {
	return diffValue("", oldVal, newVal)
}

func diffValue(path string, oldVal, newVal any) []Change {
	switch oldTyped := oldVal.(type) {
	case map[string]any:
		if newTyped, ok := newVal.(map[string]any); ok {
			return diffObject(path, oldTyped, newTyped)
		}
	case []any:
		if newTyped, ok := newVal.([]any); ok {
			return diffArray(path, oldTyped, newTyped)
		}
	}
	if Equal(oldVal, newVal) {
		return nil
	}
	return []Change{{Kind: Changed, Path: path, Old: oldVal, New: newVal}}
}

func diffObject(path string, oldObj, newObj map[string]any) []Change {
	var changes []Change
	for _, key := range sortedKeys(oldObj) {
		childPath := joinPath(path, key)
		newChild, ok := newObj[key]
		if !ok {
			changes = append(changes, Change{Kind: Removed, Path: childPath, Old: oldObj[key]})
			continue
		}
		changes = append(changes, diffValue(childPath, oldObj[key], newChild)...)
	}
	for _, key := range sortedKeys(newObj) {
		if _, ok := oldObj[key]; !ok {
			changes = append(changes, Change{Kind: Added, Path: joinPath(path, key), New: newObj[key]})
		}
	}
	return changes
}

// diffArray compares arrays as multisets: each old element consumes one
// deep-equal new element, leftovers become removals and additions. An
// element that changed in place therefore reports as one removal plus one
// addition.
func diffArray(path string, oldArr, newArr []any) []Change {
	used := make([]bool, len(newArr))
	var changes []Change

	for i, oldElem := range oldArr {
		matched := false
		for j, newElem := range newArr {
			if !used[j] && Equal(oldElem, newElem) {
				used[j] = true
				matched = true
				break
			}
		}
		if !matched {
			changes = append(changes, Change{Kind: Removed, Path: indexPath(path, i), Old: oldElem})
		}
	}
	for j, newElem := range newArr {
		if !used[j] {
			changes = append(changes, Change{Kind: Added, Path: indexPath(path, j), New: newElem})
		}
	}
	return changes
}

// Equal reports whether two JSON trees are semantically equal under
// reordering of object keys and array elements.
func Equal(a, b any) bool {
	switch aTyped := a.(type) {
	case map[string]any:
		bTyped, ok := b.(map[string]any)
		if !ok || len(aTyped) != len(bTyped) {
			return false
		}
		for key, aVal := range aTyped {
			bVal, ok := bTyped[key]
			if !ok || !Equal(aVal, bVal) {
				return false
			}
		}
		return true
	case []any:
		bTyped, ok := b.([]any)
		if !ok || len(aTyped) != len(bTyped) {
			return false
		}
		used := make([]bool, len(bTyped))
		for _, aVal := range aTyped {
			matched := false
			for j, bVal := range bTyped {
				if !used[j] && Equal(aVal, bVal) {
					used[j] = true
					matched = true
					break
				}
			}
			if !matched {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(a, b)
	}
}

func sortedKeys(obj map[string]any) []string {
	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func indexPath(path string, index int) string {
	return fmt.Sprintf("%s[%d]", path, index)
}

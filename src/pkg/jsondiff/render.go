package jsondiff

import (
	"encoding/json"
	"fmt"
)

// Render formats changes as human-readable lines, one per change, in input
// order.
func Render(changes []Change) []string {
	lines := make([]string, 0, len(changes))
	for _, change := range changes {
		lines = append(lines, change.String())
	}
	return lines
}

// String renders one change with its full structural path and, for value
// changes, the old and new values.
func (c Change) String() string {
	switch c.Kind {
	case Added:
		return fmt.Sprintf("added %q with value %s", c.Path, encode(c.New))
	case Removed:
		return fmt.Sprintf("removed %q (was %s)", c.Path, encode(c.Old))
	default:
		return fmt.Sprintf("value of %q changed from %s to %s", c.Path, encode(c.Old), encode(c.New))
	}
}

func encode(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	return string(data)
}

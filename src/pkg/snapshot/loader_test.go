package snapshot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gh-nvat/release-updatez/src/pkg/jsondiff"
)

// stubStasher swaps file content around the callback instead of driving a
// real git stash.
type stubStasher struct {
	stash   func() error
	unstash func() error
	err     error
}

func (s *stubStasher) AddAll(ctx context.Context) error { return nil }

func (s *stubStasher) StagedFiles(ctx context.Context) ([]string, error) { return nil, nil }

func (s *stubStasher) WithStashed(ctx context.Context, fn func() error) error {
	if s.err != nil {
		return s.err
	}
	if s.stash != nil {
		if err := s.stash(); err != nil {
			return err
		}
	}
	err := fn()
	if s.unstash != nil {
		if unstashErr := s.unstash(); unstashErr != nil {
			return errors.Join(err, unstashErr)
		}
	}
	return err
}

func TestLoadFiles_MissingFileIsEmptyObject(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader(&stubStasher{}, dir)

	content, err := loader.LoadFiles([]string{"absent.json"})
	if err != nil {
		t.Fatalf("LoadFiles() error = %v", err)
	}

	value, ok := content["absent.json"].(map[string]any)
	if !ok || len(value) != 0 {
		t.Errorf("LoadFiles() missing file = %v, want empty object", content["absent.json"])
	}
}

func TestLoadFiles_ParsesJSON(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "alpha.json"), []byte(`{"v":1}`), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	loader := NewLoader(&stubStasher{}, dir)
	content, err := loader.LoadFiles([]string{"alpha.json"})
	if err != nil {
		t.Fatalf("LoadFiles() error = %v", err)
	}

	if !jsondiff.Equal(content["alpha.json"], map[string]any{"v": float64(1)}) {
		t.Errorf("LoadFiles() = %v, want {v:1}", content["alpha.json"])
	}
}

func TestLoadFiles_Idempotent(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "alpha.json"), []byte(`{"a":[1,2],"b":"x"}`), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	loader := NewLoader(&stubStasher{}, dir)
	first, err := loader.LoadFiles([]string{"alpha.json"})
	if err != nil {
		t.Fatalf("LoadFiles() error = %v", err)
	}
	second, err := loader.LoadFiles([]string{"alpha.json"})
	if err != nil {
		t.Fatalf("LoadFiles() second call error = %v", err)
	}

	if !jsondiff.Equal(first["alpha.json"], second["alpha.json"]) {
		t.Errorf("LoadFiles() not idempotent: %v vs %v", first, second)
	}
}

func TestLoadFiles_InvalidJSONFails(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`{broken`), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	loader := NewLoader(&stubStasher{}, dir)
	if _, err := loader.LoadFiles([]string{"bad.json"}); err == nil {
		t.Error("LoadFiles() expected error for invalid JSON")
	}
}

func TestLoadPair_NewBeforeStashOldDuring(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "alpha.json")
	if err := os.WriteFile(path, []byte(`{"v":2}`), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	// The stub reverts the file for the duration of the callback, mimicking
	// the stash window.
	stasher := &stubStasher{
		stash:   func() error { return os.WriteFile(path, []byte(`{"v":1}`), 0644) },
		unstash: func() error { return os.WriteFile(path, []byte(`{"v":2}`), 0644) },
	}

	loader := NewLoader(stasher, dir)
	oldContent, newContent, err := loader.LoadPair(context.Background(), []string{"alpha.json"})
	if err != nil {
		t.Fatalf("LoadPair() error = %v", err)
	}

	if !jsondiff.Equal(oldContent["alpha.json"], map[string]any{"v": float64(1)}) {
		t.Errorf("old content = %v, want {v:1}", oldContent["alpha.json"])
	}
	if !jsondiff.Equal(newContent["alpha.json"], map[string]any{"v": float64(2)}) {
		t.Errorf("new content = %v, want {v:2}", newContent["alpha.json"])
	}
}

func TestLoadPair_StashFailurePropagates(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "alpha.json"), []byte(`{}`), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	wantErr := errors.New("git stash timed out")
	loader := NewLoader(&stubStasher{err: wantErr}, dir)

	if _, _, err := loader.LoadPair(context.Background(), []string{"alpha.json"}); !errors.Is(err, wantErr) {
		t.Errorf("LoadPair() error = %v, want %v", err, wantErr)
	}
}

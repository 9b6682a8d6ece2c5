package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteTree writes files under dir, creating parent directories as needed.
// Keys are slash-separated paths relative to dir. It returns dir.
func WriteTree(t testing.TB, dir string, files map[string]string) string {
	t.Helper()

	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("creating directory for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
	return dir
}

// TempTree writes files into a fresh temporary directory and returns it.
func TempTree(t testing.TB, files map[string]string) string {
	t.Helper()
	return WriteTree(t, t.TempDir(), files)
}

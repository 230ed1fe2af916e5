package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"adujour/internal/site"
)

// WriteTree materializes the given relative-path/content pairs under
// root, creating parent directories as needed.
func WriteTree(t testing.TB, root string, files map[string]string) {
	t.Helper()
	for rel, contents := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", p, err)
		}
		if err := os.WriteFile(p, []byte(contents), 0o644); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}
}

// WriteArtifact writes a minimal publishable artifact tree plus any
// extra files into dir.
func WriteArtifact(t testing.TB, dir string, extra map[string]string) {
	t.Helper()
	files := map[string]string{
		site.EntryFile: "<html><body>albums</body></html>",
		"styles.css":   "body { margin: 0 }",
		"scripts.js":   "document.title",
	}
	for rel, contents := range extra {
		files[rel] = contents
	}
	WriteTree(t, dir, files)
}

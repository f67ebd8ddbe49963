package scan

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeTree creates files under root. Keys ending in "/" are directories,
// keys containing "->" are symlinks ("link->target"), everything else is a file
// of the given size.
func writeTree(t *testing.T, root string, tree map[string]int) {
	t.Helper()

	for name, size := range tree {
		switch {
		case strings.Contains(name, "->"):
			parts := strings.SplitN(name, "->", 2)
			link := filepath.Join(root, filepath.FromSlash(parts[0]))

			if err := os.MkdirAll(filepath.Dir(link), 0o755); err != nil {
				t.Fatal(err)
			}

			if err := os.Symlink(parts[1], link); err != nil {
				t.Skipf("symlinks unavailable: %v", err)
			}
		case strings.HasSuffix(name, "/"):
			if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(name)), 0o755); err != nil {
				t.Fatal(err)
			}
		default:
			path := filepath.Join(root, filepath.FromSlash(name))
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				t.Fatal(err)
			}

			if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
				t.Fatal(err)
			}
		}
	}
}

// fixtureRoot returns a resolved temporary directory.
func fixtureRoot(t *testing.T) string {
	t.Helper()

	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	return root
}

func equalSizes(a, b map[string]int64) bool {
	if len(a) != len(b) {
		return false
	}

	for k, v := range a {
		if w, ok := b[k]; !ok || w != v {
			return false
		}
	}

	return true
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()

	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}

package testsupport

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

// LoadFixture reads a file relative to the calling package.
func LoadFixture(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// MustFixture reads a fixture or fails the test.
func MustFixture(t testing.TB, path string) []byte {
	t.Helper()
	data, err := LoadFixture(path)
	if err != nil {
		t.Fatalf("load fixture %s: %v", path, err)
	}
	return data
}

// ThemeFS mounts theme manifests from testdata under the given directory names.
// Keys are target directories, values are fixture theme names under testdata/.
func ThemeFS(t testing.TB, mounts map[string]string) fstest.MapFS {
	t.Helper()
	fsys := fstest.MapFS{}
	for dir, fixture := range mounts {
		fsys[dir+"/theme.md"] = &fstest.MapFile{Data: MustFixture(t, filepath.Join("testdata", fixture, "theme.md"))}
	}
	return fsys
}

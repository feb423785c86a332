package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/composer-merge/pkg/document"
	"github.com/arthur-debert/composer-merge/pkg/paths"
)

// Isolate keeps a test away from the user's configuration and git checkout.
// It returns the temp directory standing in for the repository root.
func Isolate(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	t.Setenv(paths.EnvRepoRoot, root)
	t.Setenv(paths.EnvConfigDir, filepath.Join(root, "config"))
	t.Setenv(paths.EnvStateDir, filepath.Join(root, "state"))
	return root
}

// CreateFile creates a file with the given content in the specified directory.
// It fails the test if the file cannot be created.
func CreateFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create parent directories for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create file %s: %v", path, err)
	}
	return path
}

// ReadFile reads the content of a file and returns it as a string.
// It fails the test if the file cannot be read.
func ReadFile(t *testing.T, path string) string {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

// AssertFileContent checks that a file exists and has the expected content.
func AssertFileContent(t *testing.T, path, expected string) {
	t.Helper()

	actual := ReadFile(t, path)
	if actual != expected {
		t.Errorf("File %s content mismatch\nExpected: %q\nActual: %q", path, expected, actual)
	}
}

// Versions holds the three inputs of a merge
type Versions struct {
	Ancestor string
	Ours     string
	Theirs   string
}

// Write stores the versions the way git does before calling a merge driver:
// ours under name, the other two in temp files next to it. It returns the
// ancestor, ours and theirs paths.
func (v Versions) Write(t *testing.T, dir, name string) (string, string, string) {
	t.Helper()

	return CreateFile(t, dir, ".merge_file_ancestor", v.Ancestor),
		CreateFile(t, dir, name, v.Ours),
		CreateFile(t, dir, ".merge_file_theirs", v.Theirs)
}

// Lines joins lines and terminates the last one
func Lines(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

// Parse parses inline JSON and fails the test on error
func Parse(t *testing.T, s string) document.Value {
	t.Helper()

	v, err := document.Parse([]byte(s))
	if err != nil {
		t.Fatalf("Failed to parse fixture %q: %v", s, err)
	}
	return v
}

// Compact renders v on one line and fails the test on error
func Compact(t *testing.T, v document.Value) string {
	t.Helper()

	out, err := document.MarshalCompact(v)
	if err != nil {
		t.Fatalf("Failed to encode value: %v", err)
	}
	return out
}

package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func TestFileProcessor_WalkFiles(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"a.c":          "",
		"a.i":          "",
		"b.c":          "",
		"sub/c.c":      "",
		"sub/deep/d.c": "",
		".git/e.c":     "",
	})

	fp := NewFileProcessor()

	t.Run("top level only", func(t *testing.T) {
		files, err := fp.WalkFiles(tmpDir, FileWalkOptions{FileFilter: ExtensionFilter(".c")})
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(tmpDir, "a.c"),
			filepath.Join(tmpDir, "b.c"),
		}, files)
	})

	t.Run("recursive with directory filter", func(t *testing.T) {
		files, err := fp.WalkFiles(tmpDir, FileWalkOptions{
			FileFilter:      ExtensionFilter(".c"),
			DirectoryFilter: DefaultDirectoryFilter(),
			Recursive:       true,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(tmpDir, "a.c"),
			filepath.Join(tmpDir, "b.c"),
			filepath.Join(tmpDir, "sub", "c.c"),
			filepath.Join(tmpDir, "sub", "deep", "d.c"),
		}, files)
	})

	t.Run("missing root", func(t *testing.T) {
		_, err := fp.WalkFiles(filepath.Join(tmpDir, "missing"), FileWalkOptions{})
		assert.Error(t, err)
	})
}

func TestFileProcessor_FilesBeforeSubdirectories(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"a/x.c":   "",
		"a/b/y.c": "",
		"a/z.c":   "",
		"b.c":     "",
	})

	files, err := NewFileProcessor().WalkFiles(tmpDir, FileWalkOptions{
		FileFilter: ExtensionFilter(".c"),
		Recursive:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(tmpDir, "b.c"),
		filepath.Join(tmpDir, "a", "x.c"),
		filepath.Join(tmpDir, "a", "z.c"),
		filepath.Join(tmpDir, "a", "b", "y.c"),
	}, files)
}

func TestFileProcessor_FindFirst(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"a.txt":       "nope",
		"x/y/b.txt":   "yes",
		"x/y/z/c.txt": "yes",
	})

	fp := NewFileProcessor()
	opts := FileWalkOptions{FileFilter: RegularFileFilter(), Recursive: true}

	var visited []string
	found, err := fp.FindFirst(tmpDir, opts, func(path string) (bool, error) {
		visited = append(visited, path)
		data, err := os.ReadFile(path)
		return string(data) == "yes", err
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "x", "y", "b.txt"), found)
	assert.Len(t, visited, 2, "walk should stop at the first match")

	found, err = fp.FindFirst(tmpDir, opts, func(string) (bool, error) { return false, nil })
	require.NoError(t, err)
	assert.Empty(t, found)
}

package utils

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileProcessor provides utilities for common file walking operations
type FileProcessor struct{}

// NewFileProcessor creates a new file processor
func NewFileProcessor() *FileProcessor {
	return &FileProcessor{}
}

// FileFilter defines a function that determines whether a file should be processed
type FileFilter func(path string, info fs.DirEntry) bool

// DirectoryFilter defines a function that determines whether a directory should be descended into
type DirectoryFilter func(path string, info fs.DirEntry) bool

// FileWalkOptions configures file walking behavior
type FileWalkOptions struct {
	FileFilter      FileFilter
	DirectoryFilter DirectoryFilter
	// Recursive descends into subdirectories of the root when true
	Recursive  bool
	SkipErrors bool
}

// errStopWalk ends a walk early without reporting an error
var errStopWalk = errors.New("stop walk")

// RegularFileFilter accepts regular files only (no directories, symlinks or devices)
func RegularFileFilter() FileFilter {
	return func(path string, info fs.DirEntry) bool {
		return info.Type().IsRegular()
	}
}

// ExtensionFilter accepts regular files with the given extension (".c", ".i")
func ExtensionFilter(ext string) FileFilter {
	return func(path string, info fs.DirEntry) bool {
		return info.Type().IsRegular() && filepath.Ext(info.Name()) == ext
	}
}

// DefaultDirectoryFilter skips version control and hidden directories
func DefaultDirectoryFilter() DirectoryFilter {
	skipDirs := map[string]bool{
		".git": true,
		".svn": true,
		".hg":  true,
	}

	return func(path string, info fs.DirEntry) bool {
		name := info.Name()
		if strings.HasPrefix(name, ".") && name != "." && name != ".." {
			return false
		}
		return !skipDirs[name]
	}
}

// WalkFiles walks through files in a directory tree, a directory's own files
// before its subdirectories, and returns the paths accepted by the file filter
func (fp *FileProcessor) WalkFiles(rootDir string, options FileWalkOptions) ([]string, error) {
	var matchedFiles []string

	err := fp.walk(rootDir, options, func(path string) error {
		matchedFiles = append(matchedFiles, path)
		return nil
	})

	return matchedFiles, err
}

// FindFirst walks the tree like WalkFiles and returns the first accepted file
// for which match reports true. The empty string means nothing matched.
func (fp *FileProcessor) FindFirst(rootDir string, options FileWalkOptions, match func(path string) (bool, error)) (string, error) {
	var found string

	err := fp.walk(rootDir, options, func(path string) error {
		ok, err := match(path)
		if err != nil {
			return err
		}
		if ok {
			found = path
			return errStopWalk
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStopWalk) {
		return "", err
	}

	return found, nil
}

// walk visits the files of a directory before descending into its
// subdirectories, each in lexical order
func (fp *FileProcessor) walk(dir string, options FileWalkOptions, visit func(path string) error) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if options.SkipErrors {
			return nil
		}
		return err
	}

	var subdirs []fs.DirEntry
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			subdirs = append(subdirs, entry)
			continue
		}
		if options.FileFilter != nil && !options.FileFilter(path, entry) {
			continue
		}
		if err := visit(path); err != nil {
			return err
		}
	}

	if !options.Recursive {
		return nil
	}

	for _, entry := range subdirs {
		path := filepath.Join(dir, entry.Name())
		if options.DirectoryFilter != nil && !options.DirectoryFilter(path, entry) {
			continue
		}
		if err := fp.walk(path, options, visit); err != nil {
			return err
		}
	}

	return nil
}

package doccomments

import (
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/kalisko/kbuild/internal/errors"
	"github.com/kalisko/kbuild/internal/utils"
)

// Pair is a .c file and the .i file next to it with the same base name
type Pair struct {
	CFile string
	IFile string
}

// Reporter receives progress output. utils.DiagnosticSystem satisfies it.
type Reporter interface {
	Info(format string, args ...interface{})
	Verbose(format string, args ...interface{})
	Progress(format string, args ...interface{})
}

// Options configures a Mover
type Options struct {
	// Recursive searches subdirectories as well
	Recursive bool
	// DryRun computes changes without writing them
	DryRun bool
	// RespectGitignore skips paths matched by the .gitignore at the search root
	RespectGitignore bool
}

// FindPairs returns every (x.c, x.i) pair in dir, in walk order
func FindPairs(dir string, opts Options) ([]Pair, error) {
	walk := utils.FileWalkOptions{
		FileFilter: utils.ExtensionFilter(".c"),
		Recursive:  opts.Recursive,
	}

	if opts.RespectGitignore {
		gi, err := loadGitignore(dir)
		if err != nil {
			return nil, err
		}
		if gi != nil {
			ignored := func(path string) bool {
				trailing := strings.HasSuffix(path, "/")
				rel, err := filepath.Rel(dir, strings.TrimSuffix(path, "/"))
				if err != nil {
					return false
				}
				rel = filepath.ToSlash(rel)
				if trailing {
					rel += "/"
				}
				return gi.MatchesPath(rel)
			}
			cfiles := walk.FileFilter
			walk.FileFilter = func(path string, entry os.DirEntry) bool {
				return cfiles(path, entry) && !ignored(path)
			}
			walk.DirectoryFilter = func(path string, entry os.DirEntry) bool {
				return entry.Name() != ".git" && !ignored(path) && !ignored(path+"/")
			}
		}
	}

	cfiles, err := utils.NewFileProcessor().WalkFiles(dir, walk)
	if err != nil {
		return nil, errors.WrapFileSystemError("scan", dir, err)
	}

	var pairs []Pair
	for _, cfile := range cfiles {
		ifile := strings.TrimSuffix(cfile, ".c") + ".i"
		if info, err := os.Stat(ifile); err == nil && info.Mode().IsRegular() {
			pairs = append(pairs, Pair{CFile: cfile, IFile: ifile})
		}
	}
	return pairs, nil
}

// loadGitignore compiles dir/.gitignore, returning nil when there is none
func loadGitignore(dir string) (*ignore.GitIgnore, error) {
	path := filepath.Join(dir, ".gitignore")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil, errors.WrapFileSystemError("parse", path, err)
	}
	return gi, nil
}

// Mover applies ProcessPair to every pair found in a directory
type Mover struct {
	opts     Options
	reporter Reporter
}

// NewMover creates a mover
func NewMover(opts Options, reporter Reporter) *Mover {
	return &Mover{opts: opts, reporter: reporter}
}

// Run processes every pair under dir and, unless this is a dry run, writes
// both files of each pair. Processing stops at the first error.
func (m *Mover) Run(dir string) ([]*PairResult, error) {
	pairs, err := FindPairs(dir, m.opts)
	if err != nil {
		return nil, err
	}

	var results []*PairResult
	for _, pair := range pairs {
		m.reporter.Info("Processing file pair: (%s, %s)", pair.CFile, pair.IFile)

		result, err := ProcessPair(pair.CFile, pair.IFile)
		if err != nil {
			return results, err
		}
		for _, fn := range result.Moved {
			m.reporter.Verbose("Moving doc comment for function: %s", fn)
		}

		if !m.opts.DryRun {
			if err := writeFile(pair.CFile, result.NewC); err != nil {
				return results, err
			}
			if err := writeFile(pair.IFile, result.NewI); err != nil {
				return results, err
			}
			m.reporter.Progress("Wrote %s and %s", pair.CFile, pair.IFile)
		}

		results = append(results, result)
	}

	return results, nil
}

// writeFile replaces the contents of path, keeping its permissions
func writeFile(path, content string) error {
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return errors.WrapFileSystemError("write", path, err)
	}
	return nil
}

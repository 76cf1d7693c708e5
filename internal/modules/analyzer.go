package modules

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kalisko/kbuild/internal/dag"
	"github.com/kalisko/kbuild/internal/errors"
	"github.com/kalisko/kbuild/internal/utils"
)

// Analyzer answers questions about the modules below a module root
type Analyzer struct {
	root  string
	files *utils.FileProcessor
	names *utils.ValidatorChain[string]
}

// NewAnalyzer creates an analyzer for root. No I/O happens until a query is made.
func NewAnalyzer(root string) *Analyzer {
	return &Analyzer{
		root:  root,
		files: utils.NewFileProcessor(),
		names: utils.NewValidatorChain(
			utils.Custom("module", "cannot be empty", func(name string) bool {
				return name != ""
			}),
			utils.NoneOf("module", "/", string(filepath.Separator)),
			utils.Custom("module", "must name a directory entry", func(name string) bool {
				return name != "." && name != ".."
			}),
		),
	}
}

// Root returns the module root directory
func (a *Analyzer) Root() string {
	return a.root
}

// All returns the name of every entry directly under the module root, sorted
func (a *Analyzer) All() ([]string, error) {
	entries, err := os.ReadDir(a.root)
	if err != nil {
		return nil, errors.WrapFileSystemError("list module root", a.root, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names, nil
}

// Exists reports whether a directory called name sits directly under the module root
func (a *Analyzer) Exists(name string) bool {
	if a.names.Validate(name) != nil {
		return false
	}
	info, err := os.Stat(filepath.Join(a.root, name))
	return err == nil && info.IsDir()
}

func (a *Analyzer) checkExists(name string) error {
	if !a.Exists(name) {
		return errors.NewModuleNotFoundError(name, a.root)
	}
	return nil
}

// ExpandRuntimeDeps returns the union of the transitive dependency closures of
// names. Each closure includes the module itself. Any missing module or
// declaration aborts the whole call.
func (a *Analyzer) ExpandRuntimeDeps(names []string) (Set, error) {
	result := NewSet()
	err := a.walkClosure(names, func(module string, _ Set) {
		result.Add(module)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Graph materializes the dependency subgraph reachable from names. An edge
// dep -> module means dep has to be built before module.
func (a *Analyzer) Graph(names []string) (*dag.Graph, error) {
	g := dag.New()
	err := a.walkClosure(names, func(module string, deps Set) {
		g.AddNode(module)
		for _, dep := range deps.Sorted() {
			g.AddEdge(dep, module)
		}
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// BuildOrder returns the closure of names ordered so that every module comes
// after all of its dependencies
func (a *Analyzer) BuildOrder(names []string) ([]string, error) {
	g, err := a.Graph(names)
	if err != nil {
		return nil, err
	}

	order, err := g.TopologicalSort()
	if err != nil {
		if cycleErr, ok := err.(*dag.CycleError); ok {
			return nil, errors.DependencyCycleError(cycleErr.Cycle, cycleErr)
		}
		return nil, err
	}
	return order, nil
}

// walkClosure visits every module reachable from names exactly once, passing
// its direct dependencies. The memo of loaded modules doubles as the visited
// set, which keeps cyclic graphs finite.
func (a *Analyzer) walkClosure(names []string, visit func(module string, deps Set)) error {
	memo := utils.NewCache[string, Set]()
	seen := func(module string) bool {
		_, ok := memo.Get(module)
		return ok
	}

	for _, name := range names {
		if err := a.checkExists(name); err != nil {
			return err
		}

		stack := []string{name}
		for len(stack) > 0 {
			module := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if seen(module) {
				continue
			}

			deps, err := memo.GetOrLoad(module, a.Deps)
			if err != nil {
				return err
			}
			visit(module, deps)

			sorted := deps.Sorted()
			for i := len(sorted) - 1; i >= 0; i-- {
				if !seen(sorted[i]) {
					stack = append(stack, sorted[i])
				}
			}
		}
	}

	return nil
}

// Deps returns the names of the modules name depends on directly
func (a *Analyzer) Deps(name string) (Set, error) {
	deps, err := a.Dependencies(name)
	if err != nil {
		return nil, err
	}

	result := NewSet()
	for _, dep := range deps {
		result.Add(dep.Name)
	}
	return result, nil
}

// Dependencies returns the direct dependency references of name with their
// recorded versions, deduplicated by name in order of first appearance
func (a *Analyzer) Dependencies(name string) ([]Dependency, error) {
	path, err := a.DeclarationFile(name)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapFileSystemError("open", path, err)
	}
	defer f.Close()

	var result []Dependency
	seen := NewSet()
	err = eachLine(f, func(line string) error {
		if !IsDependsLine(line) {
			return nil
		}
		deps, err := ExtractDependencies(line)
		if err != nil {
			return err
		}
		for _, dep := range deps {
			if seen.Has(dep.Name) {
				continue
			}
			seen.Add(dep.Name)
			result = append(result, dep)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WrapFileSystemError("read", path, err)
	}

	return result, nil
}

// DeclarationFile returns the path of the first file that contains the line
// MODULE_NAME("<name>"); terminated by a newline. A directory's own files are
// searched before its subdirectories.
func (a *Analyzer) DeclarationFile(name string) (string, error) {
	if err := a.checkExists(name); err != nil {
		return "", err
	}

	moduleDir := filepath.Join(a.root, name)
	marker := DeclarationLine(name)

	path, err := a.files.FindFirst(moduleDir, utils.FileWalkOptions{
		FileFilter: utils.RegularFileFilter(),
		Recursive:  true,
	}, func(path string) (bool, error) {
		return containsLine(path, marker)
	})
	if err != nil {
		return "", errors.WrapFileSystemError("search", moduleDir, err)
	}
	if path == "" {
		return "", errors.NewDeclarationNotFoundError(name, moduleDir)
	}

	return path, nil
}

// containsLine reports whether the file at path has a newline-terminated line
// equal to want. CRLF endings count as newlines.
func containsLine(path, want string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	found := false
	err = eachLine(f, func(line string) error {
		if !strings.HasSuffix(line, "\n") {
			return nil
		}
		if strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r") == want {
			found = true
			return io.EOF
		}
		return nil
	})
	if err != nil && err != io.EOF {
		return false, err
	}
	return found, nil
}

// eachLine calls fn for every line of r, newline included. Returning io.EOF
// from fn stops early without error.
func eachLine(r io.Reader, fn func(line string) error) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			if ferr := fn(line); ferr != nil {
				return ferr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// Package kic drives the Kalisko interface compiler over a source tree.
//
// The compiler itself is an opaque external program. The builder only decides
// which interfaces need compiling, builds the compiler when its binary is
// missing, and stops at the first failure.
package kic

import (
	"context"
	"os"
	"path/filepath"

	"github.com/kalisko/kbuild/internal/errors"
)

// compilerNames are the binary names probed in the compiler directory
var compilerNames = []string{"kic", "kic.exe"}

// Reporter receives progress output. utils.DiagnosticSystem satisfies it.
type Reporter interface {
	Info(format string, args ...interface{})
	Verbose(format string, args ...interface{})
	Progress(format string, args ...interface{})
}

// Options configures a Builder
type Options struct {
	// CompilerDir holds the compiler sources and, once built, the kic binary
	CompilerDir string
	// SourceRoot is searched for interfaces and is the compiler's working directory
	SourceRoot string
	// BuildCommand builds the compiler inside CompilerDir
	BuildCommand []string
}

// Result lists what a build did
type Result struct {
	CompilerBuilt bool
	Compiled      []Interface
	UpToDate      []Interface
}

// Builder compiles stale interfaces
type Builder struct {
	opts     Options
	runner   Runner
	reporter Reporter
}

// NewBuilder creates a builder
func NewBuilder(opts Options, runner Runner, reporter Reporter) *Builder {
	return &Builder{
		opts:     opts,
		runner:   runner,
		reporter: reporter,
	}
}

// CompilerPath returns the absolute path of the compiler binary, or the empty
// string when no binary exists yet
func (b *Builder) CompilerPath() (string, error) {
	dir, err := filepath.Abs(b.opts.CompilerDir)
	if err != nil {
		return "", errors.WrapFileSystemError("resolve", b.opts.CompilerDir, err)
	}

	for _, name := range compilerNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", nil
}

// EnsureCompiler builds the compiler when its binary is missing. It reports
// whether a build was run.
func (b *Builder) EnsureCompiler(ctx context.Context) (bool, error) {
	path, err := b.CompilerPath()
	if err != nil {
		return false, err
	}
	if path != "" {
		return false, nil
	}

	if len(b.opts.BuildCommand) == 0 {
		return false, errors.NewCompilerBuildError(b.opts.CompilerDir, nil,
			errors.New(errors.ConfigurationErrorCode, "no build command configured"))
	}

	b.reporter.Info("kic not found, building...")
	cmd := b.opts.BuildCommand
	if err := b.runner.Run(ctx, b.opts.CompilerDir, cmd[0], cmd[1:]...); err != nil {
		return false, errors.NewCompilerBuildError(b.opts.CompilerDir, cmd, err)
	}

	path, err = b.CompilerPath()
	if err != nil {
		return false, err
	}
	if path == "" {
		return false, errors.NewCompilerBuildError(b.opts.CompilerDir, cmd,
			errors.New(errors.FileSystemErrorCode, "build finished but no kic binary was produced"))
	}
	return true, nil
}

// Build compiles every stale interface under the source root. The first
// failing interface aborts the batch.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	built, err := b.EnsureCompiler(ctx)
	if err != nil {
		return nil, err
	}

	compiler, err := b.CompilerPath()
	if err != nil {
		return nil, err
	}

	interfaces, err := FindInterfaces(b.opts.SourceRoot)
	if err != nil {
		return nil, err
	}

	result := &Result{CompilerBuilt: built}
	for _, iface := range interfaces {
		stale, err := iface.Stale(b.opts.SourceRoot)
		if err != nil {
			return result, err
		}
		if !stale {
			b.reporter.Verbose("Up to date %s", iface.Path)
			result.UpToDate = append(result.UpToDate, iface)
			continue
		}

		if err := b.runner.Run(ctx, b.opts.SourceRoot, compiler, iface.Path); err != nil {
			return result, errors.NewCompileError(iface.Path, err)
		}
		b.reporter.Progress("Compiled %s", iface.Path)
		result.Compiled = append(result.Compiled, iface)
	}

	return result, nil
}

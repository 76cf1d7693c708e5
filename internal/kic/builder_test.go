package kic

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kalisko/kbuild/internal/errors"
)

type call struct {
	dir  string
	name string
	args []string
}

// fakeRunner records calls. Building (any command run in the compiler dir)
// creates the kic binary unless skipBinary is set.
type fakeRunner struct {
	compilerDir string
	calls       []call
	failOn      string
	skipBinary  bool
}

func (r *fakeRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	r.calls = append(r.calls, call{dir: dir, name: name, args: args})
	if dir == r.compilerDir {
		if r.skipBinary {
			return nil
		}
		return os.WriteFile(filepath.Join(dir, "kic"), []byte("#!/bin/sh\n"), 0755)
	}
	if len(args) > 0 && args[0] == r.failOn {
		return fmt.Errorf("exit status 1")
	}
	return nil
}

type nopReporter struct{}

func (nopReporter) Info(string, ...interface{})     {}
func (nopReporter) Verbose(string, ...interface{})  {}
func (nopReporter) Progress(string, ...interface{}) {}

type fixture struct {
	compilerDir string
	sourceRoot  string
}

func newFixture(t *testing.T, withCompiler bool) fixture {
	t.Helper()
	root := t.TempDir()
	f := fixture{
		compilerDir: filepath.Join(root, "kic"),
		sourceRoot:  filepath.Join(root, "src"),
	}
	require.NoError(t, os.MkdirAll(f.compilerDir, 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(f.sourceRoot, "modules", "socket"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(f.sourceRoot, "modules", "irc"), 0755))
	if withCompiler {
		require.NoError(t, os.WriteFile(filepath.Join(f.compilerDir, "kic"), []byte("bin"), 0755))
	}
	return f
}

// touch writes path under the source root with the given modification time
func (f fixture) touch(t *testing.T, rel string, mtime time.Time) {
	t.Helper()
	path := filepath.Join(f.sourceRoot, filepath.FromSlash(rel))
	require.NoError(t, os.WriteFile(path, []byte("API void f();\n"), 0644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func (f fixture) builder(runner Runner) *Builder {
	return NewBuilder(Options{
		CompilerDir:  f.compilerDir,
		SourceRoot:   f.sourceRoot,
		BuildCommand: []string{"scons"},
	}, runner, nopReporter{})
}

func TestFindInterfaces(t *testing.T) {
	f := newFixture(t, true)
	now := time.Now()
	f.touch(t, "hooks.i", now)
	f.touch(t, "log.i", now)
	f.touch(t, "modules/socket/socket.i", now)
	f.touch(t, "modules/irc/irc.i", now)
	f.touch(t, "modules/irc/irc.c", now)

	interfaces, err := FindInterfaces(f.sourceRoot)
	require.NoError(t, err)

	var paths []string
	for _, iface := range interfaces {
		paths = append(paths, filepath.ToSlash(iface.Path))
	}
	assert.Equal(t, []string{
		"hooks.i",
		"log.i",
		"modules/irc/irc.i",
		"modules/socket/socket.i",
	}, paths)
	assert.Equal(t, "hooks.h", interfaces[0].Header)
}

func TestInterface_Stale(t *testing.T) {
	f := newFixture(t, true)
	old := time.Now().Add(-time.Hour)
	now := time.Now()

	f.touch(t, "missing.i", now)
	f.touch(t, "fresh.i", old)
	f.touch(t, "fresh.h", now)
	f.touch(t, "changed.i", now)
	f.touch(t, "changed.h", old)
	f.touch(t, "same.i", old)
	f.touch(t, "same.h", old)

	tests := map[string]bool{
		"missing.i": true,
		"fresh.i":   false,
		"changed.i": true,
		"same.i":    false,
	}
	for path, expected := range tests {
		t.Run(path, func(t *testing.T) {
			stale, err := NewInterface(path).Stale(f.sourceRoot)
			require.NoError(t, err)
			assert.Equal(t, expected, stale)
		})
	}
}

func TestBuilder_CompilesOnlyStaleInterfaces(t *testing.T) {
	f := newFixture(t, true)
	old := time.Now().Add(-time.Hour)
	now := time.Now()
	f.touch(t, "hooks.i", now)
	f.touch(t, "log.i", old)
	f.touch(t, "log.h", now)
	f.touch(t, "modules/socket/socket.i", now)

	runner := &fakeRunner{compilerDir: f.compilerDir}
	result, err := f.builder(runner).Build(context.Background())
	require.NoError(t, err)

	assert.False(t, result.CompilerBuilt)
	require.Len(t, result.Compiled, 2)
	assert.Equal(t, "hooks.i", result.Compiled[0].Path)
	require.Len(t, result.UpToDate, 1)
	assert.Equal(t, "log.i", result.UpToDate[0].Path)

	require.Len(t, runner.calls, 2)
	for _, c := range runner.calls {
		assert.Equal(t, f.sourceRoot, c.dir)
		assert.Equal(t, filepath.Join(f.compilerDir, "kic"), c.name)
	}
	assert.Equal(t, []string{filepath.Join("modules", "socket", "socket.i")}, runner.calls[1].args)
}

func TestBuilder_StopsAtFirstFailure(t *testing.T) {
	f := newFixture(t, true)
	now := time.Now()
	f.touch(t, "a.i", now)
	f.touch(t, "b.i", now)
	f.touch(t, "c.i", now)

	runner := &fakeRunner{compilerDir: f.compilerDir, failOn: "b.i"}
	result, err := f.builder(runner).Build(context.Background())
	require.Error(t, err)

	var compileErr *errors.CompileError
	require.True(t, stderrors.As(err, &compileErr))
	assert.Equal(t, "b.i", compileErr.Interface)

	require.Len(t, result.Compiled, 1)
	assert.Equal(t, "a.i", result.Compiled[0].Path)
	assert.Len(t, runner.calls, 2, "c.i must not be attempted")
}

func TestBuilder_BuildsMissingCompiler(t *testing.T) {
	f := newFixture(t, false)
	f.touch(t, "a.i", time.Now())

	runner := &fakeRunner{compilerDir: f.compilerDir}
	result, err := f.builder(runner).Build(context.Background())
	require.NoError(t, err)

	assert.True(t, result.CompilerBuilt)
	require.Len(t, runner.calls, 2)
	assert.Equal(t, call{dir: f.compilerDir, name: "scons", args: []string{}}, runner.calls[0])
}

func TestBuilder_CompilerBuildProducesNothing(t *testing.T) {
	f := newFixture(t, false)

	runner := &fakeRunner{compilerDir: f.compilerDir, skipBinary: true}
	_, err := f.builder(runner).Build(context.Background())

	var buildErr *errors.CompilerBuildError
	require.True(t, stderrors.As(err, &buildErr))
	assert.Equal(t, f.compilerDir, buildErr.Dir)
}

func TestBuilder_FindsWindowsBinary(t *testing.T) {
	f := newFixture(t, false)
	require.NoError(t, os.WriteFile(filepath.Join(f.compilerDir, "kic.exe"), []byte("bin"), 0755))

	path, err := f.builder(&fakeRunner{}).CompilerPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.compilerDir, "kic.exe"), path)
}

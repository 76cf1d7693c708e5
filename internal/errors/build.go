package errors

import "fmt"

// CompileError is returned when the interface compiler fails on an interface file
type CompileError struct {
	*BaseError
	Interface string // interface file that failed to compile
}

// NewCompileError creates a new compile error for an interface file
func NewCompileError(iface string, cause error) *CompileError {
	base := Wrap(CompileErrorCode, fmt.Sprintf("failed to compile interface %s", iface), cause).
		WithLocation(SourceLocation{File: iface}).
		WithContext("interface", iface)

	return &CompileError{
		BaseError: base,
		Interface: iface,
	}
}

// CompilerBuildError is returned when building the interface compiler itself fails
type CompilerBuildError struct {
	*BaseError
	Dir     string   // compiler source directory
	Command []string // build command that was run
}

// NewCompilerBuildError creates a new compiler build error
func NewCompilerBuildError(dir string, command []string, cause error) *CompilerBuildError {
	base := Wrap(CompilerBuildErrorCode, fmt.Sprintf("failed to build interface compiler in %s", dir), cause).
		WithContext("dir", dir).
		WithContext("command", command).
		WithSuggestion("Build the compiler manually and re-run")

	return &CompilerBuildError{
		BaseError: base,
		Dir:       dir,
		Command:   command,
	}
}

package errors

import "fmt"

// ModuleNotFoundError is returned when a module name has no directory under the module root
type ModuleNotFoundError struct {
	*BaseError
	Module string // requested module name
	Root   string // module root that was searched
}

// NewModuleNotFoundError creates a new module-not-found error
func NewModuleNotFoundError(module, root string) *ModuleNotFoundError {
	base := New(ModuleNotFoundErrorCode, fmt.Sprintf("could not find module %s under %s", module, root)).
		WithContext("module", module).
		WithContext("root", root).
		WithSuggestion(fmt.Sprintf("Check that a directory named '%s' exists in %s", module, root))

	return &ModuleNotFoundError{
		BaseError: base,
		Module:    module,
		Root:      root,
	}
}

// DeclarationNotFoundError is returned when a module directory exists but no file
// inside it carries the module's MODULE_NAME marker
type DeclarationNotFoundError struct {
	*BaseError
	Module string // module whose declaration file is missing
	Dir    string // directory that was walked
}

// NewDeclarationNotFoundError creates a new declaration-not-found error
func NewDeclarationNotFoundError(module, dir string) *DeclarationNotFoundError {
	base := New(DeclarationNotFoundErrorCode, fmt.Sprintf("unable to find main module source file for module: %s", module)).
		WithContext("module", module).
		WithContext("dir", dir).
		WithSuggestion(fmt.Sprintf("Add the line MODULE_NAME(\"%s\"); to the module's main source file", module))

	return &DeclarationNotFoundError{
		BaseError: base,
		Module:    module,
		Dir:       dir,
	}
}

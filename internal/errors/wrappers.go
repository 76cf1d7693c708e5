package errors

import "fmt"

// Common error wrapping patterns used throughout the codebase

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s '%s'", operation, path)
	return Wrap(FileSystemErrorCode, message, cause).
		WithContext("operation", operation).
		WithContext("path", path)
}

// WrapConfigurationError wraps configuration-related errors
func WrapConfigurationError(configType, operation string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s configuration '%s'", operation, configType)
	return Wrap(ConfigurationErrorCode, message, cause).
		WithContext("config_type", configType).
		WithContext("operation", operation)
}

// DependencyCycleError creates an error for a cycle found while ordering modules
func DependencyCycleError(cycle []string, cause error) *BaseError {
	return Wrap(DependencyCycleErrorCode, "modules cannot be ordered", cause).
		WithContext("cycle", cycle).
		WithSuggestion("Remove one of the MODULE_DEPENDENCY references forming the cycle")
}

// Error collection helpers

// AddToMultiple adds an error to a MultipleErrors, creating it if nil
func AddToMultiple(multiple **MultipleErrors, err KbuildError) {
	if *multiple == nil {
		*multiple = NewMultipleErrors()
	}
	(*multiple).Add(err)
}

// Package modules analyzes a Kalisko module tree: one subdirectory per module
// under a module root, each holding a declaration file that carries a
// MODULE_NAME marker and optional MODULE_DEPENDS lines.
//
// Every query re-reads the filesystem. Nothing is cached between calls; direct
// dependencies are memoized only for the duration of a single top-level call.
package modules

package kic

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/kalisko/kbuild/internal/errors"
)

// InterfaceExt is the extension of interface definition files
const InterfaceExt = ".i"

// interfacePatterns are globbed relative to the source root, in this order
var interfacePatterns = []string{
	"*" + InterfaceExt,
	filepath.Join("modules", "*", "*"+InterfaceExt),
}

// Interface is an interface definition file and the header kic generates from it
type Interface struct {
	// Path is relative to the source root
	Path string
	// Header is the generated header, relative to the source root
	Header string
}

// NewInterface describes the interface at path, relative to the source root
func NewInterface(path string) Interface {
	return Interface{
		Path:   path,
		Header: strings.TrimSuffix(path, InterfaceExt) + ".h",
	}
}

// FindInterfaces returns the interfaces in the source root itself followed by
// those one level inside each modules/<name> directory
func FindInterfaces(sourceRoot string) ([]Interface, error) {
	var result []Interface

	for _, pattern := range interfacePatterns {
		matches, err := filepath.Glob(filepath.Join(sourceRoot, pattern))
		if err != nil {
			return nil, errors.WrapFileSystemError("glob", pattern, err)
		}
		for _, match := range matches {
			rel, err := filepath.Rel(sourceRoot, match)
			if err != nil {
				return nil, errors.WrapFileSystemError("resolve", match, err)
			}
			result = append(result, NewInterface(rel))
		}
	}

	return result, nil
}

// Stale reports whether the interface is newer than its header. A missing
// header is always stale.
func (i Interface) Stale(sourceRoot string) (bool, error) {
	ifaceInfo, err := os.Stat(filepath.Join(sourceRoot, i.Path))
	if err != nil {
		return false, errors.WrapFileSystemError("stat", i.Path, err)
	}

	headerInfo, err := os.Stat(filepath.Join(sourceRoot, i.Header))
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, errors.WrapFileSystemError("stat", i.Header, err)
	}

	return ifaceInfo.ModTime().After(headerInfo.ModTime()), nil
}

// Package doccomments moves function doc comments from .c files into the
// matching declarations of their .i interface files.
package doccomments

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/kalisko/kbuild/internal/errors"
)

// functionPattern matches an exported function line: API <type><stars> <stars><name>(
var functionPattern = regexp.MustCompile(`^API[ ]+(\w+)(\**)[ ]+(\**)(\w+)\(.*`)

// Function is an exported function signature, optionally with its doc comment
type Function struct {
	RawLine    string
	ReturnType string
	Name       string
	// Comment holds the raw doc comment lines, newlines included
	Comment string
}

// ParseFunction parses line as a function signature. ok is false when the
// line is not one.
func ParseFunction(line string) (fn Function, ok bool) {
	m := functionPattern.FindStringSubmatch(line)
	if m == nil {
		return Function{}, false
	}
	return Function{
		RawLine:    line,
		ReturnType: m[1] + m[2] + m[3],
		Name:       m[4],
	}, true
}

// Same reports whether two functions share return type and name. The raw
// lines may differ.
func (f Function) Same(other Function) bool {
	return f.ReturnType == other.ReturnType && f.Name == other.Name
}

func (f Function) String() string {
	return "[name: " + f.Name + ", returns: " + f.ReturnType + "]"
}

// find returns the first function in fns that is the same as f
func find(fns []Function, f Function) (Function, bool) {
	for _, candidate := range fns {
		if candidate.Same(f) {
			return candidate, true
		}
	}
	return Function{}, false
}

// commentScanner groups lines into doc comments. A line whose trimmed form
// starts with "/**" opens a comment, lines starting with "*" continue it, and
// the next other line closes it.
type commentScanner struct {
	comment string
	open    bool
}

// feed consumes line. It returns consumed=true when the line became part of a
// comment. Otherwise it returns the comment that preceded line, if any.
func (s *commentScanner) feed(line string) (consumed bool, preceding string) {
	trimmed := strings.TrimSpace(line)
	if !s.open && strings.HasPrefix(trimmed, "/**") {
		s.comment, s.open = line, true
		return true, ""
	}
	if s.open && strings.HasPrefix(trimmed, "*") {
		s.comment += line
		return true, ""
	}

	preceding = s.flush()
	return false, preceding
}

// flush returns and clears any pending comment
func (s *commentScanner) flush() string {
	comment := s.comment
	s.comment, s.open = "", false
	return comment
}

// ParseFile extracts every function signature of the file at path along with
// the doc comment directly above it
func ParseFile(path string) ([]Function, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}

	var result []Function
	var scanner commentScanner
	for _, line := range lines {
		consumed, comment := scanner.feed(line)
		if consumed {
			continue
		}
		if fn, ok := ParseFunction(line); ok {
			fn.Comment = comment
			result = append(result, fn)
		}
	}

	return result, nil
}

// readLines returns the lines of the file at path, newlines included
func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapFileSystemError("open", path, err)
	}
	defer f.Close()

	var lines []string
	br := bufio.NewReader(f)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			lines = append(lines, line)
		}
		if err == io.EOF {
			return lines, nil
		}
		if err != nil {
			return nil, errors.WrapFileSystemError("read", path, err)
		}
	}
}

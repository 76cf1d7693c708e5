package modules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"golang.org/x/mod/semver"
)

const (
	// DependsLinePrefix marks a line that declares dependencies
	DependsLinePrefix = "MODULE_DEPENDS"

	// dependencyCall is the call-like token wrapping a single dependency reference
	dependencyCall = "MODULE_DEPENDENCY"
)

// Dependency is a single MODULE_DEPENDENCY reference found in a declaration file
type Dependency struct {
	Name string
	// Version is the canonical semver form of the embedded version triple
	// ("v0.7.0"), or empty when the triple is missing or malformed. It is
	// recorded for display only.
	Version string
}

// markerLexer tokenizes declaration lines. The trailing catch-all rule means
// any input lexes, so extraction never fails on unexpected text.
var markerLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "String", Pattern: `"[^"\s]+"`},
	{Name: "Number", Pattern: `[0-9]+`},
	{Name: "Punct", Pattern: `[(),;]`},
	{Name: "Other", Pattern: `.`},
})

var (
	identToken  = markerLexer.Symbols()["Ident"]
	stringToken = markerLexer.Symbols()["String"]
	numberToken = markerLexer.Symbols()["Number"]
	punctToken  = markerLexer.Symbols()["Punct"]
	spaceToken  = markerLexer.Symbols()["Whitespace"]
)

// IsDependsLine reports whether a line declares dependencies
func IsDependsLine(line string) bool {
	return strings.HasPrefix(line, DependsLinePrefix)
}

// DeclarationLine returns the exact marker line (without newline) that
// identifies the declaration file of a module
func DeclarationLine(module string) string {
	return `MODULE_NAME("` + module + `");`
}

// ExtractDependencies returns every MODULE_DEPENDENCY("<name>" reference in
// line, in order of appearance. The call name, parenthesis and quoted name
// must be written without spaces between them. Anything after the quoted name is optional;
// a complete ", major, minor, patch" tail is recorded as the version.
func ExtractDependencies(line string) ([]Dependency, error) {
	lex, err := markerLexer.LexString("", line)
	if err != nil {
		return nil, fmt.Errorf("failed to tokenize dependency line: %w", err)
	}
	all, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, fmt.Errorf("failed to tokenize dependency line: %w", err)
	}

	tokens := make([]lexer.Token, 0, len(all))
	for _, tok := range all {
		if tok.Type != spaceToken && !tok.EOF() {
			tokens = append(tokens, tok)
		}
	}

	var deps []Dependency
	for i := 0; i+2 < len(tokens); i++ {
		if tokens[i].Type != identToken || tokens[i].Value != dependencyCall {
			continue
		}
		if tokens[i+1].Type != punctToken || tokens[i+1].Value != "(" || !adjacent(tokens[i], tokens[i+1]) {
			continue
		}
		if tokens[i+2].Type != stringToken || !adjacent(tokens[i+1], tokens[i+2]) {
			continue
		}

		dep := Dependency{Name: strings.Trim(tokens[i+2].Value, `"`)}
		dep.Version = versionAfter(tokens[i+3:])
		deps = append(deps, dep)
		i += 2
	}

	return deps, nil
}

// adjacent reports whether next starts right where prev ends
func adjacent(prev, next lexer.Token) bool {
	return prev.Pos.Offset+len(prev.Value) == next.Pos.Offset
}

// versionAfter reads ", N, N, N" from the start of tokens
func versionAfter(tokens []lexer.Token) string {
	if len(tokens) < 6 {
		return ""
	}

	parts := make([]string, 0, 3)
	for j := 0; j < 3; j++ {
		comma, num := tokens[2*j], tokens[2*j+1]
		if comma.Type != punctToken || comma.Value != "," || num.Type != numberToken {
			return ""
		}
		n, err := strconv.Atoi(num.Value)
		if err != nil {
			return ""
		}
		parts = append(parts, strconv.Itoa(n))
	}

	version := "v" + strings.Join(parts, ".")
	if !semver.IsValid(version) {
		return ""
	}
	return semver.Canonical(version)
}

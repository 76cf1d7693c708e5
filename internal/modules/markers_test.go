package modules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDependsLine(t *testing.T) {
	assert.True(t, IsDependsLine(`MODULE_DEPENDS(MODULE_DEPENDENCY("a", 0, 1, 0));`))
	assert.True(t, IsDependsLine("MODULE_DEPENDS();\n"))
	assert.False(t, IsDependsLine(` MODULE_DEPENDS(MODULE_DEPENDENCY("a", 0, 1, 0));`))
	assert.False(t, IsDependsLine(`MODULE_NAME("a");`))
}

func TestExtractDependencies(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected []Dependency
	}{
		{
			name: "two dependencies with versions",
			line: `MODULE_DEPENDS(MODULE_DEPENDENCY("wiggle", 0, 7, 0), MODULE_DEPENDENCY("nabble", 0, 1, 2));` + "\n",
			expected: []Dependency{
				{Name: "wiggle", Version: "v0.7.0"},
				{Name: "nabble", Version: "v0.1.2"},
			},
		},
		{
			name:     "no dependencies",
			line:     "MODULE_DEPENDS();\n",
			expected: nil,
		},
		{
			name:     "name only",
			line:     `MODULE_DEPENDS(MODULE_DEPENDENCY("socket"));`,
			expected: []Dependency{{Name: "socket"}},
		},
		{
			name:     "unparsed version arguments",
			line:     `MODULE_DEPENDS(MODULE_DEPENDENCY("socket", VERSION_MAJOR, 2, 0));`,
			expected: []Dependency{{Name: "socket"}},
		},
		{
			name:     "leading zeros normalized",
			line:     `MODULE_DEPENDS(MODULE_DEPENDENCY("socket", 00, 02, 010));`,
			expected: []Dependency{{Name: "socket", Version: "v0.2.10"}},
		},
		{
			name:     "spacing in version arguments",
			line:     `MODULE_DEPENDS( MODULE_DEPENDENCY("lua_core" ,1,0 , 3 ) );`,
			expected: []Dependency{{Name: "lua_core", Version: "v1.0.3"}},
		},
		{
			name:     "space before parenthesis",
			line:     `MODULE_DEPENDS(MODULE_DEPENDENCY ("lua_core", 1, 0, 3));`,
			expected: nil,
		},
		{
			name:     "non identifier characters in name",
			line:     `MODULE_DEPENDS(MODULE_DEPENDENCY("gtk+", 0, 1, 0));`,
			expected: []Dependency{{Name: "gtk+", Version: "v0.1.0"}},
		},
		{
			name:     "quoted name with whitespace is ignored",
			line:     `MODULE_DEPENDS(MODULE_DEPENDENCY("two words", 0, 1, 0), MODULE_DEPENDENCY("ok", 0, 1, 0));`,
			expected: []Dependency{{Name: "ok", Version: "v0.1.0"}},
		},
		{
			name:     "empty name is ignored",
			line:     `MODULE_DEPENDS(MODULE_DEPENDENCY("", 0, 1, 0));`,
			expected: nil,
		},
		{
			name:     "other calls are ignored",
			line:     `MODULE_DEPENDS(OTHER_DEPENDENCY("nope"), MODULE_DEPENDENCY("yes"));`,
			expected: []Dependency{{Name: "yes"}},
		},
		{
			name:     "unexpected characters",
			line:     "MODULE_DEPENDS(MODULE_DEPENDENCY(\"a\", 0, 1, 0)); /* ünïcödé @#$ */",
			expected: []Dependency{{Name: "a", Version: "v0.1.0"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps, err := ExtractDependencies(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, deps)
		})
	}
}

func TestDeclarationLine(t *testing.T) {
	assert.Equal(t, `MODULE_NAME("irc");`, DeclarationLine("irc"))
}

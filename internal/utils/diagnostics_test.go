package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestDiagnostics(level DiagnosticLevel) (*DiagnosticSystem, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	d := NewDiagnosticSystemWithWriters(level, &out, &errOut)
	d.SetColors(false)
	d.SetShowTime(false)
	return d, &out, &errOut
}

func TestDiagnosticSystem_Levels(t *testing.T) {
	d, out, errOut := newTestDiagnostics(DiagnosticInfo)

	d.Info("compiled %s", "core.i")
	d.Verbose("hidden")
	d.Error("broken %d", 1)

	assert.Equal(t, "[INFO] compiled core.i\n", out.String())
	assert.Equal(t, "[ERROR] broken 1\n", errOut.String())
}

func TestDiagnosticSystem_QuietStillReportsErrorsAndResults(t *testing.T) {
	d, out, errOut := newTestDiagnostics(DiagnosticError)

	d.Info("hidden")
	d.Warn("hidden")
	d.Result("socket")
	d.Error("visible")

	assert.Equal(t, "socket\n", out.String())
	assert.Equal(t, "[ERROR] visible\n", errOut.String())
}

func TestDiagnosticSystem_IndentAndSummary(t *testing.T) {
	d, out, _ := newTestDiagnostics(DiagnosticInfo)

	d.Indent()
	d.List("one")
	d.Unindent()
	d.Unindent()
	d.List("two")
	d.Summary("Done", map[string]interface{}{"skipped": 2, "compiled": 1})

	assert.Equal(t, "  - one\n- two\n\nDone\n   compiled: 1\n   skipped: 2\n\n", out.String())
}

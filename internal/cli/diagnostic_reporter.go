package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"

	"github.com/kalisko/kbuild/internal/errors"
)

// DiagnosticReporter turns command errors into user-facing output
type DiagnosticReporter struct {
	out     io.Writer
	verbose bool
}

// NewDiagnosticReporter creates a new diagnostic reporter
func NewDiagnosticReporter(out io.Writer, verbose bool) *DiagnosticReporter {
	return &DiagnosticReporter{
		out:     out,
		verbose: verbose,
	}
}

// ReportError prints err, its suggestions and, in verbose mode, its context
func (r *DiagnosticReporter) ReportError(err error) {
	red := color.New(color.FgRed, color.Bold)
	red.Fprint(r.out, "error: ")
	fmt.Fprintln(r.out, err.Error())

	var multi *errors.MultipleErrors
	if stderrors.As(err, &multi) {
		for _, e := range multi.Errors {
			r.printDetails(e)
		}
		return
	}

	var kerr errors.KbuildError
	if stderrors.As(err, &kerr) {
		r.printDetails(kerr)
	}
}

func (r *DiagnosticReporter) printDetails(kerr errors.KbuildError) {
	for _, hint := range kerr.Suggestions() {
		fmt.Fprintf(r.out, "  hint: %s\n", hint)
	}

	if !r.verbose {
		return
	}

	fmt.Fprintf(r.out, "  code: %s\n", kerr.ErrorCode())
	ctx := kerr.Context()
	keys := make([]string, 0, len(ctx))
	for key := range ctx {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(r.out, "  %s: %v\n", key, ctx[key])
	}
}

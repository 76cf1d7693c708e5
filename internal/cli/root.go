// Package cli wires the kbuild commands to the library packages.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kalisko/kbuild/internal/config"
	"github.com/kalisko/kbuild/internal/utils"
)

// Version is set at build time with -ldflags
var Version = "dev"

// app carries state shared by all subcommands for one invocation
type app struct {
	cfgFile    string
	verbose    bool
	quiet      bool
	moduleRoot string
	sourceRoot string
	kicDir     string

	cfg         *config.Config
	diagnostics *utils.DiagnosticSystem
	stdout      io.Writer
	stderr      io.Writer
}

// NewRootCommand builds the kbuild command tree writing to stdout and stderr
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "kbuild",
		Short: "Build helpers for the Kalisko module tree",
		Long: `kbuild analyzes module dependencies, compiles stale interface files
with kic and moves doc comments from .c files into their .i interfaces.

Settings come from kbuild.yaml (or .toml/.json) in the working directory,
a .env file, KBUILD_* environment variables and the flags below.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is ./kbuild.yaml)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "only show errors and results")
	flags.StringVar(&a.moduleRoot, "module-root", "", "directory holding one subdirectory per module")
	flags.StringVar(&a.sourceRoot, "source-root", "", "directory searched for .i interface files")
	flags.StringVar(&a.kicDir, "kic-dir", "", "directory holding the kic compiler")
	root.MarkFlagsMutuallyExclusive("verbose", "quiet")

	root.AddCommand(newModulesCommand(a))
	root.AddCommand(newInterfacesCommand(a))
	root.AddCommand(newCommentsCommand(a))

	return root
}

// setup loads configuration and applies flag overrides
func (a *app) setup(cmd *cobra.Command) error {
	cfg, path, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}

	if a.moduleRoot != "" {
		cfg.ModuleRoot = a.moduleRoot
	}
	if a.sourceRoot != "" {
		cfg.SourceRoot = a.sourceRoot
	}
	if a.kicDir != "" {
		cfg.KicDir = a.kicDir
	}
	switch {
	case a.quiet:
		cfg.Verbosity = config.VerbosityQuiet
	case a.verbose:
		cfg.Verbosity = config.VerbosityVerbose
	}
	a.cfg = cfg

	a.diagnostics = utils.NewDiagnosticSystemWithWriters(diagnosticLevel(cfg.Verbosity), a.stdout, a.stderr)
	if path != "" {
		a.diagnostics.Verbose("Using config file %s", path)
	}
	return nil
}

func diagnosticLevel(verbosity string) utils.DiagnosticLevel {
	switch verbosity {
	case config.VerbosityQuiet:
		return utils.DiagnosticError
	case config.VerbosityVerbose:
		return utils.DiagnosticVerbose
	case config.VerbosityDebug:
		return utils.DiagnosticDebug
	default:
		return utils.DiagnosticInfo
	}
}

// Execute runs kbuild with the process arguments and returns the exit code
func Execute(ctx context.Context) int {
	return Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

// Run runs kbuild with args and returns the exit code
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCommand(stdout, stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	if exitErr, ok := err.(*ExitError); ok {
		return exitErr.Code
	}

	verbose, _ := root.PersistentFlags().GetBool("verbose")
	NewDiagnosticReporter(stderr, verbose).ReportError(err)
	return 1
}

// ExitError ends the command with a status code and no error output
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

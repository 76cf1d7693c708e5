package cli

import (
	"github.com/spf13/cobra"

	"github.com/kalisko/kbuild/internal/modules"
)

func newModulesCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "modules",
		Short: "Inspect modules and their dependencies",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every module under the module root",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := a.analyzer().All()
			if err != nil {
				return err
			}
			for _, name := range names {
				a.diagnostics.Result("%s", name)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "exists <name>",
		Short: "Exit with status 0 if the module exists, 1 otherwise",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.analyzer().Exists(args[0]) {
				a.diagnostics.Verbose("Module %s exists", args[0])
				return nil
			}
			a.diagnostics.Verbose("Module %s does not exist", args[0])
			return &ExitError{Code: 1}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "deps <name>...",
		Short: "Print the runtime dependency closure of the given modules",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := a.analyzer().ExpandRuntimeDeps(args)
			if err != nil {
				return err
			}
			for _, name := range deps.Sorted() {
				a.diagnostics.Result("%s", name)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "direct <name>",
		Short: "Print the direct dependencies of a module with their versions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			analyzer := a.analyzer()
			file, err := analyzer.DeclarationFile(args[0])
			if err != nil {
				return err
			}
			a.diagnostics.Verbose("Declared in %s", file)

			deps, err := analyzer.Dependencies(args[0])
			if err != nil {
				return err
			}
			for _, dep := range deps {
				if dep.Version == "" {
					a.diagnostics.Result("%s", dep.Name)
					continue
				}
				a.diagnostics.Result("%s %s", dep.Name, dep.Version)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "order <name>...",
		Short: "Print the dependency closure in build order",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := a.analyzer().BuildOrder(args)
			if err != nil {
				return err
			}
			for _, name := range order {
				a.diagnostics.Result("%s", name)
			}
			return nil
		},
	})

	return cmd
}

func (a *app) analyzer() *modules.Analyzer {
	a.diagnostics.Debug("Module root %s", a.cfg.ModuleRoot)
	return modules.NewAnalyzer(a.cfg.ModuleRoot)
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/kalisko/kbuild/internal/kic"
	"github.com/kalisko/kbuild/internal/utils"
)

func newInterfacesCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interfaces",
		Short: "Work with .i interface files",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "build",
		Short: "Compile stale interfaces with kic, building kic first if needed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			builder := kic.NewBuilder(kic.Options{
				CompilerDir:  a.cfg.KicDir,
				SourceRoot:   a.cfg.SourceRoot,
				BuildCommand: a.cfg.KicBuildCommand,
			}, kic.NewExecRunner(), a.diagnostics)

			result, err := builder.Build(cmd.Context())
			if err != nil {
				return err
			}

			if a.diagnostics.Level() >= utils.DiagnosticVerbose && len(result.Compiled) > 0 {
				a.diagnostics.Section("Compiled interfaces")
				a.diagnostics.Indent()
				for _, iface := range result.Compiled {
					a.diagnostics.List("%s -> %s", iface.Path, iface.Header)
				}
				a.diagnostics.Unindent()
			}

			a.diagnostics.Summary("Interfaces", map[string]interface{}{
				"compiled":       len(result.Compiled),
				"up to date":     len(result.UpToDate),
				"compiler built": result.CompilerBuilt,
			})
			a.diagnostics.Success("Interface build complete")
			return nil
		},
	})

	return cmd
}

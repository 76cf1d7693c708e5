package cli

import (
	"github.com/spf13/cobra"

	"github.com/kalisko/kbuild/internal/doccomments"
)

func newCommentsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comments",
		Short: "Manage doc comments between .c and .i files",
	}

	var opts doccomments.Options
	move := &cobra.Command{
		Use:   "move <dir>",
		Short: "Move doc comments from .c files to the declarations in their .i files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := doccomments.NewMover(opts, a.diagnostics).Run(args[0])
			if err != nil {
				return err
			}

			if len(results) == 0 {
				a.diagnostics.Warn("No .c/.i file pairs found in %s", args[0])
			}

			moved := 0
			for _, result := range results {
				moved += len(result.Moved)
			}
			if opts.DryRun {
				a.diagnostics.Info("Dry run, no files written")
			}
			a.diagnostics.Summary("Doc comments", map[string]interface{}{
				"pairs": len(results),
				"moved": moved,
			})
			return nil
		},
	}
	move.Flags().BoolVarP(&opts.DryRun, "nowrite", "n", false, "do not write any files")
	move.Flags().BoolVarP(&opts.Recursive, "recursive", "r", false, "search subdirectories as well")
	move.Flags().BoolVar(&opts.RespectGitignore, "gitignore", false, "skip paths matched by .gitignore")
	cmd.AddCommand(move)

	return cmd
}

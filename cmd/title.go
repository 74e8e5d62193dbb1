package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/appshell/internal/bindings"
)

var titleCmd = &cobra.Command{
	Use:   "title PATH",
	Short: "Print the header title shown for a path",
	Long: `Print the header title the shell shows for a route: the name of the page
registered at exactly that path, or 404.

Examples:
  appshell title /reports
  appshell title /no/such/page    # prints 404`,
	Args: cobra.ExactArgs(1),
	RunE: runTitle,
}

func init() {
	rootCmd.AddCommand(titleCmd)
	addPagesFlag(titleCmd)
}

func runTitle(cmd *cobra.Command, args []string) error {
	if err := ValidatePagePath(args[0]); err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	reg, err := loadPages(cfg)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), bindings.TitleFor(reg.Snapshot(), args[0]))

	return nil
}

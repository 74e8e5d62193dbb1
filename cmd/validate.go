package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/appshell/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration and the page file",
	Long: `Check the configuration and the page file without starting the server.

The configuration is checked field by field; warnings do not fail the
command. The page file must parse, its paths must be well formed, and every
navigation group the pages imply must have section metadata.

Examples:
  appshell validate
  appshell validate --pages site.yml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	addPagesFlag(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	result := config.ValidateConfigWithDetails(cfg)
	if result.HasErrors() || result.HasWarnings() {
		fmt.Fprint(out, result.String())
	}
	if result.HasErrors() {
		return fmt.Errorf("configuration has %d error(s)", len(result.Errors))
	}

	reg, err := loadPages(cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Configuration OK, %d pages in %s\n", reg.Count(), cfg.Pages.File)

	return nil
}

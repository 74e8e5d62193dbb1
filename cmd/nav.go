package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/appshell/internal/navigation"
)

var (
	navCurrent string
	navFormat  string
)

var navCmd = &cobra.Command{
	Use:     "nav",
	Aliases: []string{"n"},
	Short:   "Print the navigation tree",
	Long: `Print the navigation tree the sidebar renders for the page file.

The active link is marked with * and its ancestors with +.

Examples:
  appshell nav
  appshell nav --current /reports/monthly/june
  appshell nav -o json`,
	RunE: runNav,
}

func init() {
	rootCmd.AddCommand(navCmd)

	navCmd.Flags().StringVar(&navCurrent, "current", "", "Mark the link for this path as active")
	navCmd.Flags().StringVarP(&navFormat, "output", "o", formatTree, "Output format (tree, json, yaml)")
	addPagesFlag(navCmd)

	AddFlagValidation(navCmd.Flags(), "output", ValidateChoice(formatTree, formatJSON, formatYAML))
	AddFlagValidation(navCmd.Flags(), "current", ValidatePagePath)
}

func runNav(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	reg, err := loadPages(cfg)
	if err != nil {
		return err
	}

	nodes, err := navigation.Build(reg.Snapshot(), cfg.Pages.NavOptions(navCurrent)...)
	if err != nil {
		return err
	}

	return writeNav(cmd.OutOrStdout(), nodes, navFormat)
}

func writeNav(w io.Writer, nodes []navigation.NavNode, format string) error {
	switch strings.ToLower(format) {
	case formatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(nodes)
	case formatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		defer encoder.Close()
		return encoder.Encode(nodes)
	case formatTree, "":
		navigation.Walk(nodes, func(depth int, node navigation.NavNode) {
			marker := " "
			switch {
			case node.Active:
				marker = "*"
			case node.Expanded:
				marker = "+"
			}
			fmt.Fprintf(w, "%s%s %s  %s\n", strings.Repeat("  ", depth), marker, node.Label, node.Href)
		})
		return nil
	default:
		return fmt.Errorf("unsupported format: %s (supported: tree, json, yaml)", format)
	}
}

package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/appshell/internal/version"
)

var (
	versionFormat string
	versionShort  bool
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Display the appshell version, commit, build time, Go version and platform.

Examples:
  appshell version
  appshell version --short
  appshell version -o json`,
	RunE: runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().StringVarP(&versionFormat, "output", "o", formatText, "Output format (text, json, yaml)")
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Show short version only")

	AddFlagValidation(versionCmd.Flags(), "output", ValidateChoice(formatText, formatJSON, formatYAML))
}

func runVersion(cmd *cobra.Command, _ []string) error {
	return writeVersion(cmd.OutOrStdout(), versionFormat, versionShort)
}

func writeVersion(w io.Writer, format string, short bool) error {
	if short {
		_, err := fmt.Fprintln(w, version.GetShortVersion())
		return err
	}

	info := version.GetBuildInfo()

	switch format {
	case formatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(info)
	case formatYAML:
		encoder := yaml.NewEncoder(w)
		defer encoder.Close()
		return encoder.Encode(info)
	case formatText, "":
		_, err := fmt.Fprintln(w, info.String())
		return err
	default:
		return fmt.Errorf("unsupported format: %s (supported: text, json, yaml)", format)
	}
}

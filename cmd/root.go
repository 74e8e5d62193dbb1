// Package cmd provides the appshell command-line interface.
//
// Configuration is read from, highest priority first: command-line flags,
// APPSHELL_* environment variables (a .env file in the working directory is
// loaded first), the config file named by --config or APPSHELL_CONFIG_FILE,
// and finally .appshell.yml in the working directory. Nested keys map to
// variables by upper-casing and replacing dots with underscores, so
// server.port becomes APPSHELL_SERVER_PORT.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/appshell/internal/config"
	"github.com/conneroisu/appshell/internal/logging"
)

const (
	envPrefix         = "APPSHELL"
	defaultConfigName = ".appshell"
	defaultConfigPath = ".appshell.yml"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "appshell",
	Short: "Dashboard app shell server",
	Long: `appshell serves a dashboard application shell: a header with the brand,
a live page title and external links, a sidebar drawer holding a navigation
tree derived from the registered pages, and a content region.

Pages are declared in a YAML page file. The navigation tree groups them by
their first two path segments.

Quick Start:
  appshell serve                  Start the shell server
  appshell nav                    Print the navigation tree
  appshell title /reports         Print the header title for a path
  appshell validate               Check configuration and page file`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is .appshell.yml, can also use APPSHELL_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")

	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))

	AddFlagValidation(rootCmd.PersistentFlags(), "log-level", ValidateChoice("debug", "info", "warn", "warning", "error"))
	AddFlagValidation(rootCmd.PersistentFlags(), "log-format", ValidateChoice("text", "json"))
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "Ignoring .env:", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv(envPrefix + "_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(defaultConfigName)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// configPath is the config file in effect, for error suggestions.
func configPath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}

	return defaultConfigPath
}

// newLogger builds the process logger from the log section.
func newLogger(cfg config.LogConfig) logging.Logger {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		level = logging.LevelInfo
	}

	return logging.NewLogger(&logging.LoggerConfig{
		Level:  level,
		Format: cfg.Format,
		Output: os.Stderr,
	})
}

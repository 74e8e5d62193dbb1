package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/appshell/internal/config"
	shellerrors "github.com/conneroisu/appshell/internal/errors"
	"github.com/conneroisu/appshell/internal/navigation"
	"github.com/conneroisu/appshell/internal/registry"
	"github.com/conneroisu/appshell/internal/server"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"s"},
	Short:   "Start the shell server",
	Long: `Start the shell server. The page file is loaded and checked before the
server listens: every navigation group must have section metadata. With
pages.watch enabled, edits to the page file are applied without a restart
and open browser tabs reload.

Examples:
  appshell serve                       # Serve pages.yml on localhost:8050
  appshell serve -p 9000 --pages site.yml
  appshell serve --no-watch            # Disable page file hot reload`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 8050, "Port to serve on")
	serveCmd.Flags().String("host", "localhost", "Host to bind to")
	serveCmd.Flags().Bool("no-watch", false, "Don't reload the page file on change")
	addPagesFlag(serveCmd)

	AddFlagValidation(serveCmd.Flags(), "port", ValidatePort)

	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
}

// addPagesFlag registers --pages, which overrides pages.file.
func addPagesFlag(cmd *cobra.Command) {
	cmd.Flags().String("pages", "", "Page file (default pages.yml)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if noWatch, _ := cmd.Flags().GetBool("no-watch"); noWatch {
		cfg.Pages.Watch = false
	}

	logger := newLogger(cfg.Log)

	reg, err := loadPages(cfg)
	if err != nil {
		return err
	}

	srv, err := server.New(cfg, reg, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		logger.Info(context.Background(), "Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
			logger.Error(shutdownCtx, shutdownErr, "Error during server shutdown")
		}
	}()

	fmt.Fprintf(cmd.ErrOrStderr(), "Starting appshell at http://%s\n", cfg.Server.Addr())

	if err := srv.Start(ctx); err != nil {
		return shellerrors.NewEnhancedError(
			fmt.Sprintf("Failed to start server on port %d", cfg.Server.Port),
			err,
			shellerrors.ServerStartError(err, cfg.Server.Port, &shellerrors.SuggestionContext{}),
		)
	}

	return nil
}

// loadConfig reads the configuration and applies the --pages override.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		path := configPath()
		return nil, shellerrors.NewEnhancedError(
			"Failed to load configuration",
			err,
			shellerrors.ConfigurationError(err.Error(), path, &shellerrors.SuggestionContext{ConfigPath: path}),
		)
	}

	if flag := cmd.Flags().Lookup("pages"); flag != nil && flag.Changed {
		cfg.Pages.File = flag.Value.String()
	}

	return cfg, nil
}

// loadPages reads the page file into a registry and checks that the
// navigation can be built from it.
func loadPages(cfg *config.Config) (*registry.PageRegistry, error) {
	suggestionCtx := &shellerrors.SuggestionContext{
		ConfigPath: configPath(),
		PageFile:   cfg.Pages.File,
	}

	reg := registry.NewPageRegistry()
	if err := reg.LoadFile(cfg.Pages.File); err != nil {
		return nil, shellerrors.NewEnhancedError(
			"Failed to load page file "+cfg.Pages.File,
			err,
			shellerrors.PageFileError(err, suggestionCtx),
		)
	}

	if err := server.CheckSnapshot(reg.Snapshot(), cfg.Pages.Grouping); err != nil {
		for _, page := range reg.All() {
			suggestionCtx.KnownPaths = append(suggestionCtx.KnownPaths, page.Path)
		}
		return nil, missingSectionError(err, suggestionCtx)
	}

	return reg, nil
}

// missingSectionError wraps a navigation failure with suggestions for the
// first group lacking section metadata.
func missingSectionError(err error, ctx *shellerrors.SuggestionContext) error {
	var shellErr *shellerrors.ShellError
	if !errors.As(err, &shellErr) || shellErr.Code != shellerrors.CodeMissingSection {
		return err
	}

	level1, _ := shellErr.Context["level1"].(string)
	level2, _ := shellErr.Context["level2"].(string)

	title := "Navigation group without a section"
	var validationErr *navigation.ValidationError
	if errors.As(err, &validationErr) && len(validationErr.Missing) > 1 {
		title = fmt.Sprintf("%d navigation groups without a section", len(validationErr.Missing))
	}

	return shellerrors.NewEnhancedError(title, err, shellerrors.MissingSectionError(level1, level2, ctx))
}

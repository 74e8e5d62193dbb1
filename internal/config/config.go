// Package config provides configuration management for appshell using
// Viper for loading from files, environment variables, and command-line
// flags.
//
// The configuration system supports YAML files, environment variable
// overrides with the APPSHELL_ prefix, defaults, and validation. It manages
// server settings, the page file and its hot reload, the shell layout and
// theme, and logging.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/conneroisu/appshell/internal/navigation"
	"github.com/conneroisu/appshell/internal/shell"
	"github.com/conneroisu/appshell/internal/validation"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Pages  PagesConfig  `mapstructure:"pages"`
	Shell  ShellConfig  `mapstructure:"shell"`
	Log    LogConfig    `mapstructure:"log"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	Environment     string        `mapstructure:"environment"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type PagesConfig struct {
	File     string        `mapstructure:"file"`
	Watch    bool          `mapstructure:"watch"`
	Debounce time.Duration `mapstructure:"debounce"`
	// Grouping selects how level-2 groups are collected: "nested" scopes
	// them to their level-1 parent, "flat" shares one list across parents.
	Grouping  string `mapstructure:"grouping"`
	HomeLabel string `mapstructure:"home_label"`
}

type ShellConfig struct {
	Brand             BrandConfig  `mapstructure:"brand"`
	HeaderHeight      int          `mapstructure:"header_height"`
	HeaderPaddingX    int          `mapstructure:"header_padding_x"`
	DrawerSize        int          `mapstructure:"drawer_size"`
	ContainerWidth    string       `mapstructure:"container_width"`
	ContentPaddingTop int          `mapstructure:"content_padding_top"`
	LiveBindings      bool         `mapstructure:"live_bindings"`
	Links             []LinkConfig `mapstructure:"links"`
	Theme             ThemeConfig  `mapstructure:"theme"`
}

type BrandConfig struct {
	Full       string `mapstructure:"full"`
	Short      string `mapstructure:"short"`
	Breakpoint string `mapstructure:"breakpoint"`
}

type LinkConfig struct {
	Label string `mapstructure:"label"`
	Href  string `mapstructure:"href"`
	Icon  string `mapstructure:"icon"`
}

type ThemeConfig struct {
	Black         string              `mapstructure:"black"`
	PrimaryColor  string              `mapstructure:"primary_color"`
	Background    string              `mapstructure:"background"`
	Colors        map[string][]string `mapstructure:"colors"`
	Shadows       map[string]string   `mapstructure:"shadows"`
	HeadingsFont  string              `mapstructure:"headings_font"`
	HeadingsSizes map[string]int      `mapstructure:"headings_sizes"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Grouping modes for PagesConfig.Grouping.
const (
	GroupingNested = "nested"
	GroupingFlat   = "flat"
)

// SocketPath is where live binding sessions connect.
const SocketPath = "/ws"

// SetDefaults registers the default value of every key on v. Explicitly
// set values, config file entries and environment overrides win.
func SetDefaults(v *viper.Viper) {
	defaults := shell.DefaultOptions()

	v.SetDefault("server.port", 8050)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("pages.file", "pages.yml")
	v.SetDefault("pages.watch", true)
	v.SetDefault("pages.debounce", 300*time.Millisecond)
	v.SetDefault("pages.grouping", GroupingNested)
	v.SetDefault("pages.home_label", navigation.HomeLabel)

	v.SetDefault("shell.brand.full", defaults.Brand.Full)
	v.SetDefault("shell.brand.short", defaults.Brand.Short)
	v.SetDefault("shell.brand.breakpoint", defaults.Brand.Breakpoint)
	v.SetDefault("shell.header_height", defaults.HeaderHeight)
	v.SetDefault("shell.header_padding_x", defaults.HeaderPaddingX)
	v.SetDefault("shell.drawer_size", defaults.DrawerSize)
	v.SetDefault("shell.container_width", defaults.ContainerWidth)
	v.SetDefault("shell.content_padding_top", defaults.ContentPadding)
	v.SetDefault("shell.live_bindings", true)

	links := make([]map[string]interface{}, 0, len(defaults.Links))
	for _, link := range defaults.Links {
		links = append(links, map[string]interface{}{
			"label": link.Label,
			"href":  link.Href,
			"icon":  link.Icon,
		})
	}
	v.SetDefault("shell.links", links)

	theme := defaults.Theme
	v.SetDefault("shell.theme.black", theme.Black)
	v.SetDefault("shell.theme.primary_color", theme.PrimaryColor)
	v.SetDefault("shell.theme.background", theme.Background)
	v.SetDefault("shell.theme.colors", theme.Colors)
	v.SetDefault("shell.theme.shadows", theme.Shadows)
	v.SetDefault("shell.theme.headings_font", theme.HeadingsFont)
	v.SetDefault("shell.theme.headings_sizes", theme.HeadingsSizes)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads the configuration from the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads and validates the configuration held by v.
func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// NavOptions returns the navigation builder options for this page
// configuration, marking current as the active path when it is set.
func (c PagesConfig) NavOptions(current string) []navigation.Option {
	opts := []navigation.Option{navigation.WithHomeLabel(c.HomeLabel)}
	if current != "" {
		opts = append(opts, navigation.WithCurrentPath(current))
	}
	if c.Grouping == GroupingFlat {
		opts = append(opts, navigation.WithFlatGrouping())
	}

	return opts
}

// Addr returns the host:port the server listens on.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsProduction reports whether the server runs in production mode.
func (c ServerConfig) IsProduction() bool {
	return c.Environment == "production"
}

// Options converts the shell section to layout options.
func (c ShellConfig) Options() shell.Options {
	links := make([]shell.Link, 0, len(c.Links))
	for _, link := range c.Links {
		links = append(links, shell.Link{Label: link.Label, Href: link.Href, Icon: link.Icon})
	}

	opts := shell.Options{
		Brand: shell.Brand{
			Full:       c.Brand.Full,
			Short:      c.Brand.Short,
			Breakpoint: c.Brand.Breakpoint,
		},
		HeaderHeight:   c.HeaderHeight,
		HeaderPaddingX: c.HeaderPaddingX,
		DrawerSize:     c.DrawerSize,
		ContainerWidth: c.ContainerWidth,
		ContentPadding: c.ContentPaddingTop,
		Links:          links,
		Theme: shell.Theme{
			Black:         c.Theme.Black,
			PrimaryColor:  c.Theme.PrimaryColor,
			Background:    c.Theme.Background,
			Colors:        c.Theme.Colors,
			Shadows:       c.Theme.Shadows,
			HeadingsFont:  c.Theme.HeadingsFont,
			HeadingsSizes: c.Theme.HeadingsSizes,
		},
	}
	if c.LiveBindings {
		opts.SocketPath = SocketPath
	}

	return opts
}

// validateConfig validates configuration values for security and correctness
func validateConfig(config *Config) error {
	if err := validateServerConfig(&config.Server); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := validatePagesConfig(&config.Pages); err != nil {
		return fmt.Errorf("pages config: %w", err)
	}

	if err := config.Shell.Options().Validate(); err != nil {
		return fmt.Errorf("shell config: %w", err)
	}

	return nil
}

// validateServerConfig validates server configuration values
func validateServerConfig(config *ServerConfig) error {
	// Port 0 lets the system pick a free port in tests.
	if config.Port < 0 || config.Port > 65535 {
		return fmt.Errorf("port %d is not in valid range 0-65535", config.Port)
	}

	if config.Host != "" {
		if err := validateHostname(config.Host); err != nil {
			return err
		}
	}

	for _, origin := range config.AllowedOrigins {
		if err := validation.ValidateOrigin(origin); err != nil {
			return err
		}
	}

	if config.ShutdownTimeout < 0 {
		return fmt.Errorf("shutdown_timeout cannot be negative")
	}

	return nil
}

// validatePagesConfig validates the page file settings
func validatePagesConfig(config *PagesConfig) error {
	if config.File == "" {
		return fmt.Errorf("page file cannot be empty")
	}
	if err := validatePath(config.File); err != nil {
		return fmt.Errorf("invalid page file '%s': %w", config.File, err)
	}

	if config.Debounce < 0 {
		return fmt.Errorf("debounce cannot be negative")
	}

	switch config.Grouping {
	case GroupingNested, GroupingFlat:
	default:
		return fmt.Errorf("grouping must be %q or %q, got %q", GroupingNested, GroupingFlat, config.Grouping)
	}

	if strings.TrimSpace(config.HomeLabel) == "" {
		return fmt.Errorf("home label cannot be empty")
	}

	return nil
}

// validatePath validates a file path for security
func validatePath(path string) error {
	cleanPath := filepath.Clean(path)

	// Reject path traversal attempts
	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path contains traversal: %s", path)
	}

	dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'"}
	for _, char := range dangerousChars {
		if strings.Contains(cleanPath, char) {
			return fmt.Errorf("path contains dangerous character: %s", char)
		}
	}

	return nil
}

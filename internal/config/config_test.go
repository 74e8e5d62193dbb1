package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/appshell/internal/navigation"
	"github.com/conneroisu/appshell/internal/registry"
	"github.com/conneroisu/appshell/internal/shell"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		setup       func()
		expectError bool
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "successful load with defaults",
			setup: func() {
				viper.Reset()
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8050, cfg.Server.Port)
				assert.Equal(t, "localhost", cfg.Server.Host)
				assert.Equal(t, "pages.yml", cfg.Pages.File)
				assert.Equal(t, GroupingNested, cfg.Pages.Grouping)
			},
		},
		{
			name: "explicit values win over defaults",
			setup: func() {
				viper.Reset()
				viper.Set("server.port", 3000)
				viper.Set("server.host", "0.0.0.0")
				viper.Set("pages.file", "site/pages.yaml")
				viper.Set("pages.grouping", GroupingFlat)
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 3000, cfg.Server.Port)
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)
				assert.Equal(t, "site/pages.yaml", cfg.Pages.File)
				assert.Equal(t, GroupingFlat, cfg.Pages.Grouping)
			},
		},
		{
			name: "invalid viper config",
			setup: func() {
				viper.Reset()
				viper.Set("server.port", "invalid_port")
			},
			expectError: true,
		},
		{
			name: "invalid grouping",
			setup: func() {
				viper.Reset()
				viper.Set("pages.grouping", "tree")
			},
			expectError: true,
		},
		{
			name: "page file traversal",
			setup: func() {
				viper.Reset()
				viper.Set("pages.file", "../../etc/pages.yml")
			},
			expectError: true,
		},
		{
			name: "content under the header",
			setup: func() {
				viper.Reset()
				viper.Set("shell.content_padding_top", 10)
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer viper.Reset()

			config, err := Load()

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, config)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, config)
			tt.check(t, config)
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg, err := LoadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Server.Environment)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Empty(t, cfg.Server.AllowedOrigins)

	assert.True(t, cfg.Pages.Watch)
	assert.Equal(t, 300*time.Millisecond, cfg.Pages.Debounce)

	assert.Equal(t, "VisuCalc", cfg.Shell.Brand.Full)
	assert.Equal(t, "VC", cfg.Shell.Brand.Short)
	assert.Equal(t, 70, cfg.Shell.HeaderHeight)
	assert.Equal(t, 25, cfg.Shell.HeaderPaddingX)
	assert.Equal(t, 300, cfg.Shell.DrawerSize)
	assert.Equal(t, "80%", cfg.Shell.ContainerWidth)
	assert.Equal(t, 90, cfg.Shell.ContentPaddingTop)
	assert.True(t, cfg.Shell.LiveBindings)
	require.Len(t, cfg.Shell.Links, 1)
	assert.Equal(t, "https://github.com/AMadmanWithABox/Capstone", cfg.Shell.Links[0].Href)

	assert.Equal(t, "#2d4b81", cfg.Shell.Theme.Black)
	assert.Equal(t, "blue", cfg.Shell.Theme.PrimaryColor)
	assert.Len(t, cfg.Shell.Theme.Colors[shell.DeepBlue], shell.PaletteSize)
	assert.Equal(t, 30, cfg.Shell.Theme.HeadingsSizes["h1"])

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".appshell.yml")
	content := `server:
  port: 9090
  allowed_origins:
    - https://dashboard.example.com
pages:
  file: pages.yml
  debounce: 1s
shell:
  brand:
    full: Analytics
    short: AN
  live_bindings: false
log:
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := LoadFrom(v)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"https://dashboard.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, time.Second, cfg.Pages.Debounce)
	assert.Equal(t, "Analytics", cfg.Shell.Brand.Full)
	assert.Equal(t, "AN", cfg.Shell.Brand.Short)
	assert.Equal(t, 70, cfg.Shell.HeaderHeight, "unset keys keep defaults")
	assert.False(t, cfg.Shell.LiveBindings)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadWithEnvironment(t *testing.T) {
	t.Setenv("APPSHELL_SERVER_PORT", "9999")
	t.Setenv("APPSHELL_SERVER_ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")
	t.Setenv("APPSHELL_PAGES_WATCH", "false")

	v := viper.New()
	v.SetEnvPrefix("APPSHELL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg, err := LoadFrom(v)
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Server.AllowedOrigins)
	assert.False(t, cfg.Pages.Watch)
}

func TestServerConfigHelpers(t *testing.T) {
	cfg := ServerConfig{Host: "localhost", Port: 8050}
	assert.Equal(t, "localhost:8050", cfg.Addr())
	assert.False(t, cfg.IsProduction())

	cfg.Environment = "production"
	assert.True(t, cfg.IsProduction())
}

func TestShellConfigOptions(t *testing.T) {
	cfg, err := LoadFrom(viper.New())
	require.NoError(t, err)

	opts := cfg.Shell.Options()
	assert.Equal(t, SocketPath, opts.SocketPath)
	assert.Equal(t, "VisuCalc", opts.Brand.Full)
	assert.Equal(t, "75em", opts.Brand.Breakpoint)
	assert.Equal(t, 90, opts.ContentPadding)
	require.Len(t, opts.Links, 1)
	assert.Equal(t, "github", opts.Links[0].Icon)
	require.NoError(t, opts.Validate())

	cfg.Shell.LiveBindings = false
	assert.Empty(t, cfg.Shell.Options().SocketPath)
}

func TestValidateServerConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  ServerConfig
		wantErr bool
	}{
		{"valid", ServerConfig{Port: 8050, Host: "localhost"}, false},
		{"system port", ServerConfig{Port: 0, Host: "127.0.0.1"}, false},
		{"port too high", ServerConfig{Port: 70000}, true},
		{"negative port", ServerConfig{Port: -1}, true},
		{"dangerous host", ServerConfig{Port: 80, Host: "localhost;rm"}, true},
		{"bad hostname", ServerConfig{Port: 80, Host: "-bad-"}, true},
		{"negative shutdown", ServerConfig{Port: 80, ShutdownTimeout: -time.Second}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateServerConfig(&tt.config)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateConfigWithDetails(t *testing.T) {
	cfg, err := LoadFrom(viper.New())
	require.NoError(t, err)

	cfg.Pages.File = filepath.Join(t.TempDir(), "missing.yml")
	result := ValidateConfigWithDetails(cfg)
	assert.True(t, result.Valid)
	assert.True(t, result.HasWarnings())
	assert.Contains(t, result.String(), "page file does not exist")

	cfg.Server.Port = 80
	cfg.Server.Environment = "staging"
	cfg.Log.Format = "xml"
	cfg.Pages.Grouping = "tree"
	result = ValidateConfigWithDetails(cfg)
	assert.False(t, result.Valid)

	var errorFields []string
	for _, e := range result.Errors {
		errorFields = append(errorFields, e.Field)
	}
	assert.ElementsMatch(t, []string{"log.format", "pages.grouping"}, errorFields)

	var warningFields []string
	for _, w := range result.Warnings {
		warningFields = append(warningFields, w.Field)
	}
	assert.Contains(t, warningFields, "server.port")
	assert.Contains(t, warningFields, "server.environment")

	output := result.String()
	assert.Contains(t, output, "Validation Errors:")
	assert.Contains(t, output, "Use 'text' or 'json'")
}

func TestLoadFromFile_PaletteOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".appshell.yml")
	content := `shell:
  theme:
    colors:
      deepBlue: ["#909090", "#919191", "#929292", "#939393", "#949494",
                 "#959595", "#969696", "#979797", "#989898", "#999999"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := LoadFrom(v)
	require.NoError(t, err)

	require.Len(t, cfg.Shell.Theme.Colors, 1)
	assert.Equal(t, "#999999", cfg.Shell.Theme.Colors[shell.DeepBlue][9])

	vars := cfg.Shell.Options().Theme.Vars()
	assert.Contains(t, vars, "--shell-color-deepblue-9: #999999;")
	assert.NotContains(t, vars, "--shell-color-deepblue-9: #2d4b81;")
}

func TestPagesConfigNavOptions(t *testing.T) {
	snap := registry.NewSnapshot([]registry.PageDescriptor{
		{Path: "/", Name: "Overview"},
		{Path: "/a", Name: "A"},
		{Path: "/a/x", Name: "AX"},
		{Path: "/a/x/leaf", Name: "Leaf"},
	}, nil)

	v := viper.New()
	v.Set("pages.home_label", "Start")
	cfg, err := LoadFrom(v)
	require.NoError(t, err)

	tree, err := navigation.Build(snap, cfg.Pages.NavOptions("/a/x/leaf")...)
	require.NoError(t, err)

	assert.Equal(t, "Start", tree[0].Label)
	assert.Equal(t, []string{"A", "AX", "Leaf"}, navigation.ActiveTrail(tree))

	cfg.Pages.HomeLabel = "  "
	assert.Error(t, validateConfig(cfg))
}

func TestValidateConfigWithDetails_OriginScheme(t *testing.T) {
	cfg, err := LoadFrom(viper.New())
	require.NoError(t, err)

	cfg.Pages.File = "config_test.go"
	cfg.Server.AllowedOrigins = []string{"https://dashboard.example.com", "dashboard.example.com"}

	result := ValidateConfigWithDetails(cfg)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "server.allowed_origins", result.Errors[0].Field)
	assert.Equal(t, "dashboard.example.com", result.Errors[0].Value)
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Field: "server.port", Message: "bad"}
	assert.Equal(t, "validation error in server.port: bad", err.Error())
}

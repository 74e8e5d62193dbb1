package config

import (
	"fmt"
	"net"
	"os"
	"regexp"
	"slices"
	"strings"

	"github.com/conneroisu/appshell/internal/validation"
)

// ValidationError represents a configuration validation error with suggestions
type ValidationError struct {
	Field       string
	Value       interface{}
	Message     string
	Suggestions []string
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", ve.Field, ve.Message)
}

// ValidationResult holds the result of configuration validation
type ValidationResult struct {
	Valid    bool
	Errors   []ValidationError
	Warnings []ValidationError
}

// HasErrors returns true if there are any validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings
func (vr *ValidationResult) HasWarnings() bool {
	return len(vr.Warnings) > 0
}

// String returns a formatted string of all validation issues
func (vr *ValidationResult) String() string {
	var builder strings.Builder

	if len(vr.Errors) > 0 {
		builder.WriteString("Validation Errors:\n")
		for _, err := range vr.Errors {
			builder.WriteString(fmt.Sprintf("  • %s: %s\n", err.Field, err.Message))
			for _, suggestion := range err.Suggestions {
				builder.WriteString(fmt.Sprintf("    - %s\n", suggestion))
			}
		}
		builder.WriteString("\n")
	}

	if len(vr.Warnings) > 0 {
		builder.WriteString("Validation Warnings:\n")
		for _, warning := range vr.Warnings {
			builder.WriteString(fmt.Sprintf("  • %s: %s\n", warning.Field, warning.Message))
			for _, suggestion := range warning.Suggestions {
				builder.WriteString(fmt.Sprintf("    - %s\n", suggestion))
			}
		}
	}

	return builder.String()
}

// ValidateConfigWithDetails performs validation with detailed feedback. It
// reports problems Load would reject as errors, and suspicious but usable
// settings as warnings.
func ValidateConfigWithDetails(config *Config) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   []ValidationError{},
		Warnings: []ValidationError{},
	}

	validateServerConfigDetails(&config.Server, result)
	validatePagesConfigDetails(&config.Pages, result)
	validateShellConfigDetails(&config.Shell, result)
	validateLogConfigDetails(&config.Log, result)

	result.Valid = !result.HasErrors()

	return result
}

func validateServerConfigDetails(config *ServerConfig, result *ValidationResult) {
	if config.Port < 0 || config.Port > 65535 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "server.port",
			Value:   config.Port,
			Message: fmt.Sprintf("port %d is not in valid range 0-65535", config.Port),
			Suggestions: []string{
				"Use a port between 1024-65535 for non-privileged access",
				"Port 0 allows system to assign an available port",
			},
		})
	} else if config.Port > 0 && config.Port < 1024 {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "server.port",
			Value:   config.Port,
			Message: "port below 1024 requires elevated privileges",
			Suggestions: []string{
				"Consider using a port above 1024 for development",
			},
		})
	}

	if config.Host != "" {
		if err := validateHostname(config.Host); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "server.host",
				Value:   config.Host,
				Message: err.Error(),
				Suggestions: []string{
					"Use 'localhost' for local development",
					"Use '0.0.0.0' to bind to all interfaces",
				},
			})
		}
	}

	validEnvs := []string{"development", "production", "testing"}
	if config.Environment != "" && !slices.Contains(validEnvs, config.Environment) {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "server.environment",
			Value:   config.Environment,
			Message: "unknown environment type",
			Suggestions: []string{
				"Use one of: " + strings.Join(validEnvs, ", "),
			},
		})
	}

	for _, origin := range config.AllowedOrigins {
		if err := validation.ValidateOrigin(origin); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "server.allowed_origins",
				Value:   origin,
				Message: err.Error(),
				Suggestions: []string{
					"Write the full origin, e.g. 'https://dashboard.example.com'",
				},
			})
		}
	}
}

func validatePagesConfigDetails(config *PagesConfig, result *ValidationResult) {
	if config.File == "" {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "pages.file",
			Value:   config.File,
			Message: "page file cannot be empty",
			Suggestions: []string{
				"Set pages.file to the YAML file listing your pages",
			},
		})
		return
	}

	if err := validatePath(config.File); err != nil {
		result.Errors = append(result.Errors, ValidationError{
			Field:       "pages.file",
			Value:       config.File,
			Message:     err.Error(),
			Suggestions: []string{"Use a path inside the project directory"},
		})
	} else if !pathExists(config.File) {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "pages.file",
			Value:   config.File,
			Message: "page file does not exist",
			Suggestions: []string{
				"Create it with a 'pages' list of path/name entries",
				"Pages can also be registered from Go code",
			},
		})
	}

	if config.Grouping != GroupingNested && config.Grouping != GroupingFlat {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "pages.grouping",
			Value:   config.Grouping,
			Message: "unknown grouping mode",
			Suggestions: []string{
				fmt.Sprintf("Use %q to group level-2 sections under their own parent", GroupingNested),
				fmt.Sprintf("Use %q to share level-2 sections across parents", GroupingFlat),
			},
		})
	}

	if strings.TrimSpace(config.HomeLabel) == "" {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "pages.home_label",
			Value:   config.HomeLabel,
			Message: "home label cannot be empty",
			Suggestions: []string{
				fmt.Sprintf("Remove the key to use %q", "Home"),
			},
		})
	}

	if config.Watch && config.Debounce == 0 {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:       "pages.debounce",
			Value:       config.Debounce,
			Message:     "watching without debounce reloads once per editor write",
			Suggestions: []string{"Use a debounce of a few hundred milliseconds"},
		})
	}
}

func validateShellConfigDetails(config *ShellConfig, result *ValidationResult) {
	if err := config.Options().Validate(); err != nil {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "shell",
			Value:   nil,
			Message: err.Error(),
			Suggestions: []string{
				"Remove the shell section to fall back to the stock layout",
			},
		})
	}

	for _, link := range config.Links {
		if link.Icon == "" {
			result.Warnings = append(result.Warnings, ValidationError{
				Field:       "shell.links",
				Value:       link.Label,
				Message:     "header link has no icon and renders as a bullet",
				Suggestions: []string{"Set icon to 'github'"},
			})
		}
	}
}

func validateLogConfigDetails(config *LogConfig, result *ValidationResult) {
	validFormats := []string{"text", "json"}
	if config.Format != "" && !slices.Contains(validFormats, config.Format) {
		result.Errors = append(result.Errors, ValidationError{
			Field:       "log.format",
			Value:       config.Format,
			Message:     "unknown log format",
			Suggestions: []string{"Use 'text' or 'json'"},
		})
	}
}

// Helper validation functions

func validateHostname(host string) error {
	dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'", "\\"}
	for _, char := range dangerousChars {
		if strings.Contains(host, char) {
			return fmt.Errorf("host contains dangerous character: %s", char)
		}
	}

	if net.ParseIP(host) != nil {
		return nil
	}

	if host == "localhost" {
		return nil
	}

	hostnameRegex := regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(\.[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)
	if !hostnameRegex.MatchString(host) {
		return fmt.Errorf("invalid hostname format")
	}

	return nil
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

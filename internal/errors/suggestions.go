package errors

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrorSuggestion represents a suggestion for fixing an error
type ErrorSuggestion struct {
	Title       string
	Description string
	Command     string
	Example     string
}

// SuggestionContext provides context for generating suggestions
type SuggestionContext struct {
	ConfigPath string
	PageFile   string
	KnownPaths []string
}

// MissingSectionError generates suggestions for a navigation group without
// section metadata.
func MissingSectionError(level1, level2 string, ctx *SuggestionContext) []ErrorSuggestion {
	groupPath := "/" + level1
	sectionYAML := fmt.Sprintf("sections:\n  - level1: %s\n    name: %s", level1, suggestLabel(level1))
	if level2 != "" {
		groupPath += "/" + level2
		sectionYAML = fmt.Sprintf("sections:\n  - level1: %s\n    level2: %s\n    name: %s",
			level1, level2, suggestLabel(level2))
	}

	suggestions := []ErrorSuggestion{
		{
			Title:       "Register a home page for the group",
			Description: fmt.Sprintf("A page at exactly %s names its navigation group", groupPath),
			Example:     fmt.Sprintf("pages:\n  - path: %s\n    name: %s", groupPath, suggestLabel(lastSegment(groupPath))),
		},
		{
			Title:       "Declare the section explicitly",
			Description: "Add a sections entry to the page file",
			Example:     sectionYAML,
		},
	}

	if ctx != nil && ctx.PageFile != "" {
		suggestions = append(suggestions, ErrorSuggestion{
			Title:       "Inspect the page file",
			Description: "Check the registered pages for typos in the path segments",
			Command:     "cat " + ctx.PageFile,
		})
	}

	if ctx != nil {
		for _, known := range ctx.KnownPaths {
			if strings.HasPrefix(known, groupPath+"/") {
				suggestions = append(suggestions, ErrorSuggestion{
					Title:       "Pages under " + groupPath,
					Description: "This page needs the group to be named: " + known,
				})
				break
			}
		}
	}

	return suggestions
}

// PageFileError generates suggestions for an unreadable or invalid page file
func PageFileError(err error, ctx *SuggestionContext) []ErrorSuggestion {
	pageFile := "pages.yml"
	if ctx != nil && ctx.PageFile != "" {
		pageFile = ctx.PageFile
	}

	suggestions := []ErrorSuggestion{
		{
			Title:       "Check the page file exists",
			Description: "The page registry is loaded from " + pageFile,
			Command:     "ls -la " + pageFile,
		},
	}

	errStr := err.Error()

	if strings.Contains(errStr, "yaml") || strings.Contains(errStr, "unmarshal") {
		suggestions = append(suggestions, ErrorSuggestion{
			Title:       "Fix YAML syntax",
			Description: "There's a syntax error in the page file",
			Example:     "pages:\n  - path: /reports\n    name: Reports",
		})
	}

	if strings.Contains(errStr, CodeInvalidPath) {
		suggestions = append(suggestions, ErrorSuggestion{
			Title:       "Use absolute page paths",
			Description: "Every page path must start with a slash",
			Example:     "path: /reports/monthly",
		})
	}

	if strings.Contains(errStr, CodeDuplicatePath) {
		suggestions = append(suggestions, ErrorSuggestion{
			Title:       "Remove duplicate pages",
			Description: "Each path may be registered only once",
		})
	}

	return suggestions
}

// ServerStartError generates suggestions for server startup failures
func ServerStartError(err error, port int, ctx *SuggestionContext) []ErrorSuggestion {
	suggestions := []ErrorSuggestion{}

	errStr := err.Error()

	if strings.Contains(errStr, "address already in use") || strings.Contains(errStr, "bind") {
		suggestions = append(suggestions, ErrorSuggestion{
			Title:       "Port already in use",
			Description: fmt.Sprintf("Port %d is already being used by another process", port),
			Command:     fmt.Sprintf("lsof -i :%d", port),
		})

		suggestions = append(suggestions, ErrorSuggestion{
			Title:       "Use a different port",
			Description: "Start the shell on a different port",
			Command:     fmt.Sprintf("appshell serve --port %d", port+1000),
		})
	}

	if strings.Contains(errStr, "permission denied") && port < 1024 {
		suggestions = append(suggestions, ErrorSuggestion{
			Title:       "Use unprivileged port",
			Description: "Ports below 1024 require root privileges",
			Command:     "appshell serve --port 8050",
		})
	}

	return suggestions
}

// ConfigurationError generates suggestions for configuration issues
func ConfigurationError(configError string, configPath string, ctx *SuggestionContext) []ErrorSuggestion {
	suggestions := []ErrorSuggestion{
		{
			Title:       "Check configuration file",
			Description: "Verify your .appshell.yml file exists and has valid syntax",
			Command:     "cat " + configPath,
		},
		{
			Title:       "Validate the page registry",
			Description: "Check pages and sections without starting the server",
			Command:     "appshell validate",
		},
	}

	if strings.Contains(configError, "yaml") || strings.Contains(configError, "unmarshal") {
		suggestions = append(suggestions, ErrorSuggestion{
			Title:       "Fix YAML syntax",
			Description: "There's a syntax error in your YAML configuration",
			Example:     "Use proper indentation and avoid tabs",
		})
	}

	if strings.Contains(configError, "port") {
		suggestions = append(suggestions, ErrorSuggestion{
			Title:       "Check the server port",
			Description: "Ports must be in the range 0-65535",
			Example:     "server:\n  port: 8050",
		})
	}

	return suggestions
}

// FormatSuggestions formats suggestions into a user-friendly string
func FormatSuggestions(title string, suggestions []ErrorSuggestion) string {
	if len(suggestions) == 0 {
		return title
	}

	var output strings.Builder
	output.WriteString(title + "\n\n")
	output.WriteString("Suggestions:\n")

	for i, suggestion := range suggestions {
		output.WriteString(fmt.Sprintf("  %d. %s\n", i+1, suggestion.Title))
		if suggestion.Description != "" {
			output.WriteString(fmt.Sprintf("     %s\n", suggestion.Description))
		}
		if suggestion.Command != "" {
			output.WriteString(fmt.Sprintf("     Run: %s\n", suggestion.Command))
		}
		if suggestion.Example != "" {
			output.WriteString(fmt.Sprintf("     Example: %s\n", suggestion.Example))
		}
		output.WriteString("\n")
	}

	return output.String()
}

// EnhancedError wraps an error with suggestions
type EnhancedError struct {
	OriginalError error
	Title         string
	Suggestions   []ErrorSuggestion
}

// Error implements the error interface
func (e *EnhancedError) Error() string {
	return FormatSuggestions(e.Title, e.Suggestions)
}

// Unwrap returns the original error
func (e *EnhancedError) Unwrap() error {
	return e.OriginalError
}

// NewEnhancedError creates a new enhanced error with suggestions
func NewEnhancedError(title string, originalError error, suggestions []ErrorSuggestion) *EnhancedError {
	return &EnhancedError{
		OriginalError: originalError,
		Title:         title,
		Suggestions:   suggestions,
	}
}

// suggestLabel turns a path segment such as "monthly_reports" into a
// display name ("Monthly Reports") for example snippets.
func suggestLabel(segment string) string {
	words := strings.FieldsFunc(segment, func(r rune) bool {
		return r == '_' || r == '-'
	})
	if len(words) == 0 {
		return segment
	}

	return cases.Title(language.English).String(strings.Join(words, " "))
}

func lastSegment(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}

	return path
}

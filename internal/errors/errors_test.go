package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShellError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ShellError
		expected string
	}{
		{
			name:     "message only",
			err:      &ShellError{Message: "boom"},
			expected: "boom",
		},
		{
			name:     "code and path",
			err:      &ShellError{Code: CodeInvalidPath, Message: "bad path", Path: "reports"},
			expected: "[INVALID_PATH] path:reports bad path",
		},
		{
			name:     "with cause",
			err:      &ShellError{Code: CodePageFile, Message: "read failed", Cause: fmt.Errorf("no such file")},
			expected: "[PAGE_FILE] read failed: no such file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestShellError_Is(t *testing.T) {
	err := MissingSection("reports", "monthly")

	assert.True(t, errors.Is(err, ErrMissingSection))
	assert.False(t, errors.Is(err, NewValidationError(CodeInvalidPath, "x")))

	wrapped := fmt.Errorf("building navigation: %w", err)
	assert.True(t, errors.Is(wrapped, ErrMissingSection))
}

func TestMissingSection(t *testing.T) {
	err := MissingSection("reports", "")
	assert.Equal(t, "/reports", err.Path)
	assert.Equal(t, ErrorTypeConfig, err.Type)
	assert.False(t, err.Recoverable)
	assert.Equal(t, "reports", err.Context["level1"])

	err = MissingSection("reports", "monthly")
	assert.Equal(t, "/reports/monthly", err.Path)
	assert.Contains(t, err.Error(), "no section registered for /reports/monthly")
}

func TestShellError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("disk gone")
	err := NewIOError(CodePageFile, "read failed", cause)

	assert.Equal(t, cause, errors.Unwrap(err))
	assert.True(t, IsRecoverable(err))
	assert.Equal(t, ErrorTypeIO, GetErrorType(err))
	assert.Equal(t, ErrorType(""), GetErrorType(cause))
}

func TestMissingSectionError_Suggestions(t *testing.T) {
	ctx := &SuggestionContext{
		PageFile:   "pages.yml",
		KnownPaths: []string{"/", "/monthly_reports/q1/summary"},
	}

	suggestions := MissingSectionError("monthly_reports", "q1", ctx)
	require.NotEmpty(t, suggestions)

	assert.Contains(t, suggestions[0].Example, "path: /monthly_reports/q1")
	assert.Contains(t, suggestions[1].Example, "name: Q1")
	assert.Equal(t, "cat pages.yml", suggestions[2].Command)
	assert.Contains(t, suggestions[3].Description, "/monthly_reports/q1/summary")
}

func TestSuggestLabel(t *testing.T) {
	assert.Equal(t, "Monthly Reports", suggestLabel("monthly_reports"))
	assert.Equal(t, "Cash Flow", suggestLabel("cash-flow"))
	assert.Equal(t, "", suggestLabel(""))
}

func TestPageFileError(t *testing.T) {
	err := NewValidationError(CodeDuplicatePath, "path registered twice")
	suggestions := PageFileError(err, &SuggestionContext{PageFile: "conf/pages.yml"})

	require.Len(t, suggestions, 2)
	assert.Equal(t, "ls -la conf/pages.yml", suggestions[0].Command)
	assert.Equal(t, "Remove duplicate pages", suggestions[1].Title)
}

func TestEnhancedError(t *testing.T) {
	original := fmt.Errorf("listen tcp :80: bind: permission denied")
	suggestions := ServerStartError(original, 80, nil)
	require.NotEmpty(t, suggestions)

	enhanced := NewEnhancedError("Failed to start server on port 80", original, suggestions)

	assert.Equal(t, original, errors.Unwrap(enhanced))
	assert.Contains(t, enhanced.Error(), "Failed to start server on port 80")
	assert.Contains(t, enhanced.Error(), "Suggestions:")
	assert.Contains(t, enhanced.Error(), "appshell serve --port")
}

func TestFormatSuggestions_Empty(t *testing.T) {
	assert.Equal(t, "title", FormatSuggestions("title", nil))
}

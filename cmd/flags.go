package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// Output formats accepted by -o.
const (
	formatTree = "tree"
	formatJSON = "json"
	formatYAML = "yaml"
	formatText = "text"
)

// AddFlagValidation makes the named flag reject values the validator
// refuses, at parse time.
func AddFlagValidation(flags *pflag.FlagSet, flagName string, validator func(string) error) {
	flag := flags.Lookup(flagName)
	if flag == nil {
		return
	}

	flag.Value = &validatingValue{
		Value:     flag.Value,
		validator: validator,
	}
}

type validatingValue struct {
	pflag.Value
	validator func(string) error
}

func (v *validatingValue) Set(val string) error {
	if err := v.validator(val); err != nil {
		return err
	}

	return v.Value.Set(val)
}

// ValidateChoice accepts only the listed values, case-insensitively.
func ValidateChoice(choices ...string) func(string) error {
	return func(val string) error {
		for _, choice := range choices {
			if strings.EqualFold(val, choice) {
				return nil
			}
		}

		return fmt.Errorf("invalid value %q (supported: %s)", val, strings.Join(choices, ", "))
	}
}

// ValidatePort accepts 0 through 65535. Zero asks the system for a free port.
func ValidatePort(portStr string) error {
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return fmt.Errorf("invalid port number: %s", portStr)
	}

	if port < 0 || port > 65535 {
		return fmt.Errorf("port must be between 0 and 65535, got %d", port)
	}

	return nil
}

// ValidatePagePath accepts absolute route paths.
func ValidatePagePath(path string) error {
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("path must start with /, got %q", path)
	}

	return nil
}

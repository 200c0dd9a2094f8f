// conf/validate.go

package conf

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("validation errors: %v", ve.Errors)
}

// ValidateSettings validates the entire Settings struct
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	if err := validateINatSettings(&settings.INat); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}
	if err := validateDiffSettings(&settings.Diff); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}
	if err := validateOutputSettings(&settings.Output); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}
	if err := validateMCPSettings(&settings.MCP); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateINatSettings(settings *INatSettings) error {
	var errs []string

	if settings.BaseURL == "" {
		errs = append(errs, "inat baseurl must not be empty")
	} else if u, err := url.Parse(settings.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Sprintf("inat baseurl %q is not a valid URL", settings.BaseURL))
	}

	if settings.Timeout <= 0 {
		errs = append(errs, "inat timeout must be greater than 0 seconds")
	}

	if settings.RateLimit <= 0 {
		errs = append(errs, "inat ratelimit must be greater than 0 seconds")
	}

	if settings.MaxAttempts < 1 {
		errs = append(errs, "inat maxattempts must be at least 1")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDiffSettings(settings *DiffSettings) error {
	if settings.LookbackYears < 1 || settings.LookbackYears > 100 {
		return fmt.Errorf("diff lookbackyears must be between 1 and 100, got %d", settings.LookbackYears)
	}
	return nil
}

func validateOutputSettings(settings *OutputSettings) error {
	var errs []string

	switch settings.Format {
	case "text", "json", "markdown":
	default:
		errs = append(errs, fmt.Sprintf("output format %q is not one of text, json, markdown", settings.Format))
	}

	if settings.SpeciesDisplayLimit < 1 {
		errs = append(errs, "output speciesdisplaylimit must be at least 1")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateMCPSettings(settings *MCPSettings) error {
	var errs []string

	if settings.CacheTTL < 0 {
		errs = append(errs, "mcp cachettl must not be negative")
	}

	if settings.ResultLimit < 1 {
		errs = append(errs, "mcp resultlimit must be at least 1")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

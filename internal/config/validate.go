package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationSeverity indicates whether a validation issue is an error or warning.
type ValidationSeverity string

const (
	// SeverityError indicates a fatal validation issue; the configuration is unusable.
	SeverityError ValidationSeverity = "error"
	// SeverityWarning indicates an informational validation issue; the configuration
	// works but may have problems.
	SeverityWarning ValidationSeverity = "warning"
)

// ValidationIssue represents a single validation finding.
type ValidationIssue struct {
	Severity ValidationSeverity
	Field    string // dotted path, e.g., "storage.backend"
	Message  string
}

// ValidationResult holds all validation findings.
type ValidationResult struct {
	Issues []ValidationIssue
}

// HasErrors returns true if any issue has error severity.
func (vr *ValidationResult) HasErrors() bool {
	for _, issue := range vr.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Errors returns only error-severity issues.
func (vr *ValidationResult) Errors() []ValidationIssue {
	var errs []ValidationIssue
	for _, issue := range vr.Issues {
		if issue.Severity == SeverityError {
			errs = append(errs, issue)
		}
	}
	return errs
}

// Warnings returns only warning-severity issues.
func (vr *ValidationResult) Warnings() []ValidationIssue {
	var warns []ValidationIssue
	for _, issue := range vr.Issues {
		if issue.Severity == SeverityWarning {
			warns = append(warns, issue)
		}
	}
	return warns
}

// validBackends is the set of valid values for storage.backend.
var validBackends = map[string]bool{
	"file":   true,
	"sqlite": true,
}

// Validate checks cfg for structural problems and returns every finding so
// callers get a complete picture in one pass.
func Validate(cfg *Config) *ValidationResult {
	vr := &ValidationResult{}

	addError := func(field, format string, args ...any) {
		vr.Issues = append(vr.Issues, ValidationIssue{
			Severity: SeverityError,
			Field:    field,
			Message:  fmt.Sprintf(format, args...),
		})
	}
	addWarning := func(field, format string, args ...any) {
		vr.Issues = append(vr.Issues, ValidationIssue{
			Severity: SeverityWarning,
			Field:    field,
			Message:  fmt.Sprintf(format, args...),
		})
	}

	// Storage.
	if !validBackends[cfg.Storage.Backend] {
		addError("storage.backend", "must be %q or %q, got %q", "file", "sqlite", cfg.Storage.Backend)
	}
	if cfg.Storage.Backend == "file" && cfg.Storage.Dir == "" {
		addError("storage.dir", "must not be empty for the file backend")
	}
	if cfg.Storage.Backend == "sqlite" && cfg.Storage.SQLitePath == "" {
		addError("storage.sqlite_path", "must not be empty for the sqlite backend")
	}

	// Registry. An absent base URL only disables push, so it is a warning.
	if cfg.Registry.BaseURL == "" {
		addWarning("registry.base_url", "not set; `ecm push` will be unavailable")
	} else {
		u, err := url.Parse(cfg.Registry.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			addError("registry.base_url", "must be an absolute URL, got %q", cfg.Registry.BaseURL)
		} else if u.Scheme != "http" && u.Scheme != "https" {
			addError("registry.base_url", "scheme must be http or https, got %q", u.Scheme)
		}
	}
	if cfg.Registry.TimeoutSeconds < 1 {
		addError("registry.timeout_seconds", "must be >= 1, got %d", cfg.Registry.TimeoutSeconds)
	}
	if cfg.Registry.PushConcurrency < 1 || cfg.Registry.PushConcurrency > 16 {
		addError("registry.push_concurrency", "must be between 1 and 16, got %d", cfg.Registry.PushConcurrency)
	}
	if strings.TrimSpace(cfg.Registry.TokenEnv) == "" {
		addError("registry.token_env", "must name the environment variable holding the API token")
	}

	// Project.
	if cfg.Project.FacilityID == "" {
		addWarning("project.facility_id", "not set; submitted entries will carry no facility reference")
	}

	return vr
}

package subagent

import (
	"fmt"
	"regexp"
	"strings"
)

// namePattern is the allowed identifier pattern for subagent names.
var namePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidationResult holds the outcome of a non-throwing config inspection.
type ValidationResult struct {
	IsValid  bool
	Errors   []string
	Warnings []string
}

// ValidateConfig checks cfg against the structural and semantic rules for a
// subagent definition. It never fails; callers on the read path use it to
// skip malformed entries gracefully.
func ValidateConfig(cfg *Config) ValidationResult {
	var errs, warns []string

	switch {
	case cfg.Name == "":
		errs = append(errs, "name is required")
	case !namePattern.MatchString(cfg.Name):
		errs = append(errs, fmt.Sprintf("name %q must contain only letters, digits, hyphens, and underscores", cfg.Name))
	}

	if cfg.Description == "" {
		errs = append(errs, "description is required")
	}

	switch cfg.Level {
	case LevelProject, LevelUser, LevelBuiltin:
	default:
		errs = append(errs, fmt.Sprintf("level %q is not one of project, user, builtin", string(cfg.Level)))
	}

	for i, tool := range cfg.Tools {
		if tool == "" {
			errs = append(errs, fmt.Sprintf("tools[%d] is empty", i))
		}
	}

	if cfg.SystemPrompt == "" {
		warns = append(warns, "system prompt is empty")
	}

	return ValidationResult{
		IsValid:  len(errs) == 0,
		Errors:   errs,
		Warnings: warns,
	}
}

// CheckConfig runs the same rules as ValidateConfig and returns an
// INVALID_CONFIG Error aggregating all failures. Used on the write path to
// fail fast before touching the filesystem.
func CheckConfig(cfg *Config) error {
	result := ValidateConfig(cfg)
	if result.IsValid {
		return nil
	}
	return errf(CodeInvalidConfig, cfg.Name, "invalid configuration: %s", strings.Join(result.Errors, "; "))
}

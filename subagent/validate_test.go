package subagent_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qwen-code/agent-sdk-go/subagent"
)

func validConfig() *subagent.Config {
	return &subagent.Config{
		Name:         "helper",
		Description:  "A helper",
		SystemPrompt: "You are a helper.",
		Level:        subagent.LevelProject,
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*subagent.Config)
		valid   bool
		errPart string
	}{
		{
			name:   "valid config",
			mutate: func(*subagent.Config) {},
			valid:  true,
		},
		{
			name:    "missing name",
			mutate:  func(c *subagent.Config) { c.Name = "" },
			valid:   false,
			errPart: "name is required",
		},
		{
			name:    "name with spaces",
			mutate:  func(c *subagent.Config) { c.Name = "my agent" },
			valid:   false,
			errPart: "letters, digits, hyphens",
		},
		{
			name:    "name with punctuation",
			mutate:  func(c *subagent.Config) { c.Name = "agent!" },
			valid:   false,
			errPart: "letters, digits, hyphens",
		},
		{
			name:   "name with underscores and digits",
			mutate: func(c *subagent.Config) { c.Name = "agent_2-beta" },
			valid:  true,
		},
		{
			name:    "missing description",
			mutate:  func(c *subagent.Config) { c.Description = "" },
			valid:   false,
			errPart: "description is required",
		},
		{
			name:    "unknown level",
			mutate:  func(c *subagent.Config) { c.Level = subagent.Level("global") },
			valid:   false,
			errPart: "level",
		},
		{
			name:    "empty tool entry",
			mutate:  func(c *subagent.Config) { c.Tools = []string{"read_file", ""} },
			valid:   false,
			errPart: "tools[1] is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			result := subagent.ValidateConfig(cfg)
			assert.Equal(t, tt.valid, result.IsValid)
			if tt.errPart != "" {
				require.NotEmpty(t, result.Errors)
				found := false
				for _, e := range result.Errors {
					if strings.Contains(e, tt.errPart) {
						found = true
					}
				}
				assert.True(t, found, "expected an error containing %q, got %v", tt.errPart, result.Errors)
			}
		})
	}
}

func TestValidateConfig_WarnsOnEmptyPrompt(t *testing.T) {
	cfg := validConfig()
	cfg.SystemPrompt = ""

	result := subagent.ValidateConfig(cfg)
	assert.True(t, result.IsValid)
	assert.NotEmpty(t, result.Warnings)
}

func TestCheckConfig(t *testing.T) {
	require.NoError(t, subagent.CheckConfig(validConfig()))

	cfg := validConfig()
	cfg.Name = ""
	err := subagent.CheckConfig(cfg)
	require.Error(t, err)
	assert.True(t, subagent.IsCode(err, subagent.CodeInvalidConfig))
}

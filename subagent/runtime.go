package subagent

import (
	"context"
)

// PromptConfig carries the prompt portion of a runtime configuration.
type PromptConfig struct {
	SystemPrompt string
}

// ToolConfig restricts the tools available to an execution scope. Present in
// a RuntimeConfig only when the stored definition names tools.
type ToolConfig struct {
	// Tools are canonical tool names where resolvable; unresolved
	// identifiers pass through unchanged.
	Tools []string
}

// RuntimeConfig is the transient, execution-engine-facing shape derived from
// a stored Config. It is created fresh on every conversion and never
// persisted.
type RuntimeConfig struct {
	Prompt      PromptConfig
	ModelConfig *Record
	RunConfig   *Record
	ToolConfig  *ToolConfig
}

// Scope is an executable subagent instance. Construction is owned by the
// execution engine; the manager only converts configuration and delegates.
type Scope interface {
	AgentName() string
}

// ScopeFactory is the execution engine's construction hook.
type ScopeFactory interface {
	NewScope(ctx context.Context, cfg *Config, rc *RuntimeConfig) (Scope, error)
}

// RuntimeConfig converts a stored definition into its runtime shape. Model
// and run records are shallow-copied (empty when absent, no defaults
// injected); the tool block is present only when the definition names tools.
func (m *Manager) RuntimeConfig(cfg *Config) *RuntimeConfig {
	rc := &RuntimeConfig{
		Prompt:      PromptConfig{SystemPrompt: cfg.SystemPrompt},
		ModelConfig: copyRecord(cfg.ModelConfig),
		RunConfig:   copyRecord(cfg.RunConfig),
	}
	if len(cfg.Tools) > 0 {
		rc.ToolConfig = &ToolConfig{Tools: m.resolveToolNames(cfg.Tools)}
	}
	return rc
}

// resolveToolNames maps stored tool identifiers to canonical names in one
// order-preserving pass. An identifier may be a canonical name or a display
// name; anything the registry does not know passes through with a warning.
// Duplicates are kept as given.
func (m *Manager) resolveToolNames(identifiers []string) []string {
	resolved := make([]string, 0, len(identifiers))
	for _, id := range identifiers {
		if m.tools != nil {
			if canonical, ok := m.tools.Resolve(id); ok {
				resolved = append(resolved, canonical)
				continue
			}
		}
		m.log.Warn("tool not found in tool registry, preserving as-is", "tool", id)
		resolved = append(resolved, id)
	}
	return resolved
}

// CreateScope converts cfg and hands it to the execution engine. Any
// construction failure is wrapped as INVALID_CONFIG.
func (m *Manager) CreateScope(ctx context.Context, cfg *Config) (Scope, error) {
	if m.scopes == nil {
		return nil, ErrNoScopeFactory
	}
	scope, err := m.scopes.NewScope(ctx, cfg, m.RuntimeConfig(cfg))
	if err != nil {
		return nil, wrapErr(CodeInvalidConfig, cfg.Name, "create execution scope", err)
	}
	return scope, nil
}

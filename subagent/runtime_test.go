package subagent_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	agent "github.com/qwen-code/agent-sdk-go"
	"github.com/qwen-code/agent-sdk-go/subagent"
)

func newToolRegistry() *agent.ToolRegistry {
	registry := agent.NewToolRegistry()
	echo := func(ctx context.Context, raw json.RawMessage) (*agent.ToolResult, error) {
		return agent.TextResult("ok"), nil
	}
	registry.RegisterRaw("read_file", "Read File", "Reads a file", anthropic.ToolInputSchemaParam{}, echo)
	registry.RegisterRaw("grep", "Grep", "Searches file contents", anthropic.ToolInputSchemaParam{}, echo)
	return registry
}

func newTestManagerWith(t *testing.T, registry *agent.ToolRegistry, scopes subagent.ScopeFactory) *subagent.Manager {
	t.Helper()
	m, err := subagent.NewManager(subagent.Options{
		ProjectRoot: t.TempDir(),
		HomeDir:     t.TempDir(),
		Tools:       registry,
		Scopes:      scopes,
		Logger:      slog.New(slog.DiscardHandler),
	})
	require.NoError(t, err)
	return m
}

func TestManager_RuntimeConfig_ResolvesToolNames(t *testing.T) {
	m := newTestManagerWith(t, newToolRegistry(), nil)

	cfg := validConfig()
	cfg.Tools = []string{"Read File", "unknown_tool", "grep"}

	rc := m.RuntimeConfig(cfg)
	require.NotNil(t, rc.ToolConfig)
	assert.Equal(t, []string{"read_file", "unknown_tool", "grep"}, rc.ToolConfig.Tools)
}

func TestManager_RuntimeConfig_NoRegistry(t *testing.T) {
	m := newTestManager(t)

	cfg := validConfig()
	cfg.Tools = []string{"Read File"}

	// Without a registry, identifiers pass through untouched.
	rc := m.RuntimeConfig(cfg)
	require.NotNil(t, rc.ToolConfig)
	assert.Equal(t, []string{"Read File"}, rc.ToolConfig.Tools)
}

func TestManager_RuntimeConfig_Fields(t *testing.T) {
	m := newTestManager(t)

	cfg := validConfig()
	cfg.ModelConfig = subagent.RecordOf("model", "qwen3-coder")

	rc := m.RuntimeConfig(cfg)
	assert.Equal(t, cfg.SystemPrompt, rc.Prompt.SystemPrompt)
	assert.Nil(t, rc.ToolConfig, "no declared tools means no tool config")

	v, _ := rc.ModelConfig.Get("model")
	assert.Equal(t, "qwen3-coder", v)

	// Absent records come back as empty, never nil.
	require.NotNil(t, rc.RunConfig)
	assert.Equal(t, 0, rc.RunConfig.Len())

	// The runtime view is detached from the source config.
	rc.ModelConfig.Set("model", "tampered")
	v, _ = cfg.ModelConfig.Get("model")
	assert.Equal(t, "qwen3-coder", v)
}

type stubScope struct {
	name string
}

func (s *stubScope) AgentName() string { return s.name }

type stubScopeFactory struct {
	err  error
	last *subagent.RuntimeConfig
}

func (f *stubScopeFactory) NewScope(ctx context.Context, cfg *subagent.Config, rc *subagent.RuntimeConfig) (subagent.Scope, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.last = rc
	return &stubScope{name: cfg.Name}, nil
}

func TestManager_CreateScope(t *testing.T) {
	factory := &stubScopeFactory{}
	m := newTestManagerWith(t, newToolRegistry(), factory)

	cfg := validConfig()
	cfg.Tools = []string{"Read File"}

	scope, err := m.CreateScope(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "helper", scope.AgentName())

	require.NotNil(t, factory.last)
	require.NotNil(t, factory.last.ToolConfig)
	assert.Equal(t, []string{"read_file"}, factory.last.ToolConfig.Tools)
}

func TestManager_CreateScope_NoFactory(t *testing.T) {
	m := newTestManager(t)

	_, err := m.CreateScope(context.Background(), validConfig())
	require.ErrorIs(t, err, subagent.ErrNoScopeFactory)
}

func TestManager_CreateScope_FactoryError(t *testing.T) {
	factory := &stubScopeFactory{err: errors.New("model unavailable")}
	m := newTestManagerWith(t, nil, factory)

	_, err := m.CreateScope(context.Background(), validConfig())
	require.Error(t, err)
	assert.True(t, subagent.IsCode(err, subagent.CodeInvalidConfig))
}

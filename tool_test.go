package agent_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	agent "github.com/qwen-code/agent-sdk-go"
)

type echoInput struct {
	Message string `json:"message" jsonschema:"description=Text to echo back"`
}

type echoTool struct{}

func (echoTool) Name() string        { return "echo" }
func (echoTool) DisplayName() string { return "Echo" }
func (echoTool) Description() string { return "Echoes the input message" }

func (echoTool) Execute(ctx context.Context, input echoInput) (*agent.ToolResult, error) {
	return agent.TextResult(input.Message), nil
}

func newRegistry(t *testing.T) *agent.ToolRegistry {
	t.Helper()
	r := agent.NewToolRegistry()
	agent.RegisterTool(r, echoTool{})
	r.RegisterRaw("read_file", "Read File", "Reads a file", anthropic.ToolInputSchemaParam{},
		func(ctx context.Context, raw json.RawMessage) (*agent.ToolResult, error) {
			return agent.TextResult("contents"), nil
		})
	return r
}

func TestToolRegistry_Execute(t *testing.T) {
	r := newRegistry(t)

	result, err := r.Execute(context.Background(), "echo", json.RawMessage(`{"message":"hi"}`))
	require.NoError(t, err)
	require.Len(t, result.Content, 1)
	assert.False(t, result.IsError)

	_, err = r.Execute(context.Background(), "missing", nil)
	require.Error(t, err)
}

func TestToolRegistry_Execute_InvalidInput(t *testing.T) {
	r := newRegistry(t)

	result, err := r.Execute(context.Background(), "echo", json.RawMessage(`{"message":`))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestToolRegistry_Resolve(t *testing.T) {
	r := newRegistry(t)

	name, ok := r.Resolve("read_file")
	require.True(t, ok)
	assert.Equal(t, "read_file", name)

	name, ok = r.Resolve("Read File")
	require.True(t, ok)
	assert.Equal(t, "read_file", name)

	_, ok = r.Resolve("no_such_tool")
	assert.False(t, ok)
}

func TestToolRegistry_Resolve_CanonicalWins(t *testing.T) {
	r := agent.NewToolRegistry()
	noop := func(ctx context.Context, raw json.RawMessage) (*agent.ToolResult, error) {
		return agent.TextResult(""), nil
	}
	// A display name that collides with another tool's canonical name.
	r.RegisterRaw("grep", "search", "Searches contents", anthropic.ToolInputSchemaParam{}, noop)
	r.RegisterRaw("search", "Web Search", "Searches the web", anthropic.ToolInputSchemaParam{}, noop)

	name, ok := r.Resolve("search")
	require.True(t, ok)
	assert.Equal(t, "search", name)
}

func TestToolRegistry_Order(t *testing.T) {
	r := newRegistry(t)
	assert.Equal(t, []string{"echo", "read_file"}, r.Names())

	infos := r.List()
	require.Len(t, infos, 2)
	assert.Equal(t, "Echo", infos[0].DisplayName)
	assert.Equal(t, "Reads a file", infos[1].Description)
}

func TestToolRegistry_Get(t *testing.T) {
	r := newRegistry(t)

	info, ok := r.Get("echo")
	require.True(t, ok)
	assert.Equal(t, "Echo", info.DisplayName)

	_, ok = r.Get("Echo")
	assert.False(t, ok, "Get is canonical-name only")
}

func TestToolRegistry_ListForAPI(t *testing.T) {
	r := newRegistry(t)

	params := r.ListForAPI()
	require.Len(t, params, 2)
	require.NotNil(t, params[0].OfTool)
	assert.Equal(t, "echo", params[0].OfTool.Name)

	props, ok := params[0].OfTool.InputSchema.Properties.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "message")
}

package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/packages/param"

	"github.com/qwen-code/agent-sdk-go/internal/schema"
)

// Tool is the generic interface for agent tools. The type parameter T defines
// the input struct that will be automatically deserialized from JSON.
type Tool[T any] interface {
	// Name is the stable canonical identifier, e.g. "read_file".
	Name() string
	// DisplayName is the human-readable label, e.g. "Read File".
	DisplayName() string
	Description() string
	Execute(ctx context.Context, input T) (*ToolResult, error)
}

// ToolResult is the output of a tool execution.
type ToolResult struct {
	Content  []anthropic.ContentBlockParamUnion
	IsError  bool
	Metadata map[string]any
}

// TextResult is a convenience constructor for a text-only tool result.
func TextResult(text string) *ToolResult {
	return &ToolResult{
		Content: []anthropic.ContentBlockParamUnion{
			anthropic.NewTextBlock(text),
		},
	}
}

// ErrorResult is a convenience constructor for an error tool result.
func ErrorResult(text string) *ToolResult {
	return &ToolResult{
		Content: []anthropic.ContentBlockParamUnion{
			anthropic.NewTextBlock(text),
		},
		IsError: true,
	}
}

// ToolInfo describes a registered tool.
type ToolInfo struct {
	Name        string
	DisplayName string
	Description string
}

// toolEntry is the type-erased wrapper stored in the registry.
type toolEntry struct {
	info    ToolInfo
	schema  anthropic.ToolInputSchemaParam
	execute func(ctx context.Context, raw json.RawMessage) (*ToolResult, error)
}

// ToolRegistry manages registered tools, indexed by canonical name.
// It is concurrent-safe.
type ToolRegistry struct {
	mu    sync.RWMutex
	tools map[string]*toolEntry
	order []string // preserve registration order
}

// NewToolRegistry creates a new empty ToolRegistry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{
		tools: make(map[string]*toolEntry),
	}
}

// RegisterTool registers a generic tool into the registry.
// The input type T is used to auto-generate a JSON Schema.
func RegisterTool[T any](r *ToolRegistry, tool Tool[T]) {
	s := schema.Generate[T]()
	entry := &toolEntry{
		info: ToolInfo{
			Name:        tool.Name(),
			DisplayName: tool.DisplayName(),
			Description: tool.Description(),
		},
		schema: s,
		execute: func(ctx context.Context, raw json.RawMessage) (*ToolResult, error) {
			var input T
			if err := json.Unmarshal(raw, &input); err != nil {
				return ErrorResult(fmt.Sprintf("invalid input: %s", err.Error())), nil
			}
			return tool.Execute(ctx, input)
		},
	}
	r.register(entry)
}

// RegisterRaw registers a tool with a pre-built schema and execute function.
// This is used by dynamic tool sources that don't use the generic Tool[T]
// interface.
func (r *ToolRegistry) RegisterRaw(
	name, displayName, description string,
	inputSchema anthropic.ToolInputSchemaParam,
	execute func(ctx context.Context, raw json.RawMessage) (*ToolResult, error),
) {
	r.register(&toolEntry{
		info: ToolInfo{
			Name:        name,
			DisplayName: displayName,
			Description: description,
		},
		schema:  inputSchema,
		execute: execute,
	})
}

func (r *ToolRegistry) register(entry *toolEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[entry.info.Name]; !exists {
		r.order = append(r.order, entry.info.Name)
	}
	r.tools[entry.info.Name] = entry
}

// Execute runs a tool by canonical name with the given raw JSON input.
func (r *ToolRegistry) Execute(ctx context.Context, name string, input json.RawMessage) (*ToolResult, error) {
	r.mu.RLock()
	entry, ok := r.tools[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("tool not found: %s", name)
	}
	return entry.execute(ctx, input)
}

// Resolve maps a tool identifier to its canonical name. The identifier may be
// a canonical name or a display name; canonical names win when both match.
func (r *ToolRegistry) Resolve(identifier string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.tools[identifier]; ok {
		return identifier, true
	}
	for _, name := range r.order {
		if r.tools[name].info.DisplayName == identifier {
			return name, true
		}
	}
	return "", false
}

// Get returns the info for a registered tool by canonical name.
func (r *ToolRegistry) Get(name string) (ToolInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.tools[name]
	if !ok {
		return ToolInfo{}, false
	}
	return entry.info, true
}

// Names returns the canonical names of all registered tools in registration order.
func (r *ToolRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// List returns the info of all registered tools in registration order.
func (r *ToolRegistry) List() []ToolInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	infos := make([]ToolInfo, 0, len(r.order))
	for _, name := range r.order {
		infos = append(infos, r.tools[name].info)
	}
	return infos
}

// ListForAPI returns the registered tools in the format expected by the Anthropic API.
func (r *ToolRegistry) ListForAPI() []anthropic.ToolUnionParam {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]anthropic.ToolUnionParam, 0, len(r.tools))
	for _, name := range r.order {
		entry := r.tools[name]
		result = append(result, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        entry.info.Name,
				Description: param.NewOpt(entry.info.Description),
				InputSchema: entry.schema,
			},
		})
	}
	return result
}

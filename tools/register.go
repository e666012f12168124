package tools

import (
	agent "github.com/qwen-code/agent-sdk-go"
)

// RegisterDefaults registers the built-in filesystem tools into the provided
// registry.
func RegisterDefaults(registry *agent.ToolRegistry) {
	agent.RegisterTool(registry, &ReadFileTool{})
	agent.RegisterTool(registry, &GlobTool{})
	agent.RegisterTool(registry, &SearchFileContentTool{})
}

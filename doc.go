// Package agent provides the configuration core of a Qwen coding-agent SDK.
//
// The root package holds the tool registry shared between the configuration
// layer and the surrounding product. The main entry point is the subagent
// subpackage, which manages durable, file-backed definitions of reusable
// agent personas:
//
//	mgr, _ := subagent.NewManager(subagent.Options{
//	    ProjectRoot: "/path/to/project",
//	})
//	cfg, err := mgr.Load(ctx, "code-reviewer", subagent.LevelAny)
//
// # Sub-packages
//
//   - subagent provides file-backed subagent configuration: create, load,
//     update, delete, and list operations with project > user > builtin
//     precedence, plus conversion into runtime configuration for the
//     execution engine.
//   - tools provides the built-in filesystem tools referenced by the
//     compiled-in subagent definitions.
package agent

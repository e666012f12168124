// Package tools provides the built-in filesystem tools referenced by the
// compiled-in subagent definitions.
//
// Use [RegisterDefaults] to add them to a registry:
//
//	tools.RegisterDefaults(registry)
package tools

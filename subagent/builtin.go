package subagent

// builtinPath returns the filePath sentinel for a builtin entry, which has
// no backing file.
func builtinPath(name string) string {
	return "<builtin:" + name + ">"
}

// builtinCatalog is the fixed set of definitions shipped with the SDK.
// Never mutated; accessors hand out copies.
var builtinCatalog = []*Config{
	{
		Name:        "general-purpose",
		Description: "General-purpose agent for complex, multi-step tasks. Use when no specialized agent matches the task.",
		SystemPrompt: "You are a general-purpose assistant that handles complex, multi-step tasks autonomously. " +
			"Work through the task step by step and finish with a clear summary of your findings or results.",
		Level:     LevelBuiltin,
		FilePath:  builtinPath("general-purpose"),
		IsBuiltin: true,
	},
	{
		Name:        "code-reviewer",
		Description: "Reviews code changes for correctness, style, and potential bugs. Read-only: never modifies files.",
		SystemPrompt: "You are a meticulous code reviewer. Read the relevant files, identify bugs, style issues, " +
			"and risky patterns, and report them with file and line references. Do not modify any files.",
		Level:     LevelBuiltin,
		FilePath:  builtinPath("code-reviewer"),
		Tools:     []string{"read_file", "search_file_content", "glob"},
		IsBuiltin: true,
	},
}

// BuiltinAgents returns all compiled-in subagent definitions. The returned
// configs are copies; mutating them does not affect the catalog.
func BuiltinAgents() []*Config {
	out := make([]*Config, len(builtinCatalog))
	for i, cfg := range builtinCatalog {
		out[i] = cfg.clone()
	}
	return out
}

// BuiltinAgent returns the compiled-in definition with the given name, or
// nil if none exists.
func BuiltinAgent(name string) *Config {
	for _, cfg := range builtinCatalog {
		if cfg.Name == name {
			return cfg.clone()
		}
	}
	return nil
}

// IsBuiltinAgent reports whether name is a compiled-in definition.
func IsBuiltinAgent(name string) bool {
	for _, cfg := range builtinCatalog {
		if cfg.Name == name {
			return true
		}
	}
	return false
}

// BuiltinNames returns the names of all compiled-in definitions.
func BuiltinNames() []string {
	names := make([]string, len(builtinCatalog))
	for i, cfg := range builtinCatalog {
		names[i] = cfg.Name
	}
	return names
}

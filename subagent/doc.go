// Package subagent manages durable, file-backed definitions of reusable
// agent personas.
//
// A subagent is a markdown document with a YAML frontmatter block holding its
// metadata and a free-form body holding its system prompt. Definitions live
// at two mutable storage levels plus a compiled-in catalog:
//
//   - project: <projectRoot>/.qwen/agents/*.md
//   - user:    <homeDir>/.qwen/agents/*.md
//   - builtin: shipped with the SDK, immutable
//
// When a name exists at several levels, project shadows user, which shadows
// builtin. Lookups match on the name declared inside the file, not the file
// name, so a renamed file keeps working.
//
// The Manager is the sole mutator of the on-disk namespace. It performs no
// in-process locking: two concurrent Create calls for the same name race on
// the existence check, which is accepted for the single-user local-file use
// case this package targets.
package subagent

package subagent

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	agent "github.com/qwen-code/agent-sdk-go"
)

// Storage layout constants. Both mutable levels share the same reserved
// directory name under their respective roots.
const (
	reservedDir  = ".qwen"
	agentsSubdir = "agents"
	fileExt      = ".md"

	// colorAuto is the display-hint sentinel treated as "unset".
	colorAuto = "auto"
)

// Options configures a Manager.
type Options struct {
	// ProjectRoot is the project directory whose .qwen/agents holds
	// project-level definitions. Required.
	ProjectRoot string

	// HomeDir overrides the user's home directory. Defaults to
	// os.UserHomeDir().
	HomeDir string

	// Tools is consulted when converting stored tool identifiers to
	// canonical names. Optional; without it identifiers pass through
	// unchanged.
	Tools *agent.ToolRegistry

	// Scopes constructs execution scopes from runtime configuration.
	// Optional; required only for CreateScope.
	Scopes ScopeFactory

	// Logger receives the non-fatal diagnostics (filename/name mismatch,
	// unresolved tool identifiers). Defaults to slog.Default().
	Logger *slog.Logger
}

// Manager owns the on-disk subagent namespace. It resolves name lookups
// across storage levels by precedence and bridges persisted configuration to
// the runtime configuration consumed by the execution engine.
//
// Operations do not serialize concurrent calls: Create's existence check and
// write are not atomic, which is accepted for single-user local files.
type Manager struct {
	projectDir string
	userDir    string
	tools      *agent.ToolRegistry
	scopes     ScopeFactory
	log        *slog.Logger
}

// NewManager creates a Manager rooted at the given project directory.
func NewManager(opts Options) (*Manager, error) {
	if opts.ProjectRoot == "" {
		return nil, fmt.Errorf("subagent: project root is required")
	}
	home := opts.HomeDir
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("subagent: resolve home directory: %w", err)
		}
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		projectDir: filepath.Join(opts.ProjectRoot, reservedDir, agentsSubdir),
		userDir:    filepath.Join(home, reservedDir, agentsSubdir),
		tools:      opts.Tools,
		scopes:     opts.Scopes,
		log:        log,
	}, nil
}

// levelDir returns the directory backing a mutable level, or "" for builtin.
func (m *Manager) levelDir(level Level) string {
	switch level {
	case LevelProject:
		return m.projectDir
	case LevelUser:
		return m.userDir
	}
	return ""
}

// PathFor computes the canonical file path for a name at a level, following
// the <name>.md convention. Builtin entries yield the "<builtin:name>"
// sentinel. Lookups never rely on this path; see Load.
func (m *Manager) PathFor(name string, level Level) string {
	if level == LevelBuiltin {
		return builtinPath(name)
	}
	return filepath.Join(m.levelDir(level), name+fileExt)
}

// CreateOptions configures Manager.Create.
type CreateOptions struct {
	// Level selects the storage level; LevelProject or LevelUser.
	Level Level

	// Overwrite replaces an existing file at the target path instead of
	// failing with ALREADY_EXISTS.
	Overwrite bool

	// Path, when set, overrides the canonical <name>.md target path.
	Path string
}

// Create validates cfg and writes it as a new definition file. The config's
// Level and FilePath are assigned from the creation options on success.
func (m *Manager) Create(ctx context.Context, cfg *Config, opts CreateOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if opts.Level != LevelProject && opts.Level != LevelUser {
		return errf(CodeInvalidConfig, cfg.Name, "cannot create at level %q; use project or user", string(opts.Level))
	}

	cfg.Level = opts.Level
	if err := CheckConfig(cfg); err != nil {
		return err
	}

	path := opts.Path
	if path == "" {
		path = m.PathFor(cfg.Name, opts.Level)
	}

	if !opts.Overwrite {
		if _, err := os.Stat(path); err == nil {
			return errf(CodeAlreadyExists, cfg.Name, "already exists at %s", path)
		}
	}

	content, err := m.Serialize(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return wrapErr(CodeFileError, cfg.Name, "create agents directory", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return wrapErr(CodeFileError, cfg.Name, "write definition file", err)
	}

	cfg.FilePath = path
	return nil
}

// Load resolves a definition by its declared name. With LevelAny the levels
// are tried in precedence order: project, then user, then builtin. Lookup
// scans and parses every .md file at a level, so a file whose name differs
// from its declared name is still found. Returns a NOT_FOUND Error when no
// level defines the name.
func (m *Manager) Load(ctx context.Context, name string, level Level) (*Config, error) {
	levels := []Level{LevelProject, LevelUser, LevelBuiltin}
	if level != LevelAny {
		levels = []Level{level}
	}
	for _, lv := range levels {
		cfg, err := m.findAt(ctx, name, lv)
		if err != nil {
			return nil, err
		}
		if cfg != nil {
			return cfg, nil
		}
	}
	return nil, errf(CodeNotFound, name, "not found")
}

// findAt locates name at a single level, returning nil when absent.
// Unreadable directories and malformed files are treated as absent.
func (m *Manager) findAt(ctx context.Context, name string, level Level) (*Config, error) {
	if level == LevelBuiltin {
		return BuiltinAgent(name), nil
	}
	configs, err := m.scanLevel(ctx, level)
	if err != nil {
		return nil, err
	}
	for _, cfg := range configs {
		if cfg.Name == name {
			return cfg, nil
		}
	}
	return nil, nil
}

// scanLevel parses every definition file at a mutable level. Files that fail
// to parse or validate are skipped; listing is best-effort.
func (m *Manager) scanLevel(ctx context.Context, level Level) ([]*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir := m.levelDir(level)
	if dir == "" {
		return nil, nil
	}
	matches, err := doublestar.FilepathGlob(filepath.Join(dir, "*"+fileExt))
	if err != nil {
		return nil, nil
	}
	sort.Strings(matches)

	var configs []*Config
	for _, path := range matches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cfg, err := m.ParseFile(path)
		if err != nil {
			continue
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}

// Patch is the partial-update payload for Manager.Update. Nil fields keep
// the existing value.
type Patch struct {
	Name         *string
	Description  *string
	SystemPrompt *string
	Color        *string

	// Tools fully replaces the existing list when non-nil.
	Tools []string

	// ModelConfig and RunConfig are shallow-merged into the existing
	// records: existing keys survive unless the update supplies the same key.
	ModelConfig *Record
	RunConfig   *Record
}

// Update merges patch into the existing definition for name and writes the
// result back to the original file, preserving a filename/name mismatch
// rather than renaming. Builtin entries are immutable.
func (m *Manager) Update(ctx context.Context, name string, patch Patch, level Level) error {
	existing, err := m.Load(ctx, name, level)
	if err != nil {
		return err
	}
	if existing.IsBuiltin {
		return errf(CodeInvalidConfig, name, "builtin agents cannot be updated")
	}

	merged := existing.clone()
	if patch.Name != nil {
		merged.Name = *patch.Name
	}
	if patch.Description != nil {
		merged.Description = *patch.Description
	}
	if patch.SystemPrompt != nil {
		merged.SystemPrompt = *patch.SystemPrompt
	}
	if patch.Color != nil {
		merged.Color = *patch.Color
	}
	if patch.Tools != nil {
		merged.Tools = append([]string(nil), patch.Tools...)
	}
	if patch.ModelConfig != nil {
		merged.ModelConfig = mergeRecord(existing.ModelConfig, patch.ModelConfig)
	}
	if patch.RunConfig != nil {
		merged.RunConfig = mergeRecord(existing.RunConfig, patch.RunConfig)
	}

	if err := CheckConfig(merged); err != nil {
		return err
	}

	content, err := m.Serialize(merged)
	if err != nil {
		return err
	}
	if err := os.WriteFile(existing.FilePath, []byte(content), 0o644); err != nil {
		return wrapErr(CodeFileError, name, "write definition file", err)
	}
	return nil
}

// Delete removes the definition file for name. Builtin names always fail
// with INVALID_CONFIG regardless of level, even when a project- or
// user-level file shadows the name; shadowing files are cleared by
// recreating them with Overwrite or removing the file at their reported
// FilePath. With LevelAny both mutable levels are attempted and the call
// succeeds if at least one file was removed; NOT_FOUND is returned only
// when neither level had the name.
func (m *Manager) Delete(ctx context.Context, name string, level Level) error {
	if IsBuiltinAgent(name) {
		return errf(CodeInvalidConfig, name, "builtin agents cannot be deleted")
	}
	if level == LevelBuiltin {
		return errf(CodeNotFound, name, "not found at level %q", string(level))
	}

	if level != LevelAny {
		cfg, err := m.findAt(ctx, name, level)
		if err != nil {
			return err
		}
		if cfg == nil {
			return errf(CodeNotFound, name, "not found at level %q", string(level))
		}
		if err := os.Remove(cfg.FilePath); err != nil {
			return wrapErr(CodeFileError, name, "remove definition file", err)
		}
		return nil
	}

	deleted := 0
	for _, lv := range []Level{LevelProject, LevelUser} {
		cfg, err := m.findAt(ctx, name, lv)
		if err != nil {
			return err
		}
		if cfg == nil {
			continue
		}
		// Per-level removal failures are swallowed as long as one succeeds.
		if err := os.Remove(cfg.FilePath); err == nil {
			deleted++
		}
	}
	if deleted == 0 {
		return errf(CodeNotFound, name, "not found")
	}
	return nil
}

// SortField selects the List sort key.
type SortField string

// SortOrder selects the List sort direction.
type SortOrder string

const (
	SortByName  SortField = "name"
	SortByLevel SortField = "level"

	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ListOptions configures Manager.List.
type ListOptions struct {
	// Level restricts the scan to one level; LevelAny scans all three.
	Level Level

	// HasTool keeps only definitions whose tools list contains the given
	// identifier (exact match).
	HasTool string

	// SortBy orders results by name or level; unset preserves the natural
	// level-then-discovery order. SortOrder of SortDesc reverses.
	SortBy    SortField
	SortOrder SortOrder
}

// List returns definitions across the requested levels, deduplicated by name
// in precedence order: a project-level entry shadows user and builtin
// entries with the same name. Malformed files are skipped silently.
func (m *Manager) List(ctx context.Context, opts ListOptions) ([]*Config, error) {
	levels := []Level{LevelProject, LevelUser, LevelBuiltin}
	if opts.Level != LevelAny {
		levels = []Level{opts.Level}
	}

	seen := make(map[string]bool)
	var out []*Config
	for _, lv := range levels {
		var configs []*Config
		if lv == LevelBuiltin {
			configs = BuiltinAgents()
		} else {
			var err error
			configs, err = m.scanLevel(ctx, lv)
			if err != nil {
				return nil, err
			}
		}
		for _, cfg := range configs {
			if seen[cfg.Name] {
				continue
			}
			seen[cfg.Name] = true
			out = append(out, cfg)
		}
	}

	if opts.HasTool != "" {
		filtered := out[:0]
		for _, cfg := range out {
			for _, tool := range cfg.Tools {
				if tool == opts.HasTool {
					filtered = append(filtered, cfg)
					break
				}
			}
		}
		out = filtered
	}

	if opts.SortBy != "" {
		sign := 1
		if opts.SortOrder == SortDesc {
			sign = -1
		}
		sort.SliceStable(out, func(i, j int) bool {
			switch opts.SortBy {
			case SortByLevel:
				return sign*(out[i].Level.rank()-out[j].Level.rank()) < 0
			default:
				return sign*strings.Compare(out[i].Name, out[j].Name) < 0
			}
		})
	}
	return out, nil
}

// IsNameAvailable reports whether name can be created: true when no config
// with that name is resolvable, or when a level was requested and the
// resolved entry lives at a different level. Only a definitive NOT_FOUND
// counts as available; any other lookup failure reports the name as taken.
func (m *Manager) IsNameAvailable(ctx context.Context, name string, level Level) bool {
	cfg, err := m.Load(ctx, name, level)
	if err != nil {
		return IsCode(err, CodeNotFound)
	}
	return level != LevelAny && cfg.Level != level
}

// ParseFile reads and parses a definition file.
func (m *Manager) ParseFile(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, wrapErr(CodeFileError, "", "read definition file", err)
	}
	return m.ParseContent(string(content), path)
}

// ParseContent parses a definition document. The storage level is derived
// from filePath: paths under the project agents directory are project-level,
// anything else is user-level. A filename that differs from the declared
// name is tolerated with a warning.
func (m *Manager) ParseContent(content, filePath string) (*Config, error) {
	doc, err := ParseDocument(content)
	if err != nil {
		return nil, wrapErr(CodeInvalidConfig, "", "parse definition", err)
	}
	meta := doc.Metadata

	name := ""
	if v, ok := meta.Get("name"); ok {
		name = coerceScalar(v)
	}
	if name == "" {
		return nil, errf(CodeInvalidConfig, "", "missing or empty name in %s", filePath)
	}
	description := ""
	if v, ok := meta.Get("description"); ok {
		description = coerceScalar(v)
	}
	if description == "" {
		return nil, errf(CodeInvalidConfig, name, "missing or empty description in %s", filePath)
	}

	cfg := &Config{
		Name:         name,
		Description:  description,
		SystemPrompt: strings.TrimSuffix(doc.Body, "\n"),
		Level:        m.levelForPath(filePath),
		FilePath:     filePath,
	}

	// An empty "tools:" key decodes as nil and counts as absent.
	if v, ok := meta.Get("tools"); ok && v != nil {
		items, ok := v.([]any)
		if !ok {
			return nil, errf(CodeInvalidConfig, name, "tools must be a list in %s", filePath)
		}
		for _, item := range items {
			cfg.Tools = append(cfg.Tools, coerceScalar(item))
		}
	}
	if v, ok := meta.Get("modelConfig"); ok {
		if rec, ok := v.(*Record); ok {
			cfg.ModelConfig = rec
		}
	}
	if v, ok := meta.Get("runConfig"); ok {
		if rec, ok := v.(*Record); ok {
			cfg.RunConfig = rec
		}
	}
	if v, ok := meta.Get("color"); ok {
		cfg.Color = coerceScalar(v)
	}

	if err := CheckConfig(cfg); err != nil {
		return nil, err
	}

	base := strings.TrimSuffix(filepath.Base(filePath), fileExt)
	if base != cfg.Name {
		m.log.Warn("subagent file name does not match declared name; consider renaming",
			"file", filePath, "name", cfg.Name)
	}
	return cfg, nil
}

// levelForPath derives the storage level from a file location.
func (m *Manager) levelForPath(path string) Level {
	abs := filepath.Clean(path)
	if strings.HasPrefix(abs, m.projectDir+string(filepath.Separator)) || abs == m.projectDir {
		return LevelProject
	}
	return LevelUser
}

// Serialize renders cfg as a definition document. Empty optional fields and
// the "auto" color sentinel are omitted from the metadata block.
func (m *Manager) Serialize(cfg *Config) (string, error) {
	meta := NewRecord()
	meta.Set("name", cfg.Name)
	meta.Set("description", cfg.Description)
	if len(cfg.Tools) > 0 {
		meta.Set("tools", cfg.Tools)
	}
	if cfg.ModelConfig != nil && cfg.ModelConfig.Len() > 0 {
		meta.Set("modelConfig", cfg.ModelConfig)
	}
	if cfg.RunConfig != nil && cfg.RunConfig.Len() > 0 {
		meta.Set("runConfig", cfg.RunConfig)
	}
	if cfg.Color != "" && cfg.Color != colorAuto {
		meta.Set("color", cfg.Color)
	}
	return EncodeDocument(&Document{Metadata: meta, Body: cfg.SystemPrompt + "\n"})
}

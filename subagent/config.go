package subagent

import (
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Level identifies a storage tier for subagent definitions.
type Level string

// Storage levels in precedence order: project shadows user shadows builtin.
// LevelAny is the zero value and means "resolve across all levels".
const (
	LevelAny     Level = ""
	LevelProject Level = "project"
	LevelUser    Level = "user"
	LevelBuiltin Level = "builtin"
)

// rank orders levels by precedence for sorting; lower wins.
func (l Level) rank() int {
	switch l {
	case LevelProject:
		return 0
	case LevelUser:
		return 1
	case LevelBuiltin:
		return 2
	default:
		return 3
	}
}

// Record is an open, ordered key/value block. Model and run configuration
// have no fixed schema; entries are passed through verbatim and keep their
// insertion order across parse/serialize cycles.
type Record = orderedmap.OrderedMap[string, any]

// NewRecord creates an empty Record.
func NewRecord() *Record { return orderedmap.New[string, any]() }

// RecordOf creates a Record from alternating key/value arguments.
// Keys must be strings; the argument count must be even.
func RecordOf(pairs ...any) *Record {
	rec := NewRecord()
	for i := 0; i+1 < len(pairs); i += 2 {
		if key, ok := pairs[i].(string); ok {
			rec.Set(key, pairs[i+1])
		}
	}
	return rec
}

// copyRecord returns a shallow copy of r, or an empty Record when r is nil.
func copyRecord(r *Record) *Record {
	out := NewRecord()
	if r == nil {
		return out
	}
	for p := r.Oldest(); p != nil; p = p.Next() {
		out.Set(p.Key, p.Value)
	}
	return out
}

// mergeRecord shallow-merges updates over base: existing keys are kept unless
// updates supplies a new value for that exact key.
func mergeRecord(base, updates *Record) *Record {
	out := copyRecord(base)
	if updates == nil {
		return out
	}
	for p := updates.Oldest(); p != nil; p = p.Next() {
		out.Set(p.Key, p.Value)
	}
	return out
}

// Config is the canonical persisted form of a subagent definition.
type Config struct {
	// Name uniquely identifies the subagent within the precedence-resolved
	// namespace. Allowed characters: letters, digits, hyphen, underscore.
	Name string

	// Description is free text used by the execution engine for selection.
	Description string

	// SystemPrompt is the document body.
	SystemPrompt string

	// Level records where the definition is stored. Derived from the file
	// location on parse; assigned from creation options on create.
	Level Level

	// FilePath is the absolute path of the backing file, or the
	// "<builtin:name>" sentinel for builtin entries.
	FilePath string

	// Tools optionally restricts the tools available to the subagent.
	// Entries are tool names or display names, resolved to canonical names
	// at runtime-conversion time.
	Tools []string

	// ModelConfig and RunConfig are open key/value blocks passed through to
	// the execution engine verbatim.
	ModelConfig *Record
	RunConfig   *Record

	// Color is an optional display hint. The "auto" sentinel and the empty
	// string are equivalent and omitted from serialization.
	Color string

	// IsBuiltin marks compiled-in entries, which cannot be updated or
	// deleted.
	IsBuiltin bool
}

// clone returns a copy of cfg with copied tools and record blocks.
func (c *Config) clone() *Config {
	out := *c
	if c.Tools != nil {
		out.Tools = append([]string(nil), c.Tools...)
	}
	if c.ModelConfig != nil {
		out.ModelConfig = copyRecord(c.ModelConfig)
	}
	if c.RunConfig != nil {
		out.RunConfig = copyRecord(c.RunConfig)
	}
	return &out
}

// coerceScalar renders a decoded YAML scalar as a string. Numbers and
// booleans keep their literal form; non-scalar values coerce to "".
func coerceScalar(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	default:
		return ""
	}
}

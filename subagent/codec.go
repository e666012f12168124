package subagent

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// delimiter is the frontmatter marker line.
const delimiter = "---"

// Document is the decoded form of a subagent file: a structured metadata
// block and a free-form body.
type Document struct {
	Metadata *Record
	Body     string
}

// ParseDocument splits content into its frontmatter metadata and body.
// The content must start with a delimiter line and contain a closing
// delimiter line; otherwise ErrNoFrontmatter is returned. A single blank
// line following the closing delimiter is not part of the body.
func ParseDocument(content string) (*Document, error) {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	lines := strings.Split(normalized, "\n")
	if lines[0] != delimiter {
		return nil, ErrNoFrontmatter
	}
	end := -1
	for i := 1; i < len(lines); i++ {
		if lines[i] == delimiter {
			end = i
			break
		}
	}
	if end < 0 {
		return nil, ErrNoFrontmatter
	}

	metadata, err := decodeMetadata(strings.Join(lines[1:end], "\n"))
	if err != nil {
		return nil, err
	}

	body := strings.Join(lines[end+1:], "\n")
	body = strings.TrimPrefix(body, "\n")

	return &Document{Metadata: metadata, Body: body}, nil
}

// EncodeDocument renders the inverse of ParseDocument: delimiter, encoded
// metadata, delimiter, blank line, body, trailing newline. Metadata keys
// whose value is nil or an empty collection are omitted.
func EncodeDocument(doc *Document) (string, error) {
	var b strings.Builder
	b.WriteString(delimiter + "\n")

	if doc.Metadata != nil && doc.Metadata.Len() > 0 {
		encoded, err := encodeMetadata(doc.Metadata)
		if err != nil {
			return "", err
		}
		b.WriteString(encoded)
	}

	b.WriteString(delimiter + "\n\n")
	b.WriteString(doc.Body)
	if !strings.HasSuffix(doc.Body, "\n") {
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// decodeMetadata parses the frontmatter YAML into an ordered Record.
// Nested mappings become nested Records; sequences become []any slices.
func decodeMetadata(src string) (*Record, error) {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(src), &root); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return NewRecord(), nil
	}

	value, err := nodeValue(root.Content[0])
	if err != nil {
		return nil, err
	}
	rec, ok := value.(*Record)
	if !ok {
		return nil, fmt.Errorf("decode metadata: block is not a mapping")
	}
	return rec, nil
}

func nodeValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.MappingNode:
		rec := NewRecord()
		for i := 0; i+1 < len(n.Content); i += 2 {
			var key string
			if err := n.Content[i].Decode(&key); err != nil {
				return nil, fmt.Errorf("decode metadata key: %w", err)
			}
			value, err := nodeValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			rec.Set(key, value)
		}
		return rec, nil

	case yaml.SequenceNode:
		items := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			value, err := nodeValue(c)
			if err != nil {
				return nil, err
			}
			items = append(items, value)
		}
		return items, nil

	case yaml.ScalarNode:
		var value any
		if err := n.Decode(&value); err != nil {
			return nil, fmt.Errorf("decode metadata value: %w", err)
		}
		return value, nil

	case yaml.AliasNode:
		return nodeValue(n.Alias)
	}
	return nil, fmt.Errorf("decode metadata: unsupported node kind %d", n.Kind)
}

// encodeMetadata renders a Record as YAML with two-space indentation,
// preserving key insertion order.
func encodeMetadata(rec *Record) (string, error) {
	node, err := valueNode(rec)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return "", fmt.Errorf("encode metadata: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode metadata: %w", err)
	}
	return b.String(), nil
}

func valueNode(v any) (*yaml.Node, error) {
	switch x := v.(type) {
	case *Record:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for p := x.Oldest(); p != nil; p = p.Next() {
			if emptyValue(p.Value) {
				continue
			}
			key := &yaml.Node{}
			if err := key.Encode(p.Key); err != nil {
				return nil, fmt.Errorf("encode metadata key: %w", err)
			}
			value, err := valueNode(p.Value)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, key, value)
		}
		return node, nil

	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range x {
			value, err := valueNode(item)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, value)
		}
		return node, nil

	case []string:
		items := make([]any, len(x))
		for i, s := range x {
			items[i] = s
		}
		return valueNode(items)

	default:
		node := &yaml.Node{}
		if err := node.Encode(v); err != nil {
			return nil, fmt.Errorf("encode metadata value: %w", err)
		}
		return node, nil
	}
}

// emptyValue reports whether v is omitted from serialization: nil values and
// empty collections are dropped, empty strings are kept.
func emptyValue(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case []any:
		return len(x) == 0
	case []string:
		return len(x) == 0
	case *Record:
		return x == nil || x.Len() == 0
	}
	return false
}

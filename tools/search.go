package tools

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	agent "github.com/qwen-code/agent-sdk-go"
)

const maxSearchOutputBytes = 64 * 1024

// SearchFileContentInput defines the input for the search_file_content tool.
type SearchFileContentInput struct {
	Pattern         string `json:"pattern" jsonschema:"required,description=The regex pattern to search for"`
	Path            string `json:"path,omitempty" jsonschema:"description=File or directory to search in"`
	Glob            string `json:"glob,omitempty" jsonschema:"description=Glob pattern to filter files"`
	CaseInsensitive bool   `json:"case_insensitive,omitempty" jsonschema:"description=Case insensitive search"`
}

// SearchFileContentTool searches file contents with a regular expression,
// walking the target directory recursively.
type SearchFileContentTool struct{}

var _ agent.Tool[SearchFileContentInput] = (*SearchFileContentTool)(nil)

func (t *SearchFileContentTool) Name() string        { return "search_file_content" }
func (t *SearchFileContentTool) DisplayName() string { return "Search File Content" }
func (t *SearchFileContentTool) Description() string {
	return "Search file contents using regex patterns"
}

func (t *SearchFileContentTool) Execute(ctx context.Context, input SearchFileContentInput) (*agent.ToolResult, error) {
	if input.Pattern == "" {
		return agent.ErrorResult("pattern is required"), nil
	}

	pattern := input.Pattern
	if input.CaseInsensitive {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return agent.ErrorResult(fmt.Sprintf("invalid pattern: %s", err.Error())), nil
	}

	root := input.Path
	if root == "" {
		root, err = os.Getwd()
		if err != nil {
			return agent.ErrorResult(fmt.Sprintf("failed to get working directory: %s", err.Error())), nil
		}
	}
	info, err := os.Stat(root)
	if err != nil {
		return agent.ErrorResult(fmt.Sprintf("cannot search %s: %s", root, err.Error())), nil
	}

	var b strings.Builder
	if !info.IsDir() {
		err = searchFile(re, root, &b)
	} else {
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil || d.IsDir() {
				return walkErr
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if input.Glob != "" {
				rel, relErr := filepath.Rel(root, path)
				if relErr != nil {
					return nil
				}
				ok, matchErr := doublestar.Match(input.Glob, filepath.ToSlash(rel))
				if matchErr != nil || !ok {
					return matchErr
				}
			}
			if b.Len() > maxSearchOutputBytes {
				return fs.SkipAll
			}
			return searchFile(re, path, &b)
		})
	}
	if err != nil {
		return agent.ErrorResult(fmt.Sprintf("search error: %s", err.Error())), nil
	}

	if b.Len() == 0 {
		return agent.TextResult("No matches found."), nil
	}
	text := b.String()
	if len(text) > maxSearchOutputBytes {
		text = text[:maxSearchOutputBytes] + "\n... [output truncated]"
	}
	return agent.TextResult(text), nil
}

// searchFile appends path:line:text entries for each matching line. Files
// that cannot be read are skipped.
func searchFile(re *regexp.Regexp, path string, b *strings.Builder) error {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if re.MatchString(line) {
			fmt.Fprintf(b, "%s:%d:%s\n", path, lineNum, line)
		}
	}
	// Binary or over-long lines abort the scan; treat as no matches.
	return nil
}

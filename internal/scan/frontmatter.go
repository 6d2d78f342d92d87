// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scan

import (
	"bytes"
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"
)

// frontmatter holds the fields read from a Markdown YAML header.
type frontmatter struct {
	Title   string     `yaml:"title"`
	Author  string     `yaml:"author"`
	Authors stringList `yaml:"authors"`
}

// author returns the single author field, or the authors list joined
// with commas.
func (f frontmatter) author() string {
	if a := strings.TrimSpace(f.Author); a != "" {
		return a
	}
	var names []string
	for _, a := range f.Authors {
		if a = strings.TrimSpace(a); a != "" {
			names = append(names, a)
		}
	}
	return strings.Join(names, ", ")
}

// stringList accepts either a scalar or a sequence of scalars.
type stringList []string

func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*l = stringList{value.Value}
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := value.Decode(&items); err != nil {
			return err
		}
		*l = items
		return nil
	default:
		return fmt.Errorf("line %d: expected string or list of strings", value.Line)
	}
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// splitFrontmatter returns the YAML block at the top of a Markdown file.
// ok is false when the file does not open with a "---" line or the block
// is never closed.
func splitFrontmatter(content []byte) (block []byte, ok bool) {
	content = bytes.TrimPrefix(content, utf8BOM)
	content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(content, []byte("---\n")) {
		return nil, false
	}
	rest := content[len("---\n"):]
	for off := 0; off <= len(rest); {
		end := bytes.IndexByte(rest[off:], '\n')
		line := rest[off:]
		if end >= 0 {
			line = rest[off : off+end]
		}
		if trimmed := bytes.TrimRight(line, " \t"); bytes.Equal(trimmed, []byte("---")) || bytes.Equal(trimmed, []byte("...")) {
			return rest[:off], true
		}
		if end < 0 {
			break
		}
		off += end + 1
	}
	return nil, false
}

// parseFrontmatter decodes the YAML header of a Markdown file. A missing
// header is not an error; a malformed one is.
func parseFrontmatter(content []byte) (frontmatter, bool, error) {
	block, ok := splitFrontmatter(content)
	if !ok {
		return frontmatter{}, false, nil
	}
	var fm frontmatter
	if err := yaml.Unmarshal(block, &fm); err != nil {
		return frontmatter{}, false, fmt.Errorf("parsing frontmatter: %w", err)
	}
	return fm, true, nil
}

// Package frontmatter extracts and parses the structured header block of a
// skill entry file. YAML blocks are delimited by ---, TOML blocks by +++.
package frontmatter

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format identifies the front-matter encoding.
type Format int

const (
	// FormatNone means the file carries no front matter.
	FormatNone Format = iota
	// FormatYAML is a --- delimited YAML block.
	FormatYAML
	// FormatTOML is a +++ delimited TOML block.
	FormatTOML
)

// Result contains the split front matter and the remaining body.
type Result struct {
	// Raw contains the raw front-matter bytes, line endings normalized to \n.
	Raw []byte
	// Body contains the content after the closing delimiter.
	Body string
	// Format indicates which delimiter style was found, if any.
	Format Format
}

// HasFrontmatter reports whether a front-matter block was found.
func (r Result) HasFrontmatter() bool {
	return r.Format != FormatNone
}

// Split extracts front matter from content. A missing closing delimiter is
// treated as no front matter rather than an error.
func Split(content []byte) Result {
	if bytes.HasPrefix(content, []byte("---\n")) || bytes.HasPrefix(content, []byte("---\r\n")) {
		return extract(content, []byte("---"), FormatYAML)
	}
	if bytes.HasPrefix(content, []byte("+++\n")) || bytes.HasPrefix(content, []byte("+++\r\n")) {
		return extract(content, []byte("+++"), FormatTOML)
	}
	return Result{Body: string(content), Format: FormatNone}
}

// extract splits content around the given delimiter pair.
func extract(content, delimiter []byte, format Format) Result {
	remaining := content[len(delimiter):]

	if bytes.HasPrefix(remaining, []byte("\r\n")) {
		remaining = remaining[2:]
	} else if bytes.HasPrefix(remaining, []byte("\n")) {
		remaining = remaining[1:]
	}

	var header []byte
	var bodyStart int
	found := false

	if bytes.HasPrefix(remaining, delimiter) {
		// Empty block: ---\n---\n
		header = []byte{}
		bodyStart = len(delimiter)
		found = true
	} else {
		for _, eol := range []string{"\n", "\r\n"} {
			closing := append([]byte(eol), delimiter...)
			if idx := bytes.Index(remaining, closing); idx != -1 {
				header = remaining[:idx]
				bodyStart = idx + len(closing)
				found = true
				break
			}
		}
	}

	if !found {
		return Result{Body: string(content), Format: FormatNone}
	}

	header = bytes.ReplaceAll(header, []byte("\r\n"), []byte("\n"))
	header = bytes.TrimRight(header, "\r")

	if bodyStart < len(remaining) {
		if bytes.HasPrefix(remaining[bodyStart:], []byte("\r\n")) {
			bodyStart += 2
		} else if bytes.HasPrefix(remaining[bodyStart:], []byte("\n")) {
			bodyStart++
		}
	}

	var body string
	if bodyStart < len(remaining) {
		body = string(remaining[bodyStart:])
	}

	return Result{Raw: header, Body: body, Format: format}
}

// Parse decodes the raw front matter into a generic map according to its
// format. Empty front matter yields an empty map.
func Parse(r Result) (map[string]any, error) {
	if len(r.Raw) == 0 {
		return map[string]any{}, nil
	}

	switch r.Format {
	case FormatYAML:
		var out map[string]any
		if err := yaml.Unmarshal(r.Raw, &out); err != nil {
			return nil, fmt.Errorf("failed to parse YAML front matter: %w", err)
		}
		if out == nil {
			out = map[string]any{}
		}
		return out, nil
	case FormatTOML:
		out := map[string]any{}
		if err := toml.Unmarshal(r.Raw, &out); err != nil {
			return nil, fmt.Errorf("failed to parse TOML front matter: %w", err)
		}
		return out, nil
	default:
		return map[string]any{}, nil
	}
}

// String extracts a string value from a parsed front-matter map.
func String(fm map[string]any, key string) string {
	if val, ok := fm[key]; ok {
		if s, ok := val.(string); ok {
			return s
		}
	}
	return ""
}

// Bool extracts a boolean value from a parsed front-matter map.
func Bool(fm map[string]any, key string) bool {
	if val, ok := fm[key]; ok {
		if b, ok := val.(bool); ok {
			return b
		}
	}
	return false
}

// StringSlice extracts a string slice from a parsed front-matter map.
func StringSlice(fm map[string]any, key string) []string {
	val, ok := fm[key]
	if !ok {
		return nil
	}
	slice, ok := val.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(slice))
	for _, item := range slice {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// BoolAlias extracts a boolean checking each key alias in order. Front
// matter in the wild spells flags in camelCase, snake_case, and kebab-case.
func BoolAlias(fm map[string]any, keys ...string) bool {
	for _, key := range keys {
		if _, ok := fm[key]; ok {
			return Bool(fm, key)
		}
	}
	return false
}

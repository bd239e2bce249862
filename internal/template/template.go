// Package template scaffolds new skill directories.
package template

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/klauern/skillreg/internal/validation"
)

// Data holds the values rendered into a new skill.
type Data struct {
	// ID becomes the directory name and stable identifier.
	ID string
	// Name is the human-readable title. Defaults to ID when empty.
	Name string
	// Description is the trigger/usage text.
	Description string
	// AlwaysApply marks the skill foundational.
	AlwaysApply bool
	// License is an optional license identifier.
	License string
	// WithReferences also creates a references/ directory with a starter file.
	WithReferences bool
}

// skillTemplate is the SKILL.md scaffold.
const skillTemplate = `---
name: {{.Name}}
description: {{.Description}}
{{- if .AlwaysApply}}
alwaysApply: true
{{- end}}
{{- if .License}}
license: {{.License}}
{{- end}}
{{- if .WithReferences}}
references:
  - references/details.md
{{- end}}
---

# {{.Name}}

Describe when and how to apply this skill. Keep the front-matter description
short; put the full guidance here, and move long material into references so
it is only loaded on demand.
`

// referenceTemplate is the starter reference document.
const referenceTemplate = `# {{.Name}}: details

Extended material for the {{.ID}} skill. This file is loaded only when the
host explicitly requests it after the skill body.
`

// Generate writes a new skill directory under root. It refuses to overwrite
// an existing directory.
func Generate(root string, data Data) (string, error) {
	if err := validation.ValidateID(data.ID); err != nil {
		return "", err
	}
	if data.Description == "" {
		return "", fmt.Errorf("description is required")
	}
	if data.Name == "" {
		data.Name = data.ID
	}

	dir := filepath.Join(root, data.ID)
	if _, err := os.Stat(dir); err == nil {
		return "", fmt.Errorf("skill directory %q already exists", dir)
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create skill directory: %w", err)
	}

	if err := render(filepath.Join(dir, "SKILL.md"), skillTemplate, data); err != nil {
		return "", err
	}

	if data.WithReferences {
		refDir := filepath.Join(dir, "references")
		if err := os.MkdirAll(refDir, 0o750); err != nil {
			return "", fmt.Errorf("failed to create references directory: %w", err)
		}
		if err := render(filepath.Join(refDir, "details.md"), referenceTemplate, data); err != nil {
			return "", err
		}
	}

	return dir, nil
}

// render executes a template and writes it to path.
func render(path, tmpl string, data Data) error {
	t, err := template.New(filepath.Base(path)).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}

	// #nosec G306 - skill files are meant to be readable
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	return nil
}

package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// writeSkill creates a skill directory with the given SKILL.md content.
func writeSkill(t *testing.T, root, id, content string) string {
	t.Helper()
	dir := filepath.Join(root, id)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatalf("failed to create skill dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, SkillFileName), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write SKILL.md: %v", err)
	}
	return dir
}

// writeReference creates a reference file inside a skill directory.
func writeReference(t *testing.T, skillDir, rel, content string) {
	t.Helper()
	path := filepath.Join(skillDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("failed to create reference dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write reference: %v", err)
	}
}

func skillContent(name, desc, body string) string {
	return fmt.Sprintf("---\nname: %s\ndescription: %s\n---\n%s", name, desc, body)
}

func TestLoadMetadataVerbatim(t *testing.T) {
	root := t.TempDir()
	writeSkill(t, root, "alpha", skillContent("Writing Alpha Docs", "desc A", "alpha body"))
	writeSkill(t, root, "beta", skillContent("Reviewing Beta Code", "desc B", "beta body"))

	reg, err := Load([]string{root})
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if reg.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", reg.Len())
	}

	ids := reg.IDs()
	sort.Strings(ids)
	if ids[0] != "alpha" || ids[1] != "beta" {
		t.Errorf("IDs() = %v, want [alpha beta]", ids)
	}

	def, ok := reg.Get("alpha")
	if !ok {
		t.Fatal("Get(alpha) not found")
	}
	if def.Name != "Writing Alpha Docs" {
		t.Errorf("Name = %q, want %q", def.Name, "Writing Alpha Docs")
	}
	if def.Description != "desc A" {
		t.Errorf("Description = %q, want %q", def.Description, "desc A")
	}
	if def.Root == "" || def.Dir == "" {
		t.Error("Root and Dir should be populated")
	}

	state, _ := reg.State("alpha")
	if state.String() != "discovered" {
		t.Errorf("State = %v, want discovered", state)
	}
}

func TestLoadIdempotent(t *testing.T) {
	root := t.TempDir()
	writeSkill(t, root, "alpha", skillContent("Alpha", "desc A", "body"))
	writeSkill(t, root, "beta", skillContent("Beta", "desc B", "body"))

	first, err := Load([]string{root})
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	second, err := Load([]string{root})
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	firstIDs := first.IDs()
	secondIDs := second.IDs()
	if len(firstIDs) != len(secondIDs) {
		t.Fatalf("id sets differ: %v vs %v", firstIDs, secondIDs)
	}
	for i := range firstIDs {
		if firstIDs[i] != secondIDs[i] {
			t.Errorf("id order differs at %d: %q vs %q", i, firstIDs[i], secondIDs[i])
		}
		a, _ := first.Get(firstIDs[i])
		b, _ := second.Get(firstIDs[i])
		if a.Name != b.Name || a.Description != b.Description {
			t.Errorf("metadata differs for %q", firstIDs[i])
		}
	}
}

func TestLoadDuplicateIDNamesBothPaths(t *testing.T) {
	root1 := t.TempDir()
	root2 := t.TempDir()
	dir1 := writeSkill(t, root1, "alpha", skillContent("Alpha One", "first", "body"))
	dir2 := writeSkill(t, root2, "alpha", skillContent("Alpha Two", "second", "body"))

	reg, err := Load([]string{root1, root2})
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	report := reg.Report()
	if len(report.Errors) != 1 {
		t.Fatalf("Report().Errors = %d, want 1", len(report.Errors))
	}

	derr := report.Errors[0]
	if derr.Kind != DuplicateID {
		t.Errorf("Kind = %v, want DuplicateID", derr.Kind)
	}
	if derr.Path != dir2 {
		t.Errorf("Path = %q, want %q", derr.Path, dir2)
	}
	if derr.Conflict != dir1 {
		t.Errorf("Conflict = %q, want %q", derr.Conflict, dir1)
	}

	// The first registration wins; its metadata survives.
	def, _ := reg.Get("alpha")
	if def.Name != "Alpha One" {
		t.Errorf("Name = %q, want first-registered skill", def.Name)
	}
}

func TestLoadDuplicateIDStrict(t *testing.T) {
	root1 := t.TempDir()
	root2 := t.TempDir()
	writeSkill(t, root1, "alpha", skillContent("A", "d", "body"))
	writeSkill(t, root2, "alpha", skillContent("A", "d", "body"))

	_, err := Load([]string{root1, root2}, Strict(true))
	if err == nil {
		t.Fatal("Load() with Strict expected error, got nil")
	}

	var derr *DiscoveryError
	if !errors.As(err, &derr) {
		t.Fatalf("error %v is not a *DiscoveryError", err)
	}
	if derr.Kind != DuplicateID {
		t.Errorf("Kind = %v, want DuplicateID", derr.Kind)
	}
}

func TestLoadInvalidMetadata(t *testing.T) {
	tests := map[string]struct {
		content string
	}{
		"missing name":        {content: "---\ndescription: only desc\n---\nbody"},
		"missing description": {content: "---\nname: only name\n---\nbody"},
		"no front matter":     {content: "just a markdown file"},
		"unparseable yaml":    {content: "---\nname: [broken\n---\nbody"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			root := t.TempDir()
			writeSkill(t, root, "broken", tt.content)
			writeSkill(t, root, "good", skillContent("Good", "fine", "body"))

			reg, err := Load([]string{root})
			if err != nil {
				t.Fatalf("Load() unexpected error: %v", err)
			}

			// One broken skill must not break the registry.
			if _, ok := reg.Get("good"); !ok {
				t.Error("good skill missing from registry")
			}
			if _, ok := reg.Get("broken"); ok {
				t.Error("broken skill should not be registered")
			}

			report := reg.Report()
			if len(report.Errors) != 1 {
				t.Fatalf("Report().Errors = %d, want 1", len(report.Errors))
			}
			if report.Errors[0].Kind != InvalidMetadata {
				t.Errorf("Kind = %v, want InvalidMetadata", report.Errors[0].Kind)
			}
			if report.Errors[0].Path == "" {
				t.Error("discovery error should name the offending path")
			}

			// Strict mode turns the same tree into a hard failure.
			if _, err := Load([]string{root}, Strict(true)); err == nil {
				t.Error("Load() with Strict expected error, got nil")
			}
		})
	}
}

func TestLoadNestedSkillDirectories(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "group", "sub")
	if err := os.MkdirAll(nested, 0o750); err != nil {
		t.Fatalf("failed to create nested dirs: %v", err)
	}
	writeSkill(t, nested, "deep", skillContent("Deep", "nested skill", "body"))

	reg, err := Load([]string{root})
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if _, ok := reg.Get("deep"); !ok {
		t.Error("nested skill directory was not discovered")
	}
}

func TestLoadDoesNotDescendIntoSkillDirectories(t *testing.T) {
	root := t.TempDir()
	dir := writeSkill(t, root, "outer", skillContent("Outer", "d", "body"))
	// A SKILL.md inside the skill's own tree must not register a new skill.
	writeReference(t, dir, "references/inner/SKILL.md", skillContent("Inner", "d", "body"))

	reg, err := Load([]string{root})
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if reg.Len() != 1 {
		t.Errorf("Len() = %d, want 1", reg.Len())
	}
}

func TestLoadMissingRootIsNotAnError(t *testing.T) {
	reg, err := Load([]string{filepath.Join(t.TempDir(), "does-not-exist")})
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if reg.Len() != 0 {
		t.Errorf("Len() = %d, want 0", reg.Len())
	}
}

func TestLoadDiscoversBundledReferences(t *testing.T) {
	root := t.TempDir()
	dir := writeSkill(t, root, "alpha", "---\nname: Alpha\ndescription: d\nreferences:\n  - references/declared.md\n---\nbody")
	writeReference(t, dir, "references/declared.md", "declared")
	writeReference(t, dir, "references/extra.md", "extra")

	reg, err := Load([]string{root})
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	def, _ := reg.Get("alpha")
	want := []string{"references/declared.md", "references/extra.md"}
	if len(def.References) != len(want) {
		t.Fatalf("References = %v, want %v", def.References, want)
	}
	for i := range want {
		if def.References[i] != want[i] {
			t.Errorf("References[%d] = %q, want %q", i, def.References[i], want[i])
		}
	}
}

func TestLoadAlwaysApplyAliases(t *testing.T) {
	tests := map[string]struct {
		key string
	}{
		"camel case": {key: "alwaysApply"},
		"kebab case": {key: "always-apply"},
		"snake case": {key: "always_apply"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			root := t.TempDir()
			writeSkill(t, root, "base", fmt.Sprintf("---\nname: Base\ndescription: d\n%s: true\n---\nbody", tt.key))

			reg, err := Load([]string{root})
			if err != nil {
				t.Fatalf("Load() unexpected error: %v", err)
			}
			def, _ := reg.Get("base")
			if !def.AlwaysApply {
				t.Errorf("AlwaysApply = false for key %q, want true", tt.key)
			}
		})
	}
}

func TestLoadUnknownKeysGoToMetadata(t *testing.T) {
	root := t.TempDir()
	writeSkill(t, root, "alpha", "---\nname: Alpha\ndescription: d\nauthor: someone\nversion: 2\n---\nbody")

	reg, err := Load([]string{root})
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	def, _ := reg.Get("alpha")
	if def.Metadata["author"] != "someone" {
		t.Errorf("Metadata[author] = %q, want %q", def.Metadata["author"], "someone")
	}
	if def.Metadata["version"] != "2" {
		t.Errorf("Metadata[version] = %q, want %q", def.Metadata["version"], "2")
	}
}

func TestFoundational(t *testing.T) {
	root := t.TempDir()
	writeSkill(t, root, "a-ordinary", skillContent("A", "d", "body"))
	writeSkill(t, root, "development-preferences", "---\nname: Development Preferences\ndescription: base rules\nalwaysApply: true\n---\nbody")

	reg, err := Load([]string{root})
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	foundational := reg.Foundational()
	if len(foundational) != 1 || foundational[0] != "development-preferences" {
		t.Errorf("Foundational() = %v, want [development-preferences]", foundational)
	}
}

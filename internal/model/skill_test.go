package model

import "testing"

func TestHasReference(t *testing.T) {
	def := SkillDefinition{
		ID:         "test",
		References: []string{"references/a.md", "references/b.md"},
	}

	if !def.HasReference("references/a.md") {
		t.Error("HasReference() = false for declared reference")
	}
	if def.HasReference("references/c.md") {
		t.Error("HasReference() = true for undeclared reference")
	}
	if (SkillDefinition{}).HasReference("anything") {
		t.Error("HasReference() = true on empty definition")
	}
}

func TestLoadStateString(t *testing.T) {
	tests := map[string]struct {
		state LoadState
		want  string
	}{
		"discovered":        {state: StateDiscovered, want: "discovered"},
		"body loaded":       {state: StateBodyLoaded, want: "body-loaded"},
		"references loaded": {state: StateReferencesLoaded, want: "references-loaded"},
		"out of range":      {state: LoadState(99), want: "unknown"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := tt.state.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSelectionContextIsLoaded(t *testing.T) {
	ctx := SelectionContext{
		Text:   "some task",
		Loaded: map[string]bool{"a": true},
	}

	if !ctx.IsLoaded("a") {
		t.Error("IsLoaded(a) = false, want true")
	}
	if ctx.IsLoaded("b") {
		t.Error("IsLoaded(b) = true, want false")
	}

	empty := SelectionContext{Text: "task"}
	if empty.IsLoaded("a") {
		t.Error("IsLoaded() on nil set = true, want false")
	}
}

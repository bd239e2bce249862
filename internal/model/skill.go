// Package model defines the core types shared across skillreg.
package model

import "time"

// SkillDefinition is the metadata tier of a discovered skill. It is built
// once during registry load and never mutated afterwards; body and reference
// content live in the registry's lazy cache slots, not here.
type SkillDefinition struct {
	// ID is the stable identifier, derived from the skill directory name.
	ID string `json:"id"`
	// Name is the human-readable title from front matter.
	Name string `json:"name"`
	// Description is the trigger/usage text matched against request context.
	// It is always resident; everything else is loaded on demand.
	Description string `json:"description"`
	// AlwaysApply marks the foundational skill that leads every selection.
	AlwaysApply bool `json:"always_apply,omitempty"`
	// Dir is the absolute path of the skill directory.
	Dir string `json:"dir"`
	// Root is the configured root directory this skill was discovered under.
	Root string `json:"root"`
	// References lists relative paths of bundled reference documents, in
	// discovery order (front matter first, then references/ scan).
	References []string `json:"references,omitempty"`
	// License is the optional license declared in front matter.
	License string `json:"license,omitempty"`
	// Metadata holds unrecognized front-matter keys verbatim.
	Metadata map[string]string `json:"metadata,omitempty"`
	// ModifiedAt is the SKILL.md modification time at discovery.
	ModifiedAt time.Time `json:"modified_at"`
}

// HasReference reports whether relPath is one of the skill's declared or
// discovered reference documents.
func (s SkillDefinition) HasReference(relPath string) bool {
	for _, r := range s.References {
		if r == relPath {
			return true
		}
	}
	return false
}

// LoadState tracks how much of a skill's content has been materialized.
// Transitions are monotonic: Discovered -> BodyLoaded -> ReferencesLoaded.
type LoadState int

const (
	// StateDiscovered means only front-matter metadata is resident.
	StateDiscovered LoadState = iota
	// StateBodyLoaded means the body has been read and cached.
	StateBodyLoaded
	// StateReferencesLoaded means the body and at least one reference are cached.
	StateReferencesLoaded
)

// String returns the state name for logging.
func (s LoadState) String() string {
	switch s {
	case StateDiscovered:
		return "discovered"
	case StateBodyLoaded:
		return "body-loaded"
	case StateReferencesLoaded:
		return "references-loaded"
	default:
		return "unknown"
	}
}

// SelectionContext carries the per-request inputs to skill selection.
// It is ephemeral and never stored on the registry.
type SelectionContext struct {
	// Text is the current user/task text matched against descriptions.
	Text string
	// Loaded is the set of skill ids already loaded this session; selection
	// skips them to avoid duplicate loading.
	Loaded map[string]bool
}

// IsLoaded reports whether the given skill id was already loaded this session.
func (c SelectionContext) IsLoaded(id string) bool {
	return c.Loaded != nil && c.Loaded[id]
}

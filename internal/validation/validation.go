// Package validation provides lint checks for discovered skill definitions.
package validation

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauern/skillreg/internal/model"
)

// MaxDescriptionLength is the hard upper bound for description metadata.
// Descriptions are always resident in the host's context, so oversized ones
// defeat the point of progressive disclosure.
const MaxDescriptionLength = 1024

// RecommendedDescriptionWords is the soft word bound seen in published
// skill collections. Exceeding it is a warning, not an error.
const RecommendedDescriptionWords = 60

// MaxReferenceDepth is the deepest directory nesting a reference path may
// have before the validator warns about it.
const MaxReferenceDepth = 3

// Error represents a validation failure with context.
type Error struct {
	// Skill is the id of the skill that failed validation
	Skill string
	// Field is the name of the field or file that failed validation
	Field string
	// Message describes the validation failure
	Message string
	// Err is the underlying error (if any)
	Err error
}

// Error returns a formatted validation error message.
func (ve *Error) Error() string {
	if ve.Err != nil {
		return fmt.Sprintf("skill %q: invalid %s: %s: %v", ve.Skill, ve.Field, ve.Message, ve.Err)
	}
	return fmt.Sprintf("skill %q: invalid %s: %s", ve.Skill, ve.Field, ve.Message)
}

// Unwrap returns the underlying error for errors.Is/As.
func (ve *Error) Unwrap() error {
	return ve.Err
}

// Errors collects multiple validation errors.
type Errors []error

// Error returns a formatted error message for all validation failures.
func (ve Errors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}
	return fmt.Sprintf("%d validation errors:\n- %s", len(ve), errors.Join(ve...))
}

// Result contains the outcome of validating one skill.
type Result struct {
	// Skill is the validated skill id
	Skill string
	// Valid indicates whether all checks passed
	Valid bool
	// Warnings contains non-fatal issues
	Warnings []string
	// Errors contains failures
	Errors []error
}

// AddError adds an error to the validation result.
func (r *Result) AddError(err error) {
	r.Valid = false
	r.Errors = append(r.Errors, err)
}

// AddWarning adds a warning to the validation result.
func (r *Result) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// Err returns the combined validation error, or nil.
func (r *Result) Err() error {
	switch len(r.Errors) {
	case 0:
		return nil
	case 1:
		return r.Errors[0]
	default:
		return Errors(r.Errors)
	}
}

// ValidateSkill lints a single skill definition: identifier shape,
// description bounds, and reference paths.
func ValidateSkill(def model.SkillDefinition) *Result {
	result := &Result{Skill: def.ID, Valid: true}

	if err := ValidateID(def.ID); err != nil {
		result.AddError(&Error{Skill: def.ID, Field: "id", Message: err.Error()})
	}

	if def.Name == "" {
		result.AddError(&Error{Skill: def.ID, Field: "name", Message: "name cannot be empty"})
	}

	validateDescription(def, result)
	validateReferences(def, result)

	return result
}

// validateDescription enforces the description bounds.
func validateDescription(def model.SkillDefinition, result *Result) {
	desc := def.Description
	if desc == "" {
		result.AddError(&Error{Skill: def.ID, Field: "description", Message: "description cannot be empty"})
		return
	}

	if len(desc) > MaxDescriptionLength {
		result.AddError(&Error{
			Skill:   def.ID,
			Field:   "description",
			Message: fmt.Sprintf("description is %d characters, maximum is %d", len(desc), MaxDescriptionLength),
		})
	}

	if words := len(strings.Fields(desc)); words > RecommendedDescriptionWords {
		result.AddWarning(fmt.Sprintf(
			"description is %d words; keep it under %d so the metadata tier stays small",
			words, RecommendedDescriptionWords,
		))
	}
}

// validateReferences checks that declared references exist, stay inside the
// skill directory, and are not nested too deeply.
func validateReferences(def model.SkillDefinition, result *Result) {
	for _, rel := range def.References {
		if filepath.IsAbs(rel) || hasParentSegment(rel) {
			result.AddError(&Error{
				Skill:   def.ID,
				Field:   "references",
				Message: fmt.Sprintf("reference %q escapes the skill directory", rel),
			})
			continue
		}

		abs := filepath.Join(def.Dir, filepath.FromSlash(rel))
		if info, err := os.Stat(abs); err != nil {
			result.AddError(&Error{
				Skill:   def.ID,
				Field:   "references",
				Message: fmt.Sprintf("reference %q does not exist", rel),
				Err:     err,
			})
		} else if info.IsDir() {
			result.AddError(&Error{
				Skill:   def.ID,
				Field:   "references",
				Message: fmt.Sprintf("reference %q is a directory", rel),
			})
		}

		if depth := strings.Count(filepath.ToSlash(rel), "/"); depth > MaxReferenceDepth {
			result.AddWarning(fmt.Sprintf(
				"reference %q is nested %d levels deep; deeply nested references are hard to discover",
				rel, depth,
			))
		}
	}
}

// ValidateID checks that a skill id is usable as a stable identifier.
// Valid ids contain only alphanumerics, hyphens, and underscores.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("skill id cannot be empty")
	}
	if strings.TrimSpace(id) != id {
		return fmt.Errorf("skill id cannot have leading/trailing whitespace: %q", id)
	}
	for _, r := range id {
		if !isValidIDChar(r) {
			return fmt.Errorf("skill id contains invalid character %q: %q", r, id)
		}
	}
	return nil
}

func isValidIDChar(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') ||
		r == '-' || r == '_'
}

// hasParentSegment reports whether a slash-separated relative path contains
// a .. segment.
func hasParentSegment(rel string) bool {
	for _, segment := range strings.Split(filepath.ToSlash(rel), "/") {
		if segment == ".." {
			return true
		}
	}
	return false
}

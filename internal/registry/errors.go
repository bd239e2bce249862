package registry

import "fmt"

// DiscoveryKind classifies registry load failures.
type DiscoveryKind int

const (
	// DuplicateID means two skill directories resolved to the same id.
	DuplicateID DiscoveryKind = iota
	// InvalidMetadata means a SKILL.md had missing or unparseable front matter.
	InvalidMetadata
)

// String returns the kind name.
func (k DiscoveryKind) String() string {
	switch k {
	case DuplicateID:
		return "duplicate-id"
	case InvalidMetadata:
		return "invalid-metadata"
	default:
		return "unknown"
	}
}

// DiscoveryError describes a per-skill failure during registry load. The
// registry collects these into its Report instead of aborting, unless strict
// mode is enabled.
type DiscoveryError struct {
	// Kind classifies the failure.
	Kind DiscoveryKind
	// ID is the skill id involved, when known.
	ID string
	// Path is the offending skill directory or file.
	Path string
	// Conflict is the previously discovered path for DuplicateID errors.
	Conflict string
	// Err is the underlying error, if any.
	Err error
}

// Error returns a formatted discovery error message.
func (e *DiscoveryError) Error() string {
	switch e.Kind {
	case DuplicateID:
		return fmt.Sprintf("duplicate skill id %q: %s conflicts with %s", e.ID, e.Path, e.Conflict)
	case InvalidMetadata:
		if e.Err != nil {
			return fmt.Sprintf("invalid skill metadata in %s: %v", e.Path, e.Err)
		}
		return fmt.Sprintf("invalid skill metadata in %s", e.Path)
	default:
		return fmt.Sprintf("discovery error in %s", e.Path)
	}
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *DiscoveryError) Unwrap() error {
	return e.Err
}

// NotFoundKind classifies load-time lookup failures.
type NotFoundKind int

const (
	// UnknownID means the requested skill id is absent from the registry.
	UnknownID NotFoundKind = iota
	// PathEscape means a reference path resolved outside the skill directory.
	PathEscape
)

// String returns the kind name.
func (k NotFoundKind) String() string {
	switch k {
	case UnknownID:
		return "unknown-id"
	case PathEscape:
		return "path-escape"
	default:
		return "unknown"
	}
}

// NotFoundError is returned by Body and Reference for caller mistakes:
// an unknown skill id or a reference path escaping the skill directory.
type NotFoundError struct {
	// Kind classifies the failure.
	Kind NotFoundKind
	// ID is the requested skill id.
	ID string
	// Reference is the requested reference path, for reference lookups.
	Reference string
}

// Error returns a formatted lookup error message.
func (e *NotFoundError) Error() string {
	switch e.Kind {
	case UnknownID:
		return fmt.Sprintf("skill %q not found", e.ID)
	case PathEscape:
		return fmt.Sprintf("reference %q escapes the directory of skill %q", e.Reference, e.ID)
	default:
		return fmt.Sprintf("skill %q: lookup failed", e.ID)
	}
}

// Package registry discovers skill definitions and serves their content in
// three lazily loaded tiers: front-matter metadata is resident from load
// time, bodies are read on first request, and bundled reference documents
// are read on demand after their owning body.
package registry

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauern/skillreg/internal/frontmatter"
	"github.com/klauern/skillreg/internal/logging"
	"github.com/klauern/skillreg/internal/match"
	"github.com/klauern/skillreg/internal/model"
)

// SkillFileName is the entry file that marks a skill directory.
const SkillFileName = "SKILL.md"

// ReadFileFunc reads a file's content. The registry uses it for all body and
// reference reads so tests can count or fake disk access.
type ReadFileFunc func(path string) ([]byte, error)

// Registry is an immutable index of discovered skills. It is safe for
// concurrent readers; only the per-skill lazy caches are guarded.
type Registry struct {
	entries map[string]*entry
	order   []string
	report  Report

	readFile  ReadFileFunc
	scorer    match.Scorer
	threshold float64
}

// Report records per-skill discovery failures that did not abort the load.
type Report struct {
	// Errors holds one entry per skipped skill directory.
	Errors []*DiscoveryError
}

// Ok reports whether discovery completed without skipping any skill.
func (r Report) Ok() bool {
	return len(r.Errors) == 0
}

// Option configures registry loading.
type Option func(*loadOptions)

type loadOptions struct {
	strict    bool
	readFile  ReadFileFunc
	scorer    match.Scorer
	threshold float64
}

// Strict makes the first discovery error fail the whole load instead of
// being collected into the report.
func Strict(on bool) Option {
	return func(o *loadOptions) {
		o.strict = on
	}
}

// WithFileReader overrides how body and reference content is read from disk.
func WithFileReader(fn ReadFileFunc) Option {
	return func(o *loadOptions) {
		o.readFile = fn
	}
}

// WithScorer sets the relevance strategy used by Select.
func WithScorer(s match.Scorer) Option {
	return func(o *loadOptions) {
		o.scorer = s
	}
}

// WithThreshold sets the minimum relevance score for Select matches.
func WithThreshold(t float64) Option {
	return func(o *loadOptions) {
		o.threshold = t
	}
}

// Load scans the given roots for skill directories and builds a registry
// holding only their metadata. Bodies and references are not read here.
//
// A directory is a skill directory when it contains SKILL.md; its directory
// name becomes the skill id and must be unique across all roots. By default
// broken skill directories are skipped and recorded in the report so one bad
// skill cannot break the registry.
func Load(roots []string, opts ...Option) (*Registry, error) {
	o := loadOptions{
		readFile:  os.ReadFile,
		scorer:    match.NewKeywordScorer(),
		threshold: match.DefaultThreshold,
	}
	for _, opt := range opts {
		opt(&o)
	}

	reg := &Registry{
		entries:   make(map[string]*entry),
		readFile:  o.readFile,
		scorer:    o.scorer,
		threshold: o.threshold,
	}

	for _, root := range roots {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve root %q: %w", root, err)
		}
		if err := reg.scanRoot(absRoot, o.strict); err != nil {
			return nil, err
		}
	}

	logging.Debug("registry loaded",
		logging.Count(len(reg.order)),
	)

	return reg, nil
}

// scanRoot walks one root and registers every skill directory beneath it.
// Skill directories are not descended into, so a skill's references/ tree
// can never register nested skills.
func (r *Registry) scanRoot(root string, strict bool) error {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		logging.Debug("skill root not found", logging.Root(root))
		return nil
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}

		skillFile := filepath.Join(path, SkillFileName)
		if _, err := os.Stat(skillFile); err != nil {
			return nil
		}

		if derr := r.register(root, path, skillFile); derr != nil {
			if strict {
				return derr
			}
			logging.Warn("skipping skill directory",
				logging.Path(path),
				logging.Err(derr),
			)
			r.report.Errors = append(r.report.Errors, derr)
		}
		return filepath.SkipDir
	})
}

// register parses one skill's front matter and adds it to the index.
func (r *Registry) register(root, dir, skillFile string) *DiscoveryError {
	id := filepath.Base(dir)

	if prev, exists := r.entries[id]; exists {
		return &DiscoveryError{
			Kind:     DuplicateID,
			ID:       id,
			Path:     dir,
			Conflict: prev.def.Dir,
		}
	}

	def, err := parseMetadata(id, root, dir, skillFile)
	if err != nil {
		return &DiscoveryError{Kind: InvalidMetadata, ID: id, Path: skillFile, Err: err}
	}

	r.entries[id] = newEntry(def)
	r.order = append(r.order, id)
	return nil
}

// parseMetadata reads the front matter of a SKILL.md and builds the metadata
// tier. The body after the front matter is deliberately discarded here.
func parseMetadata(id, root, dir, skillFile string) (model.SkillDefinition, error) {
	// #nosec G304 - skillFile is constructed from the configured root
	content, err := os.ReadFile(skillFile)
	if err != nil {
		return model.SkillDefinition{}, fmt.Errorf("failed to read %q: %w", skillFile, err)
	}

	split := frontmatter.Split(content)
	if !split.HasFrontmatter() {
		return model.SkillDefinition{}, fmt.Errorf("missing front matter")
	}

	fm, err := frontmatter.Parse(split)
	if err != nil {
		return model.SkillDefinition{}, err
	}

	def := model.SkillDefinition{
		ID:          id,
		Name:        frontmatter.String(fm, "name"),
		Description: frontmatter.String(fm, "description"),
		AlwaysApply: frontmatter.BoolAlias(fm, "alwaysApply", "always-apply", "always_apply"),
		License:     frontmatter.String(fm, "license"),
		Dir:         dir,
		Root:        root,
		References:  frontmatter.StringSlice(fm, "references"),
		Metadata:    make(map[string]string),
	}

	if def.Name == "" {
		return model.SkillDefinition{}, fmt.Errorf("front matter is missing required key %q", "name")
	}
	if def.Description == "" {
		return model.SkillDefinition{}, fmt.Errorf("front matter is missing required key %q", "description")
	}

	knownKeys := map[string]bool{
		"name": true, "description": true, "license": true, "references": true,
		"alwaysApply": true, "always-apply": true, "always_apply": true,
	}
	for key, val := range fm {
		if knownKeys[key] {
			continue
		}
		if s, ok := val.(string); ok {
			def.Metadata[key] = s
		} else {
			def.Metadata[key] = fmt.Sprintf("%v", val)
		}
	}

	def.References = appendBundledReferences(def.References, dir)

	if info, err := os.Stat(skillFile); err == nil {
		def.ModifiedAt = info.ModTime()
	}

	return def, nil
}

// appendBundledReferences adds files found under references/ that the front
// matter did not already declare. Discovery order is deterministic: declared
// references first, then the directory scan sorted by name.
func appendBundledReferences(declared []string, dir string) []string {
	entries, err := os.ReadDir(filepath.Join(dir, "references"))
	if err != nil {
		return declared
	}

	var found []string
	for _, e := range entries {
		if !e.IsDir() {
			found = append(found, filepath.ToSlash(filepath.Join("references", e.Name())))
		}
	}
	sort.Strings(found)

	refs := declared
	for _, rel := range found {
		seen := false
		for _, existing := range refs {
			if existing == rel {
				seen = true
				break
			}
		}
		if !seen {
			refs = append(refs, rel)
		}
	}
	return refs
}

// Get returns the metadata tier for a skill id.
func (r *Registry) Get(id string) (model.SkillDefinition, bool) {
	e, ok := r.entries[id]
	if !ok {
		return model.SkillDefinition{}, false
	}
	return e.def, true
}

// IDs returns all skill ids in registry scan order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered skills.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Report returns the discovery report collected during Load.
func (r *Registry) Report() Report {
	return r.report
}

// State returns the current load state for a skill id.
func (r *Registry) State(id string) (model.LoadState, bool) {
	e, ok := r.entries[id]
	if !ok {
		return model.StateDiscovered, false
	}
	return e.state(), true
}

// Foundational returns the ids of skills marked alwaysApply, in scan order.
func (r *Registry) Foundational() []string {
	var out []string
	for _, id := range r.order {
		if r.entries[id].def.AlwaysApply {
			out = append(out, id)
		}
	}
	return out
}

// normalizeRel cleans a reference path for comparison, converting separators
// to slashes.
func normalizeRel(rel string) string {
	return filepath.ToSlash(strings.TrimSpace(rel))
}

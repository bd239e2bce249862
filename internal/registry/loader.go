package registry

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/klauern/skillreg/internal/frontmatter"
	"github.com/klauern/skillreg/internal/logging"
	"github.com/klauern/skillreg/internal/model"
)

// entry pairs a skill's immutable metadata with its lazy content caches.
// The body slot is write-once via sync.Once: the first caller performs the
// read and concurrent callers block on it. Reference slots are guarded by a
// mutex keyed on relative path.
type entry struct {
	def model.SkillDefinition

	bodyOnce   sync.Once
	body       string
	bodyErr    error
	bodyLoaded bool

	refMu sync.Mutex
	refs  map[string]string
}

func newEntry(def model.SkillDefinition) *entry {
	return &entry{def: def, refs: make(map[string]string)}
}

// state derives the progressive-disclosure state from the caches.
func (e *entry) state() model.LoadState {
	e.refMu.Lock()
	refCount := len(e.refs)
	e.refMu.Unlock()

	if refCount > 0 {
		return model.StateReferencesLoaded
	}
	if e.loadedBody() {
		return model.StateBodyLoaded
	}
	return model.StateDiscovered
}

func (e *entry) loadedBody() bool {
	e.refMu.Lock()
	defer e.refMu.Unlock()
	return e.bodyLoaded
}

func (e *entry) markBodyLoaded() {
	e.refMu.Lock()
	e.bodyLoaded = true
	e.refMu.Unlock()
}

// Body returns the instructional text of the skill, reading it from disk on
// first call and serving the cache afterwards. Load failures are cached the
// same way; a failed read is not retried.
func (r *Registry) Body(id string) (string, error) {
	e, ok := r.entries[id]
	if !ok {
		return "", &NotFoundError{Kind: UnknownID, ID: id}
	}

	e.bodyOnce.Do(func() {
		skillFile := filepath.Join(e.def.Dir, SkillFileName)
		content, err := r.readFile(skillFile)
		if err != nil {
			e.bodyErr = fmt.Errorf("failed to read body of skill %q: %w", id, err)
			return
		}
		e.body = frontmatter.Split(content).Body
		e.markBodyLoaded()

		logging.Debug("skill body loaded",
			logging.Skill(id),
			logging.Path(skillFile),
		)
	})

	return e.body, e.bodyErr
}

// Reference returns a bundled reference document of the skill. The owning
// body is loaded first when necessary, keeping the disclosure order
// Discovered -> BodyLoaded -> ReferencesLoaded intact. The resolved path
// must stay inside the skill's own directory.
func (r *Registry) Reference(id, relPath string) (string, error) {
	e, ok := r.entries[id]
	if !ok {
		return "", &NotFoundError{Kind: UnknownID, ID: id}
	}

	rel := normalizeRel(relPath)
	abs, err := containedPath(e.def.Dir, rel)
	if err != nil {
		return "", &NotFoundError{Kind: PathEscape, ID: id, Reference: relPath}
	}

	if _, err := r.Body(id); err != nil {
		return "", err
	}

	e.refMu.Lock()
	defer e.refMu.Unlock()

	if content, ok := e.refs[rel]; ok {
		return content, nil
	}

	content, err := r.readFile(abs)
	if err != nil {
		return "", fmt.Errorf("failed to read reference %q of skill %q: %w", relPath, id, err)
	}

	e.refs[rel] = string(content)

	logging.Debug("skill reference loaded",
		logging.Skill(id),
		logging.Reference(rel),
	)

	return e.refs[rel], nil
}

// containedPath resolves rel against dir and verifies the result stays
// inside dir. Absolute paths and any parent-directory segment are rejected
// outright; the joined path is re-checked after cleaning.
func containedPath(dir, rel string) (string, error) {
	if rel == "" || filepath.IsAbs(rel) || strings.HasPrefix(rel, "/") {
		return "", fmt.Errorf("reference path must be relative")
	}

	for _, segment := range strings.Split(rel, "/") {
		if segment == ".." {
			return "", fmt.Errorf("reference path contains parent-directory segment")
		}
	}

	abs := filepath.Clean(filepath.Join(dir, filepath.FromSlash(rel)))
	prefix := dir + string(filepath.Separator)
	if abs != dir && !strings.HasPrefix(abs, prefix) {
		return "", fmt.Errorf("reference path resolves outside the skill directory")
	}
	if abs == dir {
		return "", fmt.Errorf("reference path must name a file")
	}
	return abs, nil
}

package registry

import (
	"github.com/klauern/skillreg/internal/logging"
	"github.com/klauern/skillreg/internal/model"
)

// Match pairs a selected skill id with its relevance score. Foundational
// skills carry the score the strategy gave them but are selected regardless.
type Match struct {
	ID           string
	Score        float64
	Foundational bool
}

// Select returns the ids of skills relevant to the given context, in the
// order the host should load them: foundational skills first, then matches
// in registry scan order. Equal scores keep scan order.
//
// Selection is a pure function of registry metadata and the context. It
// never touches bodies or references, so the lazy-loading tiers stay cold.
func (r *Registry) Select(sctx model.SelectionContext) []string {
	matches := r.Rank(sctx)
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.ID)
	}
	return ids
}

// Rank is Select with scores attached, for display and debugging.
func (r *Registry) Rank(sctx model.SelectionContext) []Match {
	var foundational []Match
	var matched []Match

	for _, id := range r.order {
		def := r.entries[id].def

		if def.AlwaysApply {
			// Foundational skills lead every selection, even when the
			// session already loaded them; the host dedupes at assembly.
			foundational = append(foundational, Match{
				ID:           id,
				Score:        r.scorer.Score(def.Description, sctx.Text),
				Foundational: true,
			})
			continue
		}

		if sctx.IsLoaded(id) {
			continue
		}

		score := r.scorer.Score(def.Description, sctx.Text)
		if score >= r.threshold {
			matched = append(matched, Match{ID: id, Score: score})
		}
	}

	out := append(foundational, matched...)

	logging.Debug("skills selected",
		logging.Query(sctx.Text),
		logging.Count(len(out)),
	)

	return out
}

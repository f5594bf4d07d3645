// Package ranker deduplicates incentive programs advertised at multiple
// jurisdiction levels.
//
// A program linked at both state and city level for a matching location
// appears exactly once, attributed to the city. Within a program, the link
// with the highest specificity wins (city=3, county=2, state=1, other=0);
// ties keep the first row encountered, since two links at the same level for
// the same program are an upstream data defect the engine does not arbitrate.
// The final list sorts by AmountMax descending with nulls last.
package ranker

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"watershed/internal/directory/models"
	"watershed/internal/directory/store"
	"watershed/internal/jurisdiction"
)

// Ranker produces deduplicated incentive lists over a read-only store.
type Ranker struct {
	store  store.Store
	logger *slog.Logger
}

// Option configures a Ranker.
type Option func(*Ranker)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Ranker) { r.logger = logger }
}

// New constructs a Ranker.
func New(s store.Store, opts ...Option) *Ranker {
	r := &Ranker{store: s, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Incentives fetches program links for the location's jurisdiction ID set and
// ranks them. Store failures degrade to an empty list; they never propagate.
func (r *Ranker) Incentives(ctx context.Context, idSet []string, kind models.ResourceKind) ([]models.RankedIncentive, error) {
	links, err := r.store.FetchProgramLinks(ctx, idSet, kind)
	if err != nil {
		r.logger.ErrorContext(ctx, "program link fetch failed, degrading to empty incentive list",
			"jurisdiction_ids", idSet,
			"resource_kind", kind,
			"error", err,
		)
		return nil, nil
	}
	return Rank(links, idSet, kind), nil
}

// Rank collapses link rows to one entry per program and orders the result.
// idSet is the location's exact jurisdiction ID set; rows whose ID is outside
// it are dropped even if the store returned them.
func Rank(links []models.ProgramLink, idSet []string, kind models.ResourceKind) []models.RankedIncentive {
	allowed := make(map[string]bool, len(idSet))
	for _, id := range idSet {
		allowed[id] = true
	}

	type group struct {
		best      models.ProgramLink
		bestScore int
		order     int // first-seen position, keeps output deterministic
	}
	groups := make(map[string]*group)
	var programOrder []string

	for _, link := range links {
		if !allowed[link.JurisdictionID] {
			continue
		}
		if !strings.EqualFold(link.Program.Status, "active") {
			continue
		}
		pk := link.Program.ResourceKind
		if pk != "" && pk != models.ResourceAny && pk != kind {
			continue
		}

		score := jurisdiction.LevelOf(link.JurisdictionID).Specificity()
		g, seen := groups[link.Program.ProgramID]
		if !seen {
			groups[link.Program.ProgramID] = &group{best: link, bestScore: score, order: len(programOrder)}
			programOrder = append(programOrder, link.Program.ProgramID)
			continue
		}
		// Strictly greater: equal-score ties keep the first row.
		if score > g.bestScore {
			g.best = link
			g.bestScore = score
		}
	}

	out := make([]models.RankedIncentive, 0, len(programOrder))
	for _, programID := range programOrder {
		g := groups[programID]
		out = append(out, models.RankedIncentive{
			IncentiveProgram: g.best.Program,
			AppliedLevel:     jurisdiction.LevelOf(g.best.JurisdictionID),
		})
	}

	// AmountMax descending, nulls last. Stable so equal amounts keep
	// first-seen order.
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].AmountMax, out[j].AmountMax
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a > *b
		}
	})
	return out
}

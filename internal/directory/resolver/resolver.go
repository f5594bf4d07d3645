// Package resolver merges a location's state, county, and city regulation
// rows into one effective regulation view.
//
// Override is per-field, not per-record: a city that legislates only the
// permit threshold silently inherits the state's allowed-uses list. A field
// left unspecified at a specific level falls through to the next-broader
// level; it never reads as "this level actively has no rule".
package resolver

import (
	"context"
	"log/slog"

	"watershed/internal/directory/models"
	"watershed/internal/directory/store"
	dErrors "watershed/pkg/domain-errors"
)

// Resolver computes effective regulations over a read-only store.
type Resolver struct {
	store  store.Store
	kinds  map[models.ResourceKind]bool
	logger *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

// WithResourceKinds overrides the configured set of supported kinds.
func WithResourceKinds(kinds ...models.ResourceKind) Option {
	return func(r *Resolver) {
		r.kinds = make(map[models.ResourceKind]bool, len(kinds))
		for _, k := range kinds {
			r.kinds[k] = true
		}
	}
}

// New constructs a Resolver supporting greywater and rainwater by default.
func New(s store.Store, opts ...Option) *Resolver {
	r := &Resolver{
		store: s,
		kinds: map[models.ResourceKind]bool{
			models.ResourceGreywater: true,
			models.ResourceRainwater: true,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Supports reports whether kind is one of the configured resource kinds.
func (r *Resolver) Supports(kind models.ResourceKind) bool {
	return r.kinds[kind]
}

// Resolve fetches the regulation rows for the given jurisdiction ID chain
// (ordered most specific first) and merges them. Store failures degrade to
// the no-data sentinel; only an unsupported resource kind is an error.
func (r *Resolver) Resolve(ctx context.Context, chain []string, kind models.ResourceKind) (models.EffectiveRegulation, error) {
	if !r.kinds[kind] {
		return models.EffectiveRegulation{}, dErrors.Newf(dErrors.CodeResourceKindUnsupported, "resource kind %q is not configured", kind)
	}

	rows, err := r.store.FetchRegulations(ctx, chain, kind)
	if err != nil {
		r.logger.ErrorContext(ctx, "regulation fetch failed, degrading to no-data sentinel",
			"jurisdiction_ids", chain,
			"resource_kind", kind,
			"error", err,
		)
		return noData(kind), nil
	}

	return Merge(chain, kind, rows), nil
}

// Merge applies field-level override across rows. chain orders jurisdiction
// IDs from most to least specific; rows not in the chain are ignored.
func Merge(chain []string, kind models.ResourceKind, rows []models.RegulationRecord) models.EffectiveRegulation {
	byID := make(map[string]models.RegulationRecord, len(rows))
	for _, row := range rows {
		if row.ResourceKind != kind {
			continue
		}
		// Two rows for the same (jurisdiction, kind) is an upstream data
		// defect; first row wins, matching the ranker's tie-break.
		if _, seen := byID[row.JurisdictionID]; !seen {
			byID[row.JurisdictionID] = row
		}
	}

	eff := noData(kind)
	for _, id := range chain {
		row, ok := byID[id]
		if !ok {
			continue
		}
		applyFallthrough(&eff, row)
	}
	return eff
}

// applyFallthrough fills any still-unset field of eff from row. The chain is
// walked most specific first, so the first declared value for a field wins.
func applyFallthrough(eff *models.EffectiveRegulation, row models.RegulationRecord) {
	set := false

	if eff.LegalStatus == models.StatusVaries && row.LegalStatus != "" && row.LegalStatus != models.StatusVaries {
		eff.LegalStatus = row.LegalStatus
		set = true
	}
	if eff.PermitRequired == nil && row.PermitRequired != nil {
		eff.PermitRequired = row.PermitRequired
		set = true
	}
	if eff.PermitThresholdGPD == nil && row.PermitThresholdGPD != nil {
		eff.PermitThresholdGPD = row.PermitThresholdGPD
		set = true
	}
	if eff.IndoorUseAllowed == nil && row.IndoorUseAllowed != nil {
		eff.IndoorUseAllowed = row.IndoorUseAllowed
		set = true
	}
	if eff.OutdoorUseAllowed == nil && row.OutdoorUseAllowed != nil {
		eff.OutdoorUseAllowed = row.OutdoorUseAllowed
		set = true
	}
	if len(eff.ApprovedUses) == 0 && len(row.ApprovedUses) > 0 {
		eff.ApprovedUses = row.ApprovedUses
		set = true
	}
	if len(eff.KeyRestrictions) == 0 && len(row.KeyRestrictions) > 0 {
		eff.KeyRestrictions = row.KeyRestrictions
		set = true
	}
	if eff.GoverningCode == nil && row.GoverningCode != nil {
		eff.GoverningCode = row.GoverningCode
		set = true
	}
	if eff.GoverningCodeURL == nil && row.GoverningCodeURL != nil {
		eff.GoverningCodeURL = row.GoverningCodeURL
		set = true
	}
	if eff.Summary == nil && row.Summary != nil {
		eff.Summary = row.Summary
		set = true
	}
	if eff.LastVerified == nil && row.LastVerified != nil {
		eff.LastVerified = row.LastVerified
	}

	if set {
		eff.NoData = false
		// The record is attributed to the most specific contributing level.
		if eff.JurisdictionID == "" {
			eff.JurisdictionID = row.JurisdictionID
		}
	}
}

func noData(kind models.ResourceKind) models.EffectiveRegulation {
	return models.EffectiveRegulation{
		RegulationRecord: models.RegulationRecord{
			ResourceKind: kind,
			LegalStatus:  models.StatusVaries,
		},
		NoData: true,
	}
}

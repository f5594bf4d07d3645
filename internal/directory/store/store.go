// Package store provides read-only access to the durable regulation and
// incentive data. The engine never writes through this interface; rows are
// curated by an out-of-band maintenance process.
package store

import (
	"context"

	"watershed/internal/directory/models"
)

// Store is the regulation store consumed by the resolver and ranker. Both
// methods are pure reads filtered to the exact jurisdiction IDs given;
// the ranker re-verifies membership on the rows it receives.
type Store interface {
	// FetchRegulations returns regulation rows for any of the jurisdiction
	// IDs and the given resource kind.
	FetchRegulations(ctx context.Context, jurisdictionIDs []string, kind models.ResourceKind) ([]models.RegulationRecord, error)

	// FetchProgramLinks returns program/jurisdiction link rows for any of
	// the jurisdiction IDs, filtered to programs matching the resource kind
	// or declaring no kind at all.
	FetchProgramLinks(ctx context.Context, jurisdictionIDs []string, kind models.ResourceKind) ([]models.ProgramLink, error)

	// LookupCounty returns the county a city belongs to, from the curated
	// city/county mapping. ok is false when the city is not mapped.
	LookupCounty(ctx context.Context, stateCode, cityName string) (county string, ok bool, err error)
}

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"watershed/internal/directory/models"
)

func TestMemoryStoreFetchRegulations(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.SeedRegulation(models.RegulationRecord{
		JurisdictionID: "CA_STATE",
		ResourceKind:   models.ResourceGreywater,
		LegalStatus:    models.StatusRegulated,
	})
	s.SeedRegulation(models.RegulationRecord{
		JurisdictionID: "CA_STATE",
		ResourceKind:   models.ResourceRainwater,
		LegalStatus:    models.StatusLegal,
	})
	s.SeedRegulation(models.RegulationRecord{
		JurisdictionID: "TX_STATE",
		ResourceKind:   models.ResourceGreywater,
		LegalStatus:    models.StatusLegal,
	})

	rows, err := s.FetchRegulations(ctx, []string{"CA_STATE", "CA_CITY_SANTA_MONICA"}, models.ResourceGreywater)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "CA_STATE", rows[0].JurisdictionID)
	assert.Equal(t, models.StatusRegulated, rows[0].LegalStatus)
}

func TestMemoryStoreFetchProgramLinks(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.SeedProgram(models.IncentiveProgram{
		ProgramID:    "p1",
		Name:         "Greywater Rebate",
		ResourceKind: models.ResourceGreywater,
		Status:       "active",
	}, "CA_STATE", "CA_CITY_SANTA_MONICA")

	s.SeedProgram(models.IncentiveProgram{
		ProgramID:    "p2",
		Name:         "Rain Barrel Rebate",
		ResourceKind: models.ResourceRainwater,
		Status:       "active",
	}, "CA_STATE")

	s.SeedProgram(models.IncentiveProgram{
		ProgramID:    "p3",
		Name:         "Conservation Credit",
		ResourceKind: models.ResourceAny,
		Status:       "active",
	}, "CA_COUNTY_LOS_ANGELES")

	t.Run("kind filter admits exact and any", func(t *testing.T) {
		links, err := s.FetchProgramLinks(ctx,
			[]string{"CA_CITY_SANTA_MONICA", "CA_COUNTY_LOS_ANGELES", "CA_STATE"},
			models.ResourceGreywater)
		require.NoError(t, err)

		var ids []string
		for _, l := range links {
			ids = append(ids, l.Program.ProgramID)
		}
		assert.ElementsMatch(t, []string{"p1", "p1", "p3"}, ids)
	})

	t.Run("linkage is exact-ID", func(t *testing.T) {
		links, err := s.FetchProgramLinks(ctx, []string{"CA_CITY_LOS_ANGELES"}, models.ResourceGreywater)
		require.NoError(t, err)
		assert.Empty(t, links)
	})
}

func TestMemoryStoreLookupCounty(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	s.SeedCountyMapping("CA", "Santa Monica", "Los Angeles")

	county, ok, err := s.LookupCounty(ctx, "ca", "santa monica")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Los Angeles", county)

	_, ok, err = s.LookupCounty(ctx, "CA", "Fresno")
	require.NoError(t, err)
	assert.False(t, ok)

	// Punctuation-insensitive, same equivalence as the Postgres query.
	s.SeedCountyMapping("MO", "St. Louis", "St. Louis")
	county, ok, err = s.LookupCounty(ctx, "MO", "St Louis")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "St. Louis", county)
}

func TestMemoryStoreCallCounting(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, _ = s.FetchRegulations(ctx, []string{"CA_STATE"}, models.ResourceGreywater)
	_, _ = s.FetchProgramLinks(ctx, []string{"CA_STATE"}, models.ResourceGreywater)
	assert.Equal(t, 2, s.Calls())
}

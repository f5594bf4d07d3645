package jurisdiction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "watershed/pkg/domain-errors"
)

func TestEncodeID(t *testing.T) {
	cases := []struct {
		name   string
		level  Level
		state  string
		county string
		city   string
		want   string
	}{
		{"state", LevelState, "CA", "", "", "CA_STATE"},
		{"state lowercases input", LevelState, "ca", "", "", "CA_STATE"},
		{"county", LevelCounty, "CA", "Los Angeles", "", "CA_COUNTY_LOS_ANGELES"},
		{"city ignores county", LevelCity, "CA", "Los Angeles", "Santa Monica", "CA_CITY_SANTA_MONICA"},
		{"punctuation stripped", LevelCounty, "HI", "O'ahu", "", "HI_COUNTY_OAHU"},
		{"whitespace collapsed", LevelCity, "NM", "", "Truth  or  Consequences", "NM_CITY_TRUTH_OR_CONSEQUENCES"},
		{"numeric names survive", LevelCity, "FL", "", "29 Palms", "FL_CITY_29_PALMS"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := EncodeID(tc.level, tc.state, tc.county, tc.city)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	t.Run("unknown state code rejected", func(t *testing.T) {
		_, err := EncodeID(LevelState, "ZZ", "", "")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("county level requires county name", func(t *testing.T) {
		_, err := EncodeID(LevelCounty, "CA", "", "")
		require.Error(t, err)
	})

	t.Run("city level requires city name", func(t *testing.T) {
		_, err := EncodeID(LevelCity, "CA", "Los Angeles", "")
		require.Error(t, err)
	})
}

func TestDecodeID(t *testing.T) {
	t.Run("state", func(t *testing.T) {
		id, err := DecodeID("CA_STATE")
		require.NoError(t, err)
		assert.Equal(t, ID{Level: LevelState, StateCode: "CA"}, id)
	})

	t.Run("county", func(t *testing.T) {
		id, err := DecodeID("CA_COUNTY_LOS_ANGELES")
		require.NoError(t, err)
		assert.Equal(t, ID{Level: LevelCounty, StateCode: "CA", CountyName: "LOS_ANGELES"}, id)
	})

	t.Run("city", func(t *testing.T) {
		id, err := DecodeID("CA_CITY_SANTA_MONICA")
		require.NoError(t, err)
		assert.Equal(t, ID{Level: LevelCity, StateCode: "CA", CityName: "SANTA_MONICA"}, id)
	})

	malformed := []string{
		"",
		"CA",
		"CA_",
		"CA_STATE_EXTRA",
		"CA_COUNTY_",
		"CA_CITY_",
		"ZZ_STATE",
		"california_state",
		"CA_CITY_santa monica",
		"CA_VILLAGE_SOMEWHERE",
	}
	for _, id := range malformed {
		t.Run("malformed "+id, func(t *testing.T) {
			_, err := DecodeID(id)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeMalformedJurisdictionID), "want malformed_jurisdiction_id for %q", id)
		})
	}
}

// Every ID EncodeID produces must decode back to the same components.
func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []struct {
		level  Level
		state  string
		county string
		city   string
	}{
		{LevelState, "CA", "", ""},
		{LevelState, "TX", "", ""},
		{LevelCounty, "CA", "Los Angeles", ""},
		{LevelCounty, "AZ", "Maricopa", ""},
		{LevelCity, "CA", "", "Santa Monica"},
		{LevelCity, "NM", "", "Truth or Consequences"},
		{LevelCity, "HI", "", "Kapa'a"},
	}

	for _, tc := range cases {
		encoded, err := EncodeID(tc.level, tc.state, tc.county, tc.city)
		require.NoError(t, err)

		decoded, err := DecodeID(encoded)
		require.NoError(t, err)

		assert.Equal(t, tc.level, decoded.Level)
		assert.Equal(t, tc.state, decoded.StateCode)
		assert.Equal(t, NormalizeName(tc.county), decoded.CountyName)
		assert.Equal(t, NormalizeName(tc.city), decoded.CityName)

		reencoded, err := EncodeID(decoded.Level, decoded.StateCode, decoded.CountyName, decoded.CityName)
		require.NoError(t, err)
		assert.Equal(t, encoded, reencoded)
	}
}

func TestDeriveParents(t *testing.T) {
	t.Run("state has no parents", func(t *testing.T) {
		parents, err := DeriveParents("CA_STATE")
		require.NoError(t, err)
		assert.Empty(t, parents)
	})

	t.Run("county derives state", func(t *testing.T) {
		parents, err := DeriveParents("CA_COUNTY_LOS_ANGELES")
		require.NoError(t, err)
		assert.Equal(t, []string{"CA_STATE"}, parents)
	})

	t.Run("city derives state", func(t *testing.T) {
		parents, err := DeriveParents("CA_CITY_SANTA_MONICA")
		require.NoError(t, err)
		assert.Equal(t, []string{"CA_STATE"}, parents)
	})

	t.Run("malformed input propagates", func(t *testing.T) {
		_, err := DeriveParents("bogus")
		require.Error(t, err)
	})
}

func TestIDSet(t *testing.T) {
	t.Run("full chain ordered most specific first", func(t *testing.T) {
		ids, err := IDSet("ca", "Los Angeles", "Santa Monica")
		require.NoError(t, err)
		assert.Equal(t, []string{"CA_CITY_SANTA_MONICA", "CA_COUNTY_LOS_ANGELES", "CA_STATE"}, ids)
	})

	t.Run("state only", func(t *testing.T) {
		ids, err := IDSet("TX", "", "")
		require.NoError(t, err)
		assert.Equal(t, []string{"TX_STATE"}, ids)
	})

	t.Run("county without city", func(t *testing.T) {
		ids, err := IDSet("AZ", "Maricopa", "")
		require.NoError(t, err)
		assert.Equal(t, []string{"AZ_COUNTY_MARICOPA", "AZ_STATE"}, ids)
	})
}

func TestLevelOf(t *testing.T) {
	assert.Equal(t, LevelCity, LevelOf("CA_CITY_SANTA_MONICA"))
	assert.Equal(t, LevelCounty, LevelOf("CA_COUNTY_LOS_ANGELES"))
	assert.Equal(t, LevelState, LevelOf("CA_STATE"))
	assert.Equal(t, Level(""), LevelOf("garbage"))
}

func TestSpecificity(t *testing.T) {
	assert.Greater(t, LevelCity.Specificity(), LevelCounty.Specificity())
	assert.Greater(t, LevelCounty.Specificity(), LevelState.Specificity())
	assert.Greater(t, LevelState.Specificity(), Level("other").Specificity())
}

func TestSlugHelpers(t *testing.T) {
	assert.Equal(t, "Santa Monica", NameFromSlug("santa-monica"))
	assert.Equal(t, "santa-monica", SlugFromName("Santa Monica"))
	assert.Equal(t, "los-angeles", SlugFromName("  Los   Angeles "))

	// First runes outside ASCII capitalize whole, not byte by byte.
	assert.Equal(t, "Águila Norte", NameFromSlug("águila-norte"))
}

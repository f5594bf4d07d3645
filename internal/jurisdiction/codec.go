// Package jurisdiction implements the canonical jurisdiction ID codec.
//
// IDs follow three patterns:
//
//	{STATE}_STATE
//	{STATE}_COUNTY_{NORMALIZED_COUNTY}
//	{STATE}_CITY_{NORMALIZED_CITY}
//
// Names are uppercased, internal whitespace collapses to a single underscore,
// and anything outside [A-Z0-9_] is stripped. The codec is pure: no I/O, no
// failure modes beyond malformed input.
package jurisdiction

import (
	"strings"

	dErrors "watershed/pkg/domain-errors"
)

// Level is a tier in the three-level jurisdiction hierarchy.
type Level string

const (
	LevelState  Level = "state"
	LevelCounty Level = "county"
	LevelCity   Level = "city"
)

// Specificity ranks levels for override and dedup decisions:
// city > county > state. Unknown levels rank below everything.
func (l Level) Specificity() int {
	switch l {
	case LevelCity:
		return 3
	case LevelCounty:
		return 2
	case LevelState:
		return 1
	default:
		return 0
	}
}

// Valid reports whether l is one of the three defined levels.
func (l Level) Valid() bool {
	return l == LevelState || l == LevelCounty || l == LevelCity
}

// ID is a decoded canonical jurisdiction identifier.
type ID struct {
	Level      Level
	StateCode  string
	CountyName string // normalized, set for county level
	CityName   string // normalized, set for city level
}

const (
	stateSuffix  = "_STATE"
	countyMarker = "_COUNTY_"
	cityMarker   = "_CITY_"
)

// NormalizeName converts a human-readable place name to its canonical ID
// segment: "Los Angeles" -> "LOS_ANGELES", "O'Brien" -> "OBRIEN".
func NormalizeName(name string) string {
	upper := strings.ToUpper(strings.TrimSpace(name))
	var b strings.Builder
	b.Grow(len(upper))
	pendingSep := false
	for _, r := range upper {
		switch {
		case r == ' ' || r == '\t':
			if b.Len() > 0 {
				pendingSep = true
			}
		case (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_':
			if pendingSep {
				b.WriteByte('_')
				pendingSep = false
			}
			b.WriteRune(r)
		default:
			// punctuation and anything non-ASCII is dropped
		}
	}
	return b.String()
}

func normalizeState(stateCode string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(stateCode))
	if !IsStateCode(code) {
		return "", dErrors.Newf(dErrors.CodeBadRequest, "unknown state code %q", stateCode)
	}
	return code, nil
}

// EncodeID builds the canonical ID for a jurisdiction. County and city names
// are required for their respective levels; a city ID does not embed the
// county, matching the original data model.
func EncodeID(level Level, stateCode, countyName, cityName string) (string, error) {
	state, err := normalizeState(stateCode)
	if err != nil {
		return "", err
	}

	switch level {
	case LevelState:
		return state + stateSuffix, nil
	case LevelCounty:
		county := NormalizeName(countyName)
		if county == "" {
			return "", dErrors.New(dErrors.CodeBadRequest, "county name is required for county level")
		}
		return state + countyMarker + county, nil
	case LevelCity:
		city := NormalizeName(cityName)
		if city == "" {
			return "", dErrors.New(dErrors.CodeBadRequest, "city name is required for city level")
		}
		return state + cityMarker + city, nil
	default:
		return "", dErrors.Newf(dErrors.CodeBadRequest, "unknown jurisdiction level %q", level)
	}
}

// DecodeID parses a canonical ID back into its components. It is the exact
// inverse of EncodeID for any ID EncodeID produced. Anything not matching one
// of the three patterns fails with CodeMalformedJurisdictionID.
func DecodeID(id string) (ID, error) {
	malformed := func() (ID, error) {
		return ID{}, dErrors.Newf(dErrors.CodeMalformedJurisdictionID, "jurisdiction id %q does not match any encoding pattern", id)
	}

	if len(id) < 2 {
		return malformed()
	}
	state := id[:2]
	if !IsStateCode(state) {
		return malformed()
	}
	rest := id[2:]

	switch {
	case rest == stateSuffix:
		return ID{Level: LevelState, StateCode: state}, nil
	case strings.HasPrefix(rest, countyMarker):
		county := strings.TrimPrefix(rest, countyMarker)
		if county == "" || NormalizeName(county) != county {
			return malformed()
		}
		return ID{Level: LevelCounty, StateCode: state, CountyName: county}, nil
	case strings.HasPrefix(rest, cityMarker):
		city := strings.TrimPrefix(rest, cityMarker)
		if city == "" || NormalizeName(city) != city {
			return malformed()
		}
		return ID{Level: LevelCity, StateCode: state, CityName: city}, nil
	default:
		return malformed()
	}
}

// DeriveParents returns the broader jurisdiction IDs implied by id: the state
// ID for county and city IDs, nothing for a state ID. A bare city ID does not
// carry its county, so the county parent is only known when the caller also
// knows the county name (see IDSet).
func DeriveParents(id string) ([]string, error) {
	decoded, err := DecodeID(id)
	if err != nil {
		return nil, err
	}
	if decoded.Level == LevelState {
		return nil, nil
	}
	return []string{decoded.StateCode + stateSuffix}, nil
}

// IDSet builds the 1-3 jurisdiction IDs a location implies, ordered from most
// to least specific. County and city are optional; state is always present.
func IDSet(stateCode, countyName, cityName string) ([]string, error) {
	state, err := normalizeState(stateCode)
	if err != nil {
		return nil, err
	}

	var ids []string
	if city := NormalizeName(cityName); city != "" {
		ids = append(ids, state+cityMarker+city)
	}
	if county := NormalizeName(countyName); county != "" {
		ids = append(ids, state+countyMarker+county)
	}
	ids = append(ids, state+stateSuffix)
	return ids, nil
}

// LevelOf classifies an ID string without fully decoding it. Used by the
// ranker to score linkage rows that may carry IDs from outside the query set.
func LevelOf(id string) Level {
	switch {
	case strings.Contains(id, cityMarker):
		return LevelCity
	case strings.Contains(id, countyMarker):
		return LevelCounty
	case strings.HasSuffix(id, stateSuffix):
		return LevelState
	default:
		return ""
	}
}

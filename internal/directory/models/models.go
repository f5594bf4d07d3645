// Package models defines the directory engine's data model: regulation
// records, incentive programs, jurisdiction links, and the resolved view
// returned to callers.
package models

import (
	"time"

	"watershed/internal/jurisdiction"
)

// ResourceKind is the regulated activity a record or program pertains to.
type ResourceKind string

const (
	ResourceGreywater ResourceKind = "greywater"
	ResourceRainwater ResourceKind = "rainwater"

	// ResourceAny marks programs that apply regardless of resource kind.
	ResourceAny ResourceKind = "any"
)

// LegalStatus is the normalized legality of an activity in a jurisdiction.
type LegalStatus string

const (
	StatusLegal      LegalStatus = "Legal"
	StatusRegulated  LegalStatus = "Regulated"
	StatusRestricted LegalStatus = "Restricted"
	StatusProhibited LegalStatus = "Prohibited"

	// StatusVaries is the sentinel for "no level declares a rule". It is a
	// valid, user-facing answer, not an error.
	StatusVaries LegalStatus = "Varies"

	StatusUnknown LegalStatus = "Unknown"
)

// RegulationRecord is one jurisdiction's declared rule set for one resource
// kind. Nil pointers and empty slices mean "not declared at this level" and
// fall through to the next-broader level during resolution; they never mean
// "this level actively has no rule".
type RegulationRecord struct {
	JurisdictionID string       `json:"jurisdictionId"`
	ResourceKind   ResourceKind `json:"resourceKind"`

	LegalStatus        LegalStatus `json:"legalStatus,omitempty"`
	PermitRequired     *string     `json:"permitRequired,omitempty"`
	PermitThresholdGPD *int        `json:"permitThresholdGpd,omitempty"`
	IndoorUseAllowed   *bool       `json:"indoorUseAllowed,omitempty"`
	OutdoorUseAllowed  *bool       `json:"outdoorUseAllowed,omitempty"`
	ApprovedUses       []string    `json:"approvedUses,omitempty"`
	KeyRestrictions    []string    `json:"keyRestrictions,omitempty"`
	GoverningCode      *string     `json:"governingCode,omitempty"`
	GoverningCodeURL   *string     `json:"governingCodeUrl,omitempty"`
	Summary            *string     `json:"summary,omitempty"`

	LastVerified *time.Time `json:"lastVerified,omitempty"`
}

// EffectiveRegulation is the per-field merge of a location's state, county,
// and city regulation records. Each field carries the value from the most
// specific level that declared one.
type EffectiveRegulation struct {
	RegulationRecord

	// NoData is set when no level declared anything for the resource kind;
	// LegalStatus is then StatusVaries.
	NoData bool `json:"noData,omitempty"`
}

// IncentiveProgram is a rebate or incentive definable once and advertised
// across several jurisdictions. Descriptive fields are opaque to the ranker.
type IncentiveProgram struct {
	ProgramID    string       `json:"programId"`
	Name         string       `json:"name"`
	ProgramType  string       `json:"programType,omitempty"`
	ResourceKind ResourceKind `json:"resourceKind,omitempty"`
	Status       string       `json:"status"`

	AmountMin *float64 `json:"amountMin,omitempty"`
	AmountMax *float64 `json:"amountMax,omitempty"`

	ApplicationURL      string `json:"applicationUrl,omitempty"`
	Description         string `json:"description,omitempty"`
	WaterUtility        string `json:"waterUtility,omitempty"`
	ResidentialEligible *bool  `json:"residentialEligible,omitempty"`
	CommercialEligible  *bool  `json:"commercialEligible,omitempty"`
}

// ProgramLink is one row of the many-to-many edge between programs and
// jurisdictions, joined to its program.
type ProgramLink struct {
	Program        IncentiveProgram
	JurisdictionID string
}

// RankedIncentive is a deduplicated program annotated with the jurisdiction
// level at which it actually applied.
type RankedIncentive struct {
	IncentiveProgram
	AppliedLevel jurisdiction.Level `json:"appliedLevel"`
}

// IncentiveSummary aggregates the ranked list for hub views.
type IncentiveSummary struct {
	Total     int     `json:"total"`
	Greywater int     `json:"greywater"`
	Rainwater int     `json:"rainwater"`
	Other     int     `json:"other"`
	MaxRebate float64 `json:"maxRebate"`
}

// Summarize computes counts and the max rebate over a ranked list.
func Summarize(incentives []RankedIncentive) IncentiveSummary {
	s := IncentiveSummary{Total: len(incentives)}
	for _, inc := range incentives {
		switch inc.ResourceKind {
		case ResourceGreywater:
			s.Greywater++
		case ResourceRainwater:
			s.Rainwater++
		default:
			s.Other++
		}
		if inc.AmountMax != nil && *inc.AmountMax > s.MaxRebate {
			s.MaxRebate = *inc.AmountMax
		}
	}
	return s
}

// Location is a fully validated location descriptor.
type Location struct {
	Level      jurisdiction.Level `json:"level"`
	StateCode  string             `json:"stateCode"`
	StateName  string             `json:"stateName,omitempty"`
	CountyName string             `json:"countyName,omitempty"`
	CityName   string             `json:"cityName,omitempty"`
}

// ResolvedLocation is the engine's output: the effective regulation view plus
// the deduplicated, ordered incentive list. Request-scoped; cached but never
// persisted.
type ResolvedLocation struct {
	Location            Location            `json:"location"`
	ResourceKind        ResourceKind        `json:"resourceKind"`
	EffectiveRegulation EffectiveRegulation `json:"effectiveRegulation"`
	Incentives          []RankedIncentive   `json:"incentives"`
	Summary             IncentiveSummary    `json:"summary"`
	ResolvedAt          time.Time           `json:"resolvedAt"`
}

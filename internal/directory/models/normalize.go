package models

import (
	"strings"

	platformstrings "watershed/pkg/platform/strings"
)

// NormalizeLegalStatus coerces free-text legal status values from the
// upstream data into the LegalStatus enum. The curated rows use everything
// from single-letter abbreviations to full sentences, so matching is
// substring-based and deliberately forgiving.
func NormalizeLegalStatus(status string) LegalStatus {
	s := strings.ToLower(strings.TrimSpace(status))
	if s == "" {
		return StatusUnknown
	}

	// Abbreviations used by early imports.
	if s == "l" {
		return StatusLegal
	}
	if s == "r" {
		return StatusRegulated
	}

	if strings.Contains(s, "no formal") || strings.Contains(s, "no specific") || strings.Contains(s, "varies") {
		return StatusVaries
	}
	if strings.Contains(s, "legal") && !strings.Contains(s, "limit") && !strings.Contains(s, "illegal") {
		return StatusLegal
	}
	if strings.Contains(s, "regulated") || strings.Contains(s, "permitted") || strings.Contains(s, "comprehensive") {
		return StatusRegulated
	}
	if strings.Contains(s, "restricted") || strings.Contains(s, "limited") || strings.Contains(s, "unclear") {
		return StatusRestricted
	}
	if strings.Contains(s, "prohibited") || strings.Contains(s, "illegal") || strings.Contains(s, "not allowed") {
		return StatusProhibited
	}

	// Already one of the canonical values, just miscased.
	normalized := LegalStatus(strings.ToUpper(s[:1]) + s[1:])
	switch normalized {
	case StatusLegal, StatusRegulated, StatusRestricted, StatusProhibited, StatusVaries, StatusUnknown:
		return normalized
	}
	return StatusUnknown
}

// NormalizeResourceKind maps upstream resource kind values onto the enum.
// Empty and null kinds mean "any" in the program data.
func NormalizeResourceKind(kind string) ResourceKind {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "greywater", "graywater":
		return ResourceGreywater
	case "rainwater":
		return ResourceRainwater
	case "", "any", "conservation":
		return ResourceAny
	default:
		return ResourceKind(strings.ToLower(strings.TrimSpace(kind)))
	}
}

// ParseStringList coerces list-shaped fields at the store boundary. Rows
// predating the array migration carry comma-joined strings, and upstream
// lists occasionally repeat entries.
func ParseStringList(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case []string:
		return emptyToNil(platformstrings.DedupeAndTrim(v))
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return emptyToNil(platformstrings.DedupeAndTrim(out))
	case string:
		return emptyToNil(platformstrings.DedupeAndTrim(strings.Split(v, ",")))
	default:
		return nil
	}
}

func emptyToNil(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	return in
}

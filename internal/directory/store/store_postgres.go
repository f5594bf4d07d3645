package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"watershed/internal/directory/models"
	"watershed/internal/jurisdiction"
)

//go:embed schema.sql
var Schema string

// PostgresStore is the production Store backed by the curated Postgres read
// model. All filtering is exact-ID (= ANY), never prefix or substring.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a Postgres-backed store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const fetchRegulationsQuery = `
SELECT jurisdiction_id,
       resource_kind,
       legal_status,
       permit_required,
       permit_threshold_gpd,
       indoor_use_allowed,
       outdoor_use_allowed,
       approved_uses,
       key_restrictions,
       governing_code,
       governing_code_url,
       summary,
       last_verified
FROM regulations
WHERE jurisdiction_id = ANY ($1)
  AND resource_kind = $2`

func (s *PostgresStore) FetchRegulations(ctx context.Context, jurisdictionIDs []string, kind models.ResourceKind) ([]models.RegulationRecord, error) {
	rows, err := s.db.QueryContext(ctx, fetchRegulationsQuery, pq.Array(jurisdictionIDs), string(kind))
	if err != nil {
		return nil, fmt.Errorf("fetch regulations: %w", err)
	}
	defer rows.Close()

	var out []models.RegulationRecord
	for rows.Next() {
		var (
			rec          models.RegulationRecord
			legalStatus  sql.NullString
			permitReq    sql.NullString
			threshold    sql.NullInt64
			indoor       sql.NullBool
			outdoor      sql.NullBool
			approved     pq.StringArray
			restrictions pq.StringArray
			code         sql.NullString
			codeURL      sql.NullString
			summary      sql.NullString
			verified     sql.NullTime
		)
		if err := rows.Scan(
			&rec.JurisdictionID,
			&rec.ResourceKind,
			&legalStatus,
			&permitReq,
			&threshold,
			&indoor,
			&outdoor,
			&approved,
			&restrictions,
			&code,
			&codeURL,
			&summary,
			&verified,
		); err != nil {
			return nil, fmt.Errorf("scan regulation row: %w", err)
		}

		if legalStatus.Valid {
			rec.LegalStatus = models.NormalizeLegalStatus(legalStatus.String)
		}
		rec.PermitRequired = nullString(permitReq)
		if threshold.Valid {
			v := int(threshold.Int64)
			rec.PermitThresholdGPD = &v
		}
		rec.IndoorUseAllowed = nullBool(indoor)
		rec.OutdoorUseAllowed = nullBool(outdoor)
		rec.ApprovedUses = models.ParseStringList([]string(approved))
		rec.KeyRestrictions = models.ParseStringList([]string(restrictions))
		rec.GoverningCode = nullString(code)
		rec.GoverningCodeURL = nullString(codeURL)
		rec.Summary = nullString(summary)
		if verified.Valid {
			t := verified.Time
			rec.LastVerified = &t
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate regulation rows: %w", err)
	}
	return out, nil
}

const fetchProgramLinksQuery = `
SELECT p.program_id,
       p.name,
       p.program_type,
       p.resource_kind,
       p.status,
       p.amount_min,
       p.amount_max,
       p.application_url,
       p.description,
       p.water_utility,
       p.residential_eligible,
       p.commercial_eligible,
       l.jurisdiction_id
FROM programs p
         JOIN program_jurisdiction_links l ON p.program_id = l.program_id
WHERE l.jurisdiction_id = ANY ($1)
  AND (p.resource_kind = $2 OR p.resource_kind IS NULL OR p.resource_kind = 'any')`

func (s *PostgresStore) FetchProgramLinks(ctx context.Context, jurisdictionIDs []string, kind models.ResourceKind) ([]models.ProgramLink, error) {
	rows, err := s.db.QueryContext(ctx, fetchProgramLinksQuery, pq.Array(jurisdictionIDs), string(kind))
	if err != nil {
		return nil, fmt.Errorf("fetch program links: %w", err)
	}
	defer rows.Close()

	var out []models.ProgramLink
	for rows.Next() {
		var (
			link        models.ProgramLink
			programType sql.NullString
			kindCol     sql.NullString
			amountMin   sql.NullFloat64
			amountMax   sql.NullFloat64
			appURL      sql.NullString
			description sql.NullString
			utility     sql.NullString
			residential sql.NullBool
			commercial  sql.NullBool
		)
		if err := rows.Scan(
			&link.Program.ProgramID,
			&link.Program.Name,
			&programType,
			&kindCol,
			&link.Program.Status,
			&amountMin,
			&amountMax,
			&appURL,
			&description,
			&utility,
			&residential,
			&commercial,
			&link.JurisdictionID,
		); err != nil {
			return nil, fmt.Errorf("scan program link row: %w", err)
		}

		link.Program.ProgramType = stringOrEmpty(programType)
		link.Program.ResourceKind = models.NormalizeResourceKind(stringOrEmpty(kindCol))
		if amountMin.Valid {
			v := amountMin.Float64
			link.Program.AmountMin = &v
		}
		if amountMax.Valid {
			v := amountMax.Float64
			link.Program.AmountMax = &v
		}
		link.Program.ApplicationURL = stringOrEmpty(appURL)
		link.Program.Description = stringOrEmpty(description)
		link.Program.WaterUtility = stringOrEmpty(utility)
		link.Program.ResidentialEligible = nullBool(residential)
		link.Program.CommercialEligible = nullBool(commercial)
		out = append(out, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate program link rows: %w", err)
	}
	return out, nil
}

// The SQL expression mirrors jurisdiction.NormalizeName exactly: uppercase,
// strip everything outside [A-Z0-9_ ], trim, collapse space runs to a single
// underscore. Both sides of the comparison must normalize identically or
// punctuated city names ("St. Louis", "Coeur d'Alene") never match.
const lookupCountyQuery = `
SELECT county_name
FROM city_county_mapping
WHERE state_code = $1
  AND REGEXP_REPLACE(BTRIM(REGEXP_REPLACE(UPPER(city_name), '[^A-Z0-9_ ]', '', 'g')), ' +', '_', 'g') = $2
LIMIT 1`

func (s *PostgresStore) LookupCounty(ctx context.Context, stateCode, cityName string) (string, bool, error) {
	var county string
	err := s.db.QueryRowContext(ctx, lookupCountyQuery,
		strings.ToUpper(stateCode),
		jurisdiction.NormalizeName(cityName),
	).Scan(&county)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup county: %w", err)
	}
	return county, true, nil
}

func nullString(v sql.NullString) *string {
	if !v.Valid || v.String == "" {
		return nil
	}
	s := v.String
	return &s
}

func stringOrEmpty(v sql.NullString) string {
	if v.Valid {
		return v.String
	}
	return ""
}

func nullBool(v sql.NullBool) *bool {
	if !v.Valid {
		return nil
	}
	b := v.Bool
	return &b
}

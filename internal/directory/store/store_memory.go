package store

import (
	"context"
	"strings"
	"sync"

	"watershed/internal/directory/models"
	"watershed/internal/jurisdiction"
)

// MemoryStore is a seedable in-memory Store for unit tests and local
// development. It applies the same exact-ID filtering the Postgres store
// pushes into SQL.
type MemoryStore struct {
	mu          sync.RWMutex
	regulations []models.RegulationRecord
	links       []models.ProgramLink
	counties    map[string]string // "CA/SANTA_MONICA" -> "Los Angeles"

	// Calls counts FetchRegulations and FetchProgramLinks invocations, for
	// cache behavior assertions.
	calls int
}

// NewMemoryStore creates an empty memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counties: make(map[string]string)}
}

// SeedRegulation adds a regulation row.
func (s *MemoryStore) SeedRegulation(rec models.RegulationRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regulations = append(s.regulations, rec)
}

// SeedProgram links a program to one or more jurisdictions.
func (s *MemoryStore) SeedProgram(program models.IncentiveProgram, jurisdictionIDs ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range jurisdictionIDs {
		s.links = append(s.links, models.ProgramLink{Program: program, JurisdictionID: id})
	}
}

// SeedCountyMapping records which county a city belongs to.
func (s *MemoryStore) SeedCountyMapping(stateCode, cityName, countyName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counties[countyKey(stateCode, cityName)] = countyName
}

// Calls returns how many fetches have been issued against the store.
func (s *MemoryStore) Calls() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calls
}

func (s *MemoryStore) FetchRegulations(_ context.Context, jurisdictionIDs []string, kind models.ResourceKind) ([]models.RegulationRecord, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	s.mu.RLock()
	defer s.mu.RUnlock()

	idSet := toSet(jurisdictionIDs)
	var out []models.RegulationRecord
	for _, rec := range s.regulations {
		if rec.ResourceKind == kind && idSet[rec.JurisdictionID] {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *MemoryStore) FetchProgramLinks(_ context.Context, jurisdictionIDs []string, kind models.ResourceKind) ([]models.ProgramLink, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	s.mu.RLock()
	defer s.mu.RUnlock()

	idSet := toSet(jurisdictionIDs)
	var out []models.ProgramLink
	for _, link := range s.links {
		if !idSet[link.JurisdictionID] {
			continue
		}
		pk := link.Program.ResourceKind
		if pk != "" && pk != models.ResourceAny && pk != kind {
			continue
		}
		out = append(out, link)
	}
	return out, nil
}

func (s *MemoryStore) LookupCounty(_ context.Context, stateCode, cityName string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	county, ok := s.counties[countyKey(stateCode, cityName)]
	return county, ok, nil
}

func countyKey(stateCode, cityName string) string {
	return strings.ToUpper(stateCode) + "/" + jurisdiction.NormalizeName(cityName)
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"watershed/internal/directory/models"
	"watershed/internal/directory/ranker"
	"watershed/internal/directory/resolver"
	"watershed/internal/directory/service"
	"watershed/internal/directory/store"
)

// HandlerSuite provides shared setup for location handler tests. Uses a real
// in-memory store and the real service, not mocks: handler tests validate the
// HTTP concerns (path parsing, status mapping, envelope shape).
type HandlerSuite struct {
	suite.Suite
	router http.Handler
	store  *store.MemoryStore
}

func (s *HandlerSuite) SetupTest() {
	s.store = store.NewMemoryStore()
	s.store.SeedRegulation(models.RegulationRecord{
		JurisdictionID: "CA_STATE",
		ResourceKind:   models.ResourceGreywater,
		LegalStatus:    models.StatusRegulated,
	})
	s.store.SeedProgram(models.IncentiveProgram{
		ProgramID:    "ltl",
		Name:         "Laundry to Landscape Rebate",
		ResourceKind: models.ResourceGreywater,
		Status:       "active",
	}, "CA_CITY_SANTA_MONICA")
	s.store.SeedCountyMapping("CA", "Santa Monica", "Los Angeles")

	svc := service.New(resolver.New(s.store), ranker.New(s.store), s.store)
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	r := chi.NewRouter()
	New(svc, logger).Register(r)
	s.router = r
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) get(path string) (*httptest.ResponseRecorder, models.ResolvedLocation) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var body models.ResolvedLocation
	if rec.Code == http.StatusOK {
		require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func (s *HandlerSuite) TestCity_ResolvesSlugs() {
	rec, body := s.get("/locations/ca/los-angeles/santa-monica")

	require.Equal(s.T(), http.StatusOK, rec.Code)
	assert.Equal(s.T(), "CA", body.Location.StateCode)
	assert.Equal(s.T(), "Santa Monica", body.Location.CityName)
	assert.Equal(s.T(), models.StatusRegulated, body.EffectiveRegulation.LegalStatus)
	require.Len(s.T(), body.Incentives, 1)
	assert.Equal(s.T(), "ltl", body.Incentives[0].ProgramID)
}

func (s *HandlerSuite) TestState_DefaultsToGreywater() {
	rec, body := s.get("/locations/CA")

	require.Equal(s.T(), http.StatusOK, rec.Code)
	assert.Equal(s.T(), models.ResourceGreywater, body.ResourceKind)
	assert.Equal(s.T(), "California", body.Location.StateName)
}

func (s *HandlerSuite) TestCounty_NoData() {
	rec, body := s.get("/locations/ca/alameda?kind=rainwater")

	require.Equal(s.T(), http.StatusOK, rec.Code)
	assert.True(s.T(), body.EffectiveRegulation.NoData)
	assert.Equal(s.T(), models.StatusVaries, body.EffectiveRegulation.LegalStatus)
}

func (s *HandlerSuite) TestState_UnknownStateCode() {
	rec, _ := s.get("/locations/zz")

	assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
	assert.Contains(s.T(), rec.Body.String(), "bad_request")
}

func (s *HandlerSuite) TestCity_UnsupportedKind() {
	rec, _ := s.get("/locations/ca/los-angeles/santa-monica?kind=blackwater")

	assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
	assert.Contains(s.T(), rec.Body.String(), "resource_kind_unsupported")
}

func (s *HandlerSuite) TestCity_GraywaterSpellingAccepted() {
	rec, body := s.get("/locations/ca/los-angeles/santa-monica?kind=graywater")

	require.Equal(s.T(), http.StatusOK, rec.Code)
	assert.Equal(s.T(), models.ResourceGreywater, body.ResourceKind)
}

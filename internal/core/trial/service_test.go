package trial

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seedtrial/seedtrial/internal/core/apperr"
	"github.com/seedtrial/seedtrial/internal/core/incident"
	"github.com/seedtrial/seedtrial/internal/core/query"
	"github.com/seedtrial/seedtrial/internal/core/validation"
	"github.com/seedtrial/seedtrial/internal/storage/postgres"
)

// MockRepository keeps trials in memory. Its filter honours the date range,
// seed and plot only.
type MockRepository struct {
	trials map[string]*Trial
	seeds  map[string]string
	plots  map[string]string
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		trials: make(map[string]*Trial),
		seeds:  map[string]string{"SD_00000001": "Maize", "SD_00000002": "Wheat"},
		plots:  map[string]string{"PL_00000001": "North field"},
	}
}

func (m *MockRepository) join(t *Trial) error {
	crop, ok := m.seeds[t.SeedID]
	if !ok {
		return postgres.ErrForeignKeyViolation
	}
	location, ok := m.plots[t.PlotID]
	if !ok {
		return postgres.ErrForeignKeyViolation
	}
	t.CropName, t.PlotLocation = crop, location
	return nil
}

func (m *MockRepository) Create(ctx context.Context, t *Trial) error {
	if err := m.join(t); err != nil {
		return err
	}
	t.CreatedAt, t.UpdatedAt = testNow, testNow
	cp := *t
	m.trials[t.TrialID] = &cp
	return nil
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*Trial, error) {
	t, ok := m.trials[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (m *MockRepository) match(f Filter) []*Trial {
	var out []*Trial
	for _, t := range m.trials {
		if f.StartDate != nil && t.CollectionDate.Before(f.StartDate.Time) {
			continue
		}
		if f.EndDate != nil && !f.EndDate.Covers(t.CollectionDate) {
			continue
		}
		if f.SeedID != "" && t.SeedID != f.SeedID {
			continue
		}
		if f.PlotID != "" && t.PlotID != f.PlotID {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	return out
}

func (m *MockRepository) List(ctx context.Context, f Filter, page query.Page) ([]*Trial, int, error) {
	all := m.match(f)
	return all, len(all), nil
}

func (m *MockRepository) All(ctx context.Context, f Filter) ([]*Trial, error) {
	return m.match(f), nil
}

func (m *MockRepository) Update(ctx context.Context, id string, apply func(*Trial) error) (bool, error) {
	stored, ok := m.trials[id]
	if !ok {
		return false, nil
	}
	cp := *stored
	if err := apply(&cp); err != nil {
		return true, err
	}
	if err := m.join(&cp); err != nil {
		return true, err
	}
	m.trials[id] = &cp
	return true, nil
}

func (m *MockRepository) Delete(ctx context.Context, id string) (bool, error) {
	_, ok := m.trials[id]
	delete(m.trials, id)
	return ok, nil
}

// fakeIncidents records what the trial service hands to the incident service.
type fakeIncidents struct {
	created []*incident.CreateIncidentRequest
	filters []incident.Filter
}

func (f *fakeIncidents) Create(ctx context.Context, actor uuid.UUID, req *incident.CreateIncidentRequest) (*incident.Incident, error) {
	f.created = append(f.created, req)
	return &incident.Incident{IncidentID: "IN_00000001", TrialID: req.TrialID, ReportedBy: &actor}, nil
}

func (f *fakeIncidents) All(ctx context.Context, filter incident.Filter) ([]*incident.Incident, error) {
	f.filters = append(f.filters, filter)
	return []*incident.Incident{}, nil
}

var testNow = time.Date(2024, 2, 10, 9, 30, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *MockRepository, *fakeIncidents) {
	t.Helper()
	repo := NewMockRepository()
	incidents := &fakeIncidents{}
	svc := NewService(repo, incidents)
	svc.now = func() time.Time { return testNow }
	return svc, repo, incidents
}

func validRequest() *CreateTrialRequest {
	return &CreateTrialRequest{
		SeedID:           "SD_00000001",
		PlotID:           "PL_00000001",
		CollectionDate:   testNow.AddDate(0, 0, -3),
		GrowthParameters: json.RawMessage(`{"heights": [10, 14], "health_score": 8.5, "moisture_level": "Moderate"}`),
	}
}

func TestCreate(t *testing.T) {
	svc, _, _ := newTestService(t)
	actor := uuid.New()

	tr, err := svc.Create(context.Background(), actor, validRequest())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(tr.TrialID, "TR_"))
	assert.Equal(t, &actor, tr.Collector)
	assert.Equal(t, &actor, tr.CreatedBy)
	assert.Equal(t, "Maize", tr.CropName)
	assert.Equal(t, 12.0, tr.GrowthSummary.AverageHeight)
	assert.Equal(t, 8.5, tr.GrowthSummary.HealthScore)
	assert.Equal(t, 3, tr.GrowthSummary.DaysSincePlanting)
	assert.Equal(t, "Moderate", tr.GrowthSummary.MoistureLevel)
}

func TestCreate_GrowthParameters(t *testing.T) {
	tests := []struct {
		name   string
		params json.RawMessage
		field  string
	}{
		{"missing", nil, "growth_parameters"},
		{"null", json.RawMessage(`null`), "growth_parameters"},
		{"not an object", json.RawMessage(`[1, 2]`), "growth_parameters"},
		{"no health_score", json.RawMessage(`{"heights": [1], "moisture_level": "Low"}`), "growth_parameters"},
		{"heights not numbers", json.RawMessage(`{"heights": ["tall"], "health_score": 5, "moisture_level": "Low"}`), "growth_parameters.heights.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newTestService(t)
			req := validRequest()
			req.GrowthParameters = tt.params

			_, err := svc.Create(context.Background(), uuid.New(), req)
			require.True(t, validation.IsValidationError(err), "got %v", err)
			assert.Equal(t, tt.field, validation.GetValidationErrors(err).Errors[0].Field)
			assert.Empty(t, repo.trials)
		})
	}
}

func TestCreate_CollectionDate(t *testing.T) {
	svc, repo, _ := newTestService(t)

	req := validRequest()
	req.CollectionDate = testNow.Add(time.Millisecond)
	_, err := svc.Create(context.Background(), uuid.New(), req)
	assert.True(t, validation.IsValidationError(err))
	assert.Empty(t, repo.trials)

	req.CollectionDate = testNow
	_, err = svc.Create(context.Background(), uuid.New(), req)
	assert.NoError(t, err)
}

func TestCreate_UnknownSeed(t *testing.T) {
	svc, _, _ := newTestService(t)

	req := validRequest()
	req.SeedID = "SD_FFFFFFFF"
	_, err := svc.Create(context.Background(), uuid.New(), req)
	assert.ErrorIs(t, err, ErrInvalidReference)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestUpdate(t *testing.T) {
	svc, _, _ := newTestService(t)
	creator, editor := uuid.New(), uuid.New()
	created, err := svc.Create(context.Background(), creator, validRequest())
	require.NoError(t, err)

	notes := "second visit"
	updated, err := svc.Update(context.Background(), editor, created.TrialID, &UpdateTrialRequest{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, "second visit", updated.Notes)
	assert.Equal(t, created.GrowthParameters, updated.GrowthParameters)
	assert.Equal(t, &creator, updated.CreatedBy)
	assert.Equal(t, &creator, updated.Collector)
	assert.Equal(t, &editor, updated.UpdatedBy)

	_, err = svc.Update(context.Background(), editor, created.TrialID,
		&UpdateTrialRequest{GrowthParameters: json.RawMessage(`{"heights": []}`)})
	assert.True(t, validation.IsValidationError(err))

	_, err = svc.Update(context.Background(), editor, "TR_MISSING0", &UpdateTrialRequest{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearch_RequiresCriteria(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Search(context.Background(), Filter{}, query.Page{Limit: 10})
	assert.ErrorIs(t, err, query.ErrMissingCriteria)
	assert.ErrorIs(t, err, apperr.ErrBadRequest)

	resp, err := svc.Search(context.Background(), Filter{PlotID: "PL_00000001"}, query.Page{Limit: 10})
	require.NoError(t, err)
	assert.NotNil(t, resp.Trials)
}

func TestSummary_DateRange(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	collector := uuid.New()

	dates := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 23, 59, 0, 0, time.UTC),
		time.Date(2023, 12, 31, 23, 59, 0, 0, time.UTC),
		time.Date(2024, 2, 5, 12, 0, 0, 0, time.UTC),
	}
	for _, d := range dates {
		req := validRequest()
		req.CollectionDate = d
		_, err := svc.Create(ctx, collector, req)
		require.NoError(t, err)
	}
	require.Len(t, repo.trials, 5)

	f, err := ParseFilter(map[string][]string{"start_date": {"2024-01-01"}, "end_date": {"2024-01-31"}})
	require.NoError(t, err)

	summary, err := svc.Summary(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalTrials)
	require.NotNil(t, summary.DateRange)
	assert.Equal(t, "2024-01-01", summary.DateRange.StartDate)
	assert.Equal(t, "2024-01-31", summary.DateRange.EndDate)
	assert.Equal(t, 3, summary.TrialsByCrop[0].Count)
	assert.Equal(t, 0, summary.RecentTrials)

	f.EndDate = nil
	summary, err = svc.Summary(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.TotalTrials)
	assert.Nil(t, summary.DateRange)
	assert.Equal(t, 1, summary.RecentTrials)
}

func TestAddIncident_ScopesToTrial(t *testing.T) {
	svc, _, incidents := newTestService(t)
	created, err := svc.Create(context.Background(), uuid.New(), validRequest())
	require.NoError(t, err)

	reporter := uuid.New()
	in, err := svc.AddIncident(context.Background(), reporter, created.TrialID,
		&incident.CreateIncidentRequest{TrialID: "TR_OTHER000", IncidentType: "PEST"})
	require.NoError(t, err)
	assert.Equal(t, created.TrialID, in.TrialID)
	assert.Equal(t, &reporter, in.ReportedBy)
	require.Len(t, incidents.created, 1)
	assert.Equal(t, created.TrialID, incidents.created[0].TrialID)

	_, err = svc.AddIncident(context.Background(), reporter, "TR_MISSING0", &incident.CreateIncidentRequest{})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, incidents.created, 1)
}

func TestIncidents(t *testing.T) {
	svc, _, incidents := newTestService(t)
	created, err := svc.Create(context.Background(), uuid.New(), validRequest())
	require.NoError(t, err)

	list, err := svc.Incidents(context.Background(), created.TrialID)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Equal(t, []incident.Filter{{TrialID: created.TrialID}}, incidents.filters)

	_, err = svc.Incidents(context.Background(), "TR_MISSING0")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHealthScores(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Create(context.Background(), uuid.New(), validRequest())
	require.NoError(t, err)

	scores, err := svc.HealthScores(context.Background(), Filter{SeedID: "SD_00000001"})
	require.NoError(t, err)
	assert.Equal(t, []float64{8.5}, scores)

	scores, err = svc.HealthScores(context.Background(), Filter{SeedID: "SD_00000002"})
	require.NoError(t, err)
	assert.Empty(t, scores)
}

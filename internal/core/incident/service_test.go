package incident

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seedtrial/seedtrial/internal/core/apperr"
	"github.com/seedtrial/seedtrial/internal/core/query"
	"github.com/seedtrial/seedtrial/internal/core/report"
	"github.com/seedtrial/seedtrial/internal/core/validation"
	"github.com/seedtrial/seedtrial/internal/storage/postgres"
)

// MockRepository keeps incidents in memory. Only Type and TrialID are
// honoured by its filters.
type MockRepository struct {
	incidents map[string]*Incident
	trials    map[string]bool
	now       time.Time
}

func NewMockRepository(now time.Time, trials ...string) *MockRepository {
	m := &MockRepository{incidents: make(map[string]*Incident), trials: make(map[string]bool), now: now}
	for _, t := range trials {
		m.trials[t] = true
	}
	return m
}

func (m *MockRepository) Create(ctx context.Context, in *Incident) error {
	if !m.trials[in.TrialID] {
		return postgres.ErrForeignKeyViolation
	}
	in.CreatedAt, in.UpdatedAt = m.now, m.now
	cp := *in
	m.incidents[in.IncidentID] = &cp
	return nil
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*Incident, error) {
	in, ok := m.incidents[id]
	if !ok {
		return nil, nil
	}
	cp := *in
	return &cp, nil
}

func (m *MockRepository) match(f Filter) []*Incident {
	var out []*Incident
	for _, in := range m.incidents {
		if f.Type != "" && in.IncidentType != f.Type {
			continue
		}
		if f.TrialID != "" && in.TrialID != f.TrialID {
			continue
		}
		cp := *in
		out = append(out, &cp)
	}
	return out
}

func (m *MockRepository) List(ctx context.Context, f Filter, page query.Page) ([]*Incident, int, error) {
	all := m.match(f)
	return all, len(all), nil
}

func (m *MockRepository) All(ctx context.Context, f Filter) ([]*Incident, error) {
	return m.match(f), nil
}

func (m *MockRepository) Count(ctx context.Context, f Filter) (int, error) {
	return len(m.match(f)), nil
}

func (m *MockRepository) Facts(ctx context.Context) ([]report.IncidentFact, error) {
	var facts []report.IncidentFact
	for _, in := range m.incidents {
		facts = append(facts, report.IncidentFact{IncidentType: in.IncidentType, Description: in.Description, DateTime: in.DateTime})
	}
	return facts, nil
}

func (m *MockRepository) Update(ctx context.Context, id string, apply func(*Incident) error) (bool, error) {
	stored, ok := m.incidents[id]
	if !ok {
		return false, nil
	}
	cp := *stored
	if err := apply(&cp); err != nil {
		return true, err
	}
	if !m.trials[cp.TrialID] {
		return true, postgres.ErrForeignKeyViolation
	}
	cp.UpdatedAt = m.now
	m.incidents[id] = &cp
	return true, nil
}

func (m *MockRepository) Delete(ctx context.Context, id string) (bool, error) {
	_, ok := m.incidents[id]
	delete(m.incidents, id)
	return ok, nil
}

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *MockRepository) {
	t.Helper()
	repo := NewMockRepository(testNow, "TR_00000001", "TR_00000002")
	svc := NewService(repo)
	svc.now = func() time.Time { return testNow }
	return svc, repo
}

func validRequest() *CreateIncidentRequest {
	return &CreateIncidentRequest{
		TrialID:      "TR_00000001",
		IncidentType: "PEST",
		Description:  "Aphids on the lower leaves",
		DateTime:     testNow.Add(-time.Hour),
	}
}

func TestCreate_StampsActor(t *testing.T) {
	svc, _ := newTestService(t)
	actor := uuid.New()

	in, err := svc.Create(context.Background(), actor, validRequest())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(in.IncidentID, "IN_"))
	assert.Equal(t, &actor, in.ReportedBy)
	assert.Equal(t, &actor, in.CreatedBy)
	assert.Equal(t, &actor, in.UpdatedBy)
	assert.Equal(t, "Low", in.SeverityLevel)
}

func TestCreate_DescriptionLength(t *testing.T) {
	svc, repo := newTestService(t)

	req := validRequest()
	req.Description = "  123456789  "
	_, err := svc.Create(context.Background(), uuid.New(), req)
	require.True(t, validation.IsValidationError(err))
	assert.Equal(t, "description", validation.GetValidationErrors(err).Errors[0].Field)
	assert.Empty(t, repo.incidents)

	req.Description = "  1234567890  "
	_, err = svc.Create(context.Background(), uuid.New(), req)
	assert.NoError(t, err)
}

func TestCreate_DateTime(t *testing.T) {
	svc, repo := newTestService(t)

	req := validRequest()
	req.DateTime = testNow.Add(time.Second)
	_, err := svc.Create(context.Background(), uuid.New(), req)
	assert.True(t, validation.IsValidationError(err))

	req.DateTime = time.Time{}
	_, err = svc.Create(context.Background(), uuid.New(), req)
	assert.True(t, validation.IsValidationError(err))
	assert.Empty(t, repo.incidents)

	req.DateTime = testNow
	_, err = svc.Create(context.Background(), uuid.New(), req)
	assert.NoError(t, err)
}

func TestCreate_UnknownTrial(t *testing.T) {
	svc, _ := newTestService(t)

	req := validRequest()
	req.TrialID = "TR_FFFFFFFF"
	_, err := svc.Create(context.Background(), uuid.New(), req)
	assert.ErrorIs(t, err, ErrUnknownTrial)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestUpdate_KeepsCreator(t *testing.T) {
	svc, _ := newTestService(t)
	creator, editor := uuid.New(), uuid.New()
	created, err := svc.Create(context.Background(), creator, validRequest())
	require.NoError(t, err)

	resolved := true
	desc := "Severe hail damage overnight"
	typ := "WEATHER"
	updated, err := svc.Update(context.Background(), editor, created.IncidentID,
		&UpdateIncidentRequest{Resolved: &resolved, Description: &desc, IncidentType: &typ})
	require.NoError(t, err)

	assert.True(t, updated.Resolved)
	assert.Equal(t, &creator, updated.CreatedBy)
	assert.Equal(t, &creator, updated.ReportedBy)
	assert.Equal(t, &editor, updated.UpdatedBy)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "High", updated.SeverityLevel)
}

func TestUpdate_RevalidatesMergedRecord(t *testing.T) {
	svc, repo := newTestService(t)
	created, err := svc.Create(context.Background(), uuid.New(), validRequest())
	require.NoError(t, err)

	short := "too short"
	_, err = svc.Update(context.Background(), uuid.New(), created.IncidentID, &UpdateIncidentRequest{Description: &short})
	assert.True(t, validation.IsValidationError(err))
	assert.Equal(t, "Aphids on the lower leaves", repo.incidents[created.IncidentID].Description)

	_, err = svc.Update(context.Background(), uuid.New(), "IN_MISSING0", &UpdateIncidentRequest{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	svc, _ := newTestService(t)
	created, err := svc.Create(context.Background(), uuid.New(), validRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.IncidentID))
	assert.ErrorIs(t, svc.Delete(context.Background(), created.IncidentID), ErrNotFound)

	_, err = svc.Get(context.Background(), created.IncidentID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestList_EmptyIsNotNil(t *testing.T) {
	svc, _ := newTestService(t)

	resp, err := svc.List(context.Background(), Filter{}, query.Page{Limit: 50})
	require.NoError(t, err)
	assert.NotNil(t, resp.Incidents)
	assert.Equal(t, 0, resp.Total)
	assert.Equal(t, 50, resp.Limit)
}

func TestSummary_IgnoresFilters(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	weather := validRequest()
	weather.IncidentType = "WEATHER"
	weather.Description = "Severe frost on the east rows"
	_, err := svc.Create(ctx, uuid.New(), weather)
	require.NoError(t, err)

	old := validRequest()
	old.DateTime = testNow.AddDate(0, 0, -20)
	_, err = svc.Create(ctx, uuid.New(), old)
	require.NoError(t, err)

	filtered, err := svc.List(ctx, Filter{Type: "PEST"}, query.Page{Limit: 50})
	require.NoError(t, err)
	assert.Equal(t, 1, filtered.Total)

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, []report.Count{{Field: report.FieldIncidentType, Key: "PEST", Count: 1}, {Field: report.FieldIncidentType, Key: "WEATHER", Count: 1}}, summary.IncidentsByType)
	assert.Equal(t, 1, summary.RecentIncidents)
	assert.Equal(t, 1, summary.HighSeverityIncidents)
}

package trial

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/seedtrial/seedtrial/internal/core/apperr"
	"github.com/seedtrial/seedtrial/internal/core/ident"
	"github.com/seedtrial/seedtrial/internal/core/incident"
	"github.com/seedtrial/seedtrial/internal/core/query"
	"github.com/seedtrial/seedtrial/internal/core/report"
	"github.com/seedtrial/seedtrial/internal/storage/postgres"
)

var (
	ErrNotFound         = apperr.NotFound("trial not found")
	ErrInvalidReference = apperr.Conflict("referenced seed or plot does not exist")
)

type Store interface {
	Create(ctx context.Context, t *Trial) error
	GetByID(ctx context.Context, id string) (*Trial, error)
	List(ctx context.Context, f Filter, page query.Page) ([]*Trial, int, error)
	All(ctx context.Context, f Filter) ([]*Trial, error)
	Update(ctx context.Context, id string, apply func(*Trial) error) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// Incidents is the part of the incident service a trial needs.
type Incidents interface {
	Create(ctx context.Context, actor uuid.UUID, req *incident.CreateIncidentRequest) (*incident.Incident, error)
	All(ctx context.Context, f incident.Filter) ([]*incident.Incident, error)
}

type Service struct {
	repo      Store
	incidents Incidents
	now       func() time.Time
}

func NewService(repo Store, incidents Incidents) *Service {
	return &Service{repo: repo, incidents: incidents, now: time.Now}
}

func (s *Service) Create(ctx context.Context, actor uuid.UUID, req *CreateTrialRequest) (*Trial, error) {
	t := &Trial{
		TrialID:        ident.New(ident.PrefixTrial),
		SeedID:         req.SeedID,
		PlotID:         req.PlotID,
		CollectionDate: req.CollectionDate,
		Picture:        req.Picture,
		Notes:          req.Notes,
	}
	normalize(t)

	params := req.GrowthParameters
	if params == nil {
		params = json.RawMessage("null")
	}
	if err := Validate(t, params, s.now()); err != nil {
		return nil, err
	}

	t.Collector = &actor
	t.CreatedBy = &actor
	t.UpdatedBy = &actor

	if err := s.repo.Create(ctx, t); err != nil {
		if errors.Is(err, postgres.ErrForeignKeyViolation) {
			return nil, ErrInvalidReference
		}
		return nil, err
	}
	return s.Get(ctx, t.TrialID)
}

func (s *Service) Get(ctx context.Context, id string) (*Trial, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrNotFound
	}
	return s.derive(t, s.now()), nil
}

func (s *Service) List(ctx context.Context, f Filter, page query.Page) (*ListTrialsResponse, error) {
	trials, total, err := s.repo.List(ctx, f, page)
	if err != nil {
		return nil, err
	}
	return &ListTrialsResponse{
		Trials: s.deriveAll(trials),
		Total:  total,
		Limit:  page.Limit,
		Offset: page.Offset,
	}, nil
}

// Search is List that refuses to run without a criterion.
func (s *Service) Search(ctx context.Context, f Filter, page query.Page) (*ListTrialsResponse, error) {
	if !f.HasCriteria() {
		return nil, query.ErrMissingCriteria
	}
	return s.List(ctx, f, page)
}

// All returns every trial matching f, for derived views.
func (s *Service) All(ctx context.Context, f Filter) ([]*Trial, error) {
	trials, err := s.repo.All(ctx, f)
	if err != nil {
		return nil, err
	}
	return s.deriveAll(trials), nil
}

// HealthScores returns the health score of every trial matching f.
func (s *Service) HealthScores(ctx context.Context, f Filter) ([]float64, error) {
	trials, err := s.repo.All(ctx, f)
	if err != nil {
		return nil, err
	}
	scores := make([]float64, len(trials))
	for i, t := range trials {
		scores[i] = t.GrowthParameters.HealthScore
	}
	return scores, nil
}

// Summary groups the trials matching f.
func (s *Service) Summary(ctx context.Context, f Filter) (report.TrialSummary, error) {
	trials, err := s.repo.All(ctx, f)
	if err != nil {
		return report.TrialSummary{}, err
	}

	facts := make([]report.TrialFact, len(trials))
	for i, t := range trials {
		facts[i] = report.TrialFact{
			CropName:       t.CropName,
			PlotLocation:   t.PlotLocation,
			CollectorName:  t.CollectorName,
			CollectionDate: t.CollectionDate,
		}
	}
	return report.SummarizeTrials(facts, s.now(), rawDate(f.StartDate), rawDate(f.EndDate)), nil
}

func (s *Service) Incidents(ctx context.Context, id string) ([]*incident.Incident, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.incidents.All(ctx, incident.Filter{TrialID: id})
}

// AddIncident records an incident against trial id. Any trial_id in req is
// replaced.
func (s *Service) AddIncident(ctx context.Context, actor uuid.UUID, id string, req *incident.CreateIncidentRequest) (*incident.Incident, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	scoped := *req
	scoped.TrialID = id
	return s.incidents.Create(ctx, actor, &scoped)
}

func (s *Service) Update(ctx context.Context, actor uuid.UUID, id string, req *UpdateTrialRequest) (*Trial, error) {
	now := s.now()
	found, err := s.repo.Update(ctx, id, func(t *Trial) error {
		if req.SeedID != nil {
			t.SeedID = *req.SeedID
		}
		if req.PlotID != nil {
			t.PlotID = *req.PlotID
		}
		if req.CollectionDate != nil {
			t.CollectionDate = *req.CollectionDate
		}
		if req.Picture != nil {
			t.Picture = *req.Picture
		}
		if req.Notes != nil {
			t.Notes = *req.Notes
		}
		normalize(t)
		if err := Validate(t, req.GrowthParameters, now); err != nil {
			return err
		}
		t.UpdatedBy = &actor
		return nil
	})
	if err != nil {
		if errors.Is(err, postgres.ErrForeignKeyViolation) {
			return nil, ErrInvalidReference
		}
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func (s *Service) derive(t *Trial, now time.Time) *Trial {
	gp := t.GrowthParameters
	t.GrowthSummary = report.SummarizeGrowth(gp.Heights, gp.HealthScore, gp.MoistureLevel, gp.PestPresence, t.CollectionDate, now)
	return t
}

func (s *Service) deriveAll(trials []*Trial) []*Trial {
	if trials == nil {
		return []*Trial{}
	}
	now := s.now()
	for _, t := range trials {
		s.derive(t, now)
	}
	return trials
}

func rawDate(d *query.Date) string {
	if d == nil {
		return ""
	}
	return d.Raw
}

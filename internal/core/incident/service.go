package incident

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/seedtrial/seedtrial/internal/core/apperr"
	"github.com/seedtrial/seedtrial/internal/core/ident"
	"github.com/seedtrial/seedtrial/internal/core/query"
	"github.com/seedtrial/seedtrial/internal/core/report"
	"github.com/seedtrial/seedtrial/internal/storage/postgres"
)

var (
	ErrNotFound     = apperr.NotFound("incident not found")
	ErrUnknownTrial = apperr.Conflict("referenced trial does not exist")
)

// Store is the persistence the service needs; *Repository implements it.
type Store interface {
	Create(ctx context.Context, in *Incident) error
	GetByID(ctx context.Context, id string) (*Incident, error)
	List(ctx context.Context, f Filter, page query.Page) ([]*Incident, int, error)
	All(ctx context.Context, f Filter) ([]*Incident, error)
	Count(ctx context.Context, f Filter) (int, error)
	Facts(ctx context.Context) ([]report.IncidentFact, error)
	Update(ctx context.Context, id string, apply func(*Incident) error) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type Service struct {
	repo Store
	now  func() time.Time
}

func NewService(repo Store) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) Create(ctx context.Context, actor uuid.UUID, req *CreateIncidentRequest) (*Incident, error) {
	in := &Incident{
		IncidentID:   ident.New(ident.PrefixIncident),
		TrialID:      req.TrialID,
		IncidentType: req.IncidentType,
		Description:  req.Description,
		DateTime:     req.DateTime,
		Resolved:     req.Resolved,
	}
	normalize(in)
	if err := Validate(in, s.now()); err != nil {
		return nil, err
	}

	in.ReportedBy = &actor
	in.CreatedBy = &actor
	in.UpdatedBy = &actor

	if err := s.repo.Create(ctx, in); err != nil {
		if errors.Is(err, postgres.ErrForeignKeyViolation) {
			return nil, ErrUnknownTrial
		}
		return nil, err
	}
	return s.Get(ctx, in.IncidentID)
}

func (s *Service) Get(ctx context.Context, id string) (*Incident, error) {
	in, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in == nil {
		return nil, ErrNotFound
	}
	return derive(in), nil
}

func (s *Service) List(ctx context.Context, f Filter, page query.Page) (*ListIncidentsResponse, error) {
	incidents, total, err := s.repo.List(ctx, f, page)
	if err != nil {
		return nil, err
	}

	if incidents == nil {
		incidents = []*Incident{}
	}
	for _, in := range incidents {
		derive(in)
	}

	return &ListIncidentsResponse{
		Incidents: incidents,
		Total:     total,
		Limit:     page.Limit,
		Offset:    page.Offset,
	}, nil
}

// All returns every incident matching f, for derived views.
func (s *Service) All(ctx context.Context, f Filter) ([]*Incident, error) {
	incidents, err := s.repo.All(ctx, f)
	if err != nil {
		return nil, err
	}
	if incidents == nil {
		incidents = []*Incident{}
	}
	for _, in := range incidents {
		derive(in)
	}
	return incidents, nil
}

func (s *Service) Count(ctx context.Context, f Filter) (int, error) {
	return s.repo.Count(ctx, f)
}

// Summary aggregates over all incidents; request filters never narrow it.
func (s *Service) Summary(ctx context.Context) (report.IncidentSummary, error) {
	facts, err := s.repo.Facts(ctx)
	if err != nil {
		return report.IncidentSummary{}, err
	}
	return report.SummarizeIncidents(facts, s.now()), nil
}

func (s *Service) Update(ctx context.Context, actor uuid.UUID, id string, req *UpdateIncidentRequest) (*Incident, error) {
	now := s.now()
	found, err := s.repo.Update(ctx, id, func(in *Incident) error {
		if req.TrialID != nil {
			in.TrialID = *req.TrialID
		}
		if req.IncidentType != nil {
			in.IncidentType = *req.IncidentType
		}
		if req.Description != nil {
			in.Description = *req.Description
		}
		if req.DateTime != nil {
			in.DateTime = *req.DateTime
		}
		if req.Resolved != nil {
			in.Resolved = *req.Resolved
		}
		normalize(in)
		if err := Validate(in, now); err != nil {
			return err
		}
		in.UpdatedBy = &actor
		return nil
	})
	if err != nil {
		if errors.Is(err, postgres.ErrForeignKeyViolation) {
			return nil, ErrUnknownTrial
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

func derive(in *Incident) *Incident {
	in.SeverityLevel = report.Severity(in.IncidentType, in.Description)
	return in
}

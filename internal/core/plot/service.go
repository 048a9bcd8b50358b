package plot

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/seedtrial/seedtrial/internal/core/apperr"
	"github.com/seedtrial/seedtrial/internal/core/ident"
	"github.com/seedtrial/seedtrial/internal/core/incident"
	"github.com/seedtrial/seedtrial/internal/core/query"
	"github.com/seedtrial/seedtrial/internal/core/report"
	"github.com/seedtrial/seedtrial/internal/core/trial"
)

var ErrNotFound = apperr.NotFound("plot not found")

type Store interface {
	Create(ctx context.Context, p *Plot) error
	GetByID(ctx context.Context, id string, activeSince time.Time) (*Plot, error)
	List(ctx context.Context, f Filter, page query.Page, activeSince time.Time) ([]*Plot, int, error)
	Update(ctx context.Context, id string, apply func(*Plot) error) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type Trials interface {
	All(ctx context.Context, f trial.Filter) ([]*trial.Trial, error)
}

type Incidents interface {
	All(ctx context.Context, f incident.Filter) ([]*incident.Incident, error)
}

type Service struct {
	repo      Store
	trials    Trials
	incidents Incidents
	now       func() time.Time
}

func NewService(repo Store, trials Trials, incidents Incidents) *Service {
	return &Service{repo: repo, trials: trials, incidents: incidents, now: time.Now}
}

func (s *Service) Create(ctx context.Context, actor uuid.UUID, req *CreatePlotRequest) (*Plot, error) {
	p := &Plot{
		PlotID:      ident.New(ident.PrefixPlot),
		PlotType:    req.PlotType,
		Owner:       req.Owner,
		SoilType:    req.SoilType,
		Location:    req.Location,
		WeatherZone: req.WeatherZone,
		CreatedBy:   &actor,
		UpdatedBy:   &actor,
	}
	normalize(p)
	if err := Validate(p); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Plot, error) {
	p, err := s.repo.GetByID(ctx, id, report.ActiveSince(s.now()))
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, f Filter, page query.Page) (*ListPlotsResponse, error) {
	plots, total, err := s.repo.List(ctx, f, page, report.ActiveSince(s.now()))
	if err != nil {
		return nil, err
	}
	if plots == nil {
		plots = []*Plot{}
	}
	return &ListPlotsResponse{Plots: plots, Total: total, Limit: page.Limit, Offset: page.Offset}, nil
}

// Search matches term against location or plot type on top of the list filters.
func (s *Service) Search(ctx context.Context, term string, f Filter, page query.Page) (*ListPlotsResponse, error) {
	if term == "" {
		return nil, query.ErrMissingSearchTerm
	}
	f.Search = term
	return s.List(ctx, f, page)
}

func (s *Service) Update(ctx context.Context, actor uuid.UUID, id string, req *UpdatePlotRequest) (*Plot, error) {
	found, err := s.repo.Update(ctx, id, func(p *Plot) error {
		if req.PlotType != nil {
			p.PlotType = *req.PlotType
		}
		if req.Owner != nil {
			p.Owner = *req.Owner
		}
		if req.SoilType != nil {
			p.SoilType = *req.SoilType
		}
		if req.Location != nil {
			p.Location = *req.Location
		}
		if req.WeatherZone != nil {
			p.WeatherZone = *req.WeatherZone
		}
		normalize(p)
		if err := Validate(p); err != nil {
			return err
		}
		p.UpdatedBy = &actor
		return nil
	})
	if err != nil {
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

// ActiveTrials lists the plot's trials collected in the last 30 days.
func (s *Service) ActiveTrials(ctx context.Context, id string) ([]*trial.Trial, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	since := report.ActiveSince(s.now())
	return s.trials.All(ctx, trial.Filter{PlotID: id, Since: &since})
}

func (s *Service) Incidents(ctx context.Context, id string) ([]*incident.Incident, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.incidents.All(ctx, incident.Filter{PlotID: id})
}

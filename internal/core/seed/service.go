package seed

import (
	"context"

	"github.com/google/uuid"

	"github.com/seedtrial/seedtrial/internal/core/apperr"
	"github.com/seedtrial/seedtrial/internal/core/ident"
	"github.com/seedtrial/seedtrial/internal/core/incident"
	"github.com/seedtrial/seedtrial/internal/core/query"
	"github.com/seedtrial/seedtrial/internal/core/report"
	"github.com/seedtrial/seedtrial/internal/core/trial"
)

var ErrNotFound = apperr.NotFound("seed not found")

type Store interface {
	Create(ctx context.Context, s *Seed) error
	GetByID(ctx context.Context, id string) (*Seed, error)
	List(ctx context.Context, f Filter, page query.Page) ([]*Seed, int, error)
	Update(ctx context.Context, id string, apply func(*Seed) error) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// Trials is the part of the trial service a seed needs.
type Trials interface {
	All(ctx context.Context, f trial.Filter) ([]*trial.Trial, error)
	HealthScores(ctx context.Context, f trial.Filter) ([]float64, error)
}

// Incidents counts the incidents of a seed's trials.
type Incidents interface {
	Count(ctx context.Context, f incident.Filter) (int, error)
}

type Service struct {
	repo      Store
	trials    Trials
	incidents Incidents
}

func NewService(repo Store, trials Trials, incidents Incidents) *Service {
	return &Service{repo: repo, trials: trials, incidents: incidents}
}

func (s *Service) Create(ctx context.Context, actor uuid.UUID, req *CreateSeedRequest) (*Seed, error) {
	seed := &Seed{
		SeedID:                     ident.New(ident.PrefixSeed),
		CropName:                   req.CropName,
		GerminationCharacteristics: req.GerminationCharacteristics,
		IdealTemperature:           req.IdealTemperature,
		IdealSoilType:              req.IdealSoilType,
		SunlightNeeded:             req.SunlightNeeded,
		MoistureNeeded:             req.MoistureNeeded,
		CreatedBy:                  &actor,
		UpdatedBy:                  &actor,
	}
	normalize(seed)
	if err := Validate(seed); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, seed); err != nil {
		return nil, err
	}
	return seed, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Seed, error) {
	seed, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if seed == nil {
		return nil, ErrNotFound
	}
	return seed, nil
}

func (s *Service) List(ctx context.Context, f Filter, page query.Page) (*ListSeedsResponse, error) {
	seeds, total, err := s.repo.List(ctx, f, page)
	if err != nil {
		return nil, err
	}
	if seeds == nil {
		seeds = []*Seed{}
	}
	return &ListSeedsResponse{Seeds: seeds, Total: total, Limit: page.Limit, Offset: page.Offset}, nil
}

// Search matches term against crop names on top of the list filters.
func (s *Service) Search(ctx context.Context, term string, f Filter, page query.Page) (*ListSeedsResponse, error) {
	if term == "" {
		return nil, query.ErrMissingSearchTerm
	}
	f.Search = term
	return s.List(ctx, f, page)
}

func (s *Service) Update(ctx context.Context, actor uuid.UUID, id string, req *UpdateSeedRequest) (*Seed, error) {
	found, err := s.repo.Update(ctx, id, func(seed *Seed) error {
		if req.CropName != nil {
			seed.CropName = *req.CropName
		}
		if req.GerminationCharacteristics != nil {
			seed.GerminationCharacteristics = *req.GerminationCharacteristics
		}
		if req.IdealTemperature != nil {
			seed.IdealTemperature = *req.IdealTemperature
		}
		if req.IdealSoilType != nil {
			seed.IdealSoilType = *req.IdealSoilType
		}
		if req.SunlightNeeded != nil {
			seed.SunlightNeeded = *req.SunlightNeeded
		}
		if req.MoistureNeeded != nil {
			seed.MoistureNeeded = *req.MoistureNeeded
		}
		normalize(seed)
		if err := Validate(seed); err != nil {
			return err
		}
		seed.UpdatedBy = &actor
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

func (s *Service) Trials(ctx context.Context, id string) ([]*trial.Trial, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.trials.All(ctx, trial.Filter{SeedID: id})
}

func (s *Service) Performance(ctx context.Context, id string) (report.SeedPerformance, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return report.SeedPerformance{}, err
	}

	scores, err := s.trials.HealthScores(ctx, trial.Filter{SeedID: id})
	if err != nil {
		return report.SeedPerformance{}, err
	}
	incidents, err := s.incidents.Count(ctx, incident.Filter{SeedID: id})
	if err != nil {
		return report.SeedPerformance{}, err
	}
	return report.Performance(scores, incidents), nil
}

package profile

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/seedtrial/seedtrial/internal/core/apperr"
	"github.com/seedtrial/seedtrial/internal/core/ident"
	"github.com/seedtrial/seedtrial/internal/core/incident"
	"github.com/seedtrial/seedtrial/internal/core/query"
	"github.com/seedtrial/seedtrial/internal/core/trial"
	"github.com/seedtrial/seedtrial/internal/storage/postgres"
)

var (
	ErrNotFound      = apperr.NotFound("profile not found")
	ErrProfileExists = apperr.Conflict("user already has a profile")
)

type Store interface {
	Create(ctx context.Context, p *Profile) error
	GetByID(ctx context.Context, id string) (*Profile, error)
	List(ctx context.Context, f Filter, page query.Page) ([]*Profile, int, error)
	Update(ctx context.Context, id string, apply func(*Profile) error) (bool, error)
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
}

func NewService(repo Store, trials Trials, incidents Incidents) *Service {
	return &Service{repo: repo, trials: trials, incidents: incidents}
}

// Create makes the profile of the acting user. A user has at most one.
func (s *Service) Create(ctx context.Context, actor uuid.UUID, req *CreateProfileRequest) (*Profile, error) {
	p := &Profile{
		ProfileID:   ident.New(ident.PrefixProfile),
		UserID:      actor,
		Role:        req.Role,
		PhoneNumber: req.PhoneNumber,
		CreatedBy:   &actor,
		UpdatedBy:   &actor,
	}
	normalize(p)
	if err := Validate(p); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, postgres.ErrUniqueViolation) {
			return nil, ErrProfileExists
		}
		return nil, err
	}
	return s.Get(ctx, p.ProfileID)
}

func (s *Service) Get(ctx context.Context, id string) (*Profile, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, f Filter, page query.Page) (*ListProfilesResponse, error) {
	profiles, total, err := s.repo.List(ctx, f, page)
	if err != nil {
		return nil, err
	}
	if profiles == nil {
		profiles = []*Profile{}
	}
	return &ListProfilesResponse{Profiles: profiles, Total: total, Limit: page.Limit, Offset: page.Offset}, nil
}

func (s *Service) Update(ctx context.Context, actor uuid.UUID, id string, req *UpdateProfileRequest) (*Profile, error) {
	found, err := s.repo.Update(ctx, id, func(p *Profile) error {
		if req.Role != nil {
			p.Role = *req.Role
		}
		if req.PhoneNumber != nil {
			p.PhoneNumber = *req.PhoneNumber
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

// Trials lists the trials the profile's user collected.
func (s *Service) Trials(ctx context.Context, id string) ([]*trial.Trial, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.trials.All(ctx, trial.Filter{CollectorID: &p.UserID})
}

// Incidents lists the incidents the profile's user reported.
func (s *Service) Incidents(ctx context.Context, id string) ([]*incident.Incident, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.incidents.All(ctx, incident.Filter{ReporterID: &p.UserID})
}

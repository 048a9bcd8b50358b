package seed

import (
	"time"

	"github.com/google/uuid"

	"github.com/seedtrial/seedtrial/internal/core/agronomy"
)

type Seed struct {
	SeedID                     string                 `json:"seed_id"`
	CropName                   string                 `json:"crop_name"`
	GerminationCharacteristics string                 `json:"germination_characteristics"`
	IdealTemperature           string                 `json:"ideal_temperature"`
	IdealSoilType              agronomy.SoilType      `json:"ideal_soil_type"`
	SunlightNeeded             string                 `json:"sunlight_needed"`
	MoistureNeeded             agronomy.MoistureLevel `json:"moisture_needed"`
	CreatedAt                  time.Time              `json:"created_at"`
	UpdatedAt                  time.Time              `json:"updated_at"`
	CreatedBy                  *uuid.UUID             `json:"created_by"`
	UpdatedBy                  *uuid.UUID             `json:"updated_by"`
	TrialCount                 int                    `json:"trial_count"`
}

type CreateSeedRequest struct {
	CropName                   string                 `json:"crop_name"`
	GerminationCharacteristics string                 `json:"germination_characteristics"`
	IdealTemperature           string                 `json:"ideal_temperature"`
	IdealSoilType              agronomy.SoilType      `json:"ideal_soil_type"`
	SunlightNeeded             string                 `json:"sunlight_needed"`
	MoistureNeeded             agronomy.MoistureLevel `json:"moisture_needed"`
}

type UpdateSeedRequest struct {
	CropName                   *string                 `json:"crop_name"`
	GerminationCharacteristics *string                 `json:"germination_characteristics"`
	IdealTemperature           *string                 `json:"ideal_temperature"`
	IdealSoilType              *agronomy.SoilType      `json:"ideal_soil_type"`
	SunlightNeeded             *string                 `json:"sunlight_needed"`
	MoistureNeeded             *agronomy.MoistureLevel `json:"moisture_needed"`
}

type ListSeedsResponse struct {
	Seeds  []*Seed `json:"seeds"`
	Total  int     `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
}

type Filter struct {
	Search         string
	SoilType       string
	MoistureNeeded string
}

package plot

import (
	"time"

	"github.com/google/uuid"

	"github.com/seedtrial/seedtrial/internal/core/agronomy"
)

type Plot struct {
	PlotID       string               `json:"plot_id"`
	PlotType     string               `json:"plot_type"`
	Owner        string               `json:"owner"`
	SoilType     agronomy.SoilType    `json:"soil_type"`
	Location     string               `json:"location"`
	WeatherZone  agronomy.WeatherZone `json:"weather_zone"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
	CreatedBy    *uuid.UUID           `json:"created_by"`
	UpdatedBy    *uuid.UUID           `json:"updated_by"`
	ActiveTrials int                  `json:"active_trials"`
}

type CreatePlotRequest struct {
	PlotType    string               `json:"plot_type"`
	Owner       string               `json:"owner"`
	SoilType    agronomy.SoilType    `json:"soil_type"`
	Location    string               `json:"location"`
	WeatherZone agronomy.WeatherZone `json:"weather_zone"`
}

type UpdatePlotRequest struct {
	PlotType    *string               `json:"plot_type"`
	Owner       *string               `json:"owner"`
	SoilType    *agronomy.SoilType    `json:"soil_type"`
	Location    *string               `json:"location"`
	WeatherZone *agronomy.WeatherZone `json:"weather_zone"`
}

type ListPlotsResponse struct {
	Plots  []*Plot `json:"plots"`
	Total  int     `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
}

type Filter struct {
	Search      string
	WeatherZone string
	SoilType    string
}

package plot

import (
	"strings"

	"github.com/seedtrial/seedtrial/internal/core/agronomy"
	"github.com/seedtrial/seedtrial/internal/core/validation"
)

func Validate(p *Plot) error {
	var errs validation.Errors
	if strings.TrimSpace(p.Location) == "" {
		errs.Add("location", "Location cannot be empty")
	}
	if strings.TrimSpace(p.Owner) == "" {
		errs.Add("owner", "Owner cannot be empty")
	}
	validation.OneOf(&errs, "weather_zone", p.WeatherZone, agronomy.WeatherZones)
	validation.OneOf(&errs, "soil_type", p.SoilType, agronomy.SoilTypes)
	return errs.Err()
}

func normalize(p *Plot) {
	p.PlotType = strings.TrimSpace(p.PlotType)
	p.Owner = strings.TrimSpace(p.Owner)
	p.Location = strings.TrimSpace(p.Location)
}

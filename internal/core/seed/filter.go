package seed

import (
	"net/url"

	"github.com/seedtrial/seedtrial/internal/core/query"
)

func ParseFilter(values url.Values) Filter {
	return Filter{
		Search:         query.Text(values, "search"),
		SoilType:       query.Text(values, "soil_type"),
		MoistureNeeded: query.Text(values, "moisture_needed"),
	}
}

func (f Filter) Apply(b *query.Builder) {
	if f.Search != "" {
		b.Contains("s.crop_name", f.Search)
	}
	if f.SoilType != "" {
		b.Eq("s.ideal_soil_type", f.SoilType)
	}
	if f.MoistureNeeded != "" {
		b.Eq("s.moisture_needed", f.MoistureNeeded)
	}
}

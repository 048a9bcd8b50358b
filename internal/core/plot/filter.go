package plot

import (
	"net/url"

	"github.com/seedtrial/seedtrial/internal/core/query"
)

func ParseFilter(values url.Values) Filter {
	return Filter{
		Search:      query.Text(values, "search"),
		WeatherZone: query.Text(values, "weather_zone"),
		SoilType:    query.Text(values, "soil_type"),
	}
}

func (f Filter) Apply(b *query.Builder) {
	if f.Search != "" {
		b.ContainsAny([]string{"p.location", "p.plot_type"}, f.Search)
	}
	if f.WeatherZone != "" {
		b.Eq("p.weather_zone", f.WeatherZone)
	}
	if f.SoilType != "" {
		b.Eq("p.soil_type", f.SoilType)
	}
}

package trial

import (
	"net/url"

	"github.com/seedtrial/seedtrial/internal/core/query"
)

func ParseFilter(values url.Values) (Filter, error) {
	dates := query.NewDateParser(values)
	f := Filter{
		StartDate:    dates.Get("start_date"),
		EndDate:      dates.Get("end_date"),
		Date:         dates.Get("date"),
		PlotID:       query.Text(values, "plot_id"),
		PlotLocation: query.Text(values, "plot_location"),
		CropName:     query.Text(values, "crop_name"),
		Collector:    query.Text(values, "collector"),
	}
	return f, dates.Err()
}

// HasCriteria reports whether any request-level criterion is set. A search
// needs at least one.
func (f Filter) HasCriteria() bool {
	return f.StartDate != nil || f.EndDate != nil || f.Date != nil ||
		f.PlotID != "" || f.PlotLocation != "" || f.CropName != "" || f.Collector != ""
}

// Apply adds f's predicates. Aliases: t trials, s seeds, p plots, u users.
func (f Filter) Apply(b *query.Builder) {
	b.DateRange("t.collection_date", f.StartDate, f.EndDate)
	if f.Date != nil {
		b.OnDate("t.collection_date", f.Date.Time.UTC())
	}
	if f.PlotID != "" {
		b.Eq("t.plot_id", f.PlotID)
	}
	if f.PlotLocation != "" {
		b.Contains("p.location", f.PlotLocation)
	}
	if f.CropName != "" {
		b.Contains("s.crop_name", f.CropName)
	}
	if f.Collector != "" {
		b.Contains("u.username", f.Collector)
	}
	if f.SeedID != "" {
		b.Eq("t.seed_id", f.SeedID)
	}
	if f.CollectorID != nil {
		b.Eq("t.collector", *f.CollectorID)
	}
	if f.Since != nil {
		b.Since("t.collection_date", *f.Since)
	}
}

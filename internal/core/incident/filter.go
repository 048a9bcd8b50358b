package incident

import (
	"net/url"

	"github.com/seedtrial/seedtrial/internal/core/query"
)

// ParseFilter reads type, start_date and end_date. Other parameters are ignored.
func ParseFilter(values url.Values) (Filter, error) {
	dates := query.NewDateParser(values)
	f := Filter{
		Type:      query.Text(values, "type"),
		StartDate: dates.Get("start_date"),
		EndDate:   dates.Get("end_date"),
	}
	return f, dates.Err()
}

// Apply adds f's predicates. Column aliases: i = incidents, t = trials.
func (f Filter) Apply(b *query.Builder) {
	if f.Type != "" {
		b.Eq("i.incident_type", f.Type)
	}
	// The range applies only when both bounds are given.
	if f.StartDate != nil && f.EndDate != nil {
		b.DateRange("i.date_time", f.StartDate, f.EndDate)
	}
	if f.TrialID != "" {
		b.Eq("i.trial_id", f.TrialID)
	}
	if f.PlotID != "" {
		b.Eq("t.plot_id", f.PlotID)
	}
	if f.SeedID != "" {
		b.Eq("t.seed_id", f.SeedID)
	}
	if f.ReporterID != nil {
		b.Eq("i.reported_by", *f.ReporterID)
	}
}

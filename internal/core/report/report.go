// Package report computes the derived views over already-loaded result sets.
// Every function is pure and returns zeros for empty input.
package report

import (
	"encoding/json"
	"sort"
	"strings"
	"time"
)

const (
	// SuccessThreshold is the health score a trial must exceed to count as a success.
	SuccessThreshold = 7.0

	RecentWindow = 7 * 24 * time.Hour
	ActiveWindow = 30 * 24 * time.Hour

	SevereIncidentType = "WEATHER"
)

type SeedPerformance struct {
	AverageHealthScore float64 `json:"average_health_score"`
	IncidentCount      int     `json:"incident_count"`
	SuccessRate        float64 `json:"success_rate"`
	TotalTrials        int     `json:"total_trials"`
}

// Performance summarises the health scores of one seed's trials.
func Performance(healthScores []float64, incidentCount int) SeedPerformance {
	p := SeedPerformance{IncidentCount: incidentCount, TotalTrials: len(healthScores)}
	if len(healthScores) == 0 {
		return p
	}

	var sum float64
	var successes int
	for _, s := range healthScores {
		sum += s
		if s > SuccessThreshold {
			successes++
		}
	}
	p.AverageHealthScore = sum / float64(len(healthScores))
	p.SuccessRate = float64(successes) / float64(len(healthScores)) * 100
	return p
}

// Count is one group of a grouped count. It is encoded with the grouped
// field as its key, e.g. {"crop_name": "Maize", "count": 3}.
type Count struct {
	Field string
	Key   string
	Count int
}

func (c Count) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{c.Field: c.Key, "count": c.Count})
}

// Grouped fields.
const (
	FieldCropName     = "crop_name"
	FieldPlotLocation = "plot_location"
	FieldCollector    = "collector"
	FieldIncidentType = "incident_type"
)

// TrialFact is the projection of a trial the summaries need.
type TrialFact struct {
	CropName       string
	PlotLocation   string
	CollectorName  string
	CollectionDate time.Time
}

type DateRange struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type TrialSummary struct {
	TotalTrials       int        `json:"total_trials"`
	TrialsByCrop      []Count    `json:"trials_by_crop"`
	TrialsByPlot      []Count    `json:"trials_by_plot"`
	TrialsByCollector []Count    `json:"trials_by_collector"`
	RecentTrials      int        `json:"recent_trials"`
	DateRange         *DateRange `json:"date_range"`
}

// SummarizeTrials groups an already filtered trial set. recent_trials is
// measured against now regardless of any date filter that produced facts.
// The range is echoed only when both bounds were supplied.
func SummarizeTrials(facts []TrialFact, now time.Time, startDate, endDate string) TrialSummary {
	byCrop := map[string]int{}
	byPlot := map[string]int{}
	byCollector := map[string]int{}
	recentSince := now.Add(-RecentWindow)

	s := TrialSummary{TotalTrials: len(facts)}
	for _, f := range facts {
		byCrop[f.CropName]++
		byPlot[f.PlotLocation]++
		byCollector[f.CollectorName]++
		if !f.CollectionDate.Before(recentSince) {
			s.RecentTrials++
		}
	}
	s.TrialsByCrop = sortedCounts(FieldCropName, byCrop)
	s.TrialsByPlot = sortedCounts(FieldPlotLocation, byPlot)
	s.TrialsByCollector = sortedCounts(FieldCollector, byCollector)

	if startDate != "" && endDate != "" {
		s.DateRange = &DateRange{StartDate: startDate, EndDate: endDate}
	}
	return s
}

// IncidentFact is the projection of an incident the summary needs.
type IncidentFact struct {
	IncidentType string
	Description  string
	DateTime     time.Time
}

type IncidentSummary struct {
	IncidentsByType       []Count `json:"incidents_by_type"`
	RecentIncidents       int     `json:"recent_incidents"`
	HighSeverityIncidents int     `json:"high_severity_incidents"`
}

// SummarizeIncidents is meant to receive every incident, not a filtered page.
func SummarizeIncidents(facts []IncidentFact, now time.Time) IncidentSummary {
	byType := map[string]int{}
	recentSince := now.Add(-RecentWindow)

	var s IncidentSummary
	for _, f := range facts {
		byType[f.IncidentType]++
		if !f.DateTime.Before(recentSince) {
			s.RecentIncidents++
		}
		if IsHighSeverity(f.IncidentType, f.Description) {
			s.HighSeverityIncidents++
		}
	}
	s.IncidentsByType = sortedCounts(FieldIncidentType, byType)
	return s
}

// IsHighSeverity flags weather incidents described as severe.
func IsHighSeverity(incidentType, description string) bool {
	return incidentType == SevereIncidentType && strings.Contains(strings.ToLower(description), "severe")
}

// Severity grades an incident for display.
func Severity(incidentType, description string) string {
	switch {
	case IsHighSeverity(incidentType, description):
		return "High"
	case incidentType == SevereIncidentType:
		return "Medium"
	default:
		return "Low"
	}
}

// ActiveSince is the cut-off for a plot's active trials.
func ActiveSince(now time.Time) time.Time {
	return now.Add(-ActiveWindow)
}

type GrowthSummary struct {
	AverageHeight     float64 `json:"average_height"`
	HealthScore       float64 `json:"health_score"`
	DaysSincePlanting int     `json:"days_since_planting"`
	MoistureLevel     string  `json:"moisture_level"`
	PestPresence      bool    `json:"pest_presence"`
}

func SummarizeGrowth(heights []float64, healthScore float64, moistureLevel string, pestPresence bool, collectionDate, now time.Time) GrowthSummary {
	g := GrowthSummary{
		HealthScore:       healthScore,
		DaysSincePlanting: int(now.Sub(collectionDate) / (24 * time.Hour)),
		MoistureLevel:     moistureLevel,
		PestPresence:      pestPresence,
	}
	if moistureLevel == "" {
		g.MoistureLevel = "Unknown"
	}
	if len(heights) > 0 {
		var sum float64
		for _, h := range heights {
			sum += h
		}
		g.AverageHeight = sum / float64(len(heights))
	}
	return g
}

func sortedCounts(field string, m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for k, v := range m {
		out = append(out, Count{Field: field, Key: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

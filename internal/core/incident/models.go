package incident

import (
	"time"

	"github.com/google/uuid"

	"github.com/seedtrial/seedtrial/internal/core/query"
)

type Incident struct {
	IncidentID    string     `json:"incident_id"`
	TrialID       string     `json:"trial_id"`
	PlotID        string     `json:"plot_id"`
	IncidentType  string     `json:"incident_type"`
	Description   string     `json:"description"`
	DateTime      time.Time  `json:"date_time"`
	Resolved      bool       `json:"resolved"`
	ReportedBy    *uuid.UUID `json:"reported_by"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	CreatedBy     *uuid.UUID `json:"created_by"`
	UpdatedBy     *uuid.UUID `json:"updated_by"`
	SeverityLevel string     `json:"severity_level"`
}

type CreateIncidentRequest struct {
	TrialID      string    `json:"trial_id"`
	IncidentType string    `json:"incident_type"`
	Description  string    `json:"description"`
	DateTime     time.Time `json:"date_time"`
	Resolved     bool      `json:"resolved"`
}

type UpdateIncidentRequest struct {
	TrialID      *string    `json:"trial_id"`
	IncidentType *string    `json:"incident_type"`
	Description  *string    `json:"description"`
	DateTime     *time.Time `json:"date_time"`
	Resolved     *bool      `json:"resolved"`
}

type ListIncidentsResponse struct {
	Incidents []*Incident `json:"incidents"`
	Total     int         `json:"total"`
	Limit     int         `json:"limit"`
	Offset    int         `json:"offset"`
}

// Filter selects incidents. Type and the date bounds come from query
// parameters; the remaining fields scope derived views.
type Filter struct {
	Type       string
	StartDate  *query.Date
	EndDate    *query.Date
	TrialID    string
	PlotID     string
	SeedID     string
	ReporterID *uuid.UUID
}

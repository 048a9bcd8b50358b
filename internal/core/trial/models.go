package trial

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/seedtrial/seedtrial/internal/core/query"
	"github.com/seedtrial/seedtrial/internal/core/report"
)

// GrowthParameters is stored as JSONB. Heights, HealthScore and MoistureLevel
// are required on write.
type GrowthParameters struct {
	Heights       []float64 `json:"heights"`
	HealthScore   float64   `json:"health_score"`
	MoistureLevel string    `json:"moisture_level"`
	PestPresence  bool      `json:"pest_presence"`
}

func (g GrowthParameters) Value() (driver.Value, error) {
	b, err := json.Marshal(g)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (g *GrowthParameters) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, g)
	case string:
		return json.Unmarshal([]byte(v), g)
	case nil:
		*g = GrowthParameters{}
		return nil
	}
	return fmt.Errorf("unsupported growth_parameters type %T", src)
}

type Trial struct {
	TrialID          string               `json:"trial_id"`
	SeedID           string               `json:"seed_id"`
	CropName         string               `json:"crop_name"`
	PlotID           string               `json:"plot_id"`
	PlotLocation     string               `json:"plot_location"`
	CollectionDate   time.Time            `json:"collection_date"`
	GrowthParameters GrowthParameters     `json:"growth_parameters"`
	Picture          string               `json:"picture"`
	Collector        *uuid.UUID           `json:"collector"`
	CollectorName    string               `json:"collector_name"`
	Notes            string               `json:"notes"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
	CreatedBy        *uuid.UUID           `json:"created_by"`
	UpdatedBy        *uuid.UUID           `json:"updated_by"`
	GrowthSummary    report.GrowthSummary `json:"growth_summary"`
	IncidentCount    int                  `json:"incident_count"`
}

type CreateTrialRequest struct {
	SeedID           string          `json:"seed_id"`
	PlotID           string          `json:"plot_id"`
	CollectionDate   time.Time       `json:"collection_date"`
	GrowthParameters json.RawMessage `json:"growth_parameters"`
	Picture          string          `json:"picture"`
	Notes            string          `json:"notes"`
}

// UpdateTrialRequest leaves fields that are absent from the body untouched.
type UpdateTrialRequest struct {
	SeedID           *string         `json:"seed_id"`
	PlotID           *string         `json:"plot_id"`
	CollectionDate   *time.Time      `json:"collection_date"`
	GrowthParameters json.RawMessage `json:"growth_parameters"`
	Picture          *string         `json:"picture"`
	Notes            *string         `json:"notes"`
}

type ListTrialsResponse struct {
	Trials []*Trial `json:"trials"`
	Total  int      `json:"total"`
	Limit  int      `json:"limit"`
	Offset int      `json:"offset"`
}

// Filter selects trials. The exported query fields map one to one onto
// request parameters; SeedID, CollectorID and Since scope derived views.
type Filter struct {
	StartDate    *query.Date
	EndDate      *query.Date
	Date         *query.Date
	PlotID       string
	PlotLocation string
	CropName     string
	Collector    string

	SeedID      string
	CollectorID *uuid.UUID
	Since       *time.Time
}

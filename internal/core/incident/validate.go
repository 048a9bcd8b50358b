package incident

import (
	"strings"
	"time"

	"github.com/seedtrial/seedtrial/internal/core/validation"
)

const MinDescriptionLength = 10

// Validate checks a fully merged incident against the write rules.
func Validate(in *Incident, now time.Time) error {
	var errs validation.Errors
	errs.NotBlank("trial_id", in.TrialID)
	errs.NotBlank("incident_type", in.IncidentType)
	if in.DateTime.IsZero() {
		errs.Add("date_time", "is required")
	}
	errs.NotAfter("date_time", in.DateTime, now, "Incident date cannot be in the future")
	errs.MinTrimmedLength("description", in.Description, MinDescriptionLength,
		"Description must be at least 10 characters long")
	return errs.Err()
}

func normalize(in *Incident) {
	in.TrialID = strings.TrimSpace(in.TrialID)
	in.IncidentType = strings.TrimSpace(in.IncidentType)
	in.Description = strings.TrimSpace(in.Description)
}

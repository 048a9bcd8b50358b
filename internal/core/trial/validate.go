package trial

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/seedtrial/seedtrial/internal/core/validation"
)

var growthParametersSchema = map[string]interface{}{
	"type":     "object",
	"required": []string{"heights", "health_score", "moisture_level"},
	"properties": map[string]interface{}{
		"heights": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "number"},
		},
		"health_score":   map[string]interface{}{"type": "number"},
		"moisture_level": map[string]interface{}{"type": "string"},
		"pest_presence":  map[string]interface{}{"type": "boolean"},
	},
}

var schemaValidator = validation.NewValidator()

// DecodeGrowthParameters checks raw against the growth parameter schema and
// decodes it. A missing or null document is reported as required.
func DecodeGrowthParameters(raw json.RawMessage) (GrowthParameters, error) {
	var gp GrowthParameters
	if len(raw) == 0 || string(raw) == "null" {
		return gp, &validation.ValidationErrors{Errors: []validation.ValidationError{
			{Field: "(root)", Message: "is required"},
		}}
	}
	if err := schemaValidator.Validate(raw, growthParametersSchema); err != nil {
		return gp, err
	}
	if err := json.Unmarshal(raw, &gp); err != nil {
		return gp, err
	}
	return gp, nil
}

// Validate checks a merged trial. When params is non-nil it is decoded into
// t.GrowthParameters; nil keeps the stored parameters.
func Validate(t *Trial, params json.RawMessage, now time.Time) error {
	var errs validation.Errors
	errs.NotBlank("seed_id", t.SeedID)
	errs.NotBlank("plot_id", t.PlotID)
	if t.CollectionDate.IsZero() {
		errs.Add("collection_date", "is required")
	}
	errs.NotAfter("collection_date", t.CollectionDate, now, "Collection date cannot be in the future")

	if params != nil {
		gp, err := DecodeGrowthParameters(params)
		if err != nil {
			errs.Merge("growth_parameters", err)
		} else {
			t.GrowthParameters = gp
		}
	}
	return errs.Err()
}

func normalize(t *Trial) {
	t.SeedID = strings.TrimSpace(t.SeedID)
	t.PlotID = strings.TrimSpace(t.PlotID)
	t.Picture = strings.TrimSpace(t.Picture)
}

package seed

import (
	"regexp"
	"strings"

	"github.com/seedtrial/seedtrial/internal/core/agronomy"
	"github.com/seedtrial/seedtrial/internal/core/validation"
)

var temperaturePattern = regexp.MustCompile(`^\d+-\d+°C$`)

func Validate(s *Seed) error {
	var errs validation.Errors
	errs.NotBlank("crop_name", s.CropName)
	errs.Matches("ideal_temperature", s.IdealTemperature, temperaturePattern,
		"Temperature must be in format '20-25°C'")
	validation.OneOf(&errs, "ideal_soil_type", s.IdealSoilType, agronomy.SoilTypes)
	validation.OneOf(&errs, "moisture_needed", s.MoistureNeeded, agronomy.MoistureLevels)
	return errs.Err()
}

func normalize(s *Seed) {
	s.CropName = strings.TrimSpace(s.CropName)
	s.IdealTemperature = strings.TrimSpace(s.IdealTemperature)
}

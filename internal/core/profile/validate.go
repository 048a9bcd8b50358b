package profile

import (
	"regexp"
	"strings"

	"github.com/seedtrial/seedtrial/internal/core/validation"
)

var phonePattern = regexp.MustCompile(`^\+?1?\d{9,15}$`)

func Validate(p *Profile) error {
	var errs validation.Errors
	errs.NotBlank("role", p.Role)
	if p.PhoneNumber != PhoneNotProvided {
		errs.Matches("phone_number", p.PhoneNumber, phonePattern, "Phone number must be in valid format")
	}
	return errs.Err()
}

func normalize(p *Profile) {
	p.Role = strings.TrimSpace(p.Role)
	p.PhoneNumber = strings.TrimSpace(p.PhoneNumber)
	if p.PhoneNumber == "" {
		p.PhoneNumber = PhoneNotProvided
	}
}

package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/seedtrial/seedtrial/internal/core/apperr"
	"github.com/seedtrial/seedtrial/internal/core/validation"
)

const (
	DefaultLimit = 50
	MaxLimit     = 100
)

type Page struct {
	Limit  int
	Offset int
}

// ParsePage reads limit/offset, clamping bad or out-of-range values to the
// defaults instead of failing the request.
func ParsePage(values url.Values) Page {
	p := Page{Limit: DefaultLimit}
	if l, err := strconv.Atoi(values.Get("limit")); err == nil && l > 0 && l <= MaxLimit {
		p.Limit = l
	}
	if o, err := strconv.Atoi(values.Get("offset")); err == nil && o >= 0 {
		p.Offset = o
	}
	return p
}

// Text returns the trimmed value of key, or "" when absent.
func Text(values url.Values, key string) string {
	return strings.TrimSpace(values.Get(key))
}

// Date is a parsed date/time parameter. Raw keeps the caller's spelling so it
// can be echoed back.
type Date struct {
	Raw      string
	Time     time.Time
	DateOnly bool
}

// Covers reports whether t is at or before d read as an inclusive end
// bound. A date-only value covers its whole day.
func (d Date) Covers(t time.Time) bool {
	if d.DateOnly {
		return t.Before(d.Time.AddDate(0, 0, 1))
	}
	return !t.After(d.Time)
}

// DateParser collects parse failures for several date parameters so they
// are reported together.
type DateParser struct {
	values url.Values
	errs   validation.Errors
}

func NewDateParser(values url.Values) *DateParser {
	return &DateParser{values: values}
}

// Get parses key as YYYY-MM-DD or RFC 3339. It returns nil when absent.
func (p *DateParser) Get(key string) *Date {
	raw := Text(p.values, key)
	if raw == "" {
		return nil
	}
	d, err := ParseDate(raw)
	if err != nil {
		p.errs.Add(key, err.Error())
		return nil
	}
	return d
}

func (p *DateParser) Err() error {
	return p.errs.Err()
}

func ParseDate(raw string) (*Date, error) {
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return &Date{Raw: raw, Time: t, DateOnly: true}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &Date{Raw: raw, Time: t}, nil
	}
	return nil, fmt.Errorf("must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
}

// DateRange applies optional inclusive bounds on column. A date-only end is
// compared against the following midnight; a timestamp end with <= so that
// no sub-microsecond offset reaches PostgreSQL.
func (b *Builder) DateRange(column string, start, end *Date) {
	if start != nil {
		b.Since(column, start.Time)
	}
	if end == nil {
		return
	}
	if end.DateOnly {
		b.Before(column, end.Time.AddDate(0, 0, 1))
		return
	}
	b.Until(column, end.Time)
}

var (
	ErrMissingSearchTerm = apperr.BadRequest("Please provide a search query")
	ErrMissingCriteria   = apperr.BadRequest("Please provide at least one search criterion")
)

// SearchTerm returns the required q parameter of a search endpoint.
func SearchTerm(values url.Values) (string, error) {
	q := Text(values, "q")
	if q == "" {
		return "", ErrMissingSearchTerm
	}
	return q, nil
}

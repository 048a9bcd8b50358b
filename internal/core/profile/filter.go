package profile

import (
	"net/url"

	"github.com/seedtrial/seedtrial/internal/core/query"
)

func ParseFilter(values url.Values) Filter {
	return Filter{Role: query.Text(values, "role")}
}

func (f Filter) Apply(b *query.Builder) {
	if f.Role != "" {
		b.Eq("pr.role", f.Role)
	}
}

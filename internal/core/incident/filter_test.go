package incident

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seedtrial/seedtrial/internal/core/query"
)

func TestFilter_DateRangeNeedsBothBounds(t *testing.T) {
	tests := []struct {
		name   string
		values url.Values
		where  string
	}{
		{"start only", url.Values{"start_date": {"2024-01-01"}}, ""},
		{"end only", url.Values{"end_date": {"2024-01-31"}}, ""},
		{"both", url.Values{"start_date": {"2024-01-01"}, "end_date": {"2024-01-31T10:00:00Z"}},
			"WHERE i.date_time >= $1 AND i.date_time <= $2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseFilter(tt.values)
			require.NoError(t, err)

			var b query.Builder
			f.Apply(&b)
			where, _ := b.Build()
			assert.Equal(t, tt.where, where)
		})
	}
}

func TestFilter_TypeAndRange(t *testing.T) {
	f, err := ParseFilter(url.Values{
		"type":       {"PEST"},
		"start_date": {"2024-01-01"},
		"end_date":   {"2024-01-31"},
		"page_size":  {"ignored"},
	})
	require.NoError(t, err)

	var b query.Builder
	f.Apply(&b)
	where, args := b.Build()
	assert.Equal(t, "WHERE i.incident_type = $1 AND i.date_time >= $2 AND i.date_time < $3", where)
	assert.Equal(t, []any{
		"PEST",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}, args)
}

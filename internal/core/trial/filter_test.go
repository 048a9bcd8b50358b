package trial

import (
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seedtrial/seedtrial/internal/core/query"
	"github.com/seedtrial/seedtrial/internal/core/validation"
)

func TestParseFilter(t *testing.T) {
	values := url.Values{
		"date":          {"2024-03-01"},
		"plot_location": {" north "},
		"crop_name":     {"maize"},
		"collector":     {"ann"},
		"unknown":       {"ignored"},
	}

	f, err := ParseFilter(values)
	require.NoError(t, err)
	assert.True(t, f.HasCriteria())
	assert.Equal(t, "north", f.PlotLocation)

	var b query.Builder
	f.Apply(&b)
	where, args := b.Build()
	assert.Equal(t, "WHERE (t.collection_date AT TIME ZONE 'UTC')::date = $1::date"+
		" AND p.location ILIKE $2 AND s.crop_name ILIKE $3 AND u.username ILIKE $4", where)
	assert.Equal(t, []any{"2024-03-01", "%north%", "%maize%", "%ann%"}, args)
}

func TestParseFilter_MalformedDate(t *testing.T) {
	_, err := ParseFilter(url.Values{"start_date": {"yesterday"}, "date": {"2024-13-01"}})
	require.True(t, validation.IsValidationError(err))
	assert.Len(t, validation.GetValidationErrors(err).Errors, 2)
}

func TestFilter_HasCriteria(t *testing.T) {
	assert.False(t, Filter{}.HasCriteria())

	// Internal scoping does not count as a search criterion.
	id := uuid.New()
	assert.False(t, Filter{SeedID: "SD_00000001", CollectorID: &id}.HasCriteria())
}

package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seedtrial/seedtrial/config"
	"github.com/seedtrial/seedtrial/internal/core/query"
)

// openTestClient connects to TEST_DATABASE_URL and applies the migrations.
// The database is shared, so tests use unique ids and clean up after themselves.
func openTestClient(t *testing.T) *Client {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	c, err := NewClient(&config.DatabaseConfig{URL: url})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	_, err = c.Migrate(context.Background())
	require.NoError(t, err)
	return c
}

func TestMigrate_Idempotent(t *testing.T) {
	c := openTestClient(t)

	applied, err := c.Migrate(context.Background())
	require.NoError(t, err)
	assert.Empty(t, applied)
}

type cascadeFixture struct {
	seedID, plotID, trialID, incidentID string
}

// insertCascadeFixture stores one seed, plot, trial and incident chain. The
// cleanup removes whatever the test left behind.
func insertCascadeFixture(t *testing.T, c *Client, tag string) cascadeFixture {
	t.Helper()
	ctx := context.Background()
	suffix := tag + time.Now().Format("150405.000000")
	f := cascadeFixture{"SD_" + suffix, "PL_" + suffix, "TR_" + suffix, "IN_" + suffix}

	_, err := c.DB.ExecContext(ctx, `
		INSERT INTO seeds (seed_id, crop_name, ideal_temperature, ideal_soil_type, moisture_needed)
		VALUES ($1, 'Maize', '20-25°C', 'Loamy soil', 'Moderate')`, f.seedID)
	require.NoError(t, err)
	_, err = c.DB.ExecContext(ctx, `
		INSERT INTO plots (plot_id, owner, soil_type, location, weather_zone)
		VALUES ($1, 'Station', 'Loamy soil', 'North field', 'Temperate')`, f.plotID)
	require.NoError(t, err)
	t.Cleanup(func() {
		c.DB.ExecContext(ctx, `DELETE FROM seeds WHERE seed_id = $1`, f.seedID)
		c.DB.ExecContext(ctx, `DELETE FROM plots WHERE plot_id = $1`, f.plotID)
	})
	_, err = c.DB.ExecContext(ctx, `
		INSERT INTO trials (trial_id, seed_id, plot_id, collection_date, growth_parameters)
		VALUES ($1, $2, $3, now(), '{}')`, f.trialID, f.seedID, f.plotID)
	require.NoError(t, err)
	_, err = c.DB.ExecContext(ctx, `
		INSERT INTO incidents (incident_id, trial_id, incident_type, description, date_time)
		VALUES ($1, $2, 'PEST', 'Aphids on lower leaves', now())`, f.incidentID, f.trialID)
	require.NoError(t, err)
	return f
}

func (f cascadeFixture) assertChildrenGone(t *testing.T, c *Client) {
	t.Helper()
	ctx := context.Background()
	var trials, incidents int
	require.NoError(t, c.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM trials WHERE trial_id = $1`, f.trialID).Scan(&trials))
	require.NoError(t, c.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM incidents WHERE incident_id = $1`, f.incidentID).Scan(&incidents))
	assert.Zero(t, trials)
	assert.Zero(t, incidents)
}

func TestDeleteSeed_CascadesToTrialsAndIncidents(t *testing.T) {
	c := openTestClient(t)
	f := insertCascadeFixture(t, c, "s")

	_, err := c.DB.ExecContext(context.Background(), `DELETE FROM seeds WHERE seed_id = $1`, f.seedID)
	require.NoError(t, err)
	f.assertChildrenGone(t, c)
}

func TestDeletePlot_CascadesToTrialsAndIncidents(t *testing.T) {
	c := openTestClient(t)
	f := insertCascadeFixture(t, c, "p")

	_, err := c.DB.ExecContext(context.Background(), `DELETE FROM plots WHERE plot_id = $1`, f.plotID)
	require.NoError(t, err)
	f.assertChildrenGone(t, c)

	var seeds int
	require.NoError(t, c.DB.QueryRowContext(context.Background(),
		`SELECT COUNT(*) FROM seeds WHERE seed_id = $1`, f.seedID).Scan(&seeds))
	assert.Equal(t, 1, seeds)
}

func TestDeleteTrial_CascadesToIncidents(t *testing.T) {
	c := openTestClient(t)
	f := insertCascadeFixture(t, c, "t")

	_, err := c.DB.ExecContext(context.Background(), `DELETE FROM trials WHERE trial_id = $1`, f.trialID)
	require.NoError(t, err)
	f.assertChildrenGone(t, c)
}

func TestDateRange_IncludesEndInstant(t *testing.T) {
	c := openTestClient(t)
	ctx := context.Background()
	f := insertCascadeFixture(t, c, "d")
	_, err := c.DB.ExecContext(ctx, `UPDATE trials SET collection_date = '2024-01-31T10:00:00Z' WHERE trial_id = $1`, f.trialID)
	require.NoError(t, err)

	count := func(end string) int {
		d, err := query.ParseDate(end)
		require.NoError(t, err)
		var b query.Builder
		b.Eq("trial_id", f.trialID)
		b.DateRange("collection_date", nil, d)
		where, args := b.Build()

		var n int
		require.NoError(t, c.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM trials `+where, args...).Scan(&n))
		return n
	}

	assert.Equal(t, 1, count("2024-01-31T10:00:00Z"))
	assert.Equal(t, 1, count("2024-01-31"))
	assert.Equal(t, 0, count("2024-01-31T09:59:59Z"))
}

func TestMapError_UnknownReference(t *testing.T) {
	c := openTestClient(t)

	_, err := c.DB.ExecContext(context.Background(), `
		INSERT INTO trials (trial_id, seed_id, plot_id, collection_date, growth_parameters)
		VALUES ('TR_missing', 'SD_missing', 'PL_missing', now(), '{}')`)
	assert.ErrorIs(t, MapError(err), ErrForeignKeyViolation)
}

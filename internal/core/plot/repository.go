package plot

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/seedtrial/seedtrial/internal/core/query"
	"github.com/seedtrial/seedtrial/internal/storage/postgres"
)

type Repository struct {
	db *postgres.Client
}

func NewRepository(db *postgres.Client) *Repository {
	return &Repository{db: db}
}

const plotColumns = `p.plot_id, p.plot_type, p.owner, p.soil_type, p.location, p.weather_zone,
	p.created_at, p.updated_at, p.created_by, p.updated_by`

// selectPlots also counts the trials collected at or after the instant bound
// to sincePlaceholder.
func selectPlots(sincePlaceholder string) string {
	return fmt.Sprintf(`
	SELECT %s,
		(SELECT COUNT(*) FROM trials t WHERE t.plot_id = p.plot_id AND t.collection_date >= %s)
	FROM plots p`, plotColumns, sincePlaceholder)
}

func (r *Repository) Create(ctx context.Context, p *Plot) error {
	query := `
		INSERT INTO plots (plot_id, plot_type, owner, soil_type, location, weather_zone,
			created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`
	err := r.db.DB.QueryRowContext(ctx, query,
		p.PlotID, p.PlotType, p.Owner, p.SoilType, p.Location, p.WeatherZone,
		p.CreatedBy, p.UpdatedBy,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	return postgres.MapError(err)
}

func (r *Repository) GetByID(ctx context.Context, id string, activeSince time.Time) (*Plot, error) {
	row := r.db.DB.QueryRowContext(ctx, selectPlots("$1")+` WHERE p.plot_id = $2`, activeSince, id)
	return scanPlot(row, true)
}

func (r *Repository) List(ctx context.Context, f Filter, page query.Page, activeSince time.Time) ([]*Plot, int, error) {
	var b query.Builder
	f.Apply(&b)
	where, args := b.Build()

	var total int
	if err := r.db.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM plots p `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	since := b.Arg(activeSince)
	q := fmt.Sprintf("%s %s ORDER BY p.location, p.plot_id LIMIT %s OFFSET %s",
		selectPlots(since), where, b.Arg(page.Limit), b.Arg(page.Offset))
	rows, err := r.db.DB.QueryContext(ctx, q, b.Args()...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var plots []*Plot
	for rows.Next() {
		p, err := scanPlot(rows, true)
		if err != nil {
			return nil, 0, err
		}
		plots = append(plots, p)
	}
	return plots, total, rows.Err()
}

func (r *Repository) Update(ctx context.Context, id string, apply func(*Plot) error) (bool, error) {
	found := false
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `SELECT `+plotColumns+` FROM plots p WHERE p.plot_id = $1 FOR UPDATE`, id)
		p, err := scanPlot(row, false)
		if err != nil || p == nil {
			return err
		}
		found = true

		if err := apply(p); err != nil {
			return err
		}

		query := `
			UPDATE plots
			SET plot_type = $2, owner = $3, soil_type = $4, location = $5, weather_zone = $6,
				updated_by = $7, updated_at = CURRENT_TIMESTAMP
			WHERE plot_id = $1`
		_, err = tx.ExecContext(ctx, query,
			p.PlotID, p.PlotType, p.Owner, p.SoilType, p.Location, p.WeatherZone, p.UpdatedBy,
		)
		return postgres.MapError(err)
	})
	return found, err
}

// Delete removes the plot together with its trials and their incidents.
func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.DB.ExecContext(ctx, `DELETE FROM plots WHERE plot_id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPlot(row scanner, withActive bool) (*Plot, error) {
	p := &Plot{}
	dest := []any{
		&p.PlotID, &p.PlotType, &p.Owner, &p.SoilType, &p.Location, &p.WeatherZone,
		&p.CreatedAt, &p.UpdatedAt, &p.CreatedBy, &p.UpdatedBy,
	}
	if withActive {
		dest = append(dest, &p.ActiveTrials)
	}
	err := row.Scan(dest...)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

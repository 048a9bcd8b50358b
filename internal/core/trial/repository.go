package trial

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/seedtrial/seedtrial/internal/core/query"
	"github.com/seedtrial/seedtrial/internal/storage/postgres"
)

type Repository struct {
	db *postgres.Client
}

func NewRepository(db *postgres.Client) *Repository {
	return &Repository{db: db}
}

const fromTrials = `
	FROM trials t
	JOIN seeds s ON s.seed_id = t.seed_id
	JOIN plots p ON p.plot_id = t.plot_id
	LEFT JOIN users u ON u.id = t.collector`

const selectTrials = `
	SELECT t.trial_id, t.seed_id, s.crop_name, t.plot_id, p.location,
		t.collection_date, t.growth_parameters, t.picture,
		t.collector, COALESCE(u.username, ''), t.notes,
		t.created_at, t.updated_at, t.created_by, t.updated_by,
		(SELECT COUNT(*) FROM incidents i WHERE i.trial_id = t.trial_id)` + fromTrials

func (r *Repository) Create(ctx context.Context, t *Trial) error {
	query := `
		INSERT INTO trials (trial_id, seed_id, plot_id, collection_date, growth_parameters,
			picture, collector, notes, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`
	err := r.db.DB.QueryRowContext(ctx, query,
		t.TrialID, t.SeedID, t.PlotID, t.CollectionDate, t.GrowthParameters,
		t.Picture, t.Collector, t.Notes, t.CreatedBy, t.UpdatedBy,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	return postgres.MapError(err)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Trial, error) {
	row := r.db.DB.QueryRowContext(ctx, selectTrials+` WHERE t.trial_id = $1`, id)
	return scanTrial(row)
}

func (r *Repository) List(ctx context.Context, f Filter, page query.Page) ([]*Trial, int, error) {
	var b query.Builder
	f.Apply(&b)
	where, args := b.Build()

	var total int
	if err := r.db.DB.QueryRowContext(ctx, `SELECT COUNT(*) `+fromTrials+` `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := fmt.Sprintf("%s %s ORDER BY t.collection_date DESC, t.trial_id LIMIT %s OFFSET %s",
		selectTrials, where, b.Arg(page.Limit), b.Arg(page.Offset))
	trials, err := r.query(ctx, q, b.Args()...)
	return trials, total, err
}

func (r *Repository) All(ctx context.Context, f Filter) ([]*Trial, error) {
	var b query.Builder
	f.Apply(&b)
	where, args := b.Build()
	return r.query(ctx, selectTrials+" "+where+" ORDER BY t.collection_date DESC, t.trial_id", args...)
}

// Update locks the trial row, applies the merge and writes it back in one
// transaction. It reports false when the trial does not exist.
func (r *Repository) Update(ctx context.Context, id string, apply func(*Trial) error) (bool, error) {
	found := false
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, selectTrials+` WHERE t.trial_id = $1 FOR UPDATE OF t`, id)
		t, err := scanTrial(row)
		if err != nil || t == nil {
			return err
		}
		found = true

		if err := apply(t); err != nil {
			return err
		}

		query := `
			UPDATE trials
			SET seed_id = $2, plot_id = $3, collection_date = $4, growth_parameters = $5,
				picture = $6, notes = $7, updated_by = $8, updated_at = CURRENT_TIMESTAMP
			WHERE trial_id = $1`
		_, err = tx.ExecContext(ctx, query,
			t.TrialID, t.SeedID, t.PlotID, t.CollectionDate, t.GrowthParameters,
			t.Picture, t.Notes, t.UpdatedBy,
		)
		return postgres.MapError(err)
	})
	return found, err
}

// Delete removes the trial; its incidents go with it.
func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.DB.ExecContext(ctx, `DELETE FROM trials WHERE trial_id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *Repository) query(ctx context.Context, q string, args ...any) ([]*Trial, error) {
	rows, err := r.db.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trials []*Trial
	for rows.Next() {
		t, err := scanTrial(rows)
		if err != nil {
			return nil, err
		}
		trials = append(trials, t)
	}
	return trials, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTrial(row scanner) (*Trial, error) {
	t := &Trial{}
	err := row.Scan(
		&t.TrialID, &t.SeedID, &t.CropName, &t.PlotID, &t.PlotLocation,
		&t.CollectionDate, &t.GrowthParameters, &t.Picture,
		&t.Collector, &t.CollectorName, &t.Notes,
		&t.CreatedAt, &t.UpdatedAt, &t.CreatedBy, &t.UpdatedBy,
		&t.IncidentCount,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

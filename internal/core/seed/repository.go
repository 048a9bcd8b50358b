package seed

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

const selectSeeds = `
	SELECT s.seed_id, s.crop_name, s.germination_characteristics, s.ideal_temperature,
		s.ideal_soil_type, s.sunlight_needed, s.moisture_needed,
		s.created_at, s.updated_at, s.created_by, s.updated_by,
		(SELECT COUNT(*) FROM trials t WHERE t.seed_id = s.seed_id)
	FROM seeds s`

func (r *Repository) Create(ctx context.Context, s *Seed) error {
	query := `
		INSERT INTO seeds (seed_id, crop_name, germination_characteristics, ideal_temperature,
			ideal_soil_type, sunlight_needed, moisture_needed, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`
	err := r.db.DB.QueryRowContext(ctx, query,
		s.SeedID, s.CropName, s.GerminationCharacteristics, s.IdealTemperature,
		s.IdealSoilType, s.SunlightNeeded, s.MoistureNeeded, s.CreatedBy, s.UpdatedBy,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	return postgres.MapError(err)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Seed, error) {
	row := r.db.DB.QueryRowContext(ctx, selectSeeds+` WHERE s.seed_id = $1`, id)
	return scanSeed(row)
}

func (r *Repository) List(ctx context.Context, f Filter, page query.Page) ([]*Seed, int, error) {
	var b query.Builder
	f.Apply(&b)
	where, args := b.Build()

	var total int
	if err := r.db.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM seeds s `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := fmt.Sprintf("%s %s ORDER BY s.crop_name, s.seed_id LIMIT %s OFFSET %s",
		selectSeeds, where, b.Arg(page.Limit), b.Arg(page.Offset))
	rows, err := r.db.DB.QueryContext(ctx, q, b.Args()...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var seeds []*Seed
	for rows.Next() {
		s, err := scanSeed(rows)
		if err != nil {
			return nil, 0, err
		}
		seeds = append(seeds, s)
	}
	return seeds, total, rows.Err()
}

func (r *Repository) Update(ctx context.Context, id string, apply func(*Seed) error) (bool, error) {
	found := false
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, selectSeeds+` WHERE s.seed_id = $1 FOR UPDATE OF s`, id)
		s, err := scanSeed(row)
		if err != nil || s == nil {
			return err
		}
		found = true

		if err := apply(s); err != nil {
			return err
		}

		query := `
			UPDATE seeds
			SET crop_name = $2, germination_characteristics = $3, ideal_temperature = $4,
				ideal_soil_type = $5, sunlight_needed = $6, moisture_needed = $7,
				updated_by = $8, updated_at = CURRENT_TIMESTAMP
			WHERE seed_id = $1`
		_, err = tx.ExecContext(ctx, query,
			s.SeedID, s.CropName, s.GerminationCharacteristics, s.IdealTemperature,
			s.IdealSoilType, s.SunlightNeeded, s.MoistureNeeded, s.UpdatedBy,
		)
		return postgres.MapError(err)
	})
	return found, err
}

// Delete removes the seed together with its trials and their incidents.
func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.DB.ExecContext(ctx, `DELETE FROM seeds WHERE seed_id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSeed(row scanner) (*Seed, error) {
	s := &Seed{}
	err := row.Scan(
		&s.SeedID, &s.CropName, &s.GerminationCharacteristics, &s.IdealTemperature,
		&s.IdealSoilType, &s.SunlightNeeded, &s.MoistureNeeded,
		&s.CreatedAt, &s.UpdatedAt, &s.CreatedBy, &s.UpdatedBy,
		&s.TrialCount,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

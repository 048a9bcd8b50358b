package profile

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

const selectProfiles = `
	SELECT pr.profile_id, pr.user_id, u.username, pr.role, pr.phone_number,
		pr.created_at, pr.updated_at, pr.created_by, pr.updated_by
	FROM profiles pr
	JOIN users u ON u.id = pr.user_id`

func (r *Repository) Create(ctx context.Context, p *Profile) error {
	query := `
		INSERT INTO profiles (profile_id, user_id, role, phone_number, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`
	err := r.db.DB.QueryRowContext(ctx, query,
		p.ProfileID, p.UserID, p.Role, p.PhoneNumber, p.CreatedBy, p.UpdatedBy,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	return postgres.MapError(err)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Profile, error) {
	row := r.db.DB.QueryRowContext(ctx, selectProfiles+` WHERE pr.profile_id = $1`, id)
	return scanProfile(row)
}

func (r *Repository) List(ctx context.Context, f Filter, page query.Page) ([]*Profile, int, error) {
	var b query.Builder
	f.Apply(&b)
	where, args := b.Build()

	var total int
	if err := r.db.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles pr `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := fmt.Sprintf("%s %s ORDER BY u.username, pr.profile_id LIMIT %s OFFSET %s",
		selectProfiles, where, b.Arg(page.Limit), b.Arg(page.Offset))
	rows, err := r.db.DB.QueryContext(ctx, q, b.Args()...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var profiles []*Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, 0, err
		}
		profiles = append(profiles, p)
	}
	return profiles, total, rows.Err()
}

func (r *Repository) Update(ctx context.Context, id string, apply func(*Profile) error) (bool, error) {
	found := false
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, selectProfiles+` WHERE pr.profile_id = $1 FOR UPDATE OF pr`, id)
		p, err := scanProfile(row)
		if err != nil || p == nil {
			return err
		}
		found = true

		if err := apply(p); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE profiles
			SET role = $2, phone_number = $3, updated_by = $4, updated_at = CURRENT_TIMESTAMP
			WHERE profile_id = $1`,
			p.ProfileID, p.Role, p.PhoneNumber, p.UpdatedBy,
		)
		return postgres.MapError(err)
	})
	return found, err
}

func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.DB.ExecContext(ctx, `DELETE FROM profiles WHERE profile_id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(row scanner) (*Profile, error) {
	p := &Profile{}
	err := row.Scan(
		&p.ProfileID, &p.UserID, &p.Username, &p.Role, &p.PhoneNumber,
		&p.CreatedAt, &p.UpdatedAt, &p.CreatedBy, &p.UpdatedBy,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

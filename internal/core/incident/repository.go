package incident

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/seedtrial/seedtrial/internal/core/query"
	"github.com/seedtrial/seedtrial/internal/core/report"
	"github.com/seedtrial/seedtrial/internal/storage/postgres"
)

type Repository struct {
	db *postgres.Client
}

func NewRepository(db *postgres.Client) *Repository {
	return &Repository{db: db}
}

const selectIncidents = `
	SELECT i.incident_id, i.trial_id, t.plot_id, i.incident_type, i.description,
		i.date_time, i.resolved, i.reported_by,
		i.created_at, i.updated_at, i.created_by, i.updated_by
	FROM incidents i
	JOIN trials t ON t.trial_id = i.trial_id`

func (r *Repository) Create(ctx context.Context, in *Incident) error {
	query := `
		INSERT INTO incidents (incident_id, trial_id, incident_type, description, date_time,
			resolved, reported_by, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`
	err := r.db.DB.QueryRowContext(ctx, query,
		in.IncidentID, in.TrialID, in.IncidentType, in.Description, in.DateTime,
		in.Resolved, in.ReportedBy, in.CreatedBy, in.UpdatedBy,
	).Scan(&in.CreatedAt, &in.UpdatedAt)
	return postgres.MapError(err)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Incident, error) {
	row := r.db.DB.QueryRowContext(ctx, selectIncidents+` WHERE i.incident_id = $1`, id)
	return scanIncident(row)
}

func (r *Repository) List(ctx context.Context, f Filter, page query.Page) ([]*Incident, int, error) {
	var b query.Builder
	f.Apply(&b)
	where, args := b.Build()

	var total int
	countQuery := `SELECT COUNT(*) FROM incidents i JOIN trials t ON t.trial_id = i.trial_id ` + where
	if err := r.db.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := fmt.Sprintf("%s %s ORDER BY i.date_time DESC, i.incident_id LIMIT %s OFFSET %s",
		selectIncidents, where, b.Arg(page.Limit), b.Arg(page.Offset))
	incidents, err := r.query(ctx, q, b.Args()...)
	return incidents, total, err
}

func (r *Repository) All(ctx context.Context, f Filter) ([]*Incident, error) {
	var b query.Builder
	f.Apply(&b)
	where, args := b.Build()
	return r.query(ctx, selectIncidents+" "+where+" ORDER BY i.date_time DESC, i.incident_id", args...)
}

func (r *Repository) Count(ctx context.Context, f Filter) (int, error) {
	var b query.Builder
	f.Apply(&b)
	where, args := b.Build()

	var n int
	err := r.db.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM incidents i JOIN trials t ON t.trial_id = i.trial_id `+where, args...,
	).Scan(&n)
	return n, err
}

// Facts returns the summary projection of every stored incident.
func (r *Repository) Facts(ctx context.Context) ([]report.IncidentFact, error) {
	rows, err := r.db.DB.QueryContext(ctx, `SELECT incident_type, description, date_time FROM incidents`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var facts []report.IncidentFact
	for rows.Next() {
		var f report.IncidentFact
		if err := rows.Scan(&f.IncidentType, &f.Description, &f.DateTime); err != nil {
			return nil, err
		}
		facts = append(facts, f)
	}
	return facts, rows.Err()
}

// Update locks the row, lets apply mutate it and writes it back in one
// transaction. It reports false when the incident does not exist.
func (r *Repository) Update(ctx context.Context, id string, apply func(*Incident) error) (bool, error) {
	found := false
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, selectIncidents+` WHERE i.incident_id = $1 FOR UPDATE OF i`, id)
		in, err := scanIncident(row)
		if err != nil || in == nil {
			return err
		}
		found = true

		if err := apply(in); err != nil {
			return err
		}

		query := `
			UPDATE incidents
			SET trial_id = $2, incident_type = $3, description = $4, date_time = $5,
				resolved = $6, updated_by = $7, updated_at = CURRENT_TIMESTAMP
			WHERE incident_id = $1`
		_, err = tx.ExecContext(ctx, query,
			in.IncidentID, in.TrialID, in.IncidentType, in.Description, in.DateTime,
			in.Resolved, in.UpdatedBy,
		)
		return postgres.MapError(err)
	})
	return found, err
}

func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.DB.ExecContext(ctx, `DELETE FROM incidents WHERE incident_id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *Repository) query(ctx context.Context, q string, args ...any) ([]*Incident, error) {
	rows, err := r.db.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var incidents []*Incident
	for rows.Next() {
		in, err := scanIncident(rows)
		if err != nil {
			return nil, err
		}
		incidents = append(incidents, in)
	}
	return incidents, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanIncident(row scanner) (*Incident, error) {
	in := &Incident{}
	err := row.Scan(
		&in.IncidentID, &in.TrialID, &in.PlotID, &in.IncidentType, &in.Description,
		&in.DateTime, &in.Resolved, &in.ReportedBy,
		&in.CreatedAt, &in.UpdatedAt, &in.CreatedBy, &in.UpdatedBy,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return in, nil
}

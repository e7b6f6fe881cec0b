package repository

import (
	"context"
	"database/sql"
	"errors"
)

// PatientRepo handles patients.
type PatientRepo struct {
	db *sql.DB
}

func NewPatientRepo(db *sql.DB) *PatientRepo {
	return &PatientRepo{db: db}
}

func (r *PatientRepo) Upsert(ctx context.Context, p Patient) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO patients(id, name, created_at)
	VALUES (?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(id) DO UPDATE SET
	 name=excluded.name;
	`, p.ID, p.Name)
	return err
}

// Get returns nil when no patient has id.
func (r *PatientRepo) Get(ctx context.Context, id string) (*Patient, error) {
	var p Patient
	err := r.db.QueryRowContext(ctx, `SELECT id, name, created_at FROM patients WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns patients in name order.
func (r *PatientRepo) List(ctx context.Context) ([]Patient, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, created_at FROM patients ORDER BY name COLLATE NOCASE, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Patient
	for rows.Next() {
		var p Patient
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Delete removes the patient and, through the foreign key, its cards.
func (r *PatientRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM patients WHERE id = ?`, id)
	return err
}

func (r *PatientRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM patients`).Scan(&n)
	return n, err
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// CardRepo handles consultation cards.
type CardRepo struct {
	db *sql.DB
}

func NewCardRepo(db *sql.DB) *CardRepo {
	return &CardRepo{db: db}
}

// Insert stores c unless a card with the same id exists. It reports whether a
// row was written.
func (r *CardRepo) Insert(ctx context.Context, c Card) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
	INSERT OR IGNORE INTO cards(id, patient_id, date, title, practitioner, notes, seq)
	VALUES(?, ?, ?, ?, ?, ?, ?);
	`, c.ID, c.PatientID, c.Date.Format(time.DateOnly), c.Title, c.Practitioner, c.Notes, c.Seq)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListByPatient returns a patient's cards in insertion order.
func (r *CardRepo) ListByPatient(ctx context.Context, patientID string) ([]Card, error) {
	return r.query(ctx, `
	SELECT id, patient_id, date, title, practitioner, notes, seq
	FROM cards WHERE patient_id = ? ORDER BY seq, rowid`, patientID)
}

// ListAll returns every card grouped by patient, in insertion order.
func (r *CardRepo) ListAll(ctx context.Context) ([]Card, error) {
	return r.query(ctx, `
	SELECT id, patient_id, date, title, practitioner, notes, seq
	FROM cards ORDER BY patient_id, seq, rowid`)
}

// NextSeq is the seq value for the next card appended to a patient.
func (r *CardRepo) NextSeq(ctx context.Context, patientID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq) + 1, 0) FROM cards WHERE patient_id = ?`, patientID).Scan(&n)
	return n, err
}

func (r *CardRepo) query(ctx context.Context, q string, args ...any) ([]Card, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Card
	for rows.Next() {
		var (
			c    Card
			date string
		)
		if err := rows.Scan(&c.ID, &c.PatientID, &date, &c.Title, &c.Practitioner, &c.Notes, &c.Seq); err != nil {
			return nil, err
		}
		c.Date, err = time.Parse(time.DateOnly, date)
		if err != nil {
			return nil, fmt.Errorf("card %s date: %w", c.ID, err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

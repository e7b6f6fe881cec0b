package service

import (
	"context"
	"fmt"

	"github.com/jask/patientrecords/internal/database/repository"
	"github.com/jask/patientrecords/internal/records"
)

// Loader reads the patient collection the view model browses.
type Loader struct {
	Patients *repository.PatientRepo
	Cards    *repository.CardRepo
}

// Load returns every patient in name order with cards in stored order.
func (l *Loader) Load(ctx context.Context) ([]records.Patient, error) {
	rows, err := l.Patients.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	cards, err := l.Cards.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	byPatient := make(map[string][]records.Card, len(rows))
	for _, c := range cards {
		byPatient[c.PatientID] = append(byPatient[c.PatientID], records.Card{
			ID:           c.ID,
			Date:         c.Date,
			Title:        c.Title,
			Practitioner: c.Practitioner,
			Notes:        c.Notes,
		})
	}
	out := make([]records.Patient, 0, len(rows))
	for _, p := range rows {
		out = append(out, records.Patient{ID: p.ID, Name: p.Name, Cards: byPatient[p.ID]})
	}
	return out, nil
}

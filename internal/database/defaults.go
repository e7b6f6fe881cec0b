package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jask/patientrecords/internal/database/repository"
)

type demoCard struct {
	date, title, practitioner, notes string
}

var demoPatients = []struct {
	name  string
	cards []demoCard
}{
	{"Margaret Hughes", []demoCard{
		{"2024-01-15", "Annual review", "Dr. Patel", "BP 128/82. Continue current medication."},
		{"2024-04-02", "Influenza symptoms", "Dr. Patel", "Rest and fluids, review if not improving in 5 days."},
		{"2024-06-20", "Blood test results", "Dr. Chen", "HbA1c 6.1%. Dietary advice given."},
		{"2024-09-11", "Knee pain", "Dr. Chen", "Referred for physiotherapy."},
	}},
	{"Tom Okafor", []demoCard{
		{"2024-02-08", "Asthma review", "Dr. Novak", "Inhaler technique checked."},
		{"2024-07-30", "Travel vaccinations", "Nurse Ivanova", "Hepatitis A and typhoid given."},
	}},
	{"Ana Lucía Romero", []demoCard{
		{"2023-11-03", "Prenatal visit", "Dr. Haddad", "12 week scan booked."},
		{"2024-01-26", "Prenatal visit", "Dr. Haddad", "All observations normal."},
		{"2024-03-14", "Glucose tolerance test", "Dr. Haddad", "Within range."},
	}},
	{"Deborah Lin", nil},
	{"Samuel Achterberg", []demoCard{
		{"2024-05-05", "Skin check", "Dr. Novak", "Two lesions photographed for monitoring."},
	}},
}

// SeedDefaults inserts a small demo set when the database has no patients.
// It is idempotent and safe to run on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	patients := repository.NewPatientRepo(db)
	n, err := patients.Count(ctx)
	if err != nil {
		return fmt.Errorf("count patients: %w", err)
	}
	if n > 0 {
		return nil
	}
	cards := repository.NewCardRepo(db)
	for _, demo := range demoPatients {
		id := uuid.NewSHA1(uuid.NameSpaceOID, []byte("patient:"+demo.name)).String()
		if err := patients.Upsert(ctx, repository.Patient{ID: id, Name: demo.name}); err != nil {
			return fmt.Errorf("seed patient %s: %w", demo.name, err)
		}
		for i, dc := range demo.cards {
			date, err := time.Parse(time.DateOnly, dc.date)
			if err != nil {
				return fmt.Errorf("seed card date %q: %w", dc.date, err)
			}
			c := repository.Card{
				ID:           uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("card:%s:%d", id, i))).String(),
				PatientID:    id,
				Date:         date,
				Title:        dc.title,
				Practitioner: dc.practitioner,
				Notes:        dc.notes,
				Seq:          i,
			}
			if _, err := cards.Insert(ctx, c); err != nil {
				return fmt.Errorf("seed card for %s: %w", demo.name, err)
			}
		}
	}
	return nil
}

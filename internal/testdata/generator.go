// Package testdata generates synthetic patients for demos and volume tests.
package testdata

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/jask/patientrecords/internal/database/repository"
)

// Repos bundles repos used by Seed.
type Repos struct {
	Patients *repository.PatientRepo
	Cards    *repository.CardRepo
}

// Options controls how much data Generate produces.
type Options struct {
	Patients int
	MaxCards int       // per patient, at least 0
	Seed     uint64    // same seed, same data
	Until    time.Time // newest possible card date; zero means today
}

// Generated is one synthetic patient with its cards.
type Generated struct {
	Patient repository.Patient
	Cards   []repository.Card
}

var (
	givenNames  = []string{"Ava", "Noah", "Mia", "Liam", "Zara", "Oscar", "Priya", "Kenji", "Ines", "Tomás"}
	familyNames = []string{"Nguyen", "Smith", "Okoro", "Rossi", "Müller", "Haddad", "Kowalski", "Silva", "Tanaka", "Walsh"}
	visitTitles = []string{"Check-up", "Follow-up", "Bloods", "Vaccination", "Skin check", "Referral review", "Physio"}
	clinicians  = []string{"Dr. Patel", "Dr. Chen", "Dr. Adeyemi", "Nurse Clarke", ""}
)

// Generate builds patients deterministically from opts.Seed.
func Generate(opts Options) []Generated {
	r := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	until := opts.Until
	if until.IsZero() {
		until = time.Now().UTC()
	}
	until = time.Date(until.Year(), until.Month(), until.Day(), 0, 0, 0, 0, time.UTC)

	out := make([]Generated, 0, opts.Patients)
	for i := range opts.Patients {
		name := fmt.Sprintf("%s %s", givenNames[r.IntN(len(givenNames))], familyNames[r.IntN(len(familyNames))])
		id := uuid.NewSHA1(uuid.NameSpaceOID, fmt.Appendf(nil, "synthetic:%d:%d", opts.Seed, i)).String()
		g := Generated{Patient: repository.Patient{ID: id, Name: name}}

		n := 0
		if opts.MaxCards > 0 {
			n = r.IntN(opts.MaxCards + 1)
		}
		for j := range n {
			g.Cards = append(g.Cards, repository.Card{
				ID:           uuid.NewSHA1(uuid.NameSpaceOID, fmt.Appendf(nil, "%s:card:%d", id, j)).String(),
				PatientID:    id,
				Date:         until.AddDate(0, 0, -r.IntN(3*365)),
				Title:        visitTitles[r.IntN(len(visitTitles))],
				Practitioner: clinicians[r.IntN(len(clinicians))],
				Seq:          j,
			})
		}
		out = append(out, g)
	}
	return out
}

// Seed writes generated patients through repos and returns how many cards
// were new.
func Seed(ctx context.Context, repos Repos, opts Options) (int, error) {
	cards := 0
	for _, g := range Generate(opts) {
		if err := repos.Patients.Upsert(ctx, g.Patient); err != nil {
			return cards, fmt.Errorf("patient %s: %w", g.Patient.Name, err)
		}
		for _, c := range g.Cards {
			written, err := repos.Cards.Insert(ctx, c)
			if err != nil {
				return cards, fmt.Errorf("card %s: %w", c.ID, err)
			}
			if written {
				cards++
			}
		}
	}
	return cards, nil
}

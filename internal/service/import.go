package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/jask/patientrecords/internal/database/repository"
)

// Supported import formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ImportService loads patient documents into the database.
type ImportService struct {
	Patients *repository.PatientRepo
	Cards    *repository.CardRepo
}

// ImportResult reports what an import did. Errors are per record; a document
// that cannot be decoded at all is returned as the call's error instead.
type ImportResult struct {
	Imported int // patients written
	Cards    int // new cards written
	Skipped  int // cards already present
	Errors   []error
}

type patientFile struct {
	Patients []patientDoc `json:"patients" yaml:"patients"`
}

type patientDoc struct {
	ID    string    `json:"id" yaml:"id"`
	Name  string    `json:"name" yaml:"name"`
	Cards []cardDoc `json:"cards" yaml:"cards"`
}

type cardDoc struct {
	ID           string `json:"id" yaml:"id"`
	Date         string `json:"date" yaml:"date"`
	Title        string `json:"title" yaml:"title"`
	Practitioner string `json:"practitioner" yaml:"practitioner"`
	Notes        string `json:"notes" yaml:"notes"`
}

// FormatFromPath picks yaml for .yaml/.yml files and json otherwise.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Import decodes r in the given format and upserts every patient in it.
// Cards are deduplicated by id; ids missing from the document are derived
// from the card contents so re-importing the same file is a no-op.
func (s *ImportService) Import(ctx context.Context, r io.Reader, format string) (ImportResult, error) {
	doc, err := decode(r, format)
	if err != nil {
		return ImportResult{}, err
	}

	res := ImportResult{}
	for i, pd := range doc.Patients {
		name := strings.TrimSpace(pd.Name)
		if name == "" {
			res.Errors = append(res.Errors, fmt.Errorf("patient %d: name required", i+1))
			continue
		}
		id := strings.TrimSpace(pd.ID)
		if id == "" {
			id = PatientID(name)
		}
		if err := s.Patients.Upsert(ctx, repository.Patient{ID: id, Name: name}); err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("patient %d upsert: %w", i+1, err))
			continue
		}
		res.Imported++

		seq, err := s.Cards.NextSeq(ctx, id)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("patient %d cards: %w", i+1, err))
			continue
		}
		for j, cd := range pd.Cards {
			date, err := parseCardDate(cd.Date)
			if err != nil {
				res.Errors = append(res.Errors, fmt.Errorf("patient %d card %d date: %w", i+1, j+1, err))
				continue
			}
			c := repository.Card{
				ID:           strings.TrimSpace(cd.ID),
				PatientID:    id,
				Date:         date,
				Title:        strings.TrimSpace(cd.Title),
				Practitioner: strings.TrimSpace(cd.Practitioner),
				Notes:        strings.TrimSpace(cd.Notes),
				Seq:          seq,
			}
			if c.ID == "" {
				c.ID = cardID(c)
			}
			written, err := s.Cards.Insert(ctx, c)
			if err != nil {
				res.Errors = append(res.Errors, fmt.Errorf("patient %d card %d insert: %w", i+1, j+1, err))
				continue
			}
			if !written {
				res.Skipped++
				continue
			}
			seq++
			res.Cards++
		}
	}
	log.Info().
		Int("patients", res.Imported).
		Int("cards", res.Cards).
		Int("skipped", res.Skipped).
		Int("errors", len(res.Errors)).
		Msg("import finished")
	return res, nil
}

func decode(r io.Reader, format string) (patientFile, error) {
	var doc patientFile
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatYAML, "yml":
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return patientFile{}, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatJSON, "":
		if err := json.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return patientFile{}, fmt.Errorf("decode json: %w", err)
		}
	default:
		return patientFile{}, fmt.Errorf("unsupported import format %q", format)
	}
	return doc, nil
}

// parseCardDate accepts YYYY-MM-DD or RFC 3339 and keeps the calendar day.
func parseCardDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is not a date", s)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// PatientID derives a stable id from a patient name.
func PatientID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("patient:"+strings.TrimSpace(name))).String()
}

func cardID(c repository.Card) string {
	key := strings.Join([]string{c.PatientID, c.Date.Format(time.DateOnly), c.Title, c.Practitioner, c.Notes}, "|")
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("card:"+key)).String()
}

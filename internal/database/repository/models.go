package repository

import "time"

// Patient represents a patient row.
type Patient struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Card represents a consultation card row. Date has day precision.
type Card struct {
	ID           string
	PatientID    string
	Date         time.Time
	Title        string
	Practitioner string
	Notes        string
	Seq          int
}

package records

import "time"

// Patient is a record holder with an ordered card list.
type Patient struct {
	ID    string
	Name  string
	Cards []Card
}

// Card is a dated clinical entry. Only Date is interpreted by the view model.
type Card struct {
	ID           string
	Date         time.Time
	Title        string
	Practitioner string
	Notes        string
}

// DateFilter is an inclusive range. A zero bound is unset.
type DateFilter struct {
	From time.Time
	To   time.Time
}

// IsZero reports whether neither bound is set.
func (f DateFilter) IsZero() bool {
	return f.From.IsZero() && f.To.IsZero()
}

// Contains reports whether t lies within the set bounds.
func (f DateFilter) Contains(t time.Time) bool {
	if !f.From.IsZero() && t.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && t.After(f.To) {
		return false
	}
	return true
}

// FilterChange bundles updates to the watched fields. Nil fields are left alone.
type FilterChange struct {
	Search *string
	Dates  *DateFilter
}

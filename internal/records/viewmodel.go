package records

import (
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
)

const defaultPageSize = 3

// ViewModel owns the derived state of the patient browsing screen.
// It is not safe for concurrent use; a single UI loop owns it.
type ViewModel struct {
	patients             []Patient
	pageSize             int
	consultationPageSize int

	searchTerm          string
	activeIndex         string
	selectedCardIndices map[string]int
	dateFilter          DateFilter
	consultationPages   map[string]int
	sortDescending      bool
	currentPage         int

	onReset func()
	log     zerolog.Logger
	fold    cases.Caser
}

// Option configures a ViewModel.
type Option func(*ViewModel)

// WithPageSize sets how many patients a page holds.
func WithPageSize(n int) Option {
	return func(v *ViewModel) {
		if n > 0 {
			v.pageSize = n
		}
	}
}

// WithConsultationPageSize sets how many cards a patient's page holds.
func WithConsultationPageSize(n int) Option {
	return func(v *ViewModel) {
		if n > 0 {
			v.consultationPageSize = n
		}
	}
}

// WithResetHook registers fn to run after every filter-driven reset.
func WithResetHook(fn func()) Option {
	return func(v *ViewModel) { v.onReset = fn }
}

func WithLogger(l zerolog.Logger) Option {
	return func(v *ViewModel) { v.log = l }
}

// New builds a view model over patients. The slice is shared, not copied.
func New(patients []Patient, opts ...Option) *ViewModel {
	v := &ViewModel{
		patients:             patients,
		pageSize:             defaultPageSize,
		consultationPageSize: defaultPageSize,
		activeIndex:          "0",
		selectedCardIndices:  map[string]int{},
		consultationPages:    map[string]int{},
		sortDescending:       true,
		currentPage:          1,
		log:                  zerolog.Nop(),
		fold:                 cases.Fold(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *ViewModel) Patients() []Patient       { return v.patients }
func (v *ViewModel) SearchTerm() string        { return v.searchTerm }
func (v *ViewModel) DateFilter() DateFilter    { return v.dateFilter }
func (v *ViewModel) SortDescending() bool      { return v.sortDescending }
func (v *ViewModel) CurrentPage() int          { return v.currentPage }
func (v *ViewModel) ActiveIndex() string       { return v.activeIndex }
func (v *ViewModel) PageSize() int             { return v.pageSize }
func (v *ViewModel) ConsultationPageSize() int { return v.consultationPageSize }

// SetPatients swaps the collection. Per-patient state is kept, stale or not.
func (v *ViewModel) SetPatients(patients []Patient) {
	v.patients = patients
}

// SetActiveIndex stores the id of the open panel. The value is not interpreted.
func (v *ViewModel) SetActiveIndex(idx string) {
	v.activeIndex = idx
}

// SetSearchTerm replaces the search term and resets paging and selections
// when the term actually changes.
func (v *ViewModel) SetSearchTerm(term string) {
	v.ApplyFilter(FilterChange{Search: &term})
}

// SetDateFilter replaces the global date filter and resets paging and selections.
func (v *ViewModel) SetDateFilter(f DateFilter) {
	v.ApplyFilter(FilterChange{Dates: &f})
}

// ClearGlobalFilter unsets both date bounds.
func (v *ViewModel) ClearGlobalFilter() {
	v.SetDateFilter(DateFilter{})
}

// ApplyFilter writes every field set in c, then resets once if anything changed.
// A date filter assignment always counts as a change.
func (v *ViewModel) ApplyFilter(c FilterChange) {
	changed := false
	if c.Search != nil && *c.Search != v.searchTerm {
		v.searchTerm = *c.Search
		changed = true
	}
	if c.Dates != nil {
		v.dateFilter = *c.Dates
		changed = true
	}
	if changed {
		v.reset()
	}
}

func (v *ViewModel) reset() {
	v.consultationPages = map[string]int{}
	v.selectedCardIndices = map[string]int{}
	v.currentPage = 1
	v.log.Debug().
		Str("search", v.searchTerm).
		Time("from", v.dateFilter.From).
		Time("to", v.dateFilter.To).
		Msg("view state reset")
	if v.onReset != nil {
		v.onReset()
	}
}

// ToggleSortOrder flips between newest-first and oldest-first.
func (v *ViewModel) ToggleSortOrder() {
	v.sortDescending = !v.sortDescending
}

// FilteredPatients returns patients whose name contains the search term,
// ignoring case. An empty term returns the full list.
func (v *ViewModel) FilteredPatients() []Patient {
	if v.searchTerm == "" {
		return v.patients
	}
	term := v.fold.String(v.searchTerm)
	out := make([]Patient, 0, len(v.patients))
	for _, p := range v.patients {
		if strings.Contains(v.fold.String(p.Name), term) {
			out = append(out, p)
		}
	}
	return out
}

// PaginatedPatients returns the current page of FilteredPatients. A page past
// the end is empty.
func (v *ViewModel) PaginatedPatients() []Patient {
	return page(v.FilteredPatients(), v.currentPage, v.pageSize)
}

// TotalPages is zero when nothing matches.
func (v *ViewModel) TotalPages() int {
	return ceilDiv(len(v.FilteredPatients()), v.pageSize)
}

// SetCurrentPage moves the patient page. Values below 1 become 1; there is no
// upper clamp.
func (v *ViewModel) SetCurrentPage(n int) {
	v.currentPage = max(n, 1)
}

func (v *ViewModel) NextPage() {
	if v.currentPage < v.TotalPages() {
		v.currentPage++
	}
}

func (v *ViewModel) PrevPage() {
	if v.currentPage > 1 {
		v.currentPage--
	}
}

// PatientByID looks a patient up in the full collection.
func (v *ViewModel) PatientByID(id string) (Patient, bool) {
	for _, p := range v.patients {
		if p.ID == id {
			return p, true
		}
	}
	return Patient{}, false
}

// SelectCard records idx as the selected position for the patient. idx is not
// checked against the card count.
func (v *ViewModel) SelectCard(patientID string, idx int) {
	v.selectedCardIndices[patientID] = idx
}

func (v *ViewModel) SelectedCardIndex(patientID string) (int, bool) {
	idx, ok := v.selectedCardIndices[patientID]
	return idx, ok
}

// SelectedCard resolves the stored index against the patient's filtered and
// sorted cards.
func (v *ViewModel) SelectedCard(patientID string) (Card, bool) {
	p, ok := v.PatientByID(patientID)
	if !ok {
		return Card{}, false
	}
	idx, ok := v.selectedCardIndices[patientID]
	if !ok {
		return Card{}, false
	}
	cards := v.FilteredAndSortedCards(p)
	if idx < 0 || idx >= len(cards) {
		return Card{}, false
	}
	return cards[idx], true
}

// FilteredAndSortedCards returns a new slice of p's cards inside the date
// filter, ordered by date. Equal dates keep their stored order.
func (v *ViewModel) FilteredAndSortedCards(p Patient) []Card {
	cards := make([]Card, 0, len(p.Cards))
	for _, c := range p.Cards {
		if v.dateFilter.Contains(c.Date) {
			cards = append(cards, c)
		}
	}
	slices.SortStableFunc(cards, func(a, b Card) int {
		if v.sortDescending {
			return b.Date.Compare(a.Date)
		}
		return a.Date.Compare(b.Date)
	})
	return cards
}

// ConsultationPage is the patient's card page, 1 when unset.
func (v *ViewModel) ConsultationPage(patientID string) int {
	if n, ok := v.consultationPages[patientID]; ok && n > 0 {
		return n
	}
	return 1
}

func (v *ViewModel) SetConsultationPage(patientID string, n int) {
	v.consultationPages[patientID] = max(n, 1)
}

func (v *ViewModel) NextConsultationPage(p Patient) {
	cur := v.ConsultationPage(p.ID)
	if cur < v.TotalConsultationPages(p) {
		v.consultationPages[p.ID] = cur + 1
	}
}

func (v *ViewModel) PrevConsultationPage(p Patient) {
	cur := v.ConsultationPage(p.ID)
	if cur > 1 {
		v.consultationPages[p.ID] = cur - 1
	}
}

func (v *ViewModel) PaginatedFilteredCards(p Patient) []Card {
	return page(v.FilteredAndSortedCards(p), v.ConsultationPage(p.ID), v.consultationPageSize)
}

// TotalConsultationPages never reports fewer than one page.
func (v *ViewModel) TotalConsultationPages(p Patient) int {
	return max(ceilDiv(len(v.FilteredAndSortedCards(p)), v.consultationPageSize), 1)
}

// SelectedCardIndices returns a copy of the per-patient selections.
func (v *ViewModel) SelectedCardIndices() map[string]int {
	out := make(map[string]int, len(v.selectedCardIndices))
	for k, n := range v.selectedCardIndices {
		out[k] = n
	}
	return out
}

// ConsultationPages returns a copy of the per-patient card pages.
func (v *ViewModel) ConsultationPages() map[string]int {
	out := make(map[string]int, len(v.consultationPages))
	for k, n := range v.consultationPages {
		out[k] = n
	}
	return out
}

// Suggestion offers the closest patient name when a non-empty search term
// matches nobody.
func (v *ViewModel) Suggestion() (string, bool) {
	if v.searchTerm == "" || len(v.patients) == 0 || len(v.FilteredPatients()) > 0 {
		return "", false
	}
	term := v.fold.String(v.searchTerm)
	type scored struct {
		name string
		dist int
	}
	best := scored{dist: -1}
	for _, p := range v.patients {
		d := nameDistance(term, v.fold.String(p.Name))
		if best.dist < 0 || d < best.dist {
			best = scored{name: p.Name, dist: d}
		}
	}
	return best.name, true
}

// nameDistance scores the term against the whole name and each word of it.
func nameDistance(term, name string) int {
	d := levenshtein.ComputeDistance(term, name)
	for _, w := range strings.Fields(name) {
		d = min(d, levenshtein.ComputeDistance(term, w))
	}
	return d
}

func page[T any](items []T, n, size int) []T {
	start := (n - 1) * size
	if start < 0 || start >= len(items) {
		return []T{}
	}
	end := min(start+size, len(items))
	return items[start:end]
}

func ceilDiv(n, d int) int {
	return (n + d - 1) / d
}

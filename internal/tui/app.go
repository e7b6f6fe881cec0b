package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/jask/patientrecords/internal/records"
)

// PatientLoader supplies the collection to browse.
type PatientLoader interface {
	Load(ctx context.Context) ([]records.Patient, error)
}

// Options carries presentation settings.
type Options struct {
	DateFormat string
	Location   *time.Location
	Layers     []Layer
	Now        func() time.Time
}

// App binds key input to a records.ViewModel and renders it.
type App struct {
	ctx        context.Context
	vm         *records.ViewModel
	loader     PatientLoader
	keys       *KeyRegistry
	theme      *Theme
	components *Components

	route     route
	mode      inputMode
	input     string
	status    string
	statusErr bool
	loaded    bool

	dateFormat string
	tz         *time.Location
	now        func() time.Time
}

type route string

const (
	routeRecords route = "records"
	routeHelp    route = "help"
)

type inputMode string

const (
	modeBrowse inputMode = "browse"
	modeSearch inputMode = "search"
	modeFilter inputMode = "filter"
)

func New(ctx context.Context, vm *records.ViewModel, loader PatientLoader, opts Options) *App {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.DateFormat == "" {
		opts.DateFormat = time.DateOnly
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	theme := NewTheme(opts.Layers)
	components := NewComponents(theme)
	registerDefaults(components)
	return &App{
		ctx:        ctx,
		vm:         vm,
		loader:     loader,
		keys:       NewKeyRegistry(DefaultKeyBindings()),
		theme:      theme,
		components: components,
		route:      routeRecords,
		mode:       modeBrowse,
		dateFormat: opts.DateFormat,
		tz:         opts.Location,
		now:        opts.Now,
	}
}

func (a *App) Init() tea.Cmd {
	return a.loadPatients()
}

func (a *App) loadPatients() tea.Cmd {
	if a.loader == nil {
		return nil
	}
	return func() tea.Msg {
		list, err := a.loader.Load(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return patientsMsg(list)
	}
}

func (a *App) scope() string {
	if a.route == routeHelp {
		return scopeHelp
	}
	switch a.mode {
	case modeSearch:
		return scopeSearch
	case modeFilter:
		return scopeFilter
	}
	return scopeBrowse
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(m)
	case patientsMsg:
		a.vm.SetPatients([]records.Patient(m))
		a.loaded = true
		a.clampActive()
		a.setStatus(fmt.Sprintf("%d patients", len(m)))
		log.Debug().Int("patients", len(m)).Msg("patients loaded")
	case errMsg:
		a.setError(m.error)
		log.Error().Err(m.error).Msg("tui command failed")
	}
	return a, nil
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	scope := a.scope()
	action := a.keys.Action(m, scope)
	if action == actQuit {
		return a, tea.Quit
	}
	switch scope {
	case scopeHelp:
		if action == actBack {
			a.route = routeRecords
		}
		return a, nil
	case scopeSearch:
		a.handleSearchKey(m, action)
		return a, nil
	case scopeFilter:
		a.handleFilterKey(m, action)
		return a, nil
	}

	switch action {
	case actHelp:
		a.route = routeHelp
	case actSearch:
		a.mode = modeSearch
	case actFilter:
		a.mode = modeFilter
		a.input = FormatDateRange(a.vm.DateFilter())
	case actClear:
		a.vm.ClearGlobalFilter()
		a.vm.SetActiveIndex("0")
		a.setStatus("date filter cleared")
	case actSort:
		a.vm.ToggleSortOrder()
		if a.vm.SortDescending() {
			a.setStatus("newest first")
		} else {
			a.setStatus("oldest first")
		}
	case actNextPage:
		before := a.vm.CurrentPage()
		a.vm.NextPage()
		if a.vm.CurrentPage() != before {
			a.vm.SetActiveIndex("0")
		}
	case actPrevPage:
		before := a.vm.CurrentPage()
		a.vm.PrevPage()
		if a.vm.CurrentPage() != before {
			a.vm.SetActiveIndex("0")
		}
	case actPanelUp:
		a.movePanel(-1)
	case actPanelDown:
		a.movePanel(1)
	case actCardPrev:
		a.moveCard(-1)
	case actCardNext:
		a.moveCard(1)
	case actCardPgPrev:
		if p, ok := a.activePatient(); ok {
			a.vm.PrevConsultationPage(p)
		}
	case actCardPgNext:
		if p, ok := a.activePatient(); ok {
			a.vm.NextConsultationPage(p)
		}
	case actReload:
		a.setStatus("loading...")
		return a, a.loadPatients()
	}
	return a, nil
}

func (a *App) handleSearchKey(m tea.KeyMsg, action string) {
	switch action {
	case actSubmit, actCancel:
		a.mode = modeBrowse
		return
	case actClearInput:
		a.setSearch("")
		return
	}
	term := a.vm.SearchTerm()
	switch m.Type {
	case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
		if r := []rune(term); len(r) > 0 {
			a.setSearch(string(r[:len(r)-1]))
		}
	case tea.KeySpace:
		a.setSearch(term + " ")
	case tea.KeyRunes:
		a.setSearch(term + string(m.Runes))
	}
}

func (a *App) setSearch(term string) {
	if term == a.vm.SearchTerm() {
		return
	}
	a.vm.SetSearchTerm(term)
	a.vm.SetActiveIndex("0")
}

func (a *App) handleFilterKey(m tea.KeyMsg, action string) {
	switch action {
	case actCancel:
		a.mode = modeBrowse
		a.input = ""
		return
	case actClearInput:
		a.input = ""
		return
	case actSubmit:
		f, err := ParseDateRange(a.input, a.now(), a.tz)
		if err != nil {
			a.setError(err)
			return
		}
		a.vm.ApplyFilter(records.FilterChange{Dates: &f})
		a.vm.SetActiveIndex("0")
		a.mode = modeBrowse
		a.input = ""
		if f.IsZero() {
			a.setStatus("date filter cleared")
		} else {
			a.setStatus("date filter " + FormatDateRange(f))
		}
		return
	}
	switch m.Type {
	case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
		if len(a.input) > 0 {
			a.input = a.input[:len(a.input)-1]
		}
	case tea.KeyRunes:
		a.input += string(m.Runes)
	}
}

// activeIndex decodes the open panel position on the current page.
func (a *App) activeIndex() int {
	n, err := strconv.Atoi(a.vm.ActiveIndex())
	if err != nil {
		return -1
	}
	return n
}

func (a *App) activePatient() (records.Patient, bool) {
	page := a.vm.PaginatedPatients()
	idx := a.activeIndex()
	if idx < 0 || idx >= len(page) {
		return records.Patient{}, false
	}
	return page[idx], true
}

func (a *App) movePanel(delta int) {
	n := len(a.vm.PaginatedPatients())
	if n == 0 {
		return
	}
	idx := min(max(a.activeIndex()+delta, 0), n-1)
	a.vm.SetActiveIndex(strconv.Itoa(idx))
}

func (a *App) clampActive() {
	n := len(a.vm.PaginatedPatients())
	if idx := a.activeIndex(); idx < 0 || idx >= n {
		a.vm.SetActiveIndex("0")
	}
}

// moveCard walks the selection across the whole filtered card list and keeps
// the card page in step with it.
func (a *App) moveCard(delta int) {
	p, ok := a.activePatient()
	if !ok {
		return
	}
	cards := a.vm.FilteredAndSortedCards(p)
	if len(cards) == 0 {
		a.setStatus("no cards in range")
		return
	}
	size := a.vm.ConsultationPageSize()
	idx, ok := a.vm.SelectedCardIndex(p.ID)
	if !ok || idx < 0 || idx >= len(cards) {
		idx = min((a.vm.ConsultationPage(p.ID)-1)*size, len(cards)-1)
	} else {
		idx = min(max(idx+delta, 0), len(cards)-1)
	}
	a.vm.SelectCard(p.ID, idx)
	a.vm.SetConsultationPage(p.ID, idx/size+1)
}

func (a *App) setStatus(msg string) {
	a.status = msg
	a.statusErr = false
}

func (a *App) setError(err error) {
	if err == nil {
		a.status = ""
		a.statusErr = false
		return
	}
	a.status = "error: " + err.Error()
	a.statusErr = true
}

func (a *App) View() string {
	var body string
	switch a.route {
	case routeHelp:
		body = a.renderHelp()
	default:
		body = a.renderRecords()
	}
	if a.status != "" {
		el := elStatus
		if a.statusErr {
			el = elStatusError
		}
		body += "\n" + a.theme.Style(el).Render(a.status)
	}
	return body
}

func (a *App) renderRecords() string {
	var b strings.Builder
	b.WriteString(a.theme.Style(elTitle).Render("Patient Records"))
	b.WriteString(" " + a.renderSummary())
	b.WriteString("\n")

	switch {
	case a.mode == modeSearch:
		b.WriteString(a.theme.Style(elPrompt).Render("Search: "+a.vm.SearchTerm()+"▌") + "\n")
	case a.vm.SearchTerm() != "":
		b.WriteString(a.theme.Style(elMuted).Render("Search: "+a.vm.SearchTerm()) + "\n")
	}
	if a.mode == modeFilter {
		b.WriteString(a.theme.Style(elPrompt).Render("Dates (YYYY-MM-DD..YYYY-MM-DD): "+a.input+"▌") + "\n")
	}
	b.WriteString("\n")

	page := a.vm.PaginatedPatients()
	if len(page) == 0 {
		b.WriteString(a.renderEmpty())
	} else {
		active := a.activeIndex()
		panels := make([]string, 0, len(page))
		for i, p := range page {
			panels = append(panels, a.renderPanel(p, i == active))
		}
		b.WriteString(a.components.Render("accordion", Props{Children: panels}))

		if p, ok := a.activePatient(); ok {
			if card, ok := a.vm.SelectedCard(p.ID); ok {
				b.WriteString("\n" + a.renderDetail(card))
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(a.renderFooter())
	return b.String()
}

func (a *App) renderSummary() string {
	parts := []string{
		a.components.Render("tag", Props{Title: fmt.Sprintf("page %d/%d", a.vm.CurrentPage(), max(a.vm.TotalPages(), 1))}),
	}
	if a.vm.SortDescending() {
		parts = append(parts, a.components.Render("tag", Props{Title: "newest first"}))
	} else {
		parts = append(parts, a.components.Render("tag", Props{Title: "oldest first"}))
	}
	if f := a.vm.DateFilter(); !f.IsZero() {
		parts = append(parts, a.components.Render("tag", Props{Title: "dates " + FormatDateRange(f)}))
	}
	return strings.Join(parts, " ")
}

func (a *App) renderEmpty() string {
	if !a.loaded && len(a.vm.Patients()) == 0 {
		return a.theme.Style(elMuted).Render("Loading patients...")
	}
	out := a.theme.Style(elMuted).Render("No patients match")
	if name, ok := a.vm.Suggestion(); ok {
		out += "\n" + a.theme.Style(elSuggestion).Render("Did you mean "+name+"?")
	}
	return out
}

func (a *App) renderPanel(p records.Patient, active bool) string {
	cards := a.vm.FilteredAndSortedCards(p)
	count := a.components.Render("tag", Props{Title: fmt.Sprintf("%d cards", len(cards))})
	header := a.components.Render("accordion-header", Props{Title: p.Name, Body: count, Active: active})
	children := []string{header}
	if active {
		children = append(children, a.components.Render("accordion-content", Props{Children: a.renderCards(p)}))
	}
	return a.components.Render("accordion-panel", Props{Children: children})
}

func (a *App) renderCards(p records.Patient) []string {
	pageCards := a.vm.PaginatedFilteredCards(p)
	if len(pageCards) == 0 {
		return []string{a.theme.Style(elMuted).Render("No consultations in range")}
	}
	selected, hasSelected := a.vm.SelectedCardIndex(p.ID)
	offset := (a.vm.ConsultationPage(p.ID) - 1) * a.vm.ConsultationPageSize()
	rendered := make([]string, 0, len(pageCards))
	for i, c := range pageCards {
		rendered = append(rendered, a.components.Render("card", Props{
			Title:  c.Date.Format(a.dateFormat),
			Body:   c.Title,
			Active: hasSelected && selected == offset+i,
		}))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	pager := a.theme.Style(elMuted).Render(fmt.Sprintf("cards page %d/%d", a.vm.ConsultationPage(p.ID), a.vm.TotalConsultationPages(p)))
	return []string{row, pager}
}

func (a *App) renderDetail(c records.Card) string {
	label := a.theme.Style(elDetailLabel)
	lines := []string{
		label.Render("Date: ") + c.Date.Format(a.dateFormat),
		label.Render("Title: ") + c.Title,
	}
	if c.Practitioner != "" {
		lines = append(lines, label.Render("Practitioner: ")+c.Practitioner)
	}
	if c.Notes != "" {
		lines = append(lines, label.Render("Notes: ")+c.Notes)
	}
	return a.theme.Style(elDetail).Render(strings.Join(lines, "\n"))
}

func (a *App) renderFooter() string {
	bindings := a.keys.BindingsForScope(a.scope())
	hints := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		if kb.Keys[0] == "ctrl+c" {
			continue
		}
		hints = append(hints, fmt.Sprintf("[%s] %s", kb.Keys[0], kb.Description))
	}
	hint := "? for all keys"
	if a.mode != modeBrowse {
		hint = ""
	}
	return a.components.Apply("tooltip", strings.Join(hints, "  "), hint)
}

func (a *App) renderHelp() string {
	var b strings.Builder
	b.WriteString(a.theme.Style(elTitle).Render("Keys") + "\n")
	for _, scope := range []string{scopeBrowse, scopeSearch, scopeFilter} {
		b.WriteString("\n" + a.theme.Style(elDetailLabel).Render(scope) + "\n")
		for _, kb := range a.keys.BindingsForScope(scope) {
			b.WriteString(fmt.Sprintf("  %-14s %s\n", strings.Join(kb.Keys, ", "), kb.Description))
		}
	}
	b.WriteString("\n" + a.theme.Style(elMuted).Render("[esc] back  [q] quit"))
	return b.String()
}

// messages
type patientsMsg []records.Patient

type errMsg struct{ error }

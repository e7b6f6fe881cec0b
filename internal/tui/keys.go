package tui

import (
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Key scopes follow the active input mode or route.
const (
	scopeBrowse = "browse"
	scopeSearch = "search"
	scopeFilter = "filter"
	scopeHelp   = "help"
)

// Actions.
const (
	actQuit       = "quit"
	actHelp       = "help"
	actBack       = "back"
	actSearch     = "search"
	actFilter     = "filter"
	actClear      = "clear-filter"
	actSort       = "toggle-sort"
	actNextPage   = "next-page"
	actPrevPage   = "prev-page"
	actPanelUp    = "panel-up"
	actPanelDown  = "panel-down"
	actCardPrev   = "card-prev"
	actCardNext   = "card-next"
	actCardPgPrev = "card-page-prev"
	actCardPgNext = "card-page-next"
	actReload     = "reload"
	actSubmit     = "submit"
	actCancel     = "cancel"
	actClearInput = "clear-input"
)

type KeyBinding struct {
	Keys        []string
	Action      string
	Description string
	Scopes      []string
}

type KeyRegistry struct {
	bindings []KeyBinding
}

func NewKeyRegistry(bindings []KeyBinding) *KeyRegistry {
	return &KeyRegistry{bindings: slices.Clone(bindings)}
}

func (r *KeyRegistry) Register(binding KeyBinding) {
	r.bindings = append(r.bindings, binding)
}

func (r *KeyRegistry) BindingsForScope(scope string) []KeyBinding {
	out := make([]KeyBinding, 0, len(r.bindings))
	for _, b := range r.bindings {
		if scopeMatch(scope, b.Scopes) {
			out = append(out, b)
		}
	}
	return out
}

// Action returns the action bound to msg in scope, or "" when none is.
func (r *KeyRegistry) Action(msg tea.KeyMsg, scope string) string {
	pressed := normalizeKey(msg.String())
	for _, b := range r.bindings {
		if !scopeMatch(scope, b.Scopes) {
			continue
		}
		for _, k := range b.Keys {
			if normalizeKey(k) == pressed {
				return b.Action
			}
		}
	}
	return ""
}

func (r *KeyRegistry) IsAction(msg tea.KeyMsg, action, scope string) bool {
	return r.Action(msg, scope) == action
}

// DefaultKeyBindings is the stock key map.
func DefaultKeyBindings() []KeyBinding {
	browse := []string{scopeBrowse}
	input := []string{scopeSearch, scopeFilter}
	return []KeyBinding{
		{Keys: []string{"ctrl+c"}, Action: actQuit, Description: "quit", Scopes: []string{"*"}},
		{Keys: []string{"enter"}, Action: actSubmit, Description: "apply", Scopes: input},
		{Keys: []string{"esc"}, Action: actCancel, Description: "done", Scopes: input},
		{Keys: []string{"ctrl+u"}, Action: actClearInput, Description: "clear input", Scopes: input},
		{Keys: []string{"q"}, Action: actQuit, Description: "quit", Scopes: []string{scopeBrowse, scopeHelp}},
		{Keys: []string{"/"}, Action: actSearch, Description: "search", Scopes: browse},
		{Keys: []string{"f"}, Action: actFilter, Description: "date filter", Scopes: browse},
		{Keys: []string{"c"}, Action: actClear, Description: "clear dates", Scopes: browse},
		{Keys: []string{"s"}, Action: actSort, Description: "sort order", Scopes: browse},
		{Keys: []string{"n", "pgdown"}, Action: actNextPage, Description: "next page", Scopes: browse},
		{Keys: []string{"p", "pgup"}, Action: actPrevPage, Description: "prev page", Scopes: browse},
		{Keys: []string{"up", "k"}, Action: actPanelUp, Description: "prev patient", Scopes: browse},
		{Keys: []string{"down", "j"}, Action: actPanelDown, Description: "next patient", Scopes: browse},
		{Keys: []string{"left", "h"}, Action: actCardPrev, Description: "prev card", Scopes: browse},
		{Keys: []string{"right", "l"}, Action: actCardNext, Description: "next card", Scopes: browse},
		{Keys: []string{"["}, Action: actCardPgPrev, Description: "prev card page", Scopes: browse},
		{Keys: []string{"]"}, Action: actCardPgNext, Description: "next card page", Scopes: browse},
		{Keys: []string{"r"}, Action: actReload, Description: "reload", Scopes: browse},
		{Keys: []string{"?"}, Action: actHelp, Description: "help", Scopes: browse},
		{Keys: []string{"esc", "?"}, Action: actBack, Description: "back", Scopes: []string{scopeHelp}},
	}
}

func normalizeKey(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}

func scopeMatch(scope string, scopes []string) bool {
	if len(scopes) == 0 {
		return true
	}
	for _, s := range scopes {
		if s == "*" || s == scope {
			return true
		}
	}
	return false
}

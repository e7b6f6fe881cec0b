package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Catppuccin Mocha palette, a subset of https://catppuccin.com/palette
const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorMauve    lipgloss.Color = "#cba6f7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorPeach    lipgloss.Color = "#fab387"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorLavender lipgloss.Color = "#b4befe"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
)

const (
	colorAccent  = colorPink
	colorFocus   = colorLavender
	colorSuccess = colorGreen
	colorError   = colorRed
	colorInfo    = colorTeal
)

// Layer names a tier of style rules. Later layers in a theme's order win.
type Layer string

const (
	LayerTheme      Layer = "theme"
	LayerBase       Layer = "base"
	LayerComponents Layer = "components"
)

// DefaultLayers is the stock precedence: palette, then structure, then
// component overrides.
var DefaultLayers = []Layer{LayerTheme, LayerBase, LayerComponents}

// Style element names.
const (
	elTitle        = "title"
	elPanel        = "panel"
	elHeader       = "header"
	elHeaderActive = "header.active"
	elCard         = "card"
	elCardSelected = "card.selected"
	elTag          = "tag"
	elTooltip      = "tooltip"
	elStatus       = "status"
	elStatusError  = "status.error"
	elMuted        = "muted"
	elPrompt       = "prompt"
	elDetail       = "detail"
	elDetailLabel  = "detail.label"
	elSuggestion   = "suggestion"
)

var elements = []string{
	elTitle, elPanel, elHeader, elHeaderActive, elCard, elCardSelected, elTag,
	elTooltip, elStatus, elStatusError, elMuted, elPrompt, elDetail, elDetailLabel,
	elSuggestion,
}

type layerRules func(element string, s lipgloss.Style) lipgloss.Style

var layerSet = map[Layer]layerRules{
	LayerTheme:      themeRules,
	LayerBase:       baseRules,
	LayerComponents: componentRules,
}

// themeRules carries colour only.
func themeRules(el string, s lipgloss.Style) lipgloss.Style {
	switch el {
	case elTitle:
		return s.Foreground(colorAccent)
	case elHeader, elCard, elDetail:
		return s.Foreground(colorText).BorderForeground(colorSurface1)
	case elHeaderActive, elCardSelected:
		return s.Foreground(colorText).BorderForeground(colorFocus)
	case elTag:
		return s.Foreground(colorSurface0).Background(colorInfo)
	case elTooltip, elMuted:
		return s.Foreground(colorOverlay0)
	case elStatus:
		return s.Foreground(colorSuccess)
	case elStatusError:
		return s.Foreground(colorError)
	case elPrompt:
		return s.Foreground(colorYellow)
	case elDetailLabel:
		return s.Foreground(colorSubtext0)
	case elSuggestion:
		return s.Foreground(colorPeach)
	}
	return s
}

// baseRules carries structure shared by every element.
func baseRules(el string, s lipgloss.Style) lipgloss.Style {
	switch el {
	case elTitle:
		return s.Bold(true).Underline(true)
	case elPanel:
		return s.PaddingLeft(1)
	case elCard, elCardSelected, elDetail:
		return s.Border(lipgloss.NormalBorder()).Padding(0, 1)
	case elTag:
		return s.Padding(0, 1)
	case elStatusError:
		return s.Bold(true)
	}
	return s
}

// componentRules are the component library's own look.
func componentRules(el string, s lipgloss.Style) lipgloss.Style {
	switch el {
	case elHeaderActive:
		return s.Bold(true).Foreground(colorFocus)
	case elCard:
		return s.Border(lipgloss.RoundedBorder())
	case elCardSelected:
		return s.Border(lipgloss.ThickBorder()).BorderForeground(colorAccent)
	case elTag:
		return s.Background(colorBlue)
	case elTooltip:
		return s.Italic(true)
	case elDetailLabel:
		return s.Foreground(colorMauve).Bold(true)
	}
	return s
}

// Theme resolves element styles by applying layers in order.
type Theme struct {
	order  []Layer
	styles map[string]lipgloss.Style
}

// ParseLayers reads a comma separated layer order. Every layer must appear
// exactly once.
func ParseLayers(s string) ([]Layer, error) {
	if strings.TrimSpace(s) == "" {
		return DefaultLayers, nil
	}
	seen := map[Layer]bool{}
	var out []Layer
	for _, part := range strings.Split(s, ",") {
		l := Layer(strings.ToLower(strings.TrimSpace(part)))
		if _, ok := layerSet[l]; !ok {
			return nil, fmt.Errorf("unknown theme layer %q", part)
		}
		if seen[l] {
			return nil, fmt.Errorf("theme layer %q listed twice", l)
		}
		seen[l] = true
		out = append(out, l)
	}
	if len(out) != len(layerSet) {
		return nil, fmt.Errorf("theme layers %q: want all of theme, base, components", s)
	}
	return out, nil
}

func NewTheme(order []Layer) *Theme {
	if len(order) == 0 {
		order = DefaultLayers
	}
	t := &Theme{order: order, styles: make(map[string]lipgloss.Style, len(elements))}
	for _, el := range elements {
		s := lipgloss.NewStyle()
		for _, l := range order {
			s = layerSet[l](el, s)
		}
		t.styles[el] = s
	}
	return t
}

func (t *Theme) Layers() []Layer { return t.order }

// Style returns the resolved style for element, or a blank style.
func (t *Theme) Style(element string) lipgloss.Style {
	if s, ok := t.styles[element]; ok {
		return s
	}
	return lipgloss.NewStyle()
}

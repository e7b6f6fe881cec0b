package tui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Props is what a component renders from.
type Props struct {
	Title    string
	Body     string
	Active   bool
	Children []string
}

// Component renders props with the theme.
type Component func(t *Theme, p Props) string

// Directive decorates already rendered text.
type Directive func(t *Theme, text, arg string) string

// Components is the set of named renderers available to views.
type Components struct {
	theme      *Theme
	components map[string]Component
	directives map[string]Directive
}

func NewComponents(t *Theme) *Components {
	return &Components{theme: t, components: map[string]Component{}, directives: map[string]Directive{}}
}

func (c *Components) Component(name string, fn Component) { c.components[name] = fn }

func (c *Components) Directive(name string, fn Directive) { c.directives[name] = fn }

// Render draws the named component, or nothing if it is not registered.
func (c *Components) Render(name string, p Props) string {
	fn, ok := c.components[name]
	if !ok {
		return ""
	}
	return fn(c.theme, p)
}

// Apply runs the named directive over text; unknown directives pass text through.
func (c *Components) Apply(name, text, arg string) string {
	fn, ok := c.directives[name]
	if !ok {
		return text
	}
	return fn(c.theme, text, arg)
}

// Names lists registered component and directive names, sorted.
func (c *Components) Names() []string {
	out := make([]string, 0, len(c.components)+len(c.directives))
	for n := range c.components {
		out = append(out, n)
	}
	for n := range c.directives {
		out = append(out, "v-"+n)
	}
	sort.Strings(out)
	return out
}

// registerDefaults installs the accordion, card, tag and tooltip set.
func registerDefaults(c *Components) {
	c.Component("accordion", func(t *Theme, p Props) string {
		return lipgloss.JoinVertical(lipgloss.Left, p.Children...)
	})
	c.Component("accordion-panel", func(t *Theme, p Props) string {
		return t.Style(elPanel).Render(lipgloss.JoinVertical(lipgloss.Left, p.Children...))
	})
	c.Component("accordion-header", func(t *Theme, p Props) string {
		marker, el := "▸", elHeader
		if p.Active {
			marker, el = "▾", elHeaderActive
		}
		line := t.Style(el).Render(marker + " " + p.Title)
		if p.Body != "" {
			line += " " + p.Body
		}
		return line
	})
	c.Component("accordion-content", func(t *Theme, p Props) string {
		if len(p.Children) == 0 {
			return ""
		}
		return lipgloss.NewStyle().PaddingLeft(2).Render(lipgloss.JoinVertical(lipgloss.Left, p.Children...))
	})
	c.Component("card", func(t *Theme, p Props) string {
		el := elCard
		if p.Active {
			el = elCardSelected
		}
		body := p.Title
		if p.Body != "" {
			body += "\n" + p.Body
		}
		return t.Style(el).Render(body)
	})
	c.Component("tag", func(t *Theme, p Props) string {
		return t.Style(elTag).Render(p.Title)
	})
	c.Directive("tooltip", func(t *Theme, text, arg string) string {
		if strings.TrimSpace(arg) == "" {
			return text
		}
		return text + "  " + t.Style(elTooltip).Render(arg)
	})
}

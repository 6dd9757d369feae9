// Package theme colors the monitor output
package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Color roles mapped to palette positions (0-1)
const (
	RoleMuted   = 0.15
	RoleCC      = 0.4
	RoleNote    = 0.6
	RoleWarning = 0.8
)

type Theme struct {
	Palette *Palette
}

func New(palette *Palette) *Theme {
	if palette == nil {
		palette = Plasma
	}
	return &Theme{Palette: palette}
}

func (t *Theme) Muted() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.color(RoleMuted))
}

func (t *Theme) CC() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.color(RoleCC)).Bold(true)
}

func (t *Theme) Note() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.color(RoleNote)).Bold(true)
}

func (t *Theme) Warning() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.color(RoleWarning))
}

// Value styles a 0-127 data byte along the ramp
func (t *Theme) Value(v uint8) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.color(float64(v) / 127))
}

// Bar renders v as a fixed-width meter
func (t *Theme) Bar(v uint8, width int) string {
	filled := int(v) * width / 127
	bar := make([]rune, width)
	for i := range bar {
		if i < filled {
			bar[i] = '■'
		} else {
			bar[i] = '·'
		}
	}
	return t.Value(v).Render(string(bar))
}

func (t *Theme) color(norm float64) lipgloss.Color {
	c := t.Palette.Lookup(norm)
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}

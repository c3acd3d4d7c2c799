package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Resolve theme (CLI + TUI).

const (
	IconTarget  = "🎯"
	IconSparkle = "✨"
	IconPlus    = "➕"
	IconDone    = "✅"
	IconOpen    = "⬜"
	IconFire    = "🔥"
	IconLock    = "🔒"
	IconUnlock  = "🔓"
	IconTrophy  = "🏆"
	IconInfo    = "ℹ️"
	IconWarn    = "⚠️"
	IconError   = "🧨"
	IconTrash   = "🗑️"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	Title  = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2     = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted  = lipgloss.NewStyle().Foreground(cMuted)
	Key    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good   = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn   = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad    = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold   = lipgloss.NewStyle().Bold(true).Foreground(cGold)
	Struck = lipgloss.NewStyle().Strikethrough(true).Foreground(cMuted)

	Panel       = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
	PanelTitle  = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	SelectedRow = lipgloss.NewStyle().Bold(true).Foreground(cGold).Background(cPrimary)

	BadgeSealed = lipgloss.NewStyle().Bold(true).Foreground(cGold).Render("SEALED")
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

func StatusIcon(completed bool) string {
	if completed {
		return IconDone
	}
	return IconOpen
}

func PriorityText(priority string) string {
	switch strings.ToLower(priority) {
	case "high":
		return Bad.Render(priority)
	case "medium":
		return Warn.Render(priority)
	case "low":
		return Good.Render(priority)
	default:
		return Muted.Render(priority)
	}
}

// CategoryText renders a category as a muted tag; empty renders nothing.
func CategoryText(category string) string {
	if category == "" {
		return ""
	}
	return Muted.Render("#" + strings.ToLower(category))
}

// ProgressBar draws ratio (clamped to [0,1]) as a fixed-width bar.
func ProgressBar(ratio float64, width int) string {
	if width <= 3 {
		width = 3
	}
	if math.IsNaN(ratio) || ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio * float64(width))
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

// Percent formats a 0..100 integer the way headers show it.
func Percent(p int) string {
	switch {
	case p >= 100:
		return Good.Render(fmt.Sprintf("%d%%", p))
	case p >= 50:
		return Warn.Render(fmt.Sprintf("%d%%", p))
	default:
		return Muted.Render(fmt.Sprintf("%d%%", p))
	}
}

// Palette is the board's light or dark surface.
type Palette struct {
	Dark      bool
	Frame     lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Banner    lipgloss.Style
}

func NewPalette(dark bool) Palette {
	bg, fg, border := lipgloss.Color("255"), lipgloss.Color("235"), cMuted
	if dark {
		bg, fg, border = lipgloss.Color("234"), lipgloss.Color("252"), cPrimary
	}
	return Palette{
		Dark:      dark,
		Frame:     lipgloss.NewStyle().Background(bg).Foreground(fg).BorderStyle(lipgloss.RoundedBorder()).BorderForeground(border).Padding(0, 1),
		Tab:       lipgloss.NewStyle().Foreground(cMuted).Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().Bold(true).Foreground(cGold).Background(cPrimary).Padding(0, 1),
		Banner:    lipgloss.NewStyle().Foreground(fg).Background(cAccent).Padding(0, 1),
	}
}

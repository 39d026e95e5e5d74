package monitor

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
)

// Age describes how long ago a snapshot was generated, e.g. "3 minutes ago".
func Age(generated, now time.Time) string {
	if generated.IsZero() {
		return "unknown"
	}
	if generated.After(now) {
		return "just now"
	}
	return humanize.RelTime(generated, now, "ago", "from now")
}

// Table is a column-aligned text table. The last column takes the width
// left over by the others.
type Table struct {
	Headers []string
	Widths  []int
	Rows    [][]string
	// StatusCol is the index of the column rendered with status colors, or -1.
	StatusCol int
}

// Render lays the table out in width cells.
func (t Table) Render(styles Styles, width int) string {
	widths := t.columnWidths(width)
	lines := make([]string, 0, len(t.Rows)+1)
	lines = append(lines, t.renderRow(t.Headers, widths, styles, true))
	for _, row := range t.Rows {
		lines = append(lines, t.renderRow(row, widths, styles, false))
	}
	return strings.Join(lines, "\n")
}

func (t Table) columnWidths(width int) []int {
	widths := append([]int(nil), t.Widths...)
	for len(widths) < len(t.Headers) {
		widths = append(widths, 0)
	}
	last := len(widths) - 1
	if last < 0 {
		return widths
	}
	fixed := 0
	for _, w := range widths[:last] {
		fixed += w
	}
	fixed += last * columnGap
	widths[last] = width - fixed
	if widths[last] < minFlexWidth {
		widths[last] = minFlexWidth
	}
	return widths
}

func (t Table) renderRow(cells []string, widths []int, styles Styles, header bool) string {
	cols := make([]string, len(widths))
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		style := styles.Text
		switch {
		case header:
			style = styles.Header
		case i == t.StatusCol:
			if s, ok := styles.Status[cell]; ok {
				style = s
			}
		}
		cols[i] = pad(cell, w, style)
	}
	return strings.Join(cols, strings.Repeat(" ", columnGap))
}

func pad(s string, width int, style lipgloss.Style) string {
	return style.Width(width).Render(truncate(s, width))
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return truncateToWidth(s, width)
	}
	return truncateToWidth(s, width-3) + "..."
}

func truncateToWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	var b strings.Builder
	current := 0
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if current+rw > width {
			break
		}
		b.WriteRune(r)
		current += rw
	}
	return b.String()
}

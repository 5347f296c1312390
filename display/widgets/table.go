package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Alignment controls cell alignment within a table column.
type Alignment int

const (
	// AlignLeft is the default and fits identifiers (mounts, disk names).
	AlignLeft Alignment = iota
	// AlignRight fits numeric cells (byte counts, fill percentages).
	AlignRight
)

// Column defines one table column. Widths are always derived from the
// content; the longest of the header and the cells wins.
type Column struct {
	Title string
	Align Alignment
}

// TableConfig describes a plain-text table.
type TableConfig struct {
	Columns []Column
	// Rows holds the cell strings. Short rows render empty trailing cells.
	Rows [][]string
	// MaxWidth shrinks columns proportionally when the natural widths
	// would overflow it. Zero means unconstrained.
	MaxWidth int
	// ShowHeader renders the title row with an underline.
	ShowHeader bool
	// HeaderStyle, RowStyle and AltRowStyle color the rendered lines;
	// AltRowStyle applies to every second row when it carries a value.
	HeaderStyle lipgloss.Style
	RowStyle    lipgloss.Style
	AltRowStyle lipgloss.Style
	// Separator sits between columns; empty falls back to " | ".
	Separator string
}

// DefaultTableConfig returns the table defaults used by the dashboard.
func DefaultTableConfig() TableConfig {
	return TableConfig{
		ShowHeader:  true,
		Separator:   " | ",
		HeaderStyle: lipgloss.NewStyle().Bold(true),
		RowStyle:    lipgloss.NewStyle(),
		AltRowStyle: lipgloss.NewStyle().Background(lipgloss.Color("#1A1A2E")),
	}
}

// RenderTable renders the configured rows as aligned text lines. A table
// without columns renders nothing.
func RenderTable(cfg TableConfig) string {
	if len(cfg.Columns) == 0 {
		return ""
	}
	if cfg.Separator == "" {
		cfg.Separator = " | "
	}

	widths := fitColumnWidths(cfg)

	var lines []string
	if cfg.ShowHeader {
		titles := make([]string, len(cfg.Columns))
		rules := make([]string, len(cfg.Columns))
		for i, col := range cfg.Columns {
			titles[i] = alignCell(col.Title, widths[i], AlignLeft)
			rules[i] = strings.Repeat("─", widths[i])
		}
		lines = append(lines,
			cfg.HeaderStyle.Render(strings.Join(titles, cfg.Separator)),
			strings.Join(rules, cfg.Separator),
		)
	}

	for n, row := range cfg.Rows {
		cells := make([]string, len(cfg.Columns))
		for i, col := range cfg.Columns {
			text := ""
			if i < len(row) {
				text = row[i]
			}
			cells[i] = alignCell(text, widths[i], col.Align)
		}

		style := cfg.RowStyle
		if n%2 == 1 && cfg.AltRowStyle.Value() != "" {
			style = cfg.AltRowStyle
		}
		lines = append(lines, style.Render(strings.Join(cells, cfg.Separator)))
	}

	return strings.Join(lines, "\n")
}

// alignCell pads or truncates one cell to the column width. Truncation
// keeps the leading runes and marks the cut with an ellipsis.
func alignCell(s string, width int, align Alignment) string {
	if width <= 0 {
		return ""
	}

	runes := []rune(s)
	if len(runes) > width {
		if width == 1 {
			return string(runes[:1])
		}
		return string(runes[:width-1]) + "…"
	}

	pad := strings.Repeat(" ", width-len(runes))
	if align == AlignRight {
		return pad + s
	}
	return s + pad
}

// fitColumnWidths sizes every column to its widest content, then shrinks
// proportionally when MaxWidth would overflow.
func fitColumnWidths(cfg TableConfig) []int {
	widths := make([]int, len(cfg.Columns))
	total := 0
	for i, col := range cfg.Columns {
		w := len([]rune(col.Title))
		for _, row := range cfg.Rows {
			if i < len(row) {
				if l := len([]rune(row[i])); l > w {
					w = l
				}
			}
		}
		if w == 0 {
			w = 1
		}
		widths[i] = w
		total += w
	}

	if cfg.MaxWidth <= 0 {
		return widths
	}

	sepTotal := (len(cfg.Columns) - 1) * len([]rune(cfg.Separator))
	if total+sepTotal <= cfg.MaxWidth {
		return widths
	}

	available := cfg.MaxWidth - sepTotal
	if available < len(cfg.Columns) {
		available = len(cfg.Columns)
	}
	for i, w := range widths {
		widths[i] = w * available / total
		if widths[i] < 1 {
			widths[i] = 1
		}
	}
	return widths
}

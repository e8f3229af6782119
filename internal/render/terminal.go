package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/zhouzirui/adeslas-assistant/backend/internal/model/chat"
	"github.com/zhouzirui/adeslas-assistant/backend/internal/service/comparison"
)

var (
	userStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	assistantStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	sourceStyle    = lipgloss.NewStyle().Faint(true)
	headerStyle    = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle      = lipgloss.NewStyle().Padding(0, 1)
	titleStyle     = lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.Color("12"))
	advantageStyle = cellStyle.Foreground(lipgloss.Color("10"))
	limitStyle     = cellStyle.Foreground(lipgloss.Color("9"))
)

// Terminal renders transcripts and comparisons for a TTY.
type Terminal struct {
	markdown *glamour.TermRenderer
}

// NewTerminal creates a terminal renderer wrapping at width. An empty style
// picks the style from the terminal background.
func NewTerminal(width int, style string) (*Terminal, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("create markdown renderer: %w", err)
	}
	return &Terminal{markdown: r}, nil
}

// Message renders one transcript entry with a sender header.
func (t *Terminal) Message(msg chat.Message) (string, error) {
	var sb strings.Builder
	if msg.Sender == chat.SenderUser {
		sb.WriteString(userStyle.Render("Tú"))
		sb.WriteString("\n")
		sb.WriteString(msg.Text)
		sb.WriteString("\n")
		return sb.String(), nil
	}

	sb.WriteString(assistantStyle.Render("Asistente"))
	sb.WriteString("\n")
	body, err := t.markdown.Render(msg.Text)
	if err != nil {
		return "", fmt.Errorf("render message: %w", err)
	}
	sb.WriteString(body)

	if len(msg.Sources) > 0 {
		sb.WriteString(sourceStyle.Render("Fuentes:"))
		sb.WriteString("\n")
		for _, src := range msg.Sources {
			sb.WriteString(sourceStyle.Render(fmt.Sprintf("  - %s (%s)", src.Title, src.URI)))
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}

// ComparisonTable lays the comparison grid out as a bordered table.
func ComparisonTable(grid comparison.Table) string {
	headers := make([]string, 0, len(grid.Columns)+1)
	headers = append(headers, "Característica")
	for _, col := range grid.Columns {
		headers = append(headers, col.Name)
	}

	rows := make([][]string, len(grid.Rows))
	for i, row := range grid.Rows {
		cells := make([]string, 0, len(row.Cells)+1)
		cells = append(cells, row.Title)
		for _, cell := range row.Cells {
			cells = append(cells, cell.Display())
		}
		rows[i] = cells
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderRow(true).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return titleStyle
			case row < 0 || row >= len(grid.Rows):
				return cellStyle
			case grid.Rows[row].Kind == comparison.KindAdvantages:
				return advantageStyle
			case grid.Rows[row].Kind == comparison.KindLimitations:
				return limitStyle
			default:
				return cellStyle
			}
		})
	return t.String()
}

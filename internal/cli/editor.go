package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/gridcalc/pkg/errors"
	"github.com/matzehuels/gridcalc/pkg/formula"
	"github.com/matzehuels/gridcalc/pkg/sheet"
)

func (c *CLI) editCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit FILE",
		Short: "Edit a sheet in an interactive grid",
		Long: `Edit a sheet in the terminal. FILE is created on first save if it does not exist.

  arrows, tab     move
  enter           edit the cell (enter again to commit, esc to cancel)
  any character   start editing with that character
  delete          clear the cell
  ctrl+s          save
  ctrl+x          clear the whole sheet (asks first)
  q, ctrl+c       quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := loadSheet(ctx, args[0], true)
			if err != nil {
				return err
			}

			p := tea.NewProgram(newEditorModel(ctx, args[0], s), tea.WithAltScreen(), tea.WithContext(ctx))
			final, err := p.Run()
			if err != nil {
				return err
			}
			if m, ok := final.(editorModel); ok && m.s.Changed() {
				printWarning(cmd.OutOrStdout(), "Quit with unsaved changes to %s", args[0])
			}
			return nil
		},
	}
}

// =============================================================================
// editorModel - Interactive grid editor
// =============================================================================

const (
	cellWidth   = 12
	rowHeadSize = 5
)

var (
	editorHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	editorCursorStyle = lipgloss.NewStyle().Reverse(true)
	editorRefStyle    = lipgloss.NewStyle().Background(colorYellow).Foreground(lipgloss.Color("0"))
	editorBannerStyle = lipgloss.NewStyle().Foreground(colorWhite).Background(colorRed).Padding(0, 1)
	editorPromptStyle = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
)

// editorModel is the bubbletea model for the grid editor. Coordinates are
// 1-based like worksheet rows and columns.
type editorModel struct {
	ctx  context.Context
	path string
	s    *sheet.Spreadsheet

	col, row       int // cursor
	offCol, offRow int // top-left visible cell
	cols, rows     int // visible grid size

	editing bool
	input   string
	refs    map[string]bool // cells referenced by the formula being typed

	status       string
	failed       bool // status is an error banner
	confirmClear bool
	quitArmed    bool
}

func newEditorModel(ctx context.Context, path string, s *sheet.Spreadsheet) editorModel {
	return editorModel{
		ctx:    ctx,
		path:   path,
		s:      s,
		col:    1,
		row:    1,
		offCol: 1,
		offRow: 1,
		cols:   6,
		rows:   15,
	}
}

func (m editorModel) Init() tea.Cmd {
	return nil
}

// current returns the name of the cell under the cursor.
func (m editorModel) current() string {
	return gridRef(m.col, m.row)
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cols = max(1, (msg.Width-rowHeadSize)/(cellWidth+1))
		m.rows = max(3, msg.Height-8)
		m.scroll()
		return m, nil
	case tea.KeyMsg:
		if m.confirmClear {
			return m.updateConfirm(msg)
		}
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateBrowsing(msg)
	}
	return m, nil
}

func (m editorModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.confirmClear = false
	if msg.String() != "y" && msg.String() != "Y" {
		m.setStatus("Clear cancelled", false)
		return m, nil
	}
	names := m.s.NonemptyCellNames()
	for _, name := range names {
		if _, err := setCell(m.ctx, m.s, m.path, name, ""); err != nil {
			m.setStatus(errs.UserMessage(err), true)
			return m, nil
		}
	}
	m.setStatus(fmt.Sprintf("Cleared %d cells", len(names)), false)
	return m, nil
}

func (m editorModel) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.editing, m.input, m.refs = false, "", nil
		m.setStatus("", false)
		return m, nil
	case tea.KeyEnter:
		return m.commit()
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case tea.KeyCtrlU:
		m.input = ""
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	case tea.KeyCtrlC:
		return m, tea.Quit
	default:
		return m, nil
	}
	m.refs = referencedCells(m.input)
	return m, nil
}

func (m editorModel) commit() (tea.Model, tea.Cmd) {
	name := m.current()
	affected, err := setCell(m.ctx, m.s, m.path, name, m.input)
	if err != nil {
		// Keep the input so the user can fix it.
		m.setStatus(errs.UserMessage(err), true)
		return m, nil
	}
	m.editing, m.input, m.refs = false, "", nil
	if n := len(affected) - 1; n > 0 {
		m.setStatus(fmt.Sprintf("Set %s, recalculated %d cells", name, n), false)
	} else {
		m.setStatus("Set "+name, false)
	}
	m.move(0, 1)
	return m, nil
}

func (m editorModel) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key != "q" {
		m.quitArmed = false
	}

	switch key {
	case "ctrl+c":
		return m, tea.Quit
	case "q":
		if m.s.Changed() && !m.quitArmed {
			m.quitArmed = true
			m.setStatus("Unsaved changes: press q again to quit, ctrl+s to save", true)
			return m, nil
		}
		return m, tea.Quit
	case "up":
		m.move(0, -1)
	case "down":
		m.move(0, 1)
	case "left", "shift+tab":
		m.move(-1, 0)
	case "right", "tab":
		m.move(1, 0)
	case "pgup":
		m.move(0, -m.rows)
	case "pgdown":
		m.move(0, m.rows)
	case "home":
		m.col, m.row = 1, 1
		m.scroll()
	case "enter":
		m.editing = true
		if c, ok := m.s.Cell(m.current()); ok {
			m.input = c.StringForm()
		}
		m.refs = referencedCells(m.input)
	case "delete":
		name := m.current()
		if _, err := setCell(m.ctx, m.s, m.path, name, ""); err != nil {
			m.setStatus(errs.UserMessage(err), true)
		} else {
			m.setStatus("Cleared "+name, false)
		}
	case "ctrl+s":
		if err := saveSheet(m.ctx, m.s, m.path); err != nil {
			m.setStatus(errs.UserMessage(err), true)
		} else {
			m.setStatus(fmt.Sprintf("Saved %d cells to %s", m.s.Len(), m.path), false)
		}
	case "ctrl+x":
		m.confirmClear = true
		m.setStatus("Clear every cell? y/n", true)
	default:
		if msg.Type == tea.KeyRunes {
			m.editing = true
			m.input = string(msg.Runes)
			m.refs = referencedCells(m.input)
		}
	}
	return m, nil
}

func (m *editorModel) setStatus(s string, failed bool) {
	m.status, m.failed = s, failed
}

// move shifts the cursor, clamped to the worksheet grid.
func (m *editorModel) move(dc, dr int) {
	const maxCols, maxRows = 16384, 1048576
	m.col = min(max(1, m.col+dc), maxCols)
	m.row = min(max(1, m.row+dr), maxRows)
	m.scroll()
}

// scroll keeps the cursor inside the visible window.
func (m *editorModel) scroll() {
	if m.col < m.offCol {
		m.offCol = m.col
	} else if m.col >= m.offCol+m.cols {
		m.offCol = m.col - m.cols + 1
	}
	if m.row < m.offRow {
		m.offRow = m.row
	} else if m.row >= m.offRow+m.rows {
		m.offRow = m.row - m.rows + 1
	}
}

// referencedCells returns the variables of a formula being typed. Partial
// input is tokenized without validation.
func referencedCells(input string) map[string]bool {
	if !strings.HasPrefix(input, "=") {
		return nil
	}
	refs := make(map[string]bool)
	for _, tok := range formula.Tokenize(strings.TrimLeft(input, "=")) {
		if tok.Kind == formula.Variable {
			refs[strings.ToUpper(tok.Text)] = true
		}
	}
	return refs
}

func (m editorModel) View() string {
	var b strings.Builder

	title := StyleTitle.Render(appName) + " " + StyleValue.Render(m.path)
	if m.s.Changed() {
		title += StyleWarning.Render(" [modified]")
	}
	b.WriteString(title + "\n\n")

	b.WriteString(editorHeaderStyle.Render(pad("", rowHeadSize)))
	for col := m.offCol; col < m.offCol+m.cols; col++ {
		b.WriteString(editorHeaderStyle.Render(pad(gridColumn(col), cellWidth)) + " ")
	}
	b.WriteString("\n")

	for row := m.offRow; row < m.offRow+m.rows; row++ {
		b.WriteString(editorHeaderStyle.Render(pad(fmt.Sprint(row), rowHeadSize)))
		for col := m.offCol; col < m.offCol+m.cols; col++ {
			b.WriteString(m.renderCell(col, row) + " ")
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	name := m.current()
	if m.editing {
		b.WriteString(editorPromptStyle.Render(name+">") + " " + m.input + "█\n")
	} else if c, ok := m.s.Cell(name); ok {
		line := editorPromptStyle.Render(name) + " " + renderContents(c.Contents)
		if ev, isErr := c.Value.(sheet.ErrorValue); isErr {
			line += "  " + StyleError.Render(ev.Reason())
		}
		b.WriteString(line + "\n")
	} else {
		b.WriteString(editorPromptStyle.Render(name) + "\n")
	}

	switch {
	case m.status != "" && m.failed:
		b.WriteString(editorBannerStyle.Render(m.status) + "\n")
	case m.status != "":
		b.WriteString(StyleDim.Render(m.status) + "\n")
	default:
		b.WriteString("\n")
	}
	b.WriteString(StyleDim.Render("↑/↓/←/→ move  ⏎ edit  esc cancel  del clear  ctrl+s save  ctrl+x clear all  q quit"))
	return b.String()
}

func (m editorModel) renderCell(col, row int) string {
	name := gridRef(col, row)
	text := ""
	style := lipgloss.NewStyle()
	if c, ok := m.s.Cell(name); ok {
		text = c.Value.String()
		switch c.Value.(type) {
		case sheet.Number:
			style = style.Foreground(colorCyan)
		case sheet.ErrorValue:
			style = style.Foreground(colorRed)
		}
	}
	cell := pad(text, cellWidth)
	switch {
	case col == m.col && row == m.row:
		return editorCursorStyle.Render(cell)
	case m.refs[name]:
		return editorRefStyle.Render(cell)
	}
	return style.Render(cell)
}

// pad truncates or right-pads s to exactly width runes.
func pad(s string, width int) string {
	r := []rune(s)
	if len(r) > width {
		return string(r[:width-1]) + "…"
	}
	return s + strings.Repeat(" ", width-len(r))
}

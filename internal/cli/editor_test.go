package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/gridcalc/pkg/sheet"
)

func typed(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

// press feeds msgs to the model and returns the final model and command.
func press(t *testing.T, m editorModel, msgs ...tea.Msg) (editorModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(editorModel)
	}
	return m, cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func newTestEditor(t *testing.T) editorModel {
	t.Helper()
	return newEditorModel(context.Background(), filepath.Join(t.TempDir(), "book.json"), sheet.New())
}

func TestEditorCommit(t *testing.T) {
	m := newTestEditor(t)

	m, _ = press(t, m, typed("5"), key(tea.KeyEnter))
	if m.editing || m.row != 2 {
		t.Fatalf("after commit editing = %v row = %d, want false 2", m.editing, m.row)
	}
	m, _ = press(t, m, typed("=A1*2"))
	if !m.refs["A1"] {
		t.Errorf("refs = %v, want A1 highlighted", m.refs)
	}
	m, _ = press(t, m, key(tea.KeyEnter))

	if v, _ := m.s.GetCellValue("A2"); v != sheet.Number(10) {
		t.Errorf("A2 = %v, want 10", v)
	}
	if m.status != "Set A2" || m.failed {
		t.Errorf("status = %q failed = %v", m.status, m.failed)
	}

	m, _ = press(t, m, key(tea.KeyUp), key(tea.KeyUp), typed("7"), key(tea.KeyEnter))
	if !strings.Contains(m.status, "recalculated 1") {
		t.Errorf("status = %q, want recalculation count", m.status)
	}
	if v, _ := m.s.GetCellValue("A2"); v != sheet.Number(14) {
		t.Errorf("A2 = %v, want 14", v)
	}
}

func TestEditorRejectedEditKeepsInput(t *testing.T) {
	m := newTestEditor(t)
	m, _ = press(t, m, typed("=A2"), key(tea.KeyEnter), typed("=A1"), key(tea.KeyEnter))

	if !m.editing || m.input != "=A1" {
		t.Fatalf("editing = %v input = %q, want input kept", m.editing, m.input)
	}
	if !m.failed || !strings.Contains(m.status, "A2") {
		t.Errorf("status = %q failed = %v, want cycle banner", m.status, m.failed)
	}
	if _, ok := m.s.Cell("A2"); ok {
		t.Error("rejected edit changed A2")
	}

	m, _ = press(t, m, key(tea.KeyEsc))
	if m.editing || m.input != "" || m.status != "" {
		t.Errorf("after esc editing = %v input = %q status = %q", m.editing, m.input, m.status)
	}
}

func TestEditorInputKeys(t *testing.T) {
	m := newTestEditor(t)
	m, _ = press(t, m, typed("=1+"), key(tea.KeySpace), typed("2"), key(tea.KeyBackspace), typed("3"))
	if m.input != "=1+ 3" {
		t.Errorf("input = %q, want %q", m.input, "=1+ 3")
	}
	m, _ = press(t, m, key(tea.KeyCtrlU))
	if m.input != "" {
		t.Errorf("input after ctrl+u = %q", m.input)
	}
}

func TestEditorEnterLoadsContents(t *testing.T) {
	m := newTestEditor(t)
	m.s.SetContentsOfCell("A1", "=b1 + 1")
	m, _ = press(t, m, key(tea.KeyEnter))
	if m.input != "=B1+1" {
		t.Errorf("input = %q, want canonical formula", m.input)
	}
}

func TestEditorMovement(t *testing.T) {
	m := newTestEditor(t)

	m, _ = press(t, m, key(tea.KeyLeft), key(tea.KeyUp))
	if m.col != 1 || m.row != 1 {
		t.Errorf("cursor = %d,%d, want clamped to 1,1", m.col, m.row)
	}

	m, _ = press(t, m, key(tea.KeyTab), key(tea.KeyTab), key(tea.KeyShiftTab))
	if m.current() != "B1" {
		t.Errorf("current() = %s, want B1", m.current())
	}

	m, _ = press(t, m, key(tea.KeyPgDown), key(tea.KeyPgDown))
	if m.row != 31 || m.offRow != 17 {
		t.Errorf("row = %d offRow = %d, want 31 17", m.row, m.offRow)
	}

	m, _ = press(t, m, key(tea.KeyHome))
	if m.current() != "A1" || m.offRow != 1 {
		t.Errorf("after home current() = %s offRow = %d", m.current(), m.offRow)
	}

	m, _ = press(t, m, tea.WindowSizeMsg{Width: 5 + 3*13, Height: 20})
	if m.cols != 3 || m.rows != 12 {
		t.Errorf("window size cols = %d rows = %d, want 3 12", m.cols, m.rows)
	}
}

func TestEditorDeleteAndClear(t *testing.T) {
	m := newTestEditor(t)
	m.s.SetContentsOfCell("A1", "1")
	m.s.SetContentsOfCell("B1", "=A1")
	m.s.SetContentsOfCell("C3", "x")

	m, _ = press(t, m, key(tea.KeyDelete))
	if _, ok := m.s.Cell("A1"); ok {
		t.Error("delete left A1 set")
	}

	m, _ = press(t, m, key(tea.KeyCtrlX), typed("n"))
	if m.s.Len() != 2 || m.status != "Clear cancelled" {
		t.Errorf("after n len = %d status = %q", m.s.Len(), m.status)
	}

	m, _ = press(t, m, key(tea.KeyCtrlX), typed("y"))
	if m.s.Len() != 0 {
		t.Errorf("after y len = %d, want 0", m.s.Len())
	}
	if m.status != "Cleared 2 cells" {
		t.Errorf("status = %q", m.status)
	}
}

func TestEditorSaveAndQuit(t *testing.T) {
	m := newTestEditor(t)
	m, _ = press(t, m, typed("42"), key(tea.KeyEnter))

	m, cmd := press(t, m, typed("q"))
	if isQuit(cmd) || !m.quitArmed {
		t.Fatal("first q with unsaved changes should ask again")
	}

	m, _ = press(t, m, key(tea.KeyCtrlS))
	if m.failed || m.s.Changed() {
		t.Fatalf("save status = %q changed = %v", m.status, m.s.Changed())
	}
	if _, err := os.Stat(m.path); err != nil {
		t.Fatalf("saved file: %v", err)
	}
	loaded, err := sheet.Load(m.path)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := loaded.GetCellValue("A1"); v != sheet.Number(42) {
		t.Errorf("saved A1 = %v, want 42", v)
	}

	if _, cmd := press(t, m, typed("q")); !isQuit(cmd) {
		t.Error("q after save should quit")
	}
	if _, cmd := press(t, m, key(tea.KeyCtrlC)); !isQuit(cmd) {
		t.Error("ctrl+c should quit")
	}
}

func TestEditorView(t *testing.T) {
	m := newTestEditor(t)
	m, _ = press(t, m, typed("=1/0"), key(tea.KeyEnter), key(tea.KeyUp))

	view := m.View()
	for _, want := range []string{"gridcalc", "[modified]", "#ERROR", "division by zero", "A1"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}

	m, _ = press(t, m, typed("=B"))
	if !strings.Contains(m.View(), "A1> =B") {
		t.Error("View() should show the edit prompt")
	}
}

func TestReferencedCells(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"text A1", nil},
		{"=a1 + B2*3", []string{"A1", "B2"}},
		{"==A1+", []string{"A1"}},
		{"=(C10", []string{"C10"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := referencedCells(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("referencedCells(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for _, name := range tt.want {
				if !got[name] {
					t.Errorf("referencedCells(%q) missing %s", tt.input, name)
				}
			}
		})
	}
}

func TestPad(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"", 3, "   "},
		{"ab", 4, "ab  "},
		{"abcd", 4, "abcd"},
		{"abcdef", 4, "abc…"},
		{"héllo", 3, "hé…"},
	}

	for _, tt := range tests {
		if got := pad(tt.in, tt.width); got != tt.want {
			t.Errorf("pad(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestGridExtent(t *testing.T) {
	s := sheet.New()
	s.SetContentsOfCell("B3", "1")
	s.SetContentsOfCell("AA2", "x")
	s.SetContentsOfCell("XFE1", "far")

	cols, rows, outside := gridExtent(s)
	if cols != 27 || rows != 3 {
		t.Errorf("gridExtent() = %d, %d, want 27, 3", cols, rows)
	}
	if len(outside) != 1 || outside[0] != "XFE1" {
		t.Errorf("outside = %v, want [XFE1]", outside)
	}
	if gridRef(27, 2) != "AA2" || gridColumn(28) != "AB" {
		t.Errorf("gridRef/gridColumn = %s/%s", gridRef(27, 2), gridColumn(28))
	}
}

package io

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	errs "github.com/matzehuels/gridcalc/pkg/errors"
	"github.com/matzehuels/gridcalc/pkg/sheet"
)

func newSheet(t *testing.T, edits ...string) *sheet.Spreadsheet {
	t.Helper()
	s := sheet.New()
	for i := 0; i+1 < len(edits); i += 2 {
		if _, err := s.SetContentsOfCell(edits[i], edits[i+1]); err != nil {
			t.Fatalf("SetContentsOfCell(%q, %q) error = %v", edits[i], edits[i+1], err)
		}
	}
	return s
}

func TestWriteXLSX(t *testing.T) {
	s := newSheet(t,
		"A1", "Budget",
		"B1", "12.5",
		"B2", "=b1*2",
		"B3", "=B1/0",
	)

	var buf bytes.Buffer
	if err := WriteXLSX(s, &buf, XLSXOptions{Sheet: "Data"}); err != nil {
		t.Fatalf("WriteXLSX() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	if got := f.GetSheetList(); len(got) != 1 || got[0] != "Data" {
		t.Fatalf("GetSheetList() = %v, want [Data]", got)
	}

	values := map[string]string{"A1": "Budget", "B1": "12.5", "B2": "25", "B3": "#ERROR"}
	for ref, want := range values {
		got, err := f.GetCellValue("Data", ref, excelize.Options{RawCellValue: true})
		if err != nil {
			t.Fatalf("GetCellValue(%s) error = %v", ref, err)
		}
		if got != want {
			t.Errorf("GetCellValue(%s) = %q, want %q", ref, got, want)
		}
	}

	formulas := map[string]string{"A1": "", "B2": "B1*2", "B3": "B1/0"}
	for ref, want := range formulas {
		got, err := f.GetCellFormula("Data", ref)
		if err != nil {
			t.Fatalf("GetCellFormula(%s) error = %v", ref, err)
		}
		if got != want {
			t.Errorf("GetCellFormula(%s) = %q, want %q", ref, got, want)
		}
	}
}

func TestXLSXRoundTrip(t *testing.T) {
	s := newSheet(t,
		"A1", "label",
		"A2", "3",
		"B2", "=A2+4",
		"C3", "=(B2 - A2) * 1e3",
		"D1", "=Z9",
	)

	var buf bytes.Buffer
	if err := WriteXLSX(s, &buf, XLSXOptions{}); err != nil {
		t.Fatalf("WriteXLSX() error = %v", err)
	}
	got, err := ReadXLSX(&buf, XLSXOptions{})
	if err != nil {
		t.Fatalf("ReadXLSX() error = %v", err)
	}

	for _, ref := range s.NonemptyCellNames() {
		want, _ := s.Cell(ref)
		c, ok := got.Cell(ref)
		if !ok {
			t.Errorf("cell %s missing after round trip", ref)
			continue
		}
		if c.StringForm() != want.StringForm() {
			t.Errorf("%s StringForm = %q, want %q", ref, c.StringForm(), want.StringForm())
		}
		if c.Value.String() != want.Value.String() {
			t.Errorf("%s value = %v, want %v", ref, c.Value, want.Value)
		}
	}
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	f.NewSheet("Second")
	f.SetCellValue("Sheet1", "A1", 1)
	f.SetCellValue("Second", "A1", 100)
	f.SetCellValue("Second", "B1", "note")
	f.SetCellFormula("Second", "C1", "A1*2")

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()

	first, err := ReadXLSX(bytes.NewReader(data), XLSXOptions{})
	if err != nil {
		t.Fatalf("ReadXLSX(first) error = %v", err)
	}
	if v, _ := first.GetCellValue("A1"); v != sheet.Number(1) {
		t.Errorf("first A1 = %#v, want Number(1)", v)
	}

	second, err := ReadXLSX(bytes.NewReader(data), XLSXOptions{Sheet: "Second"})
	if err != nil {
		t.Fatalf("ReadXLSX(Second) error = %v", err)
	}
	if v, _ := second.GetCellValue("B1"); v != sheet.Text("note") {
		t.Errorf("Second B1 = %#v, want Text(note)", v)
	}
	if !second.Changed() {
		t.Error("Changed() = false, want true for an imported sheet")
	}
}

func TestReadXLSXErrors(t *testing.T) {
	unsupported := excelize.NewFile()
	defer unsupported.Close()
	unsupported.SetCellValue("Sheet1", "A1", 1)
	unsupported.SetCellValue("Sheet1", "A2", 1)
	unsupported.SetCellFormula("Sheet1", "A2", "SUM(A1:A1)")
	var buf bytes.Buffer
	if err := unsupported.Write(&buf); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		data  []byte
		sheet string
	}{
		{"not a workbook", []byte("plain text"), ""},
		{"unknown sheet", buf.Bytes(), "Missing"},
		{"function call", buf.Bytes(), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ReadXLSX(bytes.NewReader(tt.data), XLSXOptions{Sheet: tt.sheet})
			if s != nil {
				t.Error("ReadXLSX() returned a sheet on failure")
			}
			if !errs.Is(err, errs.ErrCodeReadWrite) {
				t.Errorf("ReadXLSX() error = %v, want READ_WRITE", err)
			}
		})
	}
}

func TestExportOutsideGrid(t *testing.T) {
	s := newSheet(t, "A1", "1", "XFE1", "=A1")

	var buf bytes.Buffer
	if err := WriteXLSX(s, &buf, XLSXOptions{}); !errs.Is(err, errs.ErrCodeUnsupported) {
		t.Errorf("WriteXLSX() error = %v, want UNSUPPORTED", err)
	}
	if err := WriteCSV(s, &buf); !errs.Is(err, errs.ErrCodeUnsupported) {
		t.Errorf("WriteCSV() error = %v, want UNSUPPORTED", err)
	}
}

package cli

import (
	"context"
	"errors"
	"io/fs"
	"time"

	"github.com/matzehuels/gridcalc/pkg/observability"
	"github.com/matzehuels/gridcalc/pkg/sheet"
)

// loadSheet reads the sheet at path. With create set, a missing file is an
// empty sheet.
func loadSheet(ctx context.Context, path string, create bool) (*sheet.Spreadsheet, error) {
	start := time.Now()
	s, err := sheet.Load(path)
	if err != nil && create && errors.Is(err, fs.ErrNotExist) {
		loggerFromContext(ctx).Debug("new sheet", "path", path)
		return sheet.New(), nil
	}
	cells := 0
	if s != nil {
		cells = s.Len()
	}
	observability.Persist().OnLoad(ctx, path, cells, time.Since(start), err)
	return s, err
}

func saveSheet(ctx context.Context, s *sheet.Spreadsheet, path string) error {
	start := time.Now()
	err := s.Save(path)
	observability.Persist().OnSave(ctx, path, s.Len(), time.Since(start), err)
	return err
}

// setCell applies one edit and reports it to the edit hooks.
func setCell(ctx context.Context, s *sheet.Spreadsheet, sheetID, name, raw string) ([]string, error) {
	start := time.Now()
	affected, err := s.SetContentsOfCell(name, raw)
	observability.Edit().OnEdit(ctx, sheetID, name, affected, time.Since(start), err)
	return affected, err
}

package store

import (
	"bytes"
	"context"
	"time"

	"github.com/matzehuels/gridcalc/pkg/observability"
	"github.com/matzehuels/gridcalc/pkg/sheet"
)

// LoadSheet reads and replays the sheet stored under id.
func LoadSheet(ctx context.Context, st Store, id string) (*sheet.Spreadsheet, error) {
	start := time.Now()
	s, err := loadSheet(ctx, st, id)
	cells := 0
	if s != nil {
		cells = s.Len()
	}
	observability.Persist().OnLoad(ctx, id, cells, time.Since(start), err)
	return s, err
}

func loadSheet(ctx context.Context, st Store, id string) (*sheet.Spreadsheet, error) {
	data, err := st.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return sheet.ReadJSON(bytes.NewReader(data))
}

// SaveSheet serializes s and stores it under id.
func SaveSheet(ctx context.Context, st Store, id string, s *sheet.Spreadsheet) error {
	start := time.Now()
	var buf bytes.Buffer
	err := s.WriteJSON(&buf)
	if err == nil {
		err = st.Put(ctx, id, buf.Bytes())
	}
	observability.Persist().OnSave(ctx, id, s.Len(), time.Since(start), err)
	return err
}

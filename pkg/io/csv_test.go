package io

import (
	"bytes"
	"testing"
)

func TestWriteCSV(t *testing.T) {
	tests := []struct {
		name  string
		edits []string
		want  string
	}{
		{
			name: "empty sheet",
			want: "",
		},
		{
			name:  "grid from A1",
			edits: []string{"B2", "2", "C1", "=B2*3", "A3", "a, b"},
			want:  ",,6\n,2,\n\"a, b\",,\n",
		},
		{
			name:  "errors",
			edits: []string{"A1", "=1/0"},
			want:  "#ERROR\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteCSV(newSheet(t, tt.edits...), &buf); err != nil {
				t.Fatalf("WriteCSV() error = %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("WriteCSV() = %q, want %q", got, tt.want)
			}
		})
	}
}

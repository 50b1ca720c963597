package db

import (
	"testing"

	"github.com/dpolishuk/repograph/internal/extractor"
)

func TestFileID(t *testing.T) {
	if got := FileID("myrepo", "src/app.py"); got != "myrepo::src/app.py" {
		t.Errorf("FileID = %q", got)
	}
}

func TestSymbolID(t *testing.T) {
	s := &extractor.Symbol{Name: "foo", StartLine: 12}
	got := symbolID(FileID("myrepo", "src/app.py"), s)
	if got != "myrepo::src/app.py::foo:12" {
		t.Errorf("symbolID = %q", got)
	}
}

func TestLabelFor(t *testing.T) {
	tests := []struct {
		kind     string
		expected string
	}{
		{"class", "Class"},
		{"function", "Function"},
		{"method", "Function"},
		{"widget", "Symbol"},
		{"", "Symbol"},
	}
	for _, tt := range tests {
		if got := labelFor(tt.kind); got != tt.expected {
			t.Errorf("labelFor(%q) = %s, want %s", tt.kind, got, tt.expected)
		}
	}
}

package cmd

import (
	"io"
	"log"
	"slices"
	"testing"

	"github.com/Tiliavir/tsb/internal/config"
	"github.com/Tiliavir/tsb/internal/sortable"
)

func sortedValues(opts []sortable.Option, values ...string) []string {
	rows := []sortable.TextRow{{Cells: []string{"Value"}, Header: true}}
	for _, v := range values {
		rows = append(rows, sortable.TextRow{Cells: []string{v}})
	}
	tbl := sortable.New(rows, opts...)
	tbl.Click(0)
	var out []string
	for _, r := range tbl.Rows()[1:] {
		out = append(out, r.CellText(0))
	}
	return out
}

func TestSortOptionsUseLocale(t *testing.T) {
	tests := []struct {
		name   string
		locale string
		lang   string
		want   []string
	}{
		{"configured german", "de", "", []string{"a", "ä", "z"}},
		{"configured swedish", "sv", "de_DE.UTF-8", []string{"a", "z", "ä"}},
		{"swedish from LANG", "", "sv_SE.UTF-8", []string{"a", "z", "ä"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LC_ALL", "")
			t.Setenv("LC_COLLATE", "")
			t.Setenv("LANG", tt.lang)
			b := &board{
				cfg:    config.Config{Timesheet: config.TimesheetConfig{Locale: tt.locale}},
				logger: log.New(io.Discard, "", 0),
			}
			if got := sortedValues(b.sortOptions(), "z", "ä", "a"); !slices.Equal(got, tt.want) {
				t.Errorf("sorted = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSortOptionsIgnoreBadEnvironmentLocale(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_COLLATE", "")
	t.Setenv("LANG", "not a locale!")
	b := &board{logger: log.New(io.Discard, "", 0)}
	if opts := b.sortOptions(); len(opts) != 0 {
		t.Errorf("len(opts) = %d, want 0", len(opts))
	}

	b.cfg.Timesheet.SharedSortDirection = true
	if opts := b.sortOptions(); len(opts) != 1 {
		t.Errorf("len(opts) = %d, want 1 (shared direction only)", len(opts))
	}
}

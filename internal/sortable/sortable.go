// Package sortable reorders table rows by the text of a clicked column.
//
// Values compare numerically when both are non-empty and parse as numbers,
// and with locale-aware collation otherwise. The first row of a table and
// any row containing header cells never move, so tables can carry several
// heading rows.
package sortable

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Row is one table row as seen by the sorter.
type Row interface {
	// CellText returns the text of cell idx, or "" if the row has no such cell.
	CellText(idx int) string
	// HasHeaderCells reports whether the row contains header cells.
	HasHeaderCells() bool
}

// Compare orders two cell values. Numeric comparison is used when both
// values are non-empty and numeric; everything else goes through c.
func Compare(a, b string, c *collate.Collator) int {
	if a != "" && b != "" {
		x, okA := number(a)
		y, okB := number(b)
		if okA && okB {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	}
	return c.CompareString(a, b)
}

// number parses v the way a loose numeric cast would. Blank strings and
// NaN are not numbers; infinity only counts when spelled "Infinity".
func number(v string) (float64, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	if math.IsNaN(f) {
		return 0, false
	}
	if math.IsInf(f, 0) && err == nil {
		switch v {
		case "Infinity", "+Infinity", "-Infinity":
		default:
			return 0, false
		}
	}
	return f, true
}

// Option configures a Table.
type Option func(*options)

type options struct {
	tag    language.Tag
	shared bool
}

// WithLocale sets the collation locale for text comparison.
func WithLocale(tag language.Tag) Option {
	return func(o *options) { o.tag = tag }
}

// ParseLocale turns a locale name such as "de", "sv-SE" or a POSIX value
// like "de_DE.UTF-8" into a language tag. "", "C" and "POSIX" give
// language.Und, the root collation.
func ParseLocale(name string) (language.Tag, error) {
	name = strings.TrimSpace(name)
	if i := strings.IndexAny(name, ".@"); i >= 0 {
		name = name[:i]
	}
	switch name {
	case "", "C", "POSIX":
		return language.Und, nil
	}
	tag, err := language.Parse(strings.ReplaceAll(name, "_", "-"))
	if err != nil {
		return language.Und, fmt.Errorf("invalid locale %q: %w", name, err)
	}
	return tag, nil
}

// SharedDirection makes every column share one direction flag, so a click
// on any header reverses whatever the previous click did.
func SharedDirection() Option {
	return func(o *options) { o.shared = true }
}

// Table holds the current row order and the sort direction state.
// It is not safe for concurrent use.
type Table[R Row] struct {
	rows     []R
	coll     *collate.Collator
	shared   bool
	lastAsc  bool
	asc      map[int]bool
	lastCol  int
	hasClick bool
}

// New returns a Table over rows. The slice is copied.
func New[R Row](rows []R, opts ...Option) *Table[R] {
	o := options{tag: language.Und}
	for _, opt := range opts {
		opt(&o)
	}
	return &Table[R]{
		rows:   slices.Clone(rows),
		coll:   collate.New(o.tag),
		shared: o.shared,
		asc:    map[int]bool{},
	}
}

// Rows returns the rows in their current order.
func (t *Table[R]) Rows() []R {
	return t.rows
}

// Reset replaces the rows and forgets all direction state.
func (t *Table[R]) Reset(rows []R) {
	t.rows = slices.Clone(rows)
	t.asc = map[int]bool{}
	t.lastAsc = false
	t.hasClick = false
}

// SetRows replaces the rows as they are, keeping direction state. Use it
// after patching individual rows in the current order.
func (t *Table[R]) SetRows(rows []R) {
	t.rows = slices.Clone(rows)
}

// Sorted returns the column and direction of the last click.
func (t *Table[R]) Sorted() (col int, asc bool, ok bool) {
	if !t.hasClick {
		return 0, false, false
	}
	if t.shared {
		return t.lastCol, t.lastAsc, true
	}
	return t.lastCol, t.asc[t.lastCol], true
}

// Click sorts by column col, flipping that column's direction. The first
// click on a column sorts ascending.
func (t *Table[R]) Click(col int) {
	var asc bool
	if t.shared {
		t.lastAsc = !t.lastAsc
		asc = t.lastAsc
	} else {
		asc = !t.asc[col]
		t.asc[col] = asc
	}
	t.lastCol = col
	t.hasClick = true
	t.rows = Sort(t.rows, col, asc, t.coll)
}

// Sort returns rows ordered by column col. The first row and rows with
// header cells keep their relative order and come first; the remaining
// rows follow, sorted stably.
func Sort[R Row](rows []R, col int, asc bool, c *collate.Collator) []R {
	fixed := make([]R, 0, len(rows))
	movable := make([]R, 0, len(rows))
	for i, r := range rows {
		if i == 0 || r.HasHeaderCells() {
			fixed = append(fixed, r)
			continue
		}
		movable = append(movable, r)
	}
	slices.SortStableFunc(movable, func(a, b R) int {
		if !asc {
			a, b = b, a
		}
		return Compare(a.CellText(col), b.CellText(col), c)
	})
	return append(fixed, movable...)
}

// TextRow is a plain Row backed by strings.
type TextRow struct {
	Cells  []string
	Header bool
}

func (r TextRow) CellText(idx int) string {
	if idx < 0 || idx >= len(r.Cells) {
		return ""
	}
	return r.Cells[idx]
}

func (r TextRow) HasHeaderCells() bool { return r.Header }

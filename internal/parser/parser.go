// Package parser reads the semicolon-delimited shot and point tables exported
// per session. Numbers use a comma as decimal separator.
package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Failure classes. Callers treat all of them as "no data for this session".
var (
	ErrUnreadable     = errors.New("table unreadable")
	ErrMissingColumns = errors.New("required columns missing")
	ErrNoRows         = errors.New("table has no rows")
)

// table is a header-indexed view over the records of one file.
type table struct {
	index map[string]int
	rows  [][]string
}

func openTable(path string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()
	return readTable(f)
}

func readTable(r io.Reader) (*table, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no header row", ErrUnreadable)
	}

	header := records[0]
	index := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff") // spreadsheet exports
		}
		name := normalizeColumn(h)
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	// Whitespace-only lines are not rows; separator-only lines are.
	rows := lo.Reject(records[1:], func(rec []string, _ int) bool {
		return len(rec) == 1 && strings.TrimSpace(rec[0]) == ""
	})
	return &table{index: index, rows: rows}, nil
}

// blankRow reports whether every cell of row is empty, e.g. ";;;".
func blankRow(row []string) bool {
	return !lo.SomeBy(row, func(c string) bool { return strings.TrimSpace(c) != "" })
}

func normalizeColumn(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (t *table) has(col string) bool {
	_, ok := t.index[col]
	return ok
}

func (t *table) require(cols ...string) error {
	missing := lo.Reject(cols, func(c string, _ int) bool { return t.has(c) })
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return nil
}

// cell returns the trimmed value of col in row, or "" if the row is short.
func (t *table) cell(row []string, col string) string {
	i, ok := t.index[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// ParseNumber parses a locale-formatted number such as "152,4".
// Empty or non-numeric cells yield nil.
func ParseNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(strings.Replace(s, ",", ".", 1))
	if err != nil {
		return nil
	}
	f, _ := d.Float64()
	return &f
}

package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/pable/go-tennis-metrics/internal/model"
)

// Point table columns after normalization.
const (
	ColPointWinner    = "point winner"
	ColDetail         = "detail"
	ColGame           = "game"
	ColHostGameScore  = "host game score"
	ColGuestGameScore = "guest game score"
)

// PointTable is a parsed points table.
type PointTable struct {
	Records []model.PointRecord
	// HasGameScores is true when game, host game score and guest game score
	// are all present in the header.
	HasGameScores bool
}

// ParsePointsFile parses the points table at path.
func ParsePointsFile(path string) (*PointTable, error) {
	t, err := openTable(path)
	if err != nil {
		return nil, err
	}
	return parsePoints(t)
}

// ParsePoints parses a points table from r.
func ParsePoints(r io.Reader) (*PointTable, error) {
	t, err := readTable(r)
	if err != nil {
		return nil, err
	}
	return parsePoints(t)
}

// Rows made only of separators are kept: every row is a played point, even
// when nothing was recorded for it.
func parsePoints(t *table) (*PointTable, error) {
	if err := t.require(ColPointWinner, ColDetail); err != nil {
		return nil, err
	}
	if len(t.rows) == 0 {
		return nil, fmt.Errorf("%w: points table is empty", ErrNoRows)
	}

	pt := &PointTable{
		Records:       make([]model.PointRecord, 0, len(t.rows)),
		HasGameScores: t.has(ColGame) && t.has(ColHostGameScore) && t.has(ColGuestGameScore),
	}
	for _, row := range t.rows {
		pt.Records = append(pt.Records, model.PointRecord{
			Winner:         strings.ToLower(t.cell(row, ColPointWinner)),
			Detail:         t.cell(row, ColDetail),
			Game:           t.cell(row, ColGame),
			HostGameScore:  ParseNumber(t.cell(row, ColHostGameScore)),
			GuestGameScore: ParseNumber(t.cell(row, ColGuestGameScore)),
		})
	}
	return pt, nil
}

package parser

import (
	"io"
	"strings"

	"github.com/pable/go-tennis-metrics/internal/model"
)

// Shot table columns after normalization.
const (
	ColPlayer = "player"
	ColStroke = "stroke"
	ColResult = "result"
	ColSpeed  = "speed (km/h)"
)

// ParseShotsFile parses the shots table at path.
func ParseShotsFile(path string) ([]model.ShotRecord, error) {
	t, err := openTable(path)
	if err != nil {
		return nil, err
	}
	return parseShots(t)
}

// ParseShots parses a shots table from r.
func ParseShots(r io.Reader) ([]model.ShotRecord, error) {
	t, err := readTable(r)
	if err != nil {
		return nil, err
	}
	return parseShots(t)
}

func parseShots(t *table) ([]model.ShotRecord, error) {
	if err := t.require(ColPlayer, ColStroke, ColResult, ColSpeed); err != nil {
		return nil, err
	}
	out := make([]model.ShotRecord, 0, len(t.rows))
	for _, row := range t.rows {
		if blankRow(row) {
			continue
		}
		out = append(out, model.ShotRecord{
			Player: t.cell(row, ColPlayer),
			Stroke: strings.ToLower(t.cell(row, ColStroke)),
			Result: strings.ToLower(t.cell(row, ColResult)),
			Speed:  ParseNumber(t.cell(row, ColSpeed)),
		})
	}
	return out, nil
}

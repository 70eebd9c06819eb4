package entity

import (
	"fmt"

	"github.com/rocketscienceinc/knotmosaic/internal/apperror"
)

// ToWireTile maps an in-memory tile to the session service encoding.
func ToWireTile(t Tile) int {
	if t == TileUnresolved {
		return WireUnresolved
	}

	return int(t)
}

// FromWireTile is the inverse of ToWireTile.
func FromWireTile(v int) Tile {
	if v == WireUnresolved {
		return TileUnresolved
	}

	return Tile(v)
}

// ToWire - row-major matrix in session service encoding.
func (that *Board) ToWire() [][]int {
	rows := make([][]int, that.Rows)
	for r := range rows {
		row := make([]int, that.Cols)
		for c := range row {
			row[c] = ToWireTile(that.Cells[r*that.Cols+c])
		}
		rows[r] = row
	}

	return rows
}

// FromWire builds a board from a session service matrix. The matrix must be
// rectangular and every code must map into the tile alphabet.
func FromWire(rows [][]int) (*Board, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: empty board", apperror.ErrMalformedBoard)
	}

	cols := len(rows[0])
	board := &Board{Rows: len(rows), Cols: cols, Cells: make([]Tile, 0, len(rows)*cols)}

	for r, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, expected %d", apperror.ErrMalformedBoard, r, len(row), cols)
		}

		for c, v := range row {
			tile := FromWireTile(v)
			if !tile.Valid() || v == int(TileUnresolved) {
				return nil, fmt.Errorf("%w: tile %d at (%d, %d)", apperror.ErrMalformedBoard, v, r, c)
			}
			board.Cells = append(board.Cells, tile)
		}
	}

	return board, nil
}

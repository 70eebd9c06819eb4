package entity

import (
	"fmt"
	"slices"

	"github.com/rocketscienceinc/knotmosaic/internal/apperror"
)

// Board - mosaic grid stored row-major: index i is (i / Cols, i % Cols).
type Board struct {
	Rows  int    `json:"rows"`
	Cols  int    `json:"cols"`
	Cells []Tile `json:"cells"`
}

// Position - coordinates of a cell.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func NewBoard(rows, cols int, fill Tile) (*Board, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: extents %dx%d", apperror.ErrMalformedBoard, rows, cols)
	}

	if !fill.Valid() {
		return nil, fmt.Errorf("%w: fill tile %d", apperror.ErrMalformedBoard, fill)
	}

	cells := make([]Tile, rows*cols)
	if fill != TileEmpty {
		for i := range cells {
			cells[i] = fill
		}
	}

	return &Board{Rows: rows, Cols: cols, Cells: cells}, nil
}

// FromCells wraps a flat row-major buffer. The buffer is copied.
func FromCells(rows, cols int, cells []Tile) (*Board, error) {
	if rows <= 0 || cols <= 0 || len(cells) != rows*cols {
		return nil, fmt.Errorf("%w: %d cells for %dx%d", apperror.ErrMalformedBoard, len(cells), rows, cols)
	}

	board := &Board{Rows: rows, Cols: cols, Cells: slices.Clone(cells)}
	if err := board.Validate(); err != nil {
		return nil, err
	}

	return board, nil
}

// FromRows builds a board from a rectangular matrix of tiles.
func FromRows(rows [][]Tile) (*Board, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: empty board", apperror.ErrMalformedBoard)
	}

	cols := len(rows[0])
	cells := make([]Tile, 0, len(rows)*cols)
	for r, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, expected %d", apperror.ErrMalformedBoard, r, len(row), cols)
		}
		cells = append(cells, row...)
	}

	return FromCells(len(rows), cols, cells)
}

// ToRows - row-major matrix copy of the board.
func (that *Board) ToRows() [][]Tile {
	rows := make([][]Tile, that.Rows)
	for r := range rows {
		rows[r] = slices.Clone(that.Cells[r*that.Cols : (r+1)*that.Cols])
	}

	return rows
}

func (that *Board) InBounds(row, col int) bool {
	return row >= 0 && row < that.Rows && col >= 0 && col < that.Cols
}

func (that *Board) Index(row, col int) (int, error) {
	if !that.InBounds(row, col) {
		return -1, fmt.Errorf("%w: (%d, %d) outside %dx%d", apperror.ErrIndexOutOfRange, row, col, that.Rows, that.Cols)
	}

	return row*that.Cols + col, nil
}

func (that *Board) Coord(index int) Position {
	return Position{Row: index / that.Cols, Col: index % that.Cols}
}

func (that *Board) Get(row, col int) (Tile, error) {
	i, err := that.Index(row, col)
	if err != nil {
		return TileEmpty, err
	}

	return that.Cells[i], nil
}

// Set returns a copy of the board with exactly one cell changed.
func (that *Board) Set(row, col int, tile Tile) (*Board, error) {
	i, err := that.Index(row, col)
	if err != nil {
		return nil, err
	}

	if !tile.Valid() {
		return nil, fmt.Errorf("%w: tile %d", apperror.ErrMalformedBoard, tile)
	}

	next := that.Clone()
	next.Cells[i] = tile

	return next, nil
}

func (that *Board) Clone() *Board {
	return &Board{Rows: that.Rows, Cols: that.Cols, Cells: slices.Clone(that.Cells)}
}

func (that *Board) Equal(other *Board) bool {
	if that == nil || other == nil {
		return that == other
	}

	return that.Rows == other.Rows && that.Cols == other.Cols && slices.Equal(that.Cells, other.Cells)
}

// Validate checks the extents invariant and the tile alphabet.
func (that *Board) Validate() error {
	if that.Rows <= 0 || that.Cols <= 0 {
		return fmt.Errorf("%w: extents %dx%d", apperror.ErrMalformedBoard, that.Rows, that.Cols)
	}

	if len(that.Cells) != that.Rows*that.Cols {
		return fmt.Errorf("%w: %d cells for %dx%d", apperror.ErrMalformedBoard, len(that.Cells), that.Rows, that.Cols)
	}

	for i, tile := range that.Cells {
		if !tile.Valid() {
			return fmt.Errorf("%w: tile %d at index %d", apperror.ErrMalformedBoard, tile, i)
		}
	}

	return nil
}

func (that *Board) CountUnresolved() int {
	count := 0
	for _, tile := range that.Cells {
		if tile.Playable() {
			count++
		}
	}

	return count
}

func (that *Board) UnresolvedPositions() []Position {
	positions := make([]Position, 0)
	for i, tile := range that.Cells {
		if tile.Playable() {
			positions = append(positions, that.Coord(i))
		}
	}

	return positions
}

package entity

import (
	"fmt"

	"github.com/rocketscienceinc/knotmosaic/internal/apperror"
)

// ResizeCols keeps the leading min(old, n) cells of every row at their column
// and pads new columns with TileEmpty.
func (that *Board) ResizeCols(n int) (*Board, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d columns", apperror.ErrMalformedBoard, n)
	}

	if n == that.Cols {
		return that.Clone(), nil
	}

	keep := min(that.Cols, n)
	cells := make([]Tile, that.Rows*n)
	for r := 0; r < that.Rows; r++ {
		// source stride is the old width, destination stride the new one
		copy(cells[r*n:r*n+keep], that.Cells[r*that.Cols:r*that.Cols+keep])
	}

	return &Board{Rows: that.Rows, Cols: n, Cells: cells}, nil
}

// ResizeRows appends empty rows or truncates trailing rows.
func (that *Board) ResizeRows(n int) (*Board, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d rows", apperror.ErrMalformedBoard, n)
	}

	cells := make([]Tile, n*that.Cols)
	copy(cells, that.Cells[:min(n, that.Rows)*that.Cols])

	return &Board{Rows: n, Cols: that.Cols, Cells: cells}, nil
}

// Resize applies ResizeCols then ResizeRows.
func (that *Board) Resize(rows, cols int) (*Board, error) {
	resized, err := that.ResizeCols(cols)
	if err != nil {
		return nil, err
	}

	return resized.ResizeRows(rows)
}

// Reset - all empty board with the same extents.
func (that *Board) Reset() *Board {
	return &Board{Rows: that.Rows, Cols: that.Cols, Cells: make([]Tile, len(that.Cells))}
}

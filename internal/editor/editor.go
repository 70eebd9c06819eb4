package editor

import (
	"fmt"

	"github.com/rocketscienceinc/knotmosaic/internal/apperror"
	"github.com/rocketscienceinc/knotmosaic/internal/entity"
	"github.com/rocketscienceinc/knotmosaic/internal/mosaic"
)

const (
	DefaultExtent = 5
	MaxExtent     = 20
)

// Editor - Mosaic Maker state. It is the only owner of its board; callers get copies.
type Editor struct {
	engine *mosaic.Engine
}

func New() *Editor {
	board, _ := entity.NewBoard(DefaultExtent, DefaultExtent, entity.TileEmpty)

	return &Editor{engine: mosaic.NewEngine(mosaic.FreeEdit{}, board)}
}

// Board - snapshot of the board being edited.
func (that *Editor) Board() *entity.Board {
	return that.engine.Board()
}

func (that *Editor) Rows() int {
	return that.engine.Board().Rows
}

func (that *Editor) Cols() int {
	return that.engine.Board().Cols
}

// Select draws tile at (row, col).
func (that *Editor) Select(row, col int, tile entity.Tile) error {
	if err := that.engine.Play(entity.Move{Row: row, Col: col, Tile: tile}); err != nil {
		return fmt.Errorf("failed to draw tile: %w", err)
	}
	that.engine.Confirm()

	return nil
}

// Clear empties (row, col), as a double click does.
func (that *Editor) Clear(row, col int) error {
	if err := that.engine.Clear(row, col); err != nil {
		return fmt.Errorf("failed to clear cell: %w", err)
	}
	that.engine.Confirm()

	return nil
}

func (that *Editor) SetRows(rows int) error {
	return that.Resize(rows, that.Cols())
}

func (that *Editor) SetCols(cols int) error {
	return that.Resize(that.Rows(), cols)
}

// Resize changes the extents keeping the drawn top-left content in place.
func (that *Editor) Resize(rows, cols int) error {
	if err := checkExtent(rows, cols); err != nil {
		return err
	}

	resized, err := that.engine.Board().Resize(rows, cols)
	if err != nil {
		return fmt.Errorf("failed to resize board: %w", err)
	}
	that.engine.Replace(resized)

	return nil
}

// Reset clears every cell at the current extents.
func (that *Editor) Reset() {
	that.engine.Replace(that.engine.Board().Reset())
}

// Import replaces the board with a parsed board literal.
func (that *Editor) Import(text string) error {
	board, err := entity.ParseBoard(text)
	if err != nil {
		return fmt.Errorf("failed to import board: %w", err)
	}

	if err = checkExtent(board.Rows, board.Cols); err != nil {
		return err
	}

	that.engine.Replace(board)

	return nil
}

// ImportFlat fills a rows x cols board from a flat literal, padding or
// truncating the tile list to fit.
func (that *Editor) ImportFlat(text string, rows, cols int) error {
	if err := checkExtent(rows, cols); err != nil {
		return err
	}

	board, err := entity.ParseFlat(text, rows, cols)
	if err != nil {
		return fmt.Errorf("failed to import board: %w", err)
	}

	that.engine.Replace(board)

	return nil
}

// Export renders the board as a literal Import accepts.
func (that *Editor) Export() string {
	return entity.FormatBoard(that.engine.Board())
}

func checkExtent(rows, cols int) error {
	if rows < 1 || rows > MaxExtent || cols < 1 || cols > MaxExtent {
		return fmt.Errorf("%w: extents %dx%d outside 1..%d", apperror.ErrMalformedBoard, rows, cols, MaxExtent)
	}

	return nil
}

package mosaic

import (
	"fmt"

	"github.com/rocketscienceinc/knotmosaic/internal/apperror"
	"github.com/rocketscienceinc/knotmosaic/internal/entity"
)

// Engine applies moves to a board under one Strategy. It keeps the board
// before the last move so that move can be rolled back.
type Engine struct {
	strategy Strategy

	board    *entity.Board
	previous *entity.Board
	pending  *entity.Move
}

func NewEngine(strategy Strategy, board *entity.Board) *Engine {
	return &Engine{
		strategy: strategy,
		board:    board.Clone(),
	}
}

func (that *Engine) Mode() Mode {
	return that.strategy.Mode()
}

// Board - copy of the current board.
func (that *Engine) Board() *entity.Board {
	return that.board.Clone()
}

// Pending - the unconfirmed move, if any.
func (that *Engine) Pending() (entity.Move, bool) {
	if that.pending == nil {
		return entity.Move{}, false
	}

	return *that.pending, true
}

// Play validates move and applies it optimistically. On error the board is unchanged.
func (that *Engine) Play(move entity.Move) error {
	if !that.board.InBounds(move.Row, move.Col) {
		return fmt.Errorf("%w: %w: (%d, %d) outside %dx%d", apperror.ErrIllegalMove, apperror.ErrIndexOutOfRange,
			move.Row, move.Col, that.board.Rows, that.board.Cols)
	}

	if err := that.strategy.check(that.board, that.pending, move); err != nil {
		return err
	}

	return that.strategy.apply(that, move)
}

// Clear empties a cell; only available in free edit mode.
func (that *Engine) Clear(row, col int) error {
	if that.strategy.Mode() != ModeFreeEdit {
		return fmt.Errorf("%w: cells can only be cleared in %s mode", apperror.ErrIllegalMove, ModeFreeEdit)
	}

	return that.Play(entity.Move{Row: row, Col: col, Tile: entity.TileEmpty})
}

// Rollback restores the board as it was before the last move.
func (that *Engine) Rollback() error {
	if that.previous == nil {
		return apperror.ErrNoPendingMove
	}

	that.board = that.previous
	that.previous = nil
	that.pending = nil

	return nil
}

// Confirm drops the rollback point and the pending move.
func (that *Engine) Confirm() {
	that.previous = nil
	that.pending = nil
}

// Replace swaps in an authoritative board wholesale and forgets local history.
func (that *Engine) Replace(board *entity.Board) {
	that.board = board.Clone()
	that.previous = nil
	that.pending = nil
}

func (that *Engine) commit(move entity.Move) error {
	next, err := that.board.Set(move.Row, move.Col, move.Tile)
	if err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrIllegalMove, err)
	}

	that.previous = that.board
	that.board = next

	return nil
}

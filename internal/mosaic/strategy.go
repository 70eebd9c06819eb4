package mosaic

import (
	"fmt"

	"github.com/rocketscienceinc/knotmosaic/internal/apperror"
	"github.com/rocketscienceinc/knotmosaic/internal/entity"
)

type Mode string

const (
	ModeFreeEdit        Mode = "free-edit"
	ModeResolveCrossing Mode = "resolve-crossing"
)

// Strategy - move legality and effect for one editing mode. The set of
// strategies is closed: FreeEdit and ResolveCrossing.
type Strategy interface {
	Mode() Mode

	check(board *entity.Board, pending *entity.Move, move entity.Move) error
	apply(engine *Engine, move entity.Move) error
}

// FreeEdit - Mosaic Maker: any palette tile anywhere.
type FreeEdit struct{}

func (FreeEdit) Mode() Mode { return ModeFreeEdit }

func (FreeEdit) check(_ *entity.Board, _ *entity.Move, move entity.Move) error {
	if !move.Tile.Editable() {
		return fmt.Errorf("%w: tile %d is not in the palette", apperror.ErrIllegalMove, move.Tile)
	}

	return nil
}

func (FreeEdit) apply(engine *Engine, move entity.Move) error {
	return engine.commit(move)
}

// ResolveCrossing - game move: an unresolved crossing becomes 9 or 10, one
// pending move at a time.
type ResolveCrossing struct{}

func (ResolveCrossing) Mode() Mode { return ModeResolveCrossing }

func (ResolveCrossing) check(board *entity.Board, pending *entity.Move, move entity.Move) error {
	if pending != nil {
		return fmt.Errorf("%w: move %s is still pending", apperror.ErrIllegalMove, pending)
	}

	current, err := board.Get(move.Row, move.Col)
	if err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrIllegalMove, err)
	}

	if !current.Playable() {
		return fmt.Errorf("%w: (%d, %d) is not an unresolved crossing", apperror.ErrIllegalMove, move.Row, move.Col)
	}

	if !move.Tile.IsResolution() {
		return fmt.Errorf("%w: crossing must be resolved with %d or %d, got %d",
			apperror.ErrIllegalMove, entity.TileOver, entity.TileUnder, move.Tile)
	}

	return nil
}

func (ResolveCrossing) apply(engine *Engine, move entity.Move) error {
	if err := engine.commit(move); err != nil {
		return err
	}

	engine.pending = &move

	return nil
}

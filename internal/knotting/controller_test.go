package knotting

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/knotmosaic/internal/apperror"
	"github.com/rocketscienceinc/knotmosaic/internal/entity"
	"github.com/rocketscienceinc/knotmosaic/internal/logger"
)

// fakeSessions keeps one game in memory with the rules of the session service.
type fakeSessions struct {
	session        *entity.Session
	classification entity.Classification

	validateErr error
	moveErr     error
	statusErr   error
	deleteErr   error

	validateCalls int
	moveCalls     int
	classifyCalls int
	resetCalls    int
	deleted       []string
}

func (that *fakeSessions) CreateGame(_ context.Context, board *entity.Board, startingPlayer entity.Player) (string, error) {
	session, err := entity.NewSession("game-1", board.ToWire(), string(startingPlayer))
	if err != nil {
		return "", fmt.Errorf("%w: %w", apperror.ErrSessionCreate, err)
	}
	that.session = session

	return session.ID, nil
}

func (that *fakeSessions) Status(_ context.Context, _ string) (entity.SessionStatus, error) {
	if that.statusErr != nil {
		return entity.SessionStatus{}, that.statusErr
	}

	return that.session.Status(), nil
}

func (that *fakeSessions) MakeMove(_ context.Context, _ string, move entity.Move) (string, error) {
	that.moveCalls++
	if that.moveErr != nil {
		return "", that.moveErr
	}

	msg, err := that.session.MakeMove(move.Row, move.Col, int(move.Tile))
	if err != nil {
		return "", fmt.Errorf("%w: %w", apperror.ErrInvalidMove, err)
	}

	return msg, nil
}

func (that *fakeSessions) ValidateMove(_ context.Context, _ string, move entity.Move) error {
	that.validateCalls++
	if that.validateErr != nil {
		return that.validateErr
	}

	if err := that.session.ValidateMove(move.Row, move.Col, int(move.Tile)); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrInvalidMove, err)
	}

	return nil
}

func (that *fakeSessions) Classify(_ context.Context, _ string) (entity.ClassifyResult, error) {
	that.classifyCalls++
	if that.session.Board.CountUnresolved() > 0 {
		return entity.ClassifyResult{}, apperror.ErrClassificationUnavailable
	}

	that.session.Classify(that.classification)

	return entity.ClassifyResult{Classification: *that.session.Classification, Winner: that.session.Winner}, nil
}

func (that *fakeSessions) ResetGame(_ context.Context, _ string, _ *entity.Board, startingPlayer entity.Player) (entity.SessionStatus, error) {
	that.resetCalls++
	if err := that.session.Reset(nil, startingPlayer); err != nil {
		return entity.SessionStatus{}, err
	}

	return that.session.Status(), nil
}

func (that *fakeSessions) DeleteGame(_ context.Context, gameID string) error {
	that.deleted = append(that.deleted, gameID)
	return that.deleteErr
}

func newController(t *testing.T) (*Controller, *fakeSessions) {
	t.Helper()

	sessions := &fakeSessions{classification: entity.Classification{IsUnknot: true, Reason: "reduces to a circle"}}

	return NewController(logger.New("error", io.Discard), sessions), sessions
}

func startedController(t *testing.T) (*Controller, *fakeSessions) {
	t.Helper()

	controller, sessions := newController(t)
	require.NoError(t, controller.Start(context.Background()))

	return controller, sessions
}

func TestController_Setup(t *testing.T) {
	t.Run("Starts in setup with the default board", func(t *testing.T) {
		controller, _ := newController(t)

		assert.Equal(t, PhaseSetup, controller.Phase())
		assert.True(t, DefaultBoard.Equal(controller.Board()))
		assert.Equal(t, TurnState{
			FirstMover:          entity.Unknotter,
			CurrentMover:        entity.Unknotter,
			RemainingUnresolved: 3,
		}, controller.TurnState())
	})

	t.Run("Loads boards and first mover before start", func(t *testing.T) {
		controller, _ := newController(t)

		require.NoError(t, controller.ImportBoard("[[11, 2], [4, 11]]"))
		require.NoError(t, controller.SetFirstMover(entity.Knotter))

		state := controller.TurnState()
		assert.Equal(t, entity.Knotter, state.FirstMover)
		assert.Equal(t, entity.Knotter, state.CurrentMover)
		assert.Equal(t, 2, state.RemainingUnresolved)
	})

	t.Run("Rejects an unknown first mover", func(t *testing.T) {
		controller, _ := newController(t)

		require.ErrorIs(t, controller.SetFirstMover("nobody"), apperror.ErrInvalidPlayer)
	})

	t.Run("Setup operations are closed once playing", func(t *testing.T) {
		controller, _ := startedController(t)

		require.ErrorIs(t, controller.LoadBoard(DefaultBoard.Clone()), apperror.ErrWrongPhase)
		require.ErrorIs(t, controller.SetFirstMover(entity.Knotter), apperror.ErrWrongPhase)
		require.ErrorIs(t, controller.Start(context.Background()), apperror.ErrWrongPhase)
	})

	t.Run("Play operations need a started game", func(t *testing.T) {
		controller, _ := newController(t)
		ctx := context.Background()

		require.ErrorIs(t, controller.Select(ctx, 1, 1, entity.TileOver), apperror.ErrWrongPhase)
		require.ErrorIs(t, controller.Submit(ctx), apperror.ErrWrongPhase)
		_, err := controller.Sync(ctx)
		require.ErrorIs(t, err, apperror.ErrWrongPhase)
	})
}

func TestController_FullGame(t *testing.T) {
	// Given: the default board with the Unknotter moving first
	ctx := context.Background()
	controller, sessions := startedController(t)

	require.Equal(t, PhaseInProgress, controller.Phase())
	require.Equal(t, "game-1", controller.GameID())

	moves := []struct {
		row, col int
		tile     entity.Tile
		mover    entity.Player
	}{
		{1, 1, entity.TileOver, entity.Unknotter},
		{2, 3, entity.TileUnder, entity.Knotter},
		{3, 2, entity.TileOver, entity.Unknotter},
	}

	for i, move := range moves {
		state := controller.TurnState()
		require.Equal(t, move.mover, state.CurrentMover, "move %d", i)
		require.Equal(t, 3-i, state.RemainingUnresolved, "move %d", i)

		// When: the current mover resolves a crossing and submits it
		require.NoError(t, controller.Select(ctx, move.row, move.col, move.tile))
		require.NoError(t, controller.Submit(ctx))

		// Then: the board matches the service and the turn passed
		assert.True(t, sessions.session.Board.Equal(controller.Board()))
		assert.Equal(t, move.mover.Next(), controller.TurnState().CurrentMover)
		assert.Equal(t, i+1, controller.Round())
		_, pending := controller.Pending()
		assert.False(t, pending)
	}

	// Then: the last move completed the game with exactly one classification
	assert.Equal(t, PhaseComplete, controller.Phase())
	assert.Zero(t, controller.TurnState().RemainingUnresolved)
	assert.Equal(t, 1, sessions.classifyCalls)

	result, ok := controller.Result()
	require.True(t, ok)
	assert.Equal(t, entity.Unknotter, result.Winner)
	assert.True(t, result.Classification.IsUnknot)

	again, err := controller.Classify(ctx)
	require.NoError(t, err)
	assert.Equal(t, result, again)
	assert.Equal(t, 1, sessions.classifyCalls)

	require.ErrorIs(t, controller.Select(ctx, 0, 0, entity.TileOver), apperror.ErrWrongPhase)
}

func TestController_KnottedResult(t *testing.T) {
	ctx := context.Background()
	controller, sessions := newController(t)
	sessions.classification = entity.Classification{IsUnknot: false, Reason: "trefoil", NumCrossings: 3}
	require.NoError(t, controller.ImportBoard("[[11, 2]]"))
	require.NoError(t, controller.Start(ctx))

	require.NoError(t, controller.Select(ctx, 0, 0, entity.TileUnder))
	require.NoError(t, controller.Submit(ctx))

	result, ok := controller.Result()
	require.True(t, ok)
	assert.Equal(t, entity.Knotter, result.Winner)
}

func TestController_Select(t *testing.T) {
	t.Run("Illegal moves never reach the service", func(t *testing.T) {
		ctx := context.Background()
		controller, sessions := startedController(t)

		tests := []struct {
			name     string
			row, col int
			tile     entity.Tile
		}{
			{"Not a crossing", 0, 0, entity.TileOver},
			{"Out of bounds", 5, 5, entity.TileOver},
			{"Not a resolution", 1, 1, 3},
		}

		for _, tt := range tests {
			err := controller.Select(ctx, tt.row, tt.col, tt.tile)
			assert.ErrorIs(t, err, apperror.ErrIllegalMove, tt.name)
		}

		assert.Zero(t, sessions.validateCalls)
		assert.True(t, DefaultBoard.Equal(controller.Board()))
	})

	t.Run("A second selection is rejected while one is pending", func(t *testing.T) {
		ctx := context.Background()
		controller, _ := startedController(t)
		require.NoError(t, controller.Select(ctx, 1, 1, entity.TileOver))

		err := controller.Select(ctx, 2, 3, entity.TileOver)

		require.ErrorIs(t, err, apperror.ErrIllegalMove)
		move, ok := controller.Pending()
		require.True(t, ok)
		assert.Equal(t, entity.Move{Row: 1, Col: 1, Tile: entity.TileOver}, move)
	})

	t.Run("Unreachable service rolls the move back", func(t *testing.T) {
		ctx := context.Background()
		controller, sessions := startedController(t)
		sessions.validateErr = fmt.Errorf("%w: connection refused", apperror.ErrSessionUnreachable)

		err := controller.Select(ctx, 1, 1, entity.TileOver)

		require.ErrorIs(t, err, apperror.ErrSessionUnreachable)
		assert.True(t, DefaultBoard.Equal(controller.Board()))
		_, pending := controller.Pending()
		assert.False(t, pending)
	})

	t.Run("Cancel restores the board", func(t *testing.T) {
		ctx := context.Background()
		controller, sessions := startedController(t)
		require.NoError(t, controller.Select(ctx, 1, 1, entity.TileOver))

		require.NoError(t, controller.Cancel())

		assert.True(t, DefaultBoard.Equal(controller.Board()))
		assert.Zero(t, sessions.moveCalls)
		require.ErrorIs(t, controller.Cancel(), apperror.ErrNoPendingMove)
	})
}

func TestController_Submit(t *testing.T) {
	t.Run("Needs a pending move", func(t *testing.T) {
		controller, _ := startedController(t)

		require.ErrorIs(t, controller.Submit(context.Background()), apperror.ErrNoPendingMove)
	})

	t.Run("Rejected moves roll back and re-sync", func(t *testing.T) {
		// Given: a pending move the service will reject
		ctx := context.Background()
		controller, sessions := startedController(t)
		require.NoError(t, controller.Select(ctx, 1, 1, entity.TileOver))
		sessions.moveErr = fmt.Errorf("%w: Not your turn", apperror.ErrInvalidMove)

		// When: it is submitted
		err := controller.Submit(ctx)

		// Then: the board is the service's and the turn did not pass
		require.ErrorIs(t, err, apperror.ErrInvalidMove)
		assert.True(t, sessions.session.Board.Equal(controller.Board()))
		assert.Equal(t, entity.Unknotter, controller.TurnState().CurrentMover)
		assert.Zero(t, controller.Round())
	})

	t.Run("Accepted move with a failed confirmation is retried without resending", func(t *testing.T) {
		// Given: the status fetch fails after the move is accepted
		ctx := context.Background()
		controller, sessions := startedController(t)
		require.NoError(t, controller.Select(ctx, 1, 1, entity.TileOver))
		sessions.statusErr = errors.New("timeout")

		err := controller.Submit(ctx)
		require.Error(t, err)
		assert.Equal(t, 1, sessions.moveCalls)

		// Then: the move can be neither cancelled nor replaced
		require.ErrorIs(t, controller.Cancel(), apperror.ErrIllegalMove)
		require.ErrorIs(t, controller.Select(ctx, 2, 3, entity.TileOver), apperror.ErrIllegalMove)

		// When: the service recovers and submit is retried
		sessions.statusErr = nil
		require.NoError(t, controller.Submit(ctx))

		// Then: the move was sent once and the turn passed once
		assert.Equal(t, 1, sessions.moveCalls)
		assert.Equal(t, 1, controller.Round())
		assert.Equal(t, entity.Knotter, controller.TurnState().CurrentMover)
		assert.Equal(t, 2, controller.TurnState().RemainingUnresolved)
	})
}

func TestController_Sync(t *testing.T) {
	t.Run("Adopts the service board and drops an unsubmitted move", func(t *testing.T) {
		ctx := context.Background()
		controller, sessions := startedController(t)
		require.NoError(t, controller.Select(ctx, 1, 1, entity.TileOver))

		status, err := controller.Sync(ctx)

		require.NoError(t, err)
		assert.Equal(t, 3, status.UnresolvedCount)
		assert.True(t, sessions.session.Board.Equal(controller.Board()))
		_, pending := controller.Pending()
		assert.False(t, pending)
	})

	t.Run("Reports an unreachable service", func(t *testing.T) {
		controller, sessions := startedController(t)
		sessions.statusErr = apperror.ErrSessionUnreachable

		_, err := controller.Sync(context.Background())

		require.ErrorIs(t, err, apperror.ErrSessionUnreachable)
	})
}

func TestController_Classify(t *testing.T) {
	t.Run("Unavailable while crossings remain", func(t *testing.T) {
		controller, sessions := startedController(t)

		_, err := controller.Classify(context.Background())

		require.ErrorIs(t, err, apperror.ErrClassificationUnavailable)
		assert.Zero(t, sessions.classifyCalls)
	})

	t.Run("A board without crossings completes on start", func(t *testing.T) {
		controller, sessions := newController(t)
		require.NoError(t, controller.ImportBoard("[[1, 2], [3, 4]]"))

		require.NoError(t, controller.Start(context.Background()))

		assert.Equal(t, PhaseComplete, controller.Phase())
		assert.Equal(t, 1, sessions.classifyCalls)
	})
}

func TestController_Reset(t *testing.T) {
	t.Run("Tears the game down and returns to setup", func(t *testing.T) {
		// Given: a game with one confirmed move
		ctx := context.Background()
		controller, sessions := startedController(t)
		require.NoError(t, controller.Select(ctx, 1, 1, entity.TileOver))
		require.NoError(t, controller.Submit(ctx))

		// When: the game is reset
		controller.Reset(ctx)

		// Then: the session was deleted and the initial board is back
		assert.Equal(t, []string{"game-1"}, sessions.deleted)
		assert.Equal(t, PhaseSetup, controller.Phase())
		assert.Empty(t, controller.GameID())
		assert.Zero(t, controller.Round())
		assert.True(t, DefaultBoard.Equal(controller.Board()))
		assert.Equal(t, entity.Unknotter, controller.TurnState().CurrentMover)
	})

	t.Run("Teardown failures are ignored", func(t *testing.T) {
		controller, sessions := startedController(t)
		sessions.deleteErr = apperror.ErrSessionUnreachable

		controller.Reset(context.Background())

		assert.Equal(t, PhaseSetup, controller.Phase())
	})

	t.Run("Nothing to tear down before start", func(t *testing.T) {
		controller, sessions := newController(t)

		controller.Reset(context.Background())

		assert.Empty(t, sessions.deleted)
	})
}

func TestController_Restart(t *testing.T) {
	t.Run("Replays the same session from the start", func(t *testing.T) {
		// Given: a finished game
		ctx := context.Background()
		controller, sessions := startedController(t)
		for _, move := range []entity.Move{{Row: 1, Col: 1, Tile: 9}, {Row: 2, Col: 3, Tile: 10}, {Row: 3, Col: 2, Tile: 9}} {
			require.NoError(t, controller.Select(ctx, move.Row, move.Col, move.Tile))
			require.NoError(t, controller.Submit(ctx))
		}
		require.Equal(t, PhaseComplete, controller.Phase())

		// When: it is restarted
		require.NoError(t, controller.Restart(ctx))

		// Then: the same session is back at its initial board
		assert.Equal(t, 1, sessions.resetCalls)
		assert.Equal(t, "game-1", controller.GameID())
		assert.Equal(t, PhaseInProgress, controller.Phase())
		assert.Zero(t, controller.Round())
		assert.True(t, DefaultBoard.Equal(controller.Board()))
		assert.Equal(t, entity.Unknotter, controller.TurnState().CurrentMover)
		_, ok := controller.Result()
		assert.False(t, ok)

		require.NoError(t, controller.Select(ctx, 1, 1, entity.TileUnder))
	})

	t.Run("Needs a game", func(t *testing.T) {
		controller, _ := newController(t)

		require.ErrorIs(t, controller.Restart(context.Background()), apperror.ErrWrongPhase)
	})
}

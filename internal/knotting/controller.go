package knotting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/knotmosaic/internal/apperror"
	"github.com/rocketscienceinc/knotmosaic/internal/entity"
	"github.com/rocketscienceinc/knotmosaic/internal/mosaic"
)

type Phase string

const (
	PhaseSetup      Phase = "setup"
	PhaseInProgress Phase = "in-progress"
	PhaseComplete   Phase = "complete"
)

// DefaultBoard - 5x5 mosaic with three unresolved crossings, the game's starting board.
var DefaultBoard = entity.Board{
	Rows: 5,
	Cols: 5,
	Cells: []entity.Tile{
		0, 2, 5, 5, 1,
		2, 11, 5, 1, 6,
		6, 6, 2, 11, 4,
		6, 3, 11, 4, 0,
		3, 5, 4, 0, 0,
	},
}

type sessionService interface {
	CreateGame(ctx context.Context, board *entity.Board, startingPlayer entity.Player) (string, error)
	Status(ctx context.Context, gameID string) (entity.SessionStatus, error)
	MakeMove(ctx context.Context, gameID string, move entity.Move) (string, error)
	ValidateMove(ctx context.Context, gameID string, move entity.Move) error
	Classify(ctx context.Context, gameID string) (entity.ClassifyResult, error)
	ResetGame(ctx context.Context, gameID string, board *entity.Board, startingPlayer entity.Player) (entity.SessionStatus, error)
	DeleteGame(ctx context.Context, gameID string) error
}

// TurnState - whose turn it is and how many crossings are left.
type TurnState struct {
	FirstMover          entity.Player
	CurrentMover        entity.Player
	RemainingUnresolved int
}

// Controller drives one knotting/unknotting game against the session service.
// It is not safe for concurrent use.
type Controller struct {
	logger   *slog.Logger
	sessions sessionService

	phase        Phase
	initial      *entity.Board
	engine       *mosaic.Engine
	firstMover   entity.Player
	currentMover entity.Player

	gameID string
	round  int
	// submitted is set while an accepted move waits for the status that confirms it.
	submitted bool
	result    *entity.ClassifyResult
}

func NewController(logger *slog.Logger, sessions sessionService) *Controller {
	controller := &Controller{
		logger:     logger.With("component", "knotting"),
		sessions:   sessions,
		firstMover: entity.Unknotter,
	}
	controller.setup(DefaultBoard.Clone())

	return controller
}

func (that *Controller) Phase() Phase {
	return that.phase
}

func (that *Controller) Board() *entity.Board {
	return that.engine.Board()
}

func (that *Controller) GameID() string {
	return that.gameID
}

// Round - number of confirmed moves.
func (that *Controller) Round() int {
	return that.round
}

func (that *Controller) TurnState() TurnState {
	return TurnState{
		FirstMover:          that.firstMover,
		CurrentMover:        that.currentMover,
		RemainingUnresolved: that.engine.Board().CountUnresolved(),
	}
}

func (that *Controller) Pending() (entity.Move, bool) {
	return that.engine.Pending()
}

// Result - classification and winner once the game is complete.
func (that *Controller) Result() (entity.ClassifyResult, bool) {
	if that.result == nil {
		return entity.ClassifyResult{}, false
	}

	return *that.result, true
}

// LoadBoard replaces the board to play on; only during setup.
func (that *Controller) LoadBoard(board *entity.Board) error {
	if err := that.expect(PhaseSetup); err != nil {
		return err
	}

	if err := board.Validate(); err != nil {
		return fmt.Errorf("failed to load board: %w", err)
	}

	that.setup(board.Clone())

	return nil
}

// ImportBoard parses a board literal and loads it.
func (that *Controller) ImportBoard(text string) error {
	board, err := entity.ParseBoard(text)
	if err != nil {
		return fmt.Errorf("failed to import board: %w", err)
	}

	return that.LoadBoard(board)
}

func (that *Controller) SetFirstMover(player entity.Player) error {
	if err := that.expect(PhaseSetup); err != nil {
		return err
	}

	if !player.Valid() {
		return fmt.Errorf("%w: got %q", apperror.ErrInvalidPlayer, player)
	}

	that.firstMover = player
	that.currentMover = player

	return nil
}

// Start creates the session and enters play.
func (that *Controller) Start(ctx context.Context) error {
	log := that.logger.With("method", "Start")

	if err := that.expect(PhaseSetup); err != nil {
		return err
	}

	gameID, err := that.sessions.CreateGame(ctx, that.initial, that.firstMover)
	if err != nil {
		return fmt.Errorf("failed to start game: %w", err)
	}

	that.gameID = gameID
	that.phase = PhaseInProgress
	log.Info("game started", "gameID", gameID, "firstMover", that.firstMover)

	status, err := that.sessions.Status(ctx, gameID)
	if err != nil {
		return fmt.Errorf("failed to fetch initial status: %w", err)
	}

	return that.reconcile(ctx, status)
}

// Select resolves the crossing at (row, col) locally and asks the session
// service to validate it. The move stays pending until Submit.
func (that *Controller) Select(ctx context.Context, row, col int, tile entity.Tile) error {
	if err := that.expect(PhaseInProgress); err != nil {
		return err
	}

	if that.submitted {
		return fmt.Errorf("%w: previous move is awaiting confirmation", apperror.ErrIllegalMove)
	}

	move := entity.Move{Row: row, Col: col, Tile: tile}
	if err := that.engine.Play(move); err != nil {
		return err
	}

	if err := that.sessions.ValidateMove(ctx, that.gameID, move); err != nil {
		that.rollback(ctx, err)
		return fmt.Errorf("failed to validate move: %w", err)
	}

	return nil
}

// Cancel drops the pending move before it is submitted.
func (that *Controller) Cancel() error {
	if err := that.expect(PhaseInProgress); err != nil {
		return err
	}

	if that.submitted {
		return fmt.Errorf("%w: submitted moves cannot be cancelled", apperror.ErrIllegalMove)
	}

	return that.engine.Rollback()
}

// Submit sends the pending move and, once the service confirms it, replaces the
// local board with the authoritative one and passes the turn.
func (that *Controller) Submit(ctx context.Context) error {
	if err := that.expect(PhaseInProgress); err != nil {
		return err
	}

	move, ok := that.engine.Pending()
	if !ok {
		return apperror.ErrNoPendingMove
	}

	if !that.submitted {
		if _, err := that.sessions.MakeMove(ctx, that.gameID, move); err != nil {
			that.rollback(ctx, err)
			return fmt.Errorf("failed to submit move: %w", err)
		}
		that.submitted = true
	}

	status, err := that.sessions.Status(ctx, that.gameID)
	if err != nil {
		return fmt.Errorf("move accepted, status unavailable: %w", err)
	}

	return that.reconcile(ctx, status)
}

// Sync polls the session service and adopts its board. A pending move that was
// not submitted yet is discarded.
func (that *Controller) Sync(ctx context.Context) (entity.SessionStatus, error) {
	if that.phase == PhaseSetup {
		return entity.SessionStatus{}, fmt.Errorf("%w: no game in progress", apperror.ErrWrongPhase)
	}

	status, err := that.sessions.Status(ctx, that.gameID)
	if err != nil {
		return entity.SessionStatus{}, fmt.Errorf("failed to poll game: %w", err)
	}

	if that.phase == PhaseComplete {
		return status, nil
	}

	return status, that.reconcile(ctx, status)
}

// Classify asks for the verdict on a fully resolved board. Later calls return
// the first verdict without contacting the service.
func (that *Controller) Classify(ctx context.Context) (entity.ClassifyResult, error) {
	log := that.logger.With("method", "Classify", "gameID", that.gameID)

	if that.result != nil {
		return *that.result, nil
	}

	if err := that.expect(PhaseInProgress); err != nil {
		return entity.ClassifyResult{}, err
	}

	if remaining := that.engine.Board().CountUnresolved(); remaining > 0 || that.submitted {
		return entity.ClassifyResult{}, fmt.Errorf("%w: %d crossings left", apperror.ErrClassificationUnavailable, remaining)
	}

	response, err := that.sessions.Classify(ctx, that.gameID)
	if err != nil {
		return entity.ClassifyResult{}, fmt.Errorf("failed to classify board: %w", err)
	}

	result := entity.ClassifyResult{
		Classification: response.Classification,
		Winner:         entity.Winner(response.Classification),
	}
	if response.Winner != "" && response.Winner != result.Winner {
		log.Warn("service reported a different winner", "service", response.Winner, "local", result.Winner)
	}

	that.result = &result
	that.phase = PhaseComplete
	log.Info("game complete", "winner", result.Winner, "isUnknot", result.Classification.IsUnknot)

	return result, nil
}

// Restart replays the current session from its initial board with the same
// first mover. The session id is kept.
func (that *Controller) Restart(ctx context.Context) error {
	log := that.logger.With("method", "Restart", "gameID", that.gameID)

	if that.phase == PhaseSetup {
		return fmt.Errorf("%w: no game to restart", apperror.ErrWrongPhase)
	}

	status, err := that.sessions.ResetGame(ctx, that.gameID, nil, that.firstMover)
	if err != nil {
		return fmt.Errorf("failed to restart game: %w", err)
	}

	that.phase = PhaseInProgress
	that.currentMover = that.firstMover
	that.round = 0
	that.submitted = false
	that.result = nil
	log.Info("game restarted", "firstMover", that.firstMover)

	return that.reconcile(ctx, status)
}

// Reset tears the session down and returns to setup with the loaded board.
// Teardown failures are only logged.
func (that *Controller) Reset(ctx context.Context) {
	log := that.logger.With("method", "Reset")

	if that.gameID != "" {
		if err := that.sessions.DeleteGame(ctx, that.gameID); err != nil {
			log.Error("failed to tear down game", "gameID", that.gameID, "error", err)
		}
	}

	that.setup(that.initial)
}

func (that *Controller) setup(board *entity.Board) {
	that.phase = PhaseSetup
	that.initial = board
	that.engine = mosaic.NewEngine(mosaic.ResolveCrossing{}, board)
	that.currentMover = that.firstMover
	that.gameID = ""
	that.round = 0
	that.submitted = false
	that.result = nil
}

// reconcile adopts an authoritative status. A submitted move is confirmed by
// it, which passes the turn.
func (that *Controller) reconcile(ctx context.Context, status entity.SessionStatus) error {
	log := that.logger.With("method", "reconcile", "gameID", that.gameID)

	if that.submitted && !status.Board.Equal(that.engine.Board()) {
		log.Warn("board differs from service after move")
	}
	that.engine.Replace(status.Board)

	if that.submitted {
		that.submitted = false
		that.round++
		that.currentMover = that.currentMover.Next()

		if !status.GameOver && status.CurrentPlayer != that.currentMover {
			log.Warn("turn order differs from service", "service", status.CurrentPlayer, "local", that.currentMover)
		}
	}

	if status.GameOver && that.engine.Board().CountUnresolved() == 0 {
		if _, err := that.Classify(ctx); err != nil {
			return err
		}
	}

	return nil
}

// rollback undoes the optimistic move. A rejection also re-syncs the board
// from the service.
func (that *Controller) rollback(ctx context.Context, cause error) {
	log := that.logger.With("method", "rollback", "gameID", that.gameID)

	_ = that.engine.Rollback()

	if !errors.Is(cause, apperror.ErrInvalidMove) {
		return
	}

	status, err := that.sessions.Status(ctx, that.gameID)
	if err != nil {
		log.Error("failed to re-sync board after rejection", "error", err)
		return
	}

	that.engine.Replace(status.Board)
}

func (that *Controller) expect(phase Phase) error {
	if that.phase != phase {
		return fmt.Errorf("%w: game is %s, expected %s", apperror.ErrWrongPhase, that.phase, phase)
	}

	return nil
}

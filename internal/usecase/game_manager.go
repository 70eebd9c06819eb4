package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/knotmosaic/internal/apperror"
	"github.com/rocketscienceinc/knotmosaic/internal/entity"
)

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type classifier interface {
	Classify(ctx context.Context, board *entity.Board) (entity.Classification, error)
}

// Health - liveness report of the session service.
type Health struct {
	Status      string
	ActiveGames int
}

// GameManager owns the authoritative game sessions.
type GameManager struct {
	logger *slog.Logger

	// mu serialises read-modify-write cycles on sessions.
	mu         sync.Mutex
	gameRepo   gameRepo
	classifier classifier
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo, classifier classifier) *GameManager {
	return &GameManager{
		logger:     logger.With("component", "game-manager"),
		gameRepo:   gameRepo,
		classifier: classifier,
	}
}

// NewGame creates a session from a wire-encoded board.
func (that *GameManager) NewGame(ctx context.Context, board [][]int, startingPlayer string) (*entity.Session, error) {
	if startingPlayer == "" {
		startingPlayer = string(entity.Knotter)
	}

	game, err := entity.NewSession(uuid.NewString(), board, startingPlayer)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrSessionCreate, err)
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.logger.Info("game created", "gameID", game.ID, "startingPlayer", game.StartingPlayer,
		"unresolved", game.Board.CountUnresolved())

	return game, nil
}

func (that *GameManager) Status(ctx context.Context, id string) (*entity.Session, error) {
	return that.getGameByID(ctx, id)
}

// MakeMove applies a wire-encoded move. A rejected move returns the unchanged
// session with an error wrapping apperror.ErrInvalidMove.
func (that *GameManager) MakeMove(ctx context.Context, id string, row, col, newTile int) (*entity.Session, string, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	game, err := that.getGameByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	message, err := game.MakeMove(row, col, newTile)
	if err != nil {
		return game, err.Error(), fmt.Errorf("%w: %w", apperror.ErrInvalidMove, err)
	}

	if err = that.updateGame(ctx, game); err != nil {
		return nil, "", err
	}

	return game, message, nil
}

// Validate - dry run of MakeMove.
func (that *GameManager) Validate(ctx context.Context, id string, row, col, newTile int) error {
	game, err := that.getGameByID(ctx, id)
	if err != nil {
		return err
	}

	if err = game.ValidateMove(row, col, newTile); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrInvalidMove, err)
	}

	return nil
}

// Classify returns the session's classification, asking the upstream
// classifier the first time only.
func (that *GameManager) Classify(ctx context.Context, id string) (*entity.Session, error) {
	log := that.logger.With("method", "Classify", "gameID", id)

	that.mu.Lock()
	defer that.mu.Unlock()

	game, err := that.getGameByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if game.Classification != nil {
		return game, nil
	}

	if remaining := game.Board.CountUnresolved(); remaining > 0 {
		return nil, fmt.Errorf("%w: %d crossings left", apperror.ErrClassificationUnavailable, remaining)
	}

	classification, err := that.classifier.Classify(ctx, game.Board)
	if err != nil {
		return nil, fmt.Errorf("failed to classify board: %w", err)
	}

	game.Classify(classification)
	if err = that.updateGame(ctx, game); err != nil {
		return nil, err
	}

	log.Info("game classified", "winner", game.Winner, "isUnknot", classification.IsUnknot)

	return game, nil
}

// Reset restores the session, optionally with a new board or starting player.
func (that *GameManager) Reset(ctx context.Context, id string, board [][]int, startingPlayer string) (*entity.Session, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	game, err := that.getGameByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var player entity.Player
	if startingPlayer != "" {
		if player, err = entity.ParsePlayer(startingPlayer); err != nil {
			return nil, err
		}
	}

	if err = game.Reset(board, player); err != nil {
		return nil, fmt.Errorf("failed to reset game: %w", err)
	}

	if err = that.updateGame(ctx, game); err != nil {
		return nil, err
	}

	return game, nil
}

// Delete tears the session down. It waits for in-flight mutations so none of
// them can write the session back afterwards.
func (that *GameManager) Delete(ctx context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.gameRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	that.logger.Info("game deleted", "gameID", id)

	return nil
}

func (that *GameManager) Health(ctx context.Context) (Health, error) {
	count, err := that.gameRepo.Count(ctx)
	if err != nil {
		return Health{}, fmt.Errorf("failed to count games: %w", err)
	}

	return Health{Status: "healthy", ActiveGames: count}, nil
}

func (that *GameManager) getGameByID(ctx context.Context, id string) (*entity.Session, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrGameNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

func (that *GameManager) updateGame(ctx context.Context, game *entity.Session) error {
	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	return nil
}

package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/knotmosaic/internal/apperror"
	"github.com/rocketscienceinc/knotmosaic/internal/entity"
	"github.com/rocketscienceinc/knotmosaic/internal/logger"
	"github.com/rocketscienceinc/knotmosaic/internal/repository"
	"github.com/rocketscienceinc/knotmosaic/internal/usecase"
	"github.com/rocketscienceinc/knotmosaic/transport/rest"
)

type stubClassifier struct {
	classification entity.Classification
	err            error
}

func (that stubClassifier) Classify(_ context.Context, _ *entity.Board) (entity.Classification, error) {
	return that.classification, that.err
}

func newTestClient(t *testing.T, baseURL string, timeout time.Duration) *Client {
	t.Helper()

	return New(logger.New("error", io.Discard), baseURL, timeout)
}

// newSessionService serves the real session service backed by memory.
func newSessionService(t *testing.T) *Client {
	t.Helper()

	return newSessionServiceWith(t, stubClassifier{classification: entity.Classification{IsUnknot: true, Reason: "unknot"}})
}

func newSessionServiceWith(t *testing.T, classifier stubClassifier) *Client {
	t.Helper()

	log := logger.New("error", io.Discard)
	games := usecase.NewGameManager(log, repository.NewMemoryGameRepository(), classifier)

	server := httptest.NewServer(rest.NewRouter(log, games))
	t.Cleanup(server.Close)

	return newTestClient(t, server.URL+"/api/", DefaultTimeout)
}

func gameBoard(t *testing.T) *entity.Board {
	t.Helper()

	board, err := entity.FromRows([][]entity.Tile{
		{0, 11, 2},
		{5, 4, 11},
	})
	require.NoError(t, err)

	return board
}

func TestClient_Game(t *testing.T) {
	ctx := context.Background()
	sessions := newSessionService(t)

	// Given: a new game on a board with two crossings
	gameID, err := sessions.CreateGame(ctx, gameBoard(t), entity.Unknotter)
	require.NoError(t, err)
	require.NotEmpty(t, gameID)

	// Then: the status decodes the sentinel back to an unresolved tile
	status, err := sessions.Status(ctx, gameID)
	require.NoError(t, err)
	assert.True(t, gameBoard(t).Equal(status.Board))
	assert.Equal(t, 2, status.UnresolvedCount)
	assert.Equal(t, []entity.Position{{Row: 0, Col: 1}, {Row: 1, Col: 2}}, status.UnresolvedPositions)
	assert.Equal(t, entity.Unknotter, status.CurrentPlayer)
	assert.False(t, status.GameOver)

	// When: moves are validated
	require.NoError(t, sessions.ValidateMove(ctx, gameID, entity.Move{Row: 0, Col: 1, Tile: entity.TileOver}))
	err = sessions.ValidateMove(ctx, gameID, entity.Move{Row: 0, Col: 0, Tile: entity.TileOver})
	require.ErrorIs(t, err, apperror.ErrInvalidMove)

	// Then: classification is not available yet
	_, err = sessions.Classify(ctx, gameID)
	require.ErrorIs(t, err, apperror.ErrClassificationUnavailable)

	// When: both crossings are resolved
	message, err := sessions.MakeMove(ctx, gameID, entity.Move{Row: 0, Col: 1, Tile: entity.TileOver})
	require.NoError(t, err)
	assert.Contains(t, message, "knotter")

	_, err = sessions.MakeMove(ctx, gameID, entity.Move{Row: 0, Col: 1, Tile: entity.TileUnder})
	require.ErrorIs(t, err, apperror.ErrInvalidMove)

	_, err = sessions.MakeMove(ctx, gameID, entity.Move{Row: 1, Col: 2, Tile: entity.TileUnder})
	require.NoError(t, err)

	// Then: the game is over and the classification names the winner
	status, err = sessions.Status(ctx, gameID)
	require.NoError(t, err)
	assert.True(t, status.GameOver)
	assert.Equal(t, 2, status.MoveCount)
	assert.Nil(t, status.IsUnknot)

	result, err := sessions.Classify(ctx, gameID)
	require.NoError(t, err)
	assert.True(t, result.Classification.IsUnknot)
	assert.Equal(t, entity.Unknotter, result.Winner)

	status, err = sessions.Status(ctx, gameID)
	require.NoError(t, err)
	assert.Equal(t, entity.Unknotter, status.Winner)
	require.NotNil(t, status.IsUnknot)
	assert.True(t, *status.IsUnknot)

	// When: the game is reset with the other starting player
	status, err = sessions.ResetGame(ctx, gameID, nil, entity.Knotter)
	require.NoError(t, err)
	assert.Equal(t, 2, status.UnresolvedCount)
	assert.Equal(t, entity.Knotter, status.CurrentPlayer)

	// Then: it can be deleted once
	health, err := sessions.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, Health{Status: "healthy", ActiveGames: 1}, health)

	require.NoError(t, sessions.DeleteGame(ctx, gameID))
	require.ErrorIs(t, sessions.DeleteGame(ctx, gameID), apperror.ErrGameNotFound)
}

func TestClient_Rejections(t *testing.T) {
	ctx := context.Background()
	sessions := newSessionService(t)

	t.Run("Unknown starting player", func(t *testing.T) {
		_, err := sessions.CreateGame(ctx, gameBoard(t), "referee")
		require.ErrorIs(t, err, apperror.ErrSessionCreate)
	})

	t.Run("Unknown game", func(t *testing.T) {
		_, err := sessions.Status(ctx, "nope")
		require.ErrorIs(t, err, apperror.ErrGameNotFound)

		_, err = sessions.MakeMove(ctx, "nope", entity.Move{Row: 0, Col: 0, Tile: entity.TileOver})
		require.ErrorIs(t, err, apperror.ErrInvalidMove)
		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})
}

func TestClient_Wire(t *testing.T) {
	t.Run("Unresolved crossings are sent as -1", func(t *testing.T) {
		// Given: a service that records the create request
		var received createGameRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/game/new", r.URL.Path)
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"game_id": "g1"}`))
		}))
		t.Cleanup(server.Close)

		// When: a game is created
		gameID, err := newTestClient(t, server.URL+"/api", time.Second).CreateGame(context.Background(), gameBoard(t), entity.Knotter)

		// Then: the board uses the wire encoding
		require.NoError(t, err)
		assert.Equal(t, "g1", gameID)
		assert.Equal(t, [][]int{{0, -1, 2}, {5, 4, -1}}, received.Board)
		assert.Equal(t, "knotter", received.StartingPlayer)
	})

	t.Run("A literal 11 from the service is rejected", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"board": [[0, 11]], "current_player": "knotter"}`))
		}))
		t.Cleanup(server.Close)

		_, err := newTestClient(t, server.URL, time.Second).Status(context.Background(), "g1")

		require.ErrorIs(t, err, apperror.ErrMalformedBoard)
	})
}

func TestClient_Unreachable(t *testing.T) {
	ctx := context.Background()

	t.Run("Connection refused", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		server.Close()

		_, err := newTestClient(t, server.URL, time.Second).Status(ctx, "g1")

		require.ErrorIs(t, err, apperror.ErrSessionUnreachable)
	})

	t.Run("Timeout", func(t *testing.T) {
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		t.Cleanup(func() {
			close(release)
			server.Close()
		})

		err := newTestClient(t, server.URL, 50*time.Millisecond).ValidateMove(ctx, "g1", entity.Move{Row: 0, Col: 1, Tile: entity.TileOver})

		require.ErrorIs(t, err, apperror.ErrSessionUnreachable)
	})

	t.Run("Server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error": "boom"}`))
		}))
		t.Cleanup(server.Close)

		_, err := newTestClient(t, server.URL, time.Second).MakeMove(ctx, "g1", entity.Move{Row: 0, Col: 1, Tile: entity.TileOver})

		require.ErrorIs(t, err, apperror.ErrSessionUnreachable)
		assert.Contains(t, err.Error(), "boom")
	})
}

func TestClient_ClassifierOutage(t *testing.T) {
	// Given: a session service whose upstream classifier is down
	ctx := context.Background()
	sessions := newSessionServiceWith(t, stubClassifier{err: apperror.ErrClassifierFailed})

	gameID, err := sessions.CreateGame(ctx, gameBoard(t), entity.Knotter)
	require.NoError(t, err)
	_, err = sessions.MakeMove(ctx, gameID, entity.Move{Row: 0, Col: 1, Tile: entity.TileOver})
	require.NoError(t, err)
	_, err = sessions.MakeMove(ctx, gameID, entity.Move{Row: 1, Col: 2, Tile: entity.TileUnder})
	require.NoError(t, err)

	// When: the finished game is classified
	_, err = sessions.Classify(ctx, gameID)

	// Then: the failure names the classifier, not the session service
	require.ErrorIs(t, err, apperror.ErrClassifierFailed)
	require.NotErrorIs(t, err, apperror.ErrSessionUnreachable)
}

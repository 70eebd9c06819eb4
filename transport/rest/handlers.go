package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/rocketscienceinc/knotmosaic/internal/apperror"
	"github.com/rocketscienceinc/knotmosaic/internal/entity"
	"github.com/rocketscienceinc/knotmosaic/internal/usecase"
)

type gameUseCase interface {
	NewGame(ctx context.Context, board [][]int, startingPlayer string) (*entity.Session, error)
	Status(ctx context.Context, id string) (*entity.Session, error)
	MakeMove(ctx context.Context, id string, row, col, newTile int) (*entity.Session, string, error)
	Validate(ctx context.Context, id string, row, col, newTile int) error
	Classify(ctx context.Context, id string) (*entity.Session, error)
	Reset(ctx context.Context, id string, board [][]int, startingPlayer string) (*entity.Session, error)
	Delete(ctx context.Context, id string) error
	Health(ctx context.Context) (usecase.Health, error)
}

type handlers struct {
	logger *slog.Logger
	games  gameUseCase
}

type newGameRequest struct {
	Board          [][]int `json:"board"`
	StartingPlayer string  `json:"starting_player"`
}

type moveRequest struct {
	Row     *int `json:"row"`
	Col     *int `json:"col"`
	NewTile *int `json:"new_tile"`
}

type resetRequest struct {
	Board          [][]int `json:"board"`
	StartingPlayer string  `json:"starting_player"`
}

type statusResponse struct {
	CurrentPlayer       entity.Player `json:"current_player"`
	GameOver            bool          `json:"game_over"`
	Board               [][]int       `json:"board"`
	UnresolvedCount     int           `json:"unresolved_count"`
	UnresolvedPositions [][2]int      `json:"unresolved_positions"`
	MoveCount           int           `json:"move_count"`
	Rows                int           `json:"rows"`
	Cols                int           `json:"cols"`
	Winner              *string       `json:"winner"`
	IsUnknot            *bool         `json:"is_unknot"`
}

func newStatusResponse(game *entity.Session) statusResponse {
	status := game.Status()

	positions := make([][2]int, 0, len(status.UnresolvedPositions))
	for _, p := range status.UnresolvedPositions {
		positions = append(positions, [2]int{p.Row, p.Col})
	}

	response := statusResponse{
		CurrentPlayer:       status.CurrentPlayer,
		GameOver:            status.GameOver,
		Board:               status.Board.ToWire(),
		UnresolvedCount:     status.UnresolvedCount,
		UnresolvedPositions: positions,
		MoveCount:           status.MoveCount,
		Rows:                status.Board.Rows,
		Cols:                status.Board.Cols,
		IsUnknot:            status.IsUnknot,
	}

	if status.Winner != "" {
		winner := string(status.Winner)
		response.Winner = &winner
	}

	return response
}

func (that *handlers) NewGame(w http.ResponseWriter, r *http.Request) {
	var request newGameRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	if request.Board == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Board configuration required"})
		return
	}

	game, err := that.games.NewGame(r.Context(), request.Board, request.StartingPlayer)
	if err != nil {
		that.writeError(w, "NewGame", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"game_id": game.ID,
		"status":  newStatusResponse(game),
	})
}

func (that *handlers) Status(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.Status(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, "Status", err)
		return
	}

	writeJSON(w, http.StatusOK, newStatusResponse(game))
}

func (that *handlers) MakeMove(w http.ResponseWriter, r *http.Request) {
	row, col, newTile, ok := decodeMove(w, r)
	if !ok {
		return
	}

	game, message, err := that.games.MakeMove(r.Context(), r.PathValue("id"), row, col, newTile)
	if errors.Is(err, apperror.ErrInvalidMove) && game != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": message,
			"error":   message,
			"status":  newStatusResponse(game),
		})
		return
	}

	if err != nil {
		that.writeError(w, "MakeMove", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": message,
		"status":  newStatusResponse(game),
	})
}

func (that *handlers) Validate(w http.ResponseWriter, r *http.Request) {
	row, col, newTile, ok := decodeMove(w, r)
	if !ok {
		return
	}

	err := that.games.Validate(r.Context(), r.PathValue("id"), row, col, newTile)
	if errors.Is(err, apperror.ErrInvalidMove) {
		message := strings.TrimPrefix(err.Error(), apperror.ErrInvalidMove.Error()+": ")
		writeJSON(w, http.StatusOK, map[string]any{"valid": false, "message": message})
		return
	}

	if err != nil {
		that.writeError(w, "Validate", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"valid": true, "message": ""})
}

func (that *handlers) Classify(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.Classify(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, "Classify", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"classification": game.Classification,
		"winner":         game.Winner,
		"status":         newStatusResponse(game),
	})
}

func (that *handlers) Reset(w http.ResponseWriter, r *http.Request) {
	var request resetRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	game, err := that.games.Reset(r.Context(), r.PathValue("id"), request.Board, request.StartingPlayer)
	if err != nil {
		that.writeError(w, "Reset", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Game reset successfully",
		"status":  newStatusResponse(game),
	})
}

func (that *handlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := that.games.Delete(r.Context(), r.PathValue("id")); err != nil {
		that.writeError(w, "Delete", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Game deleted"})
}

func (that *handlers) Health(w http.ResponseWriter, r *http.Request) {
	health, err := that.games.Health(r.Context())
	if err != nil {
		that.writeError(w, "Health", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":       health.Status,
		"active_games": health.ActiveGames,
	})
}

func decodeMove(w http.ResponseWriter, r *http.Request) (int, int, int, bool) {
	var request moveRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return 0, 0, 0, false
	}

	if request.Row == nil || request.Col == nil || request.NewTile == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "row, col, and new_tile are required"})
		return 0, 0, 0, false
	}

	return *request.Row, *request.Col, *request.NewTile, true
}

func (that *handlers) writeError(w http.ResponseWriter, method string, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, apperror.ErrGameNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperror.ErrClassificationUnavailable):
		status = http.StatusConflict
	case errors.Is(err, apperror.ErrClassifierFailed):
		status = http.StatusBadGateway
	case errors.Is(err, apperror.ErrSessionCreate),
		errors.Is(err, apperror.ErrInvalidMove),
		errors.Is(err, apperror.ErrMalformedBoard),
		errors.Is(err, apperror.ErrInvalidPlayer):
		status = http.StatusBadRequest
	}

	if status >= http.StatusInternalServerError {
		that.logger.Error("request failed", "method", method, "error", err)
	}

	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

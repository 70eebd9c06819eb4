package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rocketscienceinc/knotmosaic/internal/apperror"
	"github.com/rocketscienceinc/knotmosaic/internal/entity"
)

const DefaultTimeout = 5 * time.Second

// Client talks to the knotting/unknotting session service.
type Client struct {
	logger *slog.Logger

	baseURL    string
	httpClient *http.Client
}

func New(logger *slog.Logger, baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		logger:     logger.With("component", "session-client"),
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// CreateGame - POST /game/new.
func (that *Client) CreateGame(ctx context.Context, board *entity.Board, startingPlayer entity.Player) (string, error) {
	request := createGameRequest{Board: board.ToWire(), StartingPlayer: string(startingPlayer)}

	var response createGameResponse
	if err := that.do(ctx, http.MethodPost, "/game/new", request, &response, apperror.ErrSessionCreate); err != nil {
		return "", err
	}

	if response.GameID == "" {
		return "", fmt.Errorf("%w: empty game id", apperror.ErrSessionCreate)
	}

	return response.GameID, nil
}

// Status - GET /game/{id}/status.
func (that *Client) Status(ctx context.Context, gameID string) (entity.SessionStatus, error) {
	var response statusResponse
	if err := that.do(ctx, http.MethodGet, gamePath(gameID, "status"), nil, &response, apperror.ErrGameNotFound); err != nil {
		return entity.SessionStatus{}, err
	}

	status, err := response.toEntity()
	if err != nil {
		return entity.SessionStatus{}, fmt.Errorf("bad status from session service: %w", err)
	}

	return status, nil
}

// MakeMove - POST /game/{id}/move.
func (that *Client) MakeMove(ctx context.Context, gameID string, move entity.Move) (string, error) {
	var response moveResponse
	if err := that.do(ctx, http.MethodPost, gamePath(gameID, "move"), newMoveRequest(move), &response, apperror.ErrInvalidMove); err != nil {
		return "", err
	}

	if !response.Success {
		return "", fmt.Errorf("%w: %s", apperror.ErrInvalidMove, response.Message)
	}

	return response.Message, nil
}

// ValidateMove - POST /game/{id}/validate, a dry run of MakeMove.
func (that *Client) ValidateMove(ctx context.Context, gameID string, move entity.Move) error {
	var response validateResponse
	if err := that.do(ctx, http.MethodPost, gamePath(gameID, "validate"), newMoveRequest(move), &response, apperror.ErrInvalidMove); err != nil {
		return err
	}

	if !response.Valid {
		return fmt.Errorf("%w: %s", apperror.ErrInvalidMove, response.Message)
	}

	return nil
}

// Classify - POST /game/{id}/classify.
func (that *Client) Classify(ctx context.Context, gameID string) (entity.ClassifyResult, error) {
	var response classifyResponse
	if err := that.do(ctx, http.MethodPost, gamePath(gameID, "classify"), nil, &response, apperror.ErrClassificationUnavailable); err != nil {
		return entity.ClassifyResult{}, err
	}

	return entity.ClassifyResult{
		Classification: response.Classification,
		Winner:         entity.Player(response.Winner),
	}, nil
}

// ResetGame - POST /game/{id}/reset; nil board and empty player keep the current ones.
func (that *Client) ResetGame(ctx context.Context, gameID string, board *entity.Board, startingPlayer entity.Player) (entity.SessionStatus, error) {
	request := resetRequest{StartingPlayer: string(startingPlayer)}
	if board != nil {
		request.Board = board.ToWire()
	}

	var response resetResponse
	if err := that.do(ctx, http.MethodPost, gamePath(gameID, "reset"), request, &response, apperror.ErrMalformedBoard); err != nil {
		return entity.SessionStatus{}, err
	}

	return response.Status.toEntity()
}

// DeleteGame - DELETE /game/{id}.
func (that *Client) DeleteGame(ctx context.Context, gameID string) error {
	return that.do(ctx, http.MethodDelete, "/game/"+url.PathEscape(gameID), nil, nil, apperror.ErrGameNotFound)
}

// Health - GET /health.
func (that *Client) Health(ctx context.Context) (Health, error) {
	var response Health
	if err := that.do(ctx, http.MethodGet, "/health", nil, &response, apperror.ErrSessionUnreachable); err != nil {
		return Health{}, err
	}

	return response, nil
}

// do performs one exchange. A 502 means the service is up but its upstream
// classifier failed and wraps ErrClassifierFailed. Transport failures and other
// 5xx answers wrap ErrSessionUnreachable; other non-2xx answers wrap rejected,
// and 404 also wraps ErrGameNotFound.
func (that *Client) do(ctx context.Context, method, path string, body, out any, rejected error) error {
	log := that.logger.With("method", method, "path", path)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, that.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := that.httpClient.Do(req)
	if err != nil {
		log.Error("request failed", "error", err)
		return fmt.Errorf("%w: %w", apperror.ErrSessionUnreachable, err)
	}
	defer resp.Body.Close()

	log.Debug("response received", "status", resp.StatusCode)

	if resp.StatusCode == http.StatusBadGateway {
		return fmt.Errorf("%w: %s", apperror.ErrClassifierFailed, readError(resp.Body))
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: status %d: %s", apperror.ErrSessionUnreachable, resp.StatusCode, readError(resp.Body))
	}

	if resp.StatusCode >= http.StatusBadRequest {
		message := readError(resp.Body)
		if resp.StatusCode == http.StatusNotFound && !errors.Is(rejected, apperror.ErrGameNotFound) {
			return fmt.Errorf("%w: %w: %s", rejected, apperror.ErrGameNotFound, message)
		}
		return fmt.Errorf("%w: %s", rejected, message)
	}

	if out == nil {
		return nil
	}

	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func readError(body io.Reader) string {
	var response errorResponse
	if err := json.NewDecoder(body).Decode(&response); err != nil {
		return "unexpected response"
	}

	if response.Error != "" {
		return response.Error
	}

	return response.Message
}

func gamePath(gameID, action string) string {
	return "/game/" + url.PathEscape(gameID) + "/" + action
}

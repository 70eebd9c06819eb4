package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rocketscienceinc/knotmosaic/internal/apperror"
	"github.com/rocketscienceinc/knotmosaic/internal/entity"
)

// Client forwards fully resolved boards to the upstream knot classifier.
type Client struct {
	logger *slog.Logger

	url        string
	httpClient *http.Client
}

type classifyRequest struct {
	Board [][]int `json:"board"`
}

func New(logger *slog.Logger, url string, timeout time.Duration) *Client {
	return &Client{
		logger:     logger.With("component", "classifier"),
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Classify posts the wire-encoded board and decodes the verdict.
func (that *Client) Classify(ctx context.Context, board *entity.Board) (entity.Classification, error) {
	log := that.logger.With("method", "Classify")

	payload, err := json.Marshal(classifyRequest{Board: board.ToWire()})
	if err != nil {
		return entity.Classification{}, fmt.Errorf("failed to marshal board: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, that.url, bytes.NewReader(payload))
	if err != nil {
		return entity.Classification{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := that.httpClient.Do(req)
	if err != nil {
		log.Error("classifier unreachable", "error", err)
		return entity.Classification{}, fmt.Errorf("%w: %w", apperror.ErrClassifierFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return entity.Classification{}, fmt.Errorf("%w: status %d", apperror.ErrClassifierFailed, resp.StatusCode)
	}

	var classification entity.Classification
	if err = json.NewDecoder(resp.Body).Decode(&classification); err != nil {
		return entity.Classification{}, fmt.Errorf("%w: failed to decode verdict: %w", apperror.ErrClassifierFailed, err)
	}

	log.Debug("board classified", "isUnknot", classification.IsUnknot, "crossings", classification.NumCrossings)

	return classification, nil
}

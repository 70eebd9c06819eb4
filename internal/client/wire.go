package client

import (
	"github.com/rocketscienceinc/knotmosaic/internal/entity"
)

type createGameRequest struct {
	Board          [][]int `json:"board"`
	StartingPlayer string  `json:"starting_player"`
}

type createGameResponse struct {
	GameID string         `json:"game_id"`
	Status statusResponse `json:"status"`
}

type statusResponse struct {
	Board               [][]int  `json:"board"`
	UnresolvedCount     int      `json:"unresolved_count"`
	UnresolvedPositions [][2]int `json:"unresolved_positions"`
	CurrentPlayer       string   `json:"current_player"`
	GameOver            bool     `json:"game_over"`
	MoveCount           int      `json:"move_count"`
	Rows                int      `json:"rows"`
	Cols                int      `json:"cols"`
	Winner              *string  `json:"winner"`
	IsUnknot            *bool    `json:"is_unknot"`
}

type moveRequest struct {
	Row     int `json:"row"`
	Col     int `json:"col"`
	NewTile int `json:"new_tile"`
}

type moveResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type validateResponse struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

type classifyResponse struct {
	Classification entity.Classification `json:"classification"`
	Winner         string                `json:"winner"`
}

type resetRequest struct {
	Board          [][]int `json:"board,omitempty"`
	StartingPlayer string  `json:"starting_player,omitempty"`
}

type resetResponse struct {
	Message string         `json:"message"`
	Status  statusResponse `json:"status"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Health - liveness report of the session service.
type Health struct {
	Status      string `json:"status"`
	ActiveGames int    `json:"active_games"`
}

func newMoveRequest(move entity.Move) moveRequest {
	return moveRequest{Row: move.Row, Col: move.Col, NewTile: entity.ToWireTile(move.Tile)}
}

func (that statusResponse) toEntity() (entity.SessionStatus, error) {
	board, err := entity.FromWire(that.Board)
	if err != nil {
		return entity.SessionStatus{}, err
	}

	positions := make([]entity.Position, 0, len(that.UnresolvedPositions))
	for _, p := range that.UnresolvedPositions {
		positions = append(positions, entity.Position{Row: p[0], Col: p[1]})
	}

	status := entity.SessionStatus{
		Board:               board,
		UnresolvedCount:     that.UnresolvedCount,
		UnresolvedPositions: positions,
		CurrentPlayer:       entity.Player(that.CurrentPlayer),
		GameOver:            that.GameOver,
		MoveCount:           that.MoveCount,
		IsUnknot:            that.IsUnknot,
	}

	if that.Winner != nil {
		status.Winner = entity.Player(*that.Winner)
	}

	return status, nil
}

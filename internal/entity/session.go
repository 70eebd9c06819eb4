package entity

import (
	"fmt"

	"github.com/rocketscienceinc/knotmosaic/internal/apperror"
)

// Session - authoritative record of one knotting/unknotting game.
type Session struct {
	ID             string          `json:"id"`
	Board          *Board          `json:"board"`
	InitialBoard   *Board          `json:"initial_board"`
	CurrentPlayer  Player          `json:"current_player"`
	StartingPlayer Player          `json:"starting_player"`
	GameOver       bool            `json:"game_over"`
	Moves          []MoveRecord    `json:"moves"`
	Classification *Classification `json:"classification,omitempty"`
	Winner         Player          `json:"winner,omitempty"`
}

// NewSession creates a session from a wire-encoded board.
func NewSession(id string, rows [][]int, startingPlayer string) (*Session, error) {
	player, err := ParsePlayer(startingPlayer)
	if err != nil {
		return nil, err
	}

	board, err := FromWire(rows)
	if err != nil {
		return nil, err
	}

	session := &Session{
		ID:             id,
		Board:          board,
		InitialBoard:   board.Clone(),
		CurrentPlayer:  player,
		StartingPlayer: player,
		Moves:          []MoveRecord{},
	}
	session.GameOver = board.CountUnresolved() == 0

	return session, nil
}

// ValidateMove checks a wire-encoded move without applying it.
func (that *Session) ValidateMove(row, col, newTile int) error {
	if that.GameOver {
		return apperror.ErrGameOver
	}

	current, err := that.Board.Get(row, col)
	if err != nil {
		return err
	}

	if !current.Playable() {
		return fmt.Errorf("%w: (%d, %d) holds %d", apperror.ErrNotUnresolved, row, col, ToWireTile(current))
	}

	if !Tile(newTile).IsResolution() {
		return fmt.Errorf("%w: got %d", apperror.ErrInvalidResolution, newTile)
	}

	return nil
}

// MakeMove applies a validated move. The current player is toggled unless the
// move resolved the last crossing, which ends the game.
func (that *Session) MakeMove(row, col, newTile int) (string, error) {
	if err := that.ValidateMove(row, col, newTile); err != nil {
		return "", err
	}

	that.Board.Cells[row*that.Board.Cols+col] = Tile(newTile)
	that.Moves = append(that.Moves, MoveRecord{Row: row, Col: col, NewTile: newTile, Player: that.CurrentPlayer})

	if that.Board.CountUnresolved() == 0 {
		that.GameOver = true
		return "Move accepted. Game over, all crossings resolved. Awaiting classification to determine winner.", nil
	}

	that.CurrentPlayer = that.CurrentPlayer.Next()

	return fmt.Sprintf("Move accepted. Next player: %s", that.CurrentPlayer), nil
}

// Classify records the classification; the first one recorded is kept.
func (that *Session) Classify(classification Classification) {
	if that.Classification != nil {
		return
	}

	that.Classification = &classification
	that.Winner = Winner(classification)
}

// Reset restores the initial board, optionally replacing it and the starting player.
func (that *Session) Reset(rows [][]int, startingPlayer Player) error {
	if rows != nil {
		board, err := FromWire(rows)
		if err != nil {
			return err
		}
		that.InitialBoard = board
	}

	if startingPlayer != "" {
		if !startingPlayer.Valid() {
			return fmt.Errorf("%w: got %q", apperror.ErrInvalidPlayer, startingPlayer)
		}
		that.StartingPlayer = startingPlayer
	}

	that.Board = that.InitialBoard.Clone()
	that.CurrentPlayer = that.StartingPlayer
	that.Moves = []MoveRecord{}
	that.GameOver = that.Board.CountUnresolved() == 0
	that.Classification = nil
	that.Winner = ""

	return nil
}

func (that *Session) Status() SessionStatus {
	status := SessionStatus{
		Board:               that.Board.Clone(),
		UnresolvedCount:     that.Board.CountUnresolved(),
		UnresolvedPositions: that.Board.UnresolvedPositions(),
		CurrentPlayer:       that.CurrentPlayer,
		GameOver:            that.GameOver,
		MoveCount:           len(that.Moves),
		Winner:              that.Winner,
	}

	if that.Classification != nil {
		isUnknot := that.Classification.IsUnknot
		status.IsUnknot = &isUnknot
	}

	return status
}

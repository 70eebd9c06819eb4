package entity

import "fmt"

// Move - assignment of one tile to one cell.
type Move struct {
	Row  int  `json:"row"`
	Col  int  `json:"col"`
	Tile Tile `json:"new_tile"`
}

func (that Move) String() string {
	return fmt.Sprintf("(%d, %d) <- %d", that.Row, that.Col, that.Tile)
}

// MoveRecord - move accepted by the session service.
type MoveRecord struct {
	Row     int    `json:"row"`
	Col     int    `json:"col"`
	NewTile int    `json:"new_tile"`
	Player  Player `json:"player"`
}

// SessionStatus - snapshot of a session as reported by the session service.
type SessionStatus struct {
	Board               *Board
	UnresolvedCount     int
	UnresolvedPositions []Position
	CurrentPlayer       Player
	GameOver            bool
	MoveCount           int
	Winner              Player
	IsUnknot            *bool
}

// ClassifyResult - classification together with the winner it determines.
type ClassifyResult struct {
	Classification Classification
	Winner         Player
}

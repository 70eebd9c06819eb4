package entity

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/knotmosaic/internal/apperror"
)

type Player string

const (
	Knotter   Player = "knotter"
	Unknotter Player = "unknotter"
)

func ParsePlayer(s string) (Player, error) {
	switch Player(strings.ToLower(strings.TrimSpace(s))) {
	case Knotter:
		return Knotter, nil
	case Unknotter:
		return Unknotter, nil
	default:
		return "", fmt.Errorf("%w: got %q", apperror.ErrInvalidPlayer, s)
	}
}

// Next - the player who moves after that.
func (that Player) Next() Player {
	if that == Knotter {
		return Unknotter
	}
	return Knotter
}

func (that Player) Valid() bool {
	return that == Knotter || that == Unknotter
}

func (that Player) Title() string {
	switch that {
	case Knotter:
		return "Knotter"
	case Unknotter:
		return "Unknotter"
	default:
		return string(that)
	}
}

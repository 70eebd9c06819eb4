package entity

import "fmt"

// Tile - code of what is drawn in one mosaic cell.
type Tile int

const (
	TileEmpty Tile = 0

	// 1..8 are the fixed strand and crossing glyphs.
	TileStrand1 Tile = 1
	TileStrand8 Tile = 8

	TileOver       Tile = 9
	TileUnder      Tile = 10
	TileUnresolved Tile = 11

	// WireUnresolved - encoding of TileUnresolved used by the session service.
	WireUnresolved = -1
)

const imageDir = "/images"

// tileImages is indexed by tile code; the empty tile has no image.
var tileImages = func() [TileUnresolved + 1]string {
	var images [TileUnresolved + 1]string
	for t := TileStrand1; t <= TileUnder; t++ {
		images[t] = fmt.Sprintf("%s/T_%d.PNG", imageDir, t)
	}
	images[TileUnresolved] = fmt.Sprintf("%s/T_%d.jpg", imageDir, TileUnresolved)

	return images
}()

// Valid reports whether t belongs to the tile alphabet.
func (t Tile) Valid() bool {
	return t >= TileEmpty && t <= TileUnresolved
}

// Editable reports whether t can be drawn from the Mosaic Maker palette.
func (t Tile) Editable() bool {
	return t >= TileEmpty && t <= TileUnder
}

// Playable reports whether t is the only interactive tile during a game.
func (t Tile) Playable() bool {
	return t == TileUnresolved
}

// IsResolution reports whether t is one of the two ways to resolve a crossing.
func (t Tile) IsResolution() bool {
	return t == TileOver || t == TileUnder
}

// TileImage - path of the glyph for t, empty for TileEmpty and unknown codes.
func TileImage(t Tile) string {
	if !t.Valid() {
		return ""
	}

	return tileImages[t]
}

// Palette - tiles offered by the Mosaic Maker selection panel.
func Palette() []Tile {
	palette := make([]Tile, 0, TileUnder)
	for t := TileStrand1; t <= TileUnder; t++ {
		palette = append(palette, t)
	}

	return palette
}

// Resolutions - tiles offered when resolving a crossing.
func Resolutions() []Tile {
	return []Tile{TileOver, TileUnder}
}

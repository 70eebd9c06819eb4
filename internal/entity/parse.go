package entity

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/knotmosaic/internal/apperror"
)

var rowLiteral = regexp.MustCompile(`\[([^\[\]]*)\]`)

// ParseBoard reads a bracketed, comma-separated board literal such as
// "[[0, 2, 1], [11, 4, 0]]". A flat list is read as a square board when its
// length is a perfect square and as a single row otherwise. Tokens that are not
// integers in [0, 11] become TileEmpty; ragged rows are padded with TileEmpty.
func ParseBoard(text string) (*Board, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty input", apperror.ErrMalformedBoard)
	}

	if strings.Count(text, "[") > 1 {
		return parseNested(text)
	}

	cells := parseTokens(strings.Trim(text, "[] \t\r\n"))
	if len(cells) == 0 {
		return nil, fmt.Errorf("%w: no tiles", apperror.ErrMalformedBoard)
	}

	side := int(math.Sqrt(float64(len(cells))))
	if side*side == len(cells) {
		return &Board{Rows: side, Cols: side, Cells: cells}, nil
	}

	return &Board{Rows: 1, Cols: len(cells), Cells: cells}, nil
}

// ParseFlat reads a flat literal into a rows x cols board, padding or
// truncating the token list to fit.
func ParseFlat(text string, rows, cols int) (*Board, error) {
	board, err := NewBoard(rows, cols, TileEmpty)
	if err != nil {
		return nil, err
	}

	cells := parseTokens(strings.Trim(strings.TrimSpace(text), "[] \t\r\n"))
	copy(board.Cells, cells)

	return board, nil
}

// FormatBoard renders the literal read back by ParseBoard.
func FormatBoard(board *Board) string {
	var sb strings.Builder

	sb.WriteString("[")
	for r := 0; r < board.Rows; r++ {
		if r > 0 {
			sb.WriteString(",\n ")
		}
		sb.WriteString("[")
		for c := 0; c < board.Cols; c++ {
			if c > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.Itoa(int(board.Cells[r*board.Cols+c])))
		}
		sb.WriteString("]")
	}
	sb.WriteString("]")

	return sb.String()
}

func parseNested(text string) (*Board, error) {
	matches := rowLiteral.FindAllStringSubmatch(text, -1)

	rows := make([][]Tile, 0, len(matches))
	width := 0
	for _, match := range matches {
		row := parseTokens(match[1])
		width = max(width, len(row))
		rows = append(rows, row)
	}

	if width == 0 {
		return nil, fmt.Errorf("%w: no tiles", apperror.ErrMalformedBoard)
	}

	board := &Board{Rows: len(rows), Cols: width, Cells: make([]Tile, len(rows)*width)}
	for r, row := range rows {
		copy(board.Cells[r*width:], row)
	}

	return board, nil
}

func parseTokens(list string) []Tile {
	if strings.TrimSpace(list) == "" {
		return nil
	}

	tokens := strings.Split(list, ",")
	tiles := make([]Tile, len(tokens))
	for i, token := range tokens {
		v, err := strconv.Atoi(strings.TrimSpace(token))
		if err != nil || !Tile(v).Valid() {
			continue
		}
		tiles[i] = Tile(v)
	}

	return tiles
}

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/knotmosaic/internal/client"
	"github.com/rocketscienceinc/knotmosaic/internal/editor"
	"github.com/rocketscienceinc/knotmosaic/internal/entity"
	"github.com/rocketscienceinc/knotmosaic/internal/knotting"
)

type mode int

const (
	modeGame mode = iota
	modeMaker
)

var errQuit = errors.New("quit")

type healthChecker interface {
	Health(ctx context.Context) (client.Health, error)
}

type console struct {
	controller *knotting.Controller
	maker      *editor.Editor
	health     healthChecker
	mode       mode

	in  io.Reader
	out io.Writer
}

func newConsole(controller *knotting.Controller, health healthChecker, in io.Reader, out io.Writer) *console {
	return &console{
		controller: controller,
		maker:      editor.New(),
		health:     health,
		in:         in,
		out:        out,
	}
}

func helpText() string {
	resolutions := tileList(entity.Resolutions(), "|")

	return `game commands:
  board                      show the board and turn state
  load <literal>             load a board such as [[0,2],[11,4]] (setup only)
  first knotter|unknotter    choose who moves first (setup only)
  start                      create the game session
  select <row> <col> ` + fmt.Sprintf("%-8s", resolutions) + `resolve a crossing
  cancel                     drop the selected move
  submit                     send the selected move
  sync                       reload the board from the service
  restart                    replay the game from its initial board
  reset                      end the game and return to setup
  health                     check the session service
mosaic maker commands:
  maker                      switch to the mosaic maker
  game                       switch back to the game
  palette                    list the drawable tiles
  draw <row> <col> <tile>    draw a tile
  clear <row> <col>          empty a cell
  rows <n>, cols <n>         resize, 1..` + strconv.Itoa(editor.MaxExtent) + `
  wipe                       empty every cell
  import <literal>           replace the mosaic with a board literal
  flat <rows> <cols> <list>  replace the mosaic with a flat tile list
  export                     print the mosaic as a literal
  play                       load the mosaic into game setup
  quit`
}

// Run reads commands until quit or end of input. Command errors are printed,
// not returned.
func (that *console) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(that.in)

	fmt.Fprintln(that.out, helpText())
	that.printBoard()

	for {
		fmt.Fprint(that.out, "> ")
		if !scanner.Scan() {
			break
		}

		err := that.exec(ctx, strings.Fields(scanner.Text()))
		if errors.Is(err, errQuit) {
			break
		}
		if err != nil {
			fmt.Fprintf(that.out, "error: %v\n", err)
		}

		if ctx.Err() != nil {
			break
		}
	}

	that.controller.Reset(context.WithoutCancel(ctx))

	return scanner.Err()
}

func (that *console) exec(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return nil
	}

	if done, err := that.execMaker(args); done {
		return err
	}

	switch args[0] {
	case "board":
		that.printBoard()
	case "load":
		if err := that.controller.ImportBoard(strings.Join(args[1:], " ")); err != nil {
			return err
		}
		that.printBoard()
	case "first":
		if len(args) != 2 {
			return errors.New("usage: first knotter|unknotter")
		}
		player, err := entity.ParsePlayer(args[1])
		if err != nil {
			return err
		}
		return that.controller.SetFirstMover(player)
	case "start":
		if err := that.controller.Start(ctx); err != nil {
			return err
		}
		that.printBoard()
	case "select":
		return that.selectCrossing(ctx, args[1:])
	case "cancel":
		if err := that.controller.Cancel(); err != nil {
			return err
		}
		that.printBoard()
	case "submit":
		if err := that.controller.Submit(ctx); err != nil {
			return err
		}
		that.printBoard()
	case "sync":
		if _, err := that.controller.Sync(ctx); err != nil {
			return err
		}
		that.printBoard()
	case "restart":
		if err := that.controller.Restart(ctx); err != nil {
			return err
		}
		that.printBoard()
	case "reset":
		that.controller.Reset(ctx)
		that.printBoard()
	case "health":
		health, err := that.health.Health(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(that.out, "service %s, %d active games\n", health.Status, health.ActiveGames)
	case "quit", "exit":
		return errQuit
	default:
		fmt.Fprintln(that.out, helpText())
	}

	return nil
}

// execMaker handles the mosaic maker commands; done is false for any other command.
func (that *console) execMaker(args []string) (done bool, err error) {
	switch args[0] {
	case "maker":
		that.mode = modeMaker
	case "game":
		that.mode = modeGame
	case "palette":
		that.printPalette()
		return true, nil
	case "draw":
		values, err := numbers(args[1:], 3, "usage: draw <row> <col> <tile>")
		if err != nil {
			return true, err
		}
		err = that.maker.Select(values[0], values[1], entity.Tile(values[2]))
		if err != nil {
			return true, err
		}
	case "clear":
		values, err := numbers(args[1:], 2, "usage: clear <row> <col>")
		if err != nil {
			return true, err
		}
		if err = that.maker.Clear(values[0], values[1]); err != nil {
			return true, err
		}
	case "rows", "cols":
		values, err := numbers(args[1:], 1, "usage: "+args[0]+" <n>")
		if err != nil {
			return true, err
		}
		resize := that.maker.SetRows
		if args[0] == "cols" {
			resize = that.maker.SetCols
		}
		if err = resize(values[0]); err != nil {
			return true, err
		}
	case "wipe":
		that.maker.Reset()
	case "import":
		if err := that.maker.Import(strings.Join(args[1:], " ")); err != nil {
			return true, err
		}
	case "flat":
		if len(args) < 4 {
			return true, errors.New("usage: flat <rows> <cols> <list>")
		}
		values, err := numbers(args[1:3], 2, "usage: flat <rows> <cols> <list>")
		if err != nil {
			return true, err
		}
		if err = that.maker.ImportFlat(strings.Join(args[3:], " "), values[0], values[1]); err != nil {
			return true, err
		}
	case "export":
		fmt.Fprintln(that.out, that.maker.Export())
		return true, nil
	case "play":
		if err := that.controller.LoadBoard(that.maker.Board()); err != nil {
			return true, err
		}
		that.mode = modeGame
	default:
		return false, nil
	}

	that.printBoard()

	return true, nil
}

func (that *console) selectCrossing(ctx context.Context, args []string) error {
	values, err := numbers(args, 3, "usage: select <row> <col> "+tileList(entity.Resolutions(), "|"))
	if err != nil {
		return err
	}

	if err = that.controller.Select(ctx, values[0], values[1], entity.Tile(values[2])); err != nil {
		return err
	}

	that.printBoard()

	return nil
}

func (that *console) printBoard() {
	if that.mode == modeMaker {
		board := that.maker.Board()
		that.printGrid(board)
		fmt.Fprintf(that.out, "mosaic maker: %d rows, %d cols\n", board.Rows, board.Cols)
		return
	}

	that.printGrid(that.controller.Board())
	state := that.controller.TurnState()

	fmt.Fprintf(that.out, "phase: %s  first move: %s  current move: %s  remaining turns: %d\n",
		that.controller.Phase(), state.FirstMover.Title(), state.CurrentMover.Title(), state.RemainingUnresolved)

	if that.controller.Phase() != knotting.PhaseSetup {
		fmt.Fprintf(that.out, "game %s, round %d\n", that.controller.GameID(), that.controller.Round())
	}

	if move, ok := that.controller.Pending(); ok {
		fmt.Fprintf(that.out, "pending move: %s\n", move)
	}

	if result, ok := that.controller.Result(); ok {
		fmt.Fprintf(that.out, "winner: %s (%s)\n", result.Winner.Title(), result.Classification.Reason)
	}
}

func (that *console) printGrid(board *entity.Board) {
	for r := 0; r < board.Rows; r++ {
		cells := make([]string, board.Cols)
		for c := range cells {
			tile := board.Cells[r*board.Cols+c]
			switch {
			case tile.Playable():
				cells[c] = " ?"
			case tile == entity.TileEmpty:
				cells[c] = " ."
			default:
				cells[c] = fmt.Sprintf("%2d", tile)
			}
		}
		fmt.Fprintln(that.out, strings.Join(cells, " "))
	}
}

func (that *console) printPalette() {
	for _, tile := range entity.Palette() {
		fmt.Fprintf(that.out, "%2d  %s\n", tile, entity.TileImage(tile))
	}
}

func numbers(args []string, n int, usage string) ([]int, error) {
	if len(args) != n {
		return nil, errors.New(usage)
	}

	values := make([]int, n)
	for i, arg := range args {
		v, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("not a number: %q", arg)
		}
		values[i] = v
	}

	return values, nil
}

func tileList(tiles []entity.Tile, sep string) string {
	parts := make([]string, len(tiles))
	for i, tile := range tiles {
		parts[i] = strconv.Itoa(int(tile))
	}

	return strings.Join(parts, sep)
}

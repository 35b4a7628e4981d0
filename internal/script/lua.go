// Package script drives a game from a Lua scenario. Scenarios call the
// movement functions and advance(ms) in whatever order they like, which
// makes a run fully deterministic for a given piece source.
package script

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/isaacjstriker/notris/games/tetris"
	lua "github.com/yuin/gopher-lua"
)

type runner struct {
	game *tetris.Game
	out  io.Writer
}

// Run executes the scenario in path against a fresh game and returns the
// final state.
func Run(ctx context.Context, path string, source tetris.PieceSource, out io.Writer) (tetris.Snapshot, error) {
	return run(ctx, source, out, func(L *lua.LState) error { return L.DoFile(path) })
}

// RunString is Run for an in-memory scenario.
func RunString(ctx context.Context, code string, source tetris.PieceSource, out io.Writer) (tetris.Snapshot, error) {
	return run(ctx, source, out, func(L *lua.LState) error { return L.DoString(code) })
}

func run(ctx context.Context, source tetris.PieceSource, out io.Writer, load func(*lua.LState) error) (tetris.Snapshot, error) {
	r := &runner{game: tetris.NewGame(source), out: out}

	L := lua.NewState()
	defer L.Close()
	L.SetContext(ctx)
	r.register(L)

	if err := load(L); err != nil {
		return r.game.Snapshot(), fmt.Errorf("scenario failed: %w", err)
	}
	return r.game.Snapshot(), nil
}

func (r *runner) register(L *lua.LState) {
	fns := map[string]lua.LGFunction{
		"left":       r.move(r.game.MoveLeft),
		"right":      r.move(r.game.MoveRight),
		"down":       r.move(r.game.SoftDrop),
		"rotate":     r.rotate,
		"drop":       r.drop,
		"pause":      r.pause,
		"advance":    r.advance,
		"score":      r.number(r.game.Score),
		"level":      r.number(r.game.Level),
		"lines":      r.number(r.game.Lines),
		"game_over":  r.flag(r.game.GameOver),
		"paused":     r.flag(r.game.Paused),
		"cell":       r.cell,
		"active":     r.active,
		"next_piece": r.nextPiece,
		"restart":    r.restart,
		"print":      r.print,
	}
	for name, fn := range fns {
		L.SetGlobal(name, L.NewFunction(fn))
	}
}

// move wraps a translation command; Lua gets the MoveResult name back.
func (r *runner) move(cmd func() tetris.MoveResult) lua.LGFunction {
	return func(L *lua.LState) int {
		L.Push(lua.LString(cmd().String()))
		return 1
	}
}

func (r *runner) number(get func() int) lua.LGFunction {
	return func(L *lua.LState) int {
		L.Push(lua.LNumber(get()))
		return 1
	}
}

func (r *runner) flag(get func() bool) lua.LGFunction {
	return func(L *lua.LState) int {
		L.Push(lua.LBool(get()))
		return 1
	}
}

func (r *runner) rotate(L *lua.LState) int {
	L.Push(lua.LBool(r.game.Rotate()))
	return 1
}

func (r *runner) drop(L *lua.LState) int {
	L.Push(lua.LNumber(r.game.HardDrop()))
	return 1
}

func (r *runner) pause(L *lua.LState) int {
	L.Push(lua.LBool(r.game.TogglePause()))
	return 1
}

func (r *runner) advance(L *lua.LState) int {
	ms := L.CheckNumber(1)
	if ms < 0 {
		L.ArgError(1, "elapsed milliseconds must not be negative")
		return 0
	}
	r.game.Advance(time.Duration(float64(ms) * float64(time.Millisecond)))
	return 0
}

func (r *runner) cell(L *lua.LState) int {
	row, col := L.CheckInt(1), L.CheckInt(2)
	snap := r.game.Snapshot()
	if row < 0 || row >= snap.Height || col < 0 || col >= snap.Width {
		L.ArgError(1, fmt.Sprintf("cell (%d, %d) is outside the board", row, col))
		return 0
	}
	L.Push(lua.LNumber(snap.Board[row][col]))
	return 1
}

func (r *runner) active(L *lua.LState) int {
	p := r.game.Snapshot().Active
	if p == nil {
		L.Push(lua.LNil)
		return 1
	}
	tbl := L.NewTable()
	tbl.RawSetString("kind", lua.LString(p.Kind.String()))
	tbl.RawSetString("rotation", lua.LNumber(p.Rotation))
	tbl.RawSetString("row", lua.LNumber(p.Row))
	tbl.RawSetString("col", lua.LNumber(p.Col))
	L.Push(tbl)
	return 1
}

func (r *runner) nextPiece(L *lua.LState) int {
	L.Push(lua.LString(r.game.NextKind().String()))
	return 1
}

func (r *runner) restart(L *lua.LState) int {
	r.game.Restart()
	return 0
}

func (r *runner) print(L *lua.LState) int {
	parts := make([]string, L.GetTop())
	for i := range parts {
		parts[i] = L.ToStringMeta(L.Get(i + 1)).String()
	}
	fmt.Fprintln(r.out, strings.Join(parts, "\t"))
	return 0
}

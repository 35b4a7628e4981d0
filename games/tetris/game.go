package tetris

import (
	"time"

	"github.com/isaacjstriker/notris/internal/types"
)

// GameName is the key scores are stored under.
const GameName = "tetris"

// State is the phase of the spawn/fall/lock/clear cycle. Spawning, Locking
// and LineClearing are transient: every command that enters them leaves
// them before returning.
type State uint8

const (
	Spawning State = iota
	Falling
	Locking
	LineClearing
	GameOver
)

func (s State) String() string {
	switch s {
	case Spawning:
		return "spawning"
	case Falling:
		return "falling"
	case Locking:
		return "locking"
	case LineClearing:
		return "line_clearing"
	case GameOver:
		return "game_over"
	}
	return "unknown"
}

const (
	linesPerLevel       = 10
	initialDropInterval = 1000 * time.Millisecond
	dropIntervalStep    = 100 * time.Millisecond
	minDropInterval     = 100 * time.Millisecond
)

// Points for clearing 0-4 lines with one piece, multiplied by the level.
var lineScores = [...]int{0, 40, 100, 300, 1200}

// Game is the engine. It owns the board and the active piece and is the
// only thing allowed to change them. A Game is not safe for concurrent use;
// drive it from a single goroutine.
type Game struct {
	board   *Board
	source  PieceSource
	current *ActivePiece
	next    Kind

	state  State
	paused bool

	score        int
	lines        int
	level        int
	dropInterval time.Duration
	dropTimer    time.Duration
	played       time.Duration
}

// NewGame starts a round on an empty standard board.
func NewGame(source PieceSource) *Game {
	return NewGameWithBoard(NewBoard(BoardWidth, BoardHeight), source)
}

// NewGameWithBoard starts a round on board, which the game takes ownership of.
func NewGameWithBoard(board *Board, source PieceSource) *Game {
	g := &Game{
		board:  board,
		source: source,
	}
	g.reset()
	return g
}

// Restart discards the board and progress and begins a new round with the
// same piece source.
func (g *Game) Restart() {
	g.board = NewBoard(g.board.Width(), g.board.Height())
	g.reset()
}

func (g *Game) reset() {
	g.score = 0
	g.lines = 0
	g.level = 1
	g.dropInterval = initialDropInterval
	g.dropTimer = 0
	g.played = 0
	g.paused = false
	g.current = nil

	g.next = g.source.Next()
	g.spawn()
}

// spawn promotes the reserved piece and refills the reserve. A piece that
// collides where it appears ends the round without touching the board.
func (g *Game) spawn() {
	g.state = Spawning

	piece := Spawn(g.next, g.board.Width())
	g.next = g.source.Next()

	if g.board.IsBlocked(piece.Shape(), piece.Row(), piece.Col()) {
		g.current = nil
		g.state = GameOver
		return
	}

	g.current = piece
	g.state = Falling
}

func (g *Game) playable() bool {
	return g.state == Falling && !g.paused
}

func (g *Game) move(dx, dy int) MoveResult {
	if !g.playable() {
		return BlockedNoOp
	}

	result := g.current.TryMove(g.board, dx, dy)
	if result == BlockedMustLock {
		g.lock()
	}
	return result
}

// lock merges the active piece, clears rows, scores them and spawns the
// next piece.
func (g *Game) lock() {
	g.state = Locking
	g.current.merge(g.board)
	g.current = nil

	g.state = LineClearing
	g.award(g.board.ClearFullRows())

	g.spawn()
}

func (g *Game) award(cleared int) {
	if cleared <= 0 {
		return
	}
	if cleared >= len(lineScores) {
		cleared = len(lineScores) - 1
	}

	g.score += lineScores[cleared] * g.level
	g.lines += cleared
	g.level = g.lines/linesPerLevel + 1
	g.dropInterval = dropIntervalFor(g.level)
}

func dropIntervalFor(level int) time.Duration {
	return max(minDropInterval, initialDropInterval-time.Duration(level-1)*dropIntervalStep)
}

// MoveLeft shifts the active piece one column left.
func (g *Game) MoveLeft() MoveResult { return g.move(-1, 0) }

// MoveRight shifts the active piece one column right.
func (g *Game) MoveRight() MoveResult { return g.move(1, 0) }

// SoftDrop moves the active piece one row down, locking it if it cannot
// descend. Locking cascades into line clearing and the next spawn.
func (g *Game) SoftDrop() MoveResult { return g.move(0, 1) }

// Rotate advances the active piece to its next rotation state.
func (g *Game) Rotate() bool {
	if !g.playable() {
		return false
	}
	return g.current.TryRotate(g.board)
}

// HardDrop drops the active piece to its landing row and locks it. It
// returns the number of rows fallen, or -1 when the game is paused or over.
func (g *Game) HardDrop() int {
	if !g.playable() {
		return -1
	}
	rows := g.current.HardDrop(g.board)
	g.lock()
	return rows
}

// TogglePause flips the paused flag and reports the new value. It does
// nothing once the game is over.
func (g *Game) TogglePause() bool {
	if g.state == GameOver {
		return g.paused
	}
	g.paused = !g.paused
	return g.paused
}

// Apply routes a command to its handler and reports whether it had any
// effect on the game.
func (g *Game) Apply(cmd Command) bool {
	switch cmd {
	case MoveLeft:
		return g.MoveLeft() != BlockedNoOp
	case MoveRight:
		return g.MoveRight() != BlockedNoOp
	case SoftDrop:
		return g.SoftDrop() != BlockedNoOp
	case Rotate:
		return g.Rotate()
	case HardDrop:
		return g.HardDrop() >= 0
	case PauseToggle:
		if g.state == GameOver {
			return false
		}
		g.TogglePause()
		return true
	}
	return false
}

// Advance feeds elapsed time to the drop timer. Once the timer passes the
// current drop interval the piece falls one row and the timer restarts.
func (g *Game) Advance(delta time.Duration) {
	if !g.playable() {
		return
	}

	g.played += delta
	g.dropTimer += delta
	if g.dropTimer > g.dropInterval {
		g.move(0, 1)
		g.dropTimer = 0
	}
}

func (g *Game) State() State { return g.state }
func (g *Game) Score() int { return g.score }
func (g *Game) Lines() int { return g.lines }
func (g *Game) Level() int { return g.level }
func (g *Game) Paused() bool { return g.paused }
func (g *Game) GameOver() bool { return g.state == GameOver }
func (g *Game) DropInterval() time.Duration { return g.dropInterval }
func (g *Game) NextKind() Kind { return g.next }

// Result summarises the round so far.
func (g *Game) Result() types.GameResult {
	return types.GameResult{
		GameName: GameName,
		Score:    g.score,
		Lines:    g.lines,
		Level:    g.level,
		Duration: g.played.Seconds(),
	}
}

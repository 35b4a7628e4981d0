package tetris

// MoveResult is the outcome of a translation attempt.
type MoveResult uint8

const (
	// Moved means the piece now sits at the requested offset.
	Moved MoveResult = iota
	// BlockedMustLock means a downward move was blocked; the piece has landed.
	BlockedMustLock
	// BlockedNoOp means a sideways or upward move was rejected.
	BlockedNoOp
)

func (m MoveResult) String() string {
	switch m {
	case Moved:
		return "Moved"
	case BlockedMustLock:
		return "BlockedMustLock"
	case BlockedNoOp:
		return "BlockedNoOp"
	}
	return "Unknown"
}

// ActivePiece is the falling piece. It references its catalog definition
// and tracks a rotation index and the grid offset of its top-left corner.
type ActivePiece struct {
	def      *Definition
	rotation int
	row, col int
}

// Spawn places a new piece of kind k at the top of a board boardWidth
// columns wide, horizontally centred on its first rotation state.
func Spawn(k Kind, boardWidth int) *ActivePiece {
	def := Lookup(k)
	return &ActivePiece{
		def: def,
		row: 0,
		col: boardWidth/2 - def.Rotations[0].Width()/2,
	}
}

func (p *ActivePiece) Kind() Kind { return p.def.Kind }
func (p *ActivePiece) Color() Color { return p.def.Color }
func (p *ActivePiece) Rotation() int { return p.rotation }
func (p *ActivePiece) Row() int { return p.row }
func (p *ActivePiece) Col() int { return p.col }
func (p *ActivePiece) Shape() Shape { return p.def.Rotations[p.rotation] }
func (p *ActivePiece) rotations() int { return len(p.def.Rotations) }

// TryMove shifts the piece by (dx, dy) if the destination is free.
func (p *ActivePiece) TryMove(b *Board, dx, dy int) MoveResult {
	if !b.IsBlocked(p.Shape(), p.row+dy, p.col+dx) {
		p.row += dy
		p.col += dx
		return Moved
	}
	if dy > 0 {
		return BlockedMustLock
	}
	return BlockedNoOp
}

// TryRotate advances to the next rotation state in place. A rotation that
// would collide is rejected without trying any offset.
func (p *ActivePiece) TryRotate(b *Board) bool {
	next := (p.rotation + 1) % p.rotations()
	if b.IsBlocked(p.def.Rotations[next], p.row, p.col) {
		return false
	}
	p.rotation = next
	return true
}

// HardDrop moves the piece down until it lands and returns the number of
// rows it fell.
func (p *ActivePiece) HardDrop(b *Board) int {
	rows := 0
	for p.TryMove(b, 0, 1) == Moved {
		rows++
	}
	return rows
}

func (p *ActivePiece) merge(b *Board) {
	b.Merge(p.Shape(), p.row, p.col, p.def.Color)
}

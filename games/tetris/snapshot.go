package tetris

// PieceView describes a piece for display.
type PieceView struct {
	Kind     Kind  `json:"kind"`
	Rotation int   `json:"rotation"`
	Shape    Shape `json:"shape"`
	Row      int   `json:"row"`
	Col      int   `json:"col"`
	Color    Color `json:"color"`
}

// Snapshot is a read-only copy of everything a renderer needs. Nothing in
// it aliases engine state.
type Snapshot struct {
	Width          int        `json:"width"`
	Height         int        `json:"height"`
	Board          [][]Color  `json:"board"`
	Active         *PieceView `json:"active,omitempty"`
	Next           PieceView  `json:"next"`
	Score          int        `json:"score"`
	Level          int        `json:"level"`
	Lines          int        `json:"lines"`
	DropIntervalMs int64      `json:"dropIntervalMs"`
	Paused         bool       `json:"paused"`
	GameOver       bool       `json:"gameOver"`
}

// Snapshot copies the current state.
func (g *Game) Snapshot() Snapshot {
	nextDef := Lookup(g.next)
	snap := Snapshot{
		Width:  g.board.Width(),
		Height: g.board.Height(),
		Board:  g.board.Rows(),
		Next: PieceView{
			Kind:  g.next,
			Shape: nextDef.Rotations[0].clone(),
			Color: nextDef.Color,
		},
		Score:          g.score,
		Level:          g.level,
		Lines:          g.lines,
		DropIntervalMs: g.dropInterval.Milliseconds(),
		Paused:         g.paused,
		GameOver:       g.state == GameOver,
	}

	if g.current != nil && g.state != GameOver {
		snap.Active = &PieceView{
			Kind:     g.current.Kind(),
			Rotation: g.current.Rotation(),
			Shape:    g.current.Shape().clone(),
			Row:      g.current.Row(),
			Col:      g.current.Col(),
			Color:    g.current.Color(),
		}
	}

	return snap
}

// Composite returns a copy of the board with the active piece drawn in.
func (s Snapshot) Composite() [][]Color {
	grid := make([][]Color, len(s.Board))
	for i := range s.Board {
		grid[i] = append([]Color(nil), s.Board[i]...)
	}

	if s.Active == nil {
		return grid
	}
	for _, cell := range s.Active.Shape.Cells() {
		y := s.Active.Row + cell[0]
		x := s.Active.Col + cell[1]
		if y >= 0 && y < len(grid) && x >= 0 && x < len(grid[y]) {
			grid[y][x] = s.Active.Color
		}
	}
	return grid
}

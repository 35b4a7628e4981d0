package tetris

// Board is the fixed-size field of locked cells. Row 0 is the top.
type Board struct {
	width  int
	height int
	cells  [][]Color
}

// NewBoard creates an empty width x height board.
func NewBoard(width, height int) *Board {
	b := &Board{
		width:  width,
		height: height,
		cells:  make([][]Color, height),
	}
	for i := range b.cells {
		b.cells[i] = make([]Color, width)
	}
	return b
}

// Width returns the number of columns.
func (b *Board) Width() int { return b.width }

// Height returns the number of rows.
func (b *Board) Height() int { return b.height }

// Cell returns the color at (row, col), or Empty when the position is
// outside the board.
func (b *Board) Cell(row, col int) Color {
	if row < 0 || row >= b.height || col < 0 || col >= b.width {
		return Empty
	}
	return b.cells[row][col]
}

// Set writes a single cell. Out of range writes are ignored.
func (b *Board) Set(row, col int, c Color) {
	if row < 0 || row >= b.height || col < 0 || col >= b.width {
		return
	}
	b.cells[row][col] = c
}

// Rows returns a deep copy of the grid.
func (b *Board) Rows() [][]Color {
	out := make([][]Color, b.height)
	for i := range b.cells {
		out[i] = make([]Color, b.width)
		copy(out[i], b.cells[i])
	}
	return out
}

// IsBlocked reports whether shape placed with its top-left corner at
// (row, col) leaves the side or bottom bounds or overlaps a locked cell.
// Cells above the top edge never collide.
func (b *Board) IsBlocked(s Shape, row, col int) bool {
	for r := range s {
		for c, filled := range s[r] {
			if !filled {
				continue
			}
			y := row + r
			x := col + c

			if x < 0 || x >= b.width || y >= b.height {
				return true
			}
			if y >= 0 && b.cells[y][x] != Empty {
				return true
			}
		}
	}
	return false
}

// Merge writes color into every filled cell of shape at (row, col). Cells
// above the top edge are dropped.
func (b *Board) Merge(s Shape, row, col int, color Color) {
	for r := range s {
		for c, filled := range s[r] {
			if !filled {
				continue
			}
			y := row + r
			x := col + c
			if y >= 0 && y < b.height && x >= 0 && x < b.width {
				b.cells[y][x] = color
			}
		}
	}
}

// ClearFullRows removes every completely filled row, shifting the rows
// above it down and inserting empty rows at the top. It returns the number
// of rows removed.
func (b *Board) ClearFullRows() int {
	cleared := 0

	for y := b.height - 1; y >= 0; y-- {
		if !b.rowFull(y) {
			continue
		}

		copy(b.cells[1:y+1], b.cells[0:y])
		b.cells[0] = make([]Color, b.width)
		cleared++
		y++ // the row that slid into y has not been checked yet
	}

	return cleared
}

func (b *Board) rowFull(y int) bool {
	for _, c := range b.cells[y] {
		if c == Empty {
			return false
		}
	}
	return true
}

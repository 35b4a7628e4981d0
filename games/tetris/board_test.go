package tetris

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const grey Color = 0x808080

func fillRow(b *Board, row int, c Color) {
	for col := 0; col < b.Width(); col++ {
		b.Set(row, col, c)
	}
}

func TestNewBoardIsEmpty(t *testing.T) {
	b := NewBoard(BoardWidth, BoardHeight)

	assert.Equal(t, BoardWidth, b.Width())
	assert.Equal(t, BoardHeight, b.Height())
	for r := 0; r < b.Height(); r++ {
		for c := 0; c < b.Width(); c++ {
			assert.Equal(t, Empty, b.Cell(r, c))
		}
	}
}

func TestIsBlocked(t *testing.T) {
	o := Lookup(O).Rotations[0]
	vertical := Lookup(I).Rotations[1]

	tests := []struct {
		desc     string
		shape    Shape
		row, col int
		want     bool
	}{
		{desc: "free placement", shape: o, row: 5, col: 4},
		{desc: "left of the board", shape: o, row: 5, col: -1, want: true},
		{desc: "right of the board", shape: o, row: 5, col: 9, want: true},
		{desc: "touching the right wall", shape: o, row: 5, col: 8},
		{desc: "resting on the floor", shape: o, row: 18, col: 0},
		{desc: "through the floor", shape: o, row: 19, col: 0, want: true},
		{desc: "partly above the top", shape: vertical, row: -3, col: 0},
		{desc: "entirely above the top", shape: vertical, row: -10, col: 0},
		{desc: "above the top but outside the side", shape: vertical, row: -10, col: 10, want: true},
		{desc: "overlapping a locked cell", shape: o, row: 9, col: 3, want: true},
		{desc: "next to a locked cell", shape: o, row: 9, col: 0},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			b := NewBoard(BoardWidth, BoardHeight)
			b.Set(10, 3, grey)
			assert.Equal(t, tt.want, b.IsBlocked(tt.shape, tt.row, tt.col))
		})
	}
}

func TestIsBlockedBoundsInvariant(t *testing.T) {
	b := NewBoard(BoardWidth, BoardHeight)

	for _, k := range Kinds {
		for rot, s := range Lookup(k).Rotations {
			for row := -5; row < BoardHeight+5; row++ {
				for col := -5; col < BoardWidth+5; col++ {
					outside := false
					for _, cell := range s.Cells() {
						y, x := row+cell[0], col+cell[1]
						if x < 0 || x >= BoardWidth || y >= BoardHeight {
							outside = true
						}
					}
					require.Equal(t, outside, b.IsBlocked(s, row, col),
						"kind %v rotation %d at (%d,%d)", k, rot, row, col)
				}
			}
		}
	}
}

func TestMergeDropsCellsAboveTop(t *testing.T) {
	b := NewBoard(BoardWidth, BoardHeight)
	vertical := Lookup(I).Rotations[1]

	b.Merge(vertical, -2, 4, 0x00ffff)

	assert.Equal(t, Color(0x00ffff), b.Cell(0, 4))
	assert.Equal(t, Color(0x00ffff), b.Cell(1, 4))
	assert.Equal(t, Empty, b.Cell(2, 4))
}

func TestClearFullRowsNonContiguous(t *testing.T) {
	b := NewBoard(BoardWidth, BoardHeight)
	for r := 0; r < BoardHeight; r++ {
		if r == 5 || r == 7 {
			fillRow(b, r, grey)
			continue
		}
		b.Set(r, r%BoardWidth, Color(100+r))
	}
	before := b.Rows()

	cleared := b.ClearFullRows()
	require.Equal(t, 2, cleared)

	want := [][]Color{
		make([]Color, BoardWidth),
		make([]Color, BoardWidth),
	}
	for r, row := range before {
		if r == 5 || r == 7 {
			continue
		}
		want = append(want, row)
	}

	got := b.Rows()
	assert.Len(t, got, BoardHeight)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ClearFullRows() mismatch(-want +got):\n%s", diff)
	}
}

func TestClearFullRows(t *testing.T) {
	tests := []struct {
		desc string
		full []int
		want int
	}{
		{desc: "no full rows", want: 0},
		{desc: "bottom row", full: []int{19}, want: 1},
		{desc: "tetris", full: []int{16, 17, 18, 19}, want: 4},
		{desc: "top row", full: []int{0}, want: 1},
		{desc: "split pair", full: []int{12, 19}, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			b := NewBoard(BoardWidth, BoardHeight)
			for _, r := range tt.full {
				fillRow(b, r, grey)
			}

			assert.Equal(t, tt.want, b.ClearFullRows())
			for r := 0; r < BoardHeight; r++ {
				for c := 0; c < BoardWidth; c++ {
					assert.Equal(t, Empty, b.Cell(r, c), "row %d col %d", r, c)
				}
			}
			assert.Equal(t, 0, b.ClearFullRows())
		})
	}
}

func TestRowsIsACopy(t *testing.T) {
	b := NewBoard(BoardWidth, BoardHeight)
	rows := b.Rows()
	rows[0][0] = grey

	assert.Equal(t, Empty, b.Cell(0, 0))
}

package tetris

import "fmt"

const (
	BoardWidth  = 10
	BoardHeight = 20
)

// Kind identifies one of the seven tetrominoes.
type Kind uint8

const (
	I Kind = iota
	O
	T
	S
	Z
	J
	L
)

// Kinds lists every piece kind in catalog order.
var Kinds = [...]Kind{I, O, T, S, Z, J, L}

func (k Kind) String() string {
	switch k {
	case I:
		return "I"
	case O:
		return "O"
	case T:
		return "T"
	case S:
		return "S"
	case Z:
		return "Z"
	case J:
		return "J"
	case L:
		return "L"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// MarshalText encodes a kind as its letter.
func (k Kind) MarshalText() ([]byte, error) {
	if int(k) >= len(Kinds) {
		return nil, fmt.Errorf("unknown piece kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText accepts a single piece letter.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind maps a letter such as "T" to its Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown piece kind %q", s)
}

// Color is an opaque 0xRRGGBB display identifier. The zero value marks an
// empty cell.
type Color uint32

const Empty Color = 0

// Shape is one rotation state: a rectangular matrix of filled cells.
type Shape [][]bool

// Height returns the number of rows.
func (s Shape) Height() int {
	return len(s)
}

// Width returns the number of columns.
func (s Shape) Width() int {
	if len(s) == 0 {
		return 0
	}
	return len(s[0])
}

// Cells returns the (row, col) offsets of every filled cell.
func (s Shape) Cells() [][2]int {
	cells := make([][2]int, 0, 4)
	for r, row := range s {
		for c, filled := range row {
			if filled {
				cells = append(cells, [2]int{r, c})
			}
		}
	}
	return cells
}

func (s Shape) clone() Shape {
	out := make(Shape, len(s))
	for r := range s {
		out[r] = append([]bool(nil), s[r]...)
	}
	return out
}

// Definition is a catalog entry. Definitions are shared by every piece of
// the same kind and must be treated as read-only.
type Definition struct {
	Kind      Kind
	Rotations []Shape
	Color     Color
}

// shape builds a Shape from rows of '#' and '.'.
func shape(rows ...string) Shape {
	s := make(Shape, len(rows))
	for r, row := range rows {
		s[r] = make([]bool, len(row))
		for c, ch := range row {
			s[r][c] = ch == '#'
		}
	}
	return s
}

var catalog = [...]Definition{
	I: {
		Kind: I,
		Rotations: []Shape{
			shape("####"),
			shape("#", "#", "#", "#"),
		},
		Color: 0x00ffff,
	},
	O: {
		Kind: O,
		Rotations: []Shape{
			shape("##", "##"),
		},
		Color: 0xffff00,
	},
	T: {
		Kind: T,
		Rotations: []Shape{
			shape(".#.", "###"),
			shape("#.", "##", "#."),
			shape("###", ".#."),
			shape(".#", "##", ".#"),
		},
		Color: 0xff00ff,
	},
	S: {
		Kind: S,
		Rotations: []Shape{
			shape(".##", "##."),
			shape("#.", "##", ".#"),
		},
		Color: 0x00ff00,
	},
	Z: {
		Kind: Z,
		Rotations: []Shape{
			shape("##.", ".##"),
			shape(".#", "##", "#."),
		},
		Color: 0xff0000,
	},
	J: {
		Kind: J,
		Rotations: []Shape{
			shape("#..", "###"),
			shape("##", "#.", "#."),
			shape("###", "..#"),
			shape(".#", ".#", "##"),
		},
		Color: 0x0000ff,
	},
	L: {
		Kind: L,
		Rotations: []Shape{
			shape("..#", "###"),
			shape("#.", "#.", "##"),
			shape("###", "#.."),
			shape("##", ".#", ".#"),
		},
		Color: 0xffa500,
	},
}

// Lookup returns the catalog entry for k. It panics on a kind outside the
// catalog, which can only come from a programming error.
func Lookup(k Kind) *Definition {
	return &catalog[k]
}

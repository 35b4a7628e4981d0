package tetris

import (
	"math/rand"
	"time"
)

// PieceSource supplies the kinds of upcoming pieces.
type PieceSource interface {
	Next() Kind
}

// Generator draws kinds uniformly and independently. Repeats are allowed;
// there is no bag.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator over src.
func NewGenerator(src rand.Source) *Generator {
	return &Generator{rng: rand.New(src)}
}

// NewSeededGenerator creates a generator seeded with seed, or with the
// current time when seed is zero.
func NewSeededGenerator(seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return NewGenerator(rand.NewSource(seed))
}

// Next returns a random kind.
func (g *Generator) Next() Kind {
	return Kinds[g.rng.Intn(len(Kinds))]
}

// Sequence replays a fixed list of kinds, wrapping around at the end.
type Sequence struct {
	kinds []Kind
	pos   int
}

// NewSequence creates a Sequence. An empty list yields I forever.
func NewSequence(kinds ...Kind) *Sequence {
	return &Sequence{kinds: kinds}
}

// ParseSequence builds a Sequence from letters such as "IOTSZJL".
func ParseSequence(letters string) (*Sequence, error) {
	kinds := make([]Kind, 0, len(letters))
	for _, r := range letters {
		k, err := ParseKind(string(r))
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return NewSequence(kinds...), nil
}

// Next returns the next kind in the list.
func (s *Sequence) Next() Kind {
	if len(s.kinds) == 0 {
		return I
	}
	k := s.kinds[s.pos%len(s.kinds)]
	s.pos++
	return k
}

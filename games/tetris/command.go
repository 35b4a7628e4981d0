package tetris

import "strings"

// Command is a discrete player input.
type Command uint8

const (
	NoCommand Command = iota
	MoveLeft
	MoveRight
	SoftDrop
	Rotate
	HardDrop
	PauseToggle
)

func (c Command) String() string {
	switch c {
	case MoveLeft:
		return "left"
	case MoveRight:
		return "right"
	case SoftDrop:
		return "down"
	case Rotate:
		return "rotate"
	case HardDrop:
		return "drop"
	case PauseToggle:
		return "pause"
	}
	return "none"
}

var commandWords = map[string]Command{
	"left":         MoveLeft,
	"move_left":    MoveLeft,
	"right":        MoveRight,
	"move_right":   MoveRight,
	"down":         SoftDrop,
	"soft_drop":    SoftDrop,
	"rotate":       Rotate,
	"up":           Rotate,
	"drop":         HardDrop,
	"hard_drop":    HardDrop,
	"space":        HardDrop,
	"pause":        PauseToggle,
	"pause_toggle": PauseToggle,
}

// ParseCommand maps a wire word such as "left" or "hard_drop" to a Command.
func ParseCommand(s string) (Command, bool) {
	c, ok := commandWords[strings.ToLower(strings.TrimSpace(s))]
	return c, ok
}

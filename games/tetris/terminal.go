package tetris

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/eiannone/keyboard"

	"github.com/isaacjstriker/notris/internal/types"
)

// keyCommand maps a key press to a command. quit is true for Q and Esc.
func keyCommand(char rune, key keyboard.Key) (cmd Command, quit bool) {
	switch key {
	case keyboard.KeyArrowLeft:
		return MoveLeft, false
	case keyboard.KeyArrowRight:
		return MoveRight, false
	case keyboard.KeyArrowDown:
		return SoftDrop, false
	case keyboard.KeyArrowUp:
		return Rotate, false
	case keyboard.KeySpace:
		return HardDrop, false
	case keyboard.KeyEsc, keyboard.KeyCtrlC:
		return NoCommand, true
	}

	switch char {
	case 'a', 'A':
		return MoveLeft, false
	case 'd', 'D':
		return MoveRight, false
	case 's', 'S':
		return SoftDrop, false
	case 'w', 'W':
		return Rotate, false
	case ' ':
		return HardDrop, false
	case 'p', 'P':
		return PauseToggle, false
	case 'q', 'Q':
		return NoCommand, true
	}
	return NoCommand, false
}

// RunTerminal plays g on the terminal until the round ends or the player
// quits. Key events arrive on a channel; the engine is only touched from
// this loop. Every frame the elapsed wall time is fed to Advance and the
// board is redrawn to out.
func RunTerminal(g *Game, frame time.Duration, out io.Writer) (types.GameResult, error) {
	keys, err := keyboard.GetKeys(16)
	if err != nil {
		return g.Result(), fmt.Errorf("failed to open keyboard: %w", err)
	}
	defer keyboard.Close()

	color := SupportsColor()
	var frameBuf bytes.Buffer
	draw := func() error {
		frameBuf.Reset()
		frameBuf.WriteString(clearScreen)
		if err := Render(&frameBuf, g.Snapshot(), color); err != nil {
			return err
		}
		_, err := out.Write(frameBuf.Bytes())
		return err
	}

	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	if err := draw(); err != nil {
		return g.Result(), err
	}

	last := time.Now()
	for {
		select {
		case ev := <-keys:
			if ev.Err != nil {
				return g.Result(), fmt.Errorf("failed to read key: %w", ev.Err)
			}
			cmd, quit := keyCommand(ev.Rune, ev.Key)
			if quit {
				return g.Result(), nil
			}
			if g.Apply(cmd) {
				if err := draw(); err != nil {
					return g.Result(), err
				}
			}

		case now := <-ticker.C:
			g.Advance(now.Sub(last))
			last = now

			if err := draw(); err != nil {
				return g.Result(), err
			}
		}

		if g.GameOver() {
			if err := draw(); err != nil {
				return g.Result(), err
			}
			return g.Result(), nil
		}
	}
}

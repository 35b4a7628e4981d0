package tetris

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

var asciiGlyphs = map[Color]string{
	catalog[I].Color: "##",
	catalog[O].Color: "@@",
	catalog[T].Color: "**",
	catalog[S].Color: "%%",
	catalog[Z].Color: "&&",
	catalog[J].Color: "++",
	catalog[L].Color: "==",
}

// SupportsColor reports whether stdout is a terminal that understands ANSI
// colour escapes.
func SupportsColor() bool {
	t := os.Getenv("TERM")
	if t == "" || t == "dumb" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func cellString(c Color, color bool) string {
	if c == Empty {
		if color {
			return "  "
		}
		return ".."
	}
	if color {
		return fmt.Sprintf("\033[48;2;%d;%d;%dm  \033[0m", (c>>16)&0xff, (c>>8)&0xff, c&0xff)
	}
	if g, ok := asciiGlyphs[c]; ok {
		return g
	}
	return "[]"
}

// clearScreen moves the cursor home and wipes the terminal.
const clearScreen = "\033[2J\033[H"

// Render draws a snapshot as text: header, framed board, next piece and
// key help. The whole frame is written with a single Write.
func Render(w io.Writer, snap Snapshot, color bool) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "TETRIS | Score: %d | Lines: %d | Level: %d\n", snap.Score, snap.Lines, snap.Level)
	sb.WriteString(strings.Repeat("═", snap.Width*2+2) + "\n")

	for _, row := range snap.Composite() {
		sb.WriteString("║")
		for _, cell := range row {
			sb.WriteString(cellString(cell, color))
		}
		sb.WriteString("║\n")
	}
	sb.WriteString("╚" + strings.Repeat("═", snap.Width*2) + "╝\n")

	sb.WriteString("\nNext Piece:\n")
	for _, row := range snap.Next.Shape {
		sb.WriteString("  ")
		for _, filled := range row {
			if filled {
				sb.WriteString(cellString(snap.Next.Color, color))
			} else {
				sb.WriteString("  ")
			}
		}
		sb.WriteString("\n")
	}

	switch {
	case snap.GameOver:
		fmt.Fprintf(&sb, "\nGAME OVER  Score: %d\n", snap.Score)
	case snap.Paused:
		sb.WriteString("\nPAUSED\n")
	}

	sb.WriteString("\nControls: ←/→ or A/D move, ↓/S down, ↑/W rotate, Space drop, P pause, Q quit\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

package ui

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"unicode/utf8"

	"github.com/eiannone/keyboard"
)

// ExitValue is returned by Show when the player leaves the menu.
const ExitValue = "exit"

const banner = `
 _   _  ___ _____ ____  ___ ____
| \ | |/ _ \_   _|  _ \|_ _/ ___|
|  \| | | | || | | |_) || |\___ \
| |\  | |_| || | |  _ < | | ___) |
|_| \_|\___/ |_| |_| \_\___|____/
`

type MenuItem struct {
	Label string
	Value string
}

type Menu struct {
	Title    string
	Subtitle string
	Items    []MenuItem
	Selected int
	Width    int
}

func NewMenu(title string, items []MenuItem) *Menu {
	return &Menu{
		Title: title,
		Items: items,
		Width: 60,
	}
}

func clearScreen() {
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.Command("cmd", "/c", "cls")
	} else {
		cmd = exec.Command("clear")
	}
	cmd.Stdout = os.Stdout
	cmd.Run()
}

func centerText(text string, width int) string {
	inner := width - 4
	n := utf8.RuneCountInString(text)
	if n >= inner {
		return string([]rune(text)[:inner])
	}
	padding := (inner - n) / 2
	return strings.Repeat(" ", padding) + text + strings.Repeat(" ", inner-n-padding)
}

func (m *Menu) render(w io.Writer) {
	var sb strings.Builder
	rule := strings.Repeat("═", m.Width-4)

	sb.WriteString(banner)
	sb.WriteString("\n")
	if m.Subtitle != "" {
		sb.WriteString(centerText(m.Subtitle, m.Width))
		sb.WriteString("\n\n")
	}

	fmt.Fprintf(&sb, "╔%s╗\n", rule)
	fmt.Fprintf(&sb, "║%s║\n", centerText(m.Title, m.Width))
	fmt.Fprintf(&sb, "╠%s╣\n", rule)
	for i, item := range m.Items {
		prefix := "  "
		if i == m.Selected {
			prefix = "► "
		}
		text := centerText(prefix+item.Label, m.Width)
		if i == m.Selected {
			fmt.Fprintf(&sb, "║\033[7m%s\033[0m║\n", text)
		} else {
			fmt.Fprintf(&sb, "║%s║\n", text)
		}
	}
	fmt.Fprintf(&sb, "╚%s╝\n", rule)

	sb.WriteString("\nUse ↑/↓ or w/s to navigate, Enter to select, 'q' to quit\n")
	io.WriteString(w, sb.String())
}

func (m *Menu) moveUp() {
	if m.Selected > 0 {
		m.Selected--
	} else {
		m.Selected = len(m.Items) - 1
	}
}

func (m *Menu) moveDown() {
	if m.Selected < len(m.Items)-1 {
		m.Selected++
	} else {
		m.Selected = 0
	}
}

// handleKey applies one key press. It returns the chosen value and true
// once the menu is done.
func (m *Menu) handleKey(char rune, key keyboard.Key) (string, bool) {
	switch key {
	case keyboard.KeyArrowUp:
		m.moveUp()
		return "", false
	case keyboard.KeyArrowDown:
		m.moveDown()
		return "", false
	case keyboard.KeyEnter:
		return m.Items[m.Selected].Value, true
	case keyboard.KeyEsc, keyboard.KeyCtrlC:
		return ExitValue, true
	}

	switch char {
	case 'w', 'W', 'k':
		m.moveUp()
	case 's', 'S', 'j':
		m.moveDown()
	case 'q', 'Q':
		return ExitValue, true
	}
	return "", false
}

// Show draws the menu until an item is chosen and returns its Value.
func (m *Menu) Show() string {
	if len(m.Items) == 0 {
		return ExitValue
	}
	if err := keyboard.Open(); err != nil {
		fmt.Printf("Failed to open keyboard: %v\n", err)
		return ""
	}
	defer keyboard.Close()

	for {
		clearScreen()
		m.render(os.Stdout)

		char, key, err := keyboard.GetKey()
		if err != nil {
			fmt.Printf("Error reading key: %v\n", err)
			return ""
		}
		if value, done := m.handleKey(char, key); done {
			return value
		}
	}
}

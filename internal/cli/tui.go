package cli

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/matzehuels/mermaidboard/pkg/platform"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// stdinIsTerminal reports whether the interactive picker can be shown.
func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// =============================================================================
// PlatformPicker - Interactive platform selection
// =============================================================================

// PlatformPicker is the bubbletea model for choosing a conversion target.
// Platforms without credentials are listed but cannot be selected.
type PlatformPicker struct {
	Platforms []platform.Status
	Cursor    int
	Selected  string
	Quit      bool
}

// NewPlatformPicker creates a picker with the cursor on the first
// configured platform.
func NewPlatformPicker(platforms []platform.Status) PlatformPicker {
	m := PlatformPicker{Platforms: platforms}
	for i, p := range platforms {
		if p.Configured {
			m.Cursor = i
			break
		}
	}
	return m
}

func (m PlatformPicker) Init() tea.Cmd {
	return nil
}

func (m PlatformPicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		m.Quit = true
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Platforms)-1 {
			m.Cursor++
		}
	case "enter":
		if len(m.Platforms) == 0 {
			return m, nil
		}
		p := m.Platforms[m.Cursor]
		if !p.Configured {
			return m, nil
		}
		m.Selected = p.Name
		return m, tea.Quit
	}
	return m, nil
}

func (m PlatformPicker) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Platform"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	for i, p := range m.Platforms {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		status := StyleSuccess.Render(iconSuccess)
		note := ""
		if !p.Configured {
			status = StyleWarning.Render(iconWarning)
			note = "not configured"
		}

		line := fmt.Sprintf("%s%s %-12s %s", cursor, status, p.DisplayName, listDimStyle.Render(note))
		switch {
		case i == m.Cursor && p.Configured:
			b.WriteString(listSelectedStyle.Render(line))
		case !p.Configured:
			b.WriteString(listDimStyle.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// pickPlatform runs the picker and returns the chosen platform name, or ""
// when the user quit.
func pickPlatform(platforms []platform.Status) (string, error) {
	final, err := tea.NewProgram(NewPlatformPicker(platforms), tea.WithOutput(os.Stderr)).Run()
	if err != nil {
		return "", fmt.Errorf("platform picker: %w", err)
	}
	m := final.(PlatformPicker)
	if m.Quit {
		return "", nil
	}
	return m.Selected, nil
}

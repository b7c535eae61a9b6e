// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ik5/audsink"
)

const (
	refreshInterval = 200 * time.Millisecond
	volumeStep      = 5.0
	speedStep       = 0.25
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// model is the bubbletea state of the terminal player.
type model struct {
	player controller
	path   string
	data   []byte

	info   *audsink.Info
	state  audsink.State
	ended  bool
	status string

	width int
}

func newModel(player controller, path string, data []byte) model {
	m := model{player: player, path: path, data: data}
	if info, err := audsink.Probe(data); err == nil {
		m.info = &info
	}
	m.load()
	return m
}

func (m model) Init() tea.Cmd {
	return tick()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tickMsg:
		m.refresh()
		return m, tick()
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.player.Stop()
		return m, tea.Quit
	case " ", "space":
		if m.state.Loaded && !m.state.Paused && !m.state.Empty {
			m.player.Pause()
		} else if !m.player.Play() {
			m.status = errText(m.player.Err())
		}
	case "+", "=":
		m.player.SetVolume(m.state.Volume + volumeStep)
	case "-":
		m.player.SetVolume(m.state.Volume - volumeStep)
	case "]":
		m.player.SetSpeed(m.state.Speed + speedStep)
	case "[":
		m.player.SetSpeed(m.state.Speed - speedStep)
	case "s":
		m.player.Stop()
		m.ended = false
		m.status = "stopped"
	case "r":
		m.load()
	}

	m.refresh()
	return m, nil
}

func (m *model) load() {
	m.ended = false
	m.status = ""
	if !m.player.Load(m.data) {
		m.status = errText(m.player.Err())
	}
	m.refresh()
}

func (m *model) refresh() {
	m.state = m.player.State()
	if m.state.Loaded && m.state.Empty {
		m.ended = true
	}
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).MarginBottom(1)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	endedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	helpStyle   = lipgloss.NewStyle().Faint(true)
)

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("audsink"))
	b.WriteString("\n\n")

	row := func(name, value string) {
		b.WriteString(headerStyle.Render(fmt.Sprintf("%-8s", name)))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}

	limit := 60
	if m.width > 20 {
		limit = m.width - 10
	}
	row("File:", truncate(filepath.Base(m.path), limit))
	if m.info != nil {
		row("Format:", fmt.Sprintf("%s %dHz %s %s",
			m.info.Format, m.info.SampleRate, channelName(m.info.Channels),
			m.info.Duration.Round(time.Second)))
	} else {
		row("Format:", "unknown")
	}
	b.WriteString("\n")

	state := m.stateText()
	if m.ended {
		b.WriteString(headerStyle.Render(fmt.Sprintf("%-8s", "State:")))
		b.WriteString(endedStyle.Render(state))
		b.WriteString("\n")
	} else {
		row("State:", state)
	}
	row("Volume:", fmt.Sprintf("[%s] %.0f%%", renderBar(m.state.Volume, 100, 10), m.state.Volume))
	row("Speed:", fmt.Sprintf("%.2fx", m.state.Speed))

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(truncate(m.status, 70)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("space:Play/Pause  +/-:Volume  [/]:Speed  s:Stop  r:Reload  q:Quit"))
	b.WriteString("\n")

	return b.String()
}

func (m model) stateText() string {
	switch {
	case m.ended:
		return "ended"
	case !m.state.Loaded:
		return "stopped"
	case m.state.Paused:
		return "paused"
	default:
		return "playing"
	}
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return "error: " + err.Error()
}

func renderBar(value, full float64, width int) string {
	filled := min(max(int(value*float64(width)/full), 0), width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}

func channelName(channels int) string {
	switch channels {
	case 1:
		return "Mono"
	case 2:
		return "Stereo"
	}
	return fmt.Sprintf("%d ch", channels)
}

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/dp564ctl/internal/session"
)

// tickInterval is the cadence of the message that drives Session.Tick.
// Short enough that the 10s heartbeat interval is honored with plenty of
// margin and inbound updates surface promptly.
const tickInterval = 250 * time.Millisecond

// maxEvents bounds the scrollback of the event log.
const maxEvents = 8

// tickMsg carries the wall-clock time of a tick so elapsed time between
// ticks can be measured rather than assumed.
type tickMsg time.Time

// Model is the interactive control surface for one session. All session
// access happens inside Update, so the single-goroutine rule of the
// session holds under the Bubble Tea runtime.
type Model struct {
	Session *session.Session

	Input  textinput.Model
	Width  int
	Height int

	events    []string
	lastTick  time.Time
	lastState session.DeviceState
	quitting  bool
}

// NewModel creates the control model for an already-connected session.
func NewModel(sess *session.Session) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "volume -20"
	ti.CharLimit = 64
	ti.Focus()

	return Model{
		Session:   sess,
		Input:     ti,
		lastState: sess.State(),
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init starts the cursor blink and the tick loop
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tickCmd())
}

// Update handles ticks and operator input
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case tickMsg:
		return m.handleTick(time.Time(msg))

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m.quit()
		case "enter":
			line := m.Input.Value()
			m.Input.Reset()
			return m.execute(line)
		}
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

// handleTick advances the session by the measured elapsed time and surfaces
// any device state change or connection loss in the event log.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	elapsed := tickInterval
	if !m.lastTick.IsZero() {
		elapsed = now.Sub(m.lastTick)
	}
	m.lastTick = now

	if err := m.Session.Tick(elapsed); err != nil {
		m = m.pushEvent(ErrorStyle.Render(fmt.Sprintf("connection lost: %v", err)))
	}

	if state := m.Session.State(); state != m.lastState {
		m.lastState = state
		m = m.pushEvent("device: " + state.String())
	}

	return m, tickCmd()
}

// execute parses and runs one line of operator input.
func (m Model) execute(line string) (tea.Model, tea.Cmd) {
	cmd, err := ParseCommand(line)
	if err != nil {
		m = m.pushEvent(ErrorStyle.Render(err.Error()))
		m = m.pushEvent(`type "help" for the command list`)
		return m, nil
	}

	switch cmd.Kind {
	case CmdNone:
		return m, nil

	case CmdVolume:
		if err := m.Session.SetVolume(cmd.VolumeDb); err != nil {
			return m.pushEvent(ErrorStyle.Render(err.Error())), nil
		}
		return m.pushEvent(fmt.Sprintf("sent: volume %.1f dB", cmd.VolumeDb)), nil

	case CmdDim:
		target := cmd.DimOn
		var err error
		if cmd.DimSet {
			err = m.Session.SetDim(cmd.DimOn)
		} else {
			target, err = m.Session.ToggleDim()
		}
		if err != nil {
			return m.pushEvent(ErrorStyle.Render(err.Error())), nil
		}
		return m.pushEvent("sent: dim " + onOff(target)), nil

	case CmdSource:
		if err := m.Session.SetSource(cmd.Source); err != nil {
			return m.pushEvent(ErrorStyle.Render(err.Error())), nil
		}
		return m.pushEvent("sent: source " + cmd.Source.String()), nil

	case CmdStatus:
		return m.pushEvent("status: " + m.Session.State().String()), nil

	case CmdHelp:
		for _, l := range strings.Split(HelpText(), "\n") {
			m = m.pushEvent(l)
		}
		return m, nil

	case CmdQuit:
		return m.quit()
	}

	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	_ = m.Session.Close()
	return m, tea.Quit
}

// pushEvent appends a line to the bounded event log.
func (m Model) pushEvent(line string) Model {
	m.events = append(m.events, line)
	if len(m.events) > maxEvents {
		m.events = m.events[len(m.events)-maxEvents:]
	}
	return m
}

// View renders the status panel, event log, and command prompt
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(RenderTitle())
	b.WriteString("\n")
	b.WriteString(RenderStatusBox(
		m.Session.Target(),
		m.Session.ConnState(),
		m.Session.State(),
	))
	b.WriteString("\n\n")

	for _, e := range m.events {
		b.WriteString(EventStyle.Render(e))
		b.WriteString("\n")
	}
	if len(m.events) > 0 {
		b.WriteString("\n")
	}

	b.WriteString(m.Input.View())
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("enter command · esc/ctrl+c quit"))
	b.WriteString("\n")

	return b.String()
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

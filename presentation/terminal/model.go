package terminal

import (
	"autoclicker/domain/entities"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	responseTimeout = 5 * time.Second
	pollInterval    = 500 * time.Millisecond
)

// Commands is what the UI can ask for
type Commands interface {
	Configure(ctx context.Context) (<-chan entities.Response, error)
	Start(ctx context.Context, delayText string) (<-chan entities.Response, error)
	Stop() <-chan entities.Response
	Clear() <-chan entities.Response
}

// Status is shown in the status line
type Status struct {
	Automation entities.AutomationState
	Tab        string
	Mode       entities.ConfigMode
	Loop       entities.LoopState
	Points     int
}

// StatusFunc reads the current status
type StatusFunc func(ctx context.Context) Status

type keyMap struct {
	Configure key.Binding
	Start     key.Binding
	Stop      key.Binding
	Clear     key.Binding
	Delay     key.Binding
	Up        key.Binding
	Down      key.Binding
	Enter     key.Binding
	Blur      key.Binding
	Quit      key.Binding
}

var keys = keyMap{
	Configure: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "configure")),
	Start:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start")),
	Stop:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop")),
	Clear:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "clear")),
	Delay:     key.NewBinding(key.WithKeys("d", "tab"), key.WithHelp("d", "edit delay")),
	Up:        key.NewBinding(key.WithKeys("up", "k")),
	Down:      key.NewBinding(key.WithKeys("down", "j")),
	Enter:     key.NewBinding(key.WithKeys("enter")),
	Blur:      key.NewBinding(key.WithKeys("esc", "tab")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	itemStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

type actionID int

const (
	actionConfigure actionID = iota
	actionStart
	actionStop
	actionClear
)

var actionLabels = []string{
	actionConfigure: "Configure points",
	actionStart:     "Start clicking",
	actionStop:      "Stop clicking",
	actionClear:     "Clear points",
}

type resultMsg struct {
	action actionID
	resp   entities.Response
	err    error
}

type statusMsg Status

type pollMsg struct{}

// Model is the bubbletea model of the trigger UI
type Model struct {
	ctx      context.Context
	commands Commands
	status   StatusFunc

	delay    textinput.Model
	selected actionID
	current  Status
	message  string
	failed   bool
}

// NewModel creates the UI with the delay field prefilled
func NewModel(ctx context.Context, commands Commands, status StatusFunc, initialDelay int) Model {
	ti := textinput.New()
	ti.Prompt = "Delay (ms): "
	ti.CharLimit = 7
	ti.Width = 10
	ti.SetValue(strconv.Itoa(initialDelay))

	return Model{
		ctx:      ctx,
		commands: commands,
		status:   status,
		delay:    ti,
	}
}

// Init starts status polling
func (m Model) Init() tea.Cmd {
	return m.poll()
}

// Update handles key presses, command results and status updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case resultMsg:
		m.failed = msg.err != nil || !msg.resp.Success
		switch {
		case msg.err != nil:
			m.message = fmt.Sprintf("%s: %v", actionLabels[msg.action], msg.err)
		case !msg.resp.Success:
			m.message = fmt.Sprintf("%s: %s", actionLabels[msg.action], msg.resp.Error)
		default:
			m.message = actionLabels[msg.action] + ": ok"
		}
		return m, nil

	case statusMsg:
		m.current = Status(msg)
		return m, tea.Tick(pollInterval, func(time.Time) tea.Msg { return pollMsg{} })

	case pollMsg:
		return m, m.poll()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.delay.Focused() {
		switch {
		case key.Matches(msg, keys.Enter):
			m.delay.Blur()
			return m, m.run(actionStart)
		case key.Matches(msg, keys.Blur):
			m.delay.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.delay, cmd = m.delay.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Configure):
		return m, m.run(actionConfigure)
	case key.Matches(msg, keys.Start):
		return m, m.run(actionStart)
	case key.Matches(msg, keys.Stop):
		return m, m.run(actionStop)
	case key.Matches(msg, keys.Clear):
		return m, m.run(actionClear)
	case key.Matches(msg, keys.Delay):
		return m, m.delay.Focus()
	case key.Matches(msg, keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, keys.Down):
		if int(m.selected) < len(actionLabels)-1 {
			m.selected++
		}
	case key.Matches(msg, keys.Enter):
		return m, m.run(m.selected)
	}
	return m, nil
}

// run returns a tea.Cmd that issues the command and waits for its response,
// so browser and storage round-trips stay off the update loop
func (m Model) run(action actionID) tea.Cmd {
	ctx, commands := m.ctx, m.commands
	delayText := m.delay.Value()

	return func() tea.Msg {
		var (
			ch  <-chan entities.Response
			err error
		)
		switch action {
		case actionConfigure:
			ch, err = commands.Configure(ctx)
		case actionStart:
			ch, err = commands.Start(ctx, delayText)
		case actionStop:
			ch = commands.Stop()
		case actionClear:
			ch = commands.Clear()
		}
		if err != nil {
			return resultMsg{action: action, err: err}
		}
		return awaitResponse(ctx, action, ch)
	}
}

func awaitResponse(ctx context.Context, action actionID, ch <-chan entities.Response) tea.Msg {
	select {
	case resp := <-ch:
		return resultMsg{action: action, resp: resp}
	case <-time.After(responseTimeout):
		return resultMsg{action: action, err: errors.New("no response")}
	case <-ctx.Done():
		return resultMsg{action: action, err: ctx.Err()}
	}
}

func (m Model) poll() tea.Cmd {
	if m.status == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(m.ctx, time.Second)
		defer cancel()
		return statusMsg(m.status(ctx))
	}
}

// View renders the UI
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Auto Clicker"))
	b.WriteString("\n\n")

	for i, label := range actionLabels {
		if actionID(i) == m.selected {
			b.WriteString(selectedStyle.Render("> " + label))
		} else {
			b.WriteString(itemStyle.Render("  " + label))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.delay.View())
	b.WriteString("\n\n")

	tab := m.current.Tab
	if tab == "" {
		tab = "none"
	}
	b.WriteString(statusStyle.Render(fmt.Sprintf(
		"automation: %s | tab: %s | mode: %s | loop: %s | points: %d",
		orDash(string(m.current.Automation)), tab, orDash(string(m.current.Mode)),
		orDash(string(m.current.Loop)), m.current.Points,
	)))
	b.WriteString("\n")

	if m.message != "" {
		if m.failed {
			b.WriteString(errorStyle.Render(m.message))
		} else {
			b.WriteString(okStyle.Render(m.message))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(statusStyle.Render("c configure • s start • x stop • r clear • d delay • q quit"))
	b.WriteString("\n")
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

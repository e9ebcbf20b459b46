// Package tui provides the --watch live status dashboard for
// status-character (spec.md §6.3, SPEC_FULL.md §10): a bubbletea Model
// polling the character's latest server state on a fixed tick, plus an
// AIPlayerLoop's Snapshot when a snapshot function is supplied, rendered
// with lipgloss, in the same Model/Update/View shape as the teacher's
// projects/documents browser.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/blentz/artifactsmmo-sub002/internal/gameclient"
	"github.com/blentz/artifactsmmo-sub002/internal/loop"
	"github.com/blentz/artifactsmmo-sub002/internal/model"
)

// pollInterval is how often the dashboard refreshes (spec.md makes no
// claim on cadence; this just needs to feel live without hammering the
// API).
const pollInterval = 2 * time.Second

// Model is the bubbletea model for the watch dashboard. It polls the
// character endpoint, and also an in-process Loop's Snapshot when given
// one. Its only caller, status-character --watch, runs in a separate
// process from the loop and passes no Snapshot.
type Model struct {
	characterName string
	client        gameclient.GameClient
	loopSnapshot  func() loop.Snapshot // nil when no in-process loop

	character model.Character
	snapshot  loop.Snapshot
	err       error

	width, height int
	quitting      bool
}

// NewModel constructs the dashboard. snapshotFn may be nil if there is no
// in-process Loop to inspect (status-character --watch polls the API
// only).
func NewModel(characterName string, client gameclient.GameClient, snapshotFn func() loop.Snapshot) Model {
	return Model{
		characterName: characterName,
		client:        client,
		loopSnapshot:  snapshotFn,
	}
}

// RunWatch blocks running the dashboard until the user quits or ctx is
// cancelled.
func RunWatch(ctx context.Context, characterName string, client gameclient.GameClient, snapshotFn func() loop.Snapshot) error {
	p := tea.NewProgram(NewModel(characterName, client, snapshotFn), tea.WithContext(ctx), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

type tickMsg time.Time

type refreshMsg struct {
	character model.Character
	err       error
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refresh(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) refresh() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		c, err := m.client.GetCharacter(ctx, m.characterName)
		return refreshMsg{character: c, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	case tickMsg:
		if m.loopSnapshot != nil {
			m.snapshot = m.loopSnapshot()
		}
		return m, tea.Batch(m.refresh(), tick())
	case refreshMsg:
		m.character = msg.character
		m.err = msg.err
		return m, nil
	}
	return m, nil
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	boxStyle    = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("artifactsmmo-agent — %s", m.characterName)))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errStyle.Render(fmt.Sprintf("error refreshing character: %v", m.err)))
		b.WriteString("\n\n")
	}

	b.WriteString(boxStyle.Render(m.renderCharacter()))
	b.WriteString("\n")

	if m.loopSnapshot != nil {
		b.WriteString(boxStyle.Render(m.renderLoop()))
		b.WriteString("\n")
	}

	b.WriteString(labelStyle.Render("q to quit"))
	return b.String()
}

func (m Model) renderCharacter() string {
	hpStyle := okStyle
	if m.character.MaxHP > 0 && float64(m.character.HP)/float64(m.character.MaxHP) < 0.3 {
		hpStyle = errStyle
	} else if m.character.MaxHP > 0 && float64(m.character.HP)/float64(m.character.MaxHP) < 0.6 {
		hpStyle = warnStyle
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Level:"), fmt.Sprint(m.character.Level))
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("HP:"), hpStyle.Render(fmt.Sprintf("%d/%d", m.character.HP, m.character.MaxHP)))
	fmt.Fprintf(&b, "%s (%d,%d)\n", labelStyle.Render("Location:"), m.character.X, m.character.Y)
	fmt.Fprintf(&b, "%s %d\n", labelStyle.Render("Gold:"), m.character.Gold)

	cooldown := time.Until(m.character.CooldownExpiration)
	if cooldown > 0 {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Cooldown:"), warnStyle.Render(cooldown.Round(time.Second).String()))
	} else {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Cooldown:"), okStyle.Render("ready"))
	}
	return b.String()
}

func (m Model) renderLoop() string {
	s := m.snapshot
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d\n", labelStyle.Render("Iterations:"), s.IterationCount)
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Plan ID:"), s.PlanID)
	if len(s.RemainingSteps) > 0 {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Next steps:"), strings.Join(s.RemainingSteps, " -> "))
	} else {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Next steps:"), "(none planned)")
	}
	if s.LastError != "" {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Last error:"), errStyle.Render(s.LastError))
	}
	return b.String()
}

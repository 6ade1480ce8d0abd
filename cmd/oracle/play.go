package main

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/PabloGalante/pill-oracle/internal/app/fortune"
	"github.com/PabloGalante/pill-oracle/internal/domain"
)

// stateChangedMsg tells the model the controller moved; the model re-reads
// the state itself, so coalesced notifications lose nothing.
type stateChangedMsg struct{}

type playModel struct {
	ctrl     *fortune.Controller
	changes  <-chan struct{}
	state    domain.SessionState
	spinner  spinner.Model
	quitting bool
}

func newPlayModel(ctrl *fortune.Controller, changes <-chan struct{}) playModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = mutedStyle

	return playModel{
		ctrl:    ctrl,
		changes: changes,
		state:   ctrl.State(),
		spinner: sp,
	}
}

func (m playModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listen())
}

func (m playModel) listen() tea.Cmd {
	ch := m.changes
	return func() tea.Msg {
		<-ch
		return stateChangedMsg{}
	}
}

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "r":
			m.ctrl.SelectTheme(domain.ThemeTruth)
		case "b":
			m.ctrl.SelectTheme(domain.ThemeComfort)
		case "enter", " ":
			m.ctrl.Reset()
		}
		m.state = m.ctrl.State()
		return m, nil

	case stateChangedMsg:
		m.state = m.ctrl.State()
		return m, m.listen()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m playModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("The Pill Oracle"))
	b.WriteString("\n")

	switch m.state.Phase() {
	case domain.PhaseIdle:
		b.WriteString("Choose your pill.\n\n")
		b.WriteString(pillStyle(domain.ThemeTruth).Render("[r] red pill") + "   the truth, however it lands\n")
		b.WriteString(pillStyle(domain.ThemeComfort).Render("[b] blue pill") + "  comfort, and a quiet night\n")
	case domain.PhaseLoading:
		b.WriteString(m.spinner.View() + " The oracle contemplates your choice...\n")
	case domain.PhaseSettling:
		b.WriteString(m.spinner.View() + " The vision is taking shape...\n")
	case domain.PhaseRevealed:
		b.WriteString(renderFortune(m.state))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter: try again"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("q: quit"))
	b.WriteString("\n")
	return b.String()
}

func runPlay(cmd *cobra.Command, rf *runtimeFlags) error {
	changes := make(chan struct{}, 1)
	observe := fortune.WithObserver(func(domain.SessionState) {
		select {
		case changes <- struct{}{}:
		default:
		}
	})

	rt, err := newRuntime(cmd.Context(), cmd, rf, observe)
	if err != nil {
		return err
	}
	defer rt.close()

	p := tea.NewProgram(
		newPlayModel(rt.ctrl, changes),
		tea.WithContext(cmd.Context()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	_, err = p.Run()
	return err
}

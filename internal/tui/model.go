// Package tui provides the interactive dashboard for opteam: the team user
// list plus a live license gauge.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/oncallops/opteam/internal/team"
)

// FetchFunc loads the current team user list.
type FetchFunc func(ctx context.Context) ([]team.User, error)

const fetchTimeout = 60 * time.Second

// Model is the Bubble Tea model for the opteam dashboard.
type Model struct {
	fetch    FetchFunc
	licensed team.StateSet
	total    int

	users    []team.User
	selected int
	loading  bool
	fetchErr error

	width  int
	height int

	keys    keyMap
	styles  Styles
	spinner spinner.Model
}

// NewModel builds the dashboard model. fetch is invoked asynchronously on
// start and on refresh.
func NewModel(fetch FetchFunc, licensed team.StateSet, total int) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		fetch:    fetch,
		licensed: licensed,
		total:    total,
		loading:  true,
		keys:     defaultKeyMap(),
		styles:   DefaultStyles(),
		spinner:  sp,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchCmd())
}

func (m Model) fetchCmd() tea.Cmd {
	fetch := m.fetch
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		users, err := fetch(ctx)
		if err != nil {
			return fetchErrMsg{err: err}
		}
		return usersLoadedMsg{users: users}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case usersLoadedMsg:
		m.users = msg.users
		m.loading = false
		m.fetchErr = nil
		if m.selected >= len(m.users) {
			m.selected = 0
		}
		return m, nil

	case fetchErrMsg:
		m.loading = false
		m.fetchErr = msg.err
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Refresh):
			if m.loading {
				return m, nil
			}
			m.loading = true
			m.fetchErr = nil
			return m, tea.Batch(m.spinner.Tick, m.fetchCmd())

		case key.Matches(msg, m.keys.Up):
			if m.selected > 0 {
				m.selected--
			}
			return m, nil

		case key.Matches(msg, m.keys.Down):
			if m.selected < len(m.users)-1 {
				m.selected++
			}
			return m, nil
		}
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Header.Render("1Password Team Dashboard"))
	b.WriteString("\n")

	if m.loading {
		b.WriteString(m.spinner.View() + " Fetching users from 1Password...\n")
	} else {
		b.WriteString(m.viewUsers())
		b.WriteString("\n")
		b.WriteString(m.viewGauge())
	}

	if m.fetchErr != nil {
		b.WriteString("\n")
		b.WriteString(m.styles.Status.Render("fetch failed: " + m.fetchErr.Error()))
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("↑/↓ move · r refresh · q quit"))

	return b.String()
}

func (m Model) viewUsers() string {
	if len(m.users) == 0 {
		return m.styles.Item.Render("No users found.") + "\n"
	}

	// Keep the selection inside a window sized to the terminal.
	window := m.height - 8
	if window < 3 {
		window = 10
	}
	start := 0
	if m.selected >= window {
		start = m.selected - window + 1
	}
	end := start + window
	if end > len(m.users) {
		end = len(m.users)
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		u := m.users[i]
		line := fmt.Sprintf("%-30s %-24s %s", truncate(u.Email, 30), truncate(u.Name, 24), u.State)
		if i == m.selected {
			b.WriteString(m.styles.SelectedItem.Render("> " + line))
		} else {
			b.WriteString(m.styles.Item.Render("  " + line))
		}
		b.WriteString("\n")
	}
	if len(m.users) > end-start {
		b.WriteString(m.styles.Item.Render(fmt.Sprintf("  … %d of %d shown", end-start, len(m.users))))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewGauge() string {
	s := team.NewSummary(m.users, m.licensed, m.total)
	line := fmt.Sprintf("Licenses %d/%d", s.Used, s.Total)
	if s.OverLimit() {
		return m.styles.GaugeAlert.Render(fmt.Sprintf("%s · over by %d", line, s.Overage()))
	}
	return m.styles.GaugeOK.Render(fmt.Sprintf("%s · %d available", line, s.Available()))
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// Run starts the dashboard and blocks until the user quits.
func Run(fetch FetchFunc, licensed team.StateSet, total int) error {
	p := tea.NewProgram(NewModel(fetch, licensed, total), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run dashboard: %w", err)
	}
	return nil
}

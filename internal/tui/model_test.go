package tui

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/oncallops/opteam/internal/team"
)

func testModel(users []team.User, err error) Model {
	fetch := func(ctx context.Context) ([]team.User, error) {
		return users, err
	}
	return NewModel(fetch, team.NewStateSet(team.DefaultLicensedStates()), 5)
}

func TestModel_InitialViewShowsSpinner(t *testing.T) {
	m := testModel(nil, nil)

	view := m.View()
	if !strings.Contains(view, "Fetching users") {
		t.Errorf("initial view = %q, want fetching indicator", view)
	}
}

func TestModel_UsersLoaded(t *testing.T) {
	m := testModel(nil, nil)

	users := []team.User{
		{ID: "1", Email: "a@x.com", Name: "A", State: team.StateActive},
		{ID: "2", Email: "b@x.com", Name: "B", State: team.StateSuspended},
	}

	updated, _ := m.Update(usersLoadedMsg{users: users})
	m = updated.(Model)

	view := m.View()
	if !strings.Contains(view, "a@x.com") {
		t.Errorf("view missing user email: %q", view)
	}
	if !strings.Contains(view, "Licenses 1/5") {
		t.Errorf("view missing license gauge: %q", view)
	}
	if !strings.Contains(view, "4 available") {
		t.Errorf("view missing headroom: %q", view)
	}
}

func TestModel_OverageGauge(t *testing.T) {
	m := testModel(nil, nil)

	var users []team.User
	for i := 0; i < 7; i++ {
		users = append(users, team.User{ID: fmt.Sprint(i), State: team.StateActive})
	}

	updated, _ := m.Update(usersLoadedMsg{users: users})
	view := updated.(Model).View()

	if !strings.Contains(view, "Licenses 7/5") {
		t.Errorf("view missing gauge: %q", view)
	}
	if !strings.Contains(view, "over by 2") {
		t.Errorf("view missing overage: %q", view)
	}
}

func TestModel_FetchErrorIsShown(t *testing.T) {
	m := testModel(nil, nil)

	updated, _ := m.Update(fetchErrMsg{err: fmt.Errorf("exit status 1")})
	m = updated.(Model)

	if m.loading {
		t.Error("loading = true after fetch error")
	}
	if !strings.Contains(m.View(), "fetch failed") {
		t.Errorf("view missing error: %q", m.View())
	}
}

func TestModel_Navigation(t *testing.T) {
	m := testModel(nil, nil)

	users := []team.User{
		{ID: "1", State: team.StateActive},
		{ID: "2", State: team.StateActive},
	}
	updated, _ := m.Update(usersLoadedMsg{users: users})
	m = updated.(Model)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(Model)
	if m.selected != 1 {
		t.Errorf("selected = %d after down, want 1", m.selected)
	}

	// Cursor stops at the bottom.
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(Model)
	if m.selected != 1 {
		t.Errorf("selected = %d, want clamp at 1", m.selected)
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = updated.(Model)
	if m.selected != 0 {
		t.Errorf("selected = %d after up, want 0", m.selected)
	}
}

func TestModel_QuitKey(t *testing.T) {
	m := testModel(nil, nil)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("quit key returned nil cmd")
	}
	if msg := cmd(); msg != tea.Quit() {
		t.Errorf("quit key produced %v, want tea.Quit", msg)
	}
}

func TestModel_RefreshTriggersFetch(t *testing.T) {
	calls := 0
	fetch := func(ctx context.Context) ([]team.User, error) {
		calls++
		return nil, nil
	}
	m := NewModel(fetch, team.NewStateSet(team.DefaultLicensedStates()), 5)

	// Finish the initial load, then refresh.
	updated, _ := m.Update(usersLoadedMsg{})
	m = updated.(Model)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = updated.(Model)

	if !m.loading {
		t.Error("loading = false after refresh")
	}
	if cmd == nil {
		t.Fatal("refresh returned nil cmd")
	}
}

func TestModel_FetchCmd(t *testing.T) {
	m := testModel([]team.User{{ID: "1", State: team.StateActive}}, nil)

	msg := m.fetchCmd()()
	loaded, ok := msg.(usersLoadedMsg)
	if !ok {
		t.Fatalf("fetchCmd produced %T, want usersLoadedMsg", msg)
	}
	if len(loaded.users) != 1 {
		t.Errorf("loaded %d users, want 1", len(loaded.users))
	}

	m = testModel(nil, fmt.Errorf("boom"))
	msg = m.fetchCmd()()
	if _, ok := msg.(fetchErrMsg); !ok {
		t.Fatalf("fetchCmd produced %T, want fetchErrMsg", msg)
	}
}

package tui

import "github.com/oncallops/opteam/internal/team"

// usersLoadedMsg carries a successful fetch result.
type usersLoadedMsg struct {
	users []team.User
}

// fetchErrMsg carries a fetch failure. The dashboard keeps running and shows
// the reason in the status bar.
type fetchErrMsg struct {
	err error
}

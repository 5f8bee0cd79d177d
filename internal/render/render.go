// Package render formats users, snapshots, and license summaries for the
// terminal.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/oncallops/opteam/internal/history"
	"github.com/oncallops/opteam/internal/team"
)

var (
	okStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2fd576"))
	alertStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff6b6b"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#9aa4b2"))
)

// UsersTable writes a tabwriter table of users.
func UsersTable(w io.Writer, users []team.User) {
	if len(users) == 0 {
		fmt.Fprintln(w, "No users found.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMAIL\tNAME\tSTATE")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.ID, u.Email, u.Name, u.State)
	}
	tw.Flush()
}

// SnapshotsTable writes a tabwriter table of license snapshots.
func SnapshotsTable(w io.Writer, snaps []history.Snapshot) {
	if len(snaps) == 0 {
		fmt.Fprintln(w, "No snapshots recorded.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TAKEN AT\tUSERS\tUSED\tTOTAL\tSTATUS")
	for _, s := range snaps {
		summary := team.Summary{Used: s.UsedLicenses, Total: s.TotalLicenses}
		status := "ok"
		if summary.OverLimit() {
			status = fmt.Sprintf("over by %d", summary.Overage())
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\n",
			s.TakenAt.Format("2006-01-02 15:04:05"), s.TotalUsers, s.UsedLicenses, s.TotalLicenses, status)
	}
	tw.Flush()
}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(data))
	return nil
}

// Brief returns a one-line license summary.
func Brief(s team.Summary) string {
	if s.OverLimit() {
		return fmt.Sprintf("licenses: %d/%d (over by %d)", s.Used, s.Total, s.Overage())
	}
	return fmt.Sprintf("licenses: %d/%d (%d available)", s.Used, s.Total, s.Available())
}

// LicenseGauge returns a multi-line summary with a usage bar. When styled is
// false (stdout is not a terminal), no ANSI styling is applied.
func LicenseGauge(s team.Summary, styled bool) string {
	var b strings.Builder

	headline := "Licenses within the allocated limit"
	detail := fmt.Sprintf("Used %d of %d, %d available", s.Used, s.Total, s.Available())
	style := okStyle
	if s.OverLimit() {
		headline = "License overage"
		detail = fmt.Sprintf("Used %d of %d, over by %d", s.Used, s.Total, s.Overage())
		style = alertStyle
	}

	bar := progressBar(s.UsedPercent(), 30)
	pct := fmt.Sprintf("%3d%%", s.UsedPercent())

	if styled {
		b.WriteString(style.Render(headline))
		b.WriteString("\n")
		b.WriteString(bar + " " + pct)
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(detail))
	} else {
		b.WriteString(headline)
		b.WriteString("\n")
		b.WriteString(bar + " " + pct)
		b.WriteString("\n")
		b.WriteString(detail)
	}

	return b.String()
}

// progressBar renders percent as a fixed-width bar.
func progressBar(percent, width int) string {
	if width < 1 {
		width = 1
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * width / 100
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", width-filled) + "]"
}

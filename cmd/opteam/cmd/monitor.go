package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oncallops/opteam/internal/history"
	"github.com/oncallops/opteam/internal/notify"
	"github.com/oncallops/opteam/internal/render"
	"github.com/oncallops/opteam/internal/team"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Check license usage and optionally alert Slack",
	Long: `Counts users whose account state consumes a seat license (by default
ACTIVE and RECOVERY_STARTED) and compares the count against the allocated
total. With --notify, posts a report to the configured Slack webhook; an
overage posts an alert instead.

Each successful check records a snapshot in the local history database.

Examples:
  opteam monitor
  opteam monitor --notify
  opteam monitor --total 250 --format brief`,
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().Bool("notify", false, "send the result to the Slack webhook")
	monitorCmd.Flags().Int("total", -1, "override the allocated license total")
	monitorCmd.Flags().String("format", "table", "output format: table, json, brief")
	monitorCmd.Flags().Bool("prompt", false, "prompt for a token file instead of reading the environment")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	doNotify, _ := cmd.Flags().GetBool("notify")
	totalOverride, _ := cmd.Flags().GetInt("total")
	format, _ := cmd.Flags().GetString("format")
	usePrompt, _ := cmd.Flags().GetBool("prompt")

	tok, err := resolveToken(cmd, usePrompt)
	if err != nil {
		return err
	}

	users, ok := fetchUsers(cmd, tok)
	if !ok || len(users) == 0 {
		fmt.Fprintln(out, "No users fetched. Nothing to monitor.")
		return nil
	}

	total := cfg.Licenses.Total
	if totalOverride >= 0 {
		total = totalOverride
	}

	licensed := team.NewStateSet(cfg.Licenses.CountedStates)
	summary := team.NewSummary(users, licensed, total)

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "table", "":
		fmt.Fprintln(out, render.LicenseGauge(summary, isTerminal()))
	case "brief":
		fmt.Fprintln(out, render.Brief(summary))
	case "json":
		if err := render.JSON(out, summary); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}

	recordSnapshot(cmd, len(users), summary)

	if doNotify {
		n := notify.NewNotifier(cfg.Slack.WebhookURL, cfg.Slack.Timeout)
		if err := n.Send(cmd.Context(), notify.LicenseMessage(summary)); err != nil {
			fmt.Fprintf(out, "Error sending Slack notification: %v\n", err)
			return nil
		}
		fmt.Fprintln(out, "Slack notification sent successfully.")
	}

	return nil
}

// recordSnapshot appends the result to the history database. History is
// best-effort: failures are reported but never fail the check.
func recordSnapshot(cmd *cobra.Command, totalUsers int, s team.Summary) {
	if !cfg.History.Enabled {
		return
	}

	out := cmd.OutOrStdout()

	store, err := history.OpenAt(cfg.HistoryPath())
	if err != nil {
		fmt.Fprintf(out, "warning: open history: %v\n", err)
		return
	}
	defer store.Close()

	_, err = store.RecordSnapshot(history.Snapshot{
		TotalUsers:    totalUsers,
		UsedLicenses:  s.Used,
		TotalLicenses: s.Total,
	})
	if err != nil {
		fmt.Fprintf(out, "warning: record snapshot: %v\n", err)
	}
}

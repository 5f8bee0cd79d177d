package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oncallops/opteam/internal/history"
	"github.com/oncallops/opteam/internal/render"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded license snapshots",
	Long: `Shows license usage snapshots recorded by 'opteam monitor', newest
first.

Examples:
  opteam history
  opteam history --limit 5
  opteam history --format json`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "maximum snapshots to show")
	historyCmd.Flags().String("format", "table", "output format: table, json")
}

func runHistory(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	limit, _ := cmd.Flags().GetInt("limit")
	format, _ := cmd.Flags().GetString("format")

	store, err := history.OpenAt(cfg.HistoryPath())
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()

	snaps, err := store.ListSnapshots(limit)
	if err != nil {
		return fmt.Errorf("list snapshots: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "table", "":
		render.SnapshotsTable(out, snaps)
		return nil
	case "json":
		return render.JSON(out, snaps)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

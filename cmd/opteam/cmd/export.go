package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oncallops/opteam/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export team users to a CSV file",
	Long: `Fetches all users in the 1Password Teams account and writes them to a
CSV file with columns ID, Email, Name, State.

The token comes from OP_SERVICE_ACCOUNT_TOKEN, or from a token file when
--prompt is given. If no users are fetched, no file is written.

Examples:
  opteam export
  opteam export --output team.csv
  opteam export --prompt`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "output CSV path (default from config)")
	exportCmd.Flags().Bool("prompt", false, "prompt for a token file instead of reading the environment")
}

func runExport(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	outputPath, _ := cmd.Flags().GetString("output")
	usePrompt, _ := cmd.Flags().GetBool("prompt")

	if outputPath == "" {
		outputPath = cfg.OutputCSV
	}

	// A bad token file path aborts the run; everything after degrades to an
	// empty export instead.
	tok, err := resolveToken(cmd, usePrompt)
	if err != nil {
		return err
	}

	users, _ := fetchUsers(cmd, tok)
	if len(users) == 0 {
		fmt.Fprintln(out, "No users found to export.")
		return nil
	}

	fmt.Fprintf(out, "Exporting %d users to %s...\n", len(users), outputPath)
	n, err := export.WriteCSV(outputPath, users)
	if err != nil {
		fmt.Fprintf(out, "Error writing to CSV: %v\n", err)
		return nil
	}

	fmt.Fprintf(out, "Successfully exported %d users to %s.\n", n, outputPath)
	return nil
}

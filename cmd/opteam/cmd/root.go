// Package cmd implements the CLI commands for opteam.
//
// opteam wraps the 1Password CLI (`op`) to automate team administration:
// exporting the user list to CSV, monitoring seat-license usage against the
// allocated total, and alerting a Slack channel on overage.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/oncallops/opteam/internal/config"
	"github.com/oncallops/opteam/internal/opcli"
	"github.com/oncallops/opteam/internal/team"
	"github.com/oncallops/opteam/internal/token"
	"github.com/oncallops/opteam/internal/tui"
)

var cfg *config.Config

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "opteam",
	Short: "1Password team administration toolkit",
	Long: `opteam automates administrative reporting for a 1Password Teams account.

It wraps the 1Password CLI (op), which must be installed and able to
authenticate with a Service Account Token. The token is read from the
OP_SERVICE_ACCOUNT_TOKEN environment variable, or interactively from a
token file with --prompt.

Common tasks:
  opteam export                   # Export all team users to CSV
  opteam export --prompt          # Same, but prompt for a token file
  opteam users                    # List users in the terminal
  opteam monitor --notify         # Check license usage, alert Slack on overage
  opteam history                  # Show past license snapshots

Run 'opteam' without arguments to launch the interactive dashboard.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// If called with no subcommand, launch the dashboard on a terminal.
		if !isTerminal() {
			return cmd.Help()
		}
		licensed := team.NewStateSet(cfg.Licenses.CountedStates)
		return tui.Run(fetchFunc(), licensed, cfg.Licenses.Total)
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		return nil
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// isTerminal returns true if stdout is a terminal.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// resolveToken picks the credential provider: the interactive token-file
// prompt with --prompt, the environment otherwise. Prompt failures abort the
// run; a missing environment token is reported later by the fetcher.
func resolveToken(cmd *cobra.Command, usePrompt bool) (string, error) {
	if usePrompt {
		p := token.FileProvider{In: cmd.InOrStdin(), Out: cmd.OutOrStdout()}
		return p.Token(cmd.Context())
	}
	return token.EnvProvider{Value: cfg.Token}.Token(cmd.Context())
}

// fetchFunc builds the user fetcher for the dashboard using the
// environment-resolved token.
func fetchFunc() tui.FetchFunc {
	client := opcli.NewClient(cfg.OPBin, cfg.Token)
	return func(ctx context.Context) ([]team.User, error) {
		return client.ListUsers(ctx)
	}
}

// fetchUsers runs one fetch with the given token, reporting failures on the
// command's output stream. A failed fetch degrades to an empty list; the
// returned bool distinguishes "fetched nothing" from "fetch failed".
func fetchUsers(cmd *cobra.Command, tok string) ([]team.User, bool) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Fetching list of users from 1Password...")

	client := opcli.NewClient(cfg.OPBin, tok)
	users, err := client.ListUsers(cmd.Context())
	if err != nil {
		fmt.Fprintf(out, "Error fetching users: %v\n", err)
		return nil, false
	}
	return users, true
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
}

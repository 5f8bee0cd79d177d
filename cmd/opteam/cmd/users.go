package cmd

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oncallops/opteam/internal/export"
	"github.com/oncallops/opteam/internal/render"
	"github.com/oncallops/opteam/internal/team"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List team users",
	Long: `Lists all users in the 1Password Teams account.

Examples:
  opteam users
  opteam users --state ACTIVE
  opteam users --format json
  opteam users --format csv > users.csv`,
	RunE: runUsers,
}

func init() {
	usersCmd.Flags().String("format", "table", "output format: table, json, csv")
	usersCmd.Flags().String("state", "", "only show users in this exact state")
	usersCmd.Flags().Bool("prompt", false, "prompt for a token file instead of reading the environment")
}

func runUsers(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	format, _ := cmd.Flags().GetString("format")
	state, _ := cmd.Flags().GetString("state")
	usePrompt, _ := cmd.Flags().GetBool("prompt")

	tok, err := resolveToken(cmd, usePrompt)
	if err != nil {
		return err
	}

	users, ok := fetchUsers(cmd, tok)
	if !ok {
		return nil
	}
	if state != "" {
		users = team.FilterByState(users, state)
	}

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "table", "":
		render.UsersTable(out, users)
		return nil

	case "json":
		return render.JSON(out, users)

	case "csv":
		w := csv.NewWriter(out)
		if err := w.Write(export.Header); err != nil {
			return err
		}
		for _, u := range users {
			if err := w.Write([]string{u.ID, u.Email, u.Name, u.State}); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()

	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

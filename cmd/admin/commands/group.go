package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/todopalm/todopalm-api/internal/config"
	"github.com/todopalm/todopalm-api/internal/database"
)

// NewGroupCmd creates the todo group command with lock and unlock subcommands.
func NewGroupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Manage todo groups",
		Long:  "Lock or unlock a user's todo group directly against the database.",
	}
	cmd.AddCommand(newGroupSetLockedCmd("lock", true))
	cmd.AddCommand(newGroupSetLockedCmd("unlock", false))
	return cmd
}

func newGroupSetLockedCmd(use string, locked bool) *cobra.Command {
	var groupID string
	var userID string
	cmd := &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("%s a todo group", use),
		RunE: func(cmd *cobra.Command, args []string) error {
			gid, err := uuid.Parse(groupID)
			if err != nil {
				return fmt.Errorf("--id must be a valid UUID: %w", err)
			}
			uid, err := uuid.Parse(userID)
			if err != nil {
				return fmt.Errorf("--user must be a valid UUID: %w", err)
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			db, err := database.New(cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer func() { _ = db.Close() }()

			repo := database.NewTodoGroupRepository(db)
			group, err := repo.SetLocked(context.Background(), gid, uid, locked)
			if err != nil {
				return fmt.Errorf("%s group: %w", use, err)
			}
			if group == nil {
				return fmt.Errorf("no group %s for user %s", groupID, userID)
			}
			fmt.Printf("Group %s for day %s: locked=%v\n", group.ID, group.Day.Format("2006-01-02"), group.IsLocked)
			return nil
		},
	}
	cmd.Flags().StringVar(&groupID, "id", "", "Todo group ID (required)")
	cmd.Flags().StringVar(&userID, "user", "", "Owning user ID (required)")
	return cmd
}

package commands

import (
	"github.com/spf13/cobra"

	"github.com/stackit-dev/stackit/backend/internal/database"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, log, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := database.Migrate(db.GetDB()); err != nil {
			return err
		}
		log.Info("database schema is up to date")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

package commands

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/stackit-dev/stackit/backend/internal/services"
)

var revoke bool

// promoteAdminCmd toggles the admin flag on an existing account.
var promoteAdminCmd = &cobra.Command{
	Use:   "promote-admin <email>",
	Short: "Grant or revoke moderator rights",
	Long: `Grant moderator rights to the account registered with the given email.

Examples:
  stackit promote-admin alice@example.com           # Make alice an admin
  stackit promote-admin alice@example.com --revoke  # Take the rights away again`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, log, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer db.Close()

		user, err := services.NewUserService(db.GetDB()).SetAdmin(cmd.Context(), args[0], !revoke)
		if err != nil {
			return err
		}

		log.WithFields(logrus.Fields{"user_id": user.ID, "is_admin": user.IsAdmin}).Info("admin flag updated")
		fmt.Fprintf(cmd.OutOrStdout(), "%s admin=%t\n", user.Email, user.IsAdmin)
		return nil
	},
}

func init() {
	promoteAdminCmd.Flags().BoolVar(&revoke, "revoke", false, "Remove admin rights instead of granting them")
	rootCmd.AddCommand(promoteAdminCmd)
}

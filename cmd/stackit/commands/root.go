package commands

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/stackit-dev/stackit/backend/internal/config"
	"github.com/stackit-dev/stackit/backend/internal/database"
	"github.com/stackit-dev/stackit/backend/internal/logging"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "stackit",
	Short: "StackIt - a minimal question and answer forum",
	Long: `StackIt serves the question and answer forum API.

Commands:
  serve          - Run the HTTP API
  migrate        - Create or update the database schema
  promote-admin  - Grant or revoke moderator rights`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads configuration, builds the logger and connects to the database.
func bootstrap() (*config.Config, *logrus.Logger, database.Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	log := logging.New(cfg.LogLevel, os.Stdout)

	db, err := database.New(cfg.Database, log)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, log, db, nil
}

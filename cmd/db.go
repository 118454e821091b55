package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/edubook/edubook/pkg/storage"
)

// dbCmd represents the db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Browse and maintain the saved pricing database",
}

// openDB resolves the database path and the configured user, shared by all
// db subcommands.
func openDB(cmd *cobra.Command) (*storage.DB, string, error) {
	dbPath, _ := dbCmd.PersistentFlags().GetString("dbpath")
	if dbPath == "" {
		dbPath = viper.GetString("dbpath")
	}
	if dbPath == "" {
		dbPath = "edubook.sqlite"
	}

	userID := viper.GetString("user")
	if userID == "" {
		return nil, "", storage.ErrNoUser
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, "", fmt.Errorf("opening database %s: %w", dbPath, err)
	}
	return db, userID, nil
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.PersistentFlags().String("dbpath", "", "Path to the sqlite database (default from config)")
}

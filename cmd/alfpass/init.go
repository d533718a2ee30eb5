package main

import (
	"fmt"
	"os"

	"github.com/matsen/alfpass/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the password database and a default config",
	Long: `Create the password database and its directory if they don't exist,
and write a config file with default settings when none exists yet.

Running init is optional: every query creates the database on demand.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	db := mustOpenStore()
	defer db.Close()
	dbPath := db.Path()

	count, err := db.Count()
	if err != nil {
		exitWithError(ExitError, "counting passwords: %v", err)
	}

	var written string
	cfgPath := configPath()
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		if err := config.Default().Save(cfgPath); err != nil {
			exitWithError(ExitConfigError, "writing config: %v", err)
		}
		written = cfgPath
	}

	if humanOutput {
		fmt.Printf("Initialized %s (%d passwords)\n", dbPath, count)
		if written != "" {
			fmt.Printf("Wrote default config to %s\n", written)
		}
		return nil
	}
	return outputJSON(StatusResponse{Status: "initialized", Path: dbPath, Config: written})
}

package main

import (
	"fmt"

	"github.com/matsen/alfpass/internal/clipboard"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(pathCmd)
}

var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the resolved database and config paths",
	Args:  cobra.NoArgs,
	RunE:  runPath,
}

func runPath(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	resp := PathsResponse{
		DBPath:     cfg.ResolveDBPath(dbFlag),
		ConfigPath: configPath(),
		LogFile:    cfg.LogFile,
		Clipboard:  clipboard.System{}.Available(),
	}

	if humanOutput {
		fmt.Printf("database: %s\n", resp.DBPath)
		fmt.Printf("config:   %s\n", resp.ConfigPath)
		if resp.LogFile != "" {
			fmt.Printf("log:      %s\n", resp.LogFile)
		}
		fmt.Printf("clipboard: %t\n", resp.Clipboard)
		return nil
	}
	return outputJSON(resp)
}

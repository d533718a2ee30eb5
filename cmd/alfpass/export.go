package main

import (
	"fmt"

	"github.com/matsen/alfpass/internal/config"
	"github.com/matsen/alfpass/internal/storage"
	"github.com/spf13/cobra"
)

// TransferResult is the response for export and import commands.
type TransferResult struct {
	Status string `json:"status"`
	Path   string `json:"path"`
	Count  int    `json:"count"`
}

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <file.jsonl>",
	Short: "Write every password to a JSONL backup",
	Long: `Write every saved password to a JSONL file, one entry per line, newest
first. The file holds secrets in plain text and is created with mode 0600.

Example:
  alfpass export ~/backup/passwords.jsonl`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <file.jsonl>",
	Short: "Restore passwords from a JSONL backup",
	Long: `Restore passwords from a file written by 'alfpass export'. Entries keep
their original creation time; existing labels are replaced.

Example:
  alfpass import ~/backup/passwords.jsonl`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

// mustOpenStore loads config and opens the database, exits on error.
// The caller is responsible for calling Close() on the returned DB.
func mustOpenStore() *storage.DB {
	cfg, err := loadConfig()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	db, err := storage.Open(cfg.ResolveDBPath(dbFlag))
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}
	return db
}

func runExport(cmd *cobra.Command, args []string) error {
	path := config.ExpandPath(args[0])
	db := mustOpenStore()
	defer db.Close()

	entries, err := db.Entries()
	if err != nil {
		exitWithError(ExitError, "reading passwords: %v", err)
	}
	if err := storage.WriteEntries(path, entries); err != nil {
		exitWithError(ExitError, "writing backup: %v", err)
	}

	if humanOutput {
		fmt.Printf("Exported %d passwords to %s\n", len(entries), path)
		return nil
	}
	return outputJSON(TransferResult{Status: "exported", Path: path, Count: len(entries)})
}

func runImport(cmd *cobra.Command, args []string) error {
	path := config.ExpandPath(args[0])
	entries, err := storage.ReadEntries(path)
	if err != nil {
		exitWithError(ExitError, "reading backup: %v", err)
	}

	db := mustOpenStore()
	defer db.Close()

	n, err := db.Restore(entries)
	if err != nil {
		exitWithError(ExitError, "restoring passwords: %v", err)
	}

	if humanOutput {
		fmt.Printf("Imported %d passwords from %s\n", n, path)
		return nil
	}
	return outputJSON(TransferResult{Status: "imported", Path: path, Count: n})
}

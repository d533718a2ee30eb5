// Package main provides the alfpass CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/matsen/alfpass/internal/alfred"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	dbFlag      string
	configFlag  string
	logFileFlag string
)

func main() {
	cmd, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}
	if cmd == rootCmd {
		// The launcher only reads stdout and shows a generic failure on a
		// non-zero exit, so report flag errors as a result row.
		writeItems(os.Stdout, []alfred.Item{alfred.Error("❌ alfpass error", err)})
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	os.Exit(ExitError)
}

var rootCmd = &cobra.Command{
	Use:   "alfpass [flags] -- <query>",
	Short: "Launcher password generator and lookup",
	Long: `alfpass generates, saves and looks up passwords from a single query
string typed into a launcher such as Alfred.

Query forms:
  16 github          generate a 16 character password saved as github
  github mypass      save mypass as github
  github             find github (substring search when not exact)
  list               list every saved password
  del github         delete github
  regen github [24]  replace github with a new password
  clear confirm      delete every password

Results are written to stdout as {"items": [...]} JSON. Always pass the
query after "--" so queries starting with "-" or naming a subcommand are
not parsed as flags or commands:

  alfpass -- "{query}"`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runQuery,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	flags.StringVar(&dbFlag, "db", "", "Path to the password database")
	flags.StringVar(&configFlag, "config", "", "Path to config.yml")
	flags.StringVar(&logFileFlag, "log-file", "", "Append JSON logs to this file")

	rootCmd.Flags().SetInterspersed(false)
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.Version = Version
}

package main

// Exit codes for the helper subcommands. Launcher queries always exit 0
// and report failures as result rows.
const (
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (unreadable or invalid config)
)

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matsen/alfpass/internal/alfred"
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// writeItems writes result rows as the launcher envelope, or as plain text
// with --human.
func writeItems(w io.Writer, items []alfred.Item) error {
	if humanOutput {
		return alfred.WriteHuman(w, items)
	}
	return alfred.Write(w, items)
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
	Config string `json:"config,omitempty"`
}

// PathsResponse is the response for the path command.
type PathsResponse struct {
	DBPath     string `json:"db_path"`
	ConfigPath string `json:"config_path"`
	LogFile    string `json:"log_file,omitempty"`
	Clipboard  bool   `json:"clipboard_available"`
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

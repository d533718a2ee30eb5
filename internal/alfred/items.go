// Package alfred builds the JSON result list read by the launcher.
package alfred

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Item is one row in the launcher's result list.
//
// Valid controls whether the launcher treats the row as actionable. Arg is
// the value handed back when the user acts on the row; for secrets it is
// the secret itself, not the label.
type Item struct {
	Title        string `json:"title"`
	Subtitle     string `json:"subtitle"`
	Arg          string `json:"arg"`
	Autocomplete string `json:"autocomplete"`
	Valid        bool   `json:"valid"`
}

// Response is the envelope written to stdout.
type Response struct {
	Items []Item `json:"items"`
}

// fallbackEnvelope is written when encoding the real response fails.
const fallbackEnvelope = `{"items":[{"title":"Error","subtitle":"output encoding failed","arg":"","autocomplete":"","valid":false}]}` + "\n"

// Info returns a non-actionable informational row.
func Info(title, subtitle string) Item {
	return Item{Title: title, Subtitle: subtitle}
}

// Hint returns a non-actionable row that completes the query to autocomplete.
func Hint(title, subtitle, autocomplete string) Item {
	return Item{Title: title, Subtitle: subtitle, Autocomplete: autocomplete}
}

// Secret returns an actionable row that hands secret back to the launcher.
func Secret(title, subtitle, secret string) Item {
	return Item{
		Title:        title,
		Subtitle:     subtitle,
		Arg:          secret,
		Autocomplete: title,
		Valid:        true,
	}
}

// Error returns a non-actionable row describing err.
func Error(title string, err error) Item {
	return Info(title, err.Error())
}

// Write encodes items as a single JSON envelope on w. If encoding fails a
// minimal hardcoded envelope is written instead so the launcher always
// receives well-formed output.
func Write(w io.Writer, items []Item) error {
	if items == nil {
		items = []Item{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(Response{Items: items}); err != nil {
		if _, werr := io.WriteString(w, fallbackEnvelope); werr != nil {
			return werr
		}
		return fmt.Errorf("encoding response: %w", err)
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// WriteHuman prints items for a terminal.
func WriteHuman(w io.Writer, items []Item) error {
	var sb strings.Builder
	for _, it := range items {
		marker := " "
		if it.Valid {
			marker = "*"
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", marker, it.Title))
		if it.Subtitle != "" {
			sb.WriteString(fmt.Sprintf("    %s\n", it.Subtitle))
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

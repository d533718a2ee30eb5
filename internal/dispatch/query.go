package dispatch

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Query is a launcher input split into whitespace-delimited tokens.
type Query struct {
	Raw    string
	Tokens []string
}

// nullSentinels are the values some launchers pass for "no argument".
var nullSentinels = map[string]bool{
	"(null)": true,
	"null":   true,
}

// NormalizeArg trims raw and maps launcher sentinels to the empty string.
func NormalizeArg(raw string) string {
	if nullSentinels[raw] {
		return ""
	}
	return strings.TrimSpace(raw)
}

// Parse normalizes raw and tokenizes it on runs of whitespace.
func Parse(raw string) Query {
	raw = NormalizeArg(raw)
	return Query{Raw: raw, Tokens: strings.Fields(raw)}
}

// Len returns the number of tokens.
func (q Query) Len() int {
	return len(q.Tokens)
}

// First returns the first token lowercased, or "" when there is none.
func (q Query) First() string {
	if len(q.Tokens) == 0 {
		return ""
	}
	return strings.ToLower(q.Tokens[0])
}

// Rest joins every token after the first with single spaces.
func (q Query) Rest() string {
	if len(q.Tokens) < 2 {
		return ""
	}
	return strings.Join(q.Tokens[1:], " ")
}

// Has reports whether any token equals word, ignoring case.
func (q Query) Has(word string) bool {
	for _, tok := range q.Tokens {
		if strings.EqualFold(tok, word) {
			return true
		}
	}
	return false
}

// isNumber reports whether s is non-empty and made only of ASCII digits.
func isNumber(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// parseLength converts a numeric token. Values too large for an int are
// reported as -1 so callers treat them as out of range.
func parseLength(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}

// runeLen counts characters, not bytes.
func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// containsAny reports whether s contains any of the markers.
func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

package dispatch

import (
	"strings"

	"github.com/matsen/alfpass/internal/alfred"
)

// Rule names, in evaluation order.
const (
	RuleEmpty      = "empty"
	RuleEcho       = "echo"
	RuleTooShort   = "too-short"
	RuleLengthOnly = "length-only"
	RuleShortLabel = "short-label"
	RuleList       = "list"
	RuleDelete     = "delete"
	RuleRegenerate = "regenerate"
	RuleClear      = "clear"
	RuleGenerate   = "generate"
	RuleSave       = "save"
	RuleSearchHelp = "search-help"
	RuleSearch     = "search"
	RuleQueryHelp  = "query-help"
	RuleQuery      = "query"
)

type action func(d *Dispatcher, q Query) ([]alfred.Item, error)

// rule pairs a predicate with the action run when it is the first to match.
type rule struct {
	name  string
	match func(d *Dispatcher, q Query) bool
	run   action
}

// rules is evaluated top to bottom; the first match wins. Later entries
// rely on every earlier predicate having failed.
var rules = []rule{
	{RuleEmpty, isEmpty, (*Dispatcher).help},
	{RuleEcho, isEcho, (*Dispatcher).help},
	{RuleTooShort, isTooShort, typing("Keep typing to search or generate a password")},
	{RuleLengthOnly, isLengthOnly, typingLength},
	{RuleShortLabel, (*Dispatcher).isShortLabel, typingLabel},
	{RuleList, isListCommand, (*Dispatcher).list},
	{RuleDelete, isDeleteCommand, (*Dispatcher).remove},
	{RuleRegenerate, isRegenCommand, (*Dispatcher).regenerate},
	{RuleClear, hasClear, (*Dispatcher).clear},
	{RuleGenerate, startsWithNumber, (*Dispatcher).generateAndSave},
	{RuleSave, isSave, (*Dispatcher).save},
	{RuleSearchHelp, isSearchWithMarker, (*Dispatcher).help},
	{RuleSearch, isSingleToken, (*Dispatcher).search},
	{RuleQueryHelp, hasReservedMarker, (*Dispatcher).help},
	// Unreachable: two or more tokens that fail isSave either start with a
	// number or carry a marker. Kept so the table always has a final match.
	{RuleQuery, always, (*Dispatcher).query},
}

func (d *Dispatcher) classify(q Query) rule {
	for _, r := range rules {
		if r.match(d, q) {
			return r
		}
	}
	return rules[len(rules)-1]
}

func isEmpty(_ *Dispatcher, q Query) bool {
	return q.Len() == 0
}

func isEcho(_ *Dispatcher, q Query) bool {
	return systemMessages[q.Raw] ||
		strings.HasPrefix(q.Raw, markerSuccess) ||
		strings.HasPrefix(q.Raw, markerFailure)
}

func isTooShort(_ *Dispatcher, q Query) bool {
	return runeLen(q.Raw) < 2
}

func isLengthOnly(_ *Dispatcher, q Query) bool {
	return q.Len() == 1 && isNumber(q.Tokens[0])
}

// isShortLabel catches "16 gi" while the label is still being typed.
func (d *Dispatcher) isShortLabel(q Query) bool {
	return q.Len() == 2 &&
		isNumber(q.Tokens[0]) &&
		runeLen(q.Tokens[1]) <= 2 &&
		!d.shortLabels[q.Tokens[1]]
}

// isListCommand accepts "list" and its prefixes down to two characters.
func isListCommand(_ *Dispatcher, q Query) bool {
	switch q.First() {
	case "list", "lis", "li":
		return true
	}
	return false
}

// isDeleteCommand only accepts the exact keyword.
func isDeleteCommand(_ *Dispatcher, q Query) bool {
	return q.First() == "del"
}

// isRegenCommand accepts "regen" and its prefixes down to three characters.
func isRegenCommand(_ *Dispatcher, q Query) bool {
	switch q.First() {
	case "regen", "rege", "reg":
		return true
	}
	return false
}

func hasClear(_ *Dispatcher, q Query) bool {
	return q.Has("clear")
}

func startsWithNumber(_ *Dispatcher, q Query) bool {
	return q.Len() > 0 && isNumber(q.Tokens[0])
}

func isSave(_ *Dispatcher, q Query) bool {
	return q.Len() >= 2 && !isNumber(q.Tokens[0]) && !containsAny(q.Raw, reservedMarkers)
}

func isSearchWithMarker(_ *Dispatcher, q Query) bool {
	return q.Len() == 1 && containsAny(q.Raw, helpMarkers)
}

func isSingleToken(_ *Dispatcher, q Query) bool {
	return q.Len() == 1
}

func hasReservedMarker(_ *Dispatcher, q Query) bool {
	return containsAny(q.Raw, reservedMarkers)
}

func always(*Dispatcher, Query) bool {
	return true
}

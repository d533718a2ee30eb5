package dispatch

import (
	"errors"
	"fmt"
	"strings"

	"github.com/matsen/alfpass/internal/alfred"
	"github.com/matsen/alfpass/internal/storage"
)

// typing returns a placeholder action for input that is still being typed.
func typing(subtitle string) action {
	return func(*Dispatcher, Query) ([]alfred.Item, error) {
		return []alfred.Item{alfred.Info(titleTyping, subtitle)}, nil
	}
}

func typingLength(_ *Dispatcher, q Query) ([]alfred.Item, error) {
	return typing(fmt.Sprintf("Keep typing a label (length: %s)", q.Tokens[0]))(nil, q)
}

func typingLabel(_ *Dispatcher, q Query) ([]alfred.Item, error) {
	return typing(fmt.Sprintf("Keep typing the label, so far: %s", q.Tokens[1]))(nil, q)
}

// preview shortens a secret for display. The full secret always goes in Arg.
func preview(secret string) string {
	r := []rune(secret)
	if len(r) > secretPreview {
		return string(r[:secretPreview]) + "..."
	}
	return secret
}

// entryItem is the row for a stored label during list, search and help.
func entryItem(title, label, secret string) alfred.Item {
	if secret == "" {
		return alfred.Item{
			Title:        title,
			Subtitle:     "Password missing",
			Autocomplete: label,
		}
	}
	it := alfred.Secret(title, "Press Enter to copy: "+preview(secret), secret)
	it.Autocomplete = label
	return it
}

// secretItem is the row for a secret that was just written or looked up.
// When in-process copying is on, a failed copy only changes the text.
func (d *Dispatcher) secretItem(label, verb, secret string) alfred.Item {
	if !d.copyEnabled {
		return alfred.Secret(label, fmt.Sprintf("%s, press Enter to copy: %s", verb, secret), secret)
	}
	if err := d.copier.Copy(secret); err != nil {
		d.logger.Warn("clipboard copy failed", "label", label, "error", err)
		return alfred.Secret(label, fmt.Sprintf("%s, copy failed, press Enter to copy: %s", verb, secret), secret)
	}
	return alfred.Secret(label, fmt.Sprintf("%s and copied: %s", verb, secret), secret)
}

func notFound() []alfred.Item {
	return []alfred.Item{alfred.Info(titleNotFound, notFoundHint)}
}

// checkLength validates a requested length, returning a row when invalid.
func (d *Dispatcher) checkLength(n int, token string) (alfred.Item, bool) {
	switch {
	case n == 0:
		return alfred.Info(titleInvalidLength, "Password length must be at least 1"), false
	case n < 0 || n > d.maxLength:
		return alfred.Info(titleInvalidLength, fmt.Sprintf("Length %s exceeds the maximum of %d", token, d.maxLength)), false
	}
	return alfred.Item{}, true
}

// write generates a password of length, saves it under label and returns its row.
func (d *Dispatcher) write(label string, length int, verb string) ([]alfred.Item, error) {
	secret, err := d.generate(length)
	if err != nil {
		d.logger.Error("generating password", "error", err)
		return []alfred.Item{alfred.Error(titleGenerateError, err)}, nil
	}
	if err := d.store.Save(label, secret); err != nil {
		return nil, err
	}
	d.logger.Info("password written", "label", label, "length", length)
	return []alfred.Item{d.secretItem(label, verb, secret)}, nil
}

// generateAndSave handles "<length> [label...]".
func (d *Dispatcher) generateAndSave(q Query) ([]alfred.Item, error) {
	length := parseLength(q.Tokens[0])
	if it, ok := d.checkLength(length, q.Tokens[0]); !ok {
		return []alfred.Item{it}, nil
	}

	label := q.Rest()
	if label == "" {
		label = fmt.Sprintf("pwd_%d", d.now().Unix())
	}
	return d.write(label, length, "Generated and saved")
}

// save handles "<label> <secret...>".
func (d *Dispatcher) save(q Query) ([]alfred.Item, error) {
	label := q.Tokens[0]
	secret := q.Rest()
	if err := d.store.Save(label, secret); err != nil {
		return nil, err
	}
	d.logger.Info("password saved", "label", label)
	return []alfred.Item{d.secretItem(label, "Saved", secret)}, nil
}

// regenerate handles "regen <label...> [length]".
func (d *Dispatcher) regenerate(q Query) ([]alfred.Item, error) {
	if q.Len() < 2 {
		return []alfred.Item{alfred.Hint(titleRegenerate, "Usage: regen <label> [length]", "regen ")}, nil
	}

	label := q.Rest()
	length := d.defaultLength
	last := q.Tokens[q.Len()-1]
	if q.Len() >= 3 && isNumber(last) {
		label = strings.Join(q.Tokens[1:q.Len()-1], " ")
		length = parseLength(last)
		if it, ok := d.checkLength(length, last); !ok {
			return []alfred.Item{it}, nil
		}
	}
	return d.write(label, length, "Regenerated")
}

// finder is implemented by stores that can match labels ignoring case.
type finder interface {
	Find(label string) (string, string, error)
}

// lookup finds label exactly, then ignoring case.
func (d *Dispatcher) lookup(label string) (string, string, error) {
	if f, ok := d.store.(finder); ok {
		return f.Find(label)
	}

	secret, err := d.store.Get(label)
	if err == nil {
		return label, secret, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return "", "", err
	}

	labels, err := d.store.List()
	if err != nil {
		return "", "", err
	}
	for _, l := range labels {
		if strings.EqualFold(l, label) {
			secret, err := d.store.Get(l)
			if err != nil {
				return "", "", err
			}
			return l, secret, nil
		}
	}
	return "", "", storage.ErrNotFound
}

// query looks up the first token as a label.
func (d *Dispatcher) query(q Query) ([]alfred.Item, error) {
	label, secret, err := d.lookup(q.Tokens[0])
	if errors.Is(err, storage.ErrNotFound) || (err == nil && secret == "") {
		return notFound(), nil
	}
	if err != nil {
		return nil, err
	}
	return []alfred.Item{d.secretItem(label, "Found", secret)}, nil
}

// search handles a single free word: an exact label (ignoring case) wins,
// otherwise every label containing the word is listed.
func (d *Dispatcher) search(q Query) ([]alfred.Item, error) {
	labels, err := d.store.List()
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(q.Tokens[0])
	for _, l := range labels {
		if strings.ToLower(l) == needle {
			return d.query(Query{Raw: l, Tokens: []string{l}})
		}
	}

	var items []alfred.Item
	for _, l := range labels {
		if !strings.Contains(strings.ToLower(l), needle) {
			continue
		}
		secret, err := d.secret(l)
		if err != nil {
			return nil, err
		}
		items = append(items, entryItem(l, l, secret))
	}
	if len(items) == 0 {
		return notFound(), nil
	}
	return items, nil
}

// secret returns the stored secret for label, "" when it vanished.
func (d *Dispatcher) secret(label string) (string, error) {
	s, err := d.store.Get(label)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	return s, err
}

// list shows every label with its secret, newest first.
func (d *Dispatcher) list(Query) ([]alfred.Item, error) {
	labels, err := d.store.List()
	if err != nil {
		return nil, err
	}
	if len(labels) == 0 {
		return []alfred.Item{alfred.Info(titleNoPasswords, "Use '<length> <label>' to generate a password")}, nil
	}

	items := make([]alfred.Item, 0, len(labels))
	for _, l := range labels {
		secret, err := d.secret(l)
		if err != nil {
			return nil, err
		}
		items = append(items, entryItem(l, l, secret))
	}
	return items, nil
}

// remove handles "del <label>". Only the first label is used.
func (d *Dispatcher) remove(q Query) ([]alfred.Item, error) {
	if q.Len() < 2 {
		return []alfred.Item{alfred.Info(titleDelete, "Usage: del <label>")}, nil
	}

	label := q.Tokens[1]
	removed, err := d.store.Delete(label)
	if err != nil {
		return nil, err
	}
	if !removed {
		return []alfred.Item{alfred.Info(titleDeleteFailed, "No password named: "+label)}, nil
	}
	d.logger.Info("password deleted", "label", label)
	return []alfred.Item{alfred.Info(titleDeleted, "Deleted password: "+label)}, nil
}

// clear asks for confirmation unless the query is exactly "clear confirm".
func (d *Dispatcher) clear(q Query) ([]alfred.Item, error) {
	if strings.ToLower(q.Raw) != "clear confirm" {
		labels, err := d.store.List()
		if err != nil {
			return nil, err
		}
		subtitle := "Type 'clear confirm' to delete all passwords (none stored)"
		if n := len(labels); n > 0 {
			subtitle = fmt.Sprintf("Type 'clear confirm' to delete all passwords (%d stored)", n)
		}
		return []alfred.Item{alfred.Hint(titleConfirmClear, subtitle, "clear confirm")}, nil
	}

	count, err := d.store.Clear()
	if err != nil {
		return nil, err
	}
	d.logger.Info("store cleared", "count", count)
	if count == 0 {
		return []alfred.Item{alfred.Info(titleClearedNothing, "No passwords to delete")}, nil
	}

	remaining, err := d.store.List()
	if err != nil {
		return nil, err
	}
	if len(remaining) > 0 {
		return []alfred.Item{alfred.Info(titlePartialClear,
			fmt.Sprintf("Deleted %d passwords, but %d remain", count, len(remaining)))}, nil
	}
	return []alfred.Item{alfred.Info(titleCleared, fmt.Sprintf("Deleted %d passwords", count))}, nil
}

// help lists usage rows and, when passwords exist, the three newest.
func (d *Dispatcher) help(Query) ([]alfred.Item, error) {
	labels, err := d.store.List()
	if err != nil {
		return nil, err
	}

	items := []alfred.Item{
		alfred.Info(markerTool+" Password manager", fmt.Sprintf("%d passwords saved", len(labels))),
		alfred.Hint(titleGenerate, "16 github - generate a 16 character password saved as github", "16 "),
		alfred.Hint(titleSave, "github mypass - save mypass as github", "github "),
		alfred.Hint(titleFind, "github - find and copy the github password", "github"),
		alfred.Hint(titleList, "list - show every saved password", "list"),
		alfred.Hint(titleDelete, "del github - delete the github password", "del "),
		alfred.Hint(titleClear, "clear confirm - delete every password", "clear confirm"),
		alfred.Hint(titleRegenerate, "regen github [length] - replace the github password", "regen "),
	}
	if len(labels) == 0 {
		return items, nil
	}

	items = append(items, alfred.Hint(markerList+" Quick access", "Show all saved passwords", "list"))
	recent := labels
	if len(recent) > 3 {
		recent = recent[:3]
	}
	for _, l := range recent {
		secret, err := d.secret(l)
		if err != nil {
			return nil, err
		}
		items = append(items, entryItem(markerKey+" "+l, l, secret))
	}
	return items, nil
}

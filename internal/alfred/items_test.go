package alfred

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestWrite_Envelope(t *testing.T) {
	var buf bytes.Buffer
	items := []Item{
		Secret("github", "Click to copy", "s3cret"),
		Info("Nothing here", "try again"),
	}

	if err := Write(&buf, items); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var raw map[string][]map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}

	got := raw["items"]
	if len(got) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(got))
	}

	first := got[0]
	for _, key := range []string{"title", "subtitle", "arg", "autocomplete", "valid"} {
		if _, ok := first[key]; !ok {
			t.Errorf("item missing key %q", key)
		}
	}
	if first["arg"] != "s3cret" {
		t.Errorf("arg = %v, want s3cret", first["arg"])
	}
	if first["autocomplete"] != "github" {
		t.Errorf("autocomplete = %v, want github", first["autocomplete"])
	}
	if first["valid"] != true {
		t.Errorf("valid = %v, want true", first["valid"])
	}
	if got[1]["valid"] != false {
		t.Errorf("info valid = %v, want false", got[1]["valid"])
	}
}

func TestWrite_EmptyIsArray(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, nil); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != `{"items":[]}` {
		t.Errorf("Write(nil) = %s, want {\"items\":[]}", got)
	}
}

func TestWrite_NonASCII(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, []Item{Info("🔐 密码", "ok")}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var resp Response
	if err := json.Unmarshal(buf.Bytes(), &resp); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if resp.Items[0].Title != "🔐 密码" {
		t.Errorf("Title = %q, want %q", resp.Items[0].Title, "🔐 密码")
	}
}

func TestFallbackEnvelope_IsValidJSON(t *testing.T) {
	var resp Response
	if err := json.Unmarshal([]byte(fallbackEnvelope), &resp); err != nil {
		t.Fatalf("fallback envelope is not valid JSON: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].Valid {
		t.Errorf("fallback envelope = %+v, want one invalid item", resp.Items)
	}
}

func TestError(t *testing.T) {
	it := Error("❌ Storage error", errors.New("disk full"))
	if it.Valid {
		t.Error("Error() item is valid, want invalid")
	}
	if it.Subtitle != "disk full" {
		t.Errorf("Subtitle = %q, want %q", it.Subtitle, "disk full")
	}
}

func TestWriteHuman(t *testing.T) {
	var buf bytes.Buffer
	items := []Item{
		Secret("github", "Click to copy: abc", "abc"),
		Info("Usage", ""),
	}
	if err := WriteHuman(&buf, items); err != nil {
		t.Fatalf("WriteHuman() error = %v", err)
	}

	want := "* github\n    Click to copy: abc\n  Usage\n"
	if buf.String() != want {
		t.Errorf("WriteHuman() = %q, want %q", buf.String(), want)
	}
}

func TestWrite_SymbolsNotEscaped(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, []Item{Secret("x", "", "a&b<c>d")}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"arg":"a&b<c>d"`) {
		t.Errorf("Write() escaped symbols: %s", buf.String())
	}
}

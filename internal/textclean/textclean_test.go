package textclean

import (
	"strings"
	"testing"
)

func TestClean_Empty(t *testing.T) {
	if got := Clean(""); got != "" {
		t.Errorf("Clean(%q) = %q, want empty", "", got)
	}
}

func TestClean_StripsHTML(t *testing.T) {
	got := Clean("<b>Hi</b> <i>there</i>")
	if got != "Hi there" {
		t.Errorf("Clean() = %q, want %q", got, "Hi there")
	}
	if strings.ContainsAny(got, "<>") {
		t.Errorf("Clean() output still contains angle brackets: %q", got)
	}
}

func TestClean_BlockElementSpacing(t *testing.T) {
	got := Clean("<p>First paragraph.</p><p>Second paragraph.</p>")
	want := "First paragraph. Second paragraph."
	if got != want {
		t.Errorf("Clean() = %q, want %q", got, want)
	}
}

func TestClean_DecodesEntities(t *testing.T) {
	got := Clean("Caf&eacute; &amp; Bar")
	want := "Café & Bar"
	if got != want {
		t.Errorf("Clean() = %q, want %q", got, want)
	}
}

func TestClean_CollapsesWhitespace(t *testing.T) {
	got := Clean("a\n\n  b\t c")
	if got != "a b c" {
		t.Errorf("Clean() = %q, want %q", got, "a b c")
	}
}

func TestClean_Idempotent(t *testing.T) {
	inputs := []string{
		"plain text",
		"Caf&eacute; &amp; Bar",
		"<p>Hello <b>world</b></p>",
		"Ã©clair",
		"Itâ€™s done",
		"already clean: é, ’, —",
	}
	for _, in := range inputs {
		once := Clean(in)
		twice := Clean(once)
		if once != twice {
			t.Errorf("Clean not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestClean_NeverPanics(t *testing.T) {
	inputs := []string{
		string([]byte{0xff, 0xfe, 0x41}),
		string([]byte{0xc3}), // truncated multibyte
		"<p unclosed",
		strings.Repeat("Ã", 500),
		"&#xZZ; &unknown;",
	}
	for _, in := range inputs {
		// Clean must degrade, not panic, on arbitrary bytes.
		_ = Clean(in)
	}
}

func TestMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want func(string) bool
	}{
		{
			name: "html converted",
			in:   "<p>Hello <b>world</b></p>",
			want: func(s string) bool { return strings.Contains(s, "**world**") },
		},
		{
			name: "plain text unchanged",
			in:   "no markup here",
			want: func(s string) bool { return s == "no markup here" },
		},
		{
			name: "empty unchanged",
			in:   "",
			want: func(s string) bool { return s == "" },
		},
		{
			name: "angle brackets without tags unchanged",
			in:   "rating < 5 and count > 100",
			want: func(s string) bool { return s == "rating < 5 and count > 100" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Markdown(tt.in)
			if !tt.want(got) {
				t.Errorf("Markdown(%q) = %q", tt.in, got)
			}
		})
	}
}

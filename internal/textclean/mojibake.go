package textclean

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Mojibake markers: characters that almost never open a word in real
// prose but always lead a UTF-8 sequence misdecoded as a single-byte
// charset. U+FFFD counts too so a recovery candidate that trades
// markers for replacement characters is not an improvement.
var mojibakeMarkers = []rune{'\u00c3', '\u00c2', '\u00e2', '\ufffd'}

// markerCount counts mojibake marker characters in s.
func markerCount(s string) int {
	n := 0
	for _, r := range s {
		for _, m := range mojibakeMarkers {
			if r == m {
				n++
				break
			}
		}
	}
	return n
}

// repairPass is the automatic mojibake repair step. Text whose runes
// are really misdecoded UTF-8 bytes round-trips through Latin-1 back
// to the original byte sequence; if those bytes form valid UTF-8 with
// fewer markers, the repair is kept. Any failure passes the text
// through unmodified.
func repairPass(s string) string {
	before := markerCount(s)
	if before == 0 {
		return s
	}

	b, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
	if err != nil {
		// Not representable in Latin-1, so this is not simple
		// one-byte mojibake.
		return s
	}
	if !utf8.Valid(b) {
		return s
	}

	if candidate := string(b); markerCount(candidate) < before {
		return candidate
	}
	return s
}

// legacyEncodings is the ordered list of single-byte encodings tried
// during recovery. Latin-1 first: it is a strict byte-for-rune mapping,
// while Windows-1252 additionally remaps the 0x80-0x9F range used by
// smart punctuation.
var legacyEncodings = []struct {
	name string
	enc  encoding.Encoding
}{
	{"latin-1", charmap.ISO8859_1},
	{"windows-1252", charmap.Windows1252},
}

// recoverLegacy handles text that still carries mojibake markers after
// the automatic pass. The text is re-encoded under each legacy
// encoding in order, the bytes decoded back as UTF-8 (invalid
// sequences become U+FFFD), and the repair pass re-run. A candidate
// wins only if it strictly reduces the marker count; the first
// encoding that does so is accepted and the scan stops.
func recoverLegacy(s string) string {
	before := markerCount(s)
	if before == 0 || before == strings.Count(s, "�") {
		// Only replacement characters remain; the original bytes are
		// gone and re-encoding cannot bring them back.
		return s
	}

	for _, le := range legacyEncodings {
		b, err := encoding.ReplaceUnsupported(le.enc.NewEncoder()).Bytes([]byte(s))
		if err != nil {
			continue
		}

		candidate := strings.ToValidUTF8(string(b), "�")
		candidate = repairPass(candidate)

		if markerCount(candidate) < before {
			return candidate
		}
	}
	return s
}

// substitutions maps leftover mojibake artifacts to the characters
// they were meant to be. Applied in order, each as an unconditional
// literal replacement. The "â€" triples are smart
// punctuation seen through Windows-1252; the "Ã" pairs are
// accented letters seen through Latin-1.
//
// Bad sequences are written with explicit escapes: several artifact
// characters are near-identical to the characters they stand in for,
// and a lookalike glyph in a literal would silently break the table.
var substitutions = []struct {
	bad  string
	good string
}{
	// Smart punctuation
	{"\u00e2\u20ac\u2122", "\u2019"}, // right single quote
	{"\u00e2\u20ac\u02dc", "\u2018"}, // left single quote
	{"\u00e2\u20ac\u0153", "\u201c"}, // left double quote
	{"\u00e2\u20ac\u009d", "\u201d"}, // right double quote
	{"\u00e2\u20ac\u201c", "\u2013"}, // en dash
	{"\u00e2\u20ac\u201d", "\u2014"}, // em dash
	{"\u00e2\u20ac\u00a6", "\u2026"}, // ellipsis
	{"\u00e2\u20ac\u00a2", "\u2022"}, // bullet

	// Accented Latin letters
	{"\u00c3\u00a9", "\u00e9"}, // é
	{"\u00c3\u00a8", "\u00e8"}, // è
	{"\u00c3\u00aa", "\u00ea"}, // ê
	{"\u00c3\u00ab", "\u00eb"}, // ë
	{"\u00c3\u00a1", "\u00e1"}, // á
	{"\u00c3\u00a0", "\u00e0"}, // à
	{"\u00c3\u00a2", "\u00e2"}, // â
	{"\u00c3\u00a4", "\u00e4"}, // ä
	{"\u00c3\u00a5", "\u00e5"}, // å
	{"\u00c3\u00a7", "\u00e7"}, // ç
	{"\u00c3\u00ad", "\u00ed"}, // í
	{"\u00c3\u00ae", "\u00ee"}, // î
	{"\u00c3\u00af", "\u00ef"}, // ï
	{"\u00c3\u00b1", "\u00f1"}, // ñ
	{"\u00c3\u00b3", "\u00f3"}, // ó
	{"\u00c3\u00b4", "\u00f4"}, // ô
	{"\u00c3\u00b6", "\u00f6"}, // ö
	{"\u00c3\u00b8", "\u00f8"}, // ø
	{"\u00c3\u00ba", "\u00fa"}, // ú
	{"\u00c3\u00bb", "\u00fb"}, // û
	{"\u00c3\u00bc", "\u00fc"}, // ü
	{"\u00c3\u2030", "\u00c9"}, // É

	// Non-breaking space, both as a Latin-1 artifact and as the real
	// character the repair pass reconstructs from it.
	{"\u00c2\u00a0", " "},
	{"\u00a0", " "},

	// Bare right-double-quote remnant (trailing byte lost entirely).
	// Must come after the three-character artifacts above.
	{"\u00e2\u20ac", "\u201d"},
}

// applySubstitutions replaces known leftover artifacts.
func applySubstitutions(s string) string {
	for _, sub := range substitutions {
		s = strings.ReplaceAll(s, sub.bad, sub.good)
	}
	return s
}

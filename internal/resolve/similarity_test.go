package resolve

import "testing"

func TestRatio(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{"identical", "Hyperion", "Hyperion", 100},
		{"case insensitive", "HYPERION", "hyperion", 100},
		{"surrounding whitespace", "  Hyperion ", "Hyperion", 100},
		{"both empty", "", "", 100},
		{"one empty", "Hyperion", "", 0},
		{"classic edit distance", "kitten", "sitting", 57},
		{"single substitution", "Dan Simmons", "Dan Simmins", 91},
		{"unrelated", "Hyperion", "Beloved", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Ratio(tt.a, tt.b); got != tt.want {
				t.Errorf("Ratio(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestRatio_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"The Dispossessed", "Dispossessed"},
		{"Ursula K. Le Guin", "Ursula Le Guin"},
		{"kitten", "sitting"},
	}
	for _, p := range pairs {
		if Ratio(p[0], p[1]) != Ratio(p[1], p[0]) {
			t.Errorf("Ratio(%q, %q) not symmetric", p[0], p[1])
		}
	}
}

func TestRatio_MultibyteRunes(t *testing.T) {
	// Distance must be measured in runes, not bytes.
	if got := Ratio("éclair", "eclair"); got != 83 {
		t.Errorf("Ratio(éclair, eclair) = %d, want 83", got)
	}
}

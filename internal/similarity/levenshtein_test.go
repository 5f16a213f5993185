package similarity

import "testing"

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected int
	}{
		{"identical", "rahim uddin", "rahim uddin", 100},
		{"both empty", "", "", 0},
		{"one empty", "rahim", "", 0},
		{"single substitution", "rahim", "rahid", 80},
		{"completely different", "abc", "xyz", 0},
		{"one char off in long name", "mohammed rahim", "mohammad rahim", 92},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.a, tt.b); got != tt.expected {
				t.Errorf("Score(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestScoreSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"rahim uddin", "rahin uddim"},
		{"md karim", "mohammed karim"},
		{"a", "abcdef"},
		{"", "xyz"},
		{"জাহিদ হাসান", "জাহিদ হোসেন"},
	}

	for _, p := range pairs {
		if Score(p[0], p[1]) != Score(p[1], p[0]) {
			t.Errorf("Score not symmetric for %q / %q", p[0], p[1])
		}
	}
}

func TestScoreBounded(t *testing.T) {
	pairs := [][2]string{
		{"", ""},
		{"a", "b"},
		{"short", "a much longer string entirely"},
		{"same", "same"},
	}

	for _, p := range pairs {
		got := Score(p[0], p[1])
		if got < 0 || got > 100 {
			t.Errorf("Score(%q, %q) = %d out of [0,100]", p[0], p[1], got)
		}
	}
}

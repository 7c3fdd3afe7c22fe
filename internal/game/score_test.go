package game

import "testing"

func TestScoreKnownVectors(t *testing.T) {
	cases := []struct {
		secret string
		guess  string
		whites int
		reds   int
	}{
		{"1234", "1234", 4, 0},
		{"1234", "4321", 0, 4},
		{"1234", "1243", 2, 2},
		{"1234", "5678", 0, 0},
		{"1234", "1567", 1, 0},
		{"1234", "4123", 0, 4},
		{"0987", "0978", 2, 2},
		{"5063", "5036", 2, 2},
	}

	for _, tc := range cases {
		h := Score(tc.secret, tc.guess)
		if h.Whites != tc.whites || h.Reds != tc.reds {
			t.Errorf("Score(%q, %q) = %+v, want whites=%d reds=%d",
				tc.secret, tc.guess, h, tc.whites, tc.reds)
		}
	}
}

func TestScoreBounds(t *testing.T) {
	codes := []string{"1234", "4321", "0987", "9876", "1029", "5678", "3142", "0123"}

	for _, secret := range codes {
		for _, guess := range codes {
			h := Score(secret, guess)
			if h.Whites+h.Reds > CodeLength {
				t.Errorf("Score(%q, %q) = %+v exceeds %d total hits",
					secret, guess, h, CodeLength)
			}
			if secret == guess && (h.Whites != CodeLength || h.Reds != 0) {
				t.Errorf("Score(%q, %q) = %+v, want all whites", secret, guess, h)
			}
		}
	}
}

func TestHitsWin(t *testing.T) {
	if !(Hits{Whites: 4}).Win() {
		t.Error("4 whites should win")
	}
	if (Hits{Whites: 3, Reds: 1}).Win() {
		t.Error("3 whites should not win")
	}
}

func BenchmarkScore(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Score("1234", "4321")
	}
}

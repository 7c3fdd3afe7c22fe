package game

import "strings"

// Hits is the feedback for a single guess: whites are exact-position
// matches, reds are digits present in the secret at another position.
type Hits struct {
	Whites int
	Reds   int
}

// Win reports whether the guess cracked the secret.
func (h Hits) Win() bool {
	return h.Whites == CodeLength
}

// Score compares guess against secret digit by digit. Both codes must
// already be validated (4 distinct decimal digits), so repeated-digit
// double counting cannot occur.
func Score(secret, guess string) Hits {
	var h Hits
	for i := 0; i < len(guess) && i < len(secret); i++ {
		switch {
		case guess[i] == secret[i]:
			h.Whites++
		case strings.IndexByte(secret, guess[i]) >= 0:
			h.Reds++
		}
	}
	return h
}

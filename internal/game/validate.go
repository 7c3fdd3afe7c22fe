package game

import (
	"strings"
	"unicode/utf8"
)

const (
	// CodeLength is the length of secrets and guesses.
	CodeLength = 4
	// MaxNameLen is the maximum display name length after trimming.
	MaxNameLen = 32
	// MaxChatLen is the maximum chat message length kept on broadcast.
	MaxChatLen = 500
)

// ValidCode reports whether s is exactly 4 decimal digits, all distinct.
func ValidCode(s string) bool {
	if len(s) != CodeLength {
		return false
	}
	var seen [10]bool
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
		d := s[i] - '0'
		if seen[d] {
			return false
		}
		seen[d] = true
	}
	return true
}

// CleanName trims s and reports whether the result is a usable display
// name (1 to 32 characters).
func CleanName(s string) (string, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || utf8.RuneCountInString(trimmed) > MaxNameLen {
		return "", false
	}
	return trimmed, true
}

// ClampChat truncates a chat message to the broadcast limit without
// splitting a rune.
func ClampChat(s string) string {
	if utf8.RuneCountInString(s) <= MaxChatLen {
		return s
	}
	return string([]rune(s)[:MaxChatLen])
}

// ClampName truncates a claimed sender name to the display name limit.
func ClampName(s string) string {
	if utf8.RuneCountInString(s) <= MaxNameLen {
		return s
	}
	return string([]rune(s)[:MaxNameLen])
}

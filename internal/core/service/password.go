package service

import (
	"strings"
	"unicode"

	"github.com/mindforge/mindforge-api/internal/core/domain"
)

const (
	passwordMinLength = 8
	passwordMaxLength = 128
)

// commonSequences are trivially guessable fragments that cost a point.
var commonSequences = []string{"123", "abc", "qwe", "password", "admin"}

// validatePassword enforces the registration password policy: length bounds
// plus a small strength score. A password scoring below 2 is rejected.
//
// Scoring: +1 for 8+ chars (+2 for 12+), +1 per character class present
// (lower, upper, digit, symbol), -1 for a run of 3+ identical characters,
// -1 for containing a common sequence.
func validatePassword(password string) error {
	pw := strings.TrimSpace(password)
	if len(pw) < passwordMinLength || len(pw) > passwordMaxLength {
		return domain.ErrWeakPassword
	}

	score := 1
	if len(pw) >= 12 {
		score = 2
	}

	var lower, upper, digit, symbol bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}
	for _, present := range []bool{lower, upper, digit, symbol} {
		if present {
			score++
		}
	}

	if hasRepeatedRun(pw, 3) {
		score--
	}
	lowered := strings.ToLower(pw)
	for _, seq := range commonSequences {
		if strings.Contains(lowered, seq) {
			score--
			break
		}
	}

	if score < 2 {
		return domain.ErrWeakPassword
	}
	return nil
}

// hasRepeatedRun reports whether s contains n or more identical consecutive
// characters.
func hasRepeatedRun(s string, n int) bool {
	run := 1
	for i := 1; i < len(s); i++ {
		if s[i] == s[i-1] {
			run++
			if run >= n {
				return true
			}
		} else {
			run = 1
		}
	}
	return false
}

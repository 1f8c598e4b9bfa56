package rules

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/playperu/geoquiz/internal/textnorm"
)

const (
	MaxNameLength  = 24
	MinNameLetters = 3
)

// Rejection reasons are shown to the player as-is.
var (
	ErrNameEmpty         = errors.New("please enter a name")
	ErrNameTooLong       = fmt.Errorf("name is too long (max %d characters)", MaxNameLength)
	ErrNameCharacters    = errors.New("name can only contain letters, numbers, spaces, apostrophes, and hyphens")
	ErrNameTooFewLetters = fmt.Errorf("name must include at least %d letters", MinNameLetters)
	ErrNameBlocked       = errors.New("please choose a different name")
)

// NormalizePlayerName trims s and collapses internal whitespace runs to one space.
func NormalizePlayerName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func allowedNameChar(r rune) bool {
	switch {
	case 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z', '0' <= r && r <= '9':
		return true
	case r == ' ', r == '\'', r == '-':
		return true
	}
	return false
}

// ValidatePlayerName checks a competition entry name and returns it cleaned
// for storage. The checks run in order and the first failure is returned.
func ValidatePlayerName(raw string) (string, error) {
	name := NormalizePlayerName(raw)
	if name == "" {
		return "", ErrNameEmpty
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", ErrNameTooLong
	}

	letters := 0
	for _, r := range name {
		if !allowedNameChar(r) {
			return "", ErrNameCharacters
		}
		if ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') {
			letters++
		}
	}
	if letters < MinNameLetters {
		return "", ErrNameTooFewLetters
	}

	n := textnorm.Text(name)
	for _, bad := range tables.Profanity {
		if strings.Contains(n, bad) {
			return "", ErrNameBlocked
		}
	}
	return name, nil
}

package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultColor is applied to timers created without an explicit color.
const DefaultColor = "#f5f5f4"

// MaxNameLength is the longest timer name accepted, counted in runes.
const MaxNameLength = 100

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Timer is a named activity that sessions are recorded against.
type Timer struct {
	ID        string
	Name      string
	Color     string
	CreatedAt time.Time
}

// NormalizeName trims surrounding whitespace and checks the length bounds.
// Names stay case-sensitive.
func NormalizeName(name string) (string, error) {
	n := strings.TrimSpace(name)
	if n == "" {
		return "", fmt.Errorf("timer name is empty: %w", ErrInvalidName)
	}
	if utf8.RuneCountInString(n) > MaxNameLength {
		return "", fmt.Errorf("timer name exceeds %d characters: %w", MaxNameLength, ErrInvalidName)
	}
	return n, nil
}

// NormalizeColor lowercases a #rrggbb tag. An empty input yields DefaultColor.
func NormalizeColor(color string) (string, error) {
	c := strings.TrimSpace(color)
	if c == "" {
		return DefaultColor, nil
	}
	if !strings.HasPrefix(c, "#") {
		c = "#" + c
	}
	if !colorPattern.MatchString(c) {
		return "", fmt.Errorf("color %q is not a 6-digit hex value: %w", color, ErrInvalidColor)
	}
	return strings.ToLower(c), nil
}

// Package validation normalizes and rejects malformed form input. All
// functions are pure; error values carry the user-facing message.
package validation

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"
)

const maxTitleLen = 255

var (
	ErrEmptyTitle   = errors.New("Titill má ekki vera tómur.")
	ErrTitleTooLong = errors.New("Titill má vera að hámarki 255 stafir.")
	ErrInvalidID    = errors.New("Ógilt auðkenni.")
)

// ValidateTitle trims surrounding whitespace and enforces 1-255 characters.
// Returns the trimmed title on success.
func ValidateTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", ErrEmptyTitle
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "", ErrTitleTooLong
	}
	return title, nil
}

// ParseFinished interprets checkbox-style encodings. Only "on", "true" and
// "1" mean true; everything else, including absence, is false.
func ParseFinished(raw string) bool {
	return raw == "on" || raw == "true" || raw == "1"
}

// ParseIDParam parses a textual row identifier: an integer strictly greater
// than zero.
func ParseIDParam(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

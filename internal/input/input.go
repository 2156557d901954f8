// Package input turns raw console text into validated values so the core
// packages never see unparsed strings.
package input

import (
	"strconv"
	"strings"

	"parana-shopper/internal/apperror"
)

var (
	ErrNotANumber          = apperror.New(apperror.ErrInvalidInput, "please enter a valid number")
	ErrChoiceOutOfRange    = apperror.New(apperror.ErrInvalidInput, "choice out of range")
	ErrQuantityNotPositive = apperror.New(apperror.ErrInvalidInput, "quantity must be greater than 0")
	ErrInvalidID           = apperror.New(apperror.ErrInvalidInput, "invalid id")
)

func parseInt(raw string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, ErrNotANumber
	}
	return n, nil
}

// ParseChoice parses a 1-based menu selection within [1, max].
func ParseChoice(raw string, max int) (int, error) {
	n, err := parseInt(raw)
	if err != nil {
		return 0, err
	}
	if n < 1 || n > int64(max) {
		return 0, ErrChoiceOutOfRange
	}
	return int(n), nil
}

// ParseQuantity parses a strictly positive quantity.
func ParseQuantity(raw string) (int, error) {
	n, err := parseInt(raw)
	if err != nil {
		return 0, err
	}
	if n <= 0 || n > int64(^uint32(0)>>1) {
		return 0, ErrQuantityNotPositive
	}
	return int(n), nil
}

// ParseID parses a positive row identifier.
func ParseID(raw string) (int64, error) {
	n, err := parseInt(raw)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, ErrInvalidID
	}
	return n, nil
}

// Confirmed reports whether raw is an affirmative y/yes answer.
func Confirmed(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "y", "yes":
		return true
	}
	return false
}

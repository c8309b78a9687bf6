package board

import (
	"errors"
	"fmt"
)

// Sentinel errors for malformed external input.
// Use these with errors.Is() to check for specific error types.
var (
	// ErrInvalidFEN indicates a malformed or inconsistent FEN string.
	ErrInvalidFEN = errors.New("invalid FEN")

	// ErrInvalidSquare indicates text that is not a square in [a-h][1-8].
	ErrInvalidSquare = errors.New("invalid square")

	// ErrInvalidSAN indicates move text that cannot be parsed.
	ErrInvalidSAN = errors.New("invalid SAN")

	// ErrNoMatchingMove indicates move text that names no legal move.
	ErrNoMatchingMove = errors.New("no matching legal move")

	// ErrAmbiguousMove indicates move text that names more than one legal move.
	ErrAmbiguousMove = errors.New("ambiguous move")
)

// FENError reports which FEN field was rejected and why.
// It unwraps to ErrInvalidFEN.
type FENError struct {
	Field string // "placement", "side", "castling", "en passant", "halfmove", "fullmove" or "fields"
	Value string // The offending text
	Msg   string
}

// Error returns a formatted error message including the field and value.
func (e *FENError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%v: %s: %s", ErrInvalidFEN, e.Field, e.Msg)
	}
	return fmt.Sprintf("%v: %s %q: %s", ErrInvalidFEN, e.Field, e.Value, e.Msg)
}

// Unwrap returns ErrInvalidFEN so callers can use errors.Is.
func (e *FENError) Unwrap() error {
	return ErrInvalidFEN
}

func fenError(field, value, format string, args ...any) error {
	return &FENError{Field: field, Value: value, Msg: fmt.Sprintf(format, args...)}
}

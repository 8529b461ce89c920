package parser

import "errors"

var (
	// ErrNoRegion is returned when no opening brace follows the start offset.
	ErrNoRegion = errors.New("no opening brace")

	// ErrUnterminatedRegion is returned when the text ends before the brace
	// depth returns to zero.
	ErrUnterminatedRegion = errors.New("unterminated region")
)

// FindBalancedRegion returns the offset of the brace that closes the region
// opened by the first '{' at or after start that is not inside a string.
//
// String mode is tracked from start, so a brace inside a quoted default
// parameter never opens the region. Braces inside single-quoted,
// double-quoted and backtick strings are not counted. A quote closes the
// string only when it matches the opening delimiter and is not preceded by
// a backslash. Comments and template interpolation get no special treatment.
func FindBalancedRegion(text string, start int) (int, error) {
	_, end, err := balancedRegion(text, start)
	return end, err
}

// balancedRegion is FindBalancedRegion that also returns the offset of the
// opening brace.
func balancedRegion(text string, start int) (open, end int, err error) {
	if start < 0 {
		start = 0
	}
	if start >= len(text) {
		return -1, -1, ErrNoRegion
	}

	open = -1
	depth := 0
	var quote byte
	for i := start; i < len(text); i++ {
		c := text[i]
		if quote != 0 {
			if c == quote && text[i-1] != '\\' {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			quote = c
		case '{':
			if depth == 0 {
				open = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				return open, i, nil
			}
		}
	}

	if open < 0 {
		return -1, -1, ErrNoRegion
	}
	return open, -1, ErrUnterminatedRegion
}

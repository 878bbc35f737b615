package tui

import (
	"errors"
	"unicode"
)

var errUnterminatedQuote = errors.New("unterminated quote")

// splitCommand splits an opener command line into argv. It handles single
// quotes, double quotes and backslash escapes outside single quotes.
func splitCommand(s string) ([]string, error) {
	var (
		out      []string
		cur      []rune
		inWord   bool
		inSingle bool
		inDouble bool
		escaped  bool
	)
	flush := func() {
		if !inWord {
			return
		}
		out = append(out, string(cur))
		cur = cur[:0]
		inWord = false
	}

	for _, r := range s {
		switch {
		case escaped:
			cur = append(cur, r)
			escaped = false
		case r == '\\' && !inSingle:
			escaped = true
			inWord = true
		case r == '\'' && !inDouble:
			inSingle = !inSingle
			inWord = true
		case r == '"' && !inSingle:
			inDouble = !inDouble
			inWord = true
		case !inSingle && !inDouble && unicode.IsSpace(r):
			flush()
		default:
			cur = append(cur, r)
			inWord = true
		}
	}
	if inSingle || inDouble {
		return nil, errUnterminatedQuote
	}
	flush()
	return out, nil
}

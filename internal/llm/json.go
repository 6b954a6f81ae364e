package llm

import (
	"encoding/json"
	"errors"
	"strings"
)

var (
	// ErrNoJSONObject means the text contains no balanced {...} region.
	ErrNoJSONObject = errors.New("no JSON object in response")
	// ErrInvalidJSON means balanced regions were found but none decoded.
	ErrInvalidJSON = errors.New("JSON object in response is not valid")
)

// ExtractJSONObject returns the first top-level balanced object literal in
// text that is valid JSON. Model output often wraps the object in prose or markdown
// fences; braces inside string literals do not count towards balance.
func ExtractJSONObject(text string) ([]byte, error) {
	found := false
	start := strings.IndexByte(text, '{')
	for start >= 0 {
		from := start + 1
		if end := matchBrace(text, start); end >= 0 {
			found = true
			candidate := []byte(text[start : end+1])
			if json.Valid(candidate) {
				return candidate, nil
			}
			// Objects nested in a broken region are fragments, not replies.
			from = end + 1
		}
		next := strings.IndexByte(text[from:], '{')
		if next < 0 {
			break
		}
		start = from + next
	}
	if !found {
		return nil, ErrNoJSONObject
	}
	return nil, ErrInvalidJSON
}

// matchBrace returns the index of the brace closing the one at start, or -1.
func matchBrace(text string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

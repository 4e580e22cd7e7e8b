package shellquote

import (
	"errors"
	"strings"
)

// ErrUnterminatedQuote is returned by SplitPosix for input ending inside
// a quoted region or after a trailing backslash.
var ErrUnterminatedQuote = errors.New("unterminated quote")

// SplitPosix splits a command line into words using POSIX shell rules:
// whitespace separates words; single quotes preserve everything literally;
// double quotes preserve everything except backslash escapes of `"`, `\`,
// `$` and a backtick; a backslash outside quotes escapes the next character.
// No expansion of any kind is performed.
func SplitPosix(line string) ([]string, error) {
	var words []string
	var cur strings.Builder
	inWord := false

	i := 0
	for i < len(line) {
		c := line[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n':
			if inWord {
				words = append(words, cur.String())
				cur.Reset()
				inWord = false
			}
			i++

		case c == '\\':
			if i+1 >= len(line) {
				return nil, ErrUnterminatedQuote
			}
			cur.WriteByte(line[i+1])
			inWord = true
			i += 2

		case c == '\'':
			end := strings.IndexByte(line[i+1:], '\'')
			if end < 0 {
				return nil, ErrUnterminatedQuote
			}
			cur.WriteString(line[i+1 : i+1+end])
			inWord = true
			i += end + 2

		case c == '"':
			i++
			closed := false
			for i < len(line) {
				c := line[i]
				if c == '"' {
					closed = true
					i++
					break
				}
				if c == '\\' && i+1 < len(line) && strings.IndexByte("\"\\$`", line[i+1]) >= 0 {
					cur.WriteByte(line[i+1])
					i += 2
					continue
				}
				cur.WriteByte(c)
				i++
			}
			if !closed {
				return nil, ErrUnterminatedQuote
			}
			inWord = true

		default:
			cur.WriteByte(c)
			inWord = true
			i++
		}
	}

	if inWord {
		words = append(words, cur.String())
	}
	return words, nil
}

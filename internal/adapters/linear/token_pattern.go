package linear

import (
	"fmt"
	"strings"
)

// Word characters as Unicode classes, matching what \w means on str patterns
const (
	wordClassBody  = `\p{L}\p{N}_`
	spaceClassBody = `\s\p{Z}`
	digitClassBody = `\p{Nd}`
)

// Boundary-delimited word runs that reduce to a plain character run
// because matches are taken leftmost and greedy
var boundaryRunPatterns = map[string]string{
	`\b\w\w+\b`: defaultTokenPattern,
	`\b\w+\b`:   `[` + wordClassBody + `]+`,
}

// translateTokenPattern rewrites an exported token_pattern into Go RE2 syntax.
// The (?u) flag is dropped and the \w \s \d escapes are given their Unicode
// meaning. Word boundaries are rejected since RE2 only knows ASCII ones.
func translateTokenPattern(pattern string) (string, error) {
	pattern = strings.TrimPrefix(pattern, "(?u)")
	if pattern == "" {
		return defaultTokenPattern, nil
	}
	if run, ok := boundaryRunPatterns[pattern]; ok {
		return run, nil
	}

	var b strings.Builder
	inClass := false
	src := []rune(pattern)

	for i := 0; i < len(src); i++ {
		r := src[i]
		switch {
		case r == '\\' && i+1 < len(src):
			i++
			esc := src[i]
			switch esc {
			case 'w', 's', 'd':
				body := map[rune]string{'w': wordClassBody, 's': spaceClassBody, 'd': digitClassBody}[esc]
				if inClass {
					b.WriteString(body)
				} else {
					b.WriteString("[" + body + "]")
				}
			case 'W', 'S', 'D':
				if inClass {
					return "", fmt.Errorf(`\%c inside a character class is not supported`, esc)
				}
				body := map[rune]string{'W': wordClassBody, 'S': spaceClassBody, 'D': digitClassBody}[esc]
				b.WriteString("[^" + body + "]")
			case 'b', 'B':
				return "", fmt.Errorf(`word boundary \%c is not supported, use an explicit character class`, esc)
			default:
				b.WriteRune('\\')
				b.WriteRune(esc)
			}
		case r == '[' && !inClass:
			inClass = true
			b.WriteRune(r)
			if i+1 < len(src) && src[i+1] == '^' {
				i++
				b.WriteRune('^')
			}
			// A leading ] is a literal
			if i+1 < len(src) && src[i+1] == ']' {
				i++
				b.WriteString(`\]`)
			}
		case r == ']' && inClass:
			inClass = false
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}

	return b.String(), nil
}

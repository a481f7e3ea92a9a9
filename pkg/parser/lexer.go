package parser

// token is one whitespace-delimited word of the command text, with its
// 0-based position inside the parsed text (offsets are applied later)
type token struct {
	text    string // raw text, quotes included
	line    int
	col     int
	endLine int
	endCol  int // exclusive
}

// lex splits command text into position-annotated tokens. A token starting
// with a single or double quote runs to the matching close quote and may
// contain whitespace.
func lex(text string) []token {
	var tokens []token

	line, col := 0, 0
	i := 0
	for i < len(text) {
		switch text[i] {
		case '\n':
			line++
			col = 0
			i++
			continue
		case ' ', '\t', '\r':
			col++
			i++
			continue
		}

		start := i
		startLine, startCol := line, col

		if q := text[i]; q == '"' || q == '\'' {
			i++
			col++
			for i < len(text) && text[i] != q {
				if text[i] == '\n' {
					line++
					col = 0
				} else {
					col++
				}
				i++
			}
			if i < len(text) {
				i++ // closing quote
				col++
			}
		} else {
			for i < len(text) {
				c := text[i]
				if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
					break
				}
				i++
				col++
			}
		}

		tokens = append(tokens, token{
			text:    text[start:i],
			line:    startLine,
			col:     startCol,
			endLine: line,
			endCol:  col,
		})
	}

	return tokens
}

// unquote strips a single matching pair of enclosing quotes
func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

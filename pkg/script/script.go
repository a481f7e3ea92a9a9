// Package script splits shell-style documents into individual FFmpeg
// commands while preserving each command's position in the document, so
// diagnostics reported against an extracted command land on the right
// document coordinates.
package script

import "strings"

// Command is one command extracted from a document. Line and Column are the
// 0-based document position of the command's first character; feeding them
// to the analyzer as offsets maps every diagnostic span back into the
// document.
type Command struct {
	Text   string
	Line   int
	Column int
}

// Split extracts commands from a document. Blank lines and comment lines
// (first non-blank character '#') are skipped. A line ending in a backslash
// continues on the next line; the backslash is dropped and the line break
// kept, so spans on continuation lines stay aligned with the document.
func Split(doc string) []Command {
	lines := strings.Split(doc, "\n")
	var commands []Command

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		col := len(line) - len(trimmed)
		startLine := i

		text := line[col:]
		for hasContinuation(text) && i+1 < len(lines) {
			text = stripContinuation(text) + "\n" + lines[i+1]
			i++
		}
		// A trailing backslash on the last line has nothing to join
		if hasContinuation(text) {
			text = stripContinuation(text)
		}

		commands = append(commands, Command{
			Text:   text,
			Line:   startLine,
			Column: col,
		})
	}

	return commands
}

func hasContinuation(text string) bool {
	return strings.HasSuffix(strings.TrimRight(text, " \t"), "\\")
}

// stripContinuation removes the trailing backslash but keeps everything
// before it untouched, so columns of earlier tokens stay valid
func stripContinuation(text string) string {
	trimmed := strings.TrimRight(text, " \t")
	return trimmed[:len(trimmed)-1]
}

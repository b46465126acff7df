// Package licensefile parses the FlexNet text configuration format:
// the license-file text returned by a manager's REQ, and the embedded
// license text inside a vendor's STUB2 catalog records.
package licensefile

import (
	"regexp"
	"strings"
)

// extraWordChars extends the usual alnum+underscore set the way the
// original lexer does, so dates, versions and paths stay single
// tokens instead of shattering on punctuation.
const extraWordChars = ".,-/:;+^"

var whitespaceRun = regexp.MustCompile(`\s+`)

func isWordChar(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		return true
	}
	return strings.ContainsRune(extraWordChars, r)
}

func isQuote(r rune) bool {
	return r == '"' || r == '\''
}

// lexLines normalizes line endings, joins backslash-newline
// continuations, collapses internal whitespace runs to a single
// space, and tokenizes each resulting line. Empty lines are dropped.
func lexLines(text string) [][]string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\\\n", "")

	var lines [][]string
	for _, raw := range strings.Split(text, "\n") {
		line := whitespaceRun.ReplaceAllString(raw, " ")
		tokens := lexLine(line)
		if len(tokens) > 0 {
			lines = append(lines, tokens)
		}
	}
	return lines
}

// lexLine tokenizes one logical line: word-char runs form a token;
// whitespace separates tokens; a quote character starts a
// quote-delimited token that includes its surrounding quotes (the
// caller strips them, mirroring the non-POSIX shlex behavior the
// original relies on); any other character is its own one-rune token.
func lexLine(line string) []string {
	var tokens []string
	var buf strings.Builder

	flush := func() {
		if buf.Len() > 0 {
			tokens = append(tokens, buf.String())
			buf.Reset()
		}
	}

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == ' ' || r == '\t':
			flush()
		case isWordChar(r):
			buf.WriteRune(r)
		case isQuote(r):
			flush()
			quote := r
			var q strings.Builder
			q.WriteRune(quote)
			i++
			for i < len(runes) && runes[i] != quote {
				q.WriteRune(runes[i])
				i++
			}
			if i < len(runes) {
				q.WriteRune(runes[i]) // closing quote
			}
			tokens = append(tokens, q.String())
		default:
			flush()
			tokens = append(tokens, string(r))
		}
	}
	flush()
	return tokens
}

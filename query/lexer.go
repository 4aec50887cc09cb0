package query

import "strings"

// operatorToken pairs an operator with its spelling in upper-cased text
type operatorToken struct {
	text string
	op   Operator
}

// scanOrder is the fixed order in which operators are tried by the default
// scanner. Because "=" is tried first, "a != 1", "a >= 1" and "a <= 1" all
// match "=" at the position of their '=' character.
var scanOrder = []operatorToken{
	{"=", OpEqual},
	{"!=", OpNotEqual},
	{">", OpGreater},
	{"<", OpLess},
	{">=", OpGreaterEqual},
	{"<=", OpLessEqual},
	{"LIKE", OpLike},
}

// operatorMatch is the location of an operator within a condition
type operatorMatch struct {
	op  Operator
	pos int
	len int
}

// scanOperatorOrdered returns the first operator in scanOrder whose text
// occurs anywhere in cond.
func scanOperatorOrdered(cond string) (operatorMatch, bool) {
	for _, tok := range scanOrder {
		if pos := strings.Index(cond, tok.text); pos >= 0 {
			return operatorMatch{op: tok.op, pos: pos, len: len(tok.text)}, true
		}
	}
	return operatorMatch{}, false
}

// scanOperatorLongest returns the leftmost operator in cond. Two-character
// operators win over their one-character prefixes, and LIKE must stand as a
// separate word.
func scanOperatorLongest(cond string) (operatorMatch, bool) {
	for i := 0; i < len(cond); i++ {
		switch cond[i] {
		case '!':
			if i+1 < len(cond) && cond[i+1] == '=' {
				return operatorMatch{op: OpNotEqual, pos: i, len: 2}, true
			}
		case '>':
			if i+1 < len(cond) && cond[i+1] == '=' {
				return operatorMatch{op: OpGreaterEqual, pos: i, len: 2}, true
			}
			return operatorMatch{op: OpGreater, pos: i, len: 1}, true
		case '<':
			if i+1 < len(cond) && cond[i+1] == '=' {
				return operatorMatch{op: OpLessEqual, pos: i, len: 2}, true
			}
			return operatorMatch{op: OpLess, pos: i, len: 1}, true
		case '=':
			return operatorMatch{op: OpEqual, pos: i, len: 1}, true
		case 'L':
			if strings.HasPrefix(cond[i:], "LIKE") && isWordBoundary(cond, i-1) && isWordBoundary(cond, i+4) {
				return operatorMatch{op: OpLike, pos: i, len: 4}, true
			}
		}
	}
	return operatorMatch{}, false
}

// isWordBoundary reports whether position i is outside s or holds a
// character that cannot be part of an identifier.
func isWordBoundary(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return true
	}
	c := s[i]
	return !(c == '_' || c >= '0' && c <= '9' || c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z')
}

// upperASCII upper-cases ASCII letters only, so byte offsets in the result
// are valid offsets into s.
func upperASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}

// indexUnquoted returns the index of the first occurrence of marker in s that
// lies outside a quoted value, or -1. A quote only opens a value at the start
// of a token, so the apostrophe in O'Brien is literal.
func indexUnquoted(s, marker string) int {
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case (c == '\'' || c == '"') && opensValue(s, i):
			quote = c
		case strings.HasPrefix(s[i:], marker):
			return i
		}
	}
	return -1
}

// opensValue reports whether a quote at position i starts a new token
func opensValue(s string, i int) bool {
	if i == 0 {
		return true
	}
	switch s[i-1] {
	case ' ', '\t', '\n', '\r', '=', '<', '>', '!', '(', ',':
		return true
	}
	return false
}

// trimQuotes strips one layer of surrounding single or double quotes
func trimQuotes(s string) string {
	if len(s) > 0 && (s[0] == '\'' || s[0] == '"') {
		s = s[1:]
	}
	if len(s) > 0 && (s[len(s)-1] == '\'' || s[len(s)-1] == '"') {
		s = s[:len(s)-1]
	}
	return s
}

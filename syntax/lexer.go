package syntax

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"tisp/report"
)

// Lexer is responsible for tokenizing a source file.
type Lexer struct {
	file    *bufio.Reader
	tokBuff *strings.Builder

	line, col           int
	startLine, startCol int
}

// NewLexer creates a new lexer for the given source reader.
func NewLexer(file *bufio.Reader) *Lexer {
	return &Lexer{
		file:    file,
		tokBuff: &strings.Builder{},
	}
}

// NextToken retrieves the next token from the input.  If the input has ended,
// this will be an EOF token.
func (l *Lexer) NextToken() (*Token, error) {
	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		} else if c == -1 {
			break
		}

		switch c {
		case '\n', '\t', ' ', '\r', '\v', '\f':
			l.skip()
		case ';':
			// Line comments run through the end of the line.
			for c != '\n' && c != -1 {
				c, err = l.skip()
				if err != nil {
					return nil, err
				}
			}
		default:
			if kind, ok := delimPatterns[c]; ok {
				l.mark()
				l.eat()
				return l.makeToken(kind), nil
			} else if c == '+' || c == '-' {
				return l.lexSignOrNumber()
			} else if _, ok := operPatterns[c]; ok {
				l.mark()
				l.eat()
				return l.makeToken(TOK_OPER), nil
			} else if isDecimalDigit(c) || c == '.' {
				l.mark()
				return l.lexNumericLit()
			} else if isFirstIdentChar(c) {
				return l.lexIdentOrKeyword()
			} else {
				l.mark()
				return nil, report.Raise(l.getSpan(), "unexpected token")
			}
		}
	}

	return &Token{Kind: TOK_EOF, Span: l.getSpan()}, nil
}

// -----------------------------------------------------------------------------

// delimPatterns maps delimiter runes to their token kind.
var delimPatterns = map[rune]int{
	'(': TOK_LPAREN,
	')': TOK_RPAREN,
	'[': TOK_LBRACKET,
	']': TOK_RBRACKET,
}

// operPatterns is the set of operator runes.  The minus and plus signs are
// also operators: they lex as operators unless immediately followed by a digit
// or a decimal point, in which case they begin a numeric literal.
var operPatterns = map[rune]struct{}{
	'+': {},
	'-': {},
	'*': {},
	'/': {},
	'<': {},
	'>': {},
	'=': {},
}

// keywordPatterns maps keyword strings (patterns) to their keyword token kind.
var keywordPatterns = map[string]int{
	"define": TOK_DEFINE,
	"loop":   TOK_LOOP,
	"if":     TOK_IF,
	"cond":   TOK_COND,
}

// -----------------------------------------------------------------------------

// lexSignOrNumber lexes a leading `+` or `-`: a signed numeric literal if the
// sign is immediately followed by a digit or a decimal point, and an operator
// token otherwise.
func (l *Lexer) lexSignOrNumber() (*Token, error) {
	l.mark()
	l.eat()

	c, err := l.peek()
	if err != nil {
		return nil, err
	}

	if isDecimalDigit(c) || c == '.' {
		return l.lexNumericLit()
	}

	return l.makeToken(TOK_OPER), nil
}

// lexNumericLit lexes a numeric literal: a run of digits containing at most
// one decimal point.  The presence of a decimal point selects the float kind.
// Any sign has already been consumed by the caller, which has also already
// marked the token start.
func (l *Lexer) lexNumericLit() (*Token, error) {
	hasDot := false

	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		}

		if c == '.' {
			if hasDot {
				break
			}

			hasDot = true
			l.eat()
		} else if isDecimalDigit(c) {
			l.eat()
		} else {
			break
		}
	}

	if hasDot {
		return l.makeToken(TOK_FLOATLIT), nil
	}

	return l.makeToken(TOK_INTLIT), nil
}

// lexIdentOrKeyword lexes an identifier or a keyword.
func (l *Lexer) lexIdentOrKeyword() (*Token, error) {
	l.mark()
	l.eat()

	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		} else if !isFirstIdentChar(c) && !isDecimalDigit(c) {
			break
		}

		l.eat()
	}

	if kind, ok := keywordPatterns[l.tokBuff.String()]; ok {
		return l.makeToken(kind), nil
	}

	return l.makeToken(TOK_IDENT), nil
}

// -----------------------------------------------------------------------------

// mark sets the lexer's stored start line and column to its current position.
func (l *Lexer) mark() {
	l.startLine = l.line
	l.startCol = l.col
}

// makeToken produces a new token of the given kind from the lexer's state and
// resets the lexer to begin building the next token.
func (l *Lexer) makeToken(kind int) *Token {
	value := l.tokBuff.String()
	l.tokBuff.Reset()

	return &Token{
		Kind:  kind,
		Value: value,
		Span:  l.getSpan(),
	}
}

// getSpan calculates a text span based on the lexer's current state.
func (l *Lexer) getSpan() *report.TextSpan {
	return &report.TextSpan{
		StartLine: l.startLine,
		StartCol:  l.startCol,
		EndLine:   l.line,
		EndCol:    l.col,
	}
}

// -----------------------------------------------------------------------------

// eat moves the lexer forward one rune and writes the rune to the token
// buffer.  If the lexer encounters an EOF, -1 is returned as the rune value.
func (l *Lexer) eat() (rune, error) {
	c, _, err := l.file.ReadRune()
	if err != nil {
		if err == io.EOF {
			return -1, nil
		}

		return 0, err
	}

	l.updatePos(c)
	l.tokBuff.WriteRune(c)

	return c, nil
}

// skip moves the lexer forward one rune but does not write the rune to the
// token buffer.  If the lexer encounters an EOF, -1 is returned as the rune
// value.
func (l *Lexer) skip() (rune, error) {
	c, _, err := l.file.ReadRune()
	if err != nil {
		if err == io.EOF {
			return -1, nil
		}

		return 0, err
	}

	l.updatePos(c)

	return c, nil
}

// peek returns the next rune in the input without moving the lexer forward or
// writing the rune to the token buffer.  If the lexer encounters an EOF, -1 is
// returned as the rune value.
func (l *Lexer) peek() (rune, error) {
	c, _, err := l.file.ReadRune()
	if err != nil {
		if err == io.EOF {
			return -1, nil
		}

		return 0, err
	}

	if err = l.file.UnreadRune(); err != nil {
		return 0, err
	}

	return c, nil
}

// updatePos updates the lexer's position based on the input character.
func (l *Lexer) updatePos(c rune) {
	switch c {
	case '\n':
		l.line++
		l.col = 0
	case '\t':
		l.col += 4
	default:
		l.col++
	}
}

// -----------------------------------------------------------------------------

// isDecimalDigit returns whether c is a decimal digit.
func isDecimalDigit(c rune) bool {
	return '0' <= c && c <= '9'
}

// isFirstIdentChar returns whether c could be the first rune of an identifier.
func isFirstIdentChar(c rune) bool {
	return unicode.IsLetter(c) || c == '_'
}

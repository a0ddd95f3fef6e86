// lexer.go — single-pass lexer turning Source into a flat token stream.
//
// The lexer walks the source left to right exactly once. Whitespace and `//`
// comments are consumed and dropped; everything else becomes a Token with a
// TextSpan back into the source. Dispatch order on the current character:
// whitespace, string start, digit, char literal start, identifier start,
// then fixed punctuation/operators. An unrecognized character is a lex error
// carrying its own one-character span.
package quill

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer scans one Source into tokens.
type Lexer struct {
	source *Source
	pos    Position
	tokens []Token
}

func NewLexer(source *Source) *Lexer {
	return &Lexer{source: source, pos: NewPosition()}
}

// Lex scans the whole source. On success the returned slice always ends with
// an EOF token.
func (l *Lexer) Lex() ([]Token, error) {
	for !l.isAtEnd() {
		c := l.peek()
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			l.advance()
		case c == '/' && l.peekNext() == '/':
			for !l.isAtEnd() && l.peek() != '\n' {
				l.advance()
			}
		case c == '"':
			if err := l.lexString(); err != nil {
				return nil, err
			}
		case isDigit(c):
			if err := l.lexNumber(); err != nil {
				return nil, err
			}
		case c == '\'':
			if err := l.lexChar(); err != nil {
				return nil, err
			}
		case isIdentStart(c):
			l.lexIdentifier()
		default:
			if err := l.lexPunctuation(); err != nil {
				return nil, err
			}
		}
	}
	l.tokens = append(l.tokens, NewToken(EOF, NewTextSpan(l.pos, l.pos, "")))
	return l.tokens, nil
}

////////////////////////////////////////////////////////////////////////////////
//                                  SCANNERS
////////////////////////////////////////////////////////////////////////////////

func (l *Lexer) lexString() error {
	start := l.pos
	l.advance() // opening quote
	var b strings.Builder
	for !l.isAtEnd() && l.peek() != '"' {
		c := l.peek()
		if c == '\\' {
			escStart := l.pos
			l.advance()
			if l.isAtEnd() {
				break
			}
			switch l.peek() {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case '\\':
				b.WriteByte('\\')
			case '"':
				b.WriteByte('"')
			default:
				bad := l.peek()
				l.advance()
				span := NewTextSpan(escStart, l.pos, l.literalFrom(escStart))
				return &LexError{
					Kind: InvalidEscapeSequence,
					Msg:  fmt.Sprintf("invalid escape sequence '\\%c'", bad),
					Span: span,
				}
			}
			l.advance()
			continue
		}
		b.WriteByte(c)
		l.advance()
	}
	if l.isAtEnd() {
		return &LexError{
			Kind: UnterminatedString,
			Msg:  "unterminated string literal",
			Span: NewTextSpan(start, l.pos, l.literalFrom(start)),
		}
	}
	l.advance() // closing quote
	l.add(STRING, start, b.String())
	return nil
}

func (l *Lexer) lexNumber() error {
	start := l.pos

	if l.peek() == '0' {
		switch l.peekNext() {
		case 'x', 'X':
			return l.lexRadix(start, 16, isHexDigit)
		case 'o', 'O':
			return l.lexRadix(start, 8, isOctalDigit)
		case 'b', 'B':
			return l.lexRadix(start, 2, isBinaryDigit)
		}
	}

	isFloat := false
	for !l.isAtEnd() {
		c := l.peek()
		if isDigit(c) {
			l.advance()
			continue
		}
		if c == '.' && !isFloat && l.peekNext() != '.' {
			// A trailing dot is legal: "123." lexes as the float 123.0.
			// ".." is left alone so range-like operators still lex.
			isFloat = true
			l.advance()
			continue
		}
		break
	}

	lit := l.literalFrom(start)
	if isFloat {
		f, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			// "123." — ParseFloat accepts it, so this is unreachable for
			// anything this scanner produces.
			return l.err(InvalidToken, fmt.Sprintf("invalid float literal %q", lit), start)
		}
		l.add(FLOAT, start, f)
		return nil
	}
	n, err := strconv.ParseInt(lit, 10, 64)
	if err != nil {
		return l.err(InvalidToken, fmt.Sprintf("invalid integer literal %q", lit), start)
	}
	l.add(INT, start, n)
	return nil
}

func (l *Lexer) lexRadix(start Position, base int, valid func(byte) bool) error {
	l.advance() // 0
	l.advance() // x / o / b
	digitStart := l.pos
	for !l.isAtEnd() && valid(l.peek()) {
		l.advance()
	}
	digits := l.source.Slice(digitStart.Index, l.pos.Index)
	if digits == "" {
		return l.err(InvalidToken, fmt.Sprintf("missing digits in %q", l.literalFrom(start)), start)
	}
	n, err := strconv.ParseInt(digits, base, 64)
	if err != nil {
		return l.err(InvalidToken, fmt.Sprintf("invalid base-%d literal %q", base, l.literalFrom(start)), start)
	}
	l.add(INT, start, n)
	return nil
}

func (l *Lexer) lexChar() error {
	start := l.pos
	l.advance() // opening quote
	if l.isAtEnd() {
		return l.err(UnterminatedChar, "unterminated char literal", start)
	}
	var c rune
	if l.peek() == '\\' {
		l.advance()
		if l.isAtEnd() {
			return l.err(UnterminatedChar, "unterminated char literal", start)
		}
		switch l.peek() {
		case 'n':
			c = '\n'
		case 'r':
			c = '\r'
		case 't':
			c = '\t'
		case '\\':
			c = '\\'
		case '\'':
			c = '\''
		default:
			return l.err(InvalidEscapeSequence,
				fmt.Sprintf("invalid escape sequence '\\%c'", l.peek()), start)
		}
		l.advance()
	} else {
		r, size := utf8.DecodeRuneInString(l.source.Content()[l.pos.Index:])
		c = r
		for i := 0; i < size; i++ {
			l.advance()
		}
	}
	if l.isAtEnd() || l.peek() != '\'' {
		return l.err(UnterminatedChar, "unterminated char literal", start)
	}
	l.advance() // closing quote
	l.add(CHAR, start, c)
	return nil
}

func (l *Lexer) lexIdentifier() {
	start := l.pos
	for !l.isAtEnd() && isIdentPart(l.peek()) {
		if l.peek() >= utf8.RuneSelf {
			_, size := utf8.DecodeRuneInString(l.source.Content()[l.pos.Index:])
			for i := 0; i < size; i++ {
				l.advance()
			}
			continue
		}
		l.advance()
	}
	lit := l.literalFrom(start)
	if kw, ok := keywords[lit]; ok {
		l.add(kw, start, nil)
		return
	}
	l.add(IDENT, start, nil)
}

func (l *Lexer) lexPunctuation() error {
	start := l.pos
	c := l.peek()
	l.advance()
	switch c {
	case '(':
		l.add(LPAREN, start, nil)
	case ')':
		l.add(RPAREN, start, nil)
	case '{':
		l.add(LBRACE, start, nil)
	case '}':
		l.add(RBRACE, start, nil)
	case '[':
		l.add(LBRACKET, start, nil)
	case ']':
		l.add(RBRACKET, start, nil)
	case ',':
		l.add(COMMA, start, nil)
	case ';':
		l.add(SEMICOLON, start, nil)
	case '%':
		l.add(PERCENT, start, nil)
	case '~':
		l.add(TILDE, start, nil)
	case '^':
		l.add(CARET, start, nil)
	case '?':
		l.add(QUESTION, start, nil)
	case '.':
		l.potentialTriple(start, '.', DOTDOT, '.', ELLIPSIS, DOT)
	case ':':
		l.potentialDouble(start, ':', DOUBLECOLON, COLON)
	case '=':
		l.potentialDouble(start, '=', EQ, ASSIGN)
	case '!':
		l.potentialDouble(start, '=', NEQ, BANG)
	case '<':
		l.potentialDoubles(start, LT, '=', LTE, '<', SHL)
	case '>':
		l.potentialDoubles(start, GT, '=', GTE, '>', SHR)
	case '&':
		l.potentialDouble(start, '&', AND, AMP)
	case '|':
		l.potentialDouble(start, '|', OR, PIPE)
	case '+':
		l.potentialDoubles(start, PLUS, '+', INCREMENT, '=', PLUSEQ)
	case '-':
		l.potentialTriples(start, MINUS, '-', DECREMENT, '=', MINUSEQ, '>', ARROW)
	case '*':
		l.potentialDoubles(start, STAR, '*', POWER, '=', STAREQ)
	case '/':
		l.potentialDouble(start, '=', SLASHEQ, SLASH)
	default:
		span := NewTextSpan(start, l.pos, l.literalFrom(start))
		return &LexError{
			Kind: InvalidToken,
			Msg:  fmt.Sprintf("unexpected character %q", string(c)),
			Span: span,
		}
	}
	return nil
}

////////////////////////////////////////////////////////////////////////////////
//                                   HELPERS
////////////////////////////////////////////////////////////////////////////////

// potentialDouble: the first char is already consumed; if the next char is
// `next`, consume it and emit `double`, else emit `single`.
func (l *Lexer) potentialDouble(start Position, next byte, double, single TokenType) {
	if !l.isAtEnd() && l.peek() == next {
		l.advance()
		l.add(double, start, nil)
		return
	}
	l.add(single, start, nil)
}

// potentialDoubles handles operators with two distinct two-char extensions,
// e.g. '<' extending to "<=" or "<<".
func (l *Lexer) potentialDoubles(start Position, single TokenType, a byte, ta TokenType, b byte, tb TokenType) {
	if !l.isAtEnd() {
		switch l.peek() {
		case a:
			l.advance()
			l.add(ta, start, nil)
			return
		case b:
			l.advance()
			l.add(tb, start, nil)
			return
		}
	}
	l.add(single, start, nil)
}

// potentialTriple: '.' may extend to ".." and then to "...".
func (l *Lexer) potentialTriple(start Position, second byte, double TokenType, third byte, triple, single TokenType) {
	if !l.isAtEnd() && l.peek() == second {
		l.advance()
		if !l.isAtEnd() && l.peek() == third {
			l.advance()
			l.add(triple, start, nil)
			return
		}
		l.add(double, start, nil)
		return
	}
	l.add(single, start, nil)
}

// potentialTriples handles '-' extending to "--", "-=", or "->".
func (l *Lexer) potentialTriples(start Position, single TokenType, a byte, ta TokenType, b byte, tb TokenType, c byte, tc TokenType) {
	if !l.isAtEnd() {
		switch l.peek() {
		case a:
			l.advance()
			l.add(ta, start, nil)
			return
		case b:
			l.advance()
			l.add(tb, start, nil)
			return
		case c:
			l.advance()
			l.add(tc, start, nil)
			return
		}
	}
	l.add(single, start, nil)
}

func (l *Lexer) isAtEnd() bool { return l.pos.Index >= l.source.Len() }

func (l *Lexer) peek() byte { return l.source.At(l.pos.Index) }

func (l *Lexer) peekNext() byte {
	if l.pos.Index+1 >= l.source.Len() {
		return 0
	}
	return l.source.At(l.pos.Index + 1)
}

// advance consumes one byte, keeping line/column bookkeeping in sync.
func (l *Lexer) advance() {
	if l.peek() == '\n' {
		l.pos.advanceLine()
		return
	}
	l.pos.advanceColumn()
}

func (l *Lexer) literalFrom(start Position) string {
	return l.source.Slice(start.Index, l.pos.Index)
}

func (l *Lexer) add(t TokenType, start Position, value any) {
	span := NewTextSpan(start, l.pos, l.literalFrom(start))
	l.tokens = append(l.tokens, Token{Type: t, Span: span, Value: value})
}

func (l *Lexer) err(kind LexErrorKind, msg string, start Position) error {
	return &LexError{
		Kind: kind,
		Msg:  msg,
		Span: NewTextSpan(start, l.pos, l.literalFrom(start)),
	}
}

func isDigit(c byte) bool       { return c >= '0' && c <= '9' }
func isHexDigit(c byte) bool    { return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') }
func isOctalDigit(c byte) bool  { return c >= '0' && c <= '7' }
func isBinaryDigit(c byte) bool { return c == '0' || c == '1' }

func isIdentStart(c byte) bool {
	if c == '_' || c == '$' {
		return true
	}
	if c >= utf8.RuneSelf {
		return true // non-ASCII: treated as a letter, validated by rune decode
	}
	return unicode.IsLetter(rune(c))
}

func isIdentPart(c byte) bool {
	if c == '_' {
		return true
	}
	if c >= utf8.RuneSelf {
		return true
	}
	return unicode.IsLetter(rune(c)) || unicode.IsDigit(rune(c))
}

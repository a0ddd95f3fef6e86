// token.go — token kinds and the Token type produced by the lexer.
package quill

// TokenType identifies a lexical class.
type TokenType int

const (
	// Separators
	LPAREN TokenType = iota
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	COMMA
	DOT
	COLON
	SEMICOLON
	ARROW
	DOTDOT
	ELLIPSIS
	DOUBLECOLON

	// Literals
	IDENT
	STRING
	FLOAT
	INT
	CHAR

	// Keywords
	FN
	LET
	IF
	ELSE
	WHILE
	FOR
	IN
	RETURN
	BREAK
	CONTINUE
	USE
	PUB
	FROM
	THROW
	TRY
	CATCH
	LOOP
	TRUE
	FALSE
	NULL
	IMPL
	STRUCT
	TRAIT
	THEN
	CONST

	// Operators
	PLUS
	MINUS
	STAR
	SLASH
	ASSIGN
	AMP
	PIPE
	CARET
	POWER
	PERCENT
	TILDE
	GT
	LT
	GTE
	LTE
	EQ
	NEQ
	BANG
	AND
	OR
	INCREMENT
	DECREMENT
	MINUSEQ
	PLUSEQ
	STAREQ
	SLASHEQ
	SHL
	SHR
	QUESTION

	// Others
	EOF
)

var keywords = map[string]TokenType{
	"fn":       FN,
	"let":      LET,
	"if":       IF,
	"else":     ELSE,
	"while":    WHILE,
	"for":      FOR,
	"in":       IN,
	"return":   RETURN,
	"break":    BREAK,
	"continue": CONTINUE,
	"use":      USE,
	"pub":      PUB,
	"from":     FROM,
	"throw":    THROW,
	"try":      TRY,
	"catch":    CATCH,
	"loop":     LOOP,
	"true":     TRUE,
	"false":    FALSE,
	"null":     NULL,
	"impl":     IMPL,
	"struct":   STRUCT,
	"trait":    TRAIT,
	"then":     THEN,
	"const":    CONST,
}

var tokenNames = map[TokenType]string{
	LPAREN: "(", RPAREN: ")", LBRACE: "{", RBRACE: "}",
	LBRACKET: "[", RBRACKET: "]", COMMA: ",", DOT: ".",
	COLON: ":", SEMICOLON: ";", ARROW: "->", DOTDOT: "..",
	ELLIPSIS: "...", DOUBLECOLON: "::",

	IDENT: "identifier", STRING: "string", FLOAT: "float",
	INT: "int", CHAR: "char",

	FN: "fn", LET: "let", IF: "if", ELSE: "else", WHILE: "while",
	FOR: "for", IN: "in", RETURN: "return", BREAK: "break",
	CONTINUE: "continue", USE: "use", PUB: "pub", FROM: "from",
	THROW: "throw", TRY: "try", CATCH: "catch", LOOP: "loop",
	TRUE: "true", FALSE: "false", NULL: "null", IMPL: "impl",
	STRUCT: "struct", TRAIT: "trait", THEN: "then", CONST: "const",

	PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", ASSIGN: "=",
	AMP: "&", PIPE: "|", CARET: "^", POWER: "**", PERCENT: "%",
	TILDE: "~", GT: ">", LT: "<", GTE: ">=", LTE: "<=",
	EQ: "==", NEQ: "!=", BANG: "!", AND: "&&", OR: "||",
	INCREMENT: "++", DECREMENT: "--", MINUSEQ: "-=", PLUSEQ: "+=",
	STAREQ: "*=", SLASHEQ: "/=", SHL: "<<", SHR: ">>",
	QUESTION: "?",

	EOF: "EOF",
}

func (t TokenType) String() string {
	if s, ok := tokenNames[t]; ok {
		return s
	}
	return "unknown"
}

// Token is one lexeme. Span.Literal holds the raw source text; Value holds
// the decoded payload for literal tokens (int64, float64, string, rune) and
// is nil for everything else.
type Token struct {
	Type  TokenType
	Span  TextSpan
	Value any
}

func NewToken(t TokenType, span TextSpan) Token {
	return Token{Type: t, Span: span}
}

// Literal returns the raw source text of the token.
func (t Token) Literal() string { return t.Span.Literal }

// AsInt returns the decoded integer payload of an INT token.
func (t Token) AsInt() int64 { return t.Value.(int64) }

// AsFloat returns the decoded float payload of a FLOAT token.
func (t Token) AsFloat() float64 { return t.Value.(float64) }

// AsString returns the decoded (unescaped) payload of a STRING token.
func (t Token) AsString() string { return t.Value.(string) }

// AsChar returns the decoded rune payload of a CHAR token.
func (t Token) AsChar() rune { return t.Value.(rune) }

// IsKeyword reports whether the token is a reserved word.
func (t Token) IsKeyword() bool {
	_, ok := keywords[t.Span.Literal]
	return ok && t.Type != IDENT
}

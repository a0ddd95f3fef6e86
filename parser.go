// parser.go — recursive-descent parser with precedence climbing.
//
// The parser consumes the token stream until EOF. Statement dispatch is a
// direct switch on the next token's kind; bare semicolons produce no
// statement. Expression parsing is classic precedence climbing seeded by one
// unary parse: parseBinaryRecurse folds operators whose precedence is at or
// above the threshold and recurses into the right-hand side when the next
// operator binds tighter, or equally tight and right-associative (which is
// how `**` groups to the right while everything else groups left).
//
// A small context stack disambiguates `if x { ... }` from a struct
// constructor `x { ... }`: constructor syntax is only recognized in normal
// expression context, not inside if/while condition position.
package quill

import (
	"fmt"
	"strings"
)

type parseContext int

const (
	ctxNormal parseContext = iota
	ctxIfCondition
	ctxWhileCondition
)

// Parser turns a token stream into an Ast.
type Parser struct {
	tokens  []Token
	current int
	ctx     []parseContext
}

func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens, ctx: []parseContext{ctxNormal}}
}

// Parse consumes tokens until EOF and returns the program.
func (p *Parser) Parse() (*Ast, error) {
	ast := &Ast{}
	for !p.isEOF() {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			ast.Stmts = append(ast.Stmts, stmt)
		}
	}
	return ast, nil
}

////////////////////////////////////////////////////////////////////////////////
//                                 STATEMENTS
////////////////////////////////////////////////////////////////////////////////

func (p *Parser) parseStmt() (Stmt, error) {
	token := p.peek()

	switch token.Type {
	case PUB:
		switch p.peekNext().Type {
		case FN:
			return p.parseFn()
		case STRUCT:
			return p.parseStruct()
		case TRAIT:
			return p.parseTrait()
		case CONST:
			return p.parseConst()
		default:
			return nil, &ParseError{
				Kind: UnexpectedToken,
				Msg:  "pub must be followed by fn, struct, trait or const",
				Span: token.Span,
			}
		}
	case FN:
		return p.parseFn()
	case STRUCT:
		return p.parseStruct()
	case TRAIT:
		return p.parseTrait()
	case CONST:
		return p.parseConst()
	case IMPL:
		return p.parseImplBlock()
	case USE:
		return p.parseUse()
	case IF:
		return p.parseIf()
	case LET:
		return p.parseLet()
	case THROW:
		return p.parseThrow()
	case TRY:
		return p.parseTry()
	case BREAK:
		p.consume()
		p.possibleCheck(SEMICOLON)
		return &BreakStmt{Tok: token}, nil
	case CONTINUE:
		p.consume()
		p.possibleCheck(SEMICOLON)
		return &ContinueStmt{Tok: token}, nil
	case LOOP:
		p.consume()
		if _, err := p.expect(LBRACE); err != nil {
			return nil, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RBRACE); err != nil {
			return nil, err
		}
		return &LoopStmt{Tok: token, Body: body}, nil
	case WHILE:
		return p.parseWhile()
	case LBRACE:
		p.consume()
		block, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RBRACE); err != nil {
			return nil, err
		}
		return block, nil
	case RETURN:
		return p.parseReturn()
	case SEMICOLON:
		p.consume()
		return nil, nil
	default:
		return p.expressionStmt()
	}
}

func (p *Parser) parseImplBlock() (Stmt, error) {
	implTok := p.consume()
	ident, err := p.expect(IDENT)
	if err != nil {
		return nil, err
	}
	if p.peek().Type == FOR {
		p.consume()
		structName, err := p.expect(IDENT)
		if err != nil {
			return nil, err
		}
		methods, err := p.parseMethodBlock()
		if err != nil {
			return nil, err
		}
		return &TraitImplDecl{
			ImplTok:    implTok,
			TraitName:  ident,
			StructName: structName,
			Methods:    methods,
		}, nil
	}
	methods, err := p.parseMethodBlock()
	if err != nil {
		return nil, err
	}
	return &StructImplDecl{ImplTok: implTok, StructName: ident, Methods: methods}, nil
}

// parseMethodBlock parses `{ fn ... fn ... }`.
func (p *Parser) parseMethodBlock() ([]*FnDecl, error) {
	if _, err := p.expect(LBRACE); err != nil {
		return nil, err
	}
	var methods []*FnDecl
	for p.peek().Type != RBRACE && !p.isEOF() {
		fn, err := p.parseFn()
		if err != nil {
			return nil, err
		}
		methods = append(methods, fn.(*FnDecl))
	}
	if _, err := p.expect(RBRACE); err != nil {
		return nil, err
	}
	return methods, nil
}

func (p *Parser) parseTrait() (Stmt, error) {
	traitTok, public := p.parsePub()
	name, err := p.expect(IDENT)
	if err != nil {
		return nil, err
	}
	methods, err := p.parseMethodBlock()
	if err != nil {
		return nil, err
	}
	return &TraitDecl{TraitTok: traitTok, Name: name, Methods: methods, Public: public}, nil
}

func (p *Parser) parseConst() (Stmt, error) {
	constTok, public := p.parsePub()
	name, err := p.expect(IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(ASSIGN); err != nil {
		return nil, err
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.possibleCheck(SEMICOLON)
	return &ConstDecl{ConstTok: constTok, Ident: name, Expr: expr, Public: public}, nil
}

func (p *Parser) parseStruct() (Stmt, error) {
	structTok, public := p.parsePub()
	name, err := p.expect(IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(LBRACE); err != nil {
		return nil, err
	}
	var fields []StructField
	for p.peek().Type != RBRACE && !p.isEOF() {
		ident, err := p.expect(IDENT)
		if err != nil {
			return nil, err
		}
		ta, err := p.parseTypeAnnotation()
		if err != nil {
			return nil, err
		}
		fields = append(fields, StructField{Ident: ident, Type: ta})
		if p.peek().Type != RBRACE {
			if _, err := p.expect(COMMA); err != nil {
				return nil, err
			}
		}
	}
	if _, err := p.expect(RBRACE); err != nil {
		return nil, err
	}
	return &StructDecl{StructTok: structTok, Name: name, Fields: fields, Public: public}, nil
}

func (p *Parser) parseWhile() (Stmt, error) {
	whileTok := p.consume()

	p.pushContext(ctxWhileCondition)
	condition, err := p.parseExpr()
	p.popContext()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(LBRACE); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RBRACE); err != nil {
		return nil, err
	}
	return &WhileStmt{Tok: whileTok, Condition: condition, Body: body}, nil
}

func (p *Parser) parseThrow() (Stmt, error) {
	throwTok := p.consume()
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.possibleCheck(SEMICOLON)
	return &ThrowStmt{ThrowTok: throwTok, Value: value}, nil
}

func (p *Parser) parseTry() (Stmt, error) {
	tryTok := p.consume()

	if _, err := p.expect(LBRACE); err != nil {
		return nil, err
	}
	tryBlock, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RBRACE); err != nil {
		return nil, err
	}

	if _, err := p.expect(CATCH); err != nil {
		return nil, err
	}
	errIdent, err := p.expect(IDENT)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(LBRACE); err != nil {
		return nil, err
	}
	catchBlock, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RBRACE); err != nil {
		return nil, err
	}

	return &TryStmt{
		TryTok:     tryTok,
		TryBlock:   tryBlock,
		ErrorIdent: errIdent,
		CatchBlock: catchBlock,
	}, nil
}

func (p *Parser) parseReturn() (Stmt, error) {
	returnTok := p.consume()
	var value Expr
	if p.peek().Type != SEMICOLON {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		value = expr
	}
	p.possibleCheck(SEMICOLON)
	return &ReturnStmt{ReturnTok: returnTok, Expr: value}, nil
}

func (p *Parser) parseLet() (Stmt, error) {
	if _, err := p.expect(LET); err != nil {
		return nil, err
	}
	ident, err := p.expect(IDENT)
	if err != nil {
		return nil, err
	}
	ta, err := p.parseOptionalTypeAnnotation()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(ASSIGN); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &LetStmt{Ident: ident, Type: ta, Initializer: value}, nil
}

func (p *Parser) parseIf() (Stmt, error) {
	ifTok := p.consume()

	p.pushContext(ctxIfCondition)
	condition, err := p.parseExpr()
	p.popContext()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(LBRACE); err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RBRACE); err != nil {
		return nil, err
	}

	stmt := &IfStmt{IfTok: ifTok, Condition: condition, Then: then}

	for p.peek().Type == ELSE {
		p.consume()
		if p.peek().Type == IF {
			p.consume()
			p.possibleCheck(LPAREN)
			p.pushContext(ctxIfCondition)
			cond, err := p.parseExpr()
			p.popContext()
			if err != nil {
				return nil, err
			}
			p.possibleCheck(RPAREN)
			if _, err := p.expect(LBRACE); err != nil {
				return nil, err
			}
			body, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(RBRACE); err != nil {
				return nil, err
			}
			stmt.ElseIfs = append(stmt.ElseIfs, ElseBlock{Condition: cond, Block: body})
		} else {
			if _, err := p.expect(LBRACE); err != nil {
				return nil, err
			}
			body, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(RBRACE); err != nil {
				return nil, err
			}
			stmt.Else = body
		}
	}

	return stmt, nil
}

func (p *Parser) parseUse() (Stmt, error) {
	useTok := p.consume()

	if _, err := p.expect(LBRACE); err != nil {
		return nil, err
	}
	var items []Token
	for p.peek().Type != RBRACE && !p.isEOF() {
		item, err := p.expect(IDENT)
		if err != nil {
			return nil, err
		}
		if p.peek().Type != RBRACE {
			if _, err := p.expect(COMMA); err != nil {
				return nil, err
			}
		}
		items = append(items, item)
	}
	if _, err := p.expect(RBRACE); err != nil {
		return nil, err
	}

	if _, err := p.expect(FROM); err != nil {
		return nil, err
	}

	if p.peek().Type != STRING {
		return nil, &ParseError{
			Kind: ExpectedToken,
			Msg:  "expected string",
			Hint: "expected a string naming a module or file",
			Span: p.peek().Span,
		}
	}
	from := p.consume()

	return &UseStmt{UseTok: useTok, From: from, Items: items}, nil
}

func (p *Parser) parseBlock() (*BlockStmt, error) {
	block := &BlockStmt{}
	for p.peek().Type != RBRACE && !p.isEOF() {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			block.Stmts = append(block.Stmts, stmt)
		}
	}
	return block, nil
}

func (p *Parser) parseFn() (Stmt, error) {
	fnTok, public := p.parsePub()

	name, err := p.expect(IDENT)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}

	var params []*FnParam
	hasRest := false
	isStatic := true

	for p.peek().Type != RPAREN && !p.isEOF() {
		p.possibleCheck(COMMA)

		isRest := p.peek().Type == ELLIPSIS
		if isRest {
			if hasRest {
				return nil, &ParseError{
					Kind: MultipleRestParameters,
					Msg:  "function may declare at most one rest parameter",
					Span: p.peek().Span,
				}
			}
			hasRest = true
			p.consume()
		}

		param := p.consume()

		if param.Literal() == "self" {
			if !isStatic {
				return nil, &ParseError{
					Kind: MultipleSelfParameters,
					Msg:  "function may declare at most one self parameter",
					Span: param.Span,
				}
			}
			isStatic = false
			if isRest {
				return nil, &ParseError{
					Kind: SelfParameterCannotBeRest,
					Msg:  "self parameter cannot be a rest parameter",
					Span: param.Span,
				}
			}
		}

		ta, err := p.parseOptionalTypeAnnotation()
		if err != nil {
			return nil, err
		}

		if hasRest && p.peek().Type != RPAREN {
			return nil, &ParseError{
				Kind: RestParameterNotLastPosition,
				Msg:  "rest parameter must be the last parameter",
				Span: param.Span,
			}
		}

		params = append(params, &FnParam{Ident: param, Type: ta, IsRest: isRest})
	}

	if !isStatic && params[0].Ident.Literal() != "self" {
		return nil, &ParseError{
			Kind: SelfParameterNotFirst,
			Msg:  "self must be the first parameter",
			Span: p.peek().Span,
		}
	}

	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}

	returnType, err := p.parseReturnType()
	if err != nil {
		return nil, err
	}

	body := &BlockStmt{}
	if p.peek().Type != LBRACE {
		// Bodyless declaration (trait method signature).
		if _, err := p.expect(SEMICOLON); err != nil {
			return nil, err
		}
	} else {
		p.consume()
		body, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RBRACE); err != nil {
			return nil, err
		}
	}

	return &FnDecl{
		FnTok:      fnTok,
		Name:       name.Literal(),
		Params:     params,
		Body:       body,
		Public:     public,
		ReturnType: returnType,
		IsStatic:   isStatic,
	}, nil
}

////////////////////////////////////////////////////////////////////////////////
//                                 EXPRESSIONS
////////////////////////////////////////////////////////////////////////////////

func (p *Parser) parseExpr() (Expr, error) {
	return p.parseAssignment()
}

func (p *Parser) expressionStmt() (Stmt, error) {
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.possibleCheck(SEMICOLON)
	return &ExprStmt{Expr: expr}, nil
}

func (p *Parser) parseAssignment() (Expr, error) {
	expr, err := p.parseBinaryExpression()
	if err != nil {
		return nil, err
	}
	switch p.peek().Type {
	case ASSIGN, PLUSEQ, MINUSEQ, STAREQ, SLASHEQ:
		opTok := p.consume()
		right, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &AssignExpr{Target: expr, OpToken: opTok, Value: right}, nil
	case THEN:
		return p.parseThenElse(expr)
	}
	return expr, nil
}

func (p *Parser) parseThenElse(condition Expr) (Expr, error) {
	thenTok, err := p.expect(THEN)
	if err != nil {
		return nil, err
	}
	thenExpr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	elseTok, err := p.expect(ELSE)
	if err != nil {
		return nil, err
	}
	elseExpr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ThenElseExpr{
		Condition: condition,
		ThenTok:   thenTok,
		ThenExpr:  thenExpr,
		ElseTok:   elseTok,
		ElseExpr:  elseExpr,
	}, nil
}

func (p *Parser) parseBinaryExpression() (Expr, error) {
	left, err := p.parseUnaryExpression()
	if err != nil {
		return nil, err
	}
	return p.parseBinaryRecurse(left, 0)
}

// peekBinaryOperator returns the operator for the next token without
// consuming it.
func (p *Parser) peekBinaryOperator() (BinOpKind, bool) {
	return binOpForToken(p.peek().Type)
}

func (p *Parser) parseBinaryRecurse(left Expr, precedence uint8) (Expr, error) {
	for {
		op, ok := p.peekBinaryOperator()
		if !ok || op.Precedence() < precedence {
			break
		}
		opTok := p.consume()

		right, err := p.parseUnaryExpression()
		if err != nil {
			return nil, err
		}

		for {
			next, ok := p.peekBinaryOperator()
			if !ok {
				break
			}
			if next.Precedence() > op.Precedence() ||
				(next.Precedence() == op.Precedence() && next.Associativity() == AssocRight) {
				right, err = p.parseBinaryRecurse(right, next.Precedence())
				if err != nil {
					return nil, err
				}
			} else {
				break
			}
		}

		left = &BinaryExpr{Left: left, Op: op, OpToken: opTok, Right: right}
	}
	return left, nil
}

func (p *Parser) parseUnaryExpression() (Expr, error) {
	switch p.peek().Type {
	case MINUS:
		tok := p.consume()
		operand, err := p.parseUnaryExpression()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{OpToken: tok, Op: UnaryMinus, Operand: operand}, nil
	case TILDE:
		tok := p.consume()
		operand, err := p.parseUnaryExpression()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{OpToken: tok, Op: UnaryBitwiseNot, Operand: operand}, nil
	}
	return p.parseAccessExpression()
}

func (p *Parser) parseAccessExpression() (Expr, error) {
	expr, err := p.parsePrimaryExpression()
	if err != nil {
		return nil, err
	}

	for {
		switch p.peek().Type {
		case DOT:
			p.consume()
			fieldTok := p.consume()
			var member Expr = &VariableExpr{Ident: fieldTok}
			if p.peek().Type == LPAREN {
				member, err = p.parseCallExpr(fieldTok)
				if err != nil {
					return nil, err
				}
			}
			expr = &AccessExpr{Base: expr, Kind: FieldAccess, Member: member}
		case LBRACKET:
			p.consume()
			index, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(RBRACKET); err != nil {
				return nil, err
			}
			expr = &AccessExpr{Base: expr, Kind: IndexAccess, Member: index}
		case DOUBLECOLON:
			p.consume()
			member, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			expr = &AccessExpr{Base: expr, Kind: StaticAccess, Member: member}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parseStructConstructor(identifier Token) (Expr, error) {
	if _, err := p.expect(LBRACE); err != nil {
		return nil, err
	}
	var fields []FieldInit
	for p.peek().Type != RBRACE && !p.isEOF() {
		name, err := p.expect(IDENT)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(COLON); err != nil {
			return nil, err
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		fields = append(fields, FieldInit{Name: name, Value: value})
		if p.peek().Type != RBRACE {
			if _, err := p.expect(COMMA); err != nil {
				return nil, err
			}
		}
	}
	close, err := p.expect(RBRACE)
	if err != nil {
		return nil, err
	}
	return &StructConstructorExpr{Name: identifier, Fields: fields, Close: close}, nil
}

func (p *Parser) parseObject(open Token) (Expr, error) {
	var fields []ObjectField
	for p.peek().Type != RBRACE && !p.isEOF() {
		if p.peek().Type != STRING {
			return nil, &ParseError{
				Kind: ExpectedToken,
				Msg:  "expected string literal",
				Hint: "field names in objects must be string literals",
				Span: p.peek().Span,
			}
		}
		key := p.consume()
		if _, err := p.expect(COLON); err != nil {
			return nil, err
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		fields = append(fields, ObjectField{Key: key, Value: value})
		if p.peek().Type != RBRACE {
			if _, err := p.expect(COMMA); err != nil {
				return nil, err
			}
		}
	}
	close, err := p.expect(RBRACE)
	if err != nil {
		return nil, err
	}
	return &ObjectExpr{Open: open, Fields: fields, Close: close}, nil
}

func (p *Parser) parsePrimaryExpression() (Expr, error) {
	token := p.consume()

	switch token.Type {
	case INT:
		return &LiteralExpr{Token: token, Value: token.AsInt()}, nil
	case FLOAT:
		return &LiteralExpr{Token: token, Value: token.AsFloat()}, nil
	case STRING:
		return &LiteralExpr{Token: token, Value: token.AsString()}, nil
	case CHAR:
		return &LiteralExpr{Token: token, Value: token.AsChar()}, nil
	case TRUE:
		return &LiteralExpr{Token: token, Value: true}, nil
	case FALSE:
		return &LiteralExpr{Token: token, Value: false}, nil
	case NULL:
		return &NullExpr{Token: token}, nil
	case ELLIPSIS:
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &SpreadExpr{Ellipsis: token, Expr: expr}, nil
	case LBRACKET:
		return p.parseVector(token)
	case LBRACE:
		return p.parseObject(token)
	case IDENT:
		if p.peek().Type == LPAREN {
			return p.parseCallExpr(token)
		}
		if p.peek().Type == LBRACE && p.inContext(ctxNormal) {
			return p.parseStructConstructor(token)
		}
		return &VariableExpr{Ident: token}, nil
	case LPAREN:
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		close, err := p.expect(RPAREN)
		if err != nil {
			return nil, err
		}
		return &ParenExpr{Open: token, Expr: expr, Close: close}, nil
	default:
		return nil, &ParseError{
			Kind: UnexpectedToken,
			Msg:  fmt.Sprintf("unexpected token %s", token.Type),
			Span: token.Span,
		}
	}
}

func (p *Parser) parseCallExpr(callee Token) (Expr, error) {
	open, err := p.expect(LPAREN)
	if err != nil {
		return nil, err
	}
	var args []Expr
	for p.peek().Type != RPAREN && !p.isEOF() {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.peek().Type != RPAREN {
			if _, err := p.expect(COMMA); err != nil {
				return nil, err
			}
		}
	}
	close, err := p.expect(RPAREN)
	if err != nil {
		return nil, err
	}
	return &CallExpr{Callee: callee, Open: open, Args: args, Close: close}, nil
}

func (p *Parser) parseVector(open Token) (Expr, error) {
	var elements []Expr
	for p.peek().Type != RBRACKET && !p.isEOF() {
		el, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elements = append(elements, el)
		if p.peek().Type != RBRACKET {
			if _, err := p.expect(COMMA); err != nil {
				return nil, err
			}
		}
	}
	close, err := p.expect(RBRACKET)
	if err != nil {
		return nil, err
	}
	return &VecExpr{Open: open, Elements: elements, Close: close}, nil
}

////////////////////////////////////////////////////////////////////////////////
//                             TYPE ANNOTATIONS
////////////////////////////////////////////////////////////////////////////////

func (p *Parser) parseOptionalTypeAnnotation() (*TypeAnnotation, error) {
	if p.peek().Type != COLON {
		return nil, nil
	}
	return p.parseTypeAnnotation()
}

func (p *Parser) parseTypeAnnotation() (*TypeAnnotation, error) {
	if _, err := p.expect(COLON); err != nil {
		return nil, err
	}
	typeName, isArray, err := p.parseType()
	if err != nil {
		return nil, err
	}
	return &TypeAnnotation{
		TypeName:   typeName,
		IsArray:    isArray,
		IsNullable: p.isNullable(),
	}, nil
}

func (p *Parser) parseReturnType() (*TypeAnnotation, error) {
	if p.peek().Type != ARROW {
		return nil, nil
	}
	p.consume()
	typeName, isArray, err := p.parseType()
	if err != nil {
		return nil, err
	}
	return &TypeAnnotation{
		TypeName:   typeName,
		IsArray:    isArray,
		IsNullable: p.isNullable(),
	}, nil
}

func (p *Parser) parseType() (Token, bool, error) {
	typeName, err := p.expect(IDENT)
	if err != nil {
		return Token{}, false, err
	}
	if err := validateTypeName(typeName); err != nil {
		return Token{}, false, err
	}
	isArray := false
	if p.peek().Type == LBRACKET {
		p.consume()
		if _, err := p.expect(RBRACKET); err != nil {
			return Token{}, false, err
		}
		isArray = true
	}
	return typeName, isArray, nil
}

func (p *Parser) isNullable() bool {
	if p.peek().Type == QUESTION {
		p.consume()
		return true
	}
	return false
}

func validateTypeName(token Token) error {
	name := token.Literal()
	for _, valid := range ValidTypeNames {
		if name == valid {
			return nil
		}
	}
	// Uppercase-initial names are assumed to be struct names; they are
	// validated at call time against the module's struct table.
	if len(name) > 0 && name[0] >= 'A' && name[0] <= 'Z' {
		return nil
	}
	return &ParseError{
		Kind: InvalidTypeName,
		Msg:  fmt.Sprintf("invalid type %s", name),
		Hint: fmt.Sprintf("valid types are: %s", strings.Join(ValidTypeNames, ", ")),
		Span: token.Span,
	}
}

////////////////////////////////////////////////////////////////////////////////
//                                  HELPERS
////////////////////////////////////////////////////////////////////////////////

// parsePub consumes an optional `pub` and then the declaration keyword,
// returning that keyword token and whether the declaration is public.
func (p *Parser) parsePub() (Token, bool) {
	if p.peek().Type == PUB {
		p.consume()
		return p.consume(), true
	}
	return p.consume(), false
}

func (p *Parser) consume() Token {
	if !p.isEOF() {
		p.current++
	}
	return p.tokens[p.current-1]
}

func (p *Parser) peek() Token { return p.tokens[p.current] }

func (p *Parser) peekNext() Token {
	if p.current+1 >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.current+1]
}

func (p *Parser) isEOF() bool {
	return p.current >= len(p.tokens) || p.peek().Type == EOF
}

// possibleCheck consumes the next token if it matches, and does nothing
// otherwise.
func (p *Parser) possibleCheck(t TokenType) {
	if p.peek().Type == t {
		p.consume()
	}
}

// expect consumes the next token if it matches, or reports ExpectedToken.
func (p *Parser) expect(t TokenType) (Token, error) {
	token := p.peek()
	if token.Type == t {
		return p.consume(), nil
	}
	return Token{}, &ParseError{
		Kind: ExpectedToken,
		Msg:  fmt.Sprintf("expected %s", t),
		Hint: fmt.Sprintf("expected token of kind: %s", t),
		Span: token.Span,
	}
}

func (p *Parser) pushContext(c parseContext) { p.ctx = append(p.ctx, c) }
func (p *Parser) popContext()                { p.ctx = p.ctx[:len(p.ctx)-1] }

func (p *Parser) inContext(c parseContext) bool {
	return p.ctx[len(p.ctx)-1] == c
}

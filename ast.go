// ast.go — statement/expression AST.
//
// Data-only definitions: the only behavior here is span computation (derived,
// never stored) and the operator metadata table. Stmt and Expr are closed sum
// types: each variant is a struct with an unexported marker method, so a
// type switch over variants is exhaustive by construction of this file.
package quill

// Ast is a parsed program: top-level statements in program order. Order is
// semantically load-bearing — declarations and expression statements execute
// sequentially top to bottom.
type Ast struct {
	Stmts []Stmt
}

////////////////////////////////////////////////////////////////////////////////
//                                 STATEMENTS
////////////////////////////////////////////////////////////////////////////////

type Stmt interface {
	stmtNode()
}

// ExprStmt is an expression evaluated for its effect.
type ExprStmt struct {
	Expr Expr
}

// UseStmt is `use { a, b } from "spec"`.
type UseStmt struct {
	UseTok Token
	From   Token   // STRING token holding the module spec
	Items  []Token // imported names
}

// BlockStmt is `{ ... }`; runs in its own scope.
type BlockStmt struct {
	Stmts []Stmt
}

// ElseBlock is one `else if (cond) { ... }` arm.
type ElseBlock struct {
	Condition Expr
	Block     *BlockStmt
}

type IfStmt struct {
	IfTok     Token
	Condition Expr
	Then      *BlockStmt
	ElseIfs   []ElseBlock
	Else      *BlockStmt // nil when absent
}

type ReturnStmt struct {
	ReturnTok Token
	Expr      Expr // nil for bare `return`
}

// TypeAnnotation is `: name`, optionally suffixed `[]` and/or `?`.
type TypeAnnotation struct {
	TypeName   Token
	IsArray    bool
	IsNullable bool
}

// FnParam is one declared parameter. At most one parameter may be rest, and
// it must be last; the parser rejects violations.
type FnParam struct {
	Ident  Token
	Type   *TypeAnnotation // nil when undeclared
	IsRest bool
}

type FnDecl struct {
	FnTok      Token
	Name       string
	Params     []*FnParam
	Body       *BlockStmt
	Public     bool
	ReturnType *TypeAnnotation // nil when undeclared
	IsStatic   bool            // true when no self parameter (impl methods)
}

type LetStmt struct {
	Ident       Token
	Type        *TypeAnnotation // nil when undeclared
	Initializer Expr
}

type ThrowStmt struct {
	ThrowTok Token
	Value    Expr
}

type TryStmt struct {
	TryTok     Token
	TryBlock   *BlockStmt
	ErrorIdent Token
	CatchBlock *BlockStmt
}

type BreakStmt struct {
	Tok Token
}

type ContinueStmt struct {
	Tok Token
}

type LoopStmt struct {
	Tok  Token
	Body *BlockStmt
}

type WhileStmt struct {
	Tok       Token
	Condition Expr
	Body      *BlockStmt
}

// StructField is one declared field of a struct.
type StructField struct {
	Ident Token
	Type  *TypeAnnotation
}

type StructDecl struct {
	StructTok Token
	Name      Token
	Fields    []StructField
	Public    bool
}

type TraitDecl struct {
	TraitTok Token
	Name     Token
	Methods  []*FnDecl
	Public   bool
}

// StructImplDecl is `impl Name { fn ... }`.
type StructImplDecl struct {
	ImplTok    Token
	StructName Token
	Methods    []*FnDecl
}

// TraitImplDecl is `impl Trait for Name { fn ... }`.
type TraitImplDecl struct {
	ImplTok    Token
	TraitName  Token
	StructName Token
	Methods    []*FnDecl
}

type ConstDecl struct {
	ConstTok Token
	Ident    Token
	Expr     Expr
	Public   bool
}

func (*ExprStmt) stmtNode()       {}
func (*UseStmt) stmtNode()        {}
func (*BlockStmt) stmtNode()      {}
func (*IfStmt) stmtNode()         {}
func (*ReturnStmt) stmtNode()     {}
func (*FnDecl) stmtNode()         {}
func (*LetStmt) stmtNode()        {}
func (*ThrowStmt) stmtNode()      {}
func (*TryStmt) stmtNode()        {}
func (*BreakStmt) stmtNode()      {}
func (*ContinueStmt) stmtNode()   {}
func (*LoopStmt) stmtNode()       {}
func (*WhileStmt) stmtNode()      {}
func (*StructDecl) stmtNode()     {}
func (*TraitDecl) stmtNode()      {}
func (*StructImplDecl) stmtNode() {}
func (*TraitImplDecl) stmtNode()  {}
func (*ConstDecl) stmtNode()      {}

////////////////////////////////////////////////////////////////////////////////
//                                 EXPRESSIONS
////////////////////////////////////////////////////////////////////////////////

type Expr interface {
	Span() TextSpan
	exprNode()
}

// LiteralExpr carries its decoded value: int64, float64, bool, string, rune.
type LiteralExpr struct {
	Token Token
	Value any
}

type NullExpr struct {
	Token Token
}

type BinaryExpr struct {
	Left    Expr
	Op      BinOpKind
	OpToken Token
	Right   Expr
}

type UnOpKind int

const (
	UnaryMinus UnOpKind = iota
	UnaryBitwiseNot
)

type UnaryExpr struct {
	OpToken Token
	Op      UnOpKind
	Operand Expr
}

type VariableExpr struct {
	Ident Token
}

type ParenExpr struct {
	Open  Token
	Expr  Expr
	Close Token
}

// CallExpr is `name(args...)`. The callee is a bare identifier; method calls
// are represented as field access whose member is a CallExpr.
type CallExpr struct {
	Callee Token
	Open   Token
	Args   []Expr
	Close  Token
}

// AssignExpr covers `=`, `+=`, `-=`, `*=`, `/=` against a variable or index
// target. Field targets parse but are rejected at runtime.
type AssignExpr struct {
	Target  Expr
	OpToken Token
	Value   Expr
}

// VecExpr is a `[a, b, c]` list literal.
type VecExpr struct {
	Open     Token
	Elements []Expr
	Close    Token
}

// AccessKind discriminates the three access forms.
type AccessKind int

const (
	FieldAccess  AccessKind = iota // base.member
	IndexAccess                    // base[index]
	StaticAccess                   // Base::member(...)
)

// AccessExpr is a field read, index read, or static-method call. For
// FieldAccess the member is a VariableExpr (field read) or CallExpr (method
// call); for IndexAccess it is the index expression; for StaticAccess it is
// always a CallExpr.
type AccessExpr struct {
	Base   Expr
	Kind   AccessKind
	Member Expr
}

type SpreadExpr struct {
	Ellipsis Token
	Expr     Expr
}

// FieldInit is one `name: value` entry of a struct constructor.
type FieldInit struct {
	Name  Token
	Value Expr
}

// StructConstructorExpr is `Name { field: value, ... }`.
type StructConstructorExpr struct {
	Name   Token
	Fields []FieldInit
	Close  Token
}

// ObjectField is one `"key": value` entry of an object literal.
type ObjectField struct {
	Key   Token
	Value Expr
}

// ObjectExpr is `{ "key": value, ... }`; field order is preserved.
type ObjectExpr struct {
	Open   Token
	Fields []ObjectField
	Close  Token
}

// ThenElseExpr is `cond then a else b`.
type ThenElseExpr struct {
	Condition Expr
	ThenTok   Token
	ThenExpr  Expr
	ElseTok   Token
	ElseExpr  Expr
}

func (*LiteralExpr) exprNode()           {}
func (*NullExpr) exprNode()              {}
func (*BinaryExpr) exprNode()            {}
func (*UnaryExpr) exprNode()             {}
func (*VariableExpr) exprNode()          {}
func (*ParenExpr) exprNode()             {}
func (*CallExpr) exprNode()              {}
func (*AssignExpr) exprNode()            {}
func (*VecExpr) exprNode()               {}
func (*AccessExpr) exprNode()            {}
func (*SpreadExpr) exprNode()            {}
func (*StructConstructorExpr) exprNode() {}
func (*ObjectExpr) exprNode()            {}
func (*ThenElseExpr) exprNode()          {}

func (e *LiteralExpr) Span() TextSpan  { return e.Token.Span }
func (e *NullExpr) Span() TextSpan     { return e.Token.Span }
func (e *BinaryExpr) Span() TextSpan   { return CombineSpans([]TextSpan{e.Left.Span(), e.Right.Span()}) }
func (e *UnaryExpr) Span() TextSpan    { return CombineSpans([]TextSpan{e.OpToken.Span, e.Operand.Span()}) }
func (e *VariableExpr) Span() TextSpan { return e.Ident.Span }
func (e *ParenExpr) Span() TextSpan    { return CombineSpans([]TextSpan{e.Open.Span, e.Close.Span}) }
func (e *CallExpr) Span() TextSpan     { return CombineSpans([]TextSpan{e.Callee.Span, e.Close.Span}) }
func (e *AssignExpr) Span() TextSpan {
	return CombineSpans([]TextSpan{e.Target.Span(), e.Value.Span()})
}
func (e *VecExpr) Span() TextSpan { return CombineSpans([]TextSpan{e.Open.Span, e.Close.Span}) }
func (e *AccessExpr) Span() TextSpan {
	return CombineSpans([]TextSpan{e.Base.Span(), e.Member.Span()})
}
func (e *SpreadExpr) Span() TextSpan {
	return CombineSpans([]TextSpan{e.Ellipsis.Span, e.Expr.Span()})
}
func (e *StructConstructorExpr) Span() TextSpan {
	return CombineSpans([]TextSpan{e.Name.Span, e.Close.Span})
}
func (e *ObjectExpr) Span() TextSpan { return CombineSpans([]TextSpan{e.Open.Span, e.Close.Span}) }
func (e *ThenElseExpr) Span() TextSpan {
	return CombineSpans([]TextSpan{e.Condition.Span(), e.ElseExpr.Span()})
}

////////////////////////////////////////////////////////////////////////////////
//                              OPERATOR METADATA
////////////////////////////////////////////////////////////////////////////////

// BinOpKind enumerates the binary operators. The precedence table below is
// the single source of truth for expression grouping.
type BinOpKind int

const (
	OpPlus BinOpKind = iota
	OpMinus
	OpMultiply
	OpDivide
	OpPower
	OpModulo
	OpBitwiseAnd
	OpBitwiseOr
	OpBitwiseXor
	OpShiftLeft
	OpShiftRight
	OpGreaterThan
	OpLessThan
	OpGreaterThanEquals
	OpLessThanEquals
	OpEqualsEquals
	OpBangEquals
	OpAnd
	OpOr
	OpIncrement
	OpDecrement
	OpMinusEquals
	OpPlusEquals
)

type Associativity int

const (
	AssocLeft Associativity = iota
	AssocRight
)

// Precedence: higher binds tighter.
func (op BinOpKind) Precedence() uint8 {
	switch op {
	case OpPower:
		return 20
	case OpMultiply, OpDivide, OpModulo:
		return 19
	case OpPlus, OpMinus:
		return 18
	case OpShiftLeft, OpShiftRight:
		return 17
	case OpBitwiseAnd:
		return 16
	case OpBitwiseXor:
		return 15
	case OpBitwiseOr:
		return 14
	case OpGreaterThan, OpLessThan, OpGreaterThanEquals, OpLessThanEquals:
		return 13
	case OpEqualsEquals, OpBangEquals:
		return 12
	case OpAnd:
		return 11
	case OpOr:
		return 10
	case OpIncrement, OpDecrement:
		return 9
	case OpMinusEquals, OpPlusEquals:
		return 8
	default:
		return 0
	}
}

// Associativity: only exponentiation groups to the right.
func (op BinOpKind) Associativity() Associativity {
	if op == OpPower {
		return AssocRight
	}
	return AssocLeft
}

// binOpForToken maps an operator token to its BinOpKind.
func binOpForToken(t TokenType) (BinOpKind, bool) {
	switch t {
	case PLUS:
		return OpPlus, true
	case MINUS:
		return OpMinus, true
	case STAR:
		return OpMultiply, true
	case SLASH:
		return OpDivide, true
	case POWER:
		return OpPower, true
	case PERCENT:
		return OpModulo, true
	case AMP:
		return OpBitwiseAnd, true
	case PIPE:
		return OpBitwiseOr, true
	case CARET:
		return OpBitwiseXor, true
	case SHL:
		return OpShiftLeft, true
	case SHR:
		return OpShiftRight, true
	case GT:
		return OpGreaterThan, true
	case LT:
		return OpLessThan, true
	case GTE:
		return OpGreaterThanEquals, true
	case LTE:
		return OpLessThanEquals, true
	case EQ:
		return OpEqualsEquals, true
	case NEQ:
		return OpBangEquals, true
	case AND:
		return OpAnd, true
	case OR:
		return OpOr, true
	case INCREMENT:
		return OpIncrement, true
	case DECREMENT:
		return OpDecrement, true
	}
	// PLUSEQ/MINUSEQ stay out of this map: compound assignment is
	// handled by the assignment parse, not the precedence climb.
	return 0, false
}

// ValidTypeNames are the primitive names accepted in type annotations.
// Struct names are additionally accepted and validated at call time.
var ValidTypeNames = []string{"bool", "int", "float", "string", "void", "anytype", "char"}

package hir

// ExprKind enumerates HIR expression kinds.
type ExprKind uint8

const (
	// ExprLiteral represents literals (int, bool, nothing).
	ExprLiteral ExprKind = iota
	// ExprVarRef represents a variable reference.
	ExprVarRef
	// ExprUnaryOp represents unary operators (-, !, to int).
	ExprUnaryOp
	// ExprBinaryOp represents binary operators (+, -, *, /, ==, etc.).
	ExprBinaryOp
	// ExprAssign represents assignment (name = value); its value is the assigned value.
	ExprAssign
)

// String returns a human-readable name for the expression kind.
func (k ExprKind) String() string {
	switch k {
	case ExprLiteral:
		return "Literal"
	case ExprVarRef:
		return "VarRef"
	case ExprUnaryOp:
		return "UnaryOp"
	case ExprBinaryOp:
		return "BinaryOp"
	case ExprAssign:
		return "Assign"
	default:
		return "Unknown"
	}
}

// Expr represents an already type-checked HIR expression.
type Expr struct {
	Kind ExprKind
	Data ExprData // Kind-specific payload
}

// ExprData is the interface for expression-specific data.
type ExprData interface {
	exprData()
}

// LiteralKind enumerates literal value kinds.
type LiteralKind uint8

const (
	LiteralInt LiteralKind = iota
	LiteralBool
	LiteralNothing
)

// LiteralData holds data for ExprLiteral.
type LiteralData struct {
	Kind      LiteralKind
	IntValue  int64
	BoolValue bool
}

func (LiteralData) exprData() {}

// VarRefData holds data for ExprVarRef.
type VarRefData struct {
	Name string
}

func (VarRefData) exprData() {}

// UnaryOp enumerates unary operators.
type UnaryOp uint8

const (
	UnaryNeg   UnaryOp = iota // -x
	UnaryNot                  // !x
	UnaryToInt                // bool to int
)

// String returns the operator spelling.
func (op UnaryOp) String() string {
	switch op {
	case UnaryNeg:
		return "-"
	case UnaryNot:
		return "!"
	case UnaryToInt:
		return "to int"
	default:
		return "?"
	}
}

// UnaryOpData holds data for ExprUnaryOp.
type UnaryOpData struct {
	Op      UnaryOp
	Operand *Expr
}

func (UnaryOpData) exprData() {}

// BinaryOp enumerates binary operators.
type BinaryOp uint8

const (
	BinaryAdd BinaryOp = iota
	BinarySub
	BinaryMul
	BinaryDiv
	BinaryMod
	BinaryAnd
	BinaryOr
	BinaryXor
	BinaryEq
	BinaryNe
	BinaryLt
	BinaryLe
	BinaryGt
	BinaryGe
)

var binaryOpNames = [...]string{
	BinaryAdd: "+",
	BinarySub: "-",
	BinaryMul: "*",
	BinaryDiv: "/",
	BinaryMod: "%",
	BinaryAnd: "&&",
	BinaryOr:  "||",
	BinaryXor: "^",
	BinaryEq:  "==",
	BinaryNe:  "!=",
	BinaryLt:  "<",
	BinaryLe:  "<=",
	BinaryGt:  ">",
	BinaryGe:  ">=",
}

// String returns the operator spelling.
func (op BinaryOp) String() string {
	if int(op) < len(binaryOpNames) {
		return binaryOpNames[op]
	}
	return "?"
}

// BinaryOpData holds data for ExprBinaryOp.
type BinaryOpData struct {
	Op    BinaryOp
	Left  *Expr
	Right *Expr
}

func (BinaryOpData) exprData() {}

// AssignData holds data for ExprAssign.
type AssignData struct {
	Name  string
	Value *Expr
}

func (AssignData) exprData() {}

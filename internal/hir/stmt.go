package hir

// StmtKind enumerates HIR statement kinds.
type StmtKind uint8

const (
	// StmtBlock represents a nested compound block with its own scope.
	StmtBlock StmtKind = iota
	// StmtLet represents a variable declaration (let x = ...).
	StmtLet
	// StmtExpr represents an expression statement.
	StmtExpr
	// StmtReturn represents a return statement.
	StmtReturn
	// StmtIf represents an if/else statement.
	StmtIf
)

// String returns a human-readable name for the statement kind.
func (k StmtKind) String() string {
	switch k {
	case StmtBlock:
		return "Block"
	case StmtLet:
		return "Let"
	case StmtExpr:
		return "Expr"
	case StmtReturn:
		return "Return"
	case StmtIf:
		return "If"
	default:
		return "Unknown"
	}
}

// Stmt represents an HIR statement.
type Stmt struct {
	Kind StmtKind
	Data StmtData // Kind-specific payload
}

// StmtData is the interface for statement-specific data.
type StmtData interface {
	stmtData()
}

// BlockStmtData holds data for StmtBlock.
type BlockStmtData struct {
	Block *Block
}

func (BlockStmtData) stmtData() {}

// LetData holds data for StmtLet.
type LetData struct {
	Name  string // Variable name
	Value *Expr  // Initializer (nil if none)
}

func (LetData) stmtData() {}

// ExprStmtData holds data for StmtExpr.
type ExprStmtData struct {
	Expr *Expr
}

func (ExprStmtData) stmtData() {}

// ReturnData holds data for StmtReturn.
type ReturnData struct {
	Value *Expr // nil for bare return
}

func (ReturnData) stmtData() {}

// IfStmtData holds data for StmtIf.
type IfStmtData struct {
	Cond *Expr
	Then *Block
	Else *Block // nil if no else branch
}

func (IfStmtData) stmtData() {}

// Block represents a sequence of statements in HIR.
type Block struct {
	Stmts []Stmt
}

// IsEmpty returns true if the block has no statements.
func (b *Block) IsEmpty() bool {
	return b == nil || len(b.Stmts) == 0
}

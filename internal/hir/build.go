package hir

// Int builds an integer literal.
func Int(v int64) *Expr {
	return &Expr{Kind: ExprLiteral, Data: LiteralData{Kind: LiteralInt, IntValue: v}}
}

// Bool builds a boolean literal.
func Bool(v bool) *Expr {
	return &Expr{Kind: ExprLiteral, Data: LiteralData{Kind: LiteralBool, BoolValue: v}}
}

// Nothing builds the unit literal.
func Nothing() *Expr {
	return &Expr{Kind: ExprLiteral, Data: LiteralData{Kind: LiteralNothing}}
}

// Var builds a variable reference.
func Var(name string) *Expr {
	return &Expr{Kind: ExprVarRef, Data: VarRefData{Name: name}}
}

// Unary builds a unary operation.
func Unary(op UnaryOp, operand *Expr) *Expr {
	return &Expr{Kind: ExprUnaryOp, Data: UnaryOpData{Op: op, Operand: operand}}
}

// Binary builds a binary operation.
func Binary(op BinaryOp, left, right *Expr) *Expr {
	return &Expr{Kind: ExprBinaryOp, Data: BinaryOpData{Op: op, Left: left, Right: right}}
}

// Assign builds an assignment expression.
func Assign(name string, value *Expr) *Expr {
	return &Expr{Kind: ExprAssign, Data: AssignData{Name: name, Value: value}}
}

// Let builds a declaration; value may be nil.
func Let(name string, value *Expr) Stmt {
	return Stmt{Kind: StmtLet, Data: LetData{Name: name, Value: value}}
}

// Do builds an expression statement.
func Do(e *Expr) Stmt {
	return Stmt{Kind: StmtExpr, Data: ExprStmtData{Expr: e}}
}

// Return builds a return statement; value may be nil.
func Return(value *Expr) Stmt {
	return Stmt{Kind: StmtReturn, Data: ReturnData{Value: value}}
}

// If builds an if statement; els may be nil.
func If(cond *Expr, then, els *Block) Stmt {
	return Stmt{Kind: StmtIf, Data: IfStmtData{Cond: cond, Then: then, Else: els}}
}

// Nested builds a compound statement.
func Nested(stmts ...Stmt) Stmt {
	return Stmt{Kind: StmtBlock, Data: BlockStmtData{Block: Body(stmts...)}}
}

// Body builds a block.
func Body(stmts ...Stmt) *Block {
	return &Block{Stmts: stmts}
}

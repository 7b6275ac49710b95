//nolint:errcheck // Type assertions are checked by construction
package hir

import (
	"fmt"
	"io"
	"strings"
)

// Printer is used to dump HIR to text format.
type Printer struct {
	w      io.Writer
	indent int
	err    error
}

// NewPrinter creates a new HIR printer.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Dump writes the HIR function to the writer.
func Dump(w io.Writer, fn *Func) error {
	p := NewPrinter(w)
	return p.PrintFunc(fn)
}

// PrintFunc prints a complete function.
func (p *Printer) PrintFunc(fn *Func) error {
	p.printf("fn %s() {\n", fn.Name)
	p.indent++
	p.printBlockBody(fn.Body)
	p.indent--
	p.printf("}\n")
	return p.err
}

func (p *Printer) printBlockBody(b *Block) {
	if b == nil {
		return
	}
	for i := range b.Stmts {
		p.printStmt(&b.Stmts[i])
	}
}

func (p *Printer) printStmt(s *Stmt) {
	p.writeIndent()
	switch s.Kind {
	case StmtBlock:
		data := s.Data.(BlockStmtData)
		p.printf("{\n")
		p.indent++
		p.printBlockBody(data.Block)
		p.indent--
		p.writeIndent()
		p.printf("}\n")
	case StmtLet:
		data := s.Data.(LetData)
		p.printf("let %s", data.Name)
		if data.Value != nil {
			p.printf(" = %s", FormatExpr(data.Value))
		}
		p.printf(";\n")
	case StmtExpr:
		data := s.Data.(ExprStmtData)
		p.printf("%s;\n", FormatExpr(data.Expr))
	case StmtReturn:
		data := s.Data.(ReturnData)
		if data.Value == nil {
			p.printf("return;\n")
			return
		}
		p.printf("return %s;\n", FormatExpr(data.Value))
	case StmtIf:
		data := s.Data.(IfStmtData)
		p.printf("if %s {\n", FormatExpr(data.Cond))
		p.indent++
		p.printBlockBody(data.Then)
		p.indent--
		if data.Else != nil {
			p.writeIndent()
			p.printf("} else {\n")
			p.indent++
			p.printBlockBody(data.Else)
			p.indent--
		}
		p.writeIndent()
		p.printf("}\n")
	default:
		p.printf("<%s>\n", s.Kind)
	}
}

// FormatExpr renders an expression on one line, fully parenthesized.
func FormatExpr(e *Expr) string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case ExprLiteral:
		lit := e.Data.(LiteralData)
		switch lit.Kind {
		case LiteralInt:
			return fmt.Sprintf("%d", lit.IntValue)
		case LiteralBool:
			return fmt.Sprintf("%t", lit.BoolValue)
		default:
			return "nothing"
		}
	case ExprVarRef:
		return e.Data.(VarRefData).Name
	case ExprUnaryOp:
		data := e.Data.(UnaryOpData)
		if data.Op == UnaryToInt {
			return fmt.Sprintf("(%s to int)", FormatExpr(data.Operand))
		}
		return fmt.Sprintf("%s%s", data.Op, FormatExpr(data.Operand))
	case ExprBinaryOp:
		data := e.Data.(BinaryOpData)
		return fmt.Sprintf("(%s %s %s)", FormatExpr(data.Left), data.Op, FormatExpr(data.Right))
	case ExprAssign:
		data := e.Data.(AssignData)
		return fmt.Sprintf("(%s = %s)", data.Name, FormatExpr(data.Value))
	default:
		return fmt.Sprintf("<%s>", e.Kind)
	}
}

func (p *Printer) writeIndent() {
	p.printf("%s", strings.Repeat("  ", p.indent))
}

func (p *Printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

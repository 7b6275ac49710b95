package mir

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Dump writes an indented, one-node-per-line rendering of e.
func Dump(w io.Writer, e *Expr) error {
	if w == nil {
		return nil
	}
	var sb strings.Builder
	dumpExpr(&sb, e, 0)
	_, err := io.WriteString(w, sb.String())
	return err
}

func dumpExpr(sb *strings.Builder, e *Expr, depth int) {
	indent := strings.Repeat("  ", depth)
	if e == nil {
		fmt.Fprintf(sb, "%s<nil>\n", indent)
		return
	}
	switch e.Kind {
	case ExprLiteral:
		fmt.Fprintf(sb, "%s%s\n", indent, formatLiteral(e.Lit))
	case ExprRef:
		fmt.Fprintf(sb, "%sref %s\n", indent, e.Ref)
	case ExprPrim:
		fmt.Fprintf(sb, "%sprim %s/%d\n", indent, e.Prim, e.Prim.Arity())
	case ExprLambda:
		fmt.Fprintf(sb, "%slambda %s\n", indent, e.Lambda.Arg)
		dumpExpr(sb, e.Lambda.Body, depth+1)
	case ExprApply:
		fmt.Fprintf(sb, "%sapply\n", indent)
		dumpExpr(sb, e.Apply.Func, depth+1)
		dumpExpr(sb, e.Apply.Arg, depth+1)
	case ExprIf:
		fmt.Fprintf(sb, "%sif\n", indent)
		dumpExpr(sb, e.If.Cond, depth+1)
		dumpExpr(sb, e.If.Then, depth+1)
		dumpExpr(sb, e.If.Else, depth+1)
	case ExprLet:
		fmt.Fprintf(sb, "%slet %s\n", indent, e.Let.Name)
		dumpExpr(sb, e.Let.Value, depth+1)
		dumpExpr(sb, e.Let.Body, depth+1)
	case ExprComment:
		fmt.Fprintf(sb, "%s; %s\n", indent, strconv.Quote(e.Comment.Text))
		dumpExpr(sb, e.Comment.Inner, depth)
	default:
		fmt.Fprintf(sb, "%s<invalid kind %d>\n", indent, e.Kind)
	}
}

// Stats summarizes the shape of a tree.
type Stats struct {
	Nodes int
	Depth int
}

// Measure counts nodes and the maximum nesting depth of e.
func Measure(e *Expr) Stats {
	var st Stats
	var visit func(n *Expr, depth int)
	visit = func(n *Expr, depth int) {
		if n == nil {
			return
		}
		st.Nodes++
		if depth > st.Depth {
			st.Depth = depth
		}
		switch n.Kind {
		case ExprLambda:
			visit(n.Lambda.Body, depth+1)
		case ExprApply:
			visit(n.Apply.Func, depth+1)
			visit(n.Apply.Arg, depth+1)
		case ExprIf:
			visit(n.If.Cond, depth+1)
			visit(n.If.Then, depth+1)
			visit(n.If.Else, depth+1)
		case ExprLet:
			visit(n.Let.Value, depth+1)
			visit(n.Let.Body, depth+1)
		case ExprComment:
			visit(n.Comment.Inner, depth+1)
		}
	}
	visit(e, 1)
	return st
}

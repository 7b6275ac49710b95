package mir

import (
	"strconv"
	"strings"
)

// Encode renders e in the textual interchange syntax. Decode(Encode(e))
// yields a tree Equal to e for every well-formed e (see Validate).
func Encode(e *Expr) string {
	var enc encoder
	enc.expr(e)
	return enc.sb.String()
}

// EncodePrefix renders at most limit bytes of Encode(e) and reports
// whether the output was cut short. Subtrees past the limit are not
// visited. The cut may fall inside a multi-byte rune. A non-positive
// limit means no limit.
func EncodePrefix(e *Expr, limit int) (string, bool) {
	if limit <= 0 {
		return Encode(e), false
	}
	enc := encoder{limit: limit}
	enc.expr(e)
	return enc.sb.String(), enc.cut
}

type encoder struct {
	sb    strings.Builder
	limit int // zero means unbounded
	cut   bool
}

func (enc *encoder) full() bool {
	return enc.cut
}

func (enc *encoder) write(s string) {
	if enc.cut {
		return
	}
	if enc.limit > 0 {
		if room := enc.limit - enc.sb.Len(); len(s) > room {
			s = s[:room]
			enc.cut = true
		}
	}
	enc.sb.WriteString(s)
}

func (enc *encoder) expr(e *Expr) {
	if enc.full() {
		return
	}
	if e == nil {
		enc.write("<nil>")
		return
	}
	switch e.Kind {
	case ExprLiteral:
		enc.write(formatLiteral(e.Lit))
	case ExprRef:
		enc.write(e.Ref.String())
	case ExprPrim:
		enc.write(e.Prim.String())
	case ExprLambda:
		enc.write("(:lambda ")
		enc.write(e.Lambda.Arg.String())
		enc.write(" ")
		enc.expr(e.Lambda.Body)
		enc.write(")")
	case ExprIf:
		enc.write("(:if ")
		enc.expr(e.If.Cond)
		enc.write(" ")
		enc.expr(e.If.Then)
		enc.write(" ")
		enc.expr(e.If.Else)
		enc.write(")")
	case ExprLet:
		enc.write("(:let (")
		enc.write(e.Let.Name.String())
		enc.write(" ")
		enc.expr(e.Let.Value)
		enc.write(") ")
		enc.expr(e.Let.Body)
		enc.write(")")
	case ExprComment:
		text := e.Comment.Text
		if enc.limit > 0 && len(text) > enc.limit {
			// the quoted form is at least as long, so the tail is never written
			text = text[:enc.limit]
		}
		enc.write("(:comment ")
		enc.write(strconv.Quote(text))
		enc.write(" ")
		enc.expr(e.Comment.Inner)
		enc.write(")")
	case ExprApply:
		// flatten the left spine: ((f a) b) -> (f a b)
		var args []*Expr
		head := e
		for head.Kind == ExprApply {
			args = append(args, head.Apply.Arg)
			head = head.Apply.Func
		}
		enc.write("(")
		enc.expr(head)
		for i := len(args) - 1; i >= 0 && !enc.full(); i-- {
			enc.write(" ")
			enc.expr(args[i])
		}
		enc.write(")")
	default:
		enc.write("<invalid>")
	}
}

func formatLiteral(l Literal) string {
	switch l.Kind {
	case LitKindBool:
		if l.Bool {
			return atomTrue
		}
		return atomFalse
	case LitKindInt:
		return strconv.FormatInt(l.Int, 10)
	default:
		return atomNull
	}
}

// String renders e with Encode.
func (e *Expr) String() string {
	return Encode(e)
}

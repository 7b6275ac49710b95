package mir

import "brine/internal/intern"

// Keywords introducing special forms, written ":name" (or "#:name").
const (
	KeywordLet     = "let"
	KeywordLambda  = "lambda"
	KeywordIf      = "if"
	KeywordComment = "comment"
)

// Reserved atoms that can never be identifiers.
const (
	atomTrue  = "true"
	atomFalse = "false"
	atomNull  = "null"
)

// Decode parses exactly one MIR expression from src. Malformed input yields a
// *DecodeError; Decode never panics on user input.
func Decode(src string) (*Expr, error) {
	r := &reader{src: src}
	d, err := r.read()
	if err != nil {
		return nil, err
	}
	r.skipTrivia()
	if !r.eof() {
		return nil, decodeErrorf(DecTrailingInput, r.off, "unexpected input after expression")
	}
	return decodeDatum(d)
}

func decodeDatum(d *datum) (*Expr, error) {
	switch d.kind {
	case datumInt:
		return LitInt(d.num), nil
	case datumBool:
		return LitBool(d.truth), nil
	case datumString:
		return nil, decodeErrorf(DecUnsupportedLiteral, d.off, "string literal outside :comment")
	case datumKeyword:
		return nil, decodeErrorf(DecUnexpectedToken, d.off, "keyword :%s outside of form head", d.text)
	case datumSymbol:
		return decodeSymbol(d)
	case datumList:
		return decodeList(d)
	}
	return nil, decodeErrorf(DecUnexpectedToken, d.off, "unexpected datum")
}

func decodeSymbol(d *datum) (*Expr, error) {
	switch d.text {
	case atomTrue:
		return LitBool(true), nil
	case atomFalse:
		return LitBool(false), nil
	case atomNull:
		return LitNull(), nil
	case ".":
		return nil, decodeErrorf(DecUnexpectedToken, d.off, "unexpected '.'")
	}
	if p, ok := PrimitiveByName(d.text); ok {
		return Prim(p), nil
	}
	name, err := internIdent(d)
	if err != nil {
		return nil, err
	}
	return Ref(name), nil
}

func decodeList(d *datum) (*Expr, error) {
	if d.tail != nil {
		return nil, decodeErrorf(DecImproperList, d.tail.off, "improper list tail")
	}
	if len(d.items) == 0 {
		return nil, decodeErrorf(DecEmptyApplication, d.off, "empty list")
	}
	head := d.items[0]
	if head.kind == datumKeyword {
		return decodeForm(head, d.items[1:])
	}
	if len(d.items) == 1 {
		return nil, decodeErrorf(DecEmptyApplication, d.off, "application without an argument")
	}
	out, err := decodeDatum(head)
	if err != nil {
		return nil, err
	}
	for _, item := range d.items[1:] {
		arg, err := decodeDatum(item)
		if err != nil {
			return nil, err
		}
		out = NewApply(out, arg)
	}
	return out, nil
}

func decodeForm(kw *datum, args []*datum) (*Expr, error) {
	arity := func(n int) error {
		if len(args) != n {
			return decodeErrorf(DecKeywordArity, kw.off, ":%s expects %d operands, got %d", kw.text, n, len(args))
		}
		return nil
	}

	switch kw.text {
	case KeywordLet:
		if err := arity(2); err != nil {
			return nil, err
		}
		bind := args[0]
		if bind.kind != datumList || bind.tail != nil || len(bind.items) != 2 {
			return nil, decodeErrorf(DecKeywordArity, bind.off, ":let binding must be (name value)")
		}
		name, err := decodeIdent(bind.items[0])
		if err != nil {
			return nil, err
		}
		value, err := decodeDatum(bind.items[1])
		if err != nil {
			return nil, err
		}
		body, err := decodeDatum(args[1])
		if err != nil {
			return nil, err
		}
		return NewLet(name, value, body), nil

	case KeywordLambda:
		if err := arity(2); err != nil {
			return nil, err
		}
		arg, err := decodeIdent(args[0])
		if err != nil {
			return nil, err
		}
		body, err := decodeDatum(args[1])
		if err != nil {
			return nil, err
		}
		return NewLambda(arg, body), nil

	case KeywordIf:
		if err := arity(3); err != nil {
			return nil, err
		}
		parts := make([]*Expr, 3)
		for i, a := range args {
			e, err := decodeDatum(a)
			if err != nil {
				return nil, err
			}
			parts[i] = e
		}
		return NewIf(parts[0], parts[1], parts[2]), nil

	case KeywordComment:
		if err := arity(2); err != nil {
			return nil, err
		}
		if args[0].kind != datumString {
			return nil, decodeErrorf(DecUnexpectedToken, args[0].off, ":comment expects a string literal")
		}
		inner, err := decodeDatum(args[1])
		if err != nil {
			return nil, err
		}
		return NewComment(args[0].text, inner), nil
	}
	return nil, decodeErrorf(DecUnknownKeyword, kw.off, "unknown keyword :%s", kw.text)
}

func decodeIdent(d *datum) (intern.Name, error) {
	if d.kind != datumSymbol {
		return intern.NoName, decodeErrorf(DecExpectedIdent, d.off, "expected identifier")
	}
	if isReserved(d.text) {
		return intern.NoName, decodeErrorf(DecExpectedIdent, d.off, "expected identifier, got reserved symbol %s", d.text)
	}
	return internIdent(d)
}

// internIdent interns a symbol and rejects it when its normalized spelling
// would not read back as the same reference.
func internIdent(d *datum) (intern.Name, error) {
	name := intern.Get(d.text)
	if s := name.String(); !IsIdentifier(s) {
		return intern.NoName, decodeErrorf(DecExpectedIdent, d.off, "symbol %q normalizes to %q, which is not an identifier", d.text, s)
	}
	return name, nil
}

func isReserved(s string) bool {
	switch s {
	case atomTrue, atomFalse, atomNull, ".":
		return true
	}
	_, ok := PrimitiveByName(s)
	return ok
}

package mir

import (
	"bytes"
	"fmt"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"brine/internal/intern"
)

// Current binary schema - increment when wireNode changes.
const binarySchemaVersion uint16 = 1

// wireNode is one node of the flattened tree. Kids index earlier nodes, so
// the table is in post-order and shared subtrees are written once.
type wireNode struct {
	Kind uint8   `msgpack:"k"`
	Lit  uint8   `msgpack:"l,omitempty"`
	Bool bool    `msgpack:"b,omitempty"`
	Int  int64   `msgpack:"i,omitempty"`
	Name string  `msgpack:"n,omitempty"`
	Prim uint8   `msgpack:"p,omitempty"`
	Text string  `msgpack:"t,omitempty"`
	Kids []int32 `msgpack:"c,omitempty"`
}

type wireProgram struct {
	Schema uint16     `msgpack:"v"`
	Nodes  []wireNode `msgpack:"nodes"`
	Root   int32      `msgpack:"root"`
}

// MarshalBinary serializes e with msgpack. Identifiers are stored by name,
// so the result can be loaded by another process.
func MarshalBinary(e *Expr) ([]byte, error) {
	if e == nil {
		return nil, fmt.Errorf("mir: marshal: nil expression")
	}
	enc := &wireEncoder{seen: make(map[*Expr]int32)}
	root, err := enc.node(e)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := msgpack.NewEncoder(&buf).Encode(&wireProgram{
		Schema: binarySchemaVersion,
		Nodes:  enc.nodes,
		Root:   root,
	}); err != nil {
		return nil, fmt.Errorf("mir: marshal: %w", err)
	}
	return buf.Bytes(), nil
}

type wireEncoder struct {
	nodes []wireNode
	seen  map[*Expr]int32
}

func (w *wireEncoder) node(e *Expr) (int32, error) {
	if id, ok := w.seen[e]; ok {
		return id, nil
	}
	n := wireNode{Kind: uint8(e.Kind)}
	var kids []*Expr
	switch e.Kind {
	case ExprLiteral:
		n.Lit, n.Bool, n.Int = uint8(e.Lit.Kind), e.Lit.Bool, e.Lit.Int
	case ExprRef:
		n.Name = e.Ref.String()
	case ExprPrim:
		n.Prim = uint8(e.Prim)
	case ExprLambda:
		n.Name = e.Lambda.Arg.String()
		kids = []*Expr{e.Lambda.Body}
	case ExprApply:
		kids = []*Expr{e.Apply.Func, e.Apply.Arg}
	case ExprIf:
		kids = []*Expr{e.If.Cond, e.If.Then, e.If.Else}
	case ExprLet:
		n.Name = e.Let.Name.String()
		kids = []*Expr{e.Let.Value, e.Let.Body}
	case ExprComment:
		n.Text = e.Comment.Text
		kids = []*Expr{e.Comment.Inner}
	default:
		return 0, fmt.Errorf("mir: marshal: invalid expression kind %d", e.Kind)
	}
	for _, k := range kids {
		if k == nil {
			return 0, fmt.Errorf("mir: marshal: %s node with missing child", e.Kind)
		}
		id, err := w.node(k)
		if err != nil {
			return 0, err
		}
		n.Kids = append(n.Kids, id)
	}
	id, err := safecast.Conv[int32](len(w.nodes))
	if err != nil {
		return 0, fmt.Errorf("mir: marshal: node table overflow: %w", err)
	}
	w.nodes = append(w.nodes, n)
	w.seen[e] = id
	return id, nil
}

// UnmarshalBinary restores an expression written by MarshalBinary.
func UnmarshalBinary(data []byte) (*Expr, error) {
	var prog wireProgram
	if err := msgpack.NewDecoder(bytes.NewReader(data)).Decode(&prog); err != nil {
		return nil, fmt.Errorf("mir: unmarshal: %w", err)
	}
	if prog.Schema != binarySchemaVersion {
		return nil, fmt.Errorf("mir: unmarshal: schema %d, want %d", prog.Schema, binarySchemaVersion)
	}
	built := make([]*Expr, len(prog.Nodes))
	for i, n := range prog.Nodes {
		kid := func(j int) (*Expr, error) {
			if j >= len(n.Kids) {
				return nil, fmt.Errorf("mir: unmarshal: node %d: missing child %d", i, j)
			}
			k := int(n.Kids[j])
			if k < 0 || k >= i {
				return nil, fmt.Errorf("mir: unmarshal: node %d: child index %d out of order", i, k)
			}
			return built[k], nil
		}
		e, err := rebuildNode(n, kid)
		if err != nil {
			return nil, fmt.Errorf("mir: unmarshal: node %d: %w", i, err)
		}
		built[i] = e
	}
	root := int(prog.Root)
	if root < 0 || root >= len(built) {
		return nil, fmt.Errorf("mir: unmarshal: root %d out of range", root)
	}
	return built[root], nil
}

func rebuildNode(n wireNode, kid func(int) (*Expr, error)) (*Expr, error) {
	kids := func(count int) ([]*Expr, error) {
		out := make([]*Expr, count)
		for j := range count {
			k, err := kid(j)
			if err != nil {
				return nil, err
			}
			out[j] = k
		}
		return out, nil
	}

	switch ExprKind(n.Kind) {
	case ExprLiteral:
		if LitKind(n.Lit) > LitKindInt {
			return nil, fmt.Errorf("unknown literal kind %d", n.Lit)
		}
		return Lit(Literal{Kind: LitKind(n.Lit), Bool: n.Bool, Int: n.Int}), nil
	case ExprRef:
		return Ref(intern.Get(n.Name)), nil
	case ExprPrim:
		p := Primitive(n.Prim)
		if !p.Valid() {
			return nil, fmt.Errorf("unknown primitive %d", n.Prim)
		}
		return Prim(p), nil
	case ExprLambda:
		k, err := kids(1)
		if err != nil {
			return nil, err
		}
		return NewLambda(intern.Get(n.Name), k[0]), nil
	case ExprApply:
		k, err := kids(2)
		if err != nil {
			return nil, err
		}
		return NewApply(k[0], k[1]), nil
	case ExprIf:
		k, err := kids(3)
		if err != nil {
			return nil, err
		}
		return NewIf(k[0], k[1], k[2]), nil
	case ExprLet:
		k, err := kids(2)
		if err != nil {
			return nil, err
		}
		return NewLet(intern.Get(n.Name), k[0], k[1]), nil
	case ExprComment:
		k, err := kids(1)
		if err != nil {
			return nil, err
		}
		return NewComment(n.Text, k[0]), nil
	}
	return nil, fmt.Errorf("invalid expression kind %d", n.Kind)
}

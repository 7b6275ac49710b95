package cfg_test

import (
	"bytes"
	"strings"
	"testing"

	"brine/internal/cfg"
	"brine/internal/hir"
	"brine/internal/mir"
	"brine/internal/miri"
)

func run(t *testing.T, body *hir.Block) miri.Value {
	t.Helper()
	prog, err := cfg.Compile(&hir.Func{Name: "test", Body: body})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if err := mir.Validate(prog); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	// The program survives the text codec.
	back, err := mir.Decode(mir.Encode(prog))
	if err != nil {
		t.Fatalf("Decode(Encode(prog)): %v", err)
	}
	if !mir.Equal(prog, back) {
		t.Fatal("compiled program does not round-trip")
	}
	v, err := miri.Run(mir.Desugar(prog), miri.Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return v
}

func TestCompiledPrograms(t *testing.T) {
	x, y := hir.Var("x"), hir.Var("y")
	tests := []struct {
		name string
		body *hir.Block
		want string
	}{
		{
			name: "empty",
			body: hir.Body(),
			want: "null",
		},
		{
			name: "return_literal",
			body: hir.Body(hir.Return(hir.Int(7))),
			want: "7",
		},
		{
			name: "bare_return",
			body: hir.Body(hir.Return(nil)),
			want: "null",
		},
		{
			name: "arithmetic_on_locals",
			body: hir.Body(
				hir.Let("x", hir.Int(6)),
				hir.Let("y", hir.Binary(hir.BinaryMul, x, hir.Int(7))),
				hir.Return(hir.Binary(hir.BinarySub, y, x)),
			),
			want: "36",
		},
		{
			name: "uninitialized_local_is_null",
			body: hir.Body(hir.Let("x", nil), hir.Return(x)),
			want: "null",
		},
		{
			name: "assignment_value_and_effect",
			body: hir.Body(
				hir.Let("x", hir.Int(1)),
				hir.Let("y", hir.Assign("x", hir.Binary(hir.BinaryAdd, x, hir.Int(1)))),
				hir.Return(hir.Binary(hir.BinaryAdd, x, y)),
			),
			want: "4",
		},
		{
			name: "returns_in_both_arms",
			body: hir.Body(
				hir.Let("x", hir.Int(3)),
				hir.If(hir.Binary(hir.BinaryLt, x, hir.Int(5)),
					hir.Body(hir.Return(hir.Bool(true))),
					hir.Body(hir.Return(hir.Bool(false))),
				),
				hir.Return(hir.Int(99)),
			),
			want: "true",
		},
		{
			name: "fall_through_join",
			body: hir.Body(
				hir.Let("x", hir.Int(0)),
				hir.If(hir.Bool(false),
					hir.Body(hir.Do(hir.Assign("x", hir.Int(1)))),
					hir.Body(hir.Do(hir.Assign("x", hir.Int(2)))),
				),
				hir.Return(x),
			),
			want: "2",
		},
		{
			name: "if_without_else",
			body: hir.Body(
				hir.Let("x", hir.Int(10)),
				hir.If(hir.Binary(hir.BinaryNe, x, hir.Int(10)),
					hir.Body(hir.Return(hir.Int(1))),
					nil,
				),
				hir.Return(hir.Unary(hir.UnaryNeg, x)),
			),
			want: "-10",
		},
		{
			name: "one_arm_returns",
			body: hir.Body(
				hir.Let("x", hir.Int(4)),
				hir.If(hir.Binary(hir.BinaryGe, x, hir.Int(4)),
					hir.Body(hir.Do(hir.Assign("x", hir.Binary(hir.BinaryMod, x, hir.Int(3))))),
					hir.Body(hir.Return(hir.Int(-1))),
				),
				hir.Return(x),
			),
			want: "1",
		},
		{
			name: "shadowing_in_nested_scope",
			body: hir.Body(
				hir.Let("x", hir.Int(1)),
				hir.Nested(
					hir.Let("x", hir.Int(2)),
					hir.Do(hir.Assign("x", hir.Int(3))),
				),
				hir.Return(x),
			),
			want: "1",
		},
		{
			name: "initializer_sees_outer_binding",
			body: hir.Body(
				hir.Let("x", hir.Int(5)),
				hir.Nested(
					hir.Let("x", hir.Binary(hir.BinaryAdd, x, hir.Int(1))),
					hir.Return(x),
				),
			),
			want: "6",
		},
		{
			name: "statements_after_return_are_skipped",
			body: hir.Body(
				hir.Return(hir.Int(1)),
				hir.Return(hir.Int(2)),
			),
			want: "1",
		},
		{
			name: "nested_ifs",
			body: hir.Body(
				hir.Let("x", hir.Int(8)),
				hir.If(hir.Binary(hir.BinaryGt, x, hir.Int(5)),
					hir.Body(hir.If(hir.Binary(hir.BinaryGt, x, hir.Int(7)),
						hir.Body(hir.Do(hir.Assign("x", hir.Int(100)))),
						nil,
					)),
					nil,
				),
				hir.Return(hir.Unary(hir.UnaryToInt, hir.Binary(hir.BinaryEq, x, hir.Int(100)))),
			),
			want: "1",
		},
		{
			name: "logic_ops",
			body: hir.Body(
				hir.Return(hir.Binary(hir.BinaryXor,
					hir.Binary(hir.BinaryAnd, hir.Bool(true), hir.Unary(hir.UnaryNot, hir.Bool(false))),
					hir.Binary(hir.BinaryOr, hir.Bool(false), hir.Bool(false)),
				)),
			),
			want: "true",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := run(t, tt.body).String(); got != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestLowerJoinOnlyWhenNeeded(t *testing.T) {
	f, err := cfg.Lower(&hir.Func{Name: "f", Body: hir.Body(
		hir.If(hir.Bool(true),
			hir.Body(hir.Return(hir.Int(1))),
			hir.Body(hir.Return(hir.Int(2))),
		),
	)})
	if err != nil {
		t.Fatal(err)
	}
	// entry, return, then, else: no join block.
	if len(f.Blocks) != 4 {
		var buf bytes.Buffer
		_ = cfg.Dump(&buf, f)
		t.Fatalf("got %d blocks:\n%s", len(f.Blocks), buf.String())
	}
	if f.Blocks[f.Entry].Jump.Kind != cfg.JumpBranch {
		t.Fatalf("entry jump = %s", f.Blocks[f.Entry].Jump)
	}
	if err := cfg.Validate(f); err != nil {
		t.Fatal(err)
	}
}

func TestLowerErrors(t *testing.T) {
	tests := []struct {
		name string
		body *hir.Block
		want string
	}{
		{"undefined_read", hir.Body(hir.Return(hir.Var("nope"))), `undefined variable "nope"`},
		{"undefined_write", hir.Body(hir.Do(hir.Assign("nope", hir.Int(1)))), `undefined variable "nope"`},
		{"out_of_scope", hir.Body(hir.Nested(hir.Let("x", nil)), hir.Return(hir.Var("x"))), `undefined variable "x"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cfg.Compile(&hir.Func{Name: "bad", Body: tt.body})
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestDumpLoweredSlots(t *testing.T) {
	f, err := cfg.Lower(&hir.Func{Name: "slots", Body: hir.Body(
		hir.Let("a", hir.Int(1)),
		hir.Return(hir.Var("a")),
	)})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := cfg.Dump(&buf, f); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"slot 0: a", "do (set 0 1)", "bind __t0 <- (get 0)", "pure __t0", "goto bb1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("dump lacks %q:\n%s", want, out)
		}
	}
}

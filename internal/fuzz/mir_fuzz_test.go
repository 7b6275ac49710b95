package fuzztests

import (
	"testing"

	"brine/internal/mir"
	"brine/internal/miri"
)

const (
	maxFuzzInput = 1 << 16
	maxFuzzSteps = 200_000
)

// FuzzDecodeRoundTrip checks that anything the decoder accepts encodes to
// text that decodes to the same tree, and that encoding is a fixed point.
func FuzzDecodeRoundTrip(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		if len(input) > maxFuzzInput {
			input = input[:maxFuzzInput]
		}
		e, err := mir.Decode(string(input))
		if err != nil {
			return
		}
		text := mir.Encode(e)
		again, err := mir.Decode(text)
		if err != nil {
			t.Fatalf("re-decode of %q failed: %v", text, err)
		}
		if !mir.Equal(e, again) {
			t.Fatalf("round trip changed the tree: %q", text)
		}
		if text2 := mir.Encode(again); text2 != text {
			t.Fatalf("encoding not stable: %q vs %q", text, text2)
		}
	})
}

// FuzzDesugarEval checks that desugaring always yields a core-only tree
// and that evaluation under a step budget returns rather than panicking.
func FuzzDesugarEval(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		if len(input) > maxFuzzInput {
			input = input[:maxFuzzInput]
		}
		e, err := mir.Decode(string(input))
		if err != nil {
			return
		}
		prog := mir.Desugar(e)
		if err := mir.CheckDesugared(prog); err != nil {
			t.Fatalf("desugar left sugar in %q: %v", input, err)
		}
		_, _ = miri.Run(prog, miri.Options{MaxSteps: maxFuzzSteps})
	})
}

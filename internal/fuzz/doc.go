// Package fuzztests houses Go fuzz harnesses for the MIR pipeline
// (decode -> encode -> desugar -> evaluate). They guard against panics,
// codec asymmetries and runaway evaluation on arbitrary input.
//
// Seeds come from testdata/*.mir at the repository root.
package fuzztests

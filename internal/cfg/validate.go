package cfg

import (
	"errors"
	"fmt"
)

// Validate checks the graph invariants of f. Returns all problems joined.
func Validate(f *Func) error {
	if f == nil {
		return errors.New("cfg: nil function")
	}
	var errs []error
	if len(f.Blocks) == 0 {
		return errors.New("cfg: function has no blocks")
	}
	if !f.valid(f.Entry) {
		errs = append(errs, fmt.Errorf("cfg: entry %s out of range", f.Entry))
	}
	if !f.valid(f.Return) {
		errs = append(errs, fmt.Errorf("cfg: return block %s not set", f.Return))
	}
	if f.Slots < 0 {
		errs = append(errs, fmt.Errorf("cfg: negative slot count %d", f.Slots))
	}
	for i := range f.Blocks {
		b := &f.Blocks[i]
		if int(b.ID) != i {
			errs = append(errs, fmt.Errorf("cfg: block at index %d has id %s", i, b.ID))
		}
		for j, line := range b.Lines {
			if line.Expr == nil {
				errs = append(errs, fmt.Errorf("cfg: %s line %d: nil expression", b.ID, j))
			}
		}
		switch b.Jump.Kind {
		case JumpNone:
			if b.ID != f.Return {
				errs = append(errs, fmt.Errorf("cfg: %s: unterminated block", b.ID))
			}
		case JumpGoto:
			if !f.valid(b.Jump.Target) {
				errs = append(errs, fmt.Errorf("cfg: %s: goto target %s out of range", b.ID, b.Jump.Target))
			}
		case JumpBranch:
			if !f.valid(b.Jump.Then) || !f.valid(b.Jump.Else) {
				errs = append(errs, fmt.Errorf("cfg: %s: branch targets %s, %s out of range", b.ID, b.Jump.Then, b.Jump.Else))
			}
		default:
			errs = append(errs, fmt.Errorf("cfg: %s: unknown jump kind %d", b.ID, b.Jump.Kind))
		}
		if b.ID == f.Return && b.Jump.Kind != JumpNone {
			errs = append(errs, fmt.Errorf("cfg: return block %s has a jump", b.ID))
		}
	}
	return errors.Join(errs...)
}

func (f *Func) valid(id BlockID) bool {
	return id >= 0 && int(id) < len(f.Blocks)
}

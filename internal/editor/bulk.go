package editor

import (
	"fmt"
	"strings"

	"github.com/Veraticus/honcho/internal/model"
)

// BulkOp is a relative operation applied to one field of every selected image.
type BulkOp string

const (
	// OpIncrement adds one step.
	OpIncrement BulkOp = "increment"
	// OpDecrease subtracts one step.
	OpDecrease BulkOp = "decrease"
	// OpIncreaseToMax jumps to the upper bound.
	OpIncreaseToMax BulkOp = "increase-to-max"
	// OpDecreaseToMax jumps to the lower bound.
	OpDecreaseToMax BulkOp = "decrease-to-max"
)

// ParseBulkOp accepts the op names plus the short CLI aliases.
func ParseBulkOp(s string) (BulkOp, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "increment", "inc", "+":
		return OpIncrement, nil
	case "decrease", "dec", "-":
		return OpDecrease, nil
	case "increase-to-max", "max":
		return OpIncreaseToMax, nil
	case "decrease-to-max", "min":
		return OpDecreaseToMax, nil
	}
	return "", fmt.Errorf("%w: bulk op %q", ErrUnknownCommand, s)
}

// Apply computes the new value of f, clamped to its bounds.
func (op BulkOp) Apply(f model.Field, current int) int {
	b := f.Bounds()
	switch op {
	case OpIncrement:
		return b.Clamp(current + b.Step)
	case OpDecrease:
		return b.Clamp(current - b.Step)
	case OpIncreaseToMax:
		return b.Max
	case OpDecreaseToMax:
		return b.Min
	}
	return b.Clamp(current)
}

// BulkResult reports which selected images an operation changed. Images
// already at the bound are listed as unchanged and get no history entry.
type BulkResult struct {
	Op        BulkOp
	Field     model.Field
	Changed   []string
	Unchanged []string
}

// applyBulk runs op over every selected image. The caller holds the session
// lock for the whole loop, so observers never see a partial application.
func (s *Session) applyBulk(op BulkOp, f model.Field) BulkResult {
	result := BulkResult{Op: op, Field: f}
	for _, id := range s.selection.Selected() {
		st, ok := s.selection.get(id)
		if !ok {
			continue
		}
		if _, changed := st.store.Set(f, op.Apply(f, st.store.Get(f))); !changed {
			result.Unchanged = append(result.Unchanged, id)
			continue
		}
		s.commit(st)
		result.Changed = append(result.Changed, id)
	}
	return result
}

package cliptrack

import "fmt"

// Op is a clip combining operation. The clip region is combined with a new
// operand rectangle according to the selected set operation.
//
// Only OpIntersect and OpDifference can appear in modern drawing APIs; the
// remaining values are the legacy widened set and are tracked
// conservatively (see ConservativeClip).
type Op int32

const (
	// OpDifference subtracts the operand from the current clip.
	OpDifference Op = iota
	// OpIntersect intersects the operand with the current clip.
	OpIntersect
	// OpUnion adds the operand to the current clip.
	OpUnion
	// OpXor keeps the areas covered by exactly one of clip and operand.
	OpXor
	// OpReverseDifference subtracts the current clip from the operand.
	OpReverseDifference
	// OpReplace discards the current clip and installs the operand.
	OpReplace
)

// String returns the name of the operation.
func (op Op) String() string {
	switch op {
	case OpDifference:
		return "Difference"
	case OpIntersect:
		return "Intersect"
	case OpUnion:
		return "Union"
	case OpXor:
		return "Xor"
	case OpReverseDifference:
		return "ReverseDifference"
	case OpReplace:
		return "Replace"
	default:
		return fmt.Sprintf("Op(%d)", int32(op))
	}
}

// valid reports whether op is one of the defined operations.
func (op Op) valid() bool {
	return op >= OpDifference && op <= OpReplace
}

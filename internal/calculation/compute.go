package calculation

import (
	"fmt"
	"math"
)

// Apply performs a single binary operation.
func Apply(op Operator, a, b float64) (float64, error) {
	switch op {
	case OpAdd:
		return a + b, nil
	case OpSubtract:
		return a - b, nil
	case OpMultiply:
		return a * b, nil
	case OpDivide:
		if b == 0 {
			return 0, fmt.Errorf("%w: %g / %g", ErrDivisionByZero, a, b)
		}
		return a / b, nil
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownOperator, string(op))
}

// Step is one executed application of the operator.
type Step struct {
	Left   float64
	Right  float64
	Result float64
}

// Compute evaluates ((n1 op n2) op n3) strictly left to right and returns the
// intermediate steps alongside the final result. Finite operands can still
// overflow into a NaN on the second step; that is reported as
// ErrUndefinedResult.
func Compute(in Input) (float64, []Step, error) {
	partial, err := Apply(in.Operator, in.Number1, in.Number2)
	if err != nil {
		return 0, nil, fmt.Errorf("step 0: %w", err)
	}

	result, err := Apply(in.Operator, partial, in.Number3)
	if err != nil {
		return 0, nil, fmt.Errorf("step 1: %w", err)
	}
	if math.IsNaN(result) {
		return 0, nil, fmt.Errorf("step 1: %w: %g %s %g", ErrUndefinedResult, partial, in.Operator, in.Number3)
	}

	steps := []Step{
		{Left: in.Number1, Right: in.Number2, Result: partial},
		{Left: partial, Right: in.Number3, Result: result},
	}
	return result, steps, nil
}

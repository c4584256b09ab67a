package calculation

import "errors"

var (
	ErrDivisionByZero  = errors.New("division by zero")
	ErrUnknownOperator = errors.New("unknown operator")
	ErrUndefinedResult = errors.New("result is not a number")
)

// DivisionByZeroMessage is shown to the user whenever a chain would divide by zero.
const DivisionByZeroMessage = "Division by zero is not allowed."

// UndefinedResultMessage is shown when an overflowed chain has no defined
// value, such as infinity times zero.
const UndefinedResultMessage = "The result is undefined for these numbers."

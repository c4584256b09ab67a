package calculation

// Operator is one of the four arithmetic symbols accepted by the form.
type Operator string

const (
	OpAdd      Operator = "+"
	OpSubtract Operator = "-"
	OpMultiply Operator = "*"
	OpDivide   Operator = "/"
)

// OperatorChoice pairs an operator with its form label.
type OperatorChoice struct {
	Value Operator
	Label string
}

// Choices is the closed list offered by the operator select, in display order.
var Choices = []OperatorChoice{
	{Value: OpAdd, Label: "Add (+)"},
	{Value: OpSubtract, Label: "Subtract (-)"},
	{Value: OpMultiply, Label: "Multiply (×)"},
	{Value: OpDivide, Label: "Divide (÷)"},
}

// Valid reports whether op is one of the accepted symbols.
func (op Operator) Valid() bool {
	switch op {
	case OpAdd, OpSubtract, OpMultiply, OpDivide:
		return true
	}
	return false
}

// Name is the metric/span label for the operator.
func (op Operator) Name() string {
	switch op {
	case OpAdd:
		return "add"
	case OpSubtract:
		return "subtract"
	case OpMultiply:
		return "multiply"
	case OpDivide:
		return "divide"
	}
	return "unknown"
}

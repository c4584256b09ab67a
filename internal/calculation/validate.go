package calculation

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Form field names.
const (
	FieldNumber1  = "number1"
	FieldNumber2  = "number2"
	FieldNumber3  = "number3"
	FieldOperator = "operator"
)

const (
	msgRequired      = "This field is required."
	msgInvalidNumber = "Enter a number."
	msgInvalidChoice = "Select a valid choice. %s is not one of the available choices."
)

// RawInput holds the submitted form values as strings.
type RawInput struct {
	Number1  string
	Number2  string
	Number3  string
	Operator string
}

// RawFromInput renders typed input back into form values.
func RawFromInput(in Input) RawInput {
	return RawInput{
		Number1:  FormatNumber(in.Number1),
		Number2:  FormatNumber(in.Number2),
		Number3:  FormatNumber(in.Number3),
		Operator: string(in.Operator),
	}
}

// Input is a parsed, validated form submission.
type Input struct {
	Number1  float64
	Number2  float64
	Number3  float64
	Operator Operator
}

// ValidationError collects field-level errors, keyed by field name, and
// errors that concern the form as a whole.
type ValidationError struct {
	Fields   map[string][]string
	NonField []string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields)+len(e.NonField))

	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, strings.Join(e.Fields[name], " ")))
	}
	parts = append(parts, e.NonField...)

	return "invalid input: " + strings.Join(parts, "; ")
}

// AddField records an error against a single field.
func (e *ValidationError) AddField(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// AddNonField records an error that is not tied to one field.
func (e *ValidationError) AddNonField(msg string) {
	e.NonField = append(e.NonField, msg)
}

// Field returns the errors recorded for field.
func (e *ValidationError) Field(field string) []string {
	if e == nil {
		return nil
	}
	return e.Fields[field]
}

func (e *ValidationError) empty() bool {
	return len(e.Fields) == 0 && len(e.NonField) == 0
}

// Parse validates raw form values. Each field is checked on its own first;
// the division-by-zero rule then runs against whichever operands parsed.
func Parse(raw RawInput) (Input, error) {
	verr := &ValidationError{}

	n1, _ := parseNumber(verr, FieldNumber1, raw.Number1)
	n2, ok2 := parseNumber(verr, FieldNumber2, raw.Number2)
	n3, ok3 := parseNumber(verr, FieldNumber3, raw.Number3)
	op, okOp := parseOperator(verr, raw.Operator)

	if okOp && op == OpDivide && ((ok2 && n2 == 0) || (ok3 && n3 == 0)) {
		verr.AddNonField(DivisionByZeroMessage)
	}

	if !verr.empty() {
		return Input{}, verr
	}

	return Input{Number1: n1, Number2: n2, Number3: n3, Operator: op}, nil
}

func parseNumber(verr *ValidationError, field, s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		verr.AddField(field, msgRequired)
		return 0, false
	}

	// strconv accepts hex floats; a form number is decimal only.
	if strings.ContainsAny(s, "xX") {
		verr.AddField(field, msgInvalidNumber)
		return 0, false
	}

	s, ok := stripDigitSeparators(s)
	if !ok {
		verr.AddField(field, msgInvalidNumber)
		return 0, false
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		verr.AddField(field, msgInvalidNumber)
		return 0, false
	}

	return v, true
}

// stripDigitSeparators removes underscores grouping digits, as in "1_000.5".
// Each underscore must sit between two digits.
func stripDigitSeparators(s string) (string, bool) {
	if !strings.Contains(s, "_") {
		return s, true
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '_' {
			b.WriteByte(s[i])
			continue
		}
		if i == 0 || i == len(s)-1 || !isDigit(s[i-1]) || !isDigit(s[i+1]) {
			return "", false
		}
	}
	return b.String(), true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func parseOperator(verr *ValidationError, s string) (Operator, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		verr.AddField(FieldOperator, msgRequired)
		return "", false
	}

	op := Operator(s)
	if !op.Valid() {
		verr.AddField(FieldOperator, fmt.Sprintf(msgInvalidChoice, s))
		return "", false
	}

	return op, true
}

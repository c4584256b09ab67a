package calculator

import (
	"embed"
	"html/template"
	"math"
	"time"

	"calcform/internal/calculation"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// pageData is everything the index page renders.
type pageData struct {
	Form      formView
	Operators []calculation.OperatorChoice
	Recent    []calculation.Calculation
	Selected  *calculation.Calculation
}

func (p pageData) IsSelected(id uint) bool {
	return p.Selected != nil && p.Selected.ID == id
}

// formView carries the values shown in the inputs and any errors from the
// last submission.
type formView struct {
	Values calculation.RawInput
	Errors *calculation.ValidationError
}

func (f formView) FieldErrors(field string) []string {
	return f.Errors.Field(field)
}

func (f formView) NonFieldErrors() []string {
	if f.Errors == nil {
		return nil
	}
	return f.Errors.NonField
}

func (f formView) OperatorIs(op calculation.Operator) bool {
	return f.Values.Operator == string(op)
}

// RecordResponse is the JSON shape of a stored calculation. Result is null
// when the chain overflowed to an infinity.
type RecordResponse struct {
	ID        uint                 `json:"id"`
	Number1   float64              `json:"number1"`
	Number2   float64              `json:"number2"`
	Number3   float64              `json:"number3"`
	Operator  calculation.Operator `json:"operator"`
	Result    *float64             `json:"result"`
	Text      string               `json:"text"`
	CreatedAt time.Time            `json:"created_at"`
}

func newRecordResponse(c calculation.Calculation) RecordResponse {
	resp := RecordResponse{
		ID:        c.ID,
		Number1:   c.Number1,
		Number2:   c.Number2,
		Number3:   c.Number3,
		Operator:  c.Operator,
		Text:      c.String(),
		CreatedAt: c.CreatedAt,
	}
	if !math.IsInf(c.Result, 0) && !math.IsNaN(c.Result) {
		result := c.Result
		resp.Result = &result
	}
	return resp
}

package calculation

import (
	"fmt"
	"strconv"
	"time"
)

// Calculation is a persisted chained computation. Records are written once
// and never updated.
type Calculation struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Number1   float64   `gorm:"not null"`
	Number2   float64   `gorm:"not null"`
	Number3   float64   `gorm:"not null"`
	Operator  Operator  `gorm:"size:10;not null;index"`
	Result    float64   `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}

func (Calculation) TableName() string {
	return "calculations"
}

// New builds an unsaved record from validated input and its computed result.
func New(in Input, result float64) *Calculation {
	return &Calculation{
		Number1:  in.Number1,
		Number2:  in.Number2,
		Number3:  in.Number3,
		Operator: in.Operator,
		Result:   result,
	}
}

// Input returns the operands and operator of the record, used to prefill the form.
func (c Calculation) Input() Input {
	return Input{
		Number1:  c.Number1,
		Number2:  c.Number2,
		Number3:  c.Number3,
		Operator: c.Operator,
	}
}

func (c Calculation) String() string {
	op := string(c.Operator)
	return fmt.Sprintf("%s %s %s %s %s = %s",
		FormatNumber(c.Number1), op,
		FormatNumber(c.Number2), op,
		FormatNumber(c.Number3),
		FormatNumber(c.Result),
	)
}

// FormatNumber renders v as the shortest decimal string that parses back to v.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

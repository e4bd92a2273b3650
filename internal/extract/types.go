package extract

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Farfive/expenseflow-pro-sub007/constants"
)

// Span marks the byte offsets of a match inside the recognized text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Field is one extracted field. Value is nil when no pattern matched;
// absence is first-class data, distinct from "matched but invalid", which
// keeps RawMatch populated with a nil Value.
type Field struct {
	Kind     constants.FieldKind `json:"kind"`
	RawMatch string              `json:"raw_match,omitempty"`
	Value    any                 `json:"value,omitempty"`
	Rule     string              `json:"rule,omitempty"`
	Span     Span                `json:"span"`
}

// HasValue reports whether extraction produced a usable typed value.
func (f Field) HasValue() bool { return f.Value != nil }

// Decimal returns the value for money-typed fields (Amount, VATAmount).
func (f Field) Decimal() (decimal.Decimal, bool) {
	d, ok := f.Value.(decimal.Decimal)
	return d, ok
}

// Date returns the value for TransactionDate.
func (f Field) Date() (time.Time, bool) {
	t, ok := f.Value.(time.Time)
	return t, ok
}

// Text returns the value for string-typed fields.
func (f Field) Text() (string, bool) {
	s, ok := f.Value.(string)
	return s, ok
}

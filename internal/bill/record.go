package bill

import (
	"math"
	"strings"

	"github.com/Iron-Ham/solarsizer/internal/errors"
)

// Record is one utility bill as returned by a resolver. Dates and contact
// fields are opaque display strings.
type Record struct {
	ReferenceNumber string  `json:"referenceNumber" yaml:"referenceNumber"`
	CustomerName    string  `json:"customerName" yaml:"customerName"`
	Address         string  `json:"address" yaml:"address"`
	PhoneNumber     string  `json:"phoneNumber" yaml:"phoneNumber"`
	IssueDate       string  `json:"issueDate" yaml:"issueDate"`
	DueDate         string  `json:"dueDate" yaml:"dueDate"`
	UnitsConsumed   float64 `json:"unitsConsumed" yaml:"unitsConsumed"` // kWh for the billing period
	RatePerUnit     float64 `json:"ratePerUnit" yaml:"ratePerUnit"`
	Amount          float64 `json:"amount" yaml:"amount"`
	TaxRate         float64 `json:"taxRate" yaml:"taxRate"`
	TaxAmount       float64 `json:"taxAmount" yaml:"taxAmount"`
	TotalAmount     float64 `json:"totalAmount" yaml:"totalAmount"`
}

// Validate reports the first value the sizing engine cannot derive from.
// Zero consumption is valid.
func (r Record) Validate() error {
	if strings.TrimSpace(r.ReferenceNumber) == "" {
		return errors.NewMalformedRecordError("referenceNumber", nil, "is required")
	}

	numbers := []struct {
		field string
		value float64
	}{
		{"unitsConsumed", r.UnitsConsumed},
		{"ratePerUnit", r.RatePerUnit},
		{"amount", r.Amount},
		{"taxRate", r.TaxRate},
		{"taxAmount", r.TaxAmount},
		{"totalAmount", r.TotalAmount},
	}
	for _, n := range numbers {
		if math.IsNaN(n.value) || math.IsInf(n.value, 0) {
			return errors.NewMalformedRecordError(n.field, n.value, "must be a finite number").
				WithReference(r.ReferenceNumber)
		}
	}

	for _, n := range numbers[:2] {
		if n.value < 0 {
			return errors.NewMalformedRecordError(n.field, n.value, "must not be negative").
				WithReference(r.ReferenceNumber)
		}
	}
	if r.TaxRate < 0 {
		return errors.NewMalformedRecordError("taxRate", r.TaxRate, "must not be negative").
			WithReference(r.ReferenceNumber)
	}
	return nil
}

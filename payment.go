package finovate

import (
	"encoding/json"
	"fmt"

	"github.com/etnz/finovate/date"
)

// Allocation tells which part of a loan a payment reduces.
type Allocation string

const (
	// Unallocated is the allocation of payments on items other than loans.
	Unallocated Allocation = ""
	// Capital payments reduce the loan principal.
	Capital Allocation = "capital"
	// Interest payments are pure interest and leave the principal untouched.
	Interest Allocation = "interest"
)

// ParseAllocation parses an allocation, accepting the historical spelling "interes".
func ParseAllocation(s string) (Allocation, error) {
	switch s {
	case "":
		return Unallocated, nil
	case "capital":
		return Capital, nil
	case "interest", "interes":
		return Interest, nil
	default:
		return Unallocated, fmt.Errorf("%w: unknown allocation %q", ErrValidation, s)
	}
}

// Label returns the text printed on documents for this allocation.
func (a Allocation) Label() string {
	switch a {
	case Capital:
		return "Abono a Capital"
	case Interest:
		return "Pago de Intereses"
	default:
		return ""
	}
}

func (a *Allocation) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseAllocation(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// PaymentMethods are the method labels offered when recording a payment.
// Any other free text is accepted.
var PaymentMethods = []string{"Efectivo", "Transferencia", "Tarjeta", "Otro"}

// DefaultPaymentMethod is used when a payment is recorded without method.
const DefaultPaymentMethod = "Efectivo"

// Payment is an amount received (or paid, for debts) on a financial item.
//
// Payments are immutable once recorded, except for the ReceiptGenerated flag.
type Payment struct {
	ID               string     `json:"id"`
	Amount           Money      `json:"amount" validate:"gt=0"`
	Date             date.Date  `json:"date" validate:"required"`
	Method           string     `json:"method" validate:"required"`
	ReceiptGenerated bool       `json:"receiptGenerated"`
	Allocation       Allocation `json:"allocation,omitempty"`
}

// NewPayment returns a payment to be recorded with Ledger.AddPayment.
func NewPayment(day date.Date, amount Money, method string, allocation Allocation) Payment {
	return Payment{Date: day, Amount: amount, Method: method, Allocation: allocation}
}

// Validate checks the fields a user has to provide.
func (p Payment) Validate() error {
	return validateStruct("payment", p)
}

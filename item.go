package finovate

import (
	"fmt"
	"strings"

	"github.com/etnz/finovate/date"
)

// Kind identifies the variant of a financial item.
type Kind string

// Item kinds.
const (
	KindLoan        Kind = "loan"
	KindRental      Kind = "rental"
	KindDebt        Kind = "debt"
	KindOtherIncome Kind = "other-income"
)

// Kinds lists all item kinds.
var Kinds = []Kind{KindLoan, KindRental, KindDebt, KindOtherIncome}

// ParseKind parses a kind name. It accepts the canonical names, a few short
// aliases, and the labels used by earlier versions of the data files.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "loan", "préstamo", "prestamo":
		return KindLoan, nil
	case "rental", "rent", "arriendo":
		return KindRental, nil
	case "debt", "deuda":
		return KindDebt, nil
	case "other-income", "income", "other", "otro ingreso":
		return KindOtherIncome, nil
	default:
		return "", fmt.Errorf("%w: unknown item type %q", ErrValidation, s)
	}
}

// Label returns the name of the kind as printed on documents.
func (k Kind) Label() string {
	switch k {
	case KindLoan:
		return "Préstamo"
	case KindRental:
		return "Arriendo"
	case KindDebt:
		return "Deuda"
	case KindOtherIncome:
		return "Otro Ingreso"
	default:
		return string(k)
	}
}

// Counterparty is the person on the other side of a financial item.
type Counterparty struct {
	Name  string `json:"personName" validate:"required"`
	ID    string `json:"personId,omitempty"`
	Phone string `json:"personPhone,omitempty"`
}

// Header holds the fields shared by every kind of item.
type Header struct {
	ID           string       `json:"id"`
	Counterparty Counterparty `json:"counterparty"`
	Description  string       `json:"description" validate:"required"`
	StartDate    date.Date    `json:"startDate" validate:"required"`
	// Payments are in insertion order, which is not necessarily chronological.
	Payments []Payment `json:"payments"`
}

// Head returns the shared fields of the item.
func (h Header) Head() Header { return h }

// Payment returns the payment with the given id.
func (h Header) Payment(id string) (Payment, bool) {
	for _, p := range h.Payments {
		if p.ID == id {
			return p, true
		}
	}
	return Payment{}, false
}

// Item is a financial record. It is one of Loan, Rental, Debt or OtherIncome.
//
// Items are values: methods that change an item return a modified copy.
type Item interface {
	Kind() Kind
	Head() Header
	Validate() error
	withHead(Header) Item
}

// Loan is money lent to the counterparty.
type Loan struct {
	Header
	Principal    Money   `json:"principal" validate:"gt=0"`
	InterestRate Percent `json:"interestRate" validate:"gte=0"`
	Term         string  `json:"term"`
	// Installment is the expected monthly amount, zero when not tracked.
	Installment Money `json:"monthlyAmount"`
}

// Rental is a monthly rent collected from the counterparty.
type Rental struct {
	Header
	MonthlyAmount Money `json:"monthlyAmount" validate:"gt=0"`
	PaymentDay    int   `json:"paymentDay" validate:"min=1,max=31"`
	// Principal is the value of the rented property, zero when not tracked.
	// It is the headline amount of the rental when present.
	Principal Money `json:"principal,omitempty"`
}

// Debt is money owed to the counterparty.
type Debt struct {
	Header
	Principal Money     `json:"principal" validate:"gt=0"`
	DueDate   date.Date `json:"dueDate" validate:"required"`
}

// OtherIncome is any other amount received.
type OtherIncome struct {
	Header
	Principal Money `json:"principal" validate:"gt=0"`
	// MonthlyAmount is the amount of a recurring income, used when there is no principal.
	MonthlyAmount Money `json:"monthlyAmount,omitempty"`
}

func (Loan) Kind() Kind        { return KindLoan }
func (Rental) Kind() Kind      { return KindRental }
func (Debt) Kind() Kind        { return KindDebt }
func (OtherIncome) Kind() Kind { return KindOtherIncome }

func (t Loan) withHead(h Header) Item        { t.Header = h; return t }
func (t Rental) withHead(h Header) Item      { t.Header = h; return t }
func (t Debt) withHead(h Header) Item        { t.Header = h; return t }
func (t OtherIncome) withHead(h Header) Item { t.Header = h; return t }

func (t Loan) Validate() error        { return validateStruct("loan", t) }
func (t Rental) Validate() error      { return validateStruct("rental", t) }
func (t Debt) Validate() error        { return validateStruct("debt", t) }
func (t OtherIncome) Validate() error { return validateStruct("other income", t) }

// NewLoan returns a loan to be recorded with Ledger.AddItem.
func NewLoan(who Counterparty, description string, start date.Date, principal Money, rate Percent, term string) Loan {
	return Loan{
		Header:       Header{Counterparty: who, Description: description, StartDate: start},
		Principal:    principal,
		InterestRate: rate,
		Term:         term,
	}
}

// NewRental returns a rental to be recorded with Ledger.AddItem.
func NewRental(who Counterparty, description string, start date.Date, monthly Money, paymentDay int) Rental {
	return Rental{
		Header:        Header{Counterparty: who, Description: description, StartDate: start},
		MonthlyAmount: monthly,
		PaymentDay:    paymentDay,
	}
}

// NewDebt returns a debt to be recorded with Ledger.AddItem.
func NewDebt(who Counterparty, description string, start date.Date, principal Money, due date.Date) Debt {
	return Debt{
		Header:    Header{Counterparty: who, Description: description, StartDate: start},
		Principal: principal,
		DueDate:   due,
	}
}

// NewOtherIncome returns an income to be recorded with Ledger.AddItem.
func NewOtherIncome(who Counterparty, description string, start date.Date, amount Money) OtherIncome {
	return OtherIncome{
		Header:    Header{Counterparty: who, Description: description, StartDate: start},
		Principal: amount,
	}
}

// Amount returns the headline amount of an item: the principal of loans and
// debts. Rentals and other incomes use their principal when present, else
// their monthly amount.
func Amount(it Item) Money {
	switch v := it.(type) {
	case Loan:
		return v.Principal
	case Rental:
		return firstNonZero(v.Principal, v.MonthlyAmount)
	case Debt:
		return v.Principal
	case OtherIncome:
		return firstNonZero(v.Principal, v.MonthlyAmount)
	default:
		return Money{}
	}
}

// withPayment returns a copy of it with p appended to its payments.
func withPayment(it Item, p Payment) Item {
	h := it.Head()
	payments := make([]Payment, len(h.Payments), len(h.Payments)+1)
	copy(payments, h.Payments)
	h.Payments = append(payments, p)
	return it.withHead(h)
}

func firstNonZero(amounts ...Money) Money {
	for _, m := range amounts {
		if !m.IsZero() {
			return m
		}
	}
	return Money{}
}

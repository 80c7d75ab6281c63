package finovate

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/etnz/finovate/date"
)

// InvoiceDetails are the fields of a collection invoice chosen by the user.
type InvoiceDetails struct {
	Amount  Money     `json:"amount" validate:"gt=0"`
	Concept string    `json:"concept" validate:"required"`
	DueDate date.Date `json:"dueDate" validate:"required"`
}

func (d InvoiceDetails) Validate() error { return validateStruct("invoice", d) }

// defaultInstallments is the number of installments assumed when a loan term has no number.
const defaultInstallments = 12

// SuggestInvoice returns the invoice details proposed for an item:
//
//   - the monthly amount when the item has one;
//   - for an item with a principal and at least one payment, the principal
//     divided by the number of installments read from the term;
//   - the principal otherwise.
func SuggestInvoice(it Item, today date.Date) InvoiceDetails {
	h := it.Head()
	d := InvoiceDetails{
		Concept: fmt.Sprintf("Cuota de %s - %s", strings.ToLower(it.Kind().Label()), h.Description),
		DueDate: today,
	}

	var monthly, principal Money
	var term string
	switch v := it.(type) {
	case Loan:
		monthly, principal, term = v.Installment, v.Principal, v.Term
	case Rental:
		monthly, principal = v.MonthlyAmount, v.Principal
	case Debt:
		principal = v.Principal
	case OtherIncome:
		monthly, principal = v.MonthlyAmount, v.Principal
	}

	switch {
	case !monthly.IsZero():
		d.Amount = monthly
	case !principal.IsZero() && len(h.Payments) > 0:
		n := leadingInt(term)
		if n <= 0 {
			n = defaultInstallments
		}
		d.Amount = principal.DivInt(int64(n))
	default:
		d.Amount = principal
	}
	return d
}

// leadingInt parses the integer at the start of s, like "12" in "12 meses". It returns 0 if there is none.
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) })
	if end < 0 {
		end = len(s)
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

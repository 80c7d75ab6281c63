package finovate

import (
	"slices"

	"github.com/etnz/finovate/date"
)

// Balance is the repayment state of a loan or a debt.
type Balance struct {
	Principal    Money
	TotalPaid    Money // all payments
	CapitalPaid  Money // payments that reduce the principal
	InterestPaid Money // interest payments, loans only
	// Remaining is the principal minus the capital paid. It is negative on overpayment.
	Remaining Money
}

// BalanceOf computes the balance of a loan or a debt. ok is false for the
// other kinds of items, that have no balance.
//
// On loans only capital allocated payments reduce the principal; on debts
// every payment does, whatever its allocation.
func BalanceOf(it Item) (b Balance, ok bool) {
	switch v := it.(type) {
	case Loan:
		b.Principal = v.Principal
		for _, p := range v.Payments {
			b.TotalPaid = b.TotalPaid.Add(p.Amount)
			switch p.Allocation {
			case Capital:
				b.CapitalPaid = b.CapitalPaid.Add(p.Amount)
			case Interest:
				b.InterestPaid = b.InterestPaid.Add(p.Amount)
			}
		}
	case Debt:
		b.Principal = v.Principal
		for _, p := range v.Payments {
			b.TotalPaid = b.TotalPaid.Add(p.Amount)
			b.CapitalPaid = b.CapitalPaid.Add(p.Amount)
		}
	default:
		return Balance{}, false
	}
	b.Remaining = b.Principal.Sub(b.CapitalPaid)
	return b, true
}

// TotalPaid returns the sum of all payments recorded on an item.
func TotalPaid(it Item) Money {
	var total Money
	for _, p := range it.Head().Payments {
		total = total.Add(p.Amount)
	}
	return total
}

// StatementLine is a line of a loan statement.
type StatementLine struct {
	Date        date.Date
	Description string
	Amount      Money
	// Balance is the remaining capital after this line.
	Balance Money
}

// LoanStatement returns the running capital balance of a loan: an opening
// line for the principal, then one line per payment in date order. Only
// capital payments decrease the balance.
func LoanStatement(l Loan) []StatementLine {
	payments := slices.Clone(l.Payments)
	slices.SortStableFunc(payments, func(a, b Payment) int { return a.Date.Compare(b.Date) })

	lines := make([]StatementLine, 0, len(payments)+1)
	running := l.Principal
	lines = append(lines, StatementLine{
		Date:        l.StartDate,
		Description: "Monto inicial del préstamo",
		Amount:      l.Principal,
		Balance:     running,
	})
	for _, p := range payments {
		if p.Allocation == Capital {
			running = running.Sub(p.Amount)
		}
		desc := Interest.Label()
		if p.Allocation == Capital {
			desc = Capital.Label()
		}
		lines = append(lines, StatementLine{Date: p.Date, Description: desc, Amount: p.Amount, Balance: running})
	}
	return lines
}

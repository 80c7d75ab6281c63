package finovate

// Summary holds the balance sheet figures of a ledger.
type Summary struct {
	TotalSavings     Money // sum of bank account balances
	LoansReceivable  Money // sum of loan principals
	OtherAssets      Money // rentals and other incomes
	TotalAssets      Money
	TotalLiabilities Money // sum of debt principals
	// NetWorth is TotalAssets minus TotalLiabilities, it may be negative.
	NetWorth Money
}

// Summarize computes the balance sheet of a snapshot.
//
// It is a pure function of the items and accounts: it is meant to be called
// again on every read rather than cached.
func Summarize(l Ledger) Summary {
	var s Summary
	for _, a := range l.accounts {
		s.TotalSavings = s.TotalSavings.Add(a.Balance)
	}
	for _, it := range l.items {
		switch v := it.(type) {
		case Loan:
			s.LoansReceivable = s.LoansReceivable.Add(v.Principal)
		case Rental, OtherIncome:
			s.OtherAssets = s.OtherAssets.Add(Amount(v))
		case Debt:
			s.TotalLiabilities = s.TotalLiabilities.Add(v.Principal)
		}
	}
	s.TotalAssets = Sum(s.LoansReceivable, s.OtherAssets, s.TotalSavings)
	s.NetWorth = s.TotalAssets.Sub(s.TotalLiabilities)
	return s
}

// Stats are the headline figures of the dashboard.
type Stats struct {
	TotalSavings   Money
	TotalLent      Money // sum of loan principals
	TotalDebt      Money // sum of debt principals
	TotalCollected Money // payments received on every item that is not a debt
	Items          int
	Payments       int
}

// Dashboard computes the dashboard figures of a snapshot.
func Dashboard(l Ledger) Stats {
	var s Stats
	for _, a := range l.accounts {
		s.TotalSavings = s.TotalSavings.Add(a.Balance)
	}
	for _, it := range l.items {
		s.Items++
		s.Payments += len(it.Head().Payments)
		switch v := it.(type) {
		case Loan:
			s.TotalLent = s.TotalLent.Add(v.Principal)
		case Debt:
			s.TotalDebt = s.TotalDebt.Add(v.Principal)
		}
		if it.Kind() != KindDebt {
			s.TotalCollected = s.TotalCollected.Add(TotalPaid(it))
		}
	}
	return s
}

package finovate

import (
	"testing"

	"github.com/etnz/finovate/date"
)

// d is a helper for test to create a date from a const
func d(s string) date.Date { return date.MustParse(s) }

var (
	ana  = Counterparty{Name: "Ana Pérez", ID: "1020", Phone: "555-0101"}
	luis = Counterparty{Name: "Luis Gómez"}
)

// testUser returns a complete user profile.
func testUser() User {
	return User{
		Name:       "María López",
		Age:        34,
		Address:    "Calle 10 #20-30",
		Phone:      "555-0100",
		Email:      "maria@example.com",
		Occupation: "Contadora",
		Password:   "1234",
	}
}

// mustAdd records an item and fails the test on error.
func mustAdd(t *testing.T, l Ledger, it Item) (Ledger, Item) {
	t.Helper()
	l, it, err := l.AddItem(it)
	if err != nil {
		t.Fatalf("AddItem(%v) unexpected error: %v", it, err)
	}
	return l, it
}

// mustPay records a payment and fails the test on error.
func mustPay(t *testing.T, l Ledger, itemID string, p Payment) (Ledger, Payment) {
	t.Helper()
	l, p, err := l.AddPayment(itemID, p)
	if err != nil {
		t.Fatalf("AddPayment(%q) unexpected error: %v", itemID, err)
	}
	return l, p
}

// assertMoney fails the test if got is not want.
func assertMoney(t *testing.T, name string, got, want Money) {
	t.Helper()
	if !got.Equal(want) {
		t.Errorf("%s = %s, want %s", name, got.Fixed(), want.Fixed())
	}
}

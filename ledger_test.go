package finovate

import (
	"errors"
	"slices"
	"testing"

	"github.com/etnz/finovate/date"
)

func TestLedger_AddItem(t *testing.T) {
	var l Ledger
	loan := NewLoan(ana, "Préstamo para la moto", d("2025-01-10"), M(1000), 2, "12 meses")

	l2, added := mustAdd(t, l, loan)
	if added.Head().ID == "" {
		t.Errorf("AddItem() did not assign an id")
	}
	if added.Head().Payments == nil || len(added.Head().Payments) != 0 {
		t.Errorf("AddItem() payments = %v, want empty", added.Head().Payments)
	}
	if len(l.Items()) != 0 {
		t.Errorf("AddItem() modified the receiver")
	}
	if got, ok := l2.Item(added.Head().ID); !ok || got.Kind() != KindLoan {
		t.Errorf("Item(%q) = %v, %v, want the loan", added.Head().ID, got, ok)
	}
}

func TestLedger_AddItem_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		item Item
	}{
		{"loan without principal", NewLoan(ana, "x", d("2025-01-10"), M(0), 0, "")},
		{"loan with negative rate", NewLoan(ana, "x", d("2025-01-10"), M(10), -1, "")},
		{"rental without counterparty", NewRental(Counterparty{}, "x", d("2025-01-10"), M(500), 5)},
		{"rental with payment day 32", NewRental(ana, "x", d("2025-01-10"), M(500), 32)},
		{"debt without due date", NewDebt(ana, "x", d("2025-01-10"), M(10), date.Date{})},
		{"income without description", NewOtherIncome(ana, "", d("2025-01-10"), M(10))},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l, _, err := Ledger{}.AddItem(tc.item)
			if !errors.Is(err, ErrValidation) {
				t.Errorf("AddItem() error = %v, want ErrValidation", err)
			}
			if len(l.Items()) != 0 {
				t.Errorf("AddItem() recorded an invalid item")
			}
		})
	}
}

func TestLedger_DeleteItem(t *testing.T) {
	l, a := mustAdd(t, Ledger{}, NewOtherIncome(ana, "Venta", d("2025-03-01"), M(200)))
	l, b := mustAdd(t, l, NewOtherIncome(luis, "Bono", d("2025-03-02"), M(300)))
	l, _ = mustPay(t, l, a.Head().ID, NewPayment(d("2025-03-05"), M(50), "", Unallocated))

	l, err := l.DeleteItem(a.Head().ID)
	if err != nil {
		t.Fatalf("DeleteItem() unexpected error: %v", err)
	}
	items := l.Items()
	if len(items) != 1 || items[0].Head().ID != b.Head().ID {
		t.Errorf("DeleteItem() left %v, want only %q", items, b.Head().ID)
	}
	if _, err := l.DeleteItem("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteItem(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestLedger_AddPayment(t *testing.T) {
	l, loan := mustAdd(t, Ledger{}, NewLoan(ana, "Moto", d("2025-01-10"), M(1000), 2, "12"))
	l, rent := mustAdd(t, l, NewRental(luis, "Apartamento", d("2025-01-01"), M(500), 5))

	testCases := []struct {
		name           string
		itemID         string
		payment        Payment
		wantAllocation Allocation
		wantMethod     string
	}{
		{
			name:           "loan payment defaults to capital",
			itemID:         loan.Head().ID,
			payment:        NewPayment(d("2025-02-10"), M(100), "Transferencia", Unallocated),
			wantAllocation: Capital,
			wantMethod:     "Transferencia",
		},
		{
			name:           "loan interest payment",
			itemID:         loan.Head().ID,
			payment:        NewPayment(d("2025-02-10"), M(20), "", Interest),
			wantAllocation: Interest,
			wantMethod:     DefaultPaymentMethod,
		},
		{
			name:           "rental payment has no allocation",
			itemID:         rent.Head().ID,
			payment:        NewPayment(d("2025-02-05"), M(500), "Efectivo", Capital),
			wantAllocation: Unallocated,
			wantMethod:     "Efectivo",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l2, p := mustPay(t, l, tc.itemID, tc.payment)
			if p.ID == "" {
				t.Errorf("AddPayment() did not assign an id")
			}
			if p.Allocation != tc.wantAllocation {
				t.Errorf("AddPayment() allocation = %q, want %q", p.Allocation, tc.wantAllocation)
			}
			if p.Method != tc.wantMethod {
				t.Errorf("AddPayment() method = %q, want %q", p.Method, tc.wantMethod)
			}
			if p.ReceiptGenerated {
				t.Errorf("AddPayment() receipt flag is set")
			}
			it, _ := l2.Item(tc.itemID)
			if got, ok := it.Head().Payment(p.ID); !ok || !got.Amount.Equal(tc.payment.Amount) {
				t.Errorf("Payment(%q) = %v, %v, want the recorded payment", p.ID, got, ok)
			}
			// the original snapshot is untouched.
			it, _ = l.Item(tc.itemID)
			if n := len(it.Head().Payments); n != 0 {
				t.Errorf("AddPayment() modified the receiver, it has %d payments", n)
			}
		})
	}
}

func TestLedger_AddPayment_Invalid(t *testing.T) {
	l, loan := mustAdd(t, Ledger{}, NewLoan(ana, "Moto", d("2025-01-10"), M(1000), 2, "12"))

	if _, _, err := l.AddPayment(loan.Head().ID, NewPayment(d("2025-02-10"), M(0), "", Capital)); !errors.Is(err, ErrValidation) {
		t.Errorf("AddPayment(zero amount) error = %v, want ErrValidation", err)
	}
	if _, _, err := l.AddPayment(loan.Head().ID, NewPayment(date.Date{}, M(10), "", Capital)); !errors.Is(err, ErrValidation) {
		t.Errorf("AddPayment(no date) error = %v, want ErrValidation", err)
	}
	if _, _, err := l.AddPayment("nope", NewPayment(d("2025-02-10"), M(10), "", Capital)); !errors.Is(err, ErrNotFound) {
		t.Errorf("AddPayment(unknown item) error = %v, want ErrNotFound", err)
	}
}

func TestLedger_MarkReceiptGenerated(t *testing.T) {
	l, loan := mustAdd(t, Ledger{}, NewLoan(ana, "Moto", d("2025-01-10"), M(1000), 2, "12"))
	l, p := mustPay(t, l, loan.Head().ID, NewPayment(d("2025-02-10"), M(100), "", Capital))

	l2, err := l.MarkReceiptGenerated(loan.Head().ID, p.ID)
	if err != nil {
		t.Fatalf("MarkReceiptGenerated() unexpected error: %v", err)
	}
	it, _ := l2.Item(loan.Head().ID)
	if got, _ := it.Head().Payment(p.ID); !got.ReceiptGenerated {
		t.Errorf("MarkReceiptGenerated() did not set the flag")
	}
	it, _ = l.Item(loan.Head().ID)
	if got, _ := it.Head().Payment(p.ID); got.ReceiptGenerated {
		t.Errorf("MarkReceiptGenerated() modified the receiver")
	}
	if _, err := l.MarkReceiptGenerated(loan.Head().ID, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("MarkReceiptGenerated(unknown payment) error = %v, want ErrNotFound", err)
	}
}

func TestLedger_FindItem(t *testing.T) {
	l := NewLedger(nil, []Item{
		OtherIncome{Header: Header{ID: "abc-1", Counterparty: ana, Description: "a"}, Principal: M(1)},
		OtherIncome{Header: Header{ID: "abd-2", Counterparty: ana, Description: "b"}, Principal: M(1)},
	}, nil, nil)

	testCases := []struct {
		prefix  string
		wantID  string
		wantErr error
	}{
		{prefix: "abc-1", wantID: "abc-1"},
		{prefix: "abd", wantID: "abd-2"},
		{prefix: "ab", wantErr: ErrValidation},
		{prefix: "x", wantErr: ErrNotFound},
		{prefix: "", wantErr: ErrNotFound},
	}
	for _, tc := range testCases {
		t.Run(tc.prefix, func(t *testing.T) {
			it, err := l.FindItem(tc.prefix)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Errorf("FindItem(%q) error = %v, want %v", tc.prefix, err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("FindItem(%q) unexpected error: %v", tc.prefix, err)
			}
			if it.Head().ID != tc.wantID {
				t.Errorf("FindItem(%q) = %q, want %q", tc.prefix, it.Head().ID, tc.wantID)
			}
		})
	}
}

func TestLedger_Reminders(t *testing.T) {
	var l Ledger
	var err error
	for _, r := range []Reminder{
		{Text: "tercero", Date: d("2025-03-01")},
		{Text: "primero", Date: d("2025-01-01")},
		{Text: "segundo", Date: d("2025-02-01")},
	} {
		l, _, err = l.AddReminder(r)
		if err != nil {
			t.Fatalf("AddReminder() unexpected error: %v", err)
		}
	}
	var got []string
	for _, r := range l.Reminders() {
		got = append(got, r.Text)
	}
	if want := []string{"primero", "segundo", "tercero"}; !slices.Equal(got, want) {
		t.Errorf("Reminders() = %v, want %v", got, want)
	}

	first := l.Reminders()[0]
	l2, toggled, err := l.ToggleReminder(first.ID)
	if err != nil {
		t.Fatalf("ToggleReminder() unexpected error: %v", err)
	}
	if !toggled.Completed || !l2.Reminders()[0].Completed {
		t.Errorf("ToggleReminder() did not complete the reminder")
	}
	if l.Reminders()[0].Completed {
		t.Errorf("ToggleReminder() modified the receiver")
	}
	l3, _, _ := l2.ToggleReminder(first.ID)
	if l3.Reminders()[0].Completed {
		t.Errorf("ToggleReminder() twice should restore the flag")
	}

	l4, err := l.DeleteReminder(first.ID)
	if err != nil || len(l4.Reminders()) != 2 {
		t.Errorf("DeleteReminder() = %v reminders, %v, want 2, nil", len(l4.Reminders()), err)
	}
	if _, _, err := l.AddReminder(Reminder{Date: d("2025-01-01")}); !errors.Is(err, ErrValidation) {
		t.Errorf("AddReminder(no text) error = %v, want ErrValidation", err)
	}
}

func TestLedger_Accounts(t *testing.T) {
	l, a, err := Ledger{}.AddAccount(BankAccount{BankName: "Banco Azul", AccountName: "Ahorros", Balance: M(2500)})
	if err != nil {
		t.Fatalf("AddAccount() unexpected error: %v", err)
	}
	if a.ID == "" || len(l.Accounts()) != 1 {
		t.Errorf("AddAccount() = %v, want one account with an id", l.Accounts())
	}
	if _, _, err := l.AddAccount(BankAccount{BankName: "Banco Azul"}); !errors.Is(err, ErrValidation) {
		t.Errorf("AddAccount(no account name) error = %v, want ErrValidation", err)
	}
	l, err = l.DeleteAccount(a.ID)
	if err != nil || len(l.Accounts()) != 0 {
		t.Errorf("DeleteAccount() = %v, %v, want no account", l.Accounts(), err)
	}
	if _, err := l.DeleteAccount(a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteAccount(unknown) error = %v, want ErrNotFound", err)
	}
}

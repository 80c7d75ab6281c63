package finovate

import "testing"

func TestNextEvent(t *testing.T) {
	testCases := []struct {
		name     string
		item     Item
		today    string
		wantOK   bool
		wantDate string
		wantKind EventKind
		wantLeft int
	}{
		{
			name:     "rental later this month",
			item:     Rental{Header: Header{ID: "r"}, MonthlyAmount: M(500), PaymentDay: 25},
			today:    "2025-03-20",
			wantOK:   true,
			wantDate: "2025-03-25",
			wantKind: Collection,
			wantLeft: 5,
		},
		{
			name:     "rental day already passed",
			item:     Rental{Header: Header{ID: "r"}, MonthlyAmount: M(500), PaymentDay: 15},
			today:    "2025-03-20",
			wantOK:   true,
			wantDate: "2025-04-15",
			wantKind: Collection,
			wantLeft: 26,
		},
		{
			name:     "rental due today",
			item:     Rental{Header: Header{ID: "r"}, MonthlyAmount: M(500), PaymentDay: 20},
			today:    "2025-03-20",
			wantOK:   true,
			wantDate: "2025-03-20",
			wantKind: Collection,
			wantLeft: 0,
		},
		{
			name:     "rental day 31 in february rolls over",
			item:     Rental{Header: Header{ID: "r"}, MonthlyAmount: M(500), PaymentDay: 31},
			today:    "2025-02-10",
			wantOK:   true,
			wantDate: "2025-03-03",
			wantKind: Collection,
			wantLeft: 21,
		},
		{
			name:   "rental without payment day",
			item:   Rental{Header: Header{ID: "r"}, MonthlyAmount: M(500)},
			today:  "2025-03-20",
			wantOK: false,
		},
		{
			name:     "loan next anniversary",
			item:     Loan{Header: Header{ID: "l", StartDate: d("2025-01-10")}, Principal: M(1000), Installment: M(100)},
			today:    "2025-03-20",
			wantOK:   true,
			wantDate: "2025-04-10",
			wantKind: Collection,
			wantLeft: 21,
		},
		{
			name:     "loan starting in the future",
			item:     Loan{Header: Header{ID: "l", StartDate: d("2025-04-01")}, Principal: M(1000)},
			today:    "2025-03-20",
			wantOK:   true,
			wantDate: "2025-04-01",
			wantKind: Collection,
			wantLeft: 12,
		},
		{
			name:     "debt due date is a payment",
			item:     Debt{Header: Header{ID: "d"}, Principal: M(400), DueDate: d("2025-03-27")},
			today:    "2025-03-20",
			wantOK:   true,
			wantDate: "2025-03-27",
			wantKind: Settlement,
			wantLeft: 7,
		},
		{
			name:   "debt due yesterday",
			item:   Debt{Header: Header{ID: "d"}, Principal: M(400), DueDate: d("2025-03-19")},
			today:  "2025-03-20",
			wantOK: false,
		},
		{
			name:   "other income",
			item:   OtherIncome{Header: Header{ID: "o"}, Principal: M(10)},
			today:  "2025-03-20",
			wantOK: false,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e, ok := NextEvent(tc.item, d(tc.today))
			if ok != tc.wantOK {
				t.Fatalf("NextEvent() ok = %v, want %v", ok, tc.wantOK)
			}
			if !ok {
				return
			}
			if e.Date.String() != tc.wantDate {
				t.Errorf("NextEvent() date = %s, want %s", e.Date, tc.wantDate)
			}
			if e.Kind != tc.wantKind {
				t.Errorf("NextEvent() kind = %q, want %q", e.Kind, tc.wantKind)
			}
			if e.DaysLeft != tc.wantLeft {
				t.Errorf("NextEvent() days left = %d, want %d", e.DaysLeft, tc.wantLeft)
			}
		})
	}
}

func TestUpcoming(t *testing.T) {
	today := d("2025-03-20")
	items := []Item{
		Debt{Header: Header{ID: "far", Counterparty: ana}, Principal: M(400), DueDate: today.Add(40)},
		Rental{Header: Header{ID: "rent", Counterparty: luis}, MonthlyAmount: M(500), PaymentDay: 15},
		Debt{Header: Header{ID: "soon", Counterparty: ana}, Principal: M(100), DueDate: today.Add(3)},
		Debt{Header: Header{ID: "edge", Counterparty: ana}, Principal: M(100), DueDate: today.Add(Horizon)},
		Debt{Header: Header{ID: "past", Counterparty: ana}, Principal: M(100), DueDate: today.Add(-1)},
		OtherIncome{Header: Header{ID: "inc"}, Principal: M(10)},
	}

	events := Upcoming(items, today)

	var got []string
	for _, e := range events {
		got = append(got, e.ItemID)
	}
	want := []string{"soon", "rent", "edge"}
	if len(got) != len(want) {
		t.Fatalf("Upcoming() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Upcoming() = %v, want %v", got, want)
			break
		}
	}
	if !events[0].Urgent() || events[1].Urgent() {
		t.Errorf("Urgent() = %v, %v, want true, false", events[0].Urgent(), events[1].Urgent())
	}
	assertMoney(t, "rent amount", events[1].Amount, M(500))

	// a pure function of its inputs.
	again := Upcoming(items, today)
	if len(again) != len(events) {
		t.Errorf("Upcoming() is not stable: %d then %d events", len(events), len(again))
	}
}

package finovate

import (
	"slices"

	"github.com/etnz/finovate/date"
)

// Horizon is the number of days ahead in which events are projected.
const Horizon = 30

// UrgentDays is the number of days under which an upcoming event is urgent.
const UrgentDays = 7

// EventKind tells whether an upcoming event is money to collect or to pay.
type EventKind string

const (
	Collection EventKind = "collection"
	Settlement EventKind = "payment"
)

// Label returns the name of the event kind as printed in reports.
func (k EventKind) Label() string {
	if k == Settlement {
		return "Pago"
	}
	return "Cobro"
}

// Event is the next due date of an item.
type Event struct {
	ItemID       string
	Counterparty string
	Kind         EventKind
	Date         date.Date
	Amount       Money
	DaysLeft     int
}

// Urgent reports whether the event is due within UrgentDays.
func (e Event) Urgent() bool { return e.DaysLeft <= UrgentDays }

// NextEvent projects the next due date of an item on or after today.
//
//   - a rental with a payment day is due on that day of the current month, or
//     the month after when the day has passed;
//   - a loan with a start date is due on its next monthly anniversary;
//   - a debt with a due date is due on that date, without recurrence.
//
// ok is false when the item has no such date, or when the date has passed.
func NextEvent(it Item, today date.Date) (e Event, ok bool) {
	h := it.Head()
	e = Event{ItemID: h.ID, Counterparty: h.Counterparty.Name, Kind: Collection}
	switch v := it.(type) {
	case Rental:
		if v.PaymentDay == 0 {
			return Event{}, false
		}
		e.Date = date.New(today.Year(), today.Month(), v.PaymentDay)
		if e.Date.Before(today) {
			e.Date = e.Date.AddMonth(1)
		}
		e.Amount = v.MonthlyAmount
	case Loan:
		if v.StartDate.IsZero() {
			return Event{}, false
		}
		// step month by month, like a calendar would.
		e.Date = v.StartDate
		for e.Date.Before(today) {
			e.Date = e.Date.AddMonth(1)
		}
		e.Amount = v.Installment
	case Debt:
		if v.DueDate.IsZero() {
			return Event{}, false
		}
		e.Date = v.DueDate
		e.Amount = v.Principal
		e.Kind = Settlement
	default:
		return Event{}, false
	}
	if e.Date.Before(today) {
		return Event{}, false
	}
	e.DaysLeft = today.DaysUntil(e.Date)
	return e, true
}

// Upcoming returns the events due within the Horizon, sorted by date.
func Upcoming(items []Item, today date.Date) []Event {
	window := date.Next(today, Horizon)
	var events []Event
	for _, it := range items {
		e, ok := NextEvent(it, today)
		if !ok || !window.Contains(e.Date) {
			continue
		}
		events = append(events, e)
	}
	slices.SortStableFunc(events, func(a, b Event) int { return a.Date.Compare(b.Date) })
	return events
}

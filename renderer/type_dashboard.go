package renderer

import (
	"github.com/etnz/finovate"
	"github.com/etnz/finovate/date"
)

// Dashboard is the data of the dashboard report.
type Dashboard struct {
	// User is the name of the owner, if registered.
	User  string         `json:"user,omitempty"`
	Date  date.Date      `json:"date"`
	Stats finovate.Stats `json:"stats"`
	// Items lists every item with its payment figures.
	Items    []ItemRow `json:"items"`
	Upcoming Upcoming  `json:"upcoming"`
	// Reminders are the pending reminders, by date.
	Reminders []finovate.Reminder `json:"reminders"`
}

// ItemRow is an item as listed on the dashboard.
type ItemRow struct {
	ID           string         `json:"id"`
	Kind         finovate.Kind  `json:"kind"`
	Counterparty string         `json:"counterparty"`
	Description  string         `json:"description"`
	Amount       finovate.Money `json:"amount"`
	Paid         finovate.Money `json:"paid"`
	// Remaining is the formatted balance, empty for items without one.
	Remaining string `json:"remaining,omitempty"`
}

// NewItemRow summarizes an item in a row.
func NewItemRow(it finovate.Item) ItemRow {
	h := it.Head()
	row := ItemRow{
		ID:           h.ID,
		Kind:         it.Kind(),
		Counterparty: h.Counterparty.Name,
		Description:  h.Description,
		Amount:       finovate.Amount(it),
		Paid:         finovate.TotalPaid(it),
	}
	if b, ok := finovate.BalanceOf(it); ok {
		row.Remaining = b.Remaining.String()
	}
	return row
}

// NewDashboard computes the dashboard of a ledger on a given day.
func NewDashboard(l finovate.Ledger, today date.Date) *Dashboard {
	d := &Dashboard{
		Date:     today,
		Stats:    finovate.Dashboard(l),
		Upcoming: *NewUpcoming(l, today),
	}
	if u, ok := l.User(); ok {
		d.User = u.Name
	}
	for _, it := range l.Items() {
		d.Items = append(d.Items, NewItemRow(it))
	}
	for _, r := range l.Reminders() {
		if !r.Completed {
			d.Reminders = append(d.Reminders, r)
		}
	}
	return d
}

// Summary is the data of the financial summary report.
type Summary struct {
	Date     date.Date              `json:"date"`
	Summary  finovate.Summary       `json:"summary"`
	Accounts []finovate.BankAccount `json:"accounts"`
}

// NewSummary computes the summary of a ledger.
func NewSummary(l finovate.Ledger, today date.Date) *Summary {
	return &Summary{
		Date:     today,
		Summary:  finovate.Summarize(l),
		Accounts: l.Accounts(),
	}
}

// Upcoming is the data of the upcoming events report.
type Upcoming struct {
	Date    date.Date        `json:"date"`
	Horizon int              `json:"horizon"`
	Events  []finovate.Event `json:"events"`
}

// NewUpcoming projects the events of a ledger within the horizon.
func NewUpcoming(l finovate.Ledger, today date.Date) *Upcoming {
	return &Upcoming{
		Date:    today,
		Horizon: finovate.Horizon,
		Events:  finovate.Upcoming(l.Items(), today),
	}
}

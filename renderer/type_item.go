package renderer

import (
	"slices"
	"strconv"

	"github.com/etnz/finovate"
	"github.com/etnz/finovate/date"
)

// Item is the data of the item detail report.
type Item struct {
	Kind        finovate.Kind `json:"kind"`
	Description string        `json:"description"`
	// Fields are the labelled properties of the item, in display order.
	Fields []Field `json:"fields"`
	// Payments are in date order.
	Payments []finovate.Payment `json:"payments"`
}

// Field is a labelled value.
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

func local(d date.Date) string { return d.Format(date.LocalFormat) }

// NewItem describes an item and its payments.
func NewItem(it finovate.Item) *Item {
	h := it.Head()
	v := &Item{Kind: it.Kind(), Description: h.Description}
	add := func(label, value string) {
		if value != "" {
			v.Fields = append(v.Fields, Field{label, value})
		}
	}

	add("ID", h.ID)
	add("Persona", h.Counterparty.Name)
	add("Documento", h.Counterparty.ID)
	add("Teléfono", h.Counterparty.Phone)
	add("Fecha de inicio", local(h.StartDate))
	switch t := it.(type) {
	case finovate.Loan:
		add("Monto principal", t.Principal.String())
		add("Tasa de interés", t.InterestRate.String())
		add("Plazo", t.Term)
		if !t.Installment.IsZero() {
			add("Cuota mensual", t.Installment.String())
		}
	case finovate.Rental:
		add("Valor mensual", t.MonthlyAmount.String())
		add("Día de pago", strconv.Itoa(t.PaymentDay))
	case finovate.Debt:
		add("Monto", t.Principal.String())
		add("Fecha de vencimiento", local(t.DueDate))
	case finovate.OtherIncome:
		add("Monto", t.Principal.String())
	}
	add("Total pagado", finovate.TotalPaid(it).String())
	if b, ok := finovate.BalanceOf(it); ok {
		add("Capital pagado", b.CapitalPaid.String())
		if it.Kind() == finovate.KindLoan {
			add("Intereses pagados", b.InterestPaid.String())
		}
		add("Saldo", b.Remaining.String())
	}

	v.Payments = slices.Clone(h.Payments)
	slices.SortStableFunc(v.Payments, func(a, b finovate.Payment) int { return a.Date.Compare(b.Date) })
	return v
}

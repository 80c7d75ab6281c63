package finovate

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/etnz/finovate/date"
)

// this file contains the json codec of items.
//
// Items are persisted as flat json objects: the shared fields, a "type"
// discriminator and only the fields relevant to that type. The field names
// are the ones of the original data files so that older backups can still be
// read.

// MarshalItem encodes an item in its persisted json form.
func MarshalItem(it Item) ([]byte, error) {
	h := it.Head()
	payments := h.Payments
	if payments == nil {
		payments = []Payment{}
	}

	var w jsonObjectWriter
	w.Append("id", h.ID)
	w.Append("type", it.Kind())
	w.Append("personName", h.Counterparty.Name)
	w.Optional("personId", h.Counterparty.ID)
	w.Optional("personPhone", h.Counterparty.Phone)
	w.Append("description", h.Description)
	w.Optional("startDate", h.StartDate)
	w.Append("payments", payments)

	switch v := it.(type) {
	case Loan:
		w.Append("principal", v.Principal)
		w.Append("interestRate", v.InterestRate)
		w.Append("term", v.Term)
		if !v.Installment.IsZero() {
			w.Append("monthlyAmount", v.Installment)
		}
	case Rental:
		w.Append("monthlyAmount", v.MonthlyAmount)
		w.Append("paymentDay", v.PaymentDay)
		if !v.Principal.IsZero() {
			w.Append("principal", v.Principal)
		}
	case Debt:
		w.Append("principal", v.Principal)
		w.Optional("dueDate", v.DueDate)
	case OtherIncome:
		w.Append("principal", v.Principal)
		if !v.MonthlyAmount.IsZero() {
			w.Append("monthlyAmount", v.MonthlyAmount)
		}
	default:
		return nil, fmt.Errorf("unsupported item type %T", it)
	}
	return w.MarshalJSON()
}

// UnmarshalItem decodes an item from its persisted json form.
//
// Fields that do not belong to the item type are ignored, missing numeric
// fields are zero.
func UnmarshalItem(data []byte) (Item, error) {
	// Use a temporary type that has all possible fields.
	var temp struct {
		Counterparty
		ID            string    `json:"id"`
		Type          string    `json:"type"`
		Description   string    `json:"description"`
		StartDate     date.Date `json:"startDate"`
		Payments      []Payment `json:"payments"`
		DueDate       date.Date `json:"dueDate"`
		Principal     Money     `json:"principal"`
		InterestRate  *Percent  `json:"interestRate"`
		Term          string    `json:"term"`
		MonthlyAmount Money     `json:"monthlyAmount"`
		PaymentDay    *int      `json:"paymentDay"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return nil, fmt.Errorf("could not decode item: %w", err)
	}
	kind, err := ParseKind(temp.Type)
	if err != nil {
		return nil, fmt.Errorf("could not decode item %q: %w", temp.ID, err)
	}

	h := Header{
		ID:           temp.ID,
		Counterparty: temp.Counterparty,
		Description:  temp.Description,
		StartDate:    temp.StartDate,
		Payments:     temp.Payments,
	}
	if h.Payments == nil {
		h.Payments = []Payment{}
	}

	switch kind {
	case KindLoan:
		loan := Loan{Header: h, Principal: temp.Principal, Term: temp.Term, Installment: temp.MonthlyAmount}
		if temp.InterestRate != nil {
			loan.InterestRate = *temp.InterestRate
		}
		return loan, nil
	case KindRental:
		rental := Rental{Header: h, MonthlyAmount: temp.MonthlyAmount, Principal: temp.Principal}
		if temp.PaymentDay != nil {
			rental.PaymentDay = *temp.PaymentDay
		}
		return rental, nil
	case KindDebt:
		return Debt{Header: h, Principal: temp.Principal, DueDate: temp.DueDate}, nil
	default:
		return OtherIncome{Header: h, Principal: temp.Principal, MonthlyAmount: temp.MonthlyAmount}, nil
	}
}

// ItemList is a list of items with a json codec.
type ItemList []Item

// MarshalJSON encodes the list as a json array of persisted items.
func (l ItemList) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('[')
	for i, it := range l {
		if i > 0 {
			b.WriteByte(',')
		}
		data, err := MarshalItem(it)
		if err != nil {
			return nil, err
		}
		b.Write(data)
	}
	b.WriteByte(']')
	return b.Bytes(), nil
}

// UnmarshalJSON decodes a json array of persisted items. null decodes to an empty list.
func (l *ItemList) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return fmt.Errorf("could not decode items: %w", err)
	}
	items := make(ItemList, 0, len(raws))
	for i, raw := range raws {
		it, err := UnmarshalItem(raw)
		if err != nil {
			return fmt.Errorf("item #%d: %w", i, err)
		}
		items = append(items, it)
	}
	*l = items
	return nil
}

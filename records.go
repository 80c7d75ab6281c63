package finovate

import "github.com/etnz/finovate/date"

// Reminder is a free standing note due on a date.
type Reminder struct {
	ID        string    `json:"id"`
	Text      string    `json:"text" validate:"required"`
	Date      date.Date `json:"date" validate:"required"`
	Completed bool      `json:"completed"`
}

func (r Reminder) Validate() error { return validateStruct("reminder", r) }

// BankAccount is a savings account. Its balance is entered by the user, it is
// not derived from payments.
type BankAccount struct {
	ID          string `json:"id"`
	BankName    string `json:"bankName" validate:"required"`
	AccountName string `json:"accountName" validate:"required"`
	Balance     Money  `json:"balance"`
}

func (a BankAccount) Validate() error { return validateStruct("bank account", a) }

package finovate

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Ledger is a snapshot of everything the application knows: the user, the
// financial items with their payments, the reminders and the bank accounts.
//
// A Ledger is immutable: every mutation returns a new Ledger and leaves the
// receiver untouched, so that any snapshot can be handed to the aggregation
// and document functions. The zero value is an empty ledger with no user.
type Ledger struct {
	user      *User
	items     []Item
	reminders []Reminder
	accounts  []BankAccount
}

// NewLedger returns a ledger with the given content. Reminders are sorted by date.
// A nil user means "nobody registered yet".
func NewLedger(user *User, items []Item, reminders []Reminder, accounts []BankAccount) Ledger {
	l := Ledger{
		items:     slices.Clone(items),
		reminders: slices.Clone(reminders),
		accounts:  slices.Clone(accounts),
	}
	if user != nil {
		u := *user
		l.user = &u
	}
	sortReminders(l.reminders)
	return l
}

// newID returns a fresh identifier for any record.
func newID() string { return uuid.NewString() }

// User returns the registered user, if any.
func (l Ledger) User() (User, bool) {
	if l.user == nil {
		return User{}, false
	}
	return *l.user, true
}

// Items returns a copy of the items, in insertion order.
func (l Ledger) Items() []Item { return slices.Clone(l.items) }

// Reminders returns a copy of the reminders, sorted by date.
func (l Ledger) Reminders() []Reminder { return slices.Clone(l.reminders) }

// Accounts returns a copy of the bank accounts, in insertion order.
func (l Ledger) Accounts() []BankAccount { return slices.Clone(l.accounts) }

// IsEmpty reports whether the ledger has neither user nor records.
func (l Ledger) IsEmpty() bool {
	return l.user == nil && len(l.items) == 0 && len(l.reminders) == 0 && len(l.accounts) == 0
}

// Item returns the item with the given id.
func (l Ledger) Item(id string) (Item, bool) {
	i := l.itemIndex(id)
	if i < 0 {
		return nil, false
	}
	return l.items[i], true
}

func (l Ledger) itemIndex(id string) int {
	return slices.IndexFunc(l.items, func(it Item) bool { return it.Head().ID == id })
}

// FindItem returns the item whose id starts with prefix, as long as only one does.
func (l Ledger) FindItem(prefix string) (Item, error) {
	if it, ok := l.Item(prefix); ok {
		return it, nil
	}
	var found []Item
	for _, it := range l.items {
		if prefix != "" && strings.HasPrefix(it.Head().ID, prefix) {
			found = append(found, it)
		}
	}
	switch len(found) {
	case 0:
		return nil, fmt.Errorf("%w: no item %q", ErrNotFound, prefix)
	case 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("%w: %d items match %q", ErrValidation, len(found), prefix)
	}
}

// Register creates the user of an empty ledger.
func (l Ledger) Register(u User, confirm string) (Ledger, User, error) {
	if l.user != nil {
		return l, User{}, fmt.Errorf("%w: a user is already registered", ErrDuplicate)
	}
	if err := u.Validate(); err != nil {
		return l, User{}, err
	}
	if err := checkNewPassword(u.Password, confirm, 1); err != nil {
		return l, User{}, err
	}
	u.ID = newID()
	l.user = &u
	return l, u, nil
}

// WithUser replaces the user.
func (l Ledger) WithUser(u User) Ledger {
	l.user = &u
	return l
}

// UpdateProfile applies a profile update to the registered user.
func (l Ledger) UpdateProfile(p ProfileUpdate) (Ledger, error) {
	if l.user == nil {
		return l, fmt.Errorf("%w: no registered user", ErrNotFound)
	}
	u, err := p.Apply(*l.user)
	if err != nil {
		return l, err
	}
	return l.WithUser(u), nil
}

// ResetPassword changes the password of the user whose email is given.
func (l Ledger) ResetPassword(email, password, confirm string) (Ledger, error) {
	if l.user == nil {
		return l, fmt.Errorf("%w: no registered user", ErrNotFound)
	}
	if err := l.user.VerifyEmail(email); err != nil {
		return l, err
	}
	u, err := l.user.WithPassword(password, confirm)
	if err != nil {
		return l, err
	}
	return l.WithUser(u), nil
}

// AddItem validates and records a new item. It gets a fresh id and no payments.
func (l Ledger) AddItem(it Item) (Ledger, Item, error) {
	if err := it.Validate(); err != nil {
		return l, nil, err
	}
	h := it.Head()
	h.ID = newID()
	h.Payments = []Payment{}
	it = it.withHead(h)
	l.items = append(slices.Clone(l.items), it)
	return l, it, nil
}

// DeleteItem removes an item and all its payments.
func (l Ledger) DeleteItem(id string) (Ledger, error) {
	i := l.itemIndex(id)
	if i < 0 {
		return l, fmt.Errorf("%w: no item %q", ErrNotFound, id)
	}
	l.items = slices.Delete(slices.Clone(l.items), i, i+1)
	return l, nil
}

// AddPayment validates and appends a payment to an item.
//
// The allocation is only kept on loans, where it defaults to capital.
func (l Ledger) AddPayment(itemID string, p Payment) (Ledger, Payment, error) {
	i := l.itemIndex(itemID)
	if i < 0 {
		return l, Payment{}, fmt.Errorf("%w: no item %q", ErrNotFound, itemID)
	}
	if p.Method == "" {
		p.Method = DefaultPaymentMethod
	}
	if err := p.Validate(); err != nil {
		return l, Payment{}, err
	}
	it := l.items[i]
	if it.Kind() == KindLoan {
		if p.Allocation == Unallocated {
			p.Allocation = Capital
		}
	} else {
		p.Allocation = Unallocated
	}
	p.ID = newID()
	p.ReceiptGenerated = false

	l.items = slices.Clone(l.items)
	l.items[i] = withPayment(it, p)
	return l, p, nil
}

// MarkReceiptGenerated flags a payment as having had its receipt generated.
func (l Ledger) MarkReceiptGenerated(itemID, paymentID string) (Ledger, error) {
	i := l.itemIndex(itemID)
	if i < 0 {
		return l, fmt.Errorf("%w: no item %q", ErrNotFound, itemID)
	}
	h := l.items[i].Head()
	j := slices.IndexFunc(h.Payments, func(p Payment) bool { return p.ID == paymentID })
	if j < 0 {
		return l, fmt.Errorf("%w: no payment %q in item %q", ErrNotFound, paymentID, itemID)
	}
	h.Payments = slices.Clone(h.Payments)
	h.Payments[j].ReceiptGenerated = true

	l.items = slices.Clone(l.items)
	l.items[i] = l.items[i].withHead(h)
	return l, nil
}

// sortReminders sorts reminders by date, keeping the relative order of reminders on the same day.
func sortReminders(reminders []Reminder) {
	slices.SortStableFunc(reminders, func(a, b Reminder) int { return a.Date.Compare(b.Date) })
}

// AddReminder validates and records a reminder.
func (l Ledger) AddReminder(r Reminder) (Ledger, Reminder, error) {
	if err := r.Validate(); err != nil {
		return l, Reminder{}, err
	}
	r.ID = newID()
	r.Completed = false
	l.reminders = append(slices.Clone(l.reminders), r)
	sortReminders(l.reminders)
	return l, r, nil
}

// ToggleReminder flips the completed flag of a reminder.
func (l Ledger) ToggleReminder(id string) (Ledger, Reminder, error) {
	i := slices.IndexFunc(l.reminders, func(r Reminder) bool { return r.ID == id })
	if i < 0 {
		return l, Reminder{}, fmt.Errorf("%w: no reminder %q", ErrNotFound, id)
	}
	l.reminders = slices.Clone(l.reminders)
	l.reminders[i].Completed = !l.reminders[i].Completed
	return l, l.reminders[i], nil
}

// DeleteReminder removes a reminder.
func (l Ledger) DeleteReminder(id string) (Ledger, error) {
	i := slices.IndexFunc(l.reminders, func(r Reminder) bool { return r.ID == id })
	if i < 0 {
		return l, fmt.Errorf("%w: no reminder %q", ErrNotFound, id)
	}
	l.reminders = slices.Delete(slices.Clone(l.reminders), i, i+1)
	return l, nil
}

// AddAccount validates and records a bank account.
func (l Ledger) AddAccount(a BankAccount) (Ledger, BankAccount, error) {
	if err := a.Validate(); err != nil {
		return l, BankAccount{}, err
	}
	a.ID = newID()
	l.accounts = append(slices.Clone(l.accounts), a)
	return l, a, nil
}

// DeleteAccount removes a bank account.
func (l Ledger) DeleteAccount(id string) (Ledger, error) {
	i := slices.IndexFunc(l.accounts, func(a BankAccount) bool { return a.ID == id })
	if i < 0 {
		return l, fmt.Errorf("%w: no bank account %q", ErrNotFound, id)
	}
	l.accounts = slices.Delete(slices.Clone(l.accounts), i, i+1)
	return l, nil
}

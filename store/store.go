package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/etnz/finovate"
)

// Slot keys. They are the historical names of the data files.
const (
	UserKey      = "finovate_user"
	ItemsKey     = "finovate_items"
	RemindersKey = "finovate_reminders"
	AccountsKey  = "finovate_accounts"
)

// Keys lists every slot key.
var Keys = []string{UserKey, ItemsKey, RemindersKey, AccountsKey}

// Store reads and writes a ledger in a Backend.
type Store struct {
	backend Backend
	logger  *slog.Logger
}

// New returns a store on top of backend. A nil logger uses slog.Default().
func New(backend Backend, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{backend: backend, logger: logger}
}

// Backend returns the underlying backend.
func (s *Store) Backend() Backend { return s.backend }

// get decodes the slot key into v. found is false when the slot has never been written.
func (s *Store) get(key string, v any) (found bool, err error) {
	data, err := s.backend.Get(key)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: cannot read %s: %w", finovate.ErrStorage, key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("%w: corrupt %s: %w", finovate.ErrStorage, key, err)
	}
	return true, nil
}

// Read loads the ledger. Missing slots are empty. It fails with ErrStorage
// when a slot cannot be read or decoded.
func (s *Store) Read() (finovate.Ledger, error) {
	var (
		user      *finovate.User
		items     finovate.ItemList
		reminders []finovate.Reminder
		accounts  []finovate.BankAccount
	)
	var errs error
	for key, v := range map[string]any{UserKey: &user, ItemsKey: &items, RemindersKey: &reminders, AccountsKey: &accounts} {
		if _, err := s.get(key, v); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	if errs != nil {
		return finovate.Ledger{}, errs
	}
	return finovate.NewLedger(user, items, reminders, accounts), nil
}

// Load loads the ledger like Read, but never fails: a store that cannot be
// read is logged and treated as empty.
func (s *Store) Load() finovate.Ledger {
	l, err := s.Read()
	if err != nil {
		s.logger.Warn("could not load the store, starting empty", "error", err)
		return finovate.Ledger{}
	}
	s.logger.Debug("store loaded", "items", len(l.Items()), "reminders", len(l.Reminders()), "accounts", len(l.Accounts()))
	return l
}

// put encodes v into the slot key.
func (s *Store) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: cannot encode %s: %w", finovate.ErrStorage, key, err)
	}
	if err := s.backend.Put(key, data); err != nil {
		return fmt.Errorf("%w: cannot write %s: %w", finovate.ErrStorage, key, err)
	}
	return nil
}

// Save writes every slot of the ledger. The user slot is only written when a
// user is registered.
//
// A failing slot does not prevent the others from being written; all
// failures are reported, wrapping ErrStorage.
func (s *Store) Save(l finovate.Ledger) error {
	var errs error
	if u, ok := l.User(); ok {
		errs = errors.Join(errs, s.put(UserKey, u))
	}
	items := l.Items()
	if items == nil {
		items = []finovate.Item{}
	}
	errs = errors.Join(errs, s.put(ItemsKey, finovate.ItemList(items)))
	errs = errors.Join(errs, s.put(RemindersKey, nonNil(l.Reminders())))
	errs = errors.Join(errs, s.put(AccountsKey, nonNil(l.Accounts())))
	if errs != nil {
		s.logger.Error("could not save the store", "error", errs)
		return errs
	}
	s.logger.Debug("store saved", "items", len(items))
	return nil
}

// Clear deletes every slot.
func (s *Store) Clear() error {
	var errs error
	for _, key := range Keys {
		if err := s.backend.Delete(key); err != nil {
			errs = errors.Join(errs, fmt.Errorf("%w: cannot delete %s: %w", finovate.ErrStorage, key, err))
		}
	}
	if errs == nil {
		s.logger.Info("store cleared")
	}
	return errs
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

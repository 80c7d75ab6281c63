package finovate

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/finovate/date"
)

// this file contains functions to handle the import/export format.
//
// An export is a single, indented json object whose "dataType" property tells
// what it contains: either a full backup of the ledger or a single item. It
// should remain human readable and be easy to merge into an existing ledger.

// DataType is the discriminator of an export document.
type DataType string

const (
	FullBackup DataType = "full-backup"
	SingleItem DataType = "single-item"
)

// FormatVersion is the version written in exports.
const FormatVersion = "1.0"

// dataTypeAliases maps the discriminators written by earlier versions.
var dataTypeAliases = map[string]DataType{
	"finovate-full-backup": FullBackup,
	"finovate-single-item": SingleItem,
}

func parseDataType(s string) (DataType, error) {
	switch t := DataType(s); t {
	case FullBackup, SingleItem:
		return t, nil
	}
	if t, ok := dataTypeAliases[s]; ok {
		return t, nil
	}
	return "", fmt.Errorf("%w: unknown data type %q", ErrValidation, s)
}

// Backup is the content of a full backup.
type Backup struct {
	User      *User
	Items     []Item
	Reminders []Reminder
	Accounts  []BankAccount
}

// jbackup is the json form of a full backup.
type jbackup struct {
	DataType  DataType      `json:"dataType"`
	Version   string        `json:"version"`
	User      *User         `json:"user"`
	Items     ItemList      `json:"items"`
	Reminders []Reminder    `json:"reminders"`
	Accounts  []BankAccount `json:"bankAccounts"`
}

// jitem is the json form of a single item export.
type jitem struct {
	DataType DataType        `json:"dataType"`
	Version  string          `json:"version"`
	Item     json.RawMessage `json:"item"`
}

func writeIndented(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ExportLedger writes a full backup of the ledger to w.
func ExportLedger(w io.Writer, l Ledger) error {
	b := jbackup{
		DataType:  FullBackup,
		Version:   FormatVersion,
		User:      l.user,
		Items:     ItemList(l.items),
		Reminders: l.reminders,
		Accounts:  l.accounts,
	}
	// always arrays, never null.
	if b.Items == nil {
		b.Items = ItemList{}
	}
	if b.Reminders == nil {
		b.Reminders = []Reminder{}
	}
	if b.Accounts == nil {
		b.Accounts = []BankAccount{}
	}
	if err := writeIndented(w, b); err != nil {
		return fmt.Errorf("cannot write full backup: %w", err)
	}
	return nil
}

// ExportItem writes a single item, with its payments, to w.
func ExportItem(w io.Writer, it Item) error {
	data, err := MarshalItem(it)
	if err != nil {
		return err
	}
	if err := writeIndented(w, jitem{DataType: SingleItem, Version: FormatVersion, Item: data}); err != nil {
		return fmt.Errorf("cannot write item %q: %w", it.Head().ID, err)
	}
	return nil
}

// FullBackupFilename returns the file name of a full backup made on day.
func FullBackupFilename(day date.Date) string {
	return "finovate-backup-" + day.String() + ".json"
}

var whitespaces = regexp.MustCompile(`\s+`)

// ItemFilename returns the file name of a single item export.
func ItemFilename(it Item) string {
	return "finovate-item-" + whitespaces.ReplaceAllString(it.Head().Counterparty.Name, "_") + ".json"
}

// Import is a parsed export document, ready to be applied to a ledger.
type Import struct {
	Type    DataType
	Version string
	Backup  Backup // for a FullBackup
	Item    Item   // for a SingleItem
}

// Describe returns a human readable description of what the import contains.
func (imp *Import) Describe() string {
	switch imp.Type {
	case SingleItem:
		h := imp.Item.Head()
		return fmt.Sprintf("a single %s with %s (%s) and %d payment(s)",
			strings.ToLower(imp.Item.Kind().Label()), h.Counterparty.Name, h.Description, len(h.Payments))
	default:
		var b strings.Builder
		fmt.Fprintf(&b, "a full backup with %d item(s), %d reminder(s) and %d bank account(s)",
			len(imp.Backup.Items), len(imp.Backup.Reminders), len(imp.Backup.Accounts))
		if imp.Backup.User != nil {
			fmt.Fprintf(&b, " belonging to %s", imp.Backup.User.Name)
		}
		return b.String()
	}
}

// ParseImport reads an export document.
//
// It fails with ErrValidation when the document is not json, when its data
// type is missing or unknown, or when a single item export has no item or
// no item id.
func ParseImport(r io.Reader) (*Import, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("cannot read import: %w", err)
	}
	var jobj any
	if err := json.Unmarshal(data, &jobj); err != nil {
		return nil, fmt.Errorf("%w: not a json document: %w", ErrValidation, err)
	}

	// sniff the discriminator before decoding anything else.
	jval, err := jsonpath.Get("$.dataType", jobj)
	if err != nil {
		return nil, fmt.Errorf("%w: missing data type", ErrValidation)
	}
	s, ok := jval.(string)
	if !ok {
		return nil, fmt.Errorf("%w: data type is not a string: %v", ErrValidation, jval)
	}
	dataType, err := parseDataType(s)
	if err != nil {
		return nil, err
	}
	imp := &Import{Type: dataType}
	if v, err := jsonpath.Get("$.version", jobj); err == nil {
		imp.Version, _ = v.(string)
	}
	if imp.Version != "" && !strings.HasPrefix(imp.Version, "1.") {
		return nil, fmt.Errorf("%w: unsupported version %q", ErrValidation, imp.Version)
	}

	switch dataType {
	case FullBackup:
		var jb jbackup
		if err := json.Unmarshal(data, &jb); err != nil {
			return nil, fmt.Errorf("%w: malformed full backup: %w", ErrValidation, err)
		}
		imp.Backup = Backup{User: jb.User, Items: jb.Items, Reminders: jb.Reminders, Accounts: jb.Accounts}
	case SingleItem:
		var ji jitem
		if err := json.Unmarshal(data, &ji); err != nil {
			return nil, fmt.Errorf("%w: malformed item export: %w", ErrValidation, err)
		}
		if len(ji.Item) == 0 || string(ji.Item) == "null" {
			return nil, fmt.Errorf("%w: item export has no item", ErrValidation)
		}
		it, err := UnmarshalItem(ji.Item)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrValidation, err)
		}
		if it.Head().ID == "" {
			return nil, fmt.Errorf("%w: imported item has no id", ErrValidation)
		}
		imp.Item = it
	}
	return imp, nil
}

// MergeReport counts what a merge added.
type MergeReport struct {
	User      bool
	Items     int
	Reminders int
	Accounts  int
}

// IsEmpty reports whether the merge added nothing.
func (r MergeReport) IsEmpty() bool {
	return !r.User && r.Items == 0 && r.Reminders == 0 && r.Accounts == 0
}

// mergeByID appends the incoming elements whose id is not already present.
func mergeByID[T any](existing, incoming []T, id func(T) string) ([]T, int) {
	seen := make(map[string]bool, len(existing))
	for _, e := range existing {
		seen[id(e)] = true
	}
	merged := slices.Clone(existing)
	n := 0
	for _, e := range incoming {
		if seen[id(e)] {
			continue
		}
		seen[id(e)] = true
		merged = append(merged, e)
		n++
	}
	return merged, n
}

// Merge adds the content of a backup to the ledger.
//
// Items, reminders and bank accounts are merged by id: those already present
// are kept as they are and the others are appended. Merging the same backup
// twice is a no-op. The backup user is adopted only when the ledger has none.
func (l Ledger) Merge(b Backup) (Ledger, MergeReport) {
	var r MergeReport
	l.items, r.Items = mergeByID(l.items, b.Items, func(it Item) string { return it.Head().ID })
	l.reminders, r.Reminders = mergeByID(l.reminders, b.Reminders, func(x Reminder) string { return x.ID })
	l.accounts, r.Accounts = mergeByID(l.accounts, b.Accounts, func(a BankAccount) string { return a.ID })
	sortReminders(l.reminders)
	if l.user == nil && b.User != nil {
		u := *b.User
		l.user = &u
		r.User = true
	}
	return l, r
}

// ImportItem adds a single imported item, keeping its id and payments.
//
// It fails with ErrDuplicate when an item with the same id already exists.
func (l Ledger) ImportItem(it Item) (Ledger, error) {
	if it == nil || it.Head().ID == "" {
		return l, fmt.Errorf("%w: imported item has no id", ErrValidation)
	}
	id := it.Head().ID
	if _, exists := l.Item(id); exists {
		return l, fmt.Errorf("%w: item %q already exists", ErrDuplicate, id)
	}
	l.items = append(slices.Clone(l.items), it)
	return l, nil
}

// Apply commits an import to the ledger.
func (l Ledger) Apply(imp *Import) (Ledger, MergeReport, error) {
	switch imp.Type {
	case FullBackup:
		merged, r := l.Merge(imp.Backup)
		return merged, r, nil
	case SingleItem:
		added, err := l.ImportItem(imp.Item)
		if err != nil {
			return l, MergeReport{}, err
		}
		return added, MergeReport{Items: 1}, nil
	default:
		return l, MergeReport{}, fmt.Errorf("%w: unknown data type %q", ErrValidation, imp.Type)
	}
}

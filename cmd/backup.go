package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/etnz/finovate"
	"github.com/google/subcommands"
)

// writeFile creates path, or writes to stdout when path is "-".
func writeFile(path string, write func(w io.Writer) error) error {
	if path == "-" {
		return write(stdout)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

type exportCmd struct {
	item, output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export a full backup, or a single item" }
func (*exportCmd) Usage() string {
	return `finovate export [-item <item id>] [-o <file>]

  Writes a json backup of the whole store: profile, items, reminders and bank
  accounts. With -item, writes only that item, to be shared and imported in
  another store. Use -o - to write to the standard output.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.item, "item", "", "Export only this item.")
	f.StringVar(&c.output, "o", "", "Output file. Defaults to a dated file in output.dir.")
}

func (c *exportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(func(s *session) error {
		var name string
		var write func(w io.Writer) error
		if c.item != "" {
			it, err := s.ledger.FindItem(c.item)
			if err != nil {
				return err
			}
			name = finovate.ItemFilename(it)
			write = func(w io.Writer) error { return finovate.ExportItem(w, it) }
		} else {
			name = finovate.FullBackupFilename(today())
			write = func(w io.Writer) error { return finovate.ExportLedger(w, s.ledger) }
		}

		path := c.output
		if path == "" {
			path = filepath.Join(s.cfg.Output.Dir, name)
		}
		if err := writeFile(path, write); err != nil {
			return fmt.Errorf("cannot export to %q: %w", path, err)
		}
		if path != "-" {
			fmt.Fprintf(stdout, "Exported to %s\n", path)
		}
		return nil
	})
}

type importCmd struct {
	yes bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "merge a backup or a shared item into the store" }
func (*importCmd) Usage() string {
	return `finovate import [-y] <file>

  Reads a file written by export and merges it into the store. Records are
  matched by id: existing ones are kept untouched and only new ones are added.
  The profile is only imported when none is registered. A shared item is
  rejected when it already exists.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "y", false, "Do not ask for confirmation.")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	path, err := oneArg(f, "file")
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return withSession(func(s *session) error {
		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()

		imp, err := finovate.ParseImport(file)
		if err != nil {
			return fmt.Errorf("cannot import %q: %w", path, err)
		}
		fmt.Fprintf(stdout, "%s contains %s.\n", filepath.Base(path), imp.Describe())
		if !c.yes && !confirm("Import it?") {
			return errCancelled
		}

		l, report, err := s.ledger.Apply(imp)
		if errors.Is(err, finovate.ErrDuplicate) {
			return fmt.Errorf("%w, nothing imported", err)
		}
		if err != nil {
			return err
		}
		if report.IsEmpty() {
			fmt.Fprintln(stdout, "Nothing new to import.")
			return nil
		}
		if err := s.save(l); err != nil {
			return err
		}
		s.logger.Info("import merged", "file", path, "user", report.User, "items", report.Items, "reminders", report.Reminders, "accounts", report.Accounts)
		fmt.Fprintf(stdout, "Imported %d item(s), %d reminder(s) and %d bank account(s).\n", report.Items, report.Reminders, report.Accounts)
		if report.User {
			fmt.Fprintln(stdout, "Imported the user profile.")
		}
		return nil
	})
}

type xlsxCmd struct {
	output string
}

func (*xlsxCmd) Name() string     { return "xlsx" }
func (*xlsxCmd) Synopsis() string { return "export items and payments to a spreadsheet" }
func (*xlsxCmd) Usage() string {
	return `finovate xlsx [-o <file>]

  Writes an Excel workbook with one sheet of items and one sheet of payments.
`
}

func (c *xlsxCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output file. Defaults to a dated file in output.dir.")
}

func (c *xlsxCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(func(s *session) error {
		path := c.output
		if path == "" {
			path = filepath.Join(s.cfg.Output.Dir, finovate.SpreadsheetFilename(today()))
		}
		err := writeFile(path, func(w io.Writer) error { return finovate.ExportSpreadsheet(w, s.ledger) })
		if err != nil {
			return fmt.Errorf("cannot export to %q: %w", path, err)
		}
		if path != "-" {
			fmt.Fprintf(stdout, "Exported to %s\n", path)
		}
		return nil
	})
}

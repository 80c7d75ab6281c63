package cmd

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/etnz/finovate"
	"github.com/etnz/finovate/date"
	"github.com/etnz/finovate/document"
	"github.com/google/subcommands"
)

// now returns the generation time of documents, replaced in tests.
var now = time.Now

// outputFlags select how a document is delivered.
type outputFlags struct {
	view, html, preview bool
	dir                 string
}

func (o *outputFlags) set(f *flag.FlagSet) {
	f.BoolVar(&o.view, "view", false, "Print the document in the terminal instead of writing a PDF.")
	f.BoolVar(&o.html, "html", false, "Print the document as an HTML page instead of writing a PDF.")
	f.BoolVar(&o.preview, "preview", false, "Print the PDF as a data URI, to open in a browser.")
	f.StringVar(&o.dir, "o", "", "Output directory of the PDF, overrides output.dir.")
}

// emit delivers the document.
func (o *outputFlags) emit(s *session, doc *document.Document) error {
	for _, w := range doc.Warnings {
		s.logger.Warn("document generated without some features", "document", doc.Filename, "error", w)
		fmt.Fprintf(stderr, "Warning: %v\n", w)
	}
	switch {
	case o.view:
		printMarkdown(doc.Markdown())
	case o.html:
		page, err := doc.HTML()
		if err != nil {
			return err
		}
		fmt.Fprint(stdout, page)
	case o.preview:
		uri, err := doc.DataURI()
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, uri)
	default:
		dir := o.dir
		if dir == "" {
			dir = s.cfg.Output.Dir
		}
		path, err := doc.Save(dir)
		if err != nil {
			return err
		}
		s.logger.Info("document saved", "path", path)
		fmt.Fprintf(stdout, "Saved %s\n", path)
	}
	return nil
}

type receiptCmd struct {
	outputFlags
}

func (*receiptCmd) Name() string     { return "receipt" }
func (*receiptCmd) Synopsis() string { return "generate the receipt of a payment" }
func (*receiptCmd) Usage() string {
	return `finovate receipt [-view | -html | -preview] [-o <dir>] <item id> [<payment id>]

  Generates the receipt of a payment, the last recorded one by default, and
  marks the payment as having a receipt.
`
}

func (c *receiptCmd) SetFlags(f *flag.FlagSet) { c.outputFlags.set(f) }

func (c *receiptCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 1 || f.NArg() > 2 {
		fmt.Fprintln(stderr, "Error: expected an item id and an optional payment id")
		return subcommands.ExitUsageError
	}
	return withSession(func(s *session) error {
		u, err := s.user()
		if err != nil {
			return err
		}
		it, err := s.ledger.FindItem(f.Arg(0))
		if err != nil {
			return err
		}
		h := it.Head()
		if len(h.Payments) == 0 {
			return fmt.Errorf("%w: no payment recorded on %s", finovate.ErrNotFound, h.ID)
		}
		p := h.Payments[len(h.Payments)-1]
		if f.NArg() == 2 {
			var ids []string
			for _, q := range h.Payments {
				ids = append(ids, q.ID)
			}
			id, err := matchID("payment", f.Arg(1), ids)
			if err != nil {
				return err
			}
			p, _ = h.Payment(id)
		}

		if err := c.emit(s, document.Receipt(u, it, p, now())); err != nil {
			return err
		}
		l, err := s.ledger.MarkReceiptGenerated(h.ID, p.ID)
		if err != nil {
			return err
		}
		return s.save(l)
	})
}

type statementCmd struct {
	outputFlags
}

func (*statementCmd) Name() string     { return "statement" }
func (*statementCmd) Synopsis() string { return "generate the account statement of a loan" }
func (*statementCmd) Usage() string {
	return `finovate statement [-view | -html | -preview] [-o <dir>] <loan id>

  Generates the statement of a loan: its summary and every payment with the
  remaining capital after it.
`
}

func (c *statementCmd) SetFlags(f *flag.FlagSet) { c.outputFlags.set(f) }

func (c *statementCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := oneArg(f, "loan id")
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return withSession(func(s *session) error {
		u, err := s.user()
		if err != nil {
			return err
		}
		it, err := s.ledger.FindItem(id)
		if err != nil {
			return err
		}
		loan, ok := it.(finovate.Loan)
		if !ok {
			return fmt.Errorf("%w: statements are only available for loans, %s is a %s", finovate.ErrValidation, it.Head().ID, it.Kind())
		}
		return c.emit(s, document.Statement(u, loan, now()))
	})
}

type invoiceCmd struct {
	outputFlags
	amount, concept, due string
}

func (*invoiceCmd) Name() string     { return "invoice" }
func (*invoiceCmd) Synopsis() string { return "generate a collection invoice with a payment QR code" }
func (*invoiceCmd) Usage() string {
	return `finovate invoice [-amount <amount>] [-concept <text>] [-due <date>] [-view | -html | -preview] [-o <dir>] <item id>

  Generates an invoice to collect an installment of an item. The amount and
  the concept are suggested from the item; the due date defaults to today.
  The invoice lists the bank accounts and carries a QR code with the payment
  information. If the code cannot be generated the invoice is produced without it.
`
}

func (c *invoiceCmd) SetFlags(f *flag.FlagSet) {
	c.outputFlags.set(f)
	f.StringVar(&c.amount, "amount", "", "Amount to collect. Suggested from the item by default.")
	f.StringVar(&c.concept, "concept", "", "Concept of the invoice.")
	f.StringVar(&c.due, "due", "", "Due date. Defaults to today.")
}

func (c *invoiceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := oneArg(f, "item id")
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return withSession(func(s *session) error {
		u, err := s.user()
		if err != nil {
			return err
		}
		it, err := s.ledger.FindItem(id)
		if err != nil {
			return err
		}

		details := finovate.SuggestInvoice(it, today())
		if c.amount != "" {
			if details.Amount, err = finovate.ParseMoney(c.amount); err != nil {
				return err
			}
		}
		if c.concept != "" {
			details.Concept = c.concept
		}
		if c.due != "" {
			if details.DueDate, err = date.Parse(c.due); err != nil {
				return fmt.Errorf("%w: due date: %w", finovate.ErrValidation, err)
			}
		}
		if err := details.Validate(); err != nil {
			return err
		}

		gen := document.QRCode{Size: s.cfg.QR.Size}
		return c.emit(s, document.Invoice(u, it, details, s.ledger.Accounts(), gen, now()))
	})
}

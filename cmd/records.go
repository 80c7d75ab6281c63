package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/finovate"
	"github.com/etnz/finovate/date"
	"github.com/etnz/finovate/renderer"
	"github.com/google/subcommands"
)

type addCmd struct {
	name, personID, phone, description string
	start, amount, term, installment  string
	rate                              float64
	day                               int
	due                               string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record a loan, a rental, a debt or another income" }
func (*addCmd) Usage() string {
	return `finovate add <loan|rental|debt|income> -name <person> -desc <description> -amount <amount> [options]

  Records a new financial item and prints its id.

  loan:   -rate <percent> -term <term> [-installment <monthly amount>]
  rental: -day <day of month the rent is due>
  debt:   -due <due date>

Usage Examples:
$ finovate add loan -name "Ana Pérez" -desc Moto -amount 1000 -rate 2.5 -term "12 meses"
$ finovate add rental -name "Luis Gómez" -desc Apartamento -amount 500 -day 5
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Name of the counterparty.")
	f.StringVar(&c.personID, "person-id", "", "Identity document of the counterparty.")
	f.StringVar(&c.phone, "phone", "", "Phone of the counterparty.")
	f.StringVar(&c.description, "desc", "", "Description.")
	f.StringVar(&c.start, "start", "", "Start date. Defaults to today.")
	f.StringVar(&c.amount, "amount", "", "Principal, or monthly amount of a rental.")
	f.Float64Var(&c.rate, "rate", 0, "Interest rate of a loan, in percent.")
	f.StringVar(&c.term, "term", "", "Term of a loan, e.g. \"12 meses\".")
	f.StringVar(&c.installment, "installment", "", "Expected monthly installment of a loan.")
	f.IntVar(&c.day, "day", 0, "Payment day of a rental.")
	f.StringVar(&c.due, "due", "", "Due date of a debt.")
}

// item builds the item described by the flags.
func (c *addCmd) item(kind finovate.Kind) (finovate.Item, error) {
	who := finovate.Counterparty{Name: c.name, ID: c.personID, Phone: c.phone}
	start, err := parseDay(c.start)
	if err != nil {
		return nil, fmt.Errorf("%w: start date: %w", finovate.ErrValidation, err)
	}
	amount, err := finovate.ParseMoney(c.amount)
	if err != nil {
		return nil, err
	}
	switch kind {
	case finovate.KindLoan:
		loan := finovate.NewLoan(who, c.description, start, amount, finovate.Percent(c.rate), c.term)
		if c.installment != "" {
			if loan.Installment, err = finovate.ParseMoney(c.installment); err != nil {
				return nil, err
			}
		}
		return loan, nil
	case finovate.KindRental:
		return finovate.NewRental(who, c.description, start, amount, c.day), nil
	case finovate.KindDebt:
		var due date.Date
		if c.due != "" {
			if due, err = date.Parse(c.due); err != nil {
				return nil, fmt.Errorf("%w: due date: %w", finovate.ErrValidation, err)
			}
		}
		return finovate.NewDebt(who, c.description, start, amount, due), nil
	default:
		return finovate.NewOtherIncome(who, c.description, start, amount), nil
	}
}

func (c *addCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(stderr, "Error: expected an item type")
		return subcommands.ExitUsageError
	}
	// the flags may follow the type, as in "add loan -name ...".
	arg := f.Arg(0)
	if err := f.Parse(f.Args()[1:]); err != nil {
		return subcommands.ExitUsageError
	}
	if f.NArg() > 0 {
		fmt.Fprintf(stderr, "Error: unexpected arguments %q\n", f.Args())
		return subcommands.ExitUsageError
	}
	kind, err := finovate.ParseKind(arg)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return withSession(func(s *session) error {
		it, err := c.item(kind)
		if err != nil {
			return err
		}
		l, it, err := s.ledger.AddItem(it)
		if err != nil {
			return err
		}
		if err := s.save(l); err != nil {
			return err
		}
		s.logger.Info("item added", "kind", it.Kind(), "id", it.Head().ID)
		fmt.Fprintf(stdout, "%s %s\n", it.Kind().Label(), it.Head().ID)
		return nil
	})
}

type deleteCmd struct {
	yes bool
}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "delete an item and its payments" }
func (*deleteCmd) Usage() string {
	return `finovate delete [-y] <item id>

  Deletes an item with all its payments. The id can be abbreviated.
`
}

func (c *deleteCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "y", false, "Do not ask for confirmation.")
}

func (c *deleteCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := oneArg(f, "item id")
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return withSession(func(s *session) error {
		it, err := s.ledger.FindItem(id)
		if err != nil {
			return err
		}
		h := it.Head()
		question := fmt.Sprintf("Delete the %s %q of %s and its %d payment(s)?", it.Kind().Label(), h.Description, h.Counterparty.Name, len(h.Payments))
		if !c.yes && !confirm(question) {
			return errCancelled
		}
		l, err := s.ledger.DeleteItem(h.ID)
		if err != nil {
			return err
		}
		if err := s.save(l); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Deleted %s.\n", h.ID)
		return nil
	})
}

type payCmd struct {
	amount, day, method, allocation string
}

func (*payCmd) Name() string     { return "pay" }
func (*payCmd) Synopsis() string { return "record a payment on an item" }
func (*payCmd) Usage() string {
	return `finovate pay -amount <amount> [-date <date>] [-method <method>] [-alloc capital|interest] <item id>

  Records a payment received on an item, or paid on a debt, and prints its id.
  On loans, the allocation tells whether the payment reduces the principal
  (capital, the default) or pays interest.
`
}

func (c *payCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "amount", "", "Amount paid.")
	f.StringVar(&c.day, "date", "", "Payment date. Defaults to today.")
	f.StringVar(&c.method, "method", finovate.DefaultPaymentMethod, fmt.Sprintf("Payment method, e.g. %q.", finovate.PaymentMethods))
	f.StringVar(&c.allocation, "alloc", "", "Allocation of a loan payment: capital or interest.")
}

func (c *payCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := oneArg(f, "item id")
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return withSession(func(s *session) error {
		it, err := s.ledger.FindItem(id)
		if err != nil {
			return err
		}
		amount, err := finovate.ParseMoney(c.amount)
		if err != nil {
			return err
		}
		day, err := parseDay(c.day)
		if err != nil {
			return fmt.Errorf("%w: payment date: %w", finovate.ErrValidation, err)
		}
		alloc, err := finovate.ParseAllocation(c.allocation)
		if err != nil {
			return err
		}
		l, p, err := s.ledger.AddPayment(it.Head().ID, finovate.NewPayment(day, amount, c.method, alloc))
		if err != nil {
			return err
		}
		if err := s.save(l); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Payment %s of %s recorded.\n", p.ID, p.Amount)
		return nil
	})
}

type showCmd struct{}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "show an item with its payments and balance" }
func (*showCmd) Usage() string {
	return `finovate show <item id>

  Prints the details of an item, its balance and its payments in date order.
`
}

func (*showCmd) SetFlags(f *flag.FlagSet) {}

func (*showCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := oneArg(f, "item id")
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return withSession(func(s *session) error {
		it, err := s.ledger.FindItem(id)
		if err != nil {
			return err
		}
		printMarkdown(renderer.RenderItem(renderer.NewItem(it)))
		return nil
	})
}

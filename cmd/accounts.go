package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/finovate"
	"github.com/etnz/finovate/renderer"
	"github.com/google/subcommands"
)

type addAccountCmd struct {
	bank, name, balance string
}

func (*addAccountCmd) Name() string     { return "add-account" }
func (*addAccountCmd) Synopsis() string { return "add a savings account" }
func (*addAccountCmd) Usage() string {
	return `finovate add-account -bank <bank> -name <account> [-balance <amount>]

  Adds a bank account. Accounts count as savings in the reports and are
  listed as payment information on invoices.
`
}

func (c *addAccountCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.bank, "bank", "", "Bank name.")
	f.StringVar(&c.name, "name", "", "Account name or number.")
	f.StringVar(&c.balance, "balance", "0", "Current balance.")
}

func (c *addAccountCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(func(s *session) error {
		balance, err := finovate.ParseMoney(c.balance)
		if err != nil {
			return err
		}
		l, a, err := s.ledger.AddAccount(finovate.BankAccount{BankName: c.bank, AccountName: c.name, Balance: balance})
		if err != nil {
			return err
		}
		if err := s.save(l); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Account %s added.\n", renderer.ShortID(a.ID))
		return nil
	})
}

type deleteAccountCmd struct{}

func (*deleteAccountCmd) Name() string     { return "delete-account" }
func (*deleteAccountCmd) Synopsis() string { return "delete a savings account" }
func (*deleteAccountCmd) Usage() string {
	return `finovate delete-account <account id>
`
}

func (*deleteAccountCmd) SetFlags(f *flag.FlagSet) {}

func (*deleteAccountCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	prefix, err := oneArg(f, "account id")
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return withSession(func(s *session) error {
		var ids []string
		for _, a := range s.ledger.Accounts() {
			ids = append(ids, a.ID)
		}
		id, err := matchID("account", prefix, ids)
		if err != nil {
			return err
		}
		l, err := s.ledger.DeleteAccount(id)
		if err != nil {
			return err
		}
		if err := s.save(l); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "Account deleted.")
		return nil
	})
}

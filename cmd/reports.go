package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/finovate/date"
	"github.com/etnz/finovate/renderer"
	"github.com/google/subcommands"
)

// reportCmd is a report computed on a ledger snapshot at a given day.
type reportCmd struct {
	day string
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.day, "d", "", "Reference date of the report. Defaults to today.")
}

func (c *reportCmd) run(render func(s *session, day date.Date) string) subcommands.ExitStatus {
	return withSession(func(s *session) error {
		day, err := parseDay(c.day)
		if err != nil {
			return fmt.Errorf("report date: %w", err)
		}
		printMarkdown(render(s, day))
		return nil
	})
}

type dashboardCmd struct{ reportCmd }

func (*dashboardCmd) Name() string     { return "dashboard" }
func (*dashboardCmd) Synopsis() string { return "headline figures, items, upcoming events and reminders" }
func (*dashboardCmd) Usage() string {
	return `finovate dashboard [-d <date>]

  Prints the dashboard: total savings, lent, owed and collected, every item
  with its balance, the events due in the next days and the pending reminders.
`
}

func (c *dashboardCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(func(s *session, day date.Date) string {
		return renderer.RenderDashboard(renderer.NewDashboard(s.ledger, day))
	})
}

type summaryCmd struct{ reportCmd }

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "assets, liabilities and net worth" }
func (*summaryCmd) Usage() string {
	return `finovate summary [-d <date>]

  Prints the financial summary: savings, receivables, other assets,
  liabilities and net worth, then the bank accounts.
`
}

func (c *summaryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(func(s *session, day date.Date) string {
		return renderer.RenderSummary(renderer.NewSummary(s.ledger, day))
	})
}

type upcomingCmd struct{ reportCmd }

func (*upcomingCmd) Name() string     { return "upcoming" }
func (*upcomingCmd) Synopsis() string { return "payments due soon" }
func (*upcomingCmd) Usage() string {
	return `finovate upcoming [-d <date>]

  Lists the rents, loan installments and debts due in the next 30 days.
  Events due within a week are flagged as urgent.
`
}

func (c *upcomingCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(func(s *session, day date.Date) string {
		return renderer.RenderUpcoming(renderer.NewUpcoming(s.ledger, day))
	})
}

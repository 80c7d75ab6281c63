package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/finovate"
	"github.com/etnz/finovate/date"
	"github.com/etnz/finovate/renderer"
	"github.com/google/subcommands"
)

func reminderIDs(l finovate.Ledger) []string {
	var ids []string
	for _, r := range l.Reminders() {
		ids = append(ids, r.ID)
	}
	return ids
}

type remindCmd struct {
	day string
}

func (*remindCmd) Name() string     { return "remind" }
func (*remindCmd) Synopsis() string { return "add a reminder, or list them" }
func (*remindCmd) Usage() string {
	return `finovate remind [-date <date>] [<text>...]

  Adds a reminder due on the given date (today by default).
  Without text, lists all reminders by date.
`
}

func (c *remindCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.day, "date", "", "Due date. Defaults to today.")
}

func (c *remindCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	text := strings.Join(f.Args(), " ")
	return withSession(func(s *session) error {
		if text == "" {
			printMarkdown(remindersMarkdown(s.ledger.Reminders()))
			return nil
		}
		day, err := parseDay(c.day)
		if err != nil {
			return fmt.Errorf("%w: reminder date: %w", finovate.ErrValidation, err)
		}
		l, r, err := s.ledger.AddReminder(finovate.Reminder{Text: text, Date: day})
		if err != nil {
			return err
		}
		if err := s.save(l); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Reminder %s on %s.\n", renderer.ShortID(r.ID), r.Date.Format(date.LocalFormat))
		return nil
	})
}

func remindersMarkdown(reminders []finovate.Reminder) string {
	if len(reminders) == 0 {
		return "No hay recordatorios.\n"
	}
	var b strings.Builder
	b.WriteString("# Recordatorios\n\n")
	for _, r := range reminders {
		check := " "
		if r.Completed {
			check = "x"
		}
		fmt.Fprintf(&b, "- [%s] %s %s `%s`\n", check, r.Date.Format(date.LocalFormat), r.Text, renderer.ShortID(r.ID))
	}
	return b.String()
}

type toggleReminderCmd struct{}

func (*toggleReminderCmd) Name() string     { return "toggle-reminder" }
func (*toggleReminderCmd) Synopsis() string { return "mark a reminder done, or pending again" }
func (*toggleReminderCmd) Usage() string {
	return `finovate toggle-reminder <reminder id>
`
}

func (*toggleReminderCmd) SetFlags(f *flag.FlagSet) {}

func (*toggleReminderCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	prefix, err := oneArg(f, "reminder id")
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return withSession(func(s *session) error {
		id, err := matchID("reminder", prefix, reminderIDs(s.ledger))
		if err != nil {
			return err
		}
		l, r, err := s.ledger.ToggleReminder(id)
		if err != nil {
			return err
		}
		if err := s.save(l); err != nil {
			return err
		}
		state := "pending"
		if r.Completed {
			state = "done"
		}
		fmt.Fprintf(stdout, "Reminder %q is %s.\n", r.Text, state)
		return nil
	})
}

type deleteReminderCmd struct{}

func (*deleteReminderCmd) Name() string     { return "delete-reminder" }
func (*deleteReminderCmd) Synopsis() string { return "delete a reminder" }
func (*deleteReminderCmd) Usage() string {
	return `finovate delete-reminder <reminder id>
`
}

func (*deleteReminderCmd) SetFlags(f *flag.FlagSet) {}

func (*deleteReminderCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	prefix, err := oneArg(f, "reminder id")
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return withSession(func(s *session) error {
		id, err := matchID("reminder", prefix, reminderIDs(s.ledger))
		if err != nil {
			return err
		}
		l, err := s.ledger.DeleteReminder(id)
		if err != nil {
			return err
		}
		if err := s.save(l); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "Reminder deleted.")
		return nil
	})
}

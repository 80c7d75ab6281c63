// Package cmd implements the finovate command line application.
package cmd

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/etnz/finovate"
	"github.com/etnz/finovate/config"
	"github.com/etnz/finovate/date"
	"github.com/etnz/finovate/store"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&registerCmd{}, "profile")
	c.Register(&loginCmd{}, "profile")
	c.Register(&resetPasswordCmd{}, "profile")
	c.Register(&profileCmd{}, "profile")
	c.Register(&wipeCmd{}, "profile")

	c.Register(&addCmd{}, "records")
	c.Register(&deleteCmd{}, "records")
	c.Register(&payCmd{}, "records")
	c.Register(&showCmd{}, "records")

	c.Register(&remindCmd{}, "reminders")
	c.Register(&toggleReminderCmd{}, "reminders")
	c.Register(&deleteReminderCmd{}, "reminders")

	c.Register(&addAccountCmd{}, "accounts")
	c.Register(&deleteAccountCmd{}, "accounts")

	c.Register(&dashboardCmd{}, "reports")
	c.Register(&summaryCmd{}, "reports")
	c.Register(&upcomingCmd{}, "reports")

	c.Register(&receiptCmd{}, "documents")
	c.Register(&statementCmd{}, "documents")
	c.Register(&invoiceCmd{}, "documents")

	c.Register(&exportCmd{}, "backup")
	c.Register(&importCmd{}, "backup")
	c.Register(&xlsxCmd{}, "backup")

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configFile = flag.String("config", "", "Path to the configuration file. Defaults to an optional finovate.yaml.")
	storePath  = flag.String("store", "", "Path to the store, overrides store.path.")
	backend    = flag.String("backend", "", "Store backend (dir or sqlite), overrides store.backend.")
	Verbose    = flag.Bool("v", false, "Log debug messages.")
)

// standard streams, replaced in tests.
var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// today returns the current day, replaced in tests.
var today = date.Today

// session is what a command works on: the configuration, the store and the
// ledger loaded from it.
type session struct {
	cfg    *config.Config
	store  *store.Store
	logger *slog.Logger
	ledger finovate.Ledger
}

// loadConfig loads the configuration and applies the global flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	if *storePath != "" {
		cfg.Store.Path = *storePath
	}
	if *backend != "" {
		cfg.Store.Backend = *backend
	}
	if *Verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, cfg.Validate()
}

// openSession opens the configured store and loads the ledger.
func openSession() (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := cfg.Log.NewLogger(stderr)
	slog.SetDefault(logger)
	finovate.DisplayCurrency = cfg.Currency

	path := cfg.Store.Path
	if cfg.Store.Backend == store.KindSQLite {
		path = cfg.SQLitePath()
	}
	b, err := store.Open(cfg.Store.Backend, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", finovate.ErrStorage, err)
	}
	logger.Debug("store opened", "backend", cfg.Store.Backend, "path", path)

	s := &session{cfg: cfg, store: store.New(b, logger), logger: logger}
	s.ledger = s.store.Load()
	return s, nil
}

// save persists a new state of the ledger.
func (s *session) save(l finovate.Ledger) error {
	s.ledger = l
	return s.store.Save(l)
}

// close releases the store backend.
func (s *session) close() {
	if c, ok := s.store.Backend().(io.Closer); ok {
		if err := c.Close(); err != nil {
			s.logger.Warn("could not close the store", "error", err)
		}
	}
}

// user returns the registered user, or an error inviting to register.
func (s *session) user() (finovate.User, error) {
	u, ok := s.ledger.User()
	if !ok {
		return u, fmt.Errorf("%w: no user registered, run 'finovate register' first", finovate.ErrNotFound)
	}
	return u, nil
}

// withSession runs f on an open session and turns its error into an exit status.
func withSession(f func(s *session) error) subcommands.ExitStatus {
	s, err := openSession()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.close()
	if err := f(s); err != nil {
		if errors.Is(err, errCancelled) {
			fmt.Fprintln(stderr, "Cancelled.")
			return subcommands.ExitSuccess
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// errCancelled is returned when the user declines a confirmation.
var errCancelled = errors.New("cancelled")

// confirm asks a yes/no question on stdin. Anything but yes is a no.
func confirm(question string) bool {
	fmt.Fprintf(stderr, "%s [y/N] ", question)
	answer, _ := bufio.NewReader(stdin).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes", "s", "si", "sí":
		return true
	}
	return false
}

// parseDay parses an optional date flag, defaulting to today.
func parseDay(s string) (date.Date, error) {
	if s == "" {
		return today(), nil
	}
	return date.Parse(s)
}

// matchID returns the only id starting with prefix.
func matchID(what, prefix string, ids []string) (string, error) {
	var found []string
	for _, id := range ids {
		if id == prefix {
			return id, nil
		}
		if prefix != "" && strings.HasPrefix(id, prefix) {
			found = append(found, id)
		}
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("%w: no %s %q", finovate.ErrNotFound, what, prefix)
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("%w: %d %ss match %q", finovate.ErrValidation, len(found), what, prefix)
	}
}

// oneArg returns the single positional argument of a command.
func oneArg(f *flag.FlagSet, what string) (string, error) {
	if f.NArg() != 1 {
		return "", fmt.Errorf("%w: expected exactly one %s argument", finovate.ErrValidation, what)
	}
	return f.Arg(0), nil
}

package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/finovate"
	"github.com/google/subcommands"
)

// profileFlags are the user fields shared by register and profile.
type profileFlags struct {
	name, address, phone, email, occupation, picture, idDoc string
	age                                                     int
}

func (p *profileFlags) set(f *flag.FlagSet) {
	f.StringVar(&p.name, "name", "", "Full name.")
	f.IntVar(&p.age, "age", 0, "Age.")
	f.StringVar(&p.address, "address", "", "Postal address.")
	f.StringVar(&p.phone, "phone", "", "Phone number.")
	f.StringVar(&p.email, "email", "", "Email, used to recover the password.")
	f.StringVar(&p.occupation, "occupation", "", "Occupation.")
	f.StringVar(&p.picture, "picture", "", "Profile picture, as a data URI.")
	f.StringVar(&p.idDoc, "id-doc", "", "Identity document, printed on invoices.")
}

type registerCmd struct {
	profileFlags
	password, confirm string
}

func (*registerCmd) Name() string     { return "register" }
func (*registerCmd) Synopsis() string { return "create the user profile" }
func (*registerCmd) Usage() string {
	return `finovate register -name <name> -age <age> -address <address> -phone <phone> -email <email> -occupation <occupation> -password <code> -confirm <code> [-id-doc <id>]

  Creates the owner of the ledger. There is only one user per store.
`
}

func (c *registerCmd) SetFlags(f *flag.FlagSet) {
	c.profileFlags.set(f)
	f.StringVar(&c.password, "password", "", "Unlock code.")
	f.StringVar(&c.confirm, "confirm", "", "Unlock code, again.")
}

func (c *registerCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(func(s *session) error {
		u := finovate.User{
			Name:           c.name,
			Age:            c.age,
			Address:        c.address,
			Phone:          c.phone,
			Email:          c.email,
			Occupation:     c.occupation,
			ProfilePicture: c.picture,
			IDDocument:     c.idDoc,
			Password:       c.password,
		}
		l, u, err := s.ledger.Register(u, c.confirm)
		if err != nil {
			return err
		}
		if err := s.save(l); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Welcome %s!\n", u.Name)
		return nil
	})
}

type loginCmd struct {
	password string
}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "check the unlock code" }
func (*loginCmd) Usage() string {
	return `finovate login -password <code>

  Checks the unlock code of the registered user.
`
}

func (c *loginCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.password, "password", "", "Unlock code.")
}

func (c *loginCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(func(s *session) error {
		u, err := s.user()
		if err != nil {
			return err
		}
		if err := u.Unlock(c.password); err != nil {
			s.logger.Warn("failed unlock attempt")
			return err
		}
		fmt.Fprintf(stdout, "Welcome back %s.\n", u.Name)
		return nil
	})
}

type resetPasswordCmd struct {
	email, password, confirm string
}

func (*resetPasswordCmd) Name() string     { return "reset-password" }
func (*resetPasswordCmd) Synopsis() string { return "choose a new unlock code" }
func (*resetPasswordCmd) Usage() string {
	return fmt.Sprintf(`finovate reset-password -email <email> -password <code> -confirm <code>

  Replaces the unlock code, provided the email is the registered one.
  The new code must have at least %d characters.
`, finovate.MinPasswordLength)
}

func (c *resetPasswordCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.email, "email", "", "Registered email.")
	f.StringVar(&c.password, "password", "", "New unlock code.")
	f.StringVar(&c.confirm, "confirm", "", "New unlock code, again.")
}

func (c *resetPasswordCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(func(s *session) error {
		l, err := s.ledger.ResetPassword(c.email, c.password, c.confirm)
		if err != nil {
			return err
		}
		if err := s.save(l); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "Password changed.")
		return nil
	})
}

type profileCmd struct {
	profileFlags
}

func (*profileCmd) Name() string     { return "profile" }
func (*profileCmd) Synopsis() string { return "show or update the user profile" }
func (*profileCmd) Usage() string {
	return `finovate profile [-name <name>] [-age <age>] [-address <address>] [-phone <phone>] [-email <email>] [-occupation <occupation>] [-id-doc <id>]

  Without flags, prints the profile. With flags, updates only the given fields.
`
}

func (c *profileCmd) SetFlags(f *flag.FlagSet) { c.profileFlags.set(f) }

func (c *profileCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(func(s *session) error {
		u, err := s.user()
		if err != nil {
			return err
		}
		if f.NFlag() == 0 {
			printMarkdown(profileMarkdown(u))
			return nil
		}

		var p finovate.ProfileUpdate
		f.Visit(func(fl *flag.Flag) {
			switch fl.Name {
			case "name":
				p.Name = &c.name
			case "age":
				p.Age = &c.age
			case "address":
				p.Address = &c.address
			case "phone":
				p.Phone = &c.phone
			case "email":
				p.Email = &c.email
			case "occupation":
				p.Occupation = &c.occupation
			case "picture":
				p.ProfilePicture = &c.picture
			case "id-doc":
				p.IDDocument = &c.idDoc
			}
		})
		l, err := s.ledger.UpdateProfile(p)
		if err != nil {
			return err
		}
		if err := s.save(l); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "Profile updated.")
		return nil
	})
}

func profileMarkdown(u finovate.User) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", u.Name)
	fields := []struct{ label, value string }{
		{"Edad", fmt.Sprint(u.Age)},
		{"Dirección", u.Address},
		{"Teléfono", u.Phone},
		{"Email", u.Email},
		{"Ocupación", u.Occupation},
		{"Documento", u.IDDocument},
	}
	for _, f := range fields {
		if f.value != "" {
			fmt.Fprintf(&b, "- **%s:** %s\n", f.label, f.value)
		}
	}
	return b.String()
}

type wipeCmd struct {
	yes bool
}

func (*wipeCmd) Name() string     { return "wipe" }
func (*wipeCmd) Synopsis() string { return "delete every record and the profile" }
func (*wipeCmd) Usage() string {
	return `finovate wipe [-y]

  Deletes the user, the items, the reminders and the bank accounts from the store.
  Export a backup first.
`
}

func (c *wipeCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "y", false, "Do not ask for confirmation.")
}

func (c *wipeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(func(s *session) error {
		if !c.yes && !confirm("Delete all your data?") {
			return errCancelled
		}
		if err := s.store.Clear(); err != nil {
			return err
		}
		s.ledger = finovate.Ledger{}
		fmt.Fprintln(stdout, "All data deleted.")
		return nil
	})
}

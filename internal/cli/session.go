package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"
	"github.com/google/uuid"

	"github.com/arrotondami/wealth-engine/internal/models"
)

type loginCmd struct {
	id    string
	name  string
	color string
}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "log in and load that profile's ledger" }
func (*loginCmd) Usage() string {
	return `login -name <name> [-id <id>] [-color <style>]

  Makes the given profile the active one and loads its ledger.
  - name: display name of the profile (required).
  - id:   stable profile identifier. Omit to create a new profile.
  - color: avatar style tag stored with the profile.
`
}

func (c *loginCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Profile display name (required)")
	f.StringVar(&c.id, "id", "", "Profile identifier, generated when empty")
	f.StringVar(&c.color, "color", "bg-blue-500", "Avatar style tag")
}

func (c *loginCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" {
		fmt.Fprintln(os.Stderr, "Error: -name is required.")
		return subcommands.ExitUsageError
	}

	a, err := newApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	user := models.User{
		ID:          c.id,
		Name:        c.name,
		AvatarColor: c.color,
		CreatedAt:   time.Now().UTC(),
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	if err := a.sessions.Login(ctx, user); err != nil {
		fmt.Fprintf(os.Stderr, "Error logging in: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Logged in as %s (%s)\n", user.Name, user.ID)
	return subcommands.ExitSuccess
}

type logoutCmd struct {
	yes bool
}

func (*logoutCmd) Name() string     { return "logout" }
func (*logoutCmd) Synopsis() string { return "log out of the active profile" }
func (*logoutCmd) Usage() string {
	return `logout -yes

  Forgets the active profile. The ledger stays on this machine and is loaded
  again at the next login. The -yes flag confirms the logout.
`
}

func (c *logoutCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "yes", false, "Confirm the logout")
}

func (c *logoutCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.yes {
		fmt.Fprintln(os.Stderr, "Logout keeps your data on this machine. Re-run with -yes to confirm.")
		return subcommands.ExitUsageError
	}

	a, err := newApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := a.requireSession(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := a.sessions.Logout(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error logging out: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Println("Logged out. Your data stays saved on this machine.")
	return subcommands.ExitSuccess
}

type whoamiCmd struct{}

func (*whoamiCmd) Name() string     { return "whoami" }
func (*whoamiCmd) Synopsis() string { return "show the active profile" }
func (*whoamiCmd) Usage() string {
	return `whoami

  Prints the active profile, if any.
`
}

func (*whoamiCmd) SetFlags(f *flag.FlagSet) {}

func (*whoamiCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if a.user == nil {
		fmt.Println("Not logged in.")
		return subcommands.ExitSuccess
	}
	fmt.Printf("%s (%s), profile created %s\n", a.user.Name, a.user.ID, a.user.CreatedAt.Format("2006-01-02"))
	return subcommands.ExitSuccess
}

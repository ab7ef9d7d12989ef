package cli

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"kharcha/internal/core"
)

func (a *App) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email (prompted if omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	creds, err := readCredentials(*email)
	if err != nil {
		return err
	}

	sess, err := a.Client.Login(ctx, creds)
	if err != nil {
		return err
	}
	if sess.IsAdmin {
		fmt.Fprintf(a.Out, "Logged in as %s (admin)\n", creds.Email)
	} else {
		fmt.Fprintf(a.Out, "Logged in as %s\n", creds.Email)
	}
	return nil
}

func (a *App) cmdLogout(_ context.Context) error {
	if err := a.Client.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(a.Out, "Logged out")
	return nil
}

func (a *App) cmdWhoami(ctx context.Context) error {
	if err := a.requireAuth(); err != nil {
		return err
	}
	p, err := a.Client.Profile(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "%s <%s>\n", p.Name, p.Email)
	if p.Role != "" {
		fmt.Fprintf(a.Out, "role: %s\n", p.Role)
	}
	return nil
}

func (a *App) cmdRegister(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "account email (prompted if omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*name) == "" {
		return fmt.Errorf("missing -name")
	}

	creds, err := readCredentials(*email)
	if err != nil {
		return err
	}
	if err := a.Client.Register(ctx, strings.TrimSpace(*name), creds); err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Account created for %s; run 'kharcha login'\n", creds.Email)
	return nil
}

// readCredentials prompts for whatever is missing. The password prompt
// disables echo when stdin is a terminal and falls back to a plain line
// read when it is not (pipes, tests).
func readCredentials(email string) (core.Credentials, error) {
	reader := bufio.NewReader(os.Stdin)

	email = strings.TrimSpace(email)
	if email == "" {
		fmt.Fprint(os.Stderr, "Email: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return core.Credentials{}, fmt.Errorf("read email: %w", err)
		}
		email = strings.TrimSpace(line)
	}

	var password string
	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprint(os.Stderr, "Password: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return core.Credentials{}, fmt.Errorf("read password: %w", err)
		}
		password = string(raw)
	} else {
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return core.Credentials{}, fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimSpace(line)
	}

	return core.Credentials{Email: email, Password: password}, nil
}

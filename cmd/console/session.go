package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jrsteele09/go-warehouse-console/console"
	"github.com/jrsteele09/go-warehouse-console/internal/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const passwordEnvVar = "CONSOLE_PASSWORD"

// open loads config, configures logging and builds an anonymous console.
// The returned context is cancelled on SIGINT/SIGTERM.
func open(cmd *cobra.Command, flags *globalFlags) (context.Context, *console.Console, func(), error) {
	c, err := config.Load(flags.configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := console.ConfigureLogging(c.GetLogLevel(), c.GetEnv(), os.Stderr); err != nil {
		return nil, nil, nil, fmt.Errorf("log level %q: %w", c.GetLogLevel(), err)
	}
	if !flags.quiet {
		displayAppname(c.GetAppName())
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	con, err := console.New(ctx, c)
	if err != nil {
		stop()
		return nil, nil, nil, err
	}
	return ctx, con, func() {
		if err := con.Close(); err != nil {
			log.Err(err).Msg("close console")
		}
		stop()
	}, nil
}

// withSession signs in, opens view and runs fn, signing out afterwards
// whatever fn returns.
func withSession(cmd *cobra.Command, flags *globalFlags, view string, fn func(ctx context.Context, con *console.Console) error) (err error) {
	ctx, con, closeFn, err := open(cmd, flags)
	if err != nil {
		return err
	}
	defer closeFn()

	email, password, err := credentials(flags)
	if err != nil {
		return err
	}
	if err := con.Auth.Login(ctx, email, password); err != nil {
		return fmt.Errorf("login as %s: %w", email, err)
	}
	defer func() {
		if logoutErr := con.Auth.Logout(context.WithoutCancel(ctx)); logoutErr != nil {
			log.Err(logoutErr).Msg("logout")
		}
	}()

	if err := con.Open(view); err != nil {
		return err
	}
	return fn(ctx, con)
}

// credentials prompts for anything not supplied by flag or environment
func credentials(flags *globalFlags) (string, string, error) {
	email := strings.TrimSpace(flags.email)
	if email == "" {
		fmt.Fprint(os.Stderr, "Email: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return "", "", fmt.Errorf("read email: %w", err)
		}
		email = strings.TrimSpace(line)
	}

	if password, ok := os.LookupEnv(passwordEnvVar); ok {
		return email, password, nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", "", fmt.Errorf("no terminal for the password prompt; set %s", passwordEnvVar)
	}
	fmt.Fprint(os.Stderr, "Password: ")
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", "", fmt.Errorf("read password: %w", err)
	}
	return email, string(pw), nil
}

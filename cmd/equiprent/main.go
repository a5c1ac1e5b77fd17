// Command equiprent is a terminal shell over the rental client: it signs in
// against the gateway and drives the owner and renter dashboards.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"equiprent/internal/config"
	"equiprent/internal/dashboard"
	"equiprent/internal/gateway"
	"equiprent/internal/gateway/rest"
	"equiprent/internal/logger"
	"equiprent/internal/session"
)

const usage = `usage: equiprent [flags] <command> [args]

commands:
  signup <owner,renter>                       create an account with the given roles
  whoami                                      show the signed-in identity and roles
  dashboard [owner|renter]                    show a dashboard (default: first role)
  approve <booking-id>                        approve a pending request
  reject <booking-id>                         decline a pending request
  toggle <equipment-id>                       flip a listing between available and maintenance
  browse [type] [query]                       list available equipment
  list-equipment <title> <type> <rate> [img]  create a listing (rate in dollars per day)
  book <equipment-id> <start> <end>           request a rental (dates as YYYY-MM-DD)
  signout                                     sign in and revoke the session at once

flags:
`

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	email := flag.String("email", os.Getenv("EQUIPRENT_EMAIL"), "Account e-mail (default $EQUIPRENT_EMAIL)")
	password := flag.String("password", os.Getenv("EQUIPRENT_PASSWORD"), "Account password (default $EQUIPRENT_PASSWORD)")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.ValidateClient(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Logs go to stderr so command output stays clean.
	logger.InitializeWriter(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []rest.Option{rest.WithTimeout(cfg.GatewayTimeout())}
	if cfg.Gateway.ServiceKey != "" {
		opts = append(opts, rest.WithServiceKey(cfg.Gateway.ServiceKey))
	}
	gw := rest.New(cfg.Gateway.URL, cfg.Gateway.APIKey, opts...).Gateway()

	sess := session.FromGateway(gw)
	stopSync, err := sess.Start(ctx)
	if err != nil {
		log.Fatalf("Failed to start session: %v", err)
	}
	defer stopSync()

	deps := dashboard.NewDeps(gw)
	switcher := dashboard.NewSwitcher(ctx, sess, deps)
	defer switcher.Close()

	app := &app{
		out:      os.Stdout,
		listing:  deps.Listing,
		session:  sess,
		switcher: switcher,
		email:    *email,
		password: *password,
	}
	if err := app.run(ctx, flag.Arg(0), flag.Args()[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "equiprent: %s\n", describe(err))
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// describe turns client errors into the short messages a user should see.
func describe(err error) string {
	var authErr *session.AuthError
	switch {
	case session.IsValidation(err):
		return err.Error()
	case errors.As(err, &authErr) && authErr.Op == "sign in":
		return "sign-in failed: check the e-mail and password"
	case errors.Is(err, gateway.ErrUnauthorized):
		return "session expired: sign in again"
	case errors.Is(err, gateway.ErrConflict):
		return "the record changed in the meantime; reload and try again"
	case errors.Is(err, gateway.ErrForbidden):
		return "not allowed for this account"
	case errors.Is(err, gateway.ErrNotFound):
		return "not found"
	}
	return err.Error()
}

// Command app runs the MyFinance HTTP API and a few admin subcommands.
//
// Usage:
//
//	app [serve]
//	app adduser -name NAME -email EMAIL
//	app token -user USER_ID
//	app reconcile -user USER_ID -bank BANK_ID -file statement.csv
//	app seed -user USER_ID
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"myfinance/internal/api"
	"myfinance/internal/service"
	"myfinance/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type command func(ctx context.Context, a *app, args []string) error

var commands = map[string]command{
	"serve":     serve,
	"adduser":   addUser,
	"token":     issueToken,
	"reconcile": reconcile,
	"seed":      seed,
}

func main() {
	name, args := "serve", os.Args[1:]
	if len(args) > 0 {
		name, args = args[0], args[1:]
	}
	cmd, ok := commands[name]
	if !ok {
		names := make([]string, 0, len(commands))
		for n := range commands {
			names = append(names, n)
		}
		sort.Strings(names)
		fmt.Fprintf(os.Stderr, "unknown command %q, available: %v\n", name, names)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}
	if err := cmd(ctx, a, args); err != nil {
		a.log.Error("App: command failed", zap.String("command", name), zap.Error(err))
		a.Close()
		os.Exit(1)
	}
	a.Close()
}

func serve(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := fs.String("addr", a.cfg.HTTPAddr, "listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           api.NewServer(a.accounts, a.transactions, a.users, a.issuer, a.log, a.cfg.RecentLimit).Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("App: listening", zap.String("addr", *addr), zap.String("env", a.cfg.Env))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	a.log.Info("App: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("serve: shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

func addUser(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "email address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	u, err := a.users.CreateUser(ctx, *name, *email)
	if err != nil {
		return err
	}
	token, err := a.issuer.GenerateToken(u.UserID)
	if err != nil {
		return err
	}
	fmt.Printf("user:  %s\ntoken: %s\n", u.UserID, token)
	return nil
}

func issueToken(_ context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	userID := fs.String("user", "", "user id the token is issued for")
	if err := fs.Parse(args); err != nil {
		return err
	}

	token, err := a.issuer.GenerateToken(*userID)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

func reconcile(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("reconcile", flag.ContinueOnError)
	userID := fs.String("user", "", "owner of the bank")
	bankID := fs.Int64("bank", 0, "bank id to reconcile")
	file := fs.String("file", "data/external_transactions.csv", "statement CSV")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *userID == "" || *bankID <= 0 {
		return errors.New("reconcile: -user and -bank are required")
	}

	report, err := a.reconciliation.ReconcileStatement(ctx, *userID, *bankID, *file)
	if err != nil {
		return err
	}
	_, err = report.WriteTo(os.Stdout)
	return err
}

// seed writes a small ledger for userID: two accounts, a profit and a
// transfer between them. Useful to produce binlog traffic for the feed.
func seed(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	userID := fs.String("user", "", "owner of the seeded accounts")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *userID == "" {
		return errors.New("seed: -user is required")
	}

	wallet, err := a.accounts.CreateAccount(ctx, *userID, service.NewAccount{Name: "Wallet", Emoji: "💰", Type: models.BankTypeWallet})
	if err != nil {
		return err
	}
	savings, err := a.accounts.CreateAccount(ctx, *userID, service.NewAccount{Name: "Savings", Emoji: "🐷", Type: models.BankTypeSavings})
	if err != nil {
		return err
	}
	if err := a.transactions.RecordSimpleTransaction(ctx, *userID, wallet, decimal.NewFromInt(50), "Salary", models.KindProfit); err != nil {
		return err
	}
	if err := a.transactions.RecordTransfer(ctx, *userID, wallet, savings, decimal.NewFromInt(20), "Monthly saving"); err != nil {
		return err
	}

	totals := a.transactions.AggregateTotals(ctx, *userID)
	if totals != nil {
		fmt.Printf("seeded banks %d, %d; sum=%s count=%d\n", wallet, savings, totals.Sum, totals.Count)
	}
	return nil
}

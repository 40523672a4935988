package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/holiman/uint256"
	"github.com/rs/zerolog"

	"github.com/pflow-xyz/go-tokenledger/eventsource"
	"github.com/pflow-xyz/go-tokenledger/ledgerstore"
	"github.com/pflow-xyz/go-tokenledger/service"
	"github.com/pflow-xyz/go-tokenledger/token"
)

const defaultDB = "tokenledger.db"

// dbFlag registers the shared -db flag, honoring TOKENLEDGER_DB.
func dbFlag(fs *flag.FlagSet) *string {
	def := defaultDB
	if env := os.Getenv("TOKENLEDGER_DB"); env != "" {
		def = env
	}
	return fs.String("db", def, "path to the SQLite event store")
}

func verboseFlag(fs *flag.FlagSet) *bool {
	return fs.Bool("verbose", false, "log every applied command")
}

func openRepo(path string) (*ledgerstore.Repository, func(), error) {
	store, err := eventsource.NewSQLiteStore(path)
	if err != nil {
		return nil, nil, err
	}
	return ledgerstore.NewRepository(store, ""), func() { store.Close() }, nil
}

// withService runs fn against a started single-writer service so every
// mutation goes through the same serialization boundary as an embedded
// deployment would use.
func withService(path string, verbose bool, fn func(ctx context.Context, svc *service.Service) error) error {
	repo, closeStore, err := openRepo(path)
	if err != nil {
		return err
	}
	defer closeStore()

	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	svc := service.New(repo, log)
	if err := svc.Start(); err != nil {
		return err
	}
	defer svc.Stop()

	return fn(context.Background(), svc)
}

func parseAddr(name, value string) (token.Address, error) {
	if value == "" {
		return token.Address{}, fmt.Errorf("-%s is required", name)
	}
	addr, err := token.ParseAddress(value)
	if err != nil {
		return token.Address{}, fmt.Errorf("-%s: %w", name, err)
	}
	return addr, nil
}

func parseAmount(value string) (*uint256.Int, error) {
	if value == "" {
		return nil, fmt.Errorf("-amount is required")
	}
	amount, err := uint256.FromDecimal(value)
	if err != nil {
		return nil, fmt.Errorf("-amount: %w", err)
	}
	return amount, nil
}

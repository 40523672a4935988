package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/pflow-xyz/go-tokenledger/commitment"
)

func stateRoot(args []string) error {
	fs := flag.NewFlagSet("root", flag.ExitOnError)
	db := dbFlag(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	repo, closeStore, err := openRepo(*db)
	if err != nil {
		return err
	}
	defer closeStore()

	ledger, version, err := repo.Load(context.Background())
	if err != nil {
		return err
	}

	root, err := commitment.LedgerRoot(ledger)
	if err != nil {
		return err
	}

	fmt.Printf("version %d\n", version)
	fmt.Printf("balance root %s\n", root)
	return nil
}

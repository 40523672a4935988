package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/pflow-xyz/go-tokenledger/service"
)

func burn(args []string) error {
	fs := flag.NewFlagSet("burn", flag.ExitOnError)
	db := dbFlag(fs)
	verbose := verboseFlag(fs)
	from := fs.String("from", "", "account burning its own tokens")
	amount := fs.String("amount", "", "amount in base units")
	if err := fs.Parse(args); err != nil {
		return err
	}

	fromAddr, err := parseAddr("from", *from)
	if err != nil {
		return err
	}
	value, err := parseAmount(*amount)
	if err != nil {
		return err
	}

	return withService(*db, *verbose, func(ctx context.Context, svc *service.Service) error {
		_, version, err := svc.Burn(ctx, fromAddr, value)
		if err != nil {
			return err
		}

		ledger, _, err := svc.Ledger(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Burned %s from %s (version %d)\n", value.Dec(), fromAddr, version)
		fmt.Printf("Outstanding supply: %s\n", ledger.TotalSupply().Dec())
		return nil
	})
}

package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/pflow-xyz/go-tokenledger/service"
)

func approve(args []string) error {
	fs := flag.NewFlagSet("approve", flag.ExitOnError)
	db := dbFlag(fs)
	verbose := verboseFlag(fs)
	owner := fs.String("owner", "", "account granting the allowance")
	spender := fs.String("spender", "", "account receiving the allowance")
	amount := fs.String("amount", "", "allowance in base units; overwrites any prior value")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ownerAddr, err := parseAddr("owner", *owner)
	if err != nil {
		return err
	}
	spenderAddr, err := parseAddr("spender", *spender)
	if err != nil {
		return err
	}
	value, err := parseAmount(*amount)
	if err != nil {
		return err
	}

	return withService(*db, *verbose, func(ctx context.Context, svc *service.Service) error {
		_, version, err := svc.Approve(ctx, ownerAddr, spenderAddr, value)
		if err != nil {
			return err
		}
		fmt.Printf("Approved %s for %s by %s (version %d)\n", value.Dec(), spenderAddr, ownerAddr, version)
		return nil
	})
}

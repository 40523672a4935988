package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/pflow-xyz/go-tokenledger/service"
)

func transfer(args []string) error {
	fs := flag.NewFlagSet("transfer", flag.ExitOnError)
	db := dbFlag(fs)
	verbose := verboseFlag(fs)
	from := fs.String("from", "", "sender address")
	to := fs.String("to", "", "recipient address")
	amount := fs.String("amount", "", "amount in base units")
	if err := fs.Parse(args); err != nil {
		return err
	}

	fromAddr, err := parseAddr("from", *from)
	if err != nil {
		return err
	}
	toAddr, err := parseAddr("to", *to)
	if err != nil {
		return err
	}
	value, err := parseAmount(*amount)
	if err != nil {
		return err
	}

	return withService(*db, *verbose, func(ctx context.Context, svc *service.Service) error {
		_, version, err := svc.Transfer(ctx, fromAddr, toAddr, value)
		if err != nil {
			return err
		}
		fmt.Printf("Transferred %s from %s to %s (version %d)\n", value.Dec(), fromAddr, toAddr, version)
		return nil
	})
}

func transferFrom(args []string) error {
	fs := flag.NewFlagSet("transferfrom", flag.ExitOnError)
	db := dbFlag(fs)
	verbose := verboseFlag(fs)
	spender := fs.String("spender", "", "spender exercising the allowance")
	from := fs.String("from", "", "account being debited")
	to := fs.String("to", "", "recipient address")
	amount := fs.String("amount", "", "amount in base units")
	if err := fs.Parse(args); err != nil {
		return err
	}

	spenderAddr, err := parseAddr("spender", *spender)
	if err != nil {
		return err
	}
	fromAddr, err := parseAddr("from", *from)
	if err != nil {
		return err
	}
	toAddr, err := parseAddr("to", *to)
	if err != nil {
		return err
	}
	value, err := parseAmount(*amount)
	if err != nil {
		return err
	}

	return withService(*db, *verbose, func(ctx context.Context, svc *service.Service) error {
		_, version, err := svc.TransferFrom(ctx, spenderAddr, fromAddr, toAddr, value)
		if err != nil {
			return err
		}
		fmt.Printf("Transferred %s from %s to %s via %s (version %d)\n",
			value.Dec(), fromAddr, toAddr, spenderAddr, version)
		return nil
	})
}

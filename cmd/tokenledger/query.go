package main

import (
	"context"
	"flag"
	"fmt"
)

func balance(args []string) error {
	fs := flag.NewFlagSet("balance", flag.ExitOnError)
	db := dbFlag(fs)
	account := fs.String("account", "", "account address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	accountAddr, err := parseAddr("account", *account)
	if err != nil {
		return err
	}

	repo, closeStore, err := openRepo(*db)
	if err != nil {
		return err
	}
	defer closeStore()

	ledger, _, err := repo.Load(context.Background())
	if err != nil {
		return err
	}

	fmt.Println(ledger.BalanceOf(accountAddr).Dec())
	return nil
}

func allowance(args []string) error {
	fs := flag.NewFlagSet("allowance", flag.ExitOnError)
	db := dbFlag(fs)
	owner := fs.String("owner", "", "granting account")
	spender := fs.String("spender", "", "spending account")
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

	repo, closeStore, err := openRepo(*db)
	if err != nil {
		return err
	}
	defer closeStore()

	ledger, _, err := repo.Load(context.Background())
	if err != nil {
		return err
	}

	fmt.Println(ledger.Allowance(ownerAddr, spenderAddr).Dec())
	return nil
}

func supply(args []string) error {
	fs := flag.NewFlagSet("supply", flag.ExitOnError)
	db := dbFlag(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	repo, closeStore, err := openRepo(*db)
	if err != nil {
		return err
	}
	defer closeStore()

	ledger, _, err := repo.Load(context.Background())
	if err != nil {
		return err
	}

	fmt.Println(ledger.TotalSupply().Dec())
	return nil
}

package main

import (
	"context"
	"flag"
	"fmt"
)

func initLedger(args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	db := dbFlag(fs)
	deployer := fs.String("deployer", "", "deployer address; becomes the owner")
	daoPool := fs.String("dao-pool", "", "DAO pool address")
	contributorPool := fs.String("contributor-pool", "", "contributor pool address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	deployerAddr, err := parseAddr("deployer", *deployer)
	if err != nil {
		return err
	}
	daoAddr, err := parseAddr("dao-pool", *daoPool)
	if err != nil {
		return err
	}
	contribAddr, err := parseAddr("contributor-pool", *contributorPool)
	if err != nil {
		return err
	}

	repo, closeStore, err := openRepo(*db)
	if err != nil {
		return err
	}
	defer closeStore()

	ledger, err := repo.Init(context.Background(), deployerAddr, daoAddr, contribAddr)
	if err != nil {
		return err
	}

	fmt.Printf("Ledger created in %s\n", *db)
	fmt.Printf("  owner:            %s\n", ledger.Owner())
	fmt.Printf("  dao pool:         %s  balance %s\n", ledger.DaoPool(), ledger.BalanceOf(ledger.DaoPool()).Dec())
	fmt.Printf("  contributor pool: %s  balance %s\n", ledger.ContributorPool(), ledger.BalanceOf(ledger.ContributorPool()).Dec())
	fmt.Printf("  total supply:     %s\n", ledger.TotalSupply().Dec())
	return nil
}

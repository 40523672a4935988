package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/pflow-xyz/go-tokenledger/service"
	"github.com/pflow-xyz/go-tokenledger/token"
)

func setDaoPool(args []string) error {
	return setPool("set-dao-pool", args, func(ctx context.Context, svc *service.Service, caller, addr token.Address) (int, error) {
		_, version, err := svc.UpdateDaoPool(ctx, caller, addr)
		return version, err
	})
}

func setContributorPool(args []string) error {
	return setPool("set-contributor-pool", args, func(ctx context.Context, svc *service.Service, caller, addr token.Address) (int, error) {
		_, version, err := svc.UpdateContributorPool(ctx, caller, addr)
		return version, err
	})
}

func setPool(name string, args []string, update func(context.Context, *service.Service, token.Address, token.Address) (int, error)) error {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	db := dbFlag(fs)
	verbose := verboseFlag(fs)
	caller := fs.String("caller", "", "caller address; must be the owner")
	addr := fs.String("address", "", "new pool address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	callerAddr, err := parseAddr("caller", *caller)
	if err != nil {
		return err
	}
	poolAddr, err := parseAddr("address", *addr)
	if err != nil {
		return err
	}

	return withService(*db, *verbose, func(ctx context.Context, svc *service.Service) error {
		version, err := update(ctx, svc, callerAddr, poolAddr)
		if err != nil {
			return err
		}
		fmt.Printf("Pool updated to %s (version %d)\n", poolAddr, version)
		return nil
	})
}

func pools(args []string) error {
	fs := flag.NewFlagSet("pools", flag.ExitOnError)
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

	fmt.Printf("Ledger at version %d\n", version)
	fmt.Printf("  owner:            %s\n", ledger.Owner())
	fmt.Printf("  dao pool:         %s\n", ledger.DaoPool())
	fmt.Printf("  contributor pool: %s\n", ledger.ContributorPool())
	return nil
}

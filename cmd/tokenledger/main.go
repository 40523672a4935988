package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	run := func(fn func([]string) error) {
		if err := fn(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	switch command {
	case "init":
		run(initLedger)
	case "transfer":
		run(transfer)
	case "approve":
		run(approve)
	case "transferfrom":
		run(transferFrom)
	case "burn":
		run(burn)
	case "set-dao-pool":
		run(setDaoPool)
	case "set-contributor-pool":
		run(setContributorPool)
	case "balance":
		run(balance)
	case "allowance":
		run(allowance)
	case "supply":
		run(supply)
	case "pools":
		run(pools)
	case "history":
		run(history)
	case "root":
		run(stateRoot)
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Println("tokenledger version 1.0.0")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`tokenledger - fixed-supply token ledger with governed pools

Usage:
  tokenledger <command> [flags]

Setup:
  init                 Create the ledger and mint the fixed supply
                       (half to each pool)

Mutations:
  transfer             Move tokens between accounts
  approve              Grant a spender an allowance
  transferfrom         Spend an allowance on the owner's behalf
  burn                 Permanently remove tokens from circulation
  set-dao-pool         Repoint the DAO pool address (owner only)
  set-contributor-pool Repoint the contributor pool address (owner only)

Queries:
  balance              Show an account balance
  allowance            Show a granted allowance
  supply               Show the outstanding total supply
  pools                Show owner and pool addresses
  history              Export the event history (jsonl or csv)
  root                 Show the MiMC commitment to the balance map

Common flags:
  -db <path>           SQLite event store (default tokenledger.db,
                       or TOKENLEDGER_DB)

Run 'tokenledger <command> -h' for command flags.`)
}

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pflow-xyz/go-tokenledger/eventlog"
)

func history(args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	db := dbFlag(fs)
	format := fs.String("format", "jsonl", "output format: jsonl or csv")
	out := fs.String("out", "", "output file (default stdout)")
	from := fs.Int("from", 0, "first version to export")
	if err := fs.Parse(args); err != nil {
		return err
	}

	repo, closeStore, err := openRepo(*db)
	if err != nil {
		return err
	}
	defer closeStore()

	stored, err := repo.History(context.Background(), *from)
	if err != nil {
		return err
	}
	records, err := eventlog.FromStored(stored)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	switch *format {
	case "jsonl":
		return eventlog.WriteJSONL(w, records)
	case "csv":
		return eventlog.WriteCSV(w, records)
	default:
		return fmt.Errorf("unknown format %q (want jsonl or csv)", *format)
	}
}

// Package eventlog exports ledger event history to JSONL and CSV for
// off-chain analysis, and parses both formats back.
package eventlog

import (
	"fmt"
	"time"

	"github.com/pflow-xyz/go-tokenledger/eventsource"
	"github.com/pflow-xyz/go-tokenledger/ledgerstore"
	"github.com/pflow-xyz/go-tokenledger/token"
)

// Record is one ledger event flattened for export. From, To, and Amount
// are populated per event type:
//
//	Transfer:               from, to, amount (spender when allowance-funded)
//	Approval:               from=owner, to=spender, amount
//	Burn:                   from, amount
//	LedgerCreated:          from=owner, amount=initial supply
//	*PoolUpdated:           from=previous address, to=current address
type Record struct {
	Version   int       `json:"version"`
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
	From      string    `json:"from,omitempty"`
	To        string    `json:"to,omitempty"`
	Amount    string    `json:"amount,omitempty"`
	Spender   string    `json:"spender,omitempty"`
}

// FromStored flattens a stored event stream into export records.
func FromStored(stored []*eventsource.Event) ([]Record, error) {
	records := make([]Record, 0, len(stored))
	for _, raw := range stored {
		event, err := ledgerstore.DecodeEvent(raw)
		if err != nil {
			return nil, err
		}

		record := Record{
			Version:   raw.Version,
			Timestamp: raw.Timestamp,
			Type:      raw.Type,
		}

		switch e := event.(type) {
		case *token.LedgerCreatedEvent:
			record.From = e.Owner.String()
			record.Amount = e.Supply.Dec()
		case *token.TransferEvent:
			record.From = e.From.String()
			record.To = e.To.String()
			record.Amount = e.Amount.Dec()
			if e.Spender != nil {
				record.Spender = e.Spender.String()
			}
		case *token.ApprovalEvent:
			record.From = e.Owner.String()
			record.To = e.Spender.String()
			record.Amount = e.Amount.Dec()
		case *token.BurnEvent:
			record.From = e.From.String()
			record.Amount = e.Amount.Dec()
		case *token.DaoPoolUpdatedEvent:
			record.From = e.Previous.String()
			record.To = e.Current.String()
		case *token.ContributorPoolUpdatedEvent:
			record.From = e.Previous.String()
			record.To = e.Current.String()
		default:
			return nil, fmt.Errorf("eventlog: unhandled event type %q", raw.Type)
		}

		records = append(records, record)
	}
	return records, nil
}

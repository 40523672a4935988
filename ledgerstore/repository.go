// Package ledgerstore persists a token.Ledger as an event stream.
//
// Every mutation follows the same loop: replay the stream to rebuild the
// ledger, run one operation against it, and append the resulting events
// at the expected stream version. Optimistic concurrency on the append
// keeps concurrent writers from interleaving.
package ledgerstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/pflow-xyz/go-tokenledger/eventsource"
	"github.com/pflow-xyz/go-tokenledger/token"
)

// ErrNotInitialized is returned when the ledger stream does not exist yet.
var ErrNotInitialized = errors.New("ledgerstore: ledger not initialized")

// ErrAlreadyInitialized is returned when Init finds an existing stream.
var ErrAlreadyInitialized = errors.New("ledgerstore: ledger already initialized")

// DefaultStream is the stream ID used for the singleton ledger.
const DefaultStream = "ledger"

// Operation runs one mutating call against a replayed ledger and
// returns the event it emitted.
type Operation func(l *token.Ledger) (token.Event, error)

// Repository loads and mutates a ledger through an event store.
type Repository struct {
	store  eventsource.Store
	stream string
}

// NewRepository creates a repository over the given store and stream.
// An empty stream ID selects DefaultStream.
func NewRepository(store eventsource.Store, stream string) *Repository {
	if stream == "" {
		stream = DefaultStream
	}
	return &Repository{store: store, stream: stream}
}

// Init constructs the ledger and appends its creation events as the
// start of the stream. It fails if the stream already exists.
func (r *Repository) Init(ctx context.Context, deployer, daoPool, contributorPool token.Address) (*token.Ledger, error) {
	if _, _, err := r.Load(ctx); err == nil {
		return nil, ErrAlreadyInitialized
	} else if !errors.Is(err, ErrNotInitialized) {
		return nil, err
	}

	ledger, events, err := token.NewLedger(deployer, daoPool, contributorPool)
	if err != nil {
		return nil, err
	}

	encoded, err := encodeAll(r.stream, events)
	if err != nil {
		return nil, err
	}
	if _, err := r.store.Append(ctx, r.stream, -1, encoded); err != nil {
		return nil, fmt.Errorf("ledgerstore: append creation: %w", err)
	}
	return ledger, nil
}

// Load replays the stream and returns the rebuilt ledger together with
// the version of the last applied event.
func (r *Repository) Load(ctx context.Context) (*token.Ledger, int, error) {
	stored, err := r.store.Read(ctx, r.stream, 0)
	if err != nil {
		if errors.Is(err, eventsource.ErrStreamNotFound) {
			return nil, -1, ErrNotInitialized
		}
		return nil, -1, fmt.Errorf("ledgerstore: read stream: %w", err)
	}

	ledger := token.Empty()
	version := -1
	for _, record := range stored {
		event, err := DecodeEvent(record)
		if err != nil {
			return nil, -1, err
		}
		if err := ledger.Apply(event); err != nil {
			return nil, -1, fmt.Errorf("ledgerstore: replay version %d: %w", record.Version, err)
		}
		version = record.Version
	}
	return ledger, version, nil
}

// Execute replays the ledger, runs op against it, and appends the
// emitted event at the replayed version. The operation's own error is
// returned unwrapped so callers can test it with errors.Is.
func (r *Repository) Execute(ctx context.Context, op Operation) (token.Event, int, error) {
	ledger, version, err := r.Load(ctx)
	if err != nil {
		return nil, -1, err
	}

	event, err := op(ledger)
	if err != nil {
		return nil, version, err
	}

	encoded, err := encodeAll(r.stream, []token.Event{event})
	if err != nil {
		return nil, version, err
	}
	newVersion, err := r.store.Append(ctx, r.stream, version, encoded)
	if err != nil {
		return nil, version, fmt.Errorf("ledgerstore: append %s: %w", event.Type(), err)
	}
	return event, newVersion, nil
}

// History returns the decoded event stream from fromVersion onward,
// paired with its stored records for timestamps and versions.
func (r *Repository) History(ctx context.Context, fromVersion int) ([]*eventsource.Event, error) {
	stored, err := r.store.Read(ctx, r.stream, fromVersion)
	if err != nil {
		if errors.Is(err, eventsource.ErrStreamNotFound) {
			return nil, ErrNotInitialized
		}
		return nil, err
	}
	return stored, nil
}

func encodeAll(stream string, events []token.Event) ([]*eventsource.Event, error) {
	encoded := make([]*eventsource.Event, 0, len(events))
	for _, event := range events {
		record, err := eventsource.NewEvent(stream, event.Type(), event)
		if err != nil {
			return nil, fmt.Errorf("ledgerstore: encode %s: %w", event.Type(), err)
		}
		encoded = append(encoded, record)
	}
	return encoded, nil
}

// DecodeEvent converts a stored record back into its token event.
func DecodeEvent(record *eventsource.Event) (token.Event, error) {
	var event token.Event
	switch record.Type {
	case token.EventLedgerCreated:
		event = &token.LedgerCreatedEvent{}
	case token.EventTransfer:
		event = &token.TransferEvent{}
	case token.EventApproval:
		event = &token.ApprovalEvent{}
	case token.EventBurn:
		event = &token.BurnEvent{}
	case token.EventDaoPoolUpdated:
		event = &token.DaoPoolUpdatedEvent{}
	case token.EventContributorPoolUpdated:
		event = &token.ContributorPoolUpdatedEvent{}
	default:
		return nil, fmt.Errorf("ledgerstore: unknown event type %q at version %d", record.Type, record.Version)
	}

	if err := record.Decode(event); err != nil {
		return nil, fmt.Errorf("ledgerstore: decode %s at version %d: %w", record.Type, record.Version, err)
	}
	return event, nil
}

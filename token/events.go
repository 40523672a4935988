package token

import "github.com/holiman/uint256"

// Event type names as they appear in the persisted event stream.
const (
	EventLedgerCreated          = "LedgerCreated"
	EventTransfer               = "Transfer"
	EventApproval               = "Approval"
	EventBurn                   = "Burn"
	EventDaoPoolUpdated         = "DaoPoolUpdated"
	EventContributorPoolUpdated = "ContributorPoolUpdated"
)

// Event is an observable side effect of a ledger operation.
// Replaying the full event sequence through Ledger.Apply rebuilds
// the exact ledger state.
type Event interface {
	// Type returns the event type name.
	Type() string
}

// LedgerCreatedEvent records construction: owner assignment, pool
// assignment, and the initial half-and-half mint of the fixed supply.
type LedgerCreatedEvent struct {
	Owner           Address      `json:"owner"`
	DaoPool         Address      `json:"dao_pool"`
	ContributorPool Address      `json:"contributor_pool"`
	Supply          *uint256.Int `json:"supply"`
}

func (e *LedgerCreatedEvent) Type() string { return EventLedgerCreated }

// TransferEvent records movement of tokens between two accounts.
// Spender is set when the transfer was executed against an allowance,
// in which case replay also debits allowances[From][Spender].
type TransferEvent struct {
	From    Address      `json:"from"`
	To      Address      `json:"to"`
	Amount  *uint256.Int `json:"amount"`
	Spender *Address     `json:"spender,omitempty"`
}

func (e *TransferEvent) Type() string { return EventTransfer }

// ApprovalEvent records an allowance grant, overwriting any prior value.
type ApprovalEvent struct {
	Owner   Address      `json:"owner"`
	Spender Address      `json:"spender"`
	Amount  *uint256.Int `json:"amount"`
}

func (e *ApprovalEvent) Type() string { return EventApproval }

// BurnEvent records permanent removal of tokens from circulation.
type BurnEvent struct {
	From   Address      `json:"from"`
	Amount *uint256.Int `json:"amount"`
}

func (e *BurnEvent) Type() string { return EventBurn }

// DaoPoolUpdatedEvent records an owner-gated DAO pool reassignment.
type DaoPoolUpdatedEvent struct {
	Previous Address `json:"previous"`
	Current  Address `json:"current"`
}

func (e *DaoPoolUpdatedEvent) Type() string { return EventDaoPoolUpdated }

// ContributorPoolUpdatedEvent records an owner-gated contributor pool
// reassignment.
type ContributorPoolUpdatedEvent struct {
	Previous Address `json:"previous"`
	Current  Address `json:"current"`
}

func (e *ContributorPoolUpdatedEvent) Type() string { return EventContributorPoolUpdated }

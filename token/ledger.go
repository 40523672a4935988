// Package token implements a fixed-supply fungible-token ledger with two
// governed allocation pools.
//
// The full supply is minted once at construction, split evenly between a
// DAO pool and a contributor pool, and only ever decreases through burns.
// Every mutating operation is atomic: it either fully applies or fails
// with a typed error and zero state change. The Ledger itself is not
// safe for concurrent use; callers serialize access (see package service).
package token

import (
	"fmt"
	"sort"

	"github.com/holiman/uint256"
)

// Decimals is the fixed-point precision of all token amounts.
const Decimals = 18

// TotalSupply returns the fixed initial supply: 10^9 whole tokens at
// 18 decimal places. A fresh value is returned on each call.
func TotalSupply() *uint256.Int {
	// 10^9 * 10^18 = 10^27
	return new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(27))
}

// Ledger is the authoritative record of balances, allowances, supply,
// and pool governance for a single token.
type Ledger struct {
	balances    map[Address]*uint256.Int
	allowances  map[Address]map[Address]*uint256.Int
	totalSupply *uint256.Int

	owner           Address
	daoPool         Address
	contributorPool Address
}

// NewLedger constructs the ledger, mints TotalSupply/2 to each pool, and
// assigns ownership to the deployer. It fails with ErrInvalidAddress if
// either pool address is zero, leaving no ledger created.
func NewLedger(deployer, daoPool, contributorPool Address) (*Ledger, []Event, error) {
	if daoPool.IsZero() {
		return nil, nil, fmt.Errorf("%w: dao pool is the zero address", ErrInvalidAddress)
	}
	if contributorPool.IsZero() {
		return nil, nil, fmt.Errorf("%w: contributor pool is the zero address", ErrInvalidAddress)
	}

	l := &Ledger{
		balances:   make(map[Address]*uint256.Int),
		allowances: make(map[Address]map[Address]*uint256.Int),
	}

	created := &LedgerCreatedEvent{
		Owner:           deployer,
		DaoPool:         daoPool,
		ContributorPool: contributorPool,
		Supply:          TotalSupply(),
	}
	if err := l.applyCreated(created); err != nil {
		return nil, nil, err
	}

	return l, []Event{created}, nil
}

// Empty returns an unconstructed ledger for event replay.
func Empty() *Ledger {
	return &Ledger{
		balances:    make(map[Address]*uint256.Int),
		allowances:  make(map[Address]map[Address]*uint256.Int),
		totalSupply: uint256.NewInt(0),
	}
}

// Transfer moves amount from one account to another and returns the
// emitted transfer event. It fails with ErrInvalidAddress if to is zero
// and ErrInsufficientBalance if amount exceeds the sender's balance.
func (l *Ledger) Transfer(from, to Address, amount *uint256.Int) (Event, error) {
	if to.IsZero() {
		return nil, fmt.Errorf("%w: transfer to the zero address", ErrInvalidAddress)
	}
	if l.balance(from).Lt(amount) {
		return nil, fmt.Errorf("%w: %s has %s, transfer needs %s",
			ErrInsufficientBalance, from, l.balance(from), amount)
	}

	l.debit(from, amount)
	l.credit(to, amount)

	return &TransferEvent{From: from, To: to, Amount: amount.Clone()}, nil
}

// Approve sets the allowance granted by owner to spender, overwriting
// any prior value. No balance check is performed.
func (l *Ledger) Approve(owner, spender Address, amount *uint256.Int) (Event, error) {
	l.setAllowance(owner, spender, amount.Clone())
	return &ApprovalEvent{Owner: owner, Spender: spender, Amount: amount.Clone()}, nil
}

// TransferFrom spends spender's allowance to move amount from one
// account to another. The allowance is checked before the balance; on
// success both are debited.
func (l *Ledger) TransferFrom(spender, from, to Address, amount *uint256.Int) (Event, error) {
	if to.IsZero() {
		return nil, fmt.Errorf("%w: transfer to the zero address", ErrInvalidAddress)
	}
	if l.Allowance(from, spender).Lt(amount) {
		return nil, fmt.Errorf("%w: %s allows %s only %s, transfer needs %s",
			ErrInsufficientAllowance, from, spender, l.Allowance(from, spender), amount)
	}
	if l.balance(from).Lt(amount) {
		return nil, fmt.Errorf("%w: %s has %s, transfer needs %s",
			ErrInsufficientBalance, from, l.balance(from), amount)
	}

	remaining := new(uint256.Int).Sub(l.Allowance(from, spender), amount)
	l.setAllowance(from, spender, remaining)
	l.debit(from, amount)
	l.credit(to, amount)

	sp := spender
	return &TransferEvent{From: from, To: to, Amount: amount.Clone(), Spender: &sp}, nil
}

// Burn permanently removes amount from caller's balance and from the
// total supply. It fails with ErrInsufficientBalance if amount exceeds
// the caller's balance.
func (l *Ledger) Burn(caller Address, amount *uint256.Int) (Event, error) {
	if l.balance(caller).Lt(amount) {
		return nil, fmt.Errorf("%w: %s has %s, burn needs %s",
			ErrInsufficientBalance, caller, l.balance(caller), amount)
	}

	l.debit(caller, amount)
	l.totalSupply.Sub(l.totalSupply, amount)

	return &BurnEvent{From: caller, Amount: amount.Clone()}, nil
}

// UpdateDaoPool repoints the DAO pool address. Only the owner may call
// it, and the new address must be non-zero. No balances move.
func (l *Ledger) UpdateDaoPool(caller, addr Address) (Event, error) {
	if err := l.authorize(caller); err != nil {
		return nil, err
	}
	if addr.IsZero() {
		return nil, fmt.Errorf("%w: dao pool is the zero address", ErrInvalidAddress)
	}
	prev := l.daoPool
	l.daoPool = addr
	return &DaoPoolUpdatedEvent{Previous: prev, Current: addr}, nil
}

// UpdateContributorPool repoints the contributor pool address. Only the
// owner may call it, and the new address must be non-zero.
func (l *Ledger) UpdateContributorPool(caller, addr Address) (Event, error) {
	if err := l.authorize(caller); err != nil {
		return nil, err
	}
	if addr.IsZero() {
		return nil, fmt.Errorf("%w: contributor pool is the zero address", ErrInvalidAddress)
	}
	prev := l.contributorPool
	l.contributorPool = addr
	return &ContributorPoolUpdatedEvent{Previous: prev, Current: addr}, nil
}

// BalanceOf returns the balance of an account. Accounts never seen by
// the ledger hold zero.
func (l *Ledger) BalanceOf(account Address) *uint256.Int {
	return l.balance(account).Clone()
}

// Allowance returns the amount spender may still move on owner's behalf.
func (l *Ledger) Allowance(owner, spender Address) *uint256.Int {
	if m, ok := l.allowances[owner]; ok {
		if a, ok := m[spender]; ok {
			return a.Clone()
		}
	}
	return uint256.NewInt(0)
}

// TotalSupply returns the current outstanding supply.
func (l *Ledger) TotalSupply() *uint256.Int {
	return l.totalSupply.Clone()
}

// Owner returns the address holding pool governance rights.
func (l *Ledger) Owner() Address { return l.owner }

// DaoPool returns the current DAO pool address.
func (l *Ledger) DaoPool() Address { return l.daoPool }

// ContributorPool returns the current contributor pool address.
func (l *Ledger) ContributorPool() Address { return l.contributorPool }

// Holding is one account's balance in a ledger snapshot.
type Holding struct {
	Account Address
	Balance *uint256.Int
}

// Holders returns every account with a non-zero balance, sorted by
// address for deterministic iteration.
func (l *Ledger) Holders() []Holding {
	holdings := make([]Holding, 0, len(l.balances))
	for account, balance := range l.balances {
		if balance.IsZero() {
			continue
		}
		holdings = append(holdings, Holding{Account: account, Balance: balance.Clone()})
	}
	sort.Slice(holdings, func(i, j int) bool {
		return holdings[i].Account.String() < holdings[j].Account.String()
	})
	return holdings
}

// Apply replays a single event against the ledger. Events come from a
// trusted stream that was validated when first emitted, so Apply only
// rejects events that cannot possibly fit the current state.
func (l *Ledger) Apply(event Event) error {
	switch e := event.(type) {
	case *LedgerCreatedEvent:
		return l.applyCreated(e)

	case *TransferEvent:
		if l.balance(e.From).Lt(e.Amount) {
			return fmt.Errorf("%w: replay transfer of %s from %s",
				ErrInsufficientBalance, e.Amount, e.From)
		}
		if e.Spender != nil {
			remaining := new(uint256.Int).Sub(l.Allowance(e.From, *e.Spender), e.Amount)
			l.setAllowance(e.From, *e.Spender, remaining)
		}
		l.debit(e.From, e.Amount)
		l.credit(e.To, e.Amount)
		return nil

	case *ApprovalEvent:
		l.setAllowance(e.Owner, e.Spender, e.Amount.Clone())
		return nil

	case *BurnEvent:
		if l.balance(e.From).Lt(e.Amount) {
			return fmt.Errorf("%w: replay burn of %s from %s",
				ErrInsufficientBalance, e.Amount, e.From)
		}
		l.debit(e.From, e.Amount)
		l.totalSupply.Sub(l.totalSupply, e.Amount)
		return nil

	case *DaoPoolUpdatedEvent:
		l.daoPool = e.Current
		return nil

	case *ContributorPoolUpdatedEvent:
		l.contributorPool = e.Current
		return nil

	default:
		return fmt.Errorf("token: unknown event type %q", event.Type())
	}
}

func (l *Ledger) applyCreated(e *LedgerCreatedEvent) error {
	if e.DaoPool.IsZero() || e.ContributorPool.IsZero() {
		return fmt.Errorf("%w: pool is the zero address", ErrInvalidAddress)
	}

	l.owner = e.Owner
	l.daoPool = e.DaoPool
	l.contributorPool = e.ContributorPool
	l.totalSupply = e.Supply.Clone()

	half := new(uint256.Int).Div(e.Supply, uint256.NewInt(2))
	l.credit(e.DaoPool, half)
	l.credit(e.ContributorPool, new(uint256.Int).Sub(e.Supply, half))
	return nil
}

func (l *Ledger) authorize(caller Address) error {
	if caller != l.owner {
		return fmt.Errorf("%w: %s", ErrUnauthorized, caller)
	}
	return nil
}

func (l *Ledger) balance(account Address) *uint256.Int {
	if b, ok := l.balances[account]; ok {
		return b
	}
	return uint256.NewInt(0)
}

func (l *Ledger) credit(account Address, amount *uint256.Int) {
	if amount.IsZero() {
		return
	}
	if b, ok := l.balances[account]; ok {
		b.Add(b, amount)
		return
	}
	l.balances[account] = amount.Clone()
}

func (l *Ledger) debit(account Address, amount *uint256.Int) {
	if amount.IsZero() {
		return
	}
	b := l.balances[account]
	b.Sub(b, amount)
	if b.IsZero() {
		delete(l.balances, account)
	}
}

func (l *Ledger) setAllowance(owner, spender Address, amount *uint256.Int) {
	m, ok := l.allowances[owner]
	if !ok {
		m = make(map[Address]*uint256.Int)
		l.allowances[owner] = m
	}
	if amount.IsZero() {
		delete(m, spender)
		if len(m) == 0 {
			delete(l.allowances, owner)
		}
		return
	}
	m[spender] = amount
}

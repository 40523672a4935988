// Package service serializes all mutating ledger operations behind a
// single-writer processing loop.
//
// One goroutine owns the repository; commands arrive on an inbox channel
// and execute strictly one at a time, giving every mutation a total
// order with no interleaving. A rejected command leaves no partial
// state: validation happens before any write, and the emitted event is
// appended atomically or not at all.
package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/holiman/uint256"
	"github.com/rs/zerolog"

	"github.com/pflow-xyz/go-tokenledger/ledgerstore"
	"github.com/pflow-xyz/go-tokenledger/token"
)

// Service executes ledger commands in submission order.
type Service struct {
	repo *ledgerstore.Repository
	log  zerolog.Logger

	mu      sync.Mutex
	running bool
	inbox   chan *command
	stopCh  chan struct{}
	done    chan struct{}
}

type command struct {
	name  string
	op    ledgerstore.Operation
	reply chan commandResult
}

type commandResult struct {
	event   token.Event
	version int
	err     error
}

// New creates a service over the given repository.
func New(repo *ledgerstore.Repository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With().Str("component", "ledger-service").Logger(),
	}
}

// Start begins the command processing loop.
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("service: already running")
	}
	s.running = true
	s.inbox = make(chan *command, 100)
	s.stopCh = make(chan struct{})
	s.done = make(chan struct{})

	go s.processLoop()

	s.log.Info().Msg("ledger service started")
	return nil
}

// Stop halts the processing loop. Commands already accepted finish
// before Stop returns; later submissions fail.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	<-s.done
	s.log.Info().Msg("ledger service stopped")
}

func (s *Service) processLoop() {
	defer close(s.done)
	for {
		select {
		case cmd := <-s.inbox:
			s.handle(cmd)
		case <-s.stopCh:
			// Drain commands accepted before the stop signal.
			for {
				select {
				case cmd := <-s.inbox:
					s.handle(cmd)
				default:
					return
				}
			}
		}
	}
}

func (s *Service) handle(cmd *command) {
	event, version, err := s.repo.Execute(context.Background(), cmd.op)
	if err != nil {
		s.log.Warn().Str("op", cmd.name).Err(err).Msg("command rejected")
	} else {
		s.log.Info().Str("op", cmd.name).Int("version", version).Msg("command applied")
	}
	cmd.reply <- commandResult{event: event, version: version, err: err}
}

// Submit queues one operation for serialized execution and waits for
// its result.
func (s *Service) Submit(ctx context.Context, name string, op ledgerstore.Operation) (token.Event, int, error) {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil, -1, fmt.Errorf("service: not running")
	}
	inbox, stopCh := s.inbox, s.stopCh
	s.mu.Unlock()

	cmd := &command{name: name, op: op, reply: make(chan commandResult, 1)}

	select {
	case inbox <- cmd:
	case <-stopCh:
		return nil, -1, fmt.Errorf("service: not running")
	case <-ctx.Done():
		return nil, -1, ctx.Err()
	}

	select {
	case res := <-cmd.reply:
		return res.event, res.version, res.err
	case <-ctx.Done():
		return nil, -1, ctx.Err()
	}
}

// Transfer moves tokens between accounts.
func (s *Service) Transfer(ctx context.Context, from, to token.Address, amount *uint256.Int) (token.Event, int, error) {
	return s.Submit(ctx, "transfer", func(l *token.Ledger) (token.Event, error) {
		return l.Transfer(from, to, amount)
	})
}

// Approve sets an allowance.
func (s *Service) Approve(ctx context.Context, owner, spender token.Address, amount *uint256.Int) (token.Event, int, error) {
	return s.Submit(ctx, "approve", func(l *token.Ledger) (token.Event, error) {
		return l.Approve(owner, spender, amount)
	})
}

// TransferFrom spends an allowance.
func (s *Service) TransferFrom(ctx context.Context, spender, from, to token.Address, amount *uint256.Int) (token.Event, int, error) {
	return s.Submit(ctx, "transfer_from", func(l *token.Ledger) (token.Event, error) {
		return l.TransferFrom(spender, from, to, amount)
	})
}

// Burn removes tokens from circulation.
func (s *Service) Burn(ctx context.Context, caller token.Address, amount *uint256.Int) (token.Event, int, error) {
	return s.Submit(ctx, "burn", func(l *token.Ledger) (token.Event, error) {
		return l.Burn(caller, amount)
	})
}

// UpdateDaoPool repoints the DAO pool address (owner only).
func (s *Service) UpdateDaoPool(ctx context.Context, caller, addr token.Address) (token.Event, int, error) {
	return s.Submit(ctx, "update_dao_pool", func(l *token.Ledger) (token.Event, error) {
		return l.UpdateDaoPool(caller, addr)
	})
}

// UpdateContributorPool repoints the contributor pool address (owner only).
func (s *Service) UpdateContributorPool(ctx context.Context, caller, addr token.Address) (token.Event, int, error) {
	return s.Submit(ctx, "update_contributor_pool", func(l *token.Ledger) (token.Event, error) {
		return l.UpdateContributorPool(caller, addr)
	})
}

// Ledger returns a consistent replayed snapshot for reads.
func (s *Service) Ledger(ctx context.Context) (*token.Ledger, int, error) {
	return s.repo.Load(ctx)
}

// IsRunning reports whether the processing loop is active.
func (s *Service) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

package token

import (
	"errors"
	"testing"

	"github.com/holiman/uint256"
)

var (
	deployer = MustParseAddress("0x00000000000000000000000000000000000000aa")
	dao      = MustParseAddress("0x00000000000000000000000000000000000000d0")
	contrib  = MustParseAddress("0x00000000000000000000000000000000000000c0")
	alice    = MustParseAddress("0x0000000000000000000000000000000000000001")
	bob      = MustParseAddress("0x0000000000000000000000000000000000000002")
	carol    = MustParseAddress("0x0000000000000000000000000000000000000003")
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, events, err := NewLedger(deployer, dao, contrib)
	if err != nil {
		t.Fatalf("NewLedger failed: %v", err)
	}
	if len(events) != 1 || events[0].Type() != EventLedgerCreated {
		t.Fatalf("expected single LedgerCreated event, got %v", events)
	}
	return l
}

// checkConservation verifies sum(balances) == totalSupply.
func checkConservation(t *testing.T, l *Ledger) {
	t.Helper()
	sum := uint256.NewInt(0)
	for _, h := range l.Holders() {
		sum.Add(sum, h.Balance)
	}
	if !sum.Eq(l.TotalSupply()) {
		t.Fatalf("conservation violated: sum(balances)=%s totalSupply=%s", sum, l.TotalSupply())
	}
}

func TestNewLedger(t *testing.T) {
	t.Run("MintsHalfToEachPool", func(t *testing.T) {
		l := newTestLedger(t)

		half := new(uint256.Int).Div(TotalSupply(), uint256.NewInt(2))
		if !l.BalanceOf(dao).Eq(half) {
			t.Errorf("dao pool balance = %s, want %s", l.BalanceOf(dao), half)
		}
		if !l.BalanceOf(contrib).Eq(half) {
			t.Errorf("contributor pool balance = %s, want %s", l.BalanceOf(contrib), half)
		}
		if !l.TotalSupply().Eq(TotalSupply()) {
			t.Errorf("totalSupply = %s, want %s", l.TotalSupply(), TotalSupply())
		}
		if l.Owner() != deployer {
			t.Errorf("owner = %s, want %s", l.Owner(), deployer)
		}
		checkConservation(t, l)
	})

	t.Run("RejectsZeroDaoPool", func(t *testing.T) {
		l, events, err := NewLedger(deployer, ZeroAddress, contrib)
		if !errors.Is(err, ErrInvalidAddress) {
			t.Fatalf("err = %v, want ErrInvalidAddress", err)
		}
		if l != nil || events != nil {
			t.Fatal("no ledger should be created on failure")
		}
	})

	t.Run("RejectsZeroContributorPool", func(t *testing.T) {
		_, _, err := NewLedger(deployer, dao, ZeroAddress)
		if !errors.Is(err, ErrInvalidAddress) {
			t.Fatalf("err = %v, want ErrInvalidAddress", err)
		}
	})
}

func TestTransfer(t *testing.T) {
	t.Run("MovesBalance", func(t *testing.T) {
		l := newTestLedger(t)
		amount := uint256.NewInt(1000)

		event, err := l.Transfer(dao, alice, amount)
		if err != nil {
			t.Fatalf("Transfer failed: %v", err)
		}
		te, ok := event.(*TransferEvent)
		if !ok {
			t.Fatalf("expected TransferEvent, got %T", event)
		}
		if te.From != dao || te.To != alice || !te.Amount.Eq(amount) {
			t.Errorf("unexpected event %+v", te)
		}
		if !l.BalanceOf(alice).Eq(amount) {
			t.Errorf("alice balance = %s, want %s", l.BalanceOf(alice), amount)
		}
		checkConservation(t, l)
	})

	t.Run("RejectsZeroRecipient", func(t *testing.T) {
		l := newTestLedger(t)
		_, err := l.Transfer(dao, ZeroAddress, uint256.NewInt(1))
		if !errors.Is(err, ErrInvalidAddress) {
			t.Fatalf("err = %v, want ErrInvalidAddress", err)
		}
	})

	t.Run("RejectsOverBalance", func(t *testing.T) {
		l := newTestLedger(t)
		before := l.BalanceOf(alice)

		over := new(uint256.Int).AddUint64(l.BalanceOf(dao), 1)
		_, err := l.Transfer(dao, alice, over)
		if !errors.Is(err, ErrInsufficientBalance) {
			t.Fatalf("err = %v, want ErrInsufficientBalance", err)
		}
		if !l.BalanceOf(alice).Eq(before) {
			t.Error("failed transfer must not change recipient balance")
		}
		half := new(uint256.Int).Div(TotalSupply(), uint256.NewInt(2))
		if !l.BalanceOf(dao).Eq(half) {
			t.Error("failed transfer must not change sender balance")
		}
		checkConservation(t, l)
	})

	t.Run("SelfTransferIsNoop", func(t *testing.T) {
		l := newTestLedger(t)
		before := l.BalanceOf(dao)
		if _, err := l.Transfer(dao, dao, uint256.NewInt(42)); err != nil {
			t.Fatalf("Transfer failed: %v", err)
		}
		if !l.BalanceOf(dao).Eq(before) {
			t.Errorf("self transfer changed balance: %s != %s", l.BalanceOf(dao), before)
		}
		checkConservation(t, l)
	})
}

func TestApproveAndTransferFrom(t *testing.T) {
	t.Run("SpendsAllowance", func(t *testing.T) {
		l := newTestLedger(t)
		if _, err := l.Transfer(dao, alice, uint256.NewInt(500)); err != nil {
			t.Fatal(err)
		}

		if _, err := l.Approve(alice, bob, uint256.NewInt(100)); err != nil {
			t.Fatalf("Approve failed: %v", err)
		}
		if _, err := l.TransferFrom(bob, alice, carol, uint256.NewInt(60)); err != nil {
			t.Fatalf("TransferFrom failed: %v", err)
		}

		if got := l.Allowance(alice, bob); !got.Eq(uint256.NewInt(40)) {
			t.Errorf("allowance = %s, want 40", got)
		}
		if got := l.BalanceOf(alice); !got.Eq(uint256.NewInt(440)) {
			t.Errorf("alice balance = %s, want 440", got)
		}
		if got := l.BalanceOf(carol); !got.Eq(uint256.NewInt(60)) {
			t.Errorf("carol balance = %s, want 60", got)
		}
		checkConservation(t, l)
	})

	t.Run("ApproveOverwrites", func(t *testing.T) {
		l := newTestLedger(t)
		l.Approve(alice, bob, uint256.NewInt(100))
		l.Approve(alice, bob, uint256.NewInt(7))
		if got := l.Allowance(alice, bob); !got.Eq(uint256.NewInt(7)) {
			t.Errorf("allowance = %s, want 7", got)
		}
	})

	t.Run("ApproveNeedsNoBalance", func(t *testing.T) {
		l := newTestLedger(t)
		// alice holds nothing; approval is still recorded
		if _, err := l.Approve(alice, bob, uint256.NewInt(1000)); err != nil {
			t.Fatalf("Approve failed: %v", err)
		}
		if got := l.Allowance(alice, bob); !got.Eq(uint256.NewInt(1000)) {
			t.Errorf("allowance = %s, want 1000", got)
		}
	})

	t.Run("RejectsOverAllowance", func(t *testing.T) {
		l := newTestLedger(t)
		l.Transfer(dao, alice, uint256.NewInt(500))
		l.Approve(alice, bob, uint256.NewInt(50))

		_, err := l.TransferFrom(bob, alice, carol, uint256.NewInt(60))
		if !errors.Is(err, ErrInsufficientAllowance) {
			t.Fatalf("err = %v, want ErrInsufficientAllowance", err)
		}
		if !l.BalanceOf(alice).Eq(uint256.NewInt(500)) {
			t.Error("failed transferFrom must not change balances")
		}
		if !l.Allowance(alice, bob).Eq(uint256.NewInt(50)) {
			t.Error("failed transferFrom must not change allowance")
		}
	})

	t.Run("RejectsOverBalance", func(t *testing.T) {
		l := newTestLedger(t)
		l.Transfer(dao, alice, uint256.NewInt(10))
		l.Approve(alice, bob, uint256.NewInt(100))

		_, err := l.TransferFrom(bob, alice, carol, uint256.NewInt(60))
		if !errors.Is(err, ErrInsufficientBalance) {
			t.Fatalf("err = %v, want ErrInsufficientBalance", err)
		}
		if !l.Allowance(alice, bob).Eq(uint256.NewInt(100)) {
			t.Error("allowance must be untouched when the balance check fails")
		}
	})
}

func TestBurn(t *testing.T) {
	t.Run("ReducesBalanceAndSupply", func(t *testing.T) {
		l := newTestLedger(t)
		l.Transfer(dao, alice, uint256.NewInt(100))

		supplyBefore := l.TotalSupply()
		event, err := l.Burn(alice, uint256.NewInt(60))
		if err != nil {
			t.Fatalf("Burn failed: %v", err)
		}
		if be := event.(*BurnEvent); be.From != alice || !be.Amount.Eq(uint256.NewInt(60)) {
			t.Errorf("unexpected event %+v", be)
		}

		if got := l.BalanceOf(alice); !got.Eq(uint256.NewInt(40)) {
			t.Errorf("alice balance = %s, want 40", got)
		}
		wantSupply := new(uint256.Int).SubUint64(supplyBefore, 60)
		if !l.TotalSupply().Eq(wantSupply) {
			t.Errorf("totalSupply = %s, want %s", l.TotalSupply(), wantSupply)
		}
		checkConservation(t, l)
	})

	t.Run("RepeatBurnOverNewBalanceFails", func(t *testing.T) {
		l := newTestLedger(t)
		l.Transfer(dao, alice, uint256.NewInt(100))

		if _, err := l.Burn(alice, uint256.NewInt(60)); err != nil {
			t.Fatal(err)
		}
		_, err := l.Burn(alice, uint256.NewInt(60))
		if !errors.Is(err, ErrInsufficientBalance) {
			t.Fatalf("err = %v, want ErrInsufficientBalance", err)
		}
		if got := l.BalanceOf(alice); !got.Eq(uint256.NewInt(40)) {
			t.Errorf("failed burn changed balance: %s", got)
		}
		checkConservation(t, l)
	})
}

func TestPoolGovernance(t *testing.T) {
	newPool := MustParseAddress("0x00000000000000000000000000000000000000ee")

	t.Run("OwnerUpdatesDaoPool", func(t *testing.T) {
		l := newTestLedger(t)
		event, err := l.UpdateDaoPool(deployer, newPool)
		if err != nil {
			t.Fatalf("UpdateDaoPool failed: %v", err)
		}
		ue := event.(*DaoPoolUpdatedEvent)
		if ue.Previous != dao || ue.Current != newPool {
			t.Errorf("unexpected event %+v", ue)
		}
		if l.DaoPool() != newPool {
			t.Errorf("daoPool = %s, want %s", l.DaoPool(), newPool)
		}
		// balances stay where they are; only the reference moves
		if !l.BalanceOf(dao).Eq(new(uint256.Int).Div(TotalSupply(), uint256.NewInt(2))) {
			t.Error("pool update must not move balances")
		}
	})

	t.Run("OwnerUpdatesContributorPool", func(t *testing.T) {
		l := newTestLedger(t)
		if _, err := l.UpdateContributorPool(deployer, newPool); err != nil {
			t.Fatalf("UpdateContributorPool failed: %v", err)
		}
		if l.ContributorPool() != newPool {
			t.Errorf("contributorPool = %s, want %s", l.ContributorPool(), newPool)
		}
	})

	t.Run("NonOwnerRejected", func(t *testing.T) {
		l := newTestLedger(t)
		_, err := l.UpdateDaoPool(alice, newPool)
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("err = %v, want ErrUnauthorized", err)
		}
		if l.DaoPool() != dao {
			t.Error("failed update must leave the pool unchanged")
		}
	})

	t.Run("ZeroAddressRejected", func(t *testing.T) {
		l := newTestLedger(t)
		_, err := l.UpdateDaoPool(deployer, ZeroAddress)
		if !errors.Is(err, ErrInvalidAddress) {
			t.Fatalf("err = %v, want ErrInvalidAddress", err)
		}
		_, err = l.UpdateContributorPool(deployer, ZeroAddress)
		if !errors.Is(err, ErrInvalidAddress) {
			t.Fatalf("err = %v, want ErrInvalidAddress", err)
		}
	})
}

func TestReplay(t *testing.T) {
	l, events, err := NewLedger(deployer, dao, contrib)
	if err != nil {
		t.Fatal(err)
	}

	record := func(e Event, err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
		events = append(events, e)
	}

	record(l.Transfer(dao, alice, uint256.NewInt(500)))
	record(l.Approve(alice, bob, uint256.NewInt(100)))
	record(l.TransferFrom(bob, alice, carol, uint256.NewInt(60)))
	record(l.Burn(carol, uint256.NewInt(10)))
	record(l.UpdateDaoPool(deployer, carol))

	replayed := Empty()
	for _, e := range events {
		if err := replayed.Apply(e); err != nil {
			t.Fatalf("Apply(%s) failed: %v", e.Type(), err)
		}
	}

	if !replayed.TotalSupply().Eq(l.TotalSupply()) {
		t.Errorf("replayed supply = %s, want %s", replayed.TotalSupply(), l.TotalSupply())
	}
	for _, a := range []Address{dao, contrib, alice, bob, carol} {
		if !replayed.BalanceOf(a).Eq(l.BalanceOf(a)) {
			t.Errorf("replayed balance of %s = %s, want %s", a, replayed.BalanceOf(a), l.BalanceOf(a))
		}
	}
	if !replayed.Allowance(alice, bob).Eq(l.Allowance(alice, bob)) {
		t.Errorf("replayed allowance = %s, want %s", replayed.Allowance(alice, bob), l.Allowance(alice, bob))
	}
	if replayed.DaoPool() != l.DaoPool() || replayed.Owner() != l.Owner() {
		t.Error("replayed governance state mismatch")
	}
	checkConservation(t, replayed)
}

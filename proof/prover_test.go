package proof

import (
	"sync"
	"testing"

	"github.com/holiman/uint256"
)

var (
	sharedProver *Prover
	proverOnce   sync.Once
	proverErr    error
)

// getProver compiles and sets up the circuit once for all tests; setup
// dominates test runtime otherwise.
func getProver(t *testing.T) *Prover {
	t.Helper()
	proverOnce.Do(func() {
		sharedProver, proverErr = NewProver()
	})
	if proverErr != nil {
		t.Fatalf("prover setup failed: %v", proverErr)
	}
	return sharedProver
}

func TestProveAndVerify(t *testing.T) {
	p := getProver(t)

	proof, err := p.Prove(uint256.NewInt(1000), uint256.NewInt(50), uint256.NewInt(300))
	if err != nil {
		t.Fatalf("Prove failed: %v", err)
	}
	if err := p.Verify(proof); err != nil {
		t.Errorf("valid proof rejected: %v", err)
	}
}

func TestProveFullBalance(t *testing.T) {
	p := getProver(t)

	// amount == fromBefore is the boundary the <= constraint must admit
	proof, err := p.Prove(uint256.NewInt(77), uint256.NewInt(0), uint256.NewInt(77))
	if err != nil {
		t.Fatalf("Prove failed: %v", err)
	}
	if err := p.Verify(proof); err != nil {
		t.Errorf("full-balance proof rejected: %v", err)
	}
}

func TestProveOverdraw(t *testing.T) {
	p := getProver(t)

	_, err := p.Prove(uint256.NewInt(10), uint256.NewInt(0), uint256.NewInt(11))
	if err == nil {
		t.Fatal("overdraw must not be provable")
	}
}

func TestVerifyRejectsMismatchedPublics(t *testing.T) {
	p := getProver(t)

	proofA, err := p.Prove(uint256.NewInt(1000), uint256.NewInt(0), uint256.NewInt(10))
	if err != nil {
		t.Fatal(err)
	}
	proofB, err := p.Prove(uint256.NewInt(1000), uint256.NewInt(0), uint256.NewInt(20))
	if err != nil {
		t.Fatal(err)
	}

	// Proof for one set of post-balances must not verify against another.
	forged := &TransferProof{Proof: proofA.Proof, Public: proofB.Public}
	if err := p.Verify(forged); err == nil {
		t.Fatal("proof verified against mismatched public inputs")
	}
}

func TestConstraints(t *testing.T) {
	p := getProver(t)
	if p.Constraints() == 0 {
		t.Error("compiled circuit reports zero constraints")
	}
}

package proof

import (
	"fmt"
	"sync"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/witness"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/holiman/uint256"
)

// Prover compiles the transfer circuit once and generates proofs from
// concrete balances. Safe for concurrent Prove/Verify calls.
type Prover struct {
	mu sync.RWMutex
	cs constraint.ConstraintSystem
	pk groth16.ProvingKey
	vk groth16.VerifyingKey
}

// TransferProof is a Groth16 proof plus its public inputs.
type TransferProof struct {
	Proof  groth16.Proof
	Public witness.Witness
}

// NewProver compiles the circuit and runs trusted setup.
// In production the setup would come from a ceremony.
func NewProver() (*Prover, error) {
	cs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, &TransferCircuit{})
	if err != nil {
		return nil, fmt.Errorf("proof: circuit compilation failed: %w", err)
	}

	pk, vk, err := groth16.Setup(cs)
	if err != nil {
		return nil, fmt.Errorf("proof: setup failed: %w", err)
	}

	return &Prover{cs: cs, pk: pk, vk: vk}, nil
}

// Prove generates a conservation proof for a transfer of amount out of
// fromBefore into toBefore. It fails if the transfer would overdraw the
// sender, the same condition the ledger rejects.
func (p *Prover) Prove(fromBefore, toBefore, amount *uint256.Int) (*TransferProof, error) {
	if fromBefore.Lt(amount) {
		return nil, fmt.Errorf("proof: amount %s exceeds sender balance %s", amount, fromBefore)
	}

	assignment := &TransferCircuit{
		FromBefore: fromBefore.ToBig(),
		ToBefore:   toBefore.ToBig(),
		Amount:     amount.ToBig(),
		FromAfter:  new(uint256.Int).Sub(fromBefore, amount).ToBig(),
		ToAfter:    new(uint256.Int).Add(toBefore, amount).ToBig(),
	}

	full, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("proof: build witness: %w", err)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	proof, err := groth16.Prove(p.cs, p.pk, full)
	if err != nil {
		return nil, fmt.Errorf("proof: prove: %w", err)
	}

	public, err := full.Public()
	if err != nil {
		return nil, fmt.Errorf("proof: extract public witness: %w", err)
	}

	return &TransferProof{Proof: proof, Public: public}, nil
}

// Verify checks a proof against its public inputs.
func (p *Prover) Verify(tp *TransferProof) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if err := groth16.Verify(tp.Proof, p.vk, tp.Public); err != nil {
		return fmt.Errorf("proof: verification failed: %w", err)
	}
	return nil
}

// Constraints returns the compiled constraint count.
func (p *Prover) Constraints() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cs.GetNbConstraints()
}

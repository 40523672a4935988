// Package proof generates zero-knowledge proofs that a transfer
// conserved the token supply.
//
// The circuit binds the public post-transfer balances to private
// pre-transfer balances and a private amount: the sum of the two
// balances is provably unchanged and the sender provably held enough.
// An off-chain verifier can check a transfer without seeing the prior
// balances or the amount moved.
package proof

import "github.com/consensys/gnark/frontend"

// TransferCircuit proves one balance-conserving transfer.
//
// Constraints:
//
//	amount    <= fromBefore
//	fromAfter == fromBefore - amount
//	toAfter   == toBefore + amount
//
// which together imply fromAfter + toAfter == fromBefore + toBefore.
// All values must fit the BN254 scalar field; ledger amounts are capped
// by the 10^27 fixed supply, far below it.
type TransferCircuit struct {
	FromBefore frontend.Variable `gnark:",secret"`
	ToBefore   frontend.Variable `gnark:",secret"`
	Amount     frontend.Variable `gnark:",secret"`

	FromAfter frontend.Variable `gnark:",public"`
	ToAfter   frontend.Variable `gnark:",public"`
}

// Define declares the circuit constraints.
func (c *TransferCircuit) Define(api frontend.API) error {
	api.AssertIsLessOrEqual(c.Amount, c.FromBefore)
	api.AssertIsEqual(c.FromAfter, api.Sub(c.FromBefore, c.Amount))
	api.AssertIsEqual(c.ToAfter, api.Add(c.ToBefore, c.Amount))
	return nil
}

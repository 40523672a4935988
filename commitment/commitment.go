// Package commitment computes compact cryptographic fingerprints of
// ledger state.
//
// The balance map is committed as a MiMC Merkle root over the sorted
// holder set, the same hash used inside BN254 zk circuits, so the root
// can later be opened or proven against without re-hashing under a
// different function.
package commitment

import (
	"encoding/hex"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	"github.com/holiman/uint256"

	"github.com/pflow-xyz/go-tokenledger/token"
)

// Root is a 32-byte MiMC Merkle root.
type Root [32]byte

// String renders the root as 0x-prefixed hex.
func (r Root) String() string {
	return "0x" + hex.EncodeToString(r[:])
}

// BalanceRoot commits to the full balance map of a ledger snapshot.
// Holdings must be sorted by address; token.Ledger.Holders already
// returns them that way. The empty ledger commits to the zero root.
func BalanceRoot(holdings []token.Holding) (Root, error) {
	if len(holdings) == 0 {
		return Root{}, nil
	}

	leaves := make([][]byte, len(holdings))
	for i, h := range holdings {
		leaf, err := leafHash(h.Account, h.Balance)
		if err != nil {
			return Root{}, err
		}
		leaves[i] = leaf
	}

	// Pad to a power of two with zero leaves so the tree shape depends
	// only on the holder count.
	for len(leaves)&(len(leaves)-1) != 0 {
		leaves = append(leaves, make([]byte, 32))
	}

	for len(leaves) > 1 {
		next := make([][]byte, 0, len(leaves)/2)
		for i := 0; i < len(leaves); i += 2 {
			parent, err := nodeHash(leaves[i], leaves[i+1])
			if err != nil {
				return Root{}, err
			}
			next = append(next, parent)
		}
		leaves = next
	}

	var root Root
	copy(root[:], leaves[0])
	return root, nil
}

// LedgerRoot is BalanceRoot over a live ledger.
func LedgerRoot(l *token.Ledger) (Root, error) {
	return BalanceRoot(l.Holders())
}

// leafHash computes MiMC(address, balanceHi, balanceLo). The balance is
// split into two 128-bit limbs so each input is a canonical BN254 field
// element regardless of magnitude.
func leafHash(account token.Address, balance *uint256.Int) ([]byte, error) {
	b32 := balance.Bytes32()

	var addr, hi, lo fr.Element
	addr.SetBytes(account[:])
	hi.SetBytes(b32[:16])
	lo.SetBytes(b32[16:])

	h := mimc.NewMiMC()
	for _, e := range []fr.Element{addr, hi, lo} {
		if _, err := h.Write(e.Marshal()); err != nil {
			return nil, fmt.Errorf("commitment: hash leaf: %w", err)
		}
	}
	return h.Sum(nil), nil
}

func nodeHash(left, right []byte) ([]byte, error) {
	var l, r fr.Element
	l.SetBytes(left)
	r.SetBytes(right)

	h := mimc.NewMiMC()
	if _, err := h.Write(l.Marshal()); err != nil {
		return nil, fmt.Errorf("commitment: hash node: %w", err)
	}
	if _, err := h.Write(r.Marshal()); err != nil {
		return nil, fmt.Errorf("commitment: hash node: %w", err)
	}
	return h.Sum(nil), nil
}

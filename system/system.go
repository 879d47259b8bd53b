package system

import (
	"cmp"
	"maps"
	"slices"

	"github.com/mezonai/mmn-runtime/config"
)

// Pallet tracks the global block number and the per-account nonce table.
// It is not safe for concurrent use; callers serialize access.
type Pallet[A cmp.Ordered, BN, N any] struct {
	blockNumberOps config.Numeric[BN]
	nonceOps       config.Numeric[N]

	blockNumber BN
	nonce       map[A]N
}

// New returns a pallet at block zero with an empty nonce table.
func New[A cmp.Ordered, BN, N any](blockNumber config.Numeric[BN], nonce config.Numeric[N]) *Pallet[A, BN, N] {
	return &Pallet[A, BN, N]{
		blockNumberOps: blockNumber,
		nonceOps:       nonce,
		blockNumber:    blockNumber.Zero(),
		nonce:          make(map[A]N),
	}
}

func (p *Pallet[A, BN, N]) BlockNumber() BN {
	return p.blockNumber
}

// IncBlockNumber advances the block number by one. The addition is not
// overflow checked.
func (p *Pallet[A, BN, N]) IncBlockNumber() {
	p.blockNumber = p.blockNumberOps.WrappingAdd(p.blockNumber, p.blockNumberOps.One())
}

// Nonce returns the nonce of account, zero if it was never incremented.
func (p *Pallet[A, BN, N]) Nonce(account A) N {
	if n, ok := p.nonce[account]; ok {
		return n
	}
	return p.nonceOps.Zero()
}

// IncNonce adds one to the nonce of account. The addition is not overflow
// checked.
func (p *Pallet[A, BN, N]) IncNonce(account A) {
	p.nonce[account] = p.nonceOps.WrappingAdd(p.Nonce(account), p.nonceOps.One())
}

// Accounts returns every account with a nonce entry, in ascending order.
func (p *Pallet[A, BN, N]) Accounts() []A {
	return slices.Sorted(maps.Keys(p.nonce))
}

// Restore replaces the pallet state with a previously exported one.
func (p *Pallet[A, BN, N]) Restore(blockNumber BN, nonces map[A]N) {
	p.blockNumber = blockNumber
	p.nonce = make(map[A]N, len(nonces))
	for account, n := range nonces {
		p.nonce[account] = n
	}
}

package balances

import (
	"cmp"
	"errors"
	"maps"
	"slices"

	"github.com/mezonai/mmn-runtime/config"
)

var (
	// ErrInsufficientFunds is returned when a transfer debits more than the caller holds.
	ErrInsufficientFunds = errors.New("balances: insufficient funds")
	// ErrOverflow is returned when a transfer would credit past the range of the balance type.
	ErrOverflow = errors.New("balances: overflow")
)

// Pallet owns the balance ledger. An account absent from the ledger has a
// zero balance. It is not safe for concurrent use; callers serialize access.
type Pallet[A cmp.Ordered, B any] struct {
	ops      config.Numeric[B]
	balances map[A]B
}

// New returns a pallet with an empty ledger.
func New[A cmp.Ordered, B any](balance config.Numeric[B]) *Pallet[A, B] {
	return &Pallet[A, B]{
		ops:      balance,
		balances: make(map[A]B),
	}
}

// Balance returns the balance of account, zero if it was never set.
func (p *Pallet[A, B]) Balance(account A) B {
	if b, ok := p.balances[account]; ok {
		return b
	}
	return p.ops.Zero()
}

// SetBalance overwrites the balance of account. Intended for genesis and
// administrative use only.
func (p *Pallet[A, B]) SetBalance(account A, amount B) {
	p.balances[account] = amount
}

// Transfer moves amount from caller to to. The debit and the credit are
// staged in a write set and committed together only once both checks have
// passed, so on error the ledger is untouched. The credit side reads through
// the write set, which makes a self-transfer a no-op.
func (p *Pallet[A, B]) Transfer(caller, to A, amount B) error {
	ws := p.newWriteSet()

	debited, ok := p.ops.CheckedSub(ws.balance(caller), amount)
	if !ok {
		return ErrInsufficientFunds
	}
	ws.stage(caller, debited)

	credited, ok := p.ops.CheckedAdd(ws.balance(to), amount)
	if !ok {
		return ErrOverflow
	}
	ws.stage(to, credited)

	ws.commit()
	return nil
}

// Accounts returns every account with a ledger entry, in ascending order.
func (p *Pallet[A, B]) Accounts() []A {
	return slices.Sorted(maps.Keys(p.balances))
}

// writeSet is an overlay of pending balance writes on top of the ledger.
type writeSet[A cmp.Ordered, B any] struct {
	pallet  *Pallet[A, B]
	pending map[A]B
}

func (p *Pallet[A, B]) newWriteSet() *writeSet[A, B] {
	return &writeSet[A, B]{pallet: p, pending: make(map[A]B, 2)}
}

func (ws *writeSet[A, B]) balance(account A) B {
	if b, ok := ws.pending[account]; ok {
		return b
	}
	return ws.pallet.Balance(account)
}

func (ws *writeSet[A, B]) stage(account A, amount B) {
	ws.pending[account] = amount
}

func (ws *writeSet[A, B]) commit() {
	for account, amount := range ws.pending {
		ws.pallet.balances[account] = amount
	}
}

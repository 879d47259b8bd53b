package types

import "cmp"

type AccountState[A cmp.Ordered, Bal, N any] struct {
	Account A
	Balance Bal
	Nonce   N
}

// State is a full export of the runtime, accounts in ascending order.
type State[A cmp.Ordered, Bal, N, BN any] struct {
	BlockNumber BN
	Accounts    []AccountState[A, Bal, N]
}

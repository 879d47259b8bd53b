package runtime

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/holiman/uint256"

	"github.com/mezonai/mmn-runtime/balances"
	"github.com/mezonai/mmn-runtime/common"
	"github.com/mezonai/mmn-runtime/config"
	"github.com/mezonai/mmn-runtime/logx"
	"github.com/mezonai/mmn-runtime/system"
	"github.com/mezonai/mmn-runtime/types"
)

var (
	ErrUnknownCall         = errors.New("runtime: unknown call")
	ErrInvalidArgs         = errors.New("runtime: invalid call arguments")
	ErrBlockNumberMismatch = errors.New("runtime: block number does not match what is expected")
	ErrInvalidGenesis      = errors.New("runtime: invalid genesis")
)

// Runtime owns one system pallet and one balances pallet. Every method takes
// the same lock, so a transfer's two balance writes are never observed apart
// even with concurrent callers.
type Runtime[A cmp.Ordered, Bal, N, BN any] struct {
	mu       sync.Mutex
	cfg      config.Config[Bal, N, BN]
	opts     options[A]
	system   *system.Pallet[A, BN, N]
	balances *balances.Pallet[A, Bal]
}

type options[A cmp.Ordered] struct {
	validateAccount func(A) error
}

// Option configures a Runtime at construction.
type Option[A cmp.Ordered] func(*options[A])

// WithAccountValidator rejects dispatched calls naming an account fn refuses.
func WithAccountValidator[A cmp.Ordered](fn func(A) error) Option[A] {
	return func(o *options[A]) {
		o.validateAccount = fn
	}
}

// Default is the runtime the node runs: base58 account ids, 256-bit
// balances, 64-bit nonces and block numbers.
type Default = Runtime[string, uint256.Int, uint64, uint64]

func New[A cmp.Ordered, Bal, N, BN any](cfg config.Config[Bal, N, BN], opts ...Option[A]) *Runtime[A, Bal, N, BN] {
	var o options[A]
	for _, opt := range opts {
		opt(&o)
	}
	return &Runtime[A, Bal, N, BN]{
		cfg:      cfg,
		opts:     o,
		system:   system.New[A](cfg.BlockNumber, cfg.Nonce),
		balances: balances.New[A](cfg.Balance),
	}
}

// NewDefault returns the node runtime. Transfer recipients must be base58
// addresses, the same rule genesis accounts follow.
func NewDefault() *Default {
	return New[string](config.Default(), WithAccountValidator(func(account string) error {
		_, err := common.ParseAddress(account)
		return err
	}))
}

func (r *Runtime[A, Bal, N, BN]) Config() config.Config[Bal, N, BN] {
	return r.cfg
}

func (r *Runtime[A, Bal, N, BN]) BlockNumber() BN {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.system.BlockNumber()
}

func (r *Runtime[A, Bal, N, BN]) Nonce(account A) N {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.system.Nonce(account)
}

// Account returns the balance and nonce of account read under one lock.
func (r *Runtime[A, Bal, N, BN]) Account(account A) (Bal, N) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.balances.Balance(account), r.system.Nonce(account)
}

func (r *Runtime[A, Bal, N, BN]) Balance(account A) Bal {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.balances.Balance(account)
}

func (r *Runtime[A, Bal, N, BN]) SetBalance(account A, amount Bal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.balances.SetBalance(account, amount)
}

func (r *Runtime[A, Bal, N, BN]) Transfer(caller, to A, amount Bal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.balances.Transfer(caller, to, amount)
}

// Dispatch routes a named call made by caller to the owning pallet.
func (r *Runtime[A, Bal, N, BN]) Dispatch(caller A, call string, args []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dispatch(caller, call, args)
}

// ExecuteBlock applies a block produced for the next block number. The
// header is checked before anything changes. Each extrinsic consumes its
// caller's nonce whether or not its call succeeds; a failing call never
// aborts the rest of the block.
func (r *Runtime[A, Bal, N, BN]) ExecuteBlock(block types.Block[A, BN]) ([]types.Receipt[A], error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bn := r.cfg.BlockNumber
	expected := bn.WrappingAdd(r.system.BlockNumber(), bn.One())
	if bn.Cmp(block.Header.BlockNumber, expected) != 0 {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrBlockNumberMismatch,
			bn.Format(expected), bn.Format(block.Header.BlockNumber))
	}
	r.system.IncBlockNumber()

	receipts := make([]types.Receipt[A], 0, len(block.Extrinsics))
	for i, ext := range block.Extrinsics {
		r.system.IncNonce(ext.Caller)

		receipt := types.Receipt[A]{Index: i, Caller: ext.Caller, Call: ext.Call, Success: true}
		if err := r.dispatch(ext.Caller, ext.Call, ext.Args); err != nil {
			logx.Warn("RUNTIME", fmt.Sprintf("Extrinsic %d of block %s failed: %v", i, bn.Format(expected), err))
			receipt.Success = false
			receipt.Error = err.Error()
			receipt.Err = err
		}
		receipts = append(receipts, receipt)
	}

	logx.Info("RUNTIME", fmt.Sprintf("Block %s executed with %d extrinsics", bn.Format(expected), len(receipts)))
	return receipts, nil
}

// Snapshot exports the full state. Accounts known to either pallet appear once.
func (r *Runtime[A, Bal, N, BN]) Snapshot() types.State[A, Bal, N, BN] {
	r.mu.Lock()
	defer r.mu.Unlock()

	accounts := slices.Concat(r.balances.Accounts(), r.system.Accounts())
	slices.Sort(accounts)
	accounts = slices.Compact(accounts)

	state := types.State[A, Bal, N, BN]{
		BlockNumber: r.system.BlockNumber(),
		Accounts:    make([]types.AccountState[A, Bal, N], 0, len(accounts)),
	}
	for _, account := range accounts {
		state.Accounts = append(state.Accounts, types.AccountState[A, Bal, N]{
			Account: account,
			Balance: r.balances.Balance(account),
			Nonce:   r.system.Nonce(account),
		})
	}
	return state
}

// Restore replaces the whole state with a previous snapshot.
func (r *Runtime[A, Bal, N, BN]) Restore(state types.State[A, Bal, N, BN]) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ledger := balances.New[A](r.cfg.Balance)
	nonces := make(map[A]N, len(state.Accounts))
	for _, acc := range state.Accounts {
		ledger.SetBalance(acc.Account, acc.Balance)
		nonces[acc.Account] = acc.Nonce
	}
	r.balances = ledger
	r.system.Restore(state.BlockNumber, nonces)
}

// ApplyGenesis sets the genesis balances. Every entry is validated before
// the first one is written.
func (r *Runtime[A, Bal, N, BN]) ApplyGenesis(genesis *config.GenesisConfig, parseAccount func(string) (A, error)) error {
	type entry struct {
		account A
		amount  Bal
	}
	entries := make([]entry, 0, len(genesis.Balances))
	seen := make(map[A]struct{}, len(genesis.Balances))
	for _, g := range genesis.Balances {
		account, err := parseAccount(g.Address)
		if err != nil {
			return fmt.Errorf("%w: account %q: %v", ErrInvalidGenesis, g.Address, err)
		}
		if _, dup := seen[account]; dup {
			return fmt.Errorf("%w: duplicate account %q", ErrInvalidGenesis, g.Address)
		}
		seen[account] = struct{}{}

		amount, err := r.cfg.Balance.Parse(g.Amount)
		if err != nil {
			return fmt.Errorf("%w: account %q: %v", ErrInvalidGenesis, g.Address, err)
		}
		entries = append(entries, entry{account: account, amount: amount})
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range entries {
		r.balances.SetBalance(e.account, e.amount)
	}
	logx.Info("RUNTIME", fmt.Sprintf("Applied genesis with %d accounts", len(entries)))
	return nil
}

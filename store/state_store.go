package store

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/mezonai/mmn-runtime/config"
	"github.com/mezonai/mmn-runtime/db"
	"github.com/mezonai/mmn-runtime/jsonx"
	"github.com/mezonai/mmn-runtime/logx"
	"github.com/mezonai/mmn-runtime/types"
)

// StateStore persists full runtime snapshots.
type StateStore[A cmp.Ordered, Bal, N, BN any] interface {
	// Commit replaces the stored state with state in one atomic batch
	Commit(state types.State[A, Bal, N, BN]) error
	// Load returns the stored state and false if nothing was committed yet
	Load() (types.State[A, Bal, N, BN], bool, error)
	MustClose()
}

// accountRecord is the stored form of one account. Numbers are kept in
// decimal so records stay readable whatever the numeric types are.
type accountRecord[A cmp.Ordered] struct {
	Account A      `json:"account"`
	Balance string `json:"balance"`
	Nonce   string `json:"nonce"`
}

type GenericStateStore[A cmp.Ordered, Bal, N, BN any] struct {
	mu         sync.Mutex
	dbProvider db.DatabaseProvider
	cfg        config.Config[Bal, N, BN]
}

func NewGenericStateStore[A cmp.Ordered, Bal, N, BN any](dbProvider db.DatabaseProvider, cfg config.Config[Bal, N, BN]) (*GenericStateStore[A, Bal, N, BN], error) {
	if dbProvider == nil {
		return nil, fmt.Errorf("provider cannot be nil")
	}
	return &GenericStateStore[A, Bal, N, BN]{
		dbProvider: dbProvider,
		cfg:        cfg,
	}, nil
}

func (s *GenericStateStore[A, Bal, N, BN]) Commit(state types.State[A, Bal, N, BN]) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch := s.dbProvider.Batch()
	live := make(map[string]struct{}, len(state.Accounts))
	for _, acc := range state.Accounts {
		data, err := jsonx.Marshal(accountRecord[A]{
			Account: acc.Account,
			Balance: s.cfg.Balance.Format(acc.Balance),
			Nonce:   s.cfg.Nonce.Format(acc.Nonce),
		})
		if err != nil {
			return fmt.Errorf("failed to marshal account %v: %w", acc.Account, err)
		}
		key := s.getDbKey(acc.Account)
		live[string(key)] = struct{}{}
		batch.Put(key, data)
	}

	// drop records left over from a state this one replaced
	err := s.dbProvider.IteratePrefix([]byte(PrefixAccount), func(key, _ []byte) bool {
		if _, ok := live[string(key)]; !ok {
			batch.Delete(slices.Clone(key))
		}
		return true
	})
	if err != nil {
		return fmt.Errorf("failed to scan stored accounts: %w", err)
	}

	batch.Put([]byte(StateMetaKeyBlockNumber), []byte(s.cfg.BlockNumber.Format(state.BlockNumber)))
	if err := batch.Write(); err != nil {
		return fmt.Errorf("failed to write state batch: %w", err)
	}
	return nil
}

func (s *GenericStateStore[A, Bal, N, BN]) Load() (types.State[A, Bal, N, BN], bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var state types.State[A, Bal, N, BN]
	raw, err := s.dbProvider.Get([]byte(StateMetaKeyBlockNumber))
	if err != nil {
		return state, false, fmt.Errorf("could not get block number from db: %w", err)
	}
	if raw == nil {
		return state, false, nil
	}
	if state.BlockNumber, err = s.cfg.BlockNumber.Parse(string(raw)); err != nil {
		return state, false, fmt.Errorf("invalid stored block number: %w", err)
	}

	var decodeErr error
	err = s.dbProvider.IteratePrefix([]byte(PrefixAccount), func(key, value []byte) bool {
		acc, err := s.decode(value)
		if err != nil {
			decodeErr = fmt.Errorf("failed to decode %s: %w", key, err)
			return false
		}
		state.Accounts = append(state.Accounts, acc)
		return true
	})
	if err != nil {
		return state, false, fmt.Errorf("failed to iterate accounts: %w", err)
	}
	if decodeErr != nil {
		return state, false, decodeErr
	}

	slices.SortFunc(state.Accounts, func(a, b types.AccountState[A, Bal, N]) int {
		return cmp.Compare(a.Account, b.Account)
	})
	return state, true, nil
}

func (s *GenericStateStore[A, Bal, N, BN]) decode(value []byte) (types.AccountState[A, Bal, N], error) {
	var acc types.AccountState[A, Bal, N]
	var rec accountRecord[A]
	if err := jsonx.Unmarshal(value, &rec); err != nil {
		return acc, err
	}
	balance, err := s.cfg.Balance.Parse(rec.Balance)
	if err != nil {
		return acc, err
	}
	nonce, err := s.cfg.Nonce.Parse(rec.Nonce)
	if err != nil {
		return acc, err
	}
	acc.Account, acc.Balance, acc.Nonce = rec.Account, balance, nonce
	return acc, nil
}

func (s *GenericStateStore[A, Bal, N, BN]) MustClose() {
	if err := s.dbProvider.Close(); err != nil {
		logx.Error("STATE_STORE", "Failed to close db provider:", err.Error())
	}
}

func (s *GenericStateStore[A, Bal, N, BN]) getDbKey(account A) []byte {
	return []byte(fmt.Sprintf("%s%v", PrefixAccount, account))
}

package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/holiman/uint256"

	"github.com/mezonai/mmn-runtime/common"
	"github.com/mezonai/mmn-runtime/config"
	"github.com/mezonai/mmn-runtime/errors"
	"github.com/mezonai/mmn-runtime/interfaces"
	"github.com/mezonai/mmn-runtime/logx"
	"github.com/mezonai/mmn-runtime/monitoring"
	"github.com/mezonai/mmn-runtime/runtime"
	"github.com/mezonai/mmn-runtime/store"
	"github.com/mezonai/mmn-runtime/types"
)

// DefaultStateStore is the state store matching runtime.Default
type DefaultStateStore = store.StateStore[string, uint256.Int, uint64, uint64]

type ChainServiceImpl struct {
	mu         sync.Mutex
	rt         *runtime.Default
	stateStore DefaultStateStore
}

// NewChainService wires the runtime to a state store. A nil store keeps the
// state in memory only.
func NewChainService(rt *runtime.Default, stateStore DefaultStateStore) *ChainServiceImpl {
	return &ChainServiceImpl{rt: rt, stateStore: stateStore}
}

// Init restores the last committed state, or applies genesis and commits it
// when the store is empty. It reports whether genesis was applied.
func (s *ChainServiceImpl) Init(genesis *config.GenesisConfig) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stateStore != nil {
		state, ok, err := s.stateStore.Load()
		if err != nil {
			return false, fmt.Errorf("failed to load state: %w", err)
		}
		if ok {
			s.rt.Restore(state)
			monitoring.SetBlockHeight(state.BlockNumber)
			logx.Info("CHAIN", fmt.Sprintf("Restored state at block %d with %d accounts", state.BlockNumber, len(state.Accounts)))
			return false, nil
		}
	}
	if genesis == nil {
		return false, nil
	}
	if err := s.rt.ApplyGenesis(genesis, common.ParseAddress); err != nil {
		return false, err
	}
	if err := s.commit(); err != nil {
		return false, err
	}
	return true, nil
}

// ExecuteBlock runs the block and, when a store is configured, commits the
// resulting state before returning. If the commit fails the runtime is
// restored to the state before the block, so the block can be retried.
func (s *ChainServiceImpl) ExecuteBlock(ctx context.Context, block types.Block[string, uint64]) (*interfaces.BlockResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, ext := range block.Extrinsics {
		if _, err := common.ParseAddress(ext.Caller); err != nil {
			logx.Warn("CHAIN", fmt.Sprintf("Rejected block %d: extrinsic %d caller: %v", block.Header.BlockNumber, i, err))
			return nil, errors.NewError(errors.ErrCodeInvalidRequest, errors.ErrMsgInvalidRequest)
		}
	}

	// state to fall back to when the block cannot be persisted
	var prev types.State[string, uint256.Int, uint64, uint64]
	if s.stateStore != nil {
		prev = s.rt.Snapshot()
	}

	start := time.Now()
	receipts, err := s.rt.ExecuteBlock(block)
	if err != nil {
		monitoring.IncreaseRejectedBlockCount()
		logx.Warn("CHAIN", fmt.Sprintf("Rejected block %d: %v", block.Header.BlockNumber, err))
		return nil, errors.FromDispatch(err)
	}
	for _, r := range receipts {
		if r.Success {
			monitoring.RecordExtrinsic(monitoring.ExtrinsicOk)
		} else {
			monitoring.RecordExtrinsic(monitoring.ExtrinsicResult(errors.CodeOf(r.Err)))
		}
	}

	if err := s.commit(); err != nil {
		s.rt.Restore(prev)
		logx.Warn("CHAIN", fmt.Sprintf("Rolled back block %d to block %d", block.Header.BlockNumber, prev.BlockNumber))
		return nil, err
	}

	blockNumber := s.rt.BlockNumber()
	monitoring.SetBlockHeight(blockNumber)
	monitoring.RecordExecutedBlock(time.Since(start), len(receipts))
	return &interfaces.BlockResult{BlockNumber: blockNumber, Receipts: receipts}, nil
}

func (s *ChainServiceImpl) commit() error {
	if s.stateStore == nil {
		return nil
	}
	if err := s.stateStore.Commit(s.rt.Snapshot()); err != nil {
		monitoring.IncreaseStateCommitFailure()
		logx.Error("CHAIN", "State commit failed: ", err)
		return errors.NewError(errors.ErrCodeStateCommit, errors.ErrMsgStateCommit)
	}
	return nil
}

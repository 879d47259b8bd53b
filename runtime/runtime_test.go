package runtime

import (
	"errors"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mezonai/mmn-runtime/balances"
	"github.com/mezonai/mmn-runtime/config"
	"github.com/mezonai/mmn-runtime/logx"
	"github.com/mezonai/mmn-runtime/types"
)

func TestMain(m *testing.M) {
	logx.SetOutput(io.Discard)
	os.Exit(m.Run())
}

type testRuntime = Runtime[string, uint64, uint32, uint64]

func newTestRuntime() *testRuntime {
	return New[string](config.Config[uint64, uint32, uint64]{
		Balance:     config.Uint64{},
		Nonce:       config.Uint32{},
		BlockNumber: config.Uint64{},
	})
}

func transferExtrinsic(t *testing.T, rt *testRuntime, caller, to string, amount uint64) types.Extrinsic[string] {
	t.Helper()
	args, err := rt.TransferArgs(to, amount)
	require.NoError(t, err)
	return types.Extrinsic[string]{Caller: caller, Call: CallBalancesTransfer, Args: args}
}

func TestAliceBobScenario(t *testing.T) {
	rt := newTestRuntime()
	rt.SetBalance("alice", 100)
	rt.SetBalance("bob", 50)

	assert.ErrorIs(t, rt.Transfer("alice", "bob", 600), balances.ErrInsufficientFunds)
	assert.Equal(t, uint64(100), rt.Balance("alice"))
	assert.Equal(t, uint64(50), rt.Balance("bob"))

	require.NoError(t, rt.Transfer("alice", "bob", 50))
	assert.Equal(t, uint64(50), rt.Balance("alice"))
	assert.Equal(t, uint64(100), rt.Balance("bob"))
}

func TestUnknownAccountsAreZero(t *testing.T) {
	rt := newTestRuntime()
	assert.Equal(t, uint64(0), rt.Balance("ghost"))
	assert.Equal(t, uint32(0), rt.Nonce("ghost"))
	assert.Equal(t, uint64(0), rt.BlockNumber())
}

func TestDispatch(t *testing.T) {
	rt := newTestRuntime()
	rt.SetBalance("alice", 10)

	require.NoError(t, rt.Dispatch("alice", CallBalancesTransfer, []byte(`{"to":"bob","amount":"4"}`)))
	assert.Equal(t, uint64(6), rt.Balance("alice"))
	assert.Equal(t, uint64(4), rt.Balance("bob"))

	err := rt.Dispatch("alice", "balances.mint", []byte(`{}`))
	assert.ErrorIs(t, err, ErrUnknownCall)

	err = rt.Dispatch("alice", CallBalancesTransfer, []byte(`{"to":"bob","amount":"-1"}`))
	assert.ErrorIs(t, err, ErrInvalidArgs)

	err = rt.Dispatch("alice", CallBalancesTransfer, nil)
	assert.ErrorIs(t, err, ErrInvalidArgs)

	err = rt.Dispatch("alice", CallBalancesTransfer, []byte(`{"to":"bob","amount":"7"}`))
	assert.ErrorIs(t, err, balances.ErrInsufficientFunds)
	assert.Equal(t, uint64(6), rt.Balance("alice"))
}

func TestDispatchRejectsBadRecipient(t *testing.T) {
	rt := New[string](config.Config[uint64, uint32, uint64]{
		Balance:     config.Uint64{},
		Nonce:       config.Uint32{},
		BlockNumber: config.Uint64{},
	}, WithAccountValidator(func(account string) error {
		if account == "mallory" {
			return errors.New("blocked account")
		}
		return nil
	}))
	rt.SetBalance("alice", 100)

	err := rt.Dispatch("alice", CallBalancesTransfer, []byte(`{"amount":"30"}`))
	assert.ErrorIs(t, err, ErrInvalidArgs)

	err = rt.Dispatch("alice", CallBalancesTransfer, []byte(`{"to":"mallory","amount":"20"}`))
	assert.ErrorIs(t, err, ErrInvalidArgs)

	require.NoError(t, rt.Dispatch("alice", CallBalancesTransfer, []byte(`{"to":"bob","amount":"10"}`)))
	assert.Equal(t, uint64(90), rt.Balance("alice"))
	assert.Equal(t, uint64(0), rt.Balance(""))
	assert.Equal(t, uint64(0), rt.Balance("mallory"))
}

func TestDefaultRuntimeRequiresBase58Recipient(t *testing.T) {
	rt := NewDefault()
	rt.SetBalance("alice", *uint256.NewInt(100))

	receipts, err := rt.ExecuteBlock(types.Block[string, uint64]{
		Header: types.Header[uint64]{BlockNumber: 1},
		Extrinsics: []types.Extrinsic[string]{
			{Caller: "alice", Call: CallBalancesTransfer, Args: []byte(`{"amount":"30"}`)},
			{Caller: "alice", Call: CallBalancesTransfer, Args: []byte(`{"to":"0OIl","amount":"20"}`)},
		},
	})
	require.NoError(t, err)
	require.Len(t, receipts, 2)
	assert.ErrorIs(t, receipts[0].Err, ErrInvalidArgs)
	assert.ErrorIs(t, receipts[1].Err, ErrInvalidArgs)

	alice := rt.Balance("alice")
	assert.Equal(t, "100", alice.Dec())
	empty := rt.Balance("")
	assert.True(t, empty.IsZero())
	invalid := rt.Balance("0OIl")
	assert.True(t, invalid.IsZero())
}

func TestAccountReadsBalanceAndNonce(t *testing.T) {
	rt := newTestRuntime()
	rt.SetBalance("alice", 10)
	_, err := rt.ExecuteBlock(types.Block[string, uint64]{
		Header:     types.Header[uint64]{BlockNumber: 1},
		Extrinsics: []types.Extrinsic[string]{transferExtrinsic(t, rt, "alice", "bob", 4)},
	})
	require.NoError(t, err)

	balance, nonce := rt.Account("alice")
	assert.Equal(t, uint64(6), balance)
	assert.Equal(t, uint32(1), nonce)

	balance, nonce = rt.Account("ghost")
	assert.Equal(t, uint64(0), balance)
	assert.Equal(t, uint32(0), nonce)
}

func TestExecuteBlock(t *testing.T) {
	rt := newTestRuntime()
	rt.SetBalance("alice", 100)
	rt.SetBalance("bob", 50)

	block := types.Block[string, uint64]{
		Header: types.Header[uint64]{BlockNumber: 1},
		Extrinsics: []types.Extrinsic[string]{
			transferExtrinsic(t, rt, "alice", "bob", 600),
			transferExtrinsic(t, rt, "alice", "bob", 50),
			transferExtrinsic(t, rt, "bob", "charlie", 20),
			{Caller: "charlie", Call: "staking.bond"},
		},
	}

	receipts, err := rt.ExecuteBlock(block)
	require.NoError(t, err)
	require.Len(t, receipts, 4)

	assert.False(t, receipts[0].Success)
	assert.ErrorIs(t, receipts[0].Err, balances.ErrInsufficientFunds)
	assert.True(t, receipts[1].Success)
	assert.True(t, receipts[2].Success)
	assert.False(t, receipts[3].Success)
	assert.ErrorIs(t, receipts[3].Err, ErrUnknownCall)
	assert.Equal(t, 3, receipts[3].Index)

	assert.Equal(t, uint64(1), rt.BlockNumber())
	assert.Equal(t, uint32(2), rt.Nonce("alice"), "failed extrinsics still consume a nonce")
	assert.Equal(t, uint32(1), rt.Nonce("bob"))
	assert.Equal(t, uint32(1), rt.Nonce("charlie"))

	assert.Equal(t, uint64(50), rt.Balance("alice"))
	assert.Equal(t, uint64(80), rt.Balance("bob"))
	assert.Equal(t, uint64(20), rt.Balance("charlie"))
}

func TestExecuteBlockNumberMismatch(t *testing.T) {
	rt := newTestRuntime()
	rt.SetBalance("alice", 10)

	block := types.Block[string, uint64]{
		Header:     types.Header[uint64]{BlockNumber: 2},
		Extrinsics: []types.Extrinsic[string]{transferExtrinsic(t, rt, "alice", "bob", 1)},
	}
	_, err := rt.ExecuteBlock(block)
	assert.ErrorIs(t, err, ErrBlockNumberMismatch)

	assert.Equal(t, uint64(0), rt.BlockNumber())
	assert.Equal(t, uint32(0), rt.Nonce("alice"))
	assert.Equal(t, uint64(10), rt.Balance("alice"))

	block.Header.BlockNumber = 1
	_, err = rt.ExecuteBlock(block)
	require.NoError(t, err)

	_, err = rt.ExecuteBlock(block)
	assert.ErrorIs(t, err, ErrBlockNumberMismatch, "a block cannot be replayed")
}

func TestEmptyBlocksAdvanceBlockNumber(t *testing.T) {
	rt := newTestRuntime()
	for i := uint64(1); i <= 5; i++ {
		receipts, err := rt.ExecuteBlock(types.Block[string, uint64]{Header: types.Header[uint64]{BlockNumber: i}})
		require.NoError(t, err)
		assert.Empty(t, receipts)
	}
	assert.Equal(t, uint64(5), rt.BlockNumber())
}

func TestSnapshotRestore(t *testing.T) {
	rt := newTestRuntime()
	rt.SetBalance("bob", 50)
	rt.SetBalance("alice", 100)
	_, err := rt.ExecuteBlock(types.Block[string, uint64]{
		Header: types.Header[uint64]{BlockNumber: 1},
		Extrinsics: []types.Extrinsic[string]{
			transferExtrinsic(t, rt, "alice", "bob", 30),
			transferExtrinsic(t, rt, "dave", "bob", 1),
		},
	})
	require.NoError(t, err)

	state := rt.Snapshot()
	assert.Equal(t, uint64(1), state.BlockNumber)
	assert.Equal(t, []types.AccountState[string, uint64, uint32]{
		{Account: "alice", Balance: 70, Nonce: 1},
		{Account: "bob", Balance: 80, Nonce: 0},
		{Account: "dave", Balance: 0, Nonce: 1},
	}, state.Accounts)

	restored := newTestRuntime()
	restored.SetBalance("zoe", 5)
	restored.Restore(state)
	assert.Equal(t, state, restored.Snapshot())
	assert.Equal(t, uint64(0), restored.Balance("zoe"))
}

func TestApplyGenesis(t *testing.T) {
	rt := NewDefault()
	genesis := &config.GenesisConfig{Balances: []config.GenesisAccount{
		{Address: "alice", Amount: "1_000"},
		{Address: "bob", Amount: "115792089237316195423570985008687907853269984665640564039457584007913129639935"},
	}}
	identity := func(s string) (string, error) { return s, nil }

	require.NoError(t, rt.ApplyGenesis(genesis, identity))
	alice := rt.Balance("alice")
	assert.Equal(t, "1000", alice.Dec())

	err := rt.Transfer("alice", "bob", *uint256.NewInt(1))
	assert.ErrorIs(t, err, balances.ErrOverflow)
}

func TestApplyGenesisIsAllOrNothing(t *testing.T) {
	rt := NewDefault()
	identity := func(s string) (string, error) { return s, nil }

	err := rt.ApplyGenesis(&config.GenesisConfig{Balances: []config.GenesisAccount{
		{Address: "alice", Amount: "10"},
		{Address: "bob", Amount: "ten"},
	}}, identity)
	assert.ErrorIs(t, err, ErrInvalidGenesis)
	alice := rt.Balance("alice")
	assert.True(t, alice.IsZero())

	err = rt.ApplyGenesis(&config.GenesisConfig{Balances: []config.GenesisAccount{
		{Address: "alice", Amount: "10"},
		{Address: "alice", Amount: "20"},
	}}, identity)
	assert.ErrorIs(t, err, ErrInvalidGenesis)

	rejectAll := func(s string) (string, error) { return "", errors.New("bad address") }
	err = rt.ApplyGenesis(&config.GenesisConfig{Balances: []config.GenesisAccount{{Address: "x", Amount: "1"}}}, rejectAll)
	assert.ErrorIs(t, err, ErrInvalidGenesis)
}

func TestConcurrentTransfersPreserveSupply(t *testing.T) {
	rt := newTestRuntime()
	accounts := []string{"a", "b", "c", "d"}
	for _, acc := range accounts {
		rt.SetBalance(acc, 1000)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				from := accounts[(i+j)%len(accounts)]
				to := accounts[(i+2*j+1)%len(accounts)]
				_ = rt.Transfer(from, to, uint64(j%7))
			}
		}(i)
	}
	wg.Wait()

	var total uint64
	for _, acc := range rt.Snapshot().Accounts {
		total += acc.Balance
	}
	assert.Equal(t, uint64(4000), total)
}

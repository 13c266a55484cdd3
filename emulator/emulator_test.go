// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package emulator_test

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/blinklabs-io/ledgersim/emulator"
	"github.com/blinklabs-io/ledgersim/internal/test/engine"
	"github.com/blinklabs-io/ledgersim/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const testFunds = 10_000_000

func newTestState(t *testing.T) (*emulator.State, *engine.Stub) {
	t.Helper()
	stub := &engine.Stub{}
	state, err := emulator.New(emulator.DefaultConfig(), testFunds, stub)
	require.NoError(t, err)
	return state, stub
}

func TestNewRejectsBadProtocolVersion(t *testing.T) {
	cfg := emulator.DefaultConfig()
	cfg.ProtocolParams.ProtocolVersion = "bogus"
	_, err := emulator.New(cfg, testFunds, &engine.Stub{})
	require.Error(t, err)
	var configErr emulator.ConfigError
	assert.ErrorAs(t, err, &configErr)
}

func TestGenesisInvariant(t *testing.T) {
	state, _ := newTestState(t)
	utxos := state.Utxos()
	require.Len(t, utxos, emulator.GenesisWalletCount)
	genesisTxId := emulator.GenesisTxId()
	seenIndexes := map[uint32]bool{}
	for _, utxo := range utxos {
		assert.Equal(t, genesisTxId, utxo.Id.TxId)
		assert.Equal(t, uint64(testFunds), utxo.Output.Amount())
		seenIndexes[utxo.Id.OutputIndex] = true
	}
	for i := uint32(1); i <= emulator.GenesisWalletCount; i++ {
		assert.True(t, seenIndexes[i], "missing genesis index %d", i)
	}
	// Each entry is locked to the deterministic key for its index
	for i := uint64(1); i <= emulator.GenesisWalletCount; i++ {
		txIn := ledger.TxIn{
			TxId:        genesisTxId,
			OutputIndex: uint32(i),
		}
		utxo, err := state.UtxoById(txIn)
		require.NoError(t, err)
		expectedAddr := emulator.WalletAddress(
			ledger.AddressNetworkTestnet,
			i,
		)
		assert.Equal(
			t,
			expectedAddr.Bytes(),
			utxo.Output.Address().Bytes(),
		)
	}
}

func TestSlotMonotonicity(t *testing.T) {
	state, _ := newTestState(t)
	assert.Equal(t, uint64(0), state.CurrentSlot())
	state.WaitSlot(50)
	assert.Equal(t, uint64(50), state.CurrentSlot())
	// No-op when already at or past the target
	state.WaitSlot(20)
	assert.Equal(t, uint64(50), state.CurrentSlot())
	state.WaitSlot(50)
	assert.Equal(t, uint64(50), state.CurrentSlot())
	// ModifySlot is unconditional, including backward
	state.ModifySlot(func(slot uint64) uint64 { return slot + 5 })
	assert.Equal(t, uint64(55), state.CurrentSlot())
	state.ModifySlot(func(uint64) uint64 { return 10 })
	assert.Equal(t, uint64(10), state.CurrentSlot())
}

func TestSlotTimeTranslation(t *testing.T) {
	state, _ := newTestState(t)
	cfg := state.Config()
	slotTime := state.SlotToTime(100)
	assert.Equal(
		t,
		cfg.SlotConfig.ZeroTime.Add(100*time.Second),
		slotTime,
	)
	assert.Equal(t, uint64(100), state.TimeToSlot(slotTime))
	assert.Equal(t, uint64(0), state.CurrentEpoch())
	state.WaitSlot(cfg.SlotConfig.EpochLength + 1)
	assert.Equal(t, uint64(1), state.CurrentEpoch())
}

func TestTxOutRefsAt(t *testing.T) {
	state, _ := newTestState(t)
	addr1 := emulator.WalletAddress(ledger.AddressNetworkTestnet, 1)
	refs := state.TxOutRefsAt(addr1)
	require.Len(t, refs, 1)
	assert.Equal(t, uint32(1), refs[0].OutputIndex)
	// An address with no outputs yields no refs
	unknownAddr, err := ledger.NewEnterpriseAddress(
		ledger.AddressNetworkTestnet,
		ledger.NewKeyCredential(
			ledger.Blake2b224Hash([]byte("nobody")),
		),
	)
	require.NoError(t, err)
	assert.Empty(t, state.TxOutRefsAt(unknownAddr))
}

func TestTxOutRefsAtCredential(t *testing.T) {
	state, _ := newTestState(t)
	keyPair := emulator.WalletKeyPair(2)
	cred := ledger.NewKeyCredential(keyPair.KeyHash())
	refs := state.TxOutRefsAtCredential(cred)
	require.Len(t, refs, 1)
	assert.Equal(t, uint32(2), refs[0].OutputIndex)
	// A script credential with the same hash does not match
	scriptCred := ledger.NewScriptCredential(keyPair.KeyHash())
	assert.Empty(t, state.TxOutRefsAtCredential(scriptCred))
}

func TestTxOutRefsAtCredentialIgnoresLegacyAddresses(t *testing.T) {
	stub := &engine.Stub{}
	state, err := emulator.New(emulator.DefaultConfig(), testFunds, stub)
	require.NoError(t, err)
	// Move a genesis output to a legacy address via the stub engine
	genesisIn := ledger.TxIn{
		TxId:        emulator.GenesisTxId(),
		OutputIndex: 1,
	}
	legacyAddr := ledger.NewByronAddress(
		[]byte{byte(ledger.AddressTypeByron << 4), 0x01, 0x02},
	)
	tx := &ledger.Transaction{
		Body: ledger.TransactionBody{
			TxInputs:  []ledger.TxIn{genesisIn},
			TxOutputs: []ledger.TxOut{ledger.NewTxOut(legacyAddr, testFunds)},
		},
	}
	require.NoError(t, state.SendTx(tx))
	// The legacy output never matches a credential query
	keyPair := emulator.WalletKeyPair(1)
	cred := ledger.NewKeyCredential(keyPair.KeyHash())
	assert.Empty(t, state.TxOutRefsAtCredential(cred))
	// It still matches a whole-address query
	assert.Len(t, state.TxOutRefsAt(legacyAddr), 1)
}

func TestLogsAndCheckErrors(t *testing.T) {
	state, _ := newTestState(t)
	state.LogInfo("starting scenario")
	state.LogDebug("seeding complete")
	state.WaitSlot(5)
	state.LogWarning("something odd")
	state.LogError("unexpected but recoverable")
	require.NoError(t, state.CheckErrors())
	state.Fail("first failure")
	state.WaitSlot(9)
	state.Fail("second failure")
	err := state.CheckErrors()
	require.Error(t, err)
	assert.Equal(t, "first failure\nsecond failure", err.Error())
	fails := state.Fails()
	require.Len(t, fails, 2)
	assert.Equal(t, uint64(5), fails[0].Slot)
	assert.Equal(t, uint64(9), fails[1].Slot)
	rendered := state.RenderLog()
	assert.Contains(t, rendered, "Slot 0:")
	assert.Contains(t, rendered, "[info] starting scenario")
	assert.Contains(t, rendered, "[debug] seeding complete")
	assert.Contains(t, rendered, "Slot 5:")
	assert.Contains(t, rendered, "[warning] something odd")
	assert.Contains(t, rendered, "[error] unexpected but recoverable")
	assert.Contains(t, rendered, "first failure")
	assert.Contains(t, rendered, "Slot 9:")
	// Info entries precede fail entries within a slot
	slotFiveBlock := rendered[strings.Index(rendered, "Slot 5:"):]
	assert.Less(
		t,
		strings.Index(slotFiveBlock, "something odd"),
		strings.Index(slotFiveBlock, "first failure"),
	)
}

// TestSingleOwnerBoundary exercises the emulator from multiple goroutines to
// verify the single mutual-exclusion boundary around the whole state
func TestSingleOwnerBoundary(t *testing.T) {
	defer goleak.VerifyNone(t)
	state, _ := newTestState(t)
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 50 {
				if i%2 == 0 {
					state.WaitSlot(uint64(j)) //nolint:gosec
					state.LogInfo("tick")
				} else {
					_ = state.Utxos()
					_ = state.CurrentSlot()
				}
			}
		}()
	}
	wg.Wait()
	require.NoError(t, state.CheckErrors())
}

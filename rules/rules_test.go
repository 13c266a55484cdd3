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

package rules_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/blinklabs-io/ledgersim/emulator"
	"github.com/blinklabs-io/ledgersim/internal/test"
	"github.com/blinklabs-io/ledgersim/ledger"
	"github.com/blinklabs-io/ledgersim/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testGlobals = emulator.Globals{
	ProtocolVersion: ledger.ProtocolVersion{Major: 8, Minor: 0},
	NetworkId:       ledger.AddressNetworkTestnet,
}

func testEnv() emulator.LedgerEnv {
	return emulator.LedgerEnv{
		Slot: 10,
		Params: ledger.ProtocolParameters{
			MinFeeA:      44,
			MinFeeB:      155381,
			MaxTxSize:    16384,
			MinUtxoValue: 1_000_000,
		},
	}
}

// fundedState seeds a mempool state with a single UTxO locked to the key for
// the given wallet index
func fundedState(
	index uint64,
	amount uint64,
) (emulator.MempoolState, ledger.TxIn, ledger.KeyPair) {
	keyPair := ledger.NewDeterministicKeyPair(index)
	addr := test.KeyAddress(ledger.AddressNetworkTestnet, keyPair)
	txIn := ledger.NewTxIn(strings.Repeat("a0", 32), 0)
	mempool := emulator.NewMempoolState()
	mempool.Utxos[txIn] = ledger.NewTxOut(addr, amount)
	return mempool, txIn, keyPair
}

// signedSpend builds a signed transaction spending txIn and paying the
// remainder (after fee) to the wallet at the destination index
func signedSpend(
	txIn ledger.TxIn,
	keyPair ledger.KeyPair,
	amount uint64,
	fee uint64,
	destIndex uint64,
) *ledger.Transaction {
	destAddr := test.KeyAddress(
		ledger.AddressNetworkTestnet,
		ledger.NewDeterministicKeyPair(destIndex),
	)
	tx := &ledger.Transaction{
		Body: ledger.TransactionBody{
			TxInputs:  []ledger.TxIn{txIn},
			TxOutputs: []ledger.TxOut{ledger.NewTxOut(destAddr, amount-fee)},
			TxFee:     fee,
		},
	}
	tx.WitnessSet = ledger.WitnessSet{
		VkeyWitnesses: []ledger.VkeyWitness{keyPair.SignTx(tx.Hash())},
	}
	return tx
}

func TestValidateAcceptsSignedSpend(t *testing.T) {
	engine := rules.New()
	mempool, txIn, keyPair := fundedState(1, 10_000_000)
	tx := signedSpend(txIn, keyPair, 10_000_000, 200_000, 2)
	newMempool, validatedTx, err := engine.Validate(
		emulator.PolicyValidateAll,
		testGlobals,
		testEnv(),
		mempool,
		tx,
	)
	require.NoError(t, err)
	require.NotNil(t, validatedTx)
	// Spent entry removed, produced entry added
	_, err = newMempool.UtxoById(txIn)
	assert.Error(t, err)
	produced := tx.Produced()[0]
	utxo, err := newMempool.UtxoById(produced.Id)
	require.NoError(t, err)
	assert.Equal(t, uint64(9_800_000), utxo.Output.Amount())
	assert.Equal(t, uint64(200_000), newMempool.Fees)
	// Input state untouched
	_, err = mempool.UtxoById(txIn)
	assert.NoError(t, err)
}

func TestValidateRejectsMissingInput(t *testing.T) {
	engine := rules.New()
	mempool, _, keyPair := fundedState(1, 10_000_000)
	bogusIn := ledger.NewTxIn(strings.Repeat("ff", 32), 9)
	tx := signedSpend(bogusIn, keyPair, 10_000_000, 200_000, 2)
	_, _, err := engine.Validate(
		emulator.PolicyValidateAll,
		testGlobals,
		testEnv(),
		mempool,
		tx,
	)
	require.Error(t, err)
	var badInput ledger.BadInputError
	assert.True(t, errors.As(err, &badInput))
}

func TestValidateRejectsValueNotConserved(t *testing.T) {
	engine := rules.New()
	mempool, txIn, keyPair := fundedState(1, 10_000_000)
	// Output + fee does not add up to the consumed value
	tx := signedSpend(txIn, keyPair, 9_000_000, 200_000, 2)
	_, _, err := engine.Validate(
		emulator.PolicyValidateAll,
		testGlobals,
		testEnv(),
		mempool,
		tx,
	)
	require.Error(t, err)
	var notConserved ledger.ValueNotConservedError
	assert.True(t, errors.As(err, &notConserved))
}

func TestValidateRejectsFeeTooSmall(t *testing.T) {
	engine := rules.New()
	mempool, txIn, keyPair := fundedState(1, 10_000_000)
	tx := signedSpend(txIn, keyPair, 10_000_000, 10, 2)
	_, _, err := engine.Validate(
		emulator.PolicyValidateAll,
		testGlobals,
		testEnv(),
		mempool,
		tx,
	)
	require.Error(t, err)
	var feeTooSmall ledger.FeeTooSmallError
	assert.True(t, errors.As(err, &feeTooSmall))
	// The relaxed policy skips the fee floor
	_, _, err = engine.Validate(
		emulator.PolicyNoLimits,
		testGlobals,
		testEnv(),
		mempool,
		tx,
	)
	assert.NoError(t, err)
}

func TestValidateRejectsMissingWitness(t *testing.T) {
	engine := rules.New()
	mempool, txIn, keyPair := fundedState(1, 10_000_000)
	tx := signedSpend(txIn, keyPair, 10_000_000, 200_000, 2)
	tx.WitnessSet = ledger.WitnessSet{}
	_, _, err := engine.Validate(
		emulator.PolicyValidateAll,
		testGlobals,
		testEnv(),
		mempool,
		tx,
	)
	require.Error(t, err)
	var missingWitness ledger.MissingVkeyWitnessError
	assert.True(t, errors.As(err, &missingWitness))
	// The signature-skipping policy accepts the unsigned spend
	_, _, err = engine.Validate(
		emulator.PolicyNoSignatures,
		testGlobals,
		testEnv(),
		mempool,
		tx,
	)
	assert.NoError(t, err)
}

func TestValidateRejectsWrongKeySignature(t *testing.T) {
	engine := rules.New()
	mempool, txIn, _ := fundedState(1, 10_000_000)
	wrongKey := ledger.NewDeterministicKeyPair(5)
	tx := signedSpend(txIn, wrongKey, 10_000_000, 200_000, 2)
	_, _, err := engine.Validate(
		emulator.PolicyValidateAll,
		testGlobals,
		testEnv(),
		mempool,
		tx,
	)
	require.Error(t, err)
	var missingWitness ledger.MissingVkeyWitnessError
	assert.True(t, errors.As(err, &missingWitness))
}

func TestValidateRejectsExpiredTransaction(t *testing.T) {
	engine := rules.New()
	mempool, txIn, keyPair := fundedState(1, 10_000_000)
	destAddr := test.KeyAddress(
		ledger.AddressNetworkTestnet,
		ledger.NewDeterministicKeyPair(2),
	)
	tx := &ledger.Transaction{
		Body: ledger.TransactionBody{
			TxInputs:  []ledger.TxIn{txIn},
			TxOutputs: []ledger.TxOut{ledger.NewTxOut(destAddr, 9_800_000)},
			TxFee:     200_000,
			Ttl:       5,
		},
	}
	tx.WitnessSet = ledger.WitnessSet{
		VkeyWitnesses: []ledger.VkeyWitness{keyPair.SignTx(tx.Hash())},
	}
	// Env slot is 10, past the TTL of 5
	_, _, err := engine.Validate(
		emulator.PolicyValidateAll,
		testGlobals,
		testEnv(),
		mempool,
		tx,
	)
	require.Error(t, err)
	var outside ledger.OutsideValidityIntervalError
	assert.True(t, errors.As(err, &outside))
}

func TestValidateRejectsEmptyInputSet(t *testing.T) {
	engine := rules.New()
	mempool := emulator.NewMempoolState()
	tx := &ledger.Transaction{}
	_, _, err := engine.Validate(
		emulator.PolicyValidateAll,
		testGlobals,
		testEnv(),
		mempool,
		tx,
	)
	require.Error(t, err)
	var emptyInputs ledger.InputSetEmptyError
	assert.True(t, errors.As(err, &emptyInputs))
}

func TestValidationErrorWrapping(t *testing.T) {
	engine := rules.New()
	mempool := emulator.NewMempoolState()
	tx := &ledger.Transaction{}
	_, _, err := engine.Validate(
		emulator.PolicyValidateAll,
		testGlobals,
		testEnv(),
		mempool,
		tx,
	)
	require.Error(t, err)
	var validationErr *ledger.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(
		t,
		ledger.ValidationErrorTypeTransaction,
		validationErr.Type,
	)
	assert.Contains(t, validationErr.Details, "tx_hash")
}

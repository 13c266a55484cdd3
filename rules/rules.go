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

// Package rules provides the default rule engine for the emulator. It
// implements a deterministic subset of the UTxO ledger rules as an ordered
// rule pipeline; the emulator core only depends on the RuleEngine interface,
// so tests can substitute a stub and integrations can swap in a full engine.
package rules

import (
	"github.com/blinklabs-io/ledgersim/emulator"
	"github.com/blinklabs-io/ledgersim/ledger"
)

// RuleFunc validates one aspect of a transaction against the current ledger
// environment and mempool state
type RuleFunc func(
	tx *ledger.Transaction,
	globals emulator.Globals,
	env emulator.LedgerEnv,
	mempool emulator.MempoolState,
) error

// Engine is the default RuleEngine implementation
type Engine struct{}

var _ emulator.RuleEngine = (*Engine)(nil)

// New creates a default rule engine
func New() *Engine {
	return &Engine{}
}

// Validate runs the rule pipeline selected by the policy. On success it
// returns a replacement mempool state with the transaction applied; the input
// state is never mutated. The first rule failure is wrapped into a
// ValidationError and returned with an unchanged state.
func (e *Engine) Validate(
	policy emulator.Policy,
	globals emulator.Globals,
	env emulator.LedgerEnv,
	mempool emulator.MempoolState,
	tx *ledger.Transaction,
) (emulator.MempoolState, *ledger.Transaction, error) {
	for i, rule := range rulesForPolicy(policy) {
		if err := rule(tx, globals, env, mempool); err != nil {
			return emulator.MempoolState{}, nil, ledger.NewValidationError(
				ledger.ValidationErrorTypeTransaction,
				"transaction validation failed",
				map[string]any{
					"rule_index": i,
					"slot":       env.Slot,
					"tx_hash":    tx.Hash().String(),
				},
				err,
			)
		}
	}
	return applyTx(mempool, tx), tx, nil
}

func rulesForPolicy(policy emulator.Policy) []RuleFunc {
	ret := []RuleFunc{
		validateInputSetNotEmpty,
		validateInputsExist,
		validateValueConserved,
		validateValidityInterval,
		validateOutputNetwork,
	}
	if policy != emulator.PolicyNoLimits &&
		policy != emulator.PolicyNoSignatures {
		ret = append(
			ret,
			validateMaxTxSize,
			validateFee,
			validateMinOutputValue,
		)
	}
	if policy != emulator.PolicyNoSignatures {
		ret = append(ret, validateWitnesses)
	}
	return ret
}

// applyTx produces the successor mempool state: spent entries removed,
// produced entries added, fee accumulated
func applyTx(
	mempool emulator.MempoolState,
	tx *ledger.Transaction,
) emulator.MempoolState {
	ret := mempool.Copy()
	for _, txIn := range tx.Consumed() {
		delete(ret.Utxos, txIn)
	}
	for _, utxo := range tx.Produced() {
		ret.Utxos[utxo.Id] = utxo.Output
	}
	ret.Fees += tx.Fee()
	return ret
}

func validateInputSetNotEmpty(
	tx *ledger.Transaction,
	_ emulator.Globals,
	_ emulator.LedgerEnv,
	_ emulator.MempoolState,
) error {
	if len(tx.Inputs()) == 0 {
		return ledger.InputSetEmptyError{}
	}
	return nil
}

func validateInputsExist(
	tx *ledger.Transaction,
	_ emulator.Globals,
	_ emulator.LedgerEnv,
	mempool emulator.MempoolState,
) error {
	for _, txIn := range tx.Inputs() {
		if _, err := mempool.UtxoById(txIn); err != nil {
			return err
		}
	}
	return nil
}

func validateValueConserved(
	tx *ledger.Transaction,
	_ emulator.Globals,
	_ emulator.LedgerEnv,
	mempool emulator.MempoolState,
) error {
	var consumed, produced uint64
	for _, txIn := range tx.Inputs() {
		utxo, err := mempool.UtxoById(txIn)
		if err != nil {
			return err
		}
		consumed += utxo.Output.Amount()
	}
	for _, txOut := range tx.Outputs() {
		produced += txOut.Amount()
	}
	produced += tx.Fee()
	if consumed != produced {
		return ledger.ValueNotConservedError{
			Consumed: consumed,
			Produced: produced,
		}
	}
	return nil
}

func validateValidityInterval(
	tx *ledger.Transaction,
	_ emulator.Globals,
	env emulator.LedgerEnv,
	_ emulator.MempoolState,
) error {
	start := tx.Body.ValidityIntervalStart()
	ttl := tx.Body.TTL()
	if env.Slot < start || (ttl > 0 && env.Slot > ttl) {
		return ledger.OutsideValidityIntervalError{
			Slot:          env.Slot,
			ValidityStart: start,
			TTL:           ttl,
		}
	}
	return nil
}

func validateOutputNetwork(
	tx *ledger.Transaction,
	globals emulator.Globals,
	_ emulator.LedgerEnv,
	_ emulator.MempoolState,
) error {
	for _, txOut := range tx.Outputs() {
		addr := txOut.Address()
		if addr.Type() == ledger.AddressTypeByron {
			// Legacy addresses carry no comparable network id
			continue
		}
		if addr.NetworkId() != uint(globals.NetworkId) {
			return ledger.NewValidationError(
				ledger.ValidationErrorTypeTransaction,
				"output address on wrong network",
				map[string]any{"address": addr.String()},
				nil,
			)
		}
	}
	return nil
}

func validateMaxTxSize(
	tx *ledger.Transaction,
	_ emulator.Globals,
	env emulator.LedgerEnv,
	_ emulator.MempoolState,
) error {
	size, err := tx.Size()
	if err != nil {
		return err
	}
	if uint(size) > env.Params.MaxTxSize { //nolint:gosec
		return ledger.MaxTxSizeError{
			Size:    size,
			Maximum: env.Params.MaxTxSize,
		}
	}
	return nil
}

func validateFee(
	tx *ledger.Transaction,
	_ emulator.Globals,
	env emulator.LedgerEnv,
	_ emulator.MempoolState,
) error {
	size, err := tx.Size()
	if err != nil {
		return err
	}
	minFee := ledger.CalculateMinFee(
		size,
		env.Params.MinFeeA,
		env.Params.MinFeeB,
	)
	if tx.Fee() < minFee {
		return ledger.FeeTooSmallError{
			Provided: tx.Fee(),
			Minimum:  minFee,
		}
	}
	return nil
}

func validateMinOutputValue(
	tx *ledger.Transaction,
	_ emulator.Globals,
	env emulator.LedgerEnv,
	_ emulator.MempoolState,
) error {
	for _, txOut := range tx.Outputs() {
		if txOut.Amount() < env.Params.MinUtxoValue {
			return ledger.OutputTooSmallError{Output: txOut}
		}
	}
	return nil
}

// validateWitnesses checks that every key-locked input is covered by a vkey
// witness whose key hash matches the output's payment credential and whose
// signature verifies over the transaction id. Script-locked and legacy
// outputs are outside the scope of this engine.
func validateWitnesses(
	tx *ledger.Transaction,
	_ emulator.Globals,
	_ emulator.LedgerEnv,
	mempool emulator.MempoolState,
) error {
	txId := tx.Hash()
	verified := make(map[ledger.Blake2b224]struct{})
	for _, witness := range tx.Witnesses().Vkey() {
		keyHash := witness.KeyHash()
		if !witness.Verify(txId) {
			return ledger.InvalidSignatureError{KeyHash: keyHash}
		}
		verified[keyHash] = struct{}{}
	}
	for _, txIn := range tx.Inputs() {
		utxo, err := mempool.UtxoById(txIn)
		if err != nil {
			return err
		}
		cred := utxo.Output.Address().PaymentCredential()
		if cred == nil || cred.CredType != ledger.CredentialTypeAddrKeyHash {
			continue
		}
		if _, ok := verified[cred.Credential]; !ok {
			return ledger.MissingVkeyWitnessError{KeyHash: cred.Credential}
		}
	}
	return nil
}

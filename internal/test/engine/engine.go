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

// Package engine provides a scriptable stub rule engine so tests can exercise
// the emulator orchestrator independent of real ledger rules. Keeping this in
// an internal package prevents external consumers from depending on test-only
// APIs while allowing in-repo tests to reuse the same stub.
package engine

import (
	"github.com/blinklabs-io/ledgersim/emulator"
	"github.com/blinklabs-io/ledgersim/ledger"
)

// Compile-time check that Stub implements RuleEngine
var _ emulator.RuleEngine = (*Stub)(nil)

// Stub is a configurable RuleEngine. With no overrides it accepts every
// transaction whose inputs exist, applying the naive spend/produce
// transition. Set RejectFunc to script rejections, or ValidateFunc to
// replace the behavior entirely.
type Stub struct {
	// ValidateFunc overrides Validate completely when set
	ValidateFunc func(
		policy emulator.Policy,
		globals emulator.Globals,
		env emulator.LedgerEnv,
		mempool emulator.MempoolState,
		tx *ledger.Transaction,
	) (emulator.MempoolState, *ledger.Transaction, error)
	// RejectFunc, when set, is consulted per transaction; a non-nil return
	// rejects the transaction with that error
	RejectFunc func(tx *ledger.Transaction) error
	// Calls counts Validate invocations
	Calls int
}

func (s *Stub) Validate(
	policy emulator.Policy,
	globals emulator.Globals,
	env emulator.LedgerEnv,
	mempool emulator.MempoolState,
	tx *ledger.Transaction,
) (emulator.MempoolState, *ledger.Transaction, error) {
	s.Calls++
	if s.ValidateFunc != nil {
		return s.ValidateFunc(policy, globals, env, mempool, tx)
	}
	if s.RejectFunc != nil {
		if err := s.RejectFunc(tx); err != nil {
			return emulator.MempoolState{}, nil, err
		}
	}
	newMempool := mempool.Copy()
	for _, txIn := range tx.Consumed() {
		if _, err := mempool.UtxoById(txIn); err != nil {
			return emulator.MempoolState{}, nil, err
		}
		delete(newMempool.Utxos, txIn)
	}
	for _, utxo := range tx.Produced() {
		newMempool.Utxos[utxo.Id] = utxo.Output
	}
	newMempool.Fees += tx.Fee()
	return newMempool, tx, nil
}

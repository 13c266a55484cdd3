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

package emulator

import (
	"github.com/blinklabs-io/ledgersim/ledger"
)

// Policy selects which validation rules the engine applies
type Policy uint8

const (
	// PolicyValidateAll applies every rule
	PolicyValidateAll Policy = iota
	// PolicyNoLimits skips resource-limit rules (fee floor, size, min output)
	PolicyNoLimits
	// PolicyNoSignatures skips witness verification in addition to limits
	PolicyNoSignatures
)

// LedgerEnv is the per-slot ledger environment: the current slot and the
// protocol parameters in force. It is immutable for the duration of a slot.
type LedgerEnv struct {
	Slot   uint64
	Params ledger.ProtocolParameters
}

// MempoolState is the mempool-level ledger state: the UTxO set plus auxiliary
// bookkeeping. It is owned by the emulator and replaced wholesale by the rule
// engine's output on every successful validation.
type MempoolState struct {
	Utxos map[ledger.TxIn]ledger.TxOut
	// Fees accumulates the fees collected from validated transactions
	Fees uint64
}

// NewMempoolState creates an empty MempoolState
func NewMempoolState() MempoolState {
	return MempoolState{
		Utxos: make(map[ledger.TxIn]ledger.TxOut),
	}
}

// Copy returns a deep copy of the mempool state
func (m MempoolState) Copy() MempoolState {
	utxos := make(map[ledger.TxIn]ledger.TxOut, len(m.Utxos))
	for txIn, txOut := range m.Utxos {
		utxos[txIn] = txOut
	}
	return MempoolState{
		Utxos: utxos,
		Fees:  m.Fees,
	}
}

// UtxoById looks up a UTxO entry by its output reference
func (m MempoolState) UtxoById(id ledger.TxIn) (ledger.Utxo, error) {
	txOut, ok := m.Utxos[id]
	if !ok {
		return ledger.Utxo{}, ledger.BadInputError{Input: id}
	}
	return ledger.Utxo{Id: id, Output: txOut}, nil
}

// RuleEngine is the external deterministic transition function enforcing
// ledger validity rules. Validate must be pure: on success it returns the
// replacement mempool state and the validated transaction without mutating
// its inputs; on failure it returns an engine-defined error and the ledger
// state is left untouched by the caller.
type RuleEngine interface {
	Validate(
		policy Policy,
		globals Globals,
		env LedgerEnv,
		mempool MempoolState,
		tx *ledger.Transaction,
	) (MempoolState, *ledger.Transaction, error)
}

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
	"fmt"

	"github.com/blinklabs-io/ledgersim/ledger"
)

// TxRejectedError wraps a rule engine rejection together with the original
// transaction
type TxRejectedError struct {
	Tx    *ledger.Transaction
	Cause error
}

func (e TxRejectedError) Error() string {
	return fmt.Sprintf(
		"transaction %s rejected: %v",
		e.Tx.Hash().String(),
		e.Cause,
	)
}

func (e TxRejectedError) Unwrap() error {
	return e.Cause
}

// applyTx is the single chokepoint invoking the rule engine. On success it
// replaces the mempool state and prepends the validated transaction to the
// in-progress block. On failure the state is left untouched and the engine's
// error is returned wrapped with the original transaction.
//
// Callers must hold the state mutex.
func (s *State) applyTx(
	policy Policy,
	tx *ledger.Transaction,
) (*ledger.Transaction, error) {
	newMempool, validatedTx, err := s.engine.Validate(
		policy,
		s.globals,
		s.ledger.Env,
		s.ledger.Mempool,
		tx,
	)
	if err != nil {
		return nil, TxRejectedError{Tx: tx, Cause: err}
	}
	s.ledger.Mempool = newMempool
	s.ledger.appendToBlock(validatedTx)
	return validatedTx, nil
}

// validateTx runs the rule engine against the current state without mutating
// anything. It returns the candidate mempool state and validated transaction.
//
// Callers must hold the state mutex.
func (s *State) validateTx(
	policy Policy,
	tx *ledger.Transaction,
) (MempoolState, *ledger.Transaction, error) {
	return s.engine.Validate(
		policy,
		s.globals,
		s.ledger.Env,
		s.ledger.Mempool,
		tx,
	)
}

// commitTx installs the outcome of a successful validateTx: the mempool state
// is replaced and the transaction's datums are merged into the cache.
//
// Callers must hold the state mutex.
func (s *State) commitTx(
	newMempool MempoolState,
	validatedTx *ledger.Transaction,
) {
	s.ledger.Mempool = newMempool
	s.cacheDatums(validatedTx)
}

// SendTx validates and immediately commits a single transaction. On success
// the ledger state is mutated, the transaction joins the in-progress block,
// and any datums referenced by its witness set are cached. On failure the
// state is unchanged and the rejection is returned for the caller to log or
// assert on.
func (s *State) SendTx(tx *ledger.Transaction) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	validatedTx, err := s.applyTx(PolicyValidateAll, tx)
	if err != nil {
		return err
	}
	s.cacheDatums(validatedTx)
	return nil
}

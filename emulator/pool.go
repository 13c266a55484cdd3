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

// Block is a finalized batch of validated transactions
type Block struct {
	// Slot is the slot the block was assembled in
	Slot uint64
	// Txs holds the included transactions oldest-first
	Txs []*ledger.Transaction
}

// AddTxToPool inserts a transaction into the pending pool. The pool is FIFO:
// ProcessBlock validates transactions in submission order, so a pooled
// transaction may spend outputs created by one pooled before it.
func (s *State) AddTxToPool(tx *ledger.Transaction) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.pool = append(s.pool, tx)
}

// PoolSize returns the number of pending transactions
func (s *State) PoolSize() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.pool)
}

// ProcessBlock validates every pooled transaction in pool order, strictly
// sequentially, committing each accepted transaction before checking the
// next so that later transactions may spend outputs created earlier in the
// same batch. Rejected transactions are dropped without surfacing a reason
// at this layer. Afterwards the pool is cleared and the ledger's in-progress
// block is overwritten with exactly the included set, discarding anything
// accumulated by standalone SendTx calls in between. Returns the finalized
// block.
func (s *State) ProcessBlock() Block {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	included := []*ledger.Transaction{}
	for _, tx := range s.pool {
		newMempool, validatedTx, err := s.validateTx(PolicyValidateAll, tx)
		if err != nil {
			// Silent drop; per-tx failures are not retained here
			continue
		}
		s.commitTx(newMempool, validatedTx)
		included = append(included, validatedTx)
	}
	s.pool = nil
	// Overwrite the in-progress block with the included set, most-recent-first
	s.ledger.currentBlock = make([]*ledger.Transaction, len(included))
	for idx, tx := range included {
		s.ledger.currentBlock[len(included)-1-idx] = tx
	}
	return Block{
		Slot: s.ledger.Env.Slot,
		Txs:  included,
	}
}

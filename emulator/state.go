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
	"sync"

	"github.com/blinklabs-io/ledgersim/ledger"
	"github.com/blinklabs-io/ledgersim/slotlog"
)

// EmulatedLedgerState holds the ledger environment, the mempool-level state,
// and the block under construction
type EmulatedLedgerState struct {
	Env     LedgerEnv
	Mempool MempoolState
	// currentBlock accumulates validated transactions most-recent-first
	currentBlock []*ledger.Transaction
}

// SetSlot replaces the environment's slot number. It does not enforce
// monotonicity; WaitSlot and ModifySlot own that decision.
func (s *EmulatedLedgerState) SetSlot(slot uint64) {
	s.Env.Slot = slot
}

// setUtxos seeds the mempool state's UTxO set. Used only at initialization.
func (s *EmulatedLedgerState) setUtxos(utxos map[ledger.TxIn]ledger.TxOut) {
	s.Mempool.Utxos = utxos
}

// appendToBlock prepends a validated transaction to the in-progress block
func (s *EmulatedLedgerState) appendToBlock(tx *ledger.Transaction) {
	s.currentBlock = append([]*ledger.Transaction{tx}, s.currentBlock...)
}

// CurrentBlock returns the validated transactions accumulated since the last
// block flush, oldest-first
func (s *EmulatedLedgerState) CurrentBlock() []*ledger.Transaction {
	ret := make([]*ledger.Transaction, len(s.currentBlock))
	for idx, tx := range s.currentBlock {
		ret[len(ret)-1-idx] = tx
	}
	return ret
}

// State is the top-level emulator state: one emulated ledger, one
// configuration, one datum cache, the info and failure logs, and the pending
// transaction pool. A State has exactly one logical writer at a time; when
// embedded in a concurrent host it is guarded as a single resource by its
// internal mutex rather than shared field-by-field.
type State struct {
	mutex      sync.Mutex
	config     Config
	globals    Globals
	engine     RuleEngine
	ledger     EmulatedLedgerState
	datumCache map[ledger.DatumHash]ledger.Datum
	infoLog    slotlog.Log[slotlog.LogEntry]
	failLog    slotlog.Log[slotlog.FailReason]
	pool       []*ledger.Transaction
}

// New constructs an emulator from a configuration and an initial per-wallet
// funds amount. The genesis UTxO set credits each deterministic test wallet
// with the provided funds. A configuration that cannot be parsed (e.g. a bad
// protocol version) yields a fatal ConfigError.
func New(cfg Config, funds uint64, engine RuleEngine) (*State, error) {
	globals, err := DeriveGlobals(cfg)
	if err != nil {
		return nil, err
	}
	s := &State{
		config:     cfg,
		globals:    globals,
		engine:     engine,
		datumCache: make(map[ledger.DatumHash]ledger.Datum),
		ledger: EmulatedLedgerState{
			Env: LedgerEnv{
				Slot:   0,
				Params: cfg.ProtocolParams,
			},
			Mempool: NewMempoolState(),
		},
	}
	s.ledger.setUtxos(genesisUtxos(cfg.NetworkId, funds))
	return s, nil
}

// Config returns the emulator's configuration
func (s *State) Config() Config {
	return s.config
}

// Globals returns the protocol-wide parameters derived from the configuration
func (s *State) Globals() Globals {
	return s.globals
}

// CurrentBlock returns the in-progress block, oldest-first
func (s *State) CurrentBlock() []*ledger.Transaction {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.ledger.CurrentBlock()
}

// DatumByHash returns the cached datum for the given hash, if present
func (s *State) DatumByHash(hash ledger.DatumHash) (ledger.Datum, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	datum, ok := s.datumCache[hash]
	return datum, ok
}

// Datums returns a copy of the datum cache
func (s *State) Datums() map[ledger.DatumHash]ledger.Datum {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	ret := make(map[ledger.DatumHash]ledger.Datum, len(s.datumCache))
	for hash, datum := range s.datumCache {
		ret[hash] = datum
	}
	return ret
}

// cacheDatums merges the datums carried by a transaction's witness set into
// the datum cache. Datums are content-addressed by the hash of their
// serialized form, so the union is idempotent and existing entries are
// preserved.
func (s *State) cacheDatums(tx *ledger.Transaction) {
	for _, datum := range tx.Witnesses().PlutusData() {
		s.datumCache[datum.Hash()] = datum
	}
}

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
	"bytes"
	"slices"
	"time"

	"github.com/blinklabs-io/ledgersim/ledger"
)

// CurrentSlot returns the ledger environment's current slot
func (s *State) CurrentSlot() uint64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.ledger.Env.Slot
}

// WaitSlot advances the current slot to the target. It is a no-op when the
// current slot is already at or past the target.
func (s *State) WaitSlot(target uint64) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.ledger.Env.Slot >= target {
		return
	}
	s.ledger.SetSlot(target)
}

// ModifySlot sets the current slot to f(current) unconditionally, including
// backward. Callers wanting monotonicity should use WaitSlot.
func (s *State) ModifySlot(f func(uint64) uint64) uint64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.ledger.SetSlot(f(s.ledger.Env.Slot))
	return s.ledger.Env.Slot
}

// SlotToTime maps a slot to wall-clock time using the configured slot length
func (s *State) SlotToTime(slot uint64) time.Time {
	return s.config.SlotConfig.SlotToTime(slot)
}

// TimeToSlot maps a wall-clock time to the slot containing it
func (s *State) TimeToSlot(t time.Time) uint64 {
	return s.config.SlotConfig.TimeToSlot(t)
}

// CurrentEpoch returns the epoch containing the current slot
func (s *State) CurrentEpoch() uint64 {
	return s.config.SlotConfig.EpochOfSlot(s.CurrentSlot())
}

// Utxos returns a read-only snapshot of the current UTxO set
func (s *State) Utxos() []ledger.Utxo {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	ret := make([]ledger.Utxo, 0, len(s.ledger.Mempool.Utxos))
	for txIn, txOut := range s.ledger.Mempool.Utxos {
		ret = append(ret, ledger.Utxo{Id: txIn, Output: txOut})
	}
	return ret
}

// UtxoById looks up a single UTxO entry by output reference
func (s *State) UtxoById(id ledger.TxIn) (ledger.Utxo, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.ledger.Mempool.UtxoById(id)
}

// TxOutRefsAt returns the output references locked to the given address. The
// scan is linear over the UTxO set; the emulator's UTxO count is bounded by
// test-scenario scale, so no index is kept.
func (s *State) TxOutRefsAt(address ledger.Address) []ledger.TxIn {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	target := address.Bytes()
	ret := []ledger.TxIn{}
	for txIn, txOut := range s.ledger.Mempool.Utxos {
		if bytes.Equal(txOut.Address().Bytes(), target) {
			ret = append(ret, txIn)
		}
	}
	sortTxIns(ret)
	return ret
}

// TxOutRefsAtCredential returns the output references whose address has the
// given payment credential. Addresses whose payment credential cannot be
// decoded (legacy formats) never match.
func (s *State) TxOutRefsAtCredential(cred ledger.Credential) []ledger.TxIn {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	ret := []ledger.TxIn{}
	for txIn, txOut := range s.ledger.Mempool.Utxos {
		outCred := txOut.Address().PaymentCredential()
		if outCred == nil {
			continue
		}
		if outCred.CredType == cred.CredType &&
			outCred.Credential == cred.Credential {
			ret = append(ret, txIn)
		}
	}
	sortTxIns(ret)
	return ret
}

// sortTxIns orders output references by tx id, then output index, for stable
// query results over map iteration
func sortTxIns(txIns []ledger.TxIn) {
	slices.SortFunc(txIns, func(a, b ledger.TxIn) int {
		if cmp := bytes.Compare(a.TxId.Bytes(), b.TxId.Bytes()); cmp != 0 {
			return cmp
		}
		return int(a.OutputIndex) - int(b.OutputIndex)
	})
}

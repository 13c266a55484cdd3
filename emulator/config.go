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
	"time"

	"github.com/blinklabs-io/ledgersim/ledger"
)

// SlotConfig maps between absolute slots and wall-clock time
type SlotConfig struct {
	// ZeroTime is the wall-clock time of slot zero
	ZeroTime time.Time `json:"zeroTime"`
	// SlotLength is the duration of a single slot
	SlotLength time.Duration `json:"slotLength"`
	// EpochLength is the number of slots per epoch
	EpochLength uint64 `json:"epochLength"`
}

// SlotToTime returns the wall-clock time at the start of the given slot
func (c SlotConfig) SlotToTime(slot uint64) time.Time {
	return c.ZeroTime.Add(time.Duration(slot) * c.SlotLength) //nolint:gosec
}

// TimeToSlot returns the slot containing the given wall-clock time. Times
// before slot zero map to slot zero.
func (c SlotConfig) TimeToSlot(t time.Time) uint64 {
	if c.SlotLength <= 0 || !t.After(c.ZeroTime) {
		return 0
	}
	return uint64(t.Sub(c.ZeroTime) / c.SlotLength)
}

// EpochOfSlot returns the epoch number containing the given slot
func (c SlotConfig) EpochOfSlot(slot uint64) uint64 {
	if c.EpochLength == 0 {
		return 0
	}
	return slot / c.EpochLength
}

// Config supplies the protocol parameters, slot/time mapping, and network id
// for an emulator instance. It is read-only input to globals derivation and
// genesis bootstrap.
type Config struct {
	ProtocolParams ledger.ProtocolParameters `json:"protocolParams"`
	SlotConfig     SlotConfig                `json:"slotConfig"`
	NetworkId      uint8                     `json:"networkId"`
}

// DefaultConfig returns a testnet configuration with mainnet-like protocol
// parameters and one-second slots starting at the Unix epoch
func DefaultConfig() Config {
	return Config{
		ProtocolParams: ledger.ProtocolParameters{
			MinFeeA:         44,
			MinFeeB:         155381,
			MaxTxSize:       16384,
			MinUtxoValue:    1_000_000,
			ProtocolVersion: "8.0",
		},
		SlotConfig: SlotConfig{
			ZeroTime:    time.Unix(0, 0).UTC(),
			SlotLength:  time.Second,
			EpochLength: 432_000,
		},
		NetworkId: ledger.AddressNetworkTestnet,
	}
}

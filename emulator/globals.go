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
	"time"

	"github.com/blinklabs-io/ledgersim/ledger"
)

// Globals holds the protocol-wide parameters the rule engine needs beyond the
// per-slot ledger environment
type Globals struct {
	ProtocolVersion ledger.ProtocolVersion
	EpochLength     uint64
	SlotLength      time.Duration
	SystemStart     time.Time
	NetworkId       uint8
}

// ConfigError indicates a fatal configuration fault. Continuing after one
// would simulate an invalid protocol; callers must abort the run rather than
// treat it as a recoverable per-transaction failure.
type ConfigError struct {
	Message string
	Cause   error
}

func (e ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration: %s (%v)", e.Message, e.Cause)
	}
	return "configuration: " + e.Message
}

func (e ConfigError) Unwrap() error {
	return e.Cause
}

// DeriveGlobals derives the protocol-wide parameters from a configuration. An
// unparsable protocol version yields a ConfigError.
func DeriveGlobals(cfg Config) (Globals, error) {
	protoVersion, err := ledger.ParseProtocolVersion(
		cfg.ProtocolParams.ProtocolVersion,
	)
	if err != nil {
		return Globals{}, ConfigError{
			Message: "unparsable protocol version",
			Cause:   err,
		}
	}
	return Globals{
		ProtocolVersion: protoVersion,
		EpochLength:     cfg.SlotConfig.EpochLength,
		SlotLength:      cfg.SlotConfig.SlotLength,
		SystemStart:     cfg.SlotConfig.ZeroTime,
		NetworkId:       cfg.NetworkId,
	}, nil
}

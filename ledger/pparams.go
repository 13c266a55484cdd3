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

package ledger

import (
	"fmt"
	"strconv"
	"strings"
)

// ProtocolParameters holds the protocol-level constants the emulated ledger
// validates against
type ProtocolParameters struct {
	MinFeeA         uint   `json:"minFeeA"`
	MinFeeB         uint   `json:"minFeeB"`
	MaxTxSize       uint   `json:"maxTxSize"`
	MinUtxoValue    uint64 `json:"minUTxOValue"`
	ProtocolVersion string `json:"protocolVersion"`
}

// ProtocolVersion is a parsed major.minor protocol version
type ProtocolVersion struct {
	Major uint
	Minor uint
}

func (v ProtocolVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// ParseProtocolVersion parses a "major.minor" protocol version string. A
// version that does not parse indicates a broken configuration; callers must
// treat the returned error as fatal rather than a per-transaction failure.
func ParseProtocolVersion(s string) (ProtocolVersion, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 2 {
		return ProtocolVersion{}, fmt.Errorf(
			"invalid protocol version: %q",
			s,
		)
	}
	major, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return ProtocolVersion{}, fmt.Errorf(
			"invalid protocol version major component: %q",
			s,
		)
	}
	minor, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return ProtocolVersion{}, fmt.Errorf(
			"invalid protocol version minor component: %q",
			s,
		)
	}
	return ProtocolVersion{
		Major: uint(major),
		Minor: uint(minor),
	}, nil
}

// CalculateMinFee computes the minimum fee for a transaction given its
// CBOR-encoded size and the protocol parameters MinFeeA and MinFeeB.
func CalculateMinFee(txSize int, minFeeA uint, minFeeB uint) uint64 {
	return uint64(minFeeA*uint(txSize) + minFeeB) //nolint:gosec
}

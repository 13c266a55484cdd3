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

// GenesisWalletCount is the number of deterministic test wallets seeded at init
const GenesisWalletCount = 10

// genesisPayload is the fixed dummy payload hashed to produce the genesis
// transaction id
var genesisPayload = []byte("ledgersim genesis")

// GenesisTxId returns the deterministic transaction id carrying the genesis
// UTxO entries
func GenesisTxId() ledger.Blake2b256 {
	return ledger.Blake2b256Hash(genesisPayload)
}

// WalletKeyPair returns the deterministic key pair for the test wallet at the
// given index (1..GenesisWalletCount). The derivation is reproducible across
// runs and not cryptographically secure.
func WalletKeyPair(index uint64) ledger.KeyPair {
	if index < 1 || index > GenesisWalletCount {
		panic(fmt.Sprintf("wallet index out of range: %d", index))
	}
	return ledger.NewDeterministicKeyPair(index)
}

// WalletAddress returns the enterprise address of the test wallet at the
// given index for the provided network
func WalletAddress(networkId uint8, index uint64) ledger.Address {
	keyPair := WalletKeyPair(index)
	addr, err := ledger.NewEnterpriseAddress(
		networkId,
		ledger.NewKeyCredential(keyPair.KeyHash()),
	)
	if err != nil {
		panic(fmt.Sprintf("unexpected error building wallet address: %s", err))
	}
	return addr
}

// genesisUtxos builds the initial UTxO set: exactly GenesisWalletCount
// entries at output indices 1..GenesisWalletCount of the genesis transaction,
// each locked to the deterministic key for its index and credited with the
// provided funds
func genesisUtxos(networkId uint8, funds uint64) map[ledger.TxIn]ledger.TxOut {
	txId := GenesisTxId()
	ret := make(map[ledger.TxIn]ledger.TxOut, GenesisWalletCount)
	for i := uint64(1); i <= GenesisWalletCount; i++ {
		txIn := ledger.TxIn{
			TxId:        txId,
			OutputIndex: uint32(i), //nolint:gosec
		}
		ret[txIn] = ledger.NewTxOut(WalletAddress(networkId, i), funds)
	}
	return ret
}

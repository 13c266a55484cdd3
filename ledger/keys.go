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
	"crypto/ed25519"
	"fmt"

	"github.com/blinklabs-io/ledgersim/cbor"
)

// KeyPair is an ed25519 signing/verification key pair
type KeyPair struct {
	VerificationKey ed25519.PublicKey
	SigningKey      ed25519.PrivateKey
}

// NewKeyPairFromSeed creates a KeyPair from a 32-byte seed
func NewKeyPairFromSeed(seed []byte) KeyPair {
	if len(seed) != ed25519.SeedSize {
		panic(fmt.Sprintf("invalid key seed length: %d", len(seed)))
	}
	signingKey := ed25519.NewKeyFromSeed(seed)
	return KeyPair{
		VerificationKey: signingKey.Public().(ed25519.PublicKey),
		SigningKey:      signingKey,
	}
}

// NewDeterministicKeyPair derives a KeyPair from a small integer. The seed is
// the Blake2b-256 hash of the integer's CBOR encoding, so the same index
// always produces byte-identical keys. Not suitable for anything beyond
// reproducible test fixtures.
func NewDeterministicKeyPair(index uint64) KeyPair {
	indexCbor, err := cbor.Encode(index)
	if err != nil {
		panic(fmt.Sprintf("unexpected error encoding key index: %s", err))
	}
	seed := Blake2b256Hash(indexCbor)
	return NewKeyPairFromSeed(seed.Bytes())
}

// KeyHash returns the Blake2b-224 hash of the verification key
func (k KeyPair) KeyHash() Blake2b224 {
	return Blake2b224Hash(k.VerificationKey)
}

// SignTx produces a vkey witness over the provided transaction id
func (k KeyPair) SignTx(txId Blake2b256) VkeyWitness {
	return VkeyWitness{
		Vkey:      []byte(k.VerificationKey),
		Signature: ed25519.Sign(k.SigningKey, txId.Bytes()),
	}
}

type VkeyWitness struct {
	cbor.StructAsArray
	Vkey      []byte
	Signature []byte
}

// KeyHash returns the Blake2b-224 hash of the witness verification key
func (w VkeyWitness) KeyHash() Blake2b224 {
	return Blake2b224Hash(w.Vkey)
}

// Verify checks the witness signature over the provided transaction id
func (w VkeyWitness) Verify(txId Blake2b256) bool {
	if len(w.Vkey) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(
		ed25519.PublicKey(w.Vkey),
		txId.Bytes(),
		w.Signature,
	)
}

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
	"bytes"
	"errors"
	"fmt"

	"github.com/blinklabs-io/ledgersim/cbor"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"golang.org/x/crypto/blake2b"
)

const (
	AddressHeaderTypeMask    = 0xF0
	AddressHeaderNetworkMask = 0x0F
	AddressHashSize          = 28

	AddressNetworkTestnet = 0
	AddressNetworkMainnet = 1

	AddressTypeKeyKey       = 0b0000
	AddressTypeScriptKey    = 0b0001
	AddressTypeKeyScript    = 0b0010
	AddressTypeScriptScript = 0b0011
	AddressTypeKeyNone      = 0b0110
	AddressTypeScriptNone   = 0b0111
	AddressTypeByron        = 0b1000
)

const (
	CredentialTypeAddrKeyHash = 0
	CredentialTypeScriptHash  = 1
)

// Credential is a payment or staking credential: a key hash or a script hash
type Credential struct {
	CredType   uint
	Credential Blake2b224
}

func NewKeyCredential(keyHash Blake2b224) Credential {
	return Credential{
		CredType:   CredentialTypeAddrKeyHash,
		Credential: keyHash,
	}
}

func NewScriptCredential(scriptHash Blake2b224) Credential {
	return Credential{
		CredType:   CredentialTypeScriptHash,
		Credential: scriptHash,
	}
}

func (c Credential) Hash() Blake2b224 {
	hash, err := blake2b.New(Blake2b224Size, nil)
	if err != nil {
		panic(
			fmt.Sprintf(
				"unexpected error creating empty blake2b hash: %s",
				err,
			),
		)
	}
	hash.Write(c.Credential[:])
	return Blake2b224(hash.Sum(nil))
}

func (c Credential) String() string {
	switch c.CredType {
	case CredentialTypeScriptHash:
		return "script:" + c.Credential.String()
	default:
		return "key:" + c.Credential.String()
	}
}

// Address is an enterprise or base address in the Shelley format, or an opaque
// legacy Byron address. Legacy addresses carry their raw bytes only; their
// payment credential cannot be decoded.
type Address struct {
	addressType uint8
	networkId   uint8
	paymentCred Credential
	stakingCred Credential
	byronData   []byte
}

// NewAddressFromBytes returns an Address based on the raw bytes provided
func NewAddressFromBytes(addrBytes []byte) (Address, error) {
	var ret Address
	if err := ret.populateFromBytes(addrBytes); err != nil {
		return Address{}, err
	}
	return ret, nil
}

// NewEnterpriseAddress returns a payment-only address for the provided credential
func NewEnterpriseAddress(networkId uint8, payment Credential) (Address, error) {
	if networkId != AddressNetworkTestnet &&
		networkId != AddressNetworkMainnet {
		return Address{}, errors.New("invalid network ID")
	}
	addrType := uint8(AddressTypeKeyNone)
	if payment.CredType == CredentialTypeScriptHash {
		addrType = AddressTypeScriptNone
	}
	return Address{
		addressType: addrType,
		networkId:   networkId,
		paymentCred: payment,
	}, nil
}

// NewBaseAddress returns an address with both payment and staking credentials
func NewBaseAddress(
	networkId uint8,
	payment Credential,
	staking Credential,
) (Address, error) {
	if networkId != AddressNetworkTestnet &&
		networkId != AddressNetworkMainnet {
		return Address{}, errors.New("invalid network ID")
	}
	var addrType uint8
	switch {
	case payment.CredType == CredentialTypeScriptHash &&
		staking.CredType == CredentialTypeScriptHash:
		addrType = AddressTypeScriptScript
	case payment.CredType == CredentialTypeScriptHash:
		addrType = AddressTypeScriptKey
	case staking.CredType == CredentialTypeScriptHash:
		addrType = AddressTypeKeyScript
	default:
		addrType = AddressTypeKeyKey
	}
	return Address{
		addressType: addrType,
		networkId:   networkId,
		paymentCred: payment,
		stakingCred: staking,
	}, nil
}

// NewByronAddress returns an opaque legacy address wrapping the provided bytes
func NewByronAddress(rawBytes []byte) Address {
	tmpData := make([]byte, len(rawBytes))
	copy(tmpData, rawBytes)
	return Address{
		addressType: AddressTypeByron,
		byronData:   tmpData,
	}
}

func (a *Address) populateFromBytes(data []byte) error {
	if len(data) == 0 {
		return errors.New("empty address data")
	}
	header := data[0]
	addrType := (header & AddressHeaderTypeMask) >> 4
	if addrType == AddressTypeByron {
		a.addressType = AddressTypeByron
		a.byronData = make([]byte, len(data))
		copy(a.byronData, data)
		return nil
	}
	payload := data[1:]
	switch addrType {
	case AddressTypeKeyKey, AddressTypeScriptKey,
		AddressTypeKeyScript, AddressTypeScriptScript:
		if len(payload) != 2*AddressHashSize {
			return fmt.Errorf("invalid base address length: %d", len(data))
		}
	case AddressTypeKeyNone, AddressTypeScriptNone:
		if len(payload) != AddressHashSize {
			return fmt.Errorf(
				"invalid enterprise address length: %d",
				len(data),
			)
		}
	default:
		return fmt.Errorf("unsupported address type: %d", addrType)
	}
	a.addressType = addrType
	a.networkId = header & AddressHeaderNetworkMask
	a.paymentCred = Credential{
		CredType:   uint(addrType & 0x01),
		Credential: NewBlake2b224(payload[:AddressHashSize]),
	}
	if len(payload) == 2*AddressHashSize {
		a.stakingCred = Credential{
			CredType:   uint((addrType & 0x02) >> 1),
			Credential: NewBlake2b224(payload[AddressHashSize:]),
		}
	}
	return nil
}

func (a Address) NetworkId() uint {
	return uint(a.networkId)
}

func (a Address) Type() uint8 {
	return a.addressType
}

// PaymentCredential returns the payment credential for the address. It returns
// nil for legacy addresses, whose credential cannot be decoded
func (a Address) PaymentCredential() *Credential {
	if a.addressType == AddressTypeByron {
		return nil
	}
	ret := a.paymentCred
	return &ret
}

// PaymentKeyHash returns the Blake2b224 hash of the payment key
func (a Address) PaymentKeyHash() Blake2b224 {
	if a.addressType == AddressTypeByron {
		// Return empty hash
		return Blake2b224([AddressHashSize]byte{})
	}
	return a.paymentCred.Credential
}

// StakingCredential returns the staking credential for the address, if any
func (a Address) StakingCredential() *Credential {
	switch a.addressType {
	case AddressTypeKeyKey, AddressTypeScriptKey,
		AddressTypeKeyScript, AddressTypeScriptScript:
		ret := a.stakingCred
		return &ret
	default:
		return nil
	}
}

func (a Address) generateHRP() string {
	ret := "addr"
	// Add test_ suffix if not mainnet
	if a.networkId != AddressNetworkMainnet {
		ret += "_test"
	}
	return ret
}

// Bytes returns the underlying bytes for the address
func (a Address) Bytes() []byte {
	if a.addressType == AddressTypeByron {
		ret := make([]byte, len(a.byronData))
		copy(ret, a.byronData)
		return ret
	}
	buf := bytes.NewBuffer(nil)
	header := (a.addressType << 4) | (a.networkId & AddressHeaderNetworkMask)
	buf.WriteByte(header)
	buf.Write(a.paymentCred.Credential.Bytes())
	if a.StakingCredential() != nil {
		buf.Write(a.stakingCred.Credential.Bytes())
	}
	return buf.Bytes()
}

// String returns the bech32-encoded version of the address, or base58 for
// legacy addresses
func (a Address) String() string {
	data := a.Bytes()
	if a.addressType == AddressTypeByron {
		return base58.Encode(data)
	}
	// Convert data to base32 and encode as bech32
	convData, err := bech32.ConvertBits(data, 8, 5, true)
	if err != nil {
		panic(
			fmt.Sprintf("unexpected error converting data to base32: %s", err),
		)
	}
	encoded, err := bech32.Encode(a.generateHRP(), convData)
	if err != nil {
		panic(fmt.Sprintf("unexpected error encoding data as bech32: %s", err))
	}
	return encoded
}

func (a Address) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

func (a *Address) UnmarshalCBOR(data []byte) error {
	// Decode bytes from CBOR
	tmpData := []byte{}
	if _, err := cbor.Decode(data, &tmpData); err != nil {
		return err
	}
	return a.populateFromBytes(tmpData)
}

func (a Address) MarshalCBOR() ([]byte, error) {
	return cbor.Encode(a.Bytes())
}

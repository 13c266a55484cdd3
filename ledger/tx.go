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
	"encoding/hex"
	"fmt"
	"math"

	"github.com/blinklabs-io/ledgersim/cbor"
	utxorpc "github.com/utxorpc/go-codegen/utxorpc/v1alpha/cardano"
)

// TxIn is a reference to a transaction output. It is comparable and usable
// as a map key.
type TxIn struct {
	cbor.StructAsArray
	TxId        Blake2b256
	OutputIndex uint32
}

func NewTxIn(txIdHex string, idx int) TxIn {
	tmpHash, err := hex.DecodeString(txIdHex)
	if err != nil {
		panic(fmt.Sprintf("failed to decode transaction hash: %s", err))
	}
	if idx < 0 || idx > math.MaxUint32 {
		panic("index out of range")
	}
	return TxIn{
		TxId:        Blake2b256(tmpHash),
		OutputIndex: uint32(idx),
	}
}

func (i TxIn) Id() Blake2b256 {
	return i.TxId
}

func (i TxIn) Index() uint32 {
	return i.OutputIndex
}

func (i TxIn) Utxorpc() *utxorpc.TxInput {
	return &utxorpc.TxInput{
		TxHash:      i.TxId.Bytes(),
		OutputIndex: i.OutputIndex,
	}
}

func (i TxIn) String() string {
	return fmt.Sprintf("%s#%d", i.TxId, i.OutputIndex)
}

func (i TxIn) MarshalJSON() ([]byte, error) {
	return []byte("\"" + i.String() + "\""), nil
}

// TxOut is a transaction output: an address, a lovelace amount, and an
// optional datum hash for script-locked outputs
type TxOut struct {
	cbor.StructAsArray
	OutputAddress   Address     `json:"address"`
	OutputAmount    uint64      `json:"amount"`
	OutputDatumHash *Blake2b256 `json:"datumHash,omitempty"`
}

func NewTxOut(address Address, amount uint64) TxOut {
	return TxOut{
		OutputAddress: address,
		OutputAmount:  amount,
	}
}

func (o TxOut) Address() Address {
	return o.OutputAddress
}

func (o TxOut) Amount() uint64 {
	return o.OutputAmount
}

func (o TxOut) DatumHash() *Blake2b256 {
	return o.OutputDatumHash
}

func (o TxOut) Utxorpc() *utxorpc.TxOutput {
	ret := &utxorpc.TxOutput{
		Address: o.OutputAddress.Bytes(),
		Coin:    o.OutputAmount,
	}
	if o.OutputDatumHash != nil {
		ret.Datum = &utxorpc.Datum{
			Hash: o.OutputDatumHash.Bytes(),
		}
	}
	return ret
}

// Utxo is a single entry in the UTxO set
type Utxo struct {
	Id     TxIn
	Output TxOut
}

func (u Utxo) Utxorpc() *utxorpc.TxOutput {
	return u.Output.Utxorpc()
}

// TransactionBody carries the parts of a transaction covered by the
// transaction id
type TransactionBody struct {
	cbor.DecodeStoreCbor
	TxInputs      []TxIn  `cbor:"0,keyasint,omitempty"`
	TxOutputs     []TxOut `cbor:"1,keyasint,omitempty"`
	TxFee         uint64  `cbor:"2,keyasint,omitempty"`
	Ttl           uint64  `cbor:"3,keyasint,omitempty"`
	ValidityStart uint64  `cbor:"8,keyasint,omitempty"`
}

func (b *TransactionBody) UnmarshalCBOR(cborData []byte) error {
	return b.UnmarshalCbor(cborData, b)
}

func (b *TransactionBody) MarshalCBOR() ([]byte, error) {
	if b.Cbor() != nil {
		return b.Cbor(), nil
	}
	return cbor.EncodeGeneric(b)
}

// Hash returns the transaction id: the Blake2b-256 hash over the serialized body
func (b *TransactionBody) Hash() Blake2b256 {
	cborData := b.Cbor()
	if cborData == nil {
		tmpCbor, err := cbor.EncodeGeneric(b)
		if err != nil {
			panic(
				fmt.Sprintf(
					"unexpected error encoding transaction body: %s",
					err,
				),
			)
		}
		cborData = tmpCbor
	}
	return Blake2b256Hash(cborData)
}

func (b *TransactionBody) Inputs() []TxIn {
	return b.TxInputs
}

func (b *TransactionBody) Outputs() []TxOut {
	return b.TxOutputs
}

func (b *TransactionBody) Fee() uint64 {
	return b.TxFee
}

func (b *TransactionBody) TTL() uint64 {
	return b.Ttl
}

func (b *TransactionBody) ValidityIntervalStart() uint64 {
	return b.ValidityStart
}

// WitnessSet carries the transaction witnesses: vkey signatures and any
// datums supplied for script-locked outputs being spent
type WitnessSet struct {
	cbor.DecodeStoreCbor
	VkeyWitnesses []VkeyWitness `cbor:"0,keyasint,omitempty"`
	WsPlutusData  []Datum       `cbor:"4,keyasint,omitempty"`
}

func (w *WitnessSet) UnmarshalCBOR(cborData []byte) error {
	return w.UnmarshalCbor(cborData, w)
}

func (w WitnessSet) Vkey() []VkeyWitness {
	return w.VkeyWitnesses
}

func (w WitnessSet) PlutusData() []Datum {
	return w.WsPlutusData
}

// Transaction is a complete transaction: body plus witness set
type Transaction struct {
	cbor.StructAsArray
	cbor.DecodeStoreCbor
	Body       TransactionBody
	WitnessSet WitnessSet
}

func (t *Transaction) UnmarshalCBOR(cborData []byte) error {
	return t.UnmarshalCbor(cborData, t)
}

// Hash returns the transaction id
func (t *Transaction) Hash() Blake2b256 {
	return t.Body.Hash()
}

func (t *Transaction) Inputs() []TxIn {
	return t.Body.Inputs()
}

func (t *Transaction) Outputs() []TxOut {
	return t.Body.Outputs()
}

func (t *Transaction) Fee() uint64 {
	return t.Body.Fee()
}

func (t *Transaction) Witnesses() WitnessSet {
	return t.WitnessSet
}

// Consumed returns the inputs spent by the transaction
func (t *Transaction) Consumed() []TxIn {
	return t.Body.Inputs()
}

// Produced returns the UTxO entries created by the transaction
func (t *Transaction) Produced() []Utxo {
	txId := t.Hash()
	ret := make([]Utxo, 0, len(t.Body.Outputs()))
	for idx, output := range t.Body.Outputs() {
		ret = append(
			ret,
			Utxo{
				Id: TxIn{
					TxId:        txId,
					OutputIndex: uint32(idx), //nolint:gosec
				},
				Output: output,
			},
		)
	}
	return ret
}

// Size returns the size of the serialized transaction in bytes
func (t *Transaction) Size() (int, error) {
	cborData := t.Cbor()
	if cborData == nil {
		tmpCbor, err := cbor.Encode(t)
		if err != nil {
			return 0, err
		}
		cborData = tmpCbor
	}
	return len(cborData), nil
}

func (t *Transaction) MarshalCBOR() ([]byte, error) {
	if t.Cbor() != nil {
		return t.Cbor(), nil
	}
	return cbor.EncodeGeneric(t)
}

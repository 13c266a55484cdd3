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
)

// ValidationError represents a structured validation error with additional context
type ValidationError struct {
	Type    ValidationErrorType
	Message string
	Details map[string]any
	Cause   error
}

type ValidationErrorType string

const (
	ValidationErrorTypeTransaction   ValidationErrorType = "transaction"
	ValidationErrorTypeConfiguration ValidationErrorType = "configuration"
)

func (e ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e ValidationError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new structured validation error
func NewValidationError(
	errType ValidationErrorType,
	message string,
	details map[string]any,
	cause error,
) *ValidationError {
	return &ValidationError{
		Type:    errType,
		Message: message,
		Details: details,
		Cause:   cause,
	}
}

// BadInputError indicates a transaction input that does not exist in the UTxO set
type BadInputError struct {
	Input TxIn
}

func (e BadInputError) Error() string {
	return fmt.Sprintf("bad input: %s", e.Input.String())
}

// ValueNotConservedError indicates a mismatch between consumed and produced value
type ValueNotConservedError struct {
	Consumed uint64
	Produced uint64
}

func (e ValueNotConservedError) Error() string {
	return fmt.Sprintf(
		"value not conserved: consumed %d, produced %d",
		e.Consumed,
		e.Produced,
	)
}

// FeeTooSmallError indicates a fee below the protocol minimum
type FeeTooSmallError struct {
	Provided uint64
	Minimum  uint64
}

func (e FeeTooSmallError) Error() string {
	return fmt.Sprintf(
		"fee too small: provided %d, minimum %d",
		e.Provided,
		e.Minimum,
	)
}

// OutsideValidityIntervalError indicates a transaction outside its validity window
type OutsideValidityIntervalError struct {
	Slot          uint64
	ValidityStart uint64
	TTL           uint64
}

func (e OutsideValidityIntervalError) Error() string {
	return fmt.Sprintf(
		"outside validity interval: slot %d not in [%d, %d]",
		e.Slot,
		e.ValidityStart,
		e.TTL,
	)
}

// MaxTxSizeError indicates a transaction above the protocol size limit
type MaxTxSizeError struct {
	Size    int
	Maximum uint
}

func (e MaxTxSizeError) Error() string {
	return fmt.Sprintf(
		"transaction size %d exceeds maximum %d",
		e.Size,
		e.Maximum,
	)
}

// MissingVkeyWitnessError indicates a spent key-locked output with no matching witness
type MissingVkeyWitnessError struct {
	KeyHash Blake2b224
}

func (e MissingVkeyWitnessError) Error() string {
	return fmt.Sprintf("missing vkey witness for key hash %s", e.KeyHash)
}

// InvalidSignatureError indicates a vkey witness whose signature does not verify
type InvalidSignatureError struct {
	KeyHash Blake2b224
}

func (e InvalidSignatureError) Error() string {
	return fmt.Sprintf("invalid signature for key hash %s", e.KeyHash)
}

// InputSetEmptyError indicates a transaction with no inputs
type InputSetEmptyError struct{}

func (InputSetEmptyError) Error() string {
	return "transaction input set is empty"
}

// OutputTooSmallError indicates an output below the minimum UTxO value
type OutputTooSmallError struct {
	Output TxOut
}

func (e OutputTooSmallError) Error() string {
	return fmt.Sprintf(
		"output too small: %d lovelace at %s",
		e.Output.Amount(),
		e.Output.Address().String(),
	)
}

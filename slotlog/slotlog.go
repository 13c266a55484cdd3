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

// Package slotlog provides an append-only, slot-timestamped event sequence
// with an order-preserving merge. It backs the emulator's info and failure
// trails.
package slotlog

// Entry is a single slot-timestamped value
type Entry[T any] struct {
	Slot  uint64
	Value T
}

// Log is an ordered sequence of slot-timestamped values. The sequence is
// non-decreasing in slot as long as callers append with non-decreasing slots,
// which holds in practice since entries are stamped with the current ledger
// slot. Merge preserves the ordering.
type Log[T any] struct {
	entries []Entry[T]
}

// New creates an empty Log
func New[T any]() Log[T] {
	return Log[T]{}
}

// Append adds a value at the logical tail of the log. Callers are expected to
// supply non-decreasing slots.
func (l Log[T]) Append(slot uint64, value T) Log[T] {
	newEntries := make([]Entry[T], 0, len(l.entries)+1)
	newEntries = append(newEntries, l.entries...)
	newEntries = append(newEntries, Entry[T]{Slot: slot, Value: value})
	return Log[T]{entries: newEntries}
}

// Merge interleaves two logs keyed by slot, merge-sort style. It is stable
// and left-biased: entries from the receiver precede entries from the
// argument when slots are equal. Duplicate entries from both inputs are
// retained. Merge is associative but not commutative.
func (l Log[T]) Merge(other Log[T]) Log[T] {
	merged := make([]Entry[T], 0, len(l.entries)+len(other.entries))
	var i, j int
	for i < len(l.entries) && j < len(other.entries) {
		if other.entries[j].Slot < l.entries[i].Slot {
			merged = append(merged, other.entries[j])
			j++
		} else {
			merged = append(merged, l.entries[i])
			i++
		}
	}
	merged = append(merged, l.entries[i:]...)
	merged = append(merged, other.entries[j:]...)
	return Log[T]{entries: merged}
}

// Len returns the number of entries in the log
func (l Log[T]) Len() int {
	return len(l.entries)
}

// Entries returns a copy of the log's entries in order
func (l Log[T]) Entries() []Entry[T] {
	ret := make([]Entry[T], len(l.entries))
	copy(ret, l.entries)
	return ret
}

// Group is a run of values sharing a slot
type Group[T any] struct {
	Slot   uint64
	Values []T
}

// GroupBySlot groups consecutive equal-slot runs into (slot, values) pairs.
// The log must be slot-sorted, which Append and Merge guarantee.
func (l Log[T]) GroupBySlot() []Group[T] {
	ret := []Group[T]{}
	for _, entry := range l.entries {
		if len(ret) > 0 && ret[len(ret)-1].Slot == entry.Slot {
			lastIdx := len(ret) - 1
			ret[lastIdx].Values = append(ret[lastIdx].Values, entry.Value)
			continue
		}
		ret = append(
			ret,
			Group[T]{Slot: entry.Slot, Values: []T{entry.Value}},
		)
	}
	return ret
}

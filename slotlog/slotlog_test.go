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

package slotlog_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/blinklabs-io/ledgersim/slotlog"
)

func logFromPairs(pairs [][2]any) slotlog.Log[string] {
	l := slotlog.New[string]()
	for _, pair := range pairs {
		l = l.Append(uint64(pair[0].(int)), pair[1].(string))
	}
	return l
}

func TestAppendRoundTrip(t *testing.T) {
	l := slotlog.New[string]().Append(5, "hello")
	entries := l.Entries()
	expected := []slotlog.Entry[string]{{Slot: 5, Value: "hello"}}
	if !reflect.DeepEqual(entries, expected) {
		t.Fatalf(
			"did not get expected entries: got %v, wanted %v",
			entries,
			expected,
		)
	}
}

func TestAppendDoesNotMutateOriginal(t *testing.T) {
	l1 := slotlog.New[string]().Append(1, "a")
	l2 := l1.Append(2, "b")
	if l1.Len() != 1 {
		t.Fatalf("original log mutated: len %d, wanted 1", l1.Len())
	}
	if l2.Len() != 2 {
		t.Fatalf("appended log has len %d, wanted 2", l2.Len())
	}
}

func TestMergeOrdering(t *testing.T) {
	a := logFromPairs([][2]any{{1, "a1"}, {3, "a3"}, {3, "a3b"}})
	b := logFromPairs([][2]any{{2, "b2"}, {3, "b3"}})
	merged := a.Merge(b)
	expected := []slotlog.Entry[string]{
		{Slot: 1, Value: "a1"},
		{Slot: 2, Value: "b2"},
		{Slot: 3, Value: "a3"},
		{Slot: 3, Value: "a3b"},
		{Slot: 3, Value: "b3"},
	}
	if !reflect.DeepEqual(merged.Entries(), expected) {
		t.Fatalf(
			"did not get expected merge result: got %v, wanted %v",
			merged.Entries(),
			expected,
		)
	}
}

func TestMergeLeftBiasOnTies(t *testing.T) {
	a := logFromPairs([][2]any{{7, "left"}})
	b := logFromPairs([][2]any{{7, "right"}})
	merged := a.Merge(b)
	entries := merged.Entries()
	if entries[0].Value != "left" || entries[1].Value != "right" {
		t.Fatalf("merge is not left-biased on ties: got %v", entries)
	}
	// Duplicates from both inputs are retained
	dup := a.Merge(a)
	if dup.Len() != 2 {
		t.Fatalf("duplicate entries not retained: len %d, wanted 2", dup.Len())
	}
}

func TestMergeAssociativity(t *testing.T) {
	a := logFromPairs([][2]any{{1, "a"}, {4, "a4"}})
	b := logFromPairs([][2]any{{2, "b"}, {4, "b4"}})
	c := logFromPairs([][2]any{{3, "c"}, {4, "c4"}})
	left := a.Merge(b).Merge(c)
	right := a.Merge(b.Merge(c))
	if !reflect.DeepEqual(left.Entries(), right.Entries()) {
		t.Fatalf(
			"merge is not associative: got %v and %v",
			left.Entries(),
			right.Entries(),
		)
	}
	// Result is non-decreasing in slot
	entries := left.Entries()
	for i := 1; i < len(entries); i++ {
		if entries[i].Slot < entries[i-1].Slot {
			t.Fatalf("merged log not sorted by slot: %v", entries)
		}
	}
}

func TestGroupBySlotConsistency(t *testing.T) {
	l := logFromPairs(
		[][2]any{{1, "a"}, {1, "b"}, {2, "c"}, {5, "d"}, {5, "e"}, {5, "f"}},
	)
	groups := l.GroupBySlot()
	expectedSlots := []uint64{1, 2, 5}
	if len(groups) != len(expectedSlots) {
		t.Fatalf("unexpected group count: got %d, wanted 3", len(groups))
	}
	// Flattening the groups reproduces the original entries exactly
	flattened := []slotlog.Entry[string]{}
	for i, group := range groups {
		if group.Slot != expectedSlots[i] {
			t.Fatalf(
				"unexpected group slot: got %d, wanted %d",
				group.Slot,
				expectedSlots[i],
			)
		}
		for _, value := range group.Values {
			flattened = append(
				flattened,
				slotlog.Entry[string]{Slot: group.Slot, Value: value},
			)
		}
	}
	if !reflect.DeepEqual(flattened, l.Entries()) {
		t.Fatalf(
			"flattened groups do not reproduce log: got %v, wanted %v",
			flattened,
			l.Entries(),
		)
	}
}

func TestGroupBySlotEmpty(t *testing.T) {
	groups := slotlog.New[string]().GroupBySlot()
	if len(groups) != 0 {
		t.Fatalf("expected no groups for empty log, got %v", groups)
	}
}

func TestRender(t *testing.T) {
	l := slotlog.New[slotlog.LogEntry]().
		Append(1, slotlog.LogEntry{Level: slotlog.LevelInfo, Message: "first"}).
		Append(1, slotlog.LogEntry{Level: slotlog.LevelWarning, Message: "second"}).
		Append(9, slotlog.LogEntry{Level: slotlog.LevelError, Message: "third"})
	rendered := slotlog.Render(l)
	expected := "Slot 1:\n" +
		"  [info] first\n" +
		"  [warning] second\n" +
		"Slot 9:\n" +
		"  [error] third\n"
	if rendered != expected {
		t.Fatalf(
			"did not get expected rendering: got %q, wanted %q",
			rendered,
			expected,
		)
	}
}

func TestRenderWrapsLongLines(t *testing.T) {
	longMessage := strings.Repeat("word ", 40)
	l := slotlog.New[slotlog.LogEntry]().
		Append(2, slotlog.LogEntry{Level: slotlog.LevelInfo, Message: longMessage})
	rendered := slotlog.Render(l)
	for _, line := range strings.Split(rendered, "\n") {
		if len(line) > 100 {
			t.Fatalf("line exceeds wrap width: %q", line)
		}
	}
}

func TestRenderPreservesIndentation(t *testing.T) {
	l := slotlog.New[slotlog.LogEntry]().
		Append(3, slotlog.LogEntry{
			Level:   slotlog.LevelInfo,
			Message: "parent\n  child line",
		})
	rendered := slotlog.Render(l)
	if !strings.Contains(rendered, "\n    child line") {
		t.Fatalf("indentation not preserved in rendering: %q", rendered)
	}
}

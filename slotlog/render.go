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

package slotlog

import (
	"fmt"
	"strings"
)

const renderWrapWidth = 100

// Render formats a log as one block per slot in increasing slot order. Each
// block starts with a "Slot N:" header followed by the slot's entries in log
// order. Long lines are word-wrapped; the leading indentation of each line of
// a multi-line message is preserved on its wrapped continuations.
func Render[T fmt.Stringer](l Log[T]) string {
	var sb strings.Builder
	for _, group := range l.GroupBySlot() {
		fmt.Fprintf(&sb, "Slot %d:\n", group.Slot)
		for _, value := range group.Values {
			for _, line := range strings.Split(value.String(), "\n") {
				sb.WriteString(wrapLine(line, renderWrapWidth))
				sb.WriteByte('\n')
			}
		}
	}
	return sb.String()
}

// wrapLine wraps a single line at the given width. Continuation lines reuse
// the original line's leading indentation plus the standard two-space entry
// indent.
func wrapLine(line string, width int) string {
	trimmed := strings.TrimLeft(line, " ")
	indent := "  " + line[:len(line)-len(trimmed)]
	words := strings.Fields(trimmed)
	if len(words) == 0 {
		return indent
	}
	var sb strings.Builder
	lineLen := 0
	for i, word := range words {
		if i == 0 {
			sb.WriteString(indent)
			sb.WriteString(word)
			lineLen = len(indent) + len(word)
			continue
		}
		if lineLen+1+len(word) > width {
			sb.WriteByte('\n')
			sb.WriteString(indent)
			sb.WriteString(word)
			lineLen = len(indent) + len(word)
			continue
		}
		sb.WriteByte(' ')
		sb.WriteString(word)
		lineLen += 1 + len(word)
	}
	return sb.String()
}

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
	"errors"
	"strings"

	"github.com/blinklabs-io/ledgersim/slotlog"
)

// logEntry stamps a message with the current slot and appends it to the info log
func (s *State) logEntry(level slotlog.Level, message string) {
	s.infoLog = s.infoLog.Append(
		s.ledger.Env.Slot,
		slotlog.LogEntry{Level: level, Message: message},
	)
}

// LogDebug records a debug-level entry in the info log at the current slot
func (s *State) LogDebug(message string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.logEntry(slotlog.LevelDebug, message)
}

// LogInfo records an info-level entry in the info log at the current slot
func (s *State) LogInfo(message string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.logEntry(slotlog.LevelInfo, message)
}

// LogWarning records a warning-level entry in the info log at the current slot
func (s *State) LogWarning(message string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.logEntry(slotlog.LevelWarning, message)
}

// LogError records an error-level entry in the info log at the current slot
func (s *State) LogError(message string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.logEntry(slotlog.LevelError, message)
}

// Fail records a free-form failure into the fail log at the current slot.
// Execution continues; the fail log is inspected separately.
func (s *State) Fail(message string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.failLog = s.failLog.Append(
		s.ledger.Env.Slot,
		slotlog.FailReason{Message: message},
	)
}

// Fails returns the raw fail log entries
func (s *State) Fails() []slotlog.Entry[slotlog.FailReason] {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.failLog.Entries()
}

// CheckErrors returns an error rendering the fail log when it is non-empty,
// and nil otherwise
func (s *State) CheckErrors() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.failLog.Len() == 0 {
		return nil
	}
	messages := make([]string, 0, s.failLog.Len())
	for _, entry := range s.failLog.Entries() {
		messages = append(messages, entry.Value.Message)
	}
	return errors.New(strings.Join(messages, "\n"))
}

// RenderLog renders the info log merged with the fail log, one block per
// slot. Fail entries render as error-level messages; entries sharing a slot
// keep info entries first.
func (s *State) RenderLog() string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	merged := s.infoLog
	for _, entry := range s.failLog.Entries() {
		failAsEntry := slotlog.New[slotlog.LogEntry]().Append(
			entry.Slot,
			slotlog.LogEntry{
				Level:   slotlog.LevelError,
				Message: entry.Value.Message,
			},
		)
		merged = merged.Merge(failAsEntry)
	}
	return slotlog.Render(merged)
}

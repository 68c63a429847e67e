// ABOUTME: In-memory mirror of pushed rows, maintained by change events
// ABOUTME: Idempotent merge so an echo after a local write changes nothing
package realtime

import (
	"encoding/json"
	"sync"
)

// Store applies change events onto a per-table row map. Consumers that
// both write through the API and listen on the websocket will see their
// own writes echoed back; Apply is idempotent so the echo is harmless.
type Store struct {
	mu     sync.RWMutex
	tables map[string]map[string]json.RawMessage
}

func NewStore() *Store {
	return &Store{tables: make(map[string]map[string]json.RawMessage)}
}

// Apply merges one event. Inserts for an id already present leave the
// existing row untouched; updates replace wholesale; deletes of absent
// ids are no-ops.
func (s *Store) Apply(event ChangeEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, ok := s.tables[event.Table]
	if !ok {
		rows = make(map[string]json.RawMessage)
		s.tables[event.Table] = rows
	}

	switch event.Op {
	case OpInsert:
		if _, exists := rows[event.ID]; !exists {
			rows[event.ID] = event.Row
		}
	case OpUpdate:
		rows[event.ID] = event.Row
	case OpDelete:
		delete(rows, event.ID)
	}
}

// Get returns the stored row for an id, or nil.
func (s *Store) Get(table, id string) json.RawMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tables[table][id]
}

// Count returns the number of rows mirrored for a table.
func (s *Store) Count(table string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tables[table])
}

// Rows returns a snapshot of every row in a table.
func (s *Store) Rows(table string) []json.RawMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]json.RawMessage, 0, len(s.tables[table]))
	for _, row := range s.tables[table] {
		rows = append(rows, row)
	}
	return rows
}

// ABOUTME: Change event envelope pushed over websocket connections
// ABOUTME: One event per row mutation, typed by table and operation
package realtime

import "encoding/json"

// Event operations.
const (
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
)

// ChangeEvent describes one row-level mutation. Row carries the full
// post-change record for inserts and updates, and just the id for
// deletes.
type ChangeEvent struct {
	Table string          `json:"table"`
	Op    string          `json:"op"`
	ID    string          `json:"id"`
	Row   json.RawMessage `json:"row,omitempty"`
}

// NewChangeEvent marshals the row into an envelope. A marshal failure
// returns a delete-shaped event carrying just the id rather than
// dropping the notification.
func NewChangeEvent(table, op, id string, row any) ChangeEvent {
	event := ChangeEvent{Table: table, Op: op, ID: id}
	if row != nil {
		if data, err := json.Marshal(row); err == nil {
			event.Row = data
		}
	}
	return event
}

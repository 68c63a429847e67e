// ABOUTME: Tests for the change event mirror
// ABOUTME: Idempotent merge, echo tolerance, delete semantics
package realtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreInsertIsIdempotent(t *testing.T) {
	store := NewStore()

	first := NewChangeEvent("leads", OpInsert, "a1", map[string]string{"company": "Acme"})
	store.Apply(first)
	assert.Equal(t, 1, store.Count("leads"))

	// The echo of a write the consumer already applied locally.
	echo := NewChangeEvent("leads", OpInsert, "a1", map[string]string{"company": "Acme (stale echo)"})
	store.Apply(echo)

	assert.Equal(t, 1, store.Count("leads"))
	assert.JSONEq(t, `{"company": "Acme"}`, string(store.Get("leads", "a1")))
}

func TestStoreUpdateReplaces(t *testing.T) {
	store := NewStore()
	store.Apply(NewChangeEvent("leads", OpInsert, "a1", map[string]string{"stage": "new"}))
	store.Apply(NewChangeEvent("leads", OpUpdate, "a1", map[string]string{"stage": "won"}))

	assert.JSONEq(t, `{"stage": "won"}`, string(store.Get("leads", "a1")))
	assert.Equal(t, 1, store.Count("leads"))
}

func TestStoreDelete(t *testing.T) {
	store := NewStore()
	store.Apply(NewChangeEvent("leads", OpInsert, "a1", map[string]string{"stage": "new"}))
	store.Apply(NewChangeEvent("leads", OpDelete, "a1", nil))

	assert.Equal(t, 0, store.Count("leads"))
	assert.Nil(t, store.Get("leads", "a1"))

	// Deleting again is a no-op, not a panic.
	store.Apply(NewChangeEvent("leads", OpDelete, "a1", nil))
	assert.Equal(t, 0, store.Count("leads"))
}

func TestStoreTablesAreIndependent(t *testing.T) {
	store := NewStore()
	store.Apply(NewChangeEvent("leads", OpInsert, "a1", map[string]string{"x": "1"}))
	store.Apply(NewChangeEvent("clients", OpInsert, "a1", map[string]string{"x": "2"}))

	assert.Equal(t, 1, store.Count("leads"))
	assert.Equal(t, 1, store.Count("clients"))
	assert.JSONEq(t, `{"x": "2"}`, string(store.Get("clients", "a1")))
}

func TestStoreBulkImportThenEchoes(t *testing.T) {
	store := NewStore()

	ids := []string{"a1", "a2", "a3"}
	for _, id := range ids {
		store.Apply(NewChangeEvent("leads", OpInsert, id, map[string]string{"id": id}))
	}
	// Every imported row echoes back over the push channel.
	for _, id := range ids {
		store.Apply(NewChangeEvent("leads", OpInsert, id, map[string]string{"id": id}))
	}

	assert.Equal(t, len(ids), store.Count("leads"))
	assert.Len(t, store.Rows("leads"), len(ids))
}

func TestChangeEventRowMarshalling(t *testing.T) {
	event := NewChangeEvent("leads", OpUpdate, "a1", map[string]int{"value": 5000})
	assert.Equal(t, "leads", event.Table)
	assert.JSONEq(t, `{"value": 5000}`, string(event.Row))

	var decoded ChangeEvent
	data, err := json.Marshal(event)
	assert.NoError(t, err)
	assert.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, event.ID, decoded.ID)
}

// ABOUTME: Rate tables for the calorie lookup service.
// ABOUTME: MemoryTable keeps insertion order and lives only in process memory.
package lookup

import "sync"

// Entry is a single key → rate pair.
type Entry struct {
	Key  string
	Rate float64
}

// Table is a mutable key → rate mapping.
type Table interface {
	// Keys returns every key currently in the table.
	Keys() ([]string, error)
	// Rate returns the rate for key; ok is false when the key is unknown.
	Rate(key string) (rate float64, ok bool, err error)
	// Upsert inserts key or overwrites its rate.
	Upsert(key string, rate float64) error
}

// MemoryTable is an in-process Table. Keys are listed in first-insertion
// order; overwriting a key keeps its position. Contents are lost on restart.
type MemoryTable struct {
	mu    sync.RWMutex
	keys  []string
	rates map[string]float64
}

var _ Table = (*MemoryTable)(nil)

// NewMemoryTable creates a table holding seed. Later duplicates in seed
// overwrite earlier ones.
func NewMemoryTable(seed []Entry) *MemoryTable {
	t := &MemoryTable{rates: make(map[string]float64, len(seed))}
	for _, e := range seed {
		_ = t.Upsert(e.Key, e.Rate)
	}
	return t
}

// Keys returns a copy of the keys in insertion order.
func (t *MemoryTable) Keys() ([]string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out, nil
}

// Rate returns the rate stored for key.
func (t *MemoryTable) Rate(key string) (float64, bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	rate, ok := t.rates[key]
	return rate, ok, nil
}

// Upsert stores rate under key.
func (t *MemoryTable) Upsert(key string, rate float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rates[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.rates[key] = rate
	return nil
}

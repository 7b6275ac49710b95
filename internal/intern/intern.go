// Package intern maps identifier strings to small stable ids.
//
// The table is process-global and append-only: names are never evicted, so an
// id obtained once stays valid for the lifetime of the process.
package intern

import (
	"fmt"
	"slices"
	"sync"

	"fortio.org/safecast"
	"golang.org/x/text/unicode/norm"
)

// Name is an interned identifier.
type Name uint32

// NoName is the id of the empty string.
const NoName Name = 0

// Table is an append-only string table.
type Table struct {
	mu    sync.RWMutex
	byID  []string        // id -> string (byID[0] = "" for NoName)
	index map[string]Name // string -> id
}

// NewTable creates an empty table holding only NoName.
func NewTable() *Table {
	return &Table{
		byID:  []string{""},
		index: map[string]Name{"": NoName},
	}
}

// Intern returns the id of s, inserting it if needed.
// Strings are NFC-normalized first so visually identical names share an id.
func (t *Table) Intern(s string) Name {
	s = norm.NFC.String(s)

	t.mu.RLock()
	id, ok := t.index[s]
	t.mu.RUnlock()
	if ok {
		return id
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if id, ok := t.index[s]; ok {
		return id
	}
	raw, err := safecast.Conv[uint32](len(t.byID))
	if err != nil {
		panic(fmt.Errorf("intern: table overflow: %w", err))
	}
	// own copy, independent of the caller's buffer
	cpy := string([]byte(s))
	id = Name(raw)
	t.byID = append(t.byID, cpy)
	t.index[cpy] = id
	return id
}

// Lookup returns the string for id.
func (t *Table) Lookup(id Name) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if int(id) >= len(t.byID) {
		return "", false
	}
	return t.byID[id], true
}

// Len returns the number of entries, NoName included.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.byID)
}

// Snapshot returns a copy of all interned strings indexed by id.
func (t *Table) Snapshot() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.byID)
}

var global = NewTable()

// Get interns s in the global table.
func Get(s string) Name {
	return global.Intern(s)
}

// String returns the text of n, or "<name#n>" for an unknown id.
func (n Name) String() string {
	if s, ok := global.Lookup(n); ok {
		return s
	}
	return fmt.Sprintf("<name#%d>", uint32(n))
}

// Global exposes the process-wide table.
func Global() *Table {
	return global
}

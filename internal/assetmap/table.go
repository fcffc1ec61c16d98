package assetmap

import (
	"github.com/google/uuid"

	"imf-reader/internal/imferr"
)

// DefaultMaxAssets bounds the number of entries a table accepts unless the
// caller sets its own limit.
const DefaultMaxAssets = 1 << 20

// AssetLocator maps one asset UUID to the absolute URI of its chunk.
// Length is the chunk size declared by the Asset Map, or 0 when absent.
type AssetLocator struct {
	UUID        uuid.UUID `json:"uuid"`
	AbsoluteURI string    `json:"uri"`
	Length      uint64    `json:"length,omitempty"`
}

// Table is an ordered collection of asset locators. It is built by a single
// writer during parsing and is read-only afterwards.
type Table struct {
	entries []AssetLocator
	index   map[uuid.UUID]int
	dups    []uuid.UUID
	limit   int
}

// NewTable returns an empty table holding at most limit entries. A limit of
// zero or less selects DefaultMaxAssets.
func NewTable(limit int) *Table {
	if limit <= 0 {
		limit = DefaultMaxAssets
	}
	return &Table{
		index: make(map[uuid.UUID]int),
		limit: limit,
	}
}

// Append adds loc to the end of the table. Once the limit is reached it
// returns an error wrapping imferr.ErrAllocation and leaves the existing
// entries untouched.
func (t *Table) Append(loc AssetLocator) error {
	limit := t.limit
	if limit <= 0 {
		limit = DefaultMaxAssets
	}
	if len(t.entries) >= limit {
		return imferr.Allocation("asset map table full at %d entries", limit)
	}
	if t.index == nil {
		t.index = make(map[uuid.UUID]int)
	}

	t.entries = append(t.entries, loc)
	if _, seen := t.index[loc.UUID]; seen {
		t.dups = append(t.dups, loc.UUID)
		return nil
	}
	t.index[loc.UUID] = len(t.entries) - 1
	return nil
}

// Len returns the number of entries, duplicates included.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Entries returns a copy of the entries in document order.
func (t *Table) Entries() []AssetLocator {
	if t == nil {
		return nil
	}
	out := make([]AssetLocator, len(t.entries))
	copy(out, t.entries)
	return out
}

// Lookup returns the URI of the first entry for id. A missing id yields an
// error wrapping imferr.ErrNotFound that names the UUID.
func (t *Table) Lookup(id uuid.UUID) (string, error) {
	loc, err := t.Locate(id)
	if err != nil {
		return "", err
	}
	return loc.AbsoluteURI, nil
}

// Locate returns the first entry for id.
func (t *Table) Locate(id uuid.UUID) (AssetLocator, error) {
	if t != nil {
		if i, ok := t.index[id]; ok {
			return t.entries[i], nil
		}
	}
	return AssetLocator{}, imferr.NotFound("asset urn:uuid:%s", id)
}

// Contains reports whether id has an entry.
func (t *Table) Contains(id uuid.UUID) bool {
	if t == nil {
		return false
	}
	_, ok := t.index[id]
	return ok
}

// Duplicates returns the UUIDs that appeared more than once, one element per
// shadowed entry, in document order.
func (t *Table) Duplicates() []uuid.UUID {
	if t == nil || len(t.dups) == 0 {
		return nil
	}
	out := make([]uuid.UUID, len(t.dups))
	copy(out, t.dups)
	return out
}

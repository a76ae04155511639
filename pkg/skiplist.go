package dupescan

import (
	"fmt"
	"strings"

	zcsl "github.com/mattkeenan/zerocopyskiplist"
)

// indexedRecord is the skiplist item: one table row plus its insertion
// sequence, which keeps equal fingerprints in table order.
type indexedRecord struct {
	seq    uint64
	record FileRecord
}

// recordIndex wraps the generic zerocopyskiplist with fingerprint keys. In
// grouped mode every insert gets a distinct key (digest, then sequence), so
// in-order iteration yields fingerprints ascending with table order among
// equals. In unique mode the digest alone is the key and a digest already
// present is rejected, which is all a membership set needs.
type recordIndex struct {
	skiplist *zcsl.ZeroCopySkiplist[indexedRecord, string, string]
	unique   bool
	nextSeq  uint64
}

// newRecordIndex creates a record index. unique selects membership keying.
func newRecordIndex(maxLevels int, unique bool) *recordIndex {
	if maxLevels < 8 {
		maxLevels = defaultIndexLevels
	}

	getKeyFromItem := func(item *indexedRecord) string {
		if unique {
			return item.record.Hash.Digest
		}
		return groupKey(item.record.Hash.Digest, item.seq)
	}

	// Size function for serialization: the row's report width
	getItemSize := func(item *indexedRecord) int {
		return len(item.record.Path) + len(item.record.Hash.String()) + 2
	}

	cmpKey := func(a, b string) int {
		return strings.Compare(a, b)
	}

	skiplist := zcsl.MakeZeroCopySkiplist[indexedRecord, string, string](
		maxLevels,
		getKeyFromItem,
		getItemSize,
		cmpKey,
	)

	return &recordIndex{
		skiplist: skiplist,
		unique:   unique,
	}
}

// groupKey appends the zero-padded insertion sequence to the digest so equal
// digests sort adjacent in insertion order. NUL never appears in a hex
// digest, so keys cannot collide across digests.
func groupKey(digest string, seq uint64) string {
	return fmt.Sprintf("%s\x00%020d", digest, seq)
}

// Insert adds one record under the given context and reports whether it was
// stored. Unique mode rejects digests already present.
func (ri *recordIndex) Insert(record FileRecord, context string) bool {
	item := indexedRecord{seq: ri.nextSeq, record: record}
	ri.nextSeq++
	return ri.skiplist.Insert(&item, context)
}

// Contains reports whether a digest is present. Only meaningful in unique
// mode, where the digest alone is the key.
func (ri *recordIndex) Contains(digest string) bool {
	node, _ := ri.skiplist.Find(digest)
	return node != nil
}

// ForEach iterates all records in key order with a callback; returning
// false stops the iteration.
func (ri *recordIndex) ForEach(callback func(record FileRecord, context string) bool) {
	for current := ri.skiplist.First(); current != nil; current = current.Next() {
		item := current.Item()
		if item == nil {
			continue
		}
		if !callback(item.record, current.Context()) {
			break
		}
	}
}

// Length returns the number of stored records.
func (ri *recordIndex) Length() int {
	return ri.skiplist.Length()
}

// IsEmpty reports whether the index holds no records.
func (ri *recordIndex) IsEmpty() bool {
	return ri.skiplist.IsEmpty()
}

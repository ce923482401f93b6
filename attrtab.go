package window

// attrTable interns Attribute bitsets into small integer indices so that
// block payloads (see block.go) can reference a 1-3 byte varint instead of
// a full 4-byte bitset. Grounded on original_source/src/window.c's
// _t3_map_attr/_t3_get_attr, implemented here as a Go hash-chained bucket
// table rather than the C version's pointer-linked buckets.
//
// Indices are never reused: the table only grows, so a block's attribute
// index stays valid for the table's lifetime.
type attrTable struct {
	buckets []attrEntry // flat slab; index 0 is never issued (0 means "no entry")
	chain   map[uint32]int32
}

type attrEntry struct {
	attr Attribute
	next int32 // index into buckets of next entry with same hash bucket, or 0
}

const attrTableInitialBuckets = 64

func newAttrTable() *attrTable {
	t := &attrTable{
		buckets: make([]attrEntry, 1, 256), // reserve slot 0 as sentinel
		chain:   make(map[uint32]int32, attrTableInitialBuckets),
	}
	return t
}

func attrHash(a Attribute) uint32 {
	// xorshift-multiply integer mix of the bitset; cheap and good enough for the small
	// working sets a terminal UI actually produces (a few dozen styles).
	x := uint32(a)
	x ^= x >> 16
	x *= 0x7feb352d
	x ^= x >> 15
	x *= 0x846ca68b
	x ^= x >> 16
	return x
}

// intern returns the small index for attr, allocating a new one if this is
// the first time attr has been seen.
func (t *attrTable) intern(attr Attribute) uint32 {
	h := attrHash(attr)
	head := t.chain[h]
	for idx := head; idx != 0; idx = t.buckets[idx].next {
		if t.buckets[idx].attr == attr {
			return uint32(idx)
		}
	}
	newIdx := int32(len(t.buckets))
	t.buckets = append(t.buckets, attrEntry{attr: attr, next: head})
	t.chain[h] = newIdx
	return uint32(newIdx)
}

// lookup returns the Attribute bitset for a previously interned index.
// Index 0 (never issued by intern) decodes to the zero Attribute.
func (t *attrTable) lookup(idx uint32) Attribute {
	if int(idx) >= len(t.buckets) {
		return 0
	}
	return t.buckets[idx].attr
}

// size reports how many distinct attribute bitsets have been interned.
func (t *attrTable) size() int { return len(t.buckets) - 1 }

package window

import "testing"

func TestAttrTableInternIsStable(t *testing.T) {
	tab := newAttrTable()
	a := FG(1).With(AttrBold)
	b := FG(2).With(AttrUnderline)

	i1 := tab.intern(a)
	i2 := tab.intern(b)
	i1again := tab.intern(a)

	if i1 != i1again {
		t.Fatalf("interning the same attribute twice gave different indices: %d vs %d", i1, i1again)
	}
	if i1 == i2 {
		t.Fatal("distinct attributes must not collide to the same index")
	}
	if tab.lookup(i1) != a {
		t.Fatalf("lookup(%d) = %v, want %v", i1, tab.lookup(i1), a)
	}
	if tab.lookup(i2) != b {
		t.Fatalf("lookup(%d) = %v, want %v", i2, tab.lookup(i2), b)
	}
}

func TestAttrTableSize(t *testing.T) {
	tab := newAttrTable()
	if tab.size() != 0 {
		t.Fatalf("new table should be empty, got size %d", tab.size())
	}
	tab.intern(AttrBold)
	tab.intern(AttrBold)
	tab.intern(AttrUnderline)
	if tab.size() != 2 {
		t.Fatalf("expected 2 distinct entries, got %d", tab.size())
	}
}

func TestAttrTableHashCollisionStillDistinguishes(t *testing.T) {
	tab := newAttrTable()
	// Force many entries into the table to exercise chain walking even if
	// attrHash happens to collide for some pair.
	indices := make(map[Attribute]uint32)
	for c := 0; c < 50; c++ {
		a := FG(c)
		indices[a] = tab.intern(a)
	}
	for a, idx := range indices {
		if tab.lookup(idx) != a {
			t.Fatalf("lookup(%d) = %v, want %v", idx, tab.lookup(idx), a)
		}
	}
}

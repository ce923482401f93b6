package window

import "testing"

func TestWindowAnchorBottomRight(t *testing.T) {
	attrs := newAttrTable()
	root := NewUnbackedWindow(80, 24, attrs)
	w := NewWindow(10, 5, attrs)
	w.SetParent(root)
	w.SetAnchor(root, AnchorBottomRight)
	w.Move(0, 0)

	x, y := w.AbsPosition()
	if x != 70 || y != 19 {
		t.Fatalf("AbsPosition() = (%d, %d), want (70, 19)", x, y)
	}
}

func TestWindowAnchorOffsetFromCorner(t *testing.T) {
	attrs := newAttrTable()
	root := NewUnbackedWindow(80, 24, attrs)
	w := NewWindow(10, 5, attrs)
	w.SetParent(root)
	w.SetAnchor(root, AnchorTopRight)
	w.Move(-2, 1) // offsets are still relative to the anchor corner

	x, y := w.AbsPosition()
	if x != 80-10-2 || y != 1 {
		t.Fatalf("AbsPosition() = (%d, %d), want (%d, 1)", x, y, 80-10-2)
	}
}

func TestWindowDepthOrderingFrontToBack(t *testing.T) {
	attrs := newAttrTable()
	root := NewUnbackedWindow(80, 24, attrs)

	back := NewWindow(5, 5, attrs)
	back.SetParent(root)
	back.SetDepth(2)

	front := NewWindow(5, 5, attrs)
	front.SetParent(root)
	front.SetDepth(0)

	mid := NewWindow(5, 5, attrs)
	mid.SetParent(root)
	mid.SetDepth(1)

	// childHead should be the frontmost (smallest depth).
	if root.childHead != front {
		t.Fatalf("childHead = %p, want front window", root.childHead)
	}
	if root.childTail != back {
		t.Fatalf("childTail = %p, want back window", root.childTail)
	}
	if root.childHead.next != mid || root.childHead.next.next != back {
		t.Fatal("expected depth order front, mid, back")
	}
}

func TestWindowAtPrefersChildOverParent(t *testing.T) {
	attrs := newAttrTable()
	root := NewUnbackedWindow(80, 24, attrs)
	root.Show()

	parent := NewWindow(20, 10, attrs)
	parent.SetParent(root)
	parent.Show()

	child := NewWindow(5, 5, attrs)
	child.SetParent(parent)
	child.Show()

	hit := WindowAt([]*Window{root}, 2, 2)
	if hit != child {
		t.Fatalf("WindowAt found %p, want child %p", hit, child)
	}
}

func TestWindowResizeGrowPadsBlank(t *testing.T) {
	attrs := newAttrTable()
	w := NewWindow(5, 2, attrs)
	w.AddStr(0, 0, "hi", AttrUser)
	w.Resize(10, 3)
	if w.Width() != 10 || w.Height() != 3 {
		t.Fatalf("Resize did not update dimensions: %d x %d", w.Width(), w.Height())
	}
}

package window

// Anchor identifies which corner of a window's parent (or, for a top-level
// window, the terminal) a window's (x, y) offset is measured from. Mirrors
// original_source/src/window.h's t3_win_anchor_t relation encoding, split
// here into an explicit corner enum plus a separate parent pointer instead
// of the C side's packed "window index | corner bits" integer.
type Anchor int

const (
	AnchorTopLeft Anchor = iota
	AnchorTopRight
	AnchorBottomLeft
	AnchorBottomRight
	AnchorCenter
)

// Window is one rectangular drawing surface: a grid of lines, a position
// relative to a parent (or the terminal origin), a paint depth, and
// optional parent/child/anchor links. Grounded field-for-field on
// original_source/src/internal.h's t3_window_t.
type Window struct {
	x, y           int // anchor-relative offset
	width, height  int
	depth          int
	defaultAttrs   Attribute
	shown          bool
	restrict       bool // clip strictly to parent bounds, never paint beyond them

	anchor       Anchor
	anchorTarget *Window // nil means anchored to the terminal origin

	parent *Window
	// sibling list under the same parent (a window with parent == nil is
	// in no list), kept sorted by depth: lower depth paints later (on
	// top). Mirrors t3_window_t's next/prev/head/tail fields.
	next, prev *Window
	childHead, childTail *Window

	lines []line
	attrs *attrTable

	cachedPosValid bool
	cachedAbsX, cachedAbsY int
}

// NewWindow allocates a width x height window with depth 0, anchored to the
// terminal's top-left corner, initially hidden (spec.md's t3_win_new
// equivalent always starts hidden until Show is called).
func NewWindow(width, height int, attrs *attrTable) *Window {
	w := &Window{
		width:  width,
		height: height,
		anchor: AnchorTopLeft,
		attrs:  attrs,
		lines:  make([]line, height),
	}
	for i := range w.lines {
		w.lines[i] = *newLine(attrs)
	}
	return w
}

// NewUnbackedWindow allocates a window with no line storage: it can be
// anchored and sized like any other window (useful as a pure clip/group
// node) but never holds drawable content, matching t3_win_new_unbacked.
func NewUnbackedWindow(width, height int, attrs *attrTable) *Window {
	w := NewWindow(width, height, attrs)
	w.lines = nil
	return w
}

// SetParent reparents w under p, inserting it into p's depth-sorted child
// list; nil detaches w, leaving it in no list.
func (w *Window) SetParent(p *Window) {
	w.unlink()
	w.parent = p
	if w.anchorTarget == nil {
		// Default to anchoring against the new parent's top-left corner;
		// callers that want a different corner call SetAnchor afterward.
		w.anchorTarget = p
	}
	w.invalidatePosition()
	insertByDepth(w)
}

// SetAnchor sets which corner of target (nil for the terminal origin) w's
// (x, y) offset is measured from.
func (w *Window) SetAnchor(target *Window, corner Anchor) {
	w.anchorTarget = target
	w.anchor = corner
	w.invalidatePosition()
}

// SetDepth changes w's paint depth and re-sorts it within its sibling list;
// lower depth paints on top, matching original_source's convention where
// depth 0 is frontmost.
func (w *Window) SetDepth(depth int) {
	w.depth = depth
	w.unlink()
	insertByDepth(w)
}

// SetDefaultAttrs sets the attribute combined into any cell that doesn't
// specify its own color (see Attribute.Combine).
func (w *Window) SetDefaultAttrs(attr Attribute) { w.defaultAttrs = attr }

// SetRestrict toggles whether w's content is clipped strictly to its own
// and its ancestors' bounds (true) or may paint into the unclipped region
// below an ancestor when the ancestor itself has no clip (false, the
// default) — see original_source's t3_win_set_restrict.
func (w *Window) SetRestrict(on bool) { w.restrict = on }

func (w *Window) Show() { w.shown = true }
func (w *Window) Hide() { w.shown = false }
func (w *Window) Shown() bool { return w.shown }

func (w *Window) Width() int  { return w.width }
func (w *Window) Height() int { return w.height }
func (w *Window) Depth() int  { return w.depth }

// Move sets the anchor-relative offset.
func (w *Window) Move(x, y int) {
	w.x, w.y = x, y
	w.invalidatePosition()
}

// Resize changes the window's dimensions. Growing adds blank, default-attr
// lines/columns (spec.md's resolution of the open question on resize
// semantics); shrinking truncates, discarding clipped content.
func (w *Window) Resize(width, height int) {
	if height != len(w.lines) && w.lines != nil {
		newLines := make([]line, height)
		for i := range newLines {
			if i < len(w.lines) {
				newLines[i] = w.lines[i]
			} else {
				newLines[i] = *newLine(w.attrs)
			}
		}
		w.lines = newLines
	}
	if width < w.width && w.lines != nil {
		for i := range w.lines {
			w.lines[i].clrToEol(width)
		}
	}
	w.width, w.height = width, height
	w.invalidatePosition()
}

func (w *Window) invalidatePosition() {
	w.cachedPosValid = false
	for c := w.childHead; c != nil; c = c.next {
		c.invalidatePosition()
	}
}

// AbsPosition resolves w's absolute (x, y) in terminal coordinates by
// walking the anchor chain, composing each ancestor's corner offset.
// Cached until invalidated by a Move/Resize/SetAnchor/SetParent on w or an
// ancestor, mirroring original_source's cached_pos/cached_pos_line fields.
func (w *Window) AbsPosition() (x, y int) {
	if w.cachedPosValid {
		return w.cachedAbsX, w.cachedAbsY
	}
	baseX, baseY, baseW, baseH := 0, 0, 0, 0
	if w.anchorTarget != nil {
		baseX, baseY = w.anchorTarget.AbsPosition()
		baseW, baseH = w.anchorTarget.width, w.anchorTarget.height
	}
	ax, ay := anchorOrigin(w.anchor, baseX, baseY, baseW, baseH, w.width, w.height)
	w.cachedAbsX, w.cachedAbsY = ax+w.x, ay+w.y
	w.cachedPosValid = true
	return w.cachedAbsX, w.cachedAbsY
}

// anchorOrigin computes the screen point a window's own top-left corner
// sits at when its offset is measured from the given corner of a
// baseW x baseH region at (baseX, baseY).
func anchorOrigin(corner Anchor, baseX, baseY, baseW, baseH, w, h int) (x, y int) {
	switch corner {
	case AnchorTopLeft:
		return baseX, baseY
	case AnchorTopRight:
		return baseX + baseW - w, baseY
	case AnchorBottomLeft:
		return baseX, baseY + baseH - h
	case AnchorBottomRight:
		return baseX + baseW - w, baseY + baseH - h
	case AnchorCenter:
		return baseX + (baseW-w)/2, baseY + (baseH-h)/2
	}
	return baseX, baseY
}

func (w *Window) unlink() {
	var head, tail **Window
	if w.parent != nil {
		head, tail = &w.parent.childHead, &w.parent.childTail
	} else if w.anchorTarget == nil {
		// window without a parent: it is in no list, nothing to unlink
		return
	}
	if head == nil {
		return
	}
	if w.prev != nil {
		w.prev.next = w.next
	} else if *head == w {
		*head = w.next
	}
	if w.next != nil {
		w.next.prev = w.prev
	} else if *tail == w {
		*tail = w.prev
	}
	w.next, w.prev = nil, nil
}

// insertByDepth inserts w into its parent's child list (or leaves it
// detached if w has no parent) in depth order, ties broken by insertion
// order (newest insertion among equal depths goes in front, matching
// original_source's "most recently raised to a depth wins" tie-break).
func insertByDepth(w *Window) {
	if w.parent == nil {
		return
	}
	p := w.parent
	if p.childHead == nil {
		p.childHead, p.childTail = w, w
		return
	}
	for c := p.childHead; c != nil; c = c.next {
		if w.depth <= c.depth {
			w.next = c
			w.prev = c.prev
			if c.prev != nil {
				c.prev.next = w
			} else {
				p.childHead = w
			}
			c.prev = w
			return
		}
	}
	w.prev = p.childTail
	p.childTail.next = w
	p.childTail = w
}

// AddStr writes s at row y, column x, clamped to the window's width.
// Grounded on original_source's t3_win_addstr.
func (w *Window) AddStr(x, y int, s string, attr Attribute) {
	if y < 0 || y >= len(w.lines) {
		return
	}
	w.lines[y].addStr(x, s, attr.Combine(w.defaultAttrs), w.defaultAttrs, w.width)
}

// AddNStr writes at most the first n bytes of s at (x, y).
func (w *Window) AddNStr(x, y int, s string, n int, attr Attribute) {
	if y < 0 || y >= len(w.lines) {
		return
	}
	w.lines[y].addNStr(x, s, n, attr.Combine(w.defaultAttrs), w.defaultAttrs, w.width)
}

// AddCh writes a single rune at (x, y).
func (w *Window) AddCh(x, y int, r rune, attr Attribute) {
	if y < 0 || y >= len(w.lines) {
		return
	}
	w.lines[y].addCh(x, r, attr.Combine(w.defaultAttrs), w.defaultAttrs, w.width)
}

// AddStrRep writes s repeated to fill repeatWidth columns starting at
// (x, y).
func (w *Window) AddStrRep(x, y int, s string, repeatWidth int, attr Attribute) {
	if y < 0 || y >= len(w.lines) {
		return
	}
	w.lines[y].addStrRep(x, s, repeatWidth, attr.Combine(w.defaultAttrs), w.defaultAttrs, w.width)
}

// AddNStrRep writes at most the first n bytes of s repeated to fill
// repeatWidth columns starting at (x, y).
func (w *Window) AddNStrRep(x, y int, s string, n, repeatWidth int, attr Attribute) {
	if y < 0 || y >= len(w.lines) {
		return
	}
	w.lines[y].addNStrRep(x, s, n, repeatWidth, attr.Combine(w.defaultAttrs), w.defaultAttrs, w.width)
}

// AddChRep writes r repeated count times starting at (x, y).
func (w *Window) AddChRep(x, y int, r rune, count int, attr Attribute) {
	if y < 0 || y >= len(w.lines) {
		return
	}
	w.lines[y].addChRep(x, r, count, attr.Combine(w.defaultAttrs), w.defaultAttrs, w.width)
}

// ClrToEol truncates row y at column x.
func (w *Window) ClrToEol(x, y int) {
	if y < 0 || y >= len(w.lines) {
		return
	}
	w.lines[y].clrToEol(x)
}

// ClrToBot truncates row y at column x and blanks every row below it.
func (w *Window) ClrToBot(x, y int) {
	if y < 0 || y >= len(w.lines) {
		return
	}
	w.lines[y].clrToEol(x)
	for row := y + 1; row < len(w.lines); row++ {
		w.lines[row].clrToEol(0)
	}
}

// WindowAt returns the frontmost shown window whose bounds contain the
// absolute terminal coordinate (x, y), or nil. Supplements
// original_source's t3_win_at_location, which spec.md's distillation
// dropped; searches the given roots' subtrees depth-first, preferring
// children (which paint above their parent) over the parent itself.
func WindowAt(roots []*Window, x, y int) *Window {
	var best *Window
	for _, r := range roots {
		if hit := windowAtIn(r, x, y); hit != nil {
			if best == nil || hit.depth < best.depth {
				best = hit
			}
		}
	}
	return best
}

func windowAtIn(w *Window, x, y int) *Window {
	if w == nil || !w.shown {
		return nil
	}
	for c := w.childHead; c != nil; c = c.next {
		if hit := windowAtIn(c, x, y); hit != nil {
			return hit
		}
	}
	ax, ay := w.AbsPosition()
	if x >= ax && x < ax+w.width && y >= ay && y < ay+w.height {
		return w
	}
	return nil
}

package window

// shadowTerminal owns the pair of full-screen composited grids: cur (what
// the physical terminal currently shows, to the best of our knowledge) and
// next (what composite() just built for this frame). Flush diffs the two
// row by row and emits the minimal control-byte sequence to bring the
// terminal from cur to next, then swaps them. Grounded on screen.go's
// front/back *Buffer double-buffering and Flush/FlushFull, generalized
// from a flat Cell grid compare to the block-aware compositing this
// package does upstream (compositor.go already resolved blocks down to
// shadowCell, so the diff itself is a plain cell compare).
type shadowTerminal struct {
	cur, next *shadowGrid
	engine    *attrEngine
	caps      *capabilities
	cursorX, cursorY int
	cursorKnown      bool
}

func newShadowTerminal(w, h int, caps *capabilities) *shadowTerminal {
	return &shadowTerminal{
		cur:    newShadowGrid(w, h),
		next:   newShadowGrid(w, h),
		engine: newAttrEngine(caps),
		caps:   caps,
	}
}

func (s *shadowTerminal) resize(w, h int) {
	s.cur.resize(w, h)
	s.next.resize(w, h)
	s.cursorKnown = false
}

// flush compares s.next against s.cur, appends the diff bytes to dst, and
// returns the extended slice. full forces every cell to be treated as
// changed (used after a resize or external terminal disturbance),
// mirroring screen.go's FlushFull vs Flush split.
func (s *shadowTerminal) flush(dst []byte, full bool) []byte {
	start := len(dst)
	if full {
		debugLog("shadow: full flush, %dx%d", s.next.width, s.next.height)
		s.engine.reset()
		s.cursorKnown = false
		if s.caps.clear != "" {
			dst = append(dst, s.caps.clear...)
		} else {
			dst = append(dst, "\x1b[2J\x1b[H"...)
		}
		for i := range s.cur.cells {
			s.cur.cells[i] = shadowCell{}
		}
	}

	for y := 0; y < s.next.height; y++ {
		dst = s.flushRow(dst, y)
	}
	debugLog("shadow: flush emitted %d bytes", len(dst)-start)

	// s.next (just flushed) becomes the terminal's known state; s.cur is
	// reused as the next frame's paint target, since composite() always
	// clears and fully repaints it before the following flush.
	s.cur, s.next = s.next, s.cur
	return dst
}

func (s *shadowTerminal) flushRow(dst []byte, y int) []byte {
	w := s.next.width
	curRow := s.cur.cells[y*w : y*w+w]
	nextRow := s.next.cells[y*w : y*w+w]

	start := 0
	for start < w && curRow[start] == nextRow[start] {
		start++
	}
	if start == w {
		return dst // row unchanged
	}
	end := w
	for end > start && curRow[end-1] == nextRow[end-1] {
		end--
	}

	dst = s.moveCursor(dst, start, y)

	if end == w && isBlankRun(nextRow[start:end]) && s.caps.clrEOL != "" {
		dst = s.engine.transition(dst, nextRow[start].attr)
		dst = append(dst, s.caps.clrEOL...)
		return dst
	}

	col := start
	for col < end {
		c := nextRow[col]
		if c.cont {
			col++
			continue
		}
		dst = s.engine.transition(dst, c.attr)
		dst = append(dst, c.text...)
		// A double-width glyph occupies this column and the next
		// placeholder column; the physical terminal's cursor advances by
		// both, so our tracked cursorX must too or the next moveCursor
		// call on this row will think it's one column short.
		advance := 1
		if col+1 < w && nextRow[col+1].cont {
			advance = 2
		}
		s.cursorX += advance
		col += advance
	}
	return dst
}

// isBlankRun reports whether every cell in run is a plain space sharing
// the first cell's attribute, the condition under which clearing to the
// end of the line is equivalent to (and shorter than) writing each space.
func isBlankRun(run []shadowCell) bool {
	if len(run) == 0 {
		return false
	}
	attr := run[0].attr
	for _, c := range run {
		if c.cont || c.text != " " || c.attr != attr {
			return false
		}
	}
	return true
}

// moveCursor positions the cursor at (x, y): a relative cuf when moving
// right on the known cursor row, else an ANSI cup literal when the
// terminal has cup, else home followed by ANSI vpa+hpa when it has home,
// else ANSI vpa+hpa alone.
func (s *shadowTerminal) moveCursor(dst []byte, x, y int) []byte {
	if s.cursorKnown && s.cursorX == x && s.cursorY == y {
		return dst
	}
	switch {
	case s.cursorKnown && s.cursorY == y && x > s.cursorX:
		// Same row, moving right: a relative move is shorter than any
		// absolute positioning sequence and never needs a capability
		// lookup to get right.
		dst = append(dst, ansiCUF(x-s.cursorX)...)
	case s.caps.cup != "":
		dst = append(dst, ansiCUP(y, x)...)
	case s.caps.home != "":
		dst = append(dst, s.caps.home...)
		dst = append(dst, ansiVPA(y)...)
		dst = append(dst, ansiHPA(x)...)
	default:
		dst = append(dst, ansiVPA(y)...)
		dst = append(dst, ansiHPA(x)...)
	}
	s.cursorX, s.cursorY = x, y
	s.cursorKnown = true
	return dst
}

// hideCursor/showCursor bracket a flush so the cursor doesn't visibly hop
// across the screen mid-update, matching screen.go's cursor-hide-during-
// flush behavior.
func (s *shadowTerminal) hideCursor(dst []byte) []byte {
	if s.caps.cursInvis != "" {
		return append(dst, s.caps.cursInvis...)
	}
	return append(dst, "\x1b[?25l"...)
}

func (s *shadowTerminal) showCursor(dst []byte) []byte {
	if s.caps.cursNorm != "" {
		return append(dst, s.caps.cursNorm...)
	}
	return append(dst, "\x1b[?25h"...)
}

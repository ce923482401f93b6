package window

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// zwnj is inserted between two adjacent blocks when the trailing rune of one
// and the leading rune of the next are both Hangul conjoining jamo: without
// it a naive terminal (or a re-segmentation on read-back) could fuse them
// into a single grapheme cluster that was never written as one. See
// spec.md's "grapheme-safe flush" requirement.
const zwnj = "‌"

func isHangulJamo(r rune) bool {
	switch {
	case r >= 0x1100 && r <= 0x11FF: // L, V, T jamo block
		return true
	case r >= 0xA960 && r <= 0xA97F: // extended-A
		return true
	case r >= 0xD7B0 && r <= 0xD7FF: // extended-B
		return true
	}
	return false
}

// lineBlock is a decoded block annotated with its starting column, used
// while editing a line's block sequence.
type lineBlock struct {
	decodedBlock
	col int
}

// line holds one row of a window's drawing surface: a sequence of packed
// blocks (block.go) covering columns [0, width). Grounded on
// original_source/src/window.h's line_data_t, simplified to drop the
// scroll-optimization "start" offset (the shift/scroll module is out of
// scope, see DESIGN.md).
type line struct {
	raw    []byte
	width  int
	attrs  *attrTable
}

func newLine(attrs *attrTable) *line {
	return &line{attrs: attrs}
}

// decode unpacks raw into an edit-friendly slice of columns-annotated
// blocks. Lines are edited infrequently relative to how often they're
// painted, so decode-edit-reencode is simpler than splicing raw bytes in
// place and still cheap enough in practice.
func (l *line) decode() []lineBlock {
	if len(l.raw) == 0 {
		return nil
	}
	out := make([]lineBlock, 0, len(l.raw)/3)
	it := newBlockIter(l.raw)
	col := 0
	for {
		b, _, ok := it.next()
		if !ok {
			break
		}
		out = append(out, lineBlock{decodedBlock: b, col: col})
		col += b.width
	}
	return out
}

func (l *line) encode(blocks []lineBlock) {
	// blocks' payloads may alias l.raw (decode returns slices into it), so
	// encoding must build into a fresh buffer rather than reuse l.raw's
	// backing array underneath its own readers.
	size := 0
	for _, b := range blocks {
		size += b.byteLen()
	}
	buf := make([]byte, 0, size)
	width := 0
	for _, b := range blocks {
		buf = encodeBlock(buf, b.decodedBlock)
		width = b.col + b.width
	}
	l.raw = buf
	l.width = width
}

// blankBlock returns a single-cell space block carrying attr, used to pad gaps
// and to replace the surviving half of a double-width cell that's been cut
// in two by an overlapping write or a clip boundary.
func (l *line) blankBlock(attr Attribute) decodedBlock {
	return decodedBlock{width: 1, attr: l.attrs.intern(attr), payload: []byte(" ")}
}

type clusterRun struct {
	text  string
	width int
}

// segmentClusters splits s into grapheme clusters with their display width,
// using uniseg for cluster boundaries and go-runewidth for the width
// oracle (teacher's choice for width, see buffer.go's use of
// runewidth.RuneWidth).
func segmentClusters(s string) []clusterRun {
	var out []clusterRun
	state := -1
	for len(s) > 0 {
		var cluster string
		cluster, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		if cluster == "" {
			break
		}
		w := runewidth.StringWidth(cluster)
		out = append(out, clusterRun{text: cluster, width: w})
	}
	return out
}

// writeClusters is the core "write_blocks" primitive: it splices clusters
// into the line starting at column x, handling every case spec.md §4.1
// names explicitly. defaultAttr is the window's own default_attrs, used
// only to pad a past-end gap (never the attribute the caller is writing
// with) so the padding doesn't freeze in whatever style happened to be
// passed to this particular write.
func (l *line) writeClusters(x int, clusters []clusterRun, attr, defaultAttr Attribute, maxWidth int) {
	if x >= maxWidth || x < 0 {
		return // entirely off-screen: no-op
	}

	blocks := l.decode()

	// Append past current end: pad the gap between the current line width
	// and x with default-attr blank cells (window_paint.c:596,615's
	// create_space_block(win->default_attrs, ...)). Append to an empty
	// line instead leaves the gap genuinely unstored — the compositor
	// paints it as implicit blank (spec.md §4.1 case 2), so a line that
	// has never held any content doesn't manufacture blocks for it.
	if x > l.width && l.width > 0 {
		for c := l.width; c < x; c++ {
			blocks = append(blocks, lineBlock{decodedBlock: l.blankBlock(defaultAttr), col: c})
		}
	}

	// Split any existing block that straddles column x (a double-width
	// cell whose left half is at x-1): its surviving half becomes a space
	// carrying the original attribute, per spec.md's resolved open
	// question on partial double-width clipping.
	blocks = l.splitAt(blocks, x)

	col := x
	var newBlocks []lineBlock
	for i, cr := range clusters {
		if col >= maxWidth {
			break // width clamping: stop placing blocks past the window edge
		}
		w := cr.width
		if w == 0 {
			// Zero-width combining mark with nothing to attach to at the
			// very start of the write: treat as width 1 space carrier so
			// it isn't silently dropped.
			w = 1
		}
		if col+w > maxWidth {
			// Would overflow the window: emit a space instead of a
			// partial glyph and stop (width clamping for the final cell).
			newBlocks = append(newBlocks, lineBlock{decodedBlock: l.blankBlock(attr), col: col})
			col++
			break
		}
		payload := []byte(cr.text)
		if i > 0 && needsJamoSeparator(clusters[i-1].text, cr.text) {
			payload = append([]byte(zwnj), payload...)
		}
		newBlocks = append(newBlocks, lineBlock{
			decodedBlock: decodedBlock{width: w, attr: l.attrs.intern(attr), payload: payload},
			col:          col,
		})
		col += w
	}

	// Remove any old blocks fully covered by the new write, and split the
	// block at the new write's right edge the same way as at its left
	// edge (overlap handling for double-width cells).
	blocks = l.splitAt(blocks, col)
	blocks = removeRange(blocks, x, col)
	blocks = insertBlocks(blocks, newBlocks)

	l.encode(blocks)
}

// needsJamoSeparator reports whether a and b are adjacent Hangul jamo that
// would re-segment into a single cluster if concatenated without a break.
func needsJamoSeparator(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	ar := []rune(a)
	br := []rune(b)
	last := ar[len(ar)-1]
	first := br[0]
	return isHangulJamo(last) && isHangulJamo(first)
}

// splitAt ensures no block straddles column at; if one does (a double-width
// cell with at falling in its second column), it's replaced by a one-column
// space carrying the same attribute so the edit boundary is clean.
func (l *line) splitAt(blocks []lineBlock, at int) []lineBlock {
	for i, b := range blocks {
		if b.col < at && b.col+b.width > at {
			replacement := lineBlock{
				decodedBlock: decodedBlock{width: 1, attr: b.attr, payload: []byte(" ")},
				col:          b.col,
			}
			out := make([]lineBlock, 0, len(blocks)+1)
			out = append(out, blocks[:i]...)
			out = append(out, replacement)
			// the straddled block's second column also becomes a space
			out = append(out, lineBlock{decodedBlock: replacement.decodedBlock, col: b.col + 1})
			out = append(out, blocks[i+1:]...)
			return out
		}
	}
	return blocks
}

// removeRange drops every block whose column lies in [from, to).
func removeRange(blocks []lineBlock, from, to int) []lineBlock {
	out := blocks[:0:0]
	for _, b := range blocks {
		if b.col >= from && b.col < to {
			continue
		}
		out = append(out, b)
	}
	return out
}

// insertBlocks merges newBlocks into blocks, keeping column order.
func insertBlocks(blocks, newBlocks []lineBlock) []lineBlock {
	if len(newBlocks) == 0 {
		return blocks
	}
	start := newBlocks[0].col
	end := newBlocks[len(newBlocks)-1].col + newBlocks[len(newBlocks)-1].width
	var before, after []lineBlock
	for _, b := range blocks {
		switch {
		case b.col < start:
			before = append(before, b)
		case b.col >= end:
			after = append(after, b)
		}
	}
	out := make([]lineBlock, 0, len(before)+len(newBlocks)+len(after))
	out = append(out, before...)
	out = append(out, newBlocks...)
	out = append(out, after...)
	return out
}

// addStr writes s starting at column x. defaultAttr is the owning window's
// default_attrs, used only to pad a past-end gap (see writeClusters).
func (l *line) addStr(x int, s string, attr, defaultAttr Attribute, maxWidth int) {
	l.writeClusters(x, segmentClusters(s), attr, defaultAttr, maxWidth)
}

// addNStr writes at most the first n bytes of s, starting at column x.
func (l *line) addNStr(x int, s string, n int, attr, defaultAttr Attribute, maxWidth int) {
	if n < len(s) {
		s = s[:n]
	}
	l.addStr(x, s, attr, defaultAttr, maxWidth)
}

// addCh writes a single rune at column x.
func (l *line) addCh(x int, r rune, attr, defaultAttr Attribute, maxWidth int) {
	l.writeClusters(x, segmentClusters(string(r)), attr, defaultAttr, maxWidth)
}

// addStrRep writes s repeatedly starting at column x until repeatWidth
// display columns have been written (or the window edge is hit).
func (l *line) addStrRep(x int, s string, repeatWidth int, attr, defaultAttr Attribute, maxWidth int) {
	clusters := segmentClusters(s)
	if len(clusters) == 0 {
		return
	}
	var run []clusterRun
	total := 0
	for total < repeatWidth {
		for _, cr := range clusters {
			if total >= repeatWidth {
				break
			}
			run = append(run, cr)
			total += cr.width
		}
	}
	l.writeClusters(x, run, attr, defaultAttr, maxWidth)
}

// addNStrRep writes at most the first n bytes of s, repeated to fill
// repeatWidth display columns starting at column x.
func (l *line) addNStrRep(x int, s string, n int, repeatWidth int, attr, defaultAttr Attribute, maxWidth int) {
	if n < len(s) {
		s = s[:n]
	}
	l.addStrRep(x, s, repeatWidth, attr, defaultAttr, maxWidth)
}

// addChRep writes r repeated count times starting at column x.
func (l *line) addChRep(x int, r rune, count int, attr, defaultAttr Attribute, maxWidth int) {
	w := runewidth.RuneWidth(r)
	if w == 0 {
		w = 1
	}
	run := make([]clusterRun, count)
	for i := range run {
		run[i] = clusterRun{text: string(r), width: w}
	}
	l.writeClusters(x, run, attr, defaultAttr, maxWidth)
}

// clrToEol truncates the line at column x: everything from x onward
// becomes implicit blank, painted by the compositor rather than stored.
func (l *line) clrToEol(x int) {
	if x >= l.width {
		return
	}
	blocks := l.decode()
	blocks = l.splitAt(blocks, x)
	blocks = removeRange(blocks, x, l.width+1)
	l.encode(blocks)
	if x < l.width {
		l.width = x
	}
}

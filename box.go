package window

// Box-drawing rune tables, carried over from the teacher's buffer.go
// BorderStyle/BoxTopLeft-family constants and adapted to emit ACS-flagged
// blocks via addch/addchrep instead of writing Cell values directly.
const (
	BoxHorizontal  = '─'
	BoxVertical    = '│'
	BoxTopLeft     = '┌'
	BoxTopRight    = '┐'
	BoxBottomLeft  = '└'
	BoxBottomRight = '┘'
	BoxCross       = '┼'
	BoxTeeDown     = '┬'
	BoxTeeUp       = '┴'
	BoxTeeRight    = '├'
	BoxTeeLeft     = '┤'
)

// defaultACSFallback mirrors original_source's _t3_default_alternate_chars:
// an identity VT100 acsc string stored as the capabilities' acsChars when
// a terminfo entry has no acsc string of its own. Output does not consult
// acsChars; ACS-flagged blocks are written with their own runes.
const defaultACSFallback = "``aaffggjjkkllmmnnooppqqrrssttuuvvwwxxyyzz{{||}}~~"

// Box draws a single-line border into w at the given rectangle using
// ACS-attributed corner/edge characters; the interior rectangle is
// (x+1, y+1, width-2, height-2). It returns nothing. Grounded on buffer.go's DrawBorder; mergeBorders'
// overlap-aware corner selection is intentionally not carried over since
// spec.md's Non-goals exclude window borders as a managed feature — this
// is a plain drawing primitive a caller opts into, not automatic framing.
func (w *Window) Box(x, y, width, height int, attr Attribute) {
	if width < 2 || height < 2 {
		return
	}
	acs := attr.With(AttrACS)
	w.AddCh(x, y, BoxTopLeft, acs)
	w.AddChRep(x+1, y, BoxHorizontal, width-2, acs)
	w.AddCh(x+width-1, y, BoxTopRight, acs)

	for row := y + 1; row < y+height-1; row++ {
		w.AddCh(x, row, BoxVertical, acs)
		w.AddCh(x+width-1, row, BoxVertical, acs)
	}

	w.AddCh(x, y+height-1, BoxBottomLeft, acs)
	w.AddChRep(x+1, y+height-1, BoxHorizontal, width-2, acs)
	w.AddCh(x+width-1, y+height-1, BoxBottomRight, acs)
}

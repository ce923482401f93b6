package window

import "strings"

// attrEngine turns Attribute transitions into control-sequence bytes,
// choosing between terminfo enter-/exit-mode strings and raw SGR/ANSI
// literals depending on what capabilities certified ansiSafe. Grounded on
// screen.go's writeStyle/writeColor (hand-built "ESC[...m" sequences
// written straight into a scratch buffer, no per-call allocation), the
// difference being this engine only emits the bytes for the bits that
// actually changed between two Attribute values instead of a full reset
// every cell.
type attrEngine struct {
	caps *capabilities
	cur  Attribute
}

func newAttrEngine(caps *capabilities) *attrEngine {
	return &attrEngine{caps: caps}
}

// reset clears the engine's idea of the terminal's current attribute state
// (used after a clear-screen or full-flush, where the physical terminal is
// known to be back at its defaults).
func (e *attrEngine) reset() { e.cur = 0 }

// transition appends to dst whatever bytes are needed to move the
// terminal's rendition state from e.cur to next, and updates e.cur.
func (e *attrEngine) transition(dst []byte, next Attribute) []byte {
	if next == e.cur {
		return dst
	}

	curFlags, nextFlags := e.cur.Flags(), next.Flags()
	// Any flag bit being turned off forces a full sgr0-and-rebuild: most
	// terminfo entries have no "turn off bold only" capability distinct
	// from exitAttributeMode.
	turnedOff := curFlags &^ nextFlags
	if turnedOff != 0 || (curFlags == 0 && nextFlags != 0 && e.cur == 0 && next.FGValue() == 0 && next.BGValue() == 0) {
		dst = e.emitFullReset(dst, next)
		e.cur = next
		return dst
	}

	turnedOn := nextFlags &^ curFlags
	dst = e.emitFlags(dst, turnedOn)
	dst = e.emitColor(dst, e.cur, next)

	e.cur = next
	return dst
}

func (e *attrEngine) emitFullReset(dst []byte, next Attribute) []byte {
	if e.caps.sgr0 != "" {
		dst = append(dst, e.caps.sgr0...)
	} else {
		dst = append(dst, "\x1b[0m"...)
	}
	dst = e.emitFlags(dst, next.Flags())
	dst = e.emitColor(dst, 0, next)
	return dst
}

func (e *attrEngine) emitFlags(dst []byte, flags Attribute) []byte {
	if flags == 0 {
		return dst
	}
	if e.caps.ansiSafe {
		var codes []string
		if flags.Has(AttrBold) {
			codes = append(codes, "1")
		}
		if flags.Has(AttrDim) {
			codes = append(codes, "2")
		}
		if flags.Has(AttrUnderline) {
			codes = append(codes, "4")
		}
		if flags.Has(AttrBlink) {
			codes = append(codes, "5")
		}
		if flags.Has(AttrReverse) {
			codes = append(codes, "7")
		}
		if len(codes) > 0 {
			dst = append(dst, "\x1b["...)
			dst = append(dst, strings.Join(codes, ";")...)
			dst = append(dst, 'm')
		}
		if flags.Has(AttrACS) && e.caps.enterACS != "" {
			dst = append(dst, e.caps.enterACS...)
		}
		return dst
	}
	if flags.Has(AttrBold) && e.caps.bold != "" {
		dst = append(dst, e.caps.bold...)
	}
	if flags.Has(AttrUnderline) && e.caps.underline != "" {
		dst = append(dst, e.caps.underline...)
	}
	if flags.Has(AttrReverse) && e.caps.reverse != "" {
		dst = append(dst, e.caps.reverse...)
	}
	if flags.Has(AttrBlink) && e.caps.blink != "" {
		dst = append(dst, e.caps.blink...)
	}
	if flags.Has(AttrDim) && e.caps.dim != "" {
		dst = append(dst, e.caps.dim...)
	}
	if flags.Has(AttrACS) && e.caps.enterACS != "" {
		dst = append(dst, e.caps.enterACS...)
	}
	return dst
}

func (e *attrEngine) emitColor(dst []byte, from, to Attribute) []byte {
	if from.FGValue() == to.FGValue() && from.BGValue() == to.BGValue() {
		return dst
	}
	resetFG := to.FGIsDefault() || (to.FGValue() == colorUnspecified && from.FGValue() != colorUnspecified)
	resetBG := to.BGIsDefault() || (to.BGValue() == colorUnspecified && from.BGValue() != colorUnspecified)
	if resetFG || resetBG {
		if e.caps.origPair != "" {
			dst = append(dst, e.caps.origPair...)
		} else {
			dst = append(dst, "\x1b[39;49m"...)
		}
	}
	if idx, ok := to.FGColor(); ok {
		dst = append(dst, ansiSetFG256(idx)...)
	}
	if idx, ok := to.BGColor(); ok {
		dst = append(dst, ansiSetBG256(idx)...)
	}
	return dst
}

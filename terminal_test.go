package window

import (
	"bufio"
	"bytes"
	"testing"
)

// newTestTerminal builds a Terminal without Init, so tests can exercise
// Flush/GetKeyChar/window-tree wiring without a real tty -- mirroring
// screen_test.go's newTestScreen, which likewise constructs a *Screen by
// struct literal instead of going through the teacher's real setup path.
func newTestTerminal(w, h int) (*Terminal, *bytes.Buffer) {
	var out bytes.Buffer
	attrs := newAttrTable()
	caps := &capabilities{}
	t := &Terminal{
		attrs:  attrs,
		caps:   caps,
		w:      bufio.NewWriter(&out),
		r:      bufio.NewReader(&bytes.Buffer{}),
		shadow: newShadowTerminal(w, h, caps),
	}
	t.root = NewUnbackedWindow(w, h, attrs)
	t.root.shown = true
	return t, &out
}

func TestQuerySizeUsesConfigOverride(t *testing.T) {
	term, _ := newTestTerminal(10, 10)
	w, h, err := term.querySize(Config{ForceWidth: 123, ForceHeight: 45})
	if err != nil {
		t.Fatalf("querySize: %v", err)
	}
	if w != 123 || h != 45 {
		t.Fatalf("querySize = (%d, %d), want (123, 45)", w, h)
	}
}

func TestRootAndNewWindow(t *testing.T) {
	term, _ := newTestTerminal(20, 10)
	if term.Root() != term.root {
		t.Fatal("Root() should return the terminal's root window")
	}
	win := term.NewWindow(5, 5)
	if win.width != 5 || win.height != 5 {
		t.Fatalf("NewWindow size = (%d, %d), want (5, 5)", win.width, win.height)
	}
}

func TestSetDefaultAttrs(t *testing.T) {
	term, _ := newTestTerminal(5, 5)
	term.SetDefaultAttrs(FG(3))
	if term.defaultAttrs != FG(3) {
		t.Fatalf("defaultAttrs = %v, want FG(3)", term.defaultAttrs)
	}
}

type fakeKeyReader struct {
	r   rune
	err error
}

func (f fakeKeyReader) ReadKey(timeoutMsec int) (rune, error) { return f.r, f.err }

func TestGetKeyCharWithoutReaderIsBadArg(t *testing.T) {
	term, _ := newTestTerminal(5, 5)
	_, err := term.GetKeyChar(0)
	werr, ok := err.(*Error)
	if !ok || werr.Code != ErrBadArg {
		t.Fatalf("expected ErrBadArg, got %v", err)
	}
}

func TestGetKeyCharDelegatesToKeyReader(t *testing.T) {
	term, _ := newTestTerminal(5, 5)
	term.SetKeyReader(fakeKeyReader{r: 'x'})
	r, err := term.GetKeyChar(100)
	if err != nil {
		t.Fatalf("GetKeyChar: %v", err)
	}
	if r != 'x' {
		t.Fatalf("GetKeyChar = %q, want 'x'", r)
	}
}

func TestFlushRestoresCursorPositionAfterDiff(t *testing.T) {
	term, out := newTestTerminal(10, 3)
	term.caps.saveCursor = "\x1bS"
	term.caps.restCursor = "\x1bR"

	win := term.NewWindow(10, 3)
	win.SetParent(term.root)
	win.Show()
	win.AddStr(0, 0, "hi", AttrUser)
	if err := term.Flush(false); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	output := out.String()
	if !bytes.Contains([]byte(output), []byte("\x1bS")) {
		t.Errorf("expected save-cursor sequence in output, got %q", output)
	}
	if !bytes.Contains([]byte(output), []byte("\x1bR")) {
		t.Errorf("expected restore-cursor sequence in output, got %q", output)
	}
	// The restore sequence must come after the hide/diff/content, and the
	// show-cursor sequence must come after the restore -- save ... restore
	// ... show, per spec.md §4.7 item 5.
	saveIdx := bytes.Index([]byte(output), []byte("\x1bS"))
	restIdx := bytes.Index([]byte(output), []byte("\x1bR"))
	if restIdx < saveIdx {
		t.Errorf("restore-cursor sequence appeared before save-cursor: %q", output)
	}
	hiIdx := bytes.Index([]byte(output), []byte("hi"))
	if hiIdx < 0 || restIdx < hiIdx {
		t.Errorf("restore-cursor sequence appeared before the written content: %q", output)
	}
	showIdx := bytes.LastIndex([]byte(output), []byte("\x1b[?25h"))
	if showIdx < restIdx {
		t.Errorf("show-cursor sequence appeared before restore-cursor: %q", output)
	}
}

func TestFlushWithoutRestCapabilitySkipsMoveOnFirstFlush(t *testing.T) {
	term, out := newTestTerminal(10, 3)
	// No saveCursor/restCursor capability: the first flush has no known
	// prior cursor position, so it should fall through cleanly without
	// emitting a bogus moveCursor call.
	win := term.NewWindow(10, 3)
	win.SetParent(term.root)
	win.Show()
	win.AddStr(2, 1, "hi", AttrUser)
	if err := term.Flush(false); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if out.Len() == 0 {
		t.Fatal("expected Flush to write some output")
	}
	// The last row is written as plain spaces; with no cursor move after the
	// diff, the show-cursor sequence follows the last space directly.
	if !bytes.HasSuffix(out.Bytes(), []byte(" \x1b[?25h")) {
		t.Fatalf("expected no cursor move between the diff and show-cursor, got %q", out.String())
	}
}

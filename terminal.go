package window

import (
	"bufio"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// Terminal is the process-wide windowing context: raw-mode terminal state,
// the capability store, the shadow-terminal diff engine, and the root of
// the window tree. Grounded on screen.go's Screen struct (termios
// save/restore via golang.org/x/sys/unix, SIGWINCH-driven resize), with
// the single-process/single-instance assumption spec.md's design note
// calls for — original_source keeps equivalent state in file-scope
// globals (internal.h's terminal_* statics); Init refuses a second Init
// without an intervening Deinit for the same reason the C library can
// only ever have one terminal_init'd at a time.
type Terminal struct {
	mu sync.Mutex

	fd       int
	stdinFd  int
	savedTermios *unix.Termios
	rawActive    bool

	root *Window
	attrs *attrTable

	caps  *capabilities
	shadow *shadowTerminal

	w      *bufio.Writer
	r      *bufio.Reader
	keys   KeyReader

	sigCh  chan os.Signal
	resizeCh chan struct{}
	done   chan struct{}

	defaultAttrs Attribute
	lastProbe    probeResult
}

var (
	activeMu sync.Mutex
	active   *Terminal
)

// Init acquires the terminal on os.Stdout, puts it into
// raw mode, loads its terminfo capabilities, and returns a ready-to-use
// Terminal. Only one Terminal may be active per process at a time,
// matching original_source's single global terminal_* state; a second
// concurrent Init returns ErrBadArg.
func Init(cfg Config) (*Terminal, error) {
	activeMu.Lock()
	defer activeMu.Unlock()
	if active != nil {
		return nil, newError("Init", ErrBadArg, nil)
	}

	fd := int(os.Stdout.Fd())
	if _, err := unix.IoctlGetTermios(fd, unix.TCGETS); err != nil {
		return nil, newError("Init", ErrNotATTY, err)
	}

	caps, err := loadCapabilities(cfg.Term)
	if err != nil {
		return nil, err
	}

	t := &Terminal{
		fd:      fd,
		stdinFd: int(os.Stdin.Fd()),
		attrs: newAttrTable(),
		caps:  caps,
		w:     bufio.NewWriter(os.Stdout),
		r:     bufio.NewReader(os.Stdin),
		sigCh: make(chan os.Signal, 1),
		resizeCh: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}

	width, height, err := t.querySize(cfg)
	if err != nil {
		return nil, err
	}
	t.root = NewUnbackedWindow(width, height, t.attrs)
	t.root.shown = true
	t.shadow = newShadowTerminal(width, height, caps)

	if err := t.enterRaw(); err != nil {
		return nil, err
	}
	if caps.enterCA != "" {
		t.w.WriteString(caps.enterCA)
		t.w.Flush()
	}

	signal.Notify(t.sigCh, syscall.SIGWINCH)
	go t.watchResize()

	active = t
	return t, nil
}

// querySize resolves the terminal's width/height: config overrides win,
// else TIOCGWINSZ, else ErrNoSizeInfo (matching t3_term_get_size's
// fallback chain).
func (t *Terminal) querySize(cfg Config) (int, int, error) {
	if cfg.ForceWidth > 0 && cfg.ForceHeight > 0 {
		return cfg.ForceWidth, cfg.ForceHeight, nil
	}
	ws, err := unix.IoctlGetWinsize(t.fd, unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 || ws.Row == 0 {
		return 0, 0, newError("querySize", ErrNoSizeInfo, err)
	}
	return int(ws.Col), int(ws.Row), nil
}

// enterRaw puts fd into raw mode, saving the previous termios so Deinit
// can restore it. Grounded on screen.go's EnterRawMode: clears ICANON,
// ECHO, ISIG, IXON; sets VMIN=1, VTIME=0 for byte-at-a-time reads.
func (t *Terminal) enterRaw() error {
	orig, err := unix.IoctlGetTermios(t.fd, unix.TCGETS)
	if err != nil {
		return newError("enterRaw", ErrNotATTY, err)
	}
	saved := *orig
	t.savedTermios = &saved

	raw := *orig
	raw.Iflag &^= unix.IXON | unix.ICRNL | unix.BRKINT | unix.INPCK | unix.ISTRIP
	raw.Oflag &^= unix.OPOST
	raw.Lflag &^= unix.ECHO | unix.ICANON | unix.IEXTEN | unix.ISIG
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(t.fd, unix.TCSETS, &raw); err != nil {
		return newError("enterRaw", ErrNotATTY, err)
	}
	t.rawActive = true
	return nil
}

// restoreTermios reverses enterRaw.
func (t *Terminal) restoreTermios() error {
	if !t.rawActive || t.savedTermios == nil {
		return nil
	}
	if err := unix.IoctlSetTermios(t.fd, unix.TCSETS, t.savedTermios); err != nil {
		return newError("restoreTermios", ErrUnknown, err)
	}
	t.rawActive = false
	return nil
}

func (t *Terminal) watchResize() {
	for {
		select {
		case <-t.sigCh:
			select {
			case t.resizeCh <- struct{}{}:
			default:
			}
		case <-t.done:
			return
		}
	}
}

// PollResize reports whether a SIGWINCH has arrived since the last call,
// and if so resizes the root window and shadow grid to match the new
// terminal dimensions.
func (t *Terminal) PollResize() (resized bool, err error) {
	select {
	case <-t.resizeCh:
	default:
		return false, nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	w, h, err := t.querySize(Config{})
	if err != nil {
		debugLog("resize: querySize failed: %v", err)
		return false, err
	}
	debugLog("resize: %dx%d -> %dx%d", t.root.width, t.root.height, w, h)
	t.root.Resize(w, h)
	t.shadow.resize(w, h)
	return true, nil
}

// Root returns the window every top-level window should be SetParent'd
// onto.
func (t *Terminal) Root() *Window { return t.root }

// NewWindow allocates a width x height backed window sharing this
// terminal's attribute table, matching original_source's t3_win_new,
// which always takes the single global terminal context implicitly.
func (t *Terminal) NewWindow(width, height int) *Window {
	return NewWindow(width, height, t.attrs)
}

// NewUnbackedWindow allocates a width x height unbacked window (no line
// storage, usable as a pure clip/group node) sharing this terminal's
// attribute table.
func (t *Terminal) NewUnbackedWindow(width, height int) *Window {
	return NewUnbackedWindow(width, height, t.attrs)
}

// SetDefaultAttrs sets the attribute combined into any cell no window
// specifies color for — the terminal-level default, combined after every
// window's own defaultAttrs (compositor.go).
func (t *Terminal) SetDefaultAttrs(attr Attribute) { t.defaultAttrs = attr }

// Probe runs the CPR-based capability probe (probe.go) against the
// terminal and records the result on t. Flush does not read the result;
// it writes each cell's text as stored.
func (t *Terminal) Probe(timeout time.Duration) error {
	res, err := cprProbe(t.r, t.w, t.stdinFd, timeout)
	if err != nil {
		return err
	}
	t.lastProbe = res
	return nil
}

// Flush composites the window tree and writes the minimal diff to bring
// the physical terminal up to date. full forces a full repaint (e.g.
// after a resize or an external disturbance of the screen). Grounded on
// spec.md §4.7 item 5's cursor bracket: save position (sc), hide (civis),
// perform updates, restore (rc, else cup back to the saved position),
// show (cnorm) — so a visible caret the application positioned itself
// (e.g. a text-input cursor) doesn't visibly jump to wherever the last
// changed cell happened to land.
func (t *Terminal) Flush(full bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	composite(t.root, t.shadow.next, t.defaultAttrs)

	preX, preY, preKnown := t.shadow.cursorX, t.shadow.cursorY, t.shadow.cursorKnown

	var buf []byte
	if t.caps.saveCursor != "" {
		buf = append(buf, t.caps.saveCursor...)
	}
	buf = t.shadow.hideCursor(buf)
	buf = t.shadow.flush(buf, full)

	switch {
	case t.caps.restCursor != "":
		buf = append(buf, t.caps.restCursor...)
		t.shadow.cursorX, t.shadow.cursorY, t.shadow.cursorKnown = preX, preY, preKnown
	case preKnown:
		buf = t.shadow.moveCursor(buf, preX, preY)
	}
	buf = t.shadow.showCursor(buf)

	debugLog("flush: full=%v wrote %d bytes", full, len(buf))

	if _, err := t.w.Write(buf); err != nil {
		return newError("Flush", ErrUnknown, err)
	}
	return t.w.Flush()
}

// GetKeyChar blocks for up to timeoutMsec milliseconds (0 = forever)
// waiting for a key via the configured KeyReader, matching
// original_source's t3_term_get_keychar blocking-poll semantics.
func (t *Terminal) GetKeyChar(timeoutMsec int) (rune, error) {
	if t.keys == nil {
		return 0, newError("GetKeyChar", ErrBadArg, nil)
	}
	return t.keys.ReadKey(timeoutMsec)
}

// SetKeyReader installs the collaborator GetKeyChar delegates to.
func (t *Terminal) SetKeyReader(k KeyReader) { t.keys = k }

// Deinit restores the terminal to its pre-Init state: termios, the
// terminal's cursor, and the alternate screen buffer if one was entered.
func (t *Terminal) Deinit() error {
	activeMu.Lock()
	defer activeMu.Unlock()

	close(t.done)
	signal.Stop(t.sigCh)

	if t.caps.exitCA != "" {
		t.w.WriteString(t.caps.exitCA)
	}
	t.w.Write(t.shadow.showCursor(nil))
	t.w.Flush()

	err := t.restoreTermios()
	if active == t {
		active = nil
	}
	return err
}

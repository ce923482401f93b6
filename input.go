package window

// KeyReader is the external collaborator responsible for turning raw
// terminal input bytes into key events. spec.md scopes the input/key
// reading layer out entirely, describing it only as an interface a caller
// plugs in (the teacher's own key handling lives in a separate module this
// package has no dependency on); Terminal.GetKeyChar (terminal.go) just
// forwards to whatever KeyReader the caller configured.
type KeyReader interface {
	// ReadKey blocks until a key event is available, the given number of
	// milliseconds elapses (0 means block indefinitely), or the terminal
	// is closed. A negative return means no key was available before the
	// deadline.
	ReadKey(timeoutMsec int) (rune, error)
}

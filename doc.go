// Package window implements a terminal windowing core: a depth-sorted
// stack of clipped drawing surfaces composited onto a single terminal
// shadow and flushed to the wire as a minimal diff of control bytes.
//
// A typical program calls Init to acquire the terminal, builds a tree of
// Windows anchored off Terminal.Root, paints into them with methods like
// AddStr and Box, and calls Flush once per frame. Key input is left to a
// KeyReader the caller installs with SetKeyReader; stdin is read only by
// Probe, for cursor-position replies. Output is always UTF-8: the
// Transcoder interface is declared for downstream use, and nothing in this
// package calls one.
package window

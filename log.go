package window

import (
	"fmt"
	"os"
)

// debugLog writes a diagnostic line to stderr when WINDOWCORE_DEBUG is
// set, the same env-gated Fprintf-to-stderr idiom screen.go uses for its
// own debug tracing rather than pulling in a structured logger for a
// library package that has no business deciding how its caller logs.
func debugLog(format string, args ...any) {
	if os.Getenv("WINDOWCORE_DEBUG") == "" {
		return
	}
	fmt.Fprintf(os.Stderr, "windowcore: "+format+"\n", args...)
}

package window

import (
	"os"
	"strconv"
	"strings"
)

// Config holds the startup options normally derived from the environment:
// an escape hatch for overriding what would otherwise come from terminfo
// probing, matching original_source's T3_WINDOW_OPTS-style env override
// (spec.md §6). Parsed from T3WINDOW_OPTS, a space-separated list of
// key=value tokens. Init applies Term, ForceWidth and ForceHeight; ACS,
// Colors, Pairs and ANSIOff are parsed but nothing in this package reads
// them.
type Config struct {
	Term        string // overrides $TERM
	ACS         string // "ascii", "utf8", or "auto" (default)
	Colors      int    // 0 means "use terminfo's max_colors"
	Pairs       int
	ANSIOff     bool
	ForceWidth  int // 0 means "probe via TIOCGWINSZ"
	ForceHeight int
}

// LoadConfig reads T3WINDOW_OPTS plus TERM, LINES and COLUMNS. When both
// LINES and COLUMNS are set, terminal.go's querySize uses them in
// preference to ioctl-based size detection.
func LoadConfig() Config {
	c := Config{ACS: "auto"}
	c.Term = os.Getenv("TERM")

	for _, tok := range strings.Fields(os.Getenv("T3WINDOW_OPTS")) {
		if tok == "" {
			continue
		}
		key, val, _ := strings.Cut(tok, "=")
		switch key {
		case "acs":
			c.ACS = val
		case "colors":
			c.Colors, _ = strconv.Atoi(val)
		case "pairs":
			c.Pairs, _ = strconv.Atoi(val)
		case "ansi":
			c.ANSIOff = val == "off"
		case "term":
			c.Term = val
		}
	}

	if v := os.Getenv("COLUMNS"); v != "" {
		c.ForceWidth, _ = strconv.Atoi(v)
	}
	if v := os.Getenv("LINES"); v != "" {
		c.ForceHeight, _ = strconv.Atoi(v)
	}
	return c
}

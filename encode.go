package window

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"
)

// Transcoder is the external collaborator responsible for converting
// between the process's internal UTF-8 representation and whatever
// encoding the output stream ultimately needs. This package only ever
// produces UTF-8; spec.md scopes a general charset-conversion layer out,
// describing it only as an interface a caller may plug in downstream, so
// there is no concrete implementation here.
type Transcoder interface {
	Encode(s string) ([]byte, error)
}

// encodeOptions controls the output encoder's behavior when it can't
// losslessly represent a grapheme cluster in the target terminal, or has
// to decide whether a cluster is safe to rely on the terminal's own
// combining/double-width handling for.
type encodeOptions struct {
	replacement     rune
	combiningWorks  bool
	doubleWidthWorks bool
}

func defaultEncodeOptions() encodeOptions {
	return encodeOptions{replacement: '?'}
}

// normalizeForOutput applies NFC normalization (via golang.org/x/text,
// the same library lipgloss/bubbletea's dependency graph already pulls
// in) so that combining sequences which have a precomposed form are sent
// as the single precomposed codepoint whenever possible — this sidesteps
// combining-mark bugs in terminals that don't need cprProbe to catch them,
// since there's simply nothing left to combine.
func normalizeForOutput(s string) string {
	return norm.NFC.String(s)
}

// sanitizeCluster rewrites a single grapheme cluster for safe output,
// given what the probe determined about the terminal's combining-mark and
// double-width handling. It returns the (possibly replaced) text and its
// screen-cell width.
func sanitizeCluster(cluster string, opts encodeOptions) (string, int) {
	cluster = normalizeForOutput(cluster)
	width := uniseg.StringWidth(cluster)

	if width == 0 {
		// A cluster that normalized down to pure combining marks with no
		// base: nothing to attach to, emit the replacement character.
		return string(opts.replacement), 1
	}
	if width == 2 && !opts.doubleWidthWorks {
		return string(opts.replacement), 1
	}
	if !opts.combiningWorks && len([]rune(cluster)) > 1 {
		// Terminal doesn't render combining marks as zero-width: fall
		// back to just the base rune rather than risk the mark eating an
		// extra cell the terminal thinks is still blank.
		base := []rune(cluster)[0]
		return string(base), runewidth.RuneWidth(base)
	}
	return cluster, width
}

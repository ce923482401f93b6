package window

import "testing"

func TestNormalizeForOutputComposesCombiningSequence(t *testing.T) {
	// "e" + U+0301 (combining acute) has a precomposed NFC form, U+00E9.
	decomposed := "é"
	got := normalizeForOutput(decomposed)
	want := "é"
	if got != want {
		t.Errorf("normalizeForOutput(%q) = %q, want precomposed %q", decomposed, got, want)
	}
}

func TestSanitizeClusterPlainASCII(t *testing.T) {
	opts := encodeOptions{replacement: '?', combiningWorks: true, doubleWidthWorks: true}
	s, width := sanitizeCluster("a", opts)
	if s != "a" || width != 1 {
		t.Fatalf("sanitizeCluster(\"a\") = (%q, %d), want (\"a\", 1)", s, width)
	}
}

func TestSanitizeClusterDoubleWidthFallsBackWhenUnsupported(t *testing.T) {
	opts := encodeOptions{replacement: '?', combiningWorks: true, doubleWidthWorks: false}
	s, width := sanitizeCluster("中", opts)
	if s != "?" || width != 1 {
		t.Fatalf("sanitizeCluster(double-width, unsupported) = (%q, %d), want (\"?\", 1)", s, width)
	}
}

func TestSanitizeClusterDoubleWidthPassesThroughWhenSupported(t *testing.T) {
	opts := encodeOptions{replacement: '?', combiningWorks: true, doubleWidthWorks: true}
	s, width := sanitizeCluster("中", opts)
	if s != "中" || width != 2 {
		t.Fatalf("sanitizeCluster(double-width, supported) = (%q, %d), want (\"中\", 2)", s, width)
	}
}

func TestSanitizeClusterCombiningFallsBackToBaseWhenUnsupported(t *testing.T) {
	opts := encodeOptions{replacement: '?', combiningWorks: false, doubleWidthWorks: true}
	// Already-NFC-composed "é" is a single rune, so it must pass through
	// untouched regardless of combiningWorks -- only a multi-rune cluster
	// exercises the fallback path. "q" + U+0301 has no precomposed form, so
	// it stays two runes after NFC.
	decomposed := "q́"
	s, width := sanitizeCluster(decomposed, opts)
	if s != "q" || width != 1 {
		t.Fatalf("sanitizeCluster(decomposed, combining unsupported) = (%q, %d), want base rune (\"q\", 1)", s, width)
	}
}

func TestSanitizeClusterCombiningPassesThroughWhenSupported(t *testing.T) {
	opts := encodeOptions{replacement: '?', combiningWorks: true, doubleWidthWorks: true}
	decomposed := "é"
	s, width := sanitizeCluster(decomposed, opts)
	if s != "é" || width != 1 {
		t.Fatalf("sanitizeCluster(decomposed, combining supported) = (%q, %d), want precomposed (\"é\", 1)", s, width)
	}
}

func TestSanitizeClusterZeroWidthEmitsReplacement(t *testing.T) {
	opts := defaultEncodeOptions()
	// A bare combining mark with nothing to attach to: uniseg reports 0
	// width, and there's no base rune to fall back to.
	s, width := sanitizeCluster("́", opts)
	if s != "?" || width != 1 {
		t.Fatalf("sanitizeCluster(bare combining mark) = (%q, %d), want (\"?\", 1)", s, width)
	}
}

func TestDefaultEncodeOptions(t *testing.T) {
	opts := defaultEncodeOptions()
	if opts.replacement != '?' {
		t.Errorf("replacement = %q, want '?'", opts.replacement)
	}
	if opts.combiningWorks || opts.doubleWidthWorks {
		t.Error("defaultEncodeOptions should assume neither capability works until probed")
	}
}

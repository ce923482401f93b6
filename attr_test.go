package window

import "testing"

func TestAttributeColorRoundTrip(t *testing.T) {
	a := FG(3).With(AttrBold)
	idx, ok := a.FGColor()
	if !ok || idx != 3 {
		t.Fatalf("FGColor() = %d, %v; want 3, true", idx, ok)
	}
	if !a.Has(AttrBold) {
		t.Fatal("expected AttrBold to be set")
	}
	if a.Has(AttrUnderline) {
		t.Fatal("did not expect AttrUnderline to be set")
	}
}

func TestAttributeDefaultColors(t *testing.T) {
	a := FGDefault | BGDefault
	if !a.FGIsDefault() || !a.BGIsDefault() {
		t.Fatal("expected both fg and bg to report default")
	}
	if _, ok := a.FGColor(); ok {
		t.Fatal("default color should not report a color index")
	}
}

func TestAttributeCombineFillsUnspecifiedColorsOnly(t *testing.T) {
	base := FG(1).With(BG(2)).With(AttrBold)
	a := AttrUnderline // no color of its own, a boolean flag only

	got := a.Combine(base)

	if got.Flags() != AttrUnderline {
		t.Fatalf("Combine must not pull base's flags in, got flags %v", got.Flags())
	}
	if idx, ok := got.FGColor(); !ok || idx != 1 {
		t.Fatalf("expected fg color 1 from base, got %d, %v", idx, ok)
	}
	if idx, ok := got.BGColor(); !ok || idx != 2 {
		t.Fatalf("expected bg color 2 from base, got %d, %v", idx, ok)
	}
}

func TestAttributeCombineLeavesOwnColorAlone(t *testing.T) {
	a := FG(5)
	base := FG(9).With(BG(9))

	got := a.Combine(base)

	idx, ok := got.FGColor()
	if !ok || idx != 5 {
		t.Fatalf("own fg color must win over base, got %d, %v", idx, ok)
	}
	if bidx, ok := got.BGColor(); !ok || bidx != 9 {
		t.Fatalf("unspecified bg should come from base, got %d, %v", bidx, ok)
	}
}

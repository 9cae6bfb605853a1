package contrast

import (
	"math"
	"testing"
)

func TestParseHex(t *testing.T) {
	cases := []struct {
		in   string
		want RGB
		ok   bool
	}{
		{"#ffffff", RGB{255, 255, 255}, true},
		{"000000", RGB{0, 0, 0}, true},
		{"#abc", RGB{0xaa, 0xbb, 0xcc}, true},
		{" #1a2B3c ", RGB{0x1a, 0x2b, 0x3c}, true},
		{"#12345", RGB{}, false},
		{"#gggggg", RGB{}, false},
		{"+12345", RGB{}, false},
		{"", RGB{}, false},
	}
	for _, c := range cases {
		got, ok := ParseHex(c.in)
		if ok != c.ok || got != c.want {
			t.Errorf("ParseHex(%q) = %v,%v want %v,%v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestNormalizeHex(t *testing.T) {
	if got := NormalizeHex("ABCDEF"); got != "#abcdef" {
		t.Fatalf("got %q", got)
	}
	if got := NormalizeHex("#FFF"); got != "#fff" {
		t.Fatalf("got %q", got)
	}
	if got := NormalizeHex("red"); got != "" {
		t.Fatalf("named colors must be rejected, got %q", got)
	}
}

func TestRelativeLuminanceBounds(t *testing.T) {
	if got := RelativeLuminance("#000000"); got != 0 {
		t.Fatalf("black = %v, want 0", got)
	}
	if got := RelativeLuminance("#ffffff"); math.Abs(got-1) > 1e-9 {
		t.Fatalf("white = %v, want 1", got)
	}
	if got := RelativeLuminance("nope"); got != 0 {
		t.Fatalf("invalid = %v, want 0", got)
	}
}

func TestContrastingTextColor(t *testing.T) {
	cases := map[string]string{
		"#000000": White,
		"#ffffff": Black,
		"#111111": White,
		"#eeeeee": Black,
		"#0000ff": White,
		"#ffff00": Black,
		"garbage": White,
		"":        White,
	}
	for in, want := range cases {
		got := ContrastingTextColor(in)
		if got != want {
			t.Errorf("ContrastingTextColor(%q) = %s, want %s", in, got, want)
		}
		if again := ContrastingTextColor(in); again != got {
			t.Errorf("not stable for %q", in)
		}
	}
}

// #808080 sits between the two thresholds: weighted brightness ~0.50 reads
// light in the editor, WCAG luminance ~0.22 reads dark on the card.
func TestFormulasDisagreeNearThreshold(t *testing.T) {
	if !IsDark("#808080") {
		t.Fatalf("WCAG path should call #808080 dark")
	}
	b, ok := Brightness("#808080")
	if !ok || b <= 0.5 {
		t.Fatalf("brightness = %v, want > 0.5", b)
	}
	if got := EditorTextColor("#808080"); got != EditorDark {
		t.Fatalf("editor text = %s, want %s", got, EditorDark)
	}
	if got := FallbackTextColor("#808080"); got != Black {
		t.Fatalf("fallback text = %s, want %s", got, Black)
	}
}

func TestThemeFor(t *testing.T) {
	if ThemeFor("#101010") != Dark {
		t.Fatal("want dark")
	}
	if ThemeFor("#fafafa") != Light {
		t.Fatal("want light")
	}
}

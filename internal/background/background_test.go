package background

import (
	"strings"
	"testing"

	"github.com/yanizio/linkcard/internal/contrast"
)

func TestResolvePageSolid(t *testing.T) {
	got := ResolvePage(Solid{Color: "#ABCDEF"})
	if got.Op != CSS || got.CSS != "background-color: #abcdef;" {
		t.Fatalf("got %+v", got)
	}
	got = ResolvePage(Solid{Color: "nope"})
	if got.CSS != "background-color: #000000;" {
		t.Fatalf("invalid color should use page default, got %q", got.CSS)
	}
}

func TestResolvePageGradient(t *testing.T) {
	got := ResolvePage(Gradient{Colors: []string{"#111111", "#eeeeee"}, Angle: 45})
	if got.Op != CSS {
		t.Fatalf("op = %v", got.Op)
	}
	if !strings.Contains(got.CSS, "linear-gradient(45deg, #111111, #eeeeee)") {
		t.Fatalf("css = %q", got.CSS)
	}
	for _, want := range []string{"cover", "no-repeat", "fixed", "center"} {
		if !strings.Contains(got.CSS, want) {
			t.Errorf("page gradient missing %q", want)
		}
	}
}

func TestGradientStopsCappedAndClamped(t *testing.T) {
	got := ResolvePage(Gradient{
		Colors: []string{"#111", "bad", "#222222", "#333333", "#444444"},
		Angle:  400,
	})
	if !strings.Contains(got.CSS, "linear-gradient(360deg, #111, #222222, #333333)") {
		t.Fatalf("css = %q", got.CSS)
	}
	got = ResolveCard(Gradient{Colors: []string{"#111111", "#222222"}, Angle: -10})
	if got.CSS != "background: linear-gradient(0deg, #111111, #222222);" {
		t.Fatalf("card css = %q", got.CSS)
	}
}

func TestShortGradientEqualsSolid(t *testing.T) {
	cases := []struct {
		colors []string
		solid  string
	}{
		{nil, ""},
		{[]string{}, ""},
		{[]string{"#123456"}, "#123456"},
		{[]string{"#123456", "zzz"}, "#123456"},
		{[]string{"bad"}, ""},
	}
	for _, c := range cases {
		g := Gradient{Colors: c.colors, Angle: 90}
		if got, want := ResolvePage(g), ResolvePage(Solid{Color: c.solid}); got != want {
			t.Errorf("page %v: got %+v want %+v", c.colors, got, want)
		}
		if got, want := ResolveCard(g), ResolveCard(Solid{Color: c.solid}); got != want {
			t.Errorf("card %v: got %+v want %+v", c.colors, got, want)
		}
	}
}

func TestResolvePageImage(t *testing.T) {
	got := ResolvePage(Image{MediaID: 7, URL: "https://cdn.example/a b.jpg"})
	if got.Op != CSS {
		t.Fatalf("op = %v", got.Op)
	}
	if !strings.HasPrefix(got.CSS, `background-image: url("https://cdn.example/a%20b.jpg");`) {
		t.Fatalf("css = %q", got.CSS)
	}
	if got := ResolvePage(Image{MediaID: 7}); got.Op != NoOp {
		t.Fatalf("image without URL should be NoOp, got %v", got.Op)
	}
}

func TestResolvePageCode(t *testing.T) {
	got := ResolvePage(Custom{Code: "<script>alert(1)</script>body{color:red}"})
	if got.Op != Markup || got.Markup != "<style>body{color:red}</style>" {
		t.Fatalf("got %+v", got)
	}
	if got.Sandboxed {
		t.Fatal("custom markup must not be sandboxed")
	}

	got = ResolvePage(Custom{Code: `<div class="x">hi</div>`})
	if got.Markup != `<div class="x">hi</div>` {
		t.Fatalf("element markup wrapped: %q", got.Markup)
	}

	got = ResolvePage(Sandbox{Code: "<canvas></canvas><script>draw()</script>"})
	if got.Op != Markup || !got.Sandboxed || !strings.Contains(got.Markup, "draw()") {
		t.Fatalf("got %+v", got)
	}

	if got := ResolvePage(Custom{Code: "<script>x()</script>"}); got.Op != Clear {
		t.Fatalf("empty result should Clear, got %v", got.Op)
	}
	if got := ResolvePage(Sandbox{Code: "  "}); got.Op != Clear {
		t.Fatalf("blank sandbox should Clear, got %v", got.Op)
	}
}

func TestResolveNil(t *testing.T) {
	if got := ResolvePage(nil); got.Op != NoOp {
		t.Fatalf("page nil = %v", got.Op)
	}
	if got := ResolveCard(nil); got.Op != NoOp {
		t.Fatalf("card nil = %v", got.Op)
	}
}

func TestApplyIdempotent(t *testing.T) {
	prev := Surface{BodyStyle: "background-color: #123456;"}
	for _, b := range []Background{
		Solid{Color: "#fff"},
		Custom{Code: "body{}"},
		Sandbox{Code: "<script>x()</script>"},
		Custom{Code: ""},
		nil,
	} {
		ins := ResolvePage(b)
		once := Apply(prev, ins)
		twice := Apply(once, ins)
		if once != twice {
			t.Errorf("%T: apply not idempotent\n once  %+v\n twice %+v", b, once, twice)
		}
		if n := strings.Count(string(twice.Container), `id="`+ContainerID+`"`); n > 1 {
			t.Errorf("%T: %d containers", b, n)
		}
	}
}

func TestApplyTransitions(t *testing.T) {
	prev := Surface{BodyStyle: "background-color: #123456;"}

	if got := Apply(prev, Instruction{Op: NoOp}); got != prev {
		t.Fatalf("NoOp changed surface: %+v", got)
	}

	s := Apply(prev, ResolvePage(Custom{Code: "body{}"}))
	if s.BodyStyle != "" {
		t.Fatalf("markup should replace body style, got %q", s.BodyStyle)
	}
	c := string(s.Container)
	for _, want := range []string{`aria-hidden="true"`, "pointer-events:none", "position:fixed",
		"z-index:-1", "<style>body{}</style>"} {
		if !strings.Contains(c, want) {
			t.Errorf("container missing %q: %s", want, c)
		}
	}

	cleared := Apply(s, Instruction{Op: Clear})
	if cleared.Container != "" {
		t.Fatalf("clear left container: %s", cleared.Container)
	}

	sb := Render(ResolvePage(Sandbox{Code: `<p class="a">"hi"</p>`}))
	if !strings.Contains(string(sb.Container), `sandbox="allow-scripts"`) ||
		!strings.Contains(string(sb.Container), `srcdoc="&lt;p class=&#34;a&#34;&gt;`) {
		t.Fatalf("sandbox container: %s", sb.Container)
	}
}

func TestCardTheme(t *testing.T) {
	cases := []struct {
		bg    CardBackground
		theme contrast.Theme
		text  string
	}{
		{Solid{Color: "#000000"}, contrast.Dark, contrast.White},
		{Solid{Color: "#ffffff"}, contrast.Light, contrast.Black},
		{Solid{Color: "bad"}, contrast.Light, contrast.Black},
		{Gradient{Colors: []string{"#101010", "#ffffff"}}, contrast.Dark, contrast.White},
		{Gradient{Colors: []string{"#fafafa", "#000000"}}, contrast.Light, contrast.Black},
		{nil, contrast.Light, contrast.Black},
	}
	for _, c := range cases {
		if got := CardTheme(c.bg); got != c.theme {
			t.Errorf("CardTheme(%+v) = %s, want %s", c.bg, got, c.theme)
		}
		if got := CardTextColor(c.bg); got != c.text {
			t.Errorf("CardTextColor(%+v) = %s, want %s", c.bg, got, c.text)
		}
	}
}

func TestCardStyle(t *testing.T) {
	if got := CardStyle(ResolveCard(Solid{Color: "#eee"})); got != "background-color: #eee;" {
		t.Fatalf("got %q", got)
	}
	if got := CardStyle(ResolveCard(nil)); got != "" {
		t.Fatalf("got %q", got)
	}
}

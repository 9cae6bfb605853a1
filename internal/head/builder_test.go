package head

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuilderHTML(t *testing.T) {
	b := New()
	b.SetTitle("Acme & Co")
	b.Description(`Links "here"`)
	b.Favicon("/uploads/a.png")
	b.Style("body{color:red}")
	b.Style("body{color:red}")
	b.Style("   ")
	b.Meta("robots", "noindex")
	b.Property("og:title", "Acme & Co")
	b.Property("og:image", "")

	got := string(b.HTML())
	require.Contains(t, got, "<title>Acme &amp; Co</title>")
	require.Contains(t, got, `<meta name="description" content="Links &#34;here&#34;">`)
	require.Contains(t, got, `<link rel="icon" href="/uploads/a.png">`)
	require.Contains(t, got, `<meta name="robots" content="noindex">`)
	require.Contains(t, got, `<meta property="og:title" content="Acme &amp; Co">`)
	require.NotContains(t, got, "og:image")
	require.Equal(t, 1, strings.Count(got, "<style>"))
	require.Less(t, strings.Index(got, "<title>"), strings.Index(got, "<style>"))
}

func TestStyleCannotCloseElement(t *testing.T) {
	b := New()
	b.Style("a{}</style><script>x()</script>")
	require.Equal(t, 1, strings.Count(string(b.HTML()), "</style>"))
}

func TestEmptyBuilder(t *testing.T) {
	require.Empty(t, New().HTML())
}

func TestConcurrentWriters(t *testing.T) {
	b := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Meta("robots", "noindex")
			b.Style("p{margin:0}")
		}()
	}
	wg.Wait()
	got := string(b.HTML())
	require.Equal(t, 1, strings.Count(got, `name="robots"`))
	require.Equal(t, 1, strings.Count(got, "<style>"))
}

package profile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanizio/linkcard/internal/background"
	"github.com/yanizio/linkcard/internal/sanitize"
)

// memStore is an in-memory Store.
type memStore struct {
	data   map[string][]byte
	getErr error
	putErr error
	puts   int
}

func newMemStore() *memStore { return &memStore{data: map[string][]byte{}} }

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.data[key], nil
}

func (m *memStore) Put(_ context.Context, key string, value []byte) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.puts++
	m.data[key] = value
	return nil
}

// recAliases records ReplaceTarget calls.
type recAliases struct {
	target  string
	aliases []string
	err     error
}

func (r *recAliases) ReplaceTarget(_ context.Context, target string, aliases ...string) error {
	r.target = target
	r.aliases = aliases
	return r.err
}

var testSite = Site{Title: "Acme", BaseURL: "https://acme.example"}

func newTestService(store Store, media MediaLibrary, aliases AliasWriter) *Service {
	return NewService(store, media, aliases, testSite, Options{})
}

func TestServiceLoadDefaults(t *testing.T) {
	svc := newTestService(newMemStore(), nil, nil)
	st, err := svc.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Acme", st.Title)
	require.Equal(t, "Made with link-card", st.FooterText)
}

func TestServiceLoadBadDocumentFallsBack(t *testing.T) {
	store := newMemStore()
	store.data[SettingKey] = []byte(`[1,2`)
	st, err := newTestService(store, nil, nil).Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Acme", st.Title)
}

func TestServiceLoadStoreError(t *testing.T) {
	store := newMemStore()
	store.getErr = errors.New("boom")
	_, err := newTestService(store, nil, nil).Load(context.Background())
	require.Error(t, err)
}

func TestServiceSaveThenViews(t *testing.T) {
	store := newMemStore()
	media := &fakeMedia{ids: map[int64]string{3: "/uploads/acme.example/bg.png", 4: "/uploads/a.png"}}
	svc := newTestService(store, media, nil)
	ctx := context.Background()

	warnings, err := svc.Save(ctx, SaveRequest{
		Tagline:    ptr("Hello"),
		AvatarID:   ptr(int64(4)),
		Background: &BackgroundInput{Type: "image", ImageID: 3},
		Socials:    []SocialInput{{Type: "instagram", Value: "@acme"}, {Type: "email", Value: "hi@acme.example"}},
		Buttons:    []ButtonInput{{Label: "Shop", Value: "shop.acme.example"}},
		CardBackground: &BackgroundInput{Type: "gradient",
			Gradient: &GradientInput{Colors: []string{"#000000", "#ffffff"}}},
	})
	require.NoError(t, err)
	require.NotNil(t, warnings)
	require.Empty(t, warnings)
	require.Equal(t, 1, store.puts)

	pub, err := svc.Public(ctx)
	require.NoError(t, err)
	require.Equal(t, "image", pub.Background.Type)
	require.Equal(t, "/uploads/acme.example/bg.png", pub.Background.ImageURL)
	require.Equal(t, "/uploads/a.png", pub.AvatarURL)
	require.Equal(t, "#000000", pub.CardBackground.Color)
	require.Equal(t, "dark", pub.CardTheme)
	require.Equal(t, "#ffffff", pub.CardTextColor)
	require.Equal(t, "https://instagram.com/acme", pub.Socials[0].URL)
	require.Equal(t, "mailto:hi@acme.example", pub.Socials[1].URL)
	require.Equal(t, "https://shop.acme.example", pub.Buttons[0].URL)
	require.Equal(t, "https://acme.example/", pub.PublicURL)

	adm, err := svc.Admin(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(3), adm.Background.ImageID)
	require.Equal(t, int64(4), adm.Avatar.ID)
	require.Equal(t, "gradient", adm.CardBackground.Type)
	require.Equal(t, "https://acme.example/mm/", adm.AdminURL)
}

func TestServiceSaveStoreError(t *testing.T) {
	store := newMemStore()
	store.putErr = errors.New("read-only")
	_, err := newTestService(store, nil, nil).Save(context.Background(), SaveRequest{Tagline: ptr("x")})
	require.Error(t, err)
}

func TestServiceSaveLastWriteWins(t *testing.T) {
	svc := newTestService(newMemStore(), nil, nil)
	ctx := context.Background()
	_, err := svc.Save(ctx, SaveRequest{Tagline: ptr("first")})
	require.NoError(t, err)
	_, err = svc.Save(ctx, SaveRequest{Tagline: ptr("second")})
	require.NoError(t, err)

	st, err := svc.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "second", st.Tagline)
}

func TestPublicViewOmitsCode(t *testing.T) {
	svc := newTestService(newMemStore(), nil, nil)
	ctx := context.Background()
	code := "<canvas id=\"c\"></canvas><script>draw()</script>"
	_, err := svc.Save(ctx, SaveRequest{
		Background: &BackgroundInput{Type: "sandbox", Sandbox: &CodeInput{Code: sanitize.EncodeBase64(code)}},
		CustomCSS:  ptr(sanitize.EncodeBase64("body{margin:0}")),
	})
	require.NoError(t, err)

	pub, err := svc.Public(ctx)
	require.NoError(t, err)
	require.Equal(t, "sandbox", pub.Background.Type)
	require.Empty(t, pub.Background.ImageURL)

	adm, err := svc.Admin(ctx)
	require.NoError(t, err)
	require.Equal(t, code, sanitize.DecodeBase64(adm.Background.Sandbox.Code))
	require.Equal(t, "body{margin:0}", sanitize.DecodeBase64(adm.CustomCSS))
}

func TestAdminViewEditorTextColor(t *testing.T) {
	s := Defaults(DefaultOptions(), "")
	s.CardBackground = background.Solid{Color: "#808080"}
	v := BuildAdminView(s, testSite)
	require.Equal(t, "#111111", v.CardBackground.EditorTextColor)

	// The public path uses WCAG luminance and disagrees at mid-grey.
	p := BuildPublicView(s, testSite)
	require.Equal(t, "#ffffff", p.CardTextColor)
	require.Equal(t, "dark", p.CardTheme)
}

func TestUpdateAdminSlug(t *testing.T) {
	store := newMemStore()
	aliases := &recAliases{}
	svc := newTestService(store, nil, aliases)

	slug, err := svc.UpdateAdminSlug(context.Background(), "  My Dashboard! ")
	require.NoError(t, err)
	require.Equal(t, "my-dashboard", slug)
	require.Equal(t, AdminTarget, aliases.target)
	require.Equal(t, []string{"/my-dashboard", "/my-dashboard/"}, aliases.aliases)

	st, err := svc.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, "my-dashboard", st.AdminSlug)
}

func TestUpdateAdminSlugRejects(t *testing.T) {
	svc := newTestService(newMemStore(), nil, &recAliases{})
	cases := map[string]error{
		"":         ErrEmptySlug,
		"<b></b>":  ErrEmptySlug,
		"!!!":      ErrInvalidSlug,
		"Admin":    ErrReservedSlug,
		"wp-login": ErrReservedSlug,
	}
	for in, want := range cases {
		_, err := svc.UpdateAdminSlug(context.Background(), in)
		require.ErrorIs(t, err, want, "input %q", in)
		require.True(t, IsSlugError(err))
	}
}

func TestUpdateAdminSlugAliasError(t *testing.T) {
	svc := newTestService(newMemStore(), nil, &recAliases{err: errors.New("tx")})
	_, err := svc.UpdateAdminSlug(context.Background(), "me")
	require.Error(t, err)
	require.False(t, IsSlugError(err))
}

package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type fixedReader struct {
	uid int64
	ok  bool
}

func (f fixedReader) Read(*http.Request) (int64, bool) { return f.uid, f.ok }

func serve(t *testing.T, s SessionReader) (int64, bool) {
	t.Helper()
	var (
		gotID int64
		gotOK bool
	)
	h := Middleware(s)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		gotID, gotOK = UserID(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	return gotID, gotOK
}

func TestMiddlewareAttachesUser(t *testing.T) {
	id, ok := serve(t, fixedReader{uid: 9, ok: true})
	require.True(t, ok)
	require.EqualValues(t, 9, id)
}

func TestMiddlewareAnonymous(t *testing.T) {
	_, ok := serve(t, fixedReader{})
	require.False(t, ok)
}

func TestWithUserIgnoresInvalidIDs(t *testing.T) {
	_, ok := UserID(WithUser(context.Background(), 0))
	require.False(t, ok)

	id, ok := UserID(WithUser(context.Background(), 42))
	require.True(t, ok)
	require.EqualValues(t, 42, id)
}

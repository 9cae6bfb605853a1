// internal/session/session.go
//
// Signed user-session cookie.
//
// Context
//   The host's login flow (out of scope here) calls Issue after credential
//   verification.  Every later request is decoded by auth.Middleware, which
//   attaches the user ID for acl checks.  The cookie carries only the user
//   ID and issue time; it is HMAC-signed with session.hash_key and, when
//   session.block_key is set, AES-encrypted too.
//
// Notes
//   • Keys come from config (often `vault:` references resolved at boot).
//   • A cookie that fails to decode, or is older than MaxAge, reads as
//     "no session"; callers never see codec errors.
//   • Two-space sentence spacing, Oxford comma, terse inline notes.
//
//------------------------------------------------------------------------------

package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
)

const (
	DefaultCookieName = "adept_session"
	DefaultMaxAge     = 14 * 24 * time.Hour
)

// ErrNoHashKey is returned by New when the signing key is empty.
var ErrNoHashKey = errors.New("session: hash key is required")

// Options configures a Codec.
type Options struct {
	CookieName string
	HashKey    []byte
	BlockKey   []byte // optional; enables encryption
	MaxAge     time.Duration
	Now        func() time.Time
}

// Payload is what the cookie stores.
type Payload struct {
	UserID   int64     `json:"uid"`
	IssuedAt time.Time `json:"iat"`
}

// Codec issues, reads, and clears session cookies.
type Codec struct {
	name   string
	maxAge time.Duration
	sc     *securecookie.SecureCookie
	now    func() time.Time
}

// New builds a Codec.
func New(o Options) (*Codec, error) {
	if len(o.HashKey) == 0 {
		return nil, ErrNoHashKey
	}
	if o.CookieName == "" {
		o.CookieName = DefaultCookieName
	}
	if o.MaxAge <= 0 {
		o.MaxAge = DefaultMaxAge
	}
	if o.Now == nil {
		o.Now = time.Now
	}

	var block []byte
	if len(o.BlockKey) > 0 {
		block = o.BlockKey
	}
	sc := securecookie.New(o.HashKey, block)
	sc.SetSerializer(securecookie.JSONEncoder{})
	sc.MaxAge(int(o.MaxAge / time.Second))

	return &Codec{name: o.CookieName, maxAge: o.MaxAge, sc: sc, now: o.Now}, nil
}

// CookieName returns the configured cookie name.
func (c *Codec) CookieName() string { return c.name }

// Issue sets a session cookie for userID.
func (c *Codec) Issue(w http.ResponseWriter, r *http.Request, userID int64) error {
	v, err := c.sc.Encode(c.name, Payload{UserID: userID, IssuedAt: c.now().UTC()})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    v,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(c.maxAge / time.Second),
	})
	return nil
}

// Read returns the user ID stored in the request's cookie.  ok is false
// when the cookie is missing, tampered, or expired.
func (c *Codec) Read(r *http.Request) (userID int64, ok bool) {
	ck, err := r.Cookie(c.name)
	if err != nil || ck.Value == "" {
		return 0, false
	}
	var p Payload
	if err := c.sc.Decode(c.name, ck.Value, &p); err != nil {
		return 0, false
	}
	if p.UserID <= 0 || c.now().Sub(p.IssuedAt) > c.maxAge {
		return 0, false
	}
	return p.UserID, true
}

// Clear expires the session cookie.
func (c *Codec) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

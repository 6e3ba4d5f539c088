package auth

import (
	"net/http"
	"time"
)

// ChannelName returns the cookie name carrying the session credential
// for one role tier. Each tier has its own cookie, so a single client
// can hold a superadmin, an admin and an officer session at the same
// time without one overwriting another.
func ChannelName(role Role) string {
	return "gharbas_" + string(role) + "_session"
}

// SessionChannel binds signed tokens to the client via per-role
// HTTP-only cookies. Clearing a channel is logout; it does not
// invalidate the token server-side, tokens stay valid until expiry.
type SessionChannel struct {
	// Secure marks cookies as HTTPS-only. Off by default so local
	// development over plain HTTP keeps working.
	Secure bool
	// TTL is the cookie max-age; zero means DefaultTokenTTL.
	TTL time.Duration
}

// Set writes the signed token into the role's channel.
func (c SessionChannel) Set(w http.ResponseWriter, role Role, token string) {
	ttl := c.TTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	http.SetCookie(w, &http.Cookie{
		Name:     ChannelName(role),
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Get reads the signed token from the role's channel, if present.
func (c SessionChannel) Get(r *http.Request, role Role) (string, bool) {
	cookie, err := r.Cookie(ChannelName(role))
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// Clear removes the role's channel. Other role channels on the same
// client are untouched.
func (c SessionChannel) Clear(w http.ResponseWriter, role Role) {
	http.SetCookie(w, &http.Cookie{
		Name:     ChannelName(role),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

package web

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCookieCodecRoundTrip(t *testing.T) {
	codec := newCookieCodec("secret", time.Hour, false)

	rec := httptest.NewRecorder()
	codec.writeToken(rec, "token-123")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, sessionCookieName, cookie.Name)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, int(time.Hour.Seconds()), cookie.MaxAge)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookie)
	token, ok := codec.readToken(r)
	require.True(t, ok)
	assert.Equal(t, "token-123", token)
}

func TestCookieCodecRejectsTampering(t *testing.T) {
	codec := newCookieCodec("secret", time.Hour, false)

	signed := codec.sign("token-123")

	_, ok := codec.verify("other-token" + signed[len("token-123"):])
	assert.False(t, ok)

	_, ok = codec.verify("token-123")
	assert.False(t, ok, "value without a signature must be rejected")

	_, ok = codec.verify("")
	assert.False(t, ok)

	// A cookie signed under a different secret does not verify.
	other := newCookieCodec("another-secret", time.Hour, false)
	_, ok = other.verify(signed)
	assert.False(t, ok)
}

func TestCookieCodecClear(t *testing.T) {
	codec := newCookieCodec("secret", time.Hour, false)

	rec := httptest.NewRecorder()
	codec.clear(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

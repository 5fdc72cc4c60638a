package device

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requestWithCookies builds a request carrying the cookies a recorder captured
func requestWithCookies(t *testing.T, rec *httptest.ResponseRecorder) *http.Request {
	t.Helper()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range rec.Result().Cookies() {
		r.AddCookie(cookie)
	}
	return r
}

func TestRememberAndReadSecret(t *testing.T) {
	store := NewStore(DefaultStoreOptions())

	rec := httptest.NewRecorder()
	err := store.RememberSecret(rec, "user-secret")
	require.NoError(t, err)

	secret, ok := store.ReadSecret(requestWithCookies(t, rec))
	require.True(t, ok)
	assert.Equal(t, "user-secret", secret)
}

func TestRememberSetsCookieAttributes(t *testing.T) {
	store := NewStore(StoreOptions{
		CookieName: "TrustedDevice",
		HttpOnly:   true,
		Expiry:     30 * 24 * time.Hour,
	})

	rec := httptest.NewRecorder()
	require.NoError(t, store.RememberSecret(rec, "user-secret"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]

	assert.Equal(t, "TrustedDevice", cookie.Name)
	assert.True(t, cookie.HttpOnly)
	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), cookie.Expires, time.Minute)
}

func TestReadSecretMissingCookie(t *testing.T) {
	store := NewStore(DefaultStoreOptions())

	_, ok := store.ReadSecret(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, ok)
}

func TestReadSecretMalformedCookie(t *testing.T) {
	store := NewStore(DefaultStoreOptions())

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: "not valid base64 ~~~"})
	_, ok := store.ReadSecret(r)
	assert.False(t, ok)

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{
		Name:  DefaultCookieName,
		Value: base64.RawURLEncoding.EncodeToString([]byte("not json")),
	})
	_, ok = store.ReadSecret(r)
	assert.False(t, ok)
}

func TestRememberOverwritesPriorValue(t *testing.T) {
	store := NewStore(DefaultStoreOptions())

	rec := httptest.NewRecorder()
	require.NoError(t, store.RememberSecret(rec, "old-secret"))

	rec = httptest.NewRecorder()
	require.NoError(t, store.RememberSecret(rec, "new-secret"))

	secret, ok := store.ReadSecret(requestWithCookies(t, rec))
	require.True(t, ok)
	assert.Equal(t, "new-secret", secret)
}

func TestRememberEmptySecretFails(t *testing.T) {
	store := NewStore(DefaultStoreOptions())

	rec := httptest.NewRecorder()
	assert.Error(t, store.RememberSecret(rec, ""))
}

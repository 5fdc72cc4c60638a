package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stepup-idm/stepup-idm/pkg/authflow"
	"github.com/stepup-idm/stepup-idm/pkg/credstage"
	"github.com/stepup-idm/stepup-idm/pkg/device"
	"github.com/stepup-idm/stepup-idm/pkg/encryption"
	"github.com/stepup-idm/stepup-idm/pkg/login"
	"github.com/stepup-idm/stepup-idm/pkg/session"
	"github.com/stepup-idm/stepup-idm/pkg/token"
	"github.com/stepup-idm/stepup-idm/pkg/twofa"
)

// staticCodeVerifier accepts a single known code
type staticCodeVerifier struct {
	valid string
}

func (v staticCodeVerifier) VerifyCode(secret, code string) bool {
	return code == v.valid
}

func newTestServer(t *testing.T, rememberEnabled bool) *httptest.Server {
	t.Helper()

	store := session.NewInMemStore(time.Hour)
	encryptionService, err := encryption.NewEncryptionService("test-encryption-key-32-characters")
	require.NoError(t, err)
	staging, err := credstage.NewService(store, encryptionService)
	require.NoError(t, err)
	verifier, err := twofa.NewVerifier(staticCodeVerifier{valid: "123456"})
	require.NoError(t, err)

	loginService := login.NewLoginService(login.NewInMemLoginRepository())
	_, err = loginService.RegisterUser(context.Background(), login.RegisterUserParams{
		Username: "alice",
		Password: "correct-horse",
		Email:    "alice@example.com",
		Secret:   "alice-totp-secret",
	})
	require.NoError(t, err)
	_, err = loginService.RegisterUser(context.Background(), login.RegisterUserParams{
		Username: "bob",
		Password: "correct-horse",
		Email:    "bob@example.com",
	})
	require.NoError(t, err)

	flow, err := authflow.NewFlow(loginService, staging, verifier,
		authflow.WithRememberEnabled(rememberEnabled))
	require.NoError(t, err)

	tokens, err := token.NewService("test-signing-secret")
	require.NoError(t, err)

	handle := NewHandle(flow, staging,
		session.NewManager("session_id", false),
		session.NewFlash(store),
		device.NewStore(device.DefaultStoreOptions()),
		tokens)

	r := chi.NewRouter()
	handle.Routes(r)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

func newTestClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func postJSON(t *testing.T, client *http.Client, url string, body any) (*http.Response, LoginResponse) {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := client.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded LoginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestPostLoginWrongPassword(t *testing.T) {
	server := newTestServer(t, false)
	client := newTestClient(t)

	resp, body := postJSON(t, client, server.URL+"/login", LoginRequest{
		Username: "alice",
		Password: "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, statusFailed, body.Status)
	assert.Nil(t, body.User)
}

func TestPostLoginUserWithoutSecret(t *testing.T) {
	server := newTestServer(t, false)
	client := newTestClient(t)

	resp, body := postJSON(t, client, server.URL+"/login", LoginRequest{
		Username: "bob",
		Password: "correct-horse",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, statusSuccess, body.Status)
	require.NotNil(t, body.User)
	assert.Equal(t, "bob", body.User.Username)

	cookies := cookiesByName(resp)
	assert.Contains(t, cookies, token.AccessTokenName)
}

func TestTwoStepLoginRoundTrip(t *testing.T) {
	server := newTestServer(t, false)
	client := newTestClient(t)

	// First leg: primary credentials only.
	resp, body := postJSON(t, client, server.URL+"/login", LoginRequest{
		Username: "alice",
		Password: "correct-horse",
	})
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, statusTwoFactorRequired, body.Status)
	assert.Equal(t, "/users/verify", body.RedirectURL)
	assert.Empty(t, body.Message)

	// The step-up page knows a login is pending.
	getResp, err := client.Get(server.URL + "/users/verify")
	require.NoError(t, err)
	getResp.Body.Close()
	assert.Equal(t, http.StatusOK, getResp.StatusCode)

	// Second leg: wrong code first.
	resp, body = postJSON(t, client, server.URL+"/users/verify", VerifyRequest{Code: "000000"})
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, authflow.InvalidCodeMessage, body.Message)

	// The flash follows the redirect back to the step-up page, once.
	getResp, err = client.Get(server.URL + "/users/verify")
	require.NoError(t, err)
	var flashed LoginResponse
	require.NoError(t, json.NewDecoder(getResp.Body).Decode(&flashed))
	getResp.Body.Close()
	assert.Equal(t, authflow.InvalidCodeMessage, flashed.Message)

	getResp, err = client.Get(server.URL + "/users/verify")
	require.NoError(t, err)
	flashed = LoginResponse{}
	require.NoError(t, json.NewDecoder(getResp.Body).Decode(&flashed))
	getResp.Body.Close()
	assert.Empty(t, flashed.Message, "flash is consumed on read")

	// Then the right one.
	resp, body = postJSON(t, client, server.URL+"/users/verify", VerifyRequest{Code: "123456"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, statusSuccess, body.Status)
	require.NotNil(t, body.User)
	assert.Equal(t, "alice", body.User.Username)

	cookies := cookiesByName(resp)
	assert.Contains(t, cookies, token.AccessTokenName)
	assert.NotContains(t, cookies, device.DefaultCookieName, "no remember opt-in, no device cookie")
}

func TestRememberDeviceSkipsSecondFactor(t *testing.T) {
	server := newTestServer(t, true)
	client := newTestClient(t)

	// Full two-step login with the remember opt-in.
	_, body := postJSON(t, client, server.URL+"/login", LoginRequest{
		Username: "alice",
		Password: "correct-horse",
	})
	require.Equal(t, statusTwoFactorRequired, body.Status)

	resp, body := postJSON(t, client, server.URL+"/users/verify", VerifyRequest{
		Code:     "123456",
		Remember: true,
	})
	require.Equal(t, statusSuccess, body.Status)
	require.Contains(t, cookiesByName(resp), device.DefaultCookieName)

	// Next login from the same client skips the code step entirely.
	resp, body = postJSON(t, client, server.URL+"/login", LoginRequest{
		Username: "alice",
		Password: "correct-horse",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, statusSuccess, body.Status)
}

func TestGetVerifyWithoutPendingLogin(t *testing.T) {
	server := newTestServer(t, false)
	client := newTestClient(t)

	resp, err := client.Get(server.URL + "/users/verify")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPostLoginMalformedBody(t *testing.T) {
	server := newTestServer(t, false)
	client := newTestClient(t)

	resp, err := client.Post(server.URL+"/login", "application/json", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func cookiesByName(resp *http.Response) map[string]*http.Cookie {
	cookies := make(map[string]*http.Cookie)
	for _, c := range resp.Cookies() {
		cookies[c.Name] = c
	}
	return cookies
}

package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"aicd-directory/pkg/config"
)

func TestLoginSuccessIssuesSessionCookie(t *testing.T) {
	r, _ := newTestRouter(&stubStore{})
	setTestCredentials(t)

	rec := doJSON(r, http.MethodPost, "/api/auth/login",
		[]byte(`{"username":"admin","password":"secret"}`), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.True(t, cookies[0].HttpOnly)

	check := doJSON(r, http.MethodGet, "/api/auth/check", nil, cookies)
	require.Equal(t, http.StatusOK, check.Code)
	var resp map[string]interface{}
	decodeBody(t, check, &resp)
	assert.Equal(t, true, resp["authenticated"])
	assert.Equal(t, "admin", resp["username"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	r, _ := newTestRouter(&stubStore{})
	setTestCredentials(t)

	for _, body := range []string{
		`{"username":"admin","password":"wrong"}`,
		`{"username":"someone","password":"secret"}`,
	} {
		rec := doJSON(r, http.MethodPost, "/api/auth/login", []byte(body), nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, body)
	}
}

func TestLoginRejectsMissingFields(t *testing.T) {
	r, _ := newTestRouter(&stubStore{})
	setTestCredentials(t)

	rec := doJSON(r, http.MethodPost, "/api/auth/login", []byte(`{"username":"admin"}`), nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginWithBcryptHash(t *testing.T) {
	r, _ := newTestRouter(&stubStore{})
	setTestCredentials(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	config.AdminPasswordHash = string(hash)

	rec := doJSON(r, http.MethodPost, "/api/auth/login",
		[]byte(`{"username":"admin","password":"hunter2"}`), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// The hash takes precedence over the plaintext password.
	rec = doJSON(r, http.MethodPost, "/api/auth/login",
		[]byte(`{"username":"admin","password":"secret"}`), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEmptyConfiguredPasswordNeverMatches(t *testing.T) {
	r, _ := newTestRouter(&stubStore{})
	setTestCredentials(t)
	config.AdminPassword = ""

	rec := doJSON(r, http.MethodPost, "/api/auth/login",
		[]byte(`{"username":"admin","password":""}`), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code) // empty password fails binding

	rec = doJSON(r, http.MethodPost, "/api/auth/login",
		[]byte(`{"username":"admin","password":"anything"}`), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutClearsSession(t *testing.T) {
	r, _ := newTestRouter(&stubStore{})
	cookies := login(t, r)

	out := doJSON(r, http.MethodPost, "/api/auth/logout", nil, cookies)
	require.Equal(t, http.StatusOK, out.Code)

	// The logout response carries the replacement (cleared) cookie.
	cleared := out.Result().Cookies()
	require.NotEmpty(t, cleared)

	check := doJSON(r, http.MethodGet, "/api/auth/check", nil, cleared)
	assert.Equal(t, http.StatusUnauthorized, check.Code)
}

func TestCheckWithoutSession(t *testing.T) {
	r, _ := newTestRouter(&stubStore{})

	rec := doJSON(r, http.MethodGet, "/api/auth/check", nil, nil)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	var resp map[string]interface{}
	decodeBody(t, rec, &resp)
	assert.Equal(t, false, resp["authenticated"])
}

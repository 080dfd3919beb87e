package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"aicd-directory/pkg/config"
	"aicd-directory/pkg/models"
	"aicd-directory/pkg/services"
	"aicd-directory/pkg/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubStore is a call-counting Store double.
type stubStore struct {
	sections   []models.Section
	fallback   []models.Section // returned alongside loadErr
	degraded   bool
	loadErr    error
	replaceErr error

	// degradeOnReplace mimics the connection dying between the base load
	// and the write: the write is accepted but the store ends up degraded.
	degradeOnReplace bool

	loadCalls    int
	replaceCalls int
}

func (s *stubStore) Load(context.Context) ([]models.Section, error) {
	s.loadCalls++
	if s.loadErr != nil {
		return s.fallback, s.loadErr
	}
	return models.NormalizeSections(s.sections), nil
}

func (s *stubStore) Replace(_ context.Context, sections []models.Section) error {
	s.replaceCalls++
	if s.replaceErr != nil {
		return s.replaceErr
	}
	if s.degradeOnReplace {
		s.degraded = true
	}
	s.sections = models.NormalizeSections(sections)
	return nil
}

func (s *stubStore) Degraded() bool { return s.degraded }

func (s *stubStore) Close(context.Context) error { return nil }

func newTestRouter(store storage.Store) (*gin.Engine, *services.Notifier) {
	notifier := services.NewNotifier(zap.NewNop())

	r := gin.New()
	cookieStore := cookie.NewStore([]byte("test-session-secret"))
	cookieStore.Options(sessions.Options{Path: "/", MaxAge: 3600, HttpOnly: true})
	r.Use(sessions.Sessions("admin_session", cookieStore))
	r.Use(RequestID())
	New(store, notifier, zap.NewNop()).Register(r)
	return r, notifier
}

func setTestCredentials(t *testing.T) {
	t.Helper()
	prevUser, prevPass, prevHash := config.AdminUsername, config.AdminPassword, config.AdminPasswordHash
	config.AdminUsername = "admin"
	config.AdminPassword = "secret"
	config.AdminPasswordHash = ""
	t.Cleanup(func() {
		config.AdminUsername, config.AdminPassword, config.AdminPasswordHash = prevUser, prevPass, prevHash
	})
}

// login performs a real login request and returns the session cookies to
// attach to subsequent requests.
func login(t *testing.T, r *gin.Engine) []*http.Cookie {
	t.Helper()
	setTestCredentials(t)

	rec := doJSON(r, http.MethodPost, "/api/auth/login",
		[]byte(`{"username":"admin","password":"secret"}`), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func doJSON(r *gin.Engine, method, path string, body []byte, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

type sectionsResponse struct {
	Success   bool             `json:"success"`
	Sections  []models.Section `json:"sections"`
	Degraded  bool             `json:"degraded"`
	Message   string           `json:"message"`
	Warning   string           `json:"warning"`
	RequestID string           `json:"requestId"`
}

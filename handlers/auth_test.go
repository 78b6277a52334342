package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/Nitish36/RR-Solutions-Inspection-Portal/internal/accounts"
	"github.com/Nitish36/RR-Solutions-Inspection-Portal/internal/certificates"
	certrepo "github.com/Nitish36/RR-Solutions-Inspection-Portal/internal/certificates/repository"
	"github.com/Nitish36/RR-Solutions-Inspection-Portal/internal/config"
	"github.com/Nitish36/RR-Solutions-Inspection-Portal/internal/sessions"
	"github.com/Nitish36/RR-Solutions-Inspection-Portal/internal/storage"
	"github.com/Nitish36/RR-Solutions-Inspection-Portal/pkg/middleware"
)

type testEnv struct {
	router      *gin.Engine
	accountsSvc *accounts.Service
	sessionsSvc *sessions.Service
	certsSvc    *certificates.Service
	certHandler *CertificateHandler
}

func newTestEnv(t *testing.T, openRegistration bool) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.Auth.OpenRegistration = openRegistration
	cfg.Auth.AdminUsername = "admin"
	cfg.Auth.SessionTTL = time.Hour
	cfg.Server.PublicURL = "http://localhost:5000"

	acctSvc := accounts.NewService(accounts.NewMemoryRepository(), cfg.Auth.AdminUsername)
	sessSvc := sessions.NewService(sessions.NewMemoryRepository())
	certSvc := certificates.NewService(certrepo.NewMemoryRepo())
	store, err := storage.NewFSStore(t.TempDir())
	require.NoError(t, err)

	r := gin.New()
	api := r.Group("/api")
	NewAuthHandler(cfg, acctSvc, sessSvc).Register(api)
	ch := NewCertificateHandler(cfg, certSvc, acctSvc, store)
	ch.Register(api, middleware.SessionAuth(sessSvc))
	ch.RegisterPublic(&r.RouterGroup)

	return &testEnv{router: r, accountsSvc: acctSvc, sessionsSvc: sessSvc, certsSvc: certSvc, certHandler: ch}
}

// login issues a session over HTTP and returns the bearer token.
func (e *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/session", strings.NewReader(`{"username":"`+username+`","password":"`+password+`"}`))
	req.Header.Set("Content-Type", "application/json")
	e.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	token, _ := resp["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func (e *testEnv) do(method, path, token string, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	e.router.ServeHTTP(w, req)
	return w
}

func TestCreateAccount_AdminGated(t *testing.T) {
	env := newTestEnv(t, false)
	_, err := env.accountsSvc.Create(context.Background(), "admin", "rootpw")
	require.NoError(t, err)
	_, err = env.accountsSvc.Create(context.Background(), "siteop", "oppw")
	require.NoError(t, err)

	// no token
	w := env.do(http.MethodPost, "/api/accounts", "", `{"username":"newuser","password":"pw"}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// non-admin token
	opToken := env.login(t, "siteop", "oppw")
	w = env.do(http.MethodPost, "/api/accounts", opToken, `{"username":"newuser","password":"pw"}`)
	require.Equal(t, http.StatusForbidden, w.Code)

	// admin token
	adminToken := env.login(t, "admin", "rootpw")
	w = env.do(http.MethodPost, "/api/accounts", adminToken, `{"username":"newuser","password":"pw"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "newuser", resp["account"]["username"])
	require.Equal(t, false, resp["account"]["admin"])

	// duplicate username
	w = env.do(http.MethodPost, "/api/accounts", adminToken, `{"username":"newuser","password":"other"}`)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateAccount_OpenRegistration(t *testing.T) {
	env := newTestEnv(t, true)

	w := env.do(http.MethodPost, "/api/accounts", "", `{"username":"walkin","password":"pw"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	// missing fields still rejected
	w = env.do(http.MethodPost, "/api/accounts", "", `{"username":"nopass"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionLifecycle(t *testing.T) {
	env := newTestEnv(t, true)
	_, err := env.accountsSvc.Create(context.Background(), "siteop", "oppw")
	require.NoError(t, err)

	// wrong password
	w := env.do(http.MethodPost, "/api/session", "", `{"username":"siteop","password":"wrong"}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// unknown user gets the same answer
	w = env.do(http.MethodPost, "/api/session", "", `{"username":"ghost","password":"wrong"}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	token := env.login(t, "siteop", "oppw")

	// identity with a live session
	w = env.do(http.MethodGet, "/api/session", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	var ident map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ident))
	require.Equal(t, true, ident["authenticated"])
	acct := ident["account"].(map[string]any)
	require.Equal(t, "siteop", acct["username"])

	// identity without a token is still a 200
	w = env.do(http.MethodGet, "/api/session", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	ident = map[string]any{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ident))
	require.Equal(t, false, ident["authenticated"])

	// logout kills the session
	w = env.do(http.MethodDelete, "/api/session", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(http.MethodGet, "/api/session", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	ident = map[string]any{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ident))
	require.Equal(t, false, ident["authenticated"])
}

func TestLogout_RequiresToken(t *testing.T) {
	env := newTestEnv(t, true)
	w := env.do(http.MethodDelete, "/api/session", "", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

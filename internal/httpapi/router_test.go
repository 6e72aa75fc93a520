package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gormsqlite "github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/suPer8Hu/gopherchat/internal/ai"
	"github.com/suPer8Hu/gopherchat/internal/chat"
	"github.com/suPer8Hu/gopherchat/internal/config"
	"github.com/suPer8Hu/gopherchat/internal/models"
	"github.com/suPer8Hu/gopherchat/internal/users"
)

type providerFunc func(ctx context.Context, prompt string) (string, error)

func (f providerFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

func testConfig() config.Config {
	return config.Config{
		Port:              "0",
		JWTSecret:         "router-test-secret",
		TokenTTL:          time.Hour,
		CookieName:        "auth_token",
		AllowedOrigins:    []string{"http://localhost:5173"},
		InferenceProvider: "fake",
		InferenceTimeout:  5 * time.Second,
	}
}

func newTestServer(t *testing.T, p ai.Provider) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(gormsqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &chat.Turn{}))

	registry := ai.NewRegistry()
	registry.Register("fake", func(ctx context.Context) (ai.Provider, error) {
		return p, nil
	})

	cfg := testConfig()
	userSvc := users.NewService(users.NewRepo(db), nil)
	chatSvc := chat.NewService(chat.NewRepo(db), registry, cfg.InferenceProvider)

	srv := httptest.NewServer(NewRouter(cfg, userSvc, chatSvc, nil))
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func doJSON(t *testing.T, c *http.Client, method, url string, body any) (int, map[string]json.RawMessage) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]json.RawMessage{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func str(t *testing.T, raw json.RawMessage) string {
	t.Helper()
	var s string
	require.NoError(t, json.Unmarshal(raw, &s))
	return s
}

func turns(t *testing.T, raw json.RawMessage) []chat.Turn {
	t.Helper()
	var ts []chat.Turn
	require.NoError(t, json.Unmarshal(raw, &ts))
	return ts
}

func TestSessionLifecycle(t *testing.T) {
	echo := providerFunc(func(ctx context.Context, prompt string) (string, error) {
		return prompt + " Hi Ann, nice to meet you.", nil
	})
	srv := newTestServer(t, echo)
	client := newClient(t)

	// signup sets the session cookie and returns the profile
	code, body := doJSON(t, client, http.MethodPost, srv.URL+"/api/v1/user/signup",
		gin.H{"name": "Ann", "email": "ann@x.com", "password": "pw123456"})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "OK", str(t, body["message"]))
	assert.Equal(t, "Ann", str(t, body["name"]))
	assert.Equal(t, "ann@x.com", str(t, body["email"]))

	// the cookie from signup authenticates auth-status
	code, body = doJSON(t, client, http.MethodGet, srv.URL+"/api/v1/user/auth-status", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ann@x.com", str(t, body["email"]))

	// duplicate signup is a conflict
	code, body = doJSON(t, client, http.MethodPost, srv.URL+"/api/v1/user/signup",
		gin.H{"name": "Ann", "email": "ann@x.com", "password": "pw123456"})
	require.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "User already registered", str(t, body["message"]))

	// wrong password
	code, body = doJSON(t, client, http.MethodPost, srv.URL+"/api/v1/user/login",
		gin.H{"email": "ann@x.com", "password": "wrong-password"})
	require.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Incorrect Password", str(t, body["message"]))

	// unknown email
	code, body = doJSON(t, client, http.MethodPost, srv.URL+"/api/v1/user/login",
		gin.H{"email": "ghost@x.com", "password": "pw123456"})
	require.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "User not registered", str(t, body["message"]))

	// correct login reissues the cookie
	code, body = doJSON(t, client, http.MethodPost, srv.URL+"/api/v1/user/login",
		gin.H{"email": "ann@x.com", "password": "pw123456"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "OK", str(t, body["message"]))

	// send a message, get the full transcript back
	code, body = doJSON(t, client, http.MethodPost, srv.URL+"/api/v1/chat/new",
		gin.H{"message": "hello"})
	require.Equal(t, http.StatusOK, code)
	ts := turns(t, body["chats"])
	require.Len(t, ts, 2)
	assert.Equal(t, chat.RoleUser, ts[0].Role)
	assert.Equal(t, "hello", ts[0].Content)
	assert.Equal(t, chat.RoleAssistant, ts[1].Role)
	assert.Equal(t, "Hi Ann, nice to meet you.", ts[1].Content)

	// history round-trips
	code, body = doJSON(t, client, http.MethodGet, srv.URL+"/api/v1/chat/all-chats", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, turns(t, body["chats"]), 2)

	// clear empties it
	code, body = doJSON(t, client, http.MethodDelete, srv.URL+"/api/v1/chat/delete", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "OK", str(t, body["message"]))

	code, body = doJSON(t, client, http.MethodGet, srv.URL+"/api/v1/chat/all-chats", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, turns(t, body["chats"]), 0)

	// logout expires the cookie; subsequent calls are unauthenticated
	code, _ = doJSON(t, client, http.MethodGet, srv.URL+"/api/v1/user/logout", nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = doJSON(t, client, http.MethodGet, srv.URL+"/api/v1/user/auth-status", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestAuthGuards(t *testing.T) {
	srv := newTestServer(t, providerFunc(func(ctx context.Context, prompt string) (string, error) {
		return "unused", nil
	}))

	// no cookie at all
	client := newClient(t)
	code, body := doJSON(t, client, http.MethodGet, srv.URL+"/api/v1/chat/all-chats", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Token Not Received", str(t, body["message"]))

	// garbage token
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/chat/all-chats", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: "not-a-jwt"})
	resp, err := http.DefaultTransport.RoundTrip(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// a rejected token gets its cookie cleared
	cleared := false
	for _, ck := range resp.Cookies() {
		if ck.Name == "auth_token" && ck.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "expected the invalid cookie to be expired in the response")
}

func TestBlankMessageRejected(t *testing.T) {
	srv := newTestServer(t, providerFunc(func(ctx context.Context, prompt string) (string, error) {
		return "unused", nil
	}))
	client := newClient(t)

	code, _ := doJSON(t, client, http.MethodPost, srv.URL+"/api/v1/user/signup",
		gin.H{"name": "Bob", "email": "bob@x.com", "password": "pw123456"})
	require.Equal(t, http.StatusCreated, code)

	for _, msg := range []string{"", "   "} {
		code, body := doJSON(t, client, http.MethodPost, srv.URL+"/api/v1/chat/new",
			gin.H{"message": msg})
		assert.Equal(t, http.StatusBadRequest, code, "message %q", msg)
		assert.Equal(t, "Message is required", str(t, body["message"]))
	}
}

func TestGatewayFailureFallsBack(t *testing.T) {
	broken := providerFunc(func(ctx context.Context, prompt string) (string, error) {
		return "", fmt.Errorf("upstream unavailable")
	})
	srv := newTestServer(t, broken)
	client := newClient(t)

	code, _ := doJSON(t, client, http.MethodPost, srv.URL+"/api/v1/user/signup",
		gin.H{"name": "Cat", "email": "cat@x.com", "password": "pw123456"})
	require.Equal(t, http.StatusCreated, code)

	// the chat still answers 200 with a canned reply
	code, body := doJSON(t, client, http.MethodPost, srv.URL+"/api/v1/chat/new",
		gin.H{"message": "hello"})
	require.Equal(t, http.StatusOK, code)
	ts := turns(t, body["chats"])
	require.Len(t, ts, 2)
	assert.Equal(t, "Hello there! How can I help you today?", ts[1].Content)
}

func TestGatewayTimeoutFallsBack(t *testing.T) {
	slow := providerFunc(func(ctx context.Context, prompt string) (string, error) {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(5 * time.Second):
			return "too late", nil
		}
	})

	gin.SetMode(gin.TestMode)
	db, err := gorm.Open(gormsqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &chat.Turn{}))

	registry := ai.NewRegistry()
	registry.Register("fake", func(ctx context.Context) (ai.Provider, error) {
		return slow, nil
	})

	cfg := testConfig()
	userSvc := users.NewService(users.NewRepo(db), nil)
	chatSvc := chat.NewService(chat.NewRepo(db), registry, cfg.InferenceProvider,
		chat.WithTimeout(50*time.Millisecond))

	srv := httptest.NewServer(NewRouter(cfg, userSvc, chatSvc, nil))
	t.Cleanup(srv.Close)
	client := newClient(t)

	code, _ := doJSON(t, client, http.MethodPost, srv.URL+"/api/v1/user/signup",
		gin.H{"name": "Dee", "email": "dee@x.com", "password": "pw123456"})
	require.Equal(t, http.StatusCreated, code)

	code, body := doJSON(t, client, http.MethodPost, srv.URL+"/api/v1/chat/new",
		gin.H{"message": "what is 2 + 2"})
	require.Equal(t, http.StatusOK, code)
	ts := turns(t, body["chats"])
	require.Len(t, ts, 2)
	assert.Equal(t, "The sum of 2 and 2 is 4.", ts[1].Content)
}

func TestHealthAndReadiness(t *testing.T) {
	srv := newTestServer(t, providerFunc(func(ctx context.Context, prompt string) (string, error) {
		return "unused", nil
	}))

	for _, path := range []string{"/ping", "/health", "/ready"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}

	resp, err := http.Get(srv.URL + "/nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

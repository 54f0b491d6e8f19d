package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"Mandrel/internal/store"
)

func testService(t *testing.T) *Service {
	t.Helper()
	s, err := store.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return &Service{JWTKey: []byte("test-key"), Store: s}
}

func register(t *testing.T, svc *Service, login string) *http.Cookie {
	t.Helper()
	body := `{"login":"` + login + `","email":"` + login + `@example.com","password":"hunter22"}`
	req := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	svc.Register(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	for _, c := range rec.Result().Cookies() {
		if c.Name == "session_token" {
			return c
		}
	}
	t.Fatal("no session cookie issued")
	return nil
}

func TestRegisterIssuesSessionCookie(t *testing.T) {
	svc := testService(t)
	cookie := register(t, svc, "ada")

	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)

	token, err := jwt.Parse(cookie.Value, func(t *jwt.Token) (interface{}, error) {
		return svc.JWTKey, nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "ada", claims["login"])
	assert.Equal(t, float64(1), claims["user_id"])
}

func TestRegisterDuplicateConflicts(t *testing.T) {
	svc := testService(t)
	register(t, svc, "ada")

	body := `{"login":"ada","email":"other@example.com","password":"hunter22"}`
	req := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	svc.Register(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already exists")
}

func TestRegisterValidatesPayload(t *testing.T) {
	svc := testService(t)

	body := `{"login":"ada","password":"hunter22"}`
	req := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	svc.Register(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "email")
}

func TestLogin(t *testing.T) {
	svc := testService(t)
	register(t, svc, "ada")

	t.Run("correct password", func(t *testing.T) {
		body := `{"login":"ada","password":"hunter22"}`
		req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body))
		rec := httptest.NewRecorder()
		svc.Login(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.NotEmpty(t, rec.Result().Cookies())
	})

	t.Run("wrong password", func(t *testing.T) {
		body := `{"login":"ada","password":"wrong-pass"}`
		req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body))
		rec := httptest.NewRecorder()
		svc.Login(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid login or password")
	})

	t.Run("unknown user", func(t *testing.T) {
		body := `{"login":"nobody","password":"hunter22"}`
		req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body))
		rec := httptest.NewRecorder()
		svc.Login(rec, req)

		// same answer as a bad password, do not leak which logins exist
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid login or password")
	})
}

func TestMiddleware(t *testing.T) {
	svc := testService(t)
	cookie := register(t, svc, "ada")

	protected := svc.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserID(r.Context())
		require.True(t, ok)
		login, ok := UserLogin(r.Context())
		require.True(t, ok)
		assert.Equal(t, 1, id)
		assert.Equal(t, "ada", login)
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("valid session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/designs", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("no cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/designs", nil)
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "authentication required")
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/designs", nil)
		req.AddCookie(&http.Cookie{Name: "session_token", Value: "not-a-jwt"})
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id": 1.0,
			"login":   "ada",
			"exp":     time.Now().Add(time.Hour).Unix(),
		})
		signed, err := tok.SignedString([]byte("other-key"))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/designs", nil)
		req.AddCookie(&http.Cookie{Name: "session_token", Value: signed})
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id": 1.0,
			"login":   "ada",
			"exp":     time.Now().Add(-time.Hour).Unix(),
		})
		signed, err := tok.SignedString(svc.JWTKey)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/designs", nil)
		req.AddCookie(&http.Cookie{Name: "session_token", Value: signed})
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestLogoutDropsCookie(t *testing.T) {
	svc := testService(t)

	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	rec := httptest.NewRecorder()
	svc.Logout(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "session_token", cookies[0].Name)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestIPRateLimiter(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(1), 2)
	handler := limiter.LimitMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	hit := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, hit("10.0.0.1:1000"))
	assert.Equal(t, http.StatusNoContent, hit("10.0.0.1:1000"))
	// burst of 2 exhausted
	assert.Equal(t, http.StatusTooManyRequests, hit("10.0.0.1:1000"))
	// other addresses keep their own bucket
	assert.Equal(t, http.StatusNoContent, hit("10.0.0.2:1000"))
}

// Package auth issues session cookies and guards the protected API routes.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"Mandrel/internal/api"
	"Mandrel/internal/fwerr"
	"Mandrel/internal/store"
)

const (
	sessionCookie = "session_token"
	tokenTTL      = 24 * time.Hour
)

type contextKey string

const (
	userIDKey    contextKey = "userID"
	userLoginKey contextKey = "userLogin"
)

// Service owns the signing key and the user store.
type Service struct {
	JWTKey []byte
	Store  store.Store
}

// WithUser returns a context carrying the authenticated identity.
func WithUser(ctx context.Context, id int, login string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, id)
	return context.WithValue(ctx, userLoginKey, login)
}

// UserID extracts the authenticated user from a request context.
func UserID(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(userIDKey).(int)
	return id, ok
}

// UserLogin extracts the authenticated login from a request context.
func UserLogin(ctx context.Context) (string, bool) {
	login, ok := ctx.Value(userLoginKey).(string)
	return login, ok
}

// IPRateLimiter hands out one token bucket per remote address.
type IPRateLimiter struct {
	ips map[string]*rate.Limiter
	mu  sync.Mutex
	r   rate.Limit
	b   int
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		ips: make(map[string]*rate.Limiter),
		r:   r,
		b:   b,
	}
}

func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	limiter, exists := i.ips[ip]
	if !exists {
		limiter = rate.NewLimiter(i.r, i.b)
		i.ips[ip] = limiter
	}
	return limiter
}

func (i *IPRateLimiter) LimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limiter := i.getLimiter(r.RemoteAddr)
		if !limiter.Allow() {
			api.WriteJSON(w, http.StatusTooManyRequests,
				api.ErrorEnvelope{Error: "too many requests, try again later"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

type registerRequest struct {
	Login    string `json:"login" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

type loginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	Success bool   `json:"success"`
	Login   string `json:"login"`
}

// Register creates the account and signs the caller in.
func (s *Service) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := api.Decode(r, &req); err != nil {
		api.WriteError(w, r, err)
		return
	}
	req.Login = strings.TrimSpace(req.Login)
	req.Email = strings.TrimSpace(req.Email)
	if req.Login == "" {
		api.WriteError(w, r, fwerr.Input("login required"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	id, err := s.Store.CreateUser(r.Context(), req.Login, req.Email, string(hash))
	if err != nil {
		zerolog.Ctx(r.Context()).Err(err).Str("login", req.Login).Msg("create user")
		api.WriteJSON(w, http.StatusConflict, api.ErrorEnvelope{Error: "user already exists"})
		return
	}

	s.addCookie(w, id, req.Login)
	api.WriteJSON(w, http.StatusCreated, sessionResponse{Success: true, Login: req.Login})
}

// Login verifies the password and refreshes the session cookie.
func (s *Service) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := api.Decode(r, &req); err != nil {
		api.WriteError(w, r, err)
		return
	}

	u, err := s.Store.UserByLogin(r.Context(), strings.TrimSpace(req.Login))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			unauthorized(w, "invalid login or password")
			return
		}
		api.WriteError(w, r, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		unauthorized(w, "invalid login or password")
		return
	}

	s.addCookie(w, u.ID, u.Login)
	api.WriteJSON(w, http.StatusOK, sessionResponse{Success: true, Login: u.Login})
}

// Logout drops the session cookie.
func (s *Service) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
	api.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Middleware rejects requests without a valid session token. API clients
// get a JSON envelope, never a redirect.
func (s *Service) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err != nil {
			unauthorized(w, "authentication required")
			return
		}

		token, err := jwt.Parse(cookie.Value, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return s.JWTKey, nil
		})
		if err != nil || !token.Valid {
			unauthorized(w, "authentication required")
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			unauthorized(w, "authentication required")
			return
		}
		idFloat, ok := claims["user_id"].(float64)
		if !ok {
			unauthorized(w, "authentication required")
			return
		}
		login, ok := claims["login"].(string)
		if !ok || login == "" {
			unauthorized(w, "authentication required")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), int(idFloat), login)))
	})
}

func unauthorized(w http.ResponseWriter, msg string) {
	api.WriteJSON(w, http.StatusUnauthorized, api.ErrorEnvelope{Error: msg})
}

func (s *Service) addCookie(w http.ResponseWriter, userID int, login string) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"login":   login,
		"exp":     time.Now().Add(tokenTTL).Unix(),
	})
	signed, err := token.SignedString(s.JWTKey)
	if err != nil {
		log.Error().Err(err).Msg("sign session token")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    signed,
		Expires:  time.Now().Add(tokenTTL),
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

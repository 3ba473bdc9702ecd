// Package backendfake is an in-memory stand-in for the warehouse REST backend,
// served over httptest for package tests.
package backendfake

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-warehouse-console/models"
)

const (
	RefreshCookieName = "refreshToken"
	signingKey        = "backendfake-secret"
)

type account struct {
	id       int64
	password string
	name     string
	role     models.Role
	enabled  bool
}

// Backend is safe for concurrent use by the handlers it serves
type Backend struct {
	Server *httptest.Server

	// Hooks run before the matching handler; tests use them to block or fail calls
	BeforeRefresh func()
	BeforeLogout  func()

	TokenTTL time.Duration

	logins    atomic.Int32
	refreshes atomic.Int32
	logouts   atomic.Int32

	mu        sync.Mutex
	accounts  map[string]*account // email -> account
	access    map[string]string   // access token -> email
	refresh   map[string]string   // refresh cookie value -> email
	failLogin string              // message to reject every login with

	*catalog
}

// New starts a backend seeded with one account per role. It is closed with t.
func New(t *testing.T) *Backend {
	t.Helper()
	b := &Backend{
		TokenTTL: 15 * time.Minute,
		accounts: make(map[string]*account),
		access:   make(map[string]string),
		refresh:  make(map[string]string),
		catalog:  newCatalog(),
	}
	b.AddAccount("admin@wms.test", "admin-pass", models.RoleAdmin)
	b.AddAccount("manager@wms.test", "manager-pass", models.RoleManager)
	b.AddAccount("staff@wms.test", "staff-pass", models.RoleStaff)

	b.Server = httptest.NewServer(b.routes())
	t.Cleanup(b.Server.Close)
	return b
}

func (b *Backend) URL() string {
	return b.Server.URL
}

func (b *Backend) AddAccount(email, password string, role models.Role) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.accounts[email] = &account{
		id:       int64(len(b.accounts) + 1),
		password: password,
		name:     strings.Split(email, "@")[0],
		role:     role,
		enabled:  true,
	}
}

// ExpireAccessTokens invalidates every issued access token; refresh cookies stay valid
func (b *Backend) ExpireAccessTokens() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.access = make(map[string]string)
}

// RevokeRefreshSessions invalidates every refresh cookie so the next refresh is rejected
func (b *Backend) RevokeRefreshSessions() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refresh = make(map[string]string)
}

// RejectLogins makes every login fail with message; empty restores normal behaviour
func (b *Backend) RejectLogins(message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failLogin = message
}

func (b *Backend) Logins() int    { return int(b.logins.Load()) }
func (b *Backend) Refreshes() int { return int(b.refreshes.Load()) }
func (b *Backend) Logouts() int   { return int(b.logouts.Load()) }

// MintToken signs an access token the way the real backend does
func MintToken(subject string, role models.Role, expiry time.Time) (string, error) {
	return jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{
		"sub":  subject,
		"role": string(role),
		"exp":  expiry.Unix(),
		"iat":  time.Now().Unix(),
		"jti":  uuid.NewString(),
	}).SignedString([]byte(signingKey))
}

func (b *Backend) routes() http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", b.login)
		r.Post("/auth/refresh", b.refreshToken)
		r.Post("/auth/logout", b.logout)

		r.Group(func(r chi.Router) {
			r.Use(b.requireRole(models.RoleAdmin))
			r.Get("/admin/users", b.listUsers)
			r.Put("/admin/users/{id}/enable", b.setUserEnabled(true))
			r.Put("/admin/users/{id}/disable", b.setUserEnabled(false))
		})

		r.Group(func(r chi.Router) {
			r.Use(b.requireRole())
			b.catalogRoutes(r)
		})
	})
	return r
}

func (b *Backend) issue(w http.ResponseWriter, email string, role models.Role, rotateCookie bool) {
	tok, err := MintToken(email, role, time.Now().Add(b.TokenTTL))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	b.mu.Lock()
	b.access[tok] = email
	var cookieValue string
	if rotateCookie {
		cookieValue = uuid.NewString()
		b.refresh[cookieValue] = email
	}
	b.mu.Unlock()

	if rotateCookie {
		http.SetCookie(w, &http.Cookie{
			Name:     RefreshCookieName,
			Value:    cookieValue,
			Path:     "/api/auth",
			HttpOnly: true,
			SameSite: http.SameSiteStrictMode,
		})
	}
	writeJSON(w, http.StatusOK, models.TokenResponse{AccessToken: tok})
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	b.logins.Add(1)

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b.mu.Lock()
	acct, ok := b.accounts[req.Email]
	failLogin := b.failLogin
	b.mu.Unlock()

	if failLogin != "" {
		writeError(w, http.StatusUnauthorized, failLogin)
		return
	}
	if !ok || acct.password != req.Password {
		writeError(w, http.StatusUnauthorized, "Bad credentials")
		return
	}
	if !acct.enabled {
		writeError(w, http.StatusForbidden, "Account disabled")
		return
	}
	b.issue(w, req.Email, acct.role, true)
}

func (b *Backend) refreshToken(w http.ResponseWriter, r *http.Request) {
	b.refreshes.Add(1)
	if b.BeforeRefresh != nil {
		b.BeforeRefresh()
	}

	cookie, err := r.Cookie(RefreshCookieName)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Missing refresh token")
		return
	}

	b.mu.Lock()
	email, ok := b.refresh[cookie.Value]
	var role models.Role
	if acct := b.accounts[email]; acct != nil {
		role = acct.role
	}
	b.mu.Unlock()

	if !ok {
		writeError(w, http.StatusUnauthorized, "Refresh token invalid")
		return
	}
	b.issue(w, email, role, false)
}

func (b *Backend) logout(w http.ResponseWriter, r *http.Request) {
	b.logouts.Add(1)
	if b.BeforeLogout != nil {
		b.BeforeLogout()
	}

	if cookie, err := r.Cookie(RefreshCookieName); err == nil {
		b.mu.Lock()
		delete(b.refresh, cookie.Value)
		b.mu.Unlock()
	}
	http.SetCookie(w, &http.Cookie{
		Name:   RefreshCookieName,
		Value:  "",
		Path:   "/api/auth",
		MaxAge: -1,
	})
	w.WriteHeader(http.StatusNoContent)
}

// requireRole rejects requests without a live bearer token (401) or whose
// role is outside roles (403). No roles means any authenticated caller.
func (b *Backend) requireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || tok == "" {
				writeError(w, http.StatusUnauthorized, "Missing bearer token")
				return
			}

			b.mu.Lock()
			email, live := b.access[tok]
			var role models.Role
			if acct := b.accounts[email]; acct != nil {
				role = acct.role
			}
			b.mu.Unlock()

			if !live {
				writeError(w, http.StatusUnauthorized, "Token expired")
				return
			}
			if len(roles) > 0 && !role.In(roles) {
				writeError(w, http.StatusForbidden, "Access denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// accountName returns the display name of the account with id
func (b *Backend) accountName(id int64) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, acct := range b.accounts {
		if acct.id == id {
			return acct.name, true
		}
	}
	return "", false
}

func (b *Backend) listUsers(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	users := make([]models.UserResponse, 0, len(b.accounts))
	for email, acct := range b.accounts {
		users = append(users, models.UserResponse{
			ID:      acct.id,
			Email:   email,
			Name:    acct.name,
			Role:    acct.role,
			Enabled: acct.enabled,
		})
	}
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, users)
}

func (b *Backend) setUserEnabled(enabled bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		for _, acct := range b.accounts {
			if acct.id == id {
				acct.enabled = enabled
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		writeError(w, http.StatusNotFound, "User not found")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, models.ErrorResponse{Message: message})
}

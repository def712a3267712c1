package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"devshare/internal/models"
	"devshare/internal/repositories"
)

// CookieName is the session cookie emitted on login.
const CookieName = "auth-token"

// DefaultTokenTTL is how long a minted session stays valid.
const DefaultTokenTTL = 7 * 24 * time.Hour

// ErrInvalidCredentials is returned for both an unknown email and a
// wrong password so callers cannot tell which field was wrong.
var ErrInvalidCredentials = errors.New("invalid email or password")

// SessionManager turns credentials into time-bounded signed identity
// assertions and incoming assertions back into trusted claims. Tokens
// are self-contained: verification needs no store lookup, which trades
// immediate revocation for statelessness. Logout only removes the
// client's cookie; a captured token stays valid until natural expiry.
type SessionManager struct {
	users  repositories.UserRepository
	secret []byte
	ttl    time.Duration
	secure bool
}

// NewSessionManager constructs a SessionManager. secure marks emitted
// cookies Secure and should be set in production.
func NewSessionManager(users repositories.UserRepository, secret []byte, ttl time.Duration, secure bool) *SessionManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &SessionManager{users: users, secret: secret, ttl: ttl, secure: secure}
}

// Register hashes the password and stores a new identity. A duplicate
// email surfaces as repositories.ErrDuplicateEmail.
func (m *SessionManager) Register(ctx context.Context, name, email, password string) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}
	return m.users.CreateUser(ctx, name, email, string(hash))
}

// Login verifies credentials and mints a signed token together with the
// claims it encodes.
func (m *SessionManager) Login(ctx context.Context, email, password string) (models.Session, string, error) {
	user, err := m.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return models.Session{}, "", ErrInvalidCredentials
		}
		return models.Session{}, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.Session{}, "", ErrInvalidCredentials
	}

	token, err := SignSession(user, m.secret, m.ttl)
	if err != nil {
		return models.Session{}, "", err
	}

	session := models.Session{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Image:     user.Image,
		Role:      user.Role,
		ExpiresAt: time.Now().Add(m.ttl),
	}
	return session, token, nil
}

// WriteSessionCookie emits the token as an HTTP-only cookie scoped to
// the root path with a max-age matching the token lifetime.
func (m *SessionManager) WriteSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl / time.Second),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the cookie. Idempotent: clearing with no
// active session is fine.
func (m *SessionManager) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// CurrentSession resolves the request's cookie to session claims. A
// missing, malformed, tampered or expired token all read as "no
// session": both mean the caller has to authenticate again.
func (m *SessionManager) CurrentSession(r *http.Request) (models.Session, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return models.Session{}, false
	}

	session, err := VerifySession(cookie.Value, m.secret)
	if err != nil {
		return models.Session{}, false
	}
	return session, true
}

package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"devshare/internal/mocks"
	"devshare/internal/models"
	"devshare/internal/repositories"
)

func newTestManager(users repositories.UserRepository) *SessionManager {
	return NewSessionManager(users, []byte("test-secret"), time.Hour, false)
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestRegisterHashesPassword(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	users.On("CreateUser", mock.Anything, "Ann", "ann@x.com", mock.Anything).
		Run(func(args mock.Arguments) {
			hash := args.String(3)
			require.NotEqual(t, "password123", hash)
			require.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("password123")))
		}).
		Return(models.User{ID: "user-1", Name: "Ann", Email: "ann@x.com"}, nil).
		Once()

	m := newTestManager(users)

	user, err := m.Register(context.Background(), "Ann", "ann@x.com", "password123")
	require.NoError(t, err)
	require.Equal(t, "user-1", user.ID)
	users.AssertExpectations(t)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	users.On("CreateUser", mock.Anything, "Ann", "ann@x.com", mock.Anything).
		Return(models.User{}, repositories.ErrDuplicateEmail).
		Once()

	m := newTestManager(users)

	_, err := m.Register(context.Background(), "Ann", "ann@x.com", "password123")
	require.ErrorIs(t, err, repositories.ErrDuplicateEmail)
	users.AssertExpectations(t)
}

func TestLoginSuccess(t *testing.T) {
	stored := models.User{
		ID:           "user-1",
		Name:         "Ann",
		Email:        "ann@x.com",
		PasswordHash: hashPassword(t, "password123"),
		Role:         models.RoleUser,
	}
	users := new(mocks.UserRepositoryMock)
	users.On("GetUserByEmail", mock.Anything, "ann@x.com").Return(stored, nil).Once()

	m := newTestManager(users)

	session, token, err := m.Login(context.Background(), "ann@x.com", "password123")
	require.NoError(t, err)
	require.Equal(t, "user-1", session.ID)
	require.NotEmpty(t, token)

	verified, err := VerifySession(token, []byte("test-secret"))
	require.NoError(t, err)
	require.Equal(t, session.ID, verified.ID)
	users.AssertExpectations(t)
}

func TestLoginWrongPassword(t *testing.T) {
	stored := models.User{
		ID:           "user-1",
		Email:        "ann@x.com",
		PasswordHash: hashPassword(t, "password123"),
	}
	users := new(mocks.UserRepositoryMock)
	users.On("GetUserByEmail", mock.Anything, "ann@x.com").Return(stored, nil).Once()

	m := newTestManager(users)

	_, _, err := m.Login(context.Background(), "ann@x.com", "wrong-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	users.AssertExpectations(t)
}

func TestLoginUnknownEmail(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	users.On("GetUserByEmail", mock.Anything, "nobody@x.com").
		Return(models.User{}, repositories.ErrUserNotFound).
		Once()

	m := newTestManager(users)

	// Unknown email and wrong password must be indistinguishable to the caller.
	_, _, err := m.Login(context.Background(), "nobody@x.com", "password123")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	users.AssertExpectations(t)
}

func TestWriteSessionCookie(t *testing.T) {
	m := newTestManager(nil)

	rec := httptest.NewRecorder()
	m.WriteSessionCookie(rec, "token-value")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	require.Equal(t, CookieName, cookie.Name)
	require.Equal(t, "token-value", cookie.Value)
	require.Equal(t, "/", cookie.Path)
	require.True(t, cookie.HttpOnly)
	require.False(t, cookie.Secure)
	require.Equal(t, int(time.Hour.Seconds()), cookie.MaxAge)
}

func TestWriteSessionCookieSecure(t *testing.T) {
	m := NewSessionManager(nil, []byte("test-secret"), time.Hour, true)

	rec := httptest.NewRecorder()
	m.WriteSessionCookie(rec, "token-value")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.True(t, cookies[0].Secure)
}

func TestClearSessionCookie(t *testing.T) {
	m := newTestManager(nil)

	rec := httptest.NewRecorder()
	m.ClearSessionCookie(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, CookieName, cookies[0].Name)
	require.Empty(t, cookies[0].Value)
	require.Negative(t, cookies[0].MaxAge)
}

func TestCurrentSession(t *testing.T) {
	m := newTestManager(nil)
	token, err := SignSession(testUser, []byte("test-secret"), time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})

	session, ok := m.CurrentSession(req)
	require.True(t, ok)
	require.Equal(t, testUser.ID, session.ID)
}

func TestCurrentSessionMissingCookie(t *testing.T) {
	m := newTestManager(nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := m.CurrentSession(req)
	require.False(t, ok)
}

func TestCurrentSessionInvalidToken(t *testing.T) {
	m := newTestManager(nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "garbage"})

	_, ok := m.CurrentSession(req)
	require.False(t, ok)
}

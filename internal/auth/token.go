package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"devshare/internal/models"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims embeds the registered claims plus the identity attributes a
// session carries.
type Claims struct {
	jwt.RegisteredClaims
	UserID string  `json:"uid"`
	Email  string  `json:"email"`
	Name   string  `json:"name"`
	Image  *string `json:"image,omitempty"`
	Role   string  `json:"role"`
}

// SignSession mints an HS256 token for the given user, valid for ttl.
func SignSession(user models.User, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Image:  user.Image,
		Role:   user.Role,
	})
	return token.SignedString(secret)
}

// VerifySession parses and validates a signed token and returns the
// session it encodes. Any failure (bad signature, malformed token,
// expired claims) yields ErrInvalidToken.
func VerifySession(tokenString string, secret []byte) (models.Session, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return models.Session{}, ErrInvalidToken
	}

	return models.Session{
		ID:        claims.UserID,
		Email:     claims.Email,
		Name:      claims.Name,
		Image:     claims.Image,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

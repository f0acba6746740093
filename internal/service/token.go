package service

import (
	"errors"
	"fmt"
	"time"

	"userapi/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is fixed: every issued token expires one hour after issuance.
const TokenTTL = time.Hour

var (
	ErrNoSigningSecret = errors.New("no JWT signing secret configured")
	ErrTokenMalformed  = errors.New("token is malformed or has an invalid signature")
	ErrTokenExpired    = errors.New("token has expired")
)

// TokenService issues and verifies signed bearer tokens. Tokens are
// stateless: nothing is stored server-side and validity is determined
// entirely by the signature and the embedded expiry.
type TokenService struct {
	secret []byte
}

func NewTokenService(secret string) (*TokenService, error) {
	if secret == "" {
		return nil, ErrNoSigningSecret
	}
	return &TokenService{secret: []byte(secret)}, nil
}

func (s *TokenService) Issue(userID int64, email string) (string, error) {
	now := time.Now()
	claims := &models.Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// Verify checks signature integrity and expiry and returns the embedded
// claims. Expiry is compared against wall-clock time at the moment of
// verification.
func (s *TokenService) Verify(tokenString string) (*models.Claims, error) {
	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Ensure the token's signing method is what we expect
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}
	if !token.Valid {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}

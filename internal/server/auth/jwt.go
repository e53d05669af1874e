// Package auth holds the credential primitives of the server: bcrypt
// password hashing and HS256 access tokens.
package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/dmitrijs2005/personapi/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Identity is the claim carried by an access token.
type Identity struct {
	PersonID int64
	Email    string
}

// Claims — registered claims plus the person's email. The person id
// travels in the standard "sub" claim.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

func GenerateToken(id Identity, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(id.PersonID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		Email: id.Email,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies tokenString and returns its identity. Expired tokens
// yield common.ErrTokenExpired; anything else that fails verification
// yields common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, common.ErrTokenExpired
		}
		return Identity{}, common.ErrInvalidToken
	}

	if !token.Valid {
		return Identity{}, common.ErrInvalidToken
	}

	personID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return Identity{}, common.ErrInvalidToken
	}

	return Identity{PersonID: personID, Email: claims.Email}, nil
}

// TokenIssuer binds the process-wide secret and token lifetime. Issued
// tokens are not tracked, so a token stays valid until it expires.
type TokenIssuer struct {
	secret   []byte
	validity time.Duration
}

func NewTokenIssuer(secretKey string, validity time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secretKey), validity: validity}
}

func (i *TokenIssuer) Issue(id Identity) (string, error) {
	return GenerateToken(id, i.secret, i.validity)
}

func (i *TokenIssuer) Verify(token string) (Identity, error) {
	return ParseToken(token, i.secret)
}

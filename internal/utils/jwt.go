package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// tokenIssuer identifies tokens minted by this service; parsing rejects
// tokens issued by anything else sharing the secret.
const tokenIssuer = "solara-loyalty"

type memberClaims struct {
	MemberID string `json:"member_id"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed JWT for the provided member ID.
func GenerateToken(secret string, memberID uuid.UUID, ttl time.Duration) (string, error) {
	claims := &memberClaims{
		MemberID: memberID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   memberID.String(),
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates the token and returns the embedded member ID.
func ParseToken(secret, tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &memberClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return uuid.Nil, err
	}

	if claims, ok := token.Claims.(*memberClaims); ok && token.Valid {
		return uuid.Parse(claims.MemberID)
	}

	return uuid.Nil, jwt.ErrTokenInvalidClaims
}

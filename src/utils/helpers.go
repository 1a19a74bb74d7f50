package utils

import (
	"abs/src/types"
	"crypto/rand"
	"math/big"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// refAlphabet drops 0/O/1/I so references survive being read over the phone.
const refAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const refLength = 10

// GenerateBookingRef produces a 10-character human-readable reference.
// Uniqueness is enforced by the database, not here.
func GenerateBookingRef() (string, error) {
	ref := make([]byte, refLength)
	max := big.NewInt(int64(len(refAlphabet)))
	for i := range ref {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		ref[i] = refAlphabet[n.Int64()]
	}
	return string(ref), nil
}

func GenerateJWT(email, role string, vendorID uint) (string, error) {
	claims := types.Claims{
		Email:    email,
		Role:     role,
		VendorID: vendorID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func ParseJWT(tokenString string) (*types.Claims, error) {
	claims := &types.Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil {
		return nil, err
	}
	return claims, nil
}

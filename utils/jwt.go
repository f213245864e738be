package utils

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const TokenTTL = 24 * time.Hour

// GenerateJWT mints an HS256 token carrying the user id and email.
func GenerateJWT(userID uint, email string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": userID,
		"email":  email,
		"exp":    time.Now().Add(TokenTTL).Unix(),
	})

	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

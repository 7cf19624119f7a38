package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v4"

	"quizmaster/backend/config"
)

// GenerateSessionToken mints a token identifying the user. Clients carry it for
// convenience only; no endpoint treats it as an authentication boundary.
func GenerateSessionToken(userID uint, cfg *config.Config) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour * 72).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

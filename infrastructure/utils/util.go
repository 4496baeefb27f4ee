package utils

import (
	"time"

	"github.com/golang-jwt/jwt"

	"github.com/vallemarketing/valle360-social/infrastructure/logger"
)

func GetCurrentTime() time.Time {
	return time.Now().UTC()
}

// GenerateToken signs an HS256 token for the given claims. Used by local
// tooling to mint tenant tokens against a dev secret.
func GenerateToken(payload map[string]interface{}, secretKey string) (string, error) {
	var claims jwt.MapClaims = payload
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secretKey))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while generate token")
		return "", err
	}
	return tokenString, nil
}

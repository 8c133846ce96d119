package service

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Clubs-Council-IIITH/events/internal/models"
	"github.com/Clubs-Council-IIITH/events/pkg/config"
	appErrors "github.com/Clubs-Council-IIITH/events/pkg/errors"
)

// AuthService validates the access tokens issued by the host identity
// system. The events service never issues tokens itself; it only reads the
// uid/role claims that drive workflow authorization.
type AuthService struct {
	secret []byte
}

// NewAuthService constructs the service.
func NewAuthService(cfg config.JWTConfig) *AuthService {
	return &AuthService{secret: []byte(cfg.Secret)}
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, appErrors.Wrap(appErrors.Clone(appErrors.ErrUnauthorized, "invalid token"), err)
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	if !models.ValidRole(claims.Role) {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "unknown role in token")
	}
	return claims, nil
}

package stubserver

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenTTL = 24 * time.Hour

// generateToken mints an HS256 token carrying the user id, the same claim
// layout the production backend uses.
func (s *Server) generateToken(userID int64) (string, error) {
	claims := jwt.MapClaims{
		"user.id": userID,
		"exp":     time.Now().Add(tokenTTL).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// parseToken validates a token string and extracts the user id claim.
func (s *Server) parseToken(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		return 0, err
	}
	if !token.Valid {
		return 0, fmt.Errorf("stubserver: invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("stubserver: unexpected claims type")
	}
	rawID, ok := claims["user.id"]
	if !ok {
		return 0, fmt.Errorf("stubserver: token missing user id")
	}
	id, ok := rawID.(float64)
	if !ok {
		return 0, fmt.Errorf("stubserver: unexpected user id claim type %T", rawID)
	}
	return int64(id), nil
}

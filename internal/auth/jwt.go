package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"projectms/internal/models"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the identity the API trusts per request: who the actor is
// and whether they hold the Admin role.
type Claims struct {
	UserID  uint64
	Role    string
	IsAdmin bool
}

// GenerateToken issues an HS256 access token carrying the user's
// identity and role.
func GenerateToken(secret string, user *models.User, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    role,
		"exp":     now.Add(ttl).Unix(),
		"iat":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates a token string and extracts the actor claims.
func ParseToken(secret, tokenString string) (*Claims, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	userID, ok1 := claims["user_id"].(float64)
	role, ok2 := claims["role"].(string)
	if !ok1 || !ok2 {
		return nil, ErrInvalidToken
	}

	return &Claims{
		UserID:  uint64(userID),
		Role:    role,
		IsAdmin: role == models.RoleAdmin,
	}, nil
}

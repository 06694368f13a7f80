package util

import (
	"errors"
	"time"

	"exam_portal_backend/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the identity issued by the external auth service. The
// student id travels in the subject. Older tokens name the role "type".
type Claims struct {
	Role  model.UserRole `json:"role,omitempty"`
	Type  model.UserRole `json:"type,omitempty"`
	Email string         `json:"email"`
	jwt.RegisteredClaims
}

func (c *Claims) UserID() string {
	return c.Subject
}

func (c *Claims) UserRole() model.UserRole {
	if c.Role != "" {
		return c.Role
	}
	return c.Type
}

func (c *Claims) IsAdmin() bool {
	return c.UserRole() == model.RoleAdmin
}

// CanActFor reports whether the caller may read or write data owned by userID.
func (c *Claims) CanActFor(userID string) bool {
	if c == nil {
		return false
	}
	return c.IsAdmin() || (userID != "" && c.Subject == userID)
}

func GenerateJWT(userID, email string, role model.UserRole, secret string, expiration time.Duration) (string, error) {
	claims := &Claims{
		Role:  role,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseJWT(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		if claims.Subject == "" {
			return nil, errors.New("token has no subject")
		}
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

func GetUserFromContext(c *gin.Context) *Claims {
	user, exists := c.Get("user")
	if !exists {
		return nil
	}
	claims, ok := user.(*Claims)
	if !ok {
		return nil
	}
	return claims
}

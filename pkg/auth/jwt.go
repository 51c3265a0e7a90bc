package auth

import (
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const TokenTTL = 3 * time.Hour

type JWT struct {
	Secret string
}

// CreateToken issues a signed, expiring session token. The server hands
// this to the client instead of the user record itself.
func (j *JWT) CreateToken(userId int) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userId,
		"exp":     time.Now().Add(TokenTTL).Unix(),
	})

	return token.SignedString([]byte(j.Secret))
}

func (j *JWT) VerifyToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}

		return []byte(j.Secret), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid access token")
	}

	return token.Claims.(jwt.MapClaims), nil
}

func CreateTokenForUser(userId int) (string, error) {
	j := JWT{Secret: os.Getenv("JWT_SECRET")}
	return j.CreateToken(userId)
}

func VerifyToken(token string) (jwt.MapClaims, error) {
	j := JWT{Secret: os.Getenv("JWT_SECRET")}
	return j.VerifyToken(token)
}

// GinJwtMiddleware authenticates the Bearer token and exposes the owner
// id as x-user-id for the task handlers.
func GinJwtMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		bearer := c.GetHeader("Authorization")

		if bearer == "" {
			unauthorized(c, "Sesión requerida")
			return
		}

		if !strings.HasPrefix(bearer, "Bearer ") {
			unauthorized(c, "Formato de autorización inválido")
			return
		}

		claims, err := VerifyToken(strings.TrimPrefix(bearer, "Bearer "))

		if err != nil {
			unauthorized(c, "Sesión inválida o expirada")
			return
		}

		rawId, ok := claims["user_id"].(float64)

		if !ok {
			unauthorized(c, "Sesión inválida o expirada")
			return
		}

		c.Set("x-user-id", int(rawId))
		c.Next()
	}
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code": "UNAUTHORIZED",
			"errors": []gin.H{
				{"field": "auth", "message": message},
			},
		},
	})
}

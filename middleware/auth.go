package middleware

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/ABAKHAR721/sakane-be/config"
	"github.com/ABAKHAR721/sakane-be/models"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidCredential = errors.New("Jeton invalide ou expiré")
	ErrUnknownSubject    = errors.New("Utilisateur introuvable")
)

type Claims struct {
	UserID uint            `json:"user_id"`
	Email  string          `json:"email"`
	Role   models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// Identity is the verified caller passed explicitly into every service
// call. Nothing below the HTTP layer reads session state on its own.
type Identity struct {
	UserID uint
	Role   models.UserRole
}

// VerifyToken resolves a bearer token to an Identity. The subject is
// re-checked against the users table so tokens of deleted or disabled
// accounts fail with ErrUnknownSubject.
func VerifyToken(tokenString string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredential
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidCredential
	}

	var user models.User
	if err := config.DB.Where("id = ? AND is_active = ?", claims.UserID, true).First(&user).Error; err != nil {
		return nil, ErrUnknownSubject
	}

	// Role comes from the database, not the token, so a demoted admin
	// loses access before the token expires.
	return &Identity{UserID: user.ID, Role: user.Role}, nil
}

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		identity, err := VerifyToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		c.Set("identity", *identity)
		c.Next()
	}
}

func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, exists := c.Get("identity")
		if !exists || identity.(Identity).Role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Accès refusé"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentIdentity pulls the verified identity set by AuthMiddleware.
func CurrentIdentity(c *gin.Context) Identity {
	return c.MustGet("identity").(Identity)
}

package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/reportmitra/admin-hub/configs"
	"github.com/reportmitra/admin-hub/internal/models"
)

// Claims defines the custom claims carried in the JWT.
// The JTI (ID) comes from the embedded jwt.RegisteredClaims.
type Claims struct {
	UserID     string `json:"user_id"`
	Department string `json:"department"`
	IsRoot     bool   `json:"is_root"`
	jwt.RegisteredClaims
}

var (
	// tokenDenylist stores the JTIs of logged-out tokens with their original
	// expiry. In-memory only: a restart forgets it, and production should
	// move this to Redis.
	tokenDenylist = make(map[string]time.Time)
	denylistMutex = &sync.RWMutex{}
)

// AddToDenylist adds a JTI to the denylist and sweeps fully expired entries.
func AddToDenylist(jti string, expiresAt time.Time) {
	denylistMutex.Lock()
	defer denylistMutex.Unlock()

	tokenDenylist[jti] = expiresAt

	now := time.Now()
	for id, exp := range tokenDenylist {
		if now.After(exp) {
			delete(tokenDenylist, id)
		}
	}
}

// IsTokenDenylisted checks whether a JTI is denylisted and not yet expired.
func IsTokenDenylisted(jti string) bool {
	denylistMutex.RLock()
	defer denylistMutex.RUnlock()

	expTime, found := tokenDenylist[jti]
	if !found {
		return false
	}
	return time.Now().Before(expTime)
}

// Context keys set by JWTMiddleware for downstream handlers.
const (
	CtxUserID     = "userID"
	CtxDepartment = "department"
	CtxIsRoot     = "isRoot"
	CtxJTI        = "jti"
	CtxExp        = "exp"
)

// JWTMiddleware is a Gin middleware validating the Bearer token from the
// Authorization header with golang-jwt/jwt/v5 and exposing the principal
// through the context.
func JWTMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			c.Abort()
			return
		}

		tokenString := parts[1]
		claims := &Claims{}

		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(configs.AppConfig.JWTSecret), nil
		})

		if err != nil {
			if errors.Is(err, jwt.ErrTokenMalformed) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is malformed"})
			} else if errors.Is(err, jwt.ErrTokenExpired) || errors.Is(err, jwt.ErrTokenNotValidYet) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is expired or not valid yet"})
			} else if errors.Is(err, jwt.ErrSignatureInvalid) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token signature"})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token: " + err.Error()})
			}
			c.Abort()
			return
		}

		if !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is invalid"})
			c.Abort()
			return
		}

		if claims.ID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token missing JTI (JWT ID)"})
			c.Abort()
			return
		}

		if IsTokenDenylisted(claims.ID) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token has been invalidated (logged out)"})
			c.Abort()
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxDepartment, claims.Department)
		c.Set(CtxIsRoot, claims.IsRoot)
		c.Set(CtxJTI, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(CtxExp, claims.ExpiresAt.Time)
		}

		c.Next()
	}
}

// RequireRoot allows only root accounts past. Must run after JWTMiddleware.
func RequireRoot() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(CtxIsRoot) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Root privileges required"})
			return
		}
		c.Next()
	}
}

// PrincipalFromContext rebuilds the authenticated principal from the context
// keys set by JWTMiddleware.
func PrincipalFromContext(c *gin.Context) models.Principal {
	return models.Principal{
		UserID:     c.GetString(CtxUserID),
		Department: c.GetString(CtxDepartment),
		IsRoot:     c.GetBool(CtxIsRoot),
	}
}

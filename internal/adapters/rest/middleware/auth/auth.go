package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog/log"

	"github.com/awmprojects/webdesign-bunny-submitted/cmd/bunny/config"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/models"
)

const CookieName = "auth"
const CookieAge = time.Hour * 24 * 365

const ContextKey = "auth"

var ErrInvalidSigningMethod = errors.New("invalid signing method")

type TokenClaims struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

func GenerateAuthTokenCookie(user models.User, secretKey []byte) (string, error) {
	claims := TokenClaims{
		user.ID,
		user.Email,
		string(user.Role),
		jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(CookieAge)),
			Issuer:    "reviewbunny",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}
	return signedToken, nil
}

func Authentication(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer c.Next()
		cookie, err := c.Cookie(CookieName)
		if err != nil {
			return
		}

		token, err := jwt.ParseWithClaims(cookie, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidSigningMethod
			}
			return cfg.SecretKey, nil
		})
		if err != nil {
			log.Error().Err(err).Msg("Failed to parse jwt token")
			return
		}

		if claims, ok := token.Claims.(*TokenClaims); token.Valid && ok {
			user := models.NewUserFromID(claims.ID)
			user.Email = claims.Email
			user.Role = models.UserRole(claims.Role)
			log.Debug().
				Int("userID", user.ID).Str("email", user.Email).
				Msg("Successfully authenticated user")
			c.Set(ContextKey, user)
		} else {
			log.Warn().Msg("Failed to obtain token claims")
		}
	}
}

func RequireAuthentication(c *gin.Context) {
	if _, ok := c.Get(ContextKey); !ok {
		log.Debug().Str("path", c.FullPath()).Msg("Endpoint is for authenticated users only")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
	c.Next()
}

// RequireRole guards an endpoint group behind one of the given account roles.
// Admins implicitly pass any role check
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		maybeUser, ok := c.Get(ContextKey)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		user, ok := maybeUser.(models.User)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if user.Role != models.RoleAdmin {
			allowed := false
			for _, role := range roles {
				if user.Role == role {
					allowed = true
					break
				}
			}
			if !allowed {
				log.Debug().
					Str("path", c.FullPath()).Str("role", string(user.Role)).
					Msg("Endpoint requires another role")
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
				return
			}
		}
		c.Next()
	}
}

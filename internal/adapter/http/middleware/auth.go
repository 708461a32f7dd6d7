package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/philipp-moriss/volunteers-backend/internal/core/domain"
	"github.com/philipp-moriss/volunteers-backend/pkg/apierrors"
)

const actorKey = "actor"

var errInvalidToken = errors.New("invalid access token")

// Claims are the access token claims issued by the identity service. The
// subject is the user id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware verifies an HS256 bearer token and stores the caller as a
// domain.Actor. Token issuance happens elsewhere.
func AuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := ParseActor(c.GetHeader("Authorization"), secret)
		if err != nil {
			c.AbortWithStatusJSON(
				http.StatusUnauthorized,
				apierrors.CreateError(http.StatusUnauthorized, apierrors.MsgUnauthorized, GetLang(c)),
			)
			return
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

// ParseActor extracts the actor from an "Authorization: Bearer" header value.
func ParseActor(header string, secret []byte) (domain.Actor, error) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || len(secret) == 0 {
		return domain.Actor{}, errInvalidToken
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(strings.TrimSpace(raw), claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return domain.Actor{}, errors.Join(errInvalidToken, err)
	}

	role := domain.Role(claims.Role)
	if claims.Subject == "" || !role.Valid() {
		return domain.Actor{}, errInvalidToken
	}
	return domain.Actor{UserID: claims.Subject, Role: role}, nil
}

// SetActor stores actor on the context; used by AuthMiddleware and tests.
func SetActor(c *gin.Context, actor domain.Actor) {
	c.Set(actorKey, actor)
}

func LookupActor(c *gin.Context) (domain.Actor, bool) {
	value, exists := c.Get(actorKey)
	if !exists {
		return domain.Actor{}, false
	}
	actor, ok := value.(domain.Actor)
	return actor, ok
}

// GetActor returns the authenticated actor, or the zero Actor which every
// policy rejects.
func GetActor(c *gin.Context) domain.Actor {
	actor, _ := LookupActor(c)
	return actor
}

package http

import (
	"net/http"
	"strings"

	"marketplace/internal/core/domain/model/actor"
	"marketplace/internal/core/domain/model/kernel"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// actorContextKey is the echo context key the resolved actor is stored
// under.
const actorContextKey = "marketplace.actor"

// ActorMiddleware resolves the bearer token into an actor.Actor and stores
// it on the request context. Tokens carry two claims: "sub" with the entity
// id and "role" with the role name. The System role is not issuable from a
// token; RoleFromString rejects it.
func ActorMiddleware(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			tokenString, found := strings.CutPrefix(header, "Bearer ")
			if !found || tokenString == "" {
				return c.JSON(http.StatusUnauthorized, ErrorResponse{
					Code:    http.StatusUnauthorized,
					Message: "Missing bearer token",
				})
			}

			resolved, err := resolveActor(tokenString, secret)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, ErrorResponse{
					Code:    http.StatusUnauthorized,
					Message: "Invalid token: " + err.Error(),
				})
			}

			c.Set(actorContextKey, resolved)
			return next(c)
		}
	}
}

// resolveActor validates the token signature and maps its claims to an
// Actor.
func resolveActor(tokenString string, secret []byte) (actor.Actor, error) {
	token, err := jwt.Parse(tokenString,
		func(_ *jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return actor.Actor{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return actor.Actor{}, jwt.ErrTokenInvalidClaims
	}

	subject, err := claims.GetSubject()
	if err != nil {
		return actor.Actor{}, err
	}
	id, err := kernel.UUIDFromString(subject)
	if err != nil {
		return actor.Actor{}, err
	}

	roleName, ok := claims["role"].(string)
	if !ok {
		return actor.Actor{}, jwt.ErrTokenInvalidClaims
	}
	role, err := actor.RoleFromString(roleName)
	if err != nil {
		return actor.Actor{}, err
	}

	return actor.NewActor(role, id)
}

// actorFromContext returns the actor resolved by ActorMiddleware.
func actorFromContext(c echo.Context) (actor.Actor, bool) {
	resolved, ok := c.Get(actorContextKey).(actor.Actor)
	return resolved, ok
}

package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campusfest/eventhub-api/internal/api/handler/v1/response"
	"github.com/campusfest/eventhub-api/internal/domain"
	"github.com/campusfest/eventhub-api/internal/pkg/jwthelper"
	"github.com/campusfest/eventhub-api/internal/service"
)

// ContextUserKey holds the authenticated domain.User in the gin context.
const ContextUserKey = "user"

type UserFinder interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
}

type Authenticator struct {
	signingKey []byte
	users      UserFinder
}

func NewAuthenticator(signingKey string, users UserFinder) *Authenticator {
	return &Authenticator{
		signingKey: []byte(signingKey),
		users:      users,
	}
}

// VerifyJWT admits admins presenting a valid bearer token.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return a.verify(bearerToken)
}

// VerifyJWTQuery is VerifyJWT for websocket upgrades, which cannot carry an
// Authorization header from a browser. It reads the token query parameter
// and falls back to the header.
func (a *Authenticator) VerifyJWTQuery() gin.HandlerFunc {
	return a.verify(func(ctx *gin.Context) string {
		if token := ctx.Query("token"); token != "" {
			return token
		}
		return bearerToken(ctx)
	})
}

func (a *Authenticator) verify(extract func(*gin.Context) string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString := extract(ctx)
		if tokenString == "" {
			response.RenderErr(ctx, response.ErrUnauthorized("No token, authorization denied"))
			return
		}

		claims, err := jwthelper.ParseToken(a.signingKey, tokenString)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized("Authentication failed"))
			return
		}

		user, err := a.users.GetUser(ctx.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, service.ErrUserNotFound) {
				response.RenderErr(ctx, response.ErrPermissionDenied())
				return
			}

			err = fmt.Errorf("middleware.VerifyJWT -> a.users.GetUser -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError("Server error", err))
			return
		}

		if !user.IsAdmin() {
			response.RenderErr(ctx, response.ErrPermissionDenied())
			return
		}

		ctx.Set(ContextUserKey, user)
		ctx.Next()
	}
}

func bearerToken(ctx *gin.Context) string {
	header := ctx.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// UserFromContext returns the user stored by VerifyJWT.
func UserFromContext(ctx *gin.Context) (domain.User, bool) {
	v, ok := ctx.Get(ContextUserKey)
	if !ok {
		return domain.User{}, false
	}
	user, ok := v.(domain.User)
	return user, ok
}

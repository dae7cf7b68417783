package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/basepoint-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/basepoint-api/internal/pkg/jwthelper"
)

// ContextKeyUserID holds the authenticated user id on the gin context.
const ContextKeyUserID = "userID"

var (
	errMissingToken   = errors.New("missing bearer token")
	errMalformedToken = errors.New("authorization header must be 'Bearer <token>'")
)

type Authenticator struct {
	signingKey []byte
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		signingKey: []byte(signingKey),
	}
}

// VerifyJWT rejects requests without a valid bearer token. The websocket
// feed may pass the token as the "token" query parameter instead.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, err := bearerToken(ctx)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized(err))
			return
		}

		claims, err := jwthelper.ParseToken(a.signingKey, token)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized(err))
			return
		}

		ctx.Set(ContextKeyUserID, claims.UserID)
		ctx.Next()
	}
}

func bearerToken(ctx *gin.Context) (string, error) {
	header := ctx.GetHeader("Authorization")
	if header == "" {
		if token := ctx.Query("token"); token != "" {
			return token, nil
		}
		return "", errMissingToken
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", errMalformedToken
	}

	return token, nil
}

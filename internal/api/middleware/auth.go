package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yizeng/gab/gin/gorm/merchant/internal/api/handler/v1/response"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/pkg/jwthelper"
)

const (
	actorNameKey  = "actorName"
	actorRealmKey = "actorRealm"
)

var errMissingToken = errors.New("missing bearer token")

type Authenticator struct {
	signingKey []byte
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		signingKey: []byte(signingKey),
	}
}

// VerifyJWT accepts the token from the Authorization header, or from the
// token query parameter for websocket upgrades.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := bearerToken(ctx)
		if token == "" {
			response.RenderErr(ctx, response.ErrUnauthorized(errMissingToken))
			ctx.Abort()
			return
		}

		claims, err := jwthelper.ParseToken(a.signingKey, token)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized(err))
			ctx.Abort()
			return
		}

		ctx.Set(actorNameKey, claims.ActorName)
		ctx.Set(actorRealmKey, claims.Realm)
		ctx.Next()
	}
}

func bearerToken(ctx *gin.Context) string {
	header := ctx.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}

	return ctx.Query("token")
}

// Identity is the actor a request was authenticated as.
type Identity struct {
	ActorName string
	Realm     uint8
}

func IdentityFromContext(ctx *gin.Context) (Identity, bool) {
	name := ctx.GetString(actorNameKey)
	if name == "" {
		return Identity{}, false
	}

	var realm uint8
	if v, ok := ctx.Get(actorRealmKey); ok {
		realm, _ = v.(uint8)
	}

	return Identity{ActorName: name, Realm: realm}, true
}

// SetIdentity stores an identity on the context as VerifyJWT does.
func SetIdentity(ctx *gin.Context, id Identity) {
	ctx.Set(actorNameKey, id.ActorName)
	ctx.Set(actorRealmKey, id.Realm)
}

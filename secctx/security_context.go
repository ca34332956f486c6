package secctx

import (
	"context"
	"net/http"

	"github.com/shaj13/go-guardian/v2/auth"
)

type contextKey string

const secCtxKey contextKey = "secCtx"

const RequestIdHeader = "X-Request-Id"

type securityContextImpl struct {
	userId    string
	requestId string
}

// MakeUserContext attaches the authenticated user, if any, and the request id to the request context.
func MakeUserContext(r *http.Request, requestId string) context.Context {
	userId := ""
	if user := auth.User(r); user != nil {
		userId = user.GetID()
	}
	return context.WithValue(r.Context(), secCtxKey, securityContextImpl{
		userId:    userId,
		requestId: requestId,
	})
}

func GetUserId(ctx context.Context) string {
	val, ok := ctx.Value(secCtxKey).(securityContextImpl)
	if !ok {
		return ""
	}
	return val.userId
}

func GetRequestId(ctx context.Context) string {
	val, ok := ctx.Value(secCtxKey).(securityContextImpl)
	if !ok {
		return ""
	}
	return val.requestId
}

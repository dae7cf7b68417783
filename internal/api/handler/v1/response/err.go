package response

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Err is the JSON body of every error response.
type Err struct {
	Err            error `json:"-"`
	HTTPStatusCode int   `json:"-"`

	StatusText string `json:"status"`
	ErrorText  string `json:"error,omitempty"`
	RequestID  string `json:"request_id,omitempty"`
}

func (e *Err) Error() string {
	if e.Err == nil {
		return e.StatusText
	}
	return e.Err.Error()
}

// RenderErr aborts the request with e. Server errors are logged with their
// cause and hidden from the client.
func RenderErr(ctx *gin.Context, e *Err) {
	e.RequestID = requestid.Get(ctx)

	if e.HTTPStatusCode >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("request_id", e.RequestID),
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.FullPath()),
			zap.Error(e.Err),
		)
	}

	ctx.AbortWithStatusJSON(e.HTTPStatusCode, e)
}

func newErr(status int, err error) *Err {
	e := &Err{
		Err:            err,
		HTTPStatusCode: status,
		StatusText:     http.StatusText(status),
	}
	if err != nil && status < http.StatusInternalServerError {
		e.ErrorText = err.Error()
	}

	return e
}

func ErrBadRequest(err error) *Err {
	return newErr(http.StatusBadRequest, err)
}

func ErrUnauthorized(err error) *Err {
	return newErr(http.StatusUnauthorized, err)
}

func ErrWrongCredentials(err error) *Err {
	e := newErr(http.StatusUnauthorized, err)
	e.ErrorText = "email or password is incorrect"

	return e
}

func ErrPermissionDenied(err error) *Err {
	return newErr(http.StatusForbidden, err)
}

func ErrNotFound(resource, field string, value any) *Err {
	return newErr(http.StatusNotFound, fmt.Errorf("%s with %s %v not found", resource, field, value))
}

// ErrMissing is a 404 carrying err as the message.
func ErrMissing(err error) *Err {
	return newErr(http.StatusNotFound, err)
}

func ErrConflict(err error) *Err {
	return newErr(http.StatusConflict, err)
}

func ErrInternalServerError(err error) *Err {
	return newErr(http.StatusInternalServerError, err)
}

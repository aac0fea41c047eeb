package response

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Err struct {
	HTTPStatusCode int    `json:"-"`
	StatusText     string `json:"status_text"`
	ErrorText      string `json:"error_text,omitempty"`

	err error
}

func (e *Err) Error() string {
	return e.ErrorText
}

func (e *Err) Unwrap() error {
	return e.err
}

// RenderErr writes err as the JSON response body. Server errors are logged and
// their details are not exposed.
func RenderErr(ctx *gin.Context, err *Err) {
	if err.HTTPStatusCode >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("path", ctx.FullPath()),
			zap.Error(err.err),
		)
	}

	ctx.AbortWithStatusJSON(err.HTTPStatusCode, err)
}

func newErr(code int, err error, text string) *Err {
	return &Err{
		HTTPStatusCode: code,
		StatusText:     http.StatusText(code),
		ErrorText:      text,
		err:            err,
	}
}

func ErrBadRequest(err error) *Err {
	return newErr(http.StatusBadRequest, err, err.Error())
}

func ErrUnauthorized(err error) *Err {
	return newErr(http.StatusUnauthorized, err, err.Error())
}

func ErrPermissionDenied(err error) *Err {
	return newErr(http.StatusForbidden, err, err.Error())
}

func ErrNotFound(resource, field string, value any) *Err {
	err := fmt.Errorf("%s with %s %v is not found", resource, field, value)
	return newErr(http.StatusNotFound, err, err.Error())
}

func ErrConflict(err error) *Err {
	return newErr(http.StatusConflict, err, err.Error())
}

// ErrUnprocessable reports a request the merchant understood but refused.
func ErrUnprocessable(err error) *Err {
	return newErr(http.StatusUnprocessableEntity, err, err.Error())
}

func ErrInternalServerError(err error) *Err {
	return newErr(http.StatusInternalServerError, err, "")
}

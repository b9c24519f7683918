package response

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Err is the JSON body of every failed request.
type Err struct {
	HTTPStatusCode int    `json:"-"`
	Message        string `json:"message"`
	ErrorText      string `json:"error,omitempty"`
}

func (e *Err) Error() string {
	if e.ErrorText == "" {
		return e.Message
	}
	return e.Message + ": " + e.ErrorText
}

func RenderErr(ctx *gin.Context, e *Err) {
	if e.HTTPStatusCode >= http.StatusInternalServerError {
		zap.L().Error(e.Message,
			zap.String("request_id", requestid.Get(ctx)),
			zap.String("path", ctx.FullPath()),
			zap.String("error", e.ErrorText),
		)
	}

	ctx.AbortWithStatusJSON(e.HTTPStatusCode, e)
}

func ErrBadRequest(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusBadRequest,
		Message:        err.Error(),
	}
}

func ErrNotFound(resource string) *Err {
	return &Err{
		HTTPStatusCode: http.StatusNotFound,
		Message:        fmt.Sprintf("%s not found", resource),
	}
}

func ErrWrongCredentials() *Err {
	return &Err{
		HTTPStatusCode: http.StatusUnauthorized,
		Message:        "Invalid credentials",
	}
}

func ErrUnauthorized(message string) *Err {
	return &Err{
		HTTPStatusCode: http.StatusUnauthorized,
		Message:        message,
	}
}

func ErrPermissionDenied() *Err {
	return &Err{
		HTTPStatusCode: http.StatusForbidden,
		Message:        "Access denied: Admin privileges required",
	}
}

func ErrConflict(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusConflict,
		Message:        err.Error(),
	}
}

// ErrInternalServerError keeps the cause in the body the way the admin
// dashboard expects it.
func ErrInternalServerError(message string, err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusInternalServerError,
		Message:        message,
		ErrorText:      err.Error(),
	}
}

// Package handler holds the gin HTTP handlers. Handlers bind input,
// call into service.Svc and translate outcomes to HTTP responses; no
// business rules live here.
package handler

import (
	"net/http"

	"openbook_server/pkg/errorx"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	errInvalidTarget  = errorx.New(errorx.CodeInvalidParam, "invalid target user")
	errUnknownOutcome = errorx.New(errorx.CodeServerBusy, "unexpected outcome")
)

type response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// HandleSuccess writes the uniform success envelope with the given
// HTTP status (200 for reads, 201 for creations).
func HandleSuccess(c *gin.Context, status int, data any) {
	c.JSON(status, response{Code: errorx.CodeSuccess, Message: "success", Data: data})
}

// HandleError maps an errorx code to an HTTP status. Unclassified
// errors become a 500 and are logged with the request path; their
// detail never reaches the client.
func HandleError(c *gin.Context, err error) {
	code := errorx.GetCode(err)
	status, msg := http.StatusInternalServerError, "server busy"
	switch code {
	case errorx.CodeInvalidParam:
		status, msg = http.StatusBadRequest, err.Error()
	case errorx.CodeUnauthorized:
		status, msg = http.StatusUnauthorized, err.Error()
	case errorx.CodeForbidden:
		status, msg = http.StatusForbidden, err.Error()
	case errorx.CodeNotFound:
		status, msg = http.StatusNotFound, err.Error()
	case errorx.CodeConflict:
		status, msg = http.StatusConflict, err.Error()
	default:
		zap.L().Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}
	c.JSON(status, response{Code: code, Message: msg})
}

// conflict reports a state that already holds, carrying the current
// state so the client can reconcile without a second request.
func conflict(c *gin.Context, status, msg string) {
	c.JSON(http.StatusConflict, response{
		Code:    errorx.CodeConflict,
		Message: msg,
		Data:    gin.H{"status": status},
	})
}

// HandleParamError reports a binding or validation failure as a 400,
// with translated validator messages where available.
func HandleParamError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, response{
		Code:    errorx.CodeInvalidParam,
		Message: translateError(err),
	})
}

package apperr

import (
	restful "github.com/emicklei/go-restful/v3"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every failed HTTP request.
type ErrorResponse struct {
	Message string `json:"message"`
}

// WriteResponse is the one place an HTTP failure is turned into a response.
// Unclassified errors are logged and answered with a generic 500.
func WriteResponse(resp *restful.Response, err error, log *zap.Logger) {
	status, msg := HTTPStatus(err)
	if status >= 500 && log != nil {
		log.Error("Unhandled error", zap.Error(err), zap.Int("status_code", status))
	}
	_ = resp.WriteHeaderAndJson(status, ErrorResponse{Message: msg}, restful.MIME_JSON)
}

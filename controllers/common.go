package controllers

import (
	"mesto-restful/apperr"
	"mesto-restful/auth"

	restful "github.com/emicklei/go-restful/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MessageResponse is the body of responses that carry only a message.
type MessageResponse struct {
	Message string `json:"message"`
}

// readBody decodes the JSON body into entity. Any decode failure is InvalidInput.
func readBody(request *restful.Request, entity any) error {
	if err := request.ReadEntity(entity); err != nil {
		return apperr.Wrap(apperr.KindInvalidInput, err, "Invalid request body")
	}
	return nil
}

// actingUser returns the identity bound by the auth filter.
func actingUser(request *restful.Request) (uuid.UUID, error) {
	id, ok := auth.IdentityFrom(request.Request.Context())
	if !ok {
		return uuid.Nil, apperr.Unauthenticated(auth.UnauthorizedMessage)
	}
	return id, nil
}

// writeError hands every failure to the shared mapper.
func writeError(response *restful.Response, err error, logger *zap.Logger) {
	apperr.WriteResponse(response, err, logger)
}

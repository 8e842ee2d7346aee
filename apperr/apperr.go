// Package apperr is the closed set of failure kinds the service reports and their
// translation to HTTP and gRPC status.
package apperr

import (
	"fmt"
	"net/http"

	"github.com/samber/oops"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Kind is stored as the oops error code.
type Kind string

const (
	KindInvalidInput    Kind = "INVALID_INPUT"
	KindUnauthenticated Kind = "UNAUTHENTICATED"
	KindForbidden       Kind = "FORBIDDEN"
	KindNotFound        Kind = "NOT_FOUND"
	KindConflict        Kind = "CONFLICT"
	KindRateLimited     Kind = "RATE_LIMITED"
	KindInternal        Kind = "INTERNAL"
)

// InternalMessage is the only message a client sees for an unclassified failure.
const InternalMessage = "An error occurred on the server"

type mapping struct {
	status int
	code   codes.Code
}

var mappings = map[Kind]mapping{
	KindInvalidInput:    {http.StatusBadRequest, codes.InvalidArgument},
	KindUnauthenticated: {http.StatusUnauthorized, codes.Unauthenticated},
	KindForbidden:       {http.StatusForbidden, codes.PermissionDenied},
	KindNotFound:        {http.StatusNotFound, codes.NotFound},
	KindConflict:        {http.StatusConflict, codes.AlreadyExists},
	KindRateLimited:     {http.StatusTooManyRequests, codes.ResourceExhausted},
	KindInternal:        {http.StatusInternalServerError, codes.Internal},
}

func newKind(kind Kind, msg string, args ...any) error {
	public := msg
	if len(args) > 0 {
		public = fmt.Sprintf(msg, args...)
	}
	return oops.Code(string(kind)).Public(public).Errorf("%s", public)
}

func InvalidInput(msg string, args ...any) error    { return newKind(KindInvalidInput, msg, args...) }
func Unauthenticated(msg string, args ...any) error { return newKind(KindUnauthenticated, msg, args...) }
func Forbidden(msg string, args ...any) error       { return newKind(KindForbidden, msg, args...) }
func NotFound(msg string, args ...any) error        { return newKind(KindNotFound, msg, args...) }
func Conflict(msg string, args ...any) error        { return newKind(KindConflict, msg, args...) }
func RateLimited(msg string, args ...any) error     { return newKind(KindRateLimited, msg, args...) }

// Wrap attaches a kind and public message to an underlying cause.
func Wrap(kind Kind, err error, msg string) error {
	return oops.Code(string(kind)).Public(msg).Wrap(err)
}

// KindOf returns the kind carried by err, or KindInternal when err is unclassified.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return KindInternal
	}
	kind := Kind(fmt.Sprint(oopsErr.Code()))
	if _, known := mappings[kind]; !known {
		return KindInternal
	}
	return kind
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// PublicMessage is what may be shown to a client for err.
func PublicMessage(err error) string {
	kind := KindOf(err)
	if kind == KindInternal {
		return InternalMessage
	}
	if oopsErr, ok := oops.AsOops(err); ok {
		if msg := oopsErr.Public(); msg != "" {
			return msg
		}
	}
	return http.StatusText(mappings[kind].status)
}

// HTTPStatus maps err to a status code and client-safe message.
func HTTPStatus(err error) (int, string) {
	return mappings[KindOf(err)].status, PublicMessage(err)
}

// GRPCStatus maps err to a gRPC status error.
func GRPCStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, isOops := oops.AsOops(err); !isOops {
		if _, ok := status.FromError(err); ok {
			return err
		}
	}
	return status.Error(mappings[KindOf(err)].code, PublicMessage(err))
}

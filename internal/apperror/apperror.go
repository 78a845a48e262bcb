// Package apperror maps domain errors onto transport status codes.
package apperror

import (
	"context"
	"errors"
	"net/http"

	"github.com/devmojahid/restu-food-sub005/internal/attribute"
	"github.com/devmojahid/restu-food-sub005/internal/auth"
	"github.com/devmojahid/restu-food-sub005/internal/cache"
	"github.com/devmojahid/restu-food-sub005/internal/inventory"
	"github.com/devmojahid/restu-food-sub005/internal/product"
	"github.com/devmojahid/restu-food-sub005/internal/variation"
	"github.com/gin-gonic/gin"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Code classifies err. Unknown errors are Internal.
func Code(err error) codes.Code {
	if err == nil {
		return codes.OK
	}
	if s, ok := status.FromError(err); ok && s.Code() != codes.Unknown {
		return s.Code()
	}

	switch {
	case variation.IsValidation(err),
		errors.Is(err, product.ErrInvalidInput),
		errors.Is(err, product.ErrGlobalAttributeNotFound),
		errors.Is(err, attribute.ErrInvalidInput),
		errors.Is(err, inventory.ErrInvalidInput):
		return codes.InvalidArgument
	case errors.Is(err, product.ErrProductNotFound),
		errors.Is(err, attribute.ErrNotFound),
		errors.Is(err, inventory.ErrVariationNotFound):
		return codes.NotFound
	case errors.Is(err, product.ErrSKUExists),
		errors.Is(err, product.ErrBarcodeExists),
		errors.Is(err, attribute.ErrNameExists):
		return codes.AlreadyExists
	case errors.Is(err, inventory.ErrInsufficientStock):
		return codes.FailedPrecondition
	case errors.Is(err, cache.ErrLockNotAcquired):
		return codes.Unavailable
	case errors.Is(err, auth.ErrMissingTenant), errors.Is(err, auth.ErrInvalidToken):
		return codes.Unauthenticated
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	}
	return codes.Internal
}

// GRPC converts err into a status error. Internal errors hide their detail.
func GRPC(err error) error {
	if err == nil {
		return nil
	}
	code := Code(err)
	if code == codes.Internal {
		return status.Error(code, "internal error")
	}
	return status.Error(code, err.Error())
}

var httpStatus = map[codes.Code]int{
	codes.OK:                 http.StatusOK,
	codes.InvalidArgument:    http.StatusBadRequest,
	codes.NotFound:           http.StatusNotFound,
	codes.AlreadyExists:      http.StatusConflict,
	codes.FailedPrecondition: http.StatusConflict,
	codes.Unavailable:        http.StatusServiceUnavailable,
	codes.Unauthenticated:    http.StatusUnauthorized,
	codes.DeadlineExceeded:   http.StatusGatewayTimeout,
	codes.Canceled:           499,
}

func HTTPStatus(err error) int {
	if s, ok := httpStatus[Code(err)]; ok {
		return s
	}
	return http.StatusInternalServerError
}

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondError writes the error envelope with the mapped status.
func RespondError(c *gin.Context, err error) {
	code := Code(err)
	msg := "internal error"
	if code != codes.Internal && err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(HTTPStatus(err), ErrorEnvelope{
		Error: APIError{Message: msg, Code: code.String()},
	})
}

// BadRequest reports a malformed request body or query.
func BadRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorEnvelope{
		Error: APIError{Message: err.Error(), Code: codes.InvalidArgument.String()},
	})
}

package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	documentdomain "github.com/smallbiznis/invoicegen/internal/document/domain"
	"github.com/smallbiznis/invoicegen/internal/render"
	subscriptiondomain "github.com/smallbiznis/invoicegen/internal/subscription/domain"
	"go.uber.org/zap"
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not_found")
	ErrRateLimited        = errors.New("rate_limited")
	ErrServiceUnavailable = errors.New("service_unavailable")
)

type errorBody struct {
	Code    string                          `json:"code"`
	Message string                          `json:"message"`
	Errors  documentdomain.ValidationErrors `json:"errors,omitempty"`
}

// AbortWithError maps a pipeline error onto the HTTP taxonomy. Internal
// detail is logged, never returned to the caller.
func (s *Server) AbortWithError(c *gin.Context, err error) {
	var verrs documentdomain.ValidationErrors
	var renderErr *render.RenderError

	switch {
	case errors.As(err, &verrs):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": errorBody{
			Code:    "validation_failed",
			Message: "one or more fields are invalid",
			Errors:  verrs,
		}})
	case errors.Is(err, documentdomain.ErrMalformedBody):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": errorBody{
			Code:    "malformed_body",
			Message: "request body is not valid JSON",
		}})
	case errors.Is(err, ErrUnauthorized):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errorBody{
			Code:    "unauthorized",
			Message: "authentication required",
		}})
	case errors.Is(err, ErrForbidden):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": errorBody{
			Code:    "forbidden",
			Message: "a premium subscription is required",
		}})
	case errors.Is(err, ErrRateLimited):
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": errorBody{
			Code:    "rate_limited",
			Message: "too many requests, retry later",
		}})
	case errors.Is(err, ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": errorBody{
			Code:    "not_found",
			Message: "resource not found",
		}})
	case errors.As(err, &renderErr):
		s.log.Error("render failure",
			zap.String("stage", renderErr.Stage),
			zap.String("path", c.Request.URL.Path),
			zap.Error(renderErr.Err),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": errorBody{
			Code:    "render_failure",
			Message: "document rendering failed",
		}})
	case errors.Is(err, subscriptiondomain.ErrSubscriptionUnavailable), errors.Is(err, ErrServiceUnavailable):
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": errorBody{
			Code:    "dependency_failure",
			Message: "a backing service is unavailable",
		}})
	default:
		s.log.Error("internal error",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": errorBody{
			Code:    "internal_error",
			Message: "internal server error",
		}})
	}
}

func newValidationError(field, message string) error {
	return documentdomain.ValidationErrors{{Field: field, Message: message}}
}

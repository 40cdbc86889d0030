package handler

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/techmine/techmine/internal/apiserver/service"
	"github.com/techmine/techmine/internal/common/errorx"
	"go.uber.org/zap"
)

// Handler serves every /api route on top of the service layer
type Handler struct {
	svc    *service.Services
	errors *errorx.ErrorHandler
	logger *zap.Logger
}

// New creates a new Handler
func New(svc *service.Services, eh *errorx.ErrorHandler, logger *zap.Logger) *Handler {
	return &Handler{
		svc:    svc,
		errors: eh,
		logger: logger.Named("handler"),
	}
}

// fail converts a service error into the matching API error. resource names
// the entity for not-found and conflict messages.
func (h *Handler) fail(c *gin.Context, resource string, err error) {
	h.errors.HandleError(c, toAPIError(resource, err))
}

func toAPIError(resource string, err error) error {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		fields := make([]errorx.FieldError, len(verr.Fields))
		for i, f := range verr.Fields {
			fields[i] = errorx.FieldError{
				Field:     f.Field,
				Rule:      f.Rule,
				Param:     f.Param,
				Message:   fmt.Sprintf("%s failed the %s rule", f.Field, f.Rule),
				MessageID: f.MessageID(),
			}
		}
		return errorx.Validation(fields...).Wrap(err)
	case errors.Is(err, service.ErrInvalidID):
		return errorx.InvalidID().Wrap(err)
	case errors.Is(err, service.ErrNotFound):
		return errorx.NotFound(resource).Wrap(err)
	case errors.Is(err, service.ErrConflict):
		return errorx.Conflict(resource).Wrap(err)
	case errors.Is(err, service.ErrMissingSubject):
		return errorx.MissingSubject().Wrap(err)
	default:
		return err
	}
}

// bind decodes the JSON body. Anything that is not a JSON object of the
// expected shape is a malformed body.
func (h *Handler) bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.errors.HandleError(c, errorx.MalformedBody(err))
		return false
	}
	return true
}

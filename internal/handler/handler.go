package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abhishek622/portfolio/internal/auth"
	"github.com/abhishek622/portfolio/internal/repository"
	"github.com/abhishek622/portfolio/internal/service"
	"github.com/abhishek622/portfolio/pkg/model"
	"github.com/abhishek622/portfolio/pkg/response"
)

// ClaimsKey is the gin context key under which the admin middleware stores
// verified token claims.
const ClaimsKey = "claims"

// HealthCheck is a dependency reported by the health endpoint.
type HealthCheck interface {
	Name() string
	Ping(ctx context.Context) error
}

type Handler struct {
	Logger     *zap.Logger
	Interviews *service.InterviewService
	Contacts   *service.ContactService
	// Auth is nil when the admin API is disabled.
	Auth       *auth.AdminAuthenticator
	Checks     []HealthCheck
	Production bool
}

// GetClaimsFromContext retrieves the admin claims set by the auth middleware
func (h *Handler) GetClaimsFromContext(c *gin.Context) *auth.AdminClaims {
	v, exists := c.Get(ClaimsKey)
	if !exists {
		return nil
	}
	claims, ok := v.(*auth.AdminClaims)
	if !ok {
		return nil
	}
	return claims
}

// fail maps err onto the error envelope: validation errors become 400 with
// details, missing records 404 with notFound, anything else 500.
func (h *Handler) fail(c *gin.Context, op string, notFound string, err error, kv ...any) {
	if ve, ok := model.AsValidationError(err); ok {
		response.ValidationFailed(c, ve.Fields)
		return
	}
	if errors.Is(err, repository.ErrNotFound) {
		response.NotFound(c, notFound)
		return
	}
	h.Logger.Sugar().Errorw(op, append(kv, "err", err)...)
	if h.Production {
		response.InternalError(c, "")
		return
	}
	response.InternalError(c, err.Error())
}

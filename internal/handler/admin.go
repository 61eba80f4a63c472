package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/abhishek622/portfolio/internal/auth"
	"github.com/abhishek622/portfolio/pkg/model"
	"github.com/abhishek622/portfolio/pkg/response"
)

// AdminLogin verifies the admin credentials and returns a JWT
func (h *Handler) AdminLogin(c *gin.Context) {
	if h.Auth == nil {
		response.Forbidden(c, "Admin API is disabled")
		return
	}

	var req model.AdminLoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Logger.Sugar().Warnw("admin login bad request", "err", err)
		response.BadRequest(c, "username and password are required")
		return
	}

	res, err := h.Auth.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.Logger.Sugar().Warnw("admin login failed", "username", req.Username, "ip", c.ClientIP())
			response.Unauthorized(c, "Invalid credentials")
			return
		}
		h.fail(c, "error creating token", "", err)
		return
	}

	response.OK(c, gin.H{"token": res.Token, "expiresAt": res.ExpiresAt})
}

// AdminMe returns the identity carried by the current token.
func (h *Handler) AdminMe(c *gin.Context) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}
	response.OK(c, gin.H{
		"username":  claims.Username,
		"expiresAt": claims.ExpiresAt.Time,
	})
}

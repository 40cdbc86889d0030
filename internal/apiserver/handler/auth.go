package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/techmine/techmine/internal/apiserver/middleware"
	"github.com/techmine/techmine/internal/common/dto"
	"github.com/techmine/techmine/internal/common/errorx"
)

// HandleAuthMe echoes the verified identity and its resolved role
func (h *Handler) HandleAuthMe(c *gin.Context) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		h.errors.HandleError(c, errorx.Unauthenticated())
		return
	}
	if id.Subject == "" {
		h.errors.HandleError(c, errorx.MissingSubject())
		return
	}

	role, err := h.svc.Roles.Resolve(c.Request.Context(), id)
	if err != nil {
		h.errors.HandleError(c, errorx.Internal(err))
		return
	}
	c.JSON(http.StatusOK, dto.Identity{
		UserID: id.Subject,
		Email:  id.Email,
		Role:   role,
		Claims: id.Claims,
	})
}

// HandleAuthPublic needs no credentials
func (h *Handler) HandleAuthPublic(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "This is public info, accessible by anyone."})
}

// HandleAuthAdmin is only reachable through the admin gate
func (h *Handler) HandleAuthAdmin(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)
	c.JSON(http.StatusOK, gin.H{
		"userId":  id.Subject,
		"message": "Welcome, Admin! This is admin-only info.",
	})
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/techmine/techmine/internal/apiserver/middleware"
	"github.com/techmine/techmine/internal/common/errorx"
)

// HandleProfileMe returns the profile of the caller
func (h *Handler) HandleProfileMe(c *gin.Context) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		h.errors.HandleError(c, errorx.Unauthenticated())
		return
	}
	p, err := h.svc.Profiles.Me(c.Request.Context(), id.Subject)
	if err != nil {
		h.fail(c, "Profile", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

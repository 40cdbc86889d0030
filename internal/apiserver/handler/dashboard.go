package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/techmine/techmine/internal/common/errorx"
)

// HandleHomepage returns the homepage counters and activity feed
func (h *Handler) HandleHomepage(c *gin.Context) {
	page, err := h.svc.Dashboard.Homepage(c.Request.Context())
	if err != nil {
		h.errors.HandleError(c, errorx.Internal(err))
		return
	}
	c.JSON(http.StatusOK, page)
}

// HandleRecap returns the global totals
func (h *Handler) HandleRecap(c *gin.Context) {
	recap, err := h.svc.Dashboard.Recap(c.Request.Context())
	if err != nil {
		h.errors.HandleError(c, errorx.Internal(err))
		return
	}
	c.JSON(http.StatusOK, recap)
}

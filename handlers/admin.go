package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nitish36/RR-Solutions-Inspection-Portal/internal/syncer"
	"github.com/Nitish36/RR-Solutions-Inspection-Portal/pkg/middleware"
)

// AdminHandler exposes administrator-only maintenance operations
type AdminHandler struct {
	sync *syncer.Syncer
}

func NewAdminHandler(s *syncer.Syncer) *AdminHandler {
	return &AdminHandler{sync: s}
}

func (h *AdminHandler) Register(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	g := rg.Group("/admin", auth, middleware.RequireAdmin())
	g.POST("/sync", h.TriggerSync)
}

// TriggerSync runs the spreadsheet mirror. A failed mirror is a soft
// failure: nothing local is rolled back, the upstream error is reported.
func (h *AdminHandler) TriggerSync(c *gin.Context) {
	if h.sync == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "mirroring not configured"})
		return
	}
	n, err := h.sync.Run(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"status": "error", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "mirrored": n})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "projectms/internal/errors"
	"projectms/internal/middleware"
	"projectms/internal/services"
)

// DashboardHandler serves the per-actor summary counters.
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// GetStats returns project and task counters scoped to the actor.
func (h *DashboardHandler) GetStats(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	stats, err := h.dashboardService.GetStats(actor)
	if err != nil {
		apierrors.InternalError(c, "Failed to compute dashboard stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}

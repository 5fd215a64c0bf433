package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"horizon/coach-api/internal/service"
)

type HealthHandler struct {
	healthService service.HealthService
	errs          errorResponder
}

func NewHealthHandler(healthService service.HealthService, errs errorResponder) *HealthHandler {
	return &HealthHandler{healthService: healthService, errs: errs}
}

// Health godoc
// @Summary Database round trip
// @Tags Health
// @Produce json
// @Success 200 {object} gin.H "{status, time}"
// @Failure 503 {object} ErrorResponse "Database unreachable"
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	now, err := h.healthService.Check(c.Request.Context())
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": now})
}

func (h *HealthHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

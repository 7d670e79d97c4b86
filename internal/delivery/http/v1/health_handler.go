package v1

import (
	"go-job-intake/internal/delivery/http/response"
	"go-job-intake/internal/domain"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	healthUC domain.HealthUsecase
}

func NewHealthHandler(public *gin.RouterGroup, healthUC domain.HealthUsecase) {
	handler := &HealthHandler{healthUC: healthUC}
	public.GET("/health", handler.Health)
}

// Health godoc
// @Summary      Health check
// @Description  Reports the reachability of the database, Redis, storage and Kafka
// @Tags         health
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      503  {object}  response.Response
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	checks := h.healthUC.Check(c.Request.Context())
	if checks["status"] != "ok" {
		response.Error(c, http.StatusServiceUnavailable, "System degraded", checks)
		return
	}
	response.Success(c, http.StatusOK, "System operational", checks)
}

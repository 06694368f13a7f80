package controller

import (
	"context"
	"net/http"
	"time"

	"exam_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const healthPingTimeout = 2 * time.Second

type HealthController struct {
	db          *gorm.DB
	storageType string
}

func NewHealthController(db *gorm.DB, storageType string) *HealthController {
	return &HealthController{db: db, storageType: storageType}
}

type healthReport struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	LatencyMS int64  `json:"latency_ms"`
	Storage   string `json:"storage"`
}

// @Summary Health check
// @Description Pings the database and reports the configured storage backend
// @Tags health
// @Produce json
// @Success 200 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /health [get]
func (h *HealthController) HealthCheck(c *gin.Context) {
	report := healthReport{Status: "ok", Database: "up", Storage: h.storageType}

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
	defer cancel()

	start := time.Now()
	err := h.ping(ctx)
	report.LatencyMS = time.Since(start).Milliseconds()
	if err != nil {
		report.Status, report.Database = "degraded", "down"
		c.JSON(http.StatusServiceUnavailable, util.Response{
			Code:    http.StatusServiceUnavailable,
			Message: "database unavailable",
			Data:    report,
		})
		return
	}
	util.Success(c, report)
}

func (h *HealthController) ping(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

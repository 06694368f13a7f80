package controller

import (
	"fmt"
	"net/http"

	"exam_portal_backend/internal/service"
	"exam_portal_backend/internal/util"
	"exam_portal_backend/pkg/logger"
	"exam_portal_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CertificateController struct {
	Service *service.CertificateService
}

func NewCertificateController(svc *service.CertificateService) *CertificateController {
	return &CertificateController{Service: svc}
}

// @Summary Download a certificate
// @Description Streams a PDF certificate for a passing result
// @Tags certificate
// @Produce application/pdf
// @Security BearerAuth
// @Param user_id path string true "Student ID"
// @Param exam_id path int true "Exam ID"
// @Success 200 {file} file
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/student/certificate/{user_id}/{exam_id} [get]
func (c *CertificateController) Download(ctx *gin.Context) {
	userID := ctx.Param("user_id")
	examID, ok := pathID(ctx, "exam_id")
	if !ok {
		return
	}
	if !authorizeFor(ctx, userID) {
		return
	}

	cert, err := c.Service.Prepare(ctx.Request.Context(), userID, examID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	ctx.Header("Content-Type", util.MimePDF)
	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, cert.Filename))
	ctx.Status(http.StatusOK)

	// The response is committed from here on, so failures can only be logged.
	if err := cert.Render(ctx.Writer); err != nil {
		monitoring.CertificatesRendered.WithLabelValues("stream_failed").Inc()
		logger.Log.Error("Certificate stream failed",
			zap.String("user_id", userID),
			zap.Uint("exam_id", examID),
			zap.Error(err),
		)
		return
	}
	monitoring.CertificatesRendered.WithLabelValues("streamed").Inc()
}

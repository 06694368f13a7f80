package controller

import (
	"exam_portal_backend/internal/service"
	"exam_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EnrollmentController struct {
	Service *service.EnrollmentService
}

func NewEnrollmentController(svc *service.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{Service: svc}
}

type enrollmentStatusReq struct {
	Status string `json:"status" binding:"required"`
}

// @Summary Enroll in an exam
// @Description Uploads the optional payment proof and creates a pending enrollment
// @Tags enrollment
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param exam_id formData int true "Exam ID"
// @Param user_id formData string true "Student ID"
// @Param file formData file false "Payment proof (image or PDF); payment_proof is accepted too"
// @Success 201 {object} util.Response{data=model.Enrollment}
// @Router /api/student/enroll [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	examID := util.MustParseUint(ctx.PostForm("exam_id"))
	userID := ctx.PostForm("user_id")
	if examID == 0 || userID == "" {
		util.BadRequest(ctx, "exam_id and user_id are required")
		return
	}
	if !authorizeFor(ctx, userID) {
		return
	}

	proof, closeProof, err := formUpload(ctx, []string{util.MimeImage, util.MimePDF}, "file", "payment_proof")
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	defer closeProof()

	enrollment, err := c.Service.Enroll(ctx.Request.Context(), examID, userID, proof)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Created(ctx, enrollment)
}

// @Summary Check enrollment
// @Tags enrollment
// @Produce json
// @Security BearerAuth
// @Param exam_id path int true "Exam ID"
// @Param user_id path string true "Student ID"
// @Success 200 {object} util.Response{data=model.EnrollmentCheck}
// @Router /api/student/enrollment/{exam_id}/{user_id} [get]
func (c *EnrollmentController) CheckEnrollment(ctx *gin.Context) {
	examID, ok := pathID(ctx, "exam_id")
	if !ok {
		return
	}
	userID := ctx.Param("user_id")
	if !authorizeFor(ctx, userID) {
		return
	}

	check, err := c.Service.CheckEnrollment(ctx.Request.Context(), examID, userID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, check)
}

// @Summary List enrolled exams
// @Tags enrollment
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "Student ID"
// @Success 200 {object} util.Response{data=[]model.EnrolledExam}
// @Router /api/student/enrolled-exams/{user_id} [get]
func (c *EnrollmentController) ListEnrolledExams(ctx *gin.Context) {
	userID := ctx.Param("user_id")
	if !authorizeFor(ctx, userID) {
		return
	}

	exams, err := c.Service.ListEnrolledExams(ctx.Request.Context(), userID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, exams)
}

// @Summary Exam access status
// @Description Enrollment status and the latest submission mode
// @Tags enrollment
// @Produce json
// @Security BearerAuth
// @Param exam_id path int true "Exam ID"
// @Param user_id path string true "Student ID"
// @Success 200 {object} util.Response{data=model.AccessStatus}
// @Router /api/student/exam/{exam_id}/access/{user_id} [get]
func (c *EnrollmentController) AccessStatus(ctx *gin.Context) {
	examID, ok := pathID(ctx, "exam_id")
	if !ok {
		return
	}
	userID := ctx.Param("user_id")
	if !authorizeFor(ctx, userID) {
		return
	}

	status, err := c.Service.AccessStatus(ctx.Request.Context(), examID, userID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, status)
}

// @Summary Update enrollment status
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enrollment ID"
// @Param body body enrollmentStatusReq true "pending, approved or rejected"
// @Success 200 {object} util.Response{data=model.Enrollment}
// @Router /api/admin/enrollments/{id}/status [put]
func (c *EnrollmentController) UpdateStatus(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req enrollmentStatusReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	enrollment, err := c.Service.UpdateEnrollmentStatus(ctx.Request.Context(), id, req.Status)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, enrollment)
}

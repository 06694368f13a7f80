package controller

import (
	"exam_portal_backend/internal/service"
	"exam_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SubmissionController struct {
	Service *service.SubmissionService
}

func NewSubmissionController(svc *service.SubmissionService) *SubmissionController {
	return &SubmissionController{Service: svc}
}

// @Summary Submit exam answers
// @Description Scores the answers. submission_status "submitted" stores a result; any other value saves a draft. Accepts JSON sent as text/plain by sendBeacon.
// @Tags exam
// @Accept json,plain
// @Produce json
// @Security BearerAuth
// @Param body body service.SubmitRequest true "Answers"
// @Success 200 {object} util.Response{data=service.SubmitResponse}
// @Router /api/student/exam/submit [post]
// @Router /api/student/submit-exam [post]
func (c *SubmissionController) Submit(ctx *gin.Context) {
	var req service.SubmitRequest
	// Decode the body as JSON whatever the content type, beacons send text/plain.
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "invalid submission body: "+err.Error())
		return
	}
	if req.UserID == "" {
		if user := util.GetUserFromContext(ctx); user != nil && !user.IsAdmin() {
			req.UserID = user.UserID()
		}
	}
	if !authorizeFor(ctx, req.UserID) {
		return
	}

	resp, err := c.Service.Submit(ctx.Request.Context(), req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, resp)
}

// @Summary Get a result by id
// @Tags exam
// @Produce json
// @Security BearerAuth
// @Param result_id path int true "Result ID"
// @Success 200 {object} util.Response{data=model.Result}
// @Router /api/student/exam-result/{result_id} [get]
func (c *SubmissionController) GetResult(ctx *gin.Context) {
	resultID, ok := pathID(ctx, "result_id")
	if !ok {
		return
	}

	result, err := c.Service.GetResult(ctx.Request.Context(), resultID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	if !authorizeFor(ctx, result.UserID) {
		return
	}

	util.Success(ctx, result)
}

// @Summary Latest result for a student and exam
// @Tags exam
// @Produce json
// @Security BearerAuth
// @Param exam_id path int true "Exam ID"
// @Param user_id path string true "Student ID"
// @Success 200 {object} util.Response{data=model.Result}
// @Router /api/student/exam/{exam_id}/result/{user_id} [get]
func (c *SubmissionController) GetPreviousResult(ctx *gin.Context) {
	examID, ok := pathID(ctx, "exam_id")
	if !ok {
		return
	}
	userID := ctx.Param("user_id")
	if !authorizeFor(ctx, userID) {
		return
	}

	result, err := c.Service.GetPreviousResult(ctx.Request.Context(), examID, userID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// @Summary Latest saved attempt
// @Description Answers of the most recent submission or draft, in exam question order
// @Tags exam
// @Produce json
// @Security BearerAuth
// @Param exam_id path int true "Exam ID"
// @Param user_id path string true "Student ID"
// @Success 200 {object} util.Response{data=model.PreviousAttempt}
// @Router /api/student/exam/{exam_id}/attempts/{user_id} [get]
func (c *SubmissionController) GetPreviousAttempt(ctx *gin.Context) {
	examID, ok := pathID(ctx, "exam_id")
	if !ok {
		return
	}
	userID := ctx.Param("user_id")
	if !authorizeFor(ctx, userID) {
		return
	}

	attempt, err := c.Service.GetPreviousAttempt(ctx.Request.Context(), examID, userID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, attempt)
}

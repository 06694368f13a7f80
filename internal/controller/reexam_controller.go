package controller

import (
	"exam_portal_backend/internal/service"
	"exam_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ReExamController struct {
	Service *service.ReExamService
}

func NewReExamController(svc *service.ReExamService) *ReExamController {
	return &ReExamController{Service: svc}
}

type reExamDecisionReq struct {
	Status    string `json:"status" binding:"required"`
	AdminNote string `json:"admin_note"`
}

// @Summary Request a re-exam
// @Tags re-exam
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.ReExamRequestInput true "Request"
// @Success 201 {object} util.Response{data=model.ReExamRequest}
// @Failure 400 {object} util.Response
// @Router /api/student/re-exam/request [post]
func (c *ReExamController) RequestReExam(ctx *gin.Context) {
	var req service.ReExamRequestInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
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

	created, err := c.Service.RequestReExam(ctx.Request.Context(), req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Created(ctx, created)
}

// @Summary Latest re-exam request
// @Tags re-exam
// @Produce json
// @Security BearerAuth
// @Param exam_id path int true "Exam ID"
// @Param user_id path string true "Student ID"
// @Success 200 {object} util.Response{data=model.ReExamRequest}
// @Router /api/student/re-exam/{exam_id}/{user_id} [get]
func (c *ReExamController) GetRequest(ctx *gin.Context) {
	examID, ok := pathID(ctx, "exam_id")
	if !ok {
		return
	}
	userID := ctx.Param("user_id")
	if !authorizeFor(ctx, userID) {
		return
	}

	req, err := c.Service.GetReExamRequest(ctx.Request.Context(), examID, userID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, req)
}

// @Summary List re-exam requests
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, approved, declined or completed"
// @Success 200 {object} util.Response{data=[]model.ReExamRequest}
// @Router /api/admin/re-exam/requests [get]
func (c *ReExamController) ListRequests(ctx *gin.Context) {
	reqs, err := c.Service.ListReExamRequests(ctx.Request.Context(), ctx.Query("status"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, reqs)
}

// @Summary Decide a re-exam request
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Param body body reExamDecisionReq true "Decision"
// @Success 200 {object} util.Response{data=model.ReExamRequest}
// @Router /api/admin/re-exam/requests/{id} [put]
func (c *ReExamController) UpdateRequest(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req reExamDecisionReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	updated, err := c.Service.UpdateRequestStatus(ctx.Request.Context(), id, req.Status, req.AdminNote)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, updated)
}

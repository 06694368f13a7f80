package controller

import (
	"exam_portal_backend/internal/service"
	"exam_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	Service *service.QuestionService
}

func NewQuestionController(svc *service.QuestionService) *QuestionController {
	return &QuestionController{Service: svc}
}

// @Summary Create a question
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param exam_id formData int true "Exam ID"
// @Param question_text formData string true "Question text"
// @Param options formData string false "JSON array of options"
// @Param correct_option formData string false "Correct option text or zero-based index"
// @Param file formData file false "Question image; image is accepted too"
// @Success 201 {object} util.Response{data=model.Question}
// @Router /api/admin/questions [post]
func (c *QuestionController) Create(ctx *gin.Context) {
	in := service.QuestionInput{
		ExamID:        util.MustParseUint(ctx.PostForm("exam_id")),
		QuestionText:  ctx.PostForm("question_text"),
		Options:       ctx.PostForm("options"),
		CorrectOption: ctx.PostForm("correct_option"),
	}

	image, closeImage, err := formUpload(ctx, []string{util.MimeImage}, "file", "image")
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	defer closeImage()

	question, err := c.Service.Create(ctx.Request.Context(), in, image)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Created(ctx, question)
}

// @Summary Update a question
// @Description Only the fields present in the form are changed
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Param question_text formData string false "Question text"
// @Param options formData string false "JSON array of options"
// @Param correct_option formData string false "Correct option text or zero-based index"
// @Param file formData file false "Question image; image is accepted too"
// @Success 200 {object} util.Response{data=model.Question}
// @Router /api/admin/questions/{id} [put]
func (c *QuestionController) Update(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var patch service.QuestionPatch
	if v, ok := ctx.GetPostForm("question_text"); ok {
		patch.QuestionText = &v
	}
	if v, ok := ctx.GetPostForm("options"); ok {
		patch.Options = &v
	}
	if v, ok := ctx.GetPostForm("correct_option"); ok {
		patch.CorrectOption = &v
	}

	image, closeImage, err := formUpload(ctx, []string{util.MimeImage}, "file", "image")
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	defer closeImage()

	question, err := c.Service.Update(ctx.Request.Context(), id, patch, image)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, question)
}

// @Summary List an exam's questions
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param exam_id query int true "Exam ID"
// @Success 200 {object} util.Response{data=[]model.Question}
// @Router /api/admin/questions [get]
func (c *QuestionController) List(ctx *gin.Context) {
	questions, err := c.Service.ListByExam(ctx.Request.Context(), util.MustParseUint(ctx.Query("exam_id")))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, questions)
}

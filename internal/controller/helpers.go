package controller

import (
	"errors"
	"mime/multipart"
	"net/http"

	"exam_portal_backend/internal/service"
	"exam_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// pathID parses a numeric path parameter and writes a 400 when it is invalid.
func pathID(ctx *gin.Context, name string) (uint, bool) {
	id := util.MustParseUint(ctx.Param(name))
	if id == 0 {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return id, true
}

// authorizeFor writes 401/403 unless the caller may act for userID.
func authorizeFor(ctx *gin.Context, userID string) bool {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return false
	}
	if !user.CanActFor(userID) {
		util.Forbidden(ctx)
		return false
	}
	return true
}

// formUpload reads an optional multipart file from the first of fields that
// is present. The returned closer must be called once the upload has been
// consumed.
func formUpload(ctx *gin.Context, allowed []string, fields ...string) (*service.Upload, func(), error) {
	var (
		header *multipart.FileHeader
		field  string
	)
	for _, f := range fields {
		h, err := ctx.FormFile(f)
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		header, field = h, f
		break
	}
	if header == nil {
		return nil, func() {}, nil
	}
	if header.Size > util.MaxUploadSize {
		return nil, nil, errors.New(field + " is too large")
	}

	file, err := header.Open()
	if err != nil {
		return nil, nil, err
	}
	mimeType, err := util.ValidateMimeType(file, allowed)
	if err != nil {
		file.Close()
		return nil, nil, err
	}

	return &service.Upload{
		Filename:    header.Filename,
		ContentType: mimeType,
		Size:        header.Size,
		Reader:      file,
	}, func() { file.Close() }, nil
}

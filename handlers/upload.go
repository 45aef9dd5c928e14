package handlers

import (
	"net/http"

	"villastay/services/storage"
	"villastay/utils"

	"github.com/gin-gonic/gin"
)

// UploadHandler accepts villa images.
type UploadHandler struct {
	Uploader *storage.ImageUploader
}

func NewUploadHandler(u *storage.ImageUploader) *UploadHandler {
	return &UploadHandler{Uploader: u}
}

// UploadSingle handles POST /api/upload/single with form field "image".
func (h *UploadHandler) UploadSingle(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		utils.RespondError(c, utils.BadRequest("image file not provided"))
		return
	}
	result, err := h.Uploader.UploadImage(c.Request.Context(), fh)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Respond(c, http.StatusCreated, result)
}

// UploadMultiple handles POST /api/upload/multiple with form field "images".
func (h *UploadHandler) UploadMultiple(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		utils.RespondError(c, utils.BadRequest("multipart form expected"))
		return
	}
	results, err := h.Uploader.UploadImages(c.Request.Context(), form.File["images"])
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Respond(c, http.StatusCreated, results)
}

package handlers

import (
	"gather/internal/apperr"
	"gather/internal/services"

	"github.com/gin-gonic/gin"
)

type ImageHandler struct{}

func NewImageHandler() *ImageHandler {
	return &ImageHandler{}
}

// Upload stores one multipart image under the public static root and returns
// the path it will be served from.
func (h *ImageHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		Fail(c, apperr.New(apperr.Validation, "file", "An image file is required."))
		return
	}
	defer file.Close()

	path, err := services.SaveUploadedImage(file, header)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, gin.H{"path": path})
}

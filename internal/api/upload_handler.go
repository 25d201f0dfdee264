package api

import (
	"net/http"

	"foodieapi/internal/service"

	"github.com/gin-gonic/gin"
)

// UploadHandler hands out presigned upload URLs for resource images.
type UploadHandler struct {
	uploadService service.UploadService
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(uploadService service.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// UploadRequest names the file a client wants to upload. The contentType
// must match the Content-Type header the client sends on the PUT.
type UploadRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
}

// Create handles POST /api/uploads.
func (h *UploadHandler) Create(c *gin.Context) {
	var req UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ticket, err := h.uploadService.PresignImageUpload(c.Request.Context(), req.Filename, req.ContentType)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ticket)
}

package handlers

import (
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type UploadHandler struct {
	mediaService *services.MediaService
}

func NewUploadHandler(mediaService *services.MediaService) *UploadHandler {
	return &UploadHandler{mediaService: mediaService}
}

// Upload accepts one multipart file under "file" (or "image").
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		header, err = c.FormFile("image")
	}
	if err != nil {
		return badRequest(c, "A file is required")
	}

	file, err := header.Open()
	if err != nil {
		return badRequest(c, "Unable to read uploaded file")
	}
	defer file.Close()

	result, err := h.mediaService.Upload(c.UserContext(), file, header.Size)
	if err != nil {
		return respondError(c, "upload", err)
	}
	return c.JSON(dto.UploadResponse{SecureURL: result.SecureURL, PublicID: result.PublicID})
}

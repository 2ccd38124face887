package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"osfr/internal/service"
)

// ImageHandler handles image upload and serving endpoints.
type ImageHandler struct {
	imageService service.ImageService
}

// NewImageHandler creates a new image handler.
func NewImageHandler(imageService service.ImageService) *ImageHandler {
	return &ImageHandler{imageService: imageService}
}

// UploadImageResponse describes a stored image.
type UploadImageResponse struct {
	ID           uint   `json:"id"`
	URL          string `json:"url"`
	Filename     string `json:"filename"`
	OriginalName string `json:"originalname"`
}

// DeleteImageRequest names the image to delete by its public URL.
type DeleteImageRequest struct {
	URL string `json:"url" validate:"required"`
}

// Upload godoc
// @Summary Upload an image for instructions
// @Tags images
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Image"
// @Success 200 {object} UploadImageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.MessageResponse
// @Router /api/admin/upload-image [post]
func (h *ImageHandler) Upload(c echo.Context) error {
	upload, f, err := formUpload(c, "image")
	if err != nil {
		return err
	}
	if f != nil {
		defer f.Close()
	}

	image, err := h.imageService.Upload(c.Request().Context(), upload)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, UploadImageResponse{
		ID:           image.ID,
		URL:          image.URL,
		Filename:     image.Filename,
		OriginalName: image.OriginalName,
	})
}

// Delete godoc
// @Summary Delete an uploaded image
// @Tags images
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body DeleteImageRequest true "Image URL"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.MessageResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/admin/delete-image [post]
func (h *ImageHandler) Delete(c echo.Context) error {
	var req DeleteImageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.imageService.Delete(c.Request().Context(), req.URL); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "image deleted"})
}

// Serve godoc
// @Summary Serve an uploaded image
// @Tags images
// @Produce image/png,image/jpeg,image/gif,image/webp
// @Param filename path string true "Image file name"
// @Success 200 {file} file
// @Failure 404 {object} errors.ErrorResponse
// @Router /uploads/{filename} [get]
func (h *ImageHandler) Serve(c echo.Context) error {
	dl, err := h.imageService.Open(c.Request().Context(), c.Param("filename"))
	if err != nil {
		return err
	}
	return serveDownload(c, dl, "inline")
}

package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"osfr/internal/service"
)

// SoftwareHandler handles software endpoints.
type SoftwareHandler struct {
	softwareService service.SoftwareService
}

// NewSoftwareHandler creates a new software handler.
func NewSoftwareHandler(softwareService service.SoftwareService) *SoftwareHandler {
	return &SoftwareHandler{softwareService: softwareService}
}

// softwareInput collects the multipart metadata fields.
func softwareInput(c echo.Context) (service.SoftwareInput, error) {
	var input service.SoftwareInput
	var err error
	if input.Name, err = formValue(c, "name"); err != nil {
		return input, err
	}
	if input.Description, err = formValue(c, "description"); err != nil {
		return input, err
	}
	rawCategory, err := formValue(c, "category_id")
	if err != nil {
		return input, err
	}
	if input.CategoryID, err = optionalUint(rawCategory, "category_id"); err != nil {
		return input, err
	}
	return input, nil
}

// formUpload opens the multipart file sent in field. It returns nil when the
// field is absent or the body is not multipart, and a validation error when
// the body cannot be parsed.
func formUpload(c echo.Context, field string) (*service.Upload, multipart.File, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil, nil
		}
		return nil, nil, errMalformedForm
	}
	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	return &service.Upload{Filename: fh.Filename, Size: fh.Size, Content: f}, f, nil
}

// Create godoc
// @Summary Create software with its binary
// @Tags software
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Binary"
// @Param name formData string true "Name"
// @Param description formData string false "Description"
// @Param category_id formData int true "Category ID"
// @Success 201 {object} model.Software
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.MessageResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/admin/software [post]
func (h *SoftwareHandler) Create(c echo.Context) error {
	upload, f, err := formUpload(c, "file")
	if err != nil {
		return err
	}
	if f != nil {
		defer f.Close()
	}

	input, err := softwareInput(c)
	if err != nil {
		return err
	}

	software, err := h.softwareService.Create(c.Request().Context(), input, upload)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, software)
}

// Get godoc
// @Summary Get software metadata
// @Tags software
// @Produce json
// @Param id path int true "Software ID"
// @Success 200 {object} model.Software
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/software/{id} [get]
func (h *SoftwareHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	software, err := h.softwareService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, software)
}

// Replace godoc
// @Summary Update software metadata and optionally its binary
// @Tags software
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Software ID"
// @Param file formData file false "New binary"
// @Param name formData string false "Name"
// @Param description formData string false "Description"
// @Param category_id formData int false "Category ID"
// @Success 200 {object} model.Software
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.MessageResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /api/admin/software/{id} [put]
func (h *SoftwareHandler) Replace(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	upload, f, err := formUpload(c, "file")
	if err != nil {
		return err
	}
	if f != nil {
		defer f.Close()
	}

	input, err := softwareInput(c)
	if err != nil {
		return err
	}

	software, err := h.softwareService.Replace(c.Request().Context(), id, input, upload)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, software)
}

// Delete godoc
// @Summary Delete software and its binary
// @Tags software
// @Produce json
// @Security BearerAuth
// @Param id path int true "Software ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.MessageResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/admin/software/{id} [delete]
func (h *SoftwareHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.softwareService.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "software deleted"})
}

// Download godoc
// @Summary Download the software binary
// @Tags software
// @Produce octet-stream
// @Param id path int true "Software ID"
// @Success 200 {file} file
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/software/download/{id} [get]
func (h *SoftwareHandler) Download(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	dl, err := h.softwareService.Download(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return serveDownload(c, dl, "attachment")
}

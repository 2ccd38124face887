package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"osfr/internal/service"
)

// InstructionHandler handles instruction endpoints.
type InstructionHandler struct {
	instructionService service.InstructionService
}

// NewInstructionHandler creates a new instruction handler.
func NewInstructionHandler(instructionService service.InstructionService) *InstructionHandler {
	return &InstructionHandler{instructionService: instructionService}
}

// InstructionRequest represents an instruction create or update request.
type InstructionRequest struct {
	Title      string `json:"title" validate:"required"`
	Content    string `json:"content" validate:"required"`
	CategoryID uint   `json:"category_id" validate:"required"`
}

// DeleteInstructionResponse confirms a deletion.
type DeleteInstructionResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	DeletedID string `json:"deletedId"`
}

func bindInstruction(c echo.Context) (service.InstructionInput, error) {
	var req InstructionRequest
	if err := c.Bind(&req); err != nil {
		return service.InstructionInput{}, echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return service.InstructionInput{}, echo.NewHTTPError(http.StatusBadRequest, "title, content and category_id are required")
	}
	return service.InstructionInput{Title: req.Title, Content: req.Content, CategoryID: req.CategoryID}, nil
}

// List godoc
// @Summary List instructions ordered by title
// @Tags instructions
// @Produce json
// @Security BearerAuth
// @Param category_id query int false "Category ID"
// @Success 200 {array} model.Instruction
// @Failure 400 {object} errors.ErrorResponse
// @Router /api/admin/instructions [get]
func (h *InstructionHandler) List(c echo.Context) error {
	raw := c.QueryParam("category_id")
	categoryID, err := optionalUint(&raw, "category_id")
	if err != nil {
		return err
	}
	instructions, err := h.instructionService.List(c.Request().Context(), categoryID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, instructions)
}

// Get godoc
// @Summary Get an instruction
// @Tags instructions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Instruction ID"
// @Success 200 {object} model.Instruction
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/admin/instructions/{id} [get]
func (h *InstructionHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	instruction, err := h.instructionService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, instruction)
}

// Create godoc
// @Summary Create an instruction
// @Tags instructions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body InstructionRequest true "Instruction"
// @Success 201 {object} model.Instruction
// @Failure 400 {object} errors.ErrorResponse
// @Router /api/admin/instructions [post]
func (h *InstructionHandler) Create(c echo.Context) error {
	input, err := bindInstruction(c)
	if err != nil {
		return err
	}
	instruction, err := h.instructionService.Create(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, instruction)
}

// Update godoc
// @Summary Update an instruction
// @Tags instructions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Instruction ID"
// @Param request body InstructionRequest true "Instruction"
// @Success 200 {object} model.Instruction
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/admin/instructions/{id} [put]
func (h *InstructionHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	input, err := bindInstruction(c)
	if err != nil {
		return err
	}
	instruction, err := h.instructionService.Update(c.Request().Context(), id, input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, instruction)
}

// Delete godoc
// @Summary Delete an instruction
// @Tags instructions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Instruction ID"
// @Success 200 {object} DeleteInstructionResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/admin/instructions/{id} [delete]
func (h *InstructionHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.instructionService.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, DeleteInstructionResponse{
		Success:   true,
		Message:   "Instruction deleted successfully",
		DeletedID: strconv.FormatUint(uint64(id), 10),
	})
}

package handler

import (
	"net/http"
	"payment-notify-relay/internal/dto"
	"payment-notify-relay/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const healthMessage = "✅ Finest backend is running"

type SubmissionHandler struct {
	submissionService service.SubmissionService
}

func NewSubmissionHandler(submissionService service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
	}
}

func (h *SubmissionHandler) Health(c echo.Context) error {
	return c.String(http.StatusOK, healthMessage)
}

func (h *SubmissionHandler) Finalize(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.FinalizeRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(err)
	}

	if err := h.submissionService.Finalize(ctx, &req); err != nil {
		return intakeError(err, "finalize_failed")
	}

	return c.JSON(http.StatusOK, &dto.SuccessResponse{Success: true})
}

func (h *SubmissionHandler) FreePack(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.FreePackRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(err)
	}

	if err := h.submissionService.ClaimFreePack(ctx, &req); err != nil {
		return intakeError(err, "freepack_failed")
	}

	return c.JSON(http.StatusOK, &dto.SuccessResponse{Success: true})
}

// CheckPayment is polled by the bot. It always answers 200.
func (h *SubmissionHandler) CheckPayment(c echo.Context) error {
	ctx := c.Request().Context()

	discordID := c.Param("discordId")

	return c.JSON(http.StatusOK, h.submissionService.CheckPayment(ctx, discordID))
}

func invalidBody(err error) error {
	apiErr := NewAPIError(http.StatusBadRequest, "invalid_body", "Invalid request body")
	apiErr.Cause = err
	return apiErr
}

func intakeError(err error, failureCode string) error {
	switch {
	case errors.Is(err, service.ErrMissingFields):
		return NewAPIError(http.StatusBadRequest, "missing_fields", "Missing required fields")
	case errors.Is(err, service.ErrInvalidDiscordID):
		return NewAPIError(http.StatusBadRequest, "invalid_discord_id", "Invalid Discord ID format")
	default:
		return internalError(failureCode, err)
	}
}

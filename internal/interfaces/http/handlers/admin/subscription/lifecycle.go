package subscription

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"learnhub/internal/application/subscription/usecases"
	"learnhub/internal/shared/errors"
	"learnhub/internal/shared/id"
	"learnhub/internal/shared/utils"
)

// ActivateRequest is relayed from the payment gateway once a charge settles.
type ActivateRequest struct {
	TransactionID string                 `json:"transaction_id" binding:"required,max=100"`
	PaymentMethod *string                `json:"payment_method" binding:"omitempty,max=50"`
	Metadata      map[string]interface{} `json:"metadata"`
}

func (h *Handler) ActivateSubscription(c *gin.Context) {
	sid, err := utils.ParseSIDParam(c, "sid", id.PrefixSubscription)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req ActivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	result, err := h.activateUseCase.Execute(c.Request.Context(), usecases.ActivateSubscriptionCommand{
		SID:           sid,
		TransactionID: req.TransactionID,
		PaymentMethod: req.PaymentMethod,
		Metadata:      req.Metadata,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Subscription activated successfully", result)
}

func (h *Handler) DeleteSubscription(c *gin.Context) {
	sid, err := utils.ParseSIDParam(c, "sid", id.PrefixSubscription)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.deleteUseCase.Execute(c.Request.Context(), usecases.DeleteSubscriptionCommand{SID: sid}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// RunSweep triggers a reconciliation run synchronously. Partial failures
// still return the counts, with the joined pass errors attached.
func (h *Handler) RunSweep(c *gin.Context) {
	result, err := h.sweepUseCase.Execute(c.Request.Context())
	if result == nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	if err != nil {
		h.logger.Warnw("manual sweep finished with errors", "error", err)
	}

	utils.SuccessResponse(c, http.StatusOK, "Sweep completed", result.ToDTO(err))
}

func (h *Handler) RecountSeats(c *gin.Context) {
	courseID, err := utils.ParseUintParam(c, "courseId")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.recountUseCase.Execute(c.Request.Context(), usecases.RecountSeatsCommand{CourseID: courseID})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Seats recounted", result)
}

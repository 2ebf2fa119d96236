package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"alcyxob/gym-admin/internal/service"
)

// PaymentHandler serves the monthly payment ledger.
type PaymentHandler struct {
	paymentService service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// RecordPaymentRequest settles a month. Month is "MM-YYYY" (empty for the
// current month); Amount defaults to the plan price.
type RecordPaymentRequest struct {
	Month  string           `json:"month" validate:"omitempty,max=7"`
	Plan   string           `json:"plan" validate:"omitempty,max=20"`
	Amount *decimal.Decimal `json:"amount" validate:"omitempty,gte=0"`
}

// ToggleCurrent godoc
// @Summary Toggle this month's payment
// @Description Creates the current month's payment as paid, or flips its paid flag.
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Success 200 {object} domain.Payment
// @Router /members/{id}/payments/toggle [post]
func (h *PaymentHandler) ToggleCurrent(c *gin.Context) {
	memberID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	payment, err := h.paymentService.ToggleCurrent(c.Request.Context(), memberID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

// ToggleMonth is ToggleCurrent for the month in the path ("MM-YYYY").
func (h *PaymentHandler) ToggleMonth(c *gin.Context) {
	memberID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	payment, err := h.paymentService.ToggleMonth(c.Request.Context(), memberID, c.Param("month"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

func (h *PaymentHandler) Record(c *gin.Context) {
	memberID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req RecordPaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	payment, err := h.paymentService.Record(c.Request.Context(), memberID, req.Month, req.Plan, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

func (h *PaymentHandler) History(c *gin.Context) {
	memberID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	history, err := h.paymentService.History(c.Request.Context(), memberID)
	if err != nil {
		respondError(c, err)
		return
	}
	if history == nil {
		history = []service.MonthStatus{}
	}
	c.JSON(http.StatusOK, history)
}

func (h *PaymentHandler) Void(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	payment, err := h.paymentService.Void(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

func (h *PaymentHandler) Delete(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.paymentService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Summary godoc
// @Summary Monthly payment summary
// @Description Settled payments of a month with per-plan totals.
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param month query string false "Month as MM-YYYY, defaults to the current month"
// @Success 200 {object} service.MonthlySummary
// @Router /payments/summary [get]
func (h *PaymentHandler) Summary(c *gin.Context) {
	summary, err := h.paymentService.MonthlySummary(c.Request.Context(), c.Query("month"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *PaymentHandler) Plans(c *gin.Context) {
	c.JSON(http.StatusOK, h.paymentService.Plans())
}

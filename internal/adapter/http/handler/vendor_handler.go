package handler

import (
	"payulot/internal/adapter/http/dto"
	"payulot/internal/adapter/http/middleware"
	"payulot/internal/core/ports"
	"payulot/pkg/apperror"
	"payulot/pkg/response"

	"github.com/gin-gonic/gin"
)

// VendorHandler handles point-of-sale charge endpoints.
type VendorHandler struct {
	chargeSvc ports.ChargeService
}

// NewVendorHandler creates a new VendorHandler.
func NewVendorHandler(chargeSvc ports.ChargeService) *VendorHandler {
	return &VendorHandler{chargeSvc: chargeSvc}
}

// PassportCharge handles POST /api/vendor/passport-charge. A retried request
// carrying the same Idempotency-Key header returns the original result.
func (h *VendorHandler) PassportCharge(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.ChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	charge := ports.ChargeRequest{
		Actor:         actor,
		PassportID:    req.PassportID,
		AmountDollars: req.Amount,
		Note:          req.Note,
	}
	if key := c.GetHeader("Idempotency-Key"); key != "" {
		charge.IdempotencyKey = &key
	}

	result, err := h.chargeSvc.Charge(c.Request.Context(), charge)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, result)
}

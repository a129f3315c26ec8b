package handler

import (
	"strconv"
	"time"

	"payulot/internal/adapter/http/dto"
	"payulot/internal/adapter/http/middleware"
	"payulot/internal/core/domain"
	"payulot/internal/core/ports"
	"payulot/pkg/apperror"
	"payulot/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TransferHandler handles the payout request and claim workflow endpoints.
type TransferHandler struct {
	payoutSvc ports.PayoutService
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(payoutSvc ports.PayoutService) *TransferHandler {
	return &TransferHandler{payoutSvc: payoutSvc}
}

// Create handles POST /api/transfers.
func (h *TransferHandler) Create(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.PayoutCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	accountID, err := uuid.Parse(req.BankAccountID)
	if err != nil {
		response.Error(c, apperror.Validation("invalid bank_account_id"))
		return
	}

	transfer, err := h.payoutSvc.Request(c.Request.Context(), ports.PayoutRequest{
		Actor:         actor,
		BankAccountID: accountID,
		AmountDollars: req.Amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.FromTransfer(transfer))
}

// List handles GET /api/transfers with status/date/bank filters.
func (h *TransferHandler) List(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	params := ports.TransferListParams{
		Limit:  parseIntQuery(c, "limit", 20),
		Offset: parseIntQuery(c, "offset", 0),
	}
	if s := c.Query("status"); s != "" {
		status := domain.TransferStatus(s)
		params.Status = &status
	}
	if s := c.Query("start"); s != "" {
		ts, err := time.Parse(time.RFC3339, s)
		if err != nil {
			response.Error(c, apperror.Validation("invalid start time, want RFC3339"))
			return
		}
		params.Start = &ts
	}
	if s := c.Query("end"); s != "" {
		ts, err := time.Parse(time.RFC3339, s)
		if err != nil {
			response.Error(c, apperror.Validation("invalid end time, want RFC3339"))
			return
		}
		params.End = &ts
	}
	if s := c.Query("bank"); s != "" {
		params.Bank = &s
	}

	transfers, total, err := h.payoutSvc.List(c.Request.Context(), actor, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.TransferListResponse{
		Items: dto.FromTransfers(transfers),
		Total: total,
	})
}

// Claim handles PATCH /api/transfers/:id/claim.
func (h *TransferHandler) Claim(c *gin.Context) {
	h.transition(c, func(ctx *gin.Context, actor domain.Actor, id uuid.UUID) (*domain.Transfer, error) {
		return h.payoutSvc.Claim(ctx.Request.Context(), actor, id)
	})
}

// Release handles PATCH /api/transfers/:id/release.
func (h *TransferHandler) Release(c *gin.Context) {
	h.transition(c, func(ctx *gin.Context, actor domain.Actor, id uuid.UUID) (*domain.Transfer, error) {
		return h.payoutSvc.Release(ctx.Request.Context(), actor, id)
	})
}

// Complete handles PATCH /api/transfers/:id/complete.
func (h *TransferHandler) Complete(c *gin.Context) {
	h.transition(c, func(ctx *gin.Context, actor domain.Actor, id uuid.UUID) (*domain.Transfer, error) {
		var req dto.CompleteTransferRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			return nil, apperror.ErrBankReferenceRequired()
		}
		return h.payoutSvc.Complete(ctx.Request.Context(), actor, id, req.BankReference)
	})
}

// Reject handles PATCH /api/transfers/:id/reject.
func (h *TransferHandler) Reject(c *gin.Context) {
	h.transition(c, func(ctx *gin.Context, actor domain.Actor, id uuid.UUID) (*domain.Transfer, error) {
		var req dto.RejectTransferRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			return nil, apperror.Validation("reason is required")
		}
		dto.SanitizeStruct(&req)
		return h.payoutSvc.Reject(ctx.Request.Context(), actor, id, req.Reason)
	})
}

func (h *TransferHandler) transition(
	c *gin.Context,
	op func(*gin.Context, domain.Actor, uuid.UUID) (*domain.Transfer, error),
) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid transfer id"))
		return
	}

	transfer, err := op(c, actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.FromTransfer(transfer))
}

func parseIntQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

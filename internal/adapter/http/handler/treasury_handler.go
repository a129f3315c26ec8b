package handler

import (
	"payulot/internal/adapter/http/dto"
	"payulot/internal/adapter/http/middleware"
	"payulot/internal/core/ports"
	"payulot/pkg/apperror"
	"payulot/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TreasuryHandler handles treasury funding and adjustment endpoints.
type TreasuryHandler struct {
	treasurySvc ports.TreasuryService
}

// NewTreasuryHandler creates a new TreasuryHandler.
func NewTreasuryHandler(treasurySvc ports.TreasuryService) *TreasuryHandler {
	return &TreasuryHandler{treasurySvc: treasurySvc}
}

// AddFunds handles POST /api/transactions/add-funds.
func (h *TreasuryHandler) AddFunds(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.AddFundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	treasuryID, err := uuid.Parse(req.TreasuryWalletID)
	if err != nil {
		response.Error(c, apperror.Validation("invalid treasury_wallet_id"))
		return
	}
	addedBy, err := uuid.Parse(req.AddedBy)
	if err != nil {
		response.Error(c, apperror.Validation("invalid added_by"))
		return
	}

	fund := ports.FundRequest{
		Actor:            actor,
		TreasuryWalletID: treasuryID,
		AmountDollars:    req.Amount,
		Note:             req.Note,
		AddedBy:          addedBy,
	}
	if req.WalletID != "" {
		id, err := uuid.Parse(req.WalletID)
		if err != nil {
			response.Error(c, apperror.Validation("invalid wallet_id"))
			return
		}
		fund.WalletID = id
	}
	if req.UserID != "" {
		id, err := uuid.Parse(req.UserID)
		if err != nil {
			response.Error(c, apperror.Validation("invalid user_id"))
			return
		}
		fund.UserID = id
	}

	result, err := h.treasurySvc.AddFunds(c.Request.Context(), fund)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.MovePairResponse{
		Debit:  dto.FromTransaction(result.Debit),
		Credit: dto.FromTransaction(result.Credit),
	})
}

// Adjust handles POST /api/treasury/adjust.
func (h *TreasuryHandler) Adjust(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	treasuryID, err := uuid.Parse(req.TreasuryWalletID)
	if err != nil {
		response.Error(c, apperror.Validation("invalid treasury_wallet_id"))
		return
	}

	entry, err := h.treasurySvc.Adjust(c.Request.Context(), ports.AdjustRequest{
		Actor:            actor,
		TreasuryWalletID: treasuryID,
		AmountDollars:    req.Amount,
		Note:             req.Note,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.FromTransaction(entry))
}

package handler

import (
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

// BankAccountHandler handles saved payout destination endpoints. Accounts
// are strictly owner-scoped; full account numbers never leave the server.
type BankAccountHandler struct {
	bankRepo ports.BankAccountRepository
}

// NewBankAccountHandler creates a new BankAccountHandler.
func NewBankAccountHandler(bankRepo ports.BankAccountRepository) *BankAccountHandler {
	return &BankAccountHandler{bankRepo: bankRepo}
}

// Create handles POST /api/bank-accounts.
func (h *BankAccountHandler) Create(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.BankAccountCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	account := &domain.BankAccount{
		ID:            uuid.New(),
		UserID:        actor.ID,
		HolderName:    req.HolderName,
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
		RoutingNumber: req.RoutingNumber,
		CreatedAt:     time.Now(),
	}
	if err := h.bankRepo.Create(c.Request.Context(), account); err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.FromBankAccount(account))
}

// List handles GET /api/bank-accounts.
func (h *BankAccountHandler) List(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	accounts, err := h.bankRepo.ListByUser(c.Request.Context(), actor.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.BankAccountResponse, 0, len(accounts))
	for i := range accounts {
		items = append(items, dto.FromBankAccount(&accounts[i]))
	}
	response.OK(c, items)
}

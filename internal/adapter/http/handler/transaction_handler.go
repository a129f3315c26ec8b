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

// TransactionHandler handles ledger read endpoints.
type TransactionHandler struct {
	reportingSvc ports.ReportingService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(reportingSvc ports.ReportingService) *TransactionHandler {
	return &TransactionHandler{reportingSvc: reportingSvc}
}

// Recent handles GET /api/transactions/recent.
func (h *TransactionHandler) Recent(c *gin.Context) {
	txns, err := h.reportingSvc.Recent(c.Request.Context(), parseIntQuery(c, "limit", 50))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromTransactions(txns))
}

// Mine handles GET /api/transactions/mine.
func (h *TransactionHandler) Mine(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}
	h.listForUser(c, actor.ID)
}

// ForUser handles GET /api/transactions/user/:id.
func (h *TransactionHandler) ForUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid user id"))
		return
	}
	h.listForUser(c, userID)
}

// Report handles GET /api/transactions/report?period=day|week|month|all.
func (h *TransactionHandler) Report(c *gin.Context) {
	report, err := h.reportingSvc.Report(c.Request.Context(), c.DefaultQuery("period", "all"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromReport(report))
}

func (h *TransactionHandler) listForUser(c *gin.Context, userID uuid.UUID) {
	txns, total, err := h.reportingSvc.ForUser(c.Request.Context(), userID,
		parseIntQuery(c, "limit", 50), parseIntQuery(c, "offset", 0))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.TransactionListResponse{
		Items: dto.FromTransactions(txns),
		Total: total,
	})
}

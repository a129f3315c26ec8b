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

// PassportHandler handles passport issuance.
type PassportHandler struct {
	passportSvc ports.PassportService
}

// NewPassportHandler creates a new PassportHandler.
func NewPassportHandler(passportSvc ports.PassportService) *PassportHandler {
	return &PassportHandler{passportSvc: passportSvc}
}

// Issue handles POST /api/passports. The plaintext pid_token appears in the
// response exactly once and is never persisted.
func (h *PassportHandler) Issue(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.PassportIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		response.Error(c, apperror.Validation("invalid user_id"))
		return
	}

	issued, err := h.passportSvc.Issue(c.Request.Context(), actor, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, issued)
}

package middleware

import (
	"payulot/internal/core/domain"
	"payulot/internal/core/ports"

	"github.com/gin-gonic/gin"
)

// AuditTrail records successful self-service write operations in the admin
// action log. Treasury, passport, and payout-processing operations are
// audited two-phase inside their services; this middleware covers the
// remaining write routes so every state change leaves a row.
func AuditTrail(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Status() < 200 || c.Writer.Status() >= 300 {
			return
		}
		if c.Request.Method == "GET" || c.Request.Method == "HEAD" || c.Request.Method == "OPTIONS" {
			return
		}

		action, actionType := mapPathToAction(c.FullPath(), c.Request.Method)
		if action == "" {
			return
		}

		actor, ok := ActorFrom(c)
		if !ok {
			return
		}

		id := auditSvc.Begin(c.Request.Context(), &domain.AdminAction{
			PerformedBy: actor.ID,
			Action:      action,
			ActionType:  actionType,
		})
		auditSvc.Completed(c.Request.Context(), id)
	}
}

func mapPathToAction(path, method string) (string, string) {
	switch {
	case path == "/api/transfers" && method == "POST":
		return "transfer-request", "transfer"
	case path == "/api/bank-accounts" && method == "POST":
		return "bank-account-create", "bank-account"
	}
	return "", ""
}

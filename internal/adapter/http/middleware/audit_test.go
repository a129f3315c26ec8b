package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"payulot/internal/core/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingAuditService struct {
	mu     sync.Mutex
	begun  []*domain.AdminAction
	marked []uuid.UUID
}

func (s *capturingAuditService) Begin(_ context.Context, action *domain.AdminAction) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	action.ID = id
	s.begun = append(s.begun, action)
	return id
}

func (s *capturingAuditService) Completed(_ context.Context, id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marked = append(s.marked, id)
}

func (s *capturingAuditService) Failed(_ context.Context, _ uuid.UUID, _ error) {}

func (s *capturingAuditService) Wait() {}

func auditTestRouter(svc *capturingAuditService, actor domain.Actor) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(CtxActor, actor)
		c.Next()
	})
	r.Use(AuditTrail(svc))
	r.POST("/api/transfers", func(c *gin.Context) { c.JSON(http.StatusCreated, gin.H{}) })
	r.POST("/api/bank-accounts", func(c *gin.Context) { c.JSON(http.StatusCreated, gin.H{}) })
	r.POST("/api/failing", func(c *gin.Context) { c.JSON(http.StatusBadRequest, gin.H{}) })
	r.GET("/api/transfers", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{}) })
	return r
}

func TestAuditTrail_RecordsTransferRequest(t *testing.T) {
	svc := &capturingAuditService{}
	actor := domain.Actor{ID: uuid.New(), Role: domain.RoleCitizen}
	r := auditTestRouter(svc, actor)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/transfers", nil))

	require.Len(t, svc.begun, 1)
	assert.Equal(t, "transfer-request", svc.begun[0].Action)
	assert.Equal(t, actor.ID, svc.begun[0].PerformedBy)
	require.Len(t, svc.marked, 1)
	assert.Equal(t, svc.begun[0].ID, svc.marked[0])
}

func TestAuditTrail_SkipsFailedRequests(t *testing.T) {
	svc := &capturingAuditService{}
	r := auditTestRouter(svc, domain.Actor{ID: uuid.New(), Role: domain.RoleCitizen})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/failing", nil))

	assert.Empty(t, svc.begun)
}

func TestAuditTrail_SkipsReads(t *testing.T) {
	svc := &capturingAuditService{}
	r := auditTestRouter(svc, domain.Actor{ID: uuid.New(), Role: domain.RoleCitizen})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/transfers", nil))

	assert.Empty(t, svc.begun)
}

package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"payulot/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func TestOK(t *testing.T) {
	c, w := newTestContext()
	OK(c, gin.H{"balance_cents": int64(7000)})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.RequestID)
	assert.NotEmpty(t, resp.Timestamp)
}

func TestCreated(t *testing.T) {
	c, w := newTestContext()
	Created(c, gin.H{"id": "abc"})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestError_AppError(t *testing.T) {
	c, w := newTestContext()
	Error(c, apperror.ErrTransferNotAvailable())

	assert.Equal(t, http.StatusConflict, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "TRF_001", resp.ErrorCode)
	assert.Equal(t, "Transfer not available", resp.Message)
}

func TestError_UnknownError(t *testing.T) {
	c, w := newTestContext()
	Error(c, errors.New("pq: deadlock detected"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "SYS_000", resp.ErrorCode)
	// Raw driver detail must never leak to the caller.
	assert.NotContains(t, resp.Message, "deadlock")
}

func TestError_WrappedAppError(t *testing.T) {
	c, w := newTestContext()
	wrapped := apperror.InternalError(errors.New("connection refused"))
	Error(c, wrapped)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "SYS_001", resp.ErrorCode)
	assert.NotContains(t, resp.Message, "connection refused")
}

package score

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/fraudguard/internal/cooldown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(handler *Handler) *gin.Engine {
	router := gin.New()
	api := router.Group("/api/v1")
	admin := api.Group("/admin")
	handler.RegisterRoutes(api, admin)
	return router
}

func TestGetScoreHandlerReturnsCachedScore(t *testing.T) {
	service, deps := newScoreService()
	now := time.Now()
	service.now = func() time.Time { return now }

	deps.cache.On("Get", mock.Anything, "01712345678").Return(&CachedScore{
		Phone:      "01712345678",
		Score:      42,
		RiskTier:   TierMedium,
		ComputedAt: now.Add(-time.Minute),
		Signals:    map[string]int{SignalCooldown: weightCooldown},
	}, nil).Once()

	router := newTestRouter(NewHandler(service, scoreConfig()))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/score/01712345678", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data Result `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 42, resp.Data.Score)
	assert.Equal(t, TierMedium, resp.Data.RiskTier)
	assert.True(t, resp.Data.Cached)
}

func TestGetScoreHandlerRejectsBadOrderID(t *testing.T) {
	service, _ := newScoreService()
	router := newTestRouter(NewHandler(service, scoreConfig()))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/score/01712345678?order_id=abc", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetScoreHandlerRejectsUnusablePhone(t *testing.T) {
	service, _ := newScoreService()
	router := newTestRouter(NewHandler(service, scoreConfig()))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/score/not-a-phone", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRunBatchHandlerProcessesChunk(t *testing.T) {
	service, deps := newScoreService()
	deps.history.On("Page", mock.Anything, 0, 10).Return(makeOrders(1, 3), nil).Once()
	deps.cooldowns.On("Check", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&cooldown.Status{}, nil)
	deps.blocklist.On("IsBlocked", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
	deps.history.On("Get", mock.Anything, mock.AnythingOfType("int64")).Return(nil, nil)
	deps.history.On("CancellationRatio", mock.Anything, mock.Anything).Return(0.0, nil)
	deps.cache.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	router := newTestRouter(NewHandler(service, scoreConfig()))
	body, _ := json.Marshal(BatchRequest{Mode: ModeAll, BatchSize: 10})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/score/recompute", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data BatchJobState `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Data.TotalProcessed)
	assert.True(t, resp.Data.Completed)
}

func TestRunBatchHandlerRefusesOverlappingRun(t *testing.T) {
	service, _ := newScoreService()
	handler := NewHandler(service, scoreConfig())
	handler.batchRunning.Store(true)
	router := newTestRouter(handler)

	body, _ := json.Marshal(BatchRequest{Mode: ModeAll, BatchSize: 10})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/score/recompute", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

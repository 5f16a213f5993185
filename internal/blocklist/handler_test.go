package blocklist

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(service *Service) *gin.Engine {
	router := gin.New()
	handler := NewHandler(service)
	handler.RegisterRoutes(router.Group("/admin"))
	return router
}

func TestAddHandlerCreated(t *testing.T) {
	repo := new(mockBlocklistRepository)
	repo.On("Insert", mock.Anything, mock.AnythingOfType("*blocklist.Entry")).Return(true, nil).Once()
	router := newTestRouter(NewService(repo, nil))

	body, _ := json.Marshal(AddRequest{
		IdentifierType:  "phone",
		IdentifierValue: "01911111111",
		Reason:          "chargeback",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/blocklist", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	repo.AssertExpectations(t)
}

func TestAddHandlerAlreadyExistsIsInformational(t *testing.T) {
	repo := new(mockBlocklistRepository)
	repo.On("Insert", mock.Anything, mock.AnythingOfType("*blocklist.Entry")).Return(false, nil).Once()
	router := newTestRouter(NewService(repo, nil))

	body, _ := json.Marshal(AddRequest{IdentifierType: "phone", IdentifierValue: "01911111111"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/blocklist", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "already_exists", resp.Data.Status)
}

func TestAddHandlerInvalidIdentifier(t *testing.T) {
	repo := new(mockBlocklistRepository)
	router := newTestRouter(NewService(repo, nil))

	body, _ := json.Marshal(AddRequest{IdentifierType: "ip", IdentifierValue: "not-an-ip"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/blocklist", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRemoveHandlerNotFoundIsInformational(t *testing.T) {
	repo := new(mockBlocklistRepository)
	repo.On("Delete", mock.Anything, "phone", "01911111111").Return(false, nil).Once()
	router := newTestRouter(NewService(repo, nil))

	body, _ := json.Marshal(RemoveRequest{IdentifierType: "phone", IdentifierValue: "01911111111"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/admin/blocklist", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestFindOrdersHandler(t *testing.T) {
	repo := new(mockBlocklistRepository)
	orders := new(mockOrderHistory)
	orders.On("OrdersByIdentifier", mock.Anything, "phone", "01911111111", MaxReverseLookupResults).
		Return([]int64{12, 7}, nil).Once()
	router := newTestRouter(NewService(repo, orders))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/blocklist/orders?identifier_type=phone&identifier_value=01911111111", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "12")
}

func TestFindOrdersHandlerMissingParams(t *testing.T) {
	router := newTestRouter(NewService(new(mockBlocklistRepository), nil))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/blocklist/orders", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

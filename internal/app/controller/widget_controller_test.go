package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/reviewpop/reviewpop-backend/internal/app/repository"
	"github.com/reviewpop/reviewpop-backend/internal/app/service"
	"github.com/reviewpop/reviewpop-backend/internal/db"
	"github.com/reviewpop/reviewpop-backend/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupWidgetControllerTest(t *testing.T) (*gin.Engine, string) {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	userRepo := repository.NewUserRepository(testDB)
	businessRepo := repository.NewBusinessRepository(testDB)
	widgetRepo := repository.NewWidgetRepository(testDB)
	subscriptionRepo := repository.NewSubscriptionRepository(testDB)

	authService := service.NewAuthService(userRepo, businessRepo, "test-secret", 15*time.Minute, 7*24*time.Hour)
	businessService := service.NewBusinessService(businessRepo)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, nil, "")
	widgetService := service.NewWidgetService(widgetRepo, subscriptionService, nil, "https://api.reviewpop.io")

	ctrl := NewWidgetController(widgetService, businessService)
	authMiddleware := middleware.NewAuthMiddleware("test-secret")

	router := gin.New()
	widgets := router.Group("/widgets")
	widgets.Use(authMiddleware.Authenticate())
	{
		widgets.GET("", ctrl.ListWidgets)
		widgets.POST("", ctrl.CreateWidget)
		widgets.GET("/:id", ctrl.GetWidget)
		widgets.PUT("/:id", ctrl.UpdateWidget)
		widgets.DELETE("/:id", ctrl.DeleteWidget)
		widgets.PATCH("/:id/active", ctrl.SetWidgetActive)
		widgets.GET("/:id/snippet", ctrl.GetEmbedSnippet)
	}

	_, tokens, err := authService.Register("owner@example.com", "password123", "Test Owner", "Test Cafe")
	require.NoError(t, err)

	return router, tokens.AccessToken
}

func authedRequest(router *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createWidgetViaAPI(t *testing.T, router *gin.Engine, token string) map[string]interface{} {
	w := authedRequest(router, "POST", "/widgets", `{"name":"Homepage Widget"}`, token)
	require.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response["widget"].(map[string]interface{})
}

func TestWidgetController_Create(t *testing.T) {
	router, token := setupWidgetControllerTest(t)

	widget := createWidgetViaAPI(t, router, token)

	assert.Equal(t, "Homepage Widget", widget["name"])
	assert.NotEmpty(t, widget["widget_code"])
	assert.Equal(t, "light", widget["theme"])
	assert.Equal(t, "bottom-right", widget["position"])
	assert.Equal(t, true, widget["is_active"])
}

func TestWidgetController_Create_InvalidTheme(t *testing.T) {
	router, token := setupWidgetControllerTest(t)

	w := authedRequest(router, "POST", "/widgets", `{"name":"W","theme":"neon"}`, token)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "WIDGET_INVALID_THEME")
}

func TestWidgetController_Create_PlanLimit(t *testing.T) {
	router, token := setupWidgetControllerTest(t)

	// Free plan allows a single widget.
	createWidgetViaAPI(t, router, token)

	w := authedRequest(router, "POST", "/widgets", `{"name":"Second"}`, token)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "WIDGET_LIMIT_REACHED")
}

func TestWidgetController_List(t *testing.T) {
	router, token := setupWidgetControllerTest(t)
	createWidgetViaAPI(t, router, token)

	w := authedRequest(router, "GET", "/widgets", "", token)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(1), response["count"])
}

func TestWidgetController_Get_NotFound(t *testing.T) {
	router, token := setupWidgetControllerTest(t)

	w := authedRequest(router, "GET", "/widgets/9999", "", token)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "WIDGET_NOT_FOUND")
}

func TestWidgetController_Get_InvalidID(t *testing.T) {
	router, token := setupWidgetControllerTest(t)

	w := authedRequest(router, "GET", "/widgets/abc", "", token)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWidgetController_Update(t *testing.T) {
	router, token := setupWidgetControllerTest(t)
	widget := createWidgetViaAPI(t, router, token)
	id := uint(widget["id"].(float64))

	w := authedRequest(router, "PUT", fmt.Sprintf("/widgets/%d", id), `{"title":"New title","position":"top-left"}`, token)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	updated := response["widget"].(map[string]interface{})
	assert.Equal(t, "New title", updated["title"])
	assert.Equal(t, "top-left", updated["position"])
	// Untouched fields keep their values.
	assert.Equal(t, widget["button_text"], updated["button_text"])
}

func TestWidgetController_SetActive(t *testing.T) {
	router, token := setupWidgetControllerTest(t)
	widget := createWidgetViaAPI(t, router, token)
	id := uint(widget["id"].(float64))

	w := authedRequest(router, "PATCH", fmt.Sprintf("/widgets/%d/active", id), `{"active":false}`, token)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	updated := response["widget"].(map[string]interface{})
	assert.Equal(t, false, updated["is_active"])
}

func TestWidgetController_Delete(t *testing.T) {
	router, token := setupWidgetControllerTest(t)
	widget := createWidgetViaAPI(t, router, token)
	id := uint(widget["id"].(float64))

	w := authedRequest(router, "DELETE", fmt.Sprintf("/widgets/%d", id), "", token)
	assert.Equal(t, http.StatusOK, w.Code)

	w = authedRequest(router, "GET", fmt.Sprintf("/widgets/%d", id), "", token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWidgetController_EmbedSnippet(t *testing.T) {
	router, token := setupWidgetControllerTest(t)
	widget := createWidgetViaAPI(t, router, token)
	id := uint(widget["id"].(float64))

	w := authedRequest(router, "GET", fmt.Sprintf("/widgets/%d/snippet", id), "", token)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	snippet := response["snippet"].(string)
	assert.Contains(t, snippet, widget["widget_code"].(string))
	assert.Contains(t, snippet, "bottom: 20px; right: 20px;")
	assert.Contains(t, snippet, "https://api.reviewpop.io/api/v1/public/reviews")
}

func TestWidgetController_Unauthenticated(t *testing.T) {
	router, _ := setupWidgetControllerTest(t)

	req := httptest.NewRequest("GET", "/widgets", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

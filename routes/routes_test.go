package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/ABAKHAR721/sakane-be/config"
	"github.com/ABAKHAR721/sakane-be/models"
	"github.com/ABAKHAR721/sakane-be/services"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "test-secret")
	os.Exit(m.Run())
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))
	config.DB = db

	return SetupRoutes()
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func registerUser(t *testing.T, router *gin.Engine, email string) string {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    email,
		"password": "password123",
		"name":     "Test User",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w)["token"].(string)
}

func createLead(t *testing.T, router *gin.Engine) string {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/api/property-requests", "", gin.H{
		"propertyDetails": gin.H{"mode": "rent", "type": "apartment", "bedrooms": "2"},
		"location":        gin.H{"address": "Rabat, Agdal"},
		"contact":         gin.H{"name": "Sara L.", "email": "sara@example.com", "phone": "+212611111111"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w)["data"].(map[string]interface{})["id"].(string)
}

func TestRoutes_Authentication(t *testing.T) {
	router := setupRouter(t)

	t.Run("Should reject protected routes without a token", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/credits", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Should reject a garbage token", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/credits", "garbage", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Should register, grant the signup bonus and log in", func(t *testing.T) {
		token := registerUser(t, router, "flow@example.com")

		w := doJSON(t, router, http.MethodGet, "/api/credits", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.EqualValues(t, 100, decode(t, w)["credits"])

		w = doJSON(t, router, http.MethodPost, "/api/auth/login", "", gin.H{
			"email":    "flow@example.com",
			"password": "password123",
		})
		require.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, decode(t, w)["token"])
	})
}

func TestRoutes_PurchaseFlow(t *testing.T) {
	router := setupRouter(t)
	token := registerUser(t, router, "buyer@example.com")
	leadID := createLead(t, router)

	t.Run("Should list the lead without contact details", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/leads", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		data := decode(t, w)["data"].([]interface{})
		require.Len(t, data, 1)
		lead := data[0].(map[string]interface{})
		assert.Equal(t, leadID, lead["id"])
		assert.NotContains(t, lead, "contact_phone")
	})

	t.Run("Should purchase the lead and return the contact details", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/leads/purchase", token, gin.H{"lead_id": leadID})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		body := decode(t, w)
		assert.EqualValues(t, 80, body["remaining_credits"])
		purchase := body["purchase"].(map[string]interface{})
		lead := purchase["lead"].(map[string]interface{})
		assert.Equal(t, "+212611111111", lead["contact_phone"])
	})

	t.Run("Should answer a retry with a conflict and keep the balance", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/leads/purchase", token, gin.H{"lead_id": leadID})
		assert.Equal(t, http.StatusConflict, w.Code)

		w = doJSON(t, router, http.MethodGet, "/api/credits", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.EqualValues(t, 80, decode(t, w)["credits"])
	})

	t.Run("Should report the debit in the credit history", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/credits/history?type=lead_debit", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		body := decode(t, w)
		entries := body["data"].([]interface{})
		require.Len(t, entries, 1)
		assert.EqualValues(t, -20, entries[0].(map[string]interface{})["amount"])
		assert.EqualValues(t, 80, body["current_credits"])
	})

	t.Run("Should return the purchased lead under my-leads", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/my-leads", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		data := decode(t, w)["data"].([]interface{})
		require.Len(t, data, 1)
		assert.Equal(t, "Sara L.", data[0].(map[string]interface{})["contact_name"])
	})

	t.Run("Should reject a purchase of an unknown lead", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/leads/purchase", token, gin.H{"lead_id": "missing"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRoutes_AdminAuthorization(t *testing.T) {
	router := setupRouter(t)
	userToken := registerUser(t, router, "regular@example.com")

	admin, err := services.NewAuthService().CreateUser("admin@sakane.ma", "password123", "Administrateur", models.RoleAdmin)
	require.NoError(t, err)
	adminToken, err := services.NewAuthService().GenerateToken(admin)
	require.NoError(t, err)

	var target models.User
	require.NoError(t, config.DB.Where("email = ?", "regular@example.com").First(&target).Error)

	t.Run("Should forbid balance overrides from non-admins and write nothing", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/admin/balance/%d", target.ID), userToken, gin.H{"balance": 1000})
		assert.Equal(t, http.StatusForbidden, w.Code)

		var count int64
		require.NoError(t, config.DB.Model(&models.CreditLedgerEntry{}).
			Where("user_id = ? AND kind = ?", target.ID, models.KindAdminAdjustment).
			Count(&count).Error)
		assert.EqualValues(t, 0, count)
	})

	t.Run("Should let an admin set a balance through the ledger", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/admin/balance/%d", target.ID), adminToken, gin.H{"balance": 250})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		entry := decode(t, w)["entry"].(map[string]interface{})
		assert.EqualValues(t, 150, entry["amount"]) // 250 - 100 signup bonus

		w = doJSON(t, router, http.MethodGet, "/api/credits", userToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.EqualValues(t, 250, decode(t, w)["credits"])
	})

	t.Run("Should record admin actions in the audit log", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/admin/audit-logs", adminToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		logs := decode(t, w)["data"].([]interface{})
		require.NotEmpty(t, logs)
		assert.Equal(t, "balance_set", logs[0].(map[string]interface{})["action"])
	})

	t.Run("Should hide admin routes from regular users", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/admin/transactions", userToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

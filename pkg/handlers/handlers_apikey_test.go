package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/restoreline/dispatch-api-go/pkg/auth"
	"github.com/restoreline/dispatch-api-go/pkg/database"
)

func TestAPIKeyMiddleware_RegistersAndStampsKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("API_MASTER_SECRET", "test-secret")
	db := testDB(t, "apikey")
	h := &Handler{DB: db}

	r := gin.New()
	r.GET("/ping", h.APIKeyMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	key := auth.GenerateHMACKey("acme")
	ping := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Authorization", "Bearer "+key)
		r.ServeHTTP(w, req)
		return w
	}

	// First use registers the key row and links it to the company.
	if w := ping(); w.Code != http.StatusOK {
		t.Fatalf("Expected 200 on first use, got %d: %s", w.Code, w.Body.String())
	}
	var rec database.APIKey
	if err := db.Where("key = ?", key).First(&rec).Error; err != nil {
		t.Fatalf("Expected key row to be registered: %v", err)
	}
	if rec.ID == 0 || rec.CompanyID == 0 {
		t.Errorf("Expected registered key linked to a company, got %+v", rec)
	}

	// Reuse goes through the lookup path and stamps last_used.
	if w := ping(); w.Code != http.StatusOK {
		t.Fatalf("Expected 200 on reuse, got %d: %s", w.Code, w.Body.String())
	}
	if err := db.Where("key = ?", key).First(&rec).Error; err != nil {
		t.Fatalf("Could not reload key row: %v", err)
	}
	if rec.LastUsed == nil {
		t.Error("Expected last_used to be stamped on reuse")
	}
}

func TestAPIKeyMiddleware_RejectsBadSignature(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("API_MASTER_SECRET", "test-secret")
	db := testDB(t, "apikey-bad")
	h := &Handler{DB: db}

	r := gin.New()
	r.GET("/ping", h.APIKeyMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer acme.deadbeef")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for a forged key, got %d", w.Code)
	}
}

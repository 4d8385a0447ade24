package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/restoreline/dispatch-api-go/pkg/auth"
	"github.com/restoreline/dispatch-api-go/pkg/database"
	"github.com/restoreline/dispatch-api-go/pkg/handlers"
	"github.com/restoreline/dispatch-api-go/pkg/metrics"
)

var r *gin.Engine

func init() {
	// Load .env if it exists (for local testing with vercel dev)
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	// Initialize DB
	db := database.InitDB()
	_ = auth.EnsureAdminExists(db)
	h := &handlers.Handler{DB: db}

	// Initialize Gin
	gin.SetMode(gin.ReleaseMode)
	r = gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// Routes
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Dispatch Console API (Serverless)",
			"version": "1.3.0",
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	r.POST("/admin/login", h.Login)

	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.POST("/keys", h.GenerateKey)
		admin.GET("/keys", h.ListKeys)
		admin.PUT("/keys/:id", h.UpdateKeyLimit)
		admin.DELETE("/keys/:id", h.RevokeKey)
		admin.GET("/usage/:id", h.GetUsage)
	}

	api := r.Group("/api")
	api.Use(h.APIKeyMiddleware())
	{
		api.GET("/technicians", h.ListTechnicians)
		api.POST("/technicians", h.CreateTechnician)
		api.PUT("/technicians/:id/rank", h.UpdateRank)
		api.PUT("/technicians/:id/schedule", h.UpdateSchedule)
		api.GET("/technicians/:id/status", h.GetStatus)
		api.GET("/roster/status", h.RosterStatus)
		api.GET("/calendar/capacity", h.GetCapacity)
		api.POST("/bookings", h.CreateBooking)
		api.PUT("/company/notice", h.UpdateNotice)
		api.POST("/validate", h.ValidateInput)
		api.GET("/usage", h.GetMyUsage)
	}
}

// Handler is the entry point for Vercel Go Runtime
func Handler(w http.ResponseWriter, req *http.Request) {
	r.ServeHTTP(w, req)
}

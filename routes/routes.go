package routes

import (
	"github.com/ABAKHAR721/sakane-be/config"
	"github.com/ABAKHAR721/sakane-be/controllers"
	"github.com/ABAKHAR721/sakane-be/middleware"
	"github.com/ABAKHAR721/sakane-be/websocket"
	"github.com/gin-gonic/gin"
)

func SetupRoutes() *gin.Engine {
	r := gin.Default()

	// Initialize controllers
	authController := controllers.NewAuthController()
	userController := controllers.NewUserController()
	leadController := controllers.NewLeadController()
	adminController := controllers.NewAdminController()

	// Public routes
	public := r.Group("/api")
	{
		public.POST("/auth/login", authController.Login)
		public.POST("/auth/register", authController.Register)
		public.POST("/property-requests", leadController.CreatePropertyRequest)
	}

	// Protected routes
	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/auth/me", authController.Me)
		protected.GET("/credits", userController.GetCredits)
		protected.GET("/credits/history", userController.GetCreditHistory)
		protected.GET("/leads", userController.GetLeads)
		protected.POST("/leads/purchase", userController.PurchaseLead)
		protected.GET("/my-leads", userController.GetMyLeads)
		protected.GET("/my-leads/:id", userController.GetMyLead)
	}

	// Admin only routes
	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminOnly())
	{
		// User management
		admin.GET("/users", adminController.GetUsers)
		admin.POST("/users", adminController.CreateUser)
		admin.PUT("/users/:id", adminController.UpdateUser)
		admin.DELETE("/users/:id", adminController.DeactivateUser)

		// Balance override
		admin.PUT("/balance/:id", adminController.UpdateUserBalance)

		// Marketplace oversight
		admin.GET("/leads", adminController.GetLeads)
		admin.GET("/transactions", adminController.GetTransactions)
		admin.GET("/stats", adminController.GetStats)
		admin.GET("/audit-logs", adminController.GetAuditLogs)
	}

	// Live dashboard events
	if config.WSHub != nil {
		r.GET("/ws", websocket.HandleWebSocket(config.WSHub))
	}

	return r
}

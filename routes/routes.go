package routes

import (
	"net/http"
	"time"

	"villastay/config"
	"villastay/handlers"
	"villastay/middleware"
	"villastay/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterBookingRoutes registers the guest booking flow.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/booking")
	api.Use(middleware.OptionalAuth())
	{
		api.POST("/request", hb.Booking.CreateRequest)
		api.GET("/request/:id", hb.Booking.GetRequest)
		api.POST("/request/:id/payment-intent", hb.Booking.CreatePaymentIntent)
		api.POST("/confirm", hb.Booking.ConfirmBooking)
		api.GET("/reference/:reference", hb.Booking.GetByReference)
	}
}

// RegisterSalesRoutes registers the sales dashboard endpoints.
func RegisterSalesRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/sales")
	{
		api.POST("/login", hb.Auth.SalesLogin)

		protected := api.Group("")
		protected.Use(middleware.RequireAuth(), middleware.RequireRoles(models.RoleSales, models.RoleAdmin))
		protected.GET("/requests", hb.Sales.ListRequests)
		protected.PATCH("/requests/:id", hb.Sales.RespondToRequest)
		protected.POST("/requests/:id/custom-offer", hb.Sales.CustomOffer)
	}
}

// RegisterVillaRoutes registers the catalogue; writes are admin only.
func RegisterVillaRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/villa")
	{
		api.GET("", hb.Villa.List)
		api.GET("/:id", hb.Villa.Get)

		admin := api.Group("")
		admin.Use(middleware.RequireAuth(), middleware.RequireRoles(models.RoleAdmin))
		admin.POST("", hb.Villa.Create)
		admin.PUT("/:id", hb.Villa.Update)
		admin.DELETE("/:id", hb.Villa.Delete)
	}
}

// RegisterUploadRoutes registers image upload endpoints.
func RegisterUploadRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/upload")
	api.Use(middleware.RequireAuth(), middleware.RequireRoles(models.RoleAdmin))
	{
		api.POST("/single", hb.Upload.UploadSingle)
		api.POST("/multiple", hb.Upload.UploadMultiple)
	}
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/admin")
	{
		api.POST("/login", hb.Auth.AdminLogin)

		protected := api.Group("")
		protected.Use(middleware.RequireAuth(), middleware.RequireRoles(models.RoleAdmin))
		protected.GET("/bookings", hb.Admin.ListBookings)
		protected.PATCH("/bookings/:id", hb.Admin.UpdateBooking)
	}
}

// RegisterHealthRoute registers the health and metrics endpoints.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.Health.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     config.AppConfig.CORSOriginList(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	if dir := config.AppConfig.UploadDir; dir != "" {
		r.Static("/uploads", dir)
	}

	RegisterBookingRoutes(r, hb)
	RegisterSalesRoutes(r, hb)
	RegisterVillaRoutes(r, hb)
	RegisterUploadRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterHealthRoute(r, hb)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Route not found"})
	})
}

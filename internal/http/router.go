package api

import (
	"log"
	stdhttp "net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/Surajdas14/easybus-sub001/internal/cache"
	intconfig "github.com/Surajdas14/easybus-sub001/internal/config"
	"github.com/Surajdas14/easybus-sub001/internal/domain/models"
	h "github.com/Surajdas14/easybus-sub001/internal/http/handlers"
	"github.com/Surajdas14/easybus-sub001/internal/http/middleware"
)

func NewRouter(env intconfig.Env, redisClient *redis.Client) *gin.Engine {
	h.AvailabilityCache = &cache.Availability{Client: redisClient, TTL: env.CacheTTL}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  false,
		AllowOriginFunc:  func(string) bool { return true },
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "Accept", "Origin", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"success": false,
			"message": "route not found",
			"path":    c.Request.URL.Path,
			"method":  c.Request.Method,
		})
	})

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)

		auth := api.Group("/auth")
		auth.POST("/login", h.Login)
		auth.POST("/register", h.Register)

		buses := api.Group("/buses")
		buses.GET("/search", h.SearchBuses)
		buses.GET("/:id", h.GetBus)

		adminBuses := buses.Group("", middleware.Auth(), middleware.RequireRoles(models.RoleAdmin))
		adminBuses.POST("", h.CreateBus)
		adminBuses.PUT("/:id", h.UpdateBus)
		adminBuses.DELETE("/:id", h.DeleteBus)
		adminBuses.POST("/:id/regenerate-seats", h.RegenerateBusSeats)

		bookings := api.Group("/bookings")
		bookings.GET("/bus/:busId/date/:date", h.GetBookedSeats)

		authed := bookings.Group("", middleware.Auth())
		authed.POST("", h.CreateBooking)
		authed.GET("", h.ListBookings)
		authed.GET("/:id", h.GetBooking)
		authed.PATCH("/:id/status", h.SetBookingStatus)
		authed.DELETE("/:id", h.CancelBooking)
		authed.GET("/:id/ticket", h.GetBookingTicket)

		users := api.Group("/users", middleware.Auth(), middleware.RequireRoles(models.RoleAdmin))
		users.GET("", h.GetUsers)
		users.PATCH("/:id/role", h.SetUserRole)
	}

	return r
}

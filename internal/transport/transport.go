package transport

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Leganyst/grooming-booking/internal/transport/middleware"
)

// InitRoutes собирает HTTP API. Аутентификация клиента и персонала
// выполняется внешним слоем: клиент передаётся заголовком X-Customer-ID,
// группа /admin должна быть закрыта на уровне шлюза.
func InitRoutes(
	bookings *BookingHandler,
	catalog *CatalogHandler,
	admin *AdminHandler,
	log *logrus.Entry,
	timeout time.Duration,
	origins []string,
) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", middleware.CustomerHeader},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))
	router.Use(middleware.Logger(log))
	router.Use(middleware.Timeout(timeout))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.GET("/services", catalog.ActiveServices)
		api.GET("/services/:id", catalog.GetService)
		api.GET("/slots", bookings.AvailableSlots)

		my := api.Group("/bookings", middleware.Customer())
		{
			my.GET("", bookings.MyBookings)
			my.POST("", bookings.CreateBooking)
			my.GET("/:id", bookings.GetBooking)
			my.PATCH("/:id", bookings.UpdateBooking)
			my.POST("/:id/cancel", bookings.CancelBooking)
		}

		staff := api.Group("/admin")
		{
			staff.GET("/services", admin.ListServices)
			staff.POST("/services", admin.CreateService)
			staff.PUT("/services/:id", admin.UpdateService)
			staff.PATCH("/services/:id/active", admin.SetServiceActive)
			staff.DELETE("/services/:id", admin.DeleteService)

			staff.GET("/dashboard/upcoming", admin.Upcoming)
			staff.GET("/dashboard/previous", admin.Previous)

			staff.GET("/bookings/:id", admin.GetBooking)
			staff.POST("/bookings/:id/complete", admin.CompleteBooking)
			staff.POST("/bookings/:id/cancel", admin.CancelBooking)
		}
	}

	return router
}

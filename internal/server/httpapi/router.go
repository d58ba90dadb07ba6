// Package httpapi exposes the REST API over echo.
package httpapi

import (
	"context"
	"time"

	"github.com/dmitrijs2005/eliteglam/internal/logging"
	"github.com/dmitrijs2005/eliteglam/internal/server/models"
	"github.com/dmitrijs2005/eliteglam/internal/server/services"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

type AuthService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.Profile, error)
	Login(ctx context.Context, email, password string) (*services.SessionCredential, error)
	VerifyToken(ctx context.Context, presented string) (services.Verification, error)
	GetProfile(ctx context.Context, uid string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, uid string, upd services.ProfileUpdate) (*models.Profile, error)
}

type ProductService interface {
	Create(ctx context.Context, in services.ProductInput) (*models.Product, error)
	List(ctx context.Context) ([]*models.Product, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	Update(ctx context.Context, id string, patch models.ProductPatch) error
	Delete(ctx context.Context, id string) error
}

type BookingService interface {
	Create(ctx context.Context, in services.BookingInput) (*models.Booking, error)
	List(ctx context.Context) ([]*models.Booking, error)
	Get(ctx context.Context, id string) (*models.Booking, error)
	UpdateStatus(ctx context.Context, id string, status models.BookingStatus) (*models.Booking, error)
	Cancel(ctx context.Context, id string) (*models.Booking, error)
}

// RouterConfig holds everything NewRouter needs.
type RouterConfig struct {
	Logger             logging.Logger
	Auth               AuthService
	Products           ProductService
	Bookings           BookingService
	AllowDegradedTrust bool
	AuthRateLimit      rate.Limit
	AuthRateBurst      int
	RequestTimeout     time.Duration
}

// NewRouter builds the echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	logger := cfg.Logger.With("module", "http")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(logger)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))
	if cfg.RequestTimeout > 0 {
		e.Use(middleware.ContextTimeout(cfg.RequestTimeout))
	}

	h := &handlers{auth: cfg.Auth, products: cfg.Products, bookings: cfg.Bookings}
	requireAuth := RequireAuth(cfg.Auth, cfg.AllowDegradedTrust, logger)

	e.GET("/health", h.health)

	authGroup := e.Group("/auth", NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst).Middleware())
	authGroup.POST("/register", h.register)
	authGroup.POST("/login", h.login)

	users := e.Group("/users", requireAuth)
	users.GET("/me", h.getMe)
	users.PATCH("/me", h.patchMe)

	products := e.Group("/products")
	products.GET("", h.listProducts)
	products.GET("/:id", h.getProduct)
	products.POST("", h.createProduct, requireAuth)
	products.PUT("/:id", h.updateProduct, requireAuth)
	products.DELETE("/:id", h.deleteProduct, requireAuth)

	bookings := e.Group("/bookings", requireAuth)
	bookings.GET("", h.listBookings)
	bookings.GET("/:id", h.getBooking)
	bookings.POST("", h.createBooking)
	bookings.PATCH("/:id/status", h.updateBookingStatus)
	bookings.POST("/:id/cancel", h.cancelBooking)

	return e
}

func requestLogger(logger logging.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			args := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				args = append(args, "error", v.Error.Error())
			}
			logger.Info(c.Request().Context(), "request", args...)
			return nil
		},
	})
}

package api

import (
	"context"
	"net"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/famcare/caregiving-api/internal/api/handler"
	"github.com/famcare/caregiving-api/internal/api/middleware"
	"github.com/famcare/caregiving-api/internal/core/domain"
	"github.com/famcare/caregiving-api/internal/core/ports"
)

// Deps groups everything the router wires into handlers and middleware.
type Deps struct {
	Accounts  ports.AccountService
	Dashboard ports.DashboardService
	Messages  ports.MessageService
	Tokens    ports.TokenService

	// Limiter guards the unauthenticated auth endpoints. Nil disables it.
	Limiter *middleware.IPRateLimiter

	// ReadinessChecks are run by /health/ready, keyed by dependency name.
	ReadinessChecks map[string]func(context.Context) error

	// AllowOrigins configures CORS. Empty allows any origin.
	AllowOrigins []string

	// TrustedProxies lists the CIDR ranges whose X-Forwarded-For header is
	// honoured. Empty means the peer address is the client IP.
	TrustedProxies []string

	Logger zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)
	e.IPExtractor = ipExtractor(d.TrustedProxies, d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: d.AllowOrigins,
	}))
	e.Use(middleware.Metrics())

	// --- Handlers ---
	users := handler.NewUserHandler(d.Accounts, d.Dashboard, d.Messages, d.Logger)
	messages := handler.NewMessageHandler(d.Messages)
	health := handler.NewHealthHandler(d.ReadinessChecks)

	auth := middleware.Auth(d.Tokens, d.Logger)
	adminOnly := middleware.RBAC(domain.RoleAdmin)
	limited := func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	if d.Limiter != nil {
		limited = d.Limiter.Middleware()
	}

	// --- Health checks, metrics and docs (no auth required) ---
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// --- Users ---
	u := api.Group("/users")
	u.POST("/register", users.Register, limited)
	u.POST("/login", users.Login, limited)
	u.POST("/forgot-password", users.ForgotPassword, limited)
	u.GET("/confirmation/:token", users.ConfirmEmail)
	u.POST("/reset-password", users.ResetPassword)

	u.POST("/change-password", users.ChangePassword, auth)
	u.GET("/profile", users.Profile, auth)
	u.GET("/home/dashboard", users.Dashboard, auth)
	u.GET("/home/my-messages", users.MyMessages, auth)

	u.GET("", users.List, auth, adminOnly)
	u.GET("/:id", users.Get, auth)
	u.PUT("/:id", users.Update, auth, adminOnly)
	u.DELETE("/:id", users.Delete, auth, adminOnly)
	u.PUT("/:id/credit", users.UpdateCredit, auth, adminOnly)

	// --- Family-member messages ---
	m := api.Group("/family-members", auth)
	m.GET("", messages.List, adminOnly)
	m.POST("", messages.Create)
	m.GET("/user/:id", messages.ListByUser)
	m.GET("/:id", messages.Get)
	m.PATCH("/:id", messages.UpdateStatus)
	m.DELETE("/:id", messages.Delete, adminOnly)

	return e
}

// ipExtractor decides what c.RealIP returns. Forwarding headers are ignored
// unless the request came through one of the trusted ranges.
func ipExtractor(cidrs []string, log zerolog.Logger) echo.IPExtractor {
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	trusted := 0
	for _, cidr := range cidrs {
		_, ipNet, err := net.ParseCIDR(cidr)
		if err != nil {
			log.Warn().Err(err).Str("cidr", cidr).Msg("ignoring invalid trusted proxy range")
			continue
		}
		opts = append(opts, echo.TrustIPRange(ipNet))
		trusted++
	}
	if trusted == 0 {
		return echo.ExtractIPDirect()
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil || v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}

// shutdownTimeout bounds graceful shutdown of the HTTP server.
const shutdownTimeout = 10 * time.Second

// Shutdown stops e, waiting at most shutdownTimeout for in-flight requests.
func Shutdown(ctx context.Context, e *echo.Echo) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	return e.Shutdown(ctx)
}

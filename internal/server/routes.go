package server

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"FitAICoach/internal/utility"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	functionsPrefix  = "/functions/v1"
	maxRequestBody   = "1M"
	rateLimitMessage = "Rate limit exceeded. Please try again later."
)

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	e.HideBanner = true
	e.Validator = utility.RequestValidator{}
	e.HTTPErrorHandler = jsonErrorHandler
	e.IPExtractor = ipExtractor(s.cfg.TrustedProxies)

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(maxRequestBody))

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: s.cfg.AllowedOrigins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Client-Info", "Apikey", "X-Request-ID"},
		MaxAge:       300,
	}))

	e.Use(LoggerMiddleware)

	e.GET("/health", s.healthHandler)

	// AI endpoints, limited per client IP so one user cannot drain the gateway quota.
	ai := e.Group(functionsPrefix, s.rateLimiter())
	ai.POST("/generate-plan", s.coach.GeneratePlanHandler)
	ai.POST("/generate-image", s.coach.GenerateImageHandler)
	ai.POST("/generate-motivation", s.coach.GenerateMotivationHandler)

	return e
}

func LoggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Response().Header().Set("X-Request-ID", requestID)

		logger := log.With().Str("request_id", requestID).Logger()

		c.Set("logger", &logger)

		return next(c)
	}
}

// rateLimiter allows RateLimitPerMinute requests per IP with an equal burst.
// Denials use the same {error} envelope and 429 status as an upstream rate limit.
func (s *Server) rateLimiter() echo.MiddlewareFunc {
	perMinute := s.cfg.RateLimitPerMinute
	if perMinute <= 0 {
		perMinute = 1
	}

	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(perMinute) / 60),
		Burst:     perMinute,
		ExpiresIn: 3 * time.Minute,
	})

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "Unable to identify client"})
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			log.Warn().Str("ip", identifier).Str("path", c.Path()).Msg("Client rate limited")
			return c.JSON(http.StatusTooManyRequests, map[string]string{"error": rateLimitMessage})
		},
	})
}

// ipExtractor decides what c.RealIP reports. Without trusted proxies the
// peer address is used and forwarding headers are ignored. Otherwise the
// X-Forwarded-For chain is walked from the right, skipping only the
// configured proxies.
func ipExtractor(trusted []string) echo.IPExtractor {
	if len(trusted) == 0 {
		return echo.ExtractIPDirect()
	}

	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, entry := range trusted {
		ipNet, err := parseProxy(entry)
		if err != nil {
			log.Warn().Err(err).Str("proxy", entry).Msg("Ignoring invalid trusted proxy")
			continue
		}
		opts = append(opts, echo.TrustIPRange(ipNet))
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}

// parseProxy accepts a CIDR or a single address.
func parseProxy(entry string) (*net.IPNet, error) {
	if _, ipNet, err := net.ParseCIDR(entry); err == nil {
		return ipNet, nil
	}
	ip := net.ParseIP(entry)
	if ip == nil {
		return nil, fmt.Errorf("not an IP or CIDR: %q", entry)
	}
	bits := 128
	if ip4 := ip.To4(); ip4 != nil {
		ip, bits = ip4, 32
	}
	return &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)}, nil
}

// jsonErrorHandler renders framework errors (404, 405, 413, panics) in the
// same {error} shape the endpoints use.
func jsonErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := http.StatusText(status)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		message = fmt.Sprint(he.Message)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, map[string]string{"error": message})
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to write error response")
	}
}

// healthHandler reports liveness, whether the gateway is configured, and
// best-effort host metrics.
func (s *Server) healthHandler(c echo.Context) error {
	var (
		v          *mem.VirtualMemoryStat
		cpuPercent []float64
		hInfo      *host.InfoStat
	)

	// Each metric is best effort; a failing probe leaves its section out.
	g, grpCtx := errgroup.WithContext(c.Request().Context())
	g.Go(func() error {
		var err error
		if v, err = mem.VirtualMemoryWithContext(grpCtx); err != nil {
			log.Warn().Err(err).Msg("Failed to read memory stats")
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if cpuPercent, err = cpu.PercentWithContext(grpCtx, 0, false); err != nil {
			log.Warn().Err(err).Msg("Failed to read cpu stats")
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if hInfo, err = host.InfoWithContext(grpCtx); err != nil {
			log.Warn().Err(err).Msg("Failed to read host info")
		}
		return nil
	})
	_ = g.Wait()

	response := map[string]interface{}{
		"status":     "online",
		"ai_gateway": map[string]interface{}{"configured": s.gateway.Configured()},
		"runtime": map[string]interface{}{
			"uptime":     time.Since(s.startTime).Round(time.Second).String(),
			"start_time": s.startTime.Format(time.RFC3339),
		},
	}
	if hInfo != nil {
		runtime := response["runtime"].(map[string]interface{})
		runtime["os"] = hInfo.OS
		runtime["platform"] = hInfo.Platform
		runtime["arch"] = hInfo.KernelArch
		runtime["hostname"] = hInfo.Hostname
	}
	if len(cpuPercent) > 0 {
		response["cpu"] = map[string]interface{}{
			"usage_percent": fmt.Sprintf("%.2f%%", cpuPercent[0]),
		}
	}
	if v != nil {
		response["memory"] = map[string]interface{}{
			"total_gb":     fmt.Sprintf("%.2f GB", float64(v.Total)/1024/1024/1024),
			"used_gb":      fmt.Sprintf("%.2f GB", float64(v.Used)/1024/1024/1024),
			"used_percent": fmt.Sprintf("%.2f%%", v.UsedPercent),
		}
	}

	return c.JSON(http.StatusOK, response)
}

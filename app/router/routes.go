// Package router provides HTTP routing, middleware configuration, and server setup for the analytics API
package router

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/compress"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/powergridhq/disco-analytics/app/dto"
	"github.com/powergridhq/disco-analytics/app/handlers"
	"github.com/powergridhq/disco-analytics/app/middleware"
	"github.com/powergridhq/disco-analytics/utils"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// EntityRoutes is the mounted CRUD surface of one persisted entity.
// Reads are open; writes go through the admin JWT middleware.
type EntityRoutes struct {
	Name   string
	List   fiber.Handler
	Get    fiber.Handler
	Create fiber.Handler
	Update fiber.Handler
	Delete fiber.Handler
}

// Router interface for HTTP routing
type Router interface {
	SetupRoutes()
	Start(address string) error
	GetApp() *fiber.App
}

// FiberRouter implements Router using Fiber v3
type FiberRouter struct {
	app          *fiber.App
	overview     handlers.OverviewHandlerInterface
	commercial   handlers.CommercialHandlerInterface
	technical    handlers.TechnicalHandlerInterface
	financial    handlers.FinancialHandlerInterface
	hr           handlers.HRHandlerInterface
	ingest       handlers.IngestHandlerInterface
	admin        handlers.AdminHandlerInterface
	authMW       *middleware.AuthMiddleware
	entities     []EntityRoutes
	allowOrigins []string
}

// NewFiberRouter creates a new Fiber router
func NewFiberRouter(
	overview handlers.OverviewHandlerInterface,
	commercial handlers.CommercialHandlerInterface,
	technical handlers.TechnicalHandlerInterface,
	financial handlers.FinancialHandlerInterface,
	hr handlers.HRHandlerInterface,
	ingest handlers.IngestHandlerInterface,
	admin handlers.AdminHandlerInterface,
	authMW *middleware.AuthMiddleware,
	entities []EntityRoutes,
	allowOrigins []string,
) Router {
	app := fiber.New(fiber.Config{
		AppName:      "Disco Analytics API",
		ServerHeader: "disco-analytics",
		ErrorHandler: errorHandler,
		BodyLimit:    16 * 1024 * 1024,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	return &FiberRouter{
		app:          app,
		overview:     overview,
		commercial:   commercial,
		technical:    technical,
		financial:    financial,
		hr:           hr,
		ingest:       ingest,
		admin:        admin,
		authMW:       authMW,
		entities:     entities,
		allowOrigins: allowOrigins,
	}
}

// SetupRoutes configures all application routes
func (r *FiberRouter) SetupRoutes() {
	log.Println("Setting up routes...")

	r.setupMiddleware()

	// Operational endpoints outside the /api group: no rate limiting
	r.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := r.app.Group("/api")
	api.Get("/health", r.healthCheck)

	api.Use(limiter.New(limiter.Config{
		Max:        2000,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
				Success: false,
				Message: "Too many requests. Please try again later.",
				Error: dto.ErrorDetail{
					Code: "RATE_LIMIT_EXCEEDED",
				},
			})
		},
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/api/health"
		},
	}))

	// Admin auth with stricter rate limiting
	adminAuth := api.Group("/admin/auth")
	adminAuth.Use(limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
				Success: false,
				Message: "Too many requests. Please try again later.",
				Error: dto.ErrorDetail{
					Code: "RATE_LIMIT_EXCEEDED",
				},
			})
		},
	}))
	adminAuth.Post("/login", r.admin.Login)

	// Dashboard overview
	api.Get("/overview", r.overview.Overview)

	// Commercial metrics
	commercial := api.Group("/metrics/commercial")
	commercial.Get("/all-states", r.commercial.AllStates)
	commercial.Get("/state", r.commercial.StateSeries)
	commercial.Get("/business-districts", r.commercial.Districts)
	commercial.Get("/feeders/metrics", r.commercial.Feeders)
	commercial.Get("/transformers-metrics", r.commercial.Transformers)
	commercial.Get("/service-band-metrics", r.commercial.ServiceBands)
	commercial.Get("/sales-rep-summary", r.commercial.SalesRepSummary)

	// Technical metrics. The state and business-district aliases are the
	// same computations narrowed by the location filter.
	technical := api.Group("/technical")
	technical.Get("/overview", r.technical.Overview)
	technical.Get("/overview/all-states", r.technical.AllStates)
	technical.Get("/overview/state", r.technical.Overview)
	technical.Get("/overview/business-districts", r.technical.Districts)
	technical.Get("/overview/business-district", r.technical.Districts)
	technical.Get("/feeder", r.technical.Feeders)
	// Technical facts (supply, load, interruptions) are recorded per
	// feeder, so the transformer route narrows to the transformer's
	// feeder and returns that feeder's rows.
	technical.Get("/transformer", r.technical.Feeders)
	technical.Get("/service-band-technical-metrics", r.technical.ServiceBands)

	// Financial metrics
	financial := api.Group("/financial")
	financial.Get("/overview", r.financial.Overview)
	financial.Get("/feeder", r.financial.Feeders)
	financial.Get("/all-states-metrics", r.financial.AllStates)
	financial.Get("/all-business-districts-metrics", r.financial.Districts)
	financial.Get("/service-band-financial-metrics", r.financial.ServiceBands)
	financial.Get("/daily-collections", r.financial.DailyCollections)
	financial.Get("/transformer-metrics", r.financial.Transformers)
	financial.Get("/sales-reps/:rep_id/performance", r.financial.RepPerformance)
	financial.Post("/sales-reps/merge", r.financial.MergeSalesReps, r.authMW.AdminAuthenticate())

	// Derived fact materializer
	api.Post("/admin/materializer/run", r.financial.RunMaterializer, r.authMW.AdminAuthenticate())

	// HR metrics and bulk staff maintenance
	hrMetrics := api.Group("/metrics/hr")
	hrMetrics.Get("/", r.hr.Summary)
	hrMetrics.Get("/staff-summary", r.hr.Summary)
	hrMetrics.Get("/staff-state-overview", r.hr.StateOverview)
	hrMetrics.Get("/staff-state/:slug", r.hr.StaffOfState)

	hrStaff := api.Group("/hr/staff")
	hrStaff.Get("/export", r.hr.Export)
	hrStaff.Post("/bulk_create", r.hr.BulkCreate, r.authMW.AdminAuthenticate())
	hrStaff.Patch("/bulk_update", r.hr.BulkUpdate, r.authMW.AdminAuthenticate())
	hrStaff.Delete("/bulk_delete", r.hr.BulkDelete, r.authMW.AdminAuthenticate())

	// Fact ingest streams; each upserts on its natural key
	ingest := api.Group("/ingest", r.authMW.AdminAuthenticate())
	ingest.Post("/energy-delivered", r.ingest.EnergyDelivered)
	ingest.Post("/energy-billed", r.ingest.EnergyBilled)
	ingest.Post("/revenue-collected", r.ingest.RevenueCollected)
	ingest.Post("/revenue-billed", r.ingest.RevenueBilled)
	ingest.Post("/customer-stats", r.ingest.CustomerStats)
	ingest.Post("/hourly-loads", r.ingest.HourlyLoads)
	ingest.Post("/hours-of-supply", r.ingest.HoursOfSupply)
	ingest.Post("/interruptions", r.ingest.Interruptions)
	ingest.Post("/commercial-summaries", r.ingest.CommercialSummaries)

	// Entity CRUD
	for _, e := range r.entities {
		group := api.Group("/" + e.Name)
		group.Get("/", e.List)
		group.Get("/:id", e.Get)
		group.Post("/", e.Create, r.authMW.AdminAuthenticate())
		group.Put("/:id", e.Update, r.authMW.AdminAuthenticate())
		group.Patch("/:id", e.Update, r.authMW.AdminAuthenticate())
		group.Delete("/:id", e.Delete, r.authMW.AdminAuthenticate())
	}

	r.app.Use(r.notFoundHandler)

	log.Println("Routes configured successfully")
}

// setupMiddleware configures global middleware
func (r *FiberRouter) setupMiddleware() {
	// Request ID middleware - must be first
	r.app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return generateRequestID()
		},
	}))

	// Security headers middleware
	r.app.Use(helmet.New(helmet.Config{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'; frame-ancestors 'none';",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	r.app.Use(cors.New(cors.Config{
		AllowOrigins: r.allowOrigins,
		AllowMethods: []string{
			"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Authorization",
			"X-Requested-With",
			"X-Request-ID",
			"Cache-Control",
		},
		ExposeHeaders: []string{
			"X-Request-ID",
		},
		AllowCredentials: true,
		MaxAge:           utils.CORSMaxAge,
	}))

	r.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Structured access log
	r.app.Use(logger.New(logger.Config{
		Format:     `{"time":"${time}","pid":"${pid}","request_id":"${locals:requestid}","level":"info","method":"${method}","path":"${path}","ip":"${ip}","status":${status},"latency":"${latency}","bytes_out":${bytesSent}}` + "\n",
		TimeFormat: time.RFC3339,
		TimeZone:   "UTC",
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/api/health" || c.Path() == "/metrics"
		},
	}))

	// Prometheus request metrics
	r.app.Use(middleware.Metrics())

	// Recovery middleware with custom error handling
	r.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e any) {
			log.Printf(`{"time":"%s","level":"error","request_id":"%s","event":"panic","error":"%v","path":"%s","method":"%s","ip":"%s"}`,
				utils.UTCNow().Format(time.RFC3339),
				c.Locals("requestid"),
				e,
				c.Path(),
				c.Method(),
				c.IP(),
			)
		},
	}))
}

// Start starts the HTTP server
func (r *FiberRouter) Start(address string) error {
	log.Printf("Starting server on %s", address)
	return r.app.Listen(address)
}

// GetApp returns the Fiber app instance
func (r *FiberRouter) GetApp() *fiber.App {
	return r.app
}

// Health check endpoint
func (r *FiberRouter) healthCheck(c fiber.Ctx) error {
	return c.JSON(dto.APIResponse{
		Success: true,
		Message: "Service is healthy",
		Data: fiber.Map{
			"status":    "ok",
			"timestamp": utils.UTCNow().Unix(),
			"version":   "1.0.0",
			"service":   "disco-analytics-api",
		},
	})
}

// Not found handler
func (r *FiberRouter) notFoundHandler(c fiber.Ctx) error {
	requestID := c.Locals("requestid")

	return c.Status(fiber.StatusNotFound).JSON(dto.APIResponse{
		Success: false,
		Message: "The requested resource was not found",
		Error: dto.ErrorDetail{
			Code: "NOT_FOUND",
			Details: fiber.Map{
				"path":       c.Path(),
				"method":     c.Method(),
				"request_id": requestID,
			},
		},
	})
}

// Global error handler
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	log.Printf("Error %d: %v", code, err)

	requestID := c.Locals("requestid")

	return c.Status(code).JSON(dto.APIResponse{
		Success: false,
		Message: "An internal server error occurred",
		Error: dto.ErrorDetail{
			Code: "INTERNAL_ERROR",
			Details: fiber.Map{
				"timestamp":  utils.UTCNow().Unix(),
				"request_id": requestID,
			},
		},
	})
}

// generateRequestID creates a unique request ID
func generateRequestID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"branchdesk/internal/bookings"
	"branchdesk/internal/catalog"
	"branchdesk/internal/loans"
	"branchdesk/internal/notifications"
	"branchdesk/internal/shared/config"
	"branchdesk/internal/shared/database"
	"branchdesk/pkg/metrics"

	"github.com/gin-gonic/gin"
)

const serviceName = "branchdesk-backend"

// Dependencies are the services built in main
type Dependencies struct {
	Catalog       catalog.Service
	Bookings      bookings.Service
	Loans         loans.Service
	LoanJobs      *loans.JobProcessor
	Notifications notifications.Service
}

// Router holds all route dependencies
type Router struct {
	config *config.Config
	db     *database.DB
	deps   Dependencies
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, deps Dependencies) *Router {
	return &Router{
		config: cfg,
		db:     db,
		deps:   deps,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupCatalogRoutes(api)
		r.setupBookingRoutes(api)
		r.setupLoanRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.healthCheck(c); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   serviceName,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   serviceName,
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		status := gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
			"backends":    r.db.Backends(),
			"catalog":     r.config.Catalog.Source,
			"sessions":    r.config.Wizard.SessionStore,
		}
		if r.deps.LoanJobs != nil {
			status["loan_jobs"] = r.deps.LoanJobs.GetJobStatus()
		}
		c.JSON(http.StatusOK, status)
	})

	engine.GET("/metrics", metrics.Handler())
}

func (r *Router) healthCheck(c *gin.Context) error {
	if err := r.db.HealthCheck(c.Request.Context()); err != nil {
		return err
	}
	if r.deps.Notifications != nil {
		return r.deps.Notifications.HealthCheck(c.Request.Context())
	}
	return nil
}

// setupCatalogRoutes configures movie and screen listing routes
func (r *Router) setupCatalogRoutes(rg *gin.RouterGroup) {
	catalog.SetupCatalogRoutes(rg, catalog.NewController(r.deps.Catalog))
}

// setupBookingRoutes configures ticket quote and checkout routes
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	bookings.SetupBookingRoutes(rg, bookings.NewController(r.deps.Bookings))
}

// setupLoanRoutes configures the loan wizard routes
func (r *Router) setupLoanRoutes(rg *gin.RouterGroup) {
	loans.SetupLoanRoutes(rg, loans.NewController(r.deps.Loans, r.config.Upload))
}

// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/catalog-admin/internal/config"
	"github.com/javajoker/catalog-admin/internal/handlers"
	"github.com/javajoker/catalog-admin/internal/middleware"
	"github.com/javajoker/catalog-admin/internal/services"
)

// Services are the long-lived dependencies the routes share.
type Services struct {
	Drafts  *services.DraftService
	Uploads *services.UploadService
	Catalog *services.CatalogClient
}

// Limiters are built by the caller so their cleanup loops can be stopped.
type Limiters struct {
	General *middleware.RateLimiter
	Upload  *middleware.RateLimiter
}

func NewServices(cfg *config.Config) Services {
	return Services{
		Drafts:  services.NewDraftService(cfg),
		Uploads: services.NewUploadService(cfg),
		Catalog: services.NewCatalogClient(cfg, nil),
	}
}

func NewLimiters(cfg *config.Config) Limiters {
	return Limiters{
		General: middleware.NewGeneralLimiter(cfg.RateLimit),
		Upload:  middleware.NewUploadLimiter(cfg.RateLimit),
	}
}

func Initialize(cfg *config.Config, svc Services, limiters Limiters) *gin.Engine {
	draftHandler := handlers.NewDraftHandler(svc.Drafts, svc.Uploads, svc.Catalog)

	// Initialize Gin router
	r := gin.New()
	r.MaxMultipartMemory = cfg.Uploads.MaxMultipartMemory

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(limiters.General.Middleware())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
			"drafts":  svc.Drafts.Count(),
		})
	})

	upload := limiters.Upload.Middleware()

	// API v1 routes
	v1 := r.Group("/v1")
	{
		drafts := v1.Group("/drafts")
		{
			drafts.POST("", draftHandler.OpenDraft)
			drafts.GET("/:id", draftHandler.GetDraft)
			drafts.PATCH("/:id", draftHandler.UpdateScalars)
			drafts.DELETE("/:id", draftHandler.DiscardDraft)
			drafts.GET("/:id/payload", draftHandler.PreviewPayload)
			drafts.POST("/:id/submit", draftHandler.SubmitDraft)

			// Variants
			drafts.POST("/:id/variants", draftHandler.AddVariant)
			drafts.PATCH("/:id/variants/:v", draftHandler.UpdateVariant)
			drafts.DELETE("/:id/variants/:v", draftHandler.RemoveVariant)
			drafts.POST("/:id/variants/:v/images", upload, draftHandler.UploadVariantImages)
			drafts.DELETE("/:id/variants/:v/images/:i", draftHandler.RemoveVariantImage)
			drafts.POST("/:id/variants/:v/images/:i/move", draftHandler.MoveVariantImage)
			drafts.PATCH("/:id/variants/:v/sizes/:s", draftHandler.UpdateSizeTier)

			// Filters
			drafts.POST("/:id/filters", draftHandler.AddFilter)
			drafts.PATCH("/:id/filters/:i", draftHandler.UpdateFilter)
			drafts.DELETE("/:id/filters/:i", draftHandler.RemoveFilter)

			// Care
			drafts.PATCH("/:id/care", draftHandler.UpdateCare)
			drafts.POST("/:id/care/instructions", draftHandler.AddCareInstruction)
			drafts.PATCH("/:id/care/instructions/:i", draftHandler.UpdateCareInstruction)
			drafts.DELETE("/:id/care/instructions/:i", draftHandler.RemoveCareInstruction)
			drafts.PUT("/:id/care/instructions/:i/icon", upload, draftHandler.SetCareInstructionIcon)

			// Size chart
			drafts.PUT("/:id/size-chart/unit", draftHandler.SetUnit)
			drafts.POST("/:id/size-chart/headers", draftHandler.AddSizeChartHeader)
			drafts.DELETE("/:id/size-chart/headers/:key", draftHandler.RemoveSizeChartHeader)
			drafts.POST("/:id/size-chart/rows", draftHandler.AddSizeChartRow)
			drafts.PATCH("/:id/size-chart/rows/:r", draftHandler.UpdateSizeChartRow)
			drafts.DELETE("/:id/size-chart/rows/:r", draftHandler.RemoveSizeChartRow)
			drafts.POST("/:id/size-chart/images", upload, draftHandler.UploadMeasureImages)
			drafts.DELETE("/:id/size-chart/images/:i", draftHandler.RemoveMeasureImage)

			// Policies
			drafts.PATCH("/:id/policies/:block", draftHandler.UpdatePolicy)
			drafts.PUT("/:id/policies/:block/icon", upload, draftHandler.SetPolicyIcon)
			drafts.DELETE("/:id/policies/:block/icon", draftHandler.ClearPolicyIcon)
		}
	}

	return r
}

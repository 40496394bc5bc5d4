package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/school-directory/internal/metrics"
	"github.com/SAP-F-2025/school-directory/internal/services"
	"github.com/SAP-F-2025/school-directory/internal/utils"
)

type HandlerManager struct {
	schoolHandler  *SchoolHandler
	healthHandler  *HealthHandler
	metrics        *metrics.Metrics
	requestTimeout time.Duration
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
	m *metrics.Metrics,
	requestTimeout time.Duration,
) *HandlerManager {
	return &HandlerManager{
		schoolHandler:  NewSchoolHandler(serviceManager.School(), serviceManager.Export(), logger),
		healthHandler:  NewHealthHandler(serviceManager, logger),
		metrics:        m,
		requestTimeout: requestTimeout,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.healthHandler.Health)

	if hm.metrics != nil {
		router.GET("/metrics", gin.WrapH(hm.metrics.Handler()))
	}

	api := router.Group("/api")
	if hm.requestTimeout > 0 {
		api.Use(TimeoutMiddleware(hm.requestTimeout))
	}
	{
		schools := api.Group("/schools")
		{
			schools.GET("", hm.schoolHandler.ListSchools)
			schools.POST("", hm.schoolHandler.CreateSchool)
			schools.GET("/export", hm.schoolHandler.ExportSchools)
		}
	}
}

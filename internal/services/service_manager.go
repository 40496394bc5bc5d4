package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/SAP-F-2025/school-directory/internal/events"
	"github.com/SAP-F-2025/school-directory/internal/metrics"
	"github.com/SAP-F-2025/school-directory/internal/repositories"
	"github.com/SAP-F-2025/school-directory/internal/validator"
)

// ServiceManagerConfig holds configuration for the service manager
type ServiceManagerConfig struct {
	School ServiceConfig
	Export ServiceConfig
}

type ServiceConfig struct {
	Enabled bool
}

// Dependencies are the process-wide resources built in main and shared by the services
type Dependencies struct {
	Repositories repositories.RepositoryManager
	Logger       *slog.Logger
	Validator    *validator.Validator
	Publisher    events.EventPublisher
	Metrics      *metrics.Metrics
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	deps   Dependencies
	config ServiceManagerConfig

	// Service instances
	schoolService SchoolService
	exportService ExportService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies
func NewServiceManager(deps Dependencies, config ServiceManagerConfig) ServiceManager {
	return &serviceManager{
		deps:   deps,
		config: config,
	}
}

// NewDefaultServiceManager enables every service
func NewDefaultServiceManager(deps Dependencies) ServiceManager {
	return NewServiceManager(deps, ServiceManagerConfig{
		School: ServiceConfig{Enabled: true},
		Export: ServiceConfig{Enabled: true},
	})
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.deps.Logger.Info("Initializing service manager")

	repo := sm.deps.Repositories.GetRepository()
	if repo == nil {
		return fmt.Errorf("failed to initialize services: repository not initialized")
	}

	if sm.config.School.Enabled {
		sm.schoolService = NewSchoolService(repo, sm.deps.Logger, sm.deps.Validator, sm.deps.Publisher, sm.deps.Metrics)
		sm.deps.Logger.Info("School service initialized")
	}

	if sm.config.Export.Enabled {
		if sm.schoolService == nil {
			return fmt.Errorf("failed to initialize services: export requires the school service")
		}
		sm.exportService = NewExportService(sm.schoolService, sm.deps.Logger)
		sm.deps.Logger.Info("Export service initialized")
	}

	sm.initialized = true
	sm.deps.Logger.Info("Service manager initialized successfully")

	return nil
}

// Service getters
func (sm *serviceManager) School() SchoolService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.config.School.Enabled && sm.schoolService != nil {
		return sm.schoolService
	}

	panic("school service not enabled or not initialized")
}

func (sm *serviceManager) Export() ExportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.config.Export.Enabled && sm.exportService != nil {
		return sm.exportService
	}

	panic("export service not enabled or not initialized")
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}

	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.deps.Repositories.HealthCheck(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.deps.Logger.Info("Shutting down service manager")

	if sm.deps.Publisher != nil {
		if err := sm.deps.Publisher.Close(); err != nil {
			sm.deps.Logger.Error("Failed to close event publisher", "error", err)
		}
	}

	if err := sm.deps.Repositories.Shutdown(ctx); err != nil {
		sm.deps.Logger.Error("Failed to shutdown repository manager", "error", err)
	}

	sm.shutdown = true
	sm.deps.Logger.Info("Service manager shut down completed")

	return nil
}

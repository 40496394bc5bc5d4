package services

import (
	"bytes"
	"context"

	"github.com/SAP-F-2025/school-directory/internal/models"
	"github.com/SAP-F-2025/school-directory/internal/validator"
)

// Use business validator types
type CreateSchoolRequest = validator.SchoolCreateRequest

type CreateSchoolResponse struct {
	Message string `json:"message"`
	ID      uint   `json:"id"`
}

const SchoolCreatedMessage = "School added successfully"

type SchoolService interface {
	// List returns every school, newest first
	List(ctx context.Context) ([]models.School, error)
	Create(ctx context.Context, req *CreateSchoolRequest) (*models.School, error)
}

type ExportService interface {
	ExportSchools(ctx context.Context) (*bytes.Buffer, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	School() SchoolService
	Export() ExportService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

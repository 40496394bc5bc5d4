package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SAP-F-2025/school-directory/internal/events"
	"github.com/SAP-F-2025/school-directory/internal/metrics"
	"github.com/SAP-F-2025/school-directory/internal/models"
	"github.com/SAP-F-2025/school-directory/internal/repositories"
	"github.com/SAP-F-2025/school-directory/internal/validator"
)

type schoolService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
	metrics   *metrics.Metrics
}

// NewSchoolService creates the school service. publisher may be nil.
func NewSchoolService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher, m *metrics.Metrics) SchoolService {
	return &schoolService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		publisher: publisher,
		metrics:   m,
	}
}

func (s *schoolService) List(ctx context.Context) ([]models.School, error) {
	schools, err := s.repo.School().List(ctx)
	if err != nil {
		return nil, s.storeError(ctx, "list", err)
	}

	s.logger.DebugContext(ctx, "Listed schools", "count", len(schools))
	return schools, nil
}

func (s *schoolService) Create(ctx context.Context, req *CreateSchoolRequest) (*models.School, error) {
	// Validate request with business rules
	if err := s.validator.ValidateSchool(req); err != nil {
		s.recordValidationFailure(err)
		s.logger.InfoContext(ctx, "School rejected", "reason", err.Error())
		return nil, err
	}

	school := &models.School{
		Name:    req.Name,
		Address: req.Address,
		City:    req.City,
		State:   req.State,
		Contact: req.Contact,
		Image:   req.Image,
		EmailID: req.EmailID,
	}

	if err := s.repo.School().Create(ctx, school); err != nil {
		return nil, s.storeError(ctx, "create", err)
	}

	if s.metrics != nil {
		s.metrics.IncrementSchoolsCreated()
	}
	s.logger.InfoContext(ctx, "School created", "school_id", school.ID, "name", school.Name)

	s.publishCreated(ctx, *school)

	return school, nil
}

// publishCreated emits school.created. A failed publish is logged only; the row is already stored.
func (s *schoolService) publishCreated(ctx context.Context, school models.School) {
	if s.publisher == nil {
		return
	}

	event := events.NewSchoolCreatedEvent(school)
	if err := s.publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish school event",
			"event_type", event.Type, "school_id", school.ID, "error", err)
	}
}

func (s *schoolService) storeError(ctx context.Context, operation string, err error) error {
	if isTimeout(ctx, err) {
		s.logger.WarnContext(ctx, "School store call timed out", "operation", operation, "error", err)
		return &OperationError{Operation: operation, Kind: ErrRequestTimeout, Cause: err}
	}

	s.logger.ErrorContext(ctx, "School store call failed", "operation", operation, "error", err)
	if s.metrics != nil {
		s.metrics.RecordStoreError(operation)
	}
	return &OperationError{Operation: operation, Kind: ErrStoreUnavailable, Cause: err}
}

func (s *schoolService) recordValidationFailure(err error) {
	if s.metrics == nil {
		return
	}

	switch {
	case errors.Is(err, ErrMissingField):
		s.metrics.RecordValidationFailure("missing_field")
	case errors.Is(err, ErrInvalidFormat):
		s.metrics.RecordValidationFailure("invalid_format")
	}
}

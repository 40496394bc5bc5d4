package repositories

import (
	"context"

	"github.com/SAP-F-2025/school-directory/internal/models"
)

// SchoolRepository persists school records. Records are insert-only.
type SchoolRepository interface {
	// List returns every school, newest (highest id) first. Never returns a nil slice on success.
	List(ctx context.Context) ([]models.School, error)

	// Create inserts school and sets school.ID to the id assigned by the store.
	Create(ctx context.Context, school *models.School) error
}

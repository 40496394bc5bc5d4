package services

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/SAP-F-2025/school-directory/internal/models"
	"github.com/SAP-F-2025/school-directory/internal/repositories"
)

// memorySchoolRepo is an in-memory SchoolRepository
type memorySchoolRepo struct {
	mu      sync.Mutex
	schools []models.School
	nextID  uint

	listErr   error
	createErr error
	// block makes calls wait for the context to end
	block bool
}

func newMemorySchoolRepo() *memorySchoolRepo {
	return &memorySchoolRepo{nextID: 1}
}

func (r *memorySchoolRepo) List(ctx context.Context) ([]models.School, error) {
	if r.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.listErr != nil {
		return nil, r.listErr
	}

	out := make([]models.School, 0, len(r.schools))
	for i := len(r.schools) - 1; i >= 0; i-- {
		out = append(out, r.schools[i])
	}
	return out, nil
}

func (r *memorySchoolRepo) Create(ctx context.Context, school *models.School) error {
	if r.block {
		<-ctx.Done()
		return ctx.Err()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		return r.createErr
	}

	school.ID = r.nextID
	r.nextID++
	r.schools = append(r.schools, *school)
	return nil
}

func (r *memorySchoolRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.schools)
}

type memoryRepository struct {
	school  *memorySchoolRepo
	pingErr error
	closed  bool
}

func (m *memoryRepository) School() repositories.SchoolRepository { return m.school }
func (m *memoryRepository) Ping(ctx context.Context) error        { return m.pingErr }
func (m *memoryRepository) Close() error {
	m.closed = true
	return nil
}

type memoryRepositoryManager struct {
	repo *memoryRepository
}

func (m *memoryRepositoryManager) Initialize() error                       { return nil }
func (m *memoryRepositoryManager) GetRepository() repositories.Repository { return m.repo }
func (m *memoryRepositoryManager) HealthCheck(ctx context.Context) error  { return m.repo.Ping(ctx) }
func (m *memoryRepositoryManager) Shutdown(ctx context.Context) error     { return m.repo.Close() }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

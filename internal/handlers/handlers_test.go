package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/school-directory/internal/events"
	"github.com/SAP-F-2025/school-directory/internal/metrics"
	"github.com/SAP-F-2025/school-directory/internal/models"
	"github.com/SAP-F-2025/school-directory/internal/repositories"
	"github.com/SAP-F-2025/school-directory/internal/services"
	"github.com/SAP-F-2025/school-directory/internal/utils"
	"github.com/SAP-F-2025/school-directory/internal/validator"
)

type stubSchoolRepo struct {
	mu      sync.Mutex
	schools []models.School

	listErr   error
	createErr error
	block     bool
}

func (r *stubSchoolRepo) List(ctx context.Context) ([]models.School, error) {
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

func (r *stubSchoolRepo) Create(ctx context.Context, school *models.School) error {
	if r.block {
		<-ctx.Done()
		return ctx.Err()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	school.ID = uint(len(r.schools) + 1)
	r.schools = append(r.schools, *school)
	return nil
}

type stubRepository struct {
	school  *stubSchoolRepo
	pingErr error
}

func (s *stubRepository) School() repositories.SchoolRepository { return s.school }
func (s *stubRepository) Ping(ctx context.Context) error        { return s.pingErr }
func (s *stubRepository) Close() error                          { return nil }

type stubRepositoryManager struct{ repo *stubRepository }

func (m *stubRepositoryManager) Initialize() error                       { return nil }
func (m *stubRepositoryManager) GetRepository() repositories.Repository { return m.repo }
func (m *stubRepositoryManager) HealthCheck(ctx context.Context) error  { return m.repo.Ping(ctx) }
func (m *stubRepositoryManager) Shutdown(ctx context.Context) error     { return nil }

type SchoolAPISuite struct {
	suite.Suite
	repo    *stubRepository
	metrics *metrics.Metrics
	router  *gin.Engine
}

func TestSchoolAPISuite(t *testing.T) {
	suite.Run(t, new(SchoolAPISuite))
}

func (s *SchoolAPISuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.repo = &stubRepository{school: &stubSchoolRepo{}}
	s.metrics = metrics.New()

	sm := services.NewDefaultServiceManager(services.Dependencies{
		Repositories: &stubRepositoryManager{repo: s.repo},
		Logger:       slogger,
		Validator:    validator.New(),
		Publisher:    events.NewMockEventPublisher(slogger),
		Metrics:      s.metrics,
	})
	s.Require().NoError(sm.Initialize(context.Background()))

	logger := utils.NewSlogLogger(slogger)
	s.router = gin.New()
	SetupMiddleware(s.router, logger, MiddlewareConfig{AllowedOrigins: []string{"*"}, Metrics: s.metrics})
	NewHandlerManager(sm, logger, s.metrics, 50*time.Millisecond).SetupRoutes(s.router)
}

func (s *SchoolAPISuite) do(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *SchoolAPISuite) errorBody(rec *httptest.ResponseRecorder) ErrorResponse {
	var resp ErrorResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func (s *SchoolAPISuite) listSchools() []models.School {
	rec := s.do(http.MethodGet, "/api/schools", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	var schools []models.School
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &schools))
	return schools
}

const oakSchoolBody = `{"name":"Oak School","address":"1 Elm St","city":"Pune","state":"MH","contact":"9876543210","email_id":"info@oak.edu"}`

func (s *SchoolAPISuite) TestEmptyListIsArray() {
	rec := s.do(http.MethodGet, "/api/schools", "")
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`[]`, rec.Body.String())
}

func (s *SchoolAPISuite) TestOakSchoolRoundTrip() {
	rec := s.do(http.MethodPost, "/api/schools", oakSchoolBody)
	s.Require().Equal(http.StatusCreated, rec.Code)

	var created services.CreateSchoolResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &created))
	s.Equal("School added successfully", created.Message)
	s.NotZero(created.ID)

	rec = s.do(http.MethodGet, "/api/schools", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.JSONEq(`[{"id":1,"name":"Oak School","address":"1 Elm St","city":"Pune","state":"MH","contact":"9876543210","image":"","email_id":"info@oak.edu"}]`, rec.Body.String())
}

func (s *SchoolAPISuite) TestNewestFirst() {
	s.Require().Equal(http.StatusCreated, s.do(http.MethodPost, "/api/schools", oakSchoolBody).Code)
	s.Require().Equal(http.StatusCreated, s.do(http.MethodPost, "/api/schools",
		`{"name":"Pine Academy","address":"2 Pine Rd","city":"Delhi","state":"DL","contact":"0123456789","email_id":"a@b.co","image":"https://example.com/p.png"}`).Code)

	schools := s.listSchools()
	s.Require().Len(schools, 2)
	s.Equal("Pine Academy", schools[0].Name)
	s.Equal("https://example.com/p.png", schools[0].Image)
	s.Greater(schools[0].ID, schools[1].ID)
}

func (s *SchoolAPISuite) TestMissingStateRejected() {
	rec := s.do(http.MethodPost, "/api/schools",
		`{"name":"Oak School","address":"1 Elm St","city":"Pune","contact":"9876543210","email_id":"info@oak.edu"}`)

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("All fields are required", s.errorBody(rec).Error)
	s.Empty(s.listSchools())
}

func (s *SchoolAPISuite) TestBadContactRejected() {
	rec := s.do(http.MethodPost, "/api/schools",
		`{"name":"Oak School","address":"1 Elm St","city":"Pune","state":"MH","contact":"98765-4321","email_id":"info@oak.edu"}`)

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("Contact must be 10 digits", s.errorBody(rec).Error)
}

func (s *SchoolAPISuite) TestContactReportedBeforeEmail() {
	rec := s.do(http.MethodPost, "/api/schools",
		`{"name":"Oak School","address":"1 Elm St","city":"Pune","state":"MH","contact":"123","email_id":"nope"}`)

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("Contact must be 10 digits", s.errorBody(rec).Error)
}

func (s *SchoolAPISuite) TestBadEmailRejected() {
	rec := s.do(http.MethodPost, "/api/schools",
		`{"name":"Oak School","address":"1 Elm St","city":"Pune","state":"MH","contact":"9876543210","email_id":"a@b"}`)

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("Invalid email format", s.errorBody(rec).Error)
	s.Empty(s.listSchools())
}

func (s *SchoolAPISuite) TestMalformedBodyRejected() {
	rec := s.do(http.MethodPost, "/api/schools", `{"name":`)

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(MsgInvalidRequestBody, s.errorBody(rec).Error)
}

func (s *SchoolAPISuite) TestNonStringFieldRejected() {
	for _, body := range []string{
		`{"name":"Oak School","address":"1 Elm St","city":"Pune","state":"MH","contact":9876543210,"email_id":"info@oak.edu"}`,
		`{"name":"Oak School","address":"1 Elm St","city":"Pune","state":"MH","contact":"9876543210","email_id":["info@oak.edu"]}`,
	} {
		rec := s.do(http.MethodPost, "/api/schools", body)

		s.Equal(http.StatusBadRequest, rec.Code, body)
		s.Equal(MsgInvalidRequestBody, s.errorBody(rec).Error)
	}
	s.Empty(s.repo.school.schools)
}

func (s *SchoolAPISuite) TestStoreFailures() {
	s.repo.school.listErr = errors.New("connection refused")
	rec := s.do(http.MethodGet, "/api/schools", "")
	s.Equal(http.StatusInternalServerError, rec.Code)
	s.Equal("Failed to fetch schools", s.errorBody(rec).Error)
	s.NotContains(rec.Body.String(), "connection refused")

	s.repo.school.createErr = errors.New("disk full")
	rec = s.do(http.MethodPost, "/api/schools", oakSchoolBody)
	s.Equal(http.StatusInternalServerError, rec.Code)
	s.Equal("Failed to add school", s.errorBody(rec).Error)
}

func (s *SchoolAPISuite) TestSlowStoreTimesOut() {
	s.repo.school.block = true

	rec := s.do(http.MethodGet, "/api/schools", "")
	s.Equal(http.StatusGatewayTimeout, rec.Code)
	s.Equal(MsgRequestTimeout, s.errorBody(rec).Error)

	rec = s.do(http.MethodPost, "/api/schools", oakSchoolBody)
	s.Equal(http.StatusGatewayTimeout, rec.Code)
}

func (s *SchoolAPISuite) TestExport() {
	s.Require().Equal(http.StatusCreated, s.do(http.MethodPost, "/api/schools", oakSchoolBody).Code)

	rec := s.do(http.MethodGet, "/api/schools/export", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal(xlsxContentType, rec.Header().Get("Content-Type"))
	s.Contains(rec.Header().Get("Content-Disposition"), "schools.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	s.Require().NoError(err)
	defer f.Close()
	rows, err := f.GetRows(services.ExportSheetName)
	s.Require().NoError(err)
	s.Require().Len(rows, 2)
	s.Equal("Oak School", rows[1][1])
}

func (s *SchoolAPISuite) TestHealth() {
	rec := s.do(http.MethodGet, "/health", "")
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"status":"healthy"}`, rec.Body.String())

	s.repo.pingErr = errors.New("db down")
	rec = s.do(http.MethodGet, "/health", "")
	s.Equal(http.StatusServiceUnavailable, rec.Code)
	s.JSONEq(`{"status":"unhealthy"}`, rec.Body.String())
}

func (s *SchoolAPISuite) TestMetricsEndpoint() {
	s.Require().Equal(http.StatusCreated, s.do(http.MethodPost, "/api/schools", oakSchoolBody).Code)

	rec := s.do(http.MethodGet, "/metrics", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "school_directory_schools_created_total 1")
	s.Contains(rec.Body.String(), `route="/api/schools"`)
}

func (s *SchoolAPISuite) TestRequestIDEchoed() {
	req := httptest.NewRequest(http.MethodGet, "/api/schools", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal("abc-123", rec.Header().Get("X-Request-ID"))
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(origins []string) *gin.Engine {
		r := gin.New()
		r.Use(CORSMiddleware(origins))
		r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
		return r
	}

	t.Run("wildcard", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		newRouter([]string{"*"}).ServeHTTP(rec, req)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("listed origin", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		newRouter([]string{"http://localhost:3000/"}).ServeHTTP(rec, req)
		assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unlisted origin", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Origin", "http://evil.example")
		newRouter([]string{"http://localhost:3000"}).ServeHTTP(rec, req)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/x", nil)
		newRouter(nil).ServeHTTP(rec, req)
		require.Equal(t, http.StatusNoContent, rec.Code)
	})
}

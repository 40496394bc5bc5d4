//go:build integration

package postgres_test

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/SAP-F-2025/school-directory/internal/models"
	"github.com/SAP-F-2025/school-directory/internal/repositories"
	"github.com/SAP-F-2025/school-directory/internal/repositories/postgres"
	"github.com/SAP-F-2025/school-directory/pkg"
	"github.com/SAP-F-2025/school-directory/pkg/testutil/containers"
)

type SchoolPostgreSQLSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	redis    *miniredis.Miniredis
	client   *redis.Client
	repo     repositories.SchoolRepository
}

func TestSchoolPostgreSQLSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(SchoolPostgreSQLSuite))
}

func (s *SchoolPostgreSQLSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.Require().NoError(pkg.Migrate(s.postgres.DB))

	s.redis = miniredis.RunT(s.T())
	s.client = redis.NewClient(&redis.Options{Addr: s.redis.Addr()})
	s.repo = postgres.NewSchoolPostgreSQL(s.postgres.DB, s.client)
}

func (s *SchoolPostgreSQLSuite) TearDownSuite() {
	_ = s.client.Close()
}

func (s *SchoolPostgreSQLSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "schools"))
	s.redis.FlushAll()
}

func newSchool(name string) *models.School {
	return &models.School{
		Name:    name,
		Address: "1 Main St\nSuite 2",
		City:    "Springfield",
		State:   "IL",
		Contact: "5551234567",
		EmailID: "office@school.org",
	}
}

func (s *SchoolPostgreSQLSuite) TestListEmpty() {
	schools, err := s.repo.List(context.Background())
	s.Require().NoError(err)
	s.NotNil(schools)
	s.Empty(schools)
}

func (s *SchoolPostgreSQLSuite) TestCreateAssignsIncreasingIDs() {
	ctx := context.Background()
	var last uint
	for _, name := range []string{"A", "B", "C"} {
		school := newSchool(name)
		s.Require().NoError(s.repo.Create(ctx, school))
		s.Greater(school.ID, last)
		last = school.ID
	}
}

func (s *SchoolPostgreSQLSuite) TestRoundTripNewestFirst() {
	ctx := context.Background()
	first := newSchool("First")
	s.Require().NoError(s.repo.Create(ctx, first))

	second := newSchool("Second")
	second.Image = "https://example.com/second.png"
	s.Require().NoError(s.repo.Create(ctx, second))

	schools, err := s.repo.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(schools, 2)
	s.Equal(*second, schools[0])
	s.Equal(*first, schools[1])
	s.Equal("", schools[1].Image)
}

func (s *SchoolPostgreSQLSuite) TestCreateInvalidatesCachedList() {
	ctx := context.Background()
	s.Require().NoError(s.repo.Create(ctx, newSchool("Cached")))

	before, err := s.repo.List(ctx)
	s.Require().NoError(err)
	s.Len(before, 1)

	// Second read is served from the snapshot and must match
	again, err := s.repo.List(ctx)
	s.Require().NoError(err)
	s.Equal(before, again)

	s.Require().NoError(s.repo.Create(ctx, newSchool("Fresh")))

	after, err := s.repo.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(after, 2)
	s.Equal("Fresh", after[0].Name)
}

func (s *SchoolPostgreSQLSuite) TestCreateDuringRedisErrorNeverServesStaleList() {
	ctx := context.Background()
	s.Require().NoError(s.repo.Create(ctx, newSchool("Old")))

	cached, err := s.repo.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(cached, 1)

	s.redis.SetError("LOADING transient")
	s.Require().NoError(s.repo.Create(ctx, newSchool("New")))

	during, err := s.repo.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(during, 2)

	s.redis.SetError("")
	after, err := s.repo.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(after, 2)
	s.Equal("New", after[0].Name)
}

func (s *SchoolPostgreSQLSuite) TestConcurrentCreatesGetDistinctIDs() {
	ctx := context.Background()
	const n = 20

	var wg sync.WaitGroup
	ids := make(chan uint, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			school := newSchool("Concurrent")
			if err := s.repo.Create(ctx, school); err == nil {
				ids <- school.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[uint]bool)
	for id := range ids {
		s.False(seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	s.Len(seen, n)

	schools, err := s.repo.List(ctx)
	s.Require().NoError(err)
	s.Len(schools, n)
}

package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/khoahotran/resume-builder/internal/application/service"
	"github.com/khoahotran/resume-builder/internal/domain/resume"
	"github.com/khoahotran/resume-builder/internal/domain/upload"
	"github.com/khoahotran/resume-builder/internal/domain/user"
	"github.com/khoahotran/resume-builder/pkg/apperror"
)

type RepoIntegrationTestSuite struct {
	suite.Suite
	dbPool         *pgxpool.Pool
	pgContainer    *postgres.PostgresContainer
	redisContainer *tcredis.RedisContainer
	rdb            *redis.Client

	userRepo   user.Repository
	resumeRepo resume.Repository
	uploadRepo upload.Repository
	tokens     service.TokenStore

	owner *user.User
	other *user.User
}

func (s *RepoIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(1*time.Minute),
		),
	)
	s.Require().NoError(err, "start postgres container")
	s.pgContainer = pgContainer

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)
	s.Require().NoError(RunMigrations(dsn))
	// a second run is a no-op
	s.Require().NoError(RunMigrations(dsn))

	s.dbPool, err = pgxpool.New(ctx, dsn)
	s.Require().NoError(err)

	redisContainer, err := tcredis.Run(ctx, "redis:7-alpine")
	s.Require().NoError(err, "start redis container")
	s.redisContainer = redisContainer
	redisURL, err := redisContainer.ConnectionString(ctx)
	s.Require().NoError(err)
	opts, err := redis.ParseURL(redisURL)
	s.Require().NoError(err)
	s.rdb = redis.NewClient(opts)

	s.userRepo = NewPostgresUserRepo(s.dbPool)
	s.resumeRepo = NewPostgresResumeRepo(s.dbPool)
	s.uploadRepo = NewPostgresUploadRepo(s.dbPool)
	s.tokens = NewRedisTokenStore(s.rdb)

	s.owner = s.seedUser(ctx, "owner@example.com")
	s.other = s.seedUser(ctx, "other@example.com")
}

func (s *RepoIntegrationTestSuite) seedUser(ctx context.Context, email string) *user.User {
	u := &user.User{ID: uuid.New(), Email: email, Name: "Test", PasswordHash: "hashedpassword", CreatedAt: time.Now().UTC()}
	s.Require().NoError(s.userRepo.Create(ctx, u))
	return u
}

func (s *RepoIntegrationTestSuite) TearDownSuite() {
	ctx := context.Background()
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.rdb != nil {
		_ = s.rdb.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(ctx); err != nil {
			s.T().Fatalf("Failed to terminate postgres container: %s", err)
		}
	}
	if s.redisContainer != nil {
		if err := s.redisContainer.Terminate(ctx); err != nil {
			s.T().Fatalf("Failed to terminate redis container: %s", err)
		}
	}
}

func TestRepoIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode.")
	}
	suite.Run(t, new(RepoIntegrationTestSuite))
}

func (s *RepoIntegrationTestSuite) newResume() *resume.Resume {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &resume.Resume{
		ID:         uuid.New(),
		OwnerID:    s.owner.ID,
		FullName:   "Jane Doe",
		Email:      "jane@x.com",
		Skills:     []string{"Go", "SQL"},
		Experience: []resume.Experience{{Company: "Acme", Role: "Engineer", Duration: "2y"}},
		Education:  []resume.Education{{Degree: "BSc", Institution: "MIT", Year: "2020"}},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (s *RepoIntegrationTestSuite) Test_User_DuplicateEmail() {
	ctx := context.Background()

	err := s.userRepo.Create(ctx, &user.User{ID: uuid.New(), Email: s.owner.Email, PasswordHash: "x", CreatedAt: time.Now()})
	s.ErrorIs(err, apperror.ErrConflict)

	found, err := s.userRepo.FindByEmail(ctx, s.owner.Email)
	s.Require().NoError(err)
	s.Equal(s.owner.ID, found.ID)

	_, err = s.userRepo.FindByID(ctx, uuid.New())
	s.ErrorIs(err, apperror.ErrNotFound)
}

func (s *RepoIntegrationTestSuite) Test_Resume_Save_And_FindByID() {
	ctx := context.Background()
	r := s.newResume()

	s.Require().NoError(s.resumeRepo.Save(ctx, r))

	found, err := s.resumeRepo.FindByID(ctx, r.ID)
	s.Require().NoError(err)
	s.Equal(r.FullName, found.FullName)
	s.Equal(r.Skills, found.Skills)
	s.Equal(r.Experience, found.Experience)
	s.Equal(r.Education, found.Education)
	s.Equal([]resume.Project{}, found.Projects)
	s.Nil(found.UploadID)
	s.WithinDuration(r.CreatedAt, found.CreatedAt, time.Second)
}

func (s *RepoIntegrationTestSuite) Test_Resume_Update_And_Delete_AreOwnerScoped() {
	ctx := context.Background()
	r := s.newResume()
	s.Require().NoError(s.resumeRepo.Save(ctx, r))

	hijack := *r
	hijack.OwnerID = s.other.ID
	hijack.FullName = "Mallory"
	s.ErrorIs(s.resumeRepo.Update(ctx, &hijack), apperror.ErrNotFound)
	s.ErrorIs(s.resumeRepo.Delete(ctx, r.ID, s.other.ID), apperror.ErrNotFound)

	r.Summary = "Seasoned engineer."
	r.Skills = []string{"Rust"}
	s.Require().NoError(s.resumeRepo.Update(ctx, r))

	found, err := s.resumeRepo.FindByID(ctx, r.ID)
	s.Require().NoError(err)
	s.Equal("Jane Doe", found.FullName)
	s.Equal("Seasoned engineer.", found.Summary)
	s.Equal([]string{"Rust"}, found.Skills)

	s.Require().NoError(s.resumeRepo.Delete(ctx, r.ID, s.owner.ID))
	_, err = s.resumeRepo.FindByID(ctx, r.ID)
	s.ErrorIs(err, apperror.ErrNotFound)
}

func (s *RepoIntegrationTestSuite) Test_Resume_ListByOwner() {
	ctx := context.Background()
	mine := s.newResume()
	s.Require().NoError(s.resumeRepo.Save(ctx, mine))
	theirs := s.newResume()
	theirs.OwnerID = s.other.ID
	s.Require().NoError(s.resumeRepo.Save(ctx, theirs))

	list, err := s.resumeRepo.ListByOwner(ctx, s.other.ID)
	s.Require().NoError(err)
	for _, r := range list {
		s.Equal(s.other.ID, r.OwnerID)
	}
	s.NotEmpty(list)
}

func (s *RepoIntegrationTestSuite) Test_Uploads_Latest_And_Analysis() {
	ctx := context.Background()
	now := time.Now().UTC()
	older := &upload.ResumeUpload{ID: uuid.New(), OwnerID: s.owner.ID, FileURL: "https://cdn/a", ExtractedText: "old", CreatedAt: now.Add(-time.Hour)}
	newer := &upload.ResumeUpload{ID: uuid.New(), OwnerID: s.owner.ID, FileURL: "https://cdn/b", ExtractedText: "new", CreatedAt: now}
	s.Require().NoError(s.uploadRepo.Save(ctx, newer))
	s.Require().NoError(s.uploadRepo.Save(ctx, older))

	latest, err := s.uploadRepo.LatestByOwner(ctx, s.owner.ID)
	s.Require().NoError(err)
	s.Equal(newer.ID, latest.ID)

	a := &upload.Analysis{UploadID: newer.ID, OwnerID: s.owner.ID, Content: "first", Model: "m", CreatedAt: now}
	s.Require().NoError(s.uploadRepo.SaveAnalysis(ctx, a))
	a.Content = "second"
	s.Require().NoError(s.uploadRepo.SaveAnalysis(ctx, a))

	found, err := s.uploadRepo.FindAnalysis(ctx, newer.ID)
	s.Require().NoError(err)
	s.Equal("second", found.Content)

	linked := s.newResume()
	linked.UploadID = &newer.ID
	s.Require().NoError(s.resumeRepo.Save(ctx, linked))
	got, err := s.resumeRepo.FindByID(ctx, linked.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got.UploadID)
	s.Equal(newer.ID, *got.UploadID)
}

func (s *RepoIntegrationTestSuite) Test_Uploads_NoneForOwner() {
	_, err := s.uploadRepo.LatestByOwner(context.Background(), uuid.New())
	s.ErrorIs(err, apperror.ErrNotFound)
}

func (s *RepoIntegrationTestSuite) Test_TokenStore() {
	ctx := context.Background()
	jti := uuid.NewString()

	revoked, err := s.tokens.IsRevoked(ctx, jti)
	s.Require().NoError(err)
	s.False(revoked)

	s.Require().NoError(s.tokens.Revoke(ctx, jti, time.Minute))
	revoked, err = s.tokens.IsRevoked(ctx, jti)
	s.Require().NoError(err)
	s.True(revoked)

	ttl, err := s.rdb.TTL(ctx, revokedKeyPrefix+jti).Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
}

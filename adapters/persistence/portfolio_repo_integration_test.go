package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/quangtran/folio-api/internal/domain/contact"
	"github.com/quangtran/folio-api/internal/domain/portfolio"
	"github.com/quangtran/folio-api/internal/domain/user"
	"github.com/quangtran/folio-api/pkg/apperror"
	"github.com/quangtran/folio-api/pkg/logger"
)

type PortfolioRepoIntegrationTestSuite struct {
	suite.Suite
	dbPool        *pgxpool.Pool
	pgContainer   *postgres.PostgresContainer
	testLogger    logger.Logger
	portfolioRepo portfolio.Repository
	contactRepo   contact.Repository
	userRepo      user.Repository
	ownerID       uuid.UUID
}

func (s *PortfolioRepoIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()
	s.testLogger = logger.NewNop()

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
	if err != nil {
		s.T().Fatalf("Failed to start postgres container: %s", err)
	}
	s.pgContainer = pgContainer

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		s.T().Fatalf("Failed to get connection string: %s", err)
	}

	m, err := migrate.New("file://../../migrations", dsn)
	if err != nil {
		s.T().Fatalf("Failed to create migrate instance: %s", err)
	}
	if err := m.Up(); err != nil {
		s.T().Fatalf("Failed to run migrations: %s", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		s.T().Fatalf("Failed to create pgxpool: %s", err)
	}
	s.dbPool = pool

	s.portfolioRepo = NewPostgresPortfolioRepo(s.dbPool, s.testLogger)
	s.contactRepo = NewPostgresContactRepo(s.dbPool, s.testLogger)
	s.userRepo = NewPostgresUserRepo(s.dbPool)

	s.ownerID = uuid.New()
	query := `INSERT INTO users (id, username, password_hash) VALUES ($1, $2, $3)`
	_, err = s.dbPool.Exec(ctx, query, s.ownerID, "integration-owner", "hashedpassword")
	if err != nil {
		s.T().Fatalf("Failed to seed owner: %s", err)
	}
}

func (s *PortfolioRepoIntegrationTestSuite) TearDownSuite() {
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(context.Background()); err != nil {
			s.T().Fatalf("Failed to terminate postgres container: %s", err)
		}
	}
}

func TestPortfolioRepoIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode.")
	}
	suite.Run(t, new(PortfolioRepoIntegrationTestSuite))
}

func (s *PortfolioRepoIntegrationTestSuite) Test_UpsertSection_CreatesAndReplaces() {
	ctx := context.Background()

	stored, err := s.portfolioRepo.UpsertSection(ctx, s.ownerID, portfolio.SectionHero,
		json.RawMessage(`{"name":"Quang","intro":"Engineer"}`))
	s.NoError(err)
	s.JSONEq(`{"name":"Quang","intro":"Engineer"}`, string(stored))

	stored, err = s.portfolioRepo.UpsertSection(ctx, s.ownerID, portfolio.SectionHero,
		json.RawMessage(`{"name":"Quang Tran"}`))
	s.NoError(err)
	s.JSONEq(`{"name":"Quang Tran"}`, string(stored))

	doc, err := s.portfolioRepo.Get(ctx)
	s.NoError(err)
	s.Equal("Quang Tran", doc.Hero.Name)
}

func (s *PortfolioRepoIntegrationTestSuite) Test_ItemLifecycle() {
	ctx := context.Background()

	id := portfolio.NewID()
	item, _ := json.Marshal(map[string]any{"_id": id, "label": "Go", "level": 80, "category": "backend"})
	s.Require().NoError(s.portfolioRepo.AppendItem(ctx, s.ownerID, portfolio.SectionSkills, item))

	merged, err := s.portfolioRepo.MergeItem(ctx, s.ownerID, portfolio.SectionSkills, id,
		json.RawMessage(`{"level":90}`))
	s.Require().NoError(err)

	var skill portfolio.Skill
	s.Require().NoError(json.Unmarshal(merged, &skill))
	s.Equal(id, skill.ID)
	s.Equal(90, skill.Level)
	s.Equal("backend", skill.Category)

	_, err = s.portfolioRepo.MergeItem(ctx, s.ownerID, portfolio.SectionSkills, portfolio.NewID(),
		json.RawMessage(`{"level":1}`))
	s.Error(err)
	s.True(errors.Is(err, apperror.ErrNotFound))

	s.NoError(s.portfolioRepo.RemoveItem(ctx, s.ownerID, portfolio.SectionSkills, id))
	// A second removal of the same id still succeeds.
	s.NoError(s.portfolioRepo.RemoveItem(ctx, s.ownerID, portfolio.SectionSkills, id))
}

func (s *PortfolioRepoIntegrationTestSuite) Test_ConcurrentMerges_BothLand() {
	ctx := context.Background()

	idA := portfolio.NewID()
	idB := portfolio.NewID()
	itemA, _ := json.Marshal(map[string]any{"_id": idA, "title": "Project A"})
	itemB, _ := json.Marshal(map[string]any{"_id": idB, "title": "Project B"})
	s.Require().NoError(s.portfolioRepo.AppendItem(ctx, s.ownerID, portfolio.SectionProjects, itemA))
	s.Require().NoError(s.portfolioRepo.AppendItem(ctx, s.ownerID, portfolio.SectionProjects, itemB))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = s.portfolioRepo.MergeItem(ctx, s.ownerID, portfolio.SectionProjects, idA,
			json.RawMessage(`{"description":"updated A"}`))
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = s.portfolioRepo.MergeItem(ctx, s.ownerID, portfolio.SectionProjects, idB,
			json.RawMessage(`{"description":"updated B"}`))
	}()
	wg.Wait()
	s.NoError(errs[0])
	s.NoError(errs[1])

	doc, err := s.portfolioRepo.Get(ctx)
	s.Require().NoError(err)
	byID := make(map[string]portfolio.Project)
	for _, p := range doc.Projects {
		byID[p.ID] = p
	}
	s.Equal("updated A", byID[idA].Description)
	s.Equal("updated B", byID[idB].Description)
}

func (s *PortfolioRepoIntegrationTestSuite) Test_CustomSectionLifecycle() {
	ctx := context.Background()

	sectionID := portfolio.NewID()
	section, _ := json.Marshal(map[string]any{
		"_id":  sectionID,
		"name": "Publications",
		"fields": []map[string]any{
			{"name": "title", "label": "Title", "type": "text"},
		},
		"entries": []any{},
	})
	s.Require().NoError(s.portfolioRepo.AppendCustomSection(ctx, s.ownerID, section))

	entryID := portfolio.NewID()
	entry, _ := json.Marshal(map[string]any{"_id": entryID, "title": "First"})
	s.Require().NoError(s.portfolioRepo.AppendEntry(ctx, s.ownerID, sectionID, entry))

	merged, err := s.portfolioRepo.MergeEntry(ctx, s.ownerID, sectionID, entryID,
		json.RawMessage(`{"title":"First, revised"}`))
	s.Require().NoError(err)

	var got map[string]any
	s.Require().NoError(json.Unmarshal(merged, &got))
	s.Equal("First, revised", got["title"])
	s.Equal(entryID, got["_id"])

	s.NoError(s.portfolioRepo.RemoveEntry(ctx, s.ownerID, sectionID, entryID))
	s.NoError(s.portfolioRepo.RemoveCustomSection(ctx, s.ownerID, sectionID))

	doc, err := s.portfolioRepo.Get(ctx)
	s.Require().NoError(err)
	for _, cs := range doc.CustomSections {
		s.NotEqual(sectionID, cs.ID)
	}
}

func (s *PortfolioRepoIntegrationTestSuite) Test_MergeEntry_NamesTheMissingResource() {
	ctx := context.Background()

	sectionID := portfolio.NewID()
	section, _ := json.Marshal(map[string]any{
		"_id": sectionID, "name": "Talks", "fields": []any{}, "entries": []any{},
	})
	s.Require().NoError(s.portfolioRepo.AppendCustomSection(ctx, s.ownerID, section))

	// Section present, entry absent: the 404 names the entry.
	missingEntry := portfolio.NewID()
	_, err := s.portfolioRepo.MergeEntry(ctx, s.ownerID, sectionID, missingEntry,
		json.RawMessage(`{"title":"x"}`))
	s.Require().Error(err)
	s.True(errors.Is(err, apperror.ErrNotFound))
	s.Contains(err.Error(), "custom entry")

	// Section absent: the 404 names the section.
	_, err = s.portfolioRepo.MergeEntry(ctx, s.ownerID, portfolio.NewID(), missingEntry,
		json.RawMessage(`{"title":"x"}`))
	s.Require().Error(err)
	s.True(errors.Is(err, apperror.ErrNotFound))
	s.Contains(err.Error(), "custom section")

	s.NoError(s.portfolioRepo.RemoveCustomSection(ctx, s.ownerID, sectionID))
}

func (s *PortfolioRepoIntegrationTestSuite) Test_UserRepo_FindByUsername() {
	ctx := context.Background()

	u, err := s.userRepo.FindByUsername(ctx, "integration-owner")
	s.Require().NoError(err)
	s.Equal(s.ownerID, u.ID)

	_, err = s.userRepo.FindByUsername(ctx, "nobody")
	s.Error(err)
	s.True(errors.Is(err, apperror.ErrNotFound))
}

func (s *PortfolioRepoIntegrationTestSuite) Test_ContactRepo_SaveListMarkRead() {
	ctx := context.Background()

	m := &contact.Message{
		ID:        uuid.New(),
		Name:      "Visitor",
		Email:     "visitor@example.com",
		Message:   "Nice site",
		CreatedAt: time.Now().UTC(),
	}
	s.Require().NoError(s.contactRepo.Save(ctx, m))

	unread, err := s.contactRepo.List(ctx, true, 1, 10)
	s.Require().NoError(err)
	found := false
	for _, got := range unread {
		if got.ID == m.ID {
			found = true
		}
	}
	s.True(found)

	s.Require().NoError(s.contactRepo.MarkRead(ctx, m.ID))

	unread, err = s.contactRepo.List(ctx, true, 1, 10)
	s.Require().NoError(err)
	for _, got := range unread {
		s.NotEqual(m.ID, got.ID)
	}
}

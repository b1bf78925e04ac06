package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/quangtran/folio-api/internal/domain/portfolio"
	"github.com/quangtran/folio-api/pkg/apperror"
	"github.com/quangtran/folio-api/pkg/logger"
)

// postgresPortfolioRepo keeps the whole portfolio in one row of the
// portfolios table, one JSONB column per section. Every array mutation is a
// single statement rewriting only the matching element inside its column, so
// concurrent writes to different elements of the same array both land.
type postgresPortfolioRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresPortfolioRepo(db *pgxpool.Pool, logger logger.Logger) portfolio.Repository {
	return &postgresPortfolioRepo{db: db, logger: logger}
}

var sectionColumns = map[string]string{
	portfolio.SectionHero:           "hero",
	portfolio.SectionAbout:          "about",
	portfolio.SectionContact:        "contact",
	portfolio.SectionSocial:         "social",
	portfolio.SectionTheme:          "theme",
	portfolio.SectionQualifications: "qualifications",
	portfolio.SectionSkills:         "skills",
	portfolio.SectionExperience:     "experience",
	portfolio.SectionProjects:       "projects",
	portfolio.SectionTestimonials:   "testimonials",
}

// column resolves a section name to its column through the whitelist above.
// Section names come from route registration, never raw user input, but the
// repo still refuses anything it does not know before interpolating.
func column(section string) (string, error) {
	col, ok := sectionColumns[section]
	if !ok {
		return "", apperror.NewInvalidInput(fmt.Sprintf("unknown portfolio section '%s'", section), nil)
	}
	return col, nil
}

func (r *postgresPortfolioRepo) Get(ctx context.Context) (*portfolio.Document, error) {
	query := `
		SELECT hero, about, contact, social, theme,
		       qualifications, skills, experience, projects, testimonials,
		       custom_sections, updated_at
		FROM portfolios
		ORDER BY created_at
		LIMIT 1
	`
	var (
		heroB, aboutB, contactB, socialB, themeB        []byte
		qualsB, skillsB, expB, projectsB, testimonialsB []byte
		customB                                         []byte
		updatedAt                                       time.Time
	)

	err := r.db.QueryRow(ctx, query).Scan(
		&heroB, &aboutB, &contactB, &socialB, &themeB,
		&qualsB, &skillsB, &expB, &projectsB, &testimonialsB,
		&customB, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return portfolio.EmptyDocument(), nil
		}
		return nil, apperror.NewStorage("failed to query portfolio", err)
	}

	doc := portfolio.EmptyDocument()
	doc.UpdatedAt = updatedAt
	r.unmarshalColumn("hero", heroB, &doc.Hero)
	r.unmarshalColumn("about", aboutB, &doc.About)
	r.unmarshalColumn("contact", contactB, &doc.Contact)
	r.unmarshalColumn("social", socialB, &doc.Social)
	r.unmarshalColumn("theme", themeB, &doc.Theme)
	r.unmarshalColumn("qualifications", qualsB, &doc.Qualifications)
	r.unmarshalColumn("skills", skillsB, &doc.Skills)
	r.unmarshalColumn("experience", expB, &doc.Experience)
	r.unmarshalColumn("projects", projectsB, &doc.Projects)
	r.unmarshalColumn("testimonials", testimonialsB, &doc.Testimonials)
	r.unmarshalColumn("custom_sections", customB, &doc.CustomSections)
	return doc, nil
}

func (r *postgresPortfolioRepo) unmarshalColumn(col string, raw []byte, dst any) {
	if err := json.Unmarshal(raw, dst); err != nil {
		r.logger.Warn("Failed to unmarshal portfolio column", zap.String("column", col), zap.Error(err))
	}
}

func (r *postgresPortfolioRepo) UpsertSection(ctx context.Context, ownerID uuid.UUID, section string, value json.RawMessage) (json.RawMessage, error) {
	col, err := column(section)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		INSERT INTO portfolios (owner_id, %[1]s, updated_at)
		VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (owner_id) DO UPDATE SET
			%[1]s = EXCLUDED.%[1]s,
			updated_at = NOW()
		RETURNING %[1]s
	`, col)

	var stored []byte
	if err := r.db.QueryRow(ctx, query, ownerID, value).Scan(&stored); err != nil {
		return nil, apperror.NewStorage("failed to upsert portfolio section", err)
	}
	return stored, nil
}

func (r *postgresPortfolioRepo) AppendItem(ctx context.Context, ownerID uuid.UUID, array string, item json.RawMessage) error {
	col, err := column(array)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`
		INSERT INTO portfolios (owner_id, %[1]s, updated_at)
		VALUES ($1, jsonb_build_array($2::jsonb), NOW())
		ON CONFLICT (owner_id) DO UPDATE SET
			%[1]s = portfolios.%[1]s || EXCLUDED.%[1]s,
			updated_at = NOW()
	`, col)

	if _, err := r.db.Exec(ctx, query, ownerID, item); err != nil {
		return apperror.NewStorage("failed to append portfolio item", err)
	}
	return nil
}

func (r *postgresPortfolioRepo) MergeItem(ctx context.Context, ownerID uuid.UUID, array, id string, patch json.RawMessage) (json.RawMessage, error) {
	col, err := column(array)
	if err != nil {
		return nil, err
	}
	// Single statement: merge the patch onto the matching element in place
	// and hand back the stored result. The containment predicate keeps the
	// write a no-op (zero rows) when the document or element is absent.
	query := fmt.Sprintf(`
		WITH updated AS (
			UPDATE portfolios
			SET %[1]s = (
				SELECT jsonb_agg(CASE WHEN elem->>'_id' = $2 THEN elem || $3::jsonb ELSE elem END)
				FROM jsonb_array_elements(%[1]s) AS elem
			),
			updated_at = NOW()
			WHERE owner_id = $1
			  AND %[1]s @> jsonb_build_array(jsonb_build_object('_id', $2::text))
			RETURNING %[1]s AS arr
		)
		SELECT elem
		FROM updated, jsonb_array_elements(updated.arr) AS elem
		WHERE elem->>'_id' = $2
	`, col)

	var stored []byte
	err = r.db.QueryRow(ctx, query, ownerID, id, patch).Scan(&stored)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound(array+" item", id)
		}
		return nil, apperror.NewStorage("failed to update portfolio item", err)
	}
	return stored, nil
}

func (r *postgresPortfolioRepo) RemoveItem(ctx context.Context, ownerID uuid.UUID, array, id string) error {
	col, err := column(array)
	if err != nil {
		return err
	}
	// Pull semantics: filtering out an id that is not there still succeeds.
	query := fmt.Sprintf(`
		UPDATE portfolios
		SET %[1]s = (
			SELECT COALESCE(jsonb_agg(elem), '[]'::jsonb)
			FROM jsonb_array_elements(%[1]s) AS elem
			WHERE elem->>'_id' <> $2
		),
		updated_at = NOW()
		WHERE owner_id = $1
	`, col)

	cmdTag, err := r.db.Exec(ctx, query, ownerID, id)
	if err != nil {
		return apperror.NewStorage("failed to remove portfolio item", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("portfolio", ownerID.String())
	}
	return nil
}

func (r *postgresPortfolioRepo) AppendCustomSection(ctx context.Context, ownerID uuid.UUID, section json.RawMessage) error {
	query := `
		INSERT INTO portfolios (owner_id, custom_sections, updated_at)
		VALUES ($1, jsonb_build_array($2::jsonb), NOW())
		ON CONFLICT (owner_id) DO UPDATE SET
			custom_sections = portfolios.custom_sections || EXCLUDED.custom_sections,
			updated_at = NOW()
	`
	if _, err := r.db.Exec(ctx, query, ownerID, section); err != nil {
		return apperror.NewStorage("failed to append custom section", err)
	}
	return nil
}

// RemoveCustomSection drops the section and, with it, every entry it holds.
func (r *postgresPortfolioRepo) RemoveCustomSection(ctx context.Context, ownerID uuid.UUID, sectionID string) error {
	query := `
		UPDATE portfolios
		SET custom_sections = (
			SELECT COALESCE(jsonb_agg(s), '[]'::jsonb)
			FROM jsonb_array_elements(custom_sections) AS s
			WHERE s->>'_id' <> $2
		),
		updated_at = NOW()
		WHERE owner_id = $1
	`
	cmdTag, err := r.db.Exec(ctx, query, ownerID, sectionID)
	if err != nil {
		return apperror.NewStorage("failed to remove custom section", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("portfolio", ownerID.String())
	}
	return nil
}

func (r *postgresPortfolioRepo) AppendEntry(ctx context.Context, ownerID uuid.UUID, sectionID string, entry json.RawMessage) error {
	query := `
		UPDATE portfolios
		SET custom_sections = (
			SELECT jsonb_agg(CASE WHEN s->>'_id' = $2
				THEN jsonb_set(s, '{entries}', COALESCE(s->'entries', '[]'::jsonb) || jsonb_build_array($3::jsonb))
				ELSE s END)
			FROM jsonb_array_elements(custom_sections) AS s
		),
		updated_at = NOW()
		WHERE owner_id = $1
		  AND custom_sections @> jsonb_build_array(jsonb_build_object('_id', $2::text))
	`
	cmdTag, err := r.db.Exec(ctx, query, ownerID, sectionID, entry)
	if err != nil {
		return apperror.NewStorage("failed to append custom entry", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("custom section", sectionID)
	}
	return nil
}

func (r *postgresPortfolioRepo) MergeEntry(ctx context.Context, ownerID uuid.UUID, sectionID, entryID string, patch json.RawMessage) (json.RawMessage, error) {
	query := `
		WITH updated AS (
			UPDATE portfolios
			SET custom_sections = (
				SELECT jsonb_agg(CASE WHEN s->>'_id' = $2
					THEN jsonb_set(s, '{entries}', (
						SELECT COALESCE(jsonb_agg(CASE WHEN e->>'_id' = $3 THEN e || $4::jsonb ELSE e END), '[]'::jsonb)
						FROM jsonb_array_elements(s->'entries') AS e
					))
					ELSE s END)
				FROM jsonb_array_elements(custom_sections) AS s
			),
			updated_at = NOW()
			WHERE owner_id = $1
			  AND custom_sections @> jsonb_build_array(jsonb_build_object(
					'_id', $2::text,
					'entries', jsonb_build_array(jsonb_build_object('_id', $3::text))))
			RETURNING custom_sections AS arr
		)
		SELECT e
		FROM updated,
		     jsonb_array_elements(updated.arr) AS s,
		     jsonb_array_elements(s->'entries') AS e
		WHERE s->>'_id' = $2 AND e->>'_id' = $3
	`
	var stored []byte
	err := r.db.QueryRow(ctx, query, ownerID, sectionID, entryID, patch).Scan(&stored)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Zero rows covers both a missing section and a missing entry;
			// check the section so the 404 names the right resource.
			if r.customSectionExists(ctx, ownerID, sectionID) {
				return nil, apperror.NewNotFound("custom entry", entryID)
			}
			return nil, apperror.NewNotFound("custom section", sectionID)
		}
		return nil, apperror.NewStorage("failed to update custom entry", err)
	}
	return stored, nil
}

func (r *postgresPortfolioRepo) customSectionExists(ctx context.Context, ownerID uuid.UUID, sectionID string) bool {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM portfolios
			WHERE owner_id = $1
			  AND custom_sections @> jsonb_build_array(jsonb_build_object('_id', $2::text))
		)
	`
	var exists bool
	if err := r.db.QueryRow(ctx, query, ownerID, sectionID).Scan(&exists); err != nil {
		r.logger.Warn("Failed to check custom section existence", zap.String("section_id", sectionID), zap.Error(err))
		return false
	}
	return exists
}

func (r *postgresPortfolioRepo) RemoveEntry(ctx context.Context, ownerID uuid.UUID, sectionID, entryID string) error {
	query := `
		UPDATE portfolios
		SET custom_sections = (
			SELECT jsonb_agg(CASE WHEN s->>'_id' = $2
				THEN jsonb_set(s, '{entries}', (
					SELECT COALESCE(jsonb_agg(e), '[]'::jsonb)
					FROM jsonb_array_elements(s->'entries') AS e
					WHERE e->>'_id' <> $3
				))
				ELSE s END)
			FROM jsonb_array_elements(custom_sections) AS s
		),
		updated_at = NOW()
		WHERE owner_id = $1
		  AND custom_sections @> jsonb_build_array(jsonb_build_object('_id', $2::text))
	`
	cmdTag, err := r.db.Exec(ctx, query, ownerID, sectionID, entryID)
	if err != nil {
		return apperror.NewStorage("failed to remove custom entry", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("custom section", sectionID)
	}
	return nil
}

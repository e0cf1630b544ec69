package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/resume-builder/internal/domain/resume"
	"github.com/khoahotran/resume-builder/pkg/apperror"
)

type postgresResumeRepo struct {
	db *pgxpool.Pool
}

func NewPostgresResumeRepo(db *pgxpool.Pool) resume.Repository {
	return &postgresResumeRepo{db: db}
}

var resumeColumns = []string{
	"id", "owner_id", "full_name", "email", "phone",
	"education", "experience", "skills", "projects", "summary",
	"upload_id", "file_url", "extracted_text", "created_at", "updated_at",
}

func scanResume(row pgx.Row) (*resume.Resume, error) {
	r := &resume.Resume{}
	var educationBytes, experienceBytes, projectsBytes []byte

	err := row.Scan(
		&r.ID,
		&r.OwnerID,
		&r.FullName,
		&r.Email,
		&r.Phone,
		&educationBytes,
		&experienceBytes,
		&r.Skills,
		&projectsBytes,
		&r.Summary,
		&r.UploadID,
		&r.FileURL,
		&r.ExtractedText,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(educationBytes, &r.Education); err != nil {
		return nil, fmt.Errorf("failed to decode resume education: %w", err)
	}
	if err := json.Unmarshal(experienceBytes, &r.Experience); err != nil {
		return nil, fmt.Errorf("failed to decode resume experience: %w", err)
	}
	if err := json.Unmarshal(projectsBytes, &r.Projects); err != nil {
		return nil, fmt.Errorf("failed to decode resume projects: %w", err)
	}
	r.Normalize()
	return r, nil
}

type resumeSections struct {
	education, experience, projects []byte
}

func marshalSections(r *resume.Resume) (resumeSections, error) {
	var (
		s   resumeSections
		err error
	)
	r.Normalize()
	if s.education, err = json.Marshal(r.Education); err != nil {
		return s, fmt.Errorf("failed to marshal education: %w", err)
	}
	if s.experience, err = json.Marshal(r.Experience); err != nil {
		return s, fmt.Errorf("failed to marshal experience: %w", err)
	}
	if s.projects, err = json.Marshal(r.Projects); err != nil {
		return s, fmt.Errorf("failed to marshal projects: %w", err)
	}
	return s, nil
}

func (repo *postgresResumeRepo) Save(ctx context.Context, r *resume.Resume) error {
	s, err := marshalSections(r)
	if err != nil {
		return apperror.NewInternal("failed to encode resume", err)
	}

	query, args, err := psql.Insert("resumes").
		Columns(resumeColumns...).
		Values(
			r.ID, r.OwnerID, r.FullName, r.Email, r.Phone,
			s.education, s.experience, r.Skills, s.projects, r.Summary,
			r.UploadID, r.FileURL, r.ExtractedText, r.CreatedAt, r.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return apperror.NewInternal("failed to build insert", err)
	}

	if _, err := repo.db.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return apperror.NewConflict("Resume", "id", r.ID.String())
		}
		if isForeignKeyViolation(err) {
			return apperror.NewInvalidInput("unknown owner or upload", err)
		}
		return apperror.NewInternal("failed to save resume", err)
	}
	return nil
}

func (repo *postgresResumeRepo) Update(ctx context.Context, r *resume.Resume) error {
	s, err := marshalSections(r)
	if err != nil {
		return apperror.NewInternal("failed to encode resume", err)
	}

	query, args, err := psql.Update("resumes").
		SetMap(map[string]interface{}{
			"full_name":      r.FullName,
			"email":          r.Email,
			"phone":          r.Phone,
			"education":      s.education,
			"experience":     s.experience,
			"skills":         r.Skills,
			"projects":       s.projects,
			"summary":        r.Summary,
			"upload_id":      r.UploadID,
			"file_url":       r.FileURL,
			"extracted_text": r.ExtractedText,
			"updated_at":     r.UpdatedAt,
		}).
		Where(sq.Eq{"id": r.ID, "owner_id": r.OwnerID}).
		ToSql()
	if err != nil {
		return apperror.NewInternal("failed to build update", err)
	}

	cmdTag, err := repo.db.Exec(ctx, query, args...)
	if err != nil {
		return apperror.NewInternal("failed to update resume", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("Resume", r.ID.String())
	}
	return nil
}

func (repo *postgresResumeRepo) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	query := `DELETE FROM resumes WHERE id = $1 AND owner_id = $2`
	cmdTag, err := repo.db.Exec(ctx, query, id, ownerID)
	if err != nil {
		return apperror.NewInternal("failed to delete resume", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("Resume", id.String())
	}
	return nil
}

func (repo *postgresResumeRepo) FindByID(ctx context.Context, id uuid.UUID) (*resume.Resume, error) {
	query, args, _ := psql.Select(resumeColumns...).
		From("resumes").
		Where(sq.Eq{"id": id}).
		ToSql()

	r, err := scanResume(repo.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("Resume", id.String())
		}
		return nil, apperror.NewInternal("failed to load resume", err)
	}
	return r, nil
}

func (repo *postgresResumeRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*resume.Resume, error) {
	query, args, _ := psql.Select(resumeColumns...).
		From("resumes").
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("created_at DESC").
		ToSql()

	rows, err := repo.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query resumes by owner", err)
	}
	defer rows.Close()

	out := make([]*resume.Resume, 0)
	for rows.Next() {
		r, err := scanResume(rows)
		if err != nil {
			return nil, apperror.NewInternal("failed to scan resume row", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating resume rows", err)
	}
	return out, nil
}

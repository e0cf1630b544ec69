package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/resume-builder/internal/domain/upload"
	"github.com/khoahotran/resume-builder/pkg/apperror"
)

type postgresUploadRepo struct {
	db *pgxpool.Pool
}

func NewPostgresUploadRepo(db *pgxpool.Pool) upload.Repository {
	return &postgresUploadRepo{db: db}
}

const uploadColumns = "id, owner_id, file_name, content_type, file_url, extracted_text, created_at"

func scanUpload(row pgx.Row, lookup string) (*upload.ResumeUpload, error) {
	u := &upload.ResumeUpload{}
	err := row.Scan(&u.ID, &u.OwnerID, &u.FileName, &u.ContentType, &u.FileURL, &u.ExtractedText, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("Upload", lookup)
		}
		return nil, apperror.NewInternal("failed to scan upload row", err)
	}
	return u, nil
}

func (r *postgresUploadRepo) Save(ctx context.Context, u *upload.ResumeUpload) error {
	query := `
		INSERT INTO resume_uploads (` + uploadColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query, u.ID, u.OwnerID, u.FileName, u.ContentType, u.FileURL, u.ExtractedText, u.CreatedAt)
	if err != nil {
		return apperror.NewInternal("failed to save upload", err)
	}
	return nil
}

func (r *postgresUploadRepo) FindByID(ctx context.Context, id uuid.UUID) (*upload.ResumeUpload, error) {
	query := `SELECT ` + uploadColumns + ` FROM resume_uploads WHERE id = $1`
	return scanUpload(r.db.QueryRow(ctx, query, id), id.String())
}

func (r *postgresUploadRepo) LatestByOwner(ctx context.Context, ownerID uuid.UUID) (*upload.ResumeUpload, error) {
	query := `
		SELECT ` + uploadColumns + `
		FROM resume_uploads
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	return scanUpload(r.db.QueryRow(ctx, query, ownerID), ownerID.String())
}

func (r *postgresUploadRepo) SaveAnalysis(ctx context.Context, a *upload.Analysis) error {
	query := `
		INSERT INTO upload_analyses (upload_id, owner_id, content, model, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (upload_id) DO UPDATE
		SET content = EXCLUDED.content, model = EXCLUDED.model, created_at = EXCLUDED.created_at
	`
	_, err := r.db.Exec(ctx, query, a.UploadID, a.OwnerID, a.Content, a.Model, a.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperror.NewNotFound("Upload", a.UploadID.String())
		}
		return apperror.NewInternal("failed to save analysis", err)
	}
	return nil
}

func (r *postgresUploadRepo) FindAnalysis(ctx context.Context, uploadID uuid.UUID) (*upload.Analysis, error) {
	query := `
		SELECT upload_id, owner_id, content, model, created_at
		FROM upload_analyses
		WHERE upload_id = $1
	`
	a := &upload.Analysis{}
	err := r.db.QueryRow(ctx, query, uploadID).Scan(&a.UploadID, &a.OwnerID, &a.Content, &a.Model, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("Analysis", uploadID.String())
		}
		return nil, apperror.NewInternal("failed to load analysis", err)
	}
	return a, nil
}

package http

import (
	"github.com/google/uuid"

	"github.com/khoahotran/resume-builder/internal/domain/ats"
	"github.com/khoahotran/resume-builder/internal/domain/resume"
	"github.com/khoahotran/resume-builder/internal/domain/upload"
	"github.com/khoahotran/resume-builder/internal/domain/user"
	"github.com/khoahotran/resume-builder/pkg/apperror"
)

// Auth DTOs

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

// Resume DTOs

// CreateResumeRequest leaves fullName and email unchecked here; the domain
// validation reports which one is missing.
type CreateResumeRequest struct {
	FullName   string              `json:"fullName"`
	Email      string              `json:"email"`
	Phone      string              `json:"phone"`
	Education  []resume.Education  `json:"education"`
	Experience []resume.Experience `json:"experience"`
	Skills     []string            `json:"skills"`
	Projects   []resume.Project    `json:"projects"`
	Summary    string              `json:"summary"`
	UploadID   string              `json:"uploadId"`
}

func (req CreateResumeRequest) uploadID() (*uuid.UUID, error) {
	if req.UploadID == "" {
		return nil, nil
	}
	id, err := uuid.Parse(req.UploadID)
	if err != nil {
		return nil, apperror.NewInvalidInput("Invalid uploadId", err)
	}
	return &id, nil
}

// UpdateResumeRequest only touches the fields present in the body.
type UpdateResumeRequest struct {
	FullName   *string              `json:"fullName"`
	Email      *string              `json:"email"`
	Phone      *string              `json:"phone"`
	Education  *[]resume.Education  `json:"education"`
	Experience *[]resume.Experience `json:"experience"`
	Skills     *[]string            `json:"skills"`
	Projects   *[]resume.Project    `json:"projects"`
	Summary    *string              `json:"summary"`
}

type UploadResponse struct {
	ID            uuid.UUID `json:"id"`
	FileURL       string    `json:"fileUrl"`
	ExtractedText string    `json:"extractedText"`
	ATSScore      ats.Score `json:"atsScore"`
}

func ToUploadResponse(u *upload.ResumeUpload) UploadResponse {
	return UploadResponse{
		ID:            u.ID,
		FileURL:       u.FileURL,
		ExtractedText: u.ExtractedText,
	}
}

type LatestUploadResponse struct {
	Upload   *upload.ResumeUpload `json:"upload"`
	Analysis *upload.Analysis     `json:"analysis"`
}

// AI DTOs

type SummaryRequest struct {
	FullName   string              `json:"fullName" binding:"required"`
	Skills     []string            `json:"skills"`
	Experience []resume.Experience `json:"experience"`
	Projects   []resume.Project    `json:"projects"`
}

type CoverLetterRequest struct {
	FullName    string              `json:"fullName" binding:"required"`
	Skills      []string            `json:"skills"`
	Experience  []resume.Experience `json:"experience"`
	JobTitle    string              `json:"jobTitle" binding:"required"`
	CompanyName string              `json:"companyName" binding:"required"`
}

type ATSScoreRequest struct {
	ResumeText     string `json:"resumeText" binding:"required"`
	JobDescription string `json:"jobDescription" binding:"required"`
}

type AnalyticsRequest struct {
	ResumeText string `json:"resumeText" binding:"required"`
}

type ATSLatestRequest struct {
	JobDescription string `json:"jobDescription" binding:"required"`
}

package resume

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
}

type Experience struct {
	Company     string `json:"company"`
	Role        string `json:"role"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

type Project struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
}

// Resume is a structured, user-authored resume. OwnerID is set once at
// creation and never rewritten. FileURL, ExtractedText and UploadID are only
// populated when the resume was started from an upload.
type Resume struct {
	ID            uuid.UUID    `json:"id"`
	OwnerID       uuid.UUID    `json:"user"`
	FullName      string       `json:"fullName"`
	Email         string       `json:"email"`
	Phone         string       `json:"phone"`
	Education     []Education  `json:"education"`
	Experience    []Experience `json:"experience"`
	Skills        []string     `json:"skills"`
	Projects      []Project    `json:"projects"`
	Summary       string       `json:"summary"`
	UploadID      *uuid.UUID   `json:"uploadId"`
	FileURL       string       `json:"fileUrl"`
	ExtractedText string       `json:"extractedText"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

var (
	ErrFullNameRequired = errors.New("fullName is required")
	ErrEmailRequired    = errors.New("email is required")
	ErrEmailInvalid     = errors.New("email is not a valid address")
)

func (r *Resume) Validate() error {
	if strings.TrimSpace(r.FullName) == "" {
		return ErrFullNameRequired
	}
	if strings.TrimSpace(r.Email) == "" {
		return ErrEmailRequired
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return ErrEmailInvalid
	}
	return nil
}

// Normalize replaces nil sequences with empty ones so stored and returned
// records always carry arrays.
func (r *Resume) Normalize() {
	if r.Education == nil {
		r.Education = []Education{}
	}
	if r.Experience == nil {
		r.Experience = []Experience{}
	}
	if r.Skills == nil {
		r.Skills = []string{}
	}
	if r.Projects == nil {
		r.Projects = []Project{}
	}
}

// OwnedBy is the authorization predicate applied before every read, write
// and delete by id.
func (r *Resume) OwnedBy(ownerID uuid.UUID) bool {
	return r.OwnerID == ownerID
}

type Repository interface {
	Save(ctx context.Context, r *Resume) error
	// Update rewrites every field except OwnerID and CreatedAt.
	Update(ctx context.Context, r *Resume) error
	Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Resume, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Resume, error)
}

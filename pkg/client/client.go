// Package client is a Go client for the resume builder API. Every call takes
// a Session explicitly; the package keeps no global auth state.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/resume-builder/internal/domain/ats"
	"github.com/khoahotran/resume-builder/internal/domain/resume"
	"github.com/khoahotran/resume-builder/internal/domain/upload"
	"github.com/khoahotran/resume-builder/internal/domain/user"
)

// Session is the base URL plus the bearer token of the signed-in user.
// Token is empty until Login or Register returns.
type Session struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func NewSession(baseURL string) *Session {
	return &Session{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// APIError is a non-2xx response.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
}

func (s *Session) httpClient() *http.Client {
	if s.HTTPClient != nil {
		return s.HTTPClient
	}
	return http.DefaultClient
}

func (s *Session) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, s.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	if s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}
	return req, nil
}

func (s *Session) send(req *http.Request, out any) error {
	resp, err := s.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		// a non-JSON error body still yields the status
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}
	if out == nil {
		return nil
	}
	if b, ok := out.(*[]byte); ok {
		*b, err = io.ReadAll(resp.Body)
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

func (s *Session) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := s.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return s.send(req, out)
}

type authResponse struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

// Register creates an account and stores the returned token on the session.
func (s *Session) Register(ctx context.Context, name, email, password string) (*user.User, error) {
	var out authResponse
	in := map[string]string{"name": name, "email": email, "password": password}
	if err := s.doJSON(ctx, http.MethodPost, "/api/auth/register", in, &out); err != nil {
		return nil, err
	}
	s.Token = out.Token
	return out.User, nil
}

func (s *Session) Login(ctx context.Context, email, password string) (*user.User, error) {
	var out authResponse
	in := map[string]string{"email": email, "password": password}
	if err := s.doJSON(ctx, http.MethodPost, "/api/auth/login", in, &out); err != nil {
		return nil, err
	}
	s.Token = out.Token
	return out.User, nil
}

// Logout revokes the token server-side and clears it locally.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.doJSON(ctx, http.MethodPost, "/api/auth/logout", nil, nil); err != nil {
		return err
	}
	s.Token = ""
	return nil
}

func (s *Session) Me(ctx context.Context) (*user.User, error) {
	var out user.User
	if err := s.doJSON(ctx, http.MethodGet, "/api/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResumeInput is the body of create and update calls.
type ResumeInput struct {
	FullName   string              `json:"fullName"`
	Email      string              `json:"email"`
	Phone      string              `json:"phone,omitempty"`
	Education  []resume.Education  `json:"education"`
	Experience []resume.Experience `json:"experience"`
	Skills     []string            `json:"skills"`
	Projects   []resume.Project    `json:"projects"`
	Summary    string              `json:"summary,omitempty"`
	UploadID   string              `json:"uploadId,omitempty"`
}

func (s *Session) CreateResume(ctx context.Context, in ResumeInput) (*resume.Resume, error) {
	var out resume.Resume
	if err := s.doJSON(ctx, http.MethodPost, "/api/resume", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) ListResumes(ctx context.Context) ([]resume.Resume, error) {
	var out []resume.Resume
	if err := s.doJSON(ctx, http.MethodGet, "/api/resume", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Session) GetResume(ctx context.Context, id uuid.UUID) (*resume.Resume, error) {
	var out resume.Resume
	if err := s.doJSON(ctx, http.MethodGet, "/api/resume/"+id.String(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateResume sends every field of in, replacing the stored values.
func (s *Session) UpdateResume(ctx context.Context, id uuid.UUID, in ResumeInput) (*resume.Resume, error) {
	var out resume.Resume
	if err := s.doJSON(ctx, http.MethodPut, "/api/resume/"+id.String(), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) DeleteResume(ctx context.Context, id uuid.UUID) error {
	return s.doJSON(ctx, http.MethodDelete, "/api/resume/"+id.String(), nil, nil)
}

// ExportPDF downloads the server-rendered PDF.
func (s *Session) ExportPDF(ctx context.Context, id uuid.UUID) ([]byte, error) {
	req, err := s.newRequest(ctx, http.MethodGet, "/api/resume/"+id.String()+"/pdf", nil)
	if err != nil {
		return nil, err
	}
	var out []byte
	if err := s.send(req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type UploadResult struct {
	ID            uuid.UUID `json:"id"`
	FileURL       string    `json:"fileUrl"`
	ExtractedText string    `json:"extractedText"`
	ATSScore      ats.Score `json:"atsScore"`
}

func (s *Session) UploadResume(ctx context.Context, fileName string, file io.Reader) (*UploadResult, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("resume", fileName)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(fw, file); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := s.newRequest(ctx, http.MethodPost, "/api/resume/upload", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out UploadResult
	if err := s.send(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type LatestUpload struct {
	Upload   *upload.ResumeUpload `json:"upload"`
	Analysis *upload.Analysis     `json:"analysis"`
}

func (s *Session) LatestUpload(ctx context.Context) (*LatestUpload, error) {
	var out LatestUpload
	if err := s.doJSON(ctx, http.MethodGet, "/api/uploads/latest", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AI calls

type SummaryRequest struct {
	FullName   string              `json:"fullName"`
	Skills     []string            `json:"skills"`
	Experience []resume.Experience `json:"experience"`
	Projects   []resume.Project    `json:"projects"`
}

type CoverLetterRequest struct {
	FullName    string              `json:"fullName"`
	Skills      []string            `json:"skills"`
	Experience  []resume.Experience `json:"experience"`
	JobTitle    string              `json:"jobTitle"`
	CompanyName string              `json:"companyName"`
}

type ATSLatestResult struct {
	Analysis string    `json:"atsAnalysis"`
	Score    ats.Score `json:"atsScore"`
	UploadID uuid.UUID `json:"uploadId"`
}

func (s *Session) aiText(ctx context.Context, path, field string, in any) (string, error) {
	var out map[string]string
	if err := s.doJSON(ctx, http.MethodPost, path, in, &out); err != nil {
		return "", err
	}
	return out[field], nil
}

func (s *Session) Summary(ctx context.Context, in SummaryRequest) (string, error) {
	return s.aiText(ctx, "/api/ai/summary", "summary", in)
}

func (s *Session) CoverLetter(ctx context.Context, in CoverLetterRequest) (string, error) {
	return s.aiText(ctx, "/api/ai/cover-letter", "coverLetter", in)
}

func (s *Session) ATSScore(ctx context.Context, resumeText, jobDescription string) (string, error) {
	in := map[string]string{"resumeText": resumeText, "jobDescription": jobDescription}
	return s.aiText(ctx, "/api/ai/ats-score", "atsAnalysis", in)
}

func (s *Session) Analytics(ctx context.Context, resumeText string) (string, error) {
	return s.aiText(ctx, "/api/ai/analytics", "analytics", map[string]string{"resumeText": resumeText})
}

func (s *Session) ATSScoreLatest(ctx context.Context, jobDescription string) (*ATSLatestResult, error) {
	var out ATSLatestResult
	in := map[string]string{"jobDescription": jobDescription}
	if err := s.doJSON(ctx, http.MethodPost, "/api/ai/ats-score/latest", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

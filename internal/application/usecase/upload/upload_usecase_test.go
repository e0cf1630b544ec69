package upload

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/resume-builder/adapters/persistence/memory"
	"github.com/khoahotran/resume-builder/internal/domain/upload"
	"github.com/khoahotran/resume-builder/pkg/apperror"
	"github.com/khoahotran/resume-builder/pkg/logger"
)

type fakeExtractor struct {
	text string
	err  error
}

func (f fakeExtractor) Extract(_ context.Context, _ string, _ []byte) (string, error) {
	return f.text, f.err
}

func (f fakeExtractor) Supports(ct string) bool {
	return ct == "application/pdf" || ct == "text/plain"
}

func (f fakeExtractor) Detect(data []byte) string {
	if bytes.HasPrefix(data, []byte("%PDF")) {
		return "application/pdf"
	}
	if bytes.HasPrefix(data, []byte("\x89PNG")) {
		return "image/png"
	}
	return "text/plain"
}

type fakeUploader struct {
	mu      sync.Mutex
	stored  map[string][]byte
	err     error
	deleted chan string
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{stored: map[string][]byte{}, deleted: make(chan string, 1)}
}

func (f *fakeUploader) Upload(_ context.Context, file io.Reader, folder, publicID, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	b, _ := io.ReadAll(file)
	f.mu.Lock()
	f.stored[folder+"/"+publicID] = b
	f.mu.Unlock()
	return "https://files.example/" + folder + "/" + publicID, nil
}

func (f *fakeUploader) Delete(_ context.Context, folder, publicID string) error {
	f.deleted <- folder + "/" + publicID
	return nil
}

type fakePublisher struct {
	events chan uuid.UUID
}

func (f *fakePublisher) PublishResumeUploaded(_ context.Context, uploadID, _ uuid.UUID) error {
	f.events <- uploadID
	return nil
}

type failingRepo struct {
	*memory.UploadRepo
}

func (failingRepo) Save(context.Context, *upload.ResumeUpload) error {
	return apperror.NewInternal("db down", errors.New("connection refused"))
}

type fakeGateway struct {
	out    string
	err    error
	prompt string
}

func (g *fakeGateway) Generate(_ context.Context, p string) (string, error) {
	g.prompt = p
	return g.out, g.err
}

func (g *fakeGateway) Model() string { return "fake-model" }

func TestUploadResume_StoresAndPublishes(t *testing.T) {
	repo := memory.NewUploadRepo()
	up := newFakeUploader()
	pub := &fakePublisher{events: make(chan uuid.UUID, 1)}
	uc := NewUploadResumeUseCase(repo, fakeExtractor{text: "Jane Doe\nGo"}, up, pub, "resumes", logger.NewNopLogger())
	owner := uuid.New()

	rec, err := uc.Execute(context.Background(), UploadResumeInput{
		OwnerID:     owner,
		FileName:    "cv.pdf",
		ContentType: "application/pdf",
		Data:        []byte("%PDF-1.4"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe\nGo", rec.ExtractedText)
	assert.Equal(t, "https://files.example/resumes/users/"+owner.String()+"/"+rec.ID.String(), rec.FileURL)

	latest, err := repo.LatestByOwner(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, latest.ID)

	select {
	case id := <-pub.events:
		assert.Equal(t, rec.ID, id)
	case <-time.After(time.Second):
		t.Fatal("resume.uploaded event was not published")
	}
}

func TestUploadResume_NilPublisher(t *testing.T) {
	uc := NewUploadResumeUseCase(memory.NewUploadRepo(), fakeExtractor{text: "x"}, newFakeUploader(), nil, "resumes", logger.NewNopLogger())

	_, err := uc.Execute(context.Background(), UploadResumeInput{OwnerID: uuid.New(), ContentType: "text/plain", Data: []byte("x")})

	assert.NoError(t, err)
}

func TestUploadResume_Rejections(t *testing.T) {
	uc := NewUploadResumeUseCase(memory.NewUploadRepo(), fakeExtractor{text: "x"}, newFakeUploader(), nil, "resumes", logger.NewNopLogger())

	_, err := uc.Execute(context.Background(), UploadResumeInput{OwnerID: uuid.New(), ContentType: "application/pdf"})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	_, err = uc.Execute(context.Background(), UploadResumeInput{OwnerID: uuid.New(), ContentType: "image/png", Data: []byte{1}})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestUploadResume_SniffsMissingContentType(t *testing.T) {
	uc := NewUploadResumeUseCase(memory.NewUploadRepo(), fakeExtractor{text: "x"}, newFakeUploader(), nil, "resumes", logger.NewNopLogger())

	rec, err := uc.Execute(context.Background(), UploadResumeInput{OwnerID: uuid.New(), ContentType: "application/octet-stream", Data: []byte("%PDF-1.4")})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", rec.ContentType)

	_, err = uc.Execute(context.Background(), UploadResumeInput{OwnerID: uuid.New(), Data: []byte("\x89PNG\r\n\x1a\n")})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	assert.Equal(t, "Unsupported file type: image/png", appErr.Message)
}

func TestUploadResume_ExtractionFailureIsGeneric(t *testing.T) {
	repo := memory.NewUploadRepo()
	uc := NewUploadResumeUseCase(repo, fakeExtractor{err: errors.New("malformed xref")}, newFakeUploader(), nil, "resumes", logger.NewNopLogger())
	owner := uuid.New()

	_, err := uc.Execute(context.Background(), UploadResumeInput{OwnerID: owner, ContentType: "application/pdf", Data: []byte("junk")})

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Error processing resume", appErr.Message)
	assert.ErrorIs(t, err, apperror.ErrInternal)

	_, err = repo.LatestByOwner(context.Background(), owner)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUploadResume_SaveFailureRemovesStoredFile(t *testing.T) {
	up := newFakeUploader()
	uc := NewUploadResumeUseCase(failingRepo{memory.NewUploadRepo()}, fakeExtractor{text: "x"}, up, nil, "resumes", logger.NewNopLogger())

	_, err := uc.Execute(context.Background(), UploadResumeInput{OwnerID: uuid.New(), ContentType: "text/plain", Data: []byte("x")})
	require.Error(t, err)

	select {
	case key := <-up.deleted:
		assert.Contains(t, key, "resumes/users/")
	case <-time.After(time.Second):
		t.Fatal("orphaned file was not deleted")
	}
}

func TestBaseMediaType(t *testing.T) {
	assert.Equal(t, "text/plain", baseMediaType("Text/Plain; charset=utf-8"))
	assert.Equal(t, "", baseMediaType("application/octet-stream"))
	assert.Equal(t, "application/pdf", baseMediaType("application/pdf"))
}

func TestGetLatestUpload(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewUploadRepo()
	owner := uuid.New()
	uc := NewGetLatestUploadUseCase(repo)

	_, err := uc.Execute(ctx, owner)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "No resume found for this user", appErr.Message)

	rec := &upload.ResumeUpload{ID: uuid.New(), OwnerID: owner, ExtractedText: "t", CreatedAt: time.Now()}
	require.NoError(t, repo.Save(ctx, rec))

	out, err := uc.Execute(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, out.Upload.ID)
	assert.Nil(t, out.Analysis)

	require.NoError(t, repo.SaveAnalysis(ctx, &upload.Analysis{UploadID: rec.ID, OwnerID: owner, Content: "## Strengths"}))
	out, err = uc.Execute(ctx, owner)
	require.NoError(t, err)
	require.NotNil(t, out.Analysis)
	assert.Equal(t, "## Strengths", out.Analysis.Content)
}

func TestAnalyzeUpload(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewUploadRepo()
	owner := uuid.New()
	rec := &upload.ResumeUpload{ID: uuid.New(), OwnerID: owner, ExtractedText: "Jane Doe, Go", CreatedAt: time.Now()}
	require.NoError(t, repo.Save(ctx, rec))
	gw := &fakeGateway{out: "- Strength: Go"}
	uc := NewAnalyzeUploadUseCase(repo, gw, logger.NewNopLogger())

	a, err := uc.Execute(ctx, AnalyzeUploadInput{UploadID: rec.ID, OwnerID: owner})
	require.NoError(t, err)

	assert.Equal(t, "- Strength: Go", a.Content)
	assert.Equal(t, "fake-model", a.Model)
	assert.Contains(t, gw.prompt, "Jane Doe, Go")

	stored, err := repo.FindAnalysis(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, a.Content, stored.Content)
}

func TestAnalyzeUpload_Failures(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewUploadRepo()
	owner := uuid.New()
	rec := &upload.ResumeUpload{ID: uuid.New(), OwnerID: owner, CreatedAt: time.Now()}
	require.NoError(t, repo.Save(ctx, rec))

	uc := NewAnalyzeUploadUseCase(repo, &fakeGateway{err: errors.New("quota exceeded")}, logger.NewNopLogger())
	_, err := uc.Execute(ctx, AnalyzeUploadInput{UploadID: rec.ID, OwnerID: owner})
	assert.Error(t, err)

	uc = NewAnalyzeUploadUseCase(repo, &fakeGateway{out: "x"}, logger.NewNopLogger())
	_, err = uc.Execute(ctx, AnalyzeUploadInput{UploadID: rec.ID, OwnerID: uuid.New()})
	assert.ErrorIs(t, err, apperror.ErrPermission)

	_, err = repo.FindAnalysis(ctx, rec.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

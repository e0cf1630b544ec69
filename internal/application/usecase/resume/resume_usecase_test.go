package resume

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/khoahotran/resume-builder/adapters/persistence/memory"
	"github.com/khoahotran/resume-builder/internal/domain/resume"
	"github.com/khoahotran/resume-builder/internal/domain/upload"
	"github.com/khoahotran/resume-builder/pkg/apperror"
	"github.com/khoahotran/resume-builder/pkg/logger"
)

type stubRenderer struct {
	err error
}

func (s stubRenderer) RenderPDF(w io.Writer, r *resume.Resume) error {
	if s.err != nil {
		return s.err
	}
	_, err := io.WriteString(w, "%PDF-1.3 "+r.FullName)
	return err
}

type ResumeUseCaseSuite struct {
	suite.Suite
	ctx     context.Context
	resumes *memory.ResumeRepo
	uploads *memory.UploadRepo
	owner   uuid.UUID
	other   uuid.UUID

	create *CreateResumeUseCase
	get    *GetResumeUseCase
	list   *ListResumesUseCase
	update *UpdateResumeUseCase
	delete *DeleteResumeUseCase
	export *ExportResumeUseCase
}

func (s *ResumeUseCaseSuite) SetupTest() {
	s.ctx = context.Background()
	s.resumes = memory.NewResumeRepo()
	s.uploads = memory.NewUploadRepo()
	s.owner = uuid.New()
	s.other = uuid.New()

	log := logger.NewNopLogger()
	s.create = NewCreateResumeUseCase(s.resumes, s.uploads, log)
	s.get = NewGetResumeUseCase(s.resumes)
	s.list = NewListResumesUseCase(s.resumes)
	s.update = NewUpdateResumeUseCase(s.resumes)
	s.delete = NewDeleteResumeUseCase(s.resumes)
	s.export = NewExportResumeUseCase(s.resumes, stubRenderer{})
}

func TestResumeUseCases(t *testing.T) {
	suite.Run(t, new(ResumeUseCaseSuite))
}

func (s *ResumeUseCaseSuite) createJane() *resume.Resume {
	r, err := s.create.Execute(s.ctx, CreateResumeInput{
		OwnerID:    s.owner,
		FullName:   "Jane Doe",
		Email:      "jane@x.com",
		Skills:     []string{"Go", "SQL"},
		Experience: []resume.Experience{{Company: "Acme", Role: "Engineer", Duration: "2y"}},
		Education:  []resume.Education{{Degree: "BSc", Institution: "MIT", Year: "2020"}},
	})
	s.Require().NoError(err)
	return r
}

func (s *ResumeUseCaseSuite) Test_Create_Then_Get_RoundTrips() {
	created := s.createJane()

	got, err := s.get.Execute(s.ctx, GetResumeInput{ResumeID: created.ID, OwnerID: s.owner})
	s.Require().NoError(err)

	s.Equal(created.ID, got.ID)
	s.Equal("Jane Doe", got.FullName)
	s.Equal("jane@x.com", got.Email)
	s.Equal([]string{"Go", "SQL"}, got.Skills)
	s.Equal(created.Experience, got.Experience)
	s.Equal(created.Education, got.Education)
	s.Equal(s.owner, got.OwnerID)
	s.False(got.CreatedAt.IsZero())
	s.Equal([]resume.Project{}, got.Projects)
}

func (s *ResumeUseCaseSuite) Test_Create_RequiresNameAndEmail() {
	_, err := s.create.Execute(s.ctx, CreateResumeInput{OwnerID: s.owner, Email: "jane@x.com"})
	s.ErrorIs(err, apperror.ErrInvalidInput)

	_, err = s.create.Execute(s.ctx, CreateResumeInput{OwnerID: s.owner, FullName: "Jane"})
	s.ErrorIs(err, apperror.ErrInvalidInput)
	s.Equal(0, s.resumes.Len())
}

func (s *ResumeUseCaseSuite) Test_Create_LinksOwnUpload() {
	up := &upload.ResumeUpload{ID: uuid.New(), OwnerID: s.owner, FileURL: "https://cdn/x.pdf", ExtractedText: "Jane Doe Go", CreatedAt: time.Now()}
	s.Require().NoError(s.uploads.Save(s.ctx, up))

	r, err := s.create.Execute(s.ctx, CreateResumeInput{OwnerID: s.owner, FullName: "Jane", Email: "jane@x.com", UploadID: &up.ID})
	s.Require().NoError(err)

	s.Equal(up.ID, *r.UploadID)
	s.Equal("https://cdn/x.pdf", r.FileURL)
	s.Equal("Jane Doe Go", r.ExtractedText)
}

func (s *ResumeUseCaseSuite) Test_Create_RejectsForeignUpload() {
	up := &upload.ResumeUpload{ID: uuid.New(), OwnerID: s.other, CreatedAt: time.Now()}
	s.Require().NoError(s.uploads.Save(s.ctx, up))

	_, err := s.create.Execute(s.ctx, CreateResumeInput{OwnerID: s.owner, FullName: "Jane", Email: "jane@x.com", UploadID: &up.ID})

	s.ErrorIs(err, apperror.ErrNotFound)
	s.Equal(0, s.resumes.Len())
}

func (s *ResumeUseCaseSuite) Test_List_OnlyOwn() {
	s.createJane()
	_, err := s.create.Execute(s.ctx, CreateResumeInput{OwnerID: s.other, FullName: "Bob", Email: "bob@x.com"})
	s.Require().NoError(err)

	mine, err := s.list.Execute(s.ctx, s.owner)
	s.Require().NoError(err)
	s.Len(mine, 1)
	s.Equal("Jane Doe", mine[0].FullName)
}

func (s *ResumeUseCaseSuite) Test_Update_PartialReplace() {
	created := s.createJane()
	summary := "Seasoned engineer."
	skills := []string{"Rust"}

	updated, err := s.update.Execute(s.ctx, UpdateResumeInput{
		ResumeID: created.ID,
		OwnerID:  s.owner,
		Summary:  &summary,
		Skills:   &skills,
	})
	s.Require().NoError(err)

	s.Equal("Jane Doe", updated.FullName)
	s.Equal("Seasoned engineer.", updated.Summary)
	s.Equal([]string{"Rust"}, updated.Skills)
	s.Equal(created.Experience, updated.Experience)

	got, err := s.get.Execute(s.ctx, GetResumeInput{ResumeID: created.ID, OwnerID: s.owner})
	s.Require().NoError(err)
	s.Equal([]string{"Rust"}, got.Skills)
}

func (s *ResumeUseCaseSuite) Test_Update_RejectsBlankName() {
	created := s.createJane()
	blank := ""

	_, err := s.update.Execute(s.ctx, UpdateResumeInput{ResumeID: created.ID, OwnerID: s.owner, FullName: &blank})

	s.ErrorIs(err, apperror.ErrInvalidInput)
}

func (s *ResumeUseCaseSuite) Test_CrossUserAccess_IsNotFound() {
	created := s.createJane()
	name := "Mallory"

	_, err := s.get.Execute(s.ctx, GetResumeInput{ResumeID: created.ID, OwnerID: s.other})
	s.ErrorIs(err, apperror.ErrNotFound)

	_, err = s.update.Execute(s.ctx, UpdateResumeInput{ResumeID: created.ID, OwnerID: s.other, FullName: &name})
	s.ErrorIs(err, apperror.ErrNotFound)

	err = s.delete.Execute(s.ctx, DeleteResumeInput{ResumeID: created.ID, OwnerID: s.other})
	s.ErrorIs(err, apperror.ErrNotFound)

	_, err = s.export.Execute(s.ctx, GetResumeInput{ResumeID: created.ID, OwnerID: s.other})
	s.ErrorIs(err, apperror.ErrNotFound)

	got, err := s.get.Execute(s.ctx, GetResumeInput{ResumeID: created.ID, OwnerID: s.owner})
	s.Require().NoError(err)
	s.Equal("Jane Doe", got.FullName)
}

func (s *ResumeUseCaseSuite) Test_Delete_ThenGet_IsNotFound() {
	created := s.createJane()

	s.Require().NoError(s.delete.Execute(s.ctx, DeleteResumeInput{ResumeID: created.ID, OwnerID: s.owner}))

	_, err := s.get.Execute(s.ctx, GetResumeInput{ResumeID: created.ID, OwnerID: s.owner})
	s.ErrorIs(err, apperror.ErrNotFound)
}

func (s *ResumeUseCaseSuite) Test_Delete_Missing_LeavesStoreUntouched() {
	s.createJane()

	err := s.delete.Execute(s.ctx, DeleteResumeInput{ResumeID: uuid.New(), OwnerID: s.owner})

	s.ErrorIs(err, apperror.ErrNotFound)
	s.Equal(1, s.resumes.Len())
}

func (s *ResumeUseCaseSuite) Test_Export() {
	created := s.createJane()

	out, err := s.export.Execute(s.ctx, GetResumeInput{ResumeID: created.ID, OwnerID: s.owner})
	s.Require().NoError(err)

	s.Equal("Jane_Doe_Resume.pdf", out.FileName)
	s.Contains(string(out.PDF), "Jane Doe")
}

func (s *ResumeUseCaseSuite) Test_Export_RendererFailure() {
	created := s.createJane()
	uc := NewExportResumeUseCase(s.resumes, stubRenderer{err: errors.New("font missing")})

	_, err := uc.Execute(s.ctx, GetResumeInput{ResumeID: created.ID, OwnerID: s.owner})

	s.ErrorIs(err, apperror.ErrInternal)
}

func TestExportFileName(t *testing.T) {
	cases := map[string]string{
		"Jane Doe":        "Jane_Doe_Resume.pdf",
		"  Jane   Q Doe ": "Jane_Q_Doe_Resume.pdf",
		"":                "My_Resume.pdf",
	}
	for in, want := range cases {
		if got := ExportFileName(in); got != want {
			t.Errorf("ExportFileName(%q) = %q, want %q", in, got, want)
		}
	}
}

package http

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	resumeUC "github.com/khoahotran/resume-builder/internal/application/usecase/resume"
	uploadUC "github.com/khoahotran/resume-builder/internal/application/usecase/upload"
	"github.com/khoahotran/resume-builder/pkg/apperror"
	"github.com/khoahotran/resume-builder/pkg/metrics"
)

// multipart field carrying the resume file
const uploadFormField = "resume"

type ResumeHandler struct {
	createResumeUseCase *resumeUC.CreateResumeUseCase
	getResumeUseCase    *resumeUC.GetResumeUseCase
	listResumesUseCase  *resumeUC.ListResumesUseCase
	updateResumeUseCase *resumeUC.UpdateResumeUseCase
	deleteResumeUseCase *resumeUC.DeleteResumeUseCase
	exportResumeUseCase *resumeUC.ExportResumeUseCase
	uploadResumeUseCase *uploadUC.UploadResumeUseCase

	maxUploadBytes int64
	metrics        *metrics.Collector
}

type ResumeHandlerDeps struct {
	Create *resumeUC.CreateResumeUseCase
	Get    *resumeUC.GetResumeUseCase
	List   *resumeUC.ListResumesUseCase
	Update *resumeUC.UpdateResumeUseCase
	Delete *resumeUC.DeleteResumeUseCase
	Export *resumeUC.ExportResumeUseCase
	Upload *uploadUC.UploadResumeUseCase

	MaxUploadBytes int64
	// Metrics may be nil.
	Metrics *metrics.Collector
}

func NewResumeHandler(d ResumeHandlerDeps) *ResumeHandler {
	return &ResumeHandler{
		createResumeUseCase: d.Create,
		getResumeUseCase:    d.Get,
		listResumesUseCase:  d.List,
		updateResumeUseCase: d.Update,
		deleteResumeUseCase: d.Delete,
		exportResumeUseCase: d.Export,
		uploadResumeUseCase: d.Upload,
		maxUploadBytes:      d.MaxUploadBytes,
		metrics:             d.Metrics,
	}
}

func parseResumeID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("Invalid resume id", err))
		return uuid.Nil, false
	}
	return id, true
}

func (h *ResumeHandler) CreateResume(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(unauthorized("owner information not found", ""))
		return
	}

	var req CreateResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid input", err))
		return
	}
	uploadID, err := req.uploadID()
	if err != nil {
		c.Error(err)
		return
	}

	r, err := h.createResumeUseCase.Execute(c.Request.Context(), resumeUC.CreateResumeInput{
		OwnerID:    ownerID,
		FullName:   req.FullName,
		Email:      req.Email,
		Phone:      req.Phone,
		Education:  req.Education,
		Experience: req.Experience,
		Skills:     req.Skills,
		Projects:   req.Projects,
		Summary:    req.Summary,
		UploadID:   uploadID,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

func (h *ResumeHandler) ListResumes(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(unauthorized("owner information not found", ""))
		return
	}

	list, err := h.listResumesUseCase.Execute(c.Request.Context(), ownerID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *ResumeHandler) GetResume(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(unauthorized("owner information not found", ""))
		return
	}
	id, ok := parseResumeID(c)
	if !ok {
		return
	}

	r, err := h.getResumeUseCase.Execute(c.Request.Context(), resumeUC.GetResumeInput{ResumeID: id, OwnerID: ownerID})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *ResumeHandler) UpdateResume(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(unauthorized("owner information not found", ""))
		return
	}
	id, ok := parseResumeID(c)
	if !ok {
		return
	}

	var req UpdateResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid input", err))
		return
	}

	r, err := h.updateResumeUseCase.Execute(c.Request.Context(), resumeUC.UpdateResumeInput{
		ResumeID:   id,
		OwnerID:    ownerID,
		FullName:   req.FullName,
		Email:      req.Email,
		Phone:      req.Phone,
		Education:  req.Education,
		Experience: req.Experience,
		Skills:     req.Skills,
		Projects:   req.Projects,
		Summary:    req.Summary,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *ResumeHandler) DeleteResume(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(unauthorized("owner information not found", ""))
		return
	}
	id, ok := parseResumeID(c)
	if !ok {
		return
	}

	if err := h.deleteResumeUseCase.Execute(c.Request.Context(), resumeUC.DeleteResumeInput{ResumeID: id, OwnerID: ownerID}); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Resume deleted successfully"})
}

func (h *ResumeHandler) ExportPDF(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(unauthorized("owner information not found", ""))
		return
	}
	id, ok := parseResumeID(c)
	if !ok {
		return
	}

	out, err := h.exportResumeUseCase.Execute(c.Request.Context(), resumeUC.GetResumeInput{ResumeID: id, OwnerID: ownerID})
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": out.FileName}))
	c.Data(http.StatusOK, "application/pdf", out.PDF)
}

func (h *ResumeHandler) UploadResume(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(unauthorized("owner information not found", ""))
		return
	}

	// leave room for the multipart envelope around the file
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+1<<20)

	fileHeader, err := c.FormFile(uploadFormField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.Error(h.fileTooLarge())
			return
		}
		c.Error(apperror.NewInvalidInput("No file uploaded", err))
		return
	}
	if fileHeader.Size > h.maxUploadBytes {
		c.Error(h.fileTooLarge())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.NewInternal("file cannot open", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
	if err != nil {
		c.Error(apperror.NewInternal("file cannot be read", err))
		return
	}
	if int64(len(data)) > h.maxUploadBytes {
		c.Error(h.fileTooLarge())
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	rec, err := h.uploadResumeUseCase.Execute(c.Request.Context(), uploadUC.UploadResumeInput{
		OwnerID:     ownerID,
		FileName:    fileHeader.Filename,
		ContentType: contentType,
		Data:        data,
	})
	if err != nil {
		h.recordUpload(contentType, metrics.OutcomeFailure)
		c.Error(err)
		return
	}
	h.recordUpload(rec.ContentType, metrics.OutcomeSuccess)

	c.JSON(http.StatusOK, ToUploadResponse(rec))
}

func (h *ResumeHandler) fileTooLarge() error {
	return apperror.NewInvalidInput(fmt.Sprintf("File exceeds the %d MB limit", h.maxUploadBytes>>20), nil)
}

func (h *ResumeHandler) recordUpload(contentType, outcome string) {
	if h.metrics == nil {
		return
	}
	if contentType == "" {
		contentType = "unknown"
	}
	h.metrics.RecordUpload(contentType, outcome)
}

package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/resume-builder/internal/application/service"
	aiUC "github.com/khoahotran/resume-builder/internal/application/usecase/ai"
	"github.com/khoahotran/resume-builder/pkg/apperror"
)

type AIHandler struct {
	aiUseCase *aiUC.AIUseCase
	markdown  service.MarkdownRenderer
}

// NewAIHandler takes an optional markdown renderer; without one ?format=html
// is ignored.
func NewAIHandler(uc *aiUC.AIUseCase, md service.MarkdownRenderer) *AIHandler {
	return &AIHandler{aiUseCase: uc, markdown: md}
}

func (h *AIHandler) Summary(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(unauthorized("owner information not found", ""))
		return
	}
	var req SummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid input", err))
		return
	}

	text, err := h.aiUseCase.Summary(c.Request.Context(), aiUC.SummaryInput{
		OwnerID:    ownerID,
		FullName:   req.FullName,
		Skills:     req.Skills,
		Experience: req.Experience,
		Projects:   req.Projects,
	})
	if err != nil {
		c.Error(err)
		return
	}
	h.respond(c, gin.H{"summary": text}, text)
}

func (h *AIHandler) CoverLetter(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(unauthorized("owner information not found", ""))
		return
	}
	var req CoverLetterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid input", err))
		return
	}

	text, err := h.aiUseCase.CoverLetter(c.Request.Context(), aiUC.CoverLetterInput{
		OwnerID:     ownerID,
		FullName:    req.FullName,
		Skills:      req.Skills,
		Experience:  req.Experience,
		JobTitle:    req.JobTitle,
		CompanyName: req.CompanyName,
	})
	if err != nil {
		c.Error(err)
		return
	}
	h.respond(c, gin.H{"coverLetter": text}, text)
}

func (h *AIHandler) ATSScore(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(unauthorized("owner information not found", ""))
		return
	}
	var req ATSScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid input", err))
		return
	}

	text, err := h.aiUseCase.ATSScore(c.Request.Context(), aiUC.ATSInput{
		OwnerID:        ownerID,
		ResumeText:     req.ResumeText,
		JobDescription: req.JobDescription,
	})
	if err != nil {
		c.Error(err)
		return
	}
	h.respond(c, gin.H{"atsAnalysis": text}, text)
}

func (h *AIHandler) Analytics(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(unauthorized("owner information not found", ""))
		return
	}
	var req AnalyticsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid input", err))
		return
	}

	text, err := h.aiUseCase.Analytics(c.Request.Context(), ownerID, req.ResumeText)
	if err != nil {
		c.Error(err)
		return
	}
	h.respond(c, gin.H{"analytics": text}, text)
}

func (h *AIHandler) ATSScoreLatest(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(unauthorized("owner information not found", ""))
		return
	}
	var req ATSLatestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid input", err))
		return
	}

	out, err := h.aiUseCase.ATSAgainstLatest(c.Request.Context(), aiUC.ATSInput{
		OwnerID:        ownerID,
		JobDescription: req.JobDescription,
	})
	if err != nil {
		c.Error(err)
		return
	}
	h.respond(c, gin.H{
		"atsAnalysis": out.Analysis,
		"atsScore":    out.Score,
		"uploadId":    out.UploadID,
	}, out.Analysis)
}

func (h *AIHandler) respond(c *gin.Context, body gin.H, text string) {
	if c.Query("format") == "html" && h.markdown != nil {
		html, err := h.markdown.ToSafeHTML(text)
		if err != nil {
			c.Error(apperror.NewInternal("markdown rendering failed", err))
			return
		}
		body["html"] = html
	}
	c.JSON(http.StatusOK, body)
}

package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	uploadUC "github.com/khoahotran/resume-builder/internal/application/usecase/upload"
)

type UploadHandler struct {
	latestUploadUseCase *uploadUC.GetLatestUploadUseCase
}

func NewUploadHandler(latestUC *uploadUC.GetLatestUploadUseCase) *UploadHandler {
	return &UploadHandler{latestUploadUseCase: latestUC}
}

func (h *UploadHandler) Latest(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(unauthorized("owner information not found", ""))
		return
	}

	out, err := h.latestUploadUseCase.Execute(c.Request.Context(), ownerID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, LatestUploadResponse{Upload: out.Upload, Analysis: out.Analysis})
}

package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/risk-copilot/internal/core/domain"
	"github.com/custodia-labs/risk-copilot/internal/core/ports/driving"
	"github.com/custodia-labs/risk-copilot/internal/core/services"
)

// Client-facing messages for upload rejections.
const (
	msgUnsupportedMedia = "Only PDF files are supported."
	msgNoText           = "Could not extract text from PDF."
)

type handlers struct {
	copilot driving.CopilotService
	upload  driving.UploadService
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handlers) stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.copilot.Stats(c.Request.Context()))
}

func (h *handlers) rebuild(c *gin.Context) {
	result, err := h.copilot.Rebuild(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *handlers) ask(c *gin.Context) {
	question := c.Query("question")
	if strings.TrimSpace(question) == "" {
		detail(c, http.StatusBadRequest, "question is required")
		return
	}

	answer, err := h.copilot.Ask(c.Request.Context(), question)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, answer)
}

func (h *handlers) uploadPDF(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		detail(c, http.StatusBadRequest, "file is required")
		return
	}
	if !services.IsPDFContentType(header.Header.Get("Content-Type")) {
		detail(c, http.StatusBadRequest, msgUnsupportedMedia)
		return
	}

	f, err := header.Open()
	if err != nil {
		fail(c, err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		fail(c, err)
		return
	}

	result, err := h.upload.UploadPDF(c.Request.Context(), header.Filename, data)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// fail maps service errors onto status codes.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNoExtractableText):
		detail(c, http.StatusBadRequest, msgNoText)
	case errors.Is(err, domain.ErrUnsupportedMedia):
		detail(c, http.StatusBadRequest, msgUnsupportedMedia)
	case errors.Is(err, domain.ErrInvalidInput):
		detail(c, http.StatusBadRequest, err.Error())
	default:
		detail(c, http.StatusInternalServerError, err.Error())
	}
}

func detail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": msg})
}

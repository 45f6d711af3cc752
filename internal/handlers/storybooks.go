package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/papercrane/storybook/internal/models"
	"github.com/papercrane/storybook/internal/services"
)

// StorybookCreator runs one full generation pipeline.
type StorybookCreator interface {
	Create(ctx context.Context, prompt string) (*models.Storybook, error)
}

// Handler contains all HTTP handlers
type Handler struct {
	storybooks StorybookCreator
}

// NewHandler creates a new handler
func NewHandler(storybooks StorybookCreator) *Handler {
	return &Handler{storybooks: storybooks}
}

// CreateStorybook handles POST /v1/storybooks. The response carries story
// paragraphs plus base64 image and PDF so the page can show one and offer
// the other as a download without any server-side state.
func (h *Handler) CreateStorybook(w http.ResponseWriter, r *http.Request) {
	var req models.CreateStorybookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sb, err := h.storybooks.Create(r.Context(), req.Prompt)
	if err != nil {
		h.writePipelineError(w, err)
		return
	}

	resp := models.StorybookResponse{
		ID:          sb.ID,
		Prompt:      sb.Prompt,
		Paragraphs:  sb.Story.Paragraphs,
		PDFB64:      base64.StdEncoding.EncodeToString(sb.Document.Bytes),
		PDFFilename: sb.Document.Filename,
		CreatedAt:   sb.Document.CreatedAt,
	}
	if sb.Image != nil {
		resp.ImageB64 = base64.StdEncoding.EncodeToString(sb.Image.Data)
		resp.ImageMimeType = sb.Image.MimeType
	}
	writeJSON(w, http.StatusOK, resp)
}

// DownloadStorybookPDF handles POST /v1/storybooks/pdf: the same pipeline,
// but the body of the response is the PDF itself.
func (h *Handler) DownloadStorybookPDF(w http.ResponseWriter, r *http.Request) {
	var req models.CreateStorybookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sb, err := h.storybooks.Create(r.Context(), req.Prompt)
	if err != nil {
		h.writePipelineError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+sb.Document.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(sb.Document.Bytes)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(sb.Document.Bytes); err != nil {
		log.Error().Err(err).Msg("Failed to write PDF response")
	}
}

// Healthz handles GET /healthz
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writePipelineError maps pipeline failures to status codes: bad input is
// 400, upstream API failures are 502 with the remote message passed
// through, local render failures are 500.
func (h *Handler) writePipelineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrEmptyPrompt):
		writeJSONError(w, http.StatusBadRequest, "prompt is required")
	case errors.Is(err, services.ErrStoryGeneration), errors.Is(err, services.ErrImageGeneration):
		writeJSONError(w, http.StatusBadGateway, err.Error())
	default:
		log.Error().Err(err).Msg("Storybook pipeline failed")
		writeJSONError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

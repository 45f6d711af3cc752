package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/papercrane/storybook/internal/models"
	"github.com/papercrane/storybook/internal/services"
)

// fakeCreator is a minimal StorybookCreator for tests.
type fakeCreator struct {
	create func(context.Context, string) (*models.Storybook, error)
}

func (f *fakeCreator) Create(ctx context.Context, prompt string) (*models.Storybook, error) {
	if f.create != nil {
		return f.create(ctx, prompt)
	}
	return sampleStorybook(prompt), nil
}

func sampleStorybook(prompt string) *models.Storybook {
	id := uuid.New()
	return &models.Storybook{
		ID:     id,
		Prompt: prompt,
		Story: &models.Story{
			Text:       "One.\n\nTwo.\n\nThree.",
			Paragraphs: []string{"One.", "Two.", "Three."},
		},
		Image: &models.Image{Data: []byte("fake-png"), MimeType: "image/png"},
		Document: &models.Document{
			ID:        id,
			Filename:  "AI_Story_20250704_1230.pdf",
			Bytes:     []byte("%PDF-1.3 fake"),
			CreatedAt: time.Date(2025, time.July, 4, 12, 30, 0, 0, time.UTC),
		},
	}
}

func postJSON(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/storybooks", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestCreateStorybook_OK(t *testing.T) {
	h := NewHandler(&fakeCreator{})

	rec := postJSON(t, h.CreateStorybook, `{"prompt":"a lighthouse keeper"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp models.StorybookResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Paragraphs) != 3 {
		t.Errorf("expected 3 paragraphs, got %d", len(resp.Paragraphs))
	}
	pdfBytes, err := base64.StdEncoding.DecodeString(resp.PDFB64)
	if err != nil {
		t.Fatalf("pdf_b64 is not valid base64: %v", err)
	}
	if string(pdfBytes) != "%PDF-1.3 fake" {
		t.Error("pdf bytes do not round-trip")
	}
	if resp.ImageMimeType != "image/png" {
		t.Errorf("unexpected image mime type: %q", resp.ImageMimeType)
	}
	if resp.PDFFilename != "AI_Story_20250704_1230.pdf" {
		t.Errorf("unexpected filename: %q", resp.PDFFilename)
	}
}

func TestCreateStorybook_InvalidBody(t *testing.T) {
	h := NewHandler(&fakeCreator{})

	rec := postJSON(t, h.CreateStorybook, `{invalid json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestCreateStorybook_EmptyPrompt(t *testing.T) {
	h := NewHandler(&fakeCreator{
		create: func(context.Context, string) (*models.Storybook, error) {
			return nil, services.ErrEmptyPrompt
		},
	})

	rec := postJSON(t, h.CreateStorybook, `{"prompt":"  "}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateStorybook_UpstreamFailuresAre502(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "story API", err: fmt.Errorf("%w: Incorrect API key provided", services.ErrStoryGeneration)},
		{name: "image API", err: fmt.Errorf("%w: Rate limit exceeded", services.ErrImageGeneration)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHandler(&fakeCreator{
				create: func(context.Context, string) (*models.Storybook, error) {
					return nil, tc.err
				},
			})

			rec := postJSON(t, h.CreateStorybook, `{"prompt":"x"}`)
			if rec.Code != http.StatusBadGateway {
				t.Fatalf("expected 502, got %d", rec.Code)
			}
			// The remote message reaches the user unchanged.
			if !strings.Contains(rec.Body.String(), strings.SplitN(tc.err.Error(), ": ", 2)[1]) {
				t.Errorf("remote message missing from body: %s", rec.Body.String())
			}
		})
	}
}

func TestCreateStorybook_RenderFailureIs500(t *testing.T) {
	h := NewHandler(&fakeCreator{
		create: func(context.Context, string) (*models.Storybook, error) {
			return nil, fmt.Errorf("%w: font asset unavailable", services.ErrRender)
		},
	})

	rec := postJSON(t, h.CreateStorybook, `{"prompt":"x"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

func TestDownloadStorybookPDF(t *testing.T) {
	h := NewHandler(&fakeCreator{})

	req := httptest.NewRequest(http.MethodPost, "/v1/storybooks/pdf", bytes.NewBufferString(`{"prompt":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.DownloadStorybookPDF(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("unexpected content type: %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "AI_Story_20250704_1230.pdf") {
		t.Errorf("unexpected content disposition: %q", cd)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
		t.Error("body is not the PDF")
	}
}

func TestIndexPage(t *testing.T) {
	h := NewHandler(&fakeCreator{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.Index(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "form-generate") || !strings.Contains(body, "/v1/storybooks") {
		t.Error("index page is missing the generation form")
	}
}

func TestHealthz(t *testing.T) {
	h := NewHandler(&fakeCreator{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.Healthz(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Story is the three-paragraph text block produced by the story model.
type Story struct {
	Text       string   `json:"text"`
	Paragraphs []string `json:"paragraphs"`
}

// FirstParagraph returns the paragraph used as the illustration prompt.
func (s *Story) FirstParagraph() string {
	if len(s.Paragraphs) == 0 {
		return ""
	}
	return s.Paragraphs[0]
}

// Image is a generated illustration held in memory for one run.
type Image struct {
	Data     []byte `json:"-"`
	MimeType string `json:"mime_type"` // e.g. "image/png"
	Model    string `json:"model"`
	Size     string `json:"size"` // e.g. "1024x1024"
}

// Document is a rendered PDF. It exists only to be offered as a download.
type Document struct {
	ID        uuid.UUID `json:"id"`
	Filename  string    `json:"filename"`
	Bytes     []byte    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Storybook is the result of one complete run: story, illustration, PDF.
type Storybook struct {
	ID       uuid.UUID
	Prompt   string
	Story    *Story
	Image    *Image
	Document *Document
}

// CreateStorybookRequest is the body of POST /v1/storybooks.
type CreateStorybookRequest struct {
	Prompt string `json:"prompt"`
}

// StorybookResponse is the JSON shape returned to the UI. Image and PDF
// bytes travel base64-encoded so the page can display one and offer the
// other as a blob download.
type StorybookResponse struct {
	ID            uuid.UUID `json:"id"`
	Prompt        string    `json:"prompt"`
	Paragraphs    []string  `json:"paragraphs"`
	ImageB64      string    `json:"image_b64,omitempty"`
	ImageMimeType string    `json:"image_mime_type,omitempty"`
	PDFB64        string    `json:"pdf_b64"`
	PDFFilename   string    `json:"pdf_filename"`
	CreatedAt     time.Time `json:"created_at"`
}

// Package pdf typesets a generated story and its illustration into a
// single downloadable document.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog/log"

	"github.com/papercrane/storybook/internal/models"
)

// ErrFontUnavailable marks a missing or unreadable font asset. It is a
// local configuration failure, never an API failure.
var ErrFontUnavailable = errors.New("font asset unavailable")

const (
	docTitle   = "AI Generated Story"
	creditLine = "Created with OpenAI GPT & GapGPT DALL-E 3"

	maxPromptChars = 50
)

// Renderer lays out story text and an illustration into a PDF. The zero
// font path selects the built-in Helvetica core font; otherwise the TTF at
// FontPath is read from disk at render time and registered for UTF-8 text.
type Renderer struct {
	FontPath   string
	FontFamily string

	// Now supplies the document timestamp. Fixed clock plus fixed inputs
	// yields byte-identical output.
	Now func() time.Time
}

// NewRenderer creates a renderer using the font at fontPath.
func NewRenderer(fontPath, fontFamily string, now func() time.Time) *Renderer {
	if fontFamily == "" {
		fontFamily = "Geom"
	}
	if now == nil {
		now = time.Now
	}
	return &Renderer{FontPath: fontPath, FontFamily: fontFamily, Now: now}
}

// CheckFont verifies the configured font asset exists. Called at startup so
// a bad deployment fails before the first render.
func (r *Renderer) CheckFont() error {
	if r.FontPath == "" {
		return nil
	}
	if _, err := os.Stat(r.FontPath); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrFontUnavailable, r.FontPath, err)
	}
	return nil
}

// Render produces the PDF: a title page, the story pages, and an
// illustration page when img is non-nil. Output is held in memory only.
func (r *Renderer) Render(prompt string, paragraphs []string, img *models.Image) ([]byte, error) {
	if len(paragraphs) == 0 {
		return nil, fmt.Errorf("render: no story paragraphs")
	}

	family := r.FontFamily
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetCompression(false)
	doc.SetCreationDate(r.Now())
	doc.SetTitle(docTitle, true)
	doc.SetAutoPageBreak(true, 15)

	if r.FontPath != "" {
		if _, err := os.Stat(r.FontPath); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrFontUnavailable, r.FontPath, err)
		}
		doc.AddUTF8Font(family, "", r.FontPath)
	} else {
		family = "Helvetica"
	}
	doc.SetFont(family, "", 12)
	if err := doc.Error(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFontUnavailable, err)
	}

	r.titlePage(doc, family, prompt)
	r.storyPages(doc, family, paragraphs)
	if img != nil {
		if err := r.imagePage(doc, family, img); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}

	log.Debug().
		Int("pdf_size_bytes", buf.Len()).
		Int("paragraphs", len(paragraphs)).
		Bool("illustrated", img != nil).
		Msg("PDF rendered")
	return buf.Bytes(), nil
}

func (r *Renderer) titlePage(doc *fpdf.Fpdf, family, prompt string) {
	doc.AddPage()
	doc.SetFont(family, "", 32)
	doc.CellFormat(0, 50, docTitle, "", 1, "C", false, 0, "")
	doc.Ln(20)

	doc.SetFont(family, "", 24)
	doc.MultiCell(0, 15, truncatePrompt(prompt), "", "C", false)
	doc.Ln(30)

	doc.SetFont(family, "", 14)
	doc.CellFormat(0, 10, "Generated on: "+r.Now().Format("January 2, 2006"), "", 1, "C", false, 0, "")
	doc.CellFormat(0, 10, creditLine, "", 1, "C", false, 0, "")
}

func (r *Renderer) storyPages(doc *fpdf.Fpdf, family string, paragraphs []string) {
	doc.AddPage()
	doc.SetFont(family, "", 22)
	doc.CellFormat(0, 15, "The Story", "", 1, "L", false, 0, "")
	doc.SetFont(family, "", 12)
	doc.Ln(10)

	for i, paragraph := range paragraphs {
		doc.MultiCell(0, 8, paragraph, "", "L", false)
		if i < len(paragraphs)-1 {
			doc.Ln(8)
		}
	}
}

func (r *Renderer) imagePage(doc *fpdf.Fpdf, family string, img *models.Image) error {
	doc.AddPage()
	doc.SetFont(family, "", 22)
	doc.CellFormat(0, 15, "Story Illustration", "", 1, "L", false, 0, "")
	doc.SetFont(family, "", 12)
	doc.CellFormat(0, 10, "Generated from the first paragraph", "", 1, "L", false, 0, "")
	doc.Ln(5)

	opts := fpdf.ImageOptions{ImageType: imageType(img.MimeType)}
	doc.RegisterImageOptionsReader("illustration", opts, bytes.NewReader(img.Data))

	pageW, _ := doc.GetPageSize()
	doc.ImageOptions("illustration", 10, doc.GetY(), pageW-20, 0, false, opts, 0, "")
	if err := doc.Error(); err != nil {
		return fmt.Errorf("embed illustration: %w", err)
	}
	return nil
}

// imageType maps a MIME type to the image format name fpdf expects.
func imageType(mimeType string) string {
	switch {
	case strings.Contains(mimeType, "jpeg"), strings.Contains(mimeType, "jpg"):
		return "JPG"
	case strings.Contains(mimeType, "gif"):
		return "GIF"
	default:
		return "PNG"
	}
}

func truncatePrompt(prompt string) string {
	if len(prompt) > maxPromptChars {
		return prompt[:maxPromptChars-3] + "..."
	}
	return prompt
}

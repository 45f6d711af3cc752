package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/papercrane/storybook/internal/models"
	"github.com/papercrane/storybook/internal/story"
)

// Stage-tagged errors so the HTTP layer can map failures to status codes.
// The underlying cause is wrapped and surfaced to the user unchanged.
var (
	ErrEmptyPrompt     = errors.New("prompt is empty")
	ErrStoryGeneration = errors.New("story generation failed")
	ErrImageGeneration = errors.New("image generation failed")
	ErrRender          = errors.New("pdf render failed")
)

// StoryGenerator produces a short story from a user prompt.
type StoryGenerator interface {
	GenerateStory(ctx context.Context, prompt string) (string, error)
}

// ImageGenerator produces one illustration from a text prompt.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (*models.Image, error)
}

// DocumentRenderer typesets story and illustration into PDF bytes.
type DocumentRenderer interface {
	Render(prompt string, paragraphs []string, img *models.Image) ([]byte, error)
}

// StorybookService runs the generation pipeline: story, first paragraph,
// illustration, PDF. Strictly sequential and fail-fast; a failed story call
// means no image call, a failed image call means no render. Nothing is
// retried and nothing outlives the run.
type StorybookService struct {
	stories  StoryGenerator
	images   ImageGenerator
	renderer DocumentRenderer
	timeout  time.Duration
	now      func() time.Time
}

// NewStorybookService creates the pipeline service. A zero timeout leaves
// the caller's context untouched; a nil clock means time.Now.
func NewStorybookService(stories StoryGenerator, images ImageGenerator, renderer DocumentRenderer, timeout time.Duration, now func() time.Time) *StorybookService {
	if now == nil {
		now = time.Now
	}
	return &StorybookService{stories: stories, images: images, renderer: renderer, timeout: timeout, now: now}
}

// Create runs one complete generation for prompt.
func (s *StorybookService) Create(ctx context.Context, prompt string) (*models.Storybook, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	runID := uuid.New()
	logger := log.With().Str("run_id", runID.String()).Logger()
	start := s.now()

	text, err := s.stories.GenerateStory(ctx, prompt)
	if err != nil {
		logger.Error().Err(err).Msg("Story generation failed")
		return nil, fmt.Errorf("%w: %w", ErrStoryGeneration, err)
	}
	paragraphs, err := story.Split(text)
	if err != nil {
		logger.Error().Err(err).Msg("Story parsing failed")
		return nil, fmt.Errorf("%w: %w", ErrStoryGeneration, err)
	}
	st := &models.Story{Text: text, Paragraphs: paragraphs}
	logger.Info().
		Int("paragraphs", len(paragraphs)).
		Dur("elapsed", time.Since(start)).
		Msg("Story ready")

	img, err := s.images.GenerateImage(ctx, st.FirstParagraph())
	if err != nil {
		logger.Error().Err(err).Msg("Image generation failed")
		return nil, fmt.Errorf("%w: %w", ErrImageGeneration, err)
	}

	pdfBytes, err := s.renderer.Render(prompt, paragraphs, img)
	if err != nil {
		logger.Error().Err(err).Msg("PDF render failed")
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}

	createdAt := s.now()
	doc := &models.Document{
		ID:        runID,
		Filename:  pdfFilename(createdAt),
		Bytes:     pdfBytes,
		CreatedAt: createdAt,
	}

	logger.Info().
		Int("pdf_size_bytes", len(pdfBytes)).
		Dur("elapsed", time.Since(start)).
		Msg("Storybook complete")

	return &models.Storybook{
		ID:       runID,
		Prompt:   prompt,
		Story:    st,
		Image:    img,
		Document: doc,
	}, nil
}

func pdfFilename(t time.Time) string {
	return "AI_Story_" + t.Format("20060102_1504") + ".pdf"
}

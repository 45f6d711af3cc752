package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

// ErrEmptyStory is returned when the model call succeeds but the
// completion contains no text.
var ErrEmptyStory = errors.New("story model returned an empty completion")

// storySystemPrompt fixes the shape of every story: exactly three
// paragraphs, cohesive, driven by the user's prompt.
const storySystemPrompt = "You are a creative fiction writer. " +
	"Generate a short story based on the user's prompt. " +
	"The story must be exactly three paragraphs long. " +
	"Ensure the narrative is cohesive and has a clear flow between paragraphs."

// GenerateStory generates a three-paragraph story from the user prompt.
// API errors are returned unchanged; there is no retry.
func (c *Client) GenerateStory(ctx context.Context, prompt string) (string, error) {
	log.Debug().
		Int("prompt_len", len(prompt)).
		Str("model", c.storyModel).
		Msg("Generating story")

	messages := []llms.MessageContent{
		{Role: schema.ChatMessageTypeSystem, Parts: []llms.ContentPart{llms.TextContent{Text: storySystemPrompt}}},
		{Role: schema.ChatMessageTypeHuman, Parts: []llms.ContentPart{llms.TextContent{Text: prompt}}},
	}

	resp, err := c.llm.GenerateContent(ctx, messages, llms.WithTemperature(0.8))
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyStory
	}

	text := resp.Choices[0].Content
	logModelResponse("GenerateStory", text)

	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyStory
	}
	log.Info().Int("story_len", len(text)).Msg("Story generation complete")
	return text, nil
}

// Command storybook runs one generation from the terminal: story to
// stdout, illustration and PDF written next to the working directory.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/papercrane/storybook/internal/config"
	"github.com/papercrane/storybook/internal/llm"
	"github.com/papercrane/storybook/internal/pdf"
	"github.com/papercrane/storybook/internal/services"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := config.Load()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	prompt := strings.TrimSpace(strings.Join(os.Args[1:], " "))
	if prompt == "" {
		fmt.Print("Enter your story prompt (e.g., 'a robot learning to paint'):\n> ")
		reader := bufio.NewReader(os.Stdin)
		line, _ := reader.ReadString('\n')
		prompt = strings.TrimSpace(line)
	}
	if prompt == "" {
		log.Fatal().Msg("Prompt cannot be empty")
	}

	secrets, err := config.LoadSecrets(cfg.SecretsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load secrets")
	}

	client, err := llm.NewClient(llm.Options{
		StoryAPIKey:     secrets.StoryAPIKey,
		StoryModel:      cfg.StoryModel,
		StoryAPIBaseURL: cfg.StoryAPIBaseURL,
		ImageAPIKey:     secrets.ImageAPIKey,
		ImageAPIBaseURL: cfg.ImageAPIBaseURL,
		ImageModel:      cfg.ImageModel,
		ImageSize:       cfg.ImageSize,
		ImageQuality:    cfg.ImageQuality,
		ImageStyle:      cfg.ImageStyle,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize LLM client")
	}

	renderer := pdf.NewRenderer(cfg.FontPath, cfg.FontFamily, nil)
	if err := renderer.CheckFont(); err != nil {
		log.Fatal().Err(err).Msg("Font asset check failed")
	}

	svc := services.NewStorybookService(client, client, renderer, cfg.PipelineTimeout, nil)

	sb, err := svc.Create(context.Background(), prompt)
	if err != nil {
		log.Fatal().Err(err).Msg("Generation failed")
	}

	fmt.Println()
	for i, paragraph := range sb.Story.Paragraphs {
		fmt.Printf("Paragraph %d:\n%s\n\n", i+1, paragraph)
	}

	imageName := strings.TrimSuffix(sb.Document.Filename, ".pdf") + imageExt(sb.Image.MimeType)
	if err := os.WriteFile(imageName, sb.Image.Data, 0o644); err != nil {
		log.Fatal().Err(err).Msg("Failed to write illustration")
	}
	if err := os.WriteFile(sb.Document.Filename, sb.Document.Bytes, 0o644); err != nil {
		log.Fatal().Err(err).Msg("Failed to write PDF")
	}

	log.Info().
		Str("pdf", sb.Document.Filename).
		Str("image", imageName).
		Msg("Storybook written")
}

func imageExt(mimeType string) string {
	switch {
	case strings.Contains(mimeType, "jpeg"):
		return ".jpg"
	case strings.Contains(mimeType, "gif"):
		return ".gif"
	default:
		return ".png"
	}
}

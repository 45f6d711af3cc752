package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/papercrane/storybook/internal/models"
)

// maxImageBodyBytes caps how much of an image response is read (20MB).
const maxImageBodyBytes = 20 << 20

type imageAPIRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	Quality        string `json:"quality,omitempty"`
	Style          string `json:"style,omitempty"`
	ResponseFormat string `json:"response_format"`
}

type imageAPIResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
		URL     string `json:"url"`
	} `json:"data"`
}

type imageAPIError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// GenerateImage generates one illustration from a prompt via the
// OpenAI-compatible images endpoint. The endpoint is asked for b64_json;
// providers that answer with a URL instead get a follow-up download.
// API errors are surfaced unchanged; there is no retry.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (*models.Image, error) {
	log.Debug().
		Str("prompt", truncate(prompt, 80)).
		Str("model", c.imageModel).
		Msg("Generating image")

	reqBody := imageAPIRequest{
		Model:          c.imageModel,
		Prompt:         prompt,
		N:              1,
		Size:           c.imageSize,
		Quality:        c.imageQuality,
		Style:          c.imageStyle,
		ResponseFormat: "b64_json",
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal image request: %w", err)
	}

	url := strings.TrimSuffix(c.imageBaseURL, "/") + "/images/generations"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create image request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.imageAPIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read image response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp.StatusCode, body)
	}

	var apiResp imageAPIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("unmarshal image response: %w", err)
	}
	if len(apiResp.Data) == 0 {
		return nil, fmt.Errorf("image API returned no data")
	}

	var imageBytes []byte
	switch {
	case apiResp.Data[0].B64JSON != "":
		imageBytes, err = base64.StdEncoding.DecodeString(apiResp.Data[0].B64JSON)
		if err != nil {
			return nil, fmt.Errorf("decode image payload: %w", err)
		}
	case apiResp.Data[0].URL != "":
		imageBytes, err = c.downloadImage(ctx, apiResp.Data[0].URL)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("image API returned neither b64_json nor url")
	}

	mimeType := http.DetectContentType(imageBytes)
	log.Info().
		Int("image_size_bytes", len(imageBytes)).
		Str("mime_type", mimeType).
		Str("model", c.imageModel).
		Msg("Image generation complete")

	return &models.Image{
		Data:     imageBytes,
		MimeType: mimeType,
		Model:    c.imageModel,
		Size:     c.imageSize,
	}, nil
}

// downloadImage fetches the generated image when the provider answers with
// a URL instead of inline bytes.
func (c *Client) downloadImage(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create image download request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download image: unexpected status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("download image: %w", err)
	}
	return data, nil
}

// apiError turns a non-200 image API response into an error carrying the
// remote message verbatim.
func apiError(status int, body []byte) error {
	var apiErr imageAPIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return fmt.Errorf("image API error (status %d): %s", status, apiErr.Error.Message)
	}
	return fmt.Errorf("image API error (status %d): %s", status, truncate(string(body), 512))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

package llm

import (
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// maxResponseLogBytes is the max length of a model response body to log in full.
const maxResponseLogBytes = 8192

// Client wraps the two external generation APIs: an OpenAI-compatible chat
// model for the story and an OpenAI-compatible image endpoint (e.g. GapGPT)
// for the illustration. Both hold their keys for the process lifetime.
type Client struct {
	storyModel string
	llm        llms.Model

	imageBaseURL string
	imageAPIKey  string
	imageModel   string
	imageSize    string
	imageQuality string
	imageStyle   string

	httpClient *http.Client
}

// Options configures a Client. Base URLs are overridable so tests and
// OpenAI-compatible gateways can point the client elsewhere.
type Options struct {
	StoryAPIKey     string
	StoryModel      string
	StoryAPIBaseURL string // empty means the provider default

	ImageAPIKey     string
	ImageAPIBaseURL string
	ImageModel      string
	ImageSize       string // e.g. "1024x1024"
	ImageQuality    string // "standard" or "hd"
	ImageStyle      string // "vivid" or "natural"

	// HTTPClient is used for image generation and download. Nil means
	// http.DefaultClient; the external call then blocks until the remote
	// responds or the request context is done.
	HTTPClient *http.Client
}

// NewClient creates a client for both generation APIs.
func NewClient(opts Options) (*Client, error) {
	storyOpts := []openai.Option{
		openai.WithToken(opts.StoryAPIKey),
		openai.WithModel(opts.StoryModel),
	}
	if opts.StoryAPIBaseURL != "" {
		storyOpts = append(storyOpts, openai.WithBaseURL(opts.StoryAPIBaseURL))
	}
	if opts.HTTPClient != nil {
		storyOpts = append(storyOpts, openai.WithHTTPClient(opts.HTTPClient))
	}
	storyLLM, err := openai.New(storyOpts...)
	if err != nil {
		return nil, err
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	log.Info().
		Str("story_model", opts.StoryModel).
		Str("story_base_url", opts.StoryAPIBaseURL).
		Str("image_model", opts.ImageModel).
		Str("image_base_url", opts.ImageAPIBaseURL).
		Str("image_size", opts.ImageSize).
		Msg("LLM client initialized")

	return &Client{
		storyModel:   opts.StoryModel,
		llm:          storyLLM,
		imageBaseURL: opts.ImageAPIBaseURL,
		imageAPIKey:  opts.ImageAPIKey,
		imageModel:   opts.ImageModel,
		imageSize:    opts.ImageSize,
		imageQuality: opts.ImageQuality,
		imageStyle:   opts.ImageStyle,
		httpClient:   httpClient,
	}, nil
}

// logModelResponse logs model response text, truncating if over maxResponseLogBytes.
func logModelResponse(caller, raw string) {
	if len(raw) <= maxResponseLogBytes {
		log.Debug().Str("caller", caller).Str("model_response", raw).Msg("Model response")
		return
	}
	log.Debug().
		Str("caller", caller).
		Str("model_response", raw[:maxResponseLogBytes]+"... [truncated]").
		Int("model_response_len", len(raw)).
		Msg("Model response")
}

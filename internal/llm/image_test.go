package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// testPNG returns a small valid PNG.
func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < 4; i++ {
		img.Set(i, i, color.RGBA{R: 200, G: 120, B: 40, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return buf.Bytes()
}

func newImageClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Options{
		StoryAPIKey:     "sk-test",
		StoryModel:      "gpt-4o-mini",
		StoryAPIBaseURL: srv.URL,
		ImageAPIKey:     "img-test",
		ImageAPIBaseURL: srv.URL,
		ImageModel:      "dall-e-3",
		ImageSize:       "1024x1024",
		ImageQuality:    "standard",
		ImageStyle:      "vivid",
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestGenerateImage_B64(t *testing.T) {
	pngBytes := testPNG(t)
	var gotAuth string
	var gotReq imageAPIRequest

	c := newImageClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/images/generations" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotReq)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"b64_json": base64.StdEncoding.EncodeToString(pngBytes)}},
		})
	}))

	img, err := c.GenerateImage(context.Background(), "a white castle under a cloudy sky")
	if err != nil {
		t.Fatalf("GenerateImage: %v", err)
	}
	if !bytes.Equal(img.Data, pngBytes) {
		t.Error("image bytes do not match the API payload")
	}
	if img.MimeType != "image/png" {
		t.Errorf("unexpected mime type: %q", img.MimeType)
	}
	if gotAuth != "Bearer img-test" {
		t.Errorf("unexpected auth header: %q", gotAuth)
	}
	if gotReq.Prompt != "a white castle under a cloudy sky" {
		t.Errorf("unexpected prompt: %q", gotReq.Prompt)
	}
	if gotReq.N != 1 || gotReq.Size != "1024x1024" || gotReq.ResponseFormat != "b64_json" {
		t.Errorf("unexpected request fields: %+v", gotReq)
	}
	if gotReq.Quality != "standard" || gotReq.Style != "vivid" {
		t.Errorf("unexpected quality/style: %+v", gotReq)
	}
}

func TestGenerateImage_URLFallback(t *testing.T) {
	pngBytes := testPNG(t)

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	mux.HandleFunc("/images/generations", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"url": srv.URL + "/files/story.png"}},
		})
	})
	mux.HandleFunc("/files/story.png", func(w http.ResponseWriter, r *http.Request) {
		w.Write(pngBytes)
	})

	c, err := NewClient(Options{
		StoryAPIKey:     "sk-test",
		StoryModel:      "gpt-4o-mini",
		ImageAPIKey:     "img-test",
		ImageAPIBaseURL: srv.URL,
		ImageModel:      "dall-e-3",
		ImageSize:       "1024x1024",
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	img, err := c.GenerateImage(context.Background(), "scene")
	if err != nil {
		t.Fatalf("GenerateImage: %v", err)
	}
	if !bytes.Equal(img.Data, pngBytes) {
		t.Error("downloaded image bytes do not match")
	}
}

func TestGenerateImage_APIErrorVerbatim(t *testing.T) {
	c := newImageClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"Rate limit exceeded for images per minute","type":"requests"}}`))
	}))

	_, err := c.GenerateImage(context.Background(), "scene")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Rate limit exceeded for images per minute") {
		t.Errorf("remote message not surfaced verbatim: %v", err)
	}
}

func TestGenerateImage_EmptyData(t *testing.T) {
	c := newImageClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[]}`))
	}))

	if _, err := c.GenerateImage(context.Background(), "scene"); err == nil {
		t.Fatal("expected error for empty data")
	}
}

package captioner

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"memedex/internal/services"
)

func TestCaptionPostsDataURL(t *testing.T) {
	var gotPath string
	var gotBody captionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(captionResponse{Caption: "  a cat on a keyboard  "})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	caption, err := client.Caption(context.Background(), []byte{0xff, 0xd8, 0xff})
	if err != nil {
		t.Fatalf("Caption returned error: %v", err)
	}
	if caption != "a cat on a keyboard" {
		t.Fatalf("caption = %q, want trimmed text", caption)
	}
	if gotPath != "/caption" {
		t.Fatalf("request path = %q, want /caption", gotPath)
	}
	if !strings.HasPrefix(gotBody.ImageURL, "data:image/jpeg;base64,") {
		t.Fatalf("image_url missing data URL prefix: %q", gotBody.ImageURL)
	}
	if gotBody.Length != "short" {
		t.Fatalf("length = %q, want short", gotBody.Length)
	}
}

func TestCaptionRejectsEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(captionResponse{Caption: "   "})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	if _, err := client.Caption(context.Background(), []byte{0x01}); err == nil {
		t.Fatal("expected error for empty caption")
	}
}

func TestCaptionSurfacesHTTPErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	_, err := client.Caption(context.Background(), []byte{0x01})
	if err == nil {
		t.Fatal("expected error for HTTP 503")
	}
	if !strings.Contains(err.Error(), "503") {
		t.Fatalf("error %q does not mention status code", err)
	}
}

func TestSuggestFilenameUsesQueryEndpoint(t *testing.T) {
	var gotPath string
	var gotBody queryRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(queryResponse{Answer: "cat on keyboard"})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	answer, err := client.SuggestFilename(context.Background(), []byte{0x01})
	if err != nil {
		t.Fatalf("SuggestFilename returned error: %v", err)
	}
	if answer != "cat on keyboard" {
		t.Fatalf("answer = %q", answer)
	}
	if gotPath != "/query" {
		t.Fatalf("request path = %q, want /query", gotPath)
	}
	if gotBody.Question == "" {
		t.Fatal("question was empty")
	}
}

func TestCaptionClassifiesTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		json.NewEncoder(w).Encode(captionResponse{Caption: "too late"})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL},
		WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond}))
	_, err := client.Caption(context.Background(), []byte{0x01})
	if err == nil {
		t.Fatal("expected error for slow server")
	}
	if !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("error not classified as timeout: %v", err)
	}
}

func TestNewClientDefaultsBaseURL(t *testing.T) {
	client := NewClient(Config{})
	if client.baseURL != defaultBaseURL {
		t.Fatalf("baseURL = %q, want %q", client.baseURL, defaultBaseURL)
	}
}

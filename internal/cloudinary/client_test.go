package cloudinary

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSignParamsIsDeterministicAndSorted(t *testing.T) {
	params := map[string]string{
		"timestamp": "1700000000",
		"folder":    "classic-carrry",
	}
	first := SignParams(params, "secret")
	second := SignParams(params, "secret")

	if first != second {
		t.Fatal("signature must be deterministic")
	}
	if len(first) != 40 {
		t.Fatalf("expected 40 hex chars, got %d", len(first))
	}
	if first == SignParams(params, "other-secret") {
		t.Fatal("different secrets must produce different signatures")
	}
}

func TestPublicIDFromURL(t *testing.T) {
	cases := map[string]string{
		"https://res.cloudinary.com/demo/image/upload/v1699/classic-carrry/cap.jpg": "classic-carrry/cap",
		"https://res.cloudinary.com/demo/image/upload/classic-carrry/wallet.webp":   "classic-carrry/wallet",
		"https://res.cloudinary.com/demo/image/upload/v2/a/b/c.png":                 "a/b/c",
		"https://example.com/static/cap.jpg":                                        "",
		"": "",
	}
	for input, want := range cases {
		if got := PublicIDFromURL(input); got != want {
			t.Errorf("PublicIDFromURL(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestUploadSendsSignedMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if r.FormValue("api_key") != "key" {
			t.Errorf("missing api_key field")
		}
		if r.FormValue("signature") == "" {
			t.Errorf("missing signature field")
		}
		if r.FormValue("folder") != "classic-carrry" {
			t.Errorf("unexpected folder %q", r.FormValue("folder"))
		}
		json.NewEncoder(w).Encode(UploadResult{
			PublicID:  "classic-carrry/test",
			SecureURL: "https://res.cloudinary.com/demo/image/upload/classic-carrry/test.jpg",
		})
	}))
	defer srv.Close()

	client := New("demo", "key", "secret", "classic-carrry")
	client.baseURL = srv.URL

	result, err := client.Upload(context.Background(), "test.jpg", strings.NewReader("fake-image-bytes"))
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if result.PublicID != "classic-carrry/test" {
		t.Fatalf("unexpected public id %q", result.PublicID)
	}
}

func TestConfiguredRequiresAllCredentials(t *testing.T) {
	if New("cloud", "key", "", "folder").Configured() {
		t.Fatal("missing secret must report not configured")
	}
	if !New("cloud", "key", "secret", "folder").Configured() {
		t.Fatal("full credentials must report configured")
	}
}

package upload

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"attendance-capture/internal/config"
)

func testClient(serverURL string) *Client {
	return NewClient(&config.UploadConfig{
		CloudName:    "ml_default",
		APIKey:       "test-key",
		UploadPreset: "ML_image",
		Endpoint:     serverURL + "/v1_1/%s/image/upload",
	})
}

func TestUpload_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Requested-With") != "XMLHttpRequest" {
			t.Errorf("missing X-Requested-With header")
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if r.FormValue("upload_preset") != "ML_image" {
			t.Errorf("unexpected preset: %q", r.FormValue("upload_preset"))
		}
		if r.FormValue("api_key") != "test-key" {
			t.Errorf("unexpected api key: %q", r.FormValue("api_key"))
		}
		if r.FormValue("timestamp") == "" {
			t.Errorf("missing timestamp")
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		file.Close()
		if header.Filename != "photo.jpg" {
			t.Errorf("unexpected filename: %q", header.Filename)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"secure_url": "https://res.example.com/photo.jpg"}`))
	}))
	defer srv.Close()

	url, err := testClient(srv.URL).Upload(context.Background(), "photo.jpg", strings.NewReader("jpegbytes"))
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if url != "https://res.example.com/photo.jpg" {
		t.Fatalf("unexpected url: %q", url)
	}
}

func TestUpload_ErrorPayloadMessageSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"message": "Upload preset not found"}}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Upload(context.Background(), "photo.jpg", strings.NewReader("x"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Upload preset not found") {
		t.Fatalf("error should wrap host message, got: %v", err)
	}
}

func TestUpload_NonJSONFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Upload(context.Background(), "photo.jpg", strings.NewReader("x"))
	if err == nil {
		t.Fatal("expected error")
	}
}

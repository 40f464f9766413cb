package imghost

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient("test-key")
	c.endpoint = srv.URL
	return c
}

func TestUpload(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("missing api key, got query %q", r.URL.RawQuery)
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer file.Close()
		if header.Filename != "photo.jpg" {
			t.Errorf("filename = %q", header.Filename)
		}
		w.Write([]byte(`{"data":{"url":"https://i.ibb.co/abc/photo.jpg"},"success":true}`))
	})

	url, err := c.Upload(context.Background(), "photo.jpg", strings.NewReader("fake-jpeg-bytes"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if url != "https://i.ibb.co/abc/photo.jpg" {
		t.Fatalf("url = %q", url)
	}
}

func TestUploadRejectsOversizeImage(t *testing.T) {
	c := NewClient("test-key")

	big := bytes.NewReader(make([]byte, MaxUploadSize+1))
	if _, err := c.Upload(context.Background(), "big.jpg", big); !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
}

func TestUploadRequiresAPIKey(t *testing.T) {
	c := NewClient("")
	if _, err := c.Upload(context.Background(), "a.jpg", strings.NewReader("x")); !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("expected ErrNoAPIKey, got %v", err)
	}
}

func TestUploadSurfacesAPIError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"error":{"message":"Invalid API key"}}`))
	})

	_, err := c.Upload(context.Background(), "a.jpg", strings.NewReader("x"))
	if err == nil || !strings.Contains(err.Error(), "Invalid API key") {
		t.Fatalf("got %v", err)
	}
}

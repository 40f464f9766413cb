// Package imghost uploads member photos to imgbb and returns the hosted
// URL stored on the member record.
package imghost

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// MaxUploadSize is the largest accepted photo, matching the imgbb free
// tier limit.
const MaxUploadSize = 5 << 20

const defaultEndpoint = "https://api.imgbb.com/1/upload"

var (
	ErrNoAPIKey     = errors.New("imgbb API key not configured")
	ErrFileTooLarge = fmt.Errorf("image larger than %d bytes", MaxUploadSize)
)

type Client struct {
	apiKey   string
	endpoint string
	http     *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:   apiKey,
		endpoint: defaultEndpoint,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

type uploadResponse struct {
	Data struct {
		URL string `json:"url"`
	} `json:"data"`
	Success bool `json:"success"`
	Error   struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends the image bytes and returns the hosted URL.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoAPIKey
	}

	// Read one byte past the limit to detect oversize input without
	// buffering an unbounded body.
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if len(data) > MaxUploadSize {
		return "", ErrFileTooLarge
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("write form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"?key="+c.apiKey, &body)
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	defer resp.Body.Close()

	var parsed uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || !parsed.Success {
		if parsed.Error.Message != "" {
			return "", fmt.Errorf("imgbb rejected upload: %s", parsed.Error.Message)
		}
		return "", fmt.Errorf("imgbb returned status %d", resp.StatusCode)
	}
	if parsed.Data.URL == "" {
		return "", errors.New("imgbb response missing url")
	}

	return parsed.Data.URL, nil
}

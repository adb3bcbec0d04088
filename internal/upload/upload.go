// Package upload implements the image host client. The wire contract
// follows Cloudinary's unsigned upload API: a multipart POST of the file
// plus preset, timestamp and API key, answered with JSON carrying a secure
// retrieval URL or an error object with a message.
package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"attendance-capture/internal/config"
)

type Client struct {
	endpoint     string
	apiKey       string
	uploadPreset string

	httpClient *http.Client
	logger     *slog.Logger
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func NewClient(cfg *config.UploadConfig) *Client {
	return &Client{
		endpoint:     fmt.Sprintf(cfg.Endpoint, cfg.CloudName),
		apiKey:       cfg.APIKey,
		uploadPreset: cfg.UploadPreset,
		httpClient:   http.DefaultClient,
		logger:       slog.With("component", "upload"),
	}
}

// Upload sends the photo to the image host and returns the secure URL.
// Any failure aborts the submission; there is no retry.
func (c *Client) Upload(ctx context.Context, filename string, photo io.Reader) (string, error) {
	timestamp := time.Now().Unix()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}
	if _, err := io.Copy(part, photo); err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}

	writer.WriteField("upload_preset", c.uploadPreset)
	writer.WriteField("timestamp", strconv.FormatInt(timestamp, 10))
	writer.WriteField("api_key", c.apiKey)

	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()

	var data uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("upload failed: invalid response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("Image host rejected upload", "status", resp.StatusCode, "response", data)
		if data.Error != nil && data.Error.Message != "" {
			return "", fmt.Errorf("upload failed: %s", data.Error.Message)
		}
		return "", fmt.Errorf("upload failed: status %d", resp.StatusCode)
	}

	c.logger.Debug("Photo uploaded", "url", data.SecureURL)
	return data.SecureURL, nil
}

// Package relay dispatches composed attendance records to the
// spreadsheet-backed endpoint.
//
// The transport is deliberately opaque: the endpoint's response status and
// body carry no usable signal, so the client reports dispatch-level success
// only and never interprets the reply. Delivery confirmation is out of
// scope by contract.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"attendance-capture/internal/config"
)

// FormRecord is the JSON body the backing store expects. DeviceInfo is a
// JSON string nested inside the JSON body, as the sheet script parses it.
type FormRecord struct {
	Timestamp   string `json:"timestamp"`
	Name        string `json:"name"`
	Subdivision string `json:"subdivision"`
	InTime      string `json:"inTime"`
	OutTime     string `json:"outTime"`
	PhotoURL    string `json:"photoUrl"`
	Location    string `json:"location"`
	DeviceInfo  string `json:"deviceInfo"`
}

type Client struct {
	scriptURL  string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg *config.RelayConfig) *Client {
	return &Client{
		scriptURL:  cfg.ScriptURL,
		httpClient: http.DefaultClient,
		logger:     slog.With("component", "relay"),
	}
}

// Dispatch fires the record at the backing store. A nil error means the
// request left without a transport-level failure, nothing more.
func (c *Client) Dispatch(ctx context.Context, record FormRecord) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("relay failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.scriptURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("relay failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("relay failed: %w", err)
	}
	// Drain and drop: the response is not interpretable
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	c.logger.Debug("Record dispatched", "name", record.Name, "timestamp", record.Timestamp)
	return nil
}

// Package analytics wraps the posthog client so callers need not care whether it was configured.
package analytics

import (
	"log/slog"

	"github.com/posthog/posthog-go"
)

// Client enqueues product analytics events. The zero value is a disabled client.
type Client struct {
	posthogClient posthog.Client
	logger        *slog.Logger
}

// NewClient creates a posthog-backed client. An empty apiKey yields a disabled client.
func NewClient(apiKey string, logger *slog.Logger) *Client {
	if apiKey == "" {
		logger.Warn("Posthog API key is empty, analytics disabled")
		return &Client{}
	}
	c, err := posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: "https://eu.i.posthog.com"})
	if err != nil {
		logger.Error("Failed to initialize posthog client", slog.String("error", err.Error()))
		return &Client{}
	}
	return &Client{posthogClient: c, logger: logger}
}

func (c *Client) IsInitialized() bool {
	return c != nil && c.posthogClient != nil
}

// Enqueue captures an event for distinctID. It is a no-op on a disabled client.
func (c *Client) Enqueue(distinctID, event string, properties map[string]any) {
	if !c.IsInitialized() {
		return
	}
	if c.logger != nil {
		c.logger.Debug("Enqueueing analytics event", slog.String("distinct_id", distinctID), slog.String("event", event))
	}
	err := c.posthogClient.Enqueue(posthog.Capture{
		DistinctId: distinctID,
		Event:      event,
		Properties: properties,
	})
	if err != nil && c.logger != nil {
		c.logger.Warn("Failed to enqueue analytics event", slog.String("event", event), slog.String("error", err.Error()))
	}
}

func (c *Client) Close() {
	if !c.IsInitialized() {
		return
	}
	_ = c.posthogClient.Close()
}

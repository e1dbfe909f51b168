// Package whatsapp sends outbound text messages through the Meta Graph API.
// Delivery is fire-and-forget from the pipeline's perspective: failures are
// logged and never propagate back into the message result.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"autoparts_backend/platform/logger"
)

const graphBaseURL = "https://graph.facebook.com/v18.0"

// Client is the outbound Graph API messenger.
type Client struct {
	baseURL       string
	accessToken   string
	phoneNumberID string
	http          *http.Client
	limiter       *rate.Limiter
	log           *logger.Logger
}

type textPayload struct {
	Body string `json:"body"`
}

type messageRequest struct {
	MessagingProduct string      `json:"messaging_product"`
	To               string      `json:"to"`
	Type             string      `json:"type"`
	Text             textPayload `json:"text"`
}

// NewClient creates the outbound messenger. Returns nil when the Graph API is
// not configured; a nil client silently drops sends.
func NewClient(accessToken, phoneNumberID string, log *logger.Logger) *Client {
	if accessToken == "" || phoneNumberID == "" {
		return nil
	}

	return &Client{
		baseURL:       graphBaseURL,
		accessToken:   accessToken,
		phoneNumberID: phoneNumberID,
		http:          &http.Client{Timeout: 10 * time.Second},
		// Graph API allows 80 messages/second per number; stay well under.
		limiter: rate.NewLimiter(rate.Limit(20), 10),
		log:     log,
	}
}

// WithBaseURL overrides the Graph API base URL, used in tests.
func (c *Client) WithBaseURL(baseURL string) *Client {
	if c == nil {
		return nil
	}
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// SendText delivers a text message to the given WhatsApp user ID.
func (c *Client) SendText(ctx context.Context, waID, text string) error {
	if c == nil {
		return nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	payload := messageRequest{
		MessagingProduct: "whatsapp",
		To:               waID,
		Type:             "text",
		Text:             textPayload{Body: text},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal whatsapp payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("whatsapp graph api returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	c.log.Info("whatsapp text sent", "to", waID)
	return nil
}

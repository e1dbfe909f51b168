// Package translate provides the HTTP client for the translation provider
// (LibreTranslate-compatible API). Detection and translation results are
// cached in Redis when available; every Redis failure degrades to an uncached
// call and every provider failure is an upstream error the caller degrades on.
package translate

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"autoparts_backend/platform/apperr"
	"autoparts_backend/platform/logger"
)

const cacheTTL = 24 * time.Hour

// Client talks to a LibreTranslate-compatible detect/translate API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cache      *redis.Client
	log        *logger.Logger
}

// New creates a new translation client. cache may be nil.
func New(baseURL, apiKey string, timeout time.Duration, cache *redis.Client, log *logger.Logger) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		cache:      cache,
		log:        log,
	}
}

type detectResult struct {
	Language   string  `json:"language"`
	Confidence float64 `json:"confidence"`
}

// DetectLanguage returns the ISO language code detected for the given text.
func (c *Client) DetectLanguage(ctx context.Context, text string) (string, error) {
	key := "translate:detect:" + hashKey(text)
	if cached, ok := c.cacheGet(ctx, key); ok {
		return cached, nil
	}

	var results []detectResult
	if err := c.post(ctx, "/detect", map[string]string{"q": text}, &results); err != nil {
		return "", err
	}
	if len(results) == 0 || results[0].Language == "" {
		return "", apperr.Upstream("language detection returned no result", nil)
	}

	lang := results[0].Language
	c.cacheSet(ctx, key, lang)
	return lang, nil
}

type translateResult struct {
	TranslatedText string `json:"translatedText"`
}

// Translate converts text into the target language.
func (c *Client) Translate(ctx context.Context, text, targetLang string) (string, error) {
	key := "translate:text:" + targetLang + ":" + hashKey(text)
	if cached, ok := c.cacheGet(ctx, key); ok {
		return cached, nil
	}

	var result translateResult
	payload := map[string]string{
		"q":      text,
		"source": "auto",
		"target": targetLang,
	}
	if err := c.post(ctx, "/translate", payload, &result); err != nil {
		return "", err
	}
	if result.TranslatedText == "" {
		return "", apperr.Upstream("translation returned no result", nil)
	}

	c.cacheSet(ctx, key, result.TranslatedText)
	return result.TranslatedText, nil
}

func (c *Client) post(ctx context.Context, path string, payload map[string]string, out any) error {
	if c.apiKey != "" {
		payload["api_key"] = c.apiKey
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal translate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create translate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperr.Upstream("translate request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperr.Upstream(fmt.Sprintf("translate endpoint returned %d", resp.StatusCode), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.Upstream("decode translate response", err)
	}
	return nil
}

func (c *Client) cacheGet(ctx context.Context, key string) (string, bool) {
	if c.cache == nil {
		return "", false
	}
	val, err := c.cache.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (c *Client) cacheSet(ctx context.Context, key, value string) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Set(ctx, key, value, cacheTTL).Err(); err != nil {
		c.log.Debug("translate cache write failed", "error", err)
	}
}

func hashKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:16])
}

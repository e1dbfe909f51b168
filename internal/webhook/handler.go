package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"autoparts_backend/platform/logger"
	"autoparts_backend/platform/phone"
	"autoparts_backend/platform/validator"
)

// Dispatcher hands an inbound message to the pipeline, either inline or via
// the task queue. The webhook never waits for the reply.
type Dispatcher interface {
	Dispatch(ctx context.Context, userID, text string) error
}

// Handler serves the Meta webhook endpoints.
type Handler struct {
	verifyToken string
	appSecret   string
	dispatcher  Dispatcher
	val         *validator.Validator
	log         *logger.Logger
}

// NewHandler creates a webhook handler.
func NewHandler(verifyToken, appSecret string, dispatcher Dispatcher, val *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{
		verifyToken: verifyToken,
		appSecret:   appSecret,
		dispatcher:  dispatcher,
		val:         val,
		log:         log,
	}
}

// HandleVerify implements the Meta subscription handshake: echo the challenge
// when the mode and verify token match.
func (h *Handler) HandleVerify(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && h.verifyToken != "" && token == h.verifyToken {
		c.String(http.StatusOK, challenge)
		return
	}
	c.String(http.StatusForbidden, "Forbidden")
}

// HandleReceive accepts an inbound webhook delivery. Meta is always answered
// 200 once the signature checks out; pipeline failures are the pipeline's
// problem, not the transport's. Deduplication of redeliveries is Meta's
// responsibility, not ours.
func (h *Handler) HandleReceive(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	if h.appSecret != "" && !h.validSignature(c.GetHeader("X-Hub-Signature-256"), body) {
		c.JSON(http.StatusForbidden, gin.H{"error": "invalid signature"})
		return
	}

	var payload metaPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		// Meta expects 200 even for payloads we cannot parse, otherwise it
		// retries the same delivery.
		h.log.Warn("webhook payload unparseable", "error", err)
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	for _, in := range inboundTexts(&payload) {
		if err := h.val.Var(in.Text, "required,max=4096"); err != nil {
			h.log.Warn("inbound text rejected", "error", err)
			continue
		}
		if err := h.dispatcher.Dispatch(c.Request.Context(), in.UserID, in.Text); err != nil {
			h.log.Error("inbound dispatch failed", "error", err, "user_id", in.UserID)
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type inboundText struct {
	UserID string
	Text   string
}

// inboundTexts walks entry -> changes -> value and collects one (userID, text)
// pair per inbound text message. Non-text messages are skipped.
func inboundTexts(payload *metaPayload) []inboundText {
	var texts []inboundText
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			value := change.Value
			if len(value.Contacts) == 0 {
				continue
			}
			userID := phone.NormalizeWaID(value.Contacts[0].WaID)
			if userID == "" {
				continue
			}
			for _, msg := range value.Messages {
				if msg.Type != "text" || msg.Text.Body == "" {
					continue
				}
				texts = append(texts, inboundText{UserID: userID, Text: msg.Text.Body})
			}
		}
	}
	return texts
}

func (h *Handler) validSignature(header string, body []byte) bool {
	signature, ok := strings.CutPrefix(header, "sha256=")
	if !ok {
		return false
	}

	mac := hmac.New(sha256.New, []byte(h.appSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(signature), []byte(expected))
}

package dispatch

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"wardflow/internal/application/entity"
	"wardflow/pkg/config"
	"wardflow/pkg/httpclient"
)

const (
	SignatureHeader = "X-Wardflow-Signature"
	EventHeader     = "X-Wardflow-Event"
	requestIDHeader = "X-Request-Id"

	maxErrorBody = 512
)

// WebhookDispatcher делает POST уведомления на внешний URL. Любой не-2xx ответ - ошибка доставки.
type WebhookDispatcher struct {
	client httpclient.HTTPClient
	url    string
	secret string
}

func NewWebhookDispatcher(client httpclient.HTTPClient, url, secret string) *WebhookDispatcher {
	return &WebhookDispatcher{client: client, url: url, secret: secret}
}

func (d *WebhookDispatcher) Name() string { return config.ChannelWebhook }

func (d *WebhookDispatcher) Dispatch(ctx context.Context, n entity.Notification) (string, error) {
	body, err := json.Marshal(n)
	if err != nil {
		return "", fmt.Errorf("marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(IdempotencyHeader, n.IdempotencyKey)
	req.Header.Set(EventHeader, string(n.EventType))
	if d.secret != "" {
		req.Header.Set(SignatureHeader, Sign(d.secret, body))
	}

	resp, err := d.client.Do(ctx, req)
	if err != nil {
		return "", fmt.Errorf("webhook request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", fmt.Errorf("webhook responded %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.Header.Get(requestIDHeader), nil
}

// Sign - hex(HMAC-SHA256(secret, body)), получатель проверяет подлинность тела
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

package httpclient

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"time"
	"wardflow/pkg/config"

	"go.uber.org/zap"
)

// HTTPClient - то, что нужно каналам доставки от http клиента
type HTTPClient interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Client - http клиент с транспортом из конфига и подстановкой User-Agent
type Client struct {
	http *http.Client
	ua   string
}

func NewClient(cfg config.HTTPClient) *Client {
	return &Client{
		http: &http.Client{Transport: newTransport(cfg), Timeout: cfg.ClientTimeout},
		ua:   cfg.UserAgent,
	}
}

func newTransport(cfg config.HTTPClient) *http.Transport {
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.ConnectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   cfg.TLSHandshakeTimeout,
		ResponseHeaderTimeout: cfg.ResponseHeaderTimeout,
		ExpectContinueTimeout: cfg.ExpectContinueTimeout,
		MaxIdleConns:          cfg.MaxIdleConns,
		MaxIdleConnsPerHost:   cfg.MaxIdleConnsPerHost,
		MaxConnsPerHost:       cfg.MaxConnsPerHost,
		IdleConnTimeout:       cfg.IdleConnTimeout,
		DisableKeepAlives:     !cfg.KeepAlives,
		ForceAttemptHTTP2:     true,
	}

	// для стендов с самоподписанными сертификатами получателя
	if cfg.InsecureSkipVerify {
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}
	return tr
}

func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)
	if c.ua != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.ua)
	}
	return c.http.Do(req)
}

// New собирает клиент доставки: транспорт из конфига и повторы поверх него
func New(cfg config.HTTPClient, logger *zap.SugaredLogger) HTTPClient {
	base := NewClient(cfg)
	if cfg.MaxRetries <= 1 {
		return base
	}
	return NewRetryClient(base, cfg.MaxRetries, logger)
}

package marketdata

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/wonny/pairscan/pkg/config"
	"github.com/wonny/pairscan/pkg/httputil"
	"github.com/wonny/pairscan/pkg/logger"
)

// Client handles communication with Naver Finance
// ⭐ SSOT: Naver Finance 호출은 이 클라이언트에서만
type Client struct {
	httpClient   *httputil.Client
	logger       *logger.Logger
	baseURL      string
	chartBaseURL string
}

var defaultHeaders = map[string]string{
	"User-Agent": "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36",
	"Referer":    "https://finance.naver.com/",
}

// NewClient creates a new Naver Finance client.
func NewClient(httpClient *httputil.Client, cfg config.NaverConfig, log *logger.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://finance.naver.com"
	}
	chartBaseURL := cfg.ChartBaseURL
	if chartBaseURL == "" {
		chartBaseURL = "https://fchart.stock.naver.com"
	}
	return &Client{
		httpClient:   httpClient,
		logger:       log,
		baseURL:      baseURL,
		chartBaseURL: chartBaseURL,
	}
}

// fetch performs a GET and returns the body as a string.
func (c *Client) fetch(ctx context.Context, url string) (string, error) {
	resp, err := c.httpClient.Get(ctx, url, defaultHeaders)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	return string(body), nil
}

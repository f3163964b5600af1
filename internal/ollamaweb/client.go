package ollamaweb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/iWorld-y/ai_news_daily/internal/logger"
	"github.com/iWorld-y/ai_news_daily/internal/search"
)

// DefaultSearchURL 官方 Web 检索端点
const DefaultSearchURL = "https://ollama.com/api/web_search"

const maxBodySize = 512 * 1024

// Client Ollama Web Search 客户端，对固定端点发起一次带凭据的检索。
// 需要 API Key，由工厂保证；没有凭据时本层级整体禁用。
type Client struct {
	apiKey    string
	searchURL string
	client    *http.Client
}

// NewClient 创建客户端，searchURL 为空时使用官方端点
func NewClient(apiKey, searchURL string, timeout time.Duration) *Client {
	if searchURL == "" {
		searchURL = DefaultSearchURL
	}
	return &Client{
		apiKey:    apiKey,
		searchURL: searchURL,
		client:    &http.Client{Timeout: timeout},
	}
}

// Ensure Client implements search.Adapter
var _ search.Adapter = (*Client)(nil)

// Name implements search.Adapter
func (c *Client) Name() string { return "ollama_web" }

// searchRequest 官方端点请求体
type searchRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results,omitempty"`
}

// Search implements search.Adapter
func (c *Client) Search(ctx context.Context, q search.Query) []search.Result {
	results, err := c.doSearch(ctx, q)
	if err != nil {
		logger.Log.Debugf("ollama_web 检索失败: %v", err)
		return nil
	}
	return results
}

func (c *Client) doSearch(ctx context.Context, q search.Query) ([]search.Result, error) {
	payload, err := json.Marshal(searchRequest{Query: q.Text, MaxResults: q.MaxResults})
	if err != nil {
		return nil, fmt.Errorf("marshal request failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.searchURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Ollama-Api-Key", c.apiKey)
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", search.UserAgent)

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body failed: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		if search.QuotaExhausted(res.StatusCode) {
			logger.Log.Warnf("ollama_web 配额或鉴权受限 (status %d)", res.StatusCode)
		}
		return nil, fmt.Errorf("ollama web search error (status %d)", res.StatusCode)
	}
	return search.Normalize(body), nil
}

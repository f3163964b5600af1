package brave

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/iWorld-y/ai_news_daily/internal/logger"
	"github.com/iWorld-y/ai_news_daily/internal/search"
)

const defaultBaseURL = "https://api.search.brave.com/res/v1/web/search"

// Client Brave Search API 客户端
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient 创建一个新的 Brave 客户端
func NewClient(apiKey string, timeout time.Duration) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Ensure Client implements search.Adapter
var _ search.Adapter = (*Client)(nil)

// Name implements search.Adapter
func (c *Client) Name() string { return "brave" }

// searchResponse Brave 搜索响应
type searchResponse struct {
	Web struct {
		Results []resultItem `json:"results"`
	} `json:"web"`
}

type resultItem struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// Search implements search.Adapter
func (c *Client) Search(ctx context.Context, q search.Query) []search.Result {
	results, err := c.doSearch(ctx, q)
	if err != nil {
		logger.Log.Debugf("后端 brave 检索失败: %v", err)
		return nil
	}
	return results
}

func (c *Client) doSearch(ctx context.Context, q search.Query) ([]search.Result, error) {
	vals := url.Values{}
	vals.Set("q", q.Text)
	vals.Set("count", strconv.Itoa(q.MaxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+vals.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("X-Subscription-Token", c.apiKey)
	req.Header.Set("Accept", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read body failed: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		if search.QuotaExhausted(res.StatusCode) {
			logger.Log.Warnf("brave 配额或鉴权受限 (status %d)", res.StatusCode)
		}
		return nil, fmt.Errorf("brave api error (status %d): %s", res.StatusCode, string(body))
	}

	var searchResp searchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, fmt.Errorf("unmarshal response failed: %w", err)
	}

	results := make([]search.Result, 0, len(searchResp.Web.Results))
	for _, item := range searchResp.Web.Results {
		if item.URL == "" {
			continue
		}
		results = append(results, search.Result{
			Title:   item.Title,
			URL:     item.URL,
			Content: item.Description,
		})
	}
	return results, nil
}

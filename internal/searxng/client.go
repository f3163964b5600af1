package searxng

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/iWorld-y/ai_news_daily/internal/logger"
	"github.com/iWorld-y/ai_news_daily/internal/search"
)

// Client SearXNG API 客户端，指向自建实例
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient 创建一个新的 SearXNG 客户端
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Ensure Client implements search.Adapter
var _ search.Adapter = (*Client)(nil)

// Name implements search.Adapter
func (c *Client) Name() string { return "searxng" }

// SearchResponse SearXNG 响应结构
type SearchResponse struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
}

// SearchResult SearXNG 单条结果
type SearchResult struct {
	Title         string  `json:"title"`
	URL           string  `json:"url"`
	Content       string  `json:"content"`
	PublishedDate string  `json:"publishedDate"` // 注意: 字段名可能因版本而异，SearXNG 通常使用 publishedDate
	Score         float64 `json:"score"`
}

// Search implements search.Adapter
func (c *Client) Search(ctx context.Context, q search.Query) []search.Result {
	resp, err := c.doSearch(ctx, q)
	if err != nil {
		logger.Log.Debugf("后端 searxng 检索失败: %v", err)
		return nil
	}

	results := make([]search.Result, 0, len(resp.Results))
	for _, item := range resp.Results {
		if item.URL == "" {
			continue
		}
		results = append(results, search.Result{
			Title:   item.Title,
			URL:     item.URL,
			Content: item.Content,
		})
		if len(results) >= q.MaxResults {
			break
		}
	}
	return results
}

// doSearch 执行搜索
func (c *Client) doSearch(ctx context.Context, query search.Query) (*SearchResponse, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	u.Path = "/search"

	q := u.Query()
	q.Set("q", query.Text)
	q.Set("format", "json")
	q.Set("categories", "news")
	u.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}

	// 添加 User-Agent 避免被简单的反爬虫策略拦截
	httpReq.Header.Set("User-Agent", search.UserAgent)

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("searxng api error (status %d): %s", res.StatusCode, string(body))
	}

	var searchResp SearchResponse
	if err := json.NewDecoder(res.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("decode response failed: %w", err)
	}

	return &searchResp, nil
}

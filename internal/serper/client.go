package serper

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

const (
	defaultSearchURL = "https://google.serper.dev/search"
	defaultNewsURL   = "https://google.serper.dev/news"
)

// Client Serper API 客户端
type Client struct {
	apiKey    string
	searchURL string
	newsURL   string
	client    *http.Client
}

// NewClient 创建一个新的 Serper 客户端
func NewClient(apiKey string, timeout time.Duration) *Client {
	return &Client{
		apiKey:    apiKey,
		searchURL: defaultSearchURL,
		newsURL:   defaultNewsURL,
		client:    &http.Client{Timeout: timeout},
	}
}

// Ensure Client implements search.Adapter
var _ search.Adapter = (*Client)(nil)

// Name implements search.Adapter
func (c *Client) Name() string { return "serper" }

// searchRequest Serper 搜索请求参数
type searchRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num"`
}

// resultItem organic 与 news 两个接口共用的条目结构
type resultItem struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

type searchResponse struct {
	Organic []resultItem `json:"organic"`
}

type newsResponse struct {
	News []resultItem `json:"news"`
}

// Search implements search.Adapter。
// 先查网页接口，数量不足时再用新闻接口补齐。
func (c *Client) Search(ctx context.Context, q search.Query) []search.Result {
	results, err := c.doSearch(ctx, q)
	if err != nil {
		logger.Log.Debugf("后端 serper 检索失败: %v", err)
		return nil
	}
	return results
}

func (c *Client) doSearch(ctx context.Context, q search.Query) ([]search.Result, error) {
	var webResp searchResponse
	if err := c.post(ctx, c.searchURL, q, &webResp); err != nil {
		return nil, err
	}
	results := collectItems(nil, webResp.Organic, q.MaxResults)

	if len(results) < q.MaxResults {
		var nResp newsResponse
		if err := c.post(ctx, c.newsURL, q, &nResp); err == nil {
			results = collectItems(results, nResp.News, q.MaxResults)
		}
	}
	return results, nil
}

func (c *Client) post(ctx context.Context, rawURL string, q search.Query, out any) error {
	payload, err := json.Marshal(searchRequest{Q: q.Text, Num: q.MaxResults})
	if err != nil {
		return fmt.Errorf("marshal request failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("read body failed: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		if search.QuotaExhausted(res.StatusCode) {
			logger.Log.Warnf("serper 配额或鉴权受限 (status %d)", res.StatusCode)
		}
		return fmt.Errorf("serper api error (status %d): %s", res.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unmarshal response failed: %w", err)
	}
	return nil
}

// collectItems 把接口条目追加到结果中，跳过空链接并限量
func collectItems(dst []search.Result, items []resultItem, max int) []search.Result {
	for _, item := range items {
		if len(dst) >= max {
			break
		}
		if item.Link == "" {
			continue
		}
		dst = append(dst, search.Result{
			Title:   item.Title,
			URL:     item.Link,
			Content: item.Snippet,
		})
	}
	return dst
}

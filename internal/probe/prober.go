package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/iWorld-y/ai_news_daily/internal/logger"
	"github.com/iWorld-y/ai_news_daily/internal/search"
)

const maxBodySize = 512 * 1024

// errQuotaExhausted 配额或鉴权已耗尽，应放弃本层级剩余组合
var errQuotaExhausted = errors.New("quota or auth exhausted")

// defaultBases 端点探测的候选 base，配置的覆盖值排在最前
var defaultBases = []string{
	"https://api.ollama.com",
	"https://api.ollama.ai",
	"https://cloud.ollama.com",
	"http://localhost:11434",
}

// searchPaths 候选路径后缀，按命中可能性排序
var searchPaths = []string{
	"/web/search", "/api/web/search",
	"/web_search", "/api/web_search",
	"/search", "/api/search",
	"/v1/web/search", "/api/v1/web/search",
	"/v1/search", "/api/v1/search",
}

// paramShape 一种参数命名形态：查询词键名加条数键名。
// 目标端点的参数命名没有文档可循，只能按固定顺序逐一试探。
type paramShape struct {
	queryKey  string
	countKeys []string
}

var getShapes = []paramShape{
	{queryKey: "q", countKeys: []string{"k"}},
	{queryKey: "query", countKeys: []string{"k"}},
	{queryKey: "q", countKeys: []string{"limit"}},
	{queryKey: "query", countKeys: []string{"max_results"}},
}

var postShapes = []paramShape{
	{queryKey: "q", countKeys: []string{"k"}},
	{queryKey: "query", countKeys: []string{"k"}},
	{queryKey: "q", countKeys: []string{"limit"}},
	{queryKey: "query", countKeys: []string{"max_results"}},
	{queryKey: "q", countKeys: []string{"limit", "max_results"}},
}

// Prober 对候选 base×path 组合探测未公开的检索端点：
// 每个 URL 先试四种 GET 参数形态，再试五种 POST 形态，
// 任一组合返回 200 且能规整出至少一条记录即命中。
// 收到 401/402/403/429 时立刻放弃本层级全部剩余组合。
type Prober struct {
	apiKey string
	bases  []string
	client *http.Client
}

// NewProber 创建探测器，baseOverride 非空时作为首选 base
func NewProber(apiKey, baseOverride string, timeout time.Duration) *Prober {
	var bases []string
	if b := strings.TrimRight(strings.TrimSpace(baseOverride), "/"); b != "" {
		bases = append(bases, b)
	}
	bases = append(bases, defaultBases...)
	return &Prober{
		apiKey: apiKey,
		bases:  bases,
		client: &http.Client{Timeout: timeout},
	}
}

// Ensure Prober implements search.Adapter
var _ search.Adapter = (*Prober)(nil)

// Name implements search.Adapter
func (p *Prober) Name() string { return "probe" }

// Search implements search.Adapter
func (p *Prober) Search(ctx context.Context, q search.Query) []search.Result {
	for _, base := range p.bases {
		for _, path := range searchPaths {
			results, err := p.probeURL(ctx, base+path, q)
			if err != nil {
				logger.Log.Warnf("端点探测放弃剩余组合: %v", err)
				return nil
			}
			if len(results) > 0 {
				logger.Log.Debugf("端点探测命中 %s%s", base, path)
				return results
			}
		}
	}
	return nil
}

// probeURL 对单个 URL 依次尝试全部参数形态，每种形态至多一次
func (p *Prober) probeURL(ctx context.Context, rawURL string, q search.Query) ([]search.Result, error) {
	for _, shape := range getShapes {
		results, err := p.attempt(ctx, http.MethodGet, rawURL, shape, q)
		if err != nil {
			return nil, err
		}
		if len(results) > 0 {
			return results, nil
		}
	}
	for _, shape := range postShapes {
		results, err := p.attempt(ctx, http.MethodPost, rawURL, shape, q)
		if err != nil {
			return nil, err
		}
		if len(results) > 0 {
			return results, nil
		}
	}
	return nil, nil
}

// attempt 发起一次探测。传输、状态、解码失败都只作废本次组合，
// 仅配额类状态码以错误形式上抛以终止整个层级。
func (p *Prober) attempt(ctx context.Context, method, rawURL string, shape paramShape, q search.Query) ([]search.Result, error) {
	var req *http.Request
	var err error
	switch method {
	case http.MethodGet:
		vals := url.Values{}
		vals.Set(shape.queryKey, q.Text)
		for _, k := range shape.countKeys {
			vals.Set(k, strconv.Itoa(q.MaxResults))
		}
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, rawURL+"?"+vals.Encode(), nil)
	default:
		body := map[string]any{shape.queryKey: q.Text}
		for _, k := range shape.countKeys {
			body[k] = q.MaxResults
		}
		payload, merr := json.Marshal(body)
		if merr != nil {
			return nil, nil
		}
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(payload))
		if req != nil {
			req.Header.Set("Content-Type", "application/json")
		}
	}
	if err != nil {
		return nil, nil
	}

	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
		req.Header.Set("Ollama-Api-Key", p.apiKey)
		req.Header.Set("X-API-Key", p.apiKey)
	}
	req.Header.Set("Accept", "application/json,text/plain,*/*")
	req.Header.Set("User-Agent", search.UserAgent)

	res, err := p.client.Do(req)
	if err != nil {
		return nil, nil
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return nil, nil
	}
	if res.StatusCode != http.StatusOK {
		if search.QuotaExhausted(res.StatusCode) {
			return nil, fmt.Errorf("%w: %s 返回 %d", errQuotaExhausted, rawURL, res.StatusCode)
		}
		return nil, nil
	}
	return search.Normalize(body), nil
}

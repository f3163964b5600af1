// Package engine 串联检索、缓存与叙事生成的完整流水线
package engine

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/go-shiori/go-readability"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/ai_news_daily/internal/compose"
	"github.com/iWorld-y/ai_news_daily/internal/config"
	"github.com/iWorld-y/ai_news_daily/internal/logger"
	"github.com/iWorld-y/ai_news_daily/internal/search"
	"github.com/iWorld-y/ai_news_daily/internal/search/factory"
)

// 结果条数的允许区间，越界的请求值会被钳制
const (
	MinResults     = 5
	MaxResults     = 50
	DefaultResults = 20
)

// 抓取全文时的截断上限
const maxFetchedChars = 6000

// Report 状态值
const (
	StatusOK    = "ok"
	StatusEmpty = "empty"
)

// fetchFunc 全文抓取函数，测试中可替换
type fetchFunc func(pageURL string, timeout time.Duration) (readability.Article, error)

// Engine 一次生成请求的执行者：检索、缓存、成文
type Engine struct {
	cfg      *config.Config
	resolver *search.Resolver
	cache    *search.Cache
	composer *compose.Composer
	fetch    fetchFunc
}

// NewEngine 按配置装配流水线
func NewEngine(ctx context.Context, cfg *config.Config) (*Engine, error) {
	adapters := factory.NewAdapters(cfg)
	if len(adapters) == 0 {
		return nil, fmt.Errorf("没有可用的检索后端")
	}
	logger.Log.Infof("检索后端链已就绪，共 %d 层", len(adapters))

	temperature := cfg.LLM.Temperature
	maxTokens := cfg.LLM.MaxTokens
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL:     cfg.LLM.BaseURL,
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}

	limit := rate.Limit(float64(cfg.Concurrency.RPM) / 60.0)
	limiter := rate.NewLimiter(limit, cfg.Concurrency.QPS)

	return &Engine{
		cfg:      cfg,
		resolver: search.NewResolver(adapters),
		cache:    search.NewCache(time.Duration(cfg.Search.CacheTTL) * time.Second),
		composer: compose.NewComposer(chatModel, cfg.LLM.Model, limiter),
		fetch:    fetchReadable,
	}, nil
}

// fetchReadable 默认的全文抓取实现
func fetchReadable(pageURL string, timeout time.Duration) (readability.Article, error) {
	return readability.FromURL(pageURL, timeout)
}

// GenerateRequest 一次文章生成请求
type GenerateRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
	Date       string `json:"date"` // 2006-01-02，空则用今天
}

// Report 生成结果
type Report struct {
	RunID   string          `json:"run_id"`
	Query   string          `json:"query"`
	Date    string          `json:"date"`
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Sources []search.Result `json:"sources"`
	Article string          `json:"article"`
}

// DefaultQuery 未指定检索词时的默认查询，带当天日期
func DefaultQuery(now time.Time) string {
	return "AI news artificial intelligence latest " + now.Format(time.DateOnly)
}

// Search 带缓存的检索：命中直接返回，未命中走后端链并回填。
// 空结果同样回填，避免在 TTL 内反复打一遍全部后端。
func (e *Engine) Search(ctx context.Context, q search.Query) []search.Result {
	if results, ok := e.cache.Get(q); ok {
		logger.Log.Debugf("检索缓存命中: %q", q.Text)
		return results
	}
	results := search.Collect(e.resolver.Resolve(ctx, q), q.MaxResults)
	e.cache.Put(q, results)
	return results
}

// Generate 执行一次完整的文章生成
func (e *Engine) Generate(ctx context.Context, req GenerateRequest) *Report {
	now := time.Now()
	query := strings.TrimSpace(req.Query)
	if query == "" {
		query = DefaultQuery(now)
	}
	displayDate := formatDisplayDate(req.Date, now)

	report := &Report{
		RunID: uuid.NewString(),
		Query: query,
		Date:  displayDate,
	}

	sources := e.Search(ctx, search.Query{Text: query, MaxResults: clampResults(req.MaxResults)})
	if len(sources) == 0 {
		report.Status = StatusEmpty
		report.Message = "分析対象となるニュースソースが見つかりませんでした。"
		return report
	}
	report.Message = fmt.Sprintf("%d件の検索結果を取得しました", len(sources))

	if e.cfg.Compose.FetchFullText {
		// 缓存持有同一底层数组，改写正文前先复制
		sources = slices.Clone(sources)
		e.enrich(sources)
	}
	report.Sources = sources
	report.Article = e.composer.Compose(ctx, sources, displayDate)
	report.Status = StatusOK
	return report
}

// enrich 对正文过短的来源抓取可读全文，失败保留原摘要
func (e *Engine) enrich(sources []search.Result) {
	timeout := time.Duration(e.cfg.Search.Timeout) * time.Second
	for i := range sources {
		if len(sources[i].Content) >= e.cfg.Compose.MinContentChars {
			continue
		}
		article, err := e.fetch(sources[i].URL, timeout)
		if err != nil {
			logger.Log.Debugf("抓取全文失败 %s: %v", sources[i].URL, err)
			continue
		}
		text := strings.TrimSpace(article.TextContent)
		if len(text) > maxFetchedChars {
			text = text[:maxFetchedChars]
		}
		if len(text) > len(sources[i].Content) {
			sources[i].Content = text
		}
	}
}

func clampResults(n int) int {
	switch {
	case n == 0:
		return DefaultResults
	case n < MinResults:
		return MinResults
	case n > MaxResults:
		return MaxResults
	}
	return n
}

func formatDisplayDate(date string, now time.Time) string {
	if date == "" {
		return now.Format(compose.DisplayDateFormat)
	}
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		logger.Log.Warnf("日期格式无效 %q，使用今天", date)
		return now.Format(compose.DisplayDateFormat)
	}
	return t.Format(compose.DisplayDateFormat)
}

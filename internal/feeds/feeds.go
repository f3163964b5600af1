// Package feeds 提供基于新闻 RSS 的免密钥检索后端
package feeds

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/iWorld-y/ai_news_daily/internal/logger"
	"github.com/iWorld-y/ai_news_daily/internal/search"
)

// Feed 单个 RSS 检索后端，URL 构造方式由创建函数决定
type Feed struct {
	name     string
	buildURL func(q search.Query) string
	parser   *gofeed.Parser
}

func newFeed(name string, buildURL func(q search.Query) string, timeout time.Duration) *Feed {
	parser := gofeed.NewParser()
	parser.UserAgent = search.UserAgent
	parser.Client = &http.Client{Timeout: timeout}
	return &Feed{name: name, buildURL: buildURL, parser: parser}
}

// NewGoogleNews 创建 Google News RSS 后端，检索近七天的新闻
func NewGoogleNews(timeout time.Duration) *Feed {
	return newFeed("google_news", func(q search.Query) string {
		vals := url.Values{}
		vals.Set("q", q.Text+" when:7d")
		vals.Set("hl", "en-US")
		vals.Set("gl", "US")
		vals.Set("ceid", "US:en")
		return "https://news.google.com/rss/search?" + vals.Encode()
	}, timeout)
}

// NewBingNews 创建 Bing News RSS 后端
func NewBingNews(timeout time.Duration) *Feed {
	return newFeed("bing_news", func(q search.Query) string {
		vals := url.Values{}
		vals.Set("q", q.Text)
		vals.Set("format", "rss")
		return "https://www.bing.com/news/search?" + vals.Encode()
	}, timeout)
}

// Ensure Feed implements search.Adapter
var _ search.Adapter = (*Feed)(nil)

// Name implements search.Adapter
func (f *Feed) Name() string { return f.name }

// Search implements search.Adapter
func (f *Feed) Search(ctx context.Context, q search.Query) []search.Result {
	feedURL := f.buildURL(q)
	feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		logger.Log.Debugf("后端 %s 拉取失败: %v", f.name, err)
		return nil
	}

	results := make([]search.Result, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item.Link == "" {
			continue
		}
		content := item.Description
		if content == "" {
			content = item.Content
		}
		results = append(results, search.Result{
			Title:   item.Title,
			URL:     item.Link,
			Content: content,
		})
		if len(results) >= q.MaxResults {
			break
		}
	}
	return results
}

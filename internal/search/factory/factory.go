// Package factory 根据配置组装检索后端的优先级列表
package factory

import (
	"time"

	"github.com/iWorld-y/ai_news_daily/internal/bing"
	"github.com/iWorld-y/ai_news_daily/internal/brave"
	"github.com/iWorld-y/ai_news_daily/internal/config"
	"github.com/iWorld-y/ai_news_daily/internal/feeds"
	"github.com/iWorld-y/ai_news_daily/internal/logger"
	"github.com/iWorld-y/ai_news_daily/internal/ollamaweb"
	"github.com/iWorld-y/ai_news_daily/internal/probe"
	"github.com/iWorld-y/ai_news_daily/internal/search"
	"github.com/iWorld-y/ai_news_daily/internal/searxng"
	"github.com/iWorld-y/ai_news_daily/internal/serper"
	"github.com/iWorld-y/ai_news_daily/internal/tavily"
)

// DefaultTiers 后端默认优先级，免密钥层级保证链条永不为空
var DefaultTiers = []string{
	"ollama_web", "probe",
	"google_news", "bing_news",
	"serper", "brave", "bing",
	"tavily", "searxng",
}

// NewAdapters 按配置顺序创建后端实例，缺少凭据的层级直接跳过
func NewAdapters(cfg *config.Config) []search.Adapter {
	tiers := cfg.Search.Tiers
	if len(tiers) == 0 {
		tiers = DefaultTiers
	}
	timeout := time.Duration(cfg.Search.Timeout) * time.Second

	var adapters []search.Adapter
	for _, tier := range tiers {
		a := newAdapter(tier, cfg, timeout)
		if a == nil {
			continue
		}
		adapters = append(adapters, a)
	}
	return adapters
}

func newAdapter(tier string, cfg *config.Config, timeout time.Duration) search.Adapter {
	sc := cfg.Search
	switch tier {
	case "ollama_web":
		if sc.Ollama.APIKey == "" {
			logger.Log.Debugf("后端 ollama_web 未配置 API Key，跳过")
			return nil
		}
		return ollamaweb.NewClient(sc.Ollama.APIKey, sc.Ollama.SearchURL, timeout)

	case "probe":
		override := sc.Ollama.BaseURL
		if override == "" {
			override = sc.Ollama.Host
		}
		return probe.NewProber(sc.Ollama.APIKey, override, timeout)

	case "google_news":
		return feeds.NewGoogleNews(timeout)

	case "bing_news":
		return feeds.NewBingNews(timeout)

	case "serper":
		if sc.Serper.APIKey == "" {
			logger.Log.Debugf("后端 serper 未配置 API Key，跳过")
			return nil
		}
		return serper.NewClient(sc.Serper.APIKey, timeout)

	case "brave":
		if sc.Brave.APIKey == "" {
			logger.Log.Debugf("后端 brave 未配置 API Key，跳过")
			return nil
		}
		return brave.NewClient(sc.Brave.APIKey, timeout)

	case "bing":
		if sc.Bing.APIKey == "" {
			logger.Log.Debugf("后端 bing 未配置 API Key，跳过")
			return nil
		}
		return bing.NewClient(sc.Bing.APIKey, timeout)

	case "tavily":
		if sc.Tavily.APIKey == "" {
			logger.Log.Debugf("后端 tavily 未配置 API Key，跳过")
			return nil
		}
		return tavily.NewClient(sc.Tavily.APIKey, timeout)

	case "searxng":
		if sc.SearXNG.BaseURL == "" {
			logger.Log.Debugf("后端 searxng 未配置 base url，跳过")
			return nil
		}
		t := timeout
		if sc.SearXNG.Timeout > 0 {
			t = time.Duration(sc.SearXNG.Timeout) * time.Second
		}
		return searxng.NewClient(sc.SearXNG.BaseURL, t)

	default:
		logger.Log.Warnf("未知检索后端 %q，已忽略", tier)
		return nil
	}
}

package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config 项目配置结构体，加载完成后只读
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	LLM         LLMConfig         `yaml:"llm"`
	Search      SearchConfig      `yaml:"search"`
	Compose     ComposeConfig     `yaml:"compose"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Log         LogConfig         `yaml:"log"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Addr    string `yaml:"addr"`
	Timeout string `yaml:"timeout"` // Go duration 格式，如 300s
}

// LLMConfig 本地 LLM（OpenAI 兼容端点）配置
type LLMConfig struct {
	BaseURL     string  `yaml:"base_url"`
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// SearchConfig 检索层配置
type SearchConfig struct {
	// Tiers 后端优先级列表，空时使用默认顺序；缺少凭据的后端由工厂跳过
	Tiers    []string      `yaml:"tiers"`
	Timeout  int           `yaml:"timeout"`   // 单次网络调用超时（秒）
	CacheTTL int           `yaml:"cache_ttl"` // 检索结果缓存时长（秒）
	Ollama   OllamaConfig  `yaml:"ollama"`
	Serper   KeyConfig     `yaml:"serper"`
	Brave    KeyConfig     `yaml:"brave"`
	Bing     KeyConfig     `yaml:"bing"`
	Tavily   KeyConfig     `yaml:"tavily"`
	SearXNG  SearXNGConfig `yaml:"searxng"`
}

// OllamaConfig Ollama Web 检索相关配置
type OllamaConfig struct {
	APIKey    string `yaml:"api_key"`
	SearchURL string `yaml:"search_url"` // 固定检索端点，空时用官方端点
	BaseURL   string `yaml:"base_url"`   // 探测候选的首选 base
	Host      string `yaml:"host"`
}

// KeyConfig 只需要一个 API Key 的后端配置
type KeyConfig struct {
	APIKey string `yaml:"api_key"`
}

// SearXNGConfig SearXNG 实例配置
type SearXNGConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout int    `yaml:"timeout"`
}

// ComposeConfig 叙事生成配置
type ComposeConfig struct {
	// FetchFullText 开启后对过短的正文抓取可读全文
	FetchFullText   bool `yaml:"fetch_full_text"`
	MinContentChars int  `yaml:"min_content_chars"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ConcurrencyConfig 并发控制配置
type ConcurrencyConfig struct {
	QPS int `yaml:"qps"`
	RPM int `yaml:"rpm"`
}

// Default 返回内建默认配置
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:    ":8080",
			Timeout: "300s",
		},
		LLM: LLMConfig{
			BaseURL:     "http://localhost:11434/v1",
			APIKey:      "ollama",
			Model:       "gemma3:4b",
			Temperature: 0.8,
			MaxTokens:   8000,
		},
		Search: SearchConfig{
			Timeout:  30,
			CacheTTL: 1800,
		},
		Compose: ComposeConfig{
			MinContentChars: 200,
		},
		Concurrency: ConcurrencyConfig{
			QPS: 2,
			RPM: 60,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig 从指定路径加载配置并套用环境变量覆盖；path 为空时仅用默认值
func LoadConfig(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv 环境变量优先于配置文件，便于只传凭据启动
func (c *Config) applyEnv() {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.Search.Ollama.APIKey, "OLLAMA_API_KEY")
	set(&c.Search.Ollama.SearchURL, "OLLAMA_WEB_SEARCH_URL")
	set(&c.Search.Ollama.BaseURL, "OLLAMA_WEB_BASE_URL")
	set(&c.Search.Ollama.Host, "OLLAMA_HOST")
	set(&c.Search.Serper.APIKey, "SERPER_API_KEY")
	set(&c.Search.Brave.APIKey, "BRAVE_API_KEY")
	set(&c.Search.Bing.APIKey, "BING_SUBSCRIPTION_KEY")
	set(&c.Search.Tavily.APIKey, "TAVILY_API_KEY")
	set(&c.Search.SearXNG.BaseURL, "SEARXNG_BASE_URL")
}

func (c *Config) validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server addr is missing")
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm model is missing")
	}
	if c.Search.Timeout <= 0 {
		return fmt.Errorf("search timeout must be positive")
	}
	return nil
}

package server

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"io"
	nethttp "net/http"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/iWorld-y/ai_news_daily/internal/config"
	"github.com/iWorld-y/ai_news_daily/internal/engine"
)

//go:embed assets/*
var assets embed.FS

// maxRequestBody 请求体上限，防止超大 JSON
const maxRequestBody = 1 << 20

// resultStep 页面滑块的步长
const resultStep = 5

// Generator 文章生成入口，由 engine.Engine 实现
type Generator interface {
	Generate(ctx context.Context, req engine.GenerateRequest) *engine.Report
}

// NewHTTPServer 创建仪表盘 HTTP 服务
func NewHTTPServer(c *config.ServerConfig, gen Generator, logger log.Logger) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
		),
	}
	if c.Addr != "" {
		opts = append(opts, http.Address(c.Addr))
	}
	if c.Timeout != "" {
		if d, err := time.ParseDuration(c.Timeout); err == nil {
			opts = append(opts, http.Timeout(d))
		}
	}

	srv := http.NewServer(opts...)

	h := &handlers{
		gen: gen,
		log: log.NewHelper(logger),
		md:  goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
	srv.HandleFunc("/", h.index)
	srv.HandleFunc("/api/defaults", h.defaults)
	srv.HandleFunc("/api/generate", h.generate)

	return srv
}

type handlers struct {
	gen Generator
	log *log.Helper
	md  goldmark.Markdown
}

// generateResponse 在 Report 基础上附加渲染好的 HTML
type generateResponse struct {
	*engine.Report
	ArticleHTML string `json:"article_html"`
}

func (h *handlers) index(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.URL.Path != "/" {
		nethttp.NotFound(w, r)
		return
	}
	content, _ := assets.ReadFile("assets/index.html")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(content)
}

// defaults 返回页面初始化需要的默认参数
func (h *handlers) defaults(w nethttp.ResponseWriter, r *nethttp.Request) {
	now := time.Now()
	writeJSON(w, nethttp.StatusOK, map[string]any{
		"query":       engine.DefaultQuery(now),
		"date":        now.Format(time.DateOnly),
		"max_results": engine.DefaultResults,
		"min":         engine.MinResults,
		"max":         engine.MaxResults,
		"step":        resultStep,
	})
}

func (h *handlers) generate(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.Method != nethttp.MethodPost {
		writeJSON(w, nethttp.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req engine.GenerateRequest
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err == nil && len(body) > 0 {
		err = json.Unmarshal(body, &req)
	}
	if err != nil {
		writeJSON(w, nethttp.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	report := h.gen.Generate(r.Context(), req)
	h.log.Infof("generate done: run_id=%s status=%s sources=%d", report.RunID, report.Status, len(report.Sources))

	resp := generateResponse{Report: report}
	if report.Article != "" {
		var buf bytes.Buffer
		if err := h.md.Convert([]byte(report.Article), &buf); err != nil {
			h.log.Warnf("markdown render failed: %v", err)
		} else {
			resp.ArticleHTML = buf.String()
		}
	}
	writeJSON(w, nethttp.StatusOK, resp)
}

func writeJSON(w nethttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

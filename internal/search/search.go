package search

import (
	"context"
	"net/http"
)

// UserAgent 所有 HTTP 后端统一携带的 UA
const UserAgent = "Mozilla/5.0 (compatible; AI-News-Dashboard/1.0)"

// Adapter 定义单一后端的检索接口。
// 适配器从不向调用方返回错误：传输失败、非 200 状态、解码失败
// 一律降级为空结果，并由适配器自行记录日志。
type Adapter interface {
	// Name 返回后端名称，用于配置排序与日志
	Name() string
	// Search 对本后端发起一次检索，空切片表示无结果
	Search(ctx context.Context, q Query) []Result
}

// Query 一次检索请求，发出后不可变
type Query struct {
	Text       string
	MaxResults int
}

// Result 规范化后的单条检索结果。
// URL 是唯一身份键：两条结果的 URL 字节相等即视为重复。
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// QuotaExhausted 判断状态码是否表示配额或鉴权已耗尽。
// 探测类后端命中后应放弃本层级剩余的 URL/参数组合。
func QuotaExhausted(status int) bool {
	switch status {
	case http.StatusUnauthorized,
		http.StatusPaymentRequired,
		http.StatusForbidden,
		http.StatusTooManyRequests:
		return true
	}
	return false
}
